package reconcile

import (
	"testing"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

func TestRemovingCheckedResetsRuntimeState(t *testing.T) {
	doc, root := newTestRoot(t)
	mustRender(t, root, vdom.Input(vdom.Type("checkbox"), vdom.Checked(true)))
	input := doc.Body().FirstChild()
	if got := input.Property("checked"); got != true {
		t.Fatalf("checked = %v after mount, want true", got)
	}

	mustRender(t, root, vdom.Input(vdom.Type("checkbox")))

	if got := input.Property("checked"); got != false {
		t.Errorf("checked = %v, want false", got)
	}
	if input.HasAttribute("checked") {
		t.Error("checked attribute is present")
	}
}

func TestRemovingValueResetsRuntimeState(t *testing.T) {
	doc, root := newTestRoot(t)
	mustRender(t, root, vdom.Input(vdom.Value("typed")))
	input := doc.Body().FirstChild()

	mustRender(t, root, vdom.Input())

	if got := input.Property("value"); got != "" {
		t.Errorf("value = %q, want empty", got)
	}
}

func TestDiffHostProps(t *testing.T) {
	noop := func() {}
	tests := []struct {
		name      string
		prev      vdom.Props
		next      vdom.Props
		attr      string
		wantValue string
		wantSet   bool
	}{
		{"className maps to class", nil, vdom.Props{"className": "a b"}, "class", "a b", true},
		{"htmlFor maps to for", nil, vdom.Props{"htmlFor": "x"}, "for", "x", true},
		{"tabIndex uses the attribute", nil, vdom.Props{"tabIndex": 2}, "tabindex", "2", true},
		{"popover true is presence only", nil, vdom.Props{"popover": true}, "popover", "", true},
		{"false removes boolean attribute", vdom.Props{"hidden": true}, vdom.Props{"hidden": false}, "hidden", "", false},
		{"data attribute keeps booleans", nil, vdom.Props{"data-open": false}, "data-open", "false", true},
		{"function is never an attribute", nil, vdom.Props{"onclick": noop}, "onclick", "", false},
		{"style object serializes", nil, vdom.Props{"style": vdom.Styles{"fontSize": 12, "zIndex": 3}}, "style", "font-size: 12px; z-index: 3;", true},
		{"removed prop removes attribute", vdom.Props{"title": "t"}, vdom.Props{}, "title", "", false},
		{"reserved props are skipped", nil, vdom.Props{"key": "k", "css": vdom.Styles{"color": "red"}}, "css", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, root := newTestRoot(t)
			el := doc.CreateElement("label")
			root.diffHostProps(el, nil, tt.prev, false, false)
			root.diffHostProps(el, tt.prev, tt.next, false, false)

			got, ok := el.GetAttribute(tt.attr)
			if ok != tt.wantSet {
				t.Fatalf("attribute %q present = %v, want %v", tt.attr, ok, tt.wantSet)
			}
			if ok && got != tt.wantValue {
				t.Errorf("attribute %q = %q, want %q", tt.attr, got, tt.wantValue)
			}
		})
	}
}

func TestHydratingPropsSkipsEqualValues(t *testing.T) {
	doc, err := dom.ParseHTMLString(`<html><body><input id="a" class="c" value="v" disabled></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	input := doc.Body().FirstChild()
	_, root := newTestRoot(t)
	doc.ResetStats()

	root.diffHostProps(input, nil, vdom.Props{
		"id":        "a",
		"className": "c",
		"value":     "v",
		"disabled":  true,
	}, false, true)

	if got := doc.Stats(); got.Mutations() != 0 {
		t.Errorf("hydration wrote equal props: %+v", got)
	}
}
