package vdom

import (
	"testing"

	"github.com/vango-dev/rmx/pkg/dom"
)

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindHost {
			t.Errorf("Kind = %v, want Host", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("with attributes", func(t *testing.T) {
		node := Div(Class("card", "wide"), ID("main"))
		if node.Props["className"] != "card wide" {
			t.Errorf("className = %v, want %q", node.Props["className"], "card wide")
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
	})

	t.Run("string and node children", func(t *testing.T) {
		node := Div("hello", P(Text("world")), nil)
		if len(node.Children) != 2 {
			t.Fatalf("Children len = %v, want 2", len(node.Children))
		}
		if node.Children[0].Kind != KindText || node.Children[0].Text != "hello" {
			t.Errorf("first child = %+v, want text hello", node.Children[0])
		}
		if node.Children[1].Tag != "p" {
			t.Errorf("second child tag = %v, want p", node.Children[1].Tag)
		}
	})

	t.Run("slice children", func(t *testing.T) {
		items := []string{"a", "b", "c"}
		node := Ul(Range(items, func(s string, _ int) *Node {
			return Li(Key(s), s)
		}))
		if len(node.Children) != 3 {
			t.Fatalf("Children len = %v, want 3", len(node.Children))
		}
		for i, want := range items {
			if node.Children[i].Key != want {
				t.Errorf("child %d key = %q, want %q", i, node.Children[i].Key, want)
			}
		}
	})

	t.Run("key is not a prop", func(t *testing.T) {
		node := Li(Key(3))
		if node.Key != "3" {
			t.Errorf("Key = %q, want 3", node.Key)
		}
		if _, ok := node.Props[PropKey]; ok {
			t.Error("key should not be stored in props")
		}
	})

	t.Run("empty attrs are ignored", func(t *testing.T) {
		node := Div(ClassIf(false, "active"), AttrIf(false, ID("x")))
		if len(node.Props) != 0 {
			t.Errorf("Props = %v, want empty", node.Props)
		}
	})

	t.Run("props map", func(t *testing.T) {
		node := Input(Props{"type": "checkbox", "checked": true})
		if node.Props["type"] != "checkbox" || node.Props["checked"] != true {
			t.Errorf("Props = %v", node.Props)
		}
	})
}

func TestListenersMerge(t *testing.T) {
	var calls []string
	click := func(*dom.Event) { calls = append(calls, "click") }
	input := func(*dom.Event) { calls = append(calls, "input") }

	node := Button(OnClick(click), OnInput(input), Listeners{"keydown": func(*dom.Event) {}})
	l, ok := node.Props[PropOn].(Listeners)
	if !ok {
		t.Fatalf("on prop = %T, want Listeners", node.Props[PropOn])
	}
	if len(l) != 3 {
		t.Fatalf("listeners = %d, want 3", len(l))
	}
	l["click"](nil)
	l["input"](nil)
	if len(calls) != 2 || calls[0] != "click" || calls[1] != "input" {
		t.Errorf("calls = %v", calls)
	}
}

func TestLaterListenerReplaces(t *testing.T) {
	var got string
	node := Button(
		OnClick(func(*dom.Event) { got = "first" }),
		OnClick(func(*dom.Event) { got = "second" }),
	)
	node.Props[PropOn].(Listeners)["click"](nil)
	if got != "second" {
		t.Errorf("handler = %q, want second", got)
	}
}

func TestIsVoidElement(t *testing.T) {
	for _, tag := range []string{"br", "img", "input", "hr", "meta"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false", tag)
		}
	}
	for _, tag := range []string{"div", "span", "svg", "textarea"} {
		if IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = true", tag)
		}
	}
}

func TestConditionals(t *testing.T) {
	a := Span("a")
	b := Span("b")

	if If(false, a) != nil {
		t.Error("If(false) should return nil")
	}
	if If(true, a) != a {
		t.Error("If(true) should return the node")
	}
	if IfElse(false, a, b) != b {
		t.Error("IfElse(false) should return the second node")
	}

	called := false
	When(false, func() *Node { called = true; return a })
	if called {
		t.Error("When(false) should not evaluate")
	}
	if When(true, func() *Node { return a }) != a {
		t.Error("When(true) should return the node")
	}
}

func TestFrameAndCatch(t *testing.T) {
	f := Frame("feed", "/frames/feed", P("loading"))
	if f.Kind != KindFrame || f.Frame.Name != "feed" || f.Frame.Src != "/frames/feed" {
		t.Errorf("frame = %+v", f)
	}
	if len(f.Children) != 1 {
		t.Errorf("frame placeholder children = %d, want 1", len(f.Children))
	}

	c := Catch(func(err error) *Node { return Text(err.Error()) }, Div(), Span())
	if c.Kind != KindCatch || c.Fallback == nil || len(c.Children) != 2 {
		t.Errorf("catch = %+v", c)
	}
}
