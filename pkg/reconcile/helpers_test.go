package reconcile

import (
	"testing"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

func newTestRoot(t *testing.T, opts ...Option) (*dom.Document, *Root) {
	t.Helper()
	doc := dom.NewDocument()
	return doc, CreateRoot(doc.Body(), opts...)
}

func mustRender(t *testing.T, r *Root, tree *vdom.Node) {
	t.Helper()
	if err := r.Render(tree); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

// childTexts returns the text content of each child node of el.
func childTexts(el *dom.Node) []string {
	var out []string
	for c := el.FirstChild(); c != nil; c = c.NextSibling() {
		if c.IsComment() {
			continue
		}
		out = append(out, c.TextContent())
	}
	return out
}

func keyedList(keys ...string) *vdom.Node {
	items := make([]*vdom.Node, 0, len(keys))
	for _, k := range keys {
		items = append(items, vdom.Li(vdom.Key(k), k))
	}
	return vdom.Ul(items)
}

// handleCapture is a component whose handle and render count are visible
// to the test.
type handleCapture struct {
	handle  vdom.Handle
	renders int
	setups  int
	removed int
	render  func(props vdom.Props) (*vdom.Node, error)
}

func (c *handleCapture) component(name string) *vdom.Component {
	return vdom.Define(name, func(h vdom.Handle, _ vdom.Props) vdom.RenderFunc {
		c.handle = h
		c.setups++
		h.OnRemove(func() { c.removed++ })
		return func(props vdom.Props) (*vdom.Node, error) {
			c.renders++
			if c.render != nil {
				return c.render(props)
			}
			return vdom.Text(name), nil
		}
	})
}

func errorEvents(r *Root) *[]error {
	var errs []error
	r.AddEventListener("error", func(ev *dom.Event) {
		errs = append(errs, ev.Detail.(error))
	})
	return &errs
}
