package demo

import (
	"fmt"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// Module URLs of the hydratable demo components.
const (
	CounterModule     = "/static/demo/counter.js"
	MessageListModule = "/static/demo/messages.js"
	DisclosureModule  = "/static/demo/disclosure.js"
)

// Counter is a button that counts its clicks.
//
// Props: "start" (number), "label" (string).
var Counter = vdom.Define("Counter", func(h vdom.Handle, props vdom.Props) vdom.RenderFunc {
	count := intProp(props, "start")
	return func(props vdom.Props) (*vdom.Node, error) {
		label, _ := props["label"].(string)
		if label == "" {
			label = "Clicks"
		}
		return vdom.Button(
			vdom.Class("counter"),
			vdom.Type("button"),
			vdom.OnClick(func(*dom.Event) {
				count++
				h.Update()
			}),
			vdom.Textf("%s: %d", label, count),
		), nil
	}
}).Hydratable(CounterModule, "Counter")

// MessageList renders a keyed list of message subjects that can be archived
// one at a time or reversed in place.
//
// Props: "messages" (list of strings).
var MessageList = vdom.Define("MessageList", func(h vdom.Handle, props vdom.Props) vdom.RenderFunc {
	messages := stringsProp(props, "messages")
	return func(vdom.Props) (*vdom.Node, error) {
		if len(messages) == 0 {
			return vdom.P(vdom.Class("empty"), "Inbox zero"), nil
		}
		items := vdom.Range(messages, func(subject string, i int) *vdom.Node {
			return vdom.Li(
				vdom.Key(subject),
				vdom.Span(vdom.Class("subject"), subject),
				vdom.Button(
					vdom.Class("archive"),
					vdom.Type("button"),
					vdom.AriaLabel("Archive "+subject),
					vdom.OnClick(func(*dom.Event) {
						messages = append(messages[:i:i], messages[i+1:]...)
						h.Update()
					}),
					"Archive",
				),
			)
		})
		return vdom.Div(
			vdom.Class("messages"),
			vdom.Button(
				vdom.Class("reverse"),
				vdom.Type("button"),
				vdom.OnClick(func(*dom.Event) {
					for l, r := 0, len(messages)-1; l < r; l, r = l+1, r-1 {
						messages[l], messages[r] = messages[r], messages[l]
					}
					h.Update()
				}),
				"Reverse",
			),
			vdom.Ul(items),
		), nil
	}
}).Hydratable(MessageListModule, "MessageList")

// Disclosure toggles its children.
//
// Props: "summary" (string), "children" (nodes), "open" (bool).
var Disclosure = vdom.Define("Disclosure", func(h vdom.Handle, props vdom.Props) vdom.RenderFunc {
	open, _ := props["open"].(bool)
	return func(props vdom.Props) (*vdom.Node, error) {
		summary, _ := props["summary"].(string)
		return vdom.Div(
			vdom.Class("disclosure"),
			vdom.Button(
				vdom.Type("button"),
				vdom.Prop("aria-expanded", fmt.Sprint(open)),
				vdom.OnClick(func(*dom.Event) {
					open = !open
					h.Update()
				}),
				summary,
			),
			vdom.If(open, vdom.Div(vdom.Class("panel"), childNodes(props))),
		), nil
	}
}).Hydratable(DisclosureModule, "Disclosure")

// Shelf groups products under a heading. It is not hydratable; the counters
// inside it hydrate as regions of their own.
var Shelf = vdom.Func("Shelf", func(props vdom.Props) (*vdom.Node, error) {
	title, _ := props["title"].(string)
	products := stringsProp(props, "products")
	return vdom.Section(
		vdom.Class("shelf"),
		vdom.H2(title),
		vdom.Ul(vdom.Range(products, func(name string, _ int) *vdom.Node {
			return vdom.Li(vdom.Key(name), name, vdom.C(Counter, vdom.Props{"label": "Add", "start": 0}))
		})),
	), nil
})

// Unavailable always fails to render.
var Unavailable = vdom.Func("Unavailable", func(props vdom.Props) (*vdom.Node, error) {
	what, _ := props["what"].(string)
	return nil, fmt.Errorf("%s is unavailable", what)
})

func intProp(props vdom.Props, key string) int {
	switch n := props[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// stringsProp reads a list of strings. Server props hold []string; revived
// props hold []any.
func stringsProp(props vdom.Props, key string) []string {
	switch list := props[key].(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func childNodes(props vdom.Props) []*vdom.Node {
	switch c := props[vdom.PropChildren].(type) {
	case []*vdom.Node:
		return c
	case *vdom.Node:
		return []*vdom.Node{c}
	}
	return nil
}
