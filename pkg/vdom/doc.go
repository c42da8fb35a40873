// Package vdom defines the proposed node tree that components render.
//
// A Node is a tagged union over six kinds: Text, Host, Component, Fragment,
// Catch and Frame. Nodes are plain values produced on every render; the
// reconciler in package reconcile compares them against what it committed
// last time and applies the difference to a dom.Document.
//
// # Element API
//
// Host nodes are created with variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// Arguments may be nil, Attr, []Attr, Props, Listeners, *Node, []*Node or
// string. A Key attribute sets the node's reconciliation key.
//
// # Components
//
// A Component is identified by its pointer. Setup runs once per mounted
// instance and receives a Handle; the RenderFunc it returns is called on
// every render with the latest props. Components with a module reference
// (see Component.Hydratable) are emitted with hydration markers by the server
// renderer.
//
// # Props
//
// Props carry attributes, DOM properties and framework options. The names
// "children", "key", "on", "css", "setup", "connect", "animate" and
// "innerHTML" are reserved and never written as attributes. AttributeName
// and AttributeValue implement the attribute normalization shared by the
// client reconciler and the server renderer.
package vdom
