// Package dom provides an in-memory document model with the subset of browser
// DOM behavior the reconciler relies on.
//
// Nodes form a doubly linked tree owned by a Document. Elements carry
// namespaced attributes, runtime properties (value, checked, selected,
// selectedIndex) that live apart from their attributes, event listeners,
// a bounding rect and Web-Animations-style animations. The Document owns
// focus, a microtask queue and mutation statistics.
//
// # Tree Operations
//
//	doc := dom.NewDocument()
//	div := doc.CreateElement("div")
//	doc.Body().AppendChild(div)
//	div.AppendChild(doc.CreateTextNode("hello"))
//
// Moving or removing a subtree that contains the focused element blurs it,
// as browsers do.
//
// # Parsing
//
// ParseHTML and ParseFragment build nodes from markup with
// golang.org/x/net/html, so server-rendered output can be adopted by the
// hydration machinery.
//
// # Statistics
//
// Every mutating call is counted in Stats. Tests use the counters to assert
// that a diff produced no mutations, or exactly one move.
package dom
