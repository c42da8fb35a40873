package dom

import (
	"errors"
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <svg>, etc.
	TextNode                         // Character data
	CommentNode                      // <!-- ... -->
	DocumentNode                     // The document itself
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	default:
		return "Unknown"
	}
}

// Namespace URIs.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceXLink  = "http://www.w3.org/1999/xlink"
	NamespaceXML    = "http://www.w3.org/XML/1998/namespace"
)

var (
	// ErrHierarchy is returned when an insertion would create a cycle or
	// insert into a node that cannot have children.
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrNotChild is returned when a reference node is not a child of the
	// node being mutated.
	ErrNotChild = errors.New("dom: node is not a child of this node")
)

// Attribute is a single namespaced attribute.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Node is a node in a Document.
type Node struct {
	EventTarget

	// Type is the node type.
	Type NodeType

	// Tag is the element tag name. HTML tags are lower-case; SVG tags keep
	// their case (e.g. "foreignObject").
	Tag string

	// Namespace is the element namespace URI.
	Namespace string

	data string
	doc  *Document

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node

	attrs []Attribute
	props map[string]any
	rect  *Rect

	animations []*Animation
}

// OwnerDocument returns the document that created the node.
func (n *Node) OwnerDocument() *Document { return n.doc }

// ParentNode returns the parent, or nil.
func (n *Node) ParentNode() *Node { return n.parent }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node { return n.next }

// PreviousSibling returns the previous sibling, or nil.
func (n *Node) PreviousSibling() *Node { return n.prev }

// ChildNodes returns a snapshot of the children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the character data of a text or comment node.
func (n *Node) SetData(s string) {
	n.data = s
	if n.doc != nil {
		n.doc.stats.TextWrites++
	}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// IsComment reports whether n is a comment.
func (n *Node) IsComment() bool { return n != nil && n.Type == CommentNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// IsConnected reports whether n is attached to its document.
func (n *Node) IsConnected() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Type == DocumentNode {
			return true
		}
	}
	return false
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// AppendChild appends child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends. If child is
// already in a tree it is moved.
func (n *Node) InsertBefore(child, ref *Node) error {
	if n.Type != ElementNode && n.Type != DocumentNode {
		return ErrHierarchy
	}
	if child == nil || child.Type == DocumentNode || child.Contains(n) {
		return ErrHierarchy
	}
	if ref != nil && ref.parent != n {
		return ErrNotChild
	}
	if ref == child {
		ref = child.next
	}

	moved := child.parent != nil
	if moved {
		if n.doc != nil {
			n.doc.blurWithin(child)
		}
		child.parent.unlink(child)
	}

	child.parent = n
	if ref == nil {
		child.prev = n.lastChild
		child.next = nil
		if n.lastChild != nil {
			n.lastChild.next = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
	} else {
		child.prev = ref.prev
		child.next = ref
		if ref.prev != nil {
			ref.prev.next = child
		} else {
			n.firstChild = child
		}
		ref.prev = child
	}

	if n.doc != nil {
		if moved {
			n.doc.stats.Moves++
		} else {
			n.doc.stats.Inserts++
		}
	}
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotChild
	}
	if n.doc != nil {
		n.doc.blurWithin(child)
		n.doc.stats.Removals++
	}
	n.unlink(child)
	return nil
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

func (n *Node) unlink(child *Node) {
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.firstChild = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.lastChild = child.prev
	}
	child.parent = nil
	child.prev = nil
	child.next = nil
}

// TextContent returns the concatenated text of n and its descendants.
// Comments contribute nothing unless n itself is a comment.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(cur *Node) {
		for c := cur.firstChild; c != nil; c = c.next {
			switch c.Type {
			case TextNode:
				b.WriteString(c.data)
			case ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent replaces the children of an element with a single text
// node, or the data of a text or comment node.
func (n *Node) SetTextContent(s string) {
	if n.Type == TextNode || n.Type == CommentNode {
		n.SetData(s)
		return
	}
	for c := n.firstChild; c != nil; {
		next := c.next
		if n.doc != nil {
			n.doc.blurWithin(c)
		}
		n.unlink(c)
		c = next
	}
	if s != "" {
		t := n.doc.CreateTextNode(s)
		t.parent = n
		n.firstChild = t
		n.lastChild = t
	}
	if n.doc != nil {
		n.doc.stats.TextWrites++
	}
}

// GetElementByID returns the first descendant element with the given id.
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.Type == ElementNode {
			if v, ok := cur.GetAttribute("id"); ok && v == id {
				found = cur
				return false
			}
		}
		return true
	})
	return found
}

// Walk visits n's descendants in document order. Returning false from visit
// skips the descendants of the visited node.
func (n *Node) Walk(visit func(*Node) bool) {
	for c := n.firstChild; c != nil; c = c.next {
		if visit(c) {
			c.Walk(visit)
		}
	}
}

// Attributes returns a copy of the element's attributes in insertion order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the value of a non-namespaced attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	return n.GetAttributeNS("", name)
}

// GetAttributeNS returns the value of a namespaced attribute.
func (n *Node) GetAttributeNS(ns, name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Namespace == ns && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether a non-namespaced attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets a non-namespaced attribute.
func (n *Node) SetAttribute(name, value string) {
	n.SetAttributeNS("", name, value)
}

// SetAttributeNS sets a namespaced attribute.
func (n *Node) SetAttributeNS(ns, name, value string) {
	n.setAttr(ns, name, value)
	if n.doc != nil {
		n.doc.stats.AttrSets++
	}
}

// RemoveAttribute removes a non-namespaced attribute.
func (n *Node) RemoveAttribute(name string) {
	n.RemoveAttributeNS("", name)
}

// RemoveAttributeNS removes a namespaced attribute.
func (n *Node) RemoveAttributeNS(ns, name string) {
	if n.removeAttr(ns, name) && n.doc != nil {
		n.doc.stats.AttrRemovals++
	}
}

func (n *Node) setAttr(ns, name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Namespace == ns && n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Namespace: ns, Name: name, Value: value})
}

func (n *Node) removeAttr(ns, name string) bool {
	for i, a := range n.attrs {
		if a.Namespace == ns && a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Rect is a layout box in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// SetBoundingClientRect fixes the rect reported for n when the document has
// no Layout function.
func (n *Node) SetBoundingClientRect(r Rect) {
	n.rect = &r
}

// BoundingClientRect returns n's layout box.
func (n *Node) BoundingClientRect() Rect {
	if n.doc != nil && n.doc.Layout != nil {
		return n.doc.Layout(n)
	}
	if n.rect != nil {
		return *n.rect
	}
	return Rect{}
}

// DispatchEvent dispatches ev at n, bubbling through ancestors when
// ev.Bubbles is set. It returns false if a listener called PreventDefault.
func (n *Node) DispatchEvent(ev *Event) bool {
	ev.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		ev.CurrentTarget = cur
		cur.EventTarget.fire(ev)
		if !ev.Bubbles || ev.stopped {
			break
		}
	}
	return !ev.defaultPrevented
}

// Focus makes n the active element of its document.
func (n *Node) Focus() {
	if n.doc == nil || n.Type != ElementNode || !n.IsConnected() {
		return
	}
	n.doc.active = n
}

// Blur clears focus if n is the active element.
func (n *Node) Blur() {
	if n.doc != nil && n.doc.active == n {
		n.doc.active = nil
	}
}
