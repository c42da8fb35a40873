package dom

import (
	"strings"
	"sync"
)

// LayoutFunc computes the bounding rect of a node.
type LayoutFunc func(*Node) Rect

// Stats counts mutating DOM calls.
type Stats struct {
	Creates      int // Elements, text and comment nodes created
	Inserts      int // Detached nodes inserted into a tree
	Moves        int // Attached nodes moved by InsertBefore/AppendChild
	Removals     int // RemoveChild calls
	AttrSets     int // SetAttribute/SetAttributeNS calls
	AttrRemovals int // Attributes actually removed
	PropSets     int // Successful SetProperty calls
	TextWrites   int // SetData/SetTextContent calls
}

// Placements returns the number of InsertBefore/AppendChild calls.
func (s Stats) Placements() int { return s.Inserts + s.Moves }

// Mutations returns the total number of tree, attribute, property and text
// mutations. Node creation is not a mutation of the document.
func (s Stats) Mutations() int {
	return s.Inserts + s.Moves + s.Removals + s.AttrSets + s.AttrRemovals + s.PropSets + s.TextWrites
}

// Document is the root of a node tree.
type Document struct {
	Node

	// Layout answers BoundingClientRect queries when set.
	Layout LayoutFunc

	active *Node
	stats  Stats

	mu         sync.Mutex
	microtasks []func()

	animMu     sync.Mutex
	animations []*Animation
}

// NewDocument creates a document with empty <html>, <head> and <body>.
func NewDocument() *Document {
	d := NewEmptyDocument()
	html := d.CreateElement("html")
	html.AppendChild(d.CreateElement("head"))
	html.AppendChild(d.CreateElement("body"))
	d.AppendChild(html)
	d.ResetStats()
	return d
}

// NewEmptyDocument creates a document with no children.
func NewEmptyDocument() *Document {
	d := &Document{}
	d.Node.Type = DocumentNode
	d.Node.doc = d
	return d
}

// DocumentElement returns the <html> element, or nil.
func (d *Document) DocumentElement() *Node {
	for c := d.firstChild; c != nil; c = c.next {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Node { return d.findTopLevel("head") }

// Body returns the <body> element, or nil.
func (d *Document) Body() *Node { return d.findTopLevel("body") }

func (d *Document) findTopLevel(tag string) *Node {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for c := root.firstChild; c != nil; c = c.next {
		if c.Type == ElementNode && c.Tag == tag {
			return c
		}
	}
	return nil
}

// CreateElement creates an HTML element.
func (d *Document) CreateElement(tag string) *Node {
	return d.CreateElementNS(NamespaceHTML, tag)
}

// CreateElementNS creates an element in the given namespace. HTML tag names
// are lower-cased.
func (d *Document) CreateElementNS(ns, tag string) *Node {
	if ns == "" {
		ns = NamespaceHTML
	}
	if ns == NamespaceHTML {
		tag = strings.ToLower(tag)
	}
	d.stats.Creates++
	return &Node{Type: ElementNode, Tag: tag, Namespace: ns, doc: d}
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(data string) *Node {
	d.stats.Creates++
	return &Node{Type: TextNode, data: data, doc: d}
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(data string) *Node {
	d.stats.Creates++
	return &Node{Type: CommentNode, data: data, doc: d}
}

// ActiveElement returns the focused element, or the body.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && d.active.IsConnected() {
		return d.active
	}
	return d.Body()
}

// blurWithin clears focus when the active element is inside n.
func (d *Document) blurWithin(n *Node) {
	if d.active != nil && n.Contains(d.active) {
		d.active = nil
	}
}

// Stats returns the mutation counters.
func (d *Document) Stats() Stats { return d.stats }

// ResetStats zeroes the mutation counters.
func (d *Document) ResetStats() { d.stats = Stats{} }

// QueueMicrotask schedules fn to run on the next RunMicrotasks call. It is
// safe to call from any goroutine.
func (d *Document) QueueMicrotask(fn func()) {
	d.mu.Lock()
	d.microtasks = append(d.microtasks, fn)
	d.mu.Unlock()
}

// PendingMicrotasks returns the number of queued microtasks.
func (d *Document) PendingMicrotasks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.microtasks)
}

// RunMicrotasks drains the microtask queue, including microtasks queued
// while draining, and returns how many ran. It must be called from the
// goroutine that owns the document.
func (d *Document) RunMicrotasks() int {
	ran := 0
	for {
		d.mu.Lock()
		if len(d.microtasks) == 0 {
			d.mu.Unlock()
			return ran
		}
		fn := d.microtasks[0]
		d.microtasks = d.microtasks[1:]
		d.mu.Unlock()

		fn()
		ran++
	}
}
