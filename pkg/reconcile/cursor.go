package reconcile

import (
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/markers"
)

// cursor walks existing sibling DOM nodes during hydration. Comments are
// structural and never adopted; frame regions are skipped whole unless a
// frame node claims them.
type cursor struct {
	next *dom.Node
	stop *dom.Node
}

func (c *cursor) skip() {
	for c.next != nil && c.next != c.stop && c.next.IsComment() {
		if _, ok := markers.StartOf(c.next, markers.Frame); ok {
			if end := markers.FindEnd(c.next); end != nil {
				c.next = end.NextSibling()
				continue
			}
		}
		c.next = c.next.NextSibling()
	}
}

// peek returns the next adoptable node, or nil when exhausted.
func (c *cursor) peek() *dom.Node {
	if c == nil {
		return nil
	}
	c.skip()
	if c.next == c.stop {
		return nil
	}
	return c.next
}

func (c *cursor) advance(past *dom.Node) {
	c.next = past.NextSibling()
}

// frame claims the next frame region if only comments precede it.
func (c *cursor) frame() (id string, start, end *dom.Node) {
	if c == nil {
		return "", nil, nil
	}
	for n := c.next; n != nil && n != c.stop && n.IsComment(); n = n.NextSibling() {
		fid, ok := markers.StartOf(n, markers.Frame)
		if !ok {
			continue
		}
		e := markers.FindEnd(n)
		if e == nil {
			return "", nil, nil
		}
		c.next = e.NextSibling()
		return fid, n, e
	}
	return "", nil, nil
}

// ref returns the node fresh content must be inserted before: the cursor
// position while hydrating, anchor otherwise.
func (c *cursor) ref(anchor *dom.Node) *dom.Node {
	if c != nil && c.next != nil {
		return c.next
	}
	return anchor
}
