package reconcile

import (
	"context"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/interaction"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// node is a committed node: a proposed vdom.Node that has passed through
// insert or diff and now owns DOM nodes or a component instance.
type node struct {
	vnode  *vdom.Node
	parent *node

	// KindText and KindHost
	dom *dom.Node

	// KindHost, KindFragment, KindCatch and KindFrame placeholders
	children []*node

	// KindHost
	events    *interaction.Container
	connected context.CancelFunc
	animate   *vdom.Animate

	// KindComponent
	inst    *instance
	content *node

	// KindCatch
	tripped bool

	// KindFrame
	frameID     string
	frameStart  *dom.Node
	frameEnd    *dom.Node
	frameCancel context.CancelFunc

	exiting  bool
	exitAnim *dom.Animation
	removed  bool
}

func (n *node) kind() vdom.Kind { return n.vnode.Kind }

// firstDom returns the first DOM node owned by n or its active descendants.
func firstDom(n *node) *dom.Node {
	if n == nil {
		return nil
	}
	switch n.kind() {
	case vdom.KindText, vdom.KindHost:
		return n.dom
	case vdom.KindComponent:
		return firstDom(n.content)
	case vdom.KindFrame:
		return n.frameStart
	}
	for _, c := range n.children {
		if d := firstDom(c); d != nil {
			return d
		}
	}
	return nil
}

// lastDom returns the last DOM node owned by n or its active descendants.
func lastDom(n *node) *dom.Node {
	if n == nil {
		return nil
	}
	switch n.kind() {
	case vdom.KindText, vdom.KindHost:
		return n.dom
	case vdom.KindComponent:
		return lastDom(n.content)
	case vdom.KindFrame:
		return n.frameEnd
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if d := lastDom(n.children[i]); d != nil {
			return d
		}
	}
	return nil
}

// domNodes returns the top-level DOM nodes owned by n in document order.
func domNodes(n *node) []*dom.Node {
	var out []*dom.Node
	collectDom(n, &out)
	return out
}

func collectDom(n *node, out *[]*dom.Node) {
	if n == nil {
		return
	}
	switch n.kind() {
	case vdom.KindText, vdom.KindHost:
		if n.dom != nil {
			*out = append(*out, n.dom)
		}
	case vdom.KindComponent:
		collectDom(n.content, out)
	case vdom.KindFrame:
		for d := n.frameStart; d != nil; d = d.NextSibling() {
			*out = append(*out, d)
			if d == n.frameEnd {
				break
			}
		}
	default:
		for _, c := range n.children {
			collectDom(c, out)
		}
	}
}

// endAfter returns the DOM node immediately after n's content, or fallback
// when n owns no DOM.
func endAfter(n *node, fallback *dom.Node) *dom.Node {
	if d := lastDom(n); d != nil {
		return d.NextSibling()
	}
	return fallback
}

// slotEnd returns the end anchor for list[i]: the node after its DOM, the
// first DOM of a later sibling, or end.
func slotEnd(list []*node, i int, end *dom.Node) *dom.Node {
	if d := lastDom(list[i]); d != nil {
		return d.NextSibling()
	}
	for _, c := range list[i+1:] {
		if d := firstDom(c); d != nil {
			return d
		}
	}
	return end
}

// domParentOf returns the DOM node that n's top-level DOM nodes live in.
func (r *Root) domParentOf(n *node) *dom.Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.kind() == vdom.KindHost {
			return p.dom
		}
	}
	return r.container
}

// nextAnchor computes, from the current committed tree, the DOM node that
// content at n's position must be inserted before. It is recomputed at flush
// time because sibling lists may have changed since n was mounted.
func (r *Root) nextAnchor(n *node) *dom.Node {
	for cur := n; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		if p.kind() == vdom.KindComponent {
			continue
		}
		found := false
		for _, s := range p.children {
			if s == cur {
				found = true
				continue
			}
			if found {
				if d := firstDom(s); d != nil {
					return d
				}
			}
		}
		switch p.kind() {
		case vdom.KindHost:
			return nil
		case vdom.KindFrame:
			return p.frameEnd
		}
	}
	return r.end
}

// nearestCatch walks n's ancestors to the closest untripped boundary.
func nearestCatch(n *node) (*node, bool) {
	for p := n.parent; p != nil; p = p.parent {
		if p.kind() == vdom.KindCatch && !p.tripped {
			return p, true
		}
	}
	return nil, false
}
