package reconcile

import (
	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// diff reconciles the committed node prev against the proposed node next
// and returns the committed result. end is the DOM node following prev's
// slot, used when new content has nothing else to anchor to.
//
// On error the returned node is still part of the committed tree and must
// be kept by the caller.
func (r *Root) diff(prev *node, next *vdom.Node, parent *node, domParent, end *dom.Node) (*node, error) {
	if next == nil {
		next = vdom.Fragment()
	}
	if prev == nil {
		return r.insert(next, parent, domParent, end, nil)
	}
	if !prev.vnode.SameType(next) {
		return r.replace(prev, next, parent, domParent, end)
	}
	prev.parent = parent

	switch next.Kind {
	case vdom.KindText:
		if prev.vnode.Text != next.Text {
			prev.dom.SetData(next.Text)
		}
		prev.vnode = next
		return prev, nil

	case vdom.KindHost:
		return prev, r.diffHost(prev, next)

	case vdom.KindComponent:
		prev.vnode = next
		out, err := r.renderComponent(prev)
		if err != nil {
			return prev, err
		}
		content, err := r.diff(prev.content, out, prev, domParent, end)
		prev.content = content
		return prev, err

	case vdom.KindFragment:
		prev.vnode = next
		return prev, r.diffChildren(prev, next.Children, domParent, end)

	case vdom.KindCatch:
		if prev.tripped {
			return r.replace(prev, next, parent, domParent, end)
		}
		prev.vnode = next
		err := r.diffChildren(prev, next.Children, domParent, end)
		if err != nil && !rerrors.IsInvariant(err) {
			err = r.tripCatch(prev, err, domParent, end)
		}
		return prev, err

	case vdom.KindFrame:
		if prev.vnode.Frame == nil || next.Frame == nil || *prev.vnode.Frame != *next.Frame {
			return prev, rerrors.New(rerrors.CodeFrameDiff).WithComponent(next.TypeName())
		}
		prev.vnode = next
		return prev, nil
	}

	return prev, rerrors.New(rerrors.CodeInvariant).
		WithDetailf("cannot diff node of kind %s", next.Kind)
}

// replace inserts next where prev is, then removes prev.
func (r *Root) replace(prev *node, next *vdom.Node, parent *node, domParent, end *dom.Node) (*node, error) {
	anchor := firstDom(prev)
	if anchor == nil {
		anchor = end
	}
	n, err := r.insert(next, parent, domParent, anchor, nil)
	r.remove(prev)
	return n, err
}

func (r *Root) diffHost(n *node, next *vdom.Node) error {
	el := n.dom
	prevProps := n.vnode.Props
	var err error

	html, hasHTML := next.Props[vdom.PropInnerHTML].(string)
	_, hadHTML := prevProps[vdom.PropInnerHTML].(string)
	switch {
	case hasHTML:
		for _, c := range n.children {
			r.destroy(c, true)
		}
		n.children = nil
		if !hadHTML || prevProps[vdom.PropInnerHTML] != html {
			err = el.SetInnerHTML(html)
		}
	case hadHTML:
		el.SetTextContent("")
		err = r.insertChildren(n, next.Children, el, nil, nil, false)
	default:
		err = r.diffChildren(n, next.Children, el, nil)
	}

	r.diffHostProps(el, prevProps, next.Props, isSVG(el), false)
	r.updateListeners(n, next.Props)
	n.animate = animateOf(next.Props)
	r.env.layout.track(n)
	n.vnode = next
	return err
}

// tripCatch unmounts a boundary's children and mounts its fallback in their
// place.
func (r *Root) tripCatch(n *node, cause error, domParent, end *dom.Node) error {
	anchor := endAfter(n, end)
	for _, c := range n.children {
		r.remove(c)
	}
	n.children = nil
	n.tripped = true

	r.logger.Warn("error boundary caught error",
		"error", cause,
		"code", rerrors.CodeOf(cause),
	)
	r.metrics.RecordError(string(rerrors.CategoryOf(cause)), true)

	fb := fallbackFor(n.vnode, cause)
	if fb == nil {
		return nil
	}
	c, err := r.insert(fb, n, domParent, anchor, nil)
	n.children = []*node{c}
	return err
}

func fallbackFor(v *vdom.Node, cause error) *vdom.Node {
	if v.Fallback == nil {
		return nil
	}
	return v.Fallback(cause)
}

func isSVG(el *dom.Node) bool {
	return el.Namespace == dom.NamespaceSVG
}

func animateOf(props vdom.Props) *vdom.Animate {
	a, _ := props[vdom.PropAnimate].(*vdom.Animate)
	return a
}

func listenersOf(props vdom.Props) vdom.Listeners {
	l, _ := props[vdom.PropOn].(vdom.Listeners)
	return l
}
