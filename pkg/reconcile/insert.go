package reconcile

import (
	"context"
	"strings"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/interaction"
	"github.com/vango-dev/rmx/pkg/markers"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// insert mounts next before anchor in domParent. With a cursor it adopts
// matching existing DOM at the cursor position instead of creating it.
//
// The returned node is never nil. On error it holds whatever was mounted
// before the failure so the caller can keep or remove it.
func (r *Root) insert(next *vdom.Node, parent *node, domParent, anchor *dom.Node, cur *cursor) (*node, error) {
	if next == nil {
		next = vdom.Fragment()
	}
	n := &node{vnode: next, parent: parent}

	switch next.Kind {
	case vdom.KindText:
		r.insertText(n, domParent, anchor, cur)
		return n, nil

	case vdom.KindHost:
		return n, r.insertHost(n, domParent, anchor, cur)

	case vdom.KindComponent:
		n.inst = r.newInstance(n)
		out, err := r.renderComponent(n)
		if err != nil {
			return n, err
		}
		n.content, err = r.insert(out, n, domParent, anchor, cur)
		return n, err

	case vdom.KindFragment:
		return n, r.insertChildren(n, next.Children, domParent, anchor, cur, false)

	case vdom.KindCatch:
		// While hydrating, the server may have rendered the fallback in
		// place of the children, so their attempt must leave its markup
		// intact.
		var trial *hydrationTrial
		var rewind *dom.Node
		if cur != nil {
			rewind = cur.next
			trial = r.beginTrial()
		}
		err := r.insertChildren(n, next.Children, domParent, anchor, cur, true)
		if err == nil || rerrors.IsInvariant(err) {
			if trial != nil {
				r.commitTrial(trial)
			}
			return n, err
		}
		for _, c := range n.children {
			r.destroy(c, trial == nil)
		}
		n.children = nil
		if trial != nil {
			r.rollbackTrial(trial)
			cur.next = rewind
		}
		n.tripped = true
		r.logger.Warn("error boundary caught error",
			"error", err,
			"code", rerrors.CodeOf(err),
		)
		r.metrics.RecordError(string(rerrors.CategoryOf(err)), true)
		if fb := fallbackFor(next, err); fb != nil {
			c, ferr := r.insert(fb, n, domParent, anchor, cur)
			n.children = []*node{c}
			return n, ferr
		}
		return n, nil

	case vdom.KindFrame:
		return n, r.insertFrame(n, domParent, anchor, cur)
	}

	return n, rerrors.New(rerrors.CodeInvariant).
		WithDetailf("cannot insert node of kind %d", next.Kind)
}

// insertChildren mounts children in order, appending each to n.children.
// It keeps going after a failed child unless stopOnErr is set and returns
// the first error.
func (r *Root) insertChildren(n *node, children []*vdom.Node, domParent, anchor *dom.Node, cur *cursor, stopOnErr bool) error {
	var first error
	for _, child := range children {
		if child == nil {
			continue
		}
		c, err := r.insert(child, n, domParent, anchor, cur)
		n.children = append(n.children, c)
		if err != nil {
			if first == nil {
				first = err
			}
			if stopOnErr || rerrors.IsInvariant(err) {
				return err
			}
		}
	}
	return first
}

func (r *Root) insertText(n *node, domParent, anchor *dom.Node, cur *cursor) {
	text := n.vnode.Text
	// Empty text has no server markup to adopt.
	if text != "" {
		if d := cur.peek(); d != nil {
			if d.IsText() {
				cur.advance(d)
				n.dom = d
				if d.Data() != text {
					r.mismatch(rerrors.CodeMismatchText, "text", "expected", text, "found", d.Data())
					d.SetData(text)
				}
				return
			}
			r.mismatch(rerrors.CodeMismatchText, "text", "expected", text, "found", d.Tag)
			cur.advance(d)
			r.discard(d)
		}
	}
	n.dom = r.doc.CreateTextNode(text)
	_ = domParent.InsertBefore(n.dom, cur.ref(anchor))
	r.created(n.dom)
}

func (r *Root) insertHost(n *node, domParent, anchor *dom.Node, cur *cursor) error {
	v := n.vnode
	if d := cur.peek(); d != nil {
		if d.IsElement() && sameTag(d, v.Tag) {
			cur.advance(d)
			n.dom = d
			return r.adoptHost(n)
		}
		found := d.Tag
		if !d.IsElement() {
			found = "#text"
		}
		r.mismatch(rerrors.CodeMismatchElement, "element", "expected", v.Tag, "found", found)
		cur.advance(d)
		r.discard(d)
	}

	ns := dom.NamespaceHTML
	if v.Tag == "svg" || (isSVG(domParent) && domParent.Tag != "foreignObject") {
		ns = dom.NamespaceSVG
	}
	el := r.doc.CreateElementNS(ns, v.Tag)
	n.dom = el

	var err error
	if html, ok := v.Props[vdom.PropInnerHTML].(string); ok {
		err = el.SetInnerHTML(html)
	} else {
		err = r.insertChildren(n, v.Children, el, nil, nil, false)
	}
	r.diffHostProps(el, nil, v.Props, ns == dom.NamespaceSVG, false)
	if ierr := domParent.InsertBefore(el, cur.ref(anchor)); ierr != nil && err == nil {
		err = rerrors.New(rerrors.CodeInvariant).Wrap(ierr).WithDetailf("inserting <%s>", v.Tag)
	}
	r.created(el)
	r.attachHost(n, true)
	return err
}

// adoptHost hydrates an existing element: children against a cursor over
// its child nodes, then props against an empty previous set.
func (r *Root) adoptHost(n *node) error {
	el := n.dom
	v := n.vnode
	var err error
	if html, ok := v.Props[vdom.PropInnerHTML].(string); ok {
		if el.InnerHTML() != html {
			err = el.SetInnerHTML(html)
		}
	} else if _, ok := vdom.TextareaValue(v); !ok {
		// A textarea's server text is its value, set from props below.
		cur := &cursor{next: el.FirstChild()}
		err = r.insertChildren(n, v.Children, el, nil, cur, false)
		if !rerrors.IsInvariant(err) {
			r.trimExcess(cur, el)
		}
	}
	r.diffHostProps(el, nil, v.Props, isSVG(el), true)
	r.attachHost(n, false)
	return err
}

// trimExcess removes server nodes the client tree did not claim.
func (r *Root) trimExcess(cur *cursor, parent *dom.Node) {
	for d := cur.peek(); d != nil; d = cur.peek() {
		found := d.Tag
		if !d.IsElement() {
			found = "#text"
		}
		r.mismatch(rerrors.CodeMismatchExcess, "excess", "parent", parent.Tag, "found", found)
		cur.advance(d)
		r.discard(d)
	}
}

func sameTag(el *dom.Node, tag string) bool {
	if el.Namespace == dom.NamespaceHTML {
		return strings.EqualFold(el.Tag, tag)
	}
	return el.Tag == tag
}

// attachHost wires listeners, the connect callback, the enter animation and
// layout tracking of a mounted host.
func (r *Root) attachHost(n *node, fresh bool) {
	el := n.dom
	if l := listenersOf(n.vnode.Props); len(l) > 0 {
		ev := interaction.New(el)
		n.events = ev
		r.queueTask(r.ctx, func(context.Context) error {
			ev.Set(l)
			return nil
		})
	}

	if fn, ok := n.vnode.Props[vdom.PropConnect].(vdom.ConnectFunc); ok && fn != nil {
		ctx, cancel := context.WithCancel(r.ctx)
		n.connected = cancel
		r.queueTask(ctx, func(ctx context.Context) error {
			fn(ctx, el)
			return nil
		})
	}

	n.animate = animateOf(n.vnode.Props)
	if fresh && n.animate != nil && n.animate.Enter != nil {
		t := n.animate.Enter
		el.Animate(t.Keyframes, dom.AnimationOptions{Duration: t.Duration, Easing: t.Easing})
	}
	r.env.layout.track(n)
}

func (r *Root) updateListeners(n *node, props vdom.Props) {
	l := listenersOf(props)
	switch {
	case len(l) > 0:
		if n.events == nil {
			n.events = interaction.New(n.dom)
		}
		ev := n.events
		r.queueTask(r.ctx, func(context.Context) error {
			ev.Set(l)
			return nil
		})
	case n.events != nil:
		ev := n.events
		n.events = nil
		r.queueTask(r.ctx, func(context.Context) error {
			ev.Dispose()
			return nil
		})
	}
}

func (r *Root) insertFrame(n *node, domParent, anchor *dom.Node, cur *cursor) error {
	spec := n.vnode.Frame
	if spec == nil {
		return rerrors.New(rerrors.CodeInvariant).WithDetail("frame node without a frame spec")
	}

	var err error
	hydrate := false
	if id, start, end := cur.frame(); start != nil {
		n.frameID, n.frameStart, n.frameEnd = id, start, end
		hydrate = true
	} else {
		n.frameID = r.env.nextID("cf")
		n.frameStart = r.doc.CreateComment(markers.StartText(markers.Frame, n.frameID))
		n.frameEnd = r.doc.CreateComment(markers.EndText(markers.Frame))
		ref := cur.ref(anchor)
		_ = domParent.InsertBefore(n.frameStart, ref)
		_ = domParent.InsertBefore(n.frameEnd, ref)
		r.created(n.frameStart)
		r.created(n.frameEnd)
		err = r.insertChildren(n, n.vnode.Children, domParent, n.frameEnd, nil, false)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	n.frameCancel = cancel
	if host := r.env.Frames; host != nil {
		mount := FrameMount{
			ID:      n.frameID,
			Name:    spec.Name,
			Src:     spec.Src,
			Start:   n.frameStart,
			End:     n.frameEnd,
			Hydrate: hydrate,
			Release: func() { r.releaseFrame(n) },
		}
		r.queueTask(ctx, func(ctx context.Context) error {
			host.MountFrame(ctx, mount)
			return nil
		})
	}
	return err
}

// releaseFrame destroys a frame's placeholder nodes, leaving their DOM to
// the frame host.
func (r *Root) releaseFrame(n *node) {
	for _, c := range n.children {
		r.destroy(c, false)
	}
	n.children = nil
}
