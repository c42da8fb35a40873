package reconcile

import (
	"context"

	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// remove unmounts n from its parent's list. Hosts with an exit transition
// stay in the DOM until the animation finishes; everything else is destroyed
// at once.
func (r *Root) remove(n *node) {
	if n == nil || n.removed || n.exiting {
		return
	}
	switch n.kind() {
	case vdom.KindHost:
		if n.animate != nil && n.animate.Exit != nil && n.dom.IsConnected() {
			r.beginExit(n)
			return
		}
		r.destroy(n, true)
	case vdom.KindComponent:
		n.removed = true
		r.remove(n.content)
		n.inst.destroy()
	case vdom.KindFragment, vdom.KindCatch:
		n.removed = true
		for _, c := range n.children {
			r.remove(c)
		}
	default:
		r.destroy(n, true)
	}
}

// destroy tears n down exactly once. removeDOM is false when an ancestor's
// DOM removal already detaches n's nodes; the bookkeeping still runs.
func (r *Root) destroy(n *node, removeDOM bool) {
	if n == nil || n.removed {
		return
	}
	n.removed = true

	switch n.kind() {
	case vdom.KindText:
		if removeDOM {
			n.dom.Remove()
		}

	case vdom.KindHost:
		r.teardownHost(n)
		for _, c := range n.children {
			r.destroy(c, false)
		}
		for _, x := range r.env.exitingWhere(func(x *node, _ *Root) bool { return isUnder(x, n) }) {
			r.finishExit(x)
		}
		if removeDOM {
			n.dom.Remove()
		}

	case vdom.KindComponent:
		r.destroy(n.content, removeDOM)
		if n.inst != nil {
			n.inst.destroy()
		}

	case vdom.KindFragment, vdom.KindCatch:
		for _, c := range n.children {
			r.destroy(c, removeDOM)
		}

	case vdom.KindFrame:
		if n.frameCancel != nil {
			n.frameCancel()
		}
		for _, c := range n.children {
			r.destroy(c, false)
		}
		if removeDOM {
			for _, d := range domNodes(n) {
				d.Remove()
			}
		}
	}
}

func (r *Root) teardownHost(n *node) {
	if n.events != nil {
		n.events.Dispose()
		n.events = nil
	}
	if n.connected != nil {
		n.connected()
		n.connected = nil
	}
	r.env.layout.untrack(n)
}

func isUnder(n, ancestor *node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// beginExit plays n's exit transition and defers its destruction to the
// task phase after the animation finishes.
func (r *Root) beginExit(n *node) {
	n.exiting = true
	r.env.addExiting(n, r)
	t := n.animate.Exit
	anim := n.dom.Animate(t.Keyframes, dom.AnimationOptions{
		Duration: t.Duration,
		Easing:   t.Easing,
		Fill:     "forwards",
	})
	n.exitAnim = anim
	anim.OnFinish(func() {
		r.queueTask(r.ctx, func(context.Context) error {
			r.finishExit(n)
			return nil
		})
	})
}

// resumeExit brings a reclaimed exiting node back.
func (r *Root) resumeExit(n *node) {
	n.exiting = false
	if n.exitAnim != nil {
		n.exitAnim.Cancel()
		n.exitAnim = nil
	}
}

func (r *Root) finishExit(n *node) {
	if !n.exiting {
		return
	}
	n.exiting = false
	n.exitAnim = nil
	r.env.dropExiting(n)
	r.destroy(n, true)
}
