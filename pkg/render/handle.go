package render

import (
	"context"

	"github.com/vango-dev/rmx/pkg/vdom"
)

// serverHandle is the handle components get during a server render. The
// instance lives for one render: Update and QueueTask do nothing, and the
// handle is removed when the render finishes.
type serverHandle struct {
	id       string
	comp     *vdom.Component
	parent   *serverHandle
	ctx      context.Context
	cleanups []func()
	removed  bool

	provided    any
	hasProvided bool
}

var _ vdom.Handle = (*serverHandle)(nil)

func (r *Renderer) newHandle(comp *vdom.Component) *serverHandle {
	h := &serverHandle{
		id:     r.nextID("s"),
		comp:   comp,
		parent: r.owner,
		ctx:    r.ctx,
	}
	if h.ctx == nil {
		h.ctx = context.Background()
	}
	r.handles = append(r.handles, h)
	return h
}

func (h *serverHandle) ID() string { return h.id }

func (h *serverHandle) Update() {}

func (h *serverHandle) QueueTask(vdom.Task) {}

func (h *serverHandle) Context() context.Context { return h.ctx }

func (h *serverHandle) OnRemove(fn func()) {
	if h.removed {
		fn()
		return
	}
	h.cleanups = append(h.cleanups, fn)
}

func (h *serverHandle) Provide(value any) {
	h.provided = value
	h.hasProvided = true
}

func (h *serverHandle) Lookup(c *vdom.Component) (any, bool) {
	for p := h.parent; p != nil; p = p.parent {
		if p.comp == c && p.hasProvided {
			return p.provided, true
		}
	}
	return nil, false
}

// release removes every handle of the finished render, innermost first.
func (r *Renderer) release() {
	handles := r.handles
	r.handles = nil
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		h.removed = true
		fns := h.cleanups
		h.cleanups = nil
		for _, fn := range fns {
			fn()
		}
	}
}
