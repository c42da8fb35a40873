package reconcile

import (
	"context"
	"fmt"
	"sync"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// instance is the handle of a mounted component. The same instance stays on
// the committed node across re-renders and is destroyed exactly once.
type instance struct {
	id     string
	root   *Root
	node   *node
	render vdom.RenderFunc
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	cleanups    []func()
	removed     bool
	provided    any
	hasProvided bool
}

var _ vdom.Handle = (*instance)(nil)

func (r *Root) newInstance(n *node) *instance {
	ctx, cancel := context.WithCancel(r.ctx)
	return &instance{
		id:     r.env.nextID("c"),
		root:   r,
		node:   n,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (i *instance) ID() string { return i.id }

func (i *instance) Update() { i.root.enqueue(i.node) }

func (i *instance) QueueTask(task vdom.Task) {
	if task == nil {
		return
	}
	i.root.queueTask(i.ctx, task)
}

func (i *instance) Context() context.Context { return i.ctx }

// OnRemove registers fn to run when the instance is removed. If it has
// already been removed, fn runs immediately.
func (i *instance) OnRemove(fn func()) {
	i.mu.Lock()
	if i.removed {
		i.mu.Unlock()
		fn()
		return
	}
	i.cleanups = append(i.cleanups, fn)
	i.mu.Unlock()
}

func (i *instance) Provide(value any) {
	i.mu.Lock()
	i.provided = value
	i.hasProvided = true
	i.mu.Unlock()
}

// Lookup walks the committed parent chain for the nearest instance of c that
// provided a value.
func (i *instance) Lookup(c *vdom.Component) (any, bool) {
	for p := i.node.parent; p != nil; p = p.parent {
		if p.kind() != vdom.KindComponent || p.vnode.Comp != c || p.inst == nil {
			continue
		}
		p.inst.mu.Lock()
		v, ok := p.inst.provided, p.inst.hasProvided
		p.inst.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

func (i *instance) destroy() {
	i.mu.Lock()
	if i.removed {
		i.mu.Unlock()
		return
	}
	i.removed = true
	fns := i.cleanups
	i.cleanups = nil
	i.mu.Unlock()

	i.cancel()
	for _, fn := range fns {
		fn()
	}
}

// renderComponent runs setup on first use and then the render function with
// the node's current props. Panics are recovered as render errors and a nil
// result renders nothing.
func (r *Root) renderComponent(n *node) (out *vdom.Node, err error) {
	comp := n.vnode.Comp
	name := n.vnode.TypeName()
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = rerrors.New(rerrors.CodeRenderPanic).
				WithComponent(name).
				WithDetail(fmt.Sprint(p))
		}
	}()

	inst := n.inst
	if inst.render == nil {
		if comp == nil || comp.Setup == nil {
			return nil, rerrors.New(rerrors.CodeInvariant).
				WithComponent(name).
				WithDetail("component has no setup function")
		}
		inst.render = comp.Setup(inst, n.vnode.Props)
		if inst.render == nil {
			return nil, rerrors.New(rerrors.CodeInvariant).
				WithComponent(name).
				WithDetail("setup returned a nil render function")
		}
	}

	out, err = inst.render(n.vnode.Props)
	r.metrics.RecordRender()
	if err != nil {
		re := rerrors.FromError(err, rerrors.CodeRenderFailed)
		if re.Component == "" {
			re.Component = name
		}
		return nil, re
	}
	if out == nil {
		out = vdom.Fragment()
	}
	return out, nil
}
