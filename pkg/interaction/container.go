// Package interaction attaches listener maps to DOM nodes.
//
// A Container registers one DOM listener per event type and delegates to the
// handler currently stored under that type, so replacing a handler on
// re-render does not touch the DOM.
package interaction

import (
	"sync"

	"github.com/vango-dev/rmx/pkg/dom"
)

// Container owns the listeners of one DOM node.
type Container struct {
	node *dom.Node

	mu       sync.Mutex
	handlers map[string]dom.Listener
	removers map[string]func()
	disposed bool
}

// New creates an empty container for node.
func New(node *dom.Node) *Container {
	return &Container{
		node:     node,
		handlers: make(map[string]dom.Listener),
		removers: make(map[string]func()),
	}
}

// Node returns the node the container is attached to.
func (c *Container) Node() *dom.Node { return c.node }

// Set replaces the listener map. Types present in listeners but not yet
// registered gain a DOM listener; types no longer present lose theirs.
// Set on a disposed container is a no-op.
func (c *Container) Set(listeners map[string]dom.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	for typ, remove := range c.removers {
		if listeners[typ] == nil {
			remove()
			delete(c.removers, typ)
			delete(c.handlers, typ)
		}
	}
	for typ, fn := range listeners {
		if fn == nil {
			continue
		}
		c.handlers[typ] = fn
		if _, ok := c.removers[typ]; !ok {
			c.removers[typ] = c.node.AddEventListener(typ, c.dispatcher(typ))
		}
	}
}

func (c *Container) dispatcher(typ string) dom.Listener {
	return func(ev *dom.Event) {
		c.mu.Lock()
		fn := c.handlers[typ]
		c.mu.Unlock()
		if fn != nil {
			fn(ev)
		}
	}
}

// Types returns the number of event types with a registered DOM listener.
func (c *Container) Types() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.removers)
}

// Dispose removes every DOM listener. It is safe to call more than once.
func (c *Container) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	for typ, remove := range c.removers {
		remove()
		delete(c.removers, typ)
	}
	c.handlers = nil
}

// Disposed reports whether Dispose has been called.
func (c *Container) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
