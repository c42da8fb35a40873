package dom

import "sync"

// Event is a dispatched event.
type Event struct {
	// Type is the event name (e.g., "click", "error").
	Type string

	// Target is the object the event was dispatched at.
	Target any

	// CurrentTarget is the object whose listeners are running.
	CurrentTarget any

	// Detail carries an arbitrary payload, such as the error for "error".
	Detail any

	// Bubbles makes node dispatch walk up the parent chain.
	Bubbles bool

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops bubbling after the current target.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

type listenerEntry struct {
	fn      Listener
	removed bool
}

// EventTarget stores listeners by event type. The zero value is ready to use.
type EventTarget struct {
	mu        sync.Mutex
	listeners map[string][]*listenerEntry
}

// AddEventListener registers fn for typ and returns a function that removes it.
func (t *EventTarget) AddEventListener(typ string, fn Listener) (remove func()) {
	entry := &listenerEntry{fn: fn}
	t.mu.Lock()
	if t.listeners == nil {
		t.listeners = make(map[string][]*listenerEntry)
	}
	t.listeners[typ] = append(t.listeners[typ], entry)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		entry.removed = true
		list := t.listeners[typ]
		for i, e := range list {
			if e == entry {
				t.listeners[typ] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(t.listeners[typ]) == 0 {
			delete(t.listeners, typ)
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (t *EventTarget) ListenerCount(typ string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[typ])
}

// DispatchEvent runs the listeners registered for ev.Type. It returns false
// if a listener called PreventDefault.
func (t *EventTarget) DispatchEvent(ev *Event) bool {
	if ev.Target == nil {
		ev.Target = t
	}
	if ev.CurrentTarget == nil {
		ev.CurrentTarget = t
	}
	t.fire(ev)
	return !ev.defaultPrevented
}

func (t *EventTarget) fire(ev *Event) {
	t.mu.Lock()
	list := append([]*listenerEntry(nil), t.listeners[ev.Type]...)
	t.mu.Unlock()

	for _, e := range list {
		if e.removed {
			continue
		}
		e.fn(ev)
	}
}
