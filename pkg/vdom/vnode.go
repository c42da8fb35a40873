package vdom

import (
	"context"
	"time"

	"github.com/vango-dev/rmx/pkg/dom"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText      Kind = iota + 1 // Plain text node
	KindHost                      // <div>, <button>, etc.
	KindComponent                 // Component invocation
	KindFragment                  // Grouping without wrapper
	KindCatch                     // Error boundary
	KindFrame                     // Independently hydrated region
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindHost:
		return "Host"
	case KindComponent:
		return "Component"
	case KindFragment:
		return "Fragment"
	case KindCatch:
		return "Catch"
	case KindFrame:
		return "Frame"
	default:
		return "Unknown"
	}
}

// Node is a proposed virtual node. Nodes are produced by render functions
// and consumed by the reconciler; nothing about them persists after a diff.
type Node struct {
	Kind     Kind
	Tag      string     // KindHost
	Props    Props      // KindHost and KindComponent
	Children []*Node    // KindHost, KindFragment, KindCatch
	Key      string     // Sibling reconciliation key, "" for none
	Text     string     // KindText
	Comp     *Component // KindComponent
	Fallback Fallback   // KindCatch
	Frame    *FrameSpec // KindFrame
}

// Props holds attributes, properties and framework options.
type Props map[string]any

// Fallback produces the content of a tripped error boundary.
type Fallback func(err error) *Node

// FrameSpec names an independently hydrated region and its content source.
type FrameSpec struct {
	Name string
	Src  string
}

// HasKey reports whether n carries an explicit key.
func (n *Node) HasKey() bool {
	return n != nil && n.Key != ""
}

// SameType reports whether n and other have the same type: same kind, and
// the same tag for hosts or the same component for components.
func (n *Node) SameType(other *Node) bool {
	if n == nil || other == nil || n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindHost:
		return n.Tag == other.Tag
	case KindComponent:
		return n.Comp == other.Comp
	}
	return true
}

// TypeName returns a human readable type for diagnostics.
func (n *Node) TypeName() string {
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case KindHost:
		return "<" + n.Tag + ">"
	case KindComponent:
		if n.Comp != nil {
			return n.Comp.Name
		}
	case KindFrame:
		if n.Frame != nil {
			return "Frame(" + n.Frame.Name + ")"
		}
	}
	return n.Kind.String()
}

// WithKey sets the key and returns n.
func (n *Node) WithKey(key string) *Node {
	n.Key = key
	return n
}

// Attr represents a single prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Listeners maps event types to handlers. It is the value of the "on" prop.
type Listeners map[string]dom.Listener

// ConnectFunc runs after a host element is inserted. ctx is cancelled when
// the element is removed.
type ConnectFunc func(ctx context.Context, el *dom.Node)

// Animate configures presence and layout animations for a host element.
type Animate struct {
	Enter  *Transition
	Exit   *Transition
	Layout *LayoutTransition
}

// Transition is a keyframe animation played on enter or exit.
type Transition struct {
	Keyframes []dom.Keyframe
	Duration  time.Duration
	Easing    string
}

// LayoutTransition animates position and size changes between commits.
type LayoutTransition struct {
	Duration time.Duration
	Easing   string
}

// Task is deferred work that runs after the DOM has been updated. ctx is the
// owning component's context.
type Task func(ctx context.Context) error

// Handle is a mounted component instance's capability set. The reconciler
// supplies it to the component's setup function.
type Handle interface {
	// ID is unique per mounted instance within a root.
	ID() string

	// Update requests a re-render of this instance.
	Update()

	// QueueTask defers work until after the current commit.
	QueueTask(task Task)

	// Context is cancelled when the instance is removed.
	Context() context.Context

	// OnRemove registers cleanup that runs once, when the instance is removed.
	OnRemove(fn func())

	// Provide sets the value visible to descendants that Lookup this component.
	Provide(value any)

	// Lookup returns the value provided by the nearest ancestor instance of c.
	Lookup(c *Component) (any, bool)
}

// RenderFunc produces a component's content from its current props.
type RenderFunc func(props Props) (*Node, error)

// SetupFunc runs once per mounted instance and returns its render function.
type SetupFunc func(h Handle, props Props) RenderFunc

// Component is a component type. Identity is pointer identity: two nodes are
// the same component only if they reference the same *Component.
type Component struct {
	// Name is used in diagnostics.
	Name string

	// ModuleURL and ExportName make the component hydratable. The server
	// renderer wraps hydratable components in hydration markers.
	ModuleURL  string
	ExportName string

	// Setup creates an instance.
	Setup SetupFunc
}

// Define creates a component type.
func Define(name string, setup SetupFunc) *Component {
	return &Component{Name: name, Setup: setup}
}

// Func creates a stateless component from a render function.
func Func(name string, render RenderFunc) *Component {
	return Define(name, func(Handle, Props) RenderFunc { return render })
}

// Hydratable sets the module reference used by the hydration protocol and
// returns c.
func (c *Component) Hydratable(moduleURL, exportName string) *Component {
	c.ModuleURL = moduleURL
	c.ExportName = exportName
	return c
}

// IsHydratable reports whether c has a module reference.
func (c *Component) IsHydratable() bool {
	return c != nil && c.ModuleURL != ""
}
