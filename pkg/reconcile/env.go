package reconcile

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// FrameHost mounts frame regions. The reconciler creates or adopts a frame's
// markers and calls MountFrame from the task phase of the commit that
// inserted it. ctx is cancelled when the frame node is removed. MountFrame
// runs inside the flush and must not block on I/O.
type FrameHost interface {
	MountFrame(ctx context.Context, f FrameMount)
}

// FrameMount describes a frame region handed to a FrameHost.
type FrameMount struct {
	ID    string
	Name  string
	Src   string
	Start *dom.Node
	End   *dom.Node

	// Hydrate is set when the markers were rendered by the server and
	// adopted rather than created.
	Hydrate bool

	// Release drops the placeholder content the reconciler mounted between
	// the markers. The host calls it before replacing that DOM.
	Release func()
}

// Env is state shared by every root created with it: the exiting-node pool,
// the layout-animation registry, frame mounting and the ambient logger,
// metrics and tracer. Roots created without WithEnv get a private Env.
type Env struct {
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Tracer  trace.Tracer
	Frames  FrameHost

	mu      sync.Mutex
	exiting map[*node]*Root

	layout layoutRegistry
	seq    atomic.Uint64
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{
		exiting: make(map[*node]*Root),
		layout:  layoutRegistry{nodes: make(map[*node]struct{})},
	}
}

func (e *Env) nextID(prefix string) string {
	return prefix + strconv.FormatUint(e.seq.Add(1), 10)
}

// Exiting returns the number of nodes currently playing an exit animation.
func (e *Env) Exiting() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.exiting)
}

func (e *Env) addExiting(n *node, r *Root) {
	e.mu.Lock()
	e.exiting[n] = r
	e.mu.Unlock()
}

func (e *Env) dropExiting(n *node) {
	e.mu.Lock()
	delete(e.exiting, n)
	e.mu.Unlock()
}

// reclaim returns an exiting node under parent with the same explicit key
// and type as v, removing it from the pool.
func (e *Env) reclaim(parent *node, v *vdom.Node) *node {
	if !v.HasKey() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for n := range e.exiting {
		if n.parent == parent && n.vnode.Key == v.Key && n.vnode.SameType(v) {
			delete(e.exiting, n)
			return n
		}
	}
	return nil
}

// exitingWhere returns the exiting nodes for which keep reports true.
func (e *Env) exitingWhere(keep func(*node, *Root) bool) []*node {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*node
	for n, r := range e.exiting {
		if keep(n, r) {
			out = append(out, n)
		}
	}
	return out
}
