package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// Root binds a scheduler and the reconciler to a container element or to
// the range between two sibling comment markers.
type Root struct {
	env       *Env
	doc       *dom.Document
	container *dom.Node
	start     *dom.Node // range roots only
	end       *dom.Node // insertion anchor for top-level content; nil appends

	parentCtx context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
	hydrate   bool
	channel   dom.EventTarget

	tree *node

	mu          sync.Mutex
	pending     map[*node]struct{}
	order       []*node
	rootDirty   bool
	pendingTree *vdom.Node
	tasks       []queuedTask
	scheduled   bool
	flushing    bool
	removed     bool
	mismatches  int

	trial *hydrationTrial // open while hydrating a boundary's children
}

// CreateRoot creates a root that renders into container.
func CreateRoot(container *dom.Node, opts ...Option) *Root {
	r := &Root{container: container}
	r.init(opts)
	return r
}

// CreateRangeRoot creates a root that renders between start and end, which
// must be sibling nodes with start first. Both markers stay in place.
func CreateRangeRoot(start, end *dom.Node, opts ...Option) (*Root, error) {
	if start == nil || end == nil || start.ParentNode() == nil || start.ParentNode() != end.ParentNode() {
		return nil, rerrors.New(rerrors.CodeRangeMarkers)
	}
	ordered := false
	for n := start.NextSibling(); n != nil; n = n.NextSibling() {
		if n == end {
			ordered = true
			break
		}
	}
	if !ordered {
		return nil, rerrors.New(rerrors.CodeRangeMarkers).WithDetail("end marker does not follow start marker")
	}
	r := &Root{container: start.ParentNode(), start: start, end: end}
	r.init(opts)
	return r, nil
}

func (r *Root) init(opts []Option) {
	for _, opt := range opts {
		opt(r)
	}
	if r.env == nil {
		r.env = NewEnv()
	}
	if r.logger == nil {
		r.logger = r.env.Logger
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = r.env.Metrics
	}
	if r.tracer == nil {
		r.tracer = r.env.Tracer
	}
	if r.parentCtx == nil {
		r.parentCtx = context.Background()
	}
	r.ctx, r.cancel = context.WithCancel(r.parentCtx)
	r.doc = r.container.OwnerDocument()
	r.pending = make(map[*node]struct{})
}

// Env returns the environment shared by this root.
func (r *Root) Env() *Env { return r.env }

// Render reconciles tree against the committed tree and flushes
// synchronously. The returned error is the root render's uncaught error, if
// any; it is also dispatched to the error channel.
func (r *Root) Render(tree *vdom.Node) error {
	r.mu.Lock()
	if r.removed {
		r.mu.Unlock()
		return rerrors.New(rerrors.CodeRootRemoved)
	}
	r.pendingTree = tree
	r.rootDirty = true
	if r.flushing {
		r.scheduleLocked()
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	return r.flush()
}

// Flush runs pending re-renders and tasks now.
func (r *Root) Flush() {
	_ = r.flush()
}

// Remove tears the root down: every committed node is destroyed without
// exit animations, pending work is dropped and the root context is
// cancelled. Range root markers are left in place.
func (r *Root) Remove() {
	r.mu.Lock()
	if r.removed {
		r.mu.Unlock()
		return
	}
	r.removed = true
	r.pending = make(map[*node]struct{})
	r.order = nil
	r.tasks = nil
	r.pendingTree = nil
	r.mu.Unlock()

	for _, n := range r.env.exitingWhere(func(_ *node, owner *Root) bool { return owner == r }) {
		r.finishExit(n)
	}
	if r.tree != nil {
		r.destroy(r.tree, true)
		r.tree = nil
	}
	r.cancel()
}

// AddEventListener registers fn on the root error channel. Uncaught render
// and task errors are dispatched as "error" events whose Detail is the
// error. It returns a function that removes the listener.
func (r *Root) AddEventListener(typ string, fn dom.Listener) (remove func()) {
	return r.channel.AddEventListener(typ, fn)
}

// Mismatches returns the number of hydration mismatches seen by this root.
func (r *Root) Mismatches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mismatches
}

// Container returns the DOM node the root renders into.
func (r *Root) Container() *dom.Node { return r.container }

func (r *Root) renderRoot(tree *vdom.Node) error {
	if tree == nil {
		tree = vdom.Fragment()
	}
	if r.tree != nil {
		n, err := r.diff(r.tree, tree, nil, r.container, r.end)
		r.tree = n
		return err
	}

	var cur *cursor
	if r.hydrate {
		first := r.container.FirstChild()
		if r.start != nil {
			first = r.start.NextSibling()
		}
		cur = &cursor{next: first, stop: r.end}
	}
	n, err := r.insert(tree, nil, r.container, r.end, cur)
	r.tree = n
	if cur != nil && !rerrors.IsInvariant(err) {
		r.trimExcess(cur, r.container)
	}
	return err
}

func (r *Root) dispatchError(err error) {
	r.logger.Error("uncaught error",
		"error", err,
		"code", rerrors.CodeOf(err),
	)
	r.metrics.RecordError(string(rerrors.CategoryOf(err)), false)
	r.channel.DispatchEvent(dom.NewEvent("error", err))
}
