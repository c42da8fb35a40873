package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

type queuedTask struct {
	ctx context.Context
	fn  vdom.Task
}

// enqueue schedules a re-render of the component node n. domParent and the
// insertion anchor are resolved at flush time from n's position then.
func (r *Root) enqueue(n *node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removed || n.removed {
		return
	}
	if _, ok := r.pending[n]; !ok {
		r.pending[n] = struct{}{}
		r.order = append(r.order, n)
	}
	r.scheduleLocked()
}

// queueTask appends a task for the next task phase. Tasks queued while a
// flush renders run in that flush's task phase; tasks queued from the task
// phase run in the next flush.
func (r *Root) queueTask(ctx context.Context, fn vdom.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removed {
		return
	}
	r.tasks = append(r.tasks, queuedTask{ctx: ctx, fn: fn})
	r.scheduleLocked()
}

func (r *Root) scheduleLocked() {
	if r.scheduled || r.doc == nil {
		return
	}
	r.scheduled = true
	r.doc.QueueMicrotask(r.Flush)
}

func (r *Root) flush() error {
	r.mu.Lock()
	if r.flushing || r.removed {
		r.mu.Unlock()
		return nil
	}
	r.scheduled = false
	batch, pending := r.order, r.pending
	r.order, r.pending = nil, make(map[*node]struct{})
	tree, rootDirty := r.pendingTree, r.rootDirty
	r.pendingTree, r.rootDirty = nil, false
	if !rootDirty && len(batch) == 0 && len(r.tasks) == 0 {
		r.mu.Unlock()
		return nil
	}
	r.flushing = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.flushing = false
		r.mu.Unlock()
	}()

	began := time.Now()
	before := r.doc.Stats()
	_, span := telemetry.StartSpan(r.ctx, r.tracer, "rmx.flush",
		attribute.Int("rmx.batch", len(batch)),
		attribute.Bool("rmx.root", rootDirty),
	)

	var snaps []layoutSnapshot
	if rootDirty {
		snaps = r.env.layout.snapshot([]*dom.Node{r.container})
	} else if len(batch) > 0 {
		scopes := make([]*dom.Node, 0, len(batch))
		for _, n := range batch {
			scopes = append(scopes, r.domParentOf(n))
		}
		snaps = r.env.layout.snapshot(scopes)
	}
	focus := captureFocus(r.doc)

	var rootErr error
	if rootDirty {
		for range batch {
			r.metrics.RecordDedupSkip()
		}
		if rootErr = r.renderRoot(tree); rootErr != nil {
			r.handleError(nil, rootErr)
		}
	} else {
		for _, n := range r.dedupe(batch, pending) {
			r.rerender(n)
		}
	}

	focus.restore(r.doc)
	r.env.layout.play(snaps)
	r.runTasks()

	r.recordStats(before, r.doc.Stats())
	r.metrics.ObserveFlush(time.Since(began))
	telemetry.EndSpan(span, rootErr)
	return rootErr
}

// dedupe drops every batched node with an ancestor in the same batch; the
// ancestor's render re-diffs it. Ancestors known to have no scheduled
// ancestor are memoized across the batch.
func (r *Root) dedupe(batch []*node, pending map[*node]struct{}) []*node {
	safe := make(map[*node]bool)
	out := make([]*node, 0, len(batch))
	for _, n := range batch {
		if n.removed {
			continue
		}
		var path []*node
		skip := false
		for p := n.parent; p != nil; p = p.parent {
			if safe[p] {
				break
			}
			if _, ok := pending[p]; ok && !p.removed {
				skip = true
				break
			}
			path = append(path, p)
		}
		if skip {
			r.metrics.RecordDedupSkip()
			continue
		}
		for _, p := range path {
			safe[p] = true
		}
		out = append(out, n)
	}
	return out
}

func (r *Root) rerender(n *node) {
	if n.removed {
		return
	}
	domParent := r.domParentOf(n)
	end := r.nextAnchor(n)
	out, err := r.renderComponent(n)
	if err == nil {
		n.content, err = r.diff(n.content, out, n, domParent, end)
	}
	if err != nil {
		r.handleError(n, err)
	}
}

// handleError routes an error from n's subtree to the nearest untripped
// boundary, or to the root error channel when there is none.
func (r *Root) handleError(n *node, err error) {
	if n == nil || rerrors.IsInvariant(err) {
		r.dispatchError(err)
		return
	}
	c, ok := nearestCatch(n)
	if !ok {
		r.dispatchError(err)
		return
	}
	if ferr := r.tripCatch(c, err, r.domParentOf(c), r.nextAnchor(c)); ferr != nil {
		r.handleError(c, ferr)
	}
}

func (r *Root) runTasks() {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()

	for _, t := range tasks {
		if t.ctx.Err() != nil {
			continue
		}
		if err := runTask(t); err != nil {
			r.dispatchError(err)
			continue
		}
		r.metrics.RecordTask()
	}
}

func runTask(t queuedTask) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = rerrors.New(rerrors.CodeTaskPanic).WithDetail(fmt.Sprint(p))
		}
	}()
	if e := t.fn(t.ctx); e != nil {
		return rerrors.FromError(e, rerrors.CodeTaskFailed)
	}
	return nil
}

func (r *Root) recordStats(before, after dom.Stats) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordMutations("insert", after.Inserts-before.Inserts)
	r.metrics.RecordMutations("move", after.Moves-before.Moves)
	r.metrics.RecordMutations("remove", after.Removals-before.Removals)
	r.metrics.RecordMutations("attr", after.AttrSets-before.AttrSets+after.AttrRemovals-before.AttrRemovals)
	r.metrics.RecordMutations("prop", after.PropSets-before.PropSets)
	r.metrics.RecordMutations("text", after.TextWrites-before.TextWrites)
}
