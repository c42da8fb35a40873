package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

func TestUpdateIsBatchedIntoMicrotask(t *testing.T) {
	doc, root := newTestRoot(t)
	var c handleCapture
	mustRender(t, root, vdom.C(c.component("Counter"), nil))

	c.handle.Update()
	c.handle.Update()
	c.handle.Update()
	if c.renders != 1 {
		t.Fatalf("renders = %d before microtasks run, want 1", c.renders)
	}

	doc.RunMicrotasks()
	if c.renders != 2 {
		t.Errorf("renders = %d, want 2 (three updates coalesce)", c.renders)
	}
}

func TestAncestorDedup(t *testing.T) {
	reg := prometheus.NewRegistry()
	doc, root := newTestRoot(t, WithMetrics(telemetry.NewMetrics(telemetry.WithRegistry(reg))))
	var parent, child handleCapture
	childComp := child.component("Child")
	parent.render = func(vdom.Props) (*vdom.Node, error) {
		return vdom.Div(vdom.C(childComp, nil)), nil
	}

	mustRender(t, root, vdom.C(parent.component("Parent"), nil))
	childRenders := child.renders

	child.handle.Update()
	parent.handle.Update()
	doc.RunMicrotasks()

	if got := child.renders - childRenders; got != 1 {
		t.Errorf("child rendered %d times in one flush, want 1", got)
	}
	expected := `
# HELP rmx_dedup_skips_total Scheduled re-renders skipped because an ancestor was scheduled
# TYPE rmx_dedup_skips_total counter
rmx_dedup_skips_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "rmx_dedup_skips_total"); err != nil {
		t.Error(err)
	}
}

func TestErrorIsolationAcrossSiblings(t *testing.T) {
	doc, root := newTestRoot(t)
	errs := errorEvents(root)

	var first, middle, last handleCapture
	boom := errors.New("boom")
	failing := false
	middle.render = func(vdom.Props) (*vdom.Node, error) {
		if failing {
			return nil, boom
		}
		return vdom.Text("middle"), nil
	}
	mustRender(t, root, vdom.Div(
		vdom.C(first.component("First"), nil),
		vdom.C(middle.component("Middle"), nil),
		vdom.C(last.component("Last"), nil),
	))

	failing = true
	first.handle.Update()
	middle.handle.Update()
	last.handle.Update()
	doc.RunMicrotasks()

	if first.renders != 2 || last.renders != 2 {
		t.Errorf("sibling renders = %d, %d, want 2, 2", first.renders, last.renders)
	}
	if len(*errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(*errs))
	}
	if !errors.Is((*errs)[0], boom) {
		t.Errorf("error = %v, want wrapped boom", (*errs)[0])
	}
	if got := rerrors.CodeOf((*errs)[0]); got != rerrors.CodeRenderFailed {
		t.Errorf("code = %s, want %s", got, rerrors.CodeRenderFailed)
	}
	if got := doc.Body().FirstChild().TextContent(); got != "FirstmiddleLast" {
		t.Errorf("text = %q, failed render must keep its previous content", got)
	}
}

func TestUpdateRecomputesAnchor(t *testing.T) {
	doc, root := newTestRoot(t)
	var late handleCapture
	show := false
	late.render = func(vdom.Props) (*vdom.Node, error) {
		if !show {
			return nil, nil
		}
		return vdom.Text("late"), nil
	}
	lateComp := late.component("Late")

	mustRender(t, root, vdom.Div(vdom.Fragment(vdom.C(lateComp, nil)), vdom.Span("tail")))
	mustRender(t, root, vdom.Div(vdom.Fragment(vdom.Text("head"), vdom.C(lateComp, nil)), vdom.Span("tail")))

	show = true
	late.handle.Update()
	doc.RunMicrotasks()

	if got := doc.Body().FirstChild().TextContent(); got != "headlatetail" {
		t.Errorf("text = %q, want %q", got, "headlatetail")
	}
}

func TestTasksRunAfterCommitAndAreIsolated(t *testing.T) {
	doc, root := newTestRoot(t)
	errs := errorEvents(root)

	var ran []string
	comp := vdom.Define("Tasks", func(h vdom.Handle, _ vdom.Props) vdom.RenderFunc {
		return func(vdom.Props) (*vdom.Node, error) {
			h.QueueTask(func(context.Context) error {
				if doc.Body().FirstChild() == nil {
					t.Error("task ran before the DOM was committed")
				}
				ran = append(ran, "fail")
				return errors.New("task failed")
			})
			h.QueueTask(func(context.Context) error {
				ran = append(ran, "panic")
				panic("task panicked")
			})
			h.QueueTask(func(context.Context) error {
				ran = append(ran, "ok")
				return nil
			})
			return vdom.Div("content"), nil
		}
	})
	mustRender(t, root, vdom.C(comp, nil))

	if len(ran) != 3 {
		t.Fatalf("tasks run = %v, want all three", ran)
	}
	if len(*errs) != 2 {
		t.Fatalf("error events = %d, want 2", len(*errs))
	}
	if got := rerrors.CodeOf((*errs)[0]); got != rerrors.CodeTaskFailed {
		t.Errorf("first code = %s, want %s", got, rerrors.CodeTaskFailed)
	}
	if got := rerrors.CodeOf((*errs)[1]); got != rerrors.CodeTaskPanic {
		t.Errorf("second code = %s, want %s", got, rerrors.CodeTaskPanic)
	}
}

func TestTaskQueuedFromTaskRunsNextFlush(t *testing.T) {
	doc, root := newTestRoot(t)
	var h vdom.Handle
	comp := vdom.Define("Nested", func(handle vdom.Handle, _ vdom.Props) vdom.RenderFunc {
		h = handle
		return func(vdom.Props) (*vdom.Node, error) { return nil, nil }
	})
	mustRender(t, root, vdom.C(comp, nil))

	inner := false
	h.QueueTask(func(context.Context) error {
		h.QueueTask(func(context.Context) error {
			inner = true
			return nil
		})
		return nil
	})
	root.Flush()
	if inner {
		t.Fatal("task queued from the task phase ran in the same flush")
	}
	doc.RunMicrotasks()
	if !inner {
		t.Error("task queued from the task phase never ran")
	}
}

func TestListenersAttachInTaskPhase(t *testing.T) {
	doc, root := newTestRoot(t)
	var calls []string
	mustRender(t, root, vdom.Button(vdom.OnClick(func(*dom.Event) { calls = append(calls, "a") })))
	button := doc.Body().FirstChild()

	if got := button.ListenerCount("click"); got != 1 {
		t.Fatalf("click listeners = %d, want 1", got)
	}
	button.DispatchEvent(dom.NewEvent("click", nil))

	mustRender(t, root, vdom.Button(vdom.OnClick(func(*dom.Event) { calls = append(calls, "b") })))
	if got := button.ListenerCount("click"); got != 1 {
		t.Errorf("click listeners after update = %d, want 1", got)
	}
	button.DispatchEvent(dom.NewEvent("click", nil))

	mustRender(t, root, vdom.Button())
	if got := button.ListenerCount("click"); got != 0 {
		t.Errorf("click listeners after removal = %d, want 0", got)
	}

	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestFocusRestoredAfterMove(t *testing.T) {
	doc, root := newTestRoot(t)
	list := func(keys ...string) *vdom.Node {
		items := make([]*vdom.Node, 0, len(keys))
		for _, k := range keys {
			items = append(items, vdom.Li(vdom.Key(k), vdom.Input(vdom.ID(k))))
		}
		return vdom.Ul(items)
	}
	mustRender(t, root, list("a", "b", "c"))
	input := doc.Body().GetElementByID("c")
	_ = input.SetProperty("value", "hello")
	input.Focus()
	input.SetSelectionRange(1, 3)

	mustRender(t, root, list("c", "a", "b"))

	if doc.ActiveElement() != input {
		t.Errorf("active element = %v, want the moved input", doc.ActiveElement())
	}
	if s, e, _ := input.SelectionRange(); s != 1 || e != 3 {
		t.Errorf("selection = %d..%d, want 1..3", s, e)
	}
}

func TestFlushMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
	_, root := newTestRoot(t, WithMetrics(metrics))

	mustRender(t, root, vdom.Div("a"))
	mustRender(t, root, vdom.Div("b"))

	expected := `
# HELP rmx_dom_mutations_total DOM mutations applied by flushes
# TYPE rmx_dom_mutations_total counter
rmx_dom_mutations_total{type="insert"} 2
rmx_dom_mutations_total{type="text"} 1
# HELP rmx_flushes_total Total number of scheduler flushes
# TYPE rmx_flushes_total counter
rmx_flushes_total 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"rmx_dom_mutations_total", "rmx_flushes_total"); err != nil {
		t.Error(err)
	}
}
