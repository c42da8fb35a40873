package hydrate

import (
	"context"
	"io"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/markers"
	"github.com/vango-dev/rmx/pkg/reconcile"
)

// FrameResolver fetches the markup of a frame source. A returned reader
// that is also an io.Closer is closed after reading.
type FrameResolver interface {
	ResolveFrame(ctx context.Context, src string) (io.Reader, error)
}

// FrameResolverFunc adapts a function to FrameResolver.
type FrameResolverFunc func(ctx context.Context, src string) (io.Reader, error)

// ResolveFrame calls f.
func (f FrameResolverFunc) ResolveFrame(ctx context.Context, src string) (io.Reader, error) {
	return f(ctx, src)
}

// StaticResolver serves frame markup from a map keyed by source.
type StaticResolver map[string]string

// ResolveFrame implements FrameResolver.
func (s StaticResolver) ResolveFrame(_ context.Context, src string) (io.Reader, error) {
	markup, ok := s[src]
	if !ok {
		return nil, rerrors.New(rerrors.CodeFrameResolveFailed).WithDetailf("no content for %q", src)
	}
	return strings.NewReader(markup), nil
}

// Frame owns the DOM between a pair of rmx:f markers.
type Frame struct {
	client *Client
	id     string
	name   string
	src    string
	start  *dom.Node
	end    *dom.Node

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight context.CancelFunc
	gen      uint64
	roots    []*reconcile.Root
	release  func()
}

// ID returns the frame's marker id.
func (f *Frame) ID() string { return f.id }

// Name returns the frame name.
func (f *Frame) Name() string { return f.name }

// Src returns the frame source.
func (f *Frame) Src() string { return f.src }

// Context is cancelled when the frame is removed.
func (f *Frame) Context() context.Context { return f.ctx }

func (f *Frame) addRoot(r *reconcile.Root) {
	f.mu.Lock()
	f.roots = append(f.roots, r)
	f.mu.Unlock()
}

// Reload resolves the frame source and replaces the frame content, then
// hydrates the regions inside it. A reload still in flight is cancelled
// and returns an E141 error; the last reload wins.
func (f *Frame) Reload(ctx context.Context) (*Report, error) {
	rctx, gen, done := f.begin(ctx)
	defer done()
	rctx, span := f.startSpan(rctx)
	markup, err := f.client.resolve(rctx, f.src)
	return f.apply(rctx, span, gen, markup, err)
}

// reloadAsync resolves the source on another goroutine and applies the
// result from a microtask on the frame's document. The current content
// stays in place until then.
func (f *Frame) reloadAsync(ctx context.Context) {
	c := f.client
	rctx, gen, done := f.begin(ctx)
	rctx, span := f.startSpan(rctx)
	doc := f.start.OwnerDocument()

	c.resolving.Add(1)
	go func() {
		defer c.resolving.Done()
		markup, err := c.resolve(rctx, f.src)
		doc.QueueMicrotask(func() {
			defer done()
			if _, err := f.apply(rctx, span, gen, markup, err); err != nil && !rerrors.Is(err, rerrors.CodeFrameCancelled) {
				c.logger.Warn("frame mount failed", "frame", f.name, "src", f.src, "error", err)
			}
		})
	}()
}

// begin cancels the reload in flight and starts a new generation. done
// must be called once the reload has been applied or abandoned.
func (f *Frame) begin(ctx context.Context) (rctx context.Context, gen uint64, done func()) {
	f.mu.Lock()
	if f.inflight != nil {
		f.inflight()
	}
	rctx, cancel := context.WithCancel(f.ctx)
	stop := context.AfterFunc(ctx, cancel)
	if ctx.Err() != nil {
		cancel()
	}
	f.gen++
	gen = f.gen
	f.inflight = cancel
	f.mu.Unlock()

	return rctx, gen, func() {
		stop()
		cancel()
		f.mu.Lock()
		if f.gen == gen {
			f.inflight = nil
		}
		f.mu.Unlock()
	}
}

func (f *Frame) startSpan(ctx context.Context) (context.Context, trace.Span) {
	return telemetry.StartSpan(ctx, f.client.tracer, "rmx.frame.reload",
		attribute.String("rmx.frame.name", f.name),
		attribute.String("rmx.frame.src", f.src),
	)
}

// apply installs resolved markup unless the reload was cancelled or
// superseded.
func (f *Frame) apply(rctx context.Context, span trace.Span, gen uint64, markup string, err error) (*Report, error) {
	c := f.client
	if rctx.Err() != nil {
		err = rerrors.New(rerrors.CodeFrameCancelled).Wrap(rctx.Err()).WithDetailf("frame %q", f.name)
		c.metrics.RecordFrameReload("cancelled")
		telemetry.EndSpan(span, err)
		return nil, err
	}
	if err != nil {
		err = rerrors.FromError(err, rerrors.CodeFrameResolveFailed)
		c.logger.Warn("frame reload failed", "frame", f.name, "src", f.src, "error", err)
		c.metrics.RecordFrameReload("failed")
		telemetry.EndSpan(span, err)
		return nil, err
	}

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		err = rerrors.New(rerrors.CodeFrameCancelled).WithDetailf("frame %q was reloaded again", f.name)
		c.metrics.RecordFrameReload("cancelled")
		telemetry.EndSpan(span, err)
		return nil, err
	}
	roots, release := f.roots, f.release
	f.roots, f.release = nil, nil
	f.mu.Unlock()

	report, err := f.replace(rctx, markup, roots, release)
	if err != nil {
		c.logger.Warn("frame reload failed", "frame", f.name, "src", f.src, "error", err)
		c.metrics.RecordFrameReload("failed")
		telemetry.EndSpan(span, err)
		return nil, err
	}
	c.metrics.RecordFrameReload("ok")
	telemetry.EndSpan(span, nil)
	return report, nil
}

func (c *Client) resolve(ctx context.Context, src string) (string, error) {
	if c.resolver == nil {
		return "", rerrors.New(rerrors.CodeFrameResolveFailed).WithDetail("no frame resolver configured")
	}
	r, err := c.resolver.ResolveFrame(ctx, src)
	if err != nil {
		return "", err
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// replace swaps the frame content for markup and hydrates it.
func (f *Frame) replace(ctx context.Context, markup string, roots []*reconcile.Root, release func()) (*Report, error) {
	if !f.start.IsConnected() || markers.FindEnd(f.start) != f.end {
		return nil, rerrors.New(rerrors.CodeFrameMarkers).WithDetailf("frame %q", f.name)
	}
	for _, r := range roots {
		r.Remove()
	}
	if release != nil {
		release()
	}
	f.client.closeFramesWithin(f)

	parent := f.start.ParentNode()
	for n := f.start.NextSibling(); n != nil && n != f.end; {
		next := n.NextSibling()
		n.Remove()
		n = next
	}

	nodes, err := dom.ParseFragment(f.start.OwnerDocument(), parent, strings.NewReader(markup))
	if err != nil {
		return nil, rerrors.New(rerrors.CodeFrameResolveFailed).Wrap(err).WithDetailf("frame %q markup", f.name)
	}
	for _, n := range nodes {
		_ = parent.InsertBefore(n, f.end)
	}

	if script := findDataScript(nodes); script != nil {
		data, err := ParseData(script.TextContent())
		script.Remove()
		if err != nil {
			return nil, err
		}
		f.client.mergeData(data)
	}

	return f.hydrate(ctx), nil
}

// hydrate mounts the regions between the frame markers.
func (f *Frame) hydrate(ctx context.Context) *Report {
	report := &Report{}
	regions, unpaired := markers.ScanBetween(f.start, f.end)
	f.client.reportUnpaired(report, unpaired)
	f.client.hydrateRegions(ctx, regions, f, report)
	return report
}

func findDataScript(nodes []*dom.Node) *dom.Node {
	for _, n := range nodes {
		if !n.IsElement() {
			continue
		}
		if id, ok := n.GetAttribute("id"); ok && id == DataScriptID {
			return n
		}
		if s := n.GetElementByID(DataScriptID); s != nil {
			return s
		}
	}
	return nil
}

// newFrame registers a frame whose lifetime ends with parent.
func (c *Client) newFrame(parent context.Context, id, name, src string, start, end *dom.Node) *Frame {
	f := &Frame{client: c, id: id, name: name, src: src, start: start, end: end}
	f.ctx, f.cancel = context.WithCancel(parent)
	c.mu.Lock()
	if old, ok := c.frames[id]; ok {
		old.cancel()
	}
	c.frames[id] = f
	c.mu.Unlock()
	context.AfterFunc(f.ctx, func() {
		c.mu.Lock()
		if c.frames[id] == f {
			delete(c.frames, id)
		}
		c.mu.Unlock()
	})
	return f
}

// closeFramesWithin cancels every frame nested inside f.
func (c *Client) closeFramesWithin(f *Frame) {
	c.mu.Lock()
	var nested []*Frame
	for _, other := range c.frames {
		if other != f && within(other.start, f.start, f.end) {
			nested = append(nested, other)
		}
	}
	c.mu.Unlock()
	for _, n := range nested {
		n.cancel()
	}
}

// within reports whether n lies between the sibling markers start and end.
func within(n, start, end *dom.Node) bool {
	for s := start.NextSibling(); s != nil && s != end; s = s.NextSibling() {
		if s == n || s.Contains(n) {
			return true
		}
	}
	return false
}

// Frame returns a mounted frame by name.
func (c *Client) Frame(name string) (*Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.frames {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// Frames returns the mounted frames.
func (c *Client) Frames() []*Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Frame, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, f)
	}
	return out
}

// adoptFrame takes ownership of a server-rendered frame region. Pending
// frames are resolved now; resolved frames hydrate their own content.
func (c *Client) adoptFrame(ctx, parent context.Context, reg markers.Region, owner *Frame, report *Report) RegionResult {
	res := RegionResult{Kind: markers.Frame, ID: reg.ID, Status: StatusMounted}
	entry, _ := c.frameData(reg.ID)
	f := c.newFrame(parent, reg.ID, entry.Name, entry.Src, reg.Start, reg.End)

	var inner *Report
	if entry.Status == FramePending && entry.Src != "" {
		var err error
		inner, err = f.Reload(ctx)
		if err != nil {
			res.Status, res.Err = StatusFailed, err
		}
	} else {
		inner = f.hydrate(ctx)
	}
	if inner != nil {
		report.Regions = append(report.Regions, inner.Regions...)
	}
	return res
}

// MountFrame implements reconcile.FrameHost for frame nodes rendered by
// client components. Adopted server frames hydrate their content; client
// created and pending frames resolve their source in the background and
// swap it in from a later microtask. Wait blocks until those resolutions
// have been queued.
func (c *Client) MountFrame(ctx context.Context, m reconcile.FrameMount) {
	f := c.newFrame(ctx, m.ID, m.Name, m.Src, m.Start, m.End)
	f.release = m.Release

	if m.Hydrate {
		entry, _ := c.frameData(m.ID)
		if entry.Status != FramePending {
			if err := f.hydrate(ctx).Err(); err != nil {
				c.logger.Warn("frame hydration incomplete", "frame", m.Name, "error", err)
			}
			return
		}
	}
	if m.Src == "" {
		return
	}
	f.reloadAsync(ctx)
}

// Wait blocks until every background frame resolution has queued its
// result on the document. The caller applies them by running the
// document's microtasks.
func (c *Client) Wait() {
	c.resolving.Wait()
}
