package hydrate

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/markers"
	"github.com/vango-dev/rmx/pkg/reconcile"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// DefaultConcurrency bounds concurrent module loads.
const DefaultConcurrency = 8

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithConcurrency bounds concurrent module loads. n <= 0 means no limit.
func WithConcurrency(n int) Option {
	return func(c *Client) { c.limit = n }
}

// WithResolver sets the frame content resolver.
func WithResolver(r FrameResolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithContext sets the parent context of every mounted region and frame.
func WithContext(ctx context.Context) Option {
	return func(c *Client) { c.parent = ctx }
}

// Client hydrates server-rendered documents. All regions and frames it
// mounts share one reconcile.Env, so exit animations and frame mounting are
// coordinated across them.
//
// Hydrate and Frame.Reload mutate the document. Like every other document
// access they must not run concurrently with each other or with roots
// rendering into the same document; only module loads and frame resolution
// run on other goroutines. Frames mounted by client renders apply their
// content from document microtasks.
type Client struct {
	loader   *Loader
	env      *reconcile.Env
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	resolver FrameResolver
	limit    int

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	data   *Data
	roots  []*reconcile.Root
	frames map[string]*Frame

	resolving sync.WaitGroup
}

// New creates a client loading components from source.
func New(source ModuleSource, opts ...Option) *Client {
	c := &Client{
		limit:  DefaultConcurrency,
		data:   NewData(),
		frames: make(map[string]*Frame),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.parent == nil {
		c.parent = context.Background()
	}
	c.ctx, c.cancel = context.WithCancel(c.parent)
	c.loader = NewLoader(source, c.metrics)

	c.env = reconcile.NewEnv()
	c.env.Logger = c.logger
	c.env.Metrics = c.metrics
	c.env.Tracer = c.tracer
	c.env.Frames = c
	return c
}

// Env returns the environment shared by every root the client mounts. Roots
// created elsewhere with this Env get their frames mounted by the client.
func (c *Client) Env() *reconcile.Env { return c.env }

// Loader returns the client's module loader.
func (c *Client) Loader() *Loader { return c.loader }

// Hydrate reads the data script of doc and mounts every top-level region.
// The returned error is only for unreadable data; per-region failures are in
// the report.
func (c *Client) Hydrate(ctx context.Context, doc *dom.Document) (*Report, error) {
	ctx, span := telemetry.StartSpan(ctx, c.tracer, "rmx.hydrate")

	data, err := ReadData(&doc.Node)
	if err != nil {
		c.logger.Error("hydration data unreadable", "error", err)
		telemetry.EndSpan(span, err)
		return nil, err
	}
	c.mergeData(data)

	regions, unpaired := markers.Scan(&doc.Node)
	span.SetAttributes(attribute.Int("rmx.regions", len(regions)))

	report := &Report{}
	c.reportUnpaired(report, unpaired)
	c.hydrateRegions(ctx, regions, nil, report)

	span.SetAttributes(
		attribute.Int("rmx.mounted", report.Count(StatusMounted)),
		attribute.Int("rmx.failed", report.Count(StatusFailed)),
		attribute.Int("rmx.stale", report.Count(StatusStale)),
	)
	telemetry.EndSpan(span, nil)
	return report, nil
}

// Close removes every root the client mounted and cancels their contexts.
func (c *Client) Close() {
	c.mu.Lock()
	roots := c.roots
	c.roots = nil
	c.mu.Unlock()
	for _, r := range roots {
		r.Remove()
	}
	c.cancel()
}

// Roots returns the top-level roots mounted by Hydrate.
func (c *Client) Roots() []*reconcile.Root {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*reconcile.Root(nil), c.roots...)
}

func (c *Client) mergeData(d *Data) {
	c.mu.Lock()
	c.data.Merge(d)
	c.mu.Unlock()
}

func (c *Client) regionData(id string) (RegionData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data.H[id]
	return r, ok
}

func (c *Client) frameData(id string) (FrameData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.data.F[id]
	return f, ok
}

func (c *Client) reportUnpaired(report *Report, unpaired []markers.Unpaired) {
	for _, u := range unpaired {
		err := rerrors.New(rerrors.CodeMarkerUnpaired).WithDetailf("%s", u.Error())
		c.logger.Warn("hydration region failed", "id", u.ID, "kind", u.Kind.String(), "error", err)
		c.metrics.RecordRegion(string(StatusFailed))
		report.add(RegionResult{Kind: u.Kind, ID: u.ID, Status: StatusFailed, Err: err})
	}
}

// load is the asynchronous half of one hydration region.
type load struct {
	region markers.Region
	text   string
	comp   *vdom.Component
	props  vdom.Props
	err    error
}

// hydrateRegions loads the components of every hydration region in
// regions concurrently, then mounts regions and frames in document order.
// owner is the frame the regions belong to, nil for the document.
func (c *Client) hydrateRegions(ctx context.Context, regions []markers.Region, owner *Frame, report *Report) {
	loads := make(map[*dom.Node]*load)
	g := new(errgroup.Group)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for _, reg := range regions {
		if reg.Kind != markers.Hydration {
			continue
		}
		l := &load{region: reg, text: reg.Start.Data()}
		loads[reg.Start] = l
		entry, ok := c.regionData(reg.ID)
		if !ok {
			l.err = rerrors.New(rerrors.CodeDataMissing).WithDetailf("no data for region %q", reg.ID)
			continue
		}
		g.Go(func() error {
			l.comp, _, l.err = c.loader.Load(ctx, entry.ModuleURL, entry.ExportName)
			if l.err == nil {
				l.props, l.err = ReviveProps(entry.Props)
			}
			return nil
		})
	}
	_ = g.Wait()

	parentCtx := c.ctx
	if owner != nil {
		parentCtx = owner.ctx
	}
	for _, reg := range regions {
		if reg.Kind == markers.Frame {
			report.add(c.adoptFrame(ctx, parentCtx, reg, owner, report))
			continue
		}
		res := c.mount(parentCtx, loads[reg.Start], owner)
		c.metrics.RecordRegion(string(res.Status))
		report.add(res)
	}
}

func (c *Client) mount(parentCtx context.Context, l *load, owner *Frame) RegionResult {
	reg := l.region
	res := RegionResult{Kind: markers.Hydration, ID: reg.ID}
	if l.err != nil {
		res.Status, res.Err = StatusFailed, l.err
		c.logger.Warn("hydration region failed", "id", reg.ID, "error", l.err)
		return res
	}
	if !live(reg, l.text) {
		res.Status = StatusStale
		res.Err = rerrors.New(rerrors.CodeRegionStale).WithComponent(l.comp.Name).WithDetailf("region %q", reg.ID)
		c.logger.Info("hydration region stale", "id", reg.ID, "component", l.comp.Name)
		return res
	}

	root, err := reconcile.CreateRangeRoot(reg.Start, reg.End,
		reconcile.WithEnv(c.env),
		reconcile.WithHydration(),
		reconcile.WithContext(parentCtx),
	)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		c.logger.Warn("hydration region failed", "id", reg.ID, "error", err)
		return res
	}
	if owner != nil {
		owner.addRoot(root)
	} else {
		c.mu.Lock()
		c.roots = append(c.roots, root)
		c.mu.Unlock()
	}

	err = root.Render(vdom.C(l.comp, l.props))
	res.Mismatches = root.Mismatches()
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	res.Status = StatusMounted
	c.logger.Debug("hydrated region", "id", reg.ID, "component", l.comp.Name, "mismatches", res.Mismatches)
	return res
}

// live reports whether a region can still be mounted: both markers are
// connected siblings, still paired, and the start marker is unchanged.
func live(reg markers.Region, text string) bool {
	return reg.Connected() && reg.Start.Data() == text && markers.FindEnd(reg.Start) == reg.End
}
