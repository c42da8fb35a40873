package demo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/hydrate"
	"github.com/vango-dev/rmx/pkg/render"
)

const framePrefix = "/frames/"

func renderDemo(t *testing.T, name string, config render.RendererConfig) string {
	t.Helper()
	d, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	page := d.Page(Options{FramePrefix: framePrefix, ClientScript: "/static/rmx.js"})
	if err := render.NewRenderer(config).RenderPage(&buf, page); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	return buf.String()
}

func hydrateDemo(t *testing.T, html string) (*dom.Document, *hydrate.Report) {
	t.Helper()
	doc, err := dom.ParseHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}
	client := hydrate.New(Registry(), hydrate.WithResolver(ClientResolver(framePrefix)))
	t.Cleanup(client.Close)
	report, err := client.Hydrate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	return doc, report
}

func byClass(doc *dom.Document, class string) []*dom.Node {
	var out []*dom.Node
	doc.Body().Walk(func(n *dom.Node) bool {
		if n.IsElement() {
			if v, _ := n.GetAttribute("class"); v == class {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}

func texts(nodes []*dom.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TextContent()
	}
	return out
}

func click(doc *dom.Document, n *dom.Node) {
	n.DispatchEvent(dom.NewEvent("click", nil))
	doc.RunMicrotasks()
}

func TestNames(t *testing.T) {
	if diff := cmp.Diff([]string{"catalog", "inbox"}, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"reviews", "sidebar"}, FrameNames()); diff != "" {
		t.Errorf("FrameNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope")
	if !errors.Is(err, errors.CodeUnknownDemo) {
		t.Fatalf("Lookup() error = %v, want %s", err, errors.CodeUnknownDemo)
	}
	if !strings.Contains(err.(*errors.RmxError).Suggestion, "catalog, inbox") {
		t.Errorf("suggestion should list demos: %v", err)
	}
}

func TestInboxHydrates(t *testing.T) {
	html := renderDemo(t, "inbox", render.RendererConfig{})
	if !strings.Contains(html, "Loading folders") {
		t.Fatalf("pending frame should render its placeholder: %q", html)
	}

	doc, report := hydrateDemo(t, html)
	// Counter, MessageList, the sidebar frame and the counter inside it.
	if got := report.Count(hydrate.StatusMounted); got != 4 {
		t.Fatalf("mounted = %d, want 4 (%v)", got, report.Err())
	}
	if got := report.Mismatches(); got != 0 {
		t.Errorf("mismatches = %d, want 0", got)
	}
	if sidebar := byClass(doc, "sidebar"); len(sidebar) != 1 || !strings.Contains(sidebar[0].TextContent(), "Folders") {
		t.Errorf("sidebar frame should be resolved, body = %q", doc.Body().TextContent())
	}

	subjects := func() []string { return texts(byClass(doc, "subject")) }
	want := []string{"Quarterly report", "Lunch on Friday?", "Your invoice is ready", "Re: deployment window"}
	if diff := cmp.Diff(want, subjects()); diff != "" {
		t.Fatalf("subjects mismatch (-want +got):\n%s", diff)
	}

	doc.ResetStats()
	click(doc, byClass(doc, "reverse")[0])
	want = []string{"Re: deployment window", "Your invoice is ready", "Lunch on Friday?", "Quarterly report"}
	if diff := cmp.Diff(want, subjects()); diff != "" {
		t.Errorf("after reverse (-want +got):\n%s", diff)
	}
	if got := doc.Stats().Creates; got != 0 {
		t.Errorf("keyed reverse should move nodes, created %d", got)
	}

	click(doc, byClass(doc, "archive")[1])
	want = []string{"Re: deployment window", "Lunch on Friday?", "Quarterly report"}
	if diff := cmp.Diff(want, subjects()); diff != "" {
		t.Errorf("after archive (-want +got):\n%s", diff)
	}

	counters := byClass(doc, "counter")
	if diff := cmp.Diff([]string{"Refresh: 0", "Starred: 3"}, texts(counters)); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}
	click(doc, counters[1])
	if got := counters[1].TextContent(); got != "Starred: 4" {
		t.Errorf("frame counter after click = %q", got)
	}
}

func TestCatalogHydrates(t *testing.T) {
	html := renderDemo(t, "catalog", render.RendererConfig{})
	if !strings.Contains(html, `<p class="error">Recommendations is unavailable</p>`) {
		t.Errorf("error boundary should render its fallback: %q", html)
	}

	doc, report := hydrateDemo(t, html)
	// Three shelf counters, the disclosure, the reviews frame and the
	// disclosure inside it.
	if got := report.Count(hydrate.StatusMounted); got != 6 {
		t.Fatalf("mounted = %d, want 6 (%v)", got, report.Err())
	}
	if got := report.Mismatches(); got != 0 {
		t.Errorf("mismatches = %d, want 0", got)
	}

	disclosures := byClass(doc, "disclosure")
	if len(disclosures) != 2 {
		t.Fatalf("disclosures = %d, want 2", len(disclosures))
	}
	if got := len(byClass(doc, "panel")); got != 1 {
		t.Fatalf("open panels = %d, want 1", got)
	}

	toggle := disclosures[0].FirstChild()
	click(doc, toggle)
	if v, _ := toggle.GetAttribute("aria-expanded"); v != "true" {
		t.Errorf("aria-expanded = %q, want true", v)
	}
	panels := byClass(doc, "panel")
	if len(panels) != 2 || panels[0].TextContent() != "Orders ship within two days." {
		t.Errorf("panels = %v", texts(panels))
	}
}

func TestServerResolverInlinesFrames(t *testing.T) {
	html := renderDemo(t, "inbox", render.RendererConfig{ResolveFrame: ServerResolver(framePrefix)})
	if strings.Contains(html, "Loading folders") || !strings.Contains(html, "Folders") {
		t.Fatalf("frame should be inlined: %q", html)
	}

	doc, report := hydrateDemo(t, html)
	if got := report.Count(hydrate.StatusMounted); got != 4 {
		t.Fatalf("mounted = %d, want 4 (%v)", got, report.Err())
	}
	if got := report.Mismatches(); got != 0 {
		t.Errorf("mismatches = %d, want 0", got)
	}
	if got := len(byClass(doc, "sidebar")); got != 1 {
		t.Errorf("sidebars = %d, want 1", got)
	}
}

func TestRenderFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderFrame(context.Background(), &buf, "sidebar", render.RendererConfig{}); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<!--rmx:h:sidebar-h1-->", `"sidebar-h1"`, `id="rmx-data"`} {
		if !strings.Contains(html, want) {
			t.Errorf("frame markup should contain %q: %q", want, html)
		}
	}

	err := RenderFrame(context.Background(), &buf, "missing", render.RendererConfig{})
	if !errors.Is(err, errors.CodeFrameResolveFailed) {
		t.Errorf("RenderFrame() error = %v, want %s", err, errors.CodeFrameResolveFailed)
	}
}
