package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Text("Hello, World!")
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.P("<script>alert('xss')</script>")
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.H1("Title"),
		vdom.P("Content"),
	)
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderTextareaValue(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{"value", vdom.Textarea(vdom.Name("body"), vdom.Value("hi <b>")), `<textarea name="body">hi &lt;b&gt;</textarea>`},
		{"default value", vdom.Textarea(vdom.DefaultValue("draft")), `<textarea>draft</textarea>`},
		{"value wins", vdom.Textarea(vdom.DefaultValue("draft"), vdom.Value("sent")), `<textarea>sent</textarea>`},
		{"leading newline", vdom.Textarea(vdom.Value("\nline")), "<textarea>\n\nline</textarea>"},
		{"children without value", vdom.Textarea("text"), `<textarea>text</textarea>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderVoidElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{
			name: "input",
			node: vdom.Input(vdom.Type("text"), vdom.Name("email")),
			want: `<input name="email" type="text">`,
		},
		{
			name: "br",
			node: vdom.Br(),
			want: `<br>`,
		},
		{
			name: "img",
			node: vdom.Img(vdom.Src("/a.png"), vdom.Prop("alt", "A")),
			want: `<img alt="A" src="/a.png">`,
		},
		{
			name: "meta",
			node: vdom.Meta(vdom.Prop("charset", "utf-8")),
			want: `<meta charset="utf-8">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
			if strings.Contains(html, "</"+tt.name+">") {
				t.Errorf("void element should not have closing tag, got %q", html)
			}
		})
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{
			name: "class and for",
			node: vdom.Label(vdom.Class("a", "b"), vdom.For("email")),
			want: `<label class="a b" for="email"></label>`,
		},
		{
			name: "boolean true is bare",
			node: vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Disabled(true)),
			want: `<input checked disabled type="checkbox">`,
		},
		{
			name: "boolean false is absent",
			node: vdom.Button(vdom.Disabled(false), vdom.Hidden()),
			want: `<button hidden></button>`,
		},
		{
			name: "aria and data booleans are strings",
			node: vdom.Div(vdom.AriaHidden(false), vdom.Data("open", "yes")),
			want: `<div aria-hidden="false" data-open="yes"></div>`,
		},
		{
			name: "numbers",
			node: vdom.Div(vdom.TabIndex(2), vdom.Prop("data-ratio", 1.5)),
			want: `<div data-ratio="1.5" tabindex="2"></div>`,
		},
		{
			name: "style object",
			node: vdom.Div(vdom.Styled(vdom.Styles{"color": "red", "marginTop": 4, "hidden": true})),
			want: `<div style="color: red; margin-top: 4px;"></div>`,
		},
		{
			name: "style string",
			node: vdom.Div(vdom.StyleAttr("color: blue")),
			want: `<div style="color: blue"></div>`,
		},
		{
			name: "listeners and callbacks are skipped",
			node: vdom.Button(
				vdom.OnClick(func(*dom.Event) {}),
				vdom.Connect(func(context.Context, *dom.Node) {}),
				vdom.Prop("render", func() {}),
				"Go",
			),
			want: `<button>Go</button>`,
		},
		{
			name: "runtime values",
			node: vdom.Select(vdom.SelectedIndex(1), vdom.Option(vdom.Value("a"), vdom.Selected(true), "A")),
			want: `<select><option selected value="a">A</option></select>`,
		},
		{
			name: "default value",
			node: vdom.Input(vdom.DefaultValue("x")),
			want: `<input value="x">`,
		},
		{
			name: "empty string keeps the attribute",
			node: vdom.Input(vdom.Value("")),
			want: `<input value="">`,
		},
		{
			name: "escaped value",
			node: vdom.Div(vdom.TitleAttr(`say "hi" & <go>`)),
			want: `<div title="say &quot;hi&quot; &amp; &lt;go&gt;"></div>`,
		},
		{
			name: "inner html",
			node: vdom.Div(vdom.InnerHTML("<strong>Bold</strong>"), "ignored"),
			want: `<div><strong>Bold</strong></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := NewRenderer(RendererConfig{}).RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderSVGAttributes(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Svg(vdom.ViewBox("0 0 10 10"), vdom.Class("icon"),
		vdom.H("use", vdom.XlinkHref("#dot"), vdom.Prop("strokeWidth", 2)),
		vdom.H("foreignObject",
			vdom.Div(vdom.TabIndex(1)),
		),
	)
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<svg class="icon" viewBox="0 0 10 10">` +
		`<use stroke-width="2" xlink:href="#dot"></use>` +
		`<foreignObject><div tabindex="1"></div></foreignObject>` +
		`</svg>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAdjacentText(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{
			name: "siblings are separated",
			node: vdom.P("a", "b"),
			want: `<p>a<!-- -->b</p>`,
		},
		{
			name: "empty text writes nothing",
			node: vdom.P("a", vdom.Text(""), "b"),
			want: `<p>a<!-- -->b</p>`,
		},
		{
			name: "across fragments",
			node: vdom.P(vdom.Fragment("a"), vdom.Fragment("b")),
			want: `<p>a<!-- -->b</p>`,
		},
		{
			name: "elements break runs",
			node: vdom.P("a", vdom.Em("b"), "c"),
			want: `<p>a<em>b</em>c</p>`,
		},
		{
			name: "script text is raw",
			node: vdom.H("script", "if (a < b) {}"),
			want: `<script>if (a < b) {}</script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := NewRenderer(RendererConfig{}).RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderFragment(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Fragment(
		vdom.Fragment(
			vdom.Span("A"),
			vdom.Span("B"),
		),
		vdom.Span("C"),
	)
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "<span>A</span><span>B</span><span>C</span>"
	if html != expected {
		t.Errorf("got %q, want %q", html, expected)
	}
}

func TestRenderNilNode(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "" {
		t.Errorf("nil node should produce empty string, got %q", html)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true, Indent: "  "})

	node := vdom.Div(
		vdom.H1("Title"),
		vdom.P("Content"),
	)
	html, err := renderer.RenderToString(node)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div>\n  <h1>Title</h1>\n  <p>Content</p>\n</div>\n"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderPrettyKeepsRegionsCompact(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	html, err := renderer.RenderToString(vdom.Div(vdom.C(counter, vdom.Props{"start": 1})))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<!--rmx:h:h1--><button>1</button><!--/rmx:h-->") {
		t.Errorf("region should be compact, got %q", html)
	}
}

func TestRenderComponent(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	greet := vdom.Func("Greet", func(props vdom.Props) (*vdom.Node, error) {
		name, _ := props["name"].(string)
		return vdom.Div("Hello, ", name), nil
	})
	html, err := renderer.RenderToString(vdom.C(greet, vdom.Props{"name": "Ada"}))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "<div>Hello, <!-- -->Ada</div>"; html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderComponentContext(t *testing.T) {
	var theme *vdom.Component
	label := vdom.Define("Label", func(h vdom.Handle, _ vdom.Props) vdom.RenderFunc {
		return func(vdom.Props) (*vdom.Node, error) {
			v, ok := h.Lookup(theme)
			if !ok {
				return vdom.Span("none"), nil
			}
			return vdom.Span(v.(string)), nil
		}
	})
	theme = vdom.Define("Theme", func(h vdom.Handle, props vdom.Props) vdom.RenderFunc {
		h.Provide(props["name"])
		return func(vdom.Props) (*vdom.Node, error) {
			return vdom.Div(vdom.C(label, nil)), nil
		}
	})

	html, err := NewRenderer(RendererConfig{}).RenderToString(vdom.Fragment(
		vdom.C(theme, vdom.Props{"name": "dark"}),
		vdom.C(label, nil),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "<div><span>dark</span></div><span>none</span>"; html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderRemovesHandles(t *testing.T) {
	var (
		removed int
		handle  vdom.Handle
	)
	comp := vdom.Define("Life", func(h vdom.Handle, _ vdom.Props) vdom.RenderFunc {
		handle = h
		h.OnRemove(func() { removed++ })
		h.QueueTask(func(context.Context) error { return nil })
		h.Update()
		return func(vdom.Props) (*vdom.Node, error) {
			if h.Context().Err() != nil {
				return nil, errors.New("context done during render")
			}
			return vdom.Span("x"), nil
		}
	})

	if _, err := NewRenderer(RendererConfig{}).RenderToString(vdom.C(comp, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("OnRemove ran %d times, want 1", removed)
	}
	if handle.Context().Err() == nil {
		t.Error("handle context should be cancelled after render")
	}
	handle.OnRemove(func() { removed++ })
	if removed != 2 {
		t.Error("OnRemove after removal should run immediately")
	}
}

func TestRenderComponentErrors(t *testing.T) {
	tests := []struct {
		name      string
		comp      *vdom.Component
		wantCode  string
		wantComp  string
		wantInErr string
	}{
		{
			name: "render error",
			comp: vdom.Func("Broken", func(vdom.Props) (*vdom.Node, error) {
				return nil, errors.New("boom")
			}),
			wantCode:  rerrors.CodeRenderFailed,
			wantComp:  "Broken",
			wantInErr: "boom",
		},
		{
			name: "panic",
			comp: vdom.Func("Panics", func(vdom.Props) (*vdom.Node, error) {
				panic("kaboom")
			}),
			wantCode: rerrors.CodeRenderPanic,
			wantComp: "Panics",
		},
		{
			name:     "no setup",
			comp:     &vdom.Component{Name: "Bare"},
			wantCode: rerrors.CodeInvariant,
			wantComp: "Bare",
		},
		{
			name: "coded error keeps its code",
			comp: vdom.Func("Loader", func(vdom.Props) (*vdom.Node, error) {
				return nil, rerrors.New(rerrors.CodeModuleNotFound)
			}),
			wantCode: rerrors.CodeModuleNotFound,
			wantComp: "Loader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(RendererConfig{}).RenderToString(vdom.Div(vdom.C(tt.comp, nil)))
			if got := rerrors.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			var re *rerrors.RmxError
			if !errors.As(err, &re) || re.Component != tt.wantComp {
				t.Errorf("component = %v, want %q", err, tt.wantComp)
			}
			if tt.wantInErr != "" && !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("error %q should mention %q", err, tt.wantInErr)
			}
		})
	}
}

func TestRenderToWriter(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderToWriter(&buf, vdom.Div("Streamed")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<div>Streamed</div>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderToWriterPropagatesWriteErrors(t *testing.T) {
	node := vdom.Div(vdom.Class("a"),
		vdom.P("one", "two"),
		vdom.C(counter, vdom.Props{"start": 1}),
		vdom.Frame("side", "", vdom.Span("wait")),
	)

	cw := &countingWriter{}
	if err := NewRenderer(RendererConfig{}).RenderToWriter(cw, node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i <= cw.Writes; i++ {
		fw := &failingWriter{FailAt: i}
		if err := NewRenderer(RendererConfig{}).RenderToWriter(fw, node); !errors.Is(err, errTestWrite) {
			t.Fatalf("failAt=%d: err=%v, want %v", i, err, errTestWrite)
		}
	}
}
