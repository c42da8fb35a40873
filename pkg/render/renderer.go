package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/hydrate"
	"github.com/vango-dev/rmx/pkg/markers"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// FrameResolver renders the content of a frame on the server. The returned
// tree replaces the frame's placeholder children.
type FrameResolver func(ctx context.Context, spec vdom.FrameSpec) (*vdom.Node, error)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Hydration and frame regions are always written compact, so pretty
	// output stays hydratable.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// IDPrefix is prepended to generated region ids. Renderers whose output
	// ends up in the same document (a page and its frame responses) should
	// use distinct prefixes.
	IDPrefix string

	// ResolveFrame renders frame content inline. Without it, or when it
	// fails, frames render their placeholder and are marked pending.
	ResolveFrame FrameResolver

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer renders vdom trees to HTML. It records the hydration data of
// every region it writes; a Renderer is not safe for concurrent use.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
	ctx    context.Context

	seq     map[string]int
	data    *hydrate.Data
	journal []dataEntry
	handles []*serverHandle
	owner   *serverHandle

	// hydrating counts open hydration regions in the current frame scope.
	hydrating int
	// regions counts all open regions; pretty printing is off inside one.
	regions  int
	lastText bool
}

type dataEntry struct {
	kind markers.Kind
	id   string
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{config: config, logger: logger.With("component", "render")}
	r.Reset()
	return r
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.Node) error {
	return r.RenderContext(context.Background(), w, node)
}

// RenderContext streams a tree to w. ctx is passed to the frame resolver and
// is the parent of every component handle's context. Handles are removed,
// running their OnRemove callbacks, before RenderContext returns.
func (r *Renderer) RenderContext(ctx context.Context, w io.Writer, node *vdom.Node) error {
	ctx, cancel := context.WithCancel(ctx)
	prev := r.ctx
	r.ctx = ctx
	defer func() {
		r.ctx = prev
		cancel()
		r.release()
	}()
	return r.renderNode(w, node, 0, false)
}

// RenderFragment writes node followed by the data script of the regions
// rendered so far. It produces a frame response body.
func (r *Renderer) RenderFragment(ctx context.Context, w io.Writer, node *vdom.Node) error {
	if err := r.RenderContext(ctx, w, node); err != nil {
		return err
	}
	return r.renderDataScript(w)
}

// Data returns the hydration data recorded so far.
func (r *Renderer) Data() *hydrate.Data {
	return r.data
}

// Reset resets the renderer state for reuse.
// This clears the id counters and the hydration data.
func (r *Renderer) Reset() {
	r.seq = make(map[string]int)
	r.data = hydrate.NewData()
	r.journal = nil
	r.handles = nil
	r.owner = nil
	r.hydrating = 0
	r.regions = 0
	r.lastText = false
}

func (r *Renderer) nextID(prefix string) string {
	r.seq[prefix]++
	return r.config.IDPrefix + prefix + strconv.Itoa(r.seq[prefix])
}

func (r *Renderer) pretty() bool {
	return r.config.Pretty && r.regions == 0
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.Node, depth int, svg bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindHost:
		return r.renderElement(w, node, depth, svg)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderChildren(w, node.Children, depth, svg)
	case vdom.KindComponent:
		return r.renderComponent(w, node, depth, svg)
	case vdom.KindCatch:
		return r.renderCatch(w, node, depth, svg)
	case vdom.KindFrame:
		return r.renderFrame(w, node, depth, svg)
	default:
		return rerrors.New(rerrors.CodeInvariant).WithDetailf("unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderChildren(w io.Writer, children []*vdom.Node, depth int, svg bool) error {
	for _, child := range children {
		if err := r.renderNode(w, child, depth, svg); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders a host element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.Node, depth int, parentSVG bool) error {
	tag := node.Tag
	svg := tag == "svg" || parentSVG
	r.lastText = false

	if r.pretty() && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node, svg); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if !svg && vdom.IsVoidElement(tag) {
		if r.pretty() {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	childSVG := svg && tag != "foreignObject"
	if text, ok := vdom.TextareaValue(node); ok {
		// The parser drops one newline right after <textarea>.
		if strings.HasPrefix(text, "\n") {
			text = "\n" + text
		}
		if _, err := io.WriteString(w, escapeHTML(text)); err != nil {
			return err
		}
	} else if html, ok := node.Props[vdom.PropInnerHTML].(string); ok {
		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
	} else if isRawTextElement(tag) {
		for _, child := range node.Children {
			if child != nil && child.Kind == vdom.KindText {
				if _, err := io.WriteString(w, child.Text); err != nil {
					return err
				}
			}
		}
	} else {
		hasBlockChildren := !isInlineElement(tag) && hasElementChild(node.Children)
		if r.pretty() && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		if err := r.renderChildren(w, node.Children, depth+1, childSVG); err != nil {
			return err
		}

		if r.pretty() && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	r.lastText = false
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.pretty() {
		w.Write([]byte{'\n'})
	}
	return nil
}

func hasElementChild(children []*vdom.Node) bool {
	for _, c := range children {
		if c != nil && c.Kind != vdom.KindText {
			return true
		}
	}
	return false
}

// renderText renders a text node with HTML escaping. Adjacent text nodes
// are separated by an empty comment so they parse back as distinct nodes.
func (r *Renderer) renderText(w io.Writer, node *vdom.Node) error {
	if node.Text == "" {
		return nil
	}
	if r.lastText {
		if _, err := io.WriteString(w, "<!-- -->"); err != nil {
			return err
		}
	}
	r.lastText = true
	_, err := io.WriteString(w, escapeHTML(node.Text))
	return err
}

func (r *Renderer) writeComment(w io.Writer, text string) error {
	r.lastText = false
	_, err := fmt.Fprintf(w, "<!--%s-->", text)
	return err
}

// renderAttributes renders all attributes for an element in sorted order.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.Node, svg bool) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		// selectedIndex is runtime state with no attribute form.
		if vdom.IsReserved(key) || key == "selectedIndex" || vdom.IsFunc(value) {
			continue
		}
		// A textarea's value is its text content.
		if node.Tag == "textarea" && (key == "value" || key == "defaultValue") {
			continue
		}

		ns, name := vdom.AttributeName(key, svg)
		switch ns {
		case dom.NamespaceXLink:
			name = "xlink:" + name
		case dom.NamespaceXML:
			name = "xml:" + name
		}

		str, ok := vdom.AttributeValue(name, value)
		if !ok {
			continue
		}
		if b, isBool := value.(bool); isBool && b && str == "" {
			if _, err := fmt.Fprintf(w, " %s", name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(str)); err != nil {
			return err
		}
	}
	return nil
}

// renderComponent runs the component through a server handle. The outermost
// hydratable component of each frame scope is wrapped in hydration markers.
func (r *Renderer) renderComponent(w io.Writer, node *vdom.Node, depth int, svg bool) error {
	h := r.newHandle(node.Comp)
	out, err := r.invoke(h, node)
	if err != nil {
		return err
	}

	comp := node.Comp
	if !comp.IsHydratable() || r.hydrating > 0 {
		return r.withOwner(h, func() error {
			return r.renderNode(w, out, depth, svg)
		})
	}

	props, err := hydrate.EncodeProps(node.Props)
	if err != nil {
		r.logger.Warn("hydratable component rendered without markers",
			"component", comp.Name,
			"error", err,
		)
		return r.withOwner(h, func() error {
			return r.renderNode(w, out, depth, svg)
		})
	}

	id := r.nextID("h")
	r.data.H[id] = hydrate.RegionData{
		ModuleURL:  comp.ModuleURL,
		ExportName: comp.ExportName,
		Props:      props,
	}
	r.journal = append(r.journal, dataEntry{kind: markers.Hydration, id: id})

	if r.pretty() && depth > 0 {
		r.writeIndent(w, depth)
	}
	if err := r.writeComment(w, markers.StartText(markers.Hydration, id)); err != nil {
		return err
	}
	r.hydrating++
	r.regions++
	err = r.withOwner(h, func() error {
		return r.renderNode(w, out, depth, svg)
	})
	r.hydrating--
	r.regions--
	if err != nil {
		return err
	}
	if err := r.writeComment(w, markers.EndText(markers.Hydration)); err != nil {
		return err
	}
	if r.pretty() {
		w.Write([]byte{'\n'})
	}
	return nil
}

// invoke runs setup and render. Panics are recovered as render errors and a
// nil result renders nothing.
func (r *Renderer) invoke(h *serverHandle, node *vdom.Node) (out *vdom.Node, err error) {
	comp := node.Comp
	name := node.TypeName()
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = rerrors.New(rerrors.CodeRenderPanic).
				WithComponent(name).
				WithDetail(fmt.Sprint(p))
		}
	}()

	if comp == nil || comp.Setup == nil {
		return nil, rerrors.New(rerrors.CodeInvariant).
			WithComponent(name).
			WithDetail("component has no setup function")
	}
	render := comp.Setup(h, node.Props)
	if render == nil {
		return nil, rerrors.New(rerrors.CodeInvariant).
			WithComponent(name).
			WithDetail("setup returned a nil render function")
	}
	out, err = render(node.Props)
	if err != nil {
		re := rerrors.FromError(err, rerrors.CodeRenderFailed)
		if re.Component == "" {
			re.Component = name
		}
		return nil, re
	}
	return out, nil
}

func (r *Renderer) withOwner(h *serverHandle, fn func() error) error {
	prev := r.owner
	r.owner = h
	defer func() { r.owner = prev }()
	return fn()
}

// renderCatch renders the boundary's children into a buffer. If they fail,
// the data they recorded is discarded and the fallback is rendered instead.
// Invariant errors are never caught.
func (r *Renderer) renderCatch(w io.Writer, node *vdom.Node, depth int, svg bool) error {
	var buf bytes.Buffer
	mark := len(r.journal)
	lastText := r.lastText

	err := r.renderChildren(&buf, node.Children, depth, svg)
	if err == nil {
		_, err = buf.WriteTo(w)
		return err
	}
	if rerrors.IsInvariant(err) || node.Fallback == nil {
		return err
	}

	r.rollback(mark)
	r.lastText = lastText
	r.logger.Warn("error boundary caught error",
		"error", err,
		"code", rerrors.CodeOf(err),
	)
	return r.renderNode(w, node.Fallback(err), depth, svg)
}

func (r *Renderer) rollback(mark int) {
	for _, e := range r.journal[mark:] {
		switch e.kind {
		case markers.Hydration:
			delete(r.data.H, e.id)
		case markers.Frame:
			delete(r.data.F, e.id)
		}
	}
	r.journal = r.journal[:mark]
}

// renderFrame writes a frame region. Resolved frames carry their content;
// pending frames carry the placeholder children for the client to replace.
func (r *Renderer) renderFrame(w io.Writer, node *vdom.Node, depth int, svg bool) error {
	spec := node.Frame
	if spec == nil {
		return rerrors.New(rerrors.CodeInvariant).WithDetail("frame node without a frame spec")
	}

	content := node.Children
	status := hydrate.FramePending
	if r.config.ResolveFrame != nil && spec.Src != "" {
		resolved, err := r.config.ResolveFrame(r.ctx, *spec)
		if err != nil {
			r.logger.Warn("frame rendered as pending",
				"frame", spec.Name,
				"src", spec.Src,
				"error", err,
			)
		} else {
			content = []*vdom.Node{resolved}
			status = hydrate.FrameResolved
		}
	}

	id := r.nextID("f")
	r.data.F[id] = hydrate.FrameData{Status: status, Name: spec.Name, Src: spec.Src}
	r.journal = append(r.journal, dataEntry{kind: markers.Frame, id: id})

	if r.pretty() && depth > 0 {
		r.writeIndent(w, depth)
	}
	if err := r.writeComment(w, markers.StartText(markers.Frame, id)); err != nil {
		return err
	}

	// Frame content hydrates on its own, so hydratable components inside
	// a frame get their own regions.
	hydrating := r.hydrating
	r.hydrating = 0
	r.regions++
	err := r.renderChildren(w, content, depth, svg)
	r.hydrating = hydrating
	r.regions--
	if err != nil {
		return err
	}

	if err := r.writeComment(w, markers.EndText(markers.Frame)); err != nil {
		return err
	}
	if r.pretty() {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderDataScript writes the hydration data script if any region was
// rendered.
func (r *Renderer) renderDataScript(w io.Writer) error {
	if len(r.data.H) == 0 && len(r.data.F) == 0 {
		return nil
	}
	blob, err := r.data.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `<script type="application/json" id="%s">%s</script>`,
		hydrate.DataScriptID, blob)
	return err
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
