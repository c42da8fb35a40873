package render

import (
	"context"
	"fmt"
	"io"

	"github.com/vango-dev/rmx/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the page content, rendered inside <body>.
	Body *vdom.Node

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// Scripts contains script tags to include. Deferred and async scripts
	// go in the head, the rest after the body content.
	Scripts []ScriptTag

	// Styles contains inline CSS styles
	Styles []string

	// ClientScript is the path to the hydration client module, if any.
	ClientScript string

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string // rel attribute
	Href        string // href attribute
	Type        string // type attribute
	Sizes       string // sizes attribute
	CrossOrigin string // crossorigin attribute
	Media       string // media attribute
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	return r.RenderPageContext(context.Background(), w, page)
}

// RenderPageContext renders a complete HTML document. ctx is used as in
// RenderContext.
func (r *Renderer) RenderPageContext(ctx context.Context, w io.Writer, page PageData) error {
	if err := r.renderPreamble(w, page); err != nil {
		return err
	}
	if err := r.renderBody(ctx, w, page); err != nil {
		return err
	}
	return r.renderTail(w, page)
}

// renderPreamble writes the doctype, the html start tag and the head.
func (r *Renderer) renderPreamble(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}
	return r.renderHead(w, page)
}

func (r *Renderer) renderBody(ctx context.Context, w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderContext(ctx, w, page.Body); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// renderTail writes the data script, the client scripts and the closing
// tags.
func (r *Renderer) renderTail(w io.Writer, page PageData) error {
	if err := r.renderDataScript(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		`  <meta charset="utf-8">`+"\n"+
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := r.renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		if err := r.renderLinkTag(w, link); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if err := r.renderLinkTag(w, LinkTag{Rel: "stylesheet", Href: href}); err != nil {
			return err
		}
	}

	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	// Deferred and async scripts load from the head.
	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			if err := r.renderScriptTag(w, script); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeTagAttrs writes name="value" pairs, skipping empty values.
func writeTagAttrs(w io.Writer, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, pairs[i], escapeAttr(pairs[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// renderMetaTag renders a meta element.
func (r *Renderer) renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := io.WriteString(w, "  <meta"); err != nil {
		return err
	}
	if err := writeTagAttrs(w,
		"charset", meta.Charset,
		"name", meta.Name,
		"property", meta.Property,
		"http-equiv", meta.HTTPEquiv,
		"content", meta.Content,
	); err != nil {
		return err
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

// renderLinkTag renders a link element.
func (r *Renderer) renderLinkTag(w io.Writer, link LinkTag) error {
	if _, err := io.WriteString(w, "  <link"); err != nil {
		return err
	}
	if err := writeTagAttrs(w,
		"rel", link.Rel,
		"href", link.Href,
		"type", link.Type,
		"sizes", link.Sizes,
		"crossorigin", link.CrossOrigin,
		"media", link.Media,
	); err != nil {
		return err
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

// renderScriptTag renders a script element.
func (r *Renderer) renderScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := io.WriteString(w, "  <script"); err != nil {
		return err
	}
	typ := script.Type
	if script.Module {
		typ = "module"
	}
	if err := writeTagAttrs(w, "src", script.Src, "type", typ); err != nil {
		return err
	}
	if script.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	if script.Async {
		if _, err := io.WriteString(w, " async"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, ">%s</script>\n", script.Inline)
	return err
}

// renderClientScript writes the body scripts: the hydration client module
// and every script that is neither deferred nor async.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	if page.ClientScript != "" {
		if _, err := fmt.Fprintf(w, `  <script type="module" src="%s"></script>`+"\n",
			escapeAttr(page.ClientScript)); err != nil {
			return err
		}
	}

	for _, script := range page.Scripts {
		if !script.Defer && !script.Async {
			if err := r.renderScriptTag(w, script); err != nil {
				return err
			}
		}
	}
	return nil
}
