// Package render provides server-side rendering for rmx component trees.
//
// The renderer writes the same markup the client reconciler would build,
// plus the hydration protocol the client needs to adopt it:
//
//   - Hydratable components (those with a module reference) are wrapped in
//     <!--rmx:h:ID--> and <!--/rmx:h--> comments and recorded in the data
//     blob with their module URL, export name and serialized props.
//   - Frames are wrapped in <!--rmx:f:ID--> and <!--/rmx:f--> and recorded
//     with their status, name and source.
//   - Adjacent text nodes are separated by <!-- --> so they hydrate as
//     distinct nodes.
//
// Attribute names and values follow the client's normalization, in sorted
// order. Listeners, connect callbacks and other functions are not rendered.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//	blob := renderer.Data()
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Body:         body,
//	    Title:        "Inbox",
//	    ClientScript: "/static/rmx.js",
//	}
//	err := renderer.RenderPage(w, page)
//
// RenderPage writes the data blob as
// <script type="application/json" id="rmx-data"> after the body content.
//
// # Frames
//
// With RendererConfig.ResolveFrame set, frames with a source are rendered
// with their content and marked resolved. Otherwise the placeholder is
// rendered and the frame is marked pending for the client to resolve.
// RenderFragment produces a frame response: markup followed by the data
// script of the regions inside it.
//
// # Streaming
//
// StreamingRenderer flushes the head, the body and the data script as each
// is written:
//
//	sr := render.NewStreamingRenderer(w, config)
//	err := sr.RenderPage(page)
//
// # Security
//
// Text content and attribute values are escaped. The innerHTML prop and the
// text of script and style elements are written verbatim and must only
// carry trusted content.
package render
