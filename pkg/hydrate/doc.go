// Package hydrate attaches client components to server-rendered markup.
//
// The server renderer wraps every hydratable component in a region
//
//	<!--rmx:h:ID--> ... <!--/rmx:h-->
//
// and records the component's module reference and props in a JSON script:
//
//	<script type="application/json" id="rmx-data">
//	  {"h": {"ID": {"moduleUrl": "...", "exportName": "...", "props": {...}}},
//	   "f": {"ID": {"status": "...", "name": "...", "src": "..."}}}
//	</script>
//
// Client.Hydrate scans the document for regions, loads the referenced
// components concurrently and mounts each region in document order through a
// reconcile range root, adopting the server DOM instead of recreating it.
//
// # Module loading
//
// Loads are deduplicated per module and export: concurrent requests share
// one load and later requests are served from a cache. A failed load is not
// cached and only its own region is skipped.
//
// # Frames
//
// Frame regions (rmx:f) are owned by a Frame. The document scan never
// descends into them; a frame hydrates its own content, and Frame.Reload
// replaces that content from the FrameResolver. A reload cancels any reload
// still in flight.
package hydrate
