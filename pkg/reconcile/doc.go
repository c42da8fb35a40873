// Package reconcile mounts virtual node trees into a dom.Document and keeps
// them up to date.
//
// A Root owns a committed tree. Render proposes a new tree and flushes it
// synchronously; components request their own re-render through their
// vdom.Handle, which batches into a microtask flush:
//
//	root := reconcile.CreateRoot(doc.Body())
//	if err := root.Render(vdom.C(App, nil)); err != nil {
//	    log.Fatal(err)
//	}
//	doc.RunMicrotasks()
//
// # Flushes
//
// A flush snapshots the scheduled components and drops any whose ancestor
// is also scheduled. It measures layout-animated elements, captures focus,
// re-renders the survivors against their current position in the tree,
// restores focus, plays FLIP animations and finally runs queued tasks.
// Listener updates and connect callbacks run in the task phase.
//
// # Errors
//
// Render errors propagate to the nearest vdom.Catch boundary, which unmounts
// its children and mounts its fallback. Errors no boundary traps, and task
// errors, are dispatched as "error" events on the root (see
// Root.AddEventListener). Contract violations carry the invariant category
// and are never trapped.
//
// # Hydration
//
// WithHydration makes the first render adopt existing DOM. Matching elements
// and text are reused; mismatches are logged, the stale node is discarded
// and the subtree is created fresh. Comments are skipped, and frame regions
// (rmx:f markers) are only claimed by frame nodes.
//
// CreateRangeRoot renders between two sibling comments instead of inside a
// container; pkg/hydrate uses it for marker-delimited regions.
package reconcile
