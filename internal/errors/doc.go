// Package errors provides coded, structured errors for rmx.
//
// Every error that crosses a package boundary is an *RmxError carrying a
// code from the registry (for example "E100"), a category, a short message
// and an optional wrapped cause:
//
//	err := errors.New(errors.CodeRenderFailed).
//	    WithComponent("Counter").
//	    Wrap(cause)
//
// # Error Categories
//
//   - render: a component's setup or render function failed
//   - task: a queued task failed
//   - invariant: a caller broke a reconciler contract
//   - hydration: server and client markup disagree
//   - loader: a hydration module could not be loaded
//   - frame: a frame could not be resolved
//   - config: rmx.json or rmx.yaml is missing or invalid
//   - cli: command-line usage errors
//
// Use Is(err, code) to test for a code anywhere in a wrapped chain, and
// Format for terminal output.
package errors
