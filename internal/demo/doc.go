// Package demo holds the demo pages the rmx command renders, serves and
// hydrates.
//
// Each demo is a page body built from a few hydratable components (Counter,
// MessageList, Disclosure) mixed with static markup, an error boundary and
// frames. Registry returns the module registry the client needs to hydrate
// those pages; RenderFrame and the resolvers serve frame content.
package demo
