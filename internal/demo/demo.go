package demo

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/hydrate"
	"github.com/vango-dev/rmx/pkg/render"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// Demo is a page the CLI can render, serve and hydrate.
type Demo struct {
	Name        string
	Title       string
	Description string

	// Body builds the page body. framePrefix is prepended to frame names to
	// form frame sources.
	Body func(framePrefix string) *vdom.Node
}

// Options configures Page.
type Options struct {
	FramePrefix  string
	ClientScript string
}

// Page returns the page data for d.
func (d *Demo) Page(opts Options) render.PageData {
	return render.PageData{
		Title:        d.Title,
		Body:         d.Body(opts.FramePrefix),
		ClientScript: opts.ClientScript,
		Meta:         []render.MetaTag{{Name: "description", Content: d.Description}},
		Styles:       []string{stylesheet},
	}
}

const stylesheet = `body{font-family:system-ui,sans-serif;margin:2rem}` +
	`.messages li{display:flex;gap:1rem}.error{color:#b00}`

var demos = map[string]*Demo{
	"inbox": {
		Name:        "inbox",
		Title:       "Inbox",
		Description: "A keyed message list, a counter and a sidebar frame.",
		Body: func(prefix string) *vdom.Node {
			return vdom.Main(
				vdom.Header(vdom.H1("Inbox"), vdom.C(Counter, vdom.Props{"label": "Refresh", "start": 0})),
				vdom.C(MessageList, vdom.Props{"messages": []string{
					"Quarterly report",
					"Lunch on Friday?",
					"Your invoice is ready",
					"Re: deployment window",
				}}),
				vdom.Frame("sidebar", prefix+"sidebar", vdom.Aside(vdom.Class("loading"), "Loading folders")),
			)
		},
	},
	"catalog": {
		Name:        "catalog",
		Title:       "Catalog",
		Description: "Static shelves with hydrated counters, a disclosure and an error boundary.",
		Body: func(prefix string) *vdom.Node {
			return vdom.Main(
				vdom.H1("Catalog"),
				vdom.C(Shelf, vdom.Props{"title": "Tea", "products": []string{"Sencha", "Assam", "Rooibos"}}),
				vdom.C(Disclosure, vdom.Props{
					"summary":         "Shipping",
					vdom.PropChildren: []*vdom.Node{vdom.P("Orders ship within two days.")},
				}),
				vdom.Catch(func(err error) *vdom.Node {
					return vdom.P(vdom.Class("error"), err.Error())
				}, vdom.C(Unavailable, vdom.Props{"what": "Recommendations"})),
				vdom.Frame("reviews", prefix+"reviews", vdom.P("Loading reviews")),
			)
		},
	},
}

// frames holds the content served for each frame name.
var frames = map[string]func() *vdom.Node{
	"sidebar": func() *vdom.Node {
		return vdom.Aside(
			vdom.Class("sidebar"),
			vdom.H2("Folders"),
			vdom.Ul(
				vdom.Li("Inbox"),
				vdom.Li("Archive"),
				vdom.Li("Sent"),
			),
			vdom.C(Counter, vdom.Props{"label": "Starred", "start": 3}),
		)
	},
	"reviews": func() *vdom.Node {
		return vdom.Section(
			vdom.Class("reviews"),
			vdom.H2("Reviews"),
			vdom.C(Disclosure, vdom.Props{
				"summary":         "Sencha",
				"open":            true,
				vdom.PropChildren: []*vdom.Node{vdom.Blockquote("Grassy and bright.")},
			}),
		)
	},
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the demo registered under name.
func Lookup(name string) (*Demo, error) {
	if d, ok := demos[name]; ok {
		return d, nil
	}
	return nil, errors.New(errors.CodeUnknownDemo).
		WithDetailf("no demo named %q", name).
		WithSuggestion("Available demos: " + strings.Join(Names(), ", "))
}

// Registry returns a module registry holding every hydratable demo
// component.
func Registry() *hydrate.Registry {
	return hydrate.NewRegistry(Counter, MessageList, Disclosure)
}

// FrameNames returns the names of the frames the demos reference.
func FrameNames() []string {
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frame returns the content of the named frame.
func Frame(name string) (*vdom.Node, error) {
	build, ok := frames[name]
	if !ok {
		return nil, errors.New(errors.CodeFrameResolveFailed).
			WithDetailf("no frame named %q", name)
	}
	return build(), nil
}

// RenderFrame writes the markup of the named frame as a fragment response.
// Region ids carry the frame name as a prefix so they cannot collide with
// the ids of the page that embeds the frame.
func RenderFrame(ctx context.Context, w io.Writer, name string, config render.RendererConfig) error {
	node, err := Frame(name)
	if err != nil {
		return err
	}
	config.IDPrefix = name + "-"
	return render.NewRenderer(config).RenderFragment(ctx, w, node)
}

// ServerResolver resolves frames while the page renders, inlining their
// content instead of the placeholder.
func ServerResolver(framePrefix string) render.FrameResolver {
	return func(_ context.Context, spec vdom.FrameSpec) (*vdom.Node, error) {
		return Frame(strings.TrimPrefix(spec.Src, framePrefix))
	}
}

// ClientResolver serves frame markup to a hydrate.Client without a server
// round trip.
func ClientResolver(framePrefix string) hydrate.FrameResolver {
	return hydrate.FrameResolverFunc(func(ctx context.Context, src string) (io.Reader, error) {
		var buf bytes.Buffer
		if err := RenderFrame(ctx, &buf, strings.TrimPrefix(src, framePrefix), render.RendererConfig{}); err != nil {
			return nil, err
		}
		return &buf, nil
	})
}
