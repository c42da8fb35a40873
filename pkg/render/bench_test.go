package render

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/vango-dev/rmx/pkg/vdom"
)

func BenchmarkRenderLargeTree(b *testing.B) {
	items := make([]*vdom.Node, 1000)
	for i := range items {
		items[i] = vdom.Li(vdom.Class("item"), vdom.Textf("Item %d", i))
	}
	node := vdom.Ul(items)

	renderer := NewRenderer(RendererConfig{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		renderer.Reset()
		if err := renderer.RenderToWriter(io.Discard, node); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRenderHydratableRegions(b *testing.B) {
	regions := make([]*vdom.Node, 100)
	for i := range regions {
		regions[i] = vdom.C(card, vdom.Props{"title": vdom.H2(fmt.Sprintf("Card %d", i))})
	}
	node := vdom.Main(regions)

	renderer := NewRenderer(RendererConfig{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		renderer.Reset()
		if err := renderer.RenderFragment(context.Background(), io.Discard, node); err != nil {
			b.Fatal(err)
		}
	}
}
