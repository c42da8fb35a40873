package reconcile

import (
	"fmt"
	"sync"

	"github.com/vango-dev/rmx/pkg/dom"
)

// layoutRegistry tracks hosts with a layout transition.
type layoutRegistry struct {
	mu    sync.Mutex
	nodes map[*node]struct{}
}

type layoutSnapshot struct {
	n     *node
	first dom.Rect
}

func (l *layoutRegistry) track(n *node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n.animate != nil && n.animate.Layout != nil {
		l.nodes[n] = struct{}{}
	} else {
		delete(l.nodes, n)
	}
}

func (l *layoutRegistry) untrack(n *node) {
	l.mu.Lock()
	delete(l.nodes, n)
	l.mu.Unlock()
}

// snapshot measures every tracked element inside one of scopes. This is the
// First step of FLIP and must run before any DOM mutation.
func (l *layoutRegistry) snapshot(scopes []*dom.Node) []layoutSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.nodes) == 0 || len(scopes) == 0 {
		return nil
	}
	var out []layoutSnapshot
	for n := range l.nodes {
		if !n.dom.IsConnected() {
			continue
		}
		for _, s := range scopes {
			if s.Contains(n.dom) {
				out = append(out, layoutSnapshot{n: n, first: n.dom.BoundingClientRect()})
				break
			}
		}
	}
	return out
}

// play measures the committed layout and animates each element from its
// old box to its new one. It returns the number of animations started.
func (l *layoutRegistry) play(snaps []layoutSnapshot) int {
	started := 0
	for _, s := range snaps {
		n := s.n
		if n.removed || n.exiting || n.animate == nil || n.animate.Layout == nil || !n.dom.IsConnected() {
			continue
		}
		last := n.dom.BoundingClientRect()
		dx := s.first.X - last.X
		dy := s.first.Y - last.Y
		sx, sy := 1.0, 1.0
		if last.Width != 0 {
			sx = s.first.Width / last.Width
		}
		if last.Height != 0 {
			sy = s.first.Height / last.Height
		}
		if dx == 0 && dy == 0 && sx == 1 && sy == 1 {
			continue
		}

		t := n.animate.Layout
		n.dom.Animate([]dom.Keyframe{
			{
				"transform":        fmt.Sprintf("translate(%gpx, %gpx) scale(%g, %g)", dx, dy, sx, sy),
				"transform-origin": "0 0",
			},
			{"transform": "none"},
		}, dom.AnimationOptions{Duration: t.Duration, Easing: t.Easing})
		started++
	}
	return started
}
