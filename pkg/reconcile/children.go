package reconcile

import (
	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/vdom"
)

// diffChildren reconciles parent.children against next in domParent. end is
// the DOM node following the list. Children are matched by position unless
// at least one next child has a key.
func (r *Root) diffChildren(parent *node, next []*vdom.Node, domParent, end *dom.Node) error {
	next = compact(next)
	for _, c := range next {
		if c.HasKey() {
			return r.diffKeyed(parent, next, domParent, end)
		}
	}
	return r.diffPositional(parent, next, domParent, end)
}

func compact(list []*vdom.Node) []*vdom.Node {
	for _, c := range list {
		if c == nil {
			out := make([]*vdom.Node, 0, len(list))
			for _, c := range list {
				if c != nil {
					out = append(out, c)
				}
			}
			return out
		}
	}
	return list
}

func (r *Root) diffPositional(parent *node, next []*vdom.Node, domParent, end *dom.Node) error {
	prev := parent.children
	out := make([]*node, 0, len(next))
	var first error

	for i, v := range next {
		var n *node
		var err error
		if i < len(prev) {
			n, err = r.diff(prev[i], v, parent, domParent, slotEnd(prev, i, end))
		} else {
			n, err = r.insert(v, parent, domParent, end, nil)
		}
		out = append(out, n)
		if err != nil {
			if rerrors.IsInvariant(err) {
				if i+1 < len(prev) {
					out = append(out, prev[i+1:]...)
				}
				parent.children = out
				return err
			}
			if first == nil {
				first = err
			}
		}
	}
	for i := len(next); i < len(prev); i++ {
		r.remove(prev[i])
	}
	parent.children = out
	return first
}

// diffKeyed matches keyed children through a key map built from prev in one
// pass. A running skew tracks how far matches drift from their naive
// positions; a match one step off is absorbed into the skew, anything else
// is flagged for an explicit move. Unkeyed children only ever match the
// unkeyed previous child at their skew-adjusted position.
func (r *Root) diffKeyed(parent *node, next []*vdom.Node, domParent, end *dom.Node) error {
	prev := parent.children

	keyMap := make(map[string]int, len(prev))
	for i, c := range prev {
		if c.vnode.HasKey() {
			if _, dup := keyMap[c.vnode.Key]; !dup {
				keyMap[c.vnode.Key] = i
			}
		}
	}

	matched := make([]bool, len(prev))
	source := make([]*node, len(next))
	oldIndex := make([]int, len(next))
	move := make([]bool, len(next))

	skew := 0
	for i, v := range next {
		oldIndex[i] = -1
		pos := i + skew
		cand := -1
		if v.HasKey() {
			if j, ok := keyMap[v.Key]; ok && !matched[j] && prev[j].vnode.SameType(v) {
				cand = j
			}
		} else if pos >= 0 && pos < len(prev) && !matched[pos] &&
			!prev[pos].vnode.HasKey() && prev[pos].vnode.SameType(v) {
			cand = pos
		}

		if cand < 0 {
			if n := r.env.reclaim(parent, v); n != nil {
				r.resumeExit(n)
				source[i] = n
				move[i] = true
				continue
			}
			switch {
			case len(next) > len(prev):
				skew--
			case len(next) < len(prev):
				skew++
			}
			continue
		}

		matched[cand] = true
		source[i] = prev[cand]
		oldIndex[i] = cand
		switch cand {
		case pos:
		case pos + 1:
			skew++
		case pos - 1:
			skew--
		default:
			move[i] = true
		}
	}

	// Children that stay in place must appear in increasing old order.
	maxOld := -1
	for i := range next {
		if oldIndex[i] < 0 || move[i] {
			continue
		}
		if oldIndex[i] < maxOld {
			move[i] = true
			continue
		}
		maxOld = oldIndex[i]
	}

	for j, c := range prev {
		if !matched[j] {
			r.remove(c)
		}
	}

	ref := end
	for j, c := range prev {
		if !matched[j] {
			continue
		}
		if d := firstDom(c); d != nil {
			ref = d
			break
		}
	}

	out := make([]*node, 0, len(next))
	var first error
	for i, v := range next {
		var n *node
		var err error
		if src := source[i]; src == nil {
			n, err = r.insert(v, parent, domParent, ref, nil)
		} else {
			if move[i] {
				if d := firstDom(src); d != nil && d != ref {
					moveBefore(src, domParent, ref)
				}
			}
			slot := endAfter(src, ref)
			n, err = r.diff(src, v, parent, domParent, slot)
			ref = endAfter(n, slot)
		}
		out = append(out, n)
		if err != nil {
			if rerrors.IsInvariant(err) {
				parent.children = out
				return err
			}
			if first == nil {
				first = err
			}
		}
	}
	parent.children = out
	return first
}

func moveBefore(n *node, domParent, ref *dom.Node) {
	for _, d := range domNodes(n) {
		_ = domParent.InsertBefore(d, ref)
	}
}
