// Package markers implements the comment grammar that delimits hydration
// and frame regions in server-rendered markup.
//
//	<!--rmx:h:ID--> ... <!--/rmx:h-->   component hydration region
//	<!--rmx:f:ID--> ... <!--/rmx:f-->   frame region
//
// Regions of the same kind nest; an end marker closes the innermost open
// start marker of its kind.
package markers

import (
	"fmt"
	"strings"

	"github.com/vango-dev/rmx/pkg/dom"
)

// Kind is the region kind.
type Kind uint8

const (
	Hydration Kind = iota + 1
	Frame
)

// String returns the marker prefix letter for k.
func (k Kind) String() string {
	switch k {
	case Hydration:
		return "h"
	case Frame:
		return "f"
	default:
		return "?"
	}
}

const prefix = "rmx:"

// Marker is a parsed marker comment.
type Marker struct {
	Kind Kind
	ID   string
	End  bool
}

// Parse parses comment text. Surrounding whitespace is ignored.
func Parse(text string) (Marker, bool) {
	s := strings.TrimSpace(text)
	end := strings.HasPrefix(s, "/")
	if end {
		s = s[1:]
	}
	if !strings.HasPrefix(s, prefix) || len(s) < len(prefix)+1 {
		return Marker{}, false
	}
	var kind Kind
	switch s[len(prefix)] {
	case 'h':
		kind = Hydration
	case 'f':
		kind = Frame
	default:
		return Marker{}, false
	}
	rest := s[len(prefix)+1:]
	if end {
		if rest != "" {
			return Marker{}, false
		}
		return Marker{Kind: kind, End: true}, true
	}
	if !strings.HasPrefix(rest, ":") || !validID(rest[1:]) {
		return Marker{}, false
	}
	return Marker{Kind: kind, ID: rest[1:]}, true
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

// StartText returns the start marker text for a region.
func StartText(kind Kind, id string) string {
	return fmt.Sprintf("%s%s:%s", prefix, kind, id)
}

// EndText returns the end marker text for kind.
func EndText(kind Kind) string {
	return "/" + prefix + kind.String()
}

// Of parses n as a marker comment.
func Of(n *dom.Node) (Marker, bool) {
	if !n.IsComment() {
		return Marker{}, false
	}
	return Parse(n.Data())
}

// StartOf reports whether n is a start marker of kind and returns its id.
func StartOf(n *dom.Node, kind Kind) (string, bool) {
	m, ok := Of(n)
	if !ok || m.End || m.Kind != kind {
		return "", false
	}
	return m.ID, true
}

// FindEnd returns the end marker paired with start, scanning start's
// following siblings with a depth counter. It returns nil if start is not a
// start marker or is unpaired.
func FindEnd(start *dom.Node) *dom.Node {
	m, ok := Of(start)
	if !ok || m.End {
		return nil
	}
	depth := 1
	for n := start.NextSibling(); n != nil; n = n.NextSibling() {
		other, ok := Of(n)
		if !ok || other.Kind != m.Kind {
			continue
		}
		if other.End {
			depth--
			if depth == 0 {
				return n
			}
		} else {
			depth++
		}
	}
	return nil
}

// Region is a paired start and end marker.
type Region struct {
	Kind  Kind
	ID    string
	Start *dom.Node
	End   *dom.Node
}

// Connected reports whether both markers are still in the document and
// share a parent.
func (r Region) Connected() bool {
	return r.Start != nil && r.End != nil &&
		r.Start.IsConnected() && r.End.IsConnected() &&
		r.Start.ParentNode() == r.End.ParentNode()
}

// Unpaired describes a start marker with no matching end marker.
type Unpaired struct {
	Kind Kind
	ID   string
	Node *dom.Node
}

func (u Unpaired) Error() string {
	return fmt.Sprintf("unpaired %s marker %q", EndText(u.Kind)[1:], u.ID)
}

// Scan returns the outermost regions under root in document order. It does
// not descend into a region once found, so nested hydration regions and
// everything inside frames are left to their owners.
func Scan(root *dom.Node) ([]Region, []Unpaired) {
	var s scanner
	s.children(root.FirstChild(), nil)
	return s.regions, s.unpaired
}

// ScanBetween returns the outermost regions strictly between start and end,
// which must be siblings.
func ScanBetween(start, end *dom.Node) ([]Region, []Unpaired) {
	var s scanner
	s.children(start.NextSibling(), end)
	return s.regions, s.unpaired
}

type scanner struct {
	regions  []Region
	unpaired []Unpaired
}

func (s *scanner) children(first, stop *dom.Node) {
	for n := first; n != nil && n != stop; n = n.NextSibling() {
		if m, ok := Of(n); ok {
			if m.End {
				continue
			}
			end := FindEnd(n)
			if end == nil {
				s.unpaired = append(s.unpaired, Unpaired{Kind: m.Kind, ID: m.ID, Node: n})
				continue
			}
			s.regions = append(s.regions, Region{Kind: m.Kind, ID: m.ID, Start: n, End: end})
			n = end
			continue
		}
		if n.IsElement() {
			s.children(n.FirstChild(), nil)
		}
	}
}
