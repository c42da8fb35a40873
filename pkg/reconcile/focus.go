package reconcile

import "github.com/vango-dev/rmx/pkg/dom"

// focusState is the focused element and its text selection before a flush.
type focusState struct {
	el         *dom.Node
	start, end int
	selection  bool
}

func captureFocus(doc *dom.Document) focusState {
	if doc == nil {
		return focusState{}
	}
	el := doc.ActiveElement()
	if el == nil || el == doc.Body() {
		return focusState{}
	}
	s := focusState{el: el}
	s.start, s.end, s.selection = el.SelectionRange()
	return s
}

// restore refocuses the element if DOM moves blurred it and puts back its
// selection.
func (s focusState) restore(doc *dom.Document) {
	if s.el == nil || !s.el.IsConnected() {
		return
	}
	if doc.ActiveElement() != s.el {
		s.el.Focus()
	}
	if s.selection {
		if start, end, ok := s.el.SelectionRange(); ok && (start != s.start || end != s.end) {
			s.el.SetSelectionRange(s.start, s.end)
		}
	}
}
