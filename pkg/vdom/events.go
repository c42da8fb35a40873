package vdom

import "github.com/vango-dev/rmx/pkg/dom"

// OnClick handles click events.
func OnClick(fn dom.Listener) Attr { return On("click", fn) }

// OnInput handles input events (fired when value changes).
func OnInput(fn dom.Listener) Attr { return On("input", fn) }

// OnChange handles change events (fired when value is committed).
func OnChange(fn dom.Listener) Attr { return On("change", fn) }

// OnSubmit handles form submit events.
func OnSubmit(fn dom.Listener) Attr { return On("submit", fn) }

// OnKeyDown handles keydown events.
func OnKeyDown(fn dom.Listener) Attr { return On("keydown", fn) }

// OnFocus handles focus events.
func OnFocus(fn dom.Listener) Attr { return On("focus", fn) }

// OnBlur handles blur events.
func OnBlur(fn dom.Listener) Attr { return On("blur", fn) }
