package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender    Category = "render"
	CategoryTask      Category = "task"
	CategoryInvariant Category = "invariant"
	CategoryHydration Category = "hydration"
	CategoryLoader    Category = "loader"
	CategoryFrame     Category = "frame"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// RmxError is a structured error with a code, an explanation and a hint.
type RmxError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (render, hydration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component names the component involved, if any.
	Component string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RmxError) Error() string {
	msg := e.Message
	if e.Component != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Component)
	}
	if e.Wrapped != nil {
		msg = msg + ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RmxError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *RmxError with the same code, so sentinel values from
// New can be used with errors.Is.
func (e *RmxError) Is(target error) bool {
	t, ok := target.(*RmxError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RmxError) WithSuggestion(s string) *RmxError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RmxError) WithDetail(d string) *RmxError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *RmxError) WithDetailf(format string, args ...any) *RmxError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithComponent records the component involved.
func (e *RmxError) WithComponent(name string) *RmxError {
	e.Component = name
	return e
}

// Wrap wraps another error.
func (e *RmxError) Wrap(err error) *RmxError {
	e.Wrapped = err
	return e
}

// New creates an RmxError from a registered error code.
func New(code string) *RmxError {
	template, ok := registry[code]
	if !ok {
		return &RmxError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RmxError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RmxError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RmxError {
	return &RmxError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an RmxError. Errors that already are
// (or wrap) an RmxError are returned unchanged.
func FromError(err error, code string) *RmxError {
	if err == nil {
		return nil
	}
	var re *RmxError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// Is reports whether err is or wraps an RmxError with the given code.
func Is(err error, code string) bool {
	return CodeOf(err) == code || stderrors.Is(err, &RmxError{Code: code})
}

// CodeOf returns the code of the outermost RmxError in err's chain, or "".
func CodeOf(err error) string {
	var re *RmxError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// CategoryOf returns the category of the outermost RmxError in err's chain.
func CategoryOf(err error) Category {
	var re *RmxError
	if stderrors.As(err, &re) {
		return re.Category
	}
	return ""
}

// IsInvariant reports whether err is a contract violation. Invariant errors
// are never trapped by error boundaries.
func IsInvariant(err error) bool {
	return CategoryOf(err) == CategoryInvariant
}
