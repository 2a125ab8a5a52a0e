package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryDiscovery Category = "discovery"
	CategoryConfig    Category = "config"
	CategoryDocument  Category = "document"
	CategoryCLI       Category = "cli"
)

// AbsError is a structured error with a code, an explanation and a hint.
type AbsError struct {
	// Code is a unique error identifier (e.g., "A001").
	Code string

	// Category is the error type (discovery, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject names the thing the error is about (a node, a file, a tag).
	Subject string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AbsError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AbsError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an AbsError carrying the same code.
// A target without a code never matches.
func (e *AbsError) Is(target error) bool {
	t, ok := target.(*AbsError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithSubject records what the error is about.
func (e *AbsError) WithSubject(s string) *AbsError {
	e.Subject = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AbsError) WithSuggestion(s string) *AbsError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *AbsError) WithDetail(d string) *AbsError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AbsError) Wrap(err error) *AbsError {
	e.Wrapped = err
	return e
}

// New creates an AbsError from a registered error code.
func New(code string) *AbsError {
	template, ok := registry[code]
	if !ok {
		return &AbsError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AbsError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new AbsError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *AbsError {
	return &AbsError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an AbsError.
func FromError(err error, code string) *AbsError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AbsError); ok {
		return ae
	}
	return New(code).Wrap(err)
}
