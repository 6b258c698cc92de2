package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryLifecycle Category = "lifecycle"
	CategoryOwnership Category = "ownership"
	CategoryMarkup    Category = "markup"
	CategoryReconcile Category = "reconcile"
	CategorySerialize Category = "serialize"
	CategoryExport    Category = "export"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Location represents a source location, usually inside a markup document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a structured error carrying a registered code.
type Error struct {
	// Code is a unique error identifier (e.g., "R005").
	Code string

	// Category groups related codes.
	Category Category

	// Message is a short description of the error.
	Message string

	// Subject names the offending value (a tag, a type name, a child).
	Subject string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the document location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Subject)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
// Sentinels created with New therefore match any error raised with that code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSubject records the offending value.
func (e *Error) WithSubject(format string, args ...any) *Error {
	e.Subject = fmt.Sprintf(format, args...)
	return e
}

// WithLocation adds a source location to the error.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	if filename == "" {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}
