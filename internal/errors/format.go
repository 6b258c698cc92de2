package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

// colors is off when NO_COLOR is set.
var colors = os.Getenv("NO_COLOR") == ""

// DisableColors disables ANSI color output.
func DisableColors() { colors = false }

// EnableColors enables ANSI color output.
func EnableColors() { colors = true }

func paint(text string, codes ...string) string {
	if !colors || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// detailWidth is the column at which Detail is wrapped.
const detailWidth = 72

// Format renders the error for a terminal: a header, the source excerpt
// when a location is known, then detail, cause, hint and doc link.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	label := "ERROR"
	if e.Code != "" {
		label += " " + e.Code
	}
	fmt.Fprintf(&b, "%s %s", paint(label+":", ansiBold, ansiRed), paint(e.Message, ansiBold))
	if e.Subject != "" {
		b.WriteString(paint(" ("+e.Subject+")", ansiGray))
	}
	b.WriteString("\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(e.Location.String(), ansiCyan))
		if len(e.Context) > 0 {
			e.writeExcerpt(&b)
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrap(e.Detail, detailWidth) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%v\n\n", paint("Cause: ", ansiGray), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint("Hint: ", ansiCyan), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", paint("Learn more: ", ansiGray), paint(e.DocURL, ansiBlue))
	}
	return b.String()
}

// writeExcerpt prints the context lines centered on the location, marking
// the offending line and column.
func (e *Error) writeExcerpt(b *strings.Builder) {
	first := e.Location.Line - len(e.Context)/2
	if first < 1 {
		first = 1
	}
	gutter := paint(" | ", ansiGray)
	for i, line := range e.Context {
		n := first + i
		marker := "  "
		if n == e.Location.Line {
			marker = paint("> ", ansiRed)
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", marker, n, gutter, line)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "        %s%s%s\n", gutter, strings.Repeat(" ", e.Location.Column-1), paint("^", ansiRed))
		}
	}
}

// FormatCompact returns the error on one line, prefixed by its location.
func (e *Error) FormatCompact() string {
	msg := e.Message
	if e.Subject != "" {
		msg += " (" + e.Subject + ")"
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Location != nil {
		msg = e.Location.String() + ": " + msg
	}
	return msg
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Subject    string        `json:"subject,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Cause      string        `json:"cause,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	DocURL     string        `json:"docUrl,omitempty"`
}

// FormatJSON returns the error as a JSON object, as served in HTTP
// error responses.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Subject:    e.Subject,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{e.Location.File, e.Location.Line, e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrap greedily breaks text into lines of at most width columns.
func wrap(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w: *Error values in full terminal format, anything
// else as a single line.
func Fprint(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %v\n\n", paint("ERROR:", ansiBold, ansiRed), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
