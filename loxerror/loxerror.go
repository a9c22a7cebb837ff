// Package loxerror defines the error type shared by the scanner, parser and
// resolver for reporting static errors, and the rendering used for runtime
// errors raised by the interpreter.
package loxerror

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/caiuslox/lox/token"
)

// Error describes a static error (a scan, parse or resolve error) or a
// runtime error, attributable to a range of characters in the source code.
type Error struct {
	Msg   string
	Start token.Position
	End   token.Position
	// Runtime distinguishes a runtime error (raised by the interpreter
	// while executing an already-resolved program) from a static error
	// (raised by the scanner, parser or resolver). It changes the label
	// rendered by Error from "error" to "runtime error" (spec.md §6).
	Runtime bool
	// AtEOF records whether the error occurred at the end of the source,
	// so that the message reads "at end" rather than quoting an empty
	// lexeme.
	AtEOF bool
	// atLexeme, if set, is rendered as "at 'lexeme'" in Error's output.
	atLexeme string
}

// New creates an *Error from a token.Range and a message.
func New(rang token.Range, msg string) *Error {
	return &Error{Msg: msg, Start: rang.Start(), End: rang.End()}
}

// Newf is like New but builds the message with fmt.Sprintf.
func Newf(rang token.Range, format string, args ...any) *Error {
	return New(rang, fmt.Sprintf(format, args...))
}

// NewAtToken creates an *Error positioned at tok, using "at end" in place of
// the lexeme if tok is an EOF token.
func NewAtToken(tok token.Token, format string, args ...any) *Error {
	e := Newf(tok, format, args...)
	e.AtEOF = tok.Type == token.EOF
	e.atLexeme = tok.Lexeme
	return e
}

// NewRuntime creates an *Error positioned at rang and marked as a runtime
// error, so that Error renders it with the "runtime error" label.
func NewRuntime(rang token.Range, format string, args ...any) *Error {
	e := Newf(rang, format, args...)
	e.Runtime = true
	return e
}

// Error formats the error as:
//
//	file:line:col: error at 'x': message
//	<source line>
//	    ~
//
// Runtime errors use the label "runtime error" in place of "error"
// (spec.md §6).
func (e *Error) Error() string {
	var b strings.Builder

	var where string
	switch {
	case e.AtEOF:
		where = "at end"
	case e.atLexeme != "":
		where = fmt.Sprintf("at '%s'", e.atLexeme)
	}

	label := "error"
	if e.Runtime {
		label = "runtime error"
	}

	boldRed := color.New(color.Bold, color.FgRed)
	bold := color.New(color.Bold)
	bold.Fprintf(&b, "%s: ", e.Start)
	boldRed.Fprint(&b, label)
	if where != "" {
		fmt.Fprint(&b, " ")
		bold.Fprint(&b, where)
	}
	fmt.Fprint(&b, ": ", e.Msg)

	writeSourceSnippet(&b, e.Start, e.End)

	return b.String()
}

// writeSourceSnippet appends the source line on which start lies and an
// underline beneath [start, end) (to the end of that line if end is on a
// later line), using go-runewidth so that the underline lines up correctly
// under multi-byte characters. It's a no-op if start has no
// associated File (e.g. errors synthesised in tests).
func writeSourceSnippet(b *strings.Builder, start, end token.Position) {
	if start.File == nil {
		return
	}
	line := start.File.Line(start.Line)
	fmt.Fprintf(b, "\n%s\n", line)
	endCol := end.Column
	if end.Line != start.Line || endCol <= start.Column {
		endCol = len(line)
	}
	lead := runewidth.StringWidth(line[:min(start.Column, len(line))])
	width := runewidth.StringWidth(line[min(start.Column, len(line)):min(endCol, len(line))])
	if width == 0 {
		width = 1
	}
	fmt.Fprint(b, strings.Repeat(" ", lead))
	color.New(color.Bold, color.FgRed).Fprint(b, strings.Repeat("~", width))
}

// List is a list of *Error, accumulated while scanning, parsing or
// resolving a program.
type List []*Error

// Add appends a new *Error built from rang and msg.
func (l *List) Add(rang token.Range, msg string) {
	*l = append(*l, New(rang, msg))
}

// Addf is like Add but builds the message with fmt.Sprintf.
func (l *List) Addf(rang token.Range, format string, args ...any) {
	*l = append(*l, Newf(rang, format, args...))
}

// AddAtToken appends a new *Error positioned at tok (see NewAtToken).
func (l *List) AddAtToken(tok token.Token, format string, args ...any) {
	*l = append(*l, NewAtToken(tok, format, args...))
}

// Err returns l as an error if it's non-empty, otherwise nil. This should be
// used when returning a List as an error so that an empty list becomes an
// untyped nil rather than a non-nil interface wrapping a nil slice.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error concatenates the rendered text of every error in the list, separated
// by newlines (each error's own text may span several lines).
func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
