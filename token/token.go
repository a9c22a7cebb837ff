// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Type is the type of a lexical token of Lox source code.
type Type uint8

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Keywords
	keywordsStart
	Print
	Var
	True
	False
	Nil
	If
	Else
	And
	Or
	While
	For
	Fun
	Return
	Class
	This
	Super
	keywordsEnd

	// Literals
	Ident
	String
	Number

	// Symbols
	Semicolon
	Comma
	Dot
	Equal
	Plus
	Minus
	Asterisk
	Slash
	Less
	LessEqual
	Greater
	GreaterEqual
	EqualEqual
	BangEqual
	Bang
	LeftParen
	RightParen
	LeftBrace
	RightBrace
)

var typeStrings = map[Type]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	Print:        "print",
	Var:          "var",
	True:         "true",
	False:        "false",
	Nil:          "nil",
	If:           "if",
	Else:         "else",
	And:          "and",
	Or:           "or",
	While:        "while",
	For:          "for",
	Fun:          "fun",
	Return:       "return",
	Class:        "class",
	This:         "this",
	Super:        "super",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	Equal:        "=",
	Plus:         "+",
	Minus:        "-",
	Asterisk:     "*",
	Slash:        "/",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	EqualEqual:   "==",
	BangEqual:    "!=",
	Bang:         "!",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
}

// String returns the name of the token type, e.g. "+" or "identifier".
func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Format implements fmt.Formatter. The 'm' (message) verb quotes the type
// for use in an error message, e.g. "'+'"; every other verb prints the
// type's name as returned by String.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

var keywordTypesByIdent = func() map[string]Type {
	m := make(map[string]Type, keywordsEnd-keywordsStart-1)
	for i := keywordsStart + 1; i < keywordsEnd; i++ {
		m[typeStrings[i]] = i
	}
	return m
}()

// LookupIdent returns the keyword Type associated with ident if it's a
// keyword, otherwise Ident.
func LookupIdent(ident string) Type {
	if t, ok := keywordTypesByIdent[ident]; ok {
		return t
	}
	return Ident
}

// Position is a position in a source file.
type Position struct {
	File   *File
	Line   int // 1-based line number
	Column int // 0-based byte offset from the start of the line
}

// Compare returns -1 if p comes before other, 0 if they're equal, and +1 if
// p comes after other.
func (p Position) Compare(other Position) int {
	if p.Line != other.Line {
		return cmp.Compare(p.Line, other.Line)
	}
	return cmp.Compare(p.Column, other.Column)
}

func (p Position) String() string {
	prefix := ""
	if p.File != nil && p.File.Name() != "" {
		prefix = p.File.Name() + ":"
	}
	col := p.Column + 1
	if p.File != nil {
		line := p.File.Line(p.Line)
		col = runewidth.StringWidth(line[:min(p.Column, len(line))]) + 1
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, col)
}

// Range describes a range of characters in the source code.
type Range interface {
	Start() Position
	End() Position
}

// Token is a lexical token of Lox source code. Tokens are immutable once
// constructed.
type Token struct {
	Type     Type
	Lexeme   string // the source substring which makes up the token
	Literal  any    // string, float64, bool or nil, depending on Type
	StartPos Position
	EndPos   Position
}

// Start returns the position of the first character of the token.
func (t Token) Start() Position { return t.StartPos }

// End returns the position of the character immediately after the token.
func (t Token) End() Position { return t.EndPos }

// Line returns the 1-based line on which the token starts.
func (t Token) Line() int { return t.StartPos.Line }

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool { return t == Token{} }

func (t Token) String() string {
	return fmt.Sprintf("%s: %s [%s]", t.StartPos, t.Lexeme, t.Type)
}

// File is a simple representation of a source file, used to resolve a
// Position back to the line of source it came from when rendering a
// diagnostic.
type File struct {
	name        string
	contents    string
	lineOffsets []int
}

// NewFile returns a new File with the given name and contents.
func NewFile(name string, contents string) *File {
	f := &File{name: name, contents: contents}
	f.lineOffsets = append(f.lineOffsets, 0)
	for i := range len(contents) {
		if contents[i] == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the name of the file, which may be empty if no name was
// given when the File was created.
func (f *File) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Line returns the nth (1-based) line of the file, without its trailing
// newline.
func (f *File) Line(n int) string {
	if f == nil || n < 1 || n > len(f.lineOffsets) {
		return ""
	}
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1
	}
	if high > 0 && high <= len(f.contents) && f.contents[high-1] == '\r' {
		high--
	}
	return f.contents[low:high]
}
