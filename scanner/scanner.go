// Package scanner scans Lox source code into a sequence of lexical tokens.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/caiuslox/lox/token"
)

const eof = -1

// ErrorHandler is called with the offending token and a message whenever an
// error is encountered while scanning. If nil, errors are silently ignored.
type ErrorHandler func(tok token.Token, msg string)

// Scanner converts Lox source code into lexical tokens. Tokens are read one
// at a time using Next.
type Scanner struct {
	src        string
	errHandler ErrorHandler

	ch           rune
	pos          token.Position
	readOffset   int
	lastReadSize int
}

// New constructs a Scanner over src. name is used to attribute positions to
// a file when reporting errors; it may be empty.
func New(name, src string) *Scanner {
	s := &Scanner{
		src: src,
		pos: token.Position{
			File:   token.NewFile(name, src),
			Line:   1,
			Column: 0,
		},
	}
	s.next()
	return s
}

// SetErrorHandler sets the function called when a scanning error is
// encountered.
func (s *Scanner) SetErrorHandler(h ErrorHandler) {
	s.errHandler = h
}

// Next returns the next token. An EOF token is returned once the end of the
// source has been reached; subsequent calls keep returning EOF.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()

	start := s.pos
	startOffset := s.readOffset - s.lastReadSize
	tok := token.Token{StartPos: start}

	switch {
	case s.ch == eof:
		tok.Type = token.EOF
	case s.ch == ';':
		tok.Type = token.Semicolon
	case s.ch == ',':
		tok.Type = token.Comma
	case s.ch == '.':
		tok.Type = token.Dot
	case s.ch == '=':
		tok.Type = token.Equal
		if s.peek() == '=' {
			s.next()
			tok.Type = token.EqualEqual
		}
	case s.ch == '+':
		tok.Type = token.Plus
	case s.ch == '-':
		tok.Type = token.Minus
	case s.ch == '*':
		tok.Type = token.Asterisk
	case s.ch == '/':
		tok.Type = token.Slash
	case s.ch == '<':
		tok.Type = token.Less
		if s.peek() == '=' {
			s.next()
			tok.Type = token.LessEqual
		}
	case s.ch == '>':
		tok.Type = token.Greater
		if s.peek() == '=' {
			s.next()
			tok.Type = token.GreaterEqual
		}
	case s.ch == '!':
		tok.Type = token.Bang
		if s.peek() == '=' {
			s.next()
			tok.Type = token.BangEqual
		}
	case s.ch == '(':
		tok.Type = token.LeftParen
	case s.ch == ')':
		tok.Type = token.RightParen
	case s.ch == '{':
		tok.Type = token.LeftBrace
	case s.ch == '}':
		tok.Type = token.RightBrace
	case s.ch == '"':
		lexeme, literal, terminated := s.consumeString()
		tok.EndPos = s.pos
		tok.Lexeme = lexeme
		if terminated {
			tok.Type = token.String
			tok.Literal = literal
		} else {
			tok.Type = token.Illegal
			s.handleError(tok, "unterminated string literal")
		}
		return tok
	case isDigit(s.ch):
		lexeme := s.consumeNumber()
		tok.EndPos = s.pos
		tok.Lexeme = lexeme
		tok.Type = token.Number
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			panic("scanner: invalid number literal " + lexeme)
		}
		tok.Literal = value
		return tok
	case isAlpha(s.ch):
		ident := s.consumeIdent()
		tok.EndPos = s.pos
		tok.Lexeme = ident
		tok.Type = token.LookupIdent(ident)
		switch tok.Type {
		case token.True:
			tok.Literal = true
		case token.False:
			tok.Literal = false
		}
		return tok
	default:
		ch := s.ch
		s.next()
		tok.EndPos = s.pos
		tok.Type = token.Illegal
		tok.Lexeme = string(ch)
		s.handleError(tok, "unexpected character "+strconv.QuoteRune(ch))
		return tok
	}

	s.next()
	tok.EndPos = s.pos
	tok.Lexeme = s.src[startOffset : s.readOffset-s.lastReadSize]
	return tok
}

func (s *Scanner) handleError(tok token.Token, msg string) {
	if s.errHandler != nil {
		s.errHandler(tok, msg)
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.ch):
			s.next()
		case s.ch == '/' && s.peek() == '/':
			for s.ch != '\n' && s.ch != eof {
				s.next()
			}
		default:
			return
		}
	}
}

func (s *Scanner) consumeNumber() string {
	start := s.readOffset - s.lastReadSize
	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.next()
		for isDigit(s.ch) {
			s.next()
		}
	}
	return s.src[start : s.readOffset-s.lastReadSize]
}

func (s *Scanner) consumeIdent() string {
	start := s.readOffset - s.lastReadSize
	for isAlphaNumeric(s.ch) {
		s.next()
	}
	return s.src[start : s.readOffset-s.lastReadSize]
}

// consumeString consumes a string literal starting at the opening quote.
// lexeme includes the surrounding quotes; literal has them stripped, per the
// scanner's token contract (spec.md §6).
func (s *Scanner) consumeString() (lexeme, literal string, terminated bool) {
	startOffset := s.readOffset - s.lastReadSize
	s.next()
	for {
		if s.ch == eof || s.ch == '\n' {
			return s.src[startOffset : s.readOffset-s.lastReadSize], "", false
		}
		if s.ch == '"' {
			end := s.readOffset
			s.next()
			return s.src[startOffset:end], s.src[startOffset+1 : end-1], true
		}
		s.next()
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\r', '\t', '\n':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool { return isAlpha(r) || isDigit(r) }

// next reads the next character into s.ch and advances the scanner.
func (s *Scanner) next() {
	if s.ch == eof {
		return
	}

	if s.ch == '\n' {
		s.pos.Line++
		s.pos.Column = 0
	} else if s.lastReadSize > 0 {
		s.pos.Column += s.lastReadSize
	}

	if s.readOffset >= len(s.src) {
		s.ch = eof
		s.lastReadSize = 0
		return
	}

	r, size := utf8.DecodeRuneInString(s.src[s.readOffset:])
	s.lastReadSize = size
	s.readOffset += size
	s.ch = r
}

// peek returns the next character without advancing the scanner.
func (s *Scanner) peek() rune {
	if s.readOffset >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.readOffset:])
	return r
}

