package scanner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/caiuslox/lox/scanner"
	"github.com/caiuslox/lox/token"
)

type simpleTok struct {
	Type    token.Type
	Lexeme  string
	Literal any
}

func scanAll(t *testing.T, src string) ([]simpleTok, []string) {
	t.Helper()
	var errs []string
	s := scanner.New("test.lox", src)
	s.SetErrorHandler(func(tok token.Token, msg string) {
		errs = append(errs, msg)
	})
	var toks []simpleTok
	for {
		tok := s.Next()
		toks = append(toks, simpleTok{Type: tok.Type, Lexeme: tok.Lexeme, Literal: tok.Literal})
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, errs
}

func TestScansPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){};,.+-*/<<=>>===!!=")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Semicolon, token.Comma, token.Dot, token.Plus, token.Minus,
		token.Asterisk, token.Slash, token.Less, token.LessEqual, token.Greater,
		token.GreaterEqual, token.EqualEqual, token.Bang, token.BangEqual, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: type = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestScansLiterals(t *testing.T) {
	toks, errs := scanAll(t, `"hello" 123 1.5 true false nil foo`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []simpleTok{
		{token.String, `"hello"`, "hello"},
		{token.Number, "123", 123.0},
		{token.Number, "1.5", 1.5},
		{token.True, "true", true},
		{token.False, "false", false},
		{token.Nil, "nil", nil},
		{token.Ident, "foo", nil},
		{token.EOF, "", nil},
	}
	if diff := cmp.Diff(want, toks, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestSkipsWhitespaceAndLineComments(t *testing.T) {
	toks, errs := scanAll(t, "  a // this is a comment\n  b")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var lexemes []string
	for _, tok := range toks {
		if tok.Type != token.EOF {
			lexemes = append(lexemes, tok.Lexeme)
		}
	}
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, lexemes); diff != "" {
		t.Errorf("lexemes mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	_, errs := scanAll(t, `"unterminated`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestUnexpectedCharacterReportsError(t *testing.T) {
	_, errs := scanAll(t, "@")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestTracksLineAndColumn(t *testing.T) {
	s := scanner.New("test.lox", "a\nbb")
	a := s.Next()
	if a.StartPos.Line != 1 || a.StartPos.Column != 0 {
		t.Errorf("'a' pos = %+v, want line 1 col 0", a.StartPos)
	}
	bb := s.Next()
	if bb.Lexeme != "bb" {
		t.Fatalf("second token lexeme = %q, want %q", bb.Lexeme, "bb")
	}
	if bb.StartPos.Line != 2 || bb.StartPos.Column != 0 {
		t.Errorf("'bb' pos = %+v, want line 2 col 0", bb.StartPos)
	}
}
