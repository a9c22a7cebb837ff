package token_test

import (
	"fmt"
	"testing"

	"github.com/caiuslox/lox/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  token.Type
	}{
		{"var", token.Var},
		{"class", token.Class},
		{"this", token.This},
		{"super", token.Super},
		{"foo", token.Ident},
		{"", token.Ident},
	}
	for _, tt := range tests {
		if got := token.LookupIdent(tt.ident); got != tt.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestTypeFormatMessageVerb(t *testing.T) {
	got := fmt.Sprintf("%m", token.This)
	want := "'this'"
	if got != want {
		t.Errorf("%%m verb = %q, want %q", got, want)
	}
}

func TestTokenIsZero(t *testing.T) {
	if !(token.Token{}).IsZero() {
		t.Error("zero value Token.IsZero() = false, want true")
	}
	tok := token.Token{Type: token.Ident, Lexeme: "a"}
	if tok.IsZero() {
		t.Error("non-zero Token.IsZero() = true, want false")
	}
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b token.Position
		want int
	}{
		{"equal", token.Position{Line: 1, Column: 2}, token.Position{Line: 1, Column: 2}, 0},
		{"earlier line", token.Position{Line: 1, Column: 5}, token.Position{Line: 2, Column: 0}, -1},
		{"later line", token.Position{Line: 3, Column: 0}, token.Position{Line: 2, Column: 0}, 1},
		{"same line, earlier column", token.Position{Line: 1, Column: 1}, token.Position{Line: 1, Column: 2}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFileLine(t *testing.T) {
	f := token.NewFile("test.lox", "var a = 1;\nprint a;\n")
	tests := []struct {
		n    int
		want string
	}{
		{1, "var a = 1;"},
		{2, "print a;"},
		{3, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
