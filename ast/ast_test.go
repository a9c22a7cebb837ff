package ast_test

import (
	"testing"

	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/token"
)

func TestExprIDsAreUniquePerConstruction(t *testing.T) {
	a := ast.NewVariableExpr(token.Token{Lexeme: "a"})
	b := ast.NewVariableExpr(token.Token{Lexeme: "a"})
	if a.ID() == b.ID() {
		t.Errorf("two separately constructed expressions with identical contents got the same ID %d", a.ID())
	}
}

func TestSprintLiteral(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{
			"number",
			ast.NewLiteralExpr(token.Token{Type: token.Number, Literal: 1.5}),
			"1.5",
		},
		{
			"string",
			ast.NewLiteralExpr(token.Token{Type: token.String, Literal: "hi"}),
			`"hi"`,
		},
		{
			"nil",
			ast.NewLiteralExpr(token.Token{Type: token.Nil, Literal: nil}),
			"nil",
		},
		{
			"bool",
			ast.NewLiteralExpr(token.Token{Type: token.True, Literal: true}),
			"true",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.Sprint(tt.expr); got != tt.want {
				t.Errorf("Sprint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSprintBinaryExpr(t *testing.T) {
	// 1 + 2 * 3
	expr := ast.NewBinaryExpr(
		ast.NewLiteralExpr(token.Token{Type: token.Number, Literal: 1.0}),
		token.Token{Type: token.Plus, Lexeme: "+"},
		ast.NewBinaryExpr(
			ast.NewLiteralExpr(token.Token{Type: token.Number, Literal: 2.0}),
			token.Token{Type: token.Asterisk, Lexeme: "*"},
			ast.NewLiteralExpr(token.Token{Type: token.Number, Literal: 3.0}),
		),
	)
	want := "(+ 1 (* 2 3))"
	if got := ast.Sprint(expr); got != want {
		t.Errorf("Sprint() = %q, want %q", got, want)
	}
}

func TestFunctionStmtStartFallsBackToNameForMethods(t *testing.T) {
	method := &ast.FunctionStmt{Name: token.Token{Lexeme: "init", StartPos: token.Position{Line: 1, Column: 4}}}
	if got, want := method.Start(), method.Name.Start(); got != want {
		t.Errorf("method Start() = %+v, want %+v", got, want)
	}

	funTok := token.Token{Lexeme: "fun", StartPos: token.Position{Line: 2, Column: 0}}
	fn := &ast.FunctionStmt{Fun: funTok, Name: token.Token{Lexeme: "f", StartPos: token.Position{Line: 2, Column: 4}}}
	if got, want := fn.Start(), funTok.Start(); got != want {
		t.Errorf("function Start() = %+v, want %+v", got, want)
	}
}
