// Package parser implements a recursive-descent, Pratt-style precedence
// climbing parser for Lox source code.
package parser

import (
	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/scanner"
	"github.com/caiuslox/lox/token"
)

const maxArgs = 255

// unwind is panicked by expect/parsePrimary when the parser cannot make
// progress; it's caught by safelyParseDecl, which synchronizes and resumes
// at the next declaration (spec.md §4.1, "Error recovery").
type unwind struct{}

// Parse parses the Lox program read from src and returns its AST.
// If any syntax errors are encountered, a non-nil error is returned
// alongside a best-effort partial AST; per spec.md §4.1 the interpreter
// must never be invoked in that case.
func Parse(name, src string) (ast.Program, error) {
	p := &parser{scanner: scanner.New(name, src)}
	p.scanner.SetErrorHandler(func(tok token.Token, msg string) {
		p.addErrorAtToken(tok, msg)
	})
	p.next()
	p.next()
	stmts := p.parseDeclsUntil(token.EOF)
	return ast.Program{Stmts: stmts}, p.errs.Err()
}

type parser struct {
	scanner *scanner.Scanner
	tok     token.Token // token currently being considered
	nextTok token.Token

	errs       loxerror.List
	lastErrPos token.Position
}

func (p *parser) parseDeclsUntil(types ...token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.tokIs(types...) {
		if stmt, ok := p.safelyParseDecl(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) tokIs(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			return true
		}
	}
	return false
}

// safelyParseDecl parses a single declaration, recovering from a syntax
// error by synchronizing to the next statement boundary. ok is false if the
// declaration had to be discarded.
func (p *parser) safelyParseDecl() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isUnwind := r.(unwind); isUnwind {
				p.sync()
				ok = false
				return
			}
			panic(r)
		}
	}()
	return p.parseDecl(), true
}

// sync discards tokens until after a ';' or a statement-starting keyword,
// so that parsing can resume at (what is hopefully) the next declaration.
func (p *parser) sync() {
	for {
		switch p.tok.Type {
		case token.Semicolon:
			p.next()
			return
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return, token.EOF:
			return
		}
		p.next()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.Class):
		return p.parseClassDecl(tok)
	case p.match(token.Fun):
		return p.parseFunDecl(tok)
	case p.match(token.Var):
		return p.parseVarDecl(tok)
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl(classTok token.Token) ast.Stmt {
	name := p.expectf(token.Ident, "expected class name")

	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superclassName := p.expectf(token.Ident, "expected superclass name")
		v := ast.NewVariableExpr(superclassName)
		superclass = &v
	}

	p.expect(token.LeftBrace)
	var methods []*ast.FunctionStmt
	for !p.tokIs(token.RightBrace, token.EOF) {
		methods = append(methods, p.parseFunction("method"))
	}
	rightBrace := p.expect(token.RightBrace)

	return ast.ClassStmt{
		Class:      classTok,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		RightBrace: rightBrace,
	}
}

func (p *parser) parseFunDecl(funTok token.Token) ast.Stmt {
	fn := p.parseFunction("function")
	fn.Fun = funTok
	return fn
}

// parseFunction parses a name, parameter list and body, shared by function
// declarations and method declarations. kind is "function" or "method" and
// is used only in error messages.
func (p *parser) parseFunction(kind string) *ast.FunctionStmt {
	name := p.expectf(token.Ident, "expected %s name", kind)
	p.expect(token.LeftParen)
	var params []token.Token
	if !p.tokIs(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.addErrorAtToken(p.tok, "can't have more than %d parameters", maxArgs)
			}
			params = append(params, p.expectf(token.Ident, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen)
	p.expect(token.LeftBrace)
	body := p.parseDeclsUntil(token.RightBrace, token.EOF)
	rightBrace := p.expect(token.RightBrace)
	return &ast.FunctionStmt{Name: name, Params: params, Body: body, RightBrace: rightBrace}
}

func (p *parser) parseVarDecl(varTok token.Token) ast.Stmt {
	name := p.expectf(token.Ident, "expected variable name")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.parseExpr()
	}
	semicolon := p.expect(token.Semicolon)
	return ast.VarStmt{Var: varTok, Name: name, Initializer: init, Semicolon: semicolon}
}

func (p *parser) parseStmt() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.Print):
		return p.parsePrintStmt(tok)
	case p.match(token.LeftBrace):
		return p.parseBlock(tok)
	case p.match(token.If):
		return p.parseIfStmt(tok)
	case p.match(token.While):
		return p.parseWhileStmt(tok)
	case p.match(token.For):
		return p.parseForStmt(tok)
	case p.match(token.Return):
		return p.parseReturnStmt(tok)
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parsePrintStmt(printTok token.Token) ast.Stmt {
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return ast.PrintStmt{Print: printTok, Expr: expr, Semicolon: semicolon}
}

func (p *parser) parseBlock(leftBrace token.Token) ast.BlockStmt {
	stmts := p.parseDeclsUntil(token.RightBrace, token.EOF)
	rightBrace := p.expect(token.RightBrace)
	return ast.BlockStmt{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
}

func (p *parser) parseIfStmt(ifTok token.Token) ast.Stmt {
	p.expect(token.LeftParen)
	cond := p.parseExpr()
	p.expect(token.RightParen)
	then := p.parseStmt()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.parseStmt()
	}
	return ast.IfStmt{If: ifTok, Condition: cond, Then: then, Else: els}
}

func (p *parser) parseWhileStmt(whileTok token.Token) ast.Stmt {
	p.expect(token.LeftParen)
	cond := p.parseExpr()
	p.expect(token.RightParen)
	body := p.parseStmt()
	return ast.WhileStmt{While: whileTok, Condition: cond, Body: body}
}

// parseForStmt desugars `for (init; cond; incr) body` into a block
// containing init followed by a while loop, per spec.md §4.1 ("for
// desugaring"). No ast.ForStmt node exists.
func (p *parser) parseForStmt(forTok token.Token) ast.Stmt {
	p.expect(token.LeftParen)

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
	case p.tok.Type == token.Var:
		varTok := p.tok
		p.next()
		init = p.parseVarDecl(varTok)
	default:
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if !p.tokIs(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)

	var incr ast.Expr
	if !p.tokIs(token.RightParen) {
		incr = p.parseExpr()
	}
	rightParen := p.expect(token.RightParen)

	body := p.parseStmt()

	if incr != nil {
		body = ast.BlockStmt{
			LeftBrace:  forTok,
			Stmts:      []ast.Stmt{body, ast.ExpressionStmt{Expr: incr, Semicolon: rightParen}},
			RightBrace: rightParen,
		}
	}

	if cond == nil {
		cond = ast.NewLiteralExpr(token.Token{Type: token.True, Lexeme: "true", Literal: true, StartPos: forTok.Start(), EndPos: forTok.Start()})
	}
	body = ast.WhileStmt{While: forTok, Condition: cond, Body: body}

	if init != nil {
		body = ast.BlockStmt{LeftBrace: forTok, Stmts: []ast.Stmt{init, body}, RightBrace: rightParen}
	}

	return body
}

func (p *parser) parseReturnStmt(returnTok token.Token) ast.Stmt {
	var value ast.Expr
	if !p.tokIs(token.Semicolon) {
		value = p.parseExpr()
	}
	semicolon := p.expect(token.Semicolon)
	return ast.ReturnStmt{Keyword: returnTok, Value: value, Semicolon: semicolon}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return ast.ExpressionStmt{Expr: expr, Semicolon: semicolon}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment parses the right-hand side as a normal expression first;
// if a '=' follows, the already-parsed expression is reinterpreted as an
// assignment target (spec.md §4.1, "Assignment is right-associative and
// non-LL"): a VariableExpr becomes an AssignExpr, a GetExpr becomes a
// SetExpr, anything else is a syntax error at the '=' token.
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseOr()
	if equals, ok := p.match2(token.Equal); ok {
		value := p.parseAssignment()
		switch target := expr.(type) {
		case ast.VariableExpr:
			return ast.NewAssignExpr(target.Name, value)
		case ast.GetExpr:
			return ast.NewSetExpr(target.Object, target.Name, value)
		default:
			p.addErrorAtToken(equals, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for {
		op, ok := p.match2(token.Or)
		if !ok {
			return expr
		}
		right := p.parseAnd()
		expr = ast.NewLogicalExpr(expr, op, right)
	}
}

func (p *parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for {
		op, ok := p.match2(token.And)
		if !ok {
			return expr
		}
		right := p.parseEquality()
		expr = ast.NewLogicalExpr(expr, op, right)
	}
}

func (p *parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, token.EqualEqual, token.BangEqual)
}

func (p *parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseTerm, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *parser) parseTerm() ast.Expr {
	return p.parseBinary(p.parseFactor, token.Plus, token.Minus)
}

func (p *parser) parseFactor() ast.Expr {
	return p.parseBinary(p.parseUnary, token.Asterisk, token.Slash)
}

// parseBinary parses a left-associative chain of binary expressions at one
// precedence level. next parses an operand of next-highest precedence.
func (p *parser) parseBinary(next func() ast.Expr, operators ...token.Type) ast.Expr {
	expr := next()
	for {
		op, ok := p.match2(operators...)
		if !ok {
			return expr
		}
		right := next()
		expr = ast.NewBinaryExpr(expr, op, right)
	}
}

func (p *parser) parseUnary() ast.Expr {
	if op, ok := p.match2(token.Bang, token.Minus); ok {
		right := p.parseUnary()
		return ast.NewUnaryExpr(op, right)
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.expectf(token.Ident, "expected property name after '.'")
			expr = ast.NewGetExpr(expr, name)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.tokIs(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.addErrorAtToken(p.tok, "can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.parseExpr())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.expect(token.RightParen)
	return ast.NewCallExpr(callee, paren, args)
}

func (p *parser) parsePrimary() ast.Expr {
	switch tok := p.tok; {
	case p.match(token.Number, token.String, token.True, token.False, token.Nil):
		return ast.NewLiteralExpr(tok)
	case p.match(token.This):
		return ast.NewThisExpr(tok)
	case p.match(token.Super):
		p.expect(token.Dot)
		method := p.expectf(token.Ident, "expected superclass method name")
		return ast.NewSuperExpr(tok, method)
	case p.match(token.Ident):
		return ast.NewVariableExpr(tok)
	case p.match(token.LeftParen):
		expr := p.parseExpr()
		rightParen := p.expect(token.RightParen)
		return ast.NewGroupingExpr(tok, expr, rightParen)
	default:
		p.addErrorAtToken(tok, "expected expression")
		panic(unwind{})
	}
}

// match reports whether the current token is one of the given types and
// advances the parser if so.
func (p *parser) match(types ...token.Type) bool {
	_, ok := p.match2(types...)
	return ok
}

// match2 is like match but also returns the (possibly unmatched) current
// token.
func (p *parser) match2(types ...token.Type) (token.Token, bool) {
	tok := p.tok
	if p.tokIs(types...) {
		p.next()
		return tok, true
	}
	return tok, false
}

// expect returns the current token and advances the parser if it has type
// t. Otherwise it records a syntax error and panics with unwind to let
// safelyParseDecl synchronize.
func (p *parser) expect(t token.Type) token.Token {
	return p.expectf(t, "expected %m", t)
}

func (p *parser) expectf(t token.Type, format string, args ...any) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.next()
		return tok
	}
	p.addErrorAtToken(p.tok, format, args...)
	panic(unwind{})
}

func (p *parser) next() {
	p.tok = p.nextTok
	p.nextTok = p.scanner.Next()
}

// addErrorAtToken records a syntax error at tok, suppressing a second error
// reported at the same position (avoids a cascade of "expected X" errors
// once one token has already been flagged).
func (p *parser) addErrorAtToken(tok token.Token, format string, args ...any) {
	if len(p.errs) > 0 && tok.Start() == p.lastErrPos {
		return
	}
	p.lastErrPos = tok.Start()
	p.errs.AddAtToken(tok, format, args...)
}
