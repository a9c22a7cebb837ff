// Package resolver performs a single static pass over a Lox program,
// computing how many enclosing scopes separate each variable reference from
// the declaration it refers to. The interpreter consults this side-table
// instead of walking the environment chain at runtime, so that shadowing is
// resolved the same way whether a block executes once or a thousand times
// (spec.md §3.8, §9).
package resolver

import (
	"fmt"

	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/token"
)

// Depths maps an expression's identity (ast.Expr.ID) to the number of
// enclosing scopes between its use and the scope it was declared in. An
// expression absent from Depths refers to a global, or to nothing at all
// (a runtime error the interpreter will raise lazily).
type Depths map[int]int

type funType int

const (
	funNone funType = iota
	funFunction
	funMethod
	funInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

const (
	thisIdent  = "this"
	superIdent = "super"
	initIdent  = "init"
)

// scope maps a name declared in it to whether it has finished being defined
// (false between `var x` being declared and its initialiser finishing).
type scope map[string]bool

// Resolve resolves every variable reference in program and returns the
// resulting side-table. If any resolution errors are found (duplicate
// declarations, `this`/`super`/`return` used outside of where they're
// allowed, self-referential initialisers, a class inheriting from itself),
// a non-nil error is returned alongside a partial table that must not be
// used to run the program.
func Resolve(program ast.Program) (Depths, error) {
	r := &resolver{depths: Depths{}}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	return r.depths, r.errs.Err()
}

type resolver struct {
	scopes       []scope
	curFunType   funType
	curClassType classType

	depths Depths
	errs   loxerror.List
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare introduces name in the current (innermost) scope, marking it as
// not yet defined. Redeclaring a name already declared in the same scope is
// a static error (spec.md §4.2, "duplicate local declarations").
func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.peek()
	if _, ok := s[name.Lexeme]; ok {
		r.errs.AddAtToken(name, "already a variable called %s in this scope", name.Lexeme)
		return
	}
	s[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Lexeme] = true
}

func (r *resolver) defineSynthetic(name string) {
	r.peek()[name] = true
}

// resolveLocal records, for expr, the number of scopes between it and the
// scope name was declared in. If name isn't declared in any enclosing
// scope, expr is left out of the table and is treated as a global at
// runtime.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.depths[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case ast.VarStmt:
		r.resolveVarStmt(stmt)
	case *ast.FunctionStmt:
		r.resolveFunctionStmt(stmt)
	case ast.ClassStmt:
		r.resolveClassStmt(stmt)
	case ast.ExpressionStmt:
		r.resolveExpr(stmt.Expr)
	case ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case ast.BlockStmt:
		r.resolveBlockStmt(stmt)
	case ast.IfStmt:
		r.resolveIfStmt(stmt)
	case ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic(fmt.Sprintf("resolver: unexpected statement type %T", stmt))
	}
}

func (r *resolver) resolveVarStmt(stmt ast.VarStmt) {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunctionStmt(stmt *ast.FunctionStmt) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, funFunction)
}

// resolveFunction resolves a function or method body in its own scope,
// tracking curFunType so that return-statement rules (spec.md §4.2) can be
// enforced.
func (r *resolver) resolveFunction(fn *ast.FunctionStmt, typ funType) {
	enclosingFunType := r.curFunType
	r.curFunType = typ
	defer func() { r.curFunType = enclosingFunType }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, bodyStmt := range fn.Body {
		r.resolveStmt(bodyStmt)
	}
}

func (r *resolver) resolveClassStmt(stmt ast.ClassStmt) {
	enclosingClassType := r.curClassType
	r.curClassType = classClass
	defer func() { r.curClassType = enclosingClassType }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.AddAtToken(stmt.Superclass.Name, "a class can't inherit from itself")
		} else {
			r.curClassType = classSubclass
			r.resolveExpr(*stmt.Superclass)
		}

		r.beginScope()
		defer r.endScope()
		r.defineSynthetic(superIdent)
	}

	r.beginScope()
	defer r.endScope()
	r.defineSynthetic(thisIdent)

	for _, method := range stmt.Methods {
		methodFunType := funMethod
		if method.Name.Lexeme == initIdent {
			methodFunType = funInitializer
		}
		r.resolveFunction(method, methodFunType)
	}
}

func (r *resolver) resolveBlockStmt(stmt ast.BlockStmt) {
	r.beginScope()
	defer r.endScope()
	for _, s := range stmt.Stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveIfStmt(stmt ast.IfStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
}

func (r *resolver) resolveReturnStmt(stmt ast.ReturnStmt) {
	if r.curFunType == funNone {
		r.errs.AddAtToken(stmt.Keyword, "can't return from top-level code")
	}
	if stmt.Value != nil {
		if r.curFunType == funInitializer {
			r.errs.AddAtToken(stmt.Keyword, "can't return a value from an initializer")
		}
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case ast.LiteralExpr:
		// Nothing to resolve.
	case ast.GroupingExpr:
		r.resolveExpr(expr.Expr)
	case ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case ast.AssignExpr:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)
	case ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case ast.GetExpr:
		r.resolveExpr(expr.Object)
	case ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case ast.ThisExpr:
		r.resolveThisExpr(expr)
	case ast.SuperExpr:
		r.resolveSuperExpr(expr)
	default:
		panic(fmt.Sprintf("resolver: unexpected expression type %T", expr))
	}
}

// resolveVariableExpr guards against a variable's own initialiser
// referring to it, e.g. `var a = a;` (spec.md §4.2, "self-reference in
// initializer").
func (r *resolver) resolveVariableExpr(expr ast.VariableExpr) {
	if len(r.scopes) > 0 {
		if defined, declared := r.peek()[expr.Name.Lexeme]; declared && !defined {
			r.errs.AddAtToken(expr.Name, "can't read local variable %s in its own initializer", expr.Name.Lexeme)
			return
		}
	}
	r.resolveLocal(expr, expr.Name)
}

func (r *resolver) resolveThisExpr(expr ast.ThisExpr) {
	if r.curClassType == classNone {
		r.errs.AddAtToken(expr.Keyword, "can't use %m outside of a class", token.This)
		return
	}
	r.resolveLocal(expr, expr.Keyword)
}

func (r *resolver) resolveSuperExpr(expr ast.SuperExpr) {
	switch r.curClassType {
	case classNone:
		r.errs.AddAtToken(expr.Keyword, "can't use %m outside of a class", token.Super)
	case classClass:
		r.errs.AddAtToken(expr.Keyword, "can't use %m in a class with no superclass", token.Super)
	}
	r.resolveLocal(expr, expr.Keyword)
}
