// Package interpreter tree-walks a resolved Lox AST, evaluating
// expressions and executing statements for effect (spec.md §4.3).
package interpreter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/resolver"
	"github.com/caiuslox/lox/token"
)

const (
	thisIdent  = "this"
	superIdent = "super"
)

// Printer is implemented by anything `print` statements write to. It's an
// interface purely so that tests can capture output; the CLI wires it to
// os.Stdout.
type Printer interface {
	Println(...any)
}

// Interpreter evaluates a resolved Lox program. It's reused across
// multiple top-level Run calls (as the REPL does), so that global
// declarations persist between lines.
type Interpreter struct {
	globals *Environment
	depths  resolver.Depths
	out     Printer
}

// New constructs an Interpreter which writes `print` output to out.
func New(out Printer) *Interpreter {
	globals := NewEnvironment()
	globals.Define("clock", &nativeFunction{
		name:  "clock",
		arity: 0,
		fn: func([]any) any {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	})
	return &Interpreter{globals: globals, out: out}
}

// Run resolves and interprets program. program must come from a
// successful parser.Parse call. If resolution fails, a resolve error is
// returned and nothing is executed. Otherwise the program is executed and
// any runtime error is returned.
func (in *Interpreter) Run(program ast.Program) (err error) {
	depths, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	in.depths = depths

	defer func() {
		if r := recover(); r != nil {
			if loxErr, ok := r.(*loxerror.Error); ok {
				err = loxErr
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range program.Stmts {
		in.execStmt(stmt, in.globals)
	}
	return nil
}

// stmtResult is the outcome of executing a statement: either nothing
// noteworthy happened, or a `return` is propagating up to the enclosing
// function call (spec.md §9, "non-local control transfer").
type stmtResult interface {
	isStmtResult()
}

type stmtNone struct{}

func (stmtNone) isStmtResult() {}

type stmtReturn struct {
	Value any
}

func (stmtReturn) isStmtResult() {}

func (in *Interpreter) execStmt(stmt ast.Stmt, env *Environment) stmtResult {
	switch stmt := stmt.(type) {
	case ast.VarStmt:
		in.execVarStmt(stmt, env)
	case *ast.FunctionStmt:
		in.execFunctionStmt(stmt, env)
	case ast.ClassStmt:
		in.execClassStmt(stmt, env)
	case ast.ExpressionStmt:
		in.evalExpr(stmt.Expr, env)
	case ast.PrintStmt:
		in.out.Println(stringify(in.evalExpr(stmt.Expr, env)))
	case ast.BlockStmt:
		return in.executeBlock(stmt.Stmts, env.Child())
	case ast.IfStmt:
		return in.execIfStmt(stmt, env)
	case ast.WhileStmt:
		return in.execWhileStmt(stmt, env)
	case ast.ReturnStmt:
		return in.execReturnStmt(stmt, env)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement type %T", stmt))
	}
	return stmtNone{}
}

func (in *Interpreter) execVarStmt(stmt ast.VarStmt, env *Environment) {
	var value any
	if stmt.Initializer != nil {
		value = in.evalExpr(stmt.Initializer, env)
	}
	env.Define(stmt.Name.Lexeme, value)
}

func (in *Interpreter) execFunctionStmt(stmt *ast.FunctionStmt, env *Environment) {
	env.Define(stmt.Name.Lexeme, NewLoxFunction(stmt, env, false))
}

// execClassStmt follows the seven-step procedure in spec.md §4.3 ("Class
// declaration execution"), including the intermediate `super` environment
// pushed only while methods' closures are being built.
func (in *Interpreter) execClassStmt(stmt ast.ClassStmt, env *Environment) {
	var superclass *LoxClass
	if stmt.Superclass != nil {
		superVal := in.evalExpr(*stmt.Superclass, env)
		class, ok := superVal.(*LoxClass)
		if !ok {
			panic(loxerror.NewRuntime(stmt.Superclass.Name, "Superclass must be a class."))
		}
		superclass = class
	}

	env.Define(stmt.Name.Lexeme, nil)

	methodEnv := env
	if superclass != nil {
		methodEnv = env.Child()
		methodEnv.defineByName(superIdent, superclass)
	}

	methods := make(map[string]*LoxFunction, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = NewLoxFunction(method, methodEnv, method.Name.Lexeme == initMethodName)
	}

	class := &LoxClass{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}
	env.Assign(stmt.Name, class)
}

// executeBlock runs stmts in env, which the caller has already created as
// a fresh child scope. A return propagating out of any statement short
// circuits the remaining statements (spec.md §4.3, "Block execution").
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) stmtResult {
	for _, stmt := range stmts {
		if result := in.execStmt(stmt, env); !isStmtNone(result) {
			return result
		}
	}
	return stmtNone{}
}

func isStmtNone(result stmtResult) bool {
	_, ok := result.(stmtNone)
	return ok
}

func (in *Interpreter) execIfStmt(stmt ast.IfStmt, env *Environment) stmtResult {
	if isTruthy(in.evalExpr(stmt.Condition, env)) {
		return in.execStmt(stmt.Then, env)
	} else if stmt.Else != nil {
		return in.execStmt(stmt.Else, env)
	}
	return stmtNone{}
}

func (in *Interpreter) execWhileStmt(stmt ast.WhileStmt, env *Environment) stmtResult {
	for isTruthy(in.evalExpr(stmt.Condition, env)) {
		if result := in.execStmt(stmt.Body, env); !isStmtNone(result) {
			return result
		}
	}
	return stmtNone{}
}

func (in *Interpreter) execReturnStmt(stmt ast.ReturnStmt, env *Environment) stmtResult {
	var value any
	if stmt.Value != nil {
		value = in.evalExpr(stmt.Value, env)
	}
	return stmtReturn{Value: value}
}

func (in *Interpreter) evalExpr(expr ast.Expr, env *Environment) any {
	switch expr := expr.(type) {
	case ast.LiteralExpr:
		return expr.Value.Literal
	case ast.GroupingExpr:
		return in.evalExpr(expr.Expr, env)
	case ast.UnaryExpr:
		return in.evalUnaryExpr(expr, env)
	case ast.BinaryExpr:
		return in.evalBinaryExpr(expr, env)
	case ast.LogicalExpr:
		return in.evalLogicalExpr(expr, env)
	case ast.VariableExpr:
		return in.lookUpVariable(expr.Name, expr, env)
	case ast.AssignExpr:
		return in.evalAssignExpr(expr, env)
	case ast.CallExpr:
		return in.evalCallExpr(expr, env)
	case ast.GetExpr:
		return in.evalGetExpr(expr, env)
	case ast.SetExpr:
		return in.evalSetExpr(expr, env)
	case ast.ThisExpr:
		return in.lookUpVariable(expr.Keyword, expr, env)
	case ast.SuperExpr:
		return in.evalSuperExpr(expr, env)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression type %T", expr))
	}
}

// lookUpVariable consults the resolver side-table keyed by expr's
// identity (spec.md §9): a recorded depth is resolved locally, otherwise
// the name is looked up in globals.
func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr, env *Environment) any {
	if distance, ok := in.depths[expr.ID()]; ok {
		return env.GetAt(distance, name)
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalUnaryExpr(expr ast.UnaryExpr, env *Environment) any {
	right := in.evalExpr(expr.Right, env)
	switch expr.Op.Type {
	case token.Bang:
		return !isTruthy(right)
	case token.Minus:
		n, ok := right.(float64)
		if !ok {
			panic(loxerror.NewRuntime(expr.Op, "Operand must be a number."))
		}
		return -n
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", expr.Op.Type))
	}
}

func (in *Interpreter) evalBinaryExpr(expr ast.BinaryExpr, env *Environment) any {
	left := in.evalExpr(expr.Left, env)
	right := in.evalExpr(expr.Right, env)

	switch expr.Op.Type {
	case token.EqualEqual:
		return isEqual(left, right)
	case token.BangEqual:
		return !isEqual(left, right)
	case token.Plus:
		return evalPlus(expr.Op, left, right)
	case token.Minus:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a - b })
	case token.Asterisk:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a * b })
	case token.Slash:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a / b })
	case token.Greater:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a > b })
	case token.GreaterEqual:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a >= b })
	case token.Less:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a < b })
	case token.LessEqual:
		return numOp(expr.Op, left, right, func(a, b float64) any { return a <= b })
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", expr.Op.Type))
	}
}

// evalPlus implements `+`'s overloading over numbers and strings
// (spec.md §4.3, "Arithmetic").
func evalPlus(op token.Token, left, right any) any {
	if l, ok := left.(float64); ok {
		if r, ok := right.(float64); ok {
			return l + r
		}
	}
	if l, ok := left.(string); ok {
		if r, ok := right.(string); ok {
			return l + r
		}
	}
	panic(loxerror.NewRuntime(op, "Operands must be two numbers or two strings."))
}

func numOp(op token.Token, left, right any, f func(a, b float64) any) any {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		panic(loxerror.NewRuntime(op, "Operands must be numbers."))
	}
	return f(l, r)
}

// evalLogicalExpr short-circuits, returning the chosen operand itself
// rather than a coerced boolean (spec.md §4.3, "Logical operators").
func (in *Interpreter) evalLogicalExpr(expr ast.LogicalExpr, env *Environment) any {
	left := in.evalExpr(expr.Left, env)
	if expr.Op.Type == token.Or {
		if isTruthy(left) {
			return left
		}
		return in.evalExpr(expr.Right, env)
	}
	if !isTruthy(left) {
		return left
	}
	return in.evalExpr(expr.Right, env)
}

func (in *Interpreter) evalAssignExpr(expr ast.AssignExpr, env *Environment) any {
	value := in.evalExpr(expr.Value, env)
	if distance, ok := in.depths[expr.ID()]; ok {
		env.AssignAt(distance, expr.Name, value)
	} else {
		in.globals.Assign(expr.Name, value)
	}
	return value
}

func (in *Interpreter) evalCallExpr(expr ast.CallExpr, env *Environment) any {
	callee := in.evalExpr(expr.Callee, env)

	args := make([]any, len(expr.Args))
	for i, arg := range expr.Args {
		args[i] = in.evalExpr(arg, env)
	}

	fn, ok := callee.(callable)
	if !ok {
		panic(loxerror.NewRuntime(expr.Callee, "Can only call functions and classes."))
	}
	if len(args) != fn.Arity() {
		panic(loxerror.NewRuntime(expr.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalGetExpr(expr ast.GetExpr, env *Environment) any {
	object := in.evalExpr(expr.Object, env)
	instance, ok := object.(*LoxInstance)
	if !ok {
		panic(loxerror.NewRuntime(expr, "Only instances have properties."))
	}
	return instance.Get(expr.Name)
}

func (in *Interpreter) evalSetExpr(expr ast.SetExpr, env *Environment) any {
	object := in.evalExpr(expr.Object, env)
	instance, ok := object.(*LoxInstance)
	if !ok {
		panic(loxerror.NewRuntime(expr, "Only instances have fields."))
	}
	value := in.evalExpr(expr.Value, env)
	instance.Set(expr.Name, value)
	return value
}

// evalSuperExpr implements spec.md §4.3's "super" rule: the superclass is
// read from the recorded depth, and `this` one scope further in, because
// Bind pushes an extra scope on top of the `super` scope.
func (in *Interpreter) evalSuperExpr(expr ast.SuperExpr, env *Environment) any {
	distance := in.depths[expr.ID()]
	superclass := env.GetAt(distance, expr.Keyword).(*LoxClass)
	instance := env.GetByNameAt(distance-1, thisIdent).(*LoxInstance)

	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		panic(loxerror.NewRuntime(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme))
	}
	return method.Bind(instance)
}

func isTruthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// isEqual implements spec.md §4.3's equality rules. Go's interface
// equality already gives exactly this behaviour for the value types Lox
// uses here: nil only equals nil, differing dynamic types are never equal,
// and same-type values compare structurally (numbers, strings, bools) or
// by identity (pointers to LoxFunction/LoxClass/LoxInstance).
func isEqual(a, b any) bool {
	return a == b
}

// stringify implements spec.md §4.3's "Printing / stringification" rules.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		panic(fmt.Sprintf("interpreter: unexpected value type %T", v))
	}
}
