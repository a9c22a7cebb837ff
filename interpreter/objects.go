package interpreter

import (
	"fmt"

	"github.com/caiuslox/lox/ast"
	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/token"
)

const initMethodName = "init"

// callable is implemented by every Lox value which can appear as the
// callee of a CallExpr: user-defined functions and methods, classes
// (constructing an instance) and native functions such as clock.
type callable interface {
	Arity() int
	Call(in *Interpreter, args []any) any
}

// LoxFunction is a function or method value: its declaration paired with
// the environment in force when it was declared (spec.md §3.5). It's
// immutable after construction; Bind produces a new LoxFunction rather
// than mutating this one, so the same declaration can be bound to many
// instances.
type LoxFunction struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewLoxFunction constructs a LoxFunction closing over env.
func NewLoxFunction(declaration *ast.FunctionStmt, env *Environment, isInitializer bool) *LoxFunction {
	return &LoxFunction{declaration: declaration, closure: env, isInitializer: isInitializer}
}

func (f *LoxFunction) Arity() int { return len(f.declaration.Params) }

func (f *LoxFunction) Call(in *Interpreter, args []any) any {
	env := f.closure.Child()
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	result := in.executeBlock(f.declaration.Body, env)
	if f.isInitializer {
		return f.closure.getByName(thisIdent)
	}
	if ret, ok := result.(stmtReturn); ok {
		return ret.Value
	}
	return nil
}

func (f *LoxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// Bind returns a new LoxFunction whose closure is a fresh child of f's
// closure containing `this` → instance (spec.md §3.5).
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := f.closure.Child()
	env.defineByName(thisIdent, instance)
	return &LoxFunction{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

// LoxClass is a class value: its name, optional superclass and methods
// (spec.md §3.6). A class is itself callable; calling it constructs a
// LoxInstance and, if an `init` method exists, binds and invokes it.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (c *LoxClass) String() string { return c.Name }

// FindMethod looks up name in c's method table, then in its superclass
// chain.
func (c *LoxClass) FindMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *LoxClass) Arity() int {
	if init, ok := c.FindMethod(initMethodName); ok {
		return init.Arity()
	}
	return 0
}

func (c *LoxClass) Call(in *Interpreter, args []any) any {
	instance := &LoxInstance{Class: c, Fields: map[string]any{}}
	if init, ok := c.FindMethod(initMethodName); ok {
		init.Bind(instance).Call(in, args)
	}
	return instance
}

// LoxInstance is an instance of a LoxClass: a fields map plus a pointer
// back to its class for method resolution (spec.md §3.7).
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]any
}

func (i *LoxInstance) String() string { return i.Class.Name + " instance" }

// Get implements property read: fields shadow methods, and a method hit is
// returned bound to i (spec.md §4.3, "Property access").
func (i *LoxInstance) Get(name token.Token) any {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v
	}
	if method, ok := i.Class.FindMethod(name.Lexeme); ok {
		return method.Bind(i)
	}
	panic(loxerror.NewRuntime(name, "Undefined property '%s'.", name.Lexeme))
}

// Set implements property write: it always stores a field, even if a
// method of the same name exists (spec.md §4.3).
func (i *LoxInstance) Set(name token.Token, value any) {
	i.Fields[name.Lexeme] = value
}

// nativeFunction wraps a Go function as a callable Lox value, used for
// globals like clock (spec.md §4.3, "Native function clock").
type nativeFunction struct {
	name  string
	arity int
	fn    func(args []any) any
}

func (n *nativeFunction) Arity() int                       { return n.arity }
func (n *nativeFunction) Call(_ *Interpreter, args []any) any { return n.fn(args) }
func (n *nativeFunction) String() string                   { return "<native fn>" }
