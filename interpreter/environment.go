package interpreter

import (
	"fmt"

	"github.com/caiuslox/lox/loxerror"
	"github.com/caiuslox/lox/token"
)

// Environment is a node in the singly-linked chain of lexical scopes
// described in spec.md §3.4. A child environment holds an owning reference
// to its parent; closures capture whichever environment is in force at the
// point a function or method is declared.
type Environment struct {
	parent *Environment
	values map[string]any
}

// NewEnvironment constructs a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{values: map[string]any{}}
}

// Child creates a new environment whose parent is e.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, values: map[string]any{}}
}

// Define introduces name in e, overwriting any previous value. It's used
// for variable and function declarations, where redeclaring a name is
// either already rejected by the resolver (locals) or permitted (globals,
// to support re-running REPL input).
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get returns the value bound to tok's lexeme in e. Used only for
// globals (locals are resolved by distance via GetAt): an unbound name
// raises a runtime error (spec.md §4.3, "Variable access").
func (e *Environment) Get(tok token.Token) any {
	if v, ok := e.values[tok.Lexeme]; ok {
		return v
	}
	panic(loxerror.NewRuntime(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// Assign rebinds tok's lexeme to value in e. Used for globals, and by class
// declarations to fill in the name they have just defined in their own
// environment: an unbound name raises a runtime error.
func (e *Environment) Assign(tok token.Token, value any) {
	if _, ok := e.values[tok.Lexeme]; !ok {
		panic(loxerror.NewRuntime(tok, "Undefined variable '%s'.", tok.Lexeme))
	}
	e.values[tok.Lexeme] = value
}

// GetAt reads tok's lexeme from the environment exactly distance parents up
// the chain from e. A miss here is a resolver/interpreter invariant
// violation (spec.md §4.3), not a user-facing error, so it panics
// unconditionally rather than through loxerror.
func (e *Environment) GetAt(distance int, tok token.Token) any {
	env := e.ancestor(distance)
	v, ok := env.values[tok.Lexeme]
	if !ok {
		panic(fmt.Sprintf("interpreter: resolver recorded depth %d for %q but it's not bound there", distance, tok.Lexeme))
	}
	return v
}

// AssignAt writes value to tok's lexeme in the environment exactly
// distance parents up the chain from e. See GetAt for the invariant this
// relies on.
func (e *Environment) AssignAt(distance int, tok token.Token, value any) {
	e.ancestor(distance).values[tok.Lexeme] = value
}

// GetByNameAt reads name from the environment exactly distance parents up
// the chain from e. Used for the synthetic "this"/"super" bindings, which
// have no source token of their own to key a lookup by.
func (e *Environment) GetByNameAt(distance int, name string) any {
	return e.ancestor(distance).getByName(name)
}

// getByName and defineByName are used for synthetic bindings ("this",
// "super") which the interpreter creates itself rather than reading from
// source tokens.
func (e *Environment) getByName(name string) any {
	v, ok := e.values[name]
	if !ok {
		panic(fmt.Sprintf("interpreter: %q not bound in environment", name))
	}
	return v
}

func (e *Environment) defineByName(name string, value any) {
	e.values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for range distance {
		if env.parent == nil {
			panic(fmt.Sprintf("interpreter: ancestor %d is out of range", distance))
		}
		env = env.parent
	}
	return env
}
