// Package ast defines the types used to represent the abstract syntax tree
// of a Lox program.
package ast

import "github.com/caiuslox/lox/token"

// Node is the interface which all AST nodes implement.
type Node interface {
	Start() token.Position
	End() token.Position
}

// Expr is the interface which all expression nodes implement.
//
// Every concrete Expr has a unique, never-reused ID assigned by the parser
// at construction time (see NewID). The resolver uses this identity, rather
// than structural equality, to key its side-table of scope depths (spec.md
// §3.2, §3.8): two syntactically identical `a` expressions at different
// points in the source are different Expr values with different IDs.
//
//sumtype:decl
type Expr interface {
	Node
	ID() int
	isExpr()
}

// idCounter hands out the identities described above. It's package-level
// because a single program is always parsed by one parser in one
// goroutine (spec.md §5); nothing downstream relies on IDs being stable
// across separate calls to parser.Parse.
var idCounter int

// NewID returns a fresh, unique expression identity. It's exported so that
// the parser (the only package which constructs Expr values) can assign one
// to every expression node it builds.
func NewID() int {
	idCounter++
	return idCounter
}

type exprBase struct {
	id int
}

// NewExprBase constructs the embeddable base every concrete Expr type
// carries, stamping it with a fresh ID.
func NewExprBase() exprBase {
	return exprBase{id: NewID()}
}

func (e exprBase) ID() int { return e.id }
func (exprBase) isExpr()   {}

// NewLiteralExpr constructs a LiteralExpr with a fresh identity.
func NewLiteralExpr(value token.Token) LiteralExpr {
	return LiteralExpr{exprBase: NewExprBase(), Value: value}
}

// NewGroupingExpr constructs a GroupingExpr with a fresh identity.
func NewGroupingExpr(leftParen token.Token, expr Expr, rightParen token.Token) GroupingExpr {
	return GroupingExpr{exprBase: NewExprBase(), LeftParen: leftParen, Expr: expr, RightParen: rightParen}
}

// NewUnaryExpr constructs a UnaryExpr with a fresh identity.
func NewUnaryExpr(op token.Token, right Expr) UnaryExpr {
	return UnaryExpr{exprBase: NewExprBase(), Op: op, Right: right}
}

// NewBinaryExpr constructs a BinaryExpr with a fresh identity.
func NewBinaryExpr(left Expr, op token.Token, right Expr) BinaryExpr {
	return BinaryExpr{exprBase: NewExprBase(), Left: left, Op: op, Right: right}
}

// NewLogicalExpr constructs a LogicalExpr with a fresh identity.
func NewLogicalExpr(left Expr, op token.Token, right Expr) LogicalExpr {
	return LogicalExpr{exprBase: NewExprBase(), Left: left, Op: op, Right: right}
}

// NewVariableExpr constructs a VariableExpr with a fresh identity.
func NewVariableExpr(name token.Token) VariableExpr {
	return VariableExpr{exprBase: NewExprBase(), Name: name}
}

// NewAssignExpr constructs an AssignExpr with a fresh identity.
func NewAssignExpr(name token.Token, value Expr) AssignExpr {
	return AssignExpr{exprBase: NewExprBase(), Name: name, Value: value}
}

// NewCallExpr constructs a CallExpr with a fresh identity.
func NewCallExpr(callee Expr, paren token.Token, args []Expr) CallExpr {
	return CallExpr{exprBase: NewExprBase(), Callee: callee, Paren: paren, Args: args}
}

// NewGetExpr constructs a GetExpr with a fresh identity.
func NewGetExpr(object Expr, name token.Token) GetExpr {
	return GetExpr{exprBase: NewExprBase(), Object: object, Name: name}
}

// NewSetExpr constructs a SetExpr with a fresh identity.
func NewSetExpr(object Expr, name token.Token, value Expr) SetExpr {
	return SetExpr{exprBase: NewExprBase(), Object: object, Name: name, Value: value}
}

// NewThisExpr constructs a ThisExpr with a fresh identity.
func NewThisExpr(keyword token.Token) ThisExpr {
	return ThisExpr{exprBase: NewExprBase(), Keyword: keyword}
}

// NewSuperExpr constructs a SuperExpr with a fresh identity.
func NewSuperExpr(keyword, method token.Token) SuperExpr {
	return SuperExpr{exprBase: NewExprBase(), Keyword: keyword, Method: method}
}

// LiteralExpr is a literal expression: a number, string, boolean or nil.
// Value is the literal token itself; its Literal field holds the parsed
// Go value (float64, string, bool or nil).
type LiteralExpr struct {
	exprBase
	Value token.Token
}

func (l LiteralExpr) Start() token.Position { return l.Value.Start() }
func (l LiteralExpr) End() token.Position   { return l.Value.End() }

// GroupingExpr is a parenthesised expression, such as (a + b).
type GroupingExpr struct {
	exprBase
	LeftParen  token.Token
	Expr       Expr
	RightParen token.Token
}

func (g GroupingExpr) Start() token.Position { return g.LeftParen.Start() }
func (g GroupingExpr) End() token.Position   { return g.RightParen.End() }

// UnaryExpr is a unary operator expression, such as -a or !a.
type UnaryExpr struct {
	exprBase
	Op    token.Token
	Right Expr
}

func (u UnaryExpr) Start() token.Position { return u.Op.Start() }
func (u UnaryExpr) End() token.Position   { return u.Right.End() }

// BinaryExpr is a binary operator expression, such as a + b.
type BinaryExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func (b BinaryExpr) Start() token.Position { return b.Left.Start() }
func (b BinaryExpr) End() token.Position   { return b.Right.End() }

// LogicalExpr is a short-circuiting `and`/`or` expression.
type LogicalExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func (l LogicalExpr) Start() token.Position { return l.Left.Start() }
func (l LogicalExpr) End() token.Position   { return l.Right.End() }

// VariableExpr is a reference to a variable, such as a.
type VariableExpr struct {
	exprBase
	Name token.Token
}

func (v VariableExpr) Start() token.Position { return v.Name.Start() }
func (v VariableExpr) End() token.Position   { return v.Name.End() }

// AssignExpr is an assignment to a variable, such as a = 2.
type AssignExpr struct {
	exprBase
	Name  token.Token
	Value Expr
}

func (a AssignExpr) Start() token.Position { return a.Name.Start() }
func (a AssignExpr) End() token.Position   { return a.Value.End() }

// CallExpr is a function or method call, such as f(1, 2).
type CallExpr struct {
	exprBase
	Callee Expr
	Paren  token.Token // the closing ')', used to attribute arity errors
	Args   []Expr
}

func (c CallExpr) Start() token.Position { return c.Callee.Start() }
func (c CallExpr) End() token.Position   { return c.Paren.End() }

// GetExpr is a property access, such as a.b.
type GetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
}

func (g GetExpr) Start() token.Position { return g.Object.Start() }
func (g GetExpr) End() token.Position   { return g.Name.End() }

// SetExpr is a property assignment, such as a.b = 2.
type SetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

func (s SetExpr) Start() token.Position { return s.Object.Start() }
func (s SetExpr) End() token.Position   { return s.Value.End() }

// ThisExpr is a use of the `this` keyword inside a method.
type ThisExpr struct {
	exprBase
	Keyword token.Token
}

func (t ThisExpr) Start() token.Position { return t.Keyword.Start() }
func (t ThisExpr) End() token.Position   { return t.Keyword.End() }

// SuperExpr is a use of `super.method` inside a subclass's method.
type SuperExpr struct {
	exprBase
	Keyword token.Token
	Method  token.Token
}

func (s SuperExpr) Start() token.Position { return s.Keyword.Start() }
func (s SuperExpr) End() token.Position   { return s.Method.End() }

// Stmt is the interface which all statement nodes implement.
//
//sumtype:decl
type Stmt interface {
	Node
	isStmt()
}

type stmtBase struct{}

func (stmtBase) isStmt() {}

// ExpressionStmt is an expression evaluated for its side effects, such as a
// function call.
type ExpressionStmt struct {
	stmtBase
	Expr      Expr
	Semicolon token.Token
}

func (e ExpressionStmt) Start() token.Position { return e.Expr.Start() }
func (e ExpressionStmt) End() token.Position   { return e.Semicolon.End() }

// PrintStmt is a `print` statement.
type PrintStmt struct {
	stmtBase
	Print     token.Token
	Expr      Expr
	Semicolon token.Token
}

func (p PrintStmt) Start() token.Position { return p.Print.Start() }
func (p PrintStmt) End() token.Position   { return p.Semicolon.End() }

// VarStmt is a variable declaration, such as var a = 1; or var b;.
type VarStmt struct {
	stmtBase
	Var         token.Token
	Name        token.Token
	Initializer Expr // nil if the declaration has no initializer
	Semicolon   token.Token
}

func (v VarStmt) Start() token.Position { return v.Var.Start() }
func (v VarStmt) End() token.Position   { return v.Semicolon.End() }

// BlockStmt is a brace-delimited sequence of statements introducing a new
// lexical scope.
type BlockStmt struct {
	stmtBase
	LeftBrace  token.Token
	Stmts      []Stmt
	RightBrace token.Token
}

func (b BlockStmt) Start() token.Position { return b.LeftBrace.Start() }
func (b BlockStmt) End() token.Position   { return b.RightBrace.End() }

// IfStmt is an `if`/`else` statement. Else is nil if there's no else
// branch.
type IfStmt struct {
	stmtBase
	If        token.Token
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (i IfStmt) Start() token.Position { return i.If.Start() }
func (i IfStmt) End() token.Position {
	if i.Else != nil {
		return i.Else.End()
	}
	return i.Then.End()
}

// WhileStmt is a `while` statement.
type WhileStmt struct {
	stmtBase
	While     token.Token
	Condition Expr
	Body      Stmt
}

func (w WhileStmt) Start() token.Position { return w.While.Start() }
func (w WhileStmt) End() token.Position   { return w.Body.End() }

// FunctionStmt is a function (or method) declaration: its name, parameters
// and body. Methods reuse this type; ClassStmt.Methods holds *FunctionStmt
// so that LoxClass can keep a stable pointer per method.
type FunctionStmt struct {
	stmtBase
	Fun        token.Token
	Name       token.Token
	Params     []token.Token
	Body       []Stmt
	RightBrace token.Token
}

// Start returns the position of the `fun` keyword for a function
// declaration, or of the name for a method declaration (which has no `fun`
// keyword of its own).
func (f *FunctionStmt) Start() token.Position {
	if f.Fun.IsZero() {
		return f.Name.Start()
	}
	return f.Fun.Start()
}
func (f *FunctionStmt) End() token.Position { return f.RightBrace.End() }

// ReturnStmt is a `return` statement. Value is nil for a bare `return;`.
type ReturnStmt struct {
	stmtBase
	Keyword   token.Token
	Value     Expr
	Semicolon token.Token
}

func (r ReturnStmt) Start() token.Position { return r.Keyword.Start() }
func (r ReturnStmt) End() token.Position   { return r.Semicolon.End() }

// ClassStmt is a class declaration, optionally with a superclass.
type ClassStmt struct {
	stmtBase
	Class      token.Token
	Name       token.Token
	Superclass *VariableExpr // nil if there's no superclass
	Methods    []*FunctionStmt
	RightBrace token.Token
}

func (c ClassStmt) Start() token.Position { return c.Class.Start() }
func (c ClassStmt) End() token.Position   { return c.RightBrace.End() }

// Program is the root node of the AST: a Lox program is a list of
// statements.
type Program struct {
	Stmts []Stmt
}
