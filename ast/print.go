package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders expr as a fully parenthesised prefix ("Lisp-like")
// expression, e.g. `1 + 2 * 3` becomes `(+ 1 (* 2 3))`. It's used by
// SprintStmt (and so the `-p` CLI flag) and by the parser's round-trip tests (spec.md §8,
// property 1) to compare two ASTs for structural equality: the prefix form
// isn't valid Lox syntax itself (it can't be fed back into the infix
// parser), but two expressions with the same shape always render to the
// same string and vice versa.
func Sprint(expr Expr) string {
	switch expr := expr.(type) {
	case LiteralExpr:
		return sprintLiteral(expr)
	case GroupingExpr:
		return parenthesize("group", expr.Expr)
	case UnaryExpr:
		return parenthesize(expr.Op.Lexeme, expr.Right)
	case BinaryExpr:
		return parenthesize(expr.Op.Lexeme, expr.Left, expr.Right)
	case LogicalExpr:
		return parenthesize(expr.Op.Lexeme, expr.Left, expr.Right)
	case VariableExpr:
		return expr.Name.Lexeme
	case AssignExpr:
		return parenthesize("= "+expr.Name.Lexeme, expr.Value)
	case CallExpr:
		return parenthesize("call", append([]Expr{expr.Callee}, expr.Args...)...)
	case GetExpr:
		return parenthesize(". "+expr.Name.Lexeme, expr.Object)
	case SetExpr:
		return parenthesize("= . "+expr.Name.Lexeme, expr.Object, expr.Value)
	case ThisExpr:
		return "this"
	case SuperExpr:
		return "(super " + expr.Method.Lexeme + ")"
	default:
		panic(fmt.Sprintf("ast: Sprint: unexpected expression type %T", expr))
	}
}

func sprintLiteral(l LiteralExpr) string {
	if l.Value.Literal == nil {
		return "nil"
	}
	switch v := l.Value.Literal.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// SprintProgram renders every top-level statement of program using
// SprintStmt, one per line. It's used by the `-p` CLI flag to print a
// parsed program without running it.
func SprintProgram(program Program) string {
	var b strings.Builder
	for i, stmt := range program.Stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(SprintStmt(stmt))
	}
	return b.String()
}

// SprintStmt renders stmt the same way Sprint renders expressions: fully
// parenthesized, with nested blocks rendered inline as `(block ...)` on the
// same line.
func SprintStmt(stmt Stmt) string {
	switch stmt := stmt.(type) {
	case ExpressionStmt:
		return Sprint(stmt.Expr)
	case PrintStmt:
		return parenthesize("print", stmt.Expr)
	case VarStmt:
		if stmt.Initializer == nil {
			return fmt.Sprintf("(var %s)", stmt.Name.Lexeme)
		}
		return fmt.Sprintf("(var %s %s)", stmt.Name.Lexeme, Sprint(stmt.Initializer))
	case BlockStmt:
		return sprintBlock(stmt.Stmts)
	case IfStmt:
		s := fmt.Sprintf("(if %s %s", Sprint(stmt.Condition), SprintStmt(stmt.Then))
		if stmt.Else != nil {
			s += " " + SprintStmt(stmt.Else)
		}
		return s + ")"
	case WhileStmt:
		return fmt.Sprintf("(while %s %s)", Sprint(stmt.Condition), SprintStmt(stmt.Body))
	case *FunctionStmt:
		return fmt.Sprintf("(fun %s %s)", stmt.Name.Lexeme, sprintBlock(stmt.Body))
	case ReturnStmt:
		if stmt.Value == nil {
			return "(return)"
		}
		return parenthesize("return", stmt.Value)
	case ClassStmt:
		return sprintClassStmt(stmt)
	default:
		panic(fmt.Sprintf("ast: SprintStmt: unexpected statement type %T", stmt))
	}
}

func sprintBlock(stmts []Stmt) string {
	var b strings.Builder
	b.WriteString("(block")
	for _, s := range stmts {
		b.WriteByte(' ')
		b.WriteString(SprintStmt(s))
	}
	b.WriteByte(')')
	return b.String()
}

func sprintClassStmt(stmt ClassStmt) string {
	var b strings.Builder
	b.WriteString("(class ")
	b.WriteString(stmt.Name.Lexeme)
	if stmt.Superclass != nil {
		b.WriteString(" < ")
		b.WriteString(stmt.Superclass.Name.Lexeme)
	}
	for _, m := range stmt.Methods {
		b.WriteByte(' ')
		b.WriteString(SprintStmt(m))
	}
	b.WriteByte(')')
	return b.String()
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(Sprint(e))
	}
	b.WriteByte(')')
	return b.String()
}
