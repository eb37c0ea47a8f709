// Package printer renders syntax trees as parenthesized prefix text, for
// debugging the parser.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yongsheng1992/craftinginterpreters/ast"
	"github.com/yongsheng1992/craftinginterpreters/lang"
)

// Print renders expr. Every operator node becomes a parenthesized list
// headed by its operator, so distinct trees never print the same.
func Print(expr ast.Expr) string {
	var builder strings.Builder
	writeExpr(&builder, expr)
	return builder.String()
}

// PrintStmt renders a single statement.
func PrintStmt(stmt ast.Stmt) string {
	var builder strings.Builder
	writeStmt(&builder, stmt)
	return builder.String()
}

// PrintProgram renders statements one per line.
func PrintProgram(stmts []ast.Stmt) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = PrintStmt(stmt)
	}
	return strings.Join(lines, "\n")
}

func writeExpr(b *strings.Builder, expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		b.WriteString(literal(e.Value))
	case *ast.Grouping:
		parenthesize(b, "group", e.Expression)
	case *ast.Unary:
		parenthesize(b, e.Operator.Lexeme, e.Right)
	case *ast.Binary:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)
	case *ast.Logical:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)
	case *ast.Variable:
		b.WriteString(e.Name.Lexeme)
	case *ast.Assign:
		b.WriteString("(= ")
		b.WriteString(e.Name.Lexeme)
		b.WriteByte(' ')
		writeExpr(b, e.Value)
		b.WriteByte(')')
	case *ast.Call:
		parenthesize(b, "call", append([]ast.Expr{e.Callee}, e.Arguments...)...)
	case *ast.Get:
		b.WriteString("(. ")
		writeExpr(b, e.Object)
		b.WriteByte(' ')
		b.WriteString(e.Name.Lexeme)
		b.WriteByte(')')
	case *ast.Set:
		b.WriteString("(= ")
		writeExpr(b, e.Object)
		b.WriteByte(' ')
		b.WriteString(e.Name.Lexeme)
		b.WriteByte(' ')
		writeExpr(b, e.Value)
		b.WriteByte(')')
	case *ast.This:
		b.WriteString("this")
	case *ast.Super:
		b.WriteString("(super ")
		b.WriteString(e.Method.Lexeme)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("printer: unhandled expression %T", expr))
	}
}

func writeStmt(b *strings.Builder, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		parenthesize(b, ";", s.Expression)
	case *ast.PrintStmt:
		parenthesize(b, "print", s.Expression)
	case *ast.VarStmt:
		b.WriteString("(var ")
		b.WriteString(s.Name.Lexeme)
		if s.Initializer != nil {
			b.WriteByte(' ')
			writeExpr(b, s.Initializer)
		}
		b.WriteByte(')')
	case *ast.BlockStmt:
		b.WriteString("(block")
		for _, inner := range s.Statements {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *ast.IfStmt:
		b.WriteString("(if ")
		writeExpr(b, s.Condition)
		b.WriteByte(' ')
		writeStmt(b, s.ThenBranch)
		if s.ElseBranch != nil {
			b.WriteByte(' ')
			writeStmt(b, s.ElseBranch)
		}
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("printer: unhandled statement %T", stmt))
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...ast.Expr) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		writeExpr(b, expr)
	}
	b.WriteByte(')')
}

// literal quotes strings so that "nil" the string and nil the value differ.
func literal(v lang.Value) string {
	if v.Type == lang.TypeString {
		return strconv.Quote(v.Str())
	}
	return v.String()
}
