// Package ast defines the syntax tree produced by the parser. Nodes are plain
// data; the interpreter and the printer dispatch on them with type switches.
package ast

import (
	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/token"
)

// Expr represents an expression.
type Expr interface {
	exprNode()
}

// Stmt represents a statement.
type Stmt interface {
	stmtNode()
}

// Literal is a nil, boolean, number or string constant.
type Literal struct {
	Value lang.Value
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Paren      token.Token // the opening parenthesis
	Expression Expr
}

// Unary represents prefix operator application (- or !).
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Binary represents arithmetic, comparison and equality operators.
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Logical represents the short-circuiting and/or operators.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Variable reads a binding.
type Variable struct {
	Name token.Token
}

// Assign writes an existing binding and yields the assigned value.
type Assign struct {
	Name  token.Token
	Value Expr
}

// Call invokes a callee. Reserved; the interpreter rejects it.
type Call struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

// Get reads a property. Reserved; the interpreter rejects it.
type Get struct {
	Object Expr
	Name   token.Token
}

// Set writes a property. Reserved; the interpreter rejects it.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// This refers to the current instance. Reserved; the interpreter rejects it.
type This struct {
	Keyword token.Token
}

// Super refers to a superclass method. Reserved; the interpreter rejects it.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*This) exprNode()     {}
func (*Super) exprNode()    {}

// ExpressionStmt evaluates an expression for side-effects.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt evaluates an expression and writes its display text.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a binding in the current scope.
type VarStmt struct {
	Name        token.Token
	Initializer Expr // may be nil
}

// BlockStmt is a braced block with its own scope.
type BlockStmt struct {
	Brace      token.Token // the opening brace
	Statements []Stmt
}

// IfStmt conditionally executes branches.
type IfStmt struct {
	Keyword    token.Token
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // may be nil
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
