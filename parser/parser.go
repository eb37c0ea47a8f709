// Package parser builds a syntax tree from a token sequence by recursive
// descent, one function per precedence level.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yongsheng1992/craftinginterpreters/ast"
	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/token"
)

// DefaultMaxDepth is the nesting limit used by New.
const DefaultMaxDepth = 1024

// Parser consumes a token sequence. A Parser is single-use and not safe for
// concurrent use.
type Parser struct {
	// MaxDepth bounds how deeply statements and expressions may nest.
	// Zero or less disables the check.
	MaxDepth int

	tokens  []token.Token
	current int
	depth   int
	errs    ErrorList
	aborted bool
}

// New returns a parser over tokens. The sequence is expected to end with an
// EOF token; one is assumed if it does not.
func New(tokens []token.Token) *Parser {
	return &Parser{
		MaxDepth: DefaultMaxDepth,
		tokens:   tokens,
	}
}

// Parse is shorthand for New(tokens).Parse().
func Parse(tokens []token.Token) ([]ast.Stmt, error) {
	return New(tokens).Parse()
}

// Parse returns the program's statements. Syntax errors do not stop the
// parse: each one is recorded, the parser resynchronizes at the next
// statement boundary and continues. If anything was recorded the statements
// are discarded and the returned error is an ErrorList.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	p.current = 0
	p.depth = 0
	p.errs = nil
	p.aborted = false

	var stmts []ast.Stmt
	for !p.atEnd() && !p.aborted {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return stmts, nil
}

func (p *Parser) peek() token.Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	line := 1
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return token.EOFAt(line)
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// match consumes the next token if it is one of kinds.
func (p *Parser) match(kinds ...token.Kind) (token.Token, bool) {
	for _, kind := range kinds {
		if p.check(kind) {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	return &Error{Token: tok, Message: message}
}

// record keeps err for the final ErrorList. Once nesting has overflowed the
// parse is abandoned and later errors are only fallout from it.
func (p *Parser) record(err error) {
	if p.aborted && len(p.errs) > 0 {
		return
	}
	var perr *Error
	if !errors.As(err, &perr) {
		perr = &Error{Token: p.peek(), Message: err.Error(), Err: err}
	}
	if errors.Is(perr, ErrTooDeep) {
		p.aborted = true
	}
	p.errs = append(p.errs, perr)
}

// enter counts one level of nesting; callers defer leave regardless of the
// returned error.
func (p *Parser) enter() error {
	p.depth++
	if p.MaxDepth > 0 && p.depth > p.MaxDepth {
		return &Error{
			Token:   p.peek(),
			Message: fmt.Sprintf("Too much nesting (limit %d).", p.MaxDepth),
			Err:     ErrTooDeep,
		}
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// synchronize discards tokens until a likely statement boundary: just past a
// semicolon or just before a statement keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.current > 0 && p.tokens[p.current-1].Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseDeclaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)
	if _, ok := p.match(token.Var); ok {
		stmt, err = p.parseVarDecl()
	} else {
		stmt, err = p.parseStatement()
	}
	if err != nil {
		p.record(err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	name, err := p.expect(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if _, ok := p.match(token.Equal); ok {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, Initializer: init}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	if _, ok := p.match(token.Print); ok {
		return p.parsePrintStmt()
	}
	if keyword, ok := p.match(token.If); ok {
		return p.parseIfStmt(keyword)
	}
	if brace, ok := p.match(token.LeftBrace); ok {
		stmts, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Brace: brace, Statements: stmts}, nil
	}
	return p.parseExpressionStmt()
}

func (p *Parser) parsePrintStmt() (ast.Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Expression: value}, nil
}

func (p *Parser) parseExpressionStmt() (ast.Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) parseIfStmt(keyword token.Token) (ast.Stmt, error) {
	if _, err := p.expect(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if _, ok := p.match(token.Else); ok {
		elseBranch, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Keyword: keyword, Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

// parseBlock parses declarations up to the closing brace. Errors inside the
// block are recorded and recovered here so that one bad statement does not
// discard its siblings.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() && !p.aborted {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.expect(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	expr, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	equals, ok := p.match(token.Equal)
	if !ok {
		return expr, nil
	}
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*ast.Variable); ok {
		return &ast.Assign{Name: v.Name, Value: value}, nil
	}
	// Reported but not thrown: the parser is not confused about where it is.
	p.record(p.errorAt(equals, "Invalid assignment target."))
	return expr, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Or)
		if !ok {
			return left, nil
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.And)
		if !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.BangEqual, token.EqualEqual)
		if !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
		if !ok {
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Minus, token.Plus)
		if !ok {
			return left, nil
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Slash, token.Star)
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	defer p.leave()
	if err := p.enter(); err != nil {
		return nil, err
	}

	if op, ok := p.match(token.Bang, token.Minus); ok {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Right: right}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.False:
		p.advance()
		return &ast.Literal{Value: lang.BoolValue(false)}, nil
	case token.True:
		p.advance()
		return &ast.Literal{Value: lang.BoolValue(true)}, nil
	case token.Nil:
		p.advance()
		return &ast.Literal{Value: lang.Nil}, nil
	case token.Number, token.String:
		p.advance()
		return &ast.Literal{Value: literalOf(tok)}, nil
	case token.Identifier:
		p.advance()
		return &ast.Variable{Name: tok}, nil
	case token.LeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Paren: tok, Expression: expr}, nil
	}
	return nil, p.errorAt(tok, "Expect expression.")
}

// literalOf returns the token's literal, falling back to its lexeme for
// tokens built without one.
func literalOf(tok token.Token) lang.Value {
	if !tok.Literal.IsNil() {
		return tok.Literal
	}
	if tok.Kind == token.Number {
		if f, err := strconv.ParseFloat(tok.Lexeme, 64); err == nil {
			return lang.NumberValue(f)
		}
		return lang.NumberValue(0)
	}
	return lang.StringValue(strings.Trim(tok.Lexeme, `"`))
}
