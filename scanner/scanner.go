// Package scanner turns Lox source text into a flat token sequence.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/token"
)

// Scan tokenizes src. The returned slice always ends with an EOF token, even
// when errors were found; err is an ErrorList in that case.
func Scan(src string) ([]token.Token, error) {
	lx := &lexer{src: src, line: 1}
	lx.run()
	if len(lx.errs) > 0 {
		return lx.tokens, lx.errs
	}
	return lx.tokens, nil
}

type lexer struct {
	src  string
	pos  int
	line int

	start     int
	startLine int

	tokens []token.Token
	errs   ErrorList
}

type runeState struct {
	pos  int
	line int
}

func (lx *lexer) mark() runeState {
	return runeState{pos: lx.pos, line: lx.line}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
}

func (lx *lexer) atEnd() bool {
	return lx.pos >= len(lx.src)
}

// readRune consumes one rune; ok is false at end of input.
func (lx *lexer) readRune() (rune, bool) {
	if lx.atEnd() {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
	}
	return r, true
}

func (lx *lexer) peek() rune {
	state := lx.mark()
	r, _ := lx.readRune()
	lx.restore(state)
	return r
}

func (lx *lexer) peekNext() rune {
	state := lx.mark()
	lx.readRune()
	r, _ := lx.readRune()
	lx.restore(state)
	return r
}

func (lx *lexer) match(expected rune) bool {
	state := lx.mark()
	r, ok := lx.readRune()
	if !ok || r != expected {
		lx.restore(state)
		return false
	}
	return true
}

func (lx *lexer) run() {
	for {
		lx.skipWhitespace()
		if lx.atEnd() {
			break
		}
		lx.start = lx.pos
		lx.startLine = lx.line
		lx.scanToken()
	}
	lx.tokens = append(lx.tokens, token.EOFAt(lx.line))
}

func (lx *lexer) skipWhitespace() {
	for {
		state := lx.mark()
		r, ok := lx.readRune()
		if !ok {
			return
		}
		switch r {
		case ' ', '\r', '\t', '\n':
			continue
		case '/':
			if lx.match('/') {
				lx.skipLine()
				continue
			}
			if lx.match('*') {
				lx.skipBlockComment(state.line)
				continue
			}
		}
		lx.restore(state)
		return
	}
}

func (lx *lexer) skipLine() {
	for !lx.atEnd() && lx.peek() != '\n' {
		lx.readRune()
	}
}

func (lx *lexer) skipBlockComment(startLine int) {
	for {
		r, ok := lx.readRune()
		if !ok {
			lx.errs = append(lx.errs, &Error{Line: startLine, Message: "Unterminated block comment.", Incomplete: true})
			return
		}
		if r == '*' && lx.match('/') {
			return
		}
	}
}

func (lx *lexer) scanToken() {
	r, _ := lx.readRune()

	switch {
	case isAlpha(r):
		lx.scanIdentifier()
		return
	case isDigit(r):
		lx.scanNumber()
		return
	case r == '"':
		lx.scanString()
		return
	}

	switch r {
	case '(':
		lx.add(token.LeftParen)
	case ')':
		lx.add(token.RightParen)
	case '{':
		lx.add(token.LeftBrace)
	case '}':
		lx.add(token.RightBrace)
	case ',':
		lx.add(token.Comma)
	case '.':
		lx.add(token.Dot)
	case '-':
		lx.add(token.Minus)
	case '+':
		lx.add(token.Plus)
	case ';':
		lx.add(token.Semicolon)
	case '*':
		lx.add(token.Star)
	case '/':
		lx.add(token.Slash)
	case '!':
		lx.addEither('=', token.BangEqual, token.Bang)
	case '=':
		lx.addEither('=', token.EqualEqual, token.Equal)
	case '<':
		lx.addEither('=', token.LessEqual, token.Less)
	case '>':
		lx.addEither('=', token.GreaterEqual, token.Greater)
	default:
		lx.errorf(false, "Unexpected character %q.", r)
	}
}

func (lx *lexer) addEither(next rune, two, one token.Kind) {
	if lx.match(next) {
		lx.add(two)
		return
	}
	lx.add(one)
}

func (lx *lexer) add(kind token.Kind) {
	lx.addLiteral(kind, lang.Nil)
}

func (lx *lexer) addLiteral(kind token.Kind, literal lang.Value) {
	lx.tokens = append(lx.tokens, token.Token{
		Kind:    kind,
		Lexeme:  lx.src[lx.start:lx.pos],
		Literal: literal,
		Line:    lx.startLine,
	})
}

func (lx *lexer) errorf(incomplete bool, format string, args ...interface{}) {
	lx.errs = append(lx.errs, &Error{
		Line:       lx.startLine,
		Message:    fmt.Sprintf(format, args...),
		Incomplete: incomplete,
	})
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *lexer) scanIdentifier() {
	for r := lx.peek(); isAlpha(r) || isDigit(r); r = lx.peek() {
		lx.readRune()
	}
	lexeme := lx.src[lx.start:lx.pos]
	if kind, ok := token.Keyword(lexeme); ok {
		lx.add(kind)
		return
	}
	lx.add(token.Identifier)
}

func (lx *lexer) scanNumber() {
	for isDigit(lx.peek()) {
		lx.readRune()
	}
	if lx.peek() == '.' && isDigit(lx.peekNext()) {
		lx.readRune()
		for isDigit(lx.peek()) {
			lx.readRune()
		}
	}
	f, err := strconv.ParseFloat(lx.src[lx.start:lx.pos], 64)
	if err != nil {
		lx.errorf(false, "Invalid number %q.", lx.src[lx.start:lx.pos])
		return
	}
	lx.addLiteral(token.Number, lang.NumberValue(f))
}

func (lx *lexer) scanString() {
	var builder strings.Builder
	for {
		r, ok := lx.readRune()
		if !ok {
			lx.errorf(true, "Unterminated string.")
			return
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, ok := lx.readRune()
			if !ok {
				lx.errorf(true, "Unterminated string.")
				return
			}
			switch esc {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case '\\':
				builder.WriteRune('\\')
			case '"':
				builder.WriteRune('"')
			default:
				builder.WriteRune('\\')
				builder.WriteRune(esc)
			}
			continue
		}
		builder.WriteRune(r)
	}
	lx.addLiteral(token.String, lang.StringValue(builder.String()))
}
