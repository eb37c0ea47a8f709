package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongsheng1992/craftinginterpreters/token"
)

func lexAllTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected scanner error: %v", err)
	}
	if n := len(tokens); n == 0 || tokens[n-1].Kind != token.EOF {
		t.Fatalf("expected token stream to end with EOF, got %v", tokens)
	}
	return tokens
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScannerIdentifiersAndKeywords(t *testing.T) {
	tokens := lexAllTokens(t, "var x and or if else print nil true false foo _bar baz123")

	assert.Equal(t, []token.Kind{
		token.Var, token.Identifier, token.And, token.Or, token.If, token.Else,
		token.Print, token.Nil, token.True, token.False,
		token.Identifier, token.Identifier, token.Identifier, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, "x", tokens[1].Lexeme)
	assert.Equal(t, "_bar", tokens[11].Lexeme)
	assert.Equal(t, "baz123", tokens[12].Lexeme)
}

func TestScannerOperators(t *testing.T) {
	tokens := lexAllTokens(t, "(){},.-+;*/ ! != = == < <= > >=")

	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash, token.Bang, token.BangEqual, token.Equal,
		token.EqualEqual, token.Less, token.LessEqual, token.Greater,
		token.GreaterEqual, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, "!=", tokens[12].Lexeme)
}

func TestScannerNumberLiterals(t *testing.T) {
	tokens := lexAllTokens(t, "0 123 45.67 10.")

	require.Len(t, tokens, 6)
	want := []float64{0, 123, 45.67, 10}
	for i, f := range want {
		assert.Equal(t, token.Number, tokens[i].Kind)
		assert.Equal(t, f, tokens[i].Literal.Number())
	}
	assert.Equal(t, "45.67", tokens[2].Lexeme)
	// A trailing dot is not part of the number.
	assert.Equal(t, token.Dot, tokens[4].Kind)
}

func TestScannerStringLiterals(t *testing.T) {
	tokens := lexAllTokens(t, "\"hello\" \"tab\\tquote\\\"\" \"two\nlines\" \"\"")

	require.Len(t, tokens, 5)
	want := []string{"hello", "tab\tquote\"", "two\nlines", ""}
	for i, s := range want {
		assert.Equal(t, token.String, tokens[i].Kind)
		assert.Equal(t, s, tokens[i].Literal.Str())
	}
	assert.Equal(t, `"hello"`, tokens[0].Lexeme)
	assert.Equal(t, 1, tokens[2].Line)
	assert.Equal(t, 2, tokens[3].Line)
}

func TestScannerCommentsAndLines(t *testing.T) {
	src := "// leading comment\nprint 1; /* block\ncomment */ print 2;\n"
	tokens := lexAllTokens(t, src)

	assert.Equal(t, []token.Kind{
		token.Print, token.Number, token.Semicolon,
		token.Print, token.Number, token.Semicolon, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, 2, tokens[0].Line)
	assert.Equal(t, 3, tokens[3].Line)
	assert.Equal(t, 4, tokens[6].Line)
}

func TestScannerSlashIsDivision(t *testing.T) {
	tokens := lexAllTokens(t, "6 / 3")
	assert.Equal(t, []token.Kind{token.Number, token.Slash, token.Number, token.EOF}, kinds(tokens))
}

func TestScannerErrorsKeepScanning(t *testing.T) {
	tokens, err := Scan("var a = @;\nvar b = #;")
	require.Error(t, err)

	var list ErrorList
	require.True(t, errors.As(err, &list))
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Line)
	assert.Equal(t, 2, list[1].Line)
	assert.Contains(t, err.Error(), "[line 1] Error: Unexpected character '@'.")
	assert.False(t, IsIncomplete(err))

	assert.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
	assert.Equal(t, 9, len(tokens))
}

func TestScannerIncompleteInput(t *testing.T) {
	for _, src := range []string{`print "abc`, "/* open", `"esc\`} {
		_, err := Scan(src)
		require.Error(t, err, src)
		assert.True(t, IsIncomplete(err), src)
	}
	assert.False(t, IsIncomplete(nil))
	assert.False(t, IsIncomplete(errors.New("boom")))
}
