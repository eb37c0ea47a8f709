package runtime

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongsheng1992/craftinginterpreters/internal/config"
	"github.com/yongsheng1992/craftinginterpreters/interpreter"
	"github.com/yongsheng1992/craftinginterpreters/lang"
	"github.com/yongsheng1992/craftinginterpreters/parser"
)

func newTestInterpreter(out *bytes.Buffer) *interpreter.Interpreter {
	return NewInterpreter(config.Default(), out, io.Discard)
}

func TestReadFileSkippingShebang(t *testing.T) {
	dir := t.TempDir()

	withShebang := filepath.Join(dir, "script.lox")
	if err := os.WriteFile(withShebang, []byte("#!/usr/bin/env lox\nprint 1;\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := readFileSkippingShebang(withShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != "\nprint 1;\n" {
		t.Fatalf("expected shebang to be stripped, got %q", data)
	}

	onlyShebang := filepath.Join(dir, "only_shebang.lox")
	if err := os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(onlyShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body for shebang-only script, got %q", data)
	}

	noShebang := filepath.Join(dir, "plain.lox")
	if err := os.WriteFile(noShebang, []byte(`print "hi";`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(noShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != `print "hi";` {
		t.Fatalf("expected content unchanged, got %q", data)
	}
}

func TestShebangKeepsLineNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lox")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env lox\nprint 1;\nprint -nil;\n"), 0o600))

	var out bytes.Buffer
	err := EvaluateFile(newTestInterpreter(&out), path)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.Equal(t, "Operand must be a number.\n[line 3]", err.Error())
	assert.Equal(t, "1\n", out.String())
}

func runExample(t *testing.T, scriptName, expected string) {
	t.Helper()

	var out bytes.Buffer
	scriptPath := filepath.Join("..", "examples", scriptName)
	if err := EvaluateFile(newTestInterpreter(&out), scriptPath); err != nil {
		t.Fatalf("EvaluateFile(%s) error: %v", scriptName, err)
	}

	actual := strings.TrimSpace(out.String())
	expectedTrimmed := strings.TrimSpace(expected)
	if actual != expectedTrimmed {
		t.Fatalf("unexpected output for %s\nexpected: %q\ngot:      %q", scriptName, expectedTrimmed, actual)
	}
}

func TestExampleHello(t *testing.T) {
	runExample(t, "hello.lox", "Hello, world!")
}

func TestExampleScopes(t *testing.T) {
	runExample(t, "scopes.lox", `inner a
outer b
global c
outer a
outer b
global c
global a
global b
global c`)
}

func TestExampleClassify(t *testing.T) {
	runExample(t, "classify.lox", "negative\nzero\ntruthy\nfallback")
}

func TestExampleTemperature(t *testing.T) {
	runExample(t, "temperature.lox", "Fahrenheit:\n99.5\nTotal: 10\ntrue")
}

func TestEvaluateStringSyntaxErrorRunsNothing(t *testing.T) {
	var out bytes.Buffer
	err := EvaluateString(newTestInterpreter(&out), "print 1;\nprint (2;\nprint 3")
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Empty(t, out.String())

	var list parser.ErrorList
	require.True(t, errors.As(err, &list))
	assert.Len(t, list, 2)
}

func TestEvaluateStringScanError(t *testing.T) {
	var out bytes.Buffer
	err := EvaluateString(newTestInterpreter(&out), "print 1; @")
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
	assert.Equal(t, "[line 1] Error: Unexpected character '@'.", err.Error())
	assert.Empty(t, out.String())
}

func TestEvaluateReader(t *testing.T) {
	var out bytes.Buffer
	in := newTestInterpreter(&out)
	require.NoError(t, EvaluateReader(in, strings.NewReader("var a = 2;\nprint a * a;")))
	assert.Equal(t, "4\n", out.String())
}

func TestEvaluateFileMissing(t *testing.T) {
	var out bytes.Buffer
	err := EvaluateFile(newTestInterpreter(&out), filepath.Join(t.TempDir(), "nope.lox"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, IsSyntaxError(err))
	assert.False(t, IsRuntimeError(err))
}

func TestEvaluateLine(t *testing.T) {
	var out bytes.Buffer
	in := newTestInterpreter(&out)

	val, echo, err := EvaluateLine(in, "var x = 40;")
	require.NoError(t, err)
	assert.False(t, echo)

	val, echo, err = EvaluateLine(in, "x + 2;")
	require.NoError(t, err)
	assert.True(t, echo)
	assert.Equal(t, "42", val.String())

	val, echo, err = EvaluateLine(in, "x = x + 1;")
	require.NoError(t, err)
	assert.True(t, echo)
	assert.Equal(t, lang.NumberValue(41), val)

	_, echo, err = EvaluateLine(in, "print x; x;")
	require.NoError(t, err)
	assert.False(t, echo)
	assert.Equal(t, "41\n", out.String())

	_, _, err = EvaluateLine(in, "missing;")
	assert.True(t, IsRuntimeError(err))
	assert.True(t, errors.Is(err, lang.ErrUndefined))
}

func TestIsIncomplete(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"{", true},
		{"if (x) {\n  print 1;", true},
		{`print "open`, true},
		{"/* open comment", true},
		{"print 1", true},
		{"print ;", false},
		{"print @;", false},
	}
	for _, c := range cases {
		_, err := ParseString(c.src)
		require.Error(t, err, c.src)
		assert.Equal(t, c.want, IsIncomplete(err), c.src)
	}
}

func TestFormatString(t *testing.T) {
	got, err := FormatString("-123 * 45.67;\nif (a) print \"yes\";")
	require.NoError(t, err)
	assert.Equal(t, "(; (* (- 123) 45.67))\n(if a (print \"yes\"))", got)

	_, err = FormatString("print")
	assert.True(t, IsIncomplete(err))
}

func TestNewInterpreterUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 16

	var out bytes.Buffer
	in := NewInterpreter(cfg, &out, io.Discard)
	assert.Equal(t, 16, in.MaxDepth)

	deep := strings.Repeat("{", 40) + strings.Repeat("}", 40)
	err := EvaluateString(in, deep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrTooDeep))

	in = NewInterpreter(nil, &out, io.Discard)
	assert.Equal(t, config.Default().MaxDepth, in.MaxDepth)

	var logs bytes.Buffer
	cfg = config.Default()
	cfg.Debug = true
	in = NewInterpreter(cfg, &out, &logs)
	require.NoError(t, EvaluateString(in, "var x = 1;"))
	assert.Contains(t, logs.String(), "level=DEBUG")
	assert.Contains(t, logs.String(), `stmt="(var x 1)"`)
}

func TestLongOperatorChainRunsAtDefaultDepth(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(nil, &out, io.Discard)

	require.NoError(t, EvaluateString(in, "print 1"+strings.Repeat(" + 1", 1100)+";"))
	assert.Equal(t, "1101\n", out.String())

	out.Reset()
	require.NoError(t, EvaluateString(in, `print ""`+strings.Repeat(` + "ab"`, 1100)+";"))
	assert.Equal(t, strings.Repeat("ab", 1100)+"\n", out.String())
}

func TestNewLogger(t *testing.T) {
	var logs bytes.Buffer
	NewLogger(&logs, false).Debug("hidden")
	assert.Empty(t, logs.String())

	NewLogger(&logs, true).Debug("shown", "k", 1)
	assert.Contains(t, logs.String(), "msg=shown k=1")
}
