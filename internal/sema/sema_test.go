package sema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/lexer"
	"github.com/misat1505/tkom-sub000/internal/parser"
	"github.com/misat1505/tkom-sub000/internal/sema"
	"github.com/misat1505/tkom-sub000/internal/source"
)

func check(t *testing.T, src string) int {
	t.Helper()
	l := lexer.New(source.New(strings.NewReader(src)), lexer.DefaultOptions())
	p, err := parser.New(l)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	return sema.New(program).Check().Len()
}

func TestNoIssuesOnWellFormedCalls(t *testing.T) {
	require.Zero(t, check(t, `
		fn add(i64 a, i64 b): i64 { return a + b; }
		i64 x = add(1, 2);
	`))
}

func TestCallToUnknownFunctionIsFlagged(t *testing.T) {
	require.NotZero(t, check(t, `i64 x = mystery(1);`))
}

func TestArityMismatchIsFlagged(t *testing.T) {
	require.NotZero(t, check(t, `
		fn add(i64 a, i64 b): i64 { return a + b; }
		i64 x = add(1);
	`))
}

func TestPassingModeMismatchIsFlagged(t *testing.T) {
	require.NotZero(t, check(t, `
		fn inc(&i64 n): void { n = n + 1; }
		i64 x = 1;
		inc(x);
	`))
}

func TestPassingModeMatchIsNotFlagged(t *testing.T) {
	require.Zero(t, check(t, `
		fn inc(&i64 n): void { n = n + 1; }
		i64 x = 1;
		inc(&x);
	`))
}
