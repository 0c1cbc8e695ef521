package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/ast"
	"github.com/misat1505/tkom-sub000/internal/lexer"
	"github.com/misat1505/tkom-sub000/internal/parser"
	"github.com/misat1505/tkom-sub000/internal/source"
	"github.com/misat1505/tkom-sub000/internal/value"
)

var diffOpts = cmp.Options{
	cmpopts.IgnoreFields(ast.Expression{}, "Position"),
	cmpopts.IgnoreFields(ast.Statement{}, "Position"),
	cmpopts.IgnoreFields(ast.FunctionDeclaration{}, "Position"),
}

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(source.New(strings.NewReader(src)), lexer.DefaultOptions())
	p, err := parser.New(l)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	return program
}

func TestParseSimpleDeclaration(t *testing.T) {
	program := parseProgram(t, "i64 x = 1 + 2;")
	require.Len(t, program.Statements, 1)

	want := &ast.Statement{
		Kind:     ast.StmtDeclaration,
		DeclType: value.I64,
		DeclName: "x",
		DeclInit: &ast.Expression{
			Kind:     ast.ExprBinary,
			BinaryOp: ast.OpAdd,
			Left:     &ast.Expression{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LitI64, Int: 1}},
			Right:    &ast.Expression{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LitI64, Int: 2}},
		},
	}
	if diff := cmp.Diff(want, program.Statements[0], diffOpts); diff != "" {
		t.Errorf("unexpected AST (-want +got):\n%s", diff)
	}
}

func TestRelationalOperatorsDoNotChain(t *testing.T) {
	// "1 < 2 < 3" must fail: only one relational operator per expression.
	l := lexer.New(source.New(strings.NewReader("i64 x = 1 < 2 < 3;")), lexer.DefaultOptions())
	p, err := parser.New(l)
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.Error(t, err)
}

func TestParseFunctionWithByReferenceParameter(t *testing.T) {
	program := parseProgram(t, "fn inc(&i64 n): void { n = n + 1; }")
	fn, ok := program.Functions["inc"]
	require.True(t, ok)
	require.Equal(t, value.Void, fn.ReturnType)
	require.Len(t, fn.Parameters, 1)
	require.Equal(t, ast.ByReference, fn.Parameters[0].Mode)
	require.Equal(t, value.I64, fn.Parameters[0].Type)
	require.Equal(t, "n", fn.Parameters[0].Name)
}

func TestParseForLoopStepIsAssignmentOnly(t *testing.T) {
	program := parseProgram(t, "for (i64 i = 0; i < 10; i = i + 1) { print(\"x\"); }")
	require.Len(t, program.Statements, 1)
	stmt := program.Statements[0]
	require.Equal(t, ast.StmtForLoop, stmt.Kind)
	require.NotNil(t, stmt.ForStep)
	require.Equal(t, ast.StmtAssignment, stmt.ForStep.Kind)
	require.Equal(t, "i", stmt.ForStep.AssignName)
}

func TestParseSwitchWithAlias(t *testing.T) {
	program := parseProgram(t, `
		switch (x: v) {
			(v == 1) -> { break; }
			(v == 2) -> { }
		}
	`)
	require.Len(t, program.Statements, 1)
	stmt := program.Statements[0]
	require.Equal(t, ast.StmtSwitch, stmt.Kind)
	require.Len(t, stmt.SwitchSubjects, 1)
	require.Equal(t, "v", stmt.SwitchSubjects[0].Alias)
	require.Len(t, stmt.SwitchCases, 2)
}

func TestDuplicateFunctionNameIsAnError(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader("fn f(): void {} fn f(): void {}")), lexer.DefaultOptions())
	p, err := parser.New(l)
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.Error(t, err)
}

func TestFunctionCollidingWithBuiltinIsAnError(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader("fn print(str s): void {}")), lexer.DefaultOptions())
	p, err := parser.New(l)
	require.NoError(t, err)
	_, err = p.ParseProgram()
	require.Error(t, err)
}
