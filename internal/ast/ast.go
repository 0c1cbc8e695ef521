// Package ast defines the passive, closed-variant node types produced by
// the parser and walked by the semantic checker and interpreter.
package ast

import (
	"github.com/misat1505/tkom-sub000/internal/position"
	"github.com/misat1505/tkom-sub000/internal/value"
)

// PassingMode is how an argument is bound to its parameter.
type PassingMode int

const (
	ByValue PassingMode = iota
	ByReference
)

func (m PassingMode) String() string {
	if m == ByReference {
		return "by-reference"
	}
	return "by-value"
}

// LiteralKind distinguishes the five literal forms: integer, float, string,
// true and false.
type LiteralKind int

const (
	LitI64 LiteralKind = iota
	LitF64
	LitString
	LitTrue
	LitFalse
)

// Literal is a constant value written directly in source.
type Literal struct {
	Kind   LiteralKind
	Int    int64
	Float  float64
	String string
}

// BinaryOp is the closed set of binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
)

// UnaryOp is the closed set of unary operators.
type UnaryOp int

const (
	OpBooleanNegate UnaryOp = iota
	OpArithmeticNegate
)

// ExprKind tags which variant an Expression holds.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprVariable
	ExprCast
	ExprUnary
	ExprBinary
	ExprCall
)

// Expression is the closed sum of expression forms. Every node carries its
// source position for diagnostics.
type Expression struct {
	Kind     ExprKind
	Position position.Position

	Literal Literal // ExprLiteral

	Name string // ExprVariable, ExprCall

	CastType value.Type  // ExprCast
	Operand  *Expression // ExprCast, ExprUnary

	UnaryOp UnaryOp // ExprUnary

	BinaryOp BinaryOp    // ExprBinary
	Left     *Expression // ExprBinary
	Right    *Expression // ExprBinary

	Args []Argument // ExprCall
}

// Argument is an expression plus the passing mode selected at the call
// site.
type Argument struct {
	Expr *Expression
	Mode PassingMode
}

// StmtKind tags which variant a Statement holds.
type StmtKind int

const (
	StmtDeclaration StmtKind = iota
	StmtAssignment
	StmtCall
	StmtConditional
	StmtForLoop
	StmtSwitch
	StmtReturn
	StmtBreak
)

// Statement is the closed sum of statement forms.
type Statement struct {
	Kind     StmtKind
	Position position.Position

	// StmtDeclaration
	DeclType value.Type
	DeclName string
	DeclInit *Expression // nil => default value

	// StmtAssignment
	AssignName string
	AssignExpr *Expression

	// StmtCall (as a statement, result discarded)
	CallName string
	CallArgs []Argument

	// StmtConditional
	CondExpr *Expression
	CondThen *Block
	CondElse *Block // nil if absent

	// StmtForLoop
	ForInit *Statement // nil if absent; always a StmtDeclaration
	ForCond *Expression
	ForStep *Statement // nil if absent; always a StmtAssignment
	ForBody *Block

	// StmtSwitch
	SwitchSubjects []SwitchExpression
	SwitchCases    []SwitchCase

	// StmtReturn
	ReturnExpr *Expression // nil if bare `return;`
}

// Block is an ordered list of statements executed in a fresh scope.
type Block struct {
	Statements []*Statement
}

// SwitchExpression is a subject expression plus an optional alias bound in
// the switch's scope.
type SwitchExpression struct {
	Expr  *Expression
	Alias string // "" if absent
}

// SwitchCase is a guard expression and the block run when it is true.
type SwitchCase struct {
	Guard *Expression
	Body  *Block
}

// Parameter is one entry in a function's declared parameter list.
type Parameter struct {
	Mode PassingMode
	Type value.Type
	Name string
}

// FunctionDeclaration is a top-level function definition.
type FunctionDeclaration struct {
	Name       string
	Parameters []Parameter
	ReturnType value.Type
	Body       *Block
	Position   position.Position
}

// BuiltinDescriptor names a built-in's signature for semantic checking
// (arity + passing mode); the implementation itself lives in internal/interp.
type BuiltinDescriptor struct {
	Name       string
	Parameters []Parameter
	ReturnType value.Type
}

// Program is the parsed unit: ordered top-level statements plus the
// global function and built-in tables.
type Program struct {
	Statements []*Statement
	Functions  map[string]*FunctionDeclaration
	Builtins   map[string]*BuiltinDescriptor
}
