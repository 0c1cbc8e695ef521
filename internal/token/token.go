// Package token defines the lexer's closed token vocabulary.
package token

import (
	"fmt"

	"github.com/misat1505/tkom-sub000/internal/position"
)

// Category is the fixed, closed set of token kinds.
type Category int

const (
	STX Category = iota
	ETX

	// Literals and identifier.
	IntLiteral
	FloatLiteral
	StringLiteral
	Identifier
	Comment

	// Keywords.
	KwFn
	KwFor
	KwIf
	KwElse
	KwReturn
	KwBreak
	KwSwitch
	KwAs
	KwTrue
	KwFalse

	// Type keywords.
	KwI64
	KwF64
	KwStr
	KwBool
	KwVoid

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semicolon
	Colon
	Arrow
	Ampersand

	// Operators.
	Plus
	Minus
	Star
	Slash
	Assign
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	Not
)

var categoryNames = map[Category]string{
	STX: "STX", ETX: "ETX",
	IntLiteral: "int-literal", FloatLiteral: "float-literal", StringLiteral: "string-literal",
	Identifier: "identifier", Comment: "comment",
	KwFn: "fn", KwFor: "for", KwIf: "if", KwElse: "else", KwReturn: "return",
	KwBreak: "break", KwSwitch: "switch", KwAs: "as", KwTrue: "true", KwFalse: "false",
	KwI64: "i64", KwF64: "f64", KwStr: "str", KwBool: "bool", KwVoid: "void",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	Comma: ",", Semicolon: ";", Colon: ":", Arrow: "->", Ampersand: "&",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Assign: "=",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	And: "&&", Or: "||", Not: "!",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Keywords maps a reserved lexeme to its keyword category. Identifiers
// that exactly match one of these become the keyword token instead.
var Keywords = map[string]Category{
	"fn": KwFn, "for": KwFor, "if": KwIf, "else": KwElse, "return": KwReturn,
	"break": KwBreak, "switch": KwSwitch, "as": KwAs, "true": KwTrue, "false": KwFalse,
	"i64": KwI64, "f64": KwF64, "str": KwStr, "bool": KwBool, "void": KwVoid,
}

// Value is the optional payload a token carries; its kind must match the
// token's category (an int literal carries Int, etc).
type Value struct {
	HasInt    bool
	Int       int64
	HasFloat  bool
	Float     float64
	HasString bool
	String    string
}

// Token pairs a category with its optional payload and source position.
type Token struct {
	Category Category
	Value    Value
	Position position.Position
}

// Lexeme returns a human-readable rendering of the token's payload, or the
// category name when there is none.
func (t Token) Lexeme() string {
	switch {
	case t.Value.HasInt:
		return fmt.Sprintf("%d", t.Value.Int)
	case t.Value.HasFloat:
		return fmt.Sprintf("%g", t.Value.Float)
	case t.Value.HasString:
		return t.Value.String
	default:
		return t.Category.String()
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)%s", t.Category, t.Lexeme(), t.Position)
}
