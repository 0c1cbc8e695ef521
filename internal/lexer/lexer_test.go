package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/lexer"
	"github.com/misat1505/tkom-sub000/internal/source"
	"github.com/misat1505/tkom-sub000/internal/token"
)

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(source.New(strings.NewReader(src)), lexer.DefaultOptions())
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Category == token.ETX {
			return toks
		}
	}
}

func categories(toks []token.Token) []token.Category {
	cats := make([]token.Category, len(toks))
	for i, tok := range toks {
		cats[i] = tok.Category
	}
	return cats
}

func TestFirstTokenIsSTX(t *testing.T) {
	toks := lex(t, "")
	require.Equal(t, token.STX, toks[0].Category)
	require.Equal(t, token.ETX, toks[1].Category)
}

func TestTwoCharOperators(t *testing.T) {
	toks := lex(t, "-> <= >= == != && ||")
	require.Equal(t,
		[]token.Category{token.STX, token.Arrow, token.Le, token.Ge, token.Eq, token.Ne, token.And, token.Or, token.ETX},
		categories(toks))
}

func TestLonePipeIsAnError(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader("a | b")), lexer.DefaultOptions())
	_, err := l.Next() // STX
	require.NoError(t, err)
	_, err = l.Next() // identifier 'a'
	require.NoError(t, err)
	_, err = l.Next() // '|'
	require.Error(t, err)
}

func TestIntegerAndFloatLiterals(t *testing.T) {
	toks := lex(t, "12 3.5")
	require.Equal(t, token.IntLiteral, toks[1].Category)
	require.Equal(t, int64(12), toks[1].Value.Int)
	require.Equal(t, token.FloatLiteral, toks[2].Category)
	require.InDelta(t, 3.5, toks[2].Value.Float, 1e-9)
}

func TestLeadingZeroRejected(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader("01")), lexer.DefaultOptions())
	_, err := l.Next() // STX
	require.NoError(t, err)
	_, err = l.Next()
	require.Error(t, err)
}

func TestLeadingZeroAllowedInFraction(t *testing.T) {
	toks := lex(t, "1.05 0.01 3.09")
	require.Equal(t, token.FloatLiteral, toks[1].Category)
	require.InDelta(t, 1.05, toks[1].Value.Float, 1e-9)
	require.Equal(t, token.FloatLiteral, toks[2].Category)
	require.InDelta(t, 0.01, toks[2].Value.Float, 1e-9)
	require.Equal(t, token.FloatLiteral, toks[3].Category)
	require.InDelta(t, 3.09, toks[3].Value.Float, 1e-9)
}

func TestIntegerOverflowRejected(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader("99999999999999999999")), lexer.DefaultOptions())
	_, err := l.Next() // STX
	require.NoError(t, err)
	_, err = l.Next()
	require.Error(t, err)
}

func TestStringLiteralIsRawBytes(t *testing.T) {
	toks := lex(t, `"hello\nworld"`)
	require.Equal(t, token.StringLiteral, toks[1].Category)
	require.Equal(t, `hello\nworld`, toks[1].Value.String)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	l := lexer.New(source.New(strings.NewReader(`"unterminated`)), lexer.DefaultOptions())
	_, err := l.Next() // STX
	require.NoError(t, err)
	_, err = l.Next()
	require.Error(t, err)
}

func TestCommentIsEmittedAsToken(t *testing.T) {
	toks := lex(t, "# a comment\n1")
	require.Equal(t, token.Comment, toks[1].Category)
	require.Equal(t, token.IntLiteral, toks[2].Category)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := lex(t, "fn foo i64")
	require.Equal(t,
		[]token.Category{token.STX, token.KwFn, token.Identifier, token.KwI64, token.ETX},
		categories(toks))
	require.Equal(t, "foo", toks[2].Value.String)
}

func TestIdentifierTooLong(t *testing.T) {
	opts := lexer.Options{MaxIdentifierLength: 3, MaxCommentLength: 100}
	l := lexer.New(source.New(strings.NewReader("abcd")), opts)
	_, err := l.Next() // STX
	require.NoError(t, err)
	_, err = l.Next()
	require.Error(t, err)
}
