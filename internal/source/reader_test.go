package source_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/position"
	"github.com/misat1505/tkom-sub000/internal/source"
)

func TestReaderStartsAtSTX(t *testing.T) {
	r := source.New(strings.NewReader("ab"))
	require.Equal(t, position.STX, r.Current())
}

func TestReaderAdvancesOverAsciiText(t *testing.T) {
	r := source.New(strings.NewReader("ab"))

	c, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, 'a', c)
	require.Equal(t, position.Position{Line: 1, Column: 1, Offset: 0}, r.Position())

	c, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, 'b', c)
	require.Equal(t, position.Position{Line: 1, Column: 2, Offset: 1}, r.Position())

	c, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, position.ETX, c)
}

func TestReaderNormalizesNewlines(t *testing.T) {
	for _, seq := range []string{"\n", "\r", "\r\n", "\n\r"} {
		r := source.New(strings.NewReader("a" + seq + "b"))
		_, err := r.Next() // 'a'
		require.NoError(t, err)
		c, err := r.Next()
		require.NoError(t, err)
		require.Equal(t, '\n', c, "sequence %q should normalize to a single newline", seq)
		c, err = r.Next()
		require.NoError(t, err)
		require.Equal(t, 'b', c)
		require.Equal(t, 2, r.Position().Line)
		require.Equal(t, 1, r.Position().Column)
	}
}

func TestReaderETXIsSticky(t *testing.T) {
	r := source.New(strings.NewReader(""))
	for i := 0; i < 3; i++ {
		c, err := r.Next()
		require.NoError(t, err)
		require.Equal(t, position.ETX, c)
	}
}
