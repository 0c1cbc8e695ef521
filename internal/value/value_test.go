package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/value"
)

func TestDefaultValues(t *testing.T) {
	v, ok := value.Default(value.I64)
	require.True(t, ok)
	require.Equal(t, int64(0), v.I64())

	v, ok = value.Default(value.Str)
	require.True(t, ok)
	require.Equal(t, "", v.Str())

	_, ok = value.Default(value.Void)
	require.False(t, ok)
}

func TestTryBoolOnlyAcceptsBool(t *testing.T) {
	b, ok := value.NewBool(true).TryBool()
	require.True(t, ok)
	require.True(t, b)

	_, ok = value.NewI64(1).TryBool()
	require.False(t, ok)
}
