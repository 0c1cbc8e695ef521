package alu_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/alu"
	"github.com/misat1505/tkom-sub000/internal/value"
)

func TestAddAcrossKinds(t *testing.T) {
	v, err := alu.Add(value.NewI64(2), value.NewI64(3))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.I64())

	v, err = alu.Add(value.NewStr("foo"), value.NewStr("bar"))
	require.NoError(t, err)
	require.Equal(t, "foobar", v.Str())

	_, err = alu.Add(value.NewI64(1), value.NewStr("x"))
	require.Error(t, err)
}

func TestIntAdditionOverflows(t *testing.T) {
	_, err := alu.Add(value.NewI64(math.MaxInt64), value.NewI64(1))
	require.Error(t, err)
}

func TestIntDivisionByZero(t *testing.T) {
	_, err := alu.Div(value.NewI64(1), value.NewI64(0))
	require.Error(t, err)
}

func TestModByZeroIsAnError(t *testing.T) {
	_, err := alu.Mod(value.NewI64(7), value.NewI64(0))
	require.Error(t, err)
}

func TestMod(t *testing.T) {
	v, err := alu.Mod(value.NewI64(7), value.NewI64(3))
	require.NoError(t, err)
	require.Equal(t, int64(1), v.I64())
}

func TestAndOrAreBoolOnly(t *testing.T) {
	v, err := alu.And(value.NewBool(true), value.NewBool(false))
	require.NoError(t, err)
	require.False(t, v.BoolVal())

	v, err = alu.Or(value.NewBool(true), value.NewBool(false))
	require.NoError(t, err)
	require.True(t, v.BoolVal())

	_, err = alu.And(value.NewI64(1), value.NewBool(true))
	require.Error(t, err)
}

func TestComparisonsRequireSameOrderedKind(t *testing.T) {
	v, err := alu.Greater(value.NewI64(3), value.NewI64(2))
	require.NoError(t, err)
	require.True(t, v.BoolVal())

	_, err = alu.Greater(value.NewStr("a"), value.NewStr("b"))
	require.Error(t, err)
}

func TestComparisonsOfLargeI64DoNotLosePrecisionToFloat(t *testing.T) {
	v, err := alu.Greater(value.NewI64(9007199254740993), value.NewI64(9007199254740992))
	require.NoError(t, err)
	require.True(t, v.BoolVal())

	v, err = alu.Less(value.NewI64(9007199254740992), value.NewI64(9007199254740993))
	require.NoError(t, err)
	require.True(t, v.BoolVal())
}

func TestEqualAcceptsAllFourKinds(t *testing.T) {
	cases := []struct {
		a, b value.Value
	}{
		{value.NewI64(1), value.NewI64(1)},
		{value.NewF64(1.5), value.NewF64(1.5)},
		{value.NewStr("x"), value.NewStr("x")},
		{value.NewBool(true), value.NewBool(true)},
	}
	for _, c := range cases {
		v, err := alu.Equal(c.a, c.b)
		require.NoError(t, err)
		require.True(t, v.BoolVal())
	}
	_, err := alu.Equal(value.NewI64(1), value.NewStr("1"))
	require.Error(t, err)
}

func TestArithmeticNegateOverflow(t *testing.T) {
	_, err := alu.ArithmeticNegate(value.NewI64(math.MinInt64))
	require.Error(t, err)

	v, err := alu.ArithmeticNegate(value.NewI64(5))
	require.NoError(t, err)
	require.Equal(t, int64(-5), v.I64())
}

func TestCastRules(t *testing.T) {
	v, err := alu.CastTo(value.NewI64(42), value.Str)
	require.NoError(t, err)
	require.Equal(t, "42", v.Str())

	v, err = alu.CastTo(value.NewStr("3"), value.I64)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.I64())

	v, err = alu.CastTo(value.NewStr(""), value.Bool)
	require.NoError(t, err)
	require.False(t, v.BoolVal())

	_, err = alu.CastTo(value.NewStr("not-a-number"), value.I64)
	require.Error(t, err)
}
