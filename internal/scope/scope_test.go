package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/misat1505/tkom-sub000/internal/scope"
	"github.com/misat1505/tkom-sub000/internal/value"
)

func TestDeclareThenGet(t *testing.T) {
	m := scope.NewScopeManager()
	require.NoError(t, m.Declare("x", scope.NewCell(value.NewI64(1))))
	cell, err := m.Get("x")
	require.NoError(t, err)
	require.Equal(t, int64(1), cell.Get().I64())
}

func TestRedeclareInSameScopeFails(t *testing.T) {
	m := scope.NewScopeManager()
	require.NoError(t, m.Declare("x", scope.NewCell(value.NewI64(1))))
	require.Error(t, m.Declare("x", scope.NewCell(value.NewI64(2))))
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	m := scope.NewScopeManager()
	require.NoError(t, m.Declare("x", scope.NewCell(value.NewI64(1))))
	m.PushScope()
	require.NoError(t, m.Declare("x", scope.NewCell(value.NewI64(2))))
	cell, err := m.Get("x")
	require.NoError(t, err)
	require.Equal(t, int64(2), cell.Get().I64())
	m.PopScope()
	cell, err = m.Get("x")
	require.NoError(t, err)
	require.Equal(t, int64(1), cell.Get().I64())
}

func TestAssignRequiresMatchingKind(t *testing.T) {
	m := scope.NewScopeManager()
	require.NoError(t, m.Declare("x", scope.NewCell(value.NewI64(1))))
	require.NoError(t, m.Assign("x", value.NewI64(5)))
	require.Error(t, m.Assign("x", value.NewStr("nope")))
}

func TestAssignPreservesCellIdentity(t *testing.T) {
	m := scope.NewScopeManager()
	cell := scope.NewCell(value.NewI64(1))
	require.NoError(t, m.Declare("x", cell))
	require.NoError(t, m.Assign("x", value.NewI64(9)))
	require.Equal(t, int64(9), cell.Get().I64())
}

func TestStackPushFrameOverflowsAt500(t *testing.T) {
	s := scope.NewStack()
	for i := 1; i < scope.MaxFrames; i++ {
		require.NoError(t, s.PushFrame(), "frame %d should succeed", i)
	}
	require.Error(t, s.PushFrame())
}

func TestStackScopesDoNotCrossFrames(t *testing.T) {
	s := scope.NewStack()
	require.NoError(t, s.Declare("x", scope.NewCell(value.NewI64(1))))
	require.NoError(t, s.PushFrame())
	_, err := s.Get("x")
	require.Error(t, err, "a new frame must not see the caller's locals")
	s.PopFrame()
	_, err = s.Get("x")
	require.NoError(t, err)
}
