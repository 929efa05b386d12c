package stackmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopMainRoundTrip(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.PushMain(Variable{ID: 1, Size: 1}))
	require.NoError(t, m.PushMain(Variable{ID: 2, Size: 2}))
	require.Equal(t, 3, m.MainDepth())

	top, err := m.PopMain()
	require.NoError(t, err)
	require.Equal(t, Variable{ID: 2, Size: 2}, top)
	require.Equal(t, 1, m.MainDepth())
}

func TestPopEmptyIsError(t *testing.T) {
	t.Parallel()

	m := New()
	_, err := m.PopMain()
	require.ErrorIs(t, err, ErrPopEmpty)
	_, err = m.PopAlt()
	require.ErrorIs(t, err, ErrPopEmpty)
}

func TestRemoveVarIsSilentWhenMissing(t *testing.T) {
	t.Parallel()

	m := New()
	m.RemoveVar(999) // must not panic or error
	require.Empty(t, m.Main)
}

func TestNameDefaultsToUnknown(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.PushMain(Variable{ID: 1, Size: 1}))
	require.Equal(t, "unknown", m.Name(1))

	m.SetName(1, "foo")
	require.Equal(t, "foo", m.Name(1))

	m.RemoveName(1)
	require.Equal(t, "unknown", m.Name(1))
}

func TestReplayEquivalence(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.PushMain(Variable{ID: 1, Size: 1}))
	m.SetName(1, "a")
	require.NoError(t, m.PushMain(Variable{ID: 2, Size: 3}))
	m.SetName(2, "b")
	hBeforePop := m.Journal().Len()
	_, err := m.PopMain()
	require.NoError(t, err)

	replayed, err := Replay(m.Journal(), hBeforePop)
	require.NoError(t, err)
	require.Nil(t, replayed.Journal())

	want := &Model{
		Main:  []Variable{{ID: 1, Size: 1}, {ID: 2, Size: 3}},
		Alt:   nil,
		Names: map[VarID]string{1: "a", 2: "b"},
	}
	require.True(t, want.Equal(replayed))
}

func TestIncreaseDecreaseSize(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.PushMain(Variable{ID: 1, Size: 1}))
	require.NoError(t, m.PushMain(Variable{ID: 2, Size: 1}))

	require.NoError(t, m.IncreaseSize(0, 1))
	require.Equal(t, 2, m.Main[0].Size)

	require.NoError(t, m.DecreaseSize(2))
	require.Equal(t, 0, m.Main[1].Size)
}
