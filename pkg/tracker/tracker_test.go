package tracker

import (
	"testing"

	"github.com/ArkLabsHQ/tapstack/pkg/stackmodel"
	"github.com/stretchr/testify/require"
)

// assertNoSharedIDs fails the test if any variable id is present on both
// main and alt simultaneously (invariant 5).
func assertNoSharedIDs(t *testing.T, tr *Tracker) {
	t.Helper()
	onMain := make(map[stackmodel.VarID]bool)
	for _, v := range tr.Model().Main {
		onMain[v.ID] = true
	}
	for _, v := range tr.Model().Alt {
		require.Falsef(t, onMain[v.ID], "variable %d present on both main and alt", v.ID)
	}
}

func TestS1EqualVerify(t *testing.T) {
	tr := New()
	one, err := tr.Number(1)
	require.NoError(t, err)
	ten, err := tr.Number(10)
	require.NoError(t, err)

	// "copy the first": duplicate the 10 just pushed, giving two equal
	// size-1 variables adjacent at the top of main.
	copyOfTen, err := tr.CopyVar(ten)
	require.NoError(t, err)

	// Equals consumes both operands: the copy on top is absorbed in place,
	// and the original 10 just beneath it is brought up with 1 OP_ROLL.
	require.NoError(t, tr.Equals(ten, true, copyOfTen, true))

	trueVar, err := tr.OpTrue()
	require.NoError(t, err)

	require.Equal(t, 2, tr.Model().MainDepth()) // [1, true]
	top, err := tr.GetVarFromStack(0)
	require.NoError(t, err)
	require.Equal(t, trueVar.ID, top.ID)
	second, err := tr.GetVarFromStack(1)
	require.NoError(t, err)
	require.Equal(t, one.ID, second.ID)
}

func TestS2AltRoundTrip(t *testing.T) {
	tr := New()
	_, err := tr.Number(1)
	require.NoError(t, err)
	_, err = tr.Number(10)
	require.NoError(t, err)
	five, err := tr.Number(5)
	require.NoError(t, err)
	a, err := tr.Number(3)
	require.NoError(t, err)
	b, err := tr.Number(3)
	require.NoError(t, err)
	c, err := tr.Number(3)
	require.NoError(t, err)

	require.NoError(t, tr.Equals(b, true, c, true))

	sum, err := tr.OpAdd()
	require.NoError(t, err)
	_ = sum

	v1, err := tr.ToAltStack()
	require.NoError(t, err)
	v2, err := tr.ToAltStack()
	require.NoError(t, err)
	assertNoSharedIDs(t, tr)

	_, err = tr.FromAltStack()
	require.NoError(t, err)
	_, err = tr.FromAltStack()
	require.NoError(t, err)

	require.NoError(t, tr.Op2Drop())

	require.Equal(t, 1, tr.Model().MainDepth())
	_ = five
	_ = a
	_ = v1
	_ = v2
}

func TestS6ExplodeAndMove(t *testing.T) {
	tr := New()
	v, err := tr.NumberU32(0xdeadbeaf)
	require.NoError(t, err)
	require.Equal(t, 8, v.Size)

	nibbles, err := tr.Explode(v)
	require.NoError(t, err)
	require.Len(t, nibbles, 8)

	// Pushes go high-to-low: d e a d b e a f, so index 0 (bottom) is 'd'
	// and index 2 is 'a' — the third nibble from the bottom.
	third := nibbles[2]
	require.Equal(t, "number_u32(0xdeadbeaf)[2]", tr.Model().Name(third.ID))

	moved, err := tr.MoveVar(third)
	require.NoError(t, err)

	expected, err := tr.HexStr("0a")
	require.NoError(t, err)

	require.NoError(t, tr.Equals(moved, true, expected, true))
}

func TestMoveVarIdempotentOnTop(t *testing.T) {
	tr := New()
	v, err := tr.Number(42)
	require.NoError(t, err)

	before := tr.Program().Len()
	moved, err := tr.MoveVar(v)
	require.NoError(t, err)
	require.Equal(t, v, moved)
	require.Equal(t, before, tr.Program().Len(), "move_var on an already-top variable must emit no bytes")
}

func TestDropRequiresTopOfMain(t *testing.T) {
	tr := New()
	a, err := tr.Number(1)
	require.NoError(t, err)
	_, err = tr.Number(2)
	require.NoError(t, err)

	err = tr.Drop(a)
	require.ErrorIs(t, err, ErrNotTopOfMain)
}

func TestJoinRefusesTopVariable(t *testing.T) {
	tr := New()
	v, err := tr.Number(1)
	require.NoError(t, err)

	_, err = tr.Join(v)
	require.ErrorIs(t, err, ErrAlreadyTop)
}

func TestEqualsRejectsMismatchedSizeOrIdentity(t *testing.T) {
	tr := New()
	a, err := tr.Number(1)
	require.NoError(t, err)
	b, err := tr.NumberU32(7)
	require.NoError(t, err)

	require.ErrorIs(t, tr.Equals(a, true, b, true), ErrSizeMismatch)
	require.ErrorIs(t, tr.Equals(a, true, a, true), ErrSameVariable)
}

func TestRefusedOpcodes(t *testing.T) {
	tr := New()
	require.ErrorIs(t, tr.OpIfDup(), ErrRefusedOpcode)
	require.ErrorIs(t, tr.OpRoll(), ErrRefusedOpcode)
}

func TestReplayEveryHistoryEntryMatchesPreMutationModel(t *testing.T) {
	tr := New()
	var before []*stackmodel.Model
	snapshot := func() { before = append(before, tr.Model().Clone()) }

	snapshot()
	_, err := tr.Number(1)
	require.NoError(t, err)
	snapshot()
	_, err = tr.Number(2)
	require.NoError(t, err)
	snapshot()
	_, err = tr.Number(3)
	require.NoError(t, err)
	snapshot()
	top, err := tr.Dup()
	require.NoError(t, err)
	snapshot()
	require.NoError(t, tr.Drop(top))

	require.Len(t, tr.History(), len(before))
	for k, h := range tr.History() {
		replayed, err := stackmodel.Replay(tr.Model().Journal(), h)
		require.NoError(t, err)
		require.Truef(t, before[k].Equal(replayed), "replay of history[%d] differs from the model before fragment %d", k, k)
	}
}

func TestOpenIfEndIfRoundTrip(t *testing.T) {
	tr := New()
	_, err := tr.Number(1) // branch selector
	require.NoError(t, err)

	trueT, falseT, err := tr.OpenIf()
	require.NoError(t, err)

	tv, err := trueT.Number(10)
	require.NoError(t, err)
	_ = tv
	fv, err := falseT.Number(20)
	require.NoError(t, err)
	_ = fv

	out, err := tr.EndIf(trueT, falseT, 0, []VarSpec{{Size: 1, Name: "branch_result"}}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].Size)
}

func TestCustomEscapeHatchAppliesDeclaredAccounting(t *testing.T) {
	tr := New()
	a, err := tr.Number(1)
	require.NoError(t, err)
	_ = a

	out, err := tr.Custom(tr.Program(), 1, []VarSpec{{Size: 2, Name: "custom_out"}}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 2, out[0].Size)
	require.Equal(t, 1, len(tr.Model().Alt))
}

func TestBreakpoints(t *testing.T) {
	tr := New()
	_, err := tr.Number(1)
	require.NoError(t, err)
	tr.SetBreakpoint("after_one")
	_, err = tr.Number(2)
	require.NoError(t, err)
	tr.SetBreakpoint("after_two")

	pos, err := tr.BreakpointAt("after_one")
	require.NoError(t, err)

	next, ok := tr.GetNextBreakpoint(pos)
	require.True(t, ok)
	require.Equal(t, "after_two", next.Name)

	prev, ok := tr.GetPrevBreakpoint(next.ScriptIndex)
	require.True(t, ok)
	require.Equal(t, "after_one", prev.Name)

	_, err = tr.BreakpointAt("does_not_exist")
	require.ErrorIs(t, err, ErrUnknownBreakpoint)
}

func TestCeilingExceededLatches(t *testing.T) {
	tr := NewWithCeiling(2)
	require.False(t, tr.CeilingExceeded())

	_, err := tr.Number(1)
	require.NoError(t, err)
	require.False(t, tr.CeilingExceeded())

	_, err = tr.Number(2)
	require.NoError(t, err)
	three, err := tr.Number(3)
	require.NoError(t, err)
	require.True(t, tr.CeilingExceeded())

	// Back under the ceiling, the flag stays set.
	require.NoError(t, tr.Drop(three))
	require.Equal(t, 2, tr.Model().MainDepth())
	require.True(t, tr.CeilingExceeded())
}
