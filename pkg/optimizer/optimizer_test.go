package optimizer

import (
	"fmt"
	"testing"

	"github.com/ArkLabsHQ/tapstack/pkg/adapter"
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

func decodeOrFail(t *testing.T, frag scriptfrag.Fragment) []scriptfrag.Instruction {
	t.Helper()
	instrs, err := frag.Decode()
	require.NoError(t, err)
	return instrs
}

func TestS3DupRunCollapse(t *testing.T) {
	var frag scriptfrag.Fragment
	for i := 0; i < 6; i++ {
		frag = frag.Append(scriptfrag.FromInteger(0))
	}

	got := decodeOrFail(t, Optimize(frag))

	// A run of 6 identical pushes has 5 successors behind the anchor;
	// dupSequenceTable[5] = {1,2,2}, which reproduces a final depth of 6
	// (1 anchor + 2dup's worth of 1+2+2 = 5 more), matching the
	// un-optimized script's depth exactly.
	want := []scriptfrag.Instruction{
		{Op: txscript.OP_0},
		{Op: txscript.OP_DUP},
		{Op: txscript.OP_2DUP},
		{Op: txscript.OP_2DUP},
	}
	require.Equal(t, want, got)
}

func TestS4RollTwoBecomesRot(t *testing.T) {
	frag := scriptfrag.FromInteger(1).
		Append(scriptfrag.FromInteger(20)).
		Append(scriptfrag.FromInteger(2)).
		Append(scriptfrag.FromOpcode(txscript.OP_ROLL))

	got := decodeOrFail(t, Optimize(frag))

	want := decodeOrFail(t, scriptfrag.FromInteger(1).
		Append(scriptfrag.FromInteger(20)).
		Append(scriptfrag.FromOpcode(txscript.OP_ROT)))
	require.Equal(t, want, got)
}

func TestS5AltCancelDeletesBoth(t *testing.T) {
	frag := scriptfrag.FromOpcode(txscript.OP_TOALTSTACK).
		Append(scriptfrag.FromOpcode(txscript.OP_FROMALTSTACK))

	got, err := Optimize(frag).Decode()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestPickZeroBecomesDup(t *testing.T) {
	frag := scriptfrag.FromInteger(0).Append(scriptfrag.FromOpcode(txscript.OP_PICK))
	got := decodeOrFail(t, Optimize(frag))
	require.Equal(t, []scriptfrag.Instruction{{Op: txscript.OP_DUP}}, got)
}

func TestPickOneBecomesOver(t *testing.T) {
	frag := scriptfrag.FromInteger(1).Append(scriptfrag.FromOpcode(txscript.OP_PICK))
	got := decodeOrFail(t, Optimize(frag))
	require.Equal(t, []scriptfrag.Instruction{{Op: txscript.OP_OVER}}, got)
}

func TestRollZeroIsIdentityDeleted(t *testing.T) {
	frag := scriptfrag.FromInteger(0).Append(scriptfrag.FromOpcode(txscript.OP_ROLL))
	got, err := Optimize(frag).Decode()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRunOfTwoDoesNotCollapse(t *testing.T) {
	frag := scriptfrag.FromInteger(7).Append(scriptfrag.FromInteger(7))
	got := decodeOrFail(t, Optimize(frag))
	require.Len(t, got, 2)
}

func TestDupRunCollapseCanBeDisabled(t *testing.T) {
	var frag scriptfrag.Fragment
	for i := 0; i < 6; i++ {
		frag = frag.Append(scriptfrag.FromInteger(0))
	}

	got := decodeOrFail(t, OptimizeRules(frag, false))
	require.Len(t, got, 6)
}

// TestDupRunCollapsePreservesExecutionStack runs a run-of-N identical
// pushes both unoptimized and through Optimize against the real
// txscript.Engine via pkg/adapter, and requires the two final stacks match.
// This is the guarantee pkg/optimizer's doc comment makes ("It never
// changes execution semantics") and spec.md's testable property #4 — an
// instruction-list equality check against a hand-written expectation, as
// TestS3DupRunCollapse does, cannot catch an optimizer bug that is itself
// baked into the hand-written expectation, only a real execution can.
func TestDupRunCollapsePreservesExecutionStack(t *testing.T) {
	for _, n := range []int{4, 5, 6, 7, 9, 16} {
		n := n
		t.Run(fmt.Sprintf("run-of-%d", n), func(t *testing.T) {
			var frag scriptfrag.Fragment
			for i := 0; i < n; i++ {
				frag = frag.Append(scriptfrag.FromInteger(9))
			}
			optimized := Optimize(frag)

			before, err := adapter.New(adapter.NewContext(nil), frag, nil)
			require.NoError(t, err)
			beforeResults, err := before.Run()
			require.NoError(t, err)
			require.Nil(t, beforeResults[len(beforeResults)-1].Err)

			after, err := adapter.New(adapter.NewContext(nil), optimized, nil)
			require.NoError(t, err)
			afterResults, err := after.Run()
			require.NoError(t, err)
			require.Nil(t, afterResults[len(afterResults)-1].Err)

			require.Equal(t, before.GetStack(), after.GetStack())
		})
	}
}

func TestMalformedFragmentReturnedUnmodified(t *testing.T) {
	bad := scriptfrag.FromRawBytes([]byte{0x4c, 0x05, 0x01, 0x02}) // OP_PUSHDATA1 claims 5 bytes, has 2
	got := Optimize(bad)
	require.Equal(t, bad.Bytes(), got.Bytes())
}
