package scriptfrag

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

func TestFromIntegerMinimalEncoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{txscript.OP_0}},
		{1, []byte{txscript.OP_1}},
		{16, []byte{txscript.OP_16}},
		{-1, []byte{txscript.OP_1NEGATE}},
		{17, []byte{0x01, 0x11}},
	}
	for _, tc := range cases {
		got := FromInteger(tc.n).Bytes()
		require.Equal(t, tc.want, got, "n=%d", tc.n)
	}
}

func TestAppendConcatenatesWithoutMutatingOperands(t *testing.T) {
	t.Parallel()

	a := FromOpcode(txscript.OP_DUP)
	b := FromOpcode(txscript.OP_ADD)
	joined := a.Append(b)

	require.Equal(t, []byte{txscript.OP_DUP, txscript.OP_ADD}, joined.Bytes())
	require.Equal(t, []byte{txscript.OP_DUP}, a.Bytes())
	require.Equal(t, []byte{txscript.OP_ADD}, b.Bytes())
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	script, err := txscript.NewScriptBuilder().
		AddInt64(2).
		AddData([]byte{0xde, 0xad}).
		AddOp(txscript.OP_ADD).
		Script()
	require.NoError(t, err)

	frag := FromRawBytes(script)
	instrs, err := frag.Decode()
	require.NoError(t, err)
	require.Len(t, instrs, 3)
	require.True(t, instrs[1].IsPush())
	require.Equal(t, []byte{0xde, 0xad}, instrs[1].Data)
	require.False(t, instrs[2].IsPush())
	require.Equal(t, byte(txscript.OP_ADD), instrs[2].Op)

	reencoded, err := Encode(instrs)
	require.NoError(t, err)
	require.Equal(t, frag.Bytes(), reencoded.Bytes())
}

func TestEmptyFragment(t *testing.T) {
	t.Parallel()

	f := Empty()
	require.Equal(t, 0, f.Len())
	require.Empty(t, f.Bytes())
}
