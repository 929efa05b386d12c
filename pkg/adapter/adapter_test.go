package adapter

import (
	"testing"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

func TestAdapterRunsAdditionDirectly(t *testing.T) {
	script := scriptfrag.FromInteger(2).
		Append(scriptfrag.FromInteger(3)).
		Append(scriptfrag.FromOpcode(txscript.OP_ADD))

	ad, err := New(NewContext(nil), script, nil)
	require.NoError(t, err)

	results, err := ad.Run()
	require.NoError(t, err)
	require.NotEmpty(t, results)

	last := results[len(results)-1]
	require.True(t, last.Done)
	require.Len(t, last.Stack, 1)
	require.Equal(t, "05", last.Stack[0])
}

func TestAdapterStepDiffsPushedItem(t *testing.T) {
	script := scriptfrag.FromInteger(7)

	ad, err := New(NewContext(nil), script, nil)
	require.NoError(t, err)

	res, err := ad.Step()
	require.NoError(t, err)
	require.Equal(t, []string{"07"}, res.PushedToMain())
	require.Empty(t, res.PoppedFromMain())
}

func TestAdapterFailsOnUnsatisfiedVerify(t *testing.T) {
	script := scriptfrag.FromInteger(0).
		Append(scriptfrag.FromOpcode(txscript.OP_VERIFY))

	ad, err := New(NewContext(nil), script, nil)
	require.NoError(t, err)

	_, err = ad.Run()
	require.Error(t, err)
}

func TestTaprootCheckSigEndToEnd(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	script, err := txscript.NewScriptBuilder().
		AddData(priv.PubKey().SerializeCompressed()[1:]).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	leaf, err := NewTaprootLeaf(script)
	require.NoError(t, err)

	ctx := NewContext(nil)
	sig, err := SignCheckSig(priv, ctx)
	require.NoError(t, err)

	ad, err := NewTaprootSpend(ctx, leaf, sig)
	require.NoError(t, err)

	results, err := ad.Run()
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Nil(t, results[len(results)-1].Err)
}
