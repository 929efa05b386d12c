package adapter

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TaprootLeaf holds a single tapscript committed directly as its own
// taproot tree (no siblings), the minimal taproot output an adapter test
// needs to drive OP_CHECKSIG end to end through the real executor — adapted
// from pkg/arkade/sigvalidate.go's taprootSigVerifier, which this module
// never needs as a verifier (the real txscript.Engine already verifies
// OP_CHECKSIG internally); what it needs instead is the output-key/
// control-block construction that makes such a spend valid input in the
// first place.
type TaprootLeaf struct {
	InternalKey *btcec.PrivateKey
	OutputKey   *btcec.PublicKey
	Script      []byte
	ControlBlock []byte
}

// NewTaprootLeaf commits script as the sole leaf of a fresh single-leaf
// taproot tree under a throwaway internal key, and returns the control
// block a script-path witness needs to prove that commitment.
func NewTaprootLeaf(script []byte) (*TaprootLeaf, error) {
	internalKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generating internal key: %w", err)
	}

	leafHash := txscript.NewBaseTapLeaf(script).TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(internalKey.PubKey(), leafHash[:])

	ctrlByte := byte(txscript.BaseLeafVersion)
	if outputKey.SerializeCompressed()[0] == 0x03 {
		ctrlByte |= 1
	}
	controlBlock := append([]byte{ctrlByte}, schnorr.SerializePubKey(internalKey.PubKey())...)

	return &TaprootLeaf{
		InternalKey:  internalKey,
		OutputKey:    outputKey,
		Script:       script,
		ControlBlock: controlBlock,
	}, nil
}

// PkScript returns the segwit v1 witness program paying to the leaf's
// tweaked output key.
func (l *TaprootLeaf) PkScript() ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(schnorr.SerializePubKey(l.OutputKey)).
		Script()
}

// Witness assembles the script-path spend witness stack: the caller's
// already-constructed data-stack items, followed by the committed script
// and its control block, exactly the shape engine.go's verifyWitnessProgram
// expects (len(witness) > 1, control block last).
func (l *TaprootLeaf) Witness(stack ...[]byte) wire.TxWitness {
	w := make(wire.TxWitness, 0, len(stack)+2)
	w = append(w, stack...)
	w = append(w, l.Script, l.ControlBlock)
	return w
}

// SignCheckSig signs ctx's taproot sighash (SIGHASH_DEFAULT, key-spend-style
// hash as pkg/arkade/sigvalidate.go's taprootSigVerifier.Verify computes it)
// with priv, returning the raw 64-byte schnorr signature OP_CHECKSIG expects
// on the stack.
func SignCheckSig(priv *btcec.PrivateKey, ctx *Context) ([]byte, error) {
	sigHash, err := txscript.CalcTaprootSignatureHash(
		ctx.HashCache, txscript.SigHashDefault, ctx.Tx, 0, ctx.PrevOutFetcher,
	)
	if err != nil {
		return nil, fmt.Errorf("computing sighash: %w", err)
	}
	sig, err := schnorr.Sign(priv, sigHash)
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}
	return sig.Serialize(), nil
}
