// Package adapter is the Execution Adapter: it bridges a compiled Script
// Fragment to the real external Script executor, github.com/btcsuite/btcd/
// txscript, which spec.md treats as out of scope to reimplement.
package adapter

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// execFlags is the flag combination engine_test.go exercises throughout the
// teacher's own taproot-only fork: standard verification restricted to the
// taproot/tapscript rule set.
const execFlags = txscript.StandardVerifyFlags & txscript.ScriptVerifyTaproot

// defaultInputAmount is an arbitrary nonzero value satisfying the sighash
// cache's amount-commitment requirement; no invariant in this module depends
// on its magnitude.
const defaultInputAmount = 100_000_000

// Context is a synthetic, single-input spending context for driving a
// compiled Script Fragment through the real executor. It mirrors
// asset_opcodes_test.go's makeTestTx/newAssetTestEngine fixtures: one input
// at a zero previous outpoint, version 2, zero locktime, no annex, no
// scriptSig.
type Context struct {
	Tx             *wire.MsgTx
	PrevOut        *wire.TxOut
	PrevOutFetcher txscript.PrevOutputFetcher
	SigCache       *txscript.SigCache
	HashCache      *txscript.TxSigHashes
	InputAmount    int64
}

// NewContext builds a default Context whose previous output's PkScript is
// pkScript. Fragments that never reach an opcode needing a real previous
// output (the overwhelming majority — every opcode in spec.md's table bar
// OP_CHECKSIG) can pass nil.
func NewContext(pkScript []byte) *Context {
	tx := &wire.MsgTx{
		Version: 2,
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{}, Index: 0},
		}},
		TxOut:    []*wire.TxOut{{Value: defaultInputAmount}},
		LockTime: 0,
	}

	prevOut := &wire.TxOut{Value: defaultInputAmount, PkScript: pkScript}
	fetcher := txscript.NewMultiPrevOutFetcher(map[wire.OutPoint]*wire.TxOut{
		tx.TxIn[0].PreviousOutPoint: prevOut,
	})

	return &Context{
		Tx:             tx,
		PrevOut:        prevOut,
		PrevOutFetcher: fetcher,
		SigCache:       txscript.NewSigCache(100),
		HashCache:      txscript.NewTxSigHashes(tx, fetcher),
		InputAmount:    defaultInputAmount,
	}
}
