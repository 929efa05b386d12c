package adapter

import (
	"errors"
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// ErrDone is returned by Step once the script has finished executing.
var ErrDone = errors.New("adapter: script execution already finished")

// Adapter drives a single compiled Script Fragment against a synthetic
// spending Context through the real btcsuite/btcd/txscript.Engine, stepping
// it one opcode at a time the way pkg/arkade/engine.go's Step/DisasmPC drive
// the teacher's forked copy of the same engine.
type Adapter struct {
	engine *txscript.Engine
	done   bool
	prev   *StepResult
}

// New constructs an Adapter executing script against ctx, with
// initialStack (bottom-to-top) pre-loaded onto the data stack before the
// first Step.
func New(ctx *Context, script scriptfrag.Fragment, initialStack [][]byte) (*Adapter, error) {
	engine, err := txscript.NewEngine(
		script.Bytes(), ctx.Tx, 0, execFlags,
		ctx.SigCache, ctx.HashCache, ctx.InputAmount, ctx.PrevOutFetcher,
	)
	if err != nil {
		return nil, fmt.Errorf("constructing executor: %w", err)
	}
	if len(initialStack) > 0 {
		engine.SetStack(initialStack)
	}
	return &Adapter{engine: engine}, nil
}

// NewTaprootSpend constructs an Adapter for a genuine script-path taproot
// spend: ctx's previous output is rewritten to leaf's witness program and
// its input witness to leaf.Witness(stack...), so the real executor derives
// the script to run from the witness itself (pkg/arkade/engine.go's
// verifyWitnessProgram) rather than from an explicit scriptPubKey argument.
// This is the path an OP_CHECKSIG-bearing fragment needs; every other
// fragment uses the simpler New.
func NewTaprootSpend(ctx *Context, leaf *TaprootLeaf, stack ...[]byte) (*Adapter, error) {
	pkScript, err := leaf.PkScript()
	if err != nil {
		return nil, fmt.Errorf("building witness program: %w", err)
	}
	ctx.PrevOut.PkScript = pkScript
	ctx.Tx.TxIn[0].Witness = leaf.Witness(stack...)
	ctx.HashCache = txscript.NewTxSigHashes(ctx.Tx, ctx.PrevOutFetcher)

	engine, err := txscript.NewEngine(
		pkScript, ctx.Tx, 0, execFlags,
		ctx.SigCache, ctx.HashCache, ctx.InputAmount, ctx.PrevOutFetcher,
	)
	if err != nil {
		return nil, fmt.Errorf("constructing executor: %w", err)
	}
	return &Adapter{engine: engine}, nil
}

// Step executes the next instruction and returns an annotated snapshot of
// the resulting machine state, diffed against the previous Step's snapshot.
// Once the script has finished, Step returns ErrDone.
func (a *Adapter) Step() (*StepResult, error) {
	if a.done {
		return nil, ErrDone
	}

	disasm, disasmErr := a.engine.DisasmPC()

	done, err := a.engine.Step()
	res := &StepResult{
		Disasm:   disasm,
		Stack:    hexStack(a.engine.GetStack()),
		AltStack: hexStack(a.engine.GetAltStack()),
		Done:     done,
	}
	if disasmErr != nil {
		res.Disasm = ""
	}
	if a.prev != nil {
		res.PrevStack = a.prev.Stack
		res.PrevAltStack = a.prev.AltStack
	}
	a.prev = res

	if err != nil {
		a.done = true
		res.Err = err
		return res, err
	}
	if done {
		a.done = true
		res.Err = a.engine.CheckErrorCondition(true)
	}
	return res, nil
}

// Run steps the script to completion, returning every StepResult in order.
// A failing opcode stops iteration and is returned as the trailing error.
func (a *Adapter) Run() ([]*StepResult, error) {
	var out []*StepResult
	for {
		res, err := a.Step()
		if errors.Is(err, ErrDone) {
			return out, nil
		}
		out = append(out, res)
		if err != nil {
			return out, err
		}
		if res.Done {
			return out, res.Err
		}
	}
}

// GetStack returns the current data stack, bottom to top.
func (a *Adapter) GetStack() [][]byte {
	return a.engine.GetStack()
}

// GetAltStack returns the current alt stack, bottom to top.
func (a *Adapter) GetAltStack() [][]byte {
	return a.engine.GetAltStack()
}

// Disassemble returns the disassembly of the script at the given index, the
// same passthrough the teacher's DisasmScript offers for debugging.
func (a *Adapter) Disassemble(scriptIndex int) (string, error) {
	return a.engine.DisasmScript(scriptIndex)
}

func hexStack(stk [][]byte) []string {
	if stk == nil {
		return nil
	}
	out := make([]string, len(stk))
	for i, item := range stk {
		out[i] = fmt.Sprintf("%x", item)
	}
	return out
}
