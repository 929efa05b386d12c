package tracker

import (
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// popN pops n variables from main, returning them in pop order (first
// popped = previous top).
func (t *Tracker) popN(n int) ([]Variable, error) {
	out := make([]Variable, n)
	for i := 0; i < n; i++ {
		v, err := t.model.PopMain()
		if err != nil {
			return nil, err
		}
		t.model.RemoveVar(v.ID)
		out[i] = v
	}
	return out, nil
}

// requireUnitSize returns ErrNonUnitSize if any of vs is not a size-1
// variable. Several raw opcode wrappers (swap, rot, dup, tuck, ...) only
// make sense on single concrete stack slots.
func requireUnitSize(vs ...Variable) error {
	for _, v := range vs {
		if v.Size != 1 {
			return ErrNonUnitSize
		}
	}
	return nil
}

// opcodeVerb implements the generic "consume c, emit op, optionally produce
// one size-1 output named opName()" shape shared by most wrapper opcodes.
func (t *Tracker) opcodeVerb(opName string, op byte, consume int, produceOutput bool) (Variable, error) {
	h := t.begin()
	if _, err := t.popN(consume); err != nil {
		return Variable{}, err
	}
	if !produceOutput {
		t.commit(h, scriptfrag.FromOpcode(op))
		return Variable{}, nil
	}
	out := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(out); err != nil {
		return Variable{}, err
	}
	t.model.SetName(out.ID, fmt.Sprintf("%s()", opName))
	t.commit(h, scriptfrag.FromOpcode(op))
	return out, nil
}

// Arithmetic unary opcodes: pop 1, push 1.
func (t *Tracker) OpNegate() (Variable, error)      { return t.opcodeVerb("OP_NEGATE", txscript.OP_NEGATE, 1, true) }
func (t *Tracker) OpAbs() (Variable, error)         { return t.opcodeVerb("OP_ABS", txscript.OP_ABS, 1, true) }
func (t *Tracker) Op1Add() (Variable, error)        { return t.opcodeVerb("OP_1ADD", txscript.OP_1ADD, 1, true) }
func (t *Tracker) Op1Sub() (Variable, error)        { return t.opcodeVerb("OP_1SUB", txscript.OP_1SUB, 1, true) }
func (t *Tracker) OpNot() (Variable, error)         { return t.opcodeVerb("OP_NOT", txscript.OP_NOT, 1, true) }
func (t *Tracker) Op0NotEqual() (Variable, error)   { return t.opcodeVerb("OP_0NOTEQUAL", txscript.OP_0NOTEQUAL, 1, true) }

// Arithmetic binary opcodes: pop 2, push 1.
func (t *Tracker) OpAdd() (Variable, error) { return t.opcodeVerb("OP_ADD", txscript.OP_ADD, 2, true) }
func (t *Tracker) OpSub() (Variable, error) { return t.opcodeVerb("OP_SUB", txscript.OP_SUB, 2, true) }
func (t *Tracker) OpMin() (Variable, error) { return t.opcodeVerb("OP_MIN", txscript.OP_MIN, 2, true) }
func (t *Tracker) OpMax() (Variable, error) { return t.opcodeVerb("OP_MAX", txscript.OP_MAX, 2, true) }
func (t *Tracker) OpBoolAnd() (Variable, error) {
	return t.opcodeVerb("OP_BOOLAND", txscript.OP_BOOLAND, 2, true)
}
func (t *Tracker) OpBoolOr() (Variable, error) {
	return t.opcodeVerb("OP_BOOLOR", txscript.OP_BOOLOR, 2, true)
}
func (t *Tracker) OpEqual() (Variable, error) { return t.opcodeVerb("OP_EQUAL", txscript.OP_EQUAL, 2, true) }
func (t *Tracker) OpNumEqual() (Variable, error) {
	return t.opcodeVerb("OP_NUMEQUAL", txscript.OP_NUMEQUAL, 2, true)
}
func (t *Tracker) OpNumNotEqual() (Variable, error) {
	return t.opcodeVerb("OP_NUMNOTEQUAL", txscript.OP_NUMNOTEQUAL, 2, true)
}
func (t *Tracker) OpLessThan() (Variable, error) {
	return t.opcodeVerb("OP_LESSTHAN", txscript.OP_LESSTHAN, 2, true)
}
func (t *Tracker) OpLessThanOrEqual() (Variable, error) {
	return t.opcodeVerb("OP_LESSTHANOREQUAL", txscript.OP_LESSTHANOREQUAL, 2, true)
}
func (t *Tracker) OpGreaterThan() (Variable, error) {
	return t.opcodeVerb("OP_GREATERTHAN", txscript.OP_GREATERTHAN, 2, true)
}
func (t *Tracker) OpGreaterThanOrEqual() (Variable, error) {
	return t.opcodeVerb("OP_GREATERTHANOREQUAL", txscript.OP_GREATERTHANOREQUAL, 2, true)
}

// OpWithin pops 3, pushes 1.
func (t *Tracker) OpWithin() (Variable, error) {
	return t.opcodeVerb("OP_WITHIN", txscript.OP_WITHIN, 3, true)
}

// Verify family: no output.
func (t *Tracker) OpEqualVerify() error {
	_, err := t.opcodeVerb("", txscript.OP_EQUALVERIFY, 2, false)
	return err
}
func (t *Tracker) OpNumEqualVerify() error {
	_, err := t.opcodeVerb("", txscript.OP_NUMEQUALVERIFY, 2, false)
	return err
}
func (t *Tracker) OpVerify() error {
	_, err := t.opcodeVerb("", txscript.OP_VERIFY, 1, false)
	return err
}

// OpPick is the raw, script-level pick: it consumes an index variable from
// the stack and produces one fresh output. Callers needing a positional
// pick by symbolic reference should use CopyVar instead.
func (t *Tracker) OpPick() (Variable, error) {
	return t.opcodeVerb("OP_PICK", txscript.OP_PICK, 1, true)
}

// Hashing opcodes: pop 1, push 1, output name embeds the source's name.
func (t *Tracker) opHash(opName string, op byte) (Variable, error) {
	h := t.begin()
	src, err := t.popN(1)
	if err != nil {
		return Variable{}, err
	}
	out := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(out); err != nil {
		return Variable{}, err
	}
	t.model.SetName(out.ID, fmt.Sprintf("%s(%s)", opName, t.model.Name(src[0].ID)))
	t.commit(h, scriptfrag.FromOpcode(op))
	return out, nil
}

func (t *Tracker) OpHash256() (Variable, error)   { return t.opHash("HASH256", txscript.OP_HASH256) }
func (t *Tracker) OpHash160() (Variable, error)   { return t.opHash("HASH160", txscript.OP_HASH160) }
func (t *Tracker) OpSha256() (Variable, error)    { return t.opHash("SHA256", txscript.OP_SHA256) }
func (t *Tracker) OpRipemd160() (Variable, error) { return t.opHash("RIPEMD160", txscript.OP_RIPEMD160) }

// OpDrop and Op2Drop are the raw, single-slot drop opcodes. Use Drop for a
// symbolic variable that may span more than one concrete entry.
func (t *Tracker) OpDrop() error {
	h := t.begin()
	vs, err := t.popN(1)
	if err != nil {
		return err
	}
	if err := requireUnitSize(vs...); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_DROP))
	return nil
}

func (t *Tracker) Op2Drop() error {
	h := t.begin()
	vs, err := t.popN(2)
	if err != nil {
		return err
	}
	if err := requireUnitSize(vs...); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_2DROP))
	return nil
}

// OpDepth pushes the current concrete stack depth as a fresh size-1
// variable; its value is runtime-dependent and unknowable symbolically.
func (t *Tracker) OpDepth() (Variable, error) {
	return t.opcodeVerb("OP_DEPTH", txscript.OP_DEPTH, 0, true)
}

// OpTrue pushes the literal true value as a fresh size-1 variable.
func (t *Tracker) OpTrue() (Variable, error) {
	h := t.begin()
	out := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(out); err != nil {
		return Variable{}, err
	}
	t.model.SetName(out.ID, "true")
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_TRUE))
	return out, nil
}

// OpNop emits OP_NOP. It has no stack effect at all, symbolic or concrete.
func (t *Tracker) OpNop() error {
	h := t.begin()
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_NOP))
	return nil
}
