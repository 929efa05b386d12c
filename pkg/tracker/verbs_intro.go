package tracker

import (
	"encoding/hex"
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
)

// Define allocates a fresh variable of the given size and name, pushing it
// to the top of main. It appends an empty fragment: Define is used to
// declare a value already present on the concrete stack at program start,
// or to split/merge symbolic views without touching bytecode.
func (t *Tracker) Define(size int, name string) (Variable, error) {
	return t.defineWithFragment(size, name, scriptfrag.Empty())
}

// Var is Define's counterpart for verbs that must also emit script: it
// allocates a fresh variable and appends frag to the Script list.
func (t *Tracker) Var(size int, frag scriptfrag.Fragment, name string) (Variable, error) {
	return t.defineWithFragment(size, name, frag)
}

func (t *Tracker) defineWithFragment(size int, name string, frag scriptfrag.Fragment) (Variable, error) {
	h := t.begin()
	v := Variable{ID: t.nextID(), Size: size}
	if err := t.model.PushMain(v); err != nil {
		return Variable{}, err
	}
	t.model.SetName(v.ID, name)
	t.commit(h, frag)
	return v, nil
}

// Number pushes the integer n as a single size-1 variable named
// "number(0x...)".
func (t *Tracker) Number(n int64) (Variable, error) {
	name := fmt.Sprintf("number(0x%x)", n)
	return t.Var(1, scriptfrag.FromInteger(n), name)
}

// NumberU32 pushes n decomposed into 8 size-1 nibbles, high to low, as a
// single aggregate size-8 variable.
func (t *Tracker) NumberU32(n uint32) (Variable, error) {
	h := t.begin()
	frag := scriptfrag.Empty()
	for shift := 28; shift >= 0; shift -= 4 {
		nibble := int64((n >> uint(shift)) & 0xf)
		frag = frag.Append(scriptfrag.FromInteger(nibble))
	}
	v := Variable{ID: t.nextID(), Size: 8}
	if err := t.model.PushMain(v); err != nil {
		return Variable{}, err
	}
	t.model.SetName(v.ID, fmt.Sprintf("number_u32(0x%08x)", n))
	t.commit(h, frag)
	return v, nil
}

// Byte pushes b decomposed into 2 nibbles as a single aggregate size-2
// variable.
func (t *Tracker) Byte(b byte) (Variable, error) {
	h := t.begin()
	hi := int64(b >> 4)
	lo := int64(b & 0xf)
	frag := scriptfrag.FromInteger(hi).Append(scriptfrag.FromInteger(lo))
	v := Variable{ID: t.nextID(), Size: 2}
	if err := t.model.PushMain(v); err != nil {
		return Variable{}, err
	}
	t.model.SetName(v.ID, fmt.Sprintf("byte(0x%02x)", b))
	t.commit(h, frag)
	return v, nil
}

// HexStr decodes hexStr and pushes the resulting raw byte string as a
// single size-1 variable.
func (t *Tracker) HexStr(hexStr string) (Variable, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return Variable{}, fmt.Errorf("tracker: hexstr: %w", err)
	}
	return t.Var(1, scriptfrag.FromData(data), fmt.Sprintf("hexstr(%s)", hexStr))
}
