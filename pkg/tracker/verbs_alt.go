package tracker

import (
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// toAltOnce pops the top of main and pushes it to alt, returning the moved
// variable; callers emit one OP_TOALTSTACK per entry of its Size.
func (t *Tracker) toAltOnce() (Variable, error) {
	v, err := t.model.PopMain()
	if err != nil {
		return Variable{}, err
	}
	if err := t.model.PushAlt(v); err != nil {
		return Variable{}, err
	}
	return v, nil
}

func (t *Tracker) fromAltOnce() (Variable, error) {
	v, err := t.model.PopAlt()
	if err != nil {
		return Variable{}, err
	}
	if err := t.model.PushMain(v); err != nil {
		return Variable{}, err
	}
	return v, nil
}

func repeatOpcode(op byte, n int) scriptfrag.Fragment {
	frag := scriptfrag.Empty()
	for i := 0; i < n; i++ {
		frag = frag.Append(scriptfrag.FromOpcode(op))
	}
	return frag
}

// ToAltStack pops the top of main and pushes it to alt, emitting one
// OP_TOALTSTACK per concrete entry.
func (t *Tracker) ToAltStack() (Variable, error) {
	h := t.begin()
	v, err := t.toAltOnce()
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, repeatOpcode(txscript.OP_TOALTSTACK, v.Size))
	return v, nil
}

// FromAltStack pops the top of alt and pushes it to main, emitting one
// OP_FROMALTSTACK per concrete entry.
func (t *Tracker) FromAltStack() (Variable, error) {
	h := t.begin()
	v, err := t.fromAltOnce()
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, repeatOpcode(txscript.OP_FROMALTSTACK, v.Size))
	return v, nil
}

// ToAltStackCount moves k variables from the top of main to alt, one
// commit covering all k iterations.
func (t *Tracker) ToAltStackCount(k int) ([]Variable, error) {
	h := t.begin()
	frag := scriptfrag.Empty()
	out := make([]Variable, 0, k)
	for i := 0; i < k; i++ {
		v, err := t.toAltOnce()
		if err != nil {
			return nil, err
		}
		frag = frag.Append(repeatOpcode(txscript.OP_TOALTSTACK, v.Size))
		out = append(out, v)
	}
	t.commit(h, frag)
	return out, nil
}

// FromAltStackCount moves k variables from the top of alt to main, one
// commit covering all k iterations.
func (t *Tracker) FromAltStackCount(k int) ([]Variable, error) {
	h := t.begin()
	frag := scriptfrag.Empty()
	out := make([]Variable, 0, k)
	for i := 0; i < k; i++ {
		v, err := t.fromAltOnce()
		if err != nil {
			return nil, err
		}
		frag = frag.Append(repeatOpcode(txscript.OP_FROMALTSTACK, v.Size))
		out = append(out, v)
	}
	t.commit(h, frag)
	return out, nil
}

// FromAltStackJoined pops k variables from alt onto main, then joins them
// into a single variable of the given name.
func (t *Tracker) FromAltStackJoined(k int, name string) (Variable, error) {
	h := t.begin()
	frag := scriptfrag.Empty()

	first, err := t.fromAltOnce()
	if err != nil {
		return Variable{}, err
	}
	frag = frag.Append(repeatOpcode(txscript.OP_FROMALTSTACK, first.Size))

	for i := 1; i < k; i++ {
		v, err := t.fromAltOnce()
		if err != nil {
			return Variable{}, err
		}
		frag = frag.Append(repeatOpcode(txscript.OP_FROMALTSTACK, v.Size))
	}

	for i := 0; i < k-1; i++ {
		if err := t.joinOnce(first); err != nil {
			return Variable{}, err
		}
	}

	t.model.SetName(first.ID, name)
	t.commit(h, frag)
	idx, _ := t.model.IndexOfMain(first.ID)
	return t.model.Main[idx], nil
}
