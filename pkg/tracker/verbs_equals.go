package tracker

import (
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// absorbSubEntryOnce accounts for V2's current top raw entry without moving
// it: it is already sitting exactly where the comparison needs it, so no
// bytecode is emitted, only a fresh size-1 variable is defined over it.
func (t *Tracker) absorbSubEntryOnce(v Variable) (Variable, error) {
	origName := t.model.Name(v.ID)
	if err := t.shrinkOrRemove(v); err != nil {
		return Variable{}, err
	}
	newVar := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(newVar); err != nil {
		return Variable{}, err
	}
	t.model.SetName(newVar.ID, origName)
	return newVar, nil
}

// consumeOrCopyEntry fetches the n-th remaining entry of v (0 = its current
// top) onto the top of main, moving it if consume is true or leaving it in
// place and copying it otherwise.
func (t *Tracker) consumeOrCopyEntry(v *Variable, n int, consume bool) (Variable, scriptfrag.Fragment, error) {
	if consume {
		nv, frag, err := t.moveSubEntryOnce(*v, 0)
		if err != nil {
			return Variable{}, scriptfrag.Empty(), err
		}
		v.Size--
		return nv, frag, nil
	}
	return t.copySubEntryOnce(*v, n)
}

// Equals verifies that V1 and V2 (size-equal, distinct) hold identical
// values, entry by entry. Per entry it brings V2's value to the top (or, if
// V2 is already on top and being consumed, simply labels the raw slot
// already there), then V1's value, then emits OP_EQUALVERIFY — size times
// in total.
func (t *Tracker) Equals(v1 Variable, consume1 bool, v2 Variable, consume2 bool) error {
	if v1.Size != v2.Size {
		return ErrSizeMismatch
	}
	if v1.ID == v2.ID {
		return ErrSameVariable
	}

	h := t.begin()
	frag := scriptfrag.Empty()

	idx, onMain := t.model.IndexOfMain(v2.ID)
	absorbInPlace := onMain && consume2 && idx == len(t.model.Main)-1

	v1Cur, v2Cur := v1, v2
	size := v1.Size

	for i := 0; i < size; i++ {
		var vf2 Variable
		var err error
		if absorbInPlace {
			vf2, err = t.absorbSubEntryOnce(v2Cur)
			v2Cur.Size--
		} else {
			var f2 scriptfrag.Fragment
			vf2, f2, err = t.consumeOrCopyEntry(&v2Cur, i, consume2)
			frag = frag.Append(f2)
		}
		if err != nil {
			return err
		}

		vf1, f1, err := t.consumeOrCopyEntry(&v1Cur, i, consume1)
		if err != nil {
			return err
		}
		frag = frag.Append(f1)

		frag = frag.Append(scriptfrag.FromOpcode(txscript.OP_EQUALVERIFY))

		if _, err := t.model.PopMain(); err != nil { // pops vf1
			return err
		}
		t.model.RemoveVar(vf1.ID)
		if _, err := t.model.PopMain(); err != nil { // pops vf2
			return err
		}
		t.model.RemoveVar(vf2.ID)
	}

	t.commit(h, frag)
	return nil
}
