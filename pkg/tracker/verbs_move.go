package tracker

import (
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// rollOrPick builds a fragment that pushes index as a minimal integer and
// then emits op (OP_ROLL or OP_PICK), repeated n times with the same index
// each time. Repeating the same index works because each iteration shifts
// the remaining target entries into exactly the slot the next iteration
// expects: OP_ROLL removes an entry and closes the gap beneath it, and
// OP_PICK grows the stack by one without disturbing anything below the
// picked entry.
func rollOrPick(op byte, index, n int) scriptfrag.Fragment {
	frag := scriptfrag.Empty()
	for i := 0; i < n; i++ {
		frag = frag.Append(scriptfrag.FromInteger(int64(index))).Append(scriptfrag.FromOpcode(op))
	}
	return frag
}

// MoveVar brings V intact to the top of main via a run of OP_ROLL, and
// returns it unchanged. If V is already on top, no bytes are emitted.
func (t *Tracker) MoveVar(v Variable) (Variable, error) {
	h := t.begin()
	k, err := t.OffsetOf(v)
	if err != nil {
		return Variable{}, err
	}

	if k == 0 {
		t.commit(h, scriptfrag.Empty())
		return v, nil
	}

	frag := rollOrPick(txscript.OP_ROLL, k+v.Size-1, v.Size)

	origName := t.model.Name(v.ID)
	t.model.RemoveVar(v.ID)
	if err := t.model.PushMain(v); err != nil {
		return Variable{}, err
	}
	t.model.SetName(v.ID, origName) // RemoveVar cleared the name; restore it
	t.commit(h, frag)
	return v, nil
}

// CopyVar duplicates V onto the top of main via a run of OP_PICK, leaving V
// in place. The copy is a fresh variable named "copy(<orig>)".
func (t *Tracker) CopyVar(v Variable) (Variable, error) {
	h := t.begin()
	k, err := t.OffsetOf(v)
	if err != nil {
		return Variable{}, err
	}

	frag := rollOrPick(txscript.OP_PICK, k+v.Size-1, v.Size)

	cp := Variable{ID: t.nextID(), Size: v.Size}
	if err := t.model.PushMain(cp); err != nil {
		return Variable{}, err
	}
	t.model.SetName(cp.ID, fmt.Sprintf("copy(%s)", t.model.Name(v.ID)))
	t.commit(h, frag)
	return cp, nil
}

// subEntryIndex computes the raw OP_ROLL/OP_PICK index for the n-th entry
// within V, where n=0 is V's top (last-pushed) entry.
func (t *Tracker) subEntryIndex(v Variable, n int) (int, error) {
	k, err := t.OffsetOf(v)
	if err != nil {
		return 0, err
	}
	return k + v.Size - 1 - n, nil
}

// shrinkOrRemove decreases v's recorded size by one and, if it reaches
// zero, removes it entirely.
func (t *Tracker) shrinkOrRemove(v Variable) error {
	if err := t.model.DecreaseSize(v.ID); err != nil {
		return err
	}
	if v.Size-1 == 0 {
		t.model.RemoveVar(v.ID)
	}
	return nil
}

// moveSubEntryOnce is MoveVarSubN's uncommitted core, reused by equals so
// that a multi-entry comparison loop can stay inside a single verb commit.
func (t *Tracker) moveSubEntryOnce(v Variable, n int) (Variable, scriptfrag.Fragment, error) {
	idx, err := t.subEntryIndex(v, n)
	if err != nil {
		return Variable{}, scriptfrag.Empty(), err
	}
	frag := scriptfrag.FromInteger(int64(idx)).Append(scriptfrag.FromOpcode(txscript.OP_ROLL))

	origName := t.model.Name(v.ID) // capture before shrinkOrRemove may delete it
	if err := t.shrinkOrRemove(v); err != nil {
		return Variable{}, scriptfrag.Empty(), err
	}
	newVar := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(newVar); err != nil {
		return Variable{}, scriptfrag.Empty(), err
	}
	t.model.SetName(newVar.ID, fmt.Sprintf("sub(%s,%d)", origName, n))
	return newVar, frag, nil
}

// copySubEntryOnce is CopyVarSubN's uncommitted core.
func (t *Tracker) copySubEntryOnce(v Variable, n int) (Variable, scriptfrag.Fragment, error) {
	idx, err := t.subEntryIndex(v, n)
	if err != nil {
		return Variable{}, scriptfrag.Empty(), err
	}
	frag := scriptfrag.FromInteger(int64(idx)).Append(scriptfrag.FromOpcode(txscript.OP_PICK))

	newVar := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(newVar); err != nil {
		return Variable{}, scriptfrag.Empty(), err
	}
	t.model.SetName(newVar.ID, fmt.Sprintf("sub(%s,%d)", t.model.Name(v.ID), n))
	return newVar, frag, nil
}

// MoveVarSubN moves the n-th entry within V (0 = V's top entry) to the very
// top of main as a new size-1 variable, shrinking V by one entry. If V's
// size reaches zero it is removed.
func (t *Tracker) MoveVarSubN(v Variable, n int) (Variable, error) {
	h := t.begin()
	newVar, frag, err := t.moveSubEntryOnce(v, n)
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, frag)
	return newVar, nil
}

// CopyVarSubN copies the n-th entry within V (0 = V's top entry) to the top
// of main as a new size-1 variable, leaving V unchanged.
func (t *Tracker) CopyVarSubN(v Variable, n int) (Variable, error) {
	h := t.begin()
	newVar, frag, err := t.copySubEntryOnce(v, n)
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, frag)
	return newVar, nil
}
