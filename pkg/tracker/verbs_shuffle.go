package tracker

import (
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// reorderTop pops n size-1 variables off main (top first) and pushes them
// back in the order given by perm, a permutation of 0..n-1 where perm[i]
// names which popped variable becomes the i-th from the bottom of the new
// arrangement. It is pure bookkeeping: the accompanying fragment is the only
// thing that actually moves bytes at execution time.
func (t *Tracker) reorderTop(n int, perm []int) ([]Variable, error) {
	popped := make([]Variable, n)
	for i := 0; i < n; i++ {
		v, err := t.model.PopMain()
		if err != nil {
			return nil, err
		}
		popped[i] = v
	}
	if err := requireUnitSize(popped...); err != nil {
		return nil, err
	}
	for _, p := range perm {
		if err := t.model.PushMain(popped[p]); err != nil {
			return nil, err
		}
	}
	return popped, nil
}

// Swap exchanges the top two size-1 variables of main (OP_SWAP).
func (t *Tracker) Swap() error {
	h := t.begin()
	// popped = [top, second]; swapped order bottom-to-top is [top, second].
	if _, err := t.reorderTop(2, []int{0, 1}); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_SWAP))
	return nil
}

// Rot rotates the top three size-1 variables of main (OP_ROT): x1 x2 x3
// becomes x2 x3 x1.
func (t *Tracker) Rot() error {
	h := t.begin()
	// popped = [x3, x2, x1]; target bottom-to-top is x2, x3, x1 = popped[1,0,2].
	if _, err := t.reorderTop(3, []int{1, 0, 2}); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_ROT))
	return nil
}

// TwoSwap exchanges the top two pairs of size-1 variables (OP_2SWAP): x1 x2
// x3 x4 becomes x3 x4 x1 x2.
func (t *Tracker) TwoSwap() error {
	h := t.begin()
	// popped = [x4, x3, x2, x1]; target is x3, x4, x1, x2 = popped[1,0,3,2].
	if _, err := t.reorderTop(4, []int{1, 0, 3, 2}); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_2SWAP))
	return nil
}

// TwoRot rotates the top three pairs of size-1 variables (OP_2ROT): x1 x2 x3
// x4 x5 x6 becomes x3 x4 x5 x6 x1 x2.
func (t *Tracker) TwoRot() error {
	h := t.begin()
	// popped = [x6, x5, x4, x3, x2, x1]; target is x3 x4 x5 x6 x1 x2
	//        = popped[3,2,1,0,5,4].
	if _, err := t.reorderTop(6, []int{3, 2, 1, 0, 5, 4}); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_2ROT))
	return nil
}

// dupCopies reads the top n size-1 variables without popping them, in
// top-to-bottom order.
func (t *Tracker) dupCopies(n int) ([]Variable, error) {
	if n > len(t.model.Main) {
		return nil, ErrVarNotOnMain
	}
	out := make([]Variable, n)
	for i := 0; i < n; i++ {
		v := t.model.Main[len(t.model.Main)-1-i]
		out[i] = v
	}
	if err := requireUnitSize(out...); err != nil {
		return nil, err
	}
	return out, nil
}

// pushCopiesOf pushes fresh variables copying src (given top-to-bottom),
// restoring bottom-to-top stack order, naming each "copy(<src name>)".
func (t *Tracker) pushCopiesOf(src []Variable) ([]Variable, error) {
	out := make([]Variable, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		cp := Variable{ID: t.nextID(), Size: 1}
		if err := t.model.PushMain(cp); err != nil {
			return nil, err
		}
		t.model.SetName(cp.ID, fmt.Sprintf("copy(%s)", t.model.Name(src[i].ID)))
		out[i] = cp
	}
	return out, nil
}

// Dup duplicates the top size-1 variable (OP_DUP).
func (t *Tracker) Dup() (Variable, error) {
	h := t.begin()
	src, err := t.dupCopies(1)
	if err != nil {
		return Variable{}, err
	}
	cps, err := t.pushCopiesOf(src)
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_DUP))
	return cps[0], nil
}

// TwoDup duplicates the top two size-1 variables, preserving order (OP_2DUP).
func (t *Tracker) TwoDup() ([]Variable, error) {
	h := t.begin()
	src, err := t.dupCopies(2)
	if err != nil {
		return nil, err
	}
	cps, err := t.pushCopiesOf(src)
	if err != nil {
		return nil, err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_2DUP))
	return cps, nil
}

// ThreeDup duplicates the top three size-1 variables, preserving order
// (OP_3DUP).
func (t *Tracker) ThreeDup() ([]Variable, error) {
	h := t.begin()
	src, err := t.dupCopies(3)
	if err != nil {
		return nil, err
	}
	cps, err := t.pushCopiesOf(src)
	if err != nil {
		return nil, err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_3DUP))
	return cps, nil
}

// pushNamedCopiesOf is like pushCopiesOf but keeps each source's own name
// rather than wrapping it in copy(...), matching OP_OVER/OP_2OVER's
// name-preserving convention.
func (t *Tracker) pushNamedCopiesOf(src []Variable) ([]Variable, error) {
	out := make([]Variable, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		cp := Variable{ID: t.nextID(), Size: 1}
		if err := t.model.PushMain(cp); err != nil {
			return nil, err
		}
		t.model.SetName(cp.ID, t.model.Name(src[i].ID))
		out[i] = cp
	}
	return out, nil
}

// Over copies the second-from-top size-1 variable to the top (OP_OVER),
// preserving its name.
func (t *Tracker) Over() (Variable, error) {
	h := t.begin()
	if len(t.model.Main) < 2 {
		return Variable{}, ErrVarNotOnMain
	}
	src := t.model.Main[len(t.model.Main)-2]
	if err := requireUnitSize(src); err != nil {
		return Variable{}, err
	}
	cps, err := t.pushNamedCopiesOf([]Variable{src})
	if err != nil {
		return Variable{}, err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_OVER))
	return cps[0], nil
}

// TwoOver copies the second pair from the top to the top (OP_2OVER),
// preserving names.
func (t *Tracker) TwoOver() ([]Variable, error) {
	h := t.begin()
	if len(t.model.Main) < 4 {
		return nil, ErrVarNotOnMain
	}
	n := len(t.model.Main)
	src := []Variable{t.model.Main[n-4], t.model.Main[n-3]}
	if err := requireUnitSize(src...); err != nil {
		return nil, err
	}
	cps, err := t.pushNamedCopiesOf([]Variable{src[1], src[0]})
	if err != nil {
		return nil, err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_2OVER))
	return []Variable{cps[1], cps[0]}, nil
}

// Tuck inserts a copy of the top size-1 variable beneath the second
// (OP_TUCK): x1 x2 becomes x2 x1 x2.
func (t *Tracker) Tuck() (Variable, error) {
	h := t.begin()
	x2, err := t.model.PopMain()
	if err != nil {
		return Variable{}, err
	}
	x1, err := t.model.PopMain()
	if err != nil {
		return Variable{}, err
	}
	if err := requireUnitSize(x1, x2); err != nil {
		return Variable{}, err
	}

	cp := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(cp); err != nil {
		return Variable{}, err
	}
	t.model.SetName(cp.ID, fmt.Sprintf("copy(%s)", t.model.Name(x2.ID)))

	if err := t.model.PushMain(x1); err != nil {
		return Variable{}, err
	}
	if err := t.model.PushMain(x2); err != nil {
		return Variable{}, err
	}

	t.commit(h, scriptfrag.FromOpcode(txscript.OP_TUCK))
	return cp, nil
}

// Nip removes the second-from-top size-1 variable, leaving the top in place
// (OP_NIP): x1 x2 becomes x2.
func (t *Tracker) Nip() error {
	h := t.begin()
	x2, err := t.model.PopMain()
	if err != nil {
		return err
	}
	x1, err := t.model.PopMain()
	if err != nil {
		return err
	}
	if err := requireUnitSize(x1, x2); err != nil {
		return err
	}
	t.model.RemoveVar(x1.ID)
	if err := t.model.PushMain(x2); err != nil {
		return err
	}
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_NIP))
	return nil
}
