package tracker

import (
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
)

// joinOnce fuses v with the variable directly above it on main into a
// single variable retaining v's id. It is pure bookkeeping: the two spans
// are already contiguous on the concrete stack, so no bytecode is needed.
func (t *Tracker) joinOnce(v Variable) error {
	idx, ok := t.model.IndexOfMain(v.ID)
	if !ok {
		return ErrVarNotOnMain
	}
	if idx == len(t.model.Main)-1 {
		return ErrAlreadyTop
	}
	absorbed := t.model.Main[idx+1]

	if err := t.model.IncreaseSize(idx, absorbed.Size); err != nil {
		return err
	}
	t.model.RemoveVar(absorbed.ID)
	return nil
}

// Join fuses V with the variable directly above it on main into a single
// variable retaining V's id. It fails if V is already the top of main.
func (t *Tracker) Join(v Variable) (Variable, error) {
	h := t.begin()
	if err := t.joinOnce(v); err != nil {
		return Variable{}, err
	}
	t.commit(h, scriptfrag.Empty())
	idx, _ := t.model.IndexOfMain(v.ID)
	return t.model.Main[idx], nil
}

// JoinCount joins V with the k variables directly above it, in one commit.
func (t *Tracker) JoinCount(v Variable, k int) (Variable, error) {
	h := t.begin()
	for i := 0; i < k; i++ {
		if err := t.joinOnce(v); err != nil {
			return Variable{}, err
		}
	}
	t.commit(h, scriptfrag.Empty())
	idx, _ := t.model.IndexOfMain(v.ID)
	return t.model.Main[idx], nil
}

// Explode replaces V, which must be the top of main, with Size fresh size-1
// variables preserving order, named "<V>[i]" with i counted from the
// bottom of V's original span. No bytecode is emitted: the concrete stack
// is untouched, only the symbolic grouping changes.
func (t *Tracker) Explode(v Variable) ([]Variable, error) {
	h := t.begin()
	idx, ok := t.model.IndexOfMain(v.ID)
	if !ok {
		return nil, ErrVarNotOnMain
	}
	if idx != len(t.model.Main)-1 {
		return nil, ErrNotTopOfMain
	}

	origName := t.model.Name(v.ID)
	t.model.RemoveVar(v.ID)

	out := make([]Variable, v.Size)
	for i := 0; i < v.Size; i++ {
		nv := Variable{ID: t.nextID(), Size: 1}
		if err := t.model.PushMain(nv); err != nil {
			return nil, err
		}
		t.model.SetName(nv.ID, fmt.Sprintf("%s[%d]", origName, i))
		out[i] = nv
	}
	t.commit(h, scriptfrag.Empty())
	return out, nil
}
