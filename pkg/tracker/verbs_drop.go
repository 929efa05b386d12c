package tracker

import (
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// dropCount builds the cheapest drop sequence for n concrete stack entries:
// pairs of OP_2DROP, plus a trailing OP_DROP if n is odd.
func dropCount(n int) scriptfrag.Fragment {
	frag := scriptfrag.Empty()
	for ; n >= 2; n -= 2 {
		frag = frag.Append(scriptfrag.FromOpcode(txscript.OP_2DROP))
	}
	if n == 1 {
		frag = frag.Append(scriptfrag.FromOpcode(txscript.OP_DROP))
	}
	return frag
}

// Drop removes V, which must be the top of main, emitting the minimal
// OP_2DROP/OP_DROP sequence for its size.
func (t *Tracker) Drop(v Variable) error {
	h := t.begin()
	idx, ok := t.model.IndexOfMain(v.ID)
	if !ok {
		return ErrVarNotOnMain
	}
	if idx != len(t.model.Main)-1 {
		return ErrNotTopOfMain
	}

	if _, err := t.model.PopMain(); err != nil {
		return err
	}
	t.model.RemoveVar(v.ID)
	t.commit(h, dropCount(v.Size))
	return nil
}
