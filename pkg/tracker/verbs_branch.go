package tracker

import (
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// dropSelector pops the branch-selector sitting on a freshly-cloned
// branch's model and emits the OP_DROP that accounts for it standalone.
// Real OP_IF/OP_ELSE consume the selector implicitly, so this fragment is
// never spliced into the parent — see EndIf's cutoff.
func dropSelector(tr *Tracker) error {
	h := tr.begin()
	sel, err := tr.model.PopMain()
	if err != nil {
		return err
	}
	tr.model.RemoveVar(sel.ID)
	tr.commit(h, scriptfrag.FromOpcode(txscript.OP_DROP))
	return nil
}

// OpenIf clones the current Tracker into a true and a false branch, each
// with the branch-selector already accounted for (via a local OP_DROP), and
// emits OP_IF in the parent, consuming the selector there too.
func (t *Tracker) OpenIf() (trueTracker, falseTracker *Tracker, err error) {
	trueTracker = t.Clone()
	falseTracker = t.Clone()

	if err := dropSelector(trueTracker); err != nil {
		return nil, nil, err
	}
	if err := dropSelector(falseTracker); err != nil {
		return nil, nil, err
	}

	h := t.begin()
	sel, err := t.model.PopMain()
	if err != nil {
		return nil, nil, err
	}
	t.model.RemoveVar(sel.ID)
	t.commit(h, scriptfrag.FromOpcode(txscript.OP_IF))

	return trueTracker, falseTracker, nil
}

// EndIf splices the true and false branches back into the parent: the
// branch-specific suffix of each (everything appended since OpenIf, which
// excludes each branch's own bookkeeping OP_DROP) wrapped in OP_ELSE/
// OP_ENDIF, then applies the caller-declared net effect on the parent
// model. Both branches must leave the same concrete stack depth; this is
// checked as a reasonable strengthening of the shape precondition the
// branches are otherwise trusted to uphold.
func (t *Tracker) EndIf(trueTracker, falseTracker *Tracker, consumes int, outputVars []VarSpec, altDelta int) ([]Variable, error) {
	if trueTracker.model.MainDepth() != falseTracker.model.MainDepth() {
		return nil, ErrBranchMismatch
	}

	cutoff := len(t.scripts)
	if cutoff > len(trueTracker.scripts) || cutoff > len(falseTracker.scripts) {
		return nil, ErrBranchMismatch
	}

	frag := scriptfrag.Empty()
	for _, f := range trueTracker.scripts[cutoff:] {
		frag = frag.Append(f)
	}
	frag = frag.Append(scriptfrag.FromOpcode(txscript.OP_ELSE))
	for _, f := range falseTracker.scripts[cutoff:] {
		frag = frag.Append(f)
	}
	frag = frag.Append(scriptfrag.FromOpcode(txscript.OP_ENDIF))

	h := t.begin()
	out, err := t.applyAccounting(consumes, outputVars, altDelta)
	if err != nil {
		return nil, err
	}
	t.commit(h, frag)
	return out, nil
}
