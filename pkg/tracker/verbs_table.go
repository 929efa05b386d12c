package tracker

import (
	"fmt"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
)

// GetValueFromTable looks up a value in table T at a runtime-computed
// position: idx (the top of main, consumed) holds a dynamic index that the
// caller has already arranged there; offset is a static adjustment. It
// emits push(offset_of(T) - 1 + offset), OP_ADD (combining the static part
// with idx), OP_PICK, and names the result "from:(<T>)".
func (t *Tracker) GetValueFromTable(table Variable, idx Variable, offset int) (Variable, error) {
	h := t.begin()
	k, err := t.OffsetOf(table)
	if err != nil {
		return Variable{}, err
	}

	top, ok := t.model.IndexOfMain(idx.ID)
	if !ok || top != len(t.model.Main)-1 {
		return Variable{}, ErrNotTopOfMain
	}
	if _, err := t.model.PopMain(); err != nil {
		return Variable{}, err
	}
	t.model.RemoveVar(idx.ID)

	frag := scriptfrag.FromInteger(int64(k - 1 + offset)).
		Append(scriptfrag.FromOpcode(txscript.OP_ADD)).
		Append(scriptfrag.FromOpcode(txscript.OP_PICK))

	out := Variable{ID: t.nextID(), Size: 1}
	if err := t.model.PushMain(out); err != nil {
		return Variable{}, err
	}
	t.model.SetName(out.ID, fmt.Sprintf("from:(%s)", t.model.Name(table.ID)))
	t.commit(h, frag)
	return out, nil
}
