package tracker

import "github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"

// VarSpec declares one output variable's size and diagnostic name, used by
// verbs whose effect on the model can't be derived from their bytecode
// alone (custom, end_if).
type VarSpec struct {
	Size int
	Name string
}

// applyAccounting is the model half of custom()/end_if(): pop `consumes`
// from main, push one fresh variable per entry in outputVars (in order),
// then push altDelta fresh size-1 variables to alt.
func (t *Tracker) applyAccounting(consumes int, outputVars []VarSpec, altDelta int) ([]Variable, error) {
	for i := 0; i < consumes; i++ {
		v, err := t.model.PopMain()
		if err != nil {
			return nil, err
		}
		t.model.RemoveVar(v.ID)
	}

	out := make([]Variable, len(outputVars))
	for i, spec := range outputVars {
		nv := Variable{ID: t.nextID(), Size: spec.Size}
		if err := t.model.PushMain(nv); err != nil {
			return nil, err
		}
		t.model.SetName(nv.ID, spec.Name)
		out[i] = nv
	}

	for i := 0; i < altDelta; i++ {
		av := Variable{ID: t.nextID(), Size: 1}
		if err := t.model.PushAlt(av); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Custom is the escape hatch: it emits a caller-supplied fragment verbatim
// and accounts for its effect on the model exactly as declared, with no way
// for the Tracker to check that the two actually agree.
func (t *Tracker) Custom(frag scriptfrag.Fragment, consumes int, outputVars []VarSpec, altDelta int) ([]Variable, error) {
	h := t.begin()
	out, err := t.applyAccounting(consumes, outputVars, altDelta)
	if err != nil {
		return nil, err
	}
	t.commit(h, frag)
	return out, nil
}
