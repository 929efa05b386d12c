package tracker

import "github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"

// SetBreakpoint appends an empty fragment and labels the resulting position
// in the Script list with name.
func (t *Tracker) SetBreakpoint(name string) {
	h := t.begin()
	t.commit(h, scriptfrag.Empty())
	t.breaks = append(t.breaks, Breakpoint{ScriptIndex: len(t.scripts) - 1, Name: name})
}

func (t *Tracker) clampToScript(pos int) int {
	if max := len(t.scripts) - 1; pos > max {
		return max
	}
	return pos
}

// GetNextBreakpoint returns the first recorded breakpoint (in recording
// order) whose position is strictly greater than from.
func (t *Tracker) GetNextBreakpoint(from int) (Breakpoint, bool) {
	for _, b := range t.breaks {
		if b.ScriptIndex > from {
			b.ScriptIndex = t.clampToScript(b.ScriptIndex)
			return b, true
		}
	}
	return Breakpoint{}, false
}

// GetPrevBreakpoint returns the recorded breakpoint with the greatest
// position strictly less than from.
func (t *Tracker) GetPrevBreakpoint(from int) (Breakpoint, bool) {
	found := false
	var best Breakpoint
	for _, b := range t.breaks {
		if b.ScriptIndex < from && (!found || b.ScriptIndex > best.ScriptIndex) {
			best = b
			found = true
		}
	}
	if !found {
		return Breakpoint{}, false
	}
	best.ScriptIndex = t.clampToScript(best.ScriptIndex)
	return best, true
}

// BreakpointAt returns the recorded script position for name.
func (t *Tracker) BreakpointAt(name string) (int, error) {
	for _, b := range t.breaks {
		if b.Name == name {
			return b.ScriptIndex, nil
		}
	}
	return 0, ErrUnknownBreakpoint
}
