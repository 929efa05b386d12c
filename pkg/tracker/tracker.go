// Package tracker implements the Stack Tracker: the orchestrator that
// drives Bitcoin Script authoring. Every public verb simultaneously mutates
// a Symbolic Stack Model and appends to an accumulating Script list,
// recording per-fragment journal offsets (History) so execution can be
// replayed to any step.
package tracker

import (
	"fmt"
	"io"

	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/ArkLabsHQ/tapstack/pkg/stackmodel"
)

// Variable and VarID are re-exported from stackmodel for callers that only
// need to hold references returned by Tracker verbs.
type (
	Variable = stackmodel.Variable
	VarID    = stackmodel.VarID
)

// Breakpoint is a named, labelled position within the Script list.
type Breakpoint struct {
	ScriptIndex int
	Name        string
}

// Tracker is the public face of the core. A Tracker instance is exclusively
// owned by its caller; it is single-threaded and synchronous, with no
// suspending operation anywhere on its surface.
type Tracker struct {
	model   *stackmodel.Model
	scripts []scriptfrag.Fragment
	history []int
	breaks  []Breakpoint

	counter      uint64
	maxStackSize int

	ceiling  int
	exceeded bool
}

// New returns an empty Tracker with its own private id counter and no
// configured depth ceiling.
func New() *Tracker {
	return &Tracker{
		model: stackmodel.New(),
	}
}

// NewWithCeiling returns an empty Tracker that records CeilingExceeded once
// the main stack's depth exceeds ceiling, per internal/config's
// MaxStackSize tunable. A ceiling of 0 disables the check, same as New.
func NewWithCeiling(ceiling int) *Tracker {
	t := New()
	t.ceiling = ceiling
	return t
}

// CeilingExceeded reports whether any verb has ever left the main stack
// deeper than the Tracker's configured ceiling. It latches: once tripped,
// it stays tripped even if the stack later shrinks back under the ceiling,
// since the Script already compiled an instruction sequence that reached
// that depth.
func (t *Tracker) CeilingExceeded() bool {
	return t.exceeded
}

// Model returns the Tracker's current Symbolic Stack Model. Callers must
// treat it as read-only; all mutation happens through Tracker verbs.
func (t *Tracker) Model() *stackmodel.Model {
	return t.model
}

// Scripts returns the accumulated Script Fragment list, in verb-invocation
// order.
func (t *Tracker) Scripts() []scriptfrag.Fragment {
	return t.scripts
}

// History returns, for each fragment, the journal length immediately before
// that fragment was appended.
func (t *Tracker) History() []int {
	return t.history
}

// Program concatenates every accumulated fragment into the full compiled
// Script.
func (t *Tracker) Program() scriptfrag.Fragment {
	out := scriptfrag.Empty()
	for _, f := range t.scripts {
		out = out.Append(f)
	}
	return out
}

// MaxStackSize returns the running maximum of the sum of sizes of all
// variables on the main stack ever observed.
func (t *Tracker) MaxStackSize() int {
	return t.maxStackSize
}

// Clone returns a deep copy of t: an independent model, a fresh copy of the
// accumulated scripts/history/breakpoints, and a copy of the id counter.
// The clone and t then issue ids independently, so ids issued by different
// trackers can coincide; within each Tracker they stay unique. Used by
// open_if to produce the true/false branch trackers.
func (t *Tracker) Clone() *Tracker {
	return &Tracker{
		model:        t.model.Clone(),
		scripts:      append([]scriptfrag.Fragment(nil), t.scripts...),
		history:      append([]int(nil), t.history...),
		breaks:       append([]Breakpoint(nil), t.breaks...),
		counter:      t.counter,
		maxStackSize: t.maxStackSize,
		ceiling:      t.ceiling,
		exceeded:     t.exceeded,
	}
}

// nextID issues a fresh, Tracker-private variable id. Ids are unique within
// a Tracker but not across Trackers.
func (t *Tracker) nextID() VarID {
	t.counter++
	return VarID(t.counter)
}

// begin captures the journal length a verb should record into History,
// before that verb mutates the model.
func (t *Tracker) begin() int {
	return t.model.Journal().Len()
}

// commit appends frag to the Script list and h to History, then refreshes
// the running max-stack-size watermark. Every verb calls this exactly once,
// even when frag is empty.
func (t *Tracker) commit(h int, frag scriptfrag.Fragment) {
	t.history = append(t.history, h)
	t.scripts = append(t.scripts, frag)
	if d := t.model.MainDepth(); d > t.maxStackSize {
		t.maxStackSize = d
	}
	if t.ceiling > 0 && t.model.MainDepth() > t.ceiling {
		t.exceeded = true
	}
}

// OffsetOf returns the position of V's top entry measured from the current
// top of main — the sum of sizes of every variable strictly above V.
func (t *Tracker) OffsetOf(v Variable) (int, error) {
	idx, ok := t.model.IndexOfMain(v.ID)
	if !ok {
		return 0, ErrVarNotOnMain
	}
	offset := 0
	for i := idx + 1; i < len(t.model.Main); i++ {
		offset += t.model.Main[i].Size
	}
	return offset, nil
}

// GetVar returns the variable whose span covers the given depth from the
// top of main (0 = the very top entry).
func (t *Tracker) GetVar(depth int) (Variable, error) {
	offset := 0
	for i := len(t.model.Main) - 1; i >= 0; i-- {
		v := t.model.Main[i]
		if depth >= offset && depth < offset+v.Size {
			return v, nil
		}
		offset += v.Size
	}
	return Variable{}, fmt.Errorf("tracker: no variable covers depth %d", depth)
}

// GetVarFromStack returns the i-th variable from the top of main, counting
// variables rather than raw stack entries.
func (t *Tracker) GetVarFromStack(i int) (Variable, error) {
	idx := len(t.model.Main) - 1 - i
	if idx < 0 || idx >= len(t.model.Main) {
		return Variable{}, fmt.Errorf("tracker: no variable at position %d from top", i)
	}
	return t.model.Main[idx], nil
}

// formatVar renders one diagnostic line in the spec-mandated format:
// "id: <id> | size: <size> | name: <name> | <hex concatenation>". Since the
// Tracker never holds concrete byte values (those only exist at execution
// time), the hex field is left blank when no payload is supplied.
func formatVar(v Variable, name string, hexPayload string) string {
	return fmt.Sprintf("id: %d | size: %d | name: %s | %s", v.ID, v.Size, name, hexPayload)
}

// Debug writes one diagnostic line per variable to w: the main stack top
// first, then the alt stack top first.
func (t *Tracker) Debug(w io.Writer) {
	t.ShowStack(w)
	t.ShowAltStack(w)
}

// ShowStack writes one diagnostic line per main-stack variable, top first.
func (t *Tracker) ShowStack(w io.Writer) {
	for i := len(t.model.Main) - 1; i >= 0; i-- {
		v := t.model.Main[i]
		fmt.Fprintln(w, formatVar(v, t.model.Name(v.ID), ""))
	}
}

// ShowAltStack writes one diagnostic line per alt-stack variable, top first.
func (t *Tracker) ShowAltStack(w io.Writer) {
	for i := len(t.model.Alt) - 1; i >= 0; i-- {
		v := t.model.Alt[i]
		fmt.Fprintln(w, formatVar(v, t.model.Name(v.ID), ""))
	}
}
