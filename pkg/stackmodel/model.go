// Package stackmodel implements the Symbolic Stack Model: pure CRUD over two
// ordered sequences of Variables (main and alt), a diagnostic name map, and
// an append-only Journal that lets the model be replayed to any prior state.
//
// Every mutating method on Model appends exactly one Journal entry. The
// Stack Tracker builds its own higher-level verbs — which may touch the
// model several times and append one Script Fragment — out of these
// single-entry primitives.
package stackmodel

import (
	"errors"
	"fmt"
)

// ErrPopEmpty is returned when popping from an empty main or alt sequence.
// Per spec, this signals a Tracker bug: the Tracker should never attempt to
// pop past what it itself pushed.
var ErrPopEmpty = errors.New("stackmodel: pop from empty stack")

// VarID identifies a Variable. The zero value is the reserved null
// sentinel and never denotes a real variable.
type VarID uint64

// Variable is an immutable identity/size pair. It carries no payload: its
// mapping to concrete bytes is only recovered at execution time.
type Variable struct {
	ID   VarID
	Size int
}

// IsNull reports whether v is the sentinel null variable.
func (v Variable) IsNull() bool {
	return v.ID == 0
}

// Null is the sentinel "no variable" value.
var Null = Variable{}

// Model holds the two ordered variable sequences, the name map, and
// (when enabled) the Journal used to replay history. Main and Alt store
// variables bottom-first: the last element is the top of stack.
type Model struct {
	Main  []Variable
	Alt   []Variable
	Names map[VarID]string

	journal *Journal // nil on a replayed, journal-disabled copy
}

// New returns an empty Model with journaling enabled.
func New() *Model {
	return &Model{
		Names:   make(map[VarID]string),
		journal: NewJournal(),
	}
}

// Journal returns the model's journal, or nil if journaling is disabled
// (true of every model produced by Replay).
func (m *Model) Journal() *Journal {
	return m.journal
}

// Name returns the diagnostic name for id, or "unknown" if undefined.
func (m *Model) Name(id VarID) string {
	if n, ok := m.Names[id]; ok {
		return n
	}
	return "unknown"
}

// IndexOfMain returns the slice index of id within Main, or false if it is
// not present there.
func (m *Model) IndexOfMain(id VarID) (int, bool) {
	for i, v := range m.Main {
		if v.ID == id {
			return i, true
		}
	}
	return 0, false
}

// MainDepth returns the sum of sizes of every variable on the main stack —
// the concrete depth it corresponds to.
func (m *Model) MainDepth() int {
	depth := 0
	for _, v := range m.Main {
		depth += v.Size
	}
	return depth
}

// TopMain returns the variable at the top of main, or Null if main is empty.
func (m *Model) TopMain() Variable {
	if len(m.Main) == 0 {
		return Null
	}
	return m.Main[len(m.Main)-1]
}

// record appends e to the journal, if journaling is enabled, and returns
// any error from applying it to the live model.
func (m *Model) record(e Entry) error {
	if err := m.apply(e); err != nil {
		return err
	}
	if m.journal != nil {
		m.journal.Append(e)
	}
	return nil
}

// PushMain appends v to the top of the main stack.
func (m *Model) PushMain(v Variable) error {
	return m.record(Entry{Kind: EntryPushMain, Var: v})
}

// PushAlt appends v to the top of the alt stack.
func (m *Model) PushAlt(v Variable) error {
	return m.record(Entry{Kind: EntryPushAlt, Var: v})
}

// PopMain removes and returns the top of the main stack.
func (m *Model) PopMain() (Variable, error) {
	if len(m.Main) == 0 {
		return Null, ErrPopEmpty
	}
	v := m.Main[len(m.Main)-1]
	if err := m.record(Entry{Kind: EntryPopMain}); err != nil {
		return Null, err
	}
	return v, nil
}

// PopAlt removes and returns the top of the alt stack.
func (m *Model) PopAlt() (Variable, error) {
	if len(m.Alt) == 0 {
		return Null, ErrPopEmpty
	}
	v := m.Alt[len(m.Alt)-1]
	if err := m.record(Entry{Kind: EntryPopAlt}); err != nil {
		return Null, err
	}
	return v, nil
}

// SetName assigns a diagnostic name to id.
func (m *Model) SetName(id VarID, name string) {
	_ = m.record(Entry{Kind: EntrySetName, ID: id, Name: name})
}

// RemoveName deletes the diagnostic name for id, if any.
func (m *Model) RemoveName(id VarID) {
	_ = m.record(Entry{Kind: EntryRemoveName, ID: id})
}

// RemoveVar deletes id from wherever it lives (main or alt) and removes its
// name. It is silent and idempotent: a missing id is not an error.
func (m *Model) RemoveVar(id VarID) {
	_ = m.record(Entry{Kind: EntryRemoveVar, ID: id})
}

// DecreaseSize shrinks the variable with the given id by one entry. The
// variable must currently be present on the main stack.
func (m *Model) DecreaseSize(id VarID) error {
	return m.record(Entry{Kind: EntryDecreaseSize, Var: Variable{ID: id}})
}

// IncreaseSize grows the variable at the given Main slice index by delta
// entries.
func (m *Model) IncreaseSize(index, delta int) error {
	return m.record(Entry{Kind: EntryIncreaseSize, Index: index, Delta: delta})
}

// apply mutates the model in place for a single journal entry, without
// touching the journal itself. It is used both by the live record path and
// by Replay.
func (m *Model) apply(e Entry) error {
	switch e.Kind {
	case EntryPushMain:
		m.Main = append(m.Main, e.Var)
	case EntryPushAlt:
		m.Alt = append(m.Alt, e.Var)
	case EntryPopMain:
		if len(m.Main) == 0 {
			return ErrPopEmpty
		}
		m.Main = m.Main[:len(m.Main)-1]
	case EntryPopAlt:
		if len(m.Alt) == 0 {
			return ErrPopEmpty
		}
		m.Alt = m.Alt[:len(m.Alt)-1]
	case EntrySetName:
		m.Names[e.ID] = e.Name
	case EntryRemoveName:
		delete(m.Names, e.ID)
	case EntryRemoveVar:
		removeByID(&m.Main, e.ID)
		removeByID(&m.Alt, e.ID)
		delete(m.Names, e.ID)
	case EntryDecreaseSize:
		idx, ok := m.IndexOfMain(e.Var.ID)
		if !ok {
			return fmt.Errorf("stackmodel: decrease-size: variable %d not on main", e.Var.ID)
		}
		m.Main[idx].Size--
	case EntryIncreaseSize:
		if e.Index < 0 || e.Index >= len(m.Main) {
			return fmt.Errorf("stackmodel: increase-size: index %d out of range", e.Index)
		}
		m.Main[e.Index].Size += e.Delta
	default:
		return fmt.Errorf("stackmodel: unknown journal entry kind %d", e.Kind)
	}
	return nil
}

// removeByID deletes the first Variable matching id from seq, if present.
// Silent no-op when absent — remove_var is defined to be idempotent.
func removeByID(seq *[]Variable, id VarID) {
	for i, v := range *seq {
		if v.ID == id {
			*seq = append((*seq)[:i], (*seq)[i+1:]...)
			return
		}
	}
}

// Replay constructs a fresh, journal-disabled Model by applying the first h
// entries of j in order. The returned model's Journal method returns nil:
// replaying a replay would otherwise compound journal growth without bound.
func Replay(j *Journal, h int) (*Model, error) {
	m := &Model{Names: make(map[VarID]string)}
	entries := j.Entries(h)
	for _, e := range entries {
		if err := m.apply(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Equal reports whether m and other hold identical main/alt sequences and
// name maps. Journal state is not part of equality: two models can be
// equivalent while one still has replay capability and the other does not.
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !equalVars(m.Main, other.Main) || !equalVars(m.Alt, other.Alt) {
		return false
	}
	if len(m.Names) != len(other.Names) {
		return false
	}
	for id, name := range m.Names {
		if other.Names[id] != name {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m, including its journal: independently
// mutating the clone (as open_if does for its two branch trackers) never
// touches m.
func (m *Model) Clone() *Model {
	out := &Model{
		Main:  append([]Variable(nil), m.Main...),
		Alt:   append([]Variable(nil), m.Alt...),
		Names: make(map[VarID]string, len(m.Names)),
	}
	for id, name := range m.Names {
		out.Names[id] = name
	}
	if m.journal != nil {
		out.journal = m.journal.Clone()
	}
	return out
}

func equalVars(a, b []Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
