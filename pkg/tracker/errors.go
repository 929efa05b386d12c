package tracker

import "errors"

// Symbolic bugs: the caller violated a Tracker invariant. These are fatal —
// the Tracker surfaces them synchronously and does not attempt recovery.
var (
	// ErrVarNotOnMain is returned when a verb requires its operand to be
	// present on the main stack and it is not.
	ErrVarNotOnMain = errors.New("tracker: variable is not on the main stack")

	// ErrNotTopOfMain is returned when a verb requires its operand to be the
	// top of the main stack (e.g. drop, explode).
	ErrNotTopOfMain = errors.New("tracker: variable is not the top of the main stack")

	// ErrAlreadyTop is returned by join when its target has nothing above it
	// to absorb.
	ErrAlreadyTop = errors.New("tracker: variable is already the top of the main stack")

	// ErrSizeMismatch is returned when two variables that must be
	// size-equal are not.
	ErrSizeMismatch = errors.New("tracker: variables are not size-equal")

	// ErrSameVariable is returned when two variables that must be distinct
	// share an id.
	ErrSameVariable = errors.New("tracker: variables must be distinct")

	// ErrBranchMismatch is returned by end_if when the two branches leave the
	// main stack at different concrete depths, or when a branch holds fewer
	// fragments than the parent. Consumed counts and the sizes of individual
	// output variables are not compared.
	ErrBranchMismatch = errors.New("tracker: if/else branches must consume and produce identical shapes")

	// ErrRefusedOpcode is returned by op_ifdup and op_roll, which this
	// surface refuses outright: their effect is not knowable symbolically.
	ErrRefusedOpcode = errors.New("tracker: opcode refused at the symbolic surface")

	// ErrNonUnitSize is returned when a verb that only operates on raw,
	// single-slot stack values (swap, rot, dup, tuck, ...) is given a
	// variable whose size is not 1.
	ErrNonUnitSize = errors.New("tracker: operand must be a single-entry variable")

	// ErrUnknownBreakpoint is returned when a breakpoint name has no
	// recorded position.
	ErrUnknownBreakpoint = errors.New("tracker: no breakpoint with that name")
)

// ErrStackTooDeep names the condition CeilingExceeded reports: a verb's
// commit left the main stack deeper than the ceiling internal/config
// supplies. No verb returns it; the Tracker only latches a flag, which
// CeilingExceeded exposes. It is not a symbolic bug: the
// Tracker itself stays internally consistent, but the caller is authoring a
// Script too deep for the ceiling it configured.
var ErrStackTooDeep = errors.New("tracker: main stack depth exceeds configured ceiling")
