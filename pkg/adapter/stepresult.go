package adapter

// StepResult is one executed instruction's effect on the machine state, with
// the previous step's stacks carried alongside so a caller can diff what
// changed without retaining history itself (spec.md §6's diagnostic output,
// supplemented per SPEC_FULL.md §12).
type StepResult struct {
	Disasm       string
	Stack        []string // hex-encoded, bottom to top
	AltStack     []string
	PrevStack    []string
	PrevAltStack []string
	Done         bool
	Err          error
}

// PushedToMain reports the hex-encoded items of Stack that follow the
// longest prefix it shares with PrevStack, bottom to top — the usual case
// being exactly the single item an opcode just pushed. Items that were only
// reordered (OP_SWAP, OP_ROT) are reported as well.
func (r *StepResult) PushedToMain() []string {
	return diff(r.PrevStack, r.Stack)
}

// PoppedFromMain reports the hex-encoded items of PrevStack that follow the
// longest prefix it shares with Stack, bottom to top.
func (r *StepResult) PoppedFromMain() []string {
	return diff(r.Stack, r.PrevStack)
}

// diff returns the suffix of b that follows the longest common prefix of a
// and b, comparing positionally from the bottom (start of slice), or nil
// when b is entirely covered by that prefix.
func diff(a, b []string) []string {
	la, lb := len(a), len(b)
	common := 0
	for common < la && common < lb && a[common] == b[common] {
		common++
	}
	if common >= lb {
		return nil
	}
	return append([]string(nil), b[common:]...)
}
