// Package optimizer is the Peephole Optimiser: it decodes a compiled Script
// Fragment, rewrites the recognised patterns of spec.md §4.4 in a single
// forward pass, and re-encodes the result. It never changes execution
// semantics.
package optimizer

import (
	"github.com/ArkLabsHQ/tapstack/pkg/scriptfrag"
	"github.com/btcsuite/btcd/txscript"
	"github.com/sirupsen/logrus"
)

// dupSequenceTable maps the number of successor pushes following a digit's
// first (anchor) occurrence — not counting the anchor itself — to the
// replacement sequence covering those successors. A run of N identical
// digit pushes has N-1 successors, so this table is keyed 3..15 for runs of
// 4..16. Each entry names how many top items that step's dup opcode
// duplicates: OP_DUP=1, OP_2DUP=2, OP_3DUP=3. sum(entry) always equals the
// key, so the anchor push plus the replacement sequence reproduces exactly
// N stack entries — the same depth the original run of N pushes produced.
var dupSequenceTable = map[int][]int{
	3:  {1, 2},
	4:  {1, 1, 2},
	5:  {1, 2, 2},
	6:  {1, 2, 3},
	7:  {1, 2, 2, 2},
	8:  {1, 2, 2, 3},
	9:  {1, 2, 3, 3},
	10: {1, 2, 2, 2, 3},
	11: {1, 2, 2, 3, 3},
	12: {1, 2, 3, 3, 3},
	13: {1, 2, 2, 2, 3, 3},
	14: {1, 2, 2, 3, 3, 3},
	15: {1, 2, 3, 3, 3, 3},
}

func dupOpcodeFor(width int) byte {
	switch width {
	case 1:
		return txscript.OP_DUP
	case 2:
		return txscript.OP_2DUP
	case 3:
		return txscript.OP_3DUP
	}
	panic("optimizer: dup sequence table holds an entry outside {1,2,3}")
}

// digitOf reports the small integer an instruction pushes, 0..16, if it is
// one of the minimal single-instruction encodings Script uses for it:
// OP_0 (or an empty data push) for 0, OP_1..OP_16 for 1..16.
func digitOf(instr scriptfrag.Instruction) (int, bool) {
	if instr.IsPush() {
		if len(instr.Data) == 0 {
			return 0, true
		}
		return 0, false
	}
	switch {
	case instr.Op == txscript.OP_0:
		return 0, true
	case instr.Op >= txscript.OP_1 && instr.Op <= txscript.OP_16:
		return int(instr.Op-txscript.OP_1) + 1, true
	}
	return 0, false
}

func sameInstruction(a, b scriptfrag.Instruction) bool {
	if a.Op != b.Op || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

func op(o byte) scriptfrag.Instruction { return scriptfrag.Instruction{Op: o} }

// Optimize rewrites the recognised peephole patterns in frag (spec.md §4.4,
// rules R1-R4) and returns an equivalent, usually shorter, Script. A
// fragment that fails to decode is logged and returned unmodified, matching
// the decoder-error "log and skip" policy at fragment granularity — the
// underlying tokenizer offers no mid-stream resync point to skip a single
// malformed instruction and keep going.
func Optimize(frag scriptfrag.Fragment) scriptfrag.Fragment {
	return optimize(frag, true)
}

// OptimizeRules behaves like Optimize, except rule R4 (the dup-run
// collapse) only fires when enableDupRunCollapse is true — the
// internal/config OptimizerDupRunRewriteEnabled tunable. R1-R3 always run.
func OptimizeRules(frag scriptfrag.Fragment, enableDupRunCollapse bool) scriptfrag.Fragment {
	return optimize(frag, enableDupRunCollapse)
}

func optimize(frag scriptfrag.Fragment, enableDupRunCollapse bool) scriptfrag.Fragment {
	instrs, err := frag.Decode()
	if err != nil {
		logrus.WithError(err).Warn("optimizer: fragment failed to decode, leaving unoptimised")
		return frag
	}

	list := append([]scriptfrag.Instruction(nil), instrs...)
	i := 0
	for i < len(list) {
		if next, ok := tryPickOverDup(list, i); ok {
			list, i = next, stepBack(i)
			continue
		}
		if next, ok := tryRollRotSwap(list, i); ok {
			list, i = next, stepBack(i)
			continue
		}
		if next, ok := tryAltCancel(list, i); ok {
			list, i = next, stepBack(i)
			continue
		}
		if enableDupRunCollapse {
			if next, newI, ok := tryDupRunCollapse(list, i); ok {
				list, i = next, newI
				continue
			}
		}
		i++
	}

	out, err := scriptfrag.Encode(list)
	if err != nil {
		logrus.WithError(err).Warn("optimizer: rewritten fragment failed to re-encode, leaving unoptimised")
		return frag
	}
	return out
}

func stepBack(i int) int {
	if i == 0 {
		return 0
	}
	return i - 1
}

// tryPickOverDup implements R1: digit(0) OP_PICK -> OP_DUP, digit(1)
// OP_PICK -> OP_OVER.
func tryPickOverDup(list []scriptfrag.Instruction, i int) ([]scriptfrag.Instruction, bool) {
	if i == 0 || list[i].IsPush() || list[i].Op != txscript.OP_PICK {
		return nil, false
	}
	d, ok := digitOf(list[i-1])
	if !ok {
		return nil, false
	}
	switch d {
	case 0:
		return splice(list, i-1, i+1, op(txscript.OP_DUP)), true
	case 1:
		return splice(list, i-1, i+1, op(txscript.OP_OVER)), true
	}
	return nil, false
}

// tryRollRotSwap implements R2: digit(0) OP_ROLL -> identity (deleted),
// digit(1) OP_ROLL -> OP_SWAP, digit(2) OP_ROLL -> OP_ROT.
func tryRollRotSwap(list []scriptfrag.Instruction, i int) ([]scriptfrag.Instruction, bool) {
	if i == 0 || list[i].IsPush() || list[i].Op != txscript.OP_ROLL {
		return nil, false
	}
	d, ok := digitOf(list[i-1])
	if !ok {
		return nil, false
	}
	switch d {
	case 0:
		return splice(list, i-1, i+1), true
	case 1:
		return splice(list, i-1, i+1, op(txscript.OP_SWAP)), true
	case 2:
		return splice(list, i-1, i+1, op(txscript.OP_ROT)), true
	}
	return nil, false
}

// tryAltCancel implements R3: OP_TOALTSTACK immediately followed by
// OP_FROMALTSTACK is a no-op.
func tryAltCancel(list []scriptfrag.Instruction, i int) ([]scriptfrag.Instruction, bool) {
	if i == 0 || list[i].IsPush() || list[i].Op != txscript.OP_FROMALTSTACK {
		return nil, false
	}
	if list[i-1].IsPush() || list[i-1].Op != txscript.OP_TOALTSTACK {
		return nil, false
	}
	return splice(list, i-1, i+1), true
}

// tryDupRunCollapse implements R4: a maximal run of N identical digit
// pushes, N in [4,16], collapses to the literal first (anchor) push
// followed by the table's dup sequence covering the N-1 successor copies.
// The table is keyed by the successor count (N-1), not by N itself.
func tryDupRunCollapse(list []scriptfrag.Instruction, i int) ([]scriptfrag.Instruction, int, bool) {
	if _, ok := digitOf(list[i]); !ok {
		return nil, 0, false
	}
	successors := 0
	for i+1+successors < len(list) && sameInstruction(list[i], list[i+1+successors]) {
		successors++
	}
	seq, ok := dupSequenceTable[successors]
	if !ok {
		return nil, 0, false
	}
	repl := make([]scriptfrag.Instruction, len(seq))
	for k, width := range seq {
		repl[k] = op(dupOpcodeFor(width))
	}
	out := splice(list, i+1, i+1+successors, repl...)
	return out, i + 1 + len(repl), true
}

// splice replaces list[start:end] with replacement, copying to avoid
// aliasing the input slice.
func splice(list []scriptfrag.Instruction, start, end int, replacement ...scriptfrag.Instruction) []scriptfrag.Instruction {
	out := make([]scriptfrag.Instruction, 0, len(list)-(end-start)+len(replacement))
	out = append(out, list[:start]...)
	out = append(out, replacement...)
	out = append(out, list[end:]...)
	return out
}
