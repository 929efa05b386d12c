// Package scriptfrag holds the Fragment type: an opaque, concatenable run of
// Bitcoin Script bytes. Every higher layer in this module treats a Fragment
// as an indivisible value — it never inspects or rewrites one in place.
package scriptfrag

import (
	"github.com/btcsuite/btcd/txscript"
)

// Fragment is a run of compiled Bitcoin Script bytes emitted by a single
// Stack Tracker verb. It may be empty.
type Fragment struct {
	raw []byte
}

// Empty returns a Fragment with no bytes.
func Empty() Fragment {
	return Fragment{}
}

// FromOpcode returns a Fragment holding the single given opcode byte.
func FromOpcode(op byte) Fragment {
	return Fragment{raw: []byte{op}}
}

// FromRawBytes wraps an already-compiled byte slice as a Fragment. The
// caller must ensure raw is valid, minimally-encoded Script.
func FromRawBytes(raw []byte) Fragment {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Fragment{raw: cp}
}

// FromInteger returns a Fragment that pushes n onto the stack using the
// shortest valid encoding: OP_0, OP_1NEGATE, OP_1..OP_16, or a minimal push
// of n's little-endian two's-complement bytes. It defers to
// txscript.ScriptBuilder, which already implements Bitcoin's consensus
// minimal-encoding rules.
func FromInteger(n int64) Fragment {
	b, err := txscript.NewScriptBuilder().AddInt64(n).Script()
	if err != nil {
		// AddInt64 only fails for pushes exceeding the max script element
		// size, which cannot happen for an int64. A failure here means the
		// builder's own invariants broke.
		panic(err)
	}
	return Fragment{raw: b}
}

// FromData returns a Fragment that minimally pushes the given raw bytes.
func FromData(data []byte) Fragment {
	b, err := txscript.NewScriptBuilder().AddData(data).Script()
	if err != nil {
		panic(err)
	}
	return Fragment{raw: b}
}

// Append concatenates other onto the receiver, returning the combined
// Fragment. The receiver and other are left unmodified.
func (f Fragment) Append(other Fragment) Fragment {
	out := make([]byte, 0, len(f.raw)+len(other.raw))
	out = append(out, f.raw...)
	out = append(out, other.raw...)
	return Fragment{raw: out}
}

// Bytes returns the compiled Script bytes. The returned slice must not be
// mutated by the caller.
func (f Fragment) Bytes() []byte {
	return f.raw
}

// Len reports the number of compiled bytes in the fragment.
func (f Fragment) Len() int {
	return len(f.raw)
}

// Instruction is one decoded element of a Script: either a single-byte
// opcode or a data push. Op is always set; Data is non-nil only for pushes.
type Instruction struct {
	Op   byte
	Data []byte
}

// IsPush reports whether the instruction is a data push rather than a bare
// opcode.
func (i Instruction) IsPush() bool {
	return i.Data != nil
}

// Decode returns the instruction stream for the fragment. Script version 0
// (base tapscript) governs minimal-encoding rules, matching the single
// script version this module ever compiles against.
func (f Fragment) Decode() ([]Instruction, error) {
	var out []Instruction
	tok := txscript.MakeScriptTokenizer(0, f.raw)
	for tok.Next() {
		instr := Instruction{Op: tok.Opcode()}
		if d := tok.Data(); d != nil {
			instr.Data = append([]byte(nil), d...)
		}
		out = append(out, instr)
	}
	if err := tok.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode reassembles a Script from a decoded instruction list, the inverse
// of Decode. Pushes are re-minimized via txscript.ScriptBuilder so that
// round-tripping through Decode/Encode never produces non-minimal pushes.
func Encode(instrs []Instruction) (Fragment, error) {
	b := txscript.NewScriptBuilder()
	for _, instr := range instrs {
		if instr.IsPush() {
			b.AddData(instr.Data)
			continue
		}
		b.AddOp(instr.Op)
	}
	raw, err := b.Script()
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{raw: raw}, nil
}
