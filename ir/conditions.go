package ir

// Condition is the 4-bit ARM condition field occupying bits 31..28 of every
// encoded word. The zero value is CondEQ, not CondAL; callers that want the
// "always execute" default must say so explicitly (EncodeSection encodes an
// unset Cond on a zero-valued instruction as EQ; the constructors in this
// package set Cond explicitly).
type Condition uint32

const (
	CondEQ Condition = iota // Z set
	CondNE                  // Z clear
	CondCS                  // C set (HS)
	CondCC                  // C clear (LO)
	CondMI                  // N set
	CondPL                  // N clear
	CondVS                  // V set
	CondVC                  // V clear
	CondHI                  // C set and Z clear
	CondLS                  // C clear or Z set
	CondGE                  // N == V
	CondLT                  // N != V
	CondGT                  // Z clear and N == V
	CondLE                  // Z set or N != V
	CondAL                  // always
	condReserved            // NV, historically "never"; not emitted
)

// CondHS and CondLO are the carry-flag aliases used by comparison mnemonics.
const (
	CondHS = CondCS
	CondLO = CondCC
)

// Valid reports whether c is one of the 15 usable condition codes (all but
// the reserved NV encoding).
func (c Condition) Valid() bool {
	return c <= CondAL
}

// ShiftKind selects how a register operand is modified before use in a
// data-processing Operand2 or a memory addressing mode.
type ShiftKind uint32

const (
	LSL ShiftKind = iota
	LSR
	ASR
	ROR
	RRX
)
