package ir

// Operand2 is the ARM data-processing second operand: a 12-bit immediate, a
// bare register, or a register modified by a shift. The interface is closed
// by an unexported marker method; the tiling pass that produces instruction
// records may only use the three implementations below.
type Operand2 interface {
	operand2()
}

// Imm12 is an unencoded 32-bit value that the encoder must fit into the
// rotated 8-bit immediate form (value, rotate-by-even-amount). Not every
// 32-bit value has such an encoding; EncodeSection reports an unencodable
// data-processing immediate as an *asmerr.AssertionFailed, since §7 of the
// contract reserves BadAdr for Adr back-patches specifically.
type Imm12 struct {
	Value uint32
}

func (Imm12) operand2() {}

// Reg is a bare register operand with no shift applied.
type Reg struct {
	Num uint32
}

func (Reg) operand2() {}

// ShiftedReg is a register modified by a shift, either by an immediate
// amount or by the low byte of another register.
type ShiftedReg struct {
	Num      uint32
	Kind     ShiftKind
	Amount   uint32 // immediate shift amount, 0..31, or 32 for LSR/ASR (see NewShiftedReg); meaningless when ByRegister
	ByRegister bool
	ShiftReg uint32 // valid when ByRegister is true
}

func (ShiftedReg) operand2() {}

// NewShiftedReg builds an immediate-amount shifted register operand,
// normalizing the ISA's "0 means 32" quirk for LSR and ASR.
func NewShiftedReg(reg uint32, kind ShiftKind, amount uint32) ShiftedReg {
	if (kind == LSR || kind == ASR) && amount == 0 {
		amount = 32
	}
	return ShiftedReg{Num: reg, Kind: kind, Amount: amount}
}

// NewShiftedRegByReg builds a register-amount shifted register operand.
func NewShiftedRegByReg(reg uint32, kind ShiftKind, shiftReg uint32) ShiftedReg {
	return ShiftedReg{Num: reg, Kind: kind, ByRegister: true, ShiftReg: shiftReg}
}

// MemOffset is the addressing-mode offset used by single-register and
// miscellaneous half/byte transfers: an immediate magnitude, a bare
// register, or (single-transfer only) a shifted register.
type MemOffset interface {
	memOffset()
}

// OffsetImm is an unsigned immediate magnitude; its width (12 bits for
// LDR/STR, 8 bits for the halfword/signed-byte family) is enforced by the
// encoder, not by this type.
type OffsetImm struct {
	Value uint32
}

func (OffsetImm) memOffset() {}

// OffsetReg is a bare register offset.
type OffsetReg struct {
	Num uint32
}

func (OffsetReg) memOffset() {}

// OffsetShiftedReg is a shifted register offset, valid only for the single
// word/byte transfer family.
type OffsetShiftedReg struct {
	Num    uint32
	Kind   ShiftKind
	Amount uint32
}

func (OffsetShiftedReg) memOffset() {}

// AddrMode is the shared pre/post-indexed addressing record used by
// single-word transfers and the FPA/VFP coprocessor load/store forms.
type AddrMode struct {
	Base      uint32
	Offset    MemOffset
	Subtract  bool // offset is subtracted rather than added
	PreIndex  bool // P bit: index before transfer
	WriteBack bool // W bit: write the modified address back to Base
}
