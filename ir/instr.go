// Package ir defines the closed instruction model that the encoder and
// disassembler agree on: a tagged record per supported instruction class,
// a sum-typed second operand, and the section/program containers a tiling
// pass fills in and a linker later resolves.
//
// The set of tags is closed and stable. New targets extend it by adding a
// new struct and a new arm of every exhaustive type switch, never by
// type-punning an existing one.
package ir

// Instr is implemented by exactly the instruction-class structs declared in
// this file. The marker method is unexported so the set is closed to this
// package; callers match on the concrete type with a type switch.
type Instr interface {
	instr()
}

// DPOp is a data-processing opcode. The numeric values match the ARM
// encoding in bits 24..21 exactly, so DPOp(word>>21&0xF) is a valid decode.
type DPOp uint32

const (
	OpAND DPOp = iota
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN
)

// IsCompare reports whether op is one of TST/TEQ/CMP/CMN, whose S bit is
// forced to 1 and which write no destination register.
func (op DPOp) IsCompare() bool {
	return op == OpTST || op == OpTEQ || op == OpCMP || op == OpCMN
}

// DataProcessing covers the sixteen AND..MVN opcodes.
type DataProcessing struct {
	Cond     Condition
	Op       DPOp
	SetFlags bool
	Rd       uint32 // ignored by encoders for compare ops
	Rn       uint32 // ignored by MOV/MVN
	Op2      Operand2
}

func (*DataProcessing) instr() {}

// Multiply covers MUL and MLA (Accumulate selects MLA).
type Multiply struct {
	Cond       Condition
	Accumulate bool
	SetFlags   bool
	Rd         uint32
	Rm         uint32 // first source, also named Rm in the architecture reference
	Rs         uint32 // second source
	Rn         uint32 // accumulate addend, meaningful only when Accumulate
}

func (*Multiply) instr() {}

// TransferSize distinguishes word from byte single transfers.
type TransferSize int

const (
	TransferWord TransferSize = iota
	TransferByte
)

// SingleTransfer covers LDR/STR/LDRB/STRB.
type SingleTransfer struct {
	Cond Condition
	Load bool
	Size TransferSize
	Rd   uint32
	Addr AddrMode
}

func (*SingleTransfer) instr() {}

// MiscKind selects among the halfword/signed-byte transfer family, which
// share a single encoding pattern distinct from SingleTransfer.
type MiscKind int

const (
	MiscLDRH MiscKind = iota
	MiscSTRH
	MiscLDRSB
	MiscLDRSH
)

// MiscTransfer covers LDRH/STRH/LDRSB/LDRSH. Offset must be OffsetImm (split
// into hi/lo nibbles by the encoder, 8-bit range) or OffsetReg; a shifted
// register offset is not available in this family.
type MiscTransfer struct {
	Cond      Condition
	Kind      MiscKind
	Rd        uint32
	Rn        uint32
	Offset    MemOffset
	Subtract  bool
	PreIndex  bool
	WriteBack bool
}

func (*MiscTransfer) instr() {}

// MultiMode is the LDM/STM addressing mode, named by direction and whether
// the base is included in the transferred range.
type MultiMode int

const (
	ModeIA MultiMode = iota
	ModeIB
	ModeDA
	ModeDB
)

// MultiTransfer covers LDM/STM and the PUSH/POP pseudo-instructions, which
// are just STMDB/LDMIA against SP with WriteBack forced on.
type MultiTransfer struct {
	Cond      Condition
	Load      bool
	Mode      MultiMode
	Rn        uint32
	WriteBack bool
	RegList   uint16 // bit i set means Ri is in the list
}

func (*MultiTransfer) instr() {}

// NewPush builds a PUSH {reglist} as STMDB sp!.
func NewPush(cond Condition, regList uint16) *MultiTransfer {
	return &MultiTransfer{Cond: cond, Load: false, Mode: ModeDB, Rn: 13, WriteBack: true, RegList: regList}
}

// NewPop builds a POP {reglist} as LDMIA sp!.
func NewPop(cond Condition, regList uint16) *MultiTransfer {
	return &MultiTransfer{Cond: cond, Load: true, Mode: ModeIA, Rn: 13, WriteBack: true, RegList: regList}
}

// BranchTarget is the destination of a Branch instruction.
type BranchTarget interface {
	branchTarget()
}

// LabelTarget is a section-local label, resolved by the encoder's back-patch
// list once the section finishes encoding.
type LabelTarget struct {
	Label int
}

func (LabelTarget) branchTarget() {}

// SectionTarget is a call into another section by index, resolved by the
// linker after all sections are encoded.
type SectionTarget struct {
	Section int
}

func (SectionTarget) branchTarget() {}

// RegTarget is a register holding the branch destination, used by BX/BLX.
type RegTarget struct {
	Reg uint32
}

func (RegTarget) branchTarget() {}

// Branch covers B, BL, and BX. With Exchange set the encoder ignores Link
// and emits BX; BLX is not encoded.
type Branch struct {
	Cond     Condition
	Link     bool
	Exchange bool // BX/BLX form: target must be a RegTarget
	Target   BranchTarget
}

func (*Branch) instr() {}

// SoftwareInterrupt covers SWI/SVC.
type SoftwareInterrupt struct {
	Cond    Condition
	Comment uint32 // 24-bit payload
}

func (*SoftwareInterrupt) instr() {}

// StatusMoveKind selects MRS or MSR.
type StatusMoveKind int

const (
	StatusRead  StatusMoveKind = iota // MRS
	StatusWrite                       // MSR
)

// PSR selects the current or saved program status register.
type PSR int

const (
	PSRCurrent PSR = iota
	PSRSaved
)

// StatusMove covers MRS Rd, CPSR/SPSR and MSR CPSR/SPSR(_f), Rm/#imm.
type StatusMove struct {
	Cond  Condition
	Kind  StatusMoveKind
	Psr   PSR
	Rd    uint32   // destination for MRS
	Src   Operand2 // Reg or Imm12, source for MSR
	Flags bool     // MSR CPSR_f form: write only the flag bits
}

func (*StatusMove) instr() {}

// ConstKind distinguishes the three literal-pool load varieties.
type ConstKind int

const (
	ConstInt     ConstKind = iota // LDR Rd, =value: integer literal pool entry
	ConstProgram                  // LDR Rd, =label: reference into the program's global constant pool
	ConstReal                     // LDF Fd, =value: 64-bit real literal pool entry
)

// LoadConstant covers the LDR/LDF "load from literal pool" pseudo-forms.
// The encoder first tries to fold IntValue into a MOV/MVN and only falls
// back to a pool entry when that fails.
type LoadConstant struct {
	Cond      Condition
	Rd        uint32 // ARM register for ConstInt/ConstProgram, FPA or VFP register (per float model) for ConstReal
	Kind      ConstKind
	IntValue  uint32
	RealValue float64
	LinkTime  bool // ConstInt only: value is unknown until link time (external reference)
	PoolIndex int  // ConstProgram only: index into Program.GlobalConstants
}

func (*LoadConstant) instr() {}

// AddressOfLabel is the ADR pseudo-instruction: computes Rd = address of
// Label using a PC-relative ADD or SUB, resolved as a back-patch.
type AddressOfLabel struct {
	Cond  Condition
	Rd    uint32
	Label int
}

func (*AddressOfLabel) instr() {}

// CondMove is the conditional-move pseudo-instruction. It lowers to an
// optional CMP (skipped when HasCmp is false because a preceding real
// comparison already set the flags the caller wants) followed by two
// conditionally executed MOVs targeting Rd.
type CondMove struct {
	Cond      Condition // unused by the lowering; kept for symmetry with other Instr values
	HasCmp    bool
	CmpRn     uint32
	CmpOp2    Operand2
	TrueCond  Condition
	FalseCond Condition
	Rd        uint32
	TrueVal   Operand2
	FalseVal  Operand2
}

func (*CondMove) instr() {}
