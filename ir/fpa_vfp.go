package ir

// FPAPrecision selects the FPA coprocessor's operand width.
type FPAPrecision int

const (
	FPASingle FPAPrecision = iota
	FPADouble
	FPAExtended
)

// FPADataOp is one of the sixteen dyadic/monadic FPA arithmetic opcodes,
// indexed the way the coprocessor's data-operation field lays them out.
type FPADataOp int

const (
	FPAADF FPADataOp = iota
	FPAMUF
	FPASUF
	FPARSF
	FPADVF
	FPARDF
	FPAPOW
	FPARPW
	FPARMF
	FPAFML
	FPAFDV
	FPAFRD
	FPAPOL
	FPAMVF
	FPAMNF
	FPAABS
)

// FPAData covers the FPA coprocessor data operations (ADF, MUF, ..., ABS).
// When Imm is set, Fm is replaced by one of the eight FPA immediate
// constants (0.0, 1.0, 2.0, 3.0, 4.0, 5.0, 0.5, 10.0) selected by ImmValue.
type FPAData struct {
	Cond      Condition
	Op        FPADataOp
	Precision FPAPrecision
	Rounding  uint32 // 2-bit rounding mode
	Fd        uint32
	Fn        uint32
	Fm        uint32
	Imm       bool
	ImmValue  uint32
}

func (*FPAData) instr() {}

// FPATransfer covers FLT (ARM register -> FPA register) and FIX (the
// reverse), the coprocessor register-transfer class distinct from load/
// store.
type FPATransfer struct {
	Cond      Condition
	ToFloat   bool // FLT direction; false selects FIX
	Precision FPAPrecision
	Rounding  uint32
	Rd        uint32 // ARM register
	Fn        uint32 // FPA register
}

func (*FPATransfer) instr() {}

// FPACompare covers CMF/CNF and their exception-raising E variants.
type FPACompare struct {
	Cond      Condition
	Negate    bool // CNF vs CMF
	Exception bool
	Fn        uint32
	Fm        uint32
	Imm       bool
	ImmValue  uint32
}

func (*FPACompare) instr() {}

// FPACPTransfer covers LDF/STF, the FPA coprocessor load/store class.
type FPACPTransfer struct {
	Cond      Condition
	Load      bool
	Precision FPAPrecision
	Fd        uint32
	Addr      AddrMode
}

func (*FPACPTransfer) instr() {}

// FPALoadConstant loads a 64-bit real literal directly into an FPA register
// from the section's real-constant pool, distinct from FPACPTransfer
// because the literal does not yet have a fixed address.
type FPALoadConstant struct {
	Cond      Condition
	Fd        uint32
	Precision FPAPrecision
	Value     float64
}

func (*FPALoadConstant) instr() {}

// VFPPrecision selects single or double precision for the VFP coprocessor.
type VFPPrecision int

const (
	VFPSingle VFPPrecision = iota
	VFPDouble
)

// VFPDataOp is a VFP dyadic or monadic arithmetic opcode.
type VFPDataOp int

const (
	VFPAdd VFPDataOp = iota
	VFPSub
	VFPMul
	VFPDiv
	VFPNeg
	VFPAbs
)

// VFPData covers VADD/VSUB/VMUL/VDIV/VNEG/VABS. Sn/Sm are unused by the
// monadic opcodes (Neg, Abs).
type VFPData struct {
	Cond      Condition
	Op        VFPDataOp
	Precision VFPPrecision
	Sd        uint32
	Sn        uint32
	Sm        uint32
}

func (*VFPData) instr() {}

// VFPTransfer covers VMOV between a single ARM core register and a
// single-precision VFP register.
type VFPTransfer struct {
	Cond  Condition
	ToVFP bool
	Rd    uint32
	Sn    uint32
}

func (*VFPTransfer) instr() {}

// VFPCompare covers VCMP/VCMPE, including the #0.0-immediate form.
type VFPCompare struct {
	Cond      Condition
	Precision VFPPrecision
	Exception bool
	Sd        uint32
	Sm        uint32
	WithZero  bool
}

func (*VFPCompare) instr() {}

// VFPCopy covers same-precision VMOV between two VFP registers.
type VFPCopy struct {
	Cond      Condition
	Precision VFPPrecision
	Sd        uint32
	Sm        uint32
}

func (*VFPCopy) instr() {}

// VFPSqrt covers VSQRT.
type VFPSqrt struct {
	Cond      Condition
	Precision VFPPrecision
	Sd        uint32
	Sm        uint32
}

func (*VFPSqrt) instr() {}

// VFPCvtKind selects a VCVT conversion direction.
type VFPCvtKind int

const (
	CvtFloatToInt VFPCvtKind = iota
	CvtIntToFloat
	CvtSingleToDouble
	CvtDoubleToSingle
)

// VFPCvt covers VCVT's four conversion directions.
type VFPCvt struct {
	Cond      Condition
	Kind      VFPCvtKind
	RoundZero bool // VCVTR rounds to nearest; VCVT with RoundZero truncates toward zero
	Unsigned  bool // meaningful for the int<->float directions
	Sd        uint32
	Sm        uint32
}

func (*VFPCvt) instr() {}

// VFPSysRegKind selects VMRS or VMSR, the FPSCR<->ARM register transfer.
type VFPSysRegKind int

const (
	VFPSysRead  VFPSysRegKind = iota // VMRS
	VFPSysWrite                      // VMSR
)

// VFPSysReg covers VMRS/VMSR against FPSCR. Rd == 15 on a VMRS means "copy
// the NZCV flags into APSR" rather than into a general register.
type VFPSysReg struct {
	Cond Condition
	Kind VFPSysRegKind
	Rd   uint32
}

func (*VFPSysReg) instr() {}

// VFPTranDouble covers VMOV between a register pair and a double-precision
// VFP register.
type VFPTranDouble struct {
	Cond  Condition
	ToVFP bool
	Rd    uint32
	Rn    uint32
	Dm    uint32
}

func (*VFPTranDouble) instr() {}

// VFPCPTransfer covers VLDR/VSTR.
type VFPCPTransfer struct {
	Cond      Condition
	Load      bool
	Precision VFPPrecision
	Sd        uint32
	Addr      AddrMode
}

func (*VFPCPTransfer) instr() {}

// SIMDOp is one of the ARMv6 SIMD dyadic byte/halfword lane operations.
type SIMDOp int

const (
	SIMDSAdd8 SIMDOp = iota
	SIMDSSub8
	SIMDUAdd8
	SIMDUSub8
	SIMDSAdd16
	SIMDSSub16
	SIMDUAdd16
	SIMDUSub16
)

// SIMDDyadic covers the ARMv6 packed-lane add/subtract family.
type SIMDDyadic struct {
	Cond Condition
	Op   SIMDOp
	Rd   uint32
	Rn   uint32
	Rm   uint32
}

func (*SIMDDyadic) instr() {}

// SignExtendKind selects among the ARMv6 extend instructions.
type SignExtendKind int

const (
	SXTB SignExtendKind = iota
	SXTH
	UXTB
	UXTH
)

// SignExtend covers SXTB/SXTH/UXTB/UXTH, each of which may rotate Rm right
// by 0, 8, 16, or 24 bits before extending.
type SignExtend struct {
	Cond   Condition
	Kind   SignExtendKind
	Rd     uint32
	Rm     uint32
	Rotate uint32
}

func (*SignExtend) instr() {}
