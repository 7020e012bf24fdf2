package disasm

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// decodeVFP dispatches on the bits 11..8 tag nibble decodeCDP already
// checked is one of the VFP family's reserved values.
func decodeVFP(word uint32, cond ir.Condition, tag uint32) (ir.Instr, error) {
	switch tag {
	case 0x2:
		return decodeVFPTransfer(word, cond), nil
	case 0x3:
		return decodeVFPCompare(word, cond), nil
	case 0x4:
		return decodeVFPCopy(word, cond), nil
	case 0x5:
		return decodeVFPSqrt(word, cond), nil
	case 0x6:
		return decodeVFPCvt(word, cond), nil
	case 0x7:
		return decodeVFPSysReg(word, cond), nil
	case 0x8:
		return decodeVFPTranDouble(word, cond), nil
	case 0xA, 0xB:
		return decodeVFPData(word, cond, tag), nil
	default:
		return nil, &asmerr.BadInstruction{Word: word}
	}
}

func vfpPrecisionFromTag(tag uint32) ir.VFPPrecision {
	if tag == 0xB {
		return ir.VFPDouble
	}
	return ir.VFPSingle
}

func decodeVFPData(word uint32, cond ir.Condition, tag uint32) ir.Instr {
	op := field(word, 23, 1)<<3 | field(word, 21, 1)<<2 | field(word, 20, 1)<<1 | field(word, 6, 1)
	return &ir.VFPData{
		Cond:      cond,
		Op:        ir.VFPDataOp(op),
		Precision: vfpPrecisionFromTag(tag),
		Sd:        field(word, rdShift, 0xF),
		Sn:        field(word, rnShift, 0xF),
		Sm:        field(word, 0, 0xF),
	}
}

func decodeVFPTransfer(word uint32, cond ir.Condition) ir.Instr {
	return &ir.VFPTransfer{
		Cond:  cond,
		ToVFP: !bit(word, lBitShift),
		Rd:    field(word, rdShift, 0xF),
		Sn:    field(word, rnShift, 0xF),
	}
}

func decodeVFPCompare(word uint32, cond ir.Condition) ir.Instr {
	precision := ir.VFPSingle
	if bit(word, bBitShift) {
		precision = ir.VFPDouble
	}
	return &ir.VFPCompare{
		Cond:      cond,
		Precision: precision,
		Exception: bit(word, uBitShift),
		Sd:        field(word, rdShift, 0xF),
		Sm:        field(word, 0, 0xF),
		WithZero:  bit(word, 16),
	}
}

func decodeVFPCopy(word uint32, cond ir.Condition) ir.Instr {
	precision := ir.VFPSingle
	if bit(word, bBitShift) {
		precision = ir.VFPDouble
	}
	return &ir.VFPCopy{Cond: cond, Precision: precision, Sd: field(word, rdShift, 0xF), Sm: field(word, 0, 0xF)}
}

func decodeVFPSqrt(word uint32, cond ir.Condition) ir.Instr {
	precision := ir.VFPSingle
	if bit(word, bBitShift) {
		precision = ir.VFPDouble
	}
	return &ir.VFPSqrt{Cond: cond, Precision: precision, Sd: field(word, rdShift, 0xF), Sm: field(word, 0, 0xF)}
}

func decodeVFPCvt(word uint32, cond ir.Condition) ir.Instr {
	return &ir.VFPCvt{
		Cond:      cond,
		Kind:      ir.VFPCvtKind(field(word, 18, 0x3)),
		RoundZero: bit(word, uBitShift),
		Unsigned:  bit(word, bBitShift),
		Sd:        field(word, rdShift, 0xF),
		Sm:        field(word, 0, 0xF),
	}
}

func decodeVFPSysReg(word uint32, cond ir.Condition) ir.Instr {
	kind := ir.VFPSysWrite
	if bit(word, lBitShift) {
		kind = ir.VFPSysRead
	}
	return &ir.VFPSysReg{Cond: cond, Kind: kind, Rd: field(word, rdShift, 0xF)}
}

func decodeVFPTranDouble(word uint32, cond ir.Condition) ir.Instr {
	return &ir.VFPTranDouble{
		Cond:  cond,
		ToVFP: bit(word, bBitShift),
		Rd:    field(word, rdShift, 0xF),
		Rn:    field(word, rnShift, 0xF),
		Dm:    field(word, 0, 0xF),
	}
}
