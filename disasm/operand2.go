package disasm

import "github.com/zinc-lang/armbe/ir"

// decodeOperand2 decodes a data-processing instruction's Operand2 field.
// Unlike the single-transfer family, bit 25 here means "immediate" (1) or
// "register-based" (0) directly, with no inversion.
func decodeOperand2(word uint32) (ir.Operand2, error) {
	if bit(word, 25) {
		rotate := field(word, 8, 0xF) * 2
		imm := field(word, 0, 0xFF)
		value := imm
		if rotate != 0 {
			value = (imm >> rotate) | (imm << (32 - rotate))
		}
		return ir.Imm12{Value: value}, nil
	}

	reg := field(word, 0, 0xF)
	kindBits := field(word, 5, 0x3)
	kind := decodeShiftKind(kindBits)

	if bit(word, 4) {
		shiftReg := field(word, 8, 0xF)
		return ir.NewShiftedRegByReg(reg, kind, shiftReg), nil
	}

	amount := field(word, 7, 0x1F)
	if kindBits == 0 && amount == 0 {
		return ir.Reg{Num: reg}, nil
	}
	if kindBits == 3 && amount == 0 {
		return ir.NewShiftedReg(reg, ir.RRX, 0), nil
	}
	return ir.NewShiftedReg(reg, kind, amount), nil
}
