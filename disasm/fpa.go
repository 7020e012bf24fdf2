package disasm

import "github.com/zinc-lang/armbe/ir"

func decodeFPAData(word uint32, cond ir.Condition) ir.Instr {
	d := &ir.FPAData{
		Cond:      cond,
		Op:        ir.FPADataOp(field(word, 20, 0xF)),
		Precision: ir.FPAPrecision(field(word, 18, 0x3)),
		Rounding:  field(word, 16, 0x3),
		Fd:        field(word, rdShift, 0xF),
		Fn:        field(word, 8, 0xF),
	}
	if bit(word, 7) {
		d.Imm = true
		d.ImmValue = field(word, 0, 0x7)
	} else {
		d.Fm = field(word, 0, 0xF)
	}
	return d
}

func decodeFPATransfer(word uint32, cond ir.Condition) ir.Instr {
	return &ir.FPATransfer{
		Cond:      cond,
		ToFloat:   !bit(word, lBitShift),
		Precision: ir.FPAPrecision(field(word, 18, 0x3)),
		Rounding:  field(word, 16, 0x3),
		Rd:        field(word, rdShift, 0xF),
		Fn:        field(word, 0, 0xF),
	}
}

func decodeFPACompare(word uint32, cond ir.Condition) ir.Instr {
	c := &ir.FPACompare{
		Cond:      cond,
		Negate:    bit(word, uBitShift),
		Exception: bit(word, 21),
		Fn:        field(word, rnShift, 0xF),
	}
	if bit(word, 7) {
		c.Imm = true
		c.ImmValue = field(word, 0, 0x7)
	} else {
		c.Fm = field(word, 0, 0xF)
	}
	return c
}
