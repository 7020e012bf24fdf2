package disasm

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// decodeMedia handles the ARMv6 media space (bits 27..23 = 01100 or 01101,
// bit 4 set): the packed-arithmetic SIMDDyadic family, tagged by bits 11..8
// = 1111, and the SignExtend family, tagged by bits 19..16 = 1111. Neither
// depends on the configured float model.
func decodeMedia(word uint32, cond ir.Condition) (ir.Instr, error) {
	if field(word, 8, 0xF) == 0xF {
		return &ir.SIMDDyadic{
			Cond: cond,
			Op:   ir.SIMDOp(field(word, 5, 0x7)),
			Rd:   field(word, rdShift, 0xF),
			Rn:   field(word, rnShift, 0xF),
			Rm:   field(word, 0, 0xF),
		}, nil
	}
	if field(word, 16, 0xF) == 0xF {
		return &ir.SignExtend{
			Cond:   cond,
			Kind:   ir.SignExtendKind(field(word, 21, 0x3)),
			Rd:     field(word, rdShift, 0xF),
			Rm:     field(word, 0, 0xF),
			Rotate: field(word, 10, 0x3) * 8,
		}, nil
	}
	return nil, &asmerr.BadInstruction{Word: word}
}
