package disasm

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/ir"
)

// coprocAddr decodes the shared pre/post-indexed addressing record used by
// both the FPA and VFP coprocessor load/store forms: an 8-bit word count,
// not a byte count.
func coprocAddr(word uint32) ir.AddrMode {
	return ir.AddrMode{
		Base:      field(word, rnShift, 0xF),
		Offset:    ir.OffsetImm{Value: field(word, 0, 0xFF) * 4},
		Subtract:  !bit(word, uBitShift),
		PreIndex:  bit(word, pBitShift),
		WriteBack: bit(word, wBitShift),
	}
}

// decodeCPTransfer handles the shared LDC/STC-shaped prefix (bits 27..25 =
// 110): FPA's LDF/STF (coprocessor nibble 1) or VFP's VLDR/VSTR (nibble A
// or B), gated by the configured float model.
func decodeCPTransfer(word uint32, cond ir.Condition, model config.FloatModel) (ir.Instr, error) {
	cpNibble := field(word, 8, 0xF)
	addr := coprocAddr(word)
	load := bit(word, lBitShift)

	switch cpNibble {
	case 1:
		if model != config.FloatFPA {
			return nil, &asmerr.BadInstruction{Word: word}
		}
		precision := ir.FPASingle
		if bit(word, bBitShift) {
			precision = ir.FPADouble
		}
		return &ir.FPACPTransfer{Cond: cond, Load: load, Precision: precision, Fd: field(word, rdShift, 0xF), Addr: addr}, nil
	case 0xA, 0xB:
		if model != config.FloatVFP {
			return nil, &asmerr.BadInstruction{Word: word}
		}
		precision := ir.VFPSingle
		if cpNibble == 0xB {
			precision = ir.VFPDouble
		}
		return &ir.VFPCPTransfer{Cond: cond, Load: load, Precision: precision, Sd: field(word, rdShift, 0xF), Addr: addr}, nil
	default:
		return nil, &asmerr.BadInstruction{Word: word}
	}
}

// decodeCDP handles the shared CDP-shaped prefix (bits 27..24 = 1110): FPA
// data ops/compares (bit 4 clear) or the FPA register transfer / VFP family
// (bit 4 set, disambiguated by the bits 11..8 tag nibble).
func decodeCDP(word uint32, cond ir.Condition, model config.FloatModel) (ir.Instr, error) {
	if !bit(word, 4) {
		if model != config.FloatFPA {
			return nil, &asmerr.BadInstruction{Word: word}
		}
		if bit(word, 22) {
			return decodeFPACompare(word, cond), nil
		}
		return decodeFPAData(word, cond), nil
	}

	tag := field(word, 8, 0xF)
	switch tag {
	case 0x1:
		if model != config.FloatFPA {
			return nil, &asmerr.BadInstruction{Word: word}
		}
		return decodeFPATransfer(word, cond), nil
	case 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0xA, 0xB:
		if model != config.FloatVFP {
			return nil, &asmerr.BadInstruction{Word: word}
		}
		return decodeVFP(word, cond, tag)
	default:
		return nil, &asmerr.BadInstruction{Word: word}
	}
}
