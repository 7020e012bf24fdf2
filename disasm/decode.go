// Package disasm turns a 32-bit ARM instruction word back into an ir.Instr,
// the inverse of the encoder package. Decode applies a fixed cascade of
// field-mask tests, in the same order the encoder's instruction classes are
// laid out in the word: the first pattern that matches wins, and a word
// that matches none of them is refused with asmerr.BadInstruction.
package disasm

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/ir"
)

const (
	conditionShift = 28
	opcodeShift    = 21
	sBitShift      = 20
	rnShift        = 16
	rdShift        = 12
	rsShift        = 8
	pBitShift      = 24
	uBitShift      = 23
	bBitShift      = 22
	wBitShift      = 21
	lBitShift      = 20
)

func field(word uint32, shift uint, bits uint32) uint32 {
	return (word >> shift) & bits
}

func bit(word uint32, pos uint) bool {
	return word&(1<<pos) != 0
}

// Decode classifies word by the cascade described in the package doc and
// returns the matching ir.Instr, or *asmerr.BadInstruction if nothing
// recognised it under model.
func Decode(word uint32, model config.FloatModel) (ir.Instr, error) {
	cond := ir.Condition(field(word, conditionShift, 0xF))

	switch {
	case isMultiply(word):
		return decodeMultiply(word, cond), nil
	case isBX(word):
		return decodeBX(word, cond), nil
	case field(word, 24, 0xF) == 0xF:
		return decodeSWI(word, cond), nil
	case field(word, 25, 0x7) == 0x5:
		return decodeBranch(word, cond), nil
	case field(word, 25, 0x7) == 0x4:
		return decodeMultiTransfer(word, cond), nil
	case isSingleTransfer(word):
		return decodeSingleTransfer(word, cond), nil
	case isStatusMove(word):
		return decodeStatusMove(word, cond)
	case isMiscTransfer(word):
		return decodeMiscTransfer(word, cond)
	case field(word, 26, 0x3) == 0:
		return decodeDataProcessing(word, cond)
	default:
		return decodeCoprocOrMedia(word, cond, model)
	}
}

func isMultiply(word uint32) bool {
	return field(word, 22, 0x3F) == 0 && field(word, 4, 0xF) == 0x9
}

const bxPattern = 0x12FFF1 << 4

func isBX(word uint32) bool {
	return word&0x0FFFFFF0 == bxPattern
}

func decodeBX(word uint32, cond ir.Condition) ir.Instr {
	return &ir.Branch{Cond: cond, Exchange: true, Target: ir.RegTarget{Reg: field(word, 0, 0xF)}}
}

func decodeSWI(word uint32, cond ir.Condition) ir.Instr {
	return &ir.SoftwareInterrupt{Cond: cond, Comment: field(word, 0, 0xFFFFFF)}
}

func decodeBranch(word uint32, cond ir.Condition) ir.Instr {
	link := bit(word, 24)
	raw := field(word, 0, 0xFFFFFF)
	offset := int32(raw<<8) >> 8 // sign-extend the 24-bit field
	return &ir.Branch{Cond: cond, Link: link, Target: ir.SectionTarget{Section: int(offset)}}
}

func decodeMultiTransfer(word uint32, cond ir.Condition) ir.Instr {
	p := bit(word, pBitShift)
	u := bit(word, uBitShift)
	mode := multiMode(p, u)
	return &ir.MultiTransfer{
		Cond:      cond,
		Load:      bit(word, lBitShift),
		Mode:      mode,
		Rn:        field(word, rnShift, 0xF),
		WriteBack: bit(word, wBitShift),
		RegList:   uint16(field(word, 0, 0xFFFF)),
	}
}

func multiMode(p, u bool) ir.MultiMode {
	switch {
	case !p && u:
		return ir.ModeIA
	case p && u:
		return ir.ModeIB
	case !p && !u:
		return ir.ModeDA
	default:
		return ir.ModeDB
	}
}

// isSingleTransfer matches the real architecture's single-register-transfer
// class (bits 27..26 = 01) excluding the register-offset subform that also
// sets bit 4 = 1, which belongs to the media/SIMD space instead.
func isSingleTransfer(word uint32) bool {
	if field(word, 26, 0x3) != 1 {
		return false
	}
	if field(word, 25, 0x7) == 3 && bit(word, 4) {
		return false
	}
	return true
}

func decodeSingleTransfer(word uint32, cond ir.Condition) ir.Instr {
	addr := ir.AddrMode{
		Base:      field(word, rnShift, 0xF),
		PreIndex:  bit(word, pBitShift),
		Subtract:  !bit(word, uBitShift),
		WriteBack: bit(word, wBitShift),
		Offset:    decodeSingleOffset(word),
	}
	size := ir.TransferWord
	if bit(word, bBitShift) {
		size = ir.TransferByte
	}
	return &ir.SingleTransfer{
		Cond: cond,
		Load: bit(word, lBitShift),
		Size: size,
		Rd:   field(word, rdShift, 0xF),
		Addr: addr,
	}
}

func decodeSingleOffset(word uint32) ir.MemOffset {
	if !bit(word, 25) {
		return ir.OffsetImm{Value: field(word, 0, 0xFFF)}
	}
	reg := field(word, 0, 0xF)
	shiftAmount := field(word, 7, 0x1F)
	kindBits := field(word, 5, 0x3)
	shiftKind := decodeShiftKind(kindBits)
	if kindBits == 0 && shiftAmount == 0 {
		return ir.OffsetReg{Num: reg}
	}
	return ir.OffsetShiftedReg{Num: reg, Kind: shiftKind, Amount: normalizeShiftAmount(shiftKind, shiftAmount)}
}

func decodeShiftKind(bits uint32) ir.ShiftKind {
	switch bits {
	case 0:
		return ir.LSL
	case 1:
		return ir.LSR
	case 2:
		return ir.ASR
	default:
		return ir.ROR
	}
}

func normalizeShiftAmount(kind ir.ShiftKind, amount uint32) uint32 {
	if (kind == ir.LSR || kind == ir.ASR) && amount == 0 {
		return 32
	}
	return amount
}

const (
	mrsFixedBits = 0x01000000
	msrFixedBits = 0x01200000
)

func isStatusMove(word uint32) bool {
	return field(word, 26, 0x3) == 0 && field(word, 23, 0x3) == 0x2 && !bit(word, sBitShift) && !isMiscTransfer(word)
}

func decodeStatusMove(word uint32, cond ir.Condition) (ir.Instr, error) {
	psr := ir.PSRCurrent
	if bit(word, 22) {
		psr = ir.PSRSaved
	}
	if !bit(word, 21) {
		return &ir.StatusMove{Cond: cond, Kind: ir.StatusRead, Psr: psr, Rd: field(word, rdShift, 0xF)}, nil
	}
	mask := field(word, 16, 0xF)
	flags := mask == 0x8
	var op2 ir.Operand2
	if bit(word, 25) {
		rotate := field(word, 8, 0xF) * 2
		imm := field(word, 0, 0xFF)
		value := (imm >> rotate) | (imm << (32 - rotate))
		if rotate == 0 {
			value = imm
		}
		op2 = ir.Imm12{Value: value}
	} else {
		op2 = ir.Reg{Num: field(word, 0, 0xF)}
	}
	return &ir.StatusMove{Cond: cond, Kind: ir.StatusWrite, Psr: psr, Src: op2, Flags: flags}, nil
}

func isMiscTransfer(word uint32) bool {
	return field(word, 25, 0x7) == 0 && bit(word, 7) && bit(word, 4)
}

// decodeMiscTransfer's immediate-vs-register offset test uses bit 22
// (encoded&(1<<22) != 0), not the distilled source's encoded&22 — the
// corrected behavior per the open question this cascade step carries.
func decodeMiscTransfer(word uint32, cond ir.Condition) (ir.Instr, error) {
	sBit := bit(word, 6)
	hBit := bit(word, 5)
	kind, err := miscKind(sBit, hBit, bit(word, lBitShift))
	if err != nil {
		return nil, err
	}
	var offset ir.MemOffset
	if bit(word, 22) {
		offset = ir.OffsetImm{Value: field(word, 8, 0xF)<<4 | field(word, 0, 0xF)}
	} else {
		offset = ir.OffsetReg{Num: field(word, 0, 0xF)}
	}
	return &ir.MiscTransfer{
		Cond:      cond,
		Kind:      kind,
		Rd:        field(word, rdShift, 0xF),
		Rn:        field(word, rnShift, 0xF),
		Offset:    offset,
		Subtract:  !bit(word, uBitShift),
		PreIndex:  bit(word, pBitShift),
		WriteBack: bit(word, wBitShift),
	}, nil
}

func miscKind(s, h, load bool) (ir.MiscKind, error) {
	switch {
	case !s && h && load:
		return ir.MiscLDRH, nil
	case !s && h && !load:
		return ir.MiscSTRH, nil
	case s && !h:
		return ir.MiscLDRSB, nil
	case s && h:
		return ir.MiscLDRSH, nil
	default:
		return 0, &asmerr.BadInstruction{Word: 0}
	}
}

func decodeDataProcessing(word uint32, cond ir.Condition) (ir.Instr, error) {
	op := ir.DPOp(field(word, opcodeShift, 0xF))
	op2, err := decodeOperand2(word)
	if err != nil {
		return nil, err
	}
	return &ir.DataProcessing{
		Cond:     cond,
		Op:       op,
		SetFlags: bit(word, sBitShift),
		Rd:       field(word, rdShift, 0xF),
		Rn:       field(word, rnShift, 0xF),
		Op2:      op2,
	}, nil
}

func decodeMultiply(word uint32, cond ir.Condition) ir.Instr {
	accumulate := bit(word, 21)
	m := &ir.Multiply{
		Cond:       cond,
		Accumulate: accumulate,
		SetFlags:   bit(word, sBitShift),
		Rd:         field(word, rnShift, 0xF),
		Rs:         field(word, rsShift, 0xF),
		Rm:         field(word, 0, 0xF),
	}
	if accumulate {
		m.Rn = field(word, rdShift, 0xF)
	}
	return m
}

// decodeCoprocOrMedia is the cascade's final bucket: the ARM standard
// classes above have all been ruled out, so what remains is the
// coprocessor (FPA/VFP) and media (SIMD/sign-extend) space.
func decodeCoprocOrMedia(word uint32, cond ir.Condition, model config.FloatModel) (ir.Instr, error) {
	top5 := field(word, 23, 0x1F)
	switch {
	case field(word, 25, 0x7) == 0x6:
		return decodeCPTransfer(word, cond, model)
	case field(word, 24, 0xF) == 0xE:
		return decodeCDP(word, cond, model)
	case (top5 == 0x0C || top5 == 0x0D) && bit(word, 4):
		return decodeMedia(word, cond)
	default:
		return nil, &asmerr.BadInstruction{Word: word}
	}
}
