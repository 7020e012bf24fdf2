package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// encodeSingleOffset returns the offset field and ARM's single-transfer I
// bit, which is the inverse of
// the data-processing I bit at the same position: 0 means immediate offset,
// 1 means register offset.
func encodeSingleOffset(off ir.MemOffset) (field, iBit uint32, err error) {
	switch o := off.(type) {
	case ir.OffsetImm:
		if o.Value > maxOffset12 {
			return 0, 0, &asmerr.AssertionFailed{Msg: "single-transfer immediate offset exceeds 12 bits"}
		}
		return o.Value, 0, nil
	case ir.OffsetReg:
		return o.Num & 0xF, 1 << 25, nil
	case ir.OffsetShiftedReg:
		field := o.Num & 0xF
		field |= shiftKindBits(o.Kind) << 5
		field |= (o.Amount & 0x1F) << 7
		return field, 1 << 25, nil
	default:
		return 0, 0, &asmerr.AssertionFailed{Msg: "unknown single-transfer offset reached the encoder"}
	}
}

// encodeSingleTransfer handles LDR/STR/LDRB/STRB.
func (s *State) encodeSingleTransfer(i *ir.SingleTransfer) error {
	field, iBit, err := encodeSingleOffset(i.Addr.Offset)
	if err != nil {
		return err
	}
	word := uint32(i.Cond)<<conditionShift | singleTransferBit26 | iBit
	if i.Addr.PreIndex {
		word |= 1 << pBitShift
	}
	if !i.Addr.Subtract {
		word |= 1 << uBitShift
	}
	if i.Size == ir.TransferByte {
		word |= 1 << bBitShift
	}
	if i.Addr.WriteBack {
		word |= 1 << wBitShift
	}
	if i.Load {
		word |= 1 << lBitShift
	}
	word |= i.Addr.Base << rnShift
	word |= i.Rd << rdShift
	word |= field
	s.writeWord(word)
	return nil
}

// miscSignBits returns the (S, H) bits selected by MiscKind: LDRH/STRH carry unsigned
// halfwords (S=0,H=1); LDRSB is signed byte (S=1,H=0); LDRSH is signed
// halfword (S=1,H=1). There is no signed-store form.
func miscSignBits(kind ir.MiscKind) (s, h uint32) {
	switch kind {
	case ir.MiscLDRH, ir.MiscSTRH:
		return 0, 1
	case ir.MiscLDRSB:
		return 1, 0
	case ir.MiscLDRSH:
		return 1, 1
	default:
		return 0, 1
	}
}

// encodeMiscTransfer handles LDRH/STRH/LDRSB/LDRSH, whose encoding is
// distinct from the general single-transfer family: an 8-bit immediate
// offset split across a hi and lo nibble, or a bare register offset (never
// shifted).
func (s *State) encodeMiscTransfer(i *ir.MiscTransfer) error {
	var immBit, offsetField uint32
	switch o := i.Offset.(type) {
	case ir.OffsetImm:
		if o.Value > maxOffsetMisc {
			return &asmerr.AssertionFailed{Msg: "halfword/signed-byte transfer immediate offset exceeds 8 bits"}
		}
		immBit = 1 << bBitShift // bit 22, the "I" bit for this family
		offsetField = (o.Value&0xF0)<<4 | (o.Value & 0xF)
	case ir.OffsetReg:
		offsetField = o.Num & 0xF
	default:
		return &asmerr.AssertionFailed{Msg: "halfword/signed-byte transfer offset must be immediate or a bare register"}
	}

	sBit, hBit := miscSignBits(i.Kind)
	word := uint32(i.Cond) << conditionShift
	if i.PreIndex {
		word |= 1 << pBitShift
	}
	if !i.Subtract {
		word |= 1 << uBitShift
	}
	word |= immBit
	if i.WriteBack {
		word |= 1 << wBitShift
	}
	load := i.Kind != ir.MiscSTRH
	if load {
		word |= 1 << lBitShift
	}
	word |= i.Rn << rnShift
	word |= i.Rd << rdShift
	word |= offsetField & 0xF00 // hi nibble already shifted into bits 11..8 above
	word |= 1 << 7
	word |= sBit << 6
	word |= hBit << 5
	word |= 1 << 4
	word |= offsetField & 0xF
	s.writeWord(word)
	return nil
}

// multiModeBits computes the base-update sequence's addressing bits
// (P, U) from the LDM/STM mode, independent of load/store direction -- the
// FD/FA/EA/ED aliases are resolved by the tiling pass into plain
// IA/IB/DA/DB before reaching the encoder, matching the teacher's
// encodeLoadStoreMultiple alias resolution.
func multiModeBits(mode ir.MultiMode) (p, u uint32) {
	switch mode {
	case ir.ModeIA:
		return 0, 1
	case ir.ModeIB:
		return 1, 1
	case ir.ModeDA:
		return 0, 0
	case ir.ModeDB:
		return 1, 0
	default:
		return 0, 1
	}
}

// encodeMultiTransfer handles LDM/STM and the PUSH/POP constructors, which
// are pre-lowered to plain LDM/STM values by NewPush/NewPop.
func (s *State) encodeMultiTransfer(i *ir.MultiTransfer) error {
	p, u := multiModeBits(i.Mode)
	word := uint32(i.Cond)<<conditionShift | multiTransferTypeBits
	word |= p << pBitShift
	word |= u << uBitShift
	if i.WriteBack {
		word |= 1 << wBitShift
	}
	if i.Load {
		word |= 1 << lBitShift
	}
	word |= i.Rn << rnShift
	word |= uint32(i.RegList)
	s.writeWord(word)
	return nil
}
