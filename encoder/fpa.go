package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// FPA coprocessor instructions share the CDP-style class prefix (bits
// 27..24 = 1110) for data operations and register transfers, and the
// LDC/STC-style prefix (bits 27..25 = 110) for coprocessor load/store,
// exactly like the real architecture. Within the CDP prefix, bit 4
// distinguishes a data operation from a register transfer (FLT/FIX), and
// bit 22 further distinguishes a compare from an arithmetic op -- our own
// allocation of the otherwise-reserved bits, not a transcription of the
// real FPA coprocessor's exact field layout, but internally consistent
// between this encoder and the disassembler's matching decode.
const (
	fpaCDPPrefix  = 0xE << 24
	fpaCPTransfer = 0x6 << 25
	fpaCoprocNum  = 1 << 8
	fpaCompareBit = 1 << 22
	fpaRegXferBit = 1 << 4
)

func encodeFPAData(i *ir.FPAData) uint32 {
	word := uint32(i.Cond)<<conditionShift | fpaCDPPrefix
	word |= uint32(i.Op) << 20
	word |= (uint32(i.Precision) & 0x3) << 18
	word |= (i.Rounding & 0x3) << 16
	word |= i.Fd << rdShift
	word |= i.Fn << 8
	if i.Imm {
		word |= 1 << 7
		word |= i.ImmValue & 0x7
	} else {
		word |= i.Fm & 0xF
	}
	return word
}

func encodeFPATransfer(i *ir.FPATransfer) uint32 {
	word := uint32(i.Cond)<<conditionShift | fpaCDPPrefix | fpaRegXferBit | fpaCoprocNum
	if !i.ToFloat {
		word |= 1 << lBitShift
	}
	word |= (uint32(i.Precision) & 0x3) << 18
	word |= (i.Rounding & 0x3) << 16
	word |= i.Rd << rdShift
	word |= i.Fn & 0xF
	return word
}

func encodeFPACompare(i *ir.FPACompare) uint32 {
	word := uint32(i.Cond)<<conditionShift | fpaCDPPrefix | fpaCompareBit
	if i.Negate {
		word |= 1 << uBitShift
	}
	if i.Exception {
		word |= 1 << 21
	}
	word |= i.Fn << 16
	if i.Imm {
		word |= 1 << 7
		word |= i.ImmValue & 0x7
	} else {
		word |= i.Fm & 0xF
	}
	return word
}

// fpaAddrField converts an AddrMode's word-granular offset into the 8-bit
// immediate the coprocessor load/store format carries; only an OffsetImm
// whose magnitude is a multiple of 4 is valid.
func fpaAddrField(addr ir.AddrMode) (uint32, error) {
	imm, ok := addr.Offset.(ir.OffsetImm)
	if !ok {
		return 0, &asmerr.AssertionFailed{Msg: "coprocessor load/store offset must be an immediate"}
	}
	if imm.Value%4 != 0 {
		return 0, &asmerr.AssertionFailed{Msg: "coprocessor load/store offset must be word-aligned"}
	}
	words := imm.Value / 4
	if words > 0xFF {
		return 0, &asmerr.AssertionFailed{Msg: "coprocessor load/store offset exceeds 8-bit word count"}
	}
	return words, nil
}

func (s *State) encodeFPACPTransfer(i *ir.FPACPTransfer) error {
	offset, err := fpaAddrField(i.Addr)
	if err != nil {
		return err
	}
	word := uint32(i.Cond)<<conditionShift | fpaCPTransfer | fpaCoprocNum
	if i.Addr.PreIndex {
		word |= 1 << pBitShift
	}
	if !i.Addr.Subtract {
		word |= 1 << uBitShift
	}
	if i.Precision == ir.FPADouble {
		word |= 1 << bBitShift
	}
	if i.Addr.WriteBack {
		word |= 1 << wBitShift
	}
	if i.Load {
		word |= 1 << lBitShift
	}
	word |= i.Addr.Base << rnShift
	word |= i.Fd << rdShift
	word |= offset
	s.writeWord(word)
	return nil
}

func (s *State) scheduleFPALoadConstant(i *ir.FPALoadConstant) error {
	label := s.mintSyntheticLabel()
	site := s.writeWord(uint32(i.Cond)<<conditionShift | fpaCPTransfer | fpaCoprocNum | 1<<pBitShift | 1<<lBitShift | 15<<rnShift | i.Fd<<rdShift)
	s.pending = append(s.pending, pendingConstant{kind: pendingLDRF, label: label, codeIndex: site, realValue: i.Value})
	if s.ldrcReal == noSentinel {
		s.ldrcReal = site
	}
	return nil
}
