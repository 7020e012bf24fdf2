package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/ir"
)

// encodeSWI handles SWI/SVC: a 24-bit payload with no further structure.
func (s *State) encodeSWI(i *ir.SoftwareInterrupt) error {
	if i.Comment > 0xFFFFFF {
		return &asmerr.AssertionFailed{Msg: "SWI comment field exceeds 24 bits"}
	}
	s.writeWord(uint32(i.Cond)<<conditionShift | swiTypeBits | i.Comment)
	return nil
}

const (
	mrsFixedBits = 0x01000000
	msrFixedBits = 0x01200000
	rBitShift    = 22
)

// encodeStatusMove handles MRS and MSR. MSR's field mask is simplified to
// two forms, matching StatusMove.Flags: a flags-only write (CPSR_f, mask
// 1000) or a whole-register write (mask 1111).
func (s *State) encodeStatusMove(i *ir.StatusMove) error {
	rBit := uint32(0)
	if i.Psr == ir.PSRSaved {
		rBit = 1 << rBitShift
	}

	switch i.Kind {
	case ir.StatusRead:
		word := uint32(i.Cond)<<conditionShift | mrsFixedBits | rBit | i.Rd<<rdShift
		s.writeWord(word)
		return nil
	case ir.StatusWrite:
		mask := uint32(0xF)
		if i.Flags {
			mask = 0x8
		}
		field, iBit, err := encodeOperand2(i.Src)
		if err != nil {
			return err
		}
		if _, isShifted := i.Src.(ir.ShiftedReg); isShifted {
			return &asmerr.AssertionFailed{Msg: "MSR source may not be a shifted register"}
		}
		word := uint32(i.Cond)<<conditionShift | msrFixedBits | rBit | iBit | mask<<16 | 0xF<<12 | field
		s.writeWord(word)
		return nil
	default:
		return &asmerr.AssertionFailed{Msg: "unknown status-move kind reached the encoder"}
	}
}

// encodeLoadConstant handles the three LDR/LDF "load from pool" pseudo-
// forms. ConstInt first tries folding the value into MOV or MVN before
// falling back to a pool entry; ConstProgram always schedules a pool entry
// whose value the linker fills in later; ConstReal always schedules a real
// pool entry. All three forms check the pool with the original source's
// adj=12 adjustment before scheduling their entry.
func (s *State) encodeLoadConstant(i *ir.LoadConstant) error {
	switch i.Kind {
	case ir.ConstInt:
		if !i.LinkTime {
			if encoded, ok := encodeRotatedImmediate(i.IntValue); ok {
				s.writeWord(uint32(i.Cond)<<conditionShift | immediateBit | uint32(ir.OpMOV)<<opcodeShift | i.Rd<<rdShift | encoded)
				return nil
			}
			if encoded, ok := encodeRotatedImmediate(^i.IntValue); ok {
				s.writeWord(uint32(i.Cond)<<conditionShift | immediateBit | uint32(ir.OpMVN)<<opcodeShift | i.Rd<<rdShift | encoded)
				return nil
			}
		}
		if err := s.checkPool(12); err != nil {
			return err
		}
		return s.scheduleIntLoad(i)
	case ir.ConstProgram:
		if err := s.checkPool(12); err != nil {
			return err
		}
		return s.scheduleProgramLoad(i)
	case ir.ConstReal:
		if err := s.checkPool(12); err != nil {
			return err
		}
		return s.scheduleRealLoad(i)
	default:
		return &asmerr.AssertionFailed{Msg: "unknown load-constant kind reached the encoder"}
	}
}

func (s *State) scheduleIntLoad(i *ir.LoadConstant) error {
	label := s.mintSyntheticLabel()
	site := s.writeWord(uint32(i.Cond)<<conditionShift | singleTransferBit26 | 1<<pBitShift | 1<<lBitShift | 15<<rnShift | i.Rd<<rdShift)
	s.pending = append(s.pending, pendingConstant{kind: pendingLDR, label: label, codeIndex: site, intValue: i.IntValue, linkTime: i.LinkTime})
	if s.ldrcInt == noSentinel {
		s.ldrcInt = site
	}
	return nil
}

func (s *State) scheduleProgramLoad(i *ir.LoadConstant) error {
	label := s.mintSyntheticLabel()
	site := s.writeWord(uint32(i.Cond)<<conditionShift | singleTransferBit26 | 1<<pBitShift | 1<<lBitShift | 15<<rnShift | i.Rd<<rdShift)
	s.pending = append(s.pending, pendingConstant{kind: pendingLDRP, label: label, codeIndex: site, poolIndex: i.PoolIndex})
	if s.ldrcInt == noSentinel {
		s.ldrcInt = site
	}
	return nil
}

// scheduleRealLoad emits the PC-relative coprocessor load for a real pool
// entry, choosing the FPA or VFP coprocessor bit pattern according to the
// state's configured float model -- the generic "load a float literal"
// pseudo-op has no model-specific variant in ir.LoadConstant, so this is
// the only place that distinguishes them. The pool always packs a real
// literal as a double-width pair (see realWordPair), so both forms set
// their double-precision bit regardless of the value's own magnitude.
func (s *State) scheduleRealLoad(i *ir.LoadConstant) error {
	label := s.mintSyntheticLabel()
	word := uint32(i.Cond)<<conditionShift | fpaCPTransfer | 1<<pBitShift | 1<<lBitShift | 15<<rnShift | i.Rd<<rdShift
	if s.floatModel == config.FloatVFP {
		word |= vfpTagDataDouble
	} else {
		word |= fpaCoprocNum | 1<<bBitShift
	}
	site := s.writeWord(word)
	s.pending = append(s.pending, pendingConstant{kind: pendingLDRF, label: label, codeIndex: site, realValue: i.RealValue})
	if s.ldrcReal == noSentinel {
		s.ldrcReal = site
	}
	return nil
}

// encodeAddressOfLabel handles the ADR pseudo-instruction: ADD/SUB Rd, PC,
// #dist with a zero placeholder offset and a back-patch entry, resolved
// once the target label's final offset is known.
func (s *State) encodeAddressOfLabel(i *ir.AddressOfLabel) error {
	if err := s.checkPool(12); err != nil {
		return err
	}
	site := s.writeWord(uint32(i.Cond)<<conditionShift | immediateBit | opAddBits | 15<<rnShift | i.Rd<<rdShift)
	s.backpatches = append(s.backpatches, backpatch{kind: bpAdr, label: i.Label, codeIndex: site})
	return nil
}

// encodeCondMove lowers the pseudo-instruction to an optional CMP followed
// by two conditionally executed MOVs targeting the same register.
func (s *State) encodeCondMove(i *ir.CondMove) error {
	if i.HasCmp {
		cmp := &ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpCMP, Rn: i.CmpRn, Op2: i.CmpOp2}
		word, err := encodeDataProcessing(cmp)
		if err != nil {
			return err
		}
		s.writeWord(word)
	}
	trueMov := &ir.DataProcessing{Cond: i.TrueCond, Op: ir.OpMOV, Rd: i.Rd, Op2: i.TrueVal}
	falseMov := &ir.DataProcessing{Cond: i.FalseCond, Op: ir.OpMOV, Rd: i.Rd, Op2: i.FalseVal}
	for _, mov := range []*ir.DataProcessing{trueMov, falseMov} {
		word, err := encodeDataProcessing(mov)
		if err != nil {
			return err
		}
		s.writeWord(word)
	}
	return nil
}
