package encoder

import (
	"math"

	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// checkPool computes the projected end of the pending pool, including
// adjustment bytes reserved for a compound sequence the caller is about to
// emit contiguously (an LDR+ADD address-of-constant pair, or an FPA/VFP
// real load: 12 bytes each), and flushes if either window would overflow.
func (s *State) checkPool(adjustment uint32) error {
	pendingInt := 0
	pendingReal := 0
	for _, p := range s.pending {
		if p.kind == pendingLDRF {
			pendingReal++
		} else {
			pendingInt++
		}
	}
	poolEnd := s.bytesWritten() + 4*uint32(pendingInt) + 8*uint32(pendingReal) + adjustment

	needFlush := false
	if s.ldrcReal != noSentinel && poolEnd-s.ldrcReal >= poolWindowReal {
		needFlush = true
	}
	if s.ldrcInt != noSentinel && poolEnd-s.ldrcInt >= poolWindowInt {
		needFlush = true
	}
	if !needFlush {
		return nil
	}
	return s.flushPool(0)
}

// mintSyntheticLabel returns a fresh label number disjoint from every label
// the tiling pass can mint (Section.NewLabel only ever returns values >= 0).
// Used for the encoder's own after-pool labels, never exposed to callers.
func (s *State) mintSyntheticLabel() int {
	s.syntheticLabel--
	return s.syntheticLabel
}

// flushPool emits an unconditional branch over the pending pool, then every
// pending constant in order, then defines the after-pool label. adjustment
// is unused here (it only affects the decision in checkPool) but is kept as
// a parameter for symmetry with the original source's call sites, where a
// forced end-of-section flush passes 0.
func (s *State) flushPool(_ uint32) error {
	if len(s.pending) == 0 {
		return nil
	}

	after := s.mintSyntheticLabel()
	branchOffset := s.writeWord(uint32(ir.CondAL)<<28 | branchTypeBits)
	s.backpatches = append(s.backpatches, backpatch{kind: bpBranch, label: after, codeIndex: branchOffset})

	s.logf("flushing constant pool: %d pending entries at offset 0x%x", len(s.pending), s.bytesWritten())

	for _, p := range s.pending {
		switch p.kind {
		case pendingLDR:
			offset := s.writeWord(p.intValue)
			if err := s.defineLabel(p.label); err != nil {
				return err
			}
			if err := s.backpatchLoad(p.codeIndex, offset, false); err != nil {
				return err
			}
		case pendingLDRP:
			offset := s.writeWord(0) // placeholder; the linker fills in the resolved address
			s.constantRefs = append(s.constantRefs, ConstantRef{CodeIndex: offset, PoolIndex: p.poolIndex})
			if err := s.defineLabel(p.label); err != nil {
				return err
			}
			if err := s.backpatchLoad(p.codeIndex, offset, false); err != nil {
				return err
			}
		case pendingLDRF:
			lo, hi := realWordPair(p.realValue, s.reverseFPADoubles)
			offset := s.writeWord(lo)
			s.writeWord(hi)
			if err := s.defineLabel(p.label); err != nil {
				return err
			}
			if err := s.backpatchLoad(p.codeIndex, offset, true); err != nil {
				return err
			}
		}
	}

	s.pending = s.pending[:0]
	s.ldrcInt = noSentinel
	s.ldrcReal = noSentinel

	if err := s.defineLabel(after); err != nil {
		return err
	}
	return nil
}

// backpatchLoad resolves a single PC-relative LDR/LDF word immediately
// (pool entries are always flushed forward of their own site, so the
// distance is known as soon as the literal is placed -- no need to wait for
// end-of-section back-patch resolution the way branches and Adr are).
func (s *State) backpatchLoad(siteOffset, literalOffset uint32, real bool) error {
	word, err := s.readWord(siteOffset)
	if err != nil {
		return err
	}
	dist := int64(literalOffset) - int64(siteOffset) - 8
	limit := int64(4096)
	if real {
		limit = 1024
	}
	if dist < -limit || dist > limit {
		return &asmerr.AssertionFailed{Msg: "pool literal fell outside the PC-relative load range"}
	}
	positive := dist >= 0
	mag := dist
	if !positive {
		mag = -mag
	}
	// A real load's offset is in words and fills only bits 7..0; bits 11..8
	// carry the coprocessor number and must survive the patch.
	fieldMask := uint32(offset12Mask)
	if real {
		mag /= 4
		fieldMask = 0xFF
	}
	word &^= uBitMask | fieldMask
	if positive {
		word |= uBitMask
	}
	word |= uint32(mag) & fieldMask
	return s.patchWord(siteOffset, word)
}

// realWordPair splits a 64-bit IEEE-754 double into its two 32-bit words in
// emission order, swapping them when the target's FPA uses reversed
// doubles. The mid-section pool flush goes through this function; the
// program-wide global constant pool does not: the linker swaps the halves
// itself in renderGlobalConstants, driven by config.Config.ReverseFPADoubles.
func realWordPair(v float64, reverse bool) (first, second uint32) {
	bits := math.Float64bits(v)
	lo := uint32(bits)
	hi := uint32(bits >> 32)
	if reverse {
		return hi, lo
	}
	return lo, hi
}
