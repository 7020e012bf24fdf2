package encoder

import "github.com/zinc-lang/armbe/asmerr"

// resolveBackpatches rewrites every deferred branch and Adr site now that
// every label in the section has a final offset.
func (s *State) resolveBackpatches() error {
	for _, bp := range s.backpatches {
		target, ok := s.labels[bp.label]
		if !ok {
			return &asmerr.AssertionFailed{Msg: "back-patch references a label that was never defined"}
		}
		switch bp.kind {
		case bpBranch:
			if err := s.resolveBranchBackpatch(bp.codeIndex, target); err != nil {
				return err
			}
		case bpAdr:
			if err := s.resolveAdrBackpatch(bp.codeIndex, target); err != nil {
				return err
			}
		}
	}
	s.backpatches = s.backpatches[:0]
	return nil
}

func (s *State) resolveBranchBackpatch(siteOffset, target uint32) error {
	word, err := s.readWord(siteOffset)
	if err != nil {
		return err
	}
	dist := (int64(target) - int64(siteOffset)) / 4 - 2
	word = (word &^ 0xFFFFFF) | uint32(dist)&0xFFFFFF
	return s.patchWord(siteOffset, word)
}

// opAddBits and opSubBits are the data-processing opcode field values (bits
// 24..21) for ADD and SUB, used only by the Adr lowering's own back-patch:
// a negative PC-relative distance flips the instruction from ADD to SUB and
// encodes the magnitude instead of a signed value.
const (
	opAddBits = uint32(4) << opcodeShift
	opSubBits = uint32(2) << opcodeShift
	opMask    = 0xF << opcodeShift
)

func (s *State) resolveAdrBackpatch(siteOffset, target uint32) error {
	word, err := s.readWord(siteOffset)
	if err != nil {
		return err
	}
	dist := int64(target) - int64(siteOffset) - 8
	negative := dist < 0
	mag := dist
	if negative {
		mag = -mag
	}
	if mag < 0 || mag > 0xFFFFFFFF {
		return asmerr.ErrBadAdr
	}
	encoded, ok := encodeRotatedImmediate(uint32(mag))
	if !ok {
		return asmerr.ErrBadAdr
	}
	word &^= opMask | offset12Mask
	if negative {
		word |= opSubBits
	} else {
		word |= opAddBits
	}
	word |= encoded
	return s.patchWord(siteOffset, word)
}
