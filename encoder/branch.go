package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

const bxMarker = 0x12FFF1 << 4

// encodeBranch handles B/BL (label or inter-section target) and BX
// (register target). Label targets are always back-patched; section
// targets are resolved later by the linker and need no local back-patch;
// register targets are a fixed bit pattern with no offset field at all.
// The register form ignores Link and always encodes BX; BLX is not emitted.
func (s *State) encodeBranch(i *ir.Branch) error {
	if i.Exchange {
		reg, ok := i.Target.(ir.RegTarget)
		if !ok {
			return &asmerr.AssertionFailed{Msg: "BX/BLX target must be a register"}
		}
		s.writeWord(uint32(i.Cond)<<conditionShift | bxMarker | reg.Reg&0xF)
		return nil
	}

	link := uint32(0)
	if i.Link {
		link = 1 << linkShift
	}

	switch t := i.Target.(type) {
	case ir.LabelTarget:
		offset := s.writeWord(uint32(i.Cond)<<conditionShift | branchTypeBits | link)
		s.backpatches = append(s.backpatches, backpatch{kind: bpBranch, label: t.Label, codeIndex: offset})
		return nil
	case ir.SectionTarget:
		idx, err := ir.SafeIntToUint32(t.Section)
		if err != nil {
			return err
		}
		offset := s.writeWord(uint32(i.Cond)<<conditionShift | branchTypeBits | link | idx&0xFFFFFF)
		s.externalBranches = append(s.externalBranches, offset)
		return nil
	default:
		return &asmerr.AssertionFailed{Msg: "unknown branch target reached the encoder"}
	}
}
