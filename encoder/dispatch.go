package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// encodeInstr is the exhaustive type switch over ir.Instr that replaces the
// original source's function-pointer walker table. Every branch checks the
// pool window before emitting, per the "before emitting any regular
// instruction" contract; the pseudo-instructions that schedule their own
// pool entries (LoadConstant, AddressOfLabel) make that check inside their
// own encoders.
func (s *State) encodeInstr(sec *ir.Section, instr ir.Instr) error {
	switch i := instr.(type) {
	case *ir.DataProcessing:
		if err := s.checkPool(0); err != nil {
			return err
		}
		word, err := encodeDataProcessing(i)
		if err != nil {
			return err
		}
		s.writeWord(word)
		return nil
	case *ir.Multiply:
		if err := s.checkPool(0); err != nil {
			return err
		}
		word, err := encodeMultiply(i)
		if err != nil {
			return err
		}
		s.writeWord(word)
		return nil
	case *ir.SingleTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeSingleTransfer(i)
	case *ir.MiscTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeMiscTransfer(i)
	case *ir.MultiTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeMultiTransfer(i)
	case *ir.Branch:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeBranch(i)
	case *ir.SoftwareInterrupt:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeSWI(i)
	case *ir.StatusMove:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeStatusMove(i)
	case *ir.LoadConstant:
		return s.encodeLoadConstant(i)
	case *ir.AddressOfLabel:
		return s.encodeAddressOfLabel(i)
	case *ir.CondMove:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeCondMove(i)
	case *ir.FPAData:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeFPAData(i))
		return nil
	case *ir.FPATransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeFPATransfer(i))
		return nil
	case *ir.FPACompare:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeFPACompare(i))
		return nil
	case *ir.FPACPTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeFPACPTransfer(i)
	case *ir.FPALoadConstant:
		if err := s.checkPool(12); err != nil {
			return err
		}
		return s.scheduleFPALoadConstant(i)
	case *ir.VFPData:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPData(i))
		return nil
	case *ir.VFPTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPTransfer(i))
		return nil
	case *ir.VFPCompare:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPCompare(i))
		return nil
	case *ir.VFPCopy:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPCopy(i))
		return nil
	case *ir.VFPSqrt:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPSqrt(i))
		return nil
	case *ir.VFPCvt:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPCvt(i))
		return nil
	case *ir.VFPSysReg:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPSysReg(i))
		return nil
	case *ir.VFPTranDouble:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeVFPTranDouble(i))
		return nil
	case *ir.VFPCPTransfer:
		if err := s.checkPool(0); err != nil {
			return err
		}
		return s.encodeVFPCPTransfer(i)
	case *ir.SIMDDyadic:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeSIMDDyadic(i))
		return nil
	case *ir.SignExtend:
		if err := s.checkPool(0); err != nil {
			return err
		}
		s.writeWord(encodeSignExtend(i))
		return nil
	default:
		return &asmerr.AssertionFailed{Msg: "unknown instruction variant reached the encoder"}
	}
}
