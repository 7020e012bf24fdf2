package encoder

import (
	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// encodeRotatedImmediate fits value into ARM's 8-bit-immediate/4-bit-
// rotation Operand2 form, trying every even rotation the way the teacher's
// encodeImmediate does, and returns the 12-bit encoded field.
func encodeRotatedImmediate(value uint32) (uint32, bool) {
	for rotate := uint32(0); rotate < 32; rotate += 2 {
		rotated := (value >> rotate) | (value << (32 - rotate))
		if rotated <= 0xFF {
			decodeRotate := (32 - rotate) % 32
			return (decodeRotate/2)<<8 | rotated, true
		}
	}
	return 0, false
}

const immediateBit = 1 << 25

// encodeOperand2 returns the 12-bit Operand2 field plus the I-bit (0 or
// immediateBit) to OR into the instruction word.
func encodeOperand2(op2 ir.Operand2) (uint32, uint32, error) {
	switch v := op2.(type) {
	case ir.Imm12:
		encoded, ok := encodeRotatedImmediate(v.Value)
		if !ok {
			return 0, 0, &asmerr.AssertionFailed{Msg: "immediate value has no rotated 8-bit encoding"}
		}
		return encoded, immediateBit, nil
	case ir.Reg:
		return v.Num & 0xF, 0, nil
	case ir.ShiftedReg:
		return encodeShiftedReg(v), 0, nil
	default:
		return 0, 0, &asmerr.AssertionFailed{Msg: "unknown Operand2 variant reached the encoder"}
	}
}

func shiftKindBits(kind ir.ShiftKind) uint32 {
	switch kind {
	case ir.LSL:
		return 0
	case ir.LSR:
		return 1
	case ir.ASR:
		return 2
	case ir.ROR, ir.RRX:
		return 3
	default:
		return 0
	}
}

func encodeShiftedReg(v ir.ShiftedReg) uint32 {
	field := v.Num & 0xF
	field |= shiftKindBits(v.Kind) << 5
	switch {
	case v.Kind == ir.RRX:
		// RRX is ROR #0 with the register-shift bit clear.
	case v.ByRegister:
		field |= 1 << 4
		field |= (v.ShiftReg & 0xF) << 8
	default:
		amount := v.Amount
		if (v.Kind == ir.LSR || v.Kind == ir.ASR) && amount == 32 {
			amount = 0
		}
		field |= (amount & 0x1F) << 7
	}
	return field
}

// encodeDataProcessing handles all sixteen AND..MVN opcodes, including the
// MOV<->MVN and CMP<->CMN fallback tricks the teacher's encoder applies
// when the literal immediate has no direct rotated encoding.
func encodeDataProcessing(i *ir.DataProcessing) (uint32, error) {
	op2Field, iBit, err := encodeOperand2(i.Op2)
	if err != nil {
		if imm, ok := i.Op2.(ir.Imm12); ok {
			if alt, altOK := dataProcessingImmediateFallback(i.Op, imm.Value); altOK {
				return alt.encode(i)
			}
		}
		return 0, err
	}

	setFlags := i.SetFlags || i.Op.IsCompare()
	word := uint32(i.Cond)<<conditionShift | iBit | uint32(i.Op)<<opcodeShift
	if setFlags {
		word |= 1 << sBitShift
	}
	if !i.Op.IsCompare() {
		word |= i.Rd << rdShift
	}
	if i.Op != ir.OpMOV && i.Op != ir.OpMVN {
		word |= i.Rn << rnShift
	}
	word |= op2Field
	return word, nil
}

// altEncoding describes a substitute instruction produced by one of the
// immediate-fallback rewrites (MOV<->MVN bit-complement, CMP<->CMN
// negation) and how to finish encoding it.
type altEncoding struct {
	op    ir.DPOp
	value uint32
	negRn bool // CMN fallback also needs Rn unchanged; placeholder for symmetry
}

func (a altEncoding) encode(orig *ir.DataProcessing) (uint32, error) {
	rewritten := *orig
	rewritten.Op = a.op
	rewritten.Op2 = ir.Imm12{Value: a.value}
	return encodeDataProcessing(&rewritten)
}

// dataProcessingImmediateFallback mirrors the teacher's encodeOperand2
// retry ladder: MOV#v with no rotated encoding tries MVN#^v; MVN symmetric;
// CMP#v tries CMN#-v and vice versa.
func dataProcessingImmediateFallback(op ir.DPOp, value uint32) (altEncoding, bool) {
	switch op {
	case ir.OpMOV:
		if _, ok := encodeRotatedImmediate(^value); ok {
			return altEncoding{op: ir.OpMVN, value: ^value}, true
		}
	case ir.OpMVN:
		if _, ok := encodeRotatedImmediate(^value); ok {
			return altEncoding{op: ir.OpMOV, value: ^value}, true
		}
	case ir.OpCMP:
		neg := uint32(-int32(value)) //nolint:gosec // two's-complement negation is exactly what CMN needs
		if _, ok := encodeRotatedImmediate(neg); ok {
			return altEncoding{op: ir.OpCMN, value: neg}, true
		}
	case ir.OpCMN:
		neg := uint32(-int32(value)) //nolint:gosec // see above
		if _, ok := encodeRotatedImmediate(neg); ok {
			return altEncoding{op: ir.OpCMP, value: neg}, true
		}
	}
	return altEncoding{}, false
}

// encodeMultiply handles MUL and MLA, whose bit layout is fixed and shares
// no structure with the general data-processing format.
func encodeMultiply(i *ir.Multiply) (uint32, error) {
	word := uint32(i.Cond) << conditionShift
	if i.Accumulate {
		word |= 1 << 21
	}
	if i.SetFlags {
		word |= 1 << sBitShift
	}
	word |= i.Rd << rnShift // Rd lives in the Rn field position for multiply
	if i.Accumulate {
		word |= i.Rn << rdShift // the accumulate addend lives in the Rd field position
	}
	word |= i.Rs << rsShift
	word |= multiplyMarker
	word |= i.Rm & 0xF
	return word, nil
}
