package encoder

import (
	"errors"
	"testing"

	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/disasm"
	"github.com/zinc-lang/armbe/ir"
)

// TestPoolFlushEmitsMultipleBranches exercises the eager-flush path
// (scenario: a run of constants long enough to cross poolWindowInt forces a
// flush before the section ends). Every flush emits an unconditional branch
// over the pool it just wrote; a run long enough to flush twice must leave
// at least two such branch words in the code.
func TestPoolFlushEmitsMultipleBranches(t *testing.T) {
	sec := ir.NewSection("pool")
	for i := 0; i < 600; i++ {
		// 0x5A5A0000 | i: none of these fold into MOV/MVN, so every one
		// schedules a pool entry.
		sec.Emit(&ir.LoadConstant{Cond: ir.CondAL, Rd: 0, Kind: ir.ConstInt, IntValue: 0x5A5A0000 | uint32(i)})
	}

	result, err := EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	branchWord := uint32(ir.CondAL)<<conditionShift | branchTypeBits
	count := 0
	for off := uint32(0); off+4 <= uint32(len(result.Code)); off += 4 {
		word := uint32(result.Code[off]) | uint32(result.Code[off+1])<<8 |
			uint32(result.Code[off+2])<<16 | uint32(result.Code[off+3])<<24
		if word&0xFF000000 == branchWord&0xFF000000 && word&branchTypeBits == branchTypeBits {
			count++
		}
	}
	if count < 2 {
		t.Errorf("expected at least 2 branch-over-pool words for a run long enough to flush mid-section, got %d", count)
	}
}

// TestAddressOfLabelBackpatch covers the near case: a small, representable
// forward distance resolves to an ADD.
func TestAddressOfLabelBackpatch(t *testing.T) {
	sec := ir.NewSection("adr")
	target := sec.NewLabel()
	sec.Emit(&ir.AddressOfLabel{Cond: ir.CondAL, Rd: 0, Label: target})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpMOV, Rd: 1, Op2: ir.Imm12{Value: 1}})
	sec.EmitLabel(target)

	result, err := EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	word := uint32(result.Code[0]) | uint32(result.Code[1])<<8 | uint32(result.Code[2])<<16 | uint32(result.Code[3])<<24
	if word&opMask != opAddBits {
		t.Errorf("expected ADD opcode bits for a forward ADR, got word 0x%08X", word)
	}
}

// TestAddressOfLabelOutOfRangeReturnsBadAdr covers the original's ErrBadAdr
// case: a distance whose magnitude cannot be expressed as an ARM rotated
// 8-bit immediate (here, bits 2 and 10 both set -- a 9-bit span, wider than
// any single rotated byte window covers).
func TestAddressOfLabelOutOfRangeReturnsBadAdr(t *testing.T) {
	sec := ir.NewSection("adr")
	target := sec.NewLabel()
	sec.Emit(&ir.AddressOfLabel{Cond: ir.CondAL, Rd: 0, Label: target})
	for i := 0; i < 258; i++ {
		sec.EmitDirective(&ir.DirectiveOp{Kind: ir.DirectiveWord, Word: 0})
	}
	sec.EmitLabel(target)

	_, err := EncodeSection(sec)
	if err == nil {
		t.Fatal("expected an error for a non-representable ADR distance")
	}
	if !errors.Is(err, asmerr.ErrBadAdr) {
		t.Fatalf("expected ErrBadAdr, got %v", err)
	}
}

func TestEncodeFPADataRoundTrip(t *testing.T) {
	sec := ir.NewSection("fpa")
	orig := &ir.FPAData{Cond: ir.CondAL, Op: ir.FPAADF, Precision: ir.FPADouble, Fd: 1, Fn: 2, Fm: 3}
	sec.Emit(orig)

	result, err := EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	word := uint32(result.Code[0]) | uint32(result.Code[1])<<8 | uint32(result.Code[2])<<16 | uint32(result.Code[3])<<24

	got, err := disasm.Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fd, ok := got.(*ir.FPAData)
	if !ok || fd.Op != orig.Op || fd.Fd != orig.Fd || fd.Fn != orig.Fn || fd.Fm != orig.Fm {
		t.Fatalf("decoded %+v, want match for %+v", got, orig)
	}
}

func TestEncodeVFPDataRoundTrip(t *testing.T) {
	sec := ir.NewSection("vfp")
	orig := &ir.VFPData{Cond: ir.CondAL, Op: ir.VFPAdd, Precision: ir.VFPDouble, Sd: 1, Sn: 2, Sm: 3}
	sec.Emit(orig)

	result, err := EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	word := uint32(result.Code[0]) | uint32(result.Code[1])<<8 | uint32(result.Code[2])<<16 | uint32(result.Code[3])<<24

	got, err := disasm.Decode(word, config.FloatVFP)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	vd, ok := got.(*ir.VFPData)
	if !ok || vd.Op != orig.Op || vd.Sd != orig.Sd || vd.Sn != orig.Sn || vd.Sm != orig.Sm {
		t.Fatalf("decoded %+v, want match for %+v", got, orig)
	}

	if _, err := disasm.Decode(word, config.FloatFPA); err == nil {
		t.Fatal("expected decode under the wrong float model to fail")
	}
}

// TestEncodeCondMoveLowering checks the three-instruction expansion: an
// optional CMP, then two conditionally executed MOVs targeting Rd.
func TestEncodeCondMoveLowering(t *testing.T) {
	sec := ir.NewSection("condmove")
	sec.Emit(&ir.CondMove{
		HasCmp: true, CmpRn: 2, CmpOp2: ir.Imm12{Value: 0},
		TrueCond: ir.CondEQ, FalseCond: ir.CondNE,
		Rd: 0, TrueVal: ir.Imm12{Value: 1}, FalseVal: ir.Imm12{Value: 2},
	})

	result, err := EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(result.Code) != 12 {
		t.Fatalf("expected 3 words (CMP + 2 MOVs), got %d bytes", len(result.Code))
	}

	for i, wantCond := range []ir.Condition{ir.CondAL, ir.CondEQ, ir.CondNE} {
		off := i * 4
		word := uint32(result.Code[off]) | uint32(result.Code[off+1])<<8 |
			uint32(result.Code[off+2])<<16 | uint32(result.Code[off+3])<<24
		got, err := disasm.Decode(word, config.FloatFPA)
		if err != nil {
			t.Fatalf("decode word %d: %v", i, err)
		}
		dp, ok := got.(*ir.DataProcessing)
		if !ok {
			t.Fatalf("decoded word %d as %T, want *ir.DataProcessing", i, got)
		}
		if dp.Cond != wantCond {
			t.Errorf("word %d condition = %v, want %v", i, dp.Cond, wantCond)
		}
	}
}

// TestScheduleRealLoadHonorsFloatModel is the regression test for the
// generic ConstReal pseudo-op: it must emit an FPA load under FloatFPA and
// a VFP load under FloatVFP, since disasm.Decode rejects the wrong family
// outright.
func TestScheduleRealLoadHonorsFloatModel(t *testing.T) {
	for _, model := range []config.FloatModel{config.FloatFPA, config.FloatVFP} {
		sec := ir.NewSection("real")
		sec.Emit(&ir.LoadConstant{Cond: ir.CondAL, Rd: 0, Kind: ir.ConstReal, RealValue: 3.5})

		result, err := EncodeSection(sec, WithFloatModel(model))
		if err != nil {
			t.Fatalf("model %v: encode: %v", model, err)
		}

		var loadWord uint32
		for off := uint32(0); off+4 <= uint32(len(result.Code)); off += 4 {
			word := uint32(result.Code[off]) | uint32(result.Code[off+1])<<8 |
				uint32(result.Code[off+2])<<16 | uint32(result.Code[off+3])<<24
			isLoad := word&(1<<lBitShift) != 0
			rn := (word >> rnShift) & 0xF
			if isLoad && rn == 15 {
				loadWord = word
				break
			}
		}
		if loadWord == 0 {
			t.Fatalf("model %v: could not find the PC-relative load word", model)
		}

		if _, err := disasm.Decode(loadWord, model); err != nil {
			t.Errorf("model %v: decode under its own model failed: %v", model, err)
		}
		other := config.FloatFPA
		if model == config.FloatFPA {
			other = config.FloatVFP
		}
		if _, err := disasm.Decode(loadWord, other); err == nil {
			t.Errorf("model %v: decode under the other model unexpectedly succeeded", model)
		}
	}
}
