package linker

import (
	"testing"

	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/encoder"
	"github.com/zinc-lang/armbe/ir"
)

func TestLinkExternalBranch(t *testing.T) {
	caller := ir.NewSection("caller")
	caller.Emit(&ir.Branch{Cond: ir.CondAL, Link: true, Target: ir.SectionTarget{Section: 1}})

	callee := ir.NewSection("callee")
	callee.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpMOV, Rd: 0, Op2: ir.Imm12{Value: 1}})

	program := ir.NewProgram()
	program.Sections = []*ir.Section{caller, callee}

	callerResult, err := encoder.EncodeSection(caller)
	if err != nil {
		t.Fatalf("encode caller: %v", err)
	}
	calleeResult, err := encoder.EncodeSection(callee)
	if err != nil {
		t.Fatalf("encode callee: %v", err)
	}

	out, err := Link(config.DefaultConfig(), program, []*encoder.Result{callerResult, calleeResult}, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	word := uint32(out.Code[0]) | uint32(out.Code[1])<<8 | uint32(out.Code[2])<<16 | uint32(out.Code[3])<<24
	// caller's instruction sits at word index 0, callee's at word index 1
	// (4 bytes per section): distance = 1 - 0 - 2 = -1, encoded in 24 bits.
	wantOffset := uint32(0xFFFFFF)
	if word&0xFFFFFF != wantOffset {
		t.Errorf("external branch offset = 0x%X, want 0x%X", word&0xFFFFFF, wantOffset)
	}
	if word&0xFF000000 == 0 {
		t.Errorf("expected link bit and condition preserved, got 0x%08X", word)
	}
}

func TestLinkGlobalConstant(t *testing.T) {
	sec := ir.NewSection("main")
	sec.Emit(&ir.LoadConstant{Cond: ir.CondAL, Rd: 0, Kind: ir.ConstProgram, PoolIndex: 0})

	program := ir.NewProgram()
	program.GlobalConstants = []ir.GlobalConstant{
		{Data: []byte{0xAA, 0xBB, 0xCC, 0xDD}},
	}
	program.Sections = []*ir.Section{sec}

	result, err := encoder.EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(result.ConstantRefs) != 1 {
		t.Fatalf("expected 1 constant ref, got %d", len(result.ConstantRefs))
	}

	cfg := config.DefaultConfig()
	out, err := Link(cfg, program, []*encoder.Result{result}, 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	poolSlot := result.ConstantRefs[0].CodeIndex
	got := uint32(out.Code[poolSlot]) | uint32(out.Code[poolSlot+1])<<8 |
		uint32(out.Code[poolSlot+2])<<16 | uint32(out.Code[poolSlot+3])<<24
	// constants are laid out right after the code, and the resolved value is
	// a runtime address: the image's load address plus that in-image offset.
	tailOffset := uint32(len(result.Code))
	wantAddr := cfg.BaseAddress + tailOffset
	if got != wantAddr {
		t.Errorf("resolved constant address = 0x%X, want 0x%X", got, wantAddr)
	}

	tail := out.Code[tailOffset : tailOffset+4]
	for i, b := range []byte{0xAA, 0xBB, 0xCC, 0xDD} {
		if tail[i] != b {
			t.Errorf("constant byte %d = 0x%X, want 0x%X", i, tail[i], b)
		}
	}
}
