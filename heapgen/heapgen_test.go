package heapgen

import (
	"testing"

	"github.com/zinc-lang/armbe/encoder"
	"github.com/zinc-lang/armbe/ir"
)

func TestMinHeapSize(t *testing.T) {
	got := MinHeapSize()
	want := uint32(1<<(MinSlotShift+MaxSlot)) + MaxSlots*4
	if got != want {
		t.Errorf("MinHeapSize() = %d, want %d", got, want)
	}
}

func TestGenerateInitEncodes(t *testing.T) {
	sec := ir.NewSection("heap_init")
	GenerateInit(sec, Registers{HeapStart: 1, HeapSize: 3, Scratch1: 2, Scratch2: 4, Scratch3: 5})

	if len(sec.Ops) == 0 {
		t.Fatal("GenerateInit emitted no ops")
	}
	if _, err := encoder.EncodeSection(sec); err != nil {
		t.Fatalf("encode heap init sequence: %v", err)
	}
}

func TestGenerateAllocAndFreeEncode(t *testing.T) {
	sec := ir.NewSection("heap_alloc")
	ok := sec.NewLabel()
	GenerateAlloc(sec, Registers{HeapStart: 1, HeapSize: 3, Scratch1: 2, Scratch2: 4, Scratch3: 5}, 0, ok)
	sec.EmitLabel(ok)
	GenerateFree(sec, Registers{HeapStart: 1, HeapSize: 3, Scratch1: 2, Scratch2: 4, Scratch3: 5})

	if _, err := encoder.EncodeSection(sec); err != nil {
		t.Fatalf("encode heap alloc/free sequence: %v", err)
	}
}

// TestGenerateFreeClampsOversizedSlot checks that GenerateFree never indexes
// the slot head table past MaxSlot: it must emit a CMP against MaxSlot
// followed by a conditional MOV that clamps the slot register, mirroring
// the original's slot_number/max_slot guard.
func TestGenerateFreeClampsOversizedSlot(t *testing.T) {
	sec := ir.NewSection("heap_free")
	r := Registers{HeapStart: 1, HeapSize: 3, Scratch1: 2, Scratch2: 4, Scratch3: 5}
	GenerateFree(sec, r)

	foundCmp := false
	foundClamp := false
	for _, op := range sec.Ops {
		instrOp, ok := op.(*ir.InstrOp)
		if !ok {
			continue
		}
		dp, ok := instrOp.Instr.(*ir.DataProcessing)
		if !ok {
			continue
		}
		imm, isImm := dp.Op2.(ir.Imm12)
		if !isImm || imm.Value != MaxSlot {
			continue
		}
		if dp.Op == ir.OpCMP && dp.Rn == r.Scratch3 {
			foundCmp = true
		}
		if dp.Op == ir.OpMOV && dp.Cond == ir.CondGT && dp.Rd == r.Scratch3 {
			foundClamp = true
		}
	}
	if !foundCmp || !foundClamp {
		t.Errorf("GenerateFree did not emit a CMP/MOVGT clamp against MaxSlot on the slot register (cmp=%v, clamp=%v)", foundCmp, foundClamp)
	}
}
