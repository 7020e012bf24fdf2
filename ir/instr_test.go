package ir

import "testing"

func TestConditionValid(t *testing.T) {
	if !CondAL.Valid() {
		t.Error("CondAL should be valid")
	}
	if Condition(15).Valid() {
		t.Error("the reserved NV encoding (15) should not be valid")
	}
}

func TestDPOpIsCompare(t *testing.T) {
	compares := []DPOp{OpTST, OpTEQ, OpCMP, OpCMN}
	for _, op := range compares {
		if !op.IsCompare() {
			t.Errorf("%v should report IsCompare", op)
		}
	}
	if OpADD.IsCompare() {
		t.Error("OpADD should not report IsCompare")
	}
}

func TestNewShiftedRegNormalizesZeroShift(t *testing.T) {
	lsr := NewShiftedReg(1, LSR, 0)
	if lsr.Amount != 32 {
		t.Errorf("LSR #0 should normalize to 32, got %d", lsr.Amount)
	}
	asr := NewShiftedReg(1, ASR, 0)
	if asr.Amount != 32 {
		t.Errorf("ASR #0 should normalize to 32, got %d", asr.Amount)
	}
	lsl := NewShiftedReg(1, LSL, 0)
	if lsl.Amount != 0 {
		t.Errorf("LSL #0 should stay 0, got %d", lsl.Amount)
	}
}

func TestPushPopBuildsStmdbLdmia(t *testing.T) {
	push := NewPush(CondAL, 0x0007)
	if push.Load || push.Mode != ModeDB || push.Rn != 13 || !push.WriteBack {
		t.Errorf("NewPush = %+v, want STMDB sp! shape", push)
	}
	pop := NewPop(CondAL, 0x0007)
	if !pop.Load || pop.Mode != ModeIA || pop.Rn != 13 || !pop.WriteBack {
		t.Errorf("NewPop = %+v, want LDMIA sp! shape", pop)
	}
}

func TestSectionIndex(t *testing.T) {
	p := NewProgram()
	a := p.AddSection("a")
	b := p.AddSection("b")
	if p.SectionIndex(a) != 0 || p.SectionIndex(b) != 1 {
		t.Errorf("section indices = %d, %d, want 0, 1", p.SectionIndex(a), p.SectionIndex(b))
	}
	other := NewSection("c")
	if p.SectionIndex(other) != -1 {
		t.Error("expected -1 for a section not belonging to the program")
	}
}
