package riscv

import "testing"

func TestPeepholeRemovesSelfMoveNop(t *testing.T) {
	sec := NewSection()
	sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingI, I: IType{Rd: 1, Rs1: 2, Imm: 0}})
	sec.AppendInstr(Instr{Type: ADDI, Encoding: EncodingI, I: IType{Rd: 3, Rs1: 3, Imm: 0}})
	sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingI, I: IType{Rd: 4, Rs1: 5, Imm: 1}})

	Peephole(sec)

	var kept []InstrType
	for ptr := sec.First(); ptr != none; ptr = sec.Next(ptr) {
		kept = append(kept, sec.At(ptr).Instr.Type)
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 surviving ops, got %d", len(kept))
	}
}

func TestPeepholeKeepsNopAfterBranch(t *testing.T) {
	sec := NewSection()
	sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingSB, SB: SBType{Rs1: 1, Rs2: 2, Imm: 8}})
	sec.AppendInstr(Instr{Type: ADDI, Encoding: EncodingI, I: IType{Rd: 3, Rs1: 3, Imm: 0}})

	Peephole(sec)

	count := 0
	for ptr := sec.First(); ptr != none; ptr = sec.Next(ptr) {
		count++
	}
	if count != 2 {
		t.Fatalf("expected branch-target nop to survive, got %d surviving ops", count)
	}
}

func TestRegsUsedBeforeFromTo(t *testing.T) {
	sec := NewSection()
	start := sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingI, I: IType{Rd: 10, Rs1: 1, Imm: 0}})
	sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingR, R: RType{Rd: 20, Rs1: 1, Rs2: 2}})
	end := sec.AppendInstr(Instr{Type: OpOther, Encoding: EncodingI, I: IType{Rd: 1, Rs1: 1, Imm: 1}})

	used := RegsUsedBeforeFromTo(sec, start, end, 8, 32, 8, 32)
	if !used.IntRegs[10] {
		t.Errorf("expected virtual register 10 reported as written in range")
	}
	if !used.IntRegs[20] {
		t.Errorf("expected virtual register 20 reported as written in range")
	}
	if used.IntRegs[1] {
		t.Errorf("register 1 is a physical register below maxIntRegs, should not be scanned")
	}
}
