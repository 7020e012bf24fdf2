package riscv

// Peephole removes ADDI-based no-op moves from sec's op chain. Grounded
// directly on subtilis_rv_peephole: a window-of-one pass that drops every
// ADDI rd, rd, 0 unless the op before it is an SB-type branch, in which case
// the no-op is kept. ADDIs that are not no-ops are never removed.
func Peephole(sec *Section) {
	prev := none
	ptr := sec.First()

	for ptr != none {
		op := sec.At(ptr)

		if op.Kind != OpInstr {
			prev = ptr
			ptr = op.next
			continue
		}

		if op.Instr.Type != ADDI {
			prev = ptr
			ptr = op.next
			continue
		}

		if op.Instr.IsNop() {
			if prev == none {
				ptr = sec.removeOp(ptr)
				prev = none
				continue
			}
			prevOp := sec.At(prev)
			if prevOp.Kind != OpInstr || prevOp.Instr.Encoding != EncodingSB {
				ptr = sec.removeOp(ptr)
				prev = none
				continue
			}
		}

		prev = ptr
		ptr = op.next
	}
}
