package riscv

// Walker dispatches over a Section's op chain by op shape, the same
// visitor shape as the original source's subtilis_rv_walker_t: one
// callback per instruction encoding plus one each for labels and
// directives. A nil callback skips ops of that shape.
type Walker struct {
	RFunc         func(op *Op, r RType)
	IFunc         func(op *Op, i IType)
	SBFunc        func(op *Op, sb SBType)
	UJFunc        func(op *Op, uj UJType)
	LabelFunc     func(op *Op, label int)
	DirectiveFunc func(op *Op)
	// stop aborts WalkFromTo early, mirroring the original's
	// subtilis_error_set_walker_failed signal.
	stop bool
}

// WalkFromTo visits every op in [from, to) in chain order, dispatching each
// to the matching Walker callback. A callback sets stop on the Walker it
// closes over (see isRegWrittenBetween) to abort the walk early, the same
// early-exit the original expresses through its error-based walker_failed
// signal.
func WalkFromTo(sec *Section, w *Walker, from, to int) {
	w.stop = false
	ptr := from
	for ptr != to && ptr != none {
		op := sec.At(ptr)
		switch op.Kind {
		case OpLabel:
			if w.LabelFunc != nil {
				w.LabelFunc(op, op.Label)
			}
		case OpDirective:
			if w.DirectiveFunc != nil {
				w.DirectiveFunc(op)
			}
		case OpInstr:
			switch op.Instr.Encoding {
			case EncodingR:
				if w.RFunc != nil {
					w.RFunc(op, op.Instr.R)
				}
			case EncodingI:
				if w.IFunc != nil {
					w.IFunc(op, op.Instr.I)
				}
			case EncodingSB:
				if w.SBFunc != nil {
					w.SBFunc(op, op.Instr.SB)
				}
			case EncodingUJ:
				if w.UJFunc != nil {
					w.UJFunc(op, op.Instr.UJ)
				}
			}
		}
		if w.stop {
			return
		}
		ptr = sec.Next(ptr)
	}
}

// isRegWrittenBetween reports whether reg appears as a destination anywhere
// in [from, to), the walker-based test subtilis_rv_int_used.c builds
// prv_is_reg_used_before from: a hit on any r/i/uj destination stops the
// walk early via w.stop, the same way the original distinguishes "found"
// from "walked off the end of the range."
func isRegWrittenBetween(sec *Section, reg, from, to int) bool {
	found := false
	w := &Walker{}
	markIfMatch := func(op *Op, rd int) {
		if rd == reg {
			found = true
			w.stop = true
		}
	}
	w.RFunc = func(op *Op, r RType) { markIfMatch(op, r.Rd) }
	w.IFunc = func(op *Op, i IType) { markIfMatch(op, i.Rd) }
	w.UJFunc = func(op *Op, uj UJType) { markIfMatch(op, uj.Rd) }
	WalkFromTo(sec, w, from, to)
	return found
}

// RegsUsedVirt is the bitset pair subtilis_regs_used_virt_t tracks: which
// virtual integer and real argument registers are live across a call.
type RegsUsedVirt struct {
	IntRegs  map[int]bool
	RealRegs map[int]bool
}

// RegsUsedBeforeFromTo finds which virtual argument registers beyond the
// machine's physical register files are written somewhere in [from, to),
// meaning a spill slot allocated to one of them is still live and must be
// preserved across the range. Grounded on
// subtilis_rv_regs_used_before_from_tov.
func RegsUsedBeforeFromTo(sec *Section, from, to, maxIntRegs, intArgs, maxRealRegs, realArgs int) *RegsUsedVirt {
	used := &RegsUsedVirt{IntRegs: map[int]bool{}, RealRegs: map[int]bool{}}

	for i := maxIntRegs; i < intArgs; i++ {
		if isRegWrittenBetween(sec, i, from, to) {
			used.IntRegs[i] = true
		}
	}
	for i := maxRealRegs; i < realArgs; i++ {
		if isRegWrittenBetween(sec, i, from, to) {
			used.RealRegs[i] = true
		}
	}
	return used
}
