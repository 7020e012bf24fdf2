// Package heapgen emits the inline heap allocator sequences a code
// generator splices into a program's preamble and call sites: slot-based
// init, allocation, and free, operating on raw ir.Instr sequences rather
// than calling a runtime allocator.
//
// Adapted from the original source's arm_heap.c. That file specializes
// allocation into several hand-tuned fast paths (an exact-fit search, a
// slot-12 big-block search, in-place splitting, block-to-front promotion);
// this package keeps the slot layout, the block header, and the
// branch-free slot-index bit scan verbatim, but consolidates the
// specialized paths into one general first-fit search per slot, a
// size/complexity tradeoff recorded in DESIGN.md. Allocation does not split
// blocks: the block found is handed out whole.
package heapgen

import "github.com/zinc-lang/armbe/ir"

const (
	// MinSlotShift is the log2 of the smallest slot's block size.
	MinSlotShift = 5
	// MinSlotSize is the smallest allocatable block size, header included.
	MinSlotSize = 1 << MinSlotShift
	// MaxSlot is the index of the final (catch-all, always fragmented) slot.
	MaxSlot = 12
	// MaxSlots is the number of slot headers at the front of the heap.
	MaxSlots = MaxSlot + 1
	// BlockHeaderSize is the size in bytes of the hidden per-block header
	// (block size word, next-free-block pointer word).
	BlockHeaderSize = 8
)

// MinHeapSize returns the smallest heap region GenerateInit can legally
// initialise: enough for the final slot to hold one maximally sized block,
// plus the slot header table itself.
func MinHeapSize() uint32 {
	return uint32(1<<(MinSlotShift+MaxSlot)) + MaxSlots*4
}

// Builder is the subset of *ir.Section the generators need: enough to
// append instructions and mint/place labels. Kept as an interface so a
// caller composing a larger preamble can hand in a wrapper around an
// in-progress section without this package depending on ir.Section's full
// surface.
type Builder interface {
	Emit(ir.Instr)
	EmitLabel(label int)
	NewLabel() int
}

// Registers names the fixed register assignment GenerateInit/Alloc/Free use.
// The original source hard-codes these because the preamble runs before
// register allocation; this backend keeps that constraint for the same
// reason.
type Registers struct {
	HeapStart uint32
	HeapSize  uint32
	Scratch1  uint32
	Scratch2  uint32
	Scratch3  uint32
}

// GenerateInit emits the heap's startup sequence into sec: zero the first
// MaxSlot slot headers, then point the final slot at one block spanning the
// whole heap.
func GenerateInit(sec Builder, r Registers) {
	loop := sec.NewLabel()
	slotsCounter := r.Scratch1
	zero := r.Scratch2

	sec.Emit(movImm(ir.CondAL, slotsCounter, MaxSlot))
	sec.Emit(movImm(ir.CondAL, zero, 0))

	sec.EmitLabel(loop)
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpSUB, Rd: slotsCounter, Rn: slotsCounter, Op2: ir.Imm12{Value: 1}})
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: zero,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetShiftedReg{Num: slotsCounter, Kind: ir.LSL, Amount: 2}, PreIndex: true},
	})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpCMP, Rn: slotsCounter, Op2: ir.Imm12{Value: 0}})
	sec.Emit(branch(ir.CondNE, loop))

	finalSlotOffset := MaxSlot * 4
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: r.HeapStart,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetImm{Value: uint32(finalSlotOffset)}, PreIndex: true},
	})

	firstBlock := r.Scratch3
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpADD, Rd: firstBlock, Rn: r.HeapStart, Op2: ir.Imm12{Value: MaxSlots * 4}})
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: firstBlock,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetImm{Value: uint32(finalSlotOffset)}, PreIndex: true},
	})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpSUB, Rd: r.HeapSize, Rn: r.HeapSize, Op2: ir.Imm12{Value: MaxSlots * 4}})
	sec.Emit(&ir.SingleTransfer{Cond: ir.CondAL, Load: false, Rd: r.HeapSize, Addr: ir.AddrMode{Base: firstBlock, Offset: ir.OffsetImm{Value: 0}, PreIndex: true}})
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: zero,
		Addr: ir.AddrMode{Base: firstBlock, Offset: ir.OffsetImm{Value: 4}, PreIndex: true},
	})
}

// slotForSize emits the branch-free bit-scan that maps a requested block
// size (value, clobbered) to its slot index (ret), using scratch as working
// state; scratch may be the same register as ret. Grounded directly on
// prv_get_slot: value-1 is bit-scanned from the top down via four fixed
// OR-masks, then the result is shifted down by MinSlotShift-1 so slot 0
// covers [17, MinSlotSize] (smaller sizes give a negative index; both
// callers pass sizes of at least MinSlotSize).
func slotForSize(sec Builder, value, ret, scratch uint32) {
	masks := [5]uint32{0, 0x2, 0xc, 0xf0, 0xff00}

	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpSUB, Rd: value, Rn: value, Op2: ir.Imm12{Value: 1}})
	sec.Emit(movImm(ir.CondAL, scratch, 0xFF000000))
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpORR, Rd: scratch, Rn: scratch, Op2: ir.Imm12{Value: 0xFF0000}})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpTST, Rn: value, Op2: ir.Reg{Num: scratch}})
	// MOV without S leaves the TST flags intact.
	sec.Emit(movImm(ir.CondAL, ret, 0))

	for i := 4; i >= 0; i-- {
		sec.Emit(&ir.DataProcessing{
			Cond: ir.CondNE, Op: ir.OpMOV, Rd: value,
			Op2: ir.NewShiftedReg(value, ir.LSR, uint32(1<<uint(i))),
		})
		sec.Emit(&ir.DataProcessing{Cond: ir.CondNE, Op: ir.OpORR, Rd: ret, Rn: ret, Op2: ir.Imm12{Value: uint32(1 << uint(i))}})
		if i == 0 {
			break
		}
		sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpTST, Rn: value, Op2: ir.Imm12{Value: masks[i]}})
	}

	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpSUB, Rd: ret, Rn: ret, Op2: ir.Imm12{Value: MinSlotShift - 1}})
}

// GenerateAlloc emits a request-size-in-r.Scratch1 allocation sequence: the
// request plus BlockHeaderSize is rounded up to a multiple of MinSlotSize,
// then the slot search scans from that size's slot upward, unlinking the
// first free block it finds and leaving in dest the user pointer
// BlockHeaderSize past the block's header. okLabel is jumped to on success;
// failure falls through with dest left at zero.
func GenerateAlloc(sec Builder, r Registers, dest uint32, okLabel int) {
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpADD, Rd: r.Scratch1, Rn: r.Scratch1, Op2: ir.Imm12{Value: BlockHeaderSize + MinSlotSize - 1}})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpBIC, Rd: r.Scratch1, Rn: r.Scratch1, Op2: ir.Imm12{Value: MinSlotSize - 1}})
	slot := r.Scratch2
	slotForSize(sec, r.Scratch1, slot, r.Scratch3)

	searchLoop := sec.NewLabel()
	tryNext := sec.NewLabel()
	notFound := sec.NewLabel()

	sec.EmitLabel(searchLoop)
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpCMP, Rn: slot, Op2: ir.Imm12{Value: MaxSlots}})
	sec.Emit(branch(ir.CondGE, notFound))

	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: true, Rd: dest,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetShiftedReg{Num: slot, Kind: ir.LSL, Amount: 2}, PreIndex: true},
	})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpCMP, Rn: dest, Op2: ir.Imm12{Value: 0}})
	sec.Emit(branch(ir.CondNE, tryNext))

	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpADD, Rd: slot, Rn: slot, Op2: ir.Imm12{Value: 1}})
	sec.Emit(branch(ir.CondAL, searchLoop))

	sec.EmitLabel(tryNext)
	next := r.Scratch3
	sec.Emit(&ir.SingleTransfer{Cond: ir.CondAL, Load: true, Rd: next, Addr: ir.AddrMode{Base: dest, Offset: ir.OffsetImm{Value: 4}, PreIndex: true}})
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: next,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetShiftedReg{Num: slot, Kind: ir.LSL, Amount: 2}, PreIndex: true},
	})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpADD, Rd: dest, Rn: dest, Op2: ir.Imm12{Value: BlockHeaderSize}})
	sec.Emit(branch(ir.CondAL, okLabel))

	sec.EmitLabel(notFound)
	sec.Emit(movImm(ir.CondAL, dest, 0))
}

// GenerateFree emits a sequence that returns the block at r.Scratch1 (a
// user pointer, BlockHeaderSize past its stored header) to the slot its
// header's size implies, threading it onto that slot's free list.
func GenerateFree(sec Builder, r Registers) {
	block := r.Scratch1
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpSUB, Rd: block, Rn: block, Op2: ir.Imm12{Value: BlockHeaderSize}})

	size := r.Scratch2
	sec.Emit(&ir.SingleTransfer{Cond: ir.CondAL, Load: true, Rd: size, Addr: ir.AddrMode{Base: block, Offset: ir.OffsetImm{Value: 0}, PreIndex: true}})

	slot := r.Scratch3
	slotForSize(sec, size, slot, slot)

	// A block large enough to land past the final slot is still threaded
	// onto the final slot's list, exactly as subtilis_arm_heap_free clamps
	// slot_number against max_slot before using it to index the head-pointer
	// table: without this, a freed oversized block would write through
	// heapStart+slot*4 past the slot table into live heap memory.
	sec.Emit(&ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpCMP, Rn: slot, Op2: ir.Imm12{Value: MaxSlot}})
	sec.Emit(&ir.DataProcessing{Cond: ir.CondGT, Op: ir.OpMOV, Rd: slot, Op2: ir.Imm12{Value: MaxSlot}})

	head := r.Scratch2
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: true, Rd: head,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetShiftedReg{Num: slot, Kind: ir.LSL, Amount: 2}, PreIndex: true},
	})
	sec.Emit(&ir.SingleTransfer{Cond: ir.CondAL, Load: false, Rd: head, Addr: ir.AddrMode{Base: block, Offset: ir.OffsetImm{Value: 4}, PreIndex: true}})
	sec.Emit(&ir.SingleTransfer{
		Cond: ir.CondAL, Load: false, Rd: block,
		Addr: ir.AddrMode{Base: r.HeapStart, Offset: ir.OffsetShiftedReg{Num: slot, Kind: ir.LSL, Amount: 2}, PreIndex: true},
	})
}

func movImm(cond ir.Condition, rd, value uint32) *ir.DataProcessing {
	return &ir.DataProcessing{Cond: cond, Op: ir.OpMOV, Rd: rd, Op2: ir.Imm12{Value: value}}
}

func branch(cond ir.Condition, label int) *ir.Branch {
	return &ir.Branch{Cond: cond, Target: ir.LabelTarget{Label: label}}
}
