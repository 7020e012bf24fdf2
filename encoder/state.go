// Package encoder walks an ir.Section's ops and appends one 32-bit word per
// instruction (two words for 64-bit real literals) to a growing code
// buffer, scheduling constant-pool flushes and back-patches along the way.
//
// The constant-pool manager described separately in the component design is
// not a standalone package here: it is a sub-concern of State, matching the
// teacher's own Encoder carrying its literal-pool bookkeeping as unexported
// fields rather than a delegate object.
package encoder

import (
	"log"

	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/ir"
)

// Growth granularities for the append-only tables, matching the original
// source's SUBTILIS_CONFIG_PROC_GRAN realloc pattern re-expressed as a Go
// slice capacity hint rather than a manual realloc.
const (
	backpatchGranularity = 128
	constantGranularity  = 128
	codeBufferGranularity = 4096
)

// Pool-window thresholds, in bytes, measured from the oldest pending entry
// of each kind to the projected end of buffer after flushing. These are
// deliberately not 4096/1024 minus the guarding branch's own 4 bytes: the
// original source checks pool_end-ldrc >= 4092 (and 1020 for reals), a
// one-instruction safety margin baked into the eager-flush bound rather
// than derived from it. Kept as-is; see DESIGN.md.
const (
	poolWindowInt  = 4092
	poolWindowReal = 1020
)

const noSentinel = ^uint32(0)

type pendingKind int

const (
	pendingLDR  pendingKind = iota // integer literal
	pendingLDRP                    // program-constant reference, resolved at link time
	pendingLDRF                    // real literal
)

type pendingConstant struct {
	kind      pendingKind
	label     int
	codeIndex uint32 // offset of the LDR/LDF instruction word needing back-patch
	intValue  uint32
	linkTime  bool
	poolIndex int
	realValue float64
}

type backpatchKind int

const (
	bpBranch backpatchKind = iota
	bpAdr
)

type backpatch struct {
	kind      backpatchKind
	label     int
	codeIndex uint32
}

// ConstantRef records a LoadConstant{Kind: ConstProgram} site for the
// linker: the absolute byte offset (within the section, before the
// program-wide section-start offset is added) of the placeholder pool word
// that must be overwritten with the resolved program-constant address.
type ConstantRef struct {
	CodeIndex uint32
	PoolIndex int
}

// State is the per-section encoder state, created by EncodeSection. Fields are unexported: callers only ever see the Result of a
// completed encode.
type State struct {
	logger *log.Logger

	buf []byte

	labels map[int]uint32 // label -> byte offset, set at most once

	pending    []pendingConstant
	backpatches []backpatch

	ldrcInt  uint32 // byte offset of the oldest pending int/program-constant entry; noSentinel if none
	ldrcReal uint32 // byte offset of the oldest pending real entry; noSentinel if none

	externalBranches []uint32 // code-local offsets of inter-section call sites
	constantRefs     []ConstantRef

	poolWarnings []string

	reverseFPADoubles bool
	floatModel        config.FloatModel // zero value is config.FloatFPA

	syntheticLabel int // counts down from 0; see mintSyntheticLabel
}

// Result is what EncodeSection returns: the encoded bytes plus everything
// a program-level assembler needs to stitch sections together and link
// cross-section references.
type Result struct {
	Code             []byte
	Labels           map[int]uint32
	ExternalBranches []uint32
	ConstantRefs     []ConstantRef
	PoolWarnings     []string
}

// Option configures a State.
type Option func(*State)

// WithLogger attaches a diagnostic logger; nil (the default) means silent.
func WithLogger(l *log.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithReverseFPADoubles sets the target's FPA double word order. When true,
// the two 32-bit halves of a 64-bit real are swapped on emission in
// mid-section pool flushes. This option does not reach the program's global
// constant pool: the linker swaps those halves from
// config.Config.ReverseFPADoubles, a separate flag that the caller has to
// set to the same value.
func WithReverseFPADoubles(reverse bool) Option {
	return func(s *State) { s.reverseFPADoubles = reverse }
}

// WithFloatModel selects which floating-point coprocessor family the
// generic LoadConstant{Kind: ConstReal} pseudo-op targets. The default
// (unset) is config.FloatFPA, matching FloatModel's own zero value.
func WithFloatModel(model config.FloatModel) Option {
	return func(s *State) { s.floatModel = model }
}

func newState(opts ...Option) *State {
	s := &State{
		labels:      make(map[int]uint32),
		pending:     make([]pendingConstant, 0, constantGranularity),
		backpatches: make([]backpatch, 0, backpatchGranularity),
		ldrcInt:     noSentinel,
		ldrcReal:    noSentinel,
	}
	s.buf = make([]byte, 0, codeBufferGranularity)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// bytesWritten is the current length of the code buffer.
func (s *State) bytesWritten() uint32 {
	//nolint:gosec // code buffers never approach 4GiB
	return uint32(len(s.buf))
}

// writeWord appends a 32-bit little-endian word at the current end of the
// buffer and returns its offset. It does not pad: after a raw byte, half or
// string directive the word lands unaligned, and readWord/patchWord reject
// such an offset with BadAlignment.
func (s *State) writeWord(word uint32) uint32 {
	offset := s.bytesWritten()
	s.buf = append(s.buf,
		byte(word),
		byte(word>>8),
		byte(word>>16),
		byte(word>>24),
	)
	return offset
}

// readWord reads the 32-bit little-endian word at offset, which must be a
// multiple of 4 and within the buffer.
func (s *State) readWord(offset uint32) (uint32, error) {
	if offset%4 != 0 {
		return 0, &asmerr.BadAlignment{Offset: offset}
	}
	if uint64(offset)+4 > uint64(len(s.buf)) {
		return 0, &asmerr.BadAlignment{Offset: offset}
	}
	return uint32(s.buf[offset]) |
		uint32(s.buf[offset+1])<<8 |
		uint32(s.buf[offset+2])<<16 |
		uint32(s.buf[offset+3])<<24, nil
}

// patchWord overwrites the 32-bit little-endian word at offset.
func (s *State) patchWord(offset, word uint32) error {
	if offset%4 != 0 {
		return &asmerr.BadAlignment{Offset: offset}
	}
	if uint64(offset)+4 > uint64(len(s.buf)) {
		return &asmerr.BadAlignment{Offset: offset}
	}
	s.buf[offset] = byte(word)
	s.buf[offset+1] = byte(word >> 8)
	s.buf[offset+2] = byte(word >> 16)
	s.buf[offset+3] = byte(word >> 24)
	return nil
}

// defineLabel records label's byte offset. Defining the same label twice is
// an internal assertion failure: the tiling pass must mint each label via
// Section.NewLabel and define it exactly once.
func (s *State) defineLabel(label int) error {
	if _, exists := s.labels[label]; exists {
		return &asmerr.AssertionFailed{Msg: "label defined more than once"}
	}
	s.labels[label] = s.bytesWritten()
	return nil
}

func (s *State) result() *Result {
	return &Result{
		Code:             s.buf,
		Labels:           s.labels,
		ExternalBranches: s.externalBranches,
		ConstantRefs:     s.constantRefs,
		PoolWarnings:     s.poolWarnings,
	}
}

// EncodeSection encodes every op in sec, flushing constant pools and
// resolving back-patches along the way, and returns the completed result.
// The section is never partially returned: any error discards s.
func EncodeSection(sec *ir.Section, opts ...Option) (*Result, error) {
	s := newState(opts...)
	for i, op := range sec.Ops {
		if err := s.encodeOp(sec, op); err != nil {
			return nil, asmerr.WrapEncodeError(sec.Name, i, err)
		}
	}
	if err := s.flushPool(0); err != nil {
		return nil, asmerr.WrapEncodeError(sec.Name, len(sec.Ops), err)
	}
	s.alignTo4()
	if err := s.resolveBackpatches(); err != nil {
		return nil, asmerr.WrapEncodeError(sec.Name, len(sec.Ops), err)
	}
	s.validatePoolCapacity(sec)
	return s.result(), nil
}

func (s *State) alignTo4() {
	for s.bytesWritten()%4 != 0 {
		s.buf = append(s.buf, 0)
	}
}

func (s *State) encodeOp(sec *ir.Section, op ir.Op) error {
	switch o := op.(type) {
	case *ir.LabelOp:
		return s.defineLabel(o.Label)
	case *ir.DirectiveOp:
		return s.encodeDirective(o)
	case *ir.InstrOp:
		return s.encodeInstr(sec, o.Instr)
	default:
		return &asmerr.AssertionFailed{Msg: "unknown op kind reached the encoder"}
	}
}

// validatePoolCapacity reports pools whose literal count ran far ahead of
// what a size-presizing pass would have estimated. Adapted from the
// teacher's ValidatePoolCapacity/PoolWarnings mechanism: a non-fatal
// diagnostic, distinct from the fatal asmerr errors.
func (s *State) validatePoolCapacity(sec *ir.Section) {
	total := len(sec.IntPool) + len(sec.RealPool)
	if total > 64 {
		s.poolWarnings = append(s.poolWarnings,
			"section "+sec.Name+": literal pool usage is unusually large; consider splitting the section")
	}
}
