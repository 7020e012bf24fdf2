// Package linker stitches a program's independently encoded sections into
// one flat byte image: patching inter-section branches now that every
// section's start offset is known, appending the program-wide constant
// pool, and patching every LoadConstant{Kind: ConstProgram} site to point
// at its resolved slot.
//
// Adapted directly from the original source's arm_link.c: the same two
// fix-up passes (externals, then constants), the same assertion-failure
// behaviour on an out-of-range index, re-expressed over Go's byte-offset
// buffers instead of the original's word-indexed array.
package linker

import (
	"math"

	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/encoder"
	"github.com/zinc-lang/armbe/ir"
)

// Output is the fully linked program: one flat byte image plus the byte
// offset, from the start of Code, of the chosen entry section.
type Output struct {
	Code        []byte
	EntryOffset uint32
}

// Link combines results, one per program.Sections entry in order, into a
// single image. entrySection selects which section's start offset is
// reported as the program's entry point.
func Link(cfg *config.Config, program *ir.Program, results []*encoder.Result, entrySection int) (*Output, error) {
	if len(results) != len(program.Sections) {
		return nil, &asmerr.AssertionFailed{Msg: "linker: result count does not match section count"}
	}
	if entrySection < 0 || entrySection >= len(results) {
		return nil, &asmerr.AssertionFailed{Msg: "linker: entry section index out of range"}
	}

	starts := make([]uint32, len(results))
	var code []byte
	for i, r := range results {
		starts[i] = uint32(len(code))
		code = append(code, r.Code...)
	}

	if err := linkExternals(code, results, starts); err != nil {
		return nil, err
	}

	constBase := cfg.BaseAddress + uint32(len(code))
	constOffsets := layoutGlobalConstants(program.GlobalConstants, constBase)
	if err := linkConstants(code, results, starts, constOffsets); err != nil {
		return nil, err
	}

	code = append(code, renderGlobalConstants(program.GlobalConstants, cfg.ReverseFPADoubles)...)

	if cfg.Plat != nil {
		code = cfg.Plat(code)
	}

	return &Output{Code: code, EntryOffset: starts[entrySection]}, nil
}

// linkExternals resolves every SectionTarget branch the encoder could not
// resolve on its own: the placeholder word's low 24 bits hold the target
// section's index, which is overwritten with the PC-relative word distance
// to that section's start, exactly as arm_link.c's first loop does.
func linkExternals(code []byte, results []*encoder.Result, starts []uint32) error {
	for i, r := range results {
		for _, localOffset := range r.ExternalBranches {
			siteOffset := starts[i] + localOffset
			word, err := readWord(code, siteOffset)
			if err != nil {
				return err
			}
			sectionIdx := word & 0xFFFFFF
			if sectionIdx >= uint32(len(starts)) {
				return &asmerr.AssertionFailed{Msg: "linker: external branch names an unknown section"}
			}
			siteWordIndex := siteOffset / 4
			targetWordIndex := starts[sectionIdx] / 4
			dist := (int64(targetWordIndex) - int64(siteWordIndex) - 2) & 0xFFFFFF
			word = (word &^ 0xFFFFFF) | uint32(dist)
			writeWord(code, siteOffset, word)
		}
	}
	return nil
}

// linkConstants patches every ConstProgram pool slot with the resolved
// runtime address of its global constant (cfg.BaseAddress plus its offset
// into the image, baked into constOffsets by layoutGlobalConstants), now
// that the whole image's layout is fixed.
func linkConstants(code []byte, results []*encoder.Result, starts []uint32, constOffsets []uint32) error {
	for i, r := range results {
		for _, ref := range r.ConstantRefs {
			if ref.PoolIndex < 0 || ref.PoolIndex >= len(constOffsets) {
				return &asmerr.AssertionFailed{Msg: "linker: constant reference names an unknown pool entry"}
			}
			siteOffset := starts[i] + ref.CodeIndex
			writeWord(code, siteOffset, constOffsets[ref.PoolIndex])
		}
	}
	return nil
}

// layoutGlobalConstants assigns each constant a runtime address, packing
// sequentially from base (the image's load address plus the code size) and
// aligning every entry to 4 bytes (8 for a double). Alignment is measured
// from the start of the pool, exactly as renderGlobalConstants pads, so each
// address names the bytes rendered for that constant.
func layoutGlobalConstants(consts []ir.GlobalConstant, base uint32) []uint32 {
	offsets := make([]uint32, len(consts))
	cur := uint32(0)
	for i, c := range consts {
		if c.IsDouble {
			cur = alignUp(cur, 8)
		} else {
			cur = alignUp(cur, 4)
		}
		offsets[i] = base + cur
		cur += uint32(len(c.Data))
	}
	return offsets
}

func renderGlobalConstants(consts []ir.GlobalConstant, reverse bool) []byte {
	var out []byte
	for _, c := range consts {
		pad := alignUp(uint32(len(out)), alignFor(c))
		for uint32(len(out)) < pad {
			out = append(out, 0)
		}
		data := c.Data
		if c.IsDouble && reverse && len(data) == 8 {
			swapped := make([]byte, 8)
			copy(swapped[0:4], data[4:8])
			copy(swapped[4:8], data[0:4])
			data = swapped
		}
		out = append(out, data...)
	}
	return out
}

func alignFor(c ir.GlobalConstant) uint32 {
	if c.IsDouble {
		return 8
	}
	return 4
}

func alignUp(v, to uint32) uint32 {
	rem := v % to
	if rem == 0 {
		return v
	}
	return v + (to - rem)
}

func readWord(code []byte, offset uint32) (uint32, error) {
	if uint64(offset)+4 > uint64(len(code)) || offset%4 != 0 {
		return 0, &asmerr.BadAlignment{Offset: offset}
	}
	return uint32(code[offset]) |
		uint32(code[offset+1])<<8 |
		uint32(code[offset+2])<<16 |
		uint32(code[offset+3])<<24, nil
}

func writeWord(code []byte, offset, word uint32) {
	code[offset] = byte(word)
	code[offset+1] = byte(word >> 8)
	code[offset+2] = byte(word >> 16)
	code[offset+3] = byte(word >> 24)
}

// DoubleBytes renders v as an 8-byte little-endian IEEE-754 blob in natural
// word order; it never swaps. Entries marked IsDouble are swapped later by
// renderGlobalConstants when ReverseFPADoubles is set -- the GlobalConstant
// counterpart to encoder's mid-section realWordPair, kept separate because
// the program-wide pool is assembled after every section is encoded rather
// than interleaved with one section's code.
func DoubleBytes(v float64) []byte {
	bits := math.Float64bits(v)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> (8 * i))
	}
	return b
}
