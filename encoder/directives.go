package encoder

import (
	"math"

	"github.com/zinc-lang/armbe/asmerr"
	"github.com/zinc-lang/armbe/ir"
)

// encodeDirective emits raw bytes, half-words, words, doubles, floats, and
// null-terminated strings, or pads to an alignment boundary. Only
// DirectiveAlign forces 4-byte re-alignment on its own; every other
// directive may transiently leave bytesWritten non-multiple-of-4, as the
// data model's invariant allows.
func (s *State) encodeDirective(d *ir.DirectiveOp) error {
	switch d.Kind {
	case ir.DirectiveAlign:
		return s.alignTo(d.Align)
	case ir.DirectiveByte:
		s.buf = append(s.buf, d.Bytes...)
		return nil
	case ir.DirectiveHalf:
		s.buf = append(s.buf, byte(d.Half), byte(d.Half>>8))
		return nil
	case ir.DirectiveWord:
		s.writeWord(d.Word)
		return nil
	case ir.DirectiveDouble:
		lo, hi := realWordPair(d.Double, s.reverseFPADoubles)
		s.writeWord(lo)
		s.writeWord(hi)
		return nil
	case ir.DirectiveFloat:
		s.writeWord(math.Float32bits(d.Float))
		return nil
	case ir.DirectiveString:
		s.buf = append(s.buf, []byte(d.Text)...)
		s.buf = append(s.buf, 0)
		return nil
	default:
		return &asmerr.AssertionFailed{Msg: "unknown directive kind reached the encoder"}
	}
}

func (s *State) alignTo(boundary uint32) error {
	if boundary == 0 {
		return nil
	}
	if boundary&(boundary-1) != 0 {
		return &asmerr.AssertionFailed{Msg: "alignment directive must be a power of two"}
	}
	for s.bytesWritten()%boundary != 0 {
		s.buf = append(s.buf, 0)
	}
	return nil
}
