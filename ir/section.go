package ir

// Op is one entry in a Section's op list: an instruction, a label
// definition, or a directive. The interface is closed the same way Instr
// is: an unexported marker method restricts implementations to this file.
type Op interface {
	op()
}

// InstrOp wraps an Instr as a section op.
type InstrOp struct {
	Instr Instr
}

func (*InstrOp) op() {}

// LabelOp defines a section-local label at the current encoding position.
// Label numbers are small integers minted by Section.NewLabel; the encoder
// records the byte offset the first (and only) time it encodes this op.
type LabelOp struct {
	Label int
}

func (*LabelOp) op() {}

// DirectiveKind enumerates the raw-data and alignment directives.
type DirectiveKind int

const (
	DirectiveAlign DirectiveKind = iota
	DirectiveByte
	DirectiveHalf
	DirectiveWord
	DirectiveDouble
	DirectiveFloat
	DirectiveString
)

// DirectiveOp emits raw bytes or enforces alignment. Exactly one of the
// value fields is meaningful, selected by Kind:
//
//	DirectiveAlign:  Align (power-of-two byte boundary)
//	DirectiveByte:   Bytes
//	DirectiveHalf:   Half
//	DirectiveWord:   Word
//	DirectiveDouble: Double (64-bit IEEE-754, endian-swapped per config)
//	DirectiveFloat:  Float (32-bit IEEE-754)
//	DirectiveString: Text (null-terminated on emission)
type DirectiveOp struct {
	Kind   DirectiveKind
	Align  uint32
	Bytes  []byte
	Half   uint16
	Word   uint32
	Double float64
	Float  float32
	Text   string
}

func (*DirectiveOp) op() {}

// IntConstant is a section-local integer literal-pool entry.
type IntConstant struct {
	Label    int
	Value    uint32
	LinkTime bool
}

// RealConstant is a section-local real literal-pool entry.
type RealConstant struct {
	Label int
	Value float64
}

// Section is an ordered sequence of ops with its own label namespace and
// literal pools. A rule-driven tiling pass external to this package builds
// Sections by appending Ops directly or through the convenience methods
// below; the encoder only ever reads them.
type Section struct {
	Name     string
	Ops      []Op
	IntPool  []IntConstant
	RealPool []RealConstant

	nextLabel int
}

// NewSection creates an empty, named section.
func NewSection(name string) *Section {
	return &Section{Name: name}
}

// NewLabel mints a fresh section-local label number. Labels are small
// integers, never reused within a section.
func (s *Section) NewLabel() int {
	l := s.nextLabel
	s.nextLabel++
	return l
}

// Emit appends an instruction to the section.
func (s *Section) Emit(instr Instr) {
	s.Ops = append(s.Ops, &InstrOp{Instr: instr})
}

// EmitLabel appends a label definition at the section's current position.
func (s *Section) EmitLabel(label int) {
	s.Ops = append(s.Ops, &LabelOp{Label: label})
}

// EmitDirective appends a directive.
func (s *Section) EmitDirective(d *DirectiveOp) {
	s.Ops = append(s.Ops, d)
}

// GlobalConstant is an entry in the program-wide constant pool: an opaque
// byte blob placed by the linker at a fixed address and referenced by
// LoadConstant{Kind: ConstProgram} sites via PoolIndex.
type GlobalConstant struct {
	Data     []byte
	IsDouble bool // governs the reversed-doubles byte swap at link time
}

// Program is an ordered sequence of sections plus the global constant pool.
type Program struct {
	Sections        []*Section
	GlobalConstants []GlobalConstant
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{}
}

// AddSection appends a new, empty section and returns it.
func (p *Program) AddSection(name string) *Section {
	s := NewSection(name)
	p.Sections = append(p.Sections, s)
	return s
}

// SectionIndex returns the index of s within p, or -1 if s does not belong
// to p. Branch.Target values of type SectionTarget are resolved against
// this indexing by the linker.
func (p *Program) SectionIndex(s *Section) int {
	for i, candidate := range p.Sections {
		if candidate == s {
			return i
		}
	}
	return -1
}
