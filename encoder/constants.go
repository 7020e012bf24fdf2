package encoder

// Bit shift positions shared by every data-processing and load/store
// encoder. Names mirror the architecture reference's field names.
const (
	conditionShift = 28
	opcodeShift    = 21
	sBitShift      = 20
	rnShift        = 16
	rdShift        = 12
	rsShift        = 8
	pBitShift      = 24
	uBitShift      = 23
	bBitShift      = 22
	wBitShift      = 21
	lBitShift      = 20
	linkShift      = 24
)

// Instruction-class type bits (bits 27..25 before being shifted into
// position) and other fixed markers.
const (
	branchTypeBits       = 5 << 25 // bits 27..25 = 0b101
	multiTransferTypeBits = 4 << 25 // bits 27..25 = 0b100
	singleTransferBit26  = 1 << 26
	swiTypeBits          = 0xF << 24
	multiplyMarker       = 9 << 4 // bits 7..4 = 0b1001
)

// Field masks used by the pool flush's in-place word patching.
const (
	uBitMask     = 1 << uBitShift
	offset12Mask = 0xFFF
)

// Immediate value limits.
const (
	maxOffset12      = 4095
	maxOffsetMisc    = 255
	maxBranchOffset  = 0x7FFFFF
	minBranchOffset  = -0x800000
)

const wordSize = 4
