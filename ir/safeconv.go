package ir

import (
	"fmt"
	"math"
)

// SafeIntToUint32 converts an int to uint32, rejecting values that would
// silently wrap (negative or above the 32-bit range on a 64-bit int).
func SafeIntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int %d to uint32", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("int value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}

// SafeInt64ToUint32 converts an int64 to uint32, rejecting out-of-range
// values.
func SafeInt64ToUint32(v int64) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative int64 %d to uint32", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("int64 value %d exceeds uint32 maximum", v)
	}
	return uint32(v), nil
}

// AsInt32 reinterprets the bit pattern of v as a signed value. Used when a
// byte offset that is known to fit in 32 bits needs sign-aware arithmetic
// (branch/back-patch distance calculations).
func AsInt32(v uint32) int32 {
	//nolint:gosec // intentional bit-pattern reinterpretation, not a range check
	return int32(v)
}
