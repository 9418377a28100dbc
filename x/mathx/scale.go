package mathx

import "golang.org/x/exp/constraints"

// MapU16 rescales x from [inMin, inMax] onto [outMin, outMax], truncating.
// Inputs outside the range saturate at the matching output bound.
func MapU16(x, inMin, inMax, outMin, outMax uint16) uint16 {
	if inMax <= inMin {
		return outMin
	}
	x = Clamp(x, inMin, inMax)
	num := uint32(x-inMin) * uint32(outMax-outMin)
	return outMin + uint16(num/uint32(inMax-inMin))
}

// RoundDiv divides to the nearest integer, halves rounding up. b == 0 yields 0.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
