package mathx

import "golang.org/x/exp/constraints"

// AlignUp rounds v up to the next multiple of align, which must be a power of two.
func AlignUp[T constraints.Unsigned](v, align T) T {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// IsAligned reports whether v is a multiple of align (a power of two).
func IsAligned[T constraints.Unsigned](v, align T) bool {
	return align == 0 || v&(align-1) == 0
}

// IsPow2 reports whether v is a non-zero power of two.
func IsPow2[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}
