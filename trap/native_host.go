//go:build !(tock && tinygo && cortexm)

package trap

// Without the SVC platform there is no trap instruction; a simulated kernel
// must be installed with SetDefault.
func native() Platform { return nil }
