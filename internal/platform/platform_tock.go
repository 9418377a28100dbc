//go:build tock

package platform

import (
	"context"

	"libtock-go/trap"
)

// Open returns the kernel's trap platform. There is nothing to release.
func Open(context.Context) (trap.Platform, func(), error) {
	return trap.Default(), func() {}, nil
}
