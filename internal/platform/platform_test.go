//go:build !tock

package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libtock-go/drivers/adc"
	"libtock-go/trap"
)

func TestOpenInstallsSimulatedBoard(t *testing.T) {
	t.Setenv(BoardEnv, "nrf52dk")
	p, closeFn, err := Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, p, trap.Default())

	v, err := adc.ReadSync(p, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(4095), v)

	closeFn()
	assert.Panics(t, func() { trap.Default() })
}

func TestOpenUnknownBoard(t *testing.T) {
	t.Setenv(BoardEnv, "nope")
	_, _, err := Open(context.Background())
	assert.Error(t, err)
}
