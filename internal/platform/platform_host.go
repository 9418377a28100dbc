//go:build !tock

// Package platform picks the trap backend for the example programs. Host
// builds run against a simulated board; tock builds use the real kernel.
package platform

import (
	"context"
	"os"
	"time"

	"libtock-go/sim"
	"libtock-go/trap"
	"libtock-go/x/logx"
)

var log = logx.New("platform")

// BoardEnv names the simulated board profile to load.
const BoardEnv = "LIBTOCK_BOARD"

const (
	defaultBoard = "nrf52dk"
	samplePeriod = 10 * time.Millisecond
)

// Open loads the simulated board, starts its interrupt worker and sample
// clock, and installs it as the default platform. release stops the board and
// restores the previous default.
func Open(ctx context.Context) (p trap.Platform, release func(), err error) {
	name := os.Getenv(BoardEnv)
	if name == "" {
		name = defaultBoard
	}
	b, err := sim.Load(name)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	irq := sim.NewInterrupts(b.Kernel, 0)
	irq.Start(ctx)
	if b.ADC != nil {
		b.ADC.Wire(irq)
		irq.Clock(ctx, samplePeriod, sim.IRQ{Driver: sim.ADCDriverNum})
	}
	prev := trap.SetDefault(b.Kernel)
	log.Info("simulated board ready", "board", b.Name)

	return b.Kernel, func() {
		cancel()
		<-irq.Stopped()
		b.Kernel.Close()
		trap.SetDefault(prev)
	}, nil
}
