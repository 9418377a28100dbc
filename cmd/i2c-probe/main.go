// cmd/i2c-probe/main.go
package main

import (
	"context"

	"libtock-go/drivers/i2cmaster"
	"libtock-go/internal/platform"
	"libtock-go/x/conv"
)

// 7-bit addresses outside the reserved blocks.
const (
	firstAddr = 0x08
	lastAddr  = 0x77
)

func main() {
	p, release, err := platform.Open(context.Background())
	if err != nil {
		println("platform:", err.Error())
		return
	}
	defer release()

	bus := i2cmaster.New(p)
	if !bus.Present() {
		println("no i2c master driver")
		return
	}

	var (
		line [64]byte
		reg  [2]byte
	)
	found := 0
	for addr := uint16(firstAddr); addr <= lastAddr; addr++ {
		if !bus.Probe(addr) {
			continue
		}
		found++
		b := append(line[:0], "found "...)
		b = conv.AppendHex(b, uint64(addr))
		if err := bus.ReadRegister(addr, 0x00, reg[:]); err == nil {
			b = append(b, " reg0="...)
			b = conv.AppendHex(b, uint64(reg[0])<<8|uint64(reg[1]))
		}
		println(string(b))
	}
	println("devices:", found)
}
