// cmd/adc-sample/main.go
package main

import (
	"context"
	"time"

	"libtock-go/drivers/adc"
	"libtock-go/internal/platform"
	"libtock-go/syscalls"
	"libtock-go/x/conv"
)

const (
	channel = 0
	period  = 2 * time.Second
)

func main() {
	p, release, err := platform.Open(context.Background())
	if err != nil {
		println("platform:", err.Error())
		return
	}
	defer release()

	var (
		line [32]byte
		num  [20]byte
		done syscalls.Flag
	)
	cb := adc.WithCallback(func(ch, v uint32) {
		b := append(line[:0], "channel: "...)
		b = append(b, conv.Utoa(num[:], uint64(ch))...)
		b = append(b, ": "...)
		b = append(b, conv.Utoa(num[:], uint64(v))...)
		println(string(b))
		done.Set()
	})

	a, err := cb.Init(p)
	if err != nil {
		println("adc init:", err.Error())
		return
	}
	defer a.Close()

	for {
		done.Reset()
		if err := a.Sample(channel); err != nil {
			println("sample:", err.Error())
			return
		}
		done.Wait(p)
		time.Sleep(period)
	}
}
