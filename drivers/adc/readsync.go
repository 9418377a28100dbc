package adc

import (
	"libtock-go/syscalls"
	"libtock-go/trap"
)

// ReadSync takes one conversion of channel and returns the raw value. It owns
// the driver's upcall slot for the duration of the call, so it fails with
// errcode.Already wrapped in an Other error while another *ADC is open on p.
//
// ReadSync yields until the sample arrives; it never returns if the driver
// never completes the conversion.
func ReadSync(p trap.Platform, channel uint32) (uint32, error) {
	var (
		got   syscalls.Flag
		value uint32
	)
	cb := WithEvents(func(ev Event) {
		if ev.Mode == ModeSingle && ev.Channel == channel {
			value = ev.Value
			got.Set()
		}
	})
	a, err := cb.Init(p)
	if err != nil {
		return 0, err
	}
	defer a.Close()

	if err := a.Sample(channel); err != nil {
		return 0, err
	}
	got.Wait(p)
	return value, nil
}
