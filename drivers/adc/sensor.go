package adc

import (
	"tinygo.org/x/drivers"

	"libtock-go/trap"
	"libtock-go/x/mathx"
)

// Full-scale count of the converter, used to scale raw values to volts.
const fullScale = 4095

// Sensor reads one channel through ReadSync and reports it as a
// tinygo.org/x/drivers sensor.
type Sensor struct {
	p       trap.Platform
	channel uint32
	refMV   uint32

	raw uint32
}

var _ drivers.Sensor = (*Sensor)(nil)

// NewSensor returns a sensor on channel whose full-scale reading is refMV
// millivolts.
func NewSensor(p trap.Platform, channel, refMV uint32) *Sensor {
	return &Sensor{p: p, channel: channel, refMV: refMV}
}

// Update takes a fresh sample when which includes drivers.Voltage.
func (s *Sensor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	v, err := ReadSync(s.p, s.channel)
	if err != nil {
		return err
	}
	s.raw = v
	return nil
}

// Raw returns the value read by the last Update.
func (s *Sensor) Raw() uint32 { return s.raw }

// Voltage returns the last reading in microvolts.
func (s *Sensor) Voltage() int32 {
	return int32(mathx.RoundDiv(uint64(s.raw)*uint64(s.refMV)*1000, fullScale))
}
