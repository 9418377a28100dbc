package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libtock-go/errcode"
)

func TestEmbeddedProfilesLoad(t *testing.T) {
	for name := range embeddedProfiles {
		b, err := Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, b.Name)
	}
}

func TestNRF52DKBoard(t *testing.T) {
	b, err := Load("nrf52dk")
	require.NoError(t, err)
	require.NotNil(t, b.ADC)
	require.NotNil(t, b.I2C)

	assert.Equal(t, int32(6), b.Kernel.Command(ADCDriverNum, adcCmdCount, 0, 0))
	assert.Equal(t, uint16(2047), b.ADC.Counts(0))
	assert.Equal(t, uint16(4095), b.ADC.Counts(2))
	assert.Zero(t, b.Kernel.Command(I2CDriverNum, i2cCmdExists, 0, 0))

	regs := b.Targets[0x48]
	require.NotNil(t, regs)
	assert.Equal(t, []byte{0x19, 0x80}, regs.Get(0x00, 2))
	assert.Equal(t, []byte{0x60, 0xA0}, regs.Get(0x04, 2))
}

func TestHailMemory(t *testing.T) {
	b, err := Load("hail")
	require.NoError(t, err)
	assert.True(t, b.ADC.Deferred)
	assert.Equal(t, int32(0x20008000), b.Kernel.Memop(2, 0))
	assert.Equal(t, int32(1), b.Kernel.Memop(7, 0))
	assert.Nil(t, b.I2C)
}

func TestUnknownProfile(t *testing.T) {
	_, err := Load("nope")
	assert.ErrorIs(t, err, errNoProfile)
}

func TestProfileLookupOverride(t *testing.T) {
	prev := ProfileLookup
	defer func() { ProfileLookup = prev }()
	ProfileLookup = func(name string) ([]byte, bool) {
		if name != "custom" {
			return nil, false
		}
		return []byte(`
name: custom
queue_len: 2
scripted:
  - driver: 0x30000
    commands:
      0: 4
      1: -2
`), true
	}

	b, err := Load("custom")
	require.NoError(t, err)
	s := b.Scripted[0x30000]
	require.NotNil(t, s)
	assert.Equal(t, int32(4), b.Kernel.Command(0x30000, 0, 0, 0))
	assert.Equal(t, errcode.Raw(errcode.Busy), b.Kernel.Command(0x30000, 1, 0, 0))
	assert.Equal(t, 1, s.CallCount(1))
	assert.Nil(t, b.ADC)

	_, err = Load("nrf52dk")
	assert.ErrorIs(t, err, errNoProfile)
}

func TestParseProfileErrors(t *testing.T) {
	_, err := ParseProfile([]byte("adc:\n  channels: -1\n"))
	assert.ErrorIs(t, err, errBadChannels)

	_, err = ParseProfile([]byte("adc: [not, a, map]"))
	assert.Error(t, err)
}

func TestI2CMasterCommands(t *testing.T) {
	k := New()
	m := NewI2CMaster()
	regs := &Registers{}
	regs.Set(0x10, 0xAA, 0xBB)
	m.Connect(0x20, regs)
	k.Register(I2CDriverNum, m)

	var status, rlen uintptr
	require.Zero(t, k.Subscribe(I2CDriverNum, i2cSubscribe, func(_, a1, a2, _ uintptr) { status, rlen = a1, a2 }, 1))

	assert.Equal(t, errcode.Raw(errcode.Reserve), k.Command(I2CDriverNum, i2cCmdRead, 0x20, 1))

	buf := make([]byte, 4)
	require.Zero(t, k.Allow(I2CDriverNum, i2cAllowBuffer, buf))
	assert.Equal(t, errcode.Raw(errcode.Size), k.Command(I2CDriverNum, i2cCmdRead, 0x20, 5))
	assert.Equal(t, errcode.Raw(errcode.NoSupport), k.Command(I2CDriverNum, 9, 0, 0))

	buf[0] = 0x10
	require.Zero(t, k.Command(I2CDriverNum, i2cCmdWriteRead, 0x20, 1|2<<8))
	k.Yield()
	assert.Zero(t, status)
	assert.Equal(t, uintptr(2), rlen)
	assert.Equal(t, []byte{0xAA, 0xBB}, buf[:2])

	require.Zero(t, k.Command(I2CDriverNum, i2cCmdWrite, 0x21, 1))
	k.Yield()
	assert.Equal(t, errcode.Raw(errcode.NoAck), int32(uint32(status)))
}

func TestADCCommands(t *testing.T) {
	k := New()
	a := NewADC(2)
	k.Register(ADCDriverNum, a)

	assert.Equal(t, errcode.Raw(errcode.Invalid), k.Command(ADCDriverNum, adcCmdSingle, 2, 0))
	assert.Equal(t, errcode.Raw(errcode.NoSupport), k.Command(ADCDriverNum, 6, 0, 0))
	assert.Equal(t, errcode.Raw(errcode.Reserve), k.Command(ADCDriverNum, adcCmdBuffered, 0, 0))

	k.Allow(ADCDriverNum, adcAllowBuffer, make([]byte, 4))
	assert.Equal(t, errcode.Raw(errcode.Reserve), k.Command(ADCDriverNum, adcCmdBufferedAlt, 0, 0))
	require.Zero(t, k.Command(ADCDriverNum, adcCmdBuffered, 0, 0))
	assert.True(t, a.Running())
	assert.Equal(t, errcode.Raw(errcode.Busy), k.Command(ADCDriverNum, adcCmdSingle, 0, 0))

	// Revoking the buffer under a running conversion stops it.
	k.Allow(ADCDriverNum, adcAllowBuffer, nil)
	assert.False(t, a.Tick())
	assert.False(t, a.Running())
}

func TestADCBufferShrinksMidConversion(t *testing.T) {
	k := New()
	a := NewADC(1)
	a.SetMillivolts(0, 3300)
	k.Register(ADCDriverNum, a)

	var got []uintptr
	require.Zero(t, k.Subscribe(ADCDriverNum, adcSubscribeDone, func(mode, _, n, _ uintptr) {
		got = append(got, mode, n)
	}, 1))
	require.Zero(t, k.Allow(ADCDriverNum, adcAllowBuffer, make([]byte, 128)))
	require.Zero(t, k.Command(ADCDriverNum, adcCmdBuffered, 0, 1000))
	for i := 0; i < 20; i++ {
		require.False(t, a.Tick())
	}

	small := make([]byte, 8)
	require.Zero(t, k.Allow(ADCDriverNum, adcAllowBuffer, nil))
	require.Zero(t, k.Allow(ADCDriverNum, adcAllowBuffer, small))
	for i := 0; i < 3; i++ {
		assert.NotPanics(t, func() { assert.False(t, a.Tick()) })
	}
	require.True(t, a.Tick())
	k.Yield()
	assert.Equal(t, []uintptr{ADCModeBuffered, 8}, got)
	assert.Equal(t, []byte{0xFF, 0x0F, 0xFF, 0x0F, 0xFF, 0x0F, 0xFF, 0x0F}, small)
}

func TestRegistersAutoIncrement(t *testing.T) {
	var r Registers
	require.NoError(t, r.Tx([]byte{0x05, 1, 2, 3}, nil))
	out := make([]byte, 3)
	require.NoError(t, r.Tx(nil, out))
	assert.Equal(t, []byte{1, 2, 3}, out)
	assert.Equal(t, []byte{1, 2, 3}, r.Get(0x05, 3))
}
