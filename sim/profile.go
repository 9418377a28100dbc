package sim

import (
	"errors"

	"gopkg.in/yaml.v3"

	"libtock-go/trap"
)

// Profile describes a simulated board: which drivers the kernel offers and
// how their peripherals start out.
type Profile struct {
	Name     string           `yaml:"name"`
	QueueLen int              `yaml:"queue_len"`
	Memory   *Layout          `yaml:"memory"`
	ADC      *ADCProfile      `yaml:"adc"`
	I2C      *I2CProfile      `yaml:"i2c"`
	Scripted []ScriptedDriver `yaml:"scripted"`
}

type ADCProfile struct {
	Channels   int      `yaml:"channels"`
	Deferred   bool     `yaml:"deferred"`
	Millivolts []uint16 `yaml:"millivolts"`
}

type I2CProfile struct {
	Targets []I2CTarget `yaml:"targets"`
}

type I2CTarget struct {
	Addr      uint16          `yaml:"addr"`
	Registers map[byte][]byte `yaml:"registers"`
}

// ScriptedDriver answers fixed status words per command.
type ScriptedDriver struct {
	Driver   uint32           `yaml:"driver"`
	Commands map[uint32]int32 `yaml:"commands"`
}

// Board is a kernel built from a Profile, with handles on its peripherals.
type Board struct {
	Name     string
	Kernel   *Kernel
	ADC      *ADC                         // nil if the profile has none
	I2C      *I2CMaster                   // nil if the profile has none
	Targets  map[uint16]*Registers        // I2C targets by address
	Scripted map[trap.DriverNum]*Scripted // scripted drivers by number
}

var (
	errNoProfile   = errors.New("unknown_profile")
	errBadChannels = errors.New("invalid_adc_channels")
)

// ProfileLookup resolves a profile name to YAML. Override it to load
// profiles from elsewhere.
var ProfileLookup = func(name string) ([]byte, bool) {
	b, ok := embeddedProfiles[name]
	return b, ok
}

// ParseProfile decodes a YAML profile.
func ParseProfile(raw []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, err
	}
	if p.ADC != nil && p.ADC.Channels < 0 {
		return Profile{}, errBadChannels
	}
	return p, nil
}

// LoadProfile resolves name through ProfileLookup and parses it.
func LoadProfile(name string) (Profile, error) {
	raw, ok := ProfileLookup(name)
	if !ok || len(raw) == 0 {
		return Profile{}, errNoProfile
	}
	return ParseProfile(raw)
}

// NewBoard builds a kernel with every driver p declares.
func NewBoard(p Profile) *Board {
	var opts []Option
	if p.QueueLen > 0 {
		opts = append(opts, WithQueueLen(p.QueueLen))
	}
	if p.Memory != nil {
		opts = append(opts, WithMemory(*p.Memory))
	}
	b := &Board{
		Name:     p.Name,
		Kernel:   New(opts...),
		Targets:  map[uint16]*Registers{},
		Scripted: map[trap.DriverNum]*Scripted{},
	}
	if p.ADC != nil {
		b.ADC = NewADC(p.ADC.Channels)
		b.ADC.Deferred = p.ADC.Deferred
		for ch, mv := range p.ADC.Millivolts {
			if ch < p.ADC.Channels {
				b.ADC.SetMillivolts(ch, mv)
			}
		}
		b.Kernel.Register(ADCDriverNum, b.ADC)
	}
	if p.I2C != nil {
		b.I2C = NewI2CMaster()
		for _, t := range p.I2C.Targets {
			regs := &Registers{}
			for reg, v := range t.Registers {
				regs.Set(reg, v...)
			}
			b.I2C.Connect(t.Addr, regs)
			b.Targets[t.Addr] = regs
		}
		b.Kernel.Register(I2CDriverNum, b.I2C)
	}
	for _, sd := range p.Scripted {
		s := NewScripted()
		for cmd, rc := range sd.Commands {
			s.On(trap.CommandNum(cmd), rc)
		}
		num := trap.DriverNum(sd.Driver)
		b.Kernel.Register(num, s)
		b.Scripted[num] = s
	}
	return b
}

// Load is LoadProfile followed by NewBoard.
func Load(name string) (*Board, error) {
	p, err := LoadProfile(name)
	if err != nil {
		return nil, err
	}
	return NewBoard(p), nil
}
