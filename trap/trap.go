// Package trap is the only place the process talks to the kernel. It names
// the five fixed traps and the Platform interface that issues them; it never
// interprets a status word.
package trap

import "reflect"

// Opcode selects one of the five traps.
type Opcode uint8

const (
	OpYield     Opcode = 0
	OpSubscribe Opcode = 1
	OpCommand   Opcode = 2
	OpAllow     Opcode = 3
	OpMemop     Opcode = 4
)

func (o Opcode) String() string {
	switch o {
	case OpYield:
		return "yield"
	case OpSubscribe:
		return "subscribe"
	case OpCommand:
		return "command"
	case OpAllow:
		return "allow"
	case OpMemop:
		return "memop"
	default:
		return "invalid"
	}
}

// DriverNum identifies a kernel-resident driver.
type DriverNum uint32

// Selectors live in separate namespaces per driver.
type (
	CommandNum   uint32
	SubscribeNum uint32
	AllowNum     uint32
	MemopNum     uint32
)

// ReturnCode is the signed status word every trap returns.
type ReturnCode = int32

// Upcall is the fixed shape the kernel calls back into: three driver-defined
// argument words and the userdata word given at subscribe time.
type Upcall func(arg0, arg1, arg2, userdata uintptr)

// Platform issues the five traps. Every method except Yield completes
// synchronously; Yield returns only after the kernel has run one pending upcall.
//
// A nil Upcall passed to Subscribe and an empty buffer passed to Allow revoke
// the slot.
//
// Registrations are tracked per platform value, so implementations must be
// comparable: a pointer or a struct without slice, map or func fields.
type Platform interface {
	Yield()
	Subscribe(driver DriverNum, slot SubscribeNum, upcall Upcall, userdata uintptr) ReturnCode
	Command(driver DriverNum, cmd CommandNum, arg1, arg2 uintptr) ReturnCode
	Allow(driver DriverNum, slot AllowNum, buf []byte) ReturnCode
	Memop(op MemopNum, arg uintptr) ReturnCode
}

var defaultPlatform Platform = native()

// Comparable reports whether p can key the per-platform registration tables.
func Comparable(p Platform) bool {
	t := reflect.TypeOf(p)
	return t != nil && t.Comparable()
}

// Default returns the process platform. It panics when no platform is
// available, which on host builds means SetDefault was never called.
func Default() Platform {
	if defaultPlatform == nil {
		panic("trap: no platform for this build; call trap.SetDefault")
	}
	return defaultPlatform
}

// SetDefault installs p as the process platform and returns the previous one.
func SetDefault(p Platform) Platform {
	old := defaultPlatform
	defaultPlatform = p
	return old
}
