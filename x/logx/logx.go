// Package logx is the runtime's logger. Host builds log through
// github.com/hashicorp/go-hclog, one named sub-logger per component; tock
// builds print a "[component] LEVEL msg k=v" line with println.
package logx

// Level orders log records.
type Level int8

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch {
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarn:
		return "WARN"
	case l >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Record is what SetHook observers receive.
type Record struct {
	Level     Level
	Component string
	Msg       string
	Attrs     []any
}
