//go:build tock

package logx

import "libtock-go/x/conv"

// Logger is a component-tagged logger. The zero value is unusable; use New.
type Logger struct {
	component string
}

// New returns a logger tagged with component.
func New(component string) *Logger { return &Logger{component: component} }

// Component returns the tag given to New.
func (l *Logger) Component() string { return l.component }

// Key/value pairs alternate: string key, then any value.
func (l *Logger) Debug(msg string, kv ...any) { l.log(LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(LevelError, msg, kv) }

var (
	minLevel = LevelInfo
	hook     func(Record)
)

func (l *Logger) log(level Level, msg string, kv []any) {
	if level < minLevel {
		return
	}
	if hook != nil {
		hook(Record{Level: level, Component: l.component, Msg: msg, Attrs: kv})
	}
	emit(level, l.component, msg, kv)
}

// SetLevel drops records below level and returns the previous threshold.
func SetLevel(level Level) Level {
	old := minLevel
	minLevel = level
	return old
}

// SetHook installs an observer that sees every emitted record, or removes it
// when fn is nil.
func SetHook(fn func(Record)) func(Record) {
	old := hook
	hook = fn
	return old
}

func emit(level Level, component, msg string, kv []any) {
	line := make([]byte, 0, 64)
	line = append(line, '[')
	line = append(line, component...)
	line = append(line, "] "...)
	line = append(line, level.String()...)
	line = append(line, ' ')
	line = append(line, msg...)
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		line = append(line, ' ')
		line = append(line, k...)
		line = append(line, '=')
		line = appendValue(line, kv[i+1])
	}
	println(string(line))
}

func appendValue(dst []byte, v any) []byte {
	var buf [20]byte
	switch x := v.(type) {
	case string:
		return append(dst, x...)
	case error:
		return append(dst, x.Error()...)
	case int:
		return append(dst, conv.Itoa(buf[:], int64(x))...)
	case int32:
		return append(dst, conv.Itoa(buf[:], int64(x))...)
	case int64:
		return append(dst, conv.Itoa(buf[:], x)...)
	case uint32:
		return append(dst, conv.Utoa(buf[:], uint64(x))...)
	case uint64:
		return append(dst, conv.Utoa(buf[:], x)...)
	case uintptr:
		return conv.AppendHex(dst, uint64(x))
	case bool:
		if x {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	default:
		return append(dst, '?')
	}
}
