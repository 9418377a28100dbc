//go:build !tock

package logx

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// out lets SetOutput redirect every component logger, named ones included,
// without rebuilding them.
type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

var (
	out  = &swapWriter{w: os.Stderr}
	root = hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Level:  hclog.Info,
		Output: out,
	})

	hookMu sync.RWMutex
	hook   func(Record)
)

func init() {
	root.RegisterSink(hookSink{})
}

// Logger is a component-tagged logger. The zero value is unusable; use New.
type Logger struct {
	component string
	l         hclog.Logger
}

// New returns a logger named component under the process root logger.
func New(component string) *Logger {
	return &Logger{component: component, l: root.Named(component)}
}

// Component returns the tag given to New.
func (l *Logger) Component() string { return l.component }

// Key/value pairs alternate: string key, then any value.
func (l *Logger) Debug(msg string, kv ...any) { l.l.Debug(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.l.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.l.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.l.Error(msg, kv...) }

// Hclog exposes the underlying logger, for libraries that take one.
func (l *Logger) Hclog() hclog.Logger { return l.l }

func toHclog(l Level) hclog.Level {
	switch {
	case l >= LevelError:
		return hclog.Error
	case l >= LevelWarn:
		return hclog.Warn
	case l >= LevelInfo:
		return hclog.Info
	default:
		return hclog.Debug
	}
}

func fromHclog(l hclog.Level) Level {
	switch {
	case l >= hclog.Error:
		return LevelError
	case l == hclog.Warn:
		return LevelWarn
	case l == hclog.Info:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// SetLevel drops records below level and returns the previous threshold.
// Named loggers share the root's level.
func SetLevel(level Level) Level {
	old := fromHclog(root.GetLevel())
	root.SetLevel(toHclog(level))
	return old
}

// SetHook installs an observer that sees every emitted record, or removes it
// when fn is nil. Tests use it to assert on teardown warnings.
func SetHook(fn func(Record)) func(Record) {
	hookMu.Lock()
	defer hookMu.Unlock()
	old := hook
	hook = fn
	return old
}

// SetOutput redirects log lines to w and returns the previous writer. A nil
// writer leaves the output unchanged.
func SetOutput(w io.Writer) io.Writer {
	out.mu.Lock()
	defer out.mu.Unlock()
	old := out.w
	if w != nil {
		out.w = w
	}
	return old
}

// hookSink feeds SetHook. Intercept sinks see every record, so the level
// threshold is applied here.
type hookSink struct{}

func (hookSink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	if level < root.GetLevel() {
		return
	}
	hookMu.RLock()
	fn := hook
	hookMu.RUnlock()
	if fn != nil {
		fn(Record{Level: fromHclog(level), Component: name, Msg: msg, Attrs: args})
	}
}
