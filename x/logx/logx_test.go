//go:build !tock

package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookAndLevel(t *testing.T) {
	var got []Record
	prev := SetHook(func(r Record) { got = append(got, r) })
	defer SetHook(prev)
	prevLevel := SetLevel(LevelWarn)
	defer SetLevel(prevLevel)

	var buf bytes.Buffer
	prevOut := SetOutput(&buf)
	defer SetOutput(prevOut)

	l := New("upcall")
	l.Info("dropped")
	l.Warn("revoke failed", "driver", uint32(5), "err", "busy")

	require.Len(t, got, 1)
	assert.Equal(t, "upcall", got[0].Component)
	assert.Equal(t, LevelWarn, got[0].Level)
	assert.Equal(t, "revoke failed", got[0].Msg)

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "\n"), "info record filtered")
	assert.Contains(t, line, "[WARN]")
	assert.Contains(t, line, "upcall: revoke failed")
	assert.Contains(t, line, "driver=5")
}

func TestSetLevelRoundTrip(t *testing.T) {
	prev := SetLevel(LevelDebug)
	assert.Equal(t, LevelInfo, prev)
	assert.Equal(t, LevelDebug, SetLevel(LevelError))
	assert.Equal(t, LevelError, SetLevel(prev))
}

func TestDebugReachesHookWhenEnabled(t *testing.T) {
	var got []Record
	prev := SetHook(func(r Record) { got = append(got, r) })
	defer SetHook(prev)
	prevOut := SetOutput(&bytes.Buffer{})
	defer SetOutput(prevOut)

	l := New("sim")
	l.Debug("dropped stale upcall")
	assert.Empty(t, got)

	prevLevel := SetLevel(LevelDebug)
	defer SetLevel(prevLevel)
	l.Debug("dropped stale upcall", "slot", uint32(0))
	require.Len(t, got, 1)
	assert.Equal(t, LevelDebug, got[0].Level)
	assert.Equal(t, "sim", l.Component())
	assert.NotNil(t, l.Hclog())
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for l, want := range cases {
		if l.String() != want {
			t.Fatalf("%d: got %q want %q", l, l.String(), want)
		}
	}
}
