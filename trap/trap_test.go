package trap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"libtock-go/trap"
	"libtock-go/trap/mocks"
)

func TestOpcodeNames(t *testing.T) {
	want := []string{"yield", "subscribe", "command", "allow", "memop"}
	for i, name := range want {
		assert.Equal(t, name, trap.Opcode(i).String())
	}
	assert.Equal(t, "invalid", trap.Opcode(5).String())
}

func TestDefaultPlatform(t *testing.T) {
	p := mocks.NewPlatform(t)
	prev := trap.SetDefault(p)
	defer trap.SetDefault(prev)

	assert.Same(t, p, trap.Default())

	trap.SetDefault(nil)
	assert.Panics(t, func() { trap.Default() })
}

type taggedPlatform struct {
	*mocks.Platform
	tags map[string]int
}

func TestComparable(t *testing.T) {
	p := mocks.NewPlatform(t)
	assert.True(t, trap.Comparable(p))
	assert.False(t, trap.Comparable(nil))
	assert.False(t, trap.Comparable(taggedPlatform{Platform: p}))
	assert.True(t, trap.Comparable(&taggedPlatform{Platform: p}))
}
