package sim

// -----------------------------------------------------------------------------
// Embedded board profiles
//
// Key: profile name passed to Load / LoadProfile.
// Val: raw YAML for that board.
// -----------------------------------------------------------------------------

const profileNRF52DK = `
name: nrf52dk
queue_len: 32
adc:
  channels: 6
  millivolts: [1650, 825, 3300, 0, 0, 0]
i2c:
  targets:
    - addr: 0x48
      registers:
        0x00: [0x19, 0x80]
        0x04: [0x60, 0xA0]
`

const profileHail = `
name: hail
adc:
  channels: 6
  deferred: true
memory:
  memory_start: 0x20008000
  memory_end:   0x20010000
  flash_start:  0x00040000
  flash_end:    0x00050000
  grant_start:  0x2000F000
  stack_start:  0x20009000
  heap_start:   0x20009000
  flash_regions:
    - [0x0004F000, 0x00050000]
`

// bare has no peripherals; the adc entry reports zero channels.
const profileBare = `
name: bare
adc:
  channels: 0
`

var embeddedProfiles = map[string][]byte{
	"nrf52dk": []byte(profileNRF52DK),
	"hail":    []byte(profileHail),
	"bare":    []byte(profileBare),
}
