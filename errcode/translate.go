package errcode

// table is indexed by -rc for the fixed range -1..-13.
var table = [...]Code{
	1:  Fail,
	2:  Busy,
	3:  Already,
	4:  Off,
	5:  Reserve,
	6:  Invalid,
	7:  Size,
	8:  Cancel,
	9:  NoMem,
	10: NoSupport,
	11: NoDevice,
	12: Uninstalled,
	13: NoAck,
}

// FromReturn translates a status word into an error.
// Non-negative words are success (nil), zero included.
func FromReturn(rc int32) error {
	if rc >= 0 {
		return nil
	}
	if rc >= -int32(len(table)-1) {
		return table[-rc]
	}
	return &E{C: Unknown, Raw: rc}
}

// Result translates a status word for call sites expecting a value.
func Result(rc int32) (uint32, error) {
	if rc >= 0 {
		return uint32(rc), nil
	}
	return 0, FromReturn(rc)
}

// Raw is the inverse of FromReturn for the fixed table.
// It returns 0 for OK, Unknown and any code outside the table.
func Raw(c Code) int32 {
	for i := 1; i < len(table); i++ {
		if table[i] == c {
			return -int32(i)
		}
	}
	return 0
}

// ToReturn converts an error back into a status word. Unknown codes keep the
// word they were built from; nil is 0.
func ToReturn(err error) int32 {
	if err == nil {
		return 0
	}
	if raw, ok := RawOf(err); ok {
		return raw
	}
	return Raw(Fail)
}
