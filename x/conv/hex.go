package conv

const hexd = "0123456789ABCDEF"

// AppendHex appends n as "0x" followed by the shortest uppercase hex digits.
// Driver numbers and addresses are printed this way.
func AppendHex(dst []byte, n uint64) []byte {
	dst = append(dst, '0', 'x')
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [16]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = hexd[n&0xF]
		n >>= 4
	}
	return append(dst, tmp[i:]...)
}
