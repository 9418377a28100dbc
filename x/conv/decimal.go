// Package conv formats integers into caller-supplied buffers without fmt or
// strconv, for tock builds where neither is wanted.
package conv

// Utoa writes n in base 10 at the end of buf and returns the written tail.
// A 20-byte buffer holds any uint64.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 || i == 0 {
			return buf[i:]
		}
	}
}

// Itoa is Utoa with a leading '-' for negative n. A 20-byte buffer holds any
// int64, MinInt64 included.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	digits := Utoa(buf, uint64(-(n+1))+1)
	i := len(buf) - len(digits)
	if i == 0 {
		return digits
	}
	buf[i-1] = '-'
	return buf[i-1:]
}
