package conv

import (
	"math"
	"testing"
)

func TestItoaUtoa(t *testing.T) {
	var buf [20]byte
	cases := map[int64]string{
		0:             "0",
		5:             "5",
		-13:           "-13",
		math.MinInt32: "-2147483648",
		math.MaxInt32: "2147483647",
		math.MinInt64: "-9223372036854775808",
	}
	for n, want := range cases {
		if got := string(Itoa(buf[:], n)); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", n, got, want)
		}
	}
	if got := string(Utoa(buf[:], 128)); got != "128" {
		t.Fatalf("Utoa = %q", got)
	}
	if got := string(Utoa(buf[:], math.MaxUint64)); got != "18446744073709551615" {
		t.Fatalf("Utoa(max) = %q", got)
	}
}

func TestHex(t *testing.T) {
	cases := map[uint64]string{
		0:       "0x0",
		0x5:     "0x5",
		0x20003: "0x20003",
		0xBEEF:  "0xBEEF",
	}
	for n, want := range cases {
		if got := string(AppendHex(nil, n)); got != want {
			t.Fatalf("AppendHex(%#x) = %q, want %q", n, got, want)
		}
	}
}
