package mathx

import "testing"

func TestAlignUp(t *testing.T) {
	cases := []struct{ v, a, want uintptr }{
		{0, 32, 0},
		{1, 32, 32},
		{32, 32, 32},
		{33, 32, 64},
		{7, 0, 7},
	}
	for _, c := range cases {
		if got := AlignUp(c.v, c.a); got != c.want {
			t.Fatalf("AlignUp(%d,%d) = %d, want %d", c.v, c.a, got, c.want)
		}
	}
	if !IsAligned(uintptr(64), 32) || IsAligned(uintptr(65), 32) {
		t.Fatal("IsAligned")
	}
	if !IsPow2(uint32(32)) || IsPow2(uint32(0)) || IsPow2(uint32(24)) {
		t.Fatal("IsPow2")
	}
}

func TestClampAndMap(t *testing.T) {
	if Clamp(5000, 0, 4095) != 4095 || Clamp(-1, 4095, 0) != 0 {
		t.Fatal("Clamp")
	}
	if got := MapU16(1650, 0, 3300, 0, 4095); got != 2047 {
		t.Fatalf("MapU16 = %d", got)
	}
	if MapU16(5000, 0, 3300, 0, 4095) != 4095 || MapU16(7, 10, 10, 3, 9) != 3 {
		t.Fatal("MapU16 bounds")
	}
	if RoundDiv(uint64(7), 2) != 4 || RoundDiv(uint64(6), 4) != 2 || RoundDiv(uint32(5), 0) != 0 {
		t.Fatal("RoundDiv")
	}
}
