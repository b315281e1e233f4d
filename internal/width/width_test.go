package width

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		w, err := Parse(bits)
		if err != nil {
			t.Fatalf("Parse(%d): %v", bits, err)
		}
		if int(w.Bits()) != bits {
			t.Fatalf("Parse(%d).Bits() = %d", bits, w.Bits())
		}
	}
	for _, bits := range []int{-8, 0, 1, 12, 24, 128, 256, 1 << 20} {
		_, err := Parse(bits)
		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Parse(%d) error = %v, want *UnsupportedError", bits, err)
		}
		if unsupported.Bits != bits {
			t.Fatalf("UnsupportedError.Bits = %d, want %d", unsupported.Bits, bits)
		}
	}
}

func TestOnesAndSigned(t *testing.T) {
	cases := []struct {
		w    Width
		ones uint64
		min  int64
	}{
		{W8, 0xFF, -128},
		{W16, 0xFFFF, -32768},
		{W32, 0xFFFFFFFF, -2147483648},
		{W64, 0xFFFFFFFFFFFFFFFF, -9223372036854775808},
	}
	for _, tc := range cases {
		if got := tc.w.Ones(); got != tc.ones {
			t.Fatalf("%d.Ones() = %#x, want %#x", tc.w, got, tc.ones)
		}
		if got := tc.w.Signed(tc.ones); got != -1 {
			t.Fatalf("%d.Signed(ones) = %d, want -1", tc.w, got)
		}
		top := (tc.ones >> 1) + 1
		if got := tc.w.Signed(top); got != tc.min {
			t.Fatalf("%d.Signed(%#x) = %d, want %d", tc.w, top, got, tc.min)
		}
	}
}

func TestInvalidWidthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for width 12")
		}
	}()
	_ = Width(12).Ones()
}

func TestNormalize(t *testing.T) {
	got := Normalize([]Width{W32, W8, W32, W16, W8})
	want := []Width{W8, W16, W32}
	if len(got) != len(want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Normalize = %v, want %v", got, want)
		}
	}
}
