package spindle

import "testing"

func TestI16ToU16(t *testing.T) {
	cases := []struct {
		in   int16
		want uint16
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{32767, 32767},
		{-1, 65535},
		{-2, 65534},
		{-32768, 32768},
	}
	for _, c := range cases {
		if got := i16ToU16(c.in); got != c.want {
			t.Errorf("i16ToU16(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestU16ToI16(t *testing.T) {
	cases := []struct {
		in   uint16
		want int16
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{32767, 32767},
		{65535, -1},
		{65534, -2},
		{32768, -32768},
	}
	for _, c := range cases {
		if got := u16ToI16(c.in); got != c.want {
			t.Errorf("u16ToI16(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRPMRoundTrip(t *testing.T) {
	for n := int16(-1000); n < 1000; n += 7 {
		if got := u16ToI16(i16ToU16(n)); got != n {
			t.Errorf("round trip failed for %d: got %d", n, got)
		}
	}
}
