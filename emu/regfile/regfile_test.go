package regfile

import "testing"

func TestX0AlwaysZero(t *testing.T) {
	var f File
	f.Set(0, 0xdeadbeef)
	if got := f.Get(0); got != 0 {
		t.Errorf("x0 got %08x wanted 0 after write", got)
	}
}

func TestSetGet(t *testing.T) {
	var f File
	f.Set(5, 0x12345678)
	if got := f.Get(5); got != 0x12345678 {
		t.Errorf("x5 got %08x wanted 12345678", got)
	}
	if got := f.Get(6); got != 0 {
		t.Errorf("x6 got %08x wanted 0 (never written)", got)
	}
}

func TestReset(t *testing.T) {
	var f File
	f.Set(1, 1)
	f.Set(31, 31)
	f.Reset()
	for i := uint8(0); i < Count; i++ {
		if got := f.Get(i); got != 0 {
			t.Errorf("x%d got %08x wanted 0 after Reset", i, got)
		}
	}
}
