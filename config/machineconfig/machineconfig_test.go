package machineconfig

import (
	"os"
	"testing"

	"github.com/rv32seq/rv32seq/emu/memory"
)

func TestParseSizeSuffix(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1024", 1024},
		{"64K", 64 * 1024},
		{"64k", 64 * 1024},
		{"2M", 2 * 1024 * 1024},
	}
	for _, c := range cases {
		got, err := parseSizeSuffix(c.in)
		if err != nil {
			t.Errorf("parseSizeSuffix(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("parseSizeSuffix(%q) got %d wanted %d", c.in, got, c.want)
		}
	}

	if _, err := parseSizeSuffix("bogus"); err == nil {
		t.Error("parseSizeSuffix(\"bogus\") should have failed")
	}
}

func TestSetMemSizeAppliesToBus(t *testing.T) {
	Reset()
	if err := setMemSize(0, "128", nil); err != nil {
		t.Fatalf("setMemSize failed: %v", err)
	}
	if memory.GetSize() != 128 {
		t.Errorf("bus size got %d wanted 128", memory.GetSize())
	}
}

func TestSetEntryAndMtvec(t *testing.T) {
	Reset()
	if err := setEntry(0, "1000", nil); err != nil {
		t.Fatalf("setEntry failed: %v", err)
	}
	if Entry != 0x1000 {
		t.Errorf("Entry got %08x wanted 00001000", Entry)
	}

	if err := setMtvec(0, "2001", nil); err != nil {
		t.Fatalf("setMtvec failed: %v", err)
	}
	if Mtvec != 0x2001 {
		t.Errorf("Mtvec got %08x wanted 00002001", Mtvec)
	}
}

func TestSetBreakpoint(t *testing.T) {
	Reset()
	if BreakpointSet {
		t.Error("BreakpointSet should start false")
	}
	if err := setBreakpoint(0, "400", nil); err != nil {
		t.Fatalf("setBreakpoint failed: %v", err)
	}
	if !BreakpointSet || Breakpoint != 0x400 {
		t.Errorf("Breakpoint got %08x set=%v wanted 00000400 set=true", Breakpoint, BreakpointSet)
	}

	if err := setEntry(0, "nothex", nil); err == nil {
		t.Error("setEntry should reject a non-hex value")
	}
}

func TestSetTimer(t *testing.T) {
	Reset()
	if TimerSet {
		t.Error("TimerSet should start false")
	}
	if err := setTimer(0, "10000", nil); err != nil {
		t.Fatalf("setTimer failed: %v", err)
	}
	if !TimerSet || TimerPeriod != 10000 {
		t.Errorf("TimerPeriod got %d set=%v wanted 10000 set=true", TimerPeriod, TimerSet)
	}

	if err := setTimer(0, "0", nil); err == nil {
		t.Error("setTimer should reject a non-positive period")
	}
	if err := setTimer(0, "bogus", nil); err == nil {
		t.Error("setTimer should reject a non-numeric period")
	}
}

func TestSetBootImage(t *testing.T) {
	Reset()
	memory.SetSize(1024)

	f, err := os.CreateTemp(t.TempDir(), "image-*.bin")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if _, err := f.Write([]byte{0xef, 0xbe, 0xad, 0xde}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f.Close()

	if err := setBootImage(0, f.Name(), nil); err != nil {
		t.Fatalf("setBootImage failed: %v", err)
	}
	word, ok := memory.ReadWord(0)
	if !ok || word != 0xdeadbeef {
		t.Errorf("word at 0 got %08x ok=%v wanted deadbeef ok=true", word, ok)
	}

	if err := setBootImage(0, f.Name()+".missing", nil); err == nil {
		t.Error("setBootImage should fail for a missing file")
	}
}

func TestSetBootImageRejectsUnalignedLength(t *testing.T) {
	Reset()
	memory.SetSize(1024)

	f, err := os.CreateTemp(t.TempDir(), "image-*.bin")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if _, err := f.Write([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f.Close()

	if err := setBootImage(0, f.Name(), nil); err == nil {
		t.Error("setBootImage should reject an image whose length isn't a multiple of 4")
	}
}
