package uart

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// fakePort is a pipe-backed stand-in for a real serial.Port, letting the
// test feed bytes in and capture bytes written out without touching any
// host hardware.
type fakePort struct {
	in  *io.PipeReader
	out *bytes.Buffer
}

func newFakePort() (*fakePort, *io.PipeWriter) {
	r, w := io.Pipe()
	return &fakePort{in: r, out: &bytes.Buffer{}}, w
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }
func (p *fakePort) Close() error                { return p.in.Close() }

func newTestUart() (*Uart, *fakePort, *io.PipeWriter) {
	fp, w := newFakePort()
	u := &Uart{base: 0x10000, quit: make(chan struct{}), rx: make(chan byte, rxQueueDepth)}
	u.conn = fp
	go u.readLoop()
	return u, fp, w
}

func TestStatusReflectsRxQueue(t *testing.T) {
	u, _, w := newTestUart()
	defer u.Shutdown()

	if got := u.ReadWord(regStatus); got&statusRxReady != 0 {
		t.Errorf("status got %02x, RX ready should be clear with nothing queued", got)
	}

	w.Write([]byte{0x41})
	waitForLevel(t, u, true)

	if got := u.ReadWord(regStatus); got&statusRxReady == 0 {
		t.Errorf("status got %02x, RX ready should be set", got)
	}
}

func TestReadWordPopsQueuedByte(t *testing.T) {
	u, _, w := newTestUart()
	defer u.Shutdown()

	w.Write([]byte{0x41})
	waitForLevel(t, u, true)

	if got := u.ReadWord(regData); got != 0x41 {
		t.Errorf("data got %02x wanted 41", got)
	}
	if u.Level() {
		t.Error("rx queue should be empty after the byte is popped")
	}
	if got := u.ReadWord(regData); got != 0 {
		t.Errorf("data got %02x wanted 0 on empty queue", got)
	}
}

func TestWriteWordSendsLowByteOnly(t *testing.T) {
	u, fp, _ := newTestUart()
	defer u.Shutdown()

	u.WriteWord(regData, 0x12345678, 0x1)
	u.WriteWord(regData, 0xffffff00, 0xe) // mask clear on low byte: no-op

	u.mu.Lock()
	got := fp.out.Bytes()
	u.mu.Unlock()
	if len(got) != 1 || got[0] != 0x78 {
		t.Errorf("written bytes got %v wanted [78]", got)
	}
}

func TestBaseAndSize(t *testing.T) {
	u, _, _ := newTestUart()
	defer u.Shutdown()

	if u.Base() != 0x10000 {
		t.Errorf("Base got %08x wanted 00010000", u.Base())
	}
	if u.Size() != Size {
		t.Errorf("Size got %d wanted %d", u.Size(), Size)
	}
}

func waitForLevel(t *testing.T, u *Uart, want bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if u.Level() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Level() never reached %v", want)
}
