/*
 * rv32seq - Memory-mapped UART peripheral
 *
 * Copyright 2026, rv32seq contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package uart is a memory-mapped console UART: the sequencer's external
// source for ext_irq and a second home for memdata traffic besides plain
// RAM, the RV32 analogue of the teacher's model1403/model2540P devices
// sitting on the channel bus. It opens either a real serial port (via
// go.bug.st/serial) or the controlling terminal, put into raw mode with
// golang.org/x/term, depending on how it is configured.
package uart

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"go.bug.st/serial"
	"golang.org/x/term"
)

// Register layout, one word each, starting at Base().
const (
	regStatus = 0 // offset 0: bit0 RX ready, bit1 TX ready (always 1)
	regData   = 1 // offset 1: read pops RX byte, write pushes a TX byte
	// Size is expressed in words.
	Size = 2
)

const (
	statusRxReady = 1 << 0
	statusTxReady = 1 << 1
)

// port is the minimal surface this package needs from either a real
// serial.Port or the controlling terminal, so both backends share one
// read/write loop.
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Uart is a memory-mapped console UART. The zero value is not usable;
// construct with Open.
type Uart struct {
	base uint32

	conn port

	restoreTerm func()

	rx   chan byte
	mu   sync.Mutex
	quit chan struct{}
}

// rxQueueDepth bounds how many received bytes the bus can fall behind by
// before the read goroutine blocks waiting for the core loop to catch up.
const rxQueueDepth = 16

// Open attaches a UART at the given base word address. name is either a
// device path ("/dev/ttyUSB0", "COM3", ...) opened at baud via
// go.bug.st/serial, or "-" to use the process's controlling terminal in
// raw mode via golang.org/x/term.
func Open(base uint32, name string, baud int) (*Uart, error) {
	u := &Uart{base: base, quit: make(chan struct{}), rx: make(chan byte, rxQueueDepth)}

	if name == "-" {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return nil, fmt.Errorf("uart: stdin is not a terminal")
		}
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("uart: enter raw mode: %w", err)
		}
		u.restoreTerm = func() { _ = term.Restore(fd, state) }
		u.conn = stdioPort{}
	} else {
		mode := &serial.Mode{BaudRate: baud, DataBits: 8,
			Parity: serial.NoParity, StopBits: serial.OneStopBit}
		sp, err := serial.Open(name, mode)
		if err != nil {
			return nil, fmt.Errorf("uart: open %s: %w", name, err)
		}
		u.conn = sp
	}

	go u.readLoop()
	return u, nil
}

// readLoop pulls bytes off the backing connection one at a time and
// queues them on rx for the bus to pick up. Mirrors the retry-on-EINTR
// shape the pack's serial-port reader uses.
func (u *Uart) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := u.conn.Read(buf)
		if err != nil {
			if isRetryableSyscallError(err) {
				continue
			}
			return
		}
		if n == 0 {
			continue
		}
		select {
		case u.rx <- buf[0]:
		case <-u.quit:
			return
		}
	}
}

func isRetryableSyscallError(err error) bool {
	errno, ok := err.(syscall.Errno)
	return ok && errno == syscall.EINTR
}

// Level reports the UART's current ext_irq output: high whenever a
// received byte is waiting to be read. Called once per cycle by the
// core loop and fed to cpu.SetExtIrqLine.
func (u *Uart) Level() bool { return len(u.rx) > 0 }

// Base implements device.Device.
func (u *Uart) Base() uint32 { return u.base }

// Size implements device.Device.
func (u *Uart) Size() uint32 { return Size }

// ReadWord implements device.Device.
func (u *Uart) ReadWord(offset uint32) uint32 {
	switch offset {
	case regStatus:
		status := uint32(statusTxReady)
		if len(u.rx) > 0 {
			status |= statusRxReady
		}
		return status
	case regData:
		select {
		case b := <-u.rx:
			return uint32(b)
		default:
			return 0
		}
	default:
		return 0
	}
}

// WriteWord implements device.Device. Only the low byte of regData is
// meaningful; mask is otherwise ignored since the UART is a byte device
// wrapped in a word-wide register.
func (u *Uart) WriteWord(offset uint32, data uint32, mask uint8) {
	if offset != regData || mask&0x1 == 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	_, _ = u.conn.Write([]byte{byte(data)})
}

// Shutdown implements device.Device: stop the read goroutine, close the
// backing connection, and restore the terminal if raw mode was entered.
func (u *Uart) Shutdown() {
	close(u.quit)
	if u.conn != nil {
		_ = u.conn.Close()
	}
	if u.restoreTerm != nil {
		u.restoreTerm()
	}
}

// stdioPort adapts os.Stdin/os.Stdout to the port interface for the "-"
// (controlling terminal) backend.
type stdioPort struct{}

func (stdioPort) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioPort) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioPort) Close() error                { return nil }
