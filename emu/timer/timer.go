/*
 * rv32seq - Periodic timer interrupt source
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

// Package timer is the machine-timer interrupt source: a regular pulse on
// the CPU's timer interrupt input, the RV32 analogue of the teacher's
// emu/timer interval-timer device. Where the teacher ticks in wall-clock
// time off a Go ticker and posts to a master channel, this one ticks in
// CPU cycles off the emu/event list, since the sequencer's notion of time
// is cycles advanced by the core loop, not the wall clock.
package timer

import (
	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/event"
)

// pulseWidth is how many cycles the interrupt line is held high before
// dropping again. SetTimeIrqLine edge-triggers on the CPU side, so any
// width that survives at least one cycle before the next Advance is fine.
const pulseWidth = 1

// Timer drives cpu.SetTimeIrqLine on a fixed cycle interval. It has no
// memory-mapped register window; it exists purely to pulse the timer
// interrupt input, so its Device methods beyond Shutdown are stubs that
// let it carry an identity on the event list for CancelEvent.
type Timer struct {
	cpu     *cpu.CPU
	period  int
	running bool
}

// New creates an interval timer that pulses c's timer interrupt line
// every period cycles once Start is called. period must be positive.
func New(c *cpu.CPU, period int) *Timer {
	return &Timer{cpu: c, period: period}
}

// Start arms the timer, scheduling its first pulse period cycles out.
func (t *Timer) Start() {
	if t.running || t.period <= 0 {
		return
	}
	t.running = true
	event.AddEvent(t, t.raise, t.period, 0)
}

// Stop disarms the timer and drops the interrupt line, canceling any
// pending pulse or fall event.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	event.CancelEvent(t, t.raise, 0)
	event.CancelEvent(t, t.fall, 0)
	t.cpu.SetTimeIrqLine(false)
}

// raise fires on the scheduled interval: it raises the line and queues
// the matching fall a short time later, then reschedules itself for the
// next interval.
func (t *Timer) raise(_ int) {
	if !t.running {
		return
	}
	t.cpu.SetTimeIrqLine(true)
	event.AddEvent(t, t.fall, pulseWidth, 0)
	event.AddEvent(t, t.raise, t.period, 0)
}

func (t *Timer) fall(_ int) {
	t.cpu.SetTimeIrqLine(false)
}

// Base implements device.Device. The timer claims no address space.
func (t *Timer) Base() uint32 { return 0 }

// Size implements device.Device.
func (t *Timer) Size() uint32 { return 0 }

// ReadWord implements device.Device.
func (t *Timer) ReadWord(_ uint32) uint32 { return 0 }

// WriteWord implements device.Device.
func (t *Timer) WriteWord(_ uint32, _ uint32, _ uint8) {}

// Shutdown implements device.Device.
func (t *Timer) Shutdown() { t.Stop() }
