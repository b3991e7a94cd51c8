/*
 * rv32seq - Periodic timer interrupt source test
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

package timer

import (
	"testing"

	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/csr"
	"github.com/rv32seq/rv32seq/emu/event"
	"github.com/rv32seq/rv32seq/emu/memory"
)

// mcauseTimerInterrupt is the value MCAUSE takes when a machine timer
// interrupt is taken: bit 31 set, cause code csr.IntMTI.
const mcauseTimerInterrupt = 0x80000000 | csr.IntMTI

func newTestCPU() *cpu.CPU {
	memory.SetSize(1024)
	memory.WriteWord(0, 0x0000006f, 0xf) // JAL x0, 0: spin at the reset PC
	c := &cpu.CPU{}
	c.Reset(0)
	c.CSR.Mstatus |= 1 << csr.MstatusMIE
	c.CSR.Mie |= 1 << csr.IntMTI
	return c
}

func TestTimerFiresAfterPeriod(t *testing.T) {
	event.Reset()
	c := newTestCPU()
	tm := New(c, 10)
	tm.Start()

	for i := 0; i < 9; i++ {
		event.Advance(1)
	}
	c.CycleCPU()
	if c.CSR.Mcause == mcauseTimerInterrupt {
		t.Fatalf("timer interrupt latched early at cycle %d", 9)
	}

	event.Advance(1)
	ran := false
	for i := 0; i < 8 && !ran; i++ {
		c.CycleCPU()
		if c.CSR.Mcause == mcauseTimerInterrupt {
			ran = true
		}
	}
	if !ran {
		t.Error("timer never raised a machine timer interrupt after its period elapsed")
	}
}

func TestTimerStopDropsLine(t *testing.T) {
	event.Reset()
	c := newTestCPU()
	tm := New(c, 5)
	tm.Start()
	tm.Stop()

	for i := 0; i < 20; i++ {
		event.Advance(1)
		c.CycleCPU()
	}
	if c.CSR.Mcause == mcauseTimerInterrupt {
		t.Error("stopped timer still raised an interrupt")
	}
}

func TestTimerStartIgnoredWhenAlreadyRunning(t *testing.T) {
	event.Reset()
	c := newTestCPU()
	tm := New(c, 100)
	tm.Start()
	tm.Start() // should not schedule a second pulse chain

	if !event.AnyEvent() {
		t.Fatal("expected a pending event after Start")
	}
}
