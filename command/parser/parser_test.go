/*
 * rv32seq - Command parser tests
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

package parser

import (
	"testing"

	"github.com/rv32seq/rv32seq/emu/core"
	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/memory"
)

func newTestCore() *core.Core {
	memory.SetSize(1024)
	c := &cpu.CPU{}
	c.Reset(0)
	return core.NewCore(c)
}

func TestProcessCommandUnknown(t *testing.T) {
	c := newTestCore()
	_, err := ProcessCommand("bogus", c)
	if err == nil {
		t.Error("ProcessCommand accepted an unknown command")
	}
}

func TestProcessCommandAmbiguous(t *testing.T) {
	c := newTestCore()
	// "st" meets the min prefix (2) of both "stop" and "step", so it
	// matches both and needs a third letter to pick one.
	_, err := ProcessCommand("st", c)
	if err == nil {
		t.Error("ProcessCommand accepted an ambiguous prefix")
	}
}

func TestProcessCommandRegs(t *testing.T) {
	c := newTestCore()
	if _, err := ProcessCommand("regs", c); err != nil {
		t.Errorf("regs command failed: %v", err)
	}
}

func TestProcessCommandCsrRoundTrip(t *testing.T) {
	c := newTestCore()
	if _, err := ProcessCommand("csr mtvec 1000", c); err != nil {
		t.Fatalf("csr write failed: %v", err)
	}
	if v, _ := c.CPU().CSR.Read(csrAddrs["mtvec"]); v != 0x1000 {
		t.Errorf("mtvec got %08x wanted 00001000", v)
	}
}

func TestProcessCommandCsrUnknown(t *testing.T) {
	c := newTestCore()
	if _, err := ProcessCommand("csr bogus", c); err == nil {
		t.Error("csr accepted an unknown register name")
	}
}

func TestProcessCommandMemDeposit(t *testing.T) {
	c := newTestCore()
	if _, err := ProcessCommand("deposit 100 cafebabe", c); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := ProcessCommand("mem 100 1", c); err != nil {
		t.Errorf("mem failed: %v", err)
	}
}

func TestProcessCommandBreakClear(t *testing.T) {
	c := newTestCore()
	if _, err := ProcessCommand("break 400", c); err != nil {
		t.Fatalf("break failed: %v", err)
	}
	if _, err := ProcessCommand("clear", c); err != nil {
		t.Errorf("clear failed: %v", err)
	}
}

func TestProcessCommandQuit(t *testing.T) {
	c := newTestCore()
	quit, err := ProcessCommand("quit", c)
	if err != nil {
		t.Fatalf("quit failed: %v", err)
	}
	if !quit {
		t.Error("quit command did not request exit")
	}
}

func TestCompleteCmdPrefix(t *testing.T) {
	matches := CompleteCmd("st")
	if len(matches) != 2 {
		t.Errorf("CompleteCmd(%q) got %v, wanted stop and step", "st", matches)
	}
}

func TestCompleteCmdCsrArgument(t *testing.T) {
	matches := CompleteCmd("csr mt")
	found := false
	for _, m := range matches {
		if m == "mtvec" {
			found = true
		}
	}
	if !found {
		t.Errorf("CompleteCmd(%q) got %v, wanted mtvec among matches", "csr mt", matches)
	}
}
