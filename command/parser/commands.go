/*
 * rv32seq - Console command implementations
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
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rv32seq/rv32seq/emu/core"
	"github.com/rv32seq/rv32seq/emu/csr"
)

var csrAddrs = map[string]csr.Address{
	"mstatus": csr.MSTATUS,
	"mie":     csr.MIE,
	"mtvec":   csr.MTVEC,
	"mepc":    csr.MEPC,
	"mcause":  csr.MCAUSE,
	"mtval":   csr.MTVAL,
	"mip":     csr.MIP,
}

// regs prints the 32 general registers plus pc, the sequencer phase and
// whether the machine has halted on a fatal trap.
func regs(_ *cmdLine, c *core.Core) (bool, error) {
	cpu := c.CPU()
	for i := 0; i < 32; i += 4 {
		fmt.Printf("x%-2d=%08x  x%-2d=%08x  x%-2d=%08x  x%-2d=%08x\n",
			i, cpu.Regs.Get(uint8(i)),
			i+1, cpu.Regs.Get(uint8(i+1)),
			i+2, cpu.Regs.Get(uint8(i+2)),
			i+3, cpu.Regs.Get(uint8(i+3)))
	}
	fmt.Printf("pc=%08x phase=%d fatal=%v\n", cpu.PC, cpu.Phase(), cpu.Fatal())
	return false, nil
}

// csr <name> [hexvalue] -- print a CSR, or write one when a value is
// given.
func csrCmd(line *cmdLine, c *core.Core) (bool, error) {
	name := line.getWord()
	addr, ok := csrAddrs[name]
	if !ok {
		return false, errors.New("csr: unknown register: " + name)
	}

	cpu := c.CPU()
	if valStr := line.getWord(); valStr != "" {
		value, err := strconv.ParseUint(valStr, 16, 32)
		if err != nil {
			return false, errors.New("csr: invalid value: " + valStr)
		}
		cpu.CSR.Write(addr, uint32(value))
		return false, nil
	}

	value, ok := cpu.CSR.Read(addr)
	if !ok {
		return false, errors.New("csr: read failed: " + name)
	}
	fmt.Printf("%s=%08x\n", name, value)
	return false, nil
}

// setBreak <hexaddr> -- halt the core the instant it reaches addr.
func setBreak(line *cmdLine, c *core.Core) (bool, error) {
	addrStr := line.getWord()
	addr, err := strconv.ParseUint(addrStr, 16, 32)
	if err != nil {
		return false, errors.New("break: invalid address: " + addrStr)
	}
	c.SetBreakpoint(uint32(addr))
	return false, nil
}

// clearBreak disarms any breakpoint.
func clearBreak(_ *cmdLine, c *core.Core) (bool, error) {
	c.ClearBreakpoint()
	return false, nil
}

// step [n] -- run exactly n instructions (default 1), then halt.
func step(line *cmdLine, c *core.Core) (bool, error) {
	n := 1
	if nStr := line.getWord(); nStr != "" {
		v, err := strconv.ParseUint(nStr, 10, 16)
		if err != nil {
			return false, errors.New("step: invalid count: " + nStr)
		}
		n = int(v)
	}
	slog.Info("console step", "count", n)
	c.SendStep(n)
	return false, nil
}

// cont resumes free-running execution.
func cont(_ *cmdLine, c *core.Core) (bool, error) {
	slog.Info("console continue")
	c.SendStart()
	return false, nil
}

// stop halts free-running execution.
func stop(_ *cmdLine, c *core.Core) (bool, error) {
	slog.Info("console stop")
	c.SendStop()
	return false, nil
}

// quit exits the console.
func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
