/*
 * rv32seq - Machine configuration directives
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

// Package machineconfig teaches config/configparser what this machine's
// directives mean: MEMSIZE, ENTRY, MTVEC, UART, BREAKPOINT, BOOTIMAGE and
// TIMER. It plays
// the role the teacher's emu/model1403-style init() functions and
// config/debugconfig play for the 370 -- self-registering with the
// generic parser, then stashing the parsed value for cmd/rv32seq's main
// to apply once the memory, CPU and core actually exist.
package machineconfig

import (
	"errors"
	"os"
	"strconv"
	"strings"

	config "github.com/rv32seq/rv32seq/config/configparser"
	"github.com/rv32seq/rv32seq/emu/memory"
	"github.com/rv32seq/rv32seq/emu/uart"
)

// Entry is the reset program counter, set by the ENTRY directive.
// Defaults to 0.
var Entry uint32

// Mtvec is the reset trap-vector base, set by the MTVEC directive.
// Defaults to 0 (direct mode, vector address 0).
var Mtvec uint32

// Breakpoint and BreakpointSet record a BREAKPOINT directive, applied by
// main via core.SetBreakpoint once the core is built.
var (
	Breakpoint    uint32
	BreakpointSet bool
)

// UARTPort is the peripheral opened by a UART directive, or nil if none
// was configured. setUART attaches it to the bus; main wires it as the
// core's ext_irq source.
var UARTPort *uart.Uart

// TimerPeriod and TimerSet record a TIMER directive: the cycle count
// between machine-timer interrupts. main builds the emu/timer.Timer once
// the CPU exists and starts it if TimerSet.
var (
	TimerPeriod int
	TimerSet    bool
)

const defaultBaud = 115200

func init() {
	config.RegisterOption("MEMSIZE", setMemSize)
	config.RegisterOption("ENTRY", setEntry)
	config.RegisterOption("MTVEC", setMtvec)
	config.RegisterOption("BREAKPOINT", setBreakpoint)
	config.RegisterOption("TIMER", setTimer)
	config.RegisterModel("UART", config.TypeModel, setUART)
	config.RegisterFile("BOOTIMAGE", setBootImage)
}

// setMemSize backs the MEMSIZE directive: a word count with an optional
// K or M suffix (1K = 1024 words, 1M = 1024K words), e.g. "MEMSIZE 64K".
func setMemSize(_ uint16, value string, _ []config.Option) error {
	words, err := parseSizeSuffix(value)
	if err != nil {
		return err
	}
	memory.SetSize(words)
	return nil
}

func parseSizeSuffix(value string) (int, error) {
	mult := 1
	switch {
	case strings.HasSuffix(value, "K"), strings.HasSuffix(value, "k"):
		mult = 1024
		value = value[:len(value)-1]
	case strings.HasSuffix(value, "M"), strings.HasSuffix(value, "m"):
		mult = 1024 * 1024
		value = value[:len(value)-1]
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.New("MEMSIZE: invalid size: " + value)
	}
	return int(n) * mult, nil
}

// setEntry backs the ENTRY directive: a hex reset program counter.
func setEntry(_ uint16, value string, _ []config.Option) error {
	pc, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return errors.New("ENTRY: invalid address: " + value)
	}
	Entry = uint32(pc)
	return nil
}

// setMtvec backs the MTVEC directive: a hex reset trap-vector base. The
// low two mode bits are taken verbatim, so "MTVEC 1001" resets into
// vectored mode at base 0x1000.
func setMtvec(_ uint16, value string, _ []config.Option) error {
	v, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return errors.New("MTVEC: invalid value: " + value)
	}
	Mtvec = uint32(v)
	return nil
}

// setBreakpoint backs the BREAKPOINT directive: a hex address to halt
// the core at, for scripted test runs.
func setBreakpoint(_ uint16, value string, _ []config.Option) error {
	addr, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return errors.New("BREAKPOINT: invalid address: " + value)
	}
	Breakpoint = uint32(addr)
	BreakpointSet = true
	return nil
}

// setTimer backs the TIMER directive: a decimal cycle count between
// machine-timer interrupts, e.g. "TIMER 10000".
func setTimer(_ uint16, value string, _ []config.Option) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return errors.New("TIMER: invalid period: " + value)
	}
	TimerPeriod = n
	TimerSet = true
	return nil
}

// setUART backs the UART directive: a hex word base address followed by a
// device= option (a quoted device path, or "-" for the controlling
// terminal) and an optional baud= option. The config parser accepts at
// most three hex digits (0-fff) for the base, and the base must lie above
// RAM, so a UART attaches only when MEMSIZE is below 4K words. For example:
//
//	MEMSIZE 1K
//	UART 400 device="/dev/ttyUSB0" baud=9600
func setUART(base uint16, _ string, options []config.Option) error {
	if UARTPort != nil {
		return errors.New("UART: only one UART may be configured")
	}

	device := ""
	baud := defaultBaud
	for _, opt := range options {
		switch strings.ToUpper(opt.Name) {
		case "DEVICE":
			device = opt.EqualOpt
		case "BAUD":
			b, err := strconv.Atoi(opt.EqualOpt)
			if err != nil {
				return errors.New("UART: invalid baud: " + opt.EqualOpt)
			}
			baud = b
		}
	}
	if device == "" {
		return errors.New("UART: requires a device= option")
	}

	u, err := uart.Open(uint32(base), device, baud)
	if err != nil {
		return err
	}
	if !memory.AttachDevice(u) {
		u.Shutdown()
		return errors.New("UART: base address conflicts with another device")
	}
	UARTPort = u
	return nil
}

// setBootImage backs the BOOTIMAGE directive: a raw little-endian word
// image loaded into RAM starting at address 0, the same role the
// teacher's IPL device path plays for the 370 -- load a program image
// before the core's first cycle. RAM must already be sized by a MEMSIZE
// directive appearing earlier in the file.
func setBootImage(_ uint16, path string, _ []config.Option) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data)%4 != 0 {
		return errors.New("BOOTIMAGE: image length must be a multiple of 4 bytes")
	}
	for i := 0; i < len(data); i += 4 {
		word := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		if !memory.WriteWord(uint32(i), word, 0xf) {
			return errors.New("BOOTIMAGE: image larger than configured memory")
		}
	}
	return nil
}

// Reset clears all parsed directive state, for tests that load more than
// one configuration in a process.
func Reset() {
	Entry = 0
	Mtvec = 0
	Breakpoint = 0
	BreakpointSet = false
	UARTPort = nil
	TimerPeriod = 0
	TimerSet = false
}
