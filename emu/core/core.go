/*
 * rv32seq - Core emulator loop
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

// Package core runs the sequencer on its own goroutine, the RV32 analogue
// of the teacher's emu/core loop: advance the CPU one phase at a time
// while running, keep the event list (the timer) moving even while
// halted, and let the console drive start/stop/step/breakpoints over a
// channel instead of touching CPU state directly from another goroutine.
package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/event"
)

type ctrlKind int

const (
	ctrlStart ctrlKind = iota
	ctrlStop
	ctrlStep
)

type ctrlMsg struct {
	kind  ctrlKind
	steps int
}

// Core owns one CPU and the goroutine that steps it.
type Core struct {
	wg   sync.WaitGroup
	done chan struct{}
	cmd  chan ctrlMsg

	mu        sync.Mutex
	cpu       *cpu.CPU
	running   bool
	breakAddr uint32
	breakSet  bool
	extSource func() bool // polled once per cycle, wired to cpu.SetExtIrqLine
}

// NewCore builds a Core around an already-Reset CPU.
func NewCore(c *cpu.CPU) *Core {
	return &Core{
		cpu:  c,
		done: make(chan struct{}),
		cmd:  make(chan ctrlMsg, 8),
	}
}

// SetExtIrqSource wires a peripheral's interrupt-line level (e.g.
// (*uart.Uart).Level) to be sampled once per cycle and forwarded to the
// CPU's ext_irq input.
func (c *Core) SetExtIrqSource(level func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extSource = level
}

// CPU returns the underlying sequencer for read-only introspection by the
// console (registers, CSRs, phase).
func (c *Core) CPU() *cpu.CPU { return c.cpu }

// SetBreakpoint arms a PC breakpoint: running stops as soon as a committed
// instruction leaves the PC at addr, before the instruction at addr runs.
func (c *Core) SetBreakpoint(addr uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakAddr, c.breakSet = addr, true
}

// ClearBreakpoint disarms any breakpoint.
func (c *Core) ClearBreakpoint() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakSet = false
}

// SendStart resumes free-running execution.
func (c *Core) SendStart() { c.cmd <- ctrlMsg{kind: ctrlStart} }

// SendStop halts free-running execution after the in-flight phase.
func (c *Core) SendStop() { c.cmd <- ctrlMsg{kind: ctrlStop} }

// SendStep runs n instructions then halts; an armed breakpoint reached
// before the n-th instruction halts it there instead.
func (c *Core) SendStep(n int) { c.cmd <- ctrlMsg{kind: ctrlStep, steps: n} }

// Running reports whether the loop is currently free-running.
func (c *Core) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start runs the sequencer loop until Stop is called. Like the teacher's
// core.Start, it advances the event list even while halted so a
// configured timer keeps firing for a single-stepping debugger session.
func (c *Core) Start() {
	c.wg.Add(1)
	defer c.wg.Done()

	stepsLeft := -1 // -1 means "run freely", >=0 counts down a step request

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.cmd:
			switch msg.kind {
			case ctrlStart:
				c.setRunning(true)
				stepsLeft = -1
			case ctrlStop:
				c.setRunning(false)
				stepsLeft = -1
			case ctrlStep:
				c.setRunning(true)
				stepsLeft = msg.steps
			}
		default:
		}

		if c.Running() {
			c.mu.Lock()
			source := c.extSource
			c.mu.Unlock()
			if source != nil {
				c.cpu.SetExtIrqLine(source())
			}

			complete, fatal := c.cpu.CycleCPU()
			event.Advance(1)
			if fatal {
				slog.Error("cpu halted on unrecoverable trap", "pc", c.cpu.PC)
				c.setRunning(false)
			}
			if complete && c.hitBreakpoint() {
				slog.Info("breakpoint hit", "pc", c.cpu.PC)
				c.setRunning(false)
			}
			if complete && stepsLeft > 0 {
				stepsLeft--
				if stepsLeft == 0 {
					c.setRunning(false)
				}
			}
		} else if event.AnyEvent() {
			event.Advance(1)
		} else {
			time.Sleep(time.Millisecond)
		}
	}
}

// Stop shuts the loop down, waiting briefly for it to exit cleanly.
func (c *Core) Stop() {
	close(c.done)
	finished := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for cpu core to stop")
	}
}

func (c *Core) setRunning(v bool) {
	c.mu.Lock()
	c.running = v
	c.mu.Unlock()
}

func (c *Core) hitBreakpoint() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.breakSet && c.cpu.PC == c.breakAddr
}
