/*
 * rv32seq - Terminal monitor
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

// rvmon is a live terminal dashboard: register file, CSR file and the
// current instruction, redrawn every 50ms off the running core --
// the RV32 analogue of the teacher pack's 6502 register/disassembly
// panes, retargeted from a one-shot byte-code demo onto a live
// goroutine-driven core.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	getopt "github.com/pborman/getopt/v2"

	config "github.com/rv32seq/rv32seq/config/configparser"
	"github.com/rv32seq/rv32seq/config/machineconfig"
	"github.com/rv32seq/rv32seq/emu/core"
	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/disasm"
	"github.com/rv32seq/rv32seq/emu/memory"
)

var (
	paragraphRegs  *widgets.Paragraph
	paragraphCSR   *widgets.Paragraph
	paragraphInstr *widgets.Paragraph
	engine         *core.Core
)

func initLayout() {
	paragraphRegs = widgets.NewParagraph()
	paragraphRegs.Title = "Registers"
	paragraphRegs.SetRect(0, 0, 56, 20)

	paragraphCSR = widgets.NewParagraph()
	paragraphCSR.Title = "CSRs"
	paragraphCSR.SetRect(56, 0, 56+30, 12)

	paragraphInstr = widgets.NewParagraph()
	paragraphInstr.Title = "Current instruction"
	paragraphInstr.SetRect(0, 20, 56, 25)
}

func renderRegs(p *widgets.Paragraph, c *cpu.CPU) {
	sb := &strings.Builder{}
	for i := 0; i < 32; i += 2 {
		sb.WriteString(fmt.Sprintf("x%-2d=%08x  x%-2d=%08x\n",
			i, c.Regs.Get(uint8(i)), i+1, c.Regs.Get(uint8(i+1))))
	}
	p.Text = sb.String()
}

func renderCSR(p *widgets.Paragraph, c *cpu.CPU) {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "pc     =%08x\n", c.PC)
	fmt.Fprintf(sb, "mstatus=%08x\n", c.CSR.Mstatus)
	fmt.Fprintf(sb, "mie    =%08x\n", c.CSR.Mie)
	fmt.Fprintf(sb, "mtvec  =%08x\n", c.CSR.Mtvec)
	fmt.Fprintf(sb, "mepc   =%08x\n", c.CSR.Mepc)
	fmt.Fprintf(sb, "mcause =%08x\n", c.CSR.Mcause)
	fmt.Fprintf(sb, "mtval  =%08x\n", c.CSR.Mtval)
	fmt.Fprintf(sb, "mip    =%08x\n", c.CSR.Mip)
	fmt.Fprintf(sb, "phase  =%d fatal=%v\n", c.Phase(), c.Fatal())
	p.Text = sb.String()
}

func renderInstr(p *widgets.Paragraph, c *cpu.CPU) {
	word, _ := memory.ReadWord(c.PC)
	p.Text = fmt.Sprintf("%08x: %s", c.PC, disasm.Disassemble(c.PC, word))
}

func draw(c *cpu.CPU) {
	renderRegs(paragraphRegs, c)
	renderCSR(paragraphCSR, c)
	renderInstr(paragraphInstr, c)
	ui.Render(paragraphRegs, paragraphCSR, paragraphInstr)
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "rv32seq.cfg", "Configuration file")
	getopt.Parse()

	if _, err := os.Stat(*optConfig); err == nil {
		if loadErr := config.LoadConfigFile(*optConfig); loadErr != nil {
			log.Fatalf("failed to load config: %v", loadErr)
		}
	}

	if memory.GetSize() == 0 {
		memory.SetSize(64 * 1024)
	}

	c := &cpu.CPU{}
	c.Reset(machineconfig.Entry)
	c.CSR.Mtvec = machineconfig.Mtvec
	engine = core.NewCore(c)

	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	initLayout()
	go engine.Start()
	engine.SendStart()

	draw(c)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	events := ui.PollEvents()
	for {
		select {
		case e := <-events:
			if e.Type == ui.KeyboardEvent {
				switch e.ID {
				case "q", "<C-c>":
					engine.Stop()
					return
				case "<Space>":
					engine.SendStep(1)
				case "r":
					engine.SendStart()
				case "s":
					engine.SendStop()
				}
			}
		case <-ticker.C:
			draw(c)
		}
	}
}
