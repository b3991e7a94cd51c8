/*
 * rv32seq - Instruction sequencer
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

// Package cpu is the instruction sequencer: the control unit that fetches,
// decodes, and drives the alu/regfile/memory external collaborators
// through the phases of each RV32I instruction, and that owns trap entry,
// interrupt latching, and MRET. Everything here is state owned exclusively
// by the CPU struct -- alu is a pure function, regfile and memory hold no
// sequencing state of their own.
package cpu

import (
	"github.com/rv32seq/rv32seq/emu/alu"
	"github.com/rv32seq/rv32seq/emu/csr"
	"github.com/rv32seq/rv32seq/emu/decode"
	"github.com/rv32seq/rv32seq/emu/memory"
	"github.com/rv32seq/rv32seq/emu/regfile"
)

// Trap cause codes, matching the privileged spec's mcause encoding
// (bit 31 set marks an interrupt).
const (
	causeInstrAddrMisalign = 0x00000000
	causeIllegalInstr      = 0x00000002
	causeBreakpoint        = 0x00000003
	causeLoadAddrMisalign  = 0x00000004
	causeStoreAddrMisalign = 0x00000006
	causeECallFromMachine  = 0x0000000B
	causeIntMachTimer      = 0x80000007
	causeIntMachExternal   = 0x8000000B
)

// Branch funct3 condition codes.
const (
	condEQ  = 0b000
	condNE  = 0b001
	condLT  = 0b100
	condGE  = 0b101
	condLTU = 0b110
	condGEU = 0b111
)

// CPU holds all architectural and ephemeral sequencer state. The zero
// value is a machine at reset (pc=0, mstatus=0, all CSRs zero).
type CPU struct {
	PC   uint32
	Regs regfile.File
	CSR  csr.File

	instr decode.Instruction
	phase uint8

	memaddr   uint32
	memdataWr uint32
	tmp       uint32

	aluEq, aluLt, aluLtu bool

	regTimeIrq, regExtIrq       bool
	timeIrqLine, extIrqLine     bool
	prevTimeIrqLine, prevExtIrq bool

	trap         bool
	trapSvc      bool
	exception    bool
	trapCause    uint32
	pendingFatal bool
	fatal        bool
}

// Reset returns the machine to its power-on state, entering at entry (0
// for a plain reset, or a configured boot address).
func (c *CPU) Reset(entry uint32) {
	*c = CPU{PC: entry}
}

// Fatal reports whether the machine has halted on an unrecoverable trap.
func (c *CPU) Fatal() bool { return c.fatal }

// TrapSvc reports whether the machine is currently inside a trap handler.
func (c *CPU) TrapSvc() bool { return c.trapSvc }

// Phase returns the current instruction phase (0, 1, or 2), for the
// console and monitor.
func (c *CPU) Phase() uint8 { return c.phase }

// Instr returns the most recently fetched, decoded instruction.
func (c *CPU) Instr() decode.Instruction { return c.instr }

// SetTimeIrqLine drives the level of the timer interrupt input. The
// timer device calls this each time its output rises or falls.
func (c *CPU) SetTimeIrqLine(level bool) { c.timeIrqLine = level }

// SetExtIrqLine drives the level of the external interrupt input. The
// core loop calls this every cycle with its wired peripheral's level.
func (c *CPU) SetExtIrqLine(level bool) { c.extIrqLine = level }

// CycleCPU advances the machine by one instruction phase. instrComplete
// pulses true on the phase that commits an instruction; fatal latches
// true forever once an unrecoverable trap is taken.
func (c *CPU) CycleCPU() (instrComplete, fatal bool) {
	if c.fatal {
		return false, true
	}

	c.sampleInterrupts()

	if c.trap {
		return c.stepTrapEntry()
	}

	if c.phase == 0 {
		if !c.trapSvc && c.CSR.MIEBit() && (c.regTimeIrq || c.regExtIrq) {
			c.exception = false
			c.pendingFatal = false
			c.trap = true
			c.CSR.Mepc = c.PC
			return false, false
		}

		if c.PC&0x3 != 0 {
			c.raiseException(causeInstrAddrMisalign, c.PC, c.PC, false)
			return false, false
		}

		word, _ := memory.ReadWord(c.PC)
		c.instr = decode.Decode(word)
		c.memaddr = c.PC
		if c.instr.Illegal {
			c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
			return false, false
		}
	}

	return c.dispatch()
}

// sampleInterrupts latches rising edges of the timer/external interrupt
// lines into reg_time_irq/reg_ext_irq, but only while mstatus.MIE is set;
// disabling MIE drops anything already pending, a faithfully reproduced
// quirk rather than an oversight (see DESIGN.md open-question log).
func (c *CPU) sampleInterrupts() {
	if !c.CSR.MIEBit() {
		c.regTimeIrq = false
		c.regExtIrq = false
	} else {
		if c.timeIrqLine && !c.prevTimeIrqLine {
			c.regTimeIrq = true
		}
		if c.extIrqLine && !c.prevExtIrq {
			c.regExtIrq = true
		}
	}
	c.prevTimeIrqLine = c.timeIrqLine
	c.prevExtIrq = c.extIrqLine
}

// raiseException stages a synchronous trap: every field a trap entry
// needs except the final vector fetch, which stepTrapEntry performs once
// the sequencer reaches trap phase 1.
func (c *CPU) raiseException(cause, tval, epc uint32, fatal bool) {
	c.exception = true
	c.trapCause = cause
	c.CSR.Mtval = tval
	c.CSR.Mepc = epc
	c.trap = true
	c.phase = 0
	c.pendingFatal = fatal
}

// stepTrapEntry runs the two-phase micro-program shared by every trap,
// synchronous or asynchronous: pick/record the cause, compute the vector
// address, then either halt (fatal) or fetch the handler's entry point.
func (c *CPU) stepTrapEntry() (bool, bool) {
	if c.phase == 0 {
		if !c.exception {
			if c.regTimeIrq {
				c.trapCause = causeIntMachTimer
			} else if c.regExtIrq {
				c.trapCause = causeIntMachExternal
			}
			c.CSR.Mepc = c.PC
		}
		c.CSR.Mcause = c.trapCause

		if c.regTimeIrq {
			c.regTimeIrq = false
		} else if c.regExtIrq {
			c.regExtIrq = false
		}

		isInt := c.trapCause&0x80000000 != 0
		vecMode := c.CSR.Mtvec & 0x3
		x := c.CSR.Mtvec &^ 0x3
		var y uint32
		if isInt && vecMode == 1 {
			y = (c.trapCause &^ 0x80000000) << 2
		}
		r := alu.Eval(alu.ADD, x, y)
		c.memaddr = r.Z
		c.phase = 1
		return false, false
	}

	if c.exception && c.pendingFatal {
		c.fatal = true
		return false, true
	}

	target, _ := memory.ReadWord(c.memaddr)
	c.PC = target
	c.memaddr = target
	c.exception = false
	c.trapCause = 0
	c.trap = false
	c.trapSvc = true
	c.CSR.SetMPIE(c.CSR.MIEBit())
	c.CSR.SetMIE(false)
	c.phase = 0
	return false, false
}

// finish commits the normal end-of-instruction state: PC and memaddr both
// advance to nextPC (memaddr doubles as the next fetch address), the
// phase counter returns to 0, and instr_complete pulses.
func (c *CPU) finish(nextPC uint32) (bool, bool) {
	c.PC = nextPC
	c.memaddr = nextPC
	c.phase = 0
	return true, false
}

func (c *CPU) dispatch() (bool, bool) {
	switch c.instr.Select {
	case decode.LUI:
		return c.stepLUI()
	case decode.AUIPC:
		return c.stepAUIPC()
	case decode.OPIMM:
		return c.stepOpImm()
	case decode.OP:
		return c.stepOp()
	case decode.JAL:
		return c.stepJAL()
	case decode.JALR:
		return c.stepJALR()
	case decode.BRANCH:
		return c.stepBranch()
	case decode.LOAD:
		return c.stepLoad()
	case decode.STORE:
		return c.stepStore()
	case decode.CSRS:
		return c.stepCSR()
	case decode.MRET:
		return c.stepMRET()
	case decode.ECALL:
		c.raiseException(causeECallFromMachine, c.PC, c.PC+4, false)
		return false, false
	case decode.EBREAK:
		c.raiseException(causeBreakpoint, c.PC, c.PC+4, false)
		return false, false
	default:
		c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
		return false, false
	}
}

func (c *CPU) stepLUI() (bool, bool) {
	r := alu.Eval(alu.ADD, 0, c.instr.Imm)
	c.Regs.Set(c.instr.Rd, r.Z)
	return c.finish(c.PC + 4)
}

func (c *CPU) stepAUIPC() (bool, bool) {
	r := alu.Eval(alu.ADD, c.PC, c.instr.Imm)
	c.Regs.Set(c.instr.Rd, r.Z)
	return c.finish(c.PC + 4)
}

func (c *CPU) stepOpImm() (bool, bool) {
	op, ok := aluOpFor(c.instr.AluFunc, false)
	if !ok {
		c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
		return false, false
	}
	r := alu.Eval(op, c.Regs.Get(c.instr.Rs1), c.instr.Imm)
	c.Regs.Set(c.instr.Rd, r.Z)
	return c.finish(c.PC + 4)
}

func (c *CPU) stepOp() (bool, bool) {
	op, ok := aluOpFor(c.instr.AluFunc, true)
	if !ok {
		c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
		return false, false
	}
	r := alu.Eval(op, c.Regs.Get(c.instr.Rs1), c.Regs.Get(c.instr.Rs2))
	c.Regs.Set(c.instr.Rd, r.Z)
	return c.finish(c.PC + 4)
}

// aluOpFor maps the decoder's alu_func key ({funct7[5], funct3}) to an
// ALU operation. allowSub permits the SUB encoding (funct3=000, bit5
// set): legal for OP, illegal for OP_IMM, which only defines ADDI on
// that funct3.
func aluOpFor(aluFunc uint8, allowSub bool) (alu.Op, bool) {
	bit5 := aluFunc&0x8 != 0
	funct3 := aluFunc & 0x7
	switch funct3 {
	case 0b000:
		if bit5 {
			if !allowSub {
				return alu.NONE, false
			}
			return alu.SUB, true
		}
		return alu.ADD, true
	case 0b001:
		return alu.SLL, true
	case 0b010:
		return alu.SLT, true
	case 0b011:
		return alu.SLTU, true
	case 0b100:
		return alu.XOR, true
	case 0b101:
		if bit5 {
			return alu.SRA, true
		}
		return alu.SRL, true
	case 0b110:
		return alu.OR, true
	case 0b111:
		return alu.AND, true
	default:
		return alu.NONE, false
	}
}

func (c *CPU) stepJAL() (bool, bool) {
	if c.phase == 0 {
		r := alu.Eval(alu.ADD, c.PC, c.instr.Imm)
		c.memaddr = r.Z
		c.phase = 1
		return false, false
	}
	if c.memaddr&0x2 != 0 {
		c.raiseException(causeInstrAddrMisalign, c.memaddr, c.PC, false)
		return false, false
	}
	c.Regs.Set(c.instr.Rd, c.PC+4)
	return c.finish(c.memaddr &^ 1)
}

func (c *CPU) stepJALR() (bool, bool) {
	if c.phase == 0 {
		r := alu.Eval(alu.ADD, c.Regs.Get(c.instr.Rs1), c.instr.Imm)
		c.memaddr = r.Z
		c.phase = 1
		return false, false
	}
	if c.memaddr&0x2 != 0 {
		c.raiseException(causeInstrAddrMisalign, c.memaddr&^1, c.PC, false)
		return false, false
	}
	c.Regs.Set(c.instr.Rd, c.PC+4)
	return c.finish(c.memaddr &^ 1)
}

func (c *CPU) stepBranch() (bool, bool) {
	switch c.phase {
	case 0:
		r := alu.Eval(alu.SUB, c.Regs.Get(c.instr.Rs1), c.Regs.Get(c.instr.Rs2))
		c.aluEq, c.aluLt, c.aluLtu = r.Eq, r.Lt, r.Ltu
		c.phase = 1
		return false, false
	case 1:
		taken, ok := c.branchTaken()
		if !ok {
			c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
			return false, false
		}
		y := uint32(4)
		if taken {
			y = c.instr.Imm
		}
		r := alu.Eval(alu.ADD, c.PC, y)
		c.tmp = r.Z
		if r.Z&0x3 == 0 {
			return c.finish(r.Z)
		}
		c.phase = 2
		return false, false
	default:
		c.raiseException(causeInstrAddrMisalign, c.tmp, c.PC, false)
		return false, false
	}
}

func (c *CPU) branchTaken() (bool, bool) {
	switch c.instr.Funct3 {
	case condEQ:
		return c.aluEq, true
	case condNE:
		return !c.aluEq, true
	case condLT:
		return c.aluLt, true
	case condGE:
		return !c.aluLt, true
	case condLTU:
		return c.aluLtu, true
	case condGEU:
		return !c.aluLtu, true
	default:
		return false, false
	}
}

func (c *CPU) stepLoad() (bool, bool) {
	switch c.phase {
	case 0:
		r := alu.Eval(alu.ADD, c.Regs.Get(c.instr.Rs1), c.instr.Imm)
		c.memaddr = r.Z
		c.phase = 1
		return false, false
	case 1:
		lane := c.memaddr & 0x3
		switch c.instr.Funct3 {
		case 0b000, 0b100: // LB, LBU: any byte lane is aligned
		case 0b001, 0b101: // LH, LHU
			if lane&0x1 != 0 {
				c.raiseException(causeLoadAddrMisalign, c.memaddr, c.PC, false)
				return false, false
			}
		case 0b010: // LW
			if lane != 0 {
				c.raiseException(causeLoadAddrMisalign, c.memaddr, c.PC, false)
				return false, false
			}
		default:
			c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
			return false, false
		}
		word, _ := memory.ReadWord(c.memaddr)
		r := alu.Eval(alu.SLL, word, loadShamt1(c.instr.Funct3, lane))
		c.tmp = r.Z
		c.phase = 2
		return false, false
	default:
		shamt2, arith := loadShamt2(c.instr.Funct3)
		op := alu.SRL
		if arith {
			op = alu.SRA
		}
		r := alu.Eval(op, c.tmp, shamt2)
		c.Regs.Set(c.instr.Rd, r.Z)
		return c.finish(c.PC + 4)
	}
}

func loadShamt1(funct3 uint8, lane uint32) uint32 {
	switch funct3 {
	case 0b000, 0b100: // B, BU
		switch lane {
		case 0:
			return 24
		case 1:
			return 16
		case 2:
			return 8
		default:
			return 0
		}
	case 0b001, 0b101: // H, HU
		if lane == 0 {
			return 16
		}
		return 0
	default: // W
		return 0
	}
}

func loadShamt2(funct3 uint8) (shamt uint32, arith bool) {
	switch funct3 {
	case 0b000: // LB
		return 24, true
	case 0b100: // LBU
		return 24, false
	case 0b001: // LH
		return 16, true
	case 0b101: // LHU
		return 16, false
	default: // LW
		return 0, false
	}
}

func (c *CPU) stepStore() (bool, bool) {
	switch c.phase {
	case 0:
		r := alu.Eval(alu.ADD, c.Regs.Get(c.instr.Rs1), c.instr.Imm)
		c.memaddr = r.Z
		c.phase = 1
		return false, false
	case 1:
		lane := c.memaddr & 0x3
		switch c.instr.Funct3 {
		case 0b000: // SB
		case 0b001: // SH
			if lane&0x1 != 0 {
				c.raiseException(causeStoreAddrMisalign, c.memaddr, c.PC, false)
				return false, false
			}
		case 0b010: // SW
			if lane != 0 {
				c.raiseException(causeStoreAddrMisalign, c.memaddr, c.PC, false)
				return false, false
			}
		default:
			c.raiseException(causeIllegalInstr, c.instr.Raw, c.PC, true)
			return false, false
		}
		r := alu.Eval(alu.SLL, c.Regs.Get(c.instr.Rs2), lane*8)
		c.memdataWr = r.Z
		c.phase = 2
		return false, false
	default:
		mask := storeMask(c.instr.Funct3, c.memaddr&0x3)
		memory.WriteWord(c.memaddr, c.memdataWr, mask)
		return c.finish(c.PC + 4)
	}
}

func storeMask(funct3 uint8, lane uint32) uint8 {
	switch funct3 {
	case 0b000: // SB
		return 1 << lane
	case 0b001: // SH
		if lane == 0 {
			return 0b0011
		}
		return 0b1100
	default: // SW
		return 0b1111
	}
}

// CSRRW/RS/RC base operation, funct3 & 0x3.
const (
	csrOpW = 0b01
	csrOpS = 0b10
	csrOpC = 0b11
)

func (c *CPU) stepCSR() (bool, bool) {
	addr := csr.Address(c.instr.Funct12)
	immForm := c.instr.Funct3&0x4 != 0
	baseOp := c.instr.Funct3 & 0x3

	if c.phase == 0 {
		var operand uint32
		if immForm {
			operand = c.instr.Imm
		} else {
			operand = c.Regs.Get(c.instr.Rs1)
		}

		suppressRead := baseOp == csrOpW && c.instr.Rd == 0
		var x uint32
		if !suppressRead {
			x, _ = c.CSR.Read(addr)
		}

		switch baseOp {
		case csrOpW:
			c.CSR.Write(addr, operand)
		case csrOpS:
			if operand != 0 {
				c.CSR.Write(addr, x|operand)
			}
		case csrOpC:
			if operand != 0 {
				c.CSR.Write(addr, x&^operand)
			}
		}
		c.tmp = x
		c.phase = 1
		return false, false
	}

	c.Regs.Set(c.instr.Rd, c.tmp)
	return c.finish(c.PC + 4)
}

func (c *CPU) stepMRET() (bool, bool) {
	target := c.CSR.LeaveTrap()
	c.trapSvc = false
	return c.finish(target)
}
