/*
 * rv32seq - Instruction disassembler
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

// Package disasm turns a fetched instruction word back into RV32I
// assembly text, the way the teacher's emu/disassemble turns a 370
// instruction's bytes back into mnemonic form: classify first, then
// format according to the classification's operand shape. Used by the
// monitor's (cmd/rvmon) instruction line.
package disasm

import (
	"fmt"

	"github.com/rv32seq/rv32seq/emu/alu"
	"github.com/rv32seq/rv32seq/emu/decode"
)

var aluNames = map[alu.Op]string{
	alu.ADD:  "add",
	alu.SUB:  "sub",
	alu.SLL:  "sll",
	alu.SLT:  "slt",
	alu.SLTU: "sltu",
	alu.XOR:  "xor",
	alu.SRL:  "srl",
	alu.SRA:  "sra",
	alu.OR:   "or",
	alu.AND:  "and",
}

var branchNames = map[uint8]string{
	0b000: "beq",
	0b001: "bne",
	0b100: "blt",
	0b101: "bge",
	0b110: "bltu",
	0b111: "bgeu",
}

var loadNames = map[uint8]string{
	0b000: "lb",
	0b001: "lh",
	0b010: "lw",
	0b100: "lbu",
	0b101: "lhu",
}

var storeNames = map[uint8]string{
	0b000: "sb",
	0b001: "sh",
	0b010: "sw",
}

var csrNames = map[uint8]string{
	0b001: "csrrw",
	0b010: "csrrs",
	0b011: "csrrc",
	0b101: "csrrwi",
	0b110: "csrrsi",
	0b111: "csrrci",
}

// aluOpFor mirrors emu/cpu's own AluFunc -> alu.Op mapping, duplicated
// here rather than exported from cpu to keep disasm from depending on
// the sequencer package.
func aluOpFor(aluFunc uint8, allowSub bool) (alu.Op, bool) {
	switch aluFunc {
	case 0b1000:
		if !allowSub {
			return alu.NONE, false
		}
		return alu.SUB, true
	case 0b0000:
		return alu.ADD, true
	case 0b0001:
		return alu.SLL, true
	case 0b0010:
		return alu.SLT, true
	case 0b0011:
		return alu.SLTU, true
	case 0b0100:
		return alu.XOR, true
	case 0b1101:
		return alu.SRA, true
	case 0b0101:
		return alu.SRL, true
	case 0b0110:
		return alu.OR, true
	case 0b0111:
		return alu.AND, true
	default:
		return alu.NONE, false
	}
}

func reg(r uint8) string { return fmt.Sprintf("x%d", r) }

// Disassemble decodes instr (fetched at pc, for PC-relative targets) and
// returns its assembly text. An illegal or unrecognized encoding comes
// back as ".word 0x........".
func Disassemble(pc, instr uint32) string {
	d := decode.Decode(instr)
	if d.Illegal {
		return fmt.Sprintf(".word 0x%08x", instr)
	}

	switch d.Select {
	case decode.OP:
		op, ok := aluOpFor(d.AluFunc, true)
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		return fmt.Sprintf("%-7s %s, %s, %s", aluNames[op], reg(d.Rd), reg(d.Rs1), reg(d.Rs2))

	case decode.OPIMM:
		op, ok := aluOpFor(d.AluFunc, false)
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		if op == alu.SLL || op == alu.SRL || op == alu.SRA {
			return fmt.Sprintf("%-7s %s, %s, %d", aluNames[op]+"i", reg(d.Rd), reg(d.Rs1), d.Imm&0x1f)
		}
		return fmt.Sprintf("%-7s %s, %s, %d", aluNames[op]+"i", reg(d.Rd), reg(d.Rs1), int32(d.Imm))

	case decode.LOAD:
		name, ok := loadNames[d.Funct3]
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		return fmt.Sprintf("%-7s %s, %d(%s)", name, reg(d.Rd), int32(d.Imm), reg(d.Rs1))

	case decode.STORE:
		name, ok := storeNames[d.Funct3]
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		return fmt.Sprintf("%-7s %s, %d(%s)", name, reg(d.Rs2), int32(d.Imm), reg(d.Rs1))

	case decode.BRANCH:
		name, ok := branchNames[d.Funct3]
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		target := pc + d.Imm
		return fmt.Sprintf("%-7s %s, %s, 0x%08x", name, reg(d.Rs1), reg(d.Rs2), target)

	case decode.LUI:
		return fmt.Sprintf("%-7s %s, 0x%x", "lui", reg(d.Rd), d.Imm>>12)

	case decode.AUIPC:
		return fmt.Sprintf("%-7s %s, 0x%x", "auipc", reg(d.Rd), d.Imm>>12)

	case decode.JAL:
		target := pc + d.Imm
		return fmt.Sprintf("%-7s %s, 0x%08x", "jal", reg(d.Rd), target)

	case decode.JALR:
		return fmt.Sprintf("%-7s %s, %d(%s)", "jalr", reg(d.Rd), int32(d.Imm), reg(d.Rs1))

	case decode.CSRS:
		name, ok := csrNames[d.Funct3]
		if !ok {
			return fmt.Sprintf(".word 0x%08x", instr)
		}
		if d.Funct3 >= 0b101 {
			return fmt.Sprintf("%-7s %s, 0x%03x, %d", name, reg(d.Rd), d.Funct12, d.Imm)
		}
		return fmt.Sprintf("%-7s %s, 0x%03x, %s", name, reg(d.Rd), d.Funct12, reg(d.Rs1))

	case decode.ECALL:
		return "ecall"

	case decode.EBREAK:
		return "ebreak"

	case decode.MRET:
		return "mret"

	default:
		return fmt.Sprintf(".word 0x%08x", instr)
	}
}
