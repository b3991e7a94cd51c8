/*
 * rv32seq - Instruction decoder
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

// Package decode splits a 32-bit RV32I word into its fields and classifies
// it for the sequencer's outer dispatch. It never touches machine state --
// Decode(instr) is a pure function of its argument.
package decode

// Opcode is the raw 7-bit opcode field, instr[6:0].
type Opcode uint8

const (
	OpLoad    Opcode = 0b000_0011
	OpOpImm   Opcode = 0b001_0011
	OpStore   Opcode = 0b010_0011
	OpOp      Opcode = 0b011_0011
	OpBranch  Opcode = 0b110_0011
	OpSystem  Opcode = 0b111_0011
	OpLui     Opcode = 0b011_0111
	OpJalr    Opcode = 0b110_0111
	OpAuipc   Opcode = 0b001_0111
	OpJal     Opcode = 0b110_1111
)

// Select is the outer dispatch tag the sequencer switches on.
type Select uint8

const (
	NONE Select = iota
	LOAD
	STORE
	OP
	BRANCH
	CSRS
	LUI
	JALR
	AUIPC
	JAL
	OPIMM
	MRET
	ECALL
	EBREAK
)

// SystemFunc3 values under the SYSTEM opcode.
const (
	sysPriv   = 0b000
	sysCSRRW  = 0b001
	sysCSRRS  = 0b010
	sysCSRRC  = 0b011
	sysCSRRWI = 0b101
	sysCSRRSI = 0b110
	sysCSRRCI = 0b111
)

const (
	privECALL  = 0b000000000000
	privEBREAK = 0b000000000001
	privMRET   = 0b001100000010
)

// Instruction is everything the sequencer's outer and inner dispatch need
// from a fetched word: the raw fields plus the classification and
// immediate already resolved.
type Instruction struct {
	Raw     uint32
	Opcode  Opcode
	Rd      uint8
	Funct3  uint8
	Rs1     uint8
	Rs2     uint8
	Funct7  uint8
	Funct12 uint16
	AluFunc uint8 // {funct7[5], funct3}
	Select  Select
	Imm     uint32
	Illegal bool // top-level encoding is illegal regardless of opcode
}

// Decode splits and classifies instr. It never returns an error -- an
// unrecognized or malformed encoding comes back with Illegal set, and it
// is up to the sequencer to raise the trap.
func Decode(instr uint32) Instruction {
	d := Instruction{
		Raw:     instr,
		Opcode:  Opcode(instr & 0x7f),
		Rd:      uint8((instr >> 7) & 0x1f),
		Funct3:  uint8((instr >> 12) & 0x7),
		Rs1:     uint8((instr >> 15) & 0x1f),
		Rs2:     uint8((instr >> 20) & 0x1f),
		Funct7:  uint8((instr >> 25) & 0x7f),
		Funct12: uint16((instr >> 20) & 0xfff),
	}
	d.AluFunc = ((d.Funct7 >> 5) & 1 << 3) | d.Funct3

	if instr&0xffff == 0 || instr == 0xffffffff {
		d.Illegal = true
	}

	switch d.Opcode {
	case OpLoad:
		d.Select = LOAD
		d.Imm = immI(instr)
	case OpOpImm:
		d.Select = OPIMM
		d.Imm = immI(instr)
	case OpStore:
		d.Select = STORE
		d.Imm = immS(instr)
	case OpOp:
		d.Select = OP
	case OpBranch:
		d.Select = BRANCH
		d.Imm = immB(instr)
	case OpLui:
		d.Select = LUI
		d.Imm = immU(instr)
	case OpJalr:
		d.Select = JALR
		d.Imm = immI(instr)
	case OpAuipc:
		d.Select = AUIPC
		d.Imm = immU(instr)
	case OpJal:
		d.Select = JAL
		d.Imm = immJ(instr)
	case OpSystem:
		decodeSystem(&d)
	default:
		d.Select = NONE
		d.Illegal = true
	}
	return d
}

func decodeSystem(d *Instruction) {
	if d.Funct3 != sysPriv {
		d.Select = CSRS
		d.Imm = uint32(d.Rs1) // zero-extended rs1 field, for CSRRxI forms
		return
	}
	switch d.Funct12 {
	case privECALL:
		d.Select = ECALL
	case privEBREAK:
		d.Select = EBREAK
	case privMRET:
		if d.Rd == 0 && d.Rs1 == 0 {
			d.Select = MRET
		} else {
			d.Select = NONE
			d.Illegal = true
		}
	default:
		d.Select = NONE
		d.Illegal = true
	}
}

func immI(instr uint32) uint32 {
	return signExtend(instr>>20, 12)
}

func immS(instr uint32) uint32 {
	v := ((instr >> 25) << 5) | ((instr >> 7) & 0x1f)
	return signExtend(v, 12)
}

func immB(instr uint32) uint32 {
	v := ((instr>>31)&1)<<12 | ((instr>>7)&1)<<11 | ((instr>>25)&0x3f)<<5 | ((instr>>8)&0xf)<<1
	return signExtend(v, 13)
}

func immU(instr uint32) uint32 {
	return instr & 0xfffff000
}

func immJ(instr uint32) uint32 {
	v := ((instr>>31)&1)<<20 | ((instr>>12)&0xff)<<12 | ((instr>>20)&1)<<11 | ((instr>>21)&0x3ff)<<1
	return signExtend(v, 21)
}

func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}
