/*
 * rv32seq - Arithmetic/logic unit
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

// Package alu is the sequencer's external collaborator for arithmetic and
// comparison: a pure function of an operation selector and two 32-bit
// operands, with no state of its own. The sequencer is the only caller and
// owns X/Y bus selection; alu never looks at instruction encoding.
package alu

// Op selects the ALU operation. Values and names follow the op card this
// machine was modeled on, not the funct3/funct7 encoding directly -- OP_IMM
// and OP share this selector even though their encodings disagree on SUB.
type Op uint8

const (
	NONE Op = iota
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND
	X
	Y
	ANDNOT
)

// Result is everything downstream phases need out of one ALU evaluation:
// the computed value plus the three comparison flags BRANCH and SLT/SLTU
// read independently of whichever Op actually ran.
type Result struct {
	Z   uint32
	Eq  bool
	Lt  bool // signed x < y
	Ltu bool // unsigned x < y
}

// Eval computes op(x, y). Shift amounts use only the low 5 bits of y, as
// RV32I's SLL/SRL/SRA require.
func Eval(op Op, x, y uint32) Result {
	shamt := y & 0x1f
	r := Result{
		Eq:  x == y,
		Lt:  int32(x) < int32(y),
		Ltu: x < y,
	}

	switch op {
	case ADD:
		r.Z = x + y
	case SUB:
		r.Z = x - y
	case SLL:
		r.Z = x << shamt
	case SLT:
		if r.Lt {
			r.Z = 1
		}
	case SLTU:
		if r.Ltu {
			r.Z = 1
		}
	case XOR:
		r.Z = x ^ y
	case SRL:
		r.Z = x >> shamt
	case SRA:
		r.Z = uint32(int32(x) >> shamt)
	case OR:
		r.Z = x | y
	case AND:
		r.Z = x & y
	case X:
		r.Z = x
	case Y:
		r.Z = y
	case ANDNOT:
		r.Z = x &^ y
	default:
		r.Z = 0
	}
	return r
}
