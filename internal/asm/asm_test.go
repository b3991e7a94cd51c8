/*
 * rv32seq - RV32I assembler tests
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

package asm

import (
	"encoding/binary"
	"strings"
	"testing"
)

func assembleString(t *testing.T, src string) []uint32 {
	t.Helper()
	img, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(img)%4 != 0 {
		t.Fatalf("image length %d not a multiple of 4", len(img))
	}
	words := make([]uint32, len(img)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(img[i*4:])
	}
	return words
}

func TestAssembleRType(t *testing.T) {
	words := assembleString(t, "add x1, x2, x3\nsub x1, x2, x3\n")
	if words[0] != 0x003100b3 {
		t.Errorf("add got %08x wanted 003100b3", words[0])
	}
	if words[1] != 0x403100b3 {
		t.Errorf("sub got %08x wanted 403100b3", words[1])
	}
}

func TestAssembleIType(t *testing.T) {
	words := assembleString(t, "addi x1, x0, 5\n")
	if words[0] != 0x00500093 {
		t.Errorf("addi got %08x wanted 00500093", words[0])
	}
}

func TestAssembleLoadStore(t *testing.T) {
	words := assembleString(t, "lw x1, 0(x2)\nsw x2, 0(x1)\n")
	if words[0] != 0x00012083 {
		t.Errorf("lw got %08x wanted 00012083", words[0])
	}
	if words[1] != 0x0020a023 {
		t.Errorf("sw got %08x wanted 0020a023", words[1])
	}
}

func TestAssembleLabelForward(t *testing.T) {
	src := "beq x1, x2, done\naddi x3, x0, 1\ndone:\nadd x4, x0, x0\n"
	words := assembleString(t, src)
	// beq is at address 0, done is at address 8: imm = 8.
	if words[0] != 0x00208463 {
		t.Errorf("beq got %08x wanted 00208463", words[0])
	}
}

func TestAssembleLabelBackward(t *testing.T) {
	src := "top:\naddi x1, x1, 1\nbeq x1, x0, top\n"
	words := assembleString(t, src)
	// beq is at address 4, top is at address 0: imm = -4.
	want := uint32(0xfe008ee3)
	if words[1] != want {
		t.Errorf("backward beq got %08x wanted %08x", words[1], want)
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, err := Assemble(strings.NewReader("bogus x1, x2, x3\n"))
	if err == nil {
		t.Error("Assemble accepted an unknown mnemonic")
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble(strings.NewReader("jal x1, nowhere\n"))
	if err == nil {
		t.Error("Assemble accepted a reference to an undefined label")
	}
}

func TestAssembleWordDirective(t *testing.T) {
	words := assembleString(t, ".word 0xdeadbeef\n")
	if words[0] != 0xdeadbeef {
		t.Errorf(".word got %08x wanted deadbeef", words[0])
	}
}
