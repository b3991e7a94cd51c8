/*
 * rv32seq - RV32I assembler
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

// Package asm is a minimal two-pass RV32I assembler: one label table built
// on pass one, instruction words (and their label fixups) emitted on pass
// two, the same shape as the teacher's emu/assemble line-at-a-time
// encoder -- generalized from a single-line Assemble(line) into a whole
// source file so branch/jal targets can refer to labels defined later in
// the file.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// opcode field values (instr[6:0]).
const (
	opLoad   = 0b000_0011
	opOpImm  = 0b001_0011
	opStore  = 0b010_0011
	opOp     = 0b011_0011
	opBranch = 0b110_0011
	opSystem = 0b111_0011
	opLui    = 0b011_0111
	opJalr   = 0b110_0111
	opAuipc  = 0b001_0111
	opJal    = 0b110_1111
)

type rType struct {
	funct7 uint32
	funct3 uint32
}

var rTypeOps = map[string]rType{
	"add":  {0, 0}, "sub": {0x20, 0}, "sll": {0, 1}, "slt": {0, 2},
	"sltu": {0, 3}, "xor": {0, 4}, "srl": {0, 5}, "sra": {0x20, 5},
	"or": {0, 6}, "and": {0, 7},
}

var iTypeOps = map[string]uint32{
	"addi": 0, "slti": 2, "sltiu": 3, "xori": 4, "ori": 6, "andi": 7,
}

var shiftImmOps = map[string]uint32{
	"slli": 1, "srli": 5, "srai": 5,
}

var loadOps = map[string]uint32{
	"lb": 0, "lh": 1, "lw": 2, "lbu": 4, "lhu": 5,
}

var storeOps = map[string]uint32{
	"sb": 0, "sh": 1, "sw": 2,
}

var branchOps = map[string]uint32{
	"beq": 0, "bne": 1, "blt": 4, "bge": 5, "bltu": 6, "bgeu": 7,
}

var csrOps = map[string]uint32{
	"csrrw": 1, "csrrs": 2, "csrrc": 3, "csrrwi": 5, "csrrsi": 6, "csrrci": 7,
}

var csrAddrs = map[string]uint32{
	"mstatus": 0x300, "mie": 0x304, "mtvec": 0x305, "mepc": 0x341,
	"mcause": 0x342, "mtval": 0x343, "mip": 0x344,
}

// fixup records a not-yet-resolvable label reference: instruction at addr
// needs label's address folded in as a B-type or J-type immediate once
// every label is known.
type fixup struct {
	addr  uint32
	label string
	line  int
	kind  string // "branch" or "jal"
}

// Assembler drives the two passes over a source file and accumulates the
// resulting flat memory image plus any errors encountered.
type Assembler struct {
	labels  map[string]uint32
	fixups  []fixup
	words   []uint32
	errs    []string
	lineNum int
}

// New returns an empty Assembler, ready for Assemble.
func New() *Assembler {
	return &Assembler{labels: make(map[string]uint32)}
}

// Assemble reads RV32I source from r and returns the resulting flat
// little-endian memory image starting at address 0, or an error
// aggregating every line that failed.
func Assemble(r io.Reader) ([]byte, error) {
	a := New()
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	a.passOne(lines)
	a.passTwo(lines)
	a.resolveFixups()

	if len(a.errs) > 0 {
		return nil, errors.New(strings.Join(a.errs, "\n"))
	}
	return a.image(), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// passOne walks every line purely to record label addresses; it does not
// emit any words.
func (a *Assembler) passOne(lines []string) {
	addr := uint32(0)
	for _, raw := range lines {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if label, rest, ok := splitLabel(line); ok {
			if _, dup := a.labels[label]; dup {
				a.errs = append(a.errs, "duplicate label: "+label)
			}
			a.labels[label] = addr
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}
		if strings.HasPrefix(line, ".word") {
			addr += 4
			continue
		}
		addr += 4
	}
}

// passTwo walks every line again, this time emitting one word per
// instruction (or per .word directive); label references that can't be
// resolved yet are recorded as fixups and patched at the end.
func (a *Assembler) passTwo(lines []string) {
	addr := uint32(0)
	for lineNum, raw := range lines {
		a.lineNum = lineNum + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, rest, ok := splitLabel(line); ok {
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}

		word, err := a.encode(line, addr)
		if err != nil {
			a.errs = append(a.errs, fmt.Sprintf("line %d: %v", a.lineNum, err))
			word = 0
		}
		a.words = append(a.words, word)
		addr += 4
	}
}

func (a *Assembler) resolveFixups() {
	for _, f := range a.fixups {
		target, ok := a.labels[f.label]
		if !ok {
			a.errs = append(a.errs, fmt.Sprintf("line %d: undefined label: %s", f.line, f.label))
			continue
		}
		idx := f.addr / 4
		imm := int32(target) - int32(f.addr)
		switch f.kind {
		case "branch":
			a.words[idx] |= encodeBImm(imm)
		case "jal":
			a.words[idx] |= encodeJImm(imm)
		}
	}
}

func (a *Assembler) image() []byte {
	out := make([]byte, 0, len(a.words)*4)
	for _, w := range a.words {
		out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func splitLabel(line string) (label, rest string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", line, false
	}
	return strings.TrimSpace(line[:i]), line[i+1:], true
}

func fields(line string) []string {
	line = strings.ReplaceAll(line, ",", " ")
	return strings.Fields(line)
}

func (a *Assembler) encode(line string, addr uint32) (uint32, error) {
	toks := fields(line)
	if len(toks) == 0 {
		return 0, nil
	}
	mnem := strings.ToLower(toks[0])
	args := toks[1:]

	switch mnem {
	case "ecall":
		return opSystem, nil
	case "ebreak":
		return (1 << 20) | opSystem, nil
	case "mret":
		return (0x302 << 20) | opSystem, nil
	case ".word":
		return parseImm32(args[0])
	}

	if r, ok := rTypeOps[mnem]; ok {
		rd, rs1, rs2, err := parse3Reg(args)
		if err != nil {
			return 0, err
		}
		return (r.funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (r.funct3 << 12) | (rd << 7) | opOp, nil
	}

	if funct3, ok := iTypeOps[mnem]; ok {
		rd, rs1, imm, err := parseRegRegImm(args)
		if err != nil {
			return 0, err
		}
		return (uint32(imm)&0xfff)<<20 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opOpImm, nil
	}

	if funct3, ok := shiftImmOps[mnem]; ok {
		rd, rs1, shamt, err := parseRegRegImm(args)
		if err != nil {
			return 0, err
		}
		top := uint32(0)
		if mnem == "srai" {
			top = 0x20
		}
		return (top << 25) | (uint32(shamt)&0x1f)<<20 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opOpImm, nil
	}

	if funct3, ok := loadOps[mnem]; ok {
		rd, imm, rs1, err := parseLoadStore(args)
		if err != nil {
			return 0, err
		}
		return (uint32(imm)&0xfff)<<20 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opLoad, nil
	}

	if funct3, ok := storeOps[mnem]; ok {
		rs2, imm, rs1, err := parseLoadStore(args)
		if err != nil {
			return 0, err
		}
		u := uint32(imm)
		return ((u>>5)&0x7f)<<25 | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (u&0x1f)<<7 | opStore, nil
	}

	if _, ok := branchOps[mnem]; ok {
		return a.encodeBranch(mnem, args, addr)
	}

	switch mnem {
	case "lui", "auipc":
		rd, imm, err := parseRegImm(args)
		if err != nil {
			return 0, err
		}
		opcode := uint32(opLui)
		if mnem == "auipc" {
			opcode = opAuipc
		}
		return (uint32(imm)&0xfffff)<<12 | (rd << 7) | opcode, nil

	case "jal":
		return a.encodeJal(args, addr)

	case "jalr":
		rd, imm, rs1, err := parseLoadStore(args)
		if err != nil {
			return 0, err
		}
		return (uint32(imm)&0xfff)<<20 | (rs1 << 15) | (rd << 7) | opJalr, nil
	}

	if funct3, ok := csrOps[mnem]; ok {
		return encodeCSR(mnem, funct3, args)
	}

	return 0, errors.New("unknown mnemonic: " + mnem)
}

func (a *Assembler) encodeBranch(mnem string, args []string, addr uint32) (uint32, error) {
	if len(args) != 3 {
		return 0, errors.New(mnem + ": expected rs1, rs2, label")
	}
	rs1, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	rs2, err := parseReg(args[1])
	if err != nil {
		return 0, err
	}
	base := (branchOps[mnem] << 12) | (rs1 << 15) | (rs2 << 20) | opBranch

	if target, ok := a.labels[args[2]]; ok {
		return base | encodeBImm(int32(target)-int32(addr)), nil
	}
	a.fixups = append(a.fixups, fixup{addr: addr, label: args[2], line: a.lineNum, kind: "branch"})
	return base, nil
}

func (a *Assembler) encodeJal(args []string, addr uint32) (uint32, error) {
	if len(args) != 2 {
		return 0, errors.New("jal: expected rd, label")
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	base := (rd << 7) | opJal

	if target, ok := a.labels[args[1]]; ok {
		return base | encodeJImm(int32(target)-int32(addr)), nil
	}
	a.fixups = append(a.fixups, fixup{addr: addr, label: args[1], line: a.lineNum, kind: "jal"})
	return base, nil
}

func encodeCSR(mnem string, funct3 uint32, args []string) (uint32, error) {
	if len(args) != 3 {
		return 0, errors.New(mnem + ": expected rd, csr, rs1")
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	addr, ok := csrAddrs[strings.ToLower(args[1])]
	if !ok {
		return 0, errors.New("unknown csr: " + args[1])
	}
	var src uint32
	if funct3 >= 5 {
		n, err := strconv.ParseUint(args[2], 0, 5)
		if err != nil {
			return 0, errors.New("invalid immediate: " + args[2])
		}
		src = uint32(n)
	} else {
		src, err = parseReg(args[2])
		if err != nil {
			return 0, err
		}
	}
	return (addr << 20) | (src << 15) | (funct3 << 12) | (rd << 7) | opSystem, nil
}

func encodeBImm(imm int32) uint32 {
	u := uint32(imm)
	return ((u>>12)&1)<<31 | ((u>>5)&0x3f)<<25 | ((u>>1)&0xf)<<8 | ((u>>11)&1)<<7
}

func encodeJImm(imm int32) uint32 {
	u := uint32(imm)
	return ((u>>20)&1)<<31 | ((u>>1)&0x3ff)<<21 | ((u>>11)&1)<<20 | ((u>>12)&0xff)<<12
}

func parseReg(tok string) (uint32, error) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if !strings.HasPrefix(tok, "x") {
		return 0, errors.New("expected register, got: " + tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 5)
	if err != nil || n > 31 {
		return 0, errors.New("invalid register: " + tok)
	}
	return uint32(n), nil
}

func parse3Reg(args []string) (rd, rs1, rs2 uint32, err error) {
	if len(args) != 3 {
		return 0, 0, 0, errors.New("expected rd, rs1, rs2")
	}
	if rd, err = parseReg(args[0]); err != nil {
		return
	}
	if rs1, err = parseReg(args[1]); err != nil {
		return
	}
	rs2, err = parseReg(args[2])
	return
}

func parseRegRegImm(args []string) (rd, rs1 uint32, imm int32, err error) {
	if len(args) != 3 {
		return 0, 0, 0, errors.New("expected rd, rs1, imm")
	}
	if rd, err = parseReg(args[0]); err != nil {
		return
	}
	if rs1, err = parseReg(args[1]); err != nil {
		return
	}
	n, perr := strconv.ParseInt(args[2], 0, 32)
	if perr != nil {
		return 0, 0, 0, errors.New("invalid immediate: " + args[2])
	}
	imm = int32(n)
	return
}

func parseRegImm(args []string) (rd uint32, imm int32, err error) {
	if len(args) != 2 {
		return 0, 0, errors.New("expected rd, imm")
	}
	if rd, err = parseReg(args[0]); err != nil {
		return
	}
	n, perr := strconv.ParseInt(args[1], 0, 32)
	if perr != nil {
		return 0, 0, errors.New("invalid immediate: " + args[1])
	}
	imm = int32(n)
	return
}

// parseLoadStore handles the "rd, imm(rs1)" operand shape shared by
// loads, stores and jalr.
func parseLoadStore(args []string) (reg uint32, imm int32, base uint32, err error) {
	if len(args) != 2 {
		return 0, 0, 0, errors.New("expected reg, imm(base)")
	}
	if reg, err = parseReg(args[0]); err != nil {
		return
	}
	open := strings.IndexByte(args[1], '(')
	shut := strings.IndexByte(args[1], ')')
	if open < 0 || shut < open {
		return 0, 0, 0, errors.New("expected imm(reg): " + args[1])
	}
	n, perr := strconv.ParseInt(args[1][:open], 0, 32)
	if perr != nil {
		return 0, 0, 0, errors.New("invalid offset: " + args[1][:open])
	}
	imm = int32(n)
	base, err = parseReg(args[1][open+1 : shut])
	return
}

func parseImm32(tok string) (uint32, error) {
	n, err := strconv.ParseUint(tok, 0, 32)
	if err != nil {
		return 0, errors.New("invalid .word operand: " + tok)
	}
	return uint32(n), nil
}
