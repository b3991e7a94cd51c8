/*
 * rv32seq - Memory examine/deposit commands
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

// mem/deposit examine and patch the bus the way the teacher's
// mem_commands.go dumps and patches 370 storage -- one word at a time,
// by hex address -- simplified down to this machine's flat word-addressed
// bus (no floating point/character display modes, no channel addressing).
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rv32seq/rv32seq/emu/core"
	"github.com/rv32seq/rv32seq/emu/memory"
)

const defaultMemCount = 8

// mem <hexaddr> [count] -- print count words (default 8) starting at
// hexaddr, four per line.
func mem(line *cmdLine, _ *core.Core) (bool, error) {
	addrStr := line.getWord()
	addr, err := strconv.ParseUint(addrStr, 16, 32)
	if err != nil {
		return false, errors.New("mem: invalid address: " + addrStr)
	}

	count := defaultMemCount
	if countStr := line.getWord(); countStr != "" {
		n, err := strconv.ParseUint(countStr, 10, 16)
		if err != nil {
			return false, errors.New("mem: invalid count: " + countStr)
		}
		count = int(n)
	}

	for i := 0; i < count; i++ {
		wordAddr := uint32(addr) + uint32(i)*4
		if i%4 == 0 {
			if i != 0 {
				fmt.Println()
			}
			fmt.Printf("%08x:", wordAddr)
		}
		value, ok := memory.ReadWord(wordAddr)
		if !ok {
			fmt.Printf(" --------")
			continue
		}
		fmt.Printf(" %08x", value)
	}
	fmt.Println()
	return false, nil
}

// deposit <hexaddr> <hexvalue> -- write one word to the bus.
func deposit(line *cmdLine, _ *core.Core) (bool, error) {
	addrStr := line.getWord()
	addr, err := strconv.ParseUint(addrStr, 16, 32)
	if err != nil {
		return false, errors.New("deposit: invalid address: " + addrStr)
	}

	valStr := line.getWord()
	value, err := strconv.ParseUint(valStr, 16, 32)
	if err != nil {
		return false, errors.New("deposit: invalid value: " + valStr)
	}

	if !memory.WriteWord(uint32(addr), uint32(value), 0xf) {
		return false, errors.New("deposit: address out of range")
	}
	return false, nil
}
