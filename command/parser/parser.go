/*
 * rv32seq - Command parser
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

// Package parser implements the console's command language: short,
// prefix-matched verbs (regs, csr, mem, deposit, break, clear, step,
// continue, stop, quit) operating on a live emu/core.Core. This is the
// RV32 analogue of the teacher's attach/detach/set/show device commands,
// retargeted at a single sequencer instead of a channel full of
// peripherals -- the cmdLine scanning shape and prefix-match command
// table survive, the device-command machinery doesn't.
package parser

import (
	"errors"
	"unicode"

	"github.com/rv32seq/rv32seq/emu/core"
)

type cmd struct {
	name     string
	min      int // minimum unambiguous prefix length
	process  func(*cmdLine, *core.Core) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "regs", min: 1, process: regs},
	{name: "csr", min: 1, process: csrCmd, complete: csrComplete},
	{name: "mem", min: 1, process: mem},
	{name: "deposit", min: 1, process: deposit},
	{name: "break", min: 2, process: setBreak},
	{name: "clear", min: 2, process: clearBreak},
	{name: "step", min: 2, process: step},
	{name: "continue", min: 1, process: cont},
	{name: "stop", min: 2, process: stop},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand parses and runs one command line against c, returning
// true when the console should exit.
func ProcessCommand(commandLine string, c *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(&line, c)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd completes a partially typed command line for the liner
// console, returning the candidate completions.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	matches := []string{}
	for _, m := range cmdList {
		if len(name) <= len(m.name) && m.name[:len(name)] == name {
			matches = append(matches, m.name)
		}
	}
	return matches
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) || len(name) < m.min {
		return false
	}
	return m.name[:len(name)] == name
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

// getWord returns the next run of non-space characters, lower-cased.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return toLower(line.line[start:line.pos])
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
