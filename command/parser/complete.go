/*
 * rv32seq - Command completion helpers
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

package parser

// csrNames lists the CSRs the csr command accepts by name, the same
// handful emu/csr.File implements.
var csrNames = []string{"mstatus", "mie", "mtvec", "mepc", "mcause", "mtval", "mip"}

// csrComplete offers CSR-name completions for "csr <prefix>".
func csrComplete(line *cmdLine) []string {
	prefix := line.getWord()
	matches := []string{}
	for _, name := range csrNames {
		if len(prefix) <= len(name) && name[:len(prefix)] == prefix {
			matches = append(matches, name)
		}
	}
	return matches
}
