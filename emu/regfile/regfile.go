/*
 * rv32seq - Integer register file
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

// Package regfile is the sequencer's external collaborator for the 32
// general-purpose registers. x0 reads as zero and discards writes; every
// other register is a plain 32-bit cell with no read/write side effects.
package regfile

// Count is the number of integer registers, x0 through x31.
const Count = 32

type File struct {
	x [Count]uint32
}

// Get returns register r, or 0 for r == 0 or any out-of-range index.
func (f *File) Get(r uint8) uint32 {
	if r == 0 || int(r) >= Count {
		return 0
	}
	return f.x[r]
}

// Set writes value to register r. Writes to x0 and out-of-range indices
// are silently discarded.
func (f *File) Set(r uint8, value uint32) {
	if r == 0 || int(r) >= Count {
		return
	}
	f.x[r] = value
}

// Reset zeroes every register, including x0 (already always zero).
func (f *File) Reset() {
	for i := range f.x {
		f.x[i] = 0
	}
}

// Snapshot returns a copy of all 32 registers, for the console and monitor.
func (f *File) Snapshot() [Count]uint32 {
	return f.x
}
