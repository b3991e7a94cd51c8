/*
 * rv32seq - Bus device interface
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

// Package device declares the interface memory-mapped peripherals implement
// to sit on the sequencer's bus alongside plain RAM.
package device

// Device is a memory-mapped peripheral. It claims a range of word
// addresses starting at Base() and is only asked to read or write offsets
// within that range.
type Device interface {
	// Base returns the word address this device is mapped at.
	Base() uint32
	// Size is the number of 32-bit words this device claims, starting
	// at Base().
	Size() uint32
	// ReadWord reads one word at the given word offset from Base().
	ReadWord(offset uint32) uint32
	// WriteWord writes data to the given word offset from Base(), with
	// mask indicating which of the four bytes (bit i = byte i) are live.
	WriteWord(offset uint32, data uint32, mask uint8)
	// Shutdown releases any host resources (open files, serial ports).
	Shutdown()
}

// NoDev marks an unattached peripheral slot in configuration code.
const NoDev uint16 = 0xffff
