/*
 * rv32seq - Memory/bus fabric
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

// Package memory is the sequencer's external collaborator for the
// memory/bus fabric: a 32-bit word-addressable array with a 4-bit
// byte-write-enable mask, plus a handful of memory-mapped peripheral
// devices living above the flat RAM region. The sequencer itself only
// ever calls ReadWord/WriteWord; it has no notion of RAM vs. peripheral.
package memory

import "github.com/rv32seq/rv32seq/emu/device"

// DefaultSize is used when no MEMSIZE option is configured.
const DefaultSize = 64 * 1024

type mapping struct {
	base uint32 // word address
	size uint32 // words
	dev  device.Device
}

type bus struct {
	ram     []uint32
	size    uint32 // words
	devices []mapping
}

var sysBus bus

// SetSize sets RAM size in words. Values are rounded down to a multiple
// of 1024 words and clamped to a minimum of 1024, matching the teacher's
// memory.SetSize rounding-to-8K-words behavior in spirit.
func SetSize(words int) {
	if words < 1024 {
		words = 1024
	}
	words = (words / 1024) * 1024
	sysBus.ram = make([]uint32, words)
	sysBus.size = uint32(words)
}

// GetSize returns the RAM size in words.
func GetSize() uint32 {
	return sysBus.size
}

// AttachDevice maps a peripheral into the bus's address space above RAM.
// It returns false if the requested range overlaps RAM or another device.
func AttachDevice(d device.Device) bool {
	base, size := d.Base(), d.Size()
	if base < sysBus.size {
		return false
	}
	for _, m := range sysBus.devices {
		if base < m.base+m.size && m.base < base+size {
			return false
		}
	}
	sysBus.devices = append(sysBus.devices, mapping{base: base, size: size, dev: d})
	return true
}

// Reset clears RAM and detaches all devices, shutting each one down first.
func Reset() {
	for i := range sysBus.ram {
		sysBus.ram[i] = 0
	}
	for _, m := range sysBus.devices {
		m.dev.Shutdown()
	}
	sysBus.devices = nil
}

func findDevice(wordAddr uint32) (mapping, bool) {
	for _, m := range sysBus.devices {
		if wordAddr >= m.base && wordAddr < m.base+m.size {
			return m, true
		}
	}
	return mapping{}, false
}

// ReadWord reads the 32-bit word at the given byte address (low two bits
// are ignored, matching the word-aligned bus the sequencer drives). ok is
// false for an address outside RAM and every attached device.
func ReadWord(addr uint32) (value uint32, ok bool) {
	word := addr >> 2
	if word < sysBus.size {
		return sysBus.ram[word], true
	}
	if m, found := findDevice(word); found {
		return m.dev.ReadWord(word - m.base), true
	}
	return 0, false
}

// WriteWord writes data to the word at addr, honoring mask (bit i live
// for byte i, matching mem_wr_mask in the external memory bus interface).
// ok is false for an address outside RAM and every attached device.
func WriteWord(addr uint32, data uint32, mask uint8) (ok bool) {
	word := addr >> 2
	if word < sysBus.size {
		cur := sysBus.ram[word]
		sysBus.ram[word] = mergeMask(cur, data, mask)
		return true
	}
	if m, found := findDevice(word); found {
		m.dev.WriteWord(word-m.base, data, mask)
		return true
	}
	return false
}

func mergeMask(cur, data uint32, mask uint8) uint32 {
	var bytemask uint32
	for i := range 4 {
		if mask&(1<<i) != 0 {
			bytemask |= 0xff << (8 * i)
		}
	}
	return (cur &^ bytemask) | (data & bytemask)
}
