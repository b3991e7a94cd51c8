/*
 * rv32seq - Control/status register file
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

// Package csr is the machine-mode control/status register file: mstatus,
// mtvec, mepc, mcause, mtval, mie, mip. It only implements the handful of
// CSRs this machine-mode-only core needs -- any other address reads as
// zero and silently discards writes, matching real RISC-V CSR behavior for
// an unimplemented address seen through a implementation that doesn't trap
// on it.
package csr

// Address identifies one of the recognized CSRs.
type Address uint16

const (
	MSTATUS Address = 0x300
	MIE     Address = 0x304
	MTVEC   Address = 0x305
	MEPC    Address = 0x341
	MCAUSE  Address = 0x342
	MTVAL   Address = 0x343
	MIP     Address = 0x344
)

// mstatus bit positions.
const (
	MstatusMIE  = 3
	MstatusMPIE = 7
)

// mie/mip bit positions (machine software/timer/external).
const (
	IntMSI = 3
	IntMTI = 7
	IntMEI = 11
)

// File holds the seven implemented CSRs. Unimplemented addresses are not
// stored anywhere; Read/Write just treat them as always zero.
type File struct {
	Mstatus uint32
	Mie     uint32
	Mtvec   uint32
	Mepc    uint32
	Mcause  uint32
	Mtval   uint32
	Mip     uint32
}

// Reset clears every CSR, as happens on machine reset.
func (f *File) Reset() {
	*f = File{}
}

// Read returns the value at addr and whether addr names an implemented CSR.
// A false ok means the caller should treat the read as architecturally
// legal but returning zero -- this core has no concept of an
// unimplemented-CSR trap.
func (f *File) Read(addr Address) (uint32, bool) {
	switch addr {
	case MSTATUS:
		return f.Mstatus, true
	case MIE:
		return f.Mie, true
	case MTVEC:
		return f.Mtvec, true
	case MEPC:
		return f.Mepc, true
	case MCAUSE:
		return f.Mcause, true
	case MTVAL:
		return f.Mtval, true
	case MIP:
		return f.Mip, true
	default:
		return 0, false
	}
}

// Write stores value at addr, if addr names an implemented, writable CSR.
// Unimplemented addresses are silently dropped.
func (f *File) Write(addr Address, value uint32) {
	switch addr {
	case MSTATUS:
		f.Mstatus = value
	case MIE:
		f.Mie = value
	case MTVEC:
		f.Mtvec = value
	case MEPC:
		f.Mepc = value & ^uint32(1) // epc[0] is always 0
	case MCAUSE:
		f.Mcause = value
	case MTVAL:
		f.Mtval = value
	case MIP:
		f.Mip = value
	}
}

// MIEBit reports the global machine-interrupt-enable bit.
func (f *File) MIEBit() bool {
	return f.Mstatus&(1<<MstatusMIE) != 0
}

// MPIEBit reports the saved (previous) interrupt-enable bit.
func (f *File) MPIEBit() bool {
	return f.Mstatus&(1<<MstatusMPIE) != 0
}

// SetMIE sets or clears the mstatus.MIE bit.
func (f *File) SetMIE(v bool) {
	f.setStatusBit(MstatusMIE, v)
}

// SetMPIE sets or clears the mstatus.MPIE bit.
func (f *File) SetMPIE(v bool) {
	f.setStatusBit(MstatusMPIE, v)
}

func (f *File) setStatusBit(bit uint, v bool) {
	if v {
		f.Mstatus |= 1 << bit
	} else {
		f.Mstatus &^= 1 << bit
	}
}

// EnterTrap pushes MIE into MPIE, clears MIE, and records cause/epc/tval --
// the fixed microcode any trap entry runs regardless of cause.
func (f *File) EnterTrap(epc, cause, tval uint32) {
	f.SetMPIE(f.MIEBit())
	f.SetMIE(false)
	f.Mepc = epc
	f.Mcause = cause
	f.Mtval = tval
}

// LeaveTrap restores MIE from MPIE, as MRET does, and returns the saved
// epc to resume at.
func (f *File) LeaveTrap() uint32 {
	f.SetMIE(f.MPIEBit())
	f.SetMPIE(true)
	return f.Mepc
}

// VectorBase computes the fetch address for cause, given mtvec's mode bits
// (bits[1:0]: 0 = direct, 1 = vectored) and base (bits[31:2] << 2).
// Vectored mode only applies to interrupts (cause's sign bit set); direct
// mode and all exceptions always fetch at the base.
func (f *File) VectorBase(cause uint32) uint32 {
	base := f.Mtvec &^ 0x3
	mode := f.Mtvec & 0x3
	if mode == 1 && cause&0x80000000 != 0 {
		return base + 4*(cause&^0x80000000)
	}
	return base
}

// PendingEnabled returns the set of currently-enabled and pending
// interrupt bits (mie & mip). emu/cpu's interrupt latching does not
// consult it; it works from its own irq line inputs.
func (f *File) PendingEnabled() uint32 {
	return f.Mie & f.Mip
}

// SetPending sets or clears one mip bit. The timer and UART drive the
// CPU's irq line inputs instead and do not call it.
func (f *File) SetPending(bit uint, v bool) {
	if v {
		f.Mip |= 1 << bit
	} else {
		f.Mip &^= 1 << bit
	}
}
