package csr

import "testing"

func TestMIEMPIERoundTrip(t *testing.T) {
	var f File
	f.SetMIE(true)
	if !f.MIEBit() {
		t.Error("MIE did not read back set")
	}
	f.EnterTrap(0x100, 0x2, 0xdeadbeef)
	if f.MIEBit() {
		t.Error("MIE should be cleared on trap entry")
	}
	if !f.MPIEBit() {
		t.Error("MPIE should hold the pre-trap MIE value")
	}
	if f.Mepc != 0x100 || f.Mcause != 0x2 || f.Mtval != 0xdeadbeef {
		t.Errorf("EnterTrap did not stage mepc/mcause/mtval correctly: %08x %08x %08x",
			f.Mepc, f.Mcause, f.Mtval)
	}

	pc := f.LeaveTrap()
	if pc != 0x100 {
		t.Errorf("LeaveTrap returned %08x wanted 00000100", pc)
	}
	if !f.MIEBit() {
		t.Error("MRET should restore MIE from MPIE")
	}
	if !f.MPIEBit() {
		t.Error("MRET should leave MPIE set to 1")
	}
}

func TestUnimplementedAddrReadsZeroDropsWrite(t *testing.T) {
	var f File
	v, ok := f.Read(0x7c0)
	if ok || v != 0 {
		t.Errorf("unimplemented CSR read got (%08x,%v) wanted (0,false)", v, ok)
	}
	f.Write(0x7c0, 0xffffffff)
	v, ok = f.Read(MSTATUS)
	if v != 0 {
		t.Errorf("write to unimplemented CSR leaked into mstatus: %08x", v)
	}
	_ = ok
}

func TestVectorBaseDirectAndVectored(t *testing.T) {
	var f File
	f.Mtvec = 0x80 // direct mode
	if got := f.VectorBase(0x0000000B); got != 0x80 {
		t.Errorf("direct mode got %08x wanted 00000080", got)
	}

	f.Mtvec = 0x80 | 1 // vectored mode
	if got := f.VectorBase(0x80000007); got != 0x80+7*4 {
		t.Errorf("vectored timer got %08x wanted %08x", got, 0x80+7*4)
	}
	// Vectored mode only applies to interrupts, not exceptions.
	if got := f.VectorBase(0x00000002); got != 0x80 {
		t.Errorf("vectored mode on exception got %08x wanted base 00000080", got)
	}
}

func TestMepcLSBAlwaysZero(t *testing.T) {
	var f File
	f.Write(MEPC, 0x1001)
	if f.Mepc != 0x1000 {
		t.Errorf("mepc got %08x wanted 00001000 (LSB cleared)", f.Mepc)
	}
}
