package decode

import "testing"

func TestDecodeADDI(t *testing.T) {
	// ADDI x1, x0, 5
	d := Decode(0x00500093)
	if d.Select != OPIMM {
		t.Errorf("select got %d wanted OPIMM", d.Select)
	}
	if d.Rd != 1 || d.Rs1 != 0 || d.Funct3 != 0 {
		t.Errorf("fields got rd=%d rs1=%d funct3=%d", d.Rd, d.Rs1, d.Funct3)
	}
	if d.Imm != 5 {
		t.Errorf("imm got %d wanted 5", d.Imm)
	}
}

func TestDecodeLUI(t *testing.T) {
	// LUI x2, 0xABCDE
	d := Decode(0xABCDE137)
	if d.Select != LUI {
		t.Errorf("select got %d wanted LUI", d.Select)
	}
	if d.Imm != 0xABCDE000 {
		t.Errorf("imm got %08x wanted ABCDE000", d.Imm)
	}
	if d.Rd != 2 {
		t.Errorf("rd got %d wanted 2", d.Rd)
	}
}

func TestDecodeJAL(t *testing.T) {
	// JAL x1, +8
	d := Decode(0x008000EF)
	if d.Select != JAL {
		t.Errorf("select got %d wanted JAL", d.Select)
	}
	if d.Imm != 8 {
		t.Errorf("imm got %d wanted 8", d.Imm)
	}
}

func TestDecodeNegativeImmSignExtends(t *testing.T) {
	// ADDI x1, x0, -1 : imm field all ones
	d := Decode(0xfff00093)
	if d.Imm != 0xffffffff {
		t.Errorf("imm got %08x wanted ffffffff", d.Imm)
	}
}

func TestIllegalAllZeroLowHalfword(t *testing.T) {
	d := Decode(0x00010000) // low 16 bits zero
	if !d.Illegal {
		t.Error("expected illegal for instr[15:0]==0")
	}
}

func TestIllegalAllOnes(t *testing.T) {
	d := Decode(0xffffffff)
	if !d.Illegal {
		t.Error("expected illegal for all-ones instruction")
	}
}

func TestSystemRefinement(t *testing.T) {
	cases := []struct {
		name   string
		instr  uint32
		want   Select
		illegal bool
	}{
		{"ECALL", 0x00000073, ECALL, false},
		{"EBREAK", 0x00100073, EBREAK, false},
		{"MRET", 0x30200073, MRET, false},
		{"CSRRW", 0x30051073, CSRS, false}, // csrrw x0, mstatus, x10
		{"bad SYSTEM funct12", 0x00200073, NONE, true},
	}
	for _, c := range cases {
		d := Decode(c.instr)
		if d.Select != c.want {
			t.Errorf("%s: select got %d wanted %d", c.name, d.Select, c.want)
		}
		if d.Illegal != c.illegal {
			t.Errorf("%s: illegal got %v wanted %v", c.name, d.Illegal, c.illegal)
		}
	}
}

func TestBranchImmLSBForcedZero(t *testing.T) {
	// BEQ x0, x0, +8 encoded with funct3=000, imm split across fields
	d := Decode(0x00000463) // beq x0,x0,8
	if d.Select != BRANCH {
		t.Errorf("select got %d wanted BRANCH", d.Select)
	}
	if d.Imm&1 != 0 {
		t.Errorf("branch imm LSB not forced to zero: %08x", d.Imm)
	}
}
