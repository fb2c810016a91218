package alu

import "testing"

func TestAnd(t *testing.T) {
	a := ALU{Ai: 0xff00ff00, Bi: 0x0f0f0f0f}
	if r := a.And(); r != 0x0f000f00 {
		t.Errorf("And got: %08x expected: %08x", r, 0x0f000f00)
	}
}

func TestOrXor(t *testing.T) {
	a := ALU{Ai: 0xf0f0f0f0, Bi: 0x0f0f0f0f}
	if r := a.Or(); r != 0xffffffff {
		t.Errorf("Or got: %08x expected: %08x", r, 0xffffffff)
	}
	if r := a.Xor(); r != 0xffffffff {
		t.Errorf("Xor got: %08x expected: %08x", r, 0xffffffff)
	}
	a = ALU{Ai: 0xaaaaaaaa, Bi: 0xaaaaaaaa}
	if r := a.Xor(); r != 0 {
		t.Errorf("Xor got: %08x expected: 0", r)
	}
}

func TestAddOverflow(t *testing.T) {
	a := ALU{Ai: 0x7fffffff, Bi: 1}
	result, scc := a.AddSCC()
	if result != 0x80000000 {
		t.Errorf("Add result got: %08x expected: %08x", result, 0x80000000)
	}
	if !scc.V || !scc.N || scc.C || scc.Z {
		t.Errorf("Add SCC got: %+v expected V=1,N=1,C=0,Z=0", scc)
	}
}

func TestSubNegative(t *testing.T) {
	a := ALU{Ai: 0, Bi: 1}
	result, scc := a.SubSCC()
	if result != 0xffffffff {
		t.Errorf("Sub result got: %08x expected: %08x", result, 0xffffffff)
	}
	if scc.V || !scc.N || scc.C || scc.Z {
		t.Errorf("Sub SCC got: %+v expected V=0,N=1,C=0,Z=0", scc)
	}
}

func TestAddcCarryOut(t *testing.T) {
	a := ALU{Ai: 0xffffffff, Bi: 1}
	result, scc := a.AddcSCC(false)
	if result != 0 {
		t.Errorf("Addc result got: %08x expected: 0", result)
	}
	if !scc.Z || scc.N || scc.V || !scc.C {
		t.Errorf("Addc SCC got: %+v expected Z=1,N=0,V=0,C=1", scc)
	}
}

func TestAddZero(t *testing.T) {
	a := ALU{Ai: 0, Bi: 0}
	result, scc := a.AddSCC()
	if result != 0 || !scc.Z {
		t.Errorf("Add of zeros got: %08x Z=%v expected: 0 Z=true", result, scc.Z)
	}
}

func TestSubiReversesOperands(t *testing.T) {
	a := ALU{Ai: 3, Bi: 10}
	if r := a.Subi(); r != 7 {
		t.Errorf("Subi got: %d expected: 7", r)
	}
	if r := a.Sub(); r != 0xfffffff9 {
		t.Errorf("Sub got: %08x expected: %08x", r, 0xfffffff9)
	}
}

func TestSubcBorrowChain(t *testing.T) {
	a := ALU{Ai: 0, Bi: 1}
	result, scc := a.SubcSCC(false)
	if result != 0xfffffffe {
		t.Errorf("Subc result got: %08x expected: %08x", result, 0xfffffffe)
	}
	if scc.C {
		t.Errorf("Subc expected borrow (C=0), got C=%v", scc.C)
	}
	if !scc.N || scc.Z {
		t.Errorf("Subc SCC got: %+v expected N=1,Z=0", scc)
	}
}
