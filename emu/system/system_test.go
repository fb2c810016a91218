/*
 * riscii - CPU sequencer
 *
 * Copyright 2024, Richard Cornwell
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

package system

import (
	"testing"

	"github.com/rcornwell/riscii/emu/instruction"
	"github.com/rcornwell/riscii/emu/memory"
)

// encodeAt encodes inst and writes it at addr, failing the test on error.
func encodeAt(t *testing.T, mem *memory.Memory, addr uint32, inst instruction.Instruction) {
	t.Helper()
	word, err := instruction.Encode(inst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := mem.SetWord(addr, word); err != nil {
		t.Fatalf("SetWord: %v", err)
	}
}

func nopFiller(t *testing.T, mem *memory.Memory, addr uint32) {
	encodeAt(t, mem, addr, instruction.Short{Op: instruction.Add, Dest: 0, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0}})
}

func TestCommitLagsExecuteByOneCycle(t *testing.T) {
	mem := memory.New(64)
	encodeAt(t, mem, 0, instruction.Short{
		Op: instruction.Add, Dest: 1, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 5},
	})
	nopFiller(t, mem, 4)
	nopFiller(t, mem, 8)

	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if v := s.DP.Regs.Read(1, 0); v != 0 {
		t.Errorf("r1 = %d after one Step, want 0 (not committed yet)", v)
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if v := s.DP.Regs.Read(1, 0); v != 5 {
		t.Errorf("r1 = %d after two Steps, want 5", v)
	}
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	mem := memory.New(256)
	encodeAt(t, mem, 0, instruction.Short{ // r1 = 0x40
		Op: instruction.Add, Dest: 1, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0x40},
	})
	encodeAt(t, mem, 4, instruction.Short{ // r2 = 7
		Op: instruction.Add, Dest: 2, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 7},
	})
	encodeAt(t, mem, 8, instruction.Short{ // store r2 at (r1)
		Op: instruction.Stxw, Dest: 2, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	encodeAt(t, mem, 12, instruction.Short{ // r3 = load (r1)
		Op: instruction.Ldxw, Dest: 3, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	for addr := uint32(16); addr < 64; addr += 4 {
		nopFiller(t, mem, addr)
	}

	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Run(12); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := s.DP.Regs.Read(3, 0); v != 7 {
		t.Errorf("r3 = %d, want 7 (store/load round trip through 0x40)", v)
	}
	word, err := mem.GetWord(0x40)
	if err != nil {
		t.Fatalf("GetWord(0x40): %v", err)
	}
	if word != 7 {
		t.Errorf("mem[0x40] = %d, want 7", word)
	}
}

func TestByteStoreLoadRoundTripUnaligned(t *testing.T) {
	mem := memory.New(256)
	encodeAt(t, mem, 0, instruction.Short{ // r1 = 0x41 (BAR = 1)
		Op: instruction.Add, Dest: 1, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0x41},
	})
	encodeAt(t, mem, 4, instruction.Short{ // r2 = 0xab
		Op: instruction.Add, Dest: 2, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0xab},
	})
	encodeAt(t, mem, 8, instruction.Short{ // store byte r2 at (r1)
		Op: instruction.Stxb, Dest: 2, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	encodeAt(t, mem, 12, instruction.Short{ // r3 = load byte unsigned (r1)
		Op: instruction.Ldxbu, Dest: 3, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	for addr := uint32(16); addr < 64; addr += 4 {
		nopFiller(t, mem, addr)
	}

	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Run(12); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := s.DP.Regs.Read(3, 0); v != 0xab {
		t.Errorf("r3 = 0x%x, want 0xab (byte round trip through 0x41, BAR=1)", v)
	}
}

func TestHalfwordStoreLoadRoundTripUnaligned(t *testing.T) {
	mem := memory.New(256)
	encodeAt(t, mem, 0, instruction.Short{ // r1 = 0x46 (BAR = 2)
		Op: instruction.Add, Dest: 1, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0x46},
	})
	encodeAt(t, mem, 4, instruction.Short{ // r2 = 0x0abc
		Op: instruction.Add, Dest: 2, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0x0abc},
	})
	encodeAt(t, mem, 8, instruction.Short{ // store half r2 at (r1)
		Op: instruction.Stxh, Dest: 2, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	encodeAt(t, mem, 12, instruction.Short{ // r3 = load half unsigned (r1)
		Op: instruction.Ldxhu, Dest: 3, RS1: 1,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	for addr := uint32(16); addr < 64; addr += 4 {
		nopFiller(t, mem, addr)
	}

	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Run(12); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := s.DP.Regs.Read(3, 0); v != 0x0abc {
		t.Errorf("r3 = 0x%x, want 0x0abc (halfword round trip through 0x46, BAR=2)", v)
	}
}

func TestCallPushesWindowAndSavesReturnAddress(t *testing.T) {
	// RISC II has no register-write forwarding: a register written by one
	// instruction is only visible to an instruction at least two slots
	// later (one slot gap), so r10 is set here and CALLX reads it one
	// filler later rather than immediately after.
	mem := memory.New(256)
	encodeAt(t, mem, 0, instruction.Short{
		Op: instruction.Add, Dest: 10, RS1: 0,
		Source: instruction.ShortSource{Kind: instruction.SourceImm13, Imm13: 0x20},
	})
	nopFiller(t, mem, 4)
	encodeAt(t, mem, 8, instruction.Short{
		Op: instruction.Callx, Dest: 10, RS1: 10,
		Source: instruction.ShortSource{Kind: instruction.SourceReg, Reg: 0},
	})
	for addr := uint32(12); addr < 0x20; addr += 4 {
		nopFiller(t, mem, addr)
	}
	for addr := uint32(0x20); addr < 0x30; addr += 4 {
		nopFiller(t, mem, addr)
	}

	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Run(6); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cwp := s.DP.PSW.CWP(); cwp != 7 {
		t.Errorf("CWP = %d after one CALL, want 7 (decremented mod 8)", cwp)
	}
	// CALLX saves PC as it stood while CALLX executed (0x4, the address
	// of the instruction before it) into its Dest in the new window.
	if v := s.DP.Regs.Read(10, 7); v != 0x4 {
		t.Errorf("r10@win7 = 0x%x after CALLX, want 0x4 (saved PC)", v)
	}
}

func TestSpillAndFillWindowRoundTrip(t *testing.T) {
	mem := memory.New(1024)
	s := New(mem, 0)
	s.DP.Regs.Write(10, 3, 0xcafef00d)
	if err := s.spillWindow(3); err != nil {
		t.Fatalf("spillWindow: %v", err)
	}
	s.DP.Regs.Write(10, 3, 0) // simulate the window getting reused.
	if err := s.fillWindow(3); err != nil {
		t.Fatalf("fillWindow: %v", err)
	}
	if v := s.DP.Regs.Read(10, 3); v != 0xcafef00d {
		t.Errorf("restored r10@win3 = 0x%x, want 0xcafef00d", v)
	}
}

func TestFetchOutOfRangeSurfacesMemoryError(t *testing.T) {
	mem := memory.New(16) // four valid words, then nothing.
	for addr := uint32(0); addr < 16; addr += 4 {
		nopFiller(t, mem, addr)
	}
	s := New(mem, 0)
	if err := s.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := s.Run(10); err == nil {
		t.Errorf("Run past the end of memory should surface an error")
	}
}
