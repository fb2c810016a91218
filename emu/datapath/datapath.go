/*
 * riscii - CPU datapath
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

// Package datapath implements the RISC II CPU core's datapath: the
// register file, PSW, ALU, shifter, and the three generations of
// pipeline latches (decode, execute, commit) that a fetched instruction
// passes through. The System sequencer (emu/system) owns the clock and
// main memory and drives the datapath one phase at a time; the datapath
// itself never blocks and never touches memory directly, only the
// OutputPins that the sequencer reads and fills.
//
// The RISC II pipeline is three deep: decode, execute, and commit
// overlap across successive instructions so that one instruction
// commits every cycle in the common case. Latch index 0 is the
// instruction just fetched (decoding), 1 is executing, 2 is committing.
package datapath

import (
	"fmt"

	"github.com/rcornwell/riscii/emu/alu"
	"github.com/rcornwell/riscii/emu/instruction"
	"github.com/rcornwell/riscii/emu/microop"
	"github.com/rcornwell/riscii/emu/psw"
	"github.com/rcornwell/riscii/emu/registerfile"
	"github.com/rcornwell/riscii/emu/shifter"
	"github.com/rcornwell/riscii/emu/trap"
)

// Control is the set of per-opcode flags that steer how an instruction's
// latches move through the pipeline. It is entirely a function of the
// decoded opcode (and, for short-format ALU/memory ops, whether the
// short-source was an immediate), never of runtime data.
type Control struct {
	Long        bool // long (19-bit immediate) instruction format.
	Immediate   bool // second ALU operand comes from DIMM, not a register.
	Memory      bool // instruction accesses main memory.
	Store       bool // memory access is a write; Rd names the value source.
	PCRelative  bool // address/target is PC + DIMM rather than rs1 + source.
	SignedLoad  bool // loaded sub-word value is sign-extended.
	Conditional bool // instruction carries a 4-bit condition, not a Dest.
	DestIsPSW   bool // writeback target is the PSW, not the register file.
	Privileged  bool // requires PSW.S; else a PrivilegeViolation trap.
}

// Latch is one generation's worth of pipeline state: the fields captured
// at fetch and carried, mostly unchanged, through execute and commit.
type Latch struct {
	Valid   bool
	Op      instruction.Op
	SCC     bool
	Rd      uint8
	Rs1     uint8
	Rs2     uint8
	ImmFlag bool
	Imm     uint32 // raw 13-bit or 19-bit immediate, per Control.Long.
	Cond    instruction.Conditional
	Control Control
}

// OutputPins describes the most recent access to main memory: an
// instruction fetch or a data access. emu/system services a memory
// instruction's data access and the next instruction fetch within the
// same Step, without stalling the pipeline, and the fetch at the end of
// each Step overwrites the pins, so after Step returns they describe
// that fetch.
type OutputPins struct {
	Address uint32
	DataOut uint32
	Width   int // 1, 2, or 4 bytes; 0 when idle.
	Read    bool
	Write   bool
	System  bool // asserted from PSW.S at the time the access was issued.
	Instr   bool // true for an instruction fetch, false for a data access.
}

// DataPath holds everything the RISC II architecture calls the CPU core
// minus main memory: the register file, the packed PSW, the ALU and
// shifter input/output latches, and the three pipeline generations.
type DataPath struct {
	Regs *registerfile.RegisterFile
	PSW  psw.PSW

	ALU     alu.ALU
	Shifter shifter.Shifter

	Latch [3]Latch // 0=decode, 1=execute, 2=commit.

	DIMM uint32 // materialized immediate for the execute stage.
	BAR  uint8  // low 2 bits of the last data address, for load alignment.
	DST  uint32 // writeback value latched for the committing instruction.
	SRC  uint32 // shifter input latch.

	// BranchTarget holds a control-flow instruction's computed target,
	// kept separate from DST because CALLI/CALLX/CALLR write a return
	// address to DST while also branching to a different address.
	BranchTarget uint32

	NXTPC uint32
	PC    uint32
	LSTPC uint32

	Pins OutputPins

	pendingPSW    psw.PSW // PUTPSW's argument, latent for one cycle.
	pendingPSWSet bool
}

// New returns a DataPath with a zeroed register file and PSW, PC's at
// zero, and no instruction in flight.
func New() *DataPath {
	return &DataPath{
		Regs: registerfile.New(),
		PSW:  psw.New(),
	}
}

// SetInputPins captures a freshly fetched 32-bit instruction word into
// the decode-stage latch. It performs no architectural state change: the
// word is only decoded and its fields recorded.
func (dp *DataPath) SetInputPins(word uint32) error {
	inst, err := instruction.Decode(word)
	if err != nil {
		return err
	}
	dp.Latch[0] = latchFrom(inst)
	return nil
}

// latchFrom flattens a decoded Instruction into a Latch, deferring the
// Control computation to Decode.
func latchFrom(inst instruction.Instruction) Latch {
	l := Latch{Valid: true}
	switch v := inst.(type) {
	case instruction.Short:
		l.Op, l.SCC, l.Rd, l.Rs1 = v.Op, v.SCC, v.Dest, v.RS1
		l.ImmFlag = v.Source.Kind == instruction.SourceImm13
		if l.ImmFlag {
			l.Imm = v.Source.Imm13
		} else {
			l.Rs2 = v.Source.Reg
		}
	case instruction.Long:
		l.Op, l.SCC, l.Rd, l.Imm = v.Op, v.SCC, v.Dest, v.Imm19
	case instruction.ShortConditional:
		l.Op, l.SCC, l.Cond, l.Rs1 = v.Op, v.SCC, v.Cond, v.RS1
		l.ImmFlag = v.Source.Kind == instruction.SourceImm13
		if l.ImmFlag {
			l.Imm = v.Source.Imm13
		} else {
			l.Rs2 = v.Source.Reg
		}
	case instruction.LongConditional:
		l.Op, l.SCC, l.Cond, l.Imm = v.Op, v.SCC, v.Cond, v.Imm19
	}
	return l
}

// Decode computes the decode-stage Control bundle from the latched
// opcode and immediate flag, and returns it.
func (dp *DataPath) Decode() Control {
	c := controlFor(dp.Latch[0])
	dp.Latch[0].Control = c
	return c
}

// controlFor derives Control purely from l.Op (and, for short-format
// ops, l.ImmFlag); it never looks at register contents.
func controlFor(l Latch) Control {
	var c Control
	switch l.Op {
	case instruction.Calli:
		c.Privileged = true
	case instruction.GetPSW:
		// Reads PSW into Rd; ordinary register writeback.
	case instruction.GetLPC:
		c.Privileged = true
	case instruction.PutPSW:
		c.Privileged, c.DestIsPSW = true, true
	case instruction.Callx:
		// Window push, address = rs1 + source.
	case instruction.Callr:
		c.Long, c.PCRelative, c.Immediate = true, true, true
	case instruction.Jmpx:
		c.Conditional = true
	case instruction.Jmpr:
		c.Long, c.Conditional, c.PCRelative, c.Immediate = true, true, true, true
	case instruction.Ret:
		c.Conditional = true
	case instruction.Reti:
		c.Conditional, c.Privileged = true, true
	case instruction.Ldhi:
		c.Long, c.Immediate = true, true
	case instruction.Ldxw, instruction.Ldxhu, instruction.Ldxhs,
		instruction.Ldxbu, instruction.Ldxbs:
		c.Memory = true
	case instruction.Ldrw, instruction.Ldrhu, instruction.Ldrhs,
		instruction.Ldrbu, instruction.Ldrbs:
		c.Memory, c.Long, c.PCRelative, c.Immediate = true, true, true, true
	case instruction.Stxw, instruction.Stxh, instruction.Stxb:
		c.Memory, c.Store = true, true
	case instruction.Strw, instruction.Strh, instruction.Strb:
		c.Memory, c.Store, c.Long, c.PCRelative, c.Immediate = true, true, true, true, true
	}
	switch l.Op {
	case instruction.Ldxhs, instruction.Ldxbs, instruction.Ldrhs, instruction.Ldrbs:
		c.SignedLoad = true
	}
	if !c.Long {
		c.Immediate = c.Immediate || l.ImmFlag
	}
	return c
}

// RouteRegsToALU loads the ALU's input latches from the execute-stage
// latch: Ai from PC (PC-relative ops) or regs[rs1], Bi from regs[rs2]
// (overwritten by RouteImmToALU for immediate-sourced ops).
func (dp *DataPath) RouteRegsToALU() {
	l := dp.Latch[1]
	if l.Control.PCRelative {
		dp.ALU.Ai = dp.PC
	} else {
		dp.ALU.Ai = dp.Regs.Read(l.Rs1, dp.PSW.CWP())
	}
	dp.ALU.Bi = dp.Regs.Read(l.Rs2, dp.PSW.CWP())
	dp.SRC = dp.ALU.Ai
	dp.Shifter.Src = dp.SRC
	dp.Shifter.SHam = uint8(dp.ALU.Bi & 0x1f)
}

// RouteImmToALU overrides the ALU's Bi latch with DIMM when the
// execute-stage instruction takes its second operand from an immediate.
func (dp *DataPath) RouteImmToALU() {
	if dp.Latch[1].Control.Immediate {
		dp.ALU.Bi = dp.DIMM
		dp.Shifter.SHam = uint8(dp.DIMM & 0x1f)
	}
}

// ShiftPipelineLatches advances the pipeline: commit ← execute,
// execute ← decode, and rematerializes DIMM for the instruction newly
// arrived in the execute stage. LDHI's 19-bit immediate forms the top
// bits of a word (DIMM = Imm<<13); every other long-format instruction
// uses its immediate as a PC-relative displacement (DIMM =
// sign-extend(Imm)); a short-format immediate source is sign-extended
// from 13 bits.
func (dp *DataPath) ShiftPipelineLatches() {
	dp.Latch[2] = dp.Latch[1]
	dp.Latch[1] = dp.Latch[0]
	dp.Latch[0] = Latch{}

	l := dp.Latch[1]
	switch {
	case !l.Valid:
		dp.DIMM = 0
	case l.Control.Long && l.Op == instruction.Ldhi:
		dp.DIMM = l.Imm << 13
	case l.Control.Long:
		dp.DIMM = microop.SignExtend19(l.Imm)
	case l.ImmFlag:
		dp.DIMM = microop.SignExtend13(l.Imm)
	default:
		dp.DIMM = 0
	}
}

// TestConditional evaluates the execute-stage instruction's condition
// code against the current PSW. Callers must only invoke it when
// Latch[1].Control.Conditional is set.
func (dp *DataPath) TestConditional() bool {
	return microop.TestConditional(dp.Latch[1].Cond, dp.PSW)
}

// Commit writes DST back to the register file for the committing
// instruction, at the current window, observing the r0 invariant. A
// PUTPSW's DST instead becomes the pending PSW, applied at the start of
// the *next* Commit call rather than this one, which gives it the one
// extra cycle of latency the architecture requires. Store instructions
// write no register: their Rd names the value already sent to memory.
func (dp *DataPath) Commit() {
	if dp.pendingPSWSet {
		dp.PSW = dp.pendingPSW
		dp.pendingPSWSet = false
	}
	l := dp.Latch[2]
	if !l.Valid {
		return
	}
	if l.Control.DestIsPSW {
		dp.pendingPSW = psw.FromU16(uint16(dp.DST))
		dp.pendingPSWSet = true
		return
	}
	if l.Control.Store || l.Control.Conditional {
		return
	}
	dp.Regs.Write(l.Rd, dp.PSW.CWP(), dp.DST)
}

// ALUResult runs the execute-stage instruction's arithmetic/logic
// operation and settles DST (and, when SCC is set, the condition
// codes). A shift with SCC set clears V and C, per the architecture's
// ALU table; without SCC the PSW is left alone.
func (dp *DataPath) ALUResult() {
	l := dp.Latch[1]
	switch l.Op {
	case instruction.Sll:
		dp.DST = dp.Shifter.ShiftLeft()
		dp.settleShiftSCC(l.SCC)
	case instruction.Srl:
		dp.DST = dp.Shifter.ShiftRightLogical()
		dp.settleShiftSCC(l.SCC)
	case instruction.Sra:
		dp.DST = dp.Shifter.ShiftRightArithmetic()
		dp.settleShiftSCC(l.SCC)
	case instruction.And:
		dp.settleSCC(l.SCC, dp.ALU.And, dp.ALU.AndSCC)
	case instruction.Or:
		dp.settleSCC(l.SCC, dp.ALU.Or, dp.ALU.OrSCC)
	case instruction.Xor:
		dp.settleSCC(l.SCC, dp.ALU.Xor, dp.ALU.XorSCC)
	case instruction.Add, instruction.Ldhi,
		instruction.Ldrw, instruction.Ldrhu, instruction.Ldrhs, instruction.Ldrbu,
		instruction.Ldrbs, instruction.Strw, instruction.Strh, instruction.Strb:
		dp.settleSCC(l.SCC && l.Op == instruction.Add, dp.ALU.Add, dp.ALU.AddSCC)
	case instruction.Addc:
		c := dp.PSW.C()
		if l.SCC {
			r, cc := dp.ALU.AddcSCC(c)
			dp.DST = r
			dp.PSW.SetCC(cc.Z, cc.N, cc.V, cc.C)
		} else {
			dp.DST = dp.ALU.Addc(c)
		}
	case instruction.Sub:
		dp.settleSCC(l.SCC, dp.ALU.Sub, dp.ALU.SubSCC)
	case instruction.Subc:
		c := dp.PSW.C()
		if l.SCC {
			r, cc := dp.ALU.SubcSCC(c)
			dp.DST = r
			dp.PSW.SetCC(cc.Z, cc.N, cc.V, cc.C)
		} else {
			dp.DST = dp.ALU.Subc(c)
		}
	case instruction.Subi:
		dp.settleSCC(l.SCC, dp.ALU.Subi, dp.ALU.SubiSCC)
	case instruction.Subci:
		c := dp.PSW.C()
		if l.SCC {
			r, cc := dp.ALU.SubciSCC(c)
			dp.DST = r
			dp.PSW.SetCC(cc.Z, cc.N, cc.V, cc.C)
		} else {
			dp.DST = dp.ALU.Subci(c)
		}
	case instruction.PutPSW, instruction.Ldxw, instruction.Ldxhu, instruction.Ldxhs,
		instruction.Ldxbu, instruction.Ldxbs, instruction.Stxw, instruction.Stxh,
		instruction.Stxb:
		dp.DST = dp.ALU.Add()
	case instruction.GetPSW:
		dp.DST = dp.GetPSW()
	case instruction.GetLPC:
		dp.DST = dp.LSTPC
	case instruction.Jmpx, instruction.Jmpr:
		dp.BranchTarget = dp.ALU.Add()
	case instruction.Callx, instruction.Callr:
		dp.BranchTarget = dp.ALU.Add()
		dp.DST = dp.PC
	case instruction.Calli:
		dp.BranchTarget = dp.ALU.Add()
		dp.DST = dp.LSTPC
	case instruction.Ret, instruction.Reti:
		// Conventional +8 return offset added to rs1 + source.
		dp.BranchTarget = dp.ALU.Add() + 8
	}
}

func (dp *DataPath) settleSCC(scc bool, plain func() uint32, withSCC func() (uint32, alu.SCC)) {
	if scc {
		r, cc := withSCC()
		dp.DST = r
		dp.PSW.SetCC(cc.Z, cc.N, cc.V, cc.C)
		return
	}
	dp.DST = plain()
}

func (dp *DataPath) settleShiftSCC(scc bool) {
	if scc {
		dp.PSW.SetCC(dp.DST == 0, dp.DST&0x80000000 != 0, false, false)
	}
}

// EffectiveAddress returns the address ALUResult computed for a memory
// instruction (register-indexed: rs1+source; PC-relative: PC+imm).
func (dp *DataPath) EffectiveAddress() uint32 {
	return dp.DST
}

// Branch updates PC/NXTPC/LSTPC for a taken branch or return to target,
// rejecting misaligned targets with a BadBranchAlignment trap. The PC
// chain is otherwise untouched on failure.
func (dp *DataPath) Branch(target uint32) error {
	if target&1 != 0 {
		return &trap.Error{Kind: trap.BadBranchAlignment, PC: dp.PC}
	}
	dp.LSTPC = dp.PC
	dp.PC = dp.NXTPC
	dp.NXTPC = target
	return nil
}

// Advance updates PC/NXTPC/LSTPC for ordinary, non-branching progress.
func (dp *DataPath) Advance() {
	dp.LSTPC = dp.PC
	dp.PC = dp.NXTPC
	dp.NXTPC += 4
}

// PushWindow performs a CALL's register-window push and reports whether
// the new CWP collided with SWP, in which case the caller must spill the
// displaced window to memory. It never raises a trap.
func (dp *DataPath) PushWindow() (spilled bool) {
	return dp.PSW.Push()
}

// PopWindow performs a RET/RETI's register-window pop.
func (dp *DataPath) PopWindow() (filled bool) {
	return dp.PSW.Pop()
}

// CheckPrivilege returns a PrivilegeViolation trap if the execute-stage
// instruction requires system mode and PSW.S is clear.
func (dp *DataPath) CheckPrivilege() error {
	if dp.Latch[1].Control.Privileged && !dp.PSW.S() {
		return &trap.Error{Kind: trap.PrivilegeViolation, PC: dp.PC}
	}
	return nil
}

// GetPSW returns the GETPSW result: PSW's 13 bits with the upper 19 bits
// of the word set, per the architecture's sign-extended encoding.
func (dp *DataPath) GetPSW() uint32 {
	return 0xffffe000 | uint32(dp.PSW.U16())
}

// LatchDataIn applies a load's shifter-based byte alignment and
// sign/zero extension once the memory read the sequencer issued in the
// prior cycle has returned. Memory is big-endian, so the width bytes at
// byte offset BAR sit (4-width-BAR) bytes above the bottom of the word;
// the shifter rotates them down by that many bytes.
func (dp *DataPath) LatchDataIn(word uint32, signed bool, width int) uint32 {
	aligned := shifter.AlignLoad(word, uint8(4-width)-dp.BAR)
	switch width {
	case 1:
		b := aligned & 0xff
		if signed && b&0x80 != 0 {
			return b | 0xffffff00
		}
		return b
	case 2:
		h := aligned & 0xffff
		if signed && h&0x8000 != 0 {
			return h | 0xffff0000
		}
		return h
	default:
		return aligned
	}
}

func (dp *DataPath) String() string {
	return fmt.Sprintf("PC=0x%08x NXTPC=0x%08x LSTPC=0x%08x CWP=%d SWP=%d",
		dp.PC, dp.NXTPC, dp.LSTPC, dp.PSW.CWP(), dp.PSW.SWP())
}
