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

// Package system drives the RISC II datapath one instruction cycle at a
// time: it owns main memory and the clock, issues fetches, completes the
// one data access a memory instruction needs, and resolves the CALL/RET
// register-window spill and fill the datapath itself can't reach memory
// to do. It is the only place in the core that touches both
// emu/datapath and emu/memory.
package system

import (
	"log/slog"

	"github.com/rcornwell/riscii/emu/clock"
	"github.com/rcornwell/riscii/emu/datapath"
	"github.com/rcornwell/riscii/emu/instruction"
	"github.com/rcornwell/riscii/emu/memory"
	"github.com/rcornwell/riscii/emu/microop"
)

// windowBytes is the in-memory size of one spilled register window: 16
// registers (outs + locals), 4 bytes each.
const windowBytes = 16 * 4

// System couples a DataPath to the memory it reads instructions and
// data from and the clock that paces it.
type System struct {
	DP    *datapath.DataPath
	Mem   *memory.Memory
	Clock *clock.Clock

	// Paced selects TickAndWait over Tick; false runs the clock as fast
	// as the host can, which is what batch execution and tests want.
	Paced bool

	// WindowSpillBase is the memory address a register window's 16
	// words are written to/read from on overflow/underflow. Window n
	// occupies [WindowSpillBase+n*windowBytes, +windowBytes).
	WindowSpillBase uint32
}

// New returns a System with a fresh DataPath over mem, paced at rate
// cycles/second (0 = unpaced). The window spill area defaults to the
// last 8*windowBytes bytes of mem, reserved from the program's view by
// convention (the spec leaves this placement to the implementation).
func New(mem *memory.Memory, rate uint64) *System {
	const spillRegion = 8 * windowBytes
	var base uint32
	if mem.Size() > spillRegion {
		base = mem.Size() - spillRegion
	}
	return &System{
		DP:              datapath.New(),
		Mem:             mem,
		Clock:           clock.New(rate),
		Paced:           rate != 0,
		WindowSpillBase: base,
	}
}

// Reset points the fetch stream at addr and clears the pipeline, ready
// for the first Step.
func (s *System) Reset(addr uint32) error {
	s.DP.PC, s.DP.LSTPC = addr, addr
	s.DP.NXTPC = addr
	s.DP.Latch = [3]datapath.Latch{}
	return s.fetch()
}

// Step runs one full φ1..φ4 instruction cycle: it finishes any memory
// access left over from the instruction now leaving the execute stage,
// shifts the pipeline, checks privilege and executes the instruction
// that arrives in the execute stage, resolves CALL/RET window
// spill/fill and branch targets, and fetches the next instruction.
//
// A returned error is a decode error, memory fault, or trap; per the
// architecture's error model, instruction issue for that slot halts and
// the host decides whether to continue.
func (s *System) Step() error {
	dp := s.DP

	loaded, haveLoad, err := s.finishPendingMemory()
	if err != nil {
		return err
	}

	dp.ShiftPipelineLatches()
	if haveLoad {
		dp.DST = loaded
	}
	s.tick(clock.One)

	dp.RouteRegsToALU()
	dp.Commit()
	if err := dp.CheckPrivilege(); err != nil {
		slog.Warn("privilege trap", "pc", dp.PC, "err", err)
		return err
	}
	s.tick(clock.Two)

	dp.RouteImmToALU()
	dp.ALUResult()
	if err := s.issuePendingMemory(); err != nil {
		return err
	}
	if err := s.resolveWindow(); err != nil {
		return err
	}
	s.tick(clock.Three)

	if err := s.resolveBranch(); err != nil {
		slog.Warn("branch trap", "pc", dp.PC, "err", err)
		return err
	}
	if err := s.fetch(); err != nil {
		return err
	}
	s.tick(clock.Four)

	return nil
}

// Run calls Step up to n times, stopping at the first error (including
// nil-n, which runs nothing). It returns the number of cycles completed
// and that error, if any.
func (s *System) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return i, err
		}
	}
	return n, nil
}

func (s *System) tick(phase clock.Phase) {
	if s.Paced {
		s.Clock.TickAndWait(phase)
	} else {
		s.Clock.Tick(phase)
	}
}

// finishPendingMemory completes the data access ALUResult computed last
// cycle for the instruction about to leave the execute stage (Latch[1],
// pre-shift). Stores write through immediately; loads return the
// sign/zero-extended value the sequencer must install into DST once the
// instruction reaches the commit stage.
func (s *System) finishPendingMemory() (value uint32, have bool, err error) {
	l := s.DP.Latch[1]
	if !l.Valid || !l.Control.Memory {
		return 0, false, nil
	}
	addr := s.DP.EffectiveAddress()
	width, signed := microop.Width(l.Op)
	s.DP.BAR = uint8(addr & 3)

	if l.Control.Store {
		data := s.DP.Regs.Read(l.Rd, s.DP.PSW.CWP())
		return 0, false, s.writeMem(addr, width, data)
	}
	raw, err := s.readMem(addr, width)
	if err != nil {
		return 0, false, err
	}
	return s.DP.LatchDataIn(raw, signed, width), true, nil
}

// issuePendingMemory records the address of a memory instruction that
// just finished its execute stage (Latch[1], post-ALUResult), so the
// *next* cycle's finishPendingMemory can service it. The address is
// already sitting in DST/EffectiveAddress; nothing further is needed
// here beyond recording the access in OutputPins, which the fetch at the
// end of the same Step then overwrites.
func (s *System) issuePendingMemory() error {
	l := s.DP.Latch[1]
	if !l.Valid || !l.Control.Memory {
		return nil
	}
	width, _ := microop.Width(l.Op)
	s.DP.Pins = datapath.OutputPins{
		Address: s.DP.EffectiveAddress(),
		Width:   width,
		Read:    !l.Control.Store,
		Write:   l.Control.Store,
		System:  s.DP.PSW.S(),
		Instr:   false,
	}
	return nil
}

// readMem always fetches the full aligned word containing addr, whatever
// the access width: DataPath.LatchDataIn does the actual byte/half-word
// selection from that word via the shifter, using BAR to know where
// within the word the requested data lives.
func (s *System) readMem(addr uint32, _ int) (uint32, error) {
	return s.Mem.GetWord(addr &^ 3)
}

func (s *System) writeMem(addr uint32, width int, value uint32) error {
	switch width {
	case 1:
		_, err := s.Mem.SetByte(addr, uint8(value))
		return err
	case 2:
		_, err := s.Mem.SetHword(addr&^1, uint16(value))
		return err
	default:
		_, err := s.Mem.SetWord(addr&^3, value)
		return err
	}
}

// resolveWindow performs a CALL's register-window push or a RET's pop
// for the instruction that just executed, spilling or filling the
// colliding window through memory when PSW reports the collision.
func (s *System) resolveWindow() error {
	dp := s.DP
	l := dp.Latch[1]
	if !l.Valid {
		return nil
	}
	switch l.Op {
	case instruction.Calli, instruction.Callx, instruction.Callr:
		if dp.PushWindow() {
			win := dp.PSW.CWP()
			slog.Debug("window spill", "window", win, "pc", dp.PC)
			if err := s.spillWindow(win); err != nil {
				return err
			}
		}
	case instruction.Ret, instruction.Reti:
		if dp.PopWindow() {
			win := dp.PSW.CWP()
			slog.Debug("window fill", "window", win, "pc", dp.PC)
			if err := s.fillWindow(win); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *System) spillWindow(win uint8) error {
	regs := s.DP.Regs.WindowRegisters(win)
	buf := make([]byte, 0, windowBytes)
	for _, v := range regs {
		buf = append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return s.Mem.WriteBuf(s.WindowSpillBase+uint32(win)*windowBytes, buf)
}

func (s *System) fillWindow(win uint8) error {
	buf, err := s.Mem.ReadBuf(s.WindowSpillBase+uint32(win)*windowBytes, windowBytes)
	if err != nil {
		return err
	}
	var regs [16]uint32
	for i := range regs {
		off := i * 4
		regs[i] = uint32(buf[off])<<24 | uint32(buf[off+1])<<16 |
			uint32(buf[off+2])<<8 | uint32(buf[off+3])
	}
	s.DP.Regs.SetWindowRegisters(win, regs)
	return nil
}

// resolveBranch advances the PC chain for the instruction that just
// executed: a taken conditional or a call branches to BranchTarget,
// which is the next instruction fetched (no delay-slot instruction runs
// after it); anything else advances sequentially.
func (s *System) resolveBranch() error {
	dp := s.DP
	l := dp.Latch[1]
	if !l.Valid {
		dp.Advance()
		return nil
	}
	taken := false
	switch {
	case l.Control.Conditional:
		taken = dp.TestConditional()
	case l.Op == instruction.Callx, l.Op == instruction.Callr, l.Op == instruction.Calli:
		taken = true
	}
	if taken {
		return dp.Branch(dp.BranchTarget)
	}
	dp.Advance()
	return nil
}

// fetch reads the instruction at NXTPC into the decode-stage latch.
func (s *System) fetch() error {
	dp := s.DP
	word, err := s.Mem.GetWord(dp.NXTPC)
	if err != nil {
		return err
	}
	dp.Pins = datapath.OutputPins{Address: dp.NXTPC, Width: 4, Read: true, Instr: true, System: dp.PSW.S()}
	if err := dp.SetInputPins(word); err != nil {
		return err
	}
	dp.Decode()
	return nil
}
