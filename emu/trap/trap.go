/*
 * riscii - Trap conditions
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

// Package trap defines the fault conditions the datapath and system
// sequencer can raise that are not decode or memory errors: privilege
// violations, branch-alignment faults, and register-window over/underflow.
package trap

import "fmt"

// Kind distinguishes the ways execution can trap.
type Kind int

const (
	// PrivilegeViolation means a privileged instruction (CALLI, GETLPC,
	// PUTPSW, RETI) executed while PSW.S is clear.
	PrivilegeViolation Kind = iota
	// BadBranchAlignment means a computed branch target had bit 0 set.
	BadBranchAlignment
	// WindowOverflow means a CALL's window push collided with SWP and
	// the spill could not be completed (reserved for a future MMU-backed
	// implementation; the single-hart core always completes the spill).
	WindowOverflow
	// WindowUnderflow is the RET analogue of WindowOverflow.
	WindowUnderflow
)

// Error reports a trapped condition. PC is the address of the
// instruction that trapped.
type Error struct {
	Kind Kind
	PC   uint32
}

func (e *Error) Error() string {
	switch e.Kind {
	case PrivilegeViolation:
		return fmt.Sprintf("trap: privilege violation at 0x%08x", e.PC)
	case BadBranchAlignment:
		return fmt.Sprintf("trap: branch target misaligned, from 0x%08x", e.PC)
	case WindowOverflow:
		return fmt.Sprintf("trap: register window overflow at 0x%08x", e.PC)
	default:
		return fmt.Sprintf("trap: register window underflow at 0x%08x", e.PC)
	}
}

// Vector returns the fixed trap-handler address for the kind, per the
// RISC II convention of dedicating the top of the address space to
// fault entry points.
func (k Kind) Vector() uint32 {
	switch k {
	case BadBranchAlignment:
		return 0x80000000
	case WindowOverflow, WindowUnderflow:
		return 0x80000020
	default:
		return 0x80000010
	}
}
