/*
 * riscii - Per-opcode micro-operation helpers
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

// Package microop holds the small, stateless pieces of per-opcode
// behaviour that the datapath consults while stepping an instruction
// through the pipeline: memory access width, conditional-branch
// evaluation, and immediate sign extension. None of it touches pipeline
// state directly, which keeps it trivially testable against the
// instruction set's opcode table.
package microop

import (
	"github.com/rcornwell/riscii/emu/instruction"
	"github.com/rcornwell/riscii/emu/psw"
)

// Width reports the memory access width in bytes for a load or store
// opcode, and whether the loaded value is sign-extended (stores ignore
// the signed result). Width panics if op is not a load or store; callers
// are expected to have already checked Control.Memory.
func Width(op instruction.Op) (width int, signed bool) {
	switch op {
	case instruction.Ldxw, instruction.Ldrw, instruction.Stxw, instruction.Strw:
		return 4, false
	case instruction.Ldxhu, instruction.Ldrhu, instruction.Stxh, instruction.Strh:
		return 2, false
	case instruction.Ldxhs, instruction.Ldrhs:
		return 2, true
	case instruction.Ldxbu, instruction.Ldrbu, instruction.Stxb, instruction.Strb:
		return 1, false
	case instruction.Ldxbs, instruction.Ldrbs:
		return 1, true
	default:
		panic("microop: Width called on non-memory opcode")
	}
}

// TestConditional evaluates one of the 15 branch condition codes against
// the current condition codes in p, per the RISC II's standard
// two's-complement comparison table.
func TestConditional(cond instruction.Conditional, p psw.PSW) bool {
	z, n, v, c := p.Z(), p.N(), p.V(), p.C()
	switch cond {
	case instruction.Gt: // greater than: Z==0 && N==V
		return !z && n == v
	case instruction.Le: // less or equal
		return z || n != v
	case instruction.Ge: // greater or equal
		return n == v
	case instruction.Lt: // less than
		return n != v
	case instruction.Hi: // higher (unsigned): C==1 && Z==0
		return c && !z
	case instruction.Los: // lower or same (unsigned)
		return !c || z
	case instruction.Lonc: // lower, no carry
		return !c
	case instruction.Hisc: // higher or same, carry set
		return c
	case instruction.Pl: // plus
		return !n
	case instruction.Mi: // minus
		return n
	case instruction.Ne: // not equal
		return !z
	case instruction.Eq: // equal
		return z
	case instruction.Nv: // no overflow
		return !v
	case instruction.V: // overflow
		return v
	default: // Alw: always
		return true
	}
}

// SignExtend13 sign-extends a 13-bit immediate (bit 12 is the sign) to
// 32 bits.
func SignExtend13(imm uint32) uint32 {
	imm &= 0x1fff
	if imm&0x1000 != 0 {
		return imm | 0xffffe000
	}
	return imm
}

// SignExtend19 sign-extends a 19-bit immediate (bit 18 is the sign) to
// 32 bits.
func SignExtend19(imm uint32) uint32 {
	imm &= 0x7ffff
	if imm&0x40000 != 0 {
		return imm | 0xfff80000
	}
	return imm
}
