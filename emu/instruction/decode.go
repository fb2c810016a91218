/*
 * riscii - Instruction decoder
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

package instruction

import "fmt"

// DecodeErrorKind distinguishes the ways a 32-bit word can fail to
// decode.
type DecodeErrorKind int

const (
	// InvalidInstruction means the opcode's low nibble fell on a
	// reserved, unassigned encoding.
	InvalidInstruction DecodeErrorKind = iota
	// InvalidJumpCondition means a conditional instruction encoded
	// condition code 0, which is reserved.
	InvalidJumpCondition
)

// DecodeError reports a failed decode.
type DecodeError struct {
	Kind   DecodeErrorKind
	Loc    uint32 // bit position(s) implicated, as a bitmask.
	Opcode uint32
	Code   uint8 // condition code, set only for InvalidJumpCondition.
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case InvalidJumpCondition:
		return fmt.Sprintf("instruction: invalid jump condition %d in opcode 0x%08x", e.Code, e.Opcode)
	default:
		return fmt.Sprintf("instruction: invalid instruction (bits 0x%x) in opcode 0x%08x", e.Loc, e.Opcode)
	}
}

func conditionalFromBits(opcode uint32) (Conditional, error) {
	code := uint8((opcode & 0x00780000) >> 19)
	if code == 0 || code > uint8(Alw) {
		return 0, &DecodeError{Kind: InvalidJumpCondition, Opcode: opcode, Code: code}
	}
	return Conditional(code), nil
}

func shortSourceFromBits(opcode uint32) ShortSource {
	if opcode&0x2000 != 0 {
		return ShortSource{Kind: SourceImm13, Imm13: opcode & 0x1fff}
	}
	return ShortSource{Kind: SourceReg, Reg: uint8(opcode & 0x1f)}
}

func invalidInstruction(opcode uint32) error {
	return &DecodeError{Kind: InvalidInstruction, Loc: 0xf, Opcode: opcode}
}

// Decode interprets a 32-bit fetched word as a RISC II instruction.
func Decode(opcode uint32) (Instruction, error) {
	scc := opcode&0x01000000 != 0
	dest := uint8((opcode & 0x00f80000) >> 19)
	rs1 := uint8((opcode & 0x0007c000) >> 14)
	imm19 := opcode & 0x0007ffff
	source := shortSourceFromBits(opcode)
	op := (opcode & 0xfe000000) >> 25
	row := op >> 5
	col := op & 0xf

	short := func(o Op) Instruction {
		return Short{Op: o, SCC: scc, Dest: dest, RS1: rs1, Source: source}
	}
	long := func(o Op) Instruction {
		return Long{Op: o, SCC: scc, Dest: dest, Imm19: imm19}
	}
	shortCond := func(o Op) (Instruction, error) {
		cond, err := conditionalFromBits(opcode)
		if err != nil {
			return nil, err
		}
		return ShortConditional{Op: o, SCC: scc, Cond: cond, RS1: rs1, Source: source}, nil
	}
	longCond := func(o Op) (Instruction, error) {
		cond, err := conditionalFromBits(opcode)
		if err != nil {
			return nil, err
		}
		return LongConditional{Op: o, SCC: scc, Cond: cond, Imm19: imm19}, nil
	}

	switch row {
	case 0: // Control flow: calls, returns, branches, PSW access.
		switch col {
		case 1:
			return short(Calli), nil
		case 2:
			return short(GetPSW), nil
		case 3:
			return short(GetLPC), nil
		case 4:
			return short(PutPSW), nil
		case 8:
			return short(Callx), nil
		case 9:
			return long(Callr), nil
		case 12:
			return shortCond(Jmpx)
		case 13:
			return longCond(Jmpr)
		case 14:
			return shortCond(Ret)
		case 15:
			return shortCond(Reti)
		default:
			return nil, invalidInstruction(opcode)
		}
	case 1: // ALU: shifts, logic, arithmetic, LDHI.
		switch col {
		case 1:
			return short(Sll), nil
		case 2:
			return short(Sra), nil
		case 3:
			return short(Srl), nil
		case 4:
			return long(Ldhi), nil
		case 5:
			return short(And), nil
		case 6:
			return short(Or), nil
		case 7:
			return short(Xor), nil
		case 8:
			return short(Add), nil
		case 9:
			return short(Addc), nil
		case 12:
			return short(Sub), nil
		case 13:
			return short(Subc), nil
		case 14:
			return short(Subi), nil
		case 15:
			return short(Subci), nil
		default:
			return nil, invalidInstruction(opcode)
		}
	case 2: // Loads.
		switch col {
		case 6:
			return short(Ldxw), nil
		case 7:
			return long(Ldrw), nil
		case 8:
			return short(Ldxhu), nil
		case 9:
			return long(Ldrhu), nil
		case 10:
			return short(Ldxhs), nil
		case 11:
			return long(Ldrhs), nil
		case 12:
			return short(Ldxbu), nil
		case 13:
			return long(Ldrbu), nil
		case 14:
			return short(Ldxbs), nil
		case 15:
			return long(Ldrbs), nil
		default:
			return nil, invalidInstruction(opcode)
		}
	default: // row == 3: stores.
		switch col {
		case 6:
			return short(Stxw), nil
		case 7:
			return long(Strw), nil
		case 10:
			return short(Stxh), nil
		case 11:
			return long(Strh), nil
		case 14:
			return short(Stxb), nil
		case 15:
			return long(Strb), nil
		default:
			return nil, invalidInstruction(opcode)
		}
	}
}
