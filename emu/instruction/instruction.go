/*
 * riscii - Instruction encoding
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

// Package instruction implements the RISC II instruction set: the
// 32-bit short/long/conditional encodings and their decode/encode pair.
package instruction

import "fmt"

// Op names every opcode the decoder recognizes.
type Op uint8

const (
	Calli Op = iota
	GetPSW
	GetLPC
	PutPSW
	Callx
	Callr
	Jmpx
	Jmpr
	Ret
	Reti
	Sll
	Sra
	Srl
	Ldhi
	And
	Or
	Xor
	Add
	Addc
	Sub
	Subc
	Subi
	Subci
	Ldxw
	Ldrw
	Ldxhu
	Ldrhu
	Ldxhs
	Ldrhs
	Ldxbu
	Ldrbu
	Ldxbs
	Ldrbs
	Stxw
	Strw
	Stxh
	Strh
	Stxb
	Strb
)

var opNames = map[Op]string{
	Calli: "CALLI", GetPSW: "GETPSW", GetLPC: "GETLPC", PutPSW: "PUTPSW",
	Callx: "CALLX", Callr: "CALLR", Jmpx: "JMPX", Jmpr: "JMPR", Ret: "RET",
	Reti: "RETI", Sll: "SLL", Sra: "SRA", Srl: "SRL", Ldhi: "LDHI",
	And: "AND", Or: "OR", Xor: "XOR", Add: "ADD", Addc: "ADDC", Sub: "SUB",
	Subc: "SUBC", Subi: "SUBI", Subci: "SUBCI", Ldxw: "LDXW", Ldrw: "LDRW",
	Ldxhu: "LDXHU", Ldrhu: "LDRHU", Ldxhs: "LDXHS", Ldrhs: "LDRHS",
	Ldxbu: "LDXBU", Ldrbu: "LDRBU", Ldxbs: "LDXBS", Ldrbs: "LDRBS",
	Stxw: "STXW", Strw: "STRW", Stxh: "STXH", Strh: "STRH", Stxb: "STXB",
	Strb: "STRB",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Conditional is one of the RISC II's 15 branch/skip condition codes,
// tested against PSW Z/N/V/C.
type Conditional uint8

const (
	Gt Conditional = iota + 1
	Le
	Ge
	Lt
	Hi
	Los
	Lonc
	Hisc
	Pl
	Mi
	Ne
	Eq
	Nv
	V
	Alw
)

var conditionalNames = map[Conditional]string{
	Gt: "GT", Le: "LE", Ge: "GE", Lt: "LT", Hi: "HI", Los: "LOS",
	Lonc: "LONC", Hisc: "HISC", Pl: "PL", Mi: "MI", Ne: "NE", Eq: "EQ",
	Nv: "NV", V: "V", Alw: "ALW",
}

func (c Conditional) String() string {
	if s, ok := conditionalNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Conditional(%d)", uint8(c))
}

// SourceKind distinguishes the two forms a short-source field can take.
type SourceKind uint8

const (
	SourceReg SourceKind = iota
	SourceImm13
)

// ShortSource is the short-format instruction's second source operand:
// either a register name or an unsigned 13-bit immediate. Sign extension
// (where an op calls for it) is applied by the datapath, not here.
type ShortSource struct {
	Kind  SourceKind
	Reg   uint8
	Imm13 uint32
}

func (s ShortSource) String() string {
	if s.Kind == SourceImm13 {
		return fmt.Sprintf("imm13(0x%x)", s.Imm13)
	}
	return fmt.Sprintf("r%d", s.Reg)
}

// Short is the short-source instruction format: arithmetic/logic ops,
// CALLI/CALLX/GETPSW/GETLPC/PUTPSW, and register-indexed loads/stores.
type Short struct {
	Op     Op
	SCC    bool
	Dest   uint8
	RS1    uint8
	Source ShortSource
}

func (Short) isInstruction() {}

// Long is the long-immediate instruction format: CALLR, LDHI, and
// PC-relative loads/stores.
type Long struct {
	Op    Op
	SCC   bool
	Dest  uint8
	Imm19 uint32
}

func (Long) isInstruction() {}

// ShortConditional is the short-source conditional format: JMPX, RET,
// RETI. Its "dest" field is instead a 4-bit condition code.
type ShortConditional struct {
	Op     Op
	SCC    bool
	Cond   Conditional
	RS1    uint8
	Source ShortSource
}

func (ShortConditional) isInstruction() {}

// LongConditional is the long-immediate conditional format: JMPR.
type LongConditional struct {
	Op    Op
	SCC   bool
	Cond  Conditional
	Imm19 uint32
}

func (LongConditional) isInstruction() {}

// Instruction is satisfied by exactly the four format structs above.
type Instruction interface {
	isInstruction()
}
