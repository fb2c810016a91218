/*
 * riscii - Barrel shifter
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

// Package shifter implements the RISC II's shifter: logical/arithmetic
// left and right shifts of a 32-bit input by a 5-bit shift amount, plus
// the byte-rotate used to align sub-word loads by BAR.
package shifter

// Shifter holds the input latch and the shift-amount latch (s_ham) fed
// by rs2 or the bottom bits of an immediate.
type Shifter struct {
	Src  uint32
	SHam uint8
}

// ShiftLeft performs a logical left shift of Src by SHam bits (SLL).
func (s Shifter) ShiftLeft() uint32 {
	return s.Src << (uint32(s.SHam) & 0x1f)
}

// ShiftRightLogical performs a logical (zero-filling) right shift of Src
// by SHam bits (SRL).
func (s Shifter) ShiftRightLogical() uint32 {
	return s.Src >> (uint32(s.SHam) & 0x1f)
}

// ShiftRightArithmetic performs a sign-extending right shift of Src by
// SHam bits (SRA).
func (s Shifter) ShiftRightArithmetic() uint32 {
	return uint32(int32(s.Src) >> (uint32(s.SHam) & 0x1f))
}

// AlignLoad rotates a memory-fetched word right by bar*8 bits (only the
// bottom two bits of bar are used). The caller picks bar so that the
// wanted byte or half-word of the big-endian word lands in the
// least-significant bits (see DataPath.LatchDataIn).
func AlignLoad(word uint32, bar uint8) uint32 {
	shift := (uint32(bar) & 3) * 8
	if shift == 0 {
		return word
	}
	return (word >> shift) | (word << (32 - shift))
}
