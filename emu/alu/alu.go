/*
 * riscii - Arithmetic Logic Unit
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

// Package alu implements the RISC II's combinational ALU: bitwise and
// add/sub(-with-carry) operations, each with a plain form and an SCC form
// that also reports the condition-code bits the operation would set.
package alu

// SCC carries the four condition-code bits an ALU operation would set if
// its instruction has SCC asserted.
type SCC struct {
	Z bool // Zero.
	N bool // Negative (result bit 31).
	V bool // Signed two's-complement overflow.
	C bool // Carry (add) or inverted borrow (subtract).
}

// ALU holds the two 32-bit input latches fed by the register file, the
// immediate path, or PC.
type ALU struct {
	Ai uint32
	Bi uint32
}

func sccBitwise(result uint32) SCC {
	return SCC{Z: result == 0, N: result&0x80000000 != 0}
}

// And returns Ai & Bi.
func (a ALU) And() uint32 { return a.Ai & a.Bi }

// AndSCC returns And's result and its condition codes (V=C=0 always).
func (a ALU) AndSCC() (uint32, SCC) {
	r := a.And()
	return r, sccBitwise(r)
}

// Or returns Ai | Bi.
func (a ALU) Or() uint32 { return a.Ai | a.Bi }

// OrSCC returns Or's result and its condition codes (V=C=0 always).
func (a ALU) OrSCC() (uint32, SCC) {
	r := a.Or()
	return r, sccBitwise(r)
}

// Xor returns Ai ^ Bi.
func (a ALU) Xor() uint32 { return a.Ai ^ a.Bi }

// XorSCC returns Xor's result and its condition codes (V=C=0 always).
func (a ALU) XorSCC() (uint32, SCC) {
	r := a.Xor()
	return r, sccBitwise(r)
}

// Add returns Ai + Bi.
func (a ALU) Add() uint32 { return a.Ai + a.Bi }

// AddSCC returns Add's result and its condition codes.
func (a ALU) AddSCC() (uint32, SCC) {
	result := a.Ai + a.Bi
	iresult := int32(a.Ai) + int32(a.Bi)
	carry := result < a.Ai
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: carry,
		V: addOverflow(int32(a.Ai), int32(a.Bi), iresult),
	}
}

// Addc returns Ai + Bi + carry.
func (a ALU) Addc(carry bool) uint32 {
	return a.Ai + a.Bi + b2u32(carry)
}

// AddcSCC returns Addc's result and its condition codes.
func (a ALU) AddcSCC(carry bool) (uint32, SCC) {
	c := b2u32(carry)
	result := a.Ai + a.Bi + c
	iresult := int32(a.Ai) + int32(a.Bi) + int32(c)
	carryOut := result < a.Ai || (c == 1 && result == a.Ai)
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: carryOut,
		V: addOverflow(int32(a.Ai), int32(a.Bi)+int32(c), iresult),
	}
}

// Sub returns Ai - Bi.
func (a ALU) Sub() uint32 { return a.Ai - a.Bi }

// SubSCC returns Sub's result and its condition codes. C is the inverted
// borrow: C=1 means no borrow occurred.
func (a ALU) SubSCC() (uint32, SCC) {
	result := a.Ai - a.Bi
	iresult := int32(a.Ai) - int32(a.Bi)
	borrow := a.Ai < a.Bi
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: !borrow,
		V: subOverflow(int32(a.Ai), int32(a.Bi), iresult),
	}
}

// Subc returns Ai - Bi + (carry extended as -1/0).
func (a ALU) Subc(carry bool) uint32 {
	return a.Ai - a.Bi + b2u32(carry) - 1
}

// SubcSCC returns Subc's result and its condition codes.
func (a ALU) SubcSCC(carry bool) (uint32, SCC) {
	c := int64(b2u32(carry)) - 1
	result := uint32(int64(a.Ai) - int64(a.Bi) + c)
	iresult := int32(a.Ai) - int32(a.Bi) + int32(c)
	borrow := int64(a.Ai)-int64(a.Bi)+c < 0
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: !borrow,
		V: subOverflow(int32(a.Ai), int32(a.Bi)-int32(c), iresult),
	}
}

// Subi returns Bi - Ai (the reverse of Sub).
func (a ALU) Subi() uint32 { return a.Bi - a.Ai }

// SubiSCC returns Subi's result and its condition codes.
func (a ALU) SubiSCC() (uint32, SCC) {
	result := a.Bi - a.Ai
	iresult := int32(a.Bi) - int32(a.Ai)
	borrow := a.Bi < a.Ai
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: !borrow,
		V: subOverflow(int32(a.Bi), int32(a.Ai), iresult),
	}
}

// Subci returns Bi - Ai + (carry extended as -1/0), the reverse of Subc.
func (a ALU) Subci(carry bool) uint32 {
	return a.Bi - a.Ai + b2u32(carry) - 1
}

// SubciSCC returns Subci's result and its condition codes.
func (a ALU) SubciSCC(carry bool) (uint32, SCC) {
	c := int64(b2u32(carry)) - 1
	result := uint32(int64(a.Bi) - int64(a.Ai) + c)
	iresult := int32(a.Bi) - int32(a.Ai) + int32(c)
	borrow := int64(a.Bi)-int64(a.Ai)+c < 0
	return result, SCC{
		Z: result == 0,
		N: iresult < 0,
		C: !borrow,
		V: subOverflow(int32(a.Bi), int32(a.Ai)-int32(c), iresult),
	}
}

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// addOverflow reports whether a signed 32-bit addition of x+y overflowed,
// given the wrapped result.
func addOverflow(x, y, result int32) bool {
	return (x >= 0 && y >= 0 && result < 0) || (x < 0 && y < 0 && result >= 0)
}

// subOverflow reports whether a signed 32-bit subtraction x-y overflowed,
// given the wrapped result.
func subOverflow(x, y, result int32) bool {
	return (x >= 0 && y < 0 && result < 0) || (x < 0 && y >= 0 && result >= 0)
}
