/*
 * riscii - Processor Status Word
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

// Package psw implements the RISC II's packed 13-bit Processor Status
// Word and the window-pointer push/pop that drives register-window
// spill and fill.
package psw

// Bit layout of the 13-bit PSW, stored in a 16-bit cell. Bits above 12
// are always zero.
const (
	cwpShift = 10
	cwpMask  = 0x7
	swpShift = 7
	swpMask  = 0x7
	iBit     = 1 << 6
	sBit     = 1 << 5
	pBit     = 1 << 4
	zBit     = 1 << 3
	nBit     = 1 << 2
	vBit     = 1 << 1
	cBit     = 1 << 0
)

const numWindows = 8

// PSW is the packed 13-bit status cell. Push and Pop report a spill or
// fill as their return value; nothing about it is stored here.
type PSW struct {
	cell uint16
}

// New returns a zeroed PSW: CWP=0, SWP=0, all mode and condition bits
// clear.
func New() PSW {
	return PSW{}
}

// FromU16 reconstructs a PSW from its packed 16-bit form, as read back
// from a GETPSW/PUTPSW transfer or a saved window register.
func FromU16(v uint16) PSW {
	return PSW{cell: v & 0x1fff}
}

// U16 returns the packed 16-bit form (bits above 12 are zero).
func (p PSW) U16() uint16 { return p.cell }

// CWP returns the current window pointer, 0..7.
func (p PSW) CWP() uint8 { return uint8((p.cell >> cwpShift) & cwpMask) }

// SWP returns the saved window pointer, 0..7.
func (p PSW) SWP() uint8 { return uint8((p.cell >> swpShift) & swpMask) }

func (p *PSW) setCWP(v uint8) {
	p.cell = (p.cell &^ (cwpMask << cwpShift)) | (uint16(v&cwpMask) << cwpShift)
}

func (p *PSW) setSWP(v uint8) {
	p.cell = (p.cell &^ (swpMask << swpShift)) | (uint16(v&swpMask) << swpShift)
}

// I reports the interrupt-enable bit.
func (p PSW) I() bool { return p.cell&iBit != 0 }

// SetI sets or clears the interrupt-enable bit.
func (p *PSW) SetI(v bool) { p.setBit(iBit, v) }

// S reports the system-mode bit.
func (p PSW) S() bool { return p.cell&sBit != 0 }

// SetS sets or clears the system-mode bit.
func (p *PSW) SetS(v bool) { p.setBit(sBit, v) }

// P reports the previous-system-mode bit.
func (p PSW) P() bool { return p.cell&pBit != 0 }

// SetP sets or clears the previous-system-mode bit.
func (p *PSW) SetP(v bool) { p.setBit(pBit, v) }

// Z reports the zero condition code.
func (p PSW) Z() bool { return p.cell&zBit != 0 }

// SetZ sets or clears the zero condition code.
func (p *PSW) SetZ(v bool) { p.setBit(zBit, v) }

// N reports the negative condition code.
func (p PSW) N() bool { return p.cell&nBit != 0 }

// SetN sets or clears the negative condition code.
func (p *PSW) SetN(v bool) { p.setBit(nBit, v) }

// V reports the overflow condition code.
func (p PSW) V() bool { return p.cell&vBit != 0 }

// SetV sets or clears the overflow condition code.
func (p *PSW) SetV(v bool) { p.setBit(vBit, v) }

// C reports the carry condition code.
func (p PSW) C() bool { return p.cell&cBit != 0 }

// SetC sets or clears the carry condition code.
func (p *PSW) SetC(v bool) { p.setBit(cBit, v) }

func (p *PSW) setBit(bit uint16, v bool) {
	if v {
		p.cell |= bit
	} else {
		p.cell &^= bit
	}
}

// SetCC sets all four condition codes at once, as produced by an SCC ALU
// operation.
func (p *PSW) SetCC(z, n, v, c bool) {
	p.SetZ(z)
	p.SetN(n)
	p.SetV(v)
	p.SetC(c)
}

// Push advances the window stack on a CALL: CWP decrements mod 8. If the
// new CWP collides with SWP, the displaced window must be spilled to
// memory by the caller, and SWP advances to absorb the collision.
// Push reports whether a spill is required.
func (p *PSW) Push() (spill bool) {
	cwp := (p.CWP() + numWindows - 1) % numWindows
	p.setCWP(cwp)
	if cwp == p.SWP() {
		p.setSWP((p.SWP() + 1) % numWindows)
		return true
	}
	return false
}

// Pop reverses Push on a RET: CWP increments mod 8. If the new CWP
// collides with SWP, the caller must fill the window from memory, and
// SWP retreats to absorb the collision. Pop reports whether a fill is
// required.
func (p *PSW) Pop() (fill bool) {
	cwp := (p.CWP() + 1) % numWindows
	p.setCWP(cwp)
	if cwp == p.SWP() {
		p.setSWP((p.SWP() + numWindows - 1) % numWindows)
		return true
	}
	return false
}
