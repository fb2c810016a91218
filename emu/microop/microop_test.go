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

package microop

import (
	"testing"

	"github.com/rcornwell/riscii/emu/instruction"
	"github.com/rcornwell/riscii/emu/psw"
)

func TestWidthTable(t *testing.T) {
	cases := []struct {
		op     instruction.Op
		width  int
		signed bool
	}{
		{instruction.Ldxw, 4, false},
		{instruction.Strw, 4, false},
		{instruction.Ldrhu, 2, false},
		{instruction.Ldxhs, 2, true},
		{instruction.Stxb, 1, false},
		{instruction.Ldrbs, 1, true},
	}
	for _, c := range cases {
		w, s := Width(c.op)
		if w != c.width || s != c.signed {
			t.Errorf("Width(%v) = (%d, %v), want (%d, %v)", c.op, w, s, c.width, c.signed)
		}
	}
}

func TestWidthPanicsOnNonMemoryOp(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Width(Add) did not panic")
		}
	}()
	Width(instruction.Add)
}

func TestConditionalEqNe(t *testing.T) {
	p := psw.New()
	p.SetZ(true)
	if !TestConditional(instruction.Eq, p) {
		t.Errorf("EQ with Z=1 should hold")
	}
	if TestConditional(instruction.Ne, p) {
		t.Errorf("NE with Z=1 should not hold")
	}
}

func TestConditionalGtLe(t *testing.T) {
	p := psw.New() // Z=0, N=0, V=0: N==V, so GT holds, LE does not.
	if !TestConditional(instruction.Gt, p) {
		t.Errorf("GT should hold when Z=0 and N==V")
	}
	if TestConditional(instruction.Le, p) {
		t.Errorf("LE should not hold when Z=0 and N==V")
	}
}

func TestConditionalAlwaysHolds(t *testing.T) {
	p := psw.New()
	if !TestConditional(instruction.Alw, p) {
		t.Errorf("ALW must always hold")
	}
}

func TestConditionalHiLos(t *testing.T) {
	p := psw.New()
	p.SetC(true)
	if !TestConditional(instruction.Hi, p) {
		t.Errorf("HI should hold when C=1, Z=0")
	}
	if TestConditional(instruction.Los, p) {
		t.Errorf("LOS should not hold when C=1, Z=0")
	}
}

func TestSignExtend13Positive(t *testing.T) {
	if got := SignExtend13(0x0fff); got != 0x0fff {
		t.Errorf("SignExtend13(0x0fff) = 0x%x, want 0x0fff", got)
	}
}

func TestSignExtend13Negative(t *testing.T) {
	if got := SignExtend13(0x1fff); got != 0xffffffff {
		t.Errorf("SignExtend13(0x1fff) = 0x%x, want 0xffffffff", got)
	}
}

func TestSignExtend19Negative(t *testing.T) {
	if got := SignExtend19(0x7ffff); got != 0xffffffff {
		t.Errorf("SignExtend19(0x7ffff) = 0x%x, want 0xffffffff", got)
	}
}

func TestSignExtend19Positive(t *testing.T) {
	if got := SignExtend19(0x3ffff); got != 0x3ffff {
		t.Errorf("SignExtend19(0x3ffff) = 0x%x, want 0x3ffff", got)
	}
}
