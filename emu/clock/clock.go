/*
 * riscii - Four-phase clock
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

// Package clock models the RISC II's four-phase non-overlapping clock.
// The sequencer advances through Phase One..Four once per instruction
// cycle; Clock itself only counts phase-One ticks and, when a non-zero
// rate is configured, paces them to wall-clock seconds so a host loop
// doesn't spin a modern CPU at full speed emulating a 1980s one.
package clock

import (
	"fmt"
	"time"
)

// Phase names one of the RISC II's four pipeline phases, plus the
// interrupt phase taken in place of phase One when an interrupt is
// pending.
type Phase int

const (
	// One: the register file is read and routed to the shifter and ALU.
	One Phase = iota + 1
	// Two: the immediate value is routed through the shifter; the
	// previous instruction's destination register is decoded.
	Two
	// Three: the ALU computes its result and the previous instruction's
	// result is written to its destination register.
	Three
	// Four: source and destination registers are decoded for the next
	// instruction; load instructions use the shifter to align data.
	Four
	// Interrupt is a one-cycle bubble taken instead of phase One.
	Interrupt
)

func (p Phase) String() string {
	switch p {
	case One:
		return "phase1"
	case Two:
		return "phase2"
	case Three:
		return "phase3"
	case Four:
		return "phase4"
	case Interrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Clock counts instruction cycles and, when Rate is non-zero, paces
// phase-One ticks so Rate cycles take roughly one wall-clock second.
// A zero Rate runs unpaced, which is what tests and batch execution
// want.
type Clock struct {
	Rate     uint64
	count    uint64
	lastTime time.Time
}

// New returns a Clock paced to rate cycles per second. A rate of 0
// disables pacing entirely.
func New(rate uint64) *Clock {
	return &Clock{Rate: rate, lastTime: time.Now()}
}

// Tick advances the cycle counter on phase One; other phases are a
// no-op. It never blocks.
func (c *Clock) Tick(phase Phase) {
	if phase == One {
		c.count++
	}
}

// TickAndWait behaves like Tick, but once Rate phase-One ticks have
// elapsed since the last pacing checkpoint it sleeps out the remainder
// of that wall-clock second.
func (c *Clock) TickAndWait(phase Phase) {
	if phase != One {
		return
	}
	c.count++
	if c.Rate != 0 && c.count%c.Rate == 0 {
		c.idle()
	}
}

// Count reports the number of phase-One ticks seen so far.
func (c *Clock) Count() uint64 {
	return c.count
}

func (c *Clock) idle() {
	const second = time.Second
	now := time.Now()
	elapsed := now.Sub(c.lastTime)
	if elapsed < second {
		time.Sleep(second - elapsed)
	}
	c.lastTime = time.Now()
}

func (c *Clock) String() string {
	return fmt.Sprintf("clock: rate=%d count=%d", c.Rate, c.count)
}
