/*
 * riscii - Register file
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

// Package registerfile implements the RISC II register file: ten global
// registers plus an eight-window stack of sixteen registers each,
// addressed through the current window pointer.
package registerfile

// Dimensions of the register file, per the RISC II architecture.
const (
	NumGlobals         = 10
	NumWindows         = 8
	NumLocals          = 10
	NumSharedNext      = 6
	NumAddedPerWindow  = NumLocals + NumSharedNext // 16
	NumWindowRegisters = NumWindows * NumAddedPerWindow
	NumRegisters       = NumGlobals + NumWindowRegisters // 138

	// DumpSize is the byte size of a Dump: NXTPC, PC, LSTPC plus every
	// register, each a big-endian 32-bit word.
	DumpSize = (3 + NumRegisters) * 4
)

// RegisterFile is the flat storage backing both the ten global registers
// and the eight-window register stack.
type RegisterFile struct {
	globals [NumGlobals]uint32
	window  [NumWindowRegisters]uint32
}

// New returns a zeroed register file.
func New() *RegisterFile {
	return &RegisterFile{}
}

// Read returns the value of logical register addr (0..31) in window
// cwp. Register 0 always reads as zero.
func (r *RegisterFile) Read(addr uint8, cwp uint8) uint32 {
	addr &= 0x1f
	if addr == 0 {
		return 0
	}
	if addr < NumGlobals {
		return r.globals[addr]
	}
	return r.window[windowIndex(addr, cwp)]
}

// Write stores value into logical register addr (0..31) in window cwp.
// Writes to register 0 are silently discarded.
func (r *RegisterFile) Write(addr uint8, cwp uint8, value uint32) {
	addr &= 0x1f
	if addr == 0 {
		return
	}
	if addr < NumGlobals {
		r.globals[addr] = value
		return
	}
	r.window[windowIndex(addr, cwp)] = value
}

// windowIndex maps logical addresses 10..31 onto the 16-register block
// each window physically owns (its "outs" 10..15 and "locals" 16..25).
// The "ins" 26..31 of window cwp are not separately stored: they alias
// the "outs" of the caller's window, one level shallower (CWP+1 mod 8),
// which is how arguments pass from caller to callee across a CALL.
func windowIndex(addr uint8, cwp uint8) uint32 {
	if addr >= 26 {
		cwp = (cwp + 1) % NumWindows
		addr -= 16
	}
	return uint32(NumAddedPerWindow)*uint32(cwp%NumWindows) + uint32(addr) - NumGlobals
}

// WindowRegisters returns a copy of the 16 physical registers (outs and
// locals, logical addresses 10..25) backing window cwp. The sequencer
// uses this to spill a window to memory when a CALL's Push collides
// with SWP.
func (r *RegisterFile) WindowRegisters(cwp uint8) [NumAddedPerWindow]uint32 {
	var out [NumAddedPerWindow]uint32
	base := uint32(NumAddedPerWindow) * uint32(cwp%NumWindows)
	copy(out[:], r.window[base:base+NumAddedPerWindow])
	return out
}

// SetWindowRegisters overwrites the 16 physical registers backing window
// cwp from buf. The sequencer uses this to fill a window from memory
// when a RET's Pop collides with SWP.
func (r *RegisterFile) SetWindowRegisters(cwp uint8, buf [NumAddedPerWindow]uint32) {
	base := uint32(NumAddedPerWindow) * uint32(cwp%NumWindows)
	copy(r.window[base:base+NumAddedPerWindow], buf[:])
}

// Dump serializes nxtpc, pc, lstpc, the globals, and the window stack as
// big-endian 32-bit words, in that order, for checkpointing. r0 is
// written as zero regardless of stored contents.
func (r *RegisterFile) Dump(nxtpc, pc, lstpc uint32) []byte {
	buf := make([]byte, 0, DumpSize)
	buf = appendWord(buf, nxtpc)
	buf = appendWord(buf, pc)
	buf = appendWord(buf, lstpc)
	g0 := r.globals[0]
	r.globals[0] = 0
	for _, v := range r.globals {
		buf = appendWord(buf, v)
	}
	r.globals[0] = g0
	for _, v := range r.window {
		buf = appendWord(buf, v)
	}
	return buf
}

// Load restores nxtpc, pc, lstpc and the register contents from a buffer
// produced by Dump. It returns an error if buf is not exactly DumpSize
// bytes.
func (r *RegisterFile) Load(buf []byte) (nxtpc, pc, lstpc uint32, err error) {
	if len(buf) != DumpSize {
		return 0, 0, 0, errDumpSize{len(buf)}
	}
	nxtpc = readWord(buf[0:4])
	pc = readWord(buf[4:8])
	lstpc = readWord(buf[8:12])
	off := 12
	for i := range r.globals {
		r.globals[i] = readWord(buf[off : off+4])
		off += 4
	}
	r.globals[0] = 0
	for i := range r.window {
		r.window[i] = readWord(buf[off : off+4])
		off += 4
	}
	return nxtpc, pc, lstpc, nil
}

type errDumpSize struct{ n int }

func (e errDumpSize) Error() string {
	return "registerfile: load buffer has wrong size"
}

func appendWord(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readWord(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
