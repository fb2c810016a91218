/*
 * riscii - Byte-addressable main memory
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

// Package memory implements the RISC II core's byte-addressable main
// store: aligned half-word and word access, big-endian on the wire
// regardless of host byte order.
package memory

import "fmt"

// Kind distinguishes the ways a memory access can fail.
type Kind int

const (
	// OutOfRange means the address (or the last byte of a multi-byte
	// access) lies outside the configured memory size.
	OutOfRange Kind = iota
	// Misaligned means a half-word or word access did not fall on its
	// required boundary.
	Misaligned
)

// Error reports a failed memory access.
type Error struct {
	Kind  Kind
	Addr  uint32
	Width int
}

func (e *Error) Error() string {
	switch e.Kind {
	case Misaligned:
		return fmt.Sprintf("memory: misaligned access at 0x%08x (width %d)", e.Addr, e.Width)
	default:
		return fmt.Sprintf("memory: out of range access at 0x%08x (width %d)", e.Addr, e.Width)
	}
}

// Memory is the CPU's main store: a flat byte array created at system
// construction and held for the life of the emulator.
type Memory struct {
	mem []byte
}

// New creates size bytes of zeroed memory.
func New(size uint32) *Memory {
	return &Memory{mem: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.mem))
}

func (m *Memory) checkRange(addr uint32, width uint32) error {
	size := uint32(len(m.mem))
	if addr >= size || addr+width > size {
		return &Error{Kind: OutOfRange, Addr: addr, Width: int(width)}
	}
	return nil
}

// GetByte reads one byte at addr.
func (m *Memory) GetByte(addr uint32) (uint8, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.mem[addr], nil
}

// SetByte writes one byte at addr and returns the value written.
func (m *Memory) SetByte(addr uint32, v uint8) (uint8, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	m.mem[addr] = v
	return v, nil
}

// GetHword reads a big-endian half-word. addr must be 2-byte aligned.
func (m *Memory) GetHword(addr uint32) (uint16, error) {
	if addr&1 != 0 {
		return 0, &Error{Kind: Misaligned, Addr: addr, Width: 2}
	}
	if err := m.checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.mem[addr])<<8 | uint16(m.mem[addr+1]), nil
}

// SetHword writes a big-endian half-word and returns the value written.
// addr must be 2-byte aligned.
func (m *Memory) SetHword(addr uint32, v uint16) (uint16, error) {
	if addr&1 != 0 {
		return 0, &Error{Kind: Misaligned, Addr: addr, Width: 2}
	}
	if err := m.checkRange(addr, 2); err != nil {
		return 0, err
	}
	m.mem[addr] = byte(v >> 8)
	m.mem[addr+1] = byte(v)
	return v, nil
}

// GetWord reads a big-endian word. addr must be 4-byte aligned.
func (m *Memory) GetWord(addr uint32) (uint32, error) {
	if addr&3 != 0 {
		return 0, &Error{Kind: Misaligned, Addr: addr, Width: 4}
	}
	if err := m.checkRange(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.mem[addr])<<24 | uint32(m.mem[addr+1])<<16 |
		uint32(m.mem[addr+2])<<8 | uint32(m.mem[addr+3]), nil
}

// SetWord writes a big-endian word and returns the value written. addr
// must be 4-byte aligned.
func (m *Memory) SetWord(addr uint32, v uint32) (uint32, error) {
	if addr&3 != 0 {
		return 0, &Error{Kind: Misaligned, Addr: addr, Width: 4}
	}
	if err := m.checkRange(addr, 4); err != nil {
		return 0, err
	}
	m.mem[addr] = byte(v >> 24)
	m.mem[addr+1] = byte(v >> 16)
	m.mem[addr+2] = byte(v >> 8)
	m.mem[addr+3] = byte(v)
	return v, nil
}

// WriteBuf copies buf into memory starting at addr, with no alignment
// requirement (used for loading program images and flushing register
// windows).
func (m *Memory) WriteBuf(addr uint32, buf []byte) error {
	if err := m.checkRange(addr, uint32(len(buf))); err != nil {
		return err
	}
	copy(m.mem[addr:], buf)
	return nil
}

// ReadBuf copies n bytes starting at addr out of memory.
func (m *Memory) ReadBuf(addr uint32, n uint32) ([]byte, error) {
	if err := m.checkRange(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.mem[addr:addr+n])
	return out, nil
}
