package memory

/*
 * riscii - Byte-addressable main memory tests
 *
 * Copyright 2024, Richard Cornwell
 */

import (
	"errors"
	"testing"
)

func TestSize(t *testing.T) {
	m := New(1024)
	if r := m.Size(); r != 1024 {
		t.Errorf("Size not correct got: %d expected: %d", r, 1024)
	}
}

func TestByteRoundTrip(t *testing.T) {
	m := New(256)
	for i := range uint32(256) {
		if _, err := m.SetByte(i, uint8(i)); err != nil {
			t.Fatalf("SetByte(%d) error: %v", i, err)
		}
	}
	for i := range uint32(256) {
		r, err := m.GetByte(i)
		if err != nil {
			t.Fatalf("GetByte(%d) error: %v", i, err)
		}
		if r != uint8(i) {
			t.Errorf("GetByte(%d) got: %d expected: %d", i, r, uint8(i))
		}
	}
}

func TestHwordRoundTrip(t *testing.T) {
	m := New(64)
	for i := uint32(0); i < 64; i += 2 {
		v := uint16(0xbeef ^ i)
		if _, err := m.SetHword(i, v); err != nil {
			t.Fatalf("SetHword(%d) error: %v", i, err)
		}
		r, err := m.GetHword(i)
		if err != nil {
			t.Fatalf("GetHword(%d) error: %v", i, err)
		}
		if r != v {
			t.Errorf("GetHword(%d) got: %04x expected: %04x", i, r, v)
		}
	}
}

func TestHwordMisaligned(t *testing.T) {
	m := New(64)
	if _, err := m.GetHword(1); !isMisaligned(err) {
		t.Errorf("GetHword(1) expected Misaligned error, got %v", err)
	}
	if _, err := m.SetHword(3, 0); !isMisaligned(err) {
		t.Errorf("SetHword(3) expected Misaligned error, got %v", err)
	}
}

func TestWordRoundTrip(t *testing.T) {
	m := New(256)
	if _, err := m.SetWord(0x100-4, 0xdeadbeef); err != nil {
		t.Fatalf("SetWord error: %v", err)
	}
	r, err := m.GetWord(0x100 - 4)
	if err != nil {
		t.Fatalf("GetWord error: %v", err)
	}
	if r != 0xdeadbeef {
		t.Errorf("GetWord got: %08x expected: %08x", r, 0xdeadbeef)
	}
	// Big-endian on the wire.
	b, err := m.ReadBuf(0x100-4, 4)
	if err != nil {
		t.Fatalf("ReadBuf error: %v", err)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d got: %02x expected: %02x", i, b[i], want[i])
		}
	}
}

func TestWordMisaligned(t *testing.T) {
	m := New(64)
	if _, err := m.GetWord(2); !isMisaligned(err) {
		t.Errorf("GetWord(2) expected Misaligned error, got %v", err)
	}
	if _, err := m.SetWord(1, 0); !isMisaligned(err) {
		t.Errorf("SetWord(1) expected Misaligned error, got %v", err)
	}
}

func TestOutOfRange(t *testing.T) {
	m := New(16)
	if _, err := m.GetWord(16); !isOutOfRange(err) {
		t.Errorf("GetWord(16) expected OutOfRange error, got %v", err)
	}
	if _, err := m.GetWord(12); err != nil {
		t.Errorf("GetWord(12) unexpected error: %v", err)
	}
	if _, err := m.GetByte(16); !isOutOfRange(err) {
		t.Errorf("GetByte(16) expected OutOfRange error, got %v", err)
	}
}

func TestWriteBufReadBuf(t *testing.T) {
	m := New(32)
	buf := []byte{1, 2, 3, 4, 5}
	if err := m.WriteBuf(10, buf); err != nil {
		t.Fatalf("WriteBuf error: %v", err)
	}
	r, err := m.ReadBuf(10, 5)
	if err != nil {
		t.Fatalf("ReadBuf error: %v", err)
	}
	for i := range buf {
		if r[i] != buf[i] {
			t.Errorf("byte %d got: %d expected: %d", i, r[i], buf[i])
		}
	}
	if err := m.WriteBuf(30, buf); !isOutOfRange(err) {
		t.Errorf("WriteBuf past end expected OutOfRange error, got %v", err)
	}
}

func isMisaligned(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == Misaligned
}

func isOutOfRange(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == OutOfRange
}
