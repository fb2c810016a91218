package psw

import "testing"

func TestNewIsZero(t *testing.T) {
	p := New()
	if p.CWP() != 0 || p.SWP() != 0 || p.U16() != 0 {
		t.Errorf("New() not zeroed: %+v", p)
	}
}

func TestBitRoundTrip(t *testing.T) {
	p := New()
	p.SetI(true)
	p.SetS(true)
	p.SetZ(true)
	p.SetC(true)
	if !p.I() || !p.S() || p.P() || !p.Z() || p.N() || p.V() || !p.C() {
		t.Errorf("bit round trip wrong: %+v", p)
	}
	p.SetI(false)
	if p.I() {
		t.Errorf("SetI(false) did not clear bit")
	}
}

func TestFromU16RoundTrip(t *testing.T) {
	p := New()
	p.SetCC(true, false, true, false)
	p.setCWP(5)
	p.setSWP(2)
	v := p.U16()
	p2 := FromU16(v)
	if p2.CWP() != 5 || p2.SWP() != 2 || !p2.Z() || !p2.V() || p2.N() || p2.C() {
		t.Errorf("FromU16 round trip mismatch got: %+v", p2)
	}
}

func TestFromU16MasksHighBits(t *testing.T) {
	p := FromU16(0xffff)
	if p.U16() != 0x1fff {
		t.Errorf("FromU16 got: %04x expected: %04x", p.U16(), 0x1fff)
	}
}

func TestPushNoCollision(t *testing.T) {
	p := New()
	p.setCWP(3)
	p.setSWP(1)
	if spill := p.Push(); spill {
		t.Errorf("Push unexpectedly signaled spill")
	}
	if p.CWP() != 2 {
		t.Errorf("Push CWP got: %d expected: 2", p.CWP())
	}
}

func TestPushCollisionSpills(t *testing.T) {
	p := New()
	p.setCWP(3)
	p.setSWP(2)
	if spill := p.Push(); !spill {
		t.Errorf("Push expected spill, got none")
	}
	if p.CWP() != 2 || p.SWP() != 3 {
		t.Errorf("Push got CWP=%d SWP=%d expected CWP=2 SWP=3", p.CWP(), p.SWP())
	}
}

func TestPushWrapsAtZero(t *testing.T) {
	p := New()
	p.setCWP(0)
	p.setSWP(1)
	p.Push()
	if p.CWP() != 7 {
		t.Errorf("Push wrap got CWP=%d expected 7", p.CWP())
	}
}

func TestPopCollisionFills(t *testing.T) {
	p := New()
	p.setCWP(3)
	p.setSWP(4)
	if fill := p.Pop(); !fill {
		t.Errorf("Pop expected fill, got none")
	}
	if p.CWP() != 4 || p.SWP() != 3 {
		t.Errorf("Pop got CWP=%d SWP=%d expected CWP=4 SWP=3", p.CWP(), p.SWP())
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	p := New()
	p.setCWP(5)
	p.setSWP(1)
	p.Push()
	p.Pop()
	if p.CWP() != 5 {
		t.Errorf("Push then Pop got CWP=%d expected 5 (SWP unaffected since no collision)", p.CWP())
	}
}
