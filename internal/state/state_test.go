package state

import (
	"testing"

	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/safe"
)

func newTestState() *State {
	l := layout.Default()
	return New(Binary{}, l)
}

func TestRegisterZeroAlwaysValidZero(t *testing.T) {
	s := newTestState()
	v, err := s.ReadRegister(0)
	if err != nil || v != 0 {
		t.Fatalf("ReadRegister(0) = (%v,%v), want (0,nil)", v, err)
	}
	s.WriteRegister(0, 99)
	v, err = s.ReadRegister(0)
	if err != nil || v != 0 {
		t.Fatalf("write to register 0 must be a no-op, got (%v,%v)", v, err)
	}
}

func TestReadUninitialisedRegisterFails(t *testing.T) {
	s := newTestState()
	_, err := s.ReadRegister(8)
	if err == nil {
		t.Fatal("expected Uninitialised error reading never-written register")
	}
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != UninitialisedRead || rerr.Source != SourceRegister {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteThenReadRegister(t *testing.T) {
	s := newTestState()
	s.WriteRegister(8, 1234)
	v, err := s.ReadRegister(8)
	if err != nil || v != 1234 {
		t.Fatalf("ReadRegister(8) = (%v,%v), want (1234,nil)", v, err)
	}
}

func TestTextSegmentRejectsWrites(t *testing.T) {
	l := layout.Default()
	s := New(Binary{}, l)
	err := s.WriteMemByte(l.Text.Start, 0xAA)
	if err == nil {
		t.Fatal("expected write to Text to fail")
	}
	rerr := err.(*Error)
	if rerr.Kind != SegmentationFault || rerr.Access != AccessWrite {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoneSegmentFaultsOnReadAndWrite(t *testing.T) {
	s := newTestState()
	if _, err := s.ReadMemByte(0); err == nil {
		t.Fatal("expected segfault reading address 0 (None segment)")
	}
	if err := s.WriteMemByte(0, 1); err == nil {
		t.Fatal("expected segfault writing address 0 (None segment)")
	}
}

func TestWordRoundTrip(t *testing.T) {
	s := newTestState()
	addr := s.layout.Stack.Bot
	if err := s.WriteMemWord(addr, 0x1234); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadMemWord(addr)
	if err != nil || got != 0x1234 {
		t.Fatalf("ReadMemWord = (%v,%v), want (0x1234,nil)", got, err)
	}
}

func TestByteRoundTripSignExtends(t *testing.T) {
	s := newTestState()
	addr := s.layout.Stack.Bot
	if err := s.WriteMemByte(addr, 0xFF); err != nil {
		t.Fatal(err)
	}
	b, err := s.ReadMemByteUninit(addr)
	if err != nil {
		t.Fatal(err)
	}
	signed := safe.ExtendSign8to32(b)
	v, ok := signed.Get()
	if !ok || v != -1 {
		t.Fatalf("sign-extended byte = (%v,%v), want (-1,true)", v, ok)
	}
}

func TestUnalignedHalfAccess(t *testing.T) {
	s := newTestState()
	addr := s.layout.Stack.Bot + 1
	_, err := s.ReadMemHalf(addr)
	if err == nil {
		t.Fatal("expected UnalignedAccess for odd half address")
	}
	rerr := err.(*Error)
	if rerr.Kind != UnalignedAccess || rerr.Alignment != AlignHalf {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnalignedWordAccess(t *testing.T) {
	s := newTestState()
	addr := s.layout.Stack.Bot + 2
	_, err := s.ReadMemWord(addr)
	if err == nil {
		t.Fatal("expected UnalignedAccess for misaligned word address")
	}
	rerr := err.(*Error)
	if rerr.Kind != UnalignedAccess || rerr.Alignment != AlignWord {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBranchAddsScaledSignedOffset(t *testing.T) {
	s := newTestState()
	s.SetPC(0x1000)
	s.Branch(-1)
	if s.PC() != 0x1000-4 {
		t.Fatalf("PC after Branch(-1) = 0x%x, want 0x%x", s.PC(), uint32(0x1000-4))
	}
}

func TestNewLoadsTextVerbatimAndDataSkipsHoles(t *testing.T) {
	l := layout.Default()
	bin := Binary{
		Text: []safe.Safe[uint8]{safe.Valid[uint8](0x01), safe.Uninitialised[uint8](), safe.Valid[uint8](0x03)},
		Data: []safe.Safe[uint8]{safe.Valid[uint8](0xAA), safe.Uninitialised[uint8](), safe.Valid[uint8](0xCC)},
	}
	s := New(bin, l)

	if v, ok := s.mem[l.Text.Start+1]; ok && v.IsValid() {
		t.Fatal("text hole must remain unmapped")
	}
	b, err := s.ReadMemByteUninit(l.Text.Start + 1)
	if err != nil {
		t.Fatal(err)
	}
	if b.IsValid() {
		t.Fatal("expected Uninitialised at the text hole")
	}

	db, err := s.ReadMemByteUninit(l.DataBot + 1)
	if err != nil {
		t.Fatal(err)
	}
	if db.IsValid() {
		t.Fatal("expected data hole to remain unmapped")
	}
	db2, err := s.ReadMemByteUninit(l.DataBot + 2)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := db2.Get(); !ok || v != 0xCC {
		t.Fatalf("expected valid data byte 0xCC, got (%v,%v)", v, ok)
	}
}

func TestNewSetsStackAndGlobalPointers(t *testing.T) {
	l := layout.Default()
	s := New(Binary{}, l)
	sp, err := s.ReadRegister(29)
	if err != nil || uint32(sp) != l.InitialSP() {
		t.Fatalf("$sp = (%v,%v), want (0x%x,nil)", sp, err, l.InitialSP())
	}
	gp, err := s.ReadRegister(28)
	if err != nil || uint32(gp) != l.InitialGP() {
		t.Fatalf("$gp = (%v,%v), want (0x%x,nil)", gp, err, l.InitialGP())
	}
}
