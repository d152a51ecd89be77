package safe

import "testing"

func TestValidIntoOption(t *testing.T) {
	s := Valid(42)
	v, ok := s.IntoOption()
	if !ok || v != 42 {
		t.Fatalf("IntoOption() = (%v, %v), want (42, true)", v, ok)
	}
}

func TestUninitialisedIntoOption(t *testing.T) {
	s := Uninitialised[int]()
	v, ok := s.IntoOption()
	if ok || v != 0 {
		t.Fatalf("IntoOption() = (%v, %v), want (0, false)", v, ok)
	}
}

func TestZeroValueIsUninitialised(t *testing.T) {
	var s Safe[int32]
	if s.IsValid() {
		t.Fatal("zero value of Safe[T] must be Uninitialised")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Valid(1), Valid(1)) {
		t.Fatal("Valid(1) should equal Valid(1)")
	}
	if Equal(Valid(1), Valid(2)) {
		t.Fatal("Valid(1) should not equal Valid(2)")
	}
	if !Equal(Uninitialised[int](), Uninitialised[int]()) {
		t.Fatal("Uninitialised should equal Uninitialised")
	}
	if Equal(Valid(0), Uninitialised[int]()) {
		t.Fatal("Valid(0) should not equal Uninitialised")
	}
}

func TestExtendSign8to32(t *testing.T) {
	got := ExtendSign8to32(Valid(uint8(0xFF)))
	v, ok := got.Get()
	if !ok || v != -1 {
		t.Fatalf("ExtendSign8to32(0xFF) = (%v,%v), want (-1,true)", v, ok)
	}

	u := ExtendSign8to32(Uninitialised[uint8]())
	if u.IsValid() {
		t.Fatal("ExtendSign8to32 of Uninitialised must stay Uninitialised")
	}
}

func TestExtendZero8to32(t *testing.T) {
	got := ExtendZero8to32(Valid(uint8(0xFF)))
	v, ok := got.Get()
	if !ok || v != 0xFF {
		t.Fatalf("ExtendZero8to32(0xFF) = (%v,%v), want (255,true)", v, ok)
	}
}

func TestTruncate32to8(t *testing.T) {
	got := Truncate32to8(Valid(uint32(0x1234)))
	v, ok := got.Get()
	if !ok || v != 0x34 {
		t.Fatalf("Truncate32to8(0x1234) = (%v,%v), want (0x34,true)", v, ok)
	}

	u := Truncate32to8(Uninitialised[uint32]())
	if u.IsValid() {
		t.Fatal("Truncate32to8 of Uninitialised must stay Uninitialised")
	}
}
