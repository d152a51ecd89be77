package guest

import (
	"testing"

	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/state"
)

func newTestState() *state.State {
	return state.New(state.Binary{}, layout.Default())
}

func TestPrintIntGuard(t *testing.T) {
	s := newTestState()
	s.WriteRegister(isa.RegV0, 1)
	s.WriteRegister(isa.RegA0, 42)

	g, err := Syscall(s)
	if err != nil {
		t.Fatal(err)
	}
	pg, ok := g.(PrintIntGuard)
	if !ok || pg.Value != 42 {
		t.Fatalf("got %#v, want PrintIntGuard{Value: 42}", g)
	}
}

func TestReadIntGuardResumeWritesV0(t *testing.T) {
	s := newTestState()
	s.WriteRegister(isa.RegV0, 5)

	g, err := Syscall(s)
	if err != nil {
		t.Fatal(err)
	}
	rg, ok := g.(ReadIntGuard)
	if !ok {
		t.Fatalf("got %#v, want ReadIntGuard", g)
	}
	rg.Resume(42)

	v, err := s.ReadRegister(isa.RegV0)
	if err != nil || v != 42 {
		t.Fatalf("$v0 after resume = (%v,%v), want (42,nil)", v, err)
	}
}

func TestSbrkSaturatesDownToZero(t *testing.T) {
	s := newTestState()
	s.SetHeapSize(10)
	s.WriteRegister(isa.RegV0, 9)
	s.WriteRegister(isa.RegA0, -100)

	if _, err := Syscall(s); err != nil {
		t.Fatal(err)
	}
	if s.HeapSize() != 0 {
		t.Fatalf("HeapSize() = %d, want 0 (saturated)", s.HeapSize())
	}
}

func TestExitStatusDefaultsToZeroWhenUninitialised(t *testing.T) {
	s := newTestState()
	s.WriteRegister(isa.RegV0, 17)

	g, err := Syscall(s)
	if err != nil {
		t.Fatal(err)
	}
	eg, ok := g.(ExitStatusGuard)
	if !ok || eg.Code != 0 {
		t.Fatalf("got %#v, want ExitStatusGuard{Code: 0}", g)
	}
}

func TestUnknownSyscallFails(t *testing.T) {
	s := newTestState()
	s.WriteRegister(isa.RegV0, 999)

	_, err := Syscall(s)
	if err == nil {
		t.Fatal("expected error for unknown syscall")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.InvalidSyscall || rerr.Reason != state.SyscallUnknown {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnimplementedSyscallFails(t *testing.T) {
	s := newTestState()
	s.WriteRegister(isa.RegV0, 2)

	_, err := Syscall(s)
	if err == nil {
		t.Fatal("expected error for unimplemented syscall")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.InvalidSyscall || rerr.Reason != state.SyscallUnimplemented {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadStringResumeTruncatesAndNULTerminates(t *testing.T) {
	s := newTestState()
	buf := s.Layout().Stack.Bot
	s.WriteRegister(isa.RegV0, 8)
	s.WriteRegister(isa.RegA0, int32(buf))
	s.WriteRegister(isa.RegA1, 4)

	g, err := Syscall(s)
	if err != nil {
		t.Fatal(err)
	}
	rg := g.(ReadStringGuard)
	rg.Resume([]byte("hello"))

	for i, want := range []byte{'h', 'e', 'l', 0} {
		b, err := s.ReadMemByte(buf + uint32(i))
		if err != nil || b != want {
			t.Fatalf("byte %d = (%v,%v), want %v", i, b, err, want)
		}
	}
}
