package cpu

import (
	"testing"

	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/state"
)

func newTestState() *state.State {
	return state.New(state.Binary{}, layout.Default())
}

// encodeR packs an R-type word: opcode, rs, rt, rd, shamt, funct.
func encodeR(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

// encodeI packs an I-type (and REGIMM) word: opcode, rs, rt, imm.
func encodeI(opcode, rs, rt uint32, imm int16) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | uint32(uint16(imm))
}

// encodeJ packs a J-type word: opcode, target (full byte address).
func encodeJ(opcode, target uint32) uint32 {
	return opcode<<26 | (target>>2)&0x03FFFFFF
}

func TestAddiuThenSwThenLwRoundTrip(t *testing.T) {
	s := newTestState()
	e := New()

	base := s.Layout().Stack.Bot

	// LUI $t0, base>>16 ; ORI $t0, $t0, base&0xFFFF
	if _, err := e.Execute(s, encodeI(isa.OpLUI, 0, 8, int16(base>>16))); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Execute(s, encodeI(isa.OpORI, 8, 8, int16(uint16(base&0xFFFF)))); err != nil {
		t.Fatal(err)
	}
	// ADDIU $t1, $zero, 1234
	if _, err := e.Execute(s, encodeI(isa.OpADDIU, isa.RegZero, 9, 1234)); err != nil {
		t.Fatal(err)
	}
	// SW $t1, 0($t0)
	if _, err := e.Execute(s, encodeI(isa.OpSW, 8, 9, 0)); err != nil {
		t.Fatal(err)
	}
	// LW $t2, 0($t0)
	if _, err := e.Execute(s, encodeI(isa.OpLW, 8, 10, 0)); err != nil {
		t.Fatal(err)
	}

	v, err := s.ReadRegister(10)
	if err != nil || v != 1234 {
		t.Fatalf("$t2 = (%v,%v), want (1234,nil)", v, err)
	}
}

func TestAddSignedOverflowTraps(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 0x7FFFFFFF)
	s.WriteRegister(9, 1)

	// ADD $t2, $t0, $t1
	_, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 10, 0, isa.FnADD))
	if err == nil {
		t.Fatal("expected overflow error")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.IntegerOverflow {
		t.Fatalf("got %v, want IntegerOverflow", rerr.Kind)
	}
}

func TestAdduWraps(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 0x7FFFFFFF)
	s.WriteRegister(9, 1)

	if _, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 10, 0, isa.FnADDU)); err != nil {
		t.Fatal(err)
	}
	v, _ := s.ReadRegister(10)
	if v != int32(0x80000000) {
		t.Fatalf("$t2 = %#x, want 0x80000000", uint32(v))
	}
}

func TestDivByZeroFails(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 10)
	s.WriteRegister(9, 0)

	_, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 0, 0, isa.FnDIV))
	if err == nil {
		t.Fatal("expected division by zero error")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.DivisionByZero {
		t.Fatalf("got %v, want DivisionByZero", rerr.Kind)
	}
}

func TestTeqTrapsWhenEqual(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 5)
	s.WriteRegister(9, 5)

	g, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 0, 0, isa.FnTEQ))
	if err != nil {
		t.Fatal(err)
	}
	if g == nil {
		t.Fatal("expected a TrapGuard")
	}
}

func TestMulClobbersHiLo(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 3)
	s.WriteRegister(9, 4)
	s.WriteHI(99)
	s.WriteLO(99)

	// MUL $t2, $t0, $t1 (SPECIAL2)
	if _, err := e.Execute(s, encodeR(isa.OpSpecial2, 8, 9, 10, 0, isa.Fn2MUL)); err != nil {
		t.Fatal(err)
	}
	v, err := s.ReadRegister(10)
	if err != nil || v != 12 {
		t.Fatalf("$t2 = (%v,%v), want (12,nil)", v, err)
	}
	if _, err := s.ReadHI(); err == nil {
		t.Fatal("expected HI to be Uninitialised after MUL")
	}
	if _, err := s.ReadLO(); err == nil {
		t.Fatal("expected LO to be Uninitialised after MUL")
	}
}

func TestCLZShamtDispatch(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(8, 0x0000000F)

	// CLZ $t2, $t0: SPECIAL funct MFHI (0x10) with shamt=1.
	_, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 0, 10, 1, isa.FnMFHI))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := s.ReadRegister(10)
	if v != 28 {
		t.Fatalf("CLZ(0xF) = %d, want 28", v)
	}
}

func TestBeqBranchesOnEqualRegisters(t *testing.T) {
	s := newTestState()
	e := New()

	start := s.PC()
	s.WriteRegister(8, 7)
	s.WriteRegister(9, 7)
	s.StepPC()

	if _, err := e.Execute(s, encodeI(isa.OpBEQ, 8, 9, 2)); err != nil {
		t.Fatal(err)
	}
	if s.PC() != start+4+8 {
		t.Fatalf("PC = %#x, want %#x", s.PC(), start+4+8)
	}
}

func TestJalLinksReturnAddressAndJumps(t *testing.T) {
	s := newTestState()
	e := New()

	s.StepPC()
	target := s.Layout().Text.Start + 0x100

	if _, err := e.Execute(s, encodeJ(isa.OpJal, target)); err != nil {
		t.Fatal(err)
	}
	ra, err := s.ReadRegister(isa.RegRA)
	if err != nil || uint32(ra) != s.Layout().Text.Start+4 {
		t.Fatalf("$ra = (%v,%v)", ra, err)
	}
	if s.PC() != target {
		t.Fatalf("PC = %#x, want %#x", s.PC(), target)
	}
}

func TestPrintfTrampolineInterceptsJump(t *testing.T) {
	s := newTestState()
	e := New()

	target := s.Layout().Text.Start + 0x200
	var gotFormat string
	var gotValue int32
	e.PrintfTrampoline = &Trampoline{
		Target: target,
		Hook: func(format string, value int32) {
			gotFormat = format
			gotValue = value
		},
	}

	fmtAddr := s.Layout().Stack.Bot
	msg := []byte("n=%d\n")
	for i, b := range msg {
		if err := s.WriteMemByte(fmtAddr+uint32(i), b); err != nil {
			t.Fatal(err)
		}
	}
	s.WriteRegister(isa.RegA0, int32(fmtAddr))
	s.WriteRegister(isa.RegA1, 42)

	pcBefore := s.PC()
	if _, err := e.Execute(s, encodeJ(isa.OpJ, target)); err != nil {
		t.Fatal(err)
	}
	if s.PC() != pcBefore {
		t.Fatalf("PC moved to %#x, trampoline should have intercepted the jump", s.PC())
	}
	if gotFormat != "n=%d\n" || gotValue != 42 {
		t.Fatalf("hook got (%q,%d), want (\"n=%%d\\n\",42)", gotFormat, gotValue)
	}
}

func TestSllvMasksShiftCountToLow5Bits(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(9, 0x0000FFFF)
	s.WriteRegister(8, 32) // rs = 32 -> masked shift count is 0

	// SLLV $t2, $t1, $t0
	if _, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 10, 0, isa.FnSLLV)); err != nil {
		t.Fatal(err)
	}
	v, _ := s.ReadRegister(10)
	if v != 0x0000FFFF {
		t.Fatalf("SLLV by rs=32 = %#x, want %#x (shift by 0)", uint32(v), uint32(0x0000FFFF))
	}
}

func TestSrlvMasksShiftCountToLow5Bits(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(9, int32(0x80000000))
	s.WriteRegister(8, 33) // rs = 33 -> masked shift count is 1

	// SRLV $t2, $t1, $t0
	if _, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 10, 0, isa.FnSRLV)); err != nil {
		t.Fatal(err)
	}
	v, _ := s.ReadRegister(10)
	if uint32(v) != 0x40000000 {
		t.Fatalf("SRLV by rs=33 = %#x, want 0x40000000 (shift by 1)", uint32(v))
	}
}

func TestSravMasksShiftCountToLow5Bits(t *testing.T) {
	s := newTestState()
	e := New()

	s.WriteRegister(9, int32(0x80000000))
	s.WriteRegister(8, 32) // rs = 32 -> masked shift count is 0

	// SRAV $t2, $t1, $t0
	if _, err := e.Execute(s, encodeR(isa.OpSpecial, 8, 9, 10, 0, isa.FnSRAV)); err != nil {
		t.Fatal(err)
	}
	v, _ := s.ReadRegister(10)
	if uint32(v) != 0x80000000 {
		t.Fatalf("SRAV by rs=32 = %#x, want 0x80000000 (shift by 0)", uint32(v))
	}
}

func TestJalWithTrampolineTargetLeavesRAUntouched(t *testing.T) {
	s := newTestState()
	e := New()

	target := s.Layout().Text.Start + 0x200
	e.PrintfTrampoline = &Trampoline{
		Target: target,
		Hook:   func(string, int32) {},
	}

	fmtAddr := s.Layout().Stack.Bot
	if err := s.WriteMemByte(fmtAddr, 0); err != nil {
		t.Fatal(err)
	}
	s.WriteRegister(isa.RegA0, int32(fmtAddr))

	if _, err := e.Execute(s, encodeJ(isa.OpJal, target)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReadRegister(isa.RegRA); err == nil {
		t.Fatal("$ra should still be Uninitialised: the trampoline intercepts before JAL links")
	}
}

func TestUnknownSpecial2FunctFails(t *testing.T) {
	s := newTestState()
	e := New()

	_, err := e.Execute(s, encodeR(isa.OpSpecial2, 0, 0, 0, 0, 0x3F))
	if err == nil {
		t.Fatal("expected UnknownInstruction")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.UnknownInstruction {
		t.Fatalf("got %v, want UnknownInstruction", rerr.Kind)
	}
}

func TestLwlDecodesButFailsAtExecute(t *testing.T) {
	s := newTestState()
	e := New()

	_, err := e.Execute(s, encodeI(isa.OpLWL, 0, 8, 0))
	if err == nil {
		t.Fatal("expected UnknownInstruction")
	}
	rerr := err.(*state.Error)
	if rerr.Kind != state.UnknownInstruction {
		t.Fatalf("got %v, want UnknownInstruction", rerr.Kind)
	}
}
