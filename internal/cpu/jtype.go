package cpu

import (
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/state"
)

// executeJ handles J and JAL. Both compute the same target address; JAL
// additionally links $ra to the (already-advanced) return address. If a
// printf trampoline is configured and the computed target matches it, the
// jump is diagnosed through the hook instead of being taken (§9).
func (e *Engine) executeJ(s *state.State, d isa.Word) {
	target := (s.PC() & 0xF0000000) | (d.JAddr << 2)

	if e.PrintfTrampoline != nil && target == e.PrintfTrampoline.Target {
		e.runTrampoline(s)
		return
	}

	if d.Opcode == isa.OpJal {
		s.WriteRegister(isa.RegRA, int32(s.PC()))
	}

	s.SetPC(target)
}

// runTrampoline invokes the configured printf hook with the guest's format
// string ($a0) and first value argument ($a1), without actually jumping
// into guest code. Faults reading the format string are swallowed: when
// $a0 is Uninitialised or points at unreadable memory, the hook is not
// called at all. An Uninitialised $a1 is passed to the hook as 0.
func (e *Engine) runTrampoline(s *state.State) {
	a0, err := s.ReadRegister(isa.RegA0)
	if err != nil {
		return
	}
	a1, err := s.ReadRegister(isa.RegA1)
	if err != nil {
		a1 = 0
	}
	format, err := s.ReadMemString(uint32(a0))
	if err != nil {
		return
	}
	e.PrintfTrampoline.Hook(string(format), a1)
}
