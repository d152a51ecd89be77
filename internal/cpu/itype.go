package cpu

import (
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/state"
)

// executeI handles every non-R, non-J opcode: REGIMM (branches and
// immediate traps keyed on rt), the conditional branches, immediate
// arithmetic/logic, and loads/stores.
func (e *Engine) executeI(s *state.State, d isa.Word) (guest.Guard, error) {
	if d.Opcode == isa.OpRegimm {
		return e.executeRegimm(s, d)
	}

	switch d.Opcode {
	case isa.OpBEQ:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return nil, err
		}
		if rs == rt {
			s.Branch(d.Imm)
		}

	case isa.OpBNE:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return nil, err
		}
		if rs != rt {
			s.Branch(d.Imm)
		}

	case isa.OpBLEZ:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		if rs <= 0 {
			s.Branch(d.Imm)
		}

	case isa.OpBGTZ:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		if rs > 0 {
			s.Branch(d.Imm)
		}

	case isa.OpADDI:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		result, err := checkedAdd(rs, d.SignExtendImm())
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, result)

	case isa.OpADDIU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(uint32(rs)+uint32(d.SignExtendImm())))

	case isa.OpSLTI:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, boolToInt32(rs < d.SignExtendImm()))

	case isa.OpSLTIU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, boolToInt32(uint32(rs) < uint32(d.SignExtendImm())))

	case isa.OpANDI:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(uint32(rs)&d.ZeroExtendImm()))

	case isa.OpORI:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(uint32(rs)|d.ZeroExtendImm()))

	case isa.OpXORI:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(uint32(rs)^d.ZeroExtendImm()))

	case isa.OpLUI:
		s.WriteRegister(d.RT, int32(d.ZeroExtendImm()<<16))

	case isa.OpLB:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		v, err := s.ReadMemByte(addr)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(int8(v)))

	case isa.OpLBU:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		v, err := s.ReadMemByte(addr)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(v))

	case isa.OpLH:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		v, err := s.ReadMemHalf(addr)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(int16(v)))

	case isa.OpLHU:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		v, err := s.ReadMemHalf(addr)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(v))

	case isa.OpLW:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		v, err := s.ReadMemWord(addr)
		if err != nil {
			return nil, err
		}
		s.WriteRegister(d.RT, int32(v))

	case isa.OpSB:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return nil, err
		}
		if err := s.WriteMemByte(addr, uint8(rt)); err != nil {
			return nil, err
		}

	case isa.OpSH:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return nil, err
		}
		if err := s.WriteMemHalf(addr, uint16(rt)); err != nil {
			return nil, err
		}

	case isa.OpSW:
		addr, err := effectiveAddr(s, d)
		if err != nil {
			return nil, err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return nil, err
		}
		if err := s.WriteMemWord(addr, uint32(rt)); err != nil {
			return nil, err
		}

	case isa.OpLWL, isa.OpLWR, isa.OpSWL, isa.OpLWC1, isa.OpSWC1:
		// Unaligned-load halves and the single-precision coprocessor
		// loads/stores are not implemented; they decode cleanly but
		// fail at execute time.
		return nil, &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}

	default:
		return nil, &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
	}
	return nil, nil
}

// effectiveAddr computes rs + sign-extend(imm), the address every load and
// store uses.
func effectiveAddr(s *state.State, d isa.Word) (uint32, error) {
	rs, err := s.ReadRegister(d.RS)
	if err != nil {
		return 0, err
	}
	return uint32(rs + d.SignExtendImm()), nil
}

// executeRegimm handles opcode 1: the rt field selects one of the
// zero-compare branches, the link-and-branch forms, or an immediate trap.
func (e *Engine) executeRegimm(s *state.State, d isa.Word) (guest.Guard, error) {
	rs, err := s.ReadRegister(d.RS)
	if err != nil {
		return nil, err
	}

	switch d.RT {
	case isa.RtBLTZ:
		if rs < 0 {
			s.Branch(d.Imm)
		}
	case isa.RtBGEZ:
		if rs >= 0 {
			s.Branch(d.Imm)
		}
	case isa.RtBLTZAL:
		s.WriteRegister(isa.RegRA, int32(s.PC()))
		if rs < 0 {
			s.Branch(d.Imm)
		}
	case isa.RtBGEZAL:
		s.WriteRegister(isa.RegRA, int32(s.PC()))
		if rs >= 0 {
			s.Branch(d.Imm)
		}
	case isa.RtTGEI:
		if rs >= d.SignExtendImm() {
			return guest.NewTrapGuard(), nil
		}
	case isa.RtTGEIU:
		if uint32(rs) >= uint32(d.SignExtendImm()) {
			return guest.NewTrapGuard(), nil
		}
	case isa.RtTLTI:
		if rs < d.SignExtendImm() {
			return guest.NewTrapGuard(), nil
		}
	case isa.RtTLTIU:
		if uint32(rs) < uint32(d.SignExtendImm()) {
			return guest.NewTrapGuard(), nil
		}
	case isa.RtTEQI:
		if rs == d.SignExtendImm() {
			return guest.NewTrapGuard(), nil
		}
	case isa.RtTNEI:
		if rs != d.SignExtendImm() {
			return guest.NewTrapGuard(), nil
		}
	default:
		return nil, &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
	}
	return nil, nil
}
