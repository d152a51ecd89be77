package cpu

import (
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/safe"
	"github.com/rcornwell/mips32/internal/state"
)

func (e *Engine) executeR(s *state.State, d isa.Word) (guest.Guard, error) {
	switch d.Opcode {
	case isa.OpSpecial:
		return e.executeSpecial(s, d)
	case isa.OpSpecial2:
		return nil, e.executeSpecial2(s, d)
	case isa.OpSpecial3:
		return nil, e.executeSpecial3(s, d)
	}
	return nil, &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
}

func (e *Engine) executeSpecial(s *state.State, d isa.Word) (guest.Guard, error) {
	switch d.Funct {
	case isa.FnSYSCALL:
		return guest.Syscall(s)
	case isa.FnBREAK:
		return guest.NewBreakpointGuard(), nil
	case isa.FnTGE:
		return e.trapIf(s, d, func(rs, rt int32) bool { return rs >= rt })
	case isa.FnTGEU:
		return e.trapIf(s, d, func(rs, rt int32) bool { return uint32(rs) >= uint32(rt) })
	case isa.FnTLT:
		return e.trapIf(s, d, func(rs, rt int32) bool { return rs < rt })
	case isa.FnTLTU:
		return e.trapIf(s, d, func(rs, rt int32) bool { return uint32(rs) < uint32(rt) })
	case isa.FnTEQ:
		return e.trapIf(s, d, func(rs, rt int32) bool { return rs == rt })
	case isa.FnTNE:
		return e.trapIf(s, d, func(rs, rt int32) bool { return rs != rt })
	}
	return nil, e.executeNonTrappingSpecial(s, d)
}

func (e *Engine) trapIf(s *state.State, d isa.Word, predicate func(rs, rt int32) bool) (guest.Guard, error) {
	rs, err := s.ReadRegister(d.RS)
	if err != nil {
		return nil, err
	}
	rt, err := s.ReadRegister(d.RT)
	if err != nil {
		return nil, err
	}
	if predicate(rs, rt) {
		return guest.NewTrapGuard(), nil
	}
	return nil, nil
}

func (e *Engine) executeNonTrappingSpecial(s *state.State, d isa.Word) error {
	switch d.Funct {
	case isa.FnSLL:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(uint32(rt)<<d.Shamt))

	case isa.FnSRL:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		switch d.RS {
		case 0x01:
			s.WriteRegister(d.RD, int32(rotr(uint32(rt), d.Shamt)))
		default:
			s.WriteRegister(d.RD, int32(uint32(rt)>>d.Shamt))
		}

	case isa.FnSRA:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, rt>>d.Shamt)

	case isa.FnSLLV:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		shift := uint32(rs) & 0x1F
		s.WriteRegister(d.RD, int32(uint32(rt)<<shift))

	case isa.FnSRLV:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		if d.Shamt == 0x01 {
			s.WriteRegister(d.RD, int32(rotr(uint32(rt), uint32(rs))))
		} else {
			shift := uint32(rs) & 0x1F
			s.WriteRegister(d.RD, int32(uint32(rt)>>shift))
		}

	case isa.FnSRAV:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		shift := uint32(rs) & 0x1F
		s.WriteRegister(d.RD, rt>>shift)

	case isa.FnJR:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		s.SetPC(uint32(rs))

	case isa.FnJALR:
		s.WriteRegister(d.RD, int32(s.PC()))
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		s.SetPC(uint32(rs))

	case isa.FnMOVZ:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		if rt == 0 {
			rs, err := s.ReadRegister(d.RS)
			if err != nil {
				return err
			}
			s.WriteRegister(d.RD, rs)
		}

	case isa.FnMOVN:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		if rt != 0 {
			rs, err := s.ReadRegister(d.RS)
			if err != nil {
				return err
			}
			s.WriteRegister(d.RD, rs)
		}

	case isa.FnMFHI:
		if d.Shamt == 0x01 {
			// CLZ $Rd, $Rs
			rs, err := s.ReadRegister(d.RS)
			if err != nil {
				return err
			}
			s.WriteRegister(d.RD, int32(leadingZeros32(uint32(rs))))
		} else {
			hi, err := s.ReadHI()
			if err != nil {
				return err
			}
			s.WriteRegister(d.RD, hi)
		}

	case isa.FnMTHI:
		if d.Shamt == 0x01 {
			// CLO $Rd, $Rs
			rs, err := s.ReadRegister(d.RS)
			if err != nil {
				return err
			}
			s.WriteRegister(d.RD, int32(leadingOnes32(uint32(rs))))
		} else {
			rs, err := s.ReadRegister(d.RS)
			if err != nil {
				return err
			}
			s.WriteHI(rs)
		}

	case isa.FnMFLO:
		lo, err := s.ReadLO()
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, lo)

	case isa.FnMTLO:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		s.WriteLO(rs)

	case isa.FnMULT:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		result := uint64(int64(rs) * int64(rt))
		s.WriteHI(int32(result >> 32))
		s.WriteLO(int32(result & 0xFFFFFFFF))

	case isa.FnMULTU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		result := uint64(uint32(rs)) * uint64(uint32(rt))
		s.WriteHI(int32(result >> 32))
		s.WriteLO(int32(result & 0xFFFFFFFF))

	case isa.FnDIV:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		if rt == 0 {
			return &state.Error{Kind: state.DivisionByZero}
		}
		s.WriteLO(rs / rt)
		s.WriteHI(rs % rt)

	case isa.FnDIVU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		if rt == 0 {
			return &state.Error{Kind: state.DivisionByZero}
		}
		urs, urt := uint32(rs), uint32(rt)
		s.WriteLO(int32(urs / urt))
		s.WriteHI(int32(urs % urt))

	case isa.FnADD:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		result, err := checkedAdd(rs, rt)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, result)

	case isa.FnADDU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(uint32(rs)+uint32(rt)))

	case isa.FnSUB:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		result, err := checkedSub(rs, rt)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, result)

	case isa.FnSUBU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(uint32(rs)-uint32(rt)))

	case isa.FnAND:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, rs&rt)

	case isa.FnOR:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, rs|rt)

	case isa.FnXOR:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, rs^rt)

	case isa.FnNOR:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, ^(rs | rt))

	case isa.FnSLT:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, boolToInt32(rs < rt))

	case isa.FnSLTU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, boolToInt32(uint32(rs) < uint32(rt)))

	default:
		// Unused SPECIAL functs are no-ops in the reference this engine
		// is grounded on; only the opcodes actually assigned a meaning
		// reach this far.
	}
	return nil
}

func (e *Engine) executeSpecial2(s *state.State, d isa.Word) error {
	switch d.Funct {
	case isa.Fn2MADD, isa.Fn2MADDU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		hi, err := s.ReadHI()
		if err != nil {
			return err
		}
		lo, err := s.ReadLO()
		if err != nil {
			return err
		}
		original := uint64(uint32(hi))<<32 | uint64(uint32(lo))
		var product uint64
		if d.Funct == isa.Fn2MADD {
			product = uint64(int64(rs) * int64(rt))
		} else {
			product = uint64(uint32(rs)) * uint64(uint32(rt))
		}
		result := original + product
		s.WriteHI(int32(result >> 32))
		s.WriteLO(int32(result & 0xFFFFFFFF))

	case isa.Fn2MUL:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(uint32(rs)*uint32(rt)))
		// MIPS ISA: HI and LO are UNPREDICTABLE after MUL.
		s.WriteHIUninit(safe.Uninitialised[int32]())
		s.WriteLOUninit(safe.Uninitialised[int32]())

	case isa.Fn2MSUB, isa.Fn2MSUBU:
		rs, err := s.ReadRegister(d.RS)
		if err != nil {
			return err
		}
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		hi, err := s.ReadHI()
		if err != nil {
			return err
		}
		lo, err := s.ReadLO()
		if err != nil {
			return err
		}
		original := uint64(uint32(hi))<<32 | uint64(uint32(lo))
		var product uint64
		if d.Funct == isa.Fn2MSUB {
			product = uint64(int64(rs) * int64(rt))
		} else {
			product = uint64(uint32(rs)) * uint64(uint32(rt))
		}
		// Unchecked u64 subtraction: negative HI:LO results wrap,
		// matching the reference this is ported from.
		result := original - product
		s.WriteHI(int32(result >> 32))
		s.WriteLO(int32(result & 0xFFFFFFFF))

	default:
		return &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
	}
	return nil
}

func (e *Engine) executeSpecial3(s *state.State, d isa.Word) error {
	if d.Funct != isa.Fn3BSHFL {
		return &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
	}
	switch d.Shamt {
	case isa.ShWSBH:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		v := uint32(rt)
		lower := swapBytes16(uint16(v))
		upper := swapBytes16(uint16(v >> 16))
		s.WriteRegister(d.RD, int32(uint32(lower)|uint32(upper)<<16))

	case isa.ShSEB:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(int8(uint8(rt))))

	case isa.ShSEH:
		rt, err := s.ReadRegister(d.RT)
		if err != nil {
			return err
		}
		s.WriteRegister(d.RD, int32(int16(uint16(rt))))

	default:
		return &state.Error{Kind: state.UnknownInstruction, Addr: s.PC()}
	}
	return nil
}

func rotr(v uint32, n uint32) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}

func swapBytes16(v uint16) uint16 {
	return (v >> 8) | (v << 8)
}

func leadingZeros32(v uint32) int {
	n := 0
	for i := 31; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

func leadingOnes32(v uint32) int {
	return leadingZeros32(^v)
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
