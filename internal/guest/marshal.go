package guest

import (
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/state"
)

const (
	sysPrintInt    = 1
	sysPrintFloat  = 2
	sysPrintDouble = 3
	sysPrintString = 4
	sysReadInt     = 5
	sysReadFloat   = 6
	sysReadDouble  = 7
	sysReadString  = 8
	sysSbrk        = 9
	sysExit        = 10
	sysPrintChar   = 11
	sysReadChar    = 12
	sysOpen        = 13
	sysRead        = 14
	sysWrite       = 15
	sysClose       = 16
	sysExitStatus  = 17
)

// Syscall reads the syscall number from $v0 and the arguments from
// $a0..$a2 and constructs the matching guard (§6.3). For SBRK it also
// updates the heap-size bookkeeping and writes the old heap top into $v0
// before returning the guard.
func Syscall(s *state.State) (Guard, error) {
	number, err := s.ReadRegister(isa.RegV0)
	if err != nil {
		return nil, err
	}

	switch number {
	case sysPrintInt:
		v, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		return PrintIntGuard{base: newBase(), Value: v}, nil

	case sysPrintFloat, sysPrintDouble, sysReadFloat, sysReadDouble:
		return nil, &state.Error{Kind: state.InvalidSyscall, Syscall: number, Reason: state.SyscallUnimplemented}

	case sysPrintString:
		addr, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		str, err := s.ReadMemString(uint32(addr))
		if err != nil {
			return nil, err
		}
		return PrintStringGuard{base: newBase(), Value: str}, nil

	case sysReadInt:
		return ReadIntGuard{base: newBase(), s: s}, nil

	case sysReadString:
		buf, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		maxLen, err := s.ReadRegister(isa.RegA1)
		if err != nil {
			return nil, err
		}
		return ReadStringGuard{base: newBase(), s: s, buf: uint32(buf), MaxLen: maxLen}, nil

	case sysSbrk:
		bytes, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		heapSize := s.HeapSize()
		s.WriteRegister(isa.RegV0, int32(s.Layout().DataBot+heapSize))

		switch {
		case bytes > 0:
			heapSize = saturatingAddU32(heapSize, uint32(bytes))
		case bytes < 0:
			heapSize = saturatingSubU32(heapSize, uint32(-int64(bytes)))
		}
		s.SetHeapSize(heapSize)
		return SbrkGuard{base: newBase(), Bytes: bytes}, nil

	case sysExit:
		return ExitGuard{base: newBase()}, nil

	case sysPrintChar:
		v, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		return PrintCharGuard{base: newBase(), Value: uint8(v)}, nil

	case sysReadChar:
		return ReadCharGuard{base: newBase(), s: s}, nil

	case sysOpen:
		pathAddr, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		path, err := s.ReadMemString(uint32(pathAddr))
		if err != nil {
			return nil, err
		}
		flags, err := s.ReadRegister(isa.RegA1)
		if err != nil {
			return nil, err
		}
		mode, err := s.ReadRegister(isa.RegA2)
		if err != nil {
			return nil, err
		}
		return OpenGuard{base: newBase(), s: s, Path: string(path), Flags: flags, Mode: mode}, nil

	case sysRead:
		fd, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		buf, err := s.ReadRegister(isa.RegA1)
		if err != nil {
			return nil, err
		}
		length, err := s.ReadRegister(isa.RegA2)
		if err != nil {
			return nil, err
		}
		return ReadGuard{base: newBase(), s: s, buf: uint32(buf), FD: fd, Len: length}, nil

	case sysWrite:
		fd, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		buf, err := s.ReadRegister(isa.RegA1)
		if err != nil {
			return nil, err
		}
		length, err := s.ReadRegister(isa.RegA2)
		if err != nil {
			return nil, err
		}
		payload, err := s.ReadMemBytes(uint32(buf), uint32(length))
		if err != nil {
			return nil, err
		}
		return WriteGuard{base: newBase(), s: s, FD: fd, Buf: payload}, nil

	case sysClose:
		fd, err := s.ReadRegister(isa.RegA0)
		if err != nil {
			return nil, err
		}
		return CloseGuard{base: newBase(), s: s, FD: fd}, nil

	case sysExitStatus:
		code, _ := s.ReadRegisterUninit(isa.RegA0).Get()
		return ExitStatusGuard{base: newBase(), Code: code}, nil

	default:
		return nil, &state.Error{Kind: state.InvalidSyscall, Syscall: number, Reason: state.SyscallUnknown}
	}
}

func saturatingAddU32(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(sum)
}

func saturatingSubU32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
