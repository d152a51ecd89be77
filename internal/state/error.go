/*
 * mips32 - Runtime error kinds.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package state

import "fmt"

// Kind enumerates the runtime error conditions the core can raise.
type Kind int

const (
	SegmentationFault Kind = iota
	UnalignedAccess
	UnknownInstruction
	IntegerOverflow
	DivisionByZero
	UninitialisedRead
	InvalidSyscall
)

// Access identifies what kind of memory access triggered a
// SegmentationFault.
type Access int

const (
	AccessRead Access = iota
	AccessWrite
	AccessExecute
)

func (a Access) String() string {
	switch a {
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "read"
	}
}

// Alignment identifies the required alignment for an UnalignedAccess.
type Alignment int

const (
	AlignHalf Alignment = iota
	AlignWord
)

func (a Alignment) String() string {
	if a == AlignWord {
		return "word"
	}
	return "half"
}

// Source identifies which architectural slot was read while
// Uninitialised.
type Source int

const (
	SourceRegister Source = iota
	SourceHi
	SourceLo
	SourceMemByte
	SourceMemHalf
	SourceMemWord
)

func (s Source) String() string {
	switch s {
	case SourceHi:
		return "hi"
	case SourceLo:
		return "lo"
	case SourceMemByte:
		return "memory byte"
	case SourceMemHalf:
		return "memory half"
	case SourceMemWord:
		return "memory word"
	default:
		return "register"
	}
}

// SyscallReason distinguishes a syscall number the core has never heard of
// from one it recognises but does not implement (floating point).
type SyscallReason int

const (
	SyscallUnknown SyscallReason = iota
	SyscallUnimplemented
)

// Error is the concrete runtime error type. Every field beyond Kind is
// meaningful only for the kinds that document it; the zero value of the
// others is left unset.
type Error struct {
	Kind      Kind
	Addr      uint32
	Access    Access
	Alignment Alignment
	Source    Source
	Syscall   int32
	Reason    SyscallReason
}

func (e *Error) Error() string {
	switch e.Kind {
	case SegmentationFault:
		return fmt.Sprintf("segmentation fault: %s access to 0x%08x", e.Access, e.Addr)
	case UnalignedAccess:
		return fmt.Sprintf("unaligned access: 0x%08x is not %s-aligned", e.Addr, e.Alignment)
	case UnknownInstruction:
		return fmt.Sprintf("unknown instruction at 0x%08x", e.Addr)
	case IntegerOverflow:
		return "integer overflow"
	case DivisionByZero:
		return "division by zero"
	case UninitialisedRead:
		return fmt.Sprintf("read of uninitialised %s", e.Source)
	case InvalidSyscall:
		if e.Reason == SyscallUnimplemented {
			return fmt.Sprintf("syscall %d is recognised but not implemented", e.Syscall)
		}
		return fmt.Sprintf("unknown syscall %d", e.Syscall)
	default:
		return "unknown runtime error"
	}
}

func segfault(addr uint32, access Access) *Error {
	return &Error{Kind: SegmentationFault, Addr: addr, Access: access}
}

func unaligned(addr uint32, alignment Alignment) *Error {
	return &Error{Kind: UnalignedAccess, Addr: addr, Alignment: alignment}
}

func uninitialised(source Source) *Error {
	return &Error{Kind: UninitialisedRead, Source: source}
}
