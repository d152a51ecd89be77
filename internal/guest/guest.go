/*
 * mips32 - Syscall marshaller and guard protocol.
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

// Package guest converts a SYSCALL instruction into a typed guard that
// hands control to the host. Guards that need host-supplied data carry a
// pending resume step instead of a closure; guards that are
// self-contained (prints, sbrk, exit, breakpoint, trap) just carry their
// decoded arguments. Every guard is tagged with a uuid so a host
// correlating many in-flight resumes (an interactive debugger, a fuzzer
// driving several guests) can match a resume call back to the guard that
// produced it.
package guest

import (
	"github.com/google/uuid"

	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/state"
)

// Kind identifies which syscall (or trap/breakpoint) produced a guard.
type Kind int

const (
	PrintInt Kind = iota
	PrintString
	PrintChar
	ReadInt
	ReadString
	ReadChar
	Sbrk
	Exit
	ExitStatus
	Open
	Read
	Write
	Close
	Breakpoint
	Trap
)

// Guard is the common interface every syscall/trap/breakpoint guard
// satisfies. Concrete guard types add their own typed fields and, for the
// kinds that need host-supplied data, a typed Resume method.
type Guard interface {
	Kind() Kind
	ID() uuid.UUID
}

type base struct {
	id uuid.UUID
}

func newBase() base { return base{id: uuid.New()} }

func (b base) ID() uuid.UUID { return b.id }

// PrintIntGuard carries the value for syscall 1.
type PrintIntGuard struct {
	base
	Value int32
}

func (PrintIntGuard) Kind() Kind { return PrintInt }

// PrintStringGuard carries the NUL-terminated string for syscall 4.
type PrintStringGuard struct {
	base
	Value []byte
}

func (PrintStringGuard) Kind() Kind { return PrintString }

// PrintCharGuard carries the byte for syscall 11.
type PrintCharGuard struct {
	base
	Value uint8
}

func (PrintCharGuard) Kind() Kind { return PrintChar }

// SbrkGuard carries the requested delta for syscall 9. The heap size
// bookkeeping and the old-top value written to $v0 have already happened
// by the time this guard is produced.
type SbrkGuard struct {
	base
	Bytes int32
}

func (SbrkGuard) Kind() Kind { return Sbrk }

// ExitGuard signals syscall 10.
type ExitGuard struct{ base }

func (ExitGuard) Kind() Kind { return Exit }

// ExitStatusGuard carries the exit code for syscall 17; Code is 0 if $a0
// was Uninitialised, per the explicit policy in the syscall ABI.
type ExitStatusGuard struct {
	base
	Code int32
}

func (ExitStatusGuard) Kind() Kind { return ExitStatus }

// BreakpointGuard signals a BREAK instruction.
type BreakpointGuard struct{ base }

func (BreakpointGuard) Kind() Kind { return Breakpoint }

// NewBreakpointGuard returns a BreakpointGuard tagged with a fresh uuid.
func NewBreakpointGuard() BreakpointGuard { return BreakpointGuard{base: newBase()} }

// TrapGuard signals a trap instruction (TGE/TGEU/TLT/TLTU/TEQ/TNE or their
// immediate forms) whose predicate held.
type TrapGuard struct{ base }

func (TrapGuard) Kind() Kind { return Trap }

// NewTrapGuard returns a TrapGuard tagged with a fresh uuid.
func NewTrapGuard() TrapGuard { return TrapGuard{base: newBase()} }

// ReadIntGuard requests an int32 from the host for syscall 5.
type ReadIntGuard struct {
	base
	s *state.State
}

func (ReadIntGuard) Kind() Kind { return ReadInt }

// Resume writes value into $v0, completing syscall 5.
func (g ReadIntGuard) Resume(value int32) {
	g.s.WriteRegister(isa.RegV0, value)
}

// ReadCharGuard requests a byte from the host for syscall 12.
type ReadCharGuard struct {
	base
	s *state.State
}

func (ReadCharGuard) Kind() Kind { return ReadChar }

// Resume writes value into $v0, completing syscall 12.
func (g ReadCharGuard) Resume(value uint8) {
	g.s.WriteRegister(isa.RegV0, int32(value))
}

// ReadStringGuard requests up to MaxLen-1 bytes of input for syscall 8.
type ReadStringGuard struct {
	base
	s      *state.State
	buf    uint32
	MaxLen int32
}

func (ReadStringGuard) Kind() Kind { return ReadString }

// Resume stores at most MaxLen-1 bytes of input followed by a NUL into
// the guest buffer. If MaxLen==0 nothing is written. Per-byte write
// failures (the guest supplied a buffer that doesn't fit) are swallowed:
// a partial write is permissible.
func (g ReadStringGuard) Resume(input []byte) {
	if g.MaxLen <= 0 {
		return
	}
	maxBytes := int(g.MaxLen) - 1
	if len(input) > maxBytes {
		input = input[:maxBytes]
	}
	for i, b := range input {
		_ = g.s.WriteMemByte(g.buf+uint32(i), b)
	}
	_ = g.s.WriteMemByte(g.buf+uint32(len(input)), 0)
}

// OpenGuard requests a file descriptor from the host for syscall 13.
type OpenGuard struct {
	base
	s     *state.State
	Path  string
	Flags int32
	Mode  int32
}

func (OpenGuard) Kind() Kind { return Open }

// Resume writes the opened (or negative, on failure) fd into $v0.
func (g OpenGuard) Resume(fd int32) {
	g.s.WriteRegister(isa.RegV0, fd)
}

// ReadGuard requests up to Len bytes read from FD for syscall 14.
type ReadGuard struct {
	base
	s   *state.State
	buf uint32
	FD  int32
	Len int32
}

func (ReadGuard) Kind() Kind { return Read }

// Resume writes min(Len, len(data)) bytes into the guest buffer and
// places n into $v0. Segmentation faults during writeback are swallowed.
func (g ReadGuard) Resume(n int32, data []byte) {
	limit := int(g.Len)
	if len(data) < limit {
		limit = len(data)
	}
	for i := 0; i < limit; i++ {
		_ = g.s.WriteMemByte(g.buf+uint32(i), data[i])
	}
	g.s.WriteRegister(isa.RegV0, n)
}

// WriteGuard carries the bytes already read from the guest buffer for
// syscall 15; Buf holds the payload, not an address.
type WriteGuard struct {
	base
	s   *state.State
	FD  int32
	Buf []byte
}

func (WriteGuard) Kind() Kind { return Write }

// Resume writes the number of bytes actually written into $v0.
func (g WriteGuard) Resume(written int32) {
	g.s.WriteRegister(isa.RegV0, written)
}

// CloseGuard requests a close of FD for syscall 16.
type CloseGuard struct {
	base
	s  *state.State
	FD int32
}

func (CloseGuard) Kind() Kind { return Close }

// Resume writes the close status into $v0.
func (g CloseGuard) Resume(status int32) {
	g.s.WriteRegister(isa.RegV0, status)
}
