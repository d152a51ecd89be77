/*
 * mips32 - Architectural state.
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

// Package state holds the architectural state of a MIPS32 guest: the
// general-purpose register file, HI/LO, the program counter, and segmented
// memory, each tracked at Safe[T] granularity so reads of never-written
// storage fail loudly instead of reading zero.
package state

import (
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/safe"
	"github.com/rcornwell/mips32/internal/segment"
)

// State is the full architectural state for one guest. It is always owned
// by exactly one *runtime.Runtime at a time; nothing outside that owner
// holds a mutable alias across a step boundary.
type State struct {
	registers [32]safe.Safe[int32]
	hi        safe.Safe[int32]
	lo        safe.Safe[int32]
	pc        uint32
	heapSize  uint32
	layout    layout.Layout
	mem       map[uint32]safe.Safe[uint8]
}

// New builds the initial state for binary loaded against l: text is
// copied verbatim (holes preserved) starting at l.Text.Start; data copies
// only Valid bytes starting at l.DataBot. $sp and $fp start at
// l.InitialSP(); $gp starts at l.InitialGP().
func New(binary Binary, l layout.Layout) *State {
	s := &State{
		layout: l,
		mem:    make(map[uint32]safe.Safe[uint8], len(binary.Text)+len(binary.Data)),
	}

	for i, b := range binary.Text {
		if v, ok := b.Get(); ok {
			s.mem[l.Text.Start+uint32(i)] = safe.Valid(v)
		}
	}
	for i, b := range binary.Data {
		if v, ok := b.Get(); ok {
			s.mem[l.DataBot+uint32(i)] = safe.Valid(v)
		}
	}

	s.pc = l.Text.Start
	s.WriteRegister(isa.RegSP, int32(l.InitialSP()))
	s.WriteRegister(isa.RegFP, int32(l.InitialFP()))
	s.WriteRegister(isa.RegGP, int32(l.InitialGP()))
	return s
}

// Layout returns the memory layout descriptor this state was built from.
func (s *State) Layout() layout.Layout {
	return s.layout
}

// Classify classifies addr against this state's layout.
func (s *State) Classify(addr uint32) segment.Kind {
	return segment.Classify(s.layout, addr)
}

// ReadRegister reads register i, failing Uninitialised when the slot has
// never been written. Register 0 always succeeds with 0.
func (s *State) ReadRegister(i uint32) (int32, error) {
	if i == isa.RegZero {
		return 0, nil
	}
	v, ok := s.registers[i].Get()
	if !ok {
		return 0, uninitialised(SourceRegister)
	}
	return v, nil
}

// ReadRegisterUninit returns the raw tagged value of register i,
// infallibly. Register 0 always reads Valid(0).
func (s *State) ReadRegisterUninit(i uint32) safe.Safe[int32] {
	if i == isa.RegZero {
		return safe.Valid[int32](0)
	}
	return s.registers[i]
}

// WriteRegister writes v to register i. Writes to register 0 are silently
// dropped.
func (s *State) WriteRegister(i uint32, v int32) {
	if i == isa.RegZero {
		return
	}
	s.registers[i] = safe.Valid(v)
}

// WriteRegisterUninit writes a raw tagged value to register i. Writes to
// register 0 are silently dropped, so register 0 can never become
// Uninitialised through this path either.
func (s *State) WriteRegisterUninit(i uint32, v safe.Safe[int32]) {
	if i == isa.RegZero {
		return
	}
	s.registers[i] = v
}

// ReadHI reads HI, failing Uninitialised if it has never been written.
func (s *State) ReadHI() (int32, error) {
	v, ok := s.hi.Get()
	if !ok {
		return 0, uninitialised(SourceHi)
	}
	return v, nil
}

// WriteHI writes v to HI.
func (s *State) WriteHI(v int32) { s.hi = safe.Valid(v) }

// WriteHIUninit marks HI Uninitialised (or sets a raw tagged value).
func (s *State) WriteHIUninit(v safe.Safe[int32]) { s.hi = v }

// ReadLO reads LO, failing Uninitialised if it has never been written.
func (s *State) ReadLO() (int32, error) {
	v, ok := s.lo.Get()
	if !ok {
		return 0, uninitialised(SourceLo)
	}
	return v, nil
}

// WriteLO writes v to LO.
func (s *State) WriteLO(v int32) { s.lo = safe.Valid(v) }

// WriteLOUninit marks LO Uninitialised (or sets a raw tagged value).
func (s *State) WriteLOUninit(v safe.Safe[int32]) { s.lo = v }

// PC returns the program counter.
func (s *State) PC() uint32 { return s.pc }

// SetPC sets the program counter directly (JR, JALR, J, JAL).
func (s *State) SetPC(addr uint32) { s.pc = addr }

// StepPC advances PC by 4, the width of one instruction.
func (s *State) StepPC() { s.pc += 4 }

// Branch adds imm<<2 to PC: imm is sign-extended to 32 bits then
// multiplied by 4 (there is no delay slot, so this takes effect
// immediately on the already-advanced PC).
func (s *State) Branch(imm int16) {
	offset := int32(imm) * 4
	s.pc = uint32(int32(s.pc) + offset)
}

// HeapSize returns the current SBRK-tracked heap size.
func (s *State) HeapSize() uint32 { return s.heapSize }

// SetHeapSize sets the current heap size.
func (s *State) SetHeapSize(v uint32) { s.heapSize = v }

func (s *State) checkAccess(addr uint32, access Access) error {
	k := s.Classify(addr)
	if k == segment.None {
		return segfault(addr, access)
	}
	if k == segment.Text && access == AccessWrite {
		return segfault(addr, AccessWrite)
	}
	return nil
}

// ReadMemByteUninit reads one byte at addr, returning a raw tagged value.
// Fails only on segmentation fault, never on Uninitialised.
func (s *State) ReadMemByteUninit(addr uint32) (safe.Safe[uint8], error) {
	if err := s.checkAccess(addr, AccessRead); err != nil {
		return safe.Uninitialised[uint8](), err
	}
	return s.mem[addr], nil
}

// ReadMemByte reads one byte at addr, failing Uninitialised if the cell
// has never been written.
func (s *State) ReadMemByte(addr uint32) (uint8, error) {
	b, err := s.ReadMemByteUninit(addr)
	if err != nil {
		return 0, err
	}
	v, ok := b.Get()
	if !ok {
		return 0, uninitialised(SourceMemByte)
	}
	return v, nil
}

// ReadMemHalfUninit reads a little-endian halfword at addr (low byte at
// the lower address). Fails on segmentation fault or odd addr.
func (s *State) ReadMemHalfUninit(addr uint32) (safe.Safe[uint16], error) {
	if addr%2 != 0 {
		return safe.Uninitialised[uint16](), unaligned(addr, AlignHalf)
	}
	lo, err := s.ReadMemByteUninit(addr)
	if err != nil {
		return safe.Uninitialised[uint16](), err
	}
	hi, err := s.ReadMemByteUninit(addr + 1)
	if err != nil {
		return safe.Uninitialised[uint16](), err
	}
	loV, loOK := lo.Get()
	hiV, hiOK := hi.Get()
	if !loOK || !hiOK {
		return safe.Uninitialised[uint16](), nil
	}
	return safe.Valid(uint16(loV) | uint16(hiV)<<8), nil
}

// ReadMemHalf reads a halfword at addr, failing Uninitialised if any
// composing byte has never been written.
func (s *State) ReadMemHalf(addr uint32) (uint16, error) {
	h, err := s.ReadMemHalfUninit(addr)
	if err != nil {
		return 0, err
	}
	v, ok := h.Get()
	if !ok {
		return 0, uninitialised(SourceMemHalf)
	}
	return v, nil
}

// ReadMemWordUninit reads a little-endian word at addr (bytes 0..3 at
// addr..addr+4). Fails on segmentation fault or misaligned addr.
func (s *State) ReadMemWordUninit(addr uint32) (safe.Safe[uint32], error) {
	if addr%4 != 0 {
		return safe.Uninitialised[uint32](), unaligned(addr, AlignWord)
	}
	var bytes [4]uint8
	allValid := true
	for i := 0; i < 4; i++ {
		b, err := s.ReadMemByteUninit(addr + uint32(i))
		if err != nil {
			return safe.Uninitialised[uint32](), err
		}
		v, ok := b.Get()
		if !ok {
			allValid = false
			continue
		}
		bytes[i] = v
	}
	if !allValid {
		return safe.Uninitialised[uint32](), nil
	}
	word := uint32(bytes[0]) | uint32(bytes[1])<<8 | uint32(bytes[2])<<16 | uint32(bytes[3])<<24
	return safe.Valid(word), nil
}

// ReadMemWord reads a word at addr, failing Uninitialised if any
// composing byte has never been written.
func (s *State) ReadMemWord(addr uint32) (uint32, error) {
	w, err := s.ReadMemWordUninit(addr)
	if err != nil {
		return 0, err
	}
	v, ok := w.Get()
	if !ok {
		return 0, uninitialised(SourceMemWord)
	}
	return v, nil
}

// ReadMemString reads bytes starting at addr up to, and not including,
// the first NUL byte. Fails on segmentation fault encountered before a
// NUL is found; an Uninitialised byte in the middle of the string reads
// back as 0 for diagnostic/print purposes the same as a concrete NUL
// would, since no ISA string routine distinguishes the two.
func (s *State) ReadMemString(addr uint32) ([]byte, error) {
	var out []byte
	for offset := uint32(0); ; offset++ {
		b, err := s.ReadMemByteUninit(addr + offset)
		if err != nil {
			return nil, err
		}
		v, ok := b.Get()
		if !ok || v == 0 {
			return out, nil
		}
		out = append(out, v)
	}
}

// ReadMemBytes reads length contiguous bytes starting at addr. Fails on
// the first segmentation fault; Uninitialised bytes read back as 0.
func (s *State) ReadMemBytes(addr, length uint32) ([]byte, error) {
	out := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := s.ReadMemByteUninit(addr + i)
		if err != nil {
			return nil, err
		}
		v, _ := b.Get()
		out[i] = v
	}
	return out, nil
}

// WriteMemByteUninit writes a raw tagged byte at addr. Writes to Text are
// always segmentation faults.
func (s *State) WriteMemByteUninit(addr uint32, v safe.Safe[uint8]) error {
	if err := s.checkAccess(addr, AccessWrite); err != nil {
		return err
	}
	s.mem[addr] = v
	return nil
}

// WriteMemByte writes a concrete byte at addr.
func (s *State) WriteMemByte(addr uint32, v uint8) error {
	return s.WriteMemByteUninit(addr, safe.Valid(v))
}

// WriteMemHalfUninit writes a raw tagged halfword at addr, little-endian.
// Fails on segmentation fault or odd addr.
func (s *State) WriteMemHalfUninit(addr uint32, v safe.Safe[uint16]) error {
	if addr%2 != 0 {
		return unaligned(addr, AlignHalf)
	}
	val, ok := v.Get()
	if !ok {
		if err := s.WriteMemByteUninit(addr, safe.Uninitialised[uint8]()); err != nil {
			return err
		}
		return s.WriteMemByteUninit(addr+1, safe.Uninitialised[uint8]())
	}
	if err := s.WriteMemByteUninit(addr, safe.Valid(uint8(val))); err != nil {
		return err
	}
	return s.WriteMemByteUninit(addr+1, safe.Valid(uint8(val>>8)))
}

// WriteMemHalf writes a concrete halfword at addr.
func (s *State) WriteMemHalf(addr uint32, v uint16) error {
	return s.WriteMemHalfUninit(addr, safe.Valid(v))
}

// WriteMemWordUninit writes a raw tagged word at addr, little-endian.
// Fails on segmentation fault or misaligned addr.
func (s *State) WriteMemWordUninit(addr uint32, v safe.Safe[uint32]) error {
	if addr%4 != 0 {
		return unaligned(addr, AlignWord)
	}
	val, ok := v.Get()
	if !ok {
		for i := uint32(0); i < 4; i++ {
			if err := s.WriteMemByteUninit(addr+i, safe.Uninitialised[uint8]()); err != nil {
				return err
			}
		}
		return nil
	}
	for i := uint32(0); i < 4; i++ {
		if err := s.WriteMemByteUninit(addr+i, safe.Valid(uint8(val>>(8*i)))); err != nil {
			return err
		}
	}
	return nil
}

// WriteMemWord writes a concrete word at addr.
func (s *State) WriteMemWord(addr uint32, v uint32) error {
	return s.WriteMemWordUninit(addr, safe.Valid(v))
}
