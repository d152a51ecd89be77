/*
 * mips32 - Safe<T> tagged value/uninitialised wrapper.
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

// Package safe implements Safe[T], a two-state wrapper around register and
// memory cell contents: a value is either Valid(v) or Uninitialised. MIPS
// does not zero memory or registers at boot, so reading an Uninitialised
// cell is a first-class runtime error rather than a silent zero.
package safe

// Safe holds either a valid value of type T or nothing (Uninitialised).
// The zero value of Safe[T] is Uninitialised, matching the data model's
// "default is Uninitialised" rule.
type Safe[T any] struct {
	value T
	ok    bool
}

// Valid wraps v as a present value.
func Valid[T any](v T) Safe[T] {
	return Safe[T]{value: v, ok: true}
}

// Uninitialised returns the absent value for T.
func Uninitialised[T any]() Safe[T] {
	return Safe[T]{}
}

// IsValid reports whether s holds a value.
func (s Safe[T]) IsValid() bool {
	return s.ok
}

// IntoOption returns (value, true) if s is valid, else (zero, false).
func (s Safe[T]) IntoOption() (T, bool) {
	return s.value, s.ok
}

// AsOption is an alias for IntoOption; both project Safe[T] onto the
// standard (value, ok) idiom used elsewhere in Go.
func (s Safe[T]) AsOption() (T, bool) {
	return s.IntoOption()
}

// Get returns the held value and whether it was valid. Callers that must
// fail loudly on Uninitialised should check the second return themselves;
// Safe[T] never panics.
func (s Safe[T]) Get() (T, bool) {
	return s.value, s.ok
}

// MustGet returns the held value, or the zero value of T if Uninitialised.
// Used only where the caller has already decided an Uninitialised read is
// not fatal (e.g. constructing a diagnostic dump).
func (s Safe[T]) MustGet() T {
	return s.value
}

// Equal implements Valid(a)==Valid(b) iff a==b, and Uninitialised equals
// only Uninitialised.
func Equal[T comparable](a, b Safe[T]) bool {
	if a.ok != b.ok {
		return false
	}
	if !a.ok {
		return true
	}
	return a.value == b.value
}

// ExtendSign8to32 sign-extends a Safe[uint8] to Safe[int32], preserving
// Uninitialised unchanged.
func ExtendSign8to32(s Safe[uint8]) Safe[int32] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[int32]()
	}
	return Valid(int32(int8(v)))
}

// ExtendSign16to32 sign-extends a Safe[uint16] to Safe[int32].
func ExtendSign16to32(s Safe[uint16]) Safe[int32] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[int32]()
	}
	return Valid(int32(int16(v)))
}

// ExtendZero8to32 zero-extends a Safe[uint8] to Safe[uint32].
func ExtendZero8to32(s Safe[uint8]) Safe[uint32] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[uint32]()
	}
	return Valid(uint32(v))
}

// ExtendZero16to32 zero-extends a Safe[uint16] to Safe[uint32].
func ExtendZero16to32(s Safe[uint16]) Safe[uint32] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[uint32]()
	}
	return Valid(uint32(v))
}

// Truncate32to8 narrows a Safe[uint32] to Safe[uint8], preserving
// Uninitialised.
func Truncate32to8(s Safe[uint32]) Safe[uint8] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[uint8]()
	}
	return Valid(uint8(v))
}

// Truncate32to16 narrows a Safe[uint32] to Safe[uint16], preserving
// Uninitialised.
func Truncate32to16(s Safe[uint32]) Safe[uint16] {
	v, ok := s.Get()
	if !ok {
		return Uninitialised[uint16]()
	}
	return Valid(uint16(v))
}
