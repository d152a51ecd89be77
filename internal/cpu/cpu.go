/*
 * mips32 - Execution engine: dispatch and per-instruction semantics.
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

// Package cpu implements the MIPS32 execution engine: the R/I/J dispatch
// and the per-instruction semantics the decoded word routes to. An Engine
// holds no guest state itself; every call takes the *state.State it
// mutates, so one Engine can step many independent guests.
package cpu

import (
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/state"
)

// Trampoline is the printf development hook (§9): a J/JAL whose computed
// target equals Target is diagnosed through Hook instead of taken. It is
// nil by default, so no address is special-cased unless a host opts in.
type Trampoline struct {
	Target uint32
	Hook   func(format string, value int32)
}

// Engine executes decoded MIPS32 instructions against a *state.State.
type Engine struct {
	PrintfTrampoline *Trampoline
}

// New returns an Engine with no printf trampoline configured.
func New() *Engine {
	return &Engine{}
}

// Execute decodes word and runs it against s. It returns a non-nil Guard
// when the instruction yields to the host (SYSCALL, BREAK, a trap whose
// predicate held); otherwise it returns (nil, nil) on success, or
// (nil, err) on a runtime error, leaving s mutated up to the point of
// failure exactly as the failing instruction left it.
func (e *Engine) Execute(s *state.State, word uint32) (guest.Guard, error) {
	d := isa.Decode(word)
	switch d.Format() {
	case isa.FormatR:
		return e.executeR(s, d)
	case isa.FormatJ:
		e.executeJ(s, d)
		return nil, nil
	default:
		return e.executeI(s, d)
	}
}
