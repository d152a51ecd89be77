/*
 * mips32 - Public runtime facade.
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

// Package runtime is the public facade over the core: it owns a
// *state.State and a *cpu.Engine and drives the fetch/decode/execute
// cycle one instruction at a time. A Runtime is single-threaded and
// purely synchronous — a Step runs to completion before it returns,
// never leaving a partially-decoded instruction in flight. A failing Step
// is not rolled back: see Step for what state it leaves behind.
package runtime

import (
	"github.com/rcornwell/mips32/internal/cpu"
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/isa"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/segment"
	"github.com/rcornwell/mips32/internal/state"
)

// Runtime couples one guest's architectural state to the execution
// engine that steps it.
type Runtime struct {
	state  *state.State
	engine *cpu.Engine
	binary state.Binary
	layout layout.Layout
}

// New builds the initial Runtime for binary loaded against l.
func New(binary state.Binary, l layout.Layout) *Runtime {
	return &Runtime{
		state:  state.New(binary, l),
		engine: cpu.New(),
		binary: binary,
		layout: l,
	}
}

// State exposes the underlying architectural state for host inspection
// (register dumps, an interactive debugger's view, post-mortem reads
// after a failed Step).
func (r *Runtime) State() *state.State { return r.state }

// SetTrampoline installs (or clears, with nil) the printf development hook
// (§9) on this runtime's engine.
func (r *Runtime) SetTrampoline(t *cpu.Trampoline) { r.engine.PrintfTrampoline = t }

// fetch reads the word at addr, turning any fault (segmentation,
// alignment, or an Uninitialised cell) into UnknownInstruction: a step
// that can't produce a concrete instruction can't distinguish "bad
// address" from "garbage opcode" and doesn't try to.
func (r *Runtime) fetch(addr uint32) (uint32, error) {
	w, err := r.state.ReadMemWord(addr)
	if err != nil {
		return 0, &state.Error{Kind: state.UnknownInstruction, Addr: addr}
	}
	return w, nil
}

// Step runs the protocol in §4.7: classify PC's segment, fetch the word
// there, advance PC, then dispatch and execute it. On error the
// Runtime's state is left exactly as the failing stage left it — PC is
// already advanced if the fault happened during execute, not fetch —
// and remains valid to inspect; there is no separate "advanced runtime"
// to return, since the receiver already is the caller's own value.
func (r *Runtime) Step() (guest.Guard, error) {
	pc := r.state.PC()
	if r.state.Classify(pc) != segment.Text {
		return nil, &state.Error{Kind: state.SegmentationFault, Addr: pc, Access: state.AccessExecute}
	}

	word, err := r.fetch(pc)
	if err != nil {
		return nil, err
	}

	r.state.StepPC()
	return r.engine.Execute(r.state, word)
}

// CurrentInst fetches the word at PC without advancing or executing it.
func (r *Runtime) CurrentInst() (isa.Word, error) {
	w, err := r.fetch(r.state.PC())
	if err != nil {
		return isa.Word{}, err
	}
	return isa.Decode(w), nil
}

// NextInst fetches the word one instruction past PC, without advancing
// or executing anything. Useful for an interactive debugger rendering
// "up next" without committing to it.
func (r *Runtime) NextInst() (isa.Word, error) {
	w, err := r.fetch(r.state.PC() + 4)
	if err != nil {
		return isa.Word{}, err
	}
	return isa.Decode(w), nil
}

// ExecInst executes word against the current state directly, without
// fetching it from memory or advancing PC beforehand. This is for
// interactive injection (a debugger's "execute this instruction now");
// normal program flow always goes through Step.
func (r *Runtime) ExecInst(word uint32) (guest.Guard, error) {
	return r.engine.Execute(r.state, word)
}

// Reset rebuilds the architectural state from the same (binary, layout)
// this Runtime was constructed with, discarding every register, memory,
// and PC change made since. Per the resolved Open Question, reset has
// no narrower meaning than "start over" — there is no partial-reset
// mode.
func (r *Runtime) Reset() {
	r.state = state.New(r.binary, r.layout)
}
