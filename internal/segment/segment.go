/*
 * mips32 - Segment classifier.
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

// Package segment classifies a 32-bit address against a memory layout
// descriptor. It is consulted on every instruction fetch (must be Text)
// and on every memory access (must not be None; Text is read-only).
package segment

import "github.com/rcornwell/mips32/internal/layout"

// Kind is the classification of an address.
type Kind int

const (
	None Kind = iota
	Text
	Data
	Stack
	KText
	KData
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Data:
		return "data"
	case Stack:
		return "stack"
	case KText:
		return "ktext"
	case KData:
		return "kdata"
	default:
		return "none"
	}
}

// Classify maps addr to a Kind given l. Kernel segments (KText, KData) are
// not reachable from this layout descriptor; user-mode MIPS32 never
// addresses above the mapped stack top under this descriptor, so only
// None/Text/Data/Stack are ever produced here.
func Classify(l layout.Layout, addr uint32) Kind {
	switch {
	case addr < l.Text.Start:
		return None
	case addr >= l.Text.Start && addr <= l.Text.End:
		return Text
	case addr >= l.Global.Bot && addr < l.Stack.Bot:
		return Data
	case addr >= l.Stack.Bot && addr <= l.Stack.Top:
		return Stack
	default:
		return None
	}
}

// LowerBound returns the lowest address classified as k under l, used by
// diagnostics that need to report "this segment starts at...".
func LowerBound(l layout.Layout, k Kind) uint32 {
	switch k {
	case Text:
		return l.Text.Start
	case Data:
		return l.Global.Bot
	case Stack:
		return l.Stack.Bot
	default:
		return 0
	}
}
