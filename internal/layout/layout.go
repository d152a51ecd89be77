/*
 * mips32 - Memory layout descriptor.
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

// Package layout describes the memory layout a guest binary is loaded
// against: segment bounds for text, data/global, and stack. The descriptor
// is supplied once at Runtime construction and is immutable thereafter.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Text is the executable segment bounds.
type Text struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
}

// Global describes the data/global segment: its base and the initial GP
// register value.
type Global struct {
	Bot uint32 `yaml:"bot"`
	Ptr uint32 `yaml:"ptr"`
}

// Stack is the stack address range; Bot < Top, and the stack grows
// downward from Top but is addressed as [Bot, Top].
type Stack struct {
	Bot uint32 `yaml:"bot"`
	Top uint32 `yaml:"top"`
}

// Layout is the memory layout descriptor consumed by internal/state when
// constructing the initial architectural state.
type Layout struct {
	Text    Text   `yaml:"text"`
	DataBot uint32 `yaml:"data_bot"`
	Global  Global `yaml:"global"`
	Stack   Stack  `yaml:"stack"`
}

// Default returns a layout matching a conventional 32-bit MIPS user
// program: 256K of text starting at 0x00400000, global data starting at
// 0x10000000, and an 8MB stack ending at 0x80000000.
func Default() Layout {
	const (
		textStart = 0x00400000
		textEnd   = 0x00440000
		dataBot   = 0x10000000
		globalPtr = 0x10008000
		stackTop  = 0x80000000
		stackBot  = stackTop - 8*1024*1024
	)
	return Layout{
		Text:    Text{Start: textStart, End: textEnd},
		DataBot: dataBot,
		Global:  Global{Bot: dataBot, Ptr: globalPtr},
		Stack:   Stack{Bot: stackBot, Top: stackTop},
	}
}

// Load reads and decodes a layout descriptor from a YAML file.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("layout: read %s: %w", path, err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("layout: parse %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout: %s: %w", path, err)
	}
	return l, nil
}

// Validate checks the invariant that memory-layout intervals do not
// overlap and that the stack range is well formed.
func (l Layout) Validate() error {
	if l.Text.Start > l.Text.End {
		return fmt.Errorf("text.start 0x%x is after text.end 0x%x", l.Text.Start, l.Text.End)
	}
	if l.Stack.Bot >= l.Stack.Top {
		return fmt.Errorf("stack.bot 0x%x is not below stack.top 0x%x", l.Stack.Bot, l.Stack.Top)
	}
	if l.Global.Bot <= l.Text.End && l.Text.Start < l.Stack.Bot {
		return fmt.Errorf("data [0x%x,0x%x) overlaps text [0x%x,0x%x]", l.Global.Bot, l.Stack.Bot, l.Text.Start, l.Text.End)
	}
	if l.Stack.Bot <= l.Text.End && l.Text.Start <= l.Stack.Top {
		return fmt.Errorf("stack [0x%x,0x%x] overlaps text [0x%x,0x%x]", l.Stack.Bot, l.Stack.Top, l.Text.Start, l.Text.End)
	}
	if l.Global.Bot >= l.Stack.Bot {
		return fmt.Errorf("global.bot 0x%x is not below stack.bot 0x%x", l.Global.Bot, l.Stack.Bot)
	}
	return nil
}

// InitialSP is the initial stack pointer: stack.top - 0x30.
func (l Layout) InitialSP() uint32 {
	return l.Stack.Top - 0x30
}

// InitialFP matches InitialSP; both $sp and $fp start at the same offset
// from the top of the stack.
func (l Layout) InitialFP() uint32 {
	return l.InitialSP()
}

// InitialGP is the initial $gp register value: global.ptr.
func (l Layout) InitialGP() uint32 {
	return l.Global.Ptr
}
