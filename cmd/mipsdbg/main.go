/*
 * mips32 - Interactive debugger front-end.
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

// Command mipsdbg is a single-stepping interactive debugger: a Bubble
// Tea model wraps a runtime.Runtime, renders registers/HI/LO/PC and the
// last guard with lipgloss, and lets the user set breakpoints that
// pause stepping before they run.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mips32/internal/config"
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/safe"
	"github.com/rcornwell/mips32/internal/state"
	"github.com/rcornwell/mips32/runtime"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faultStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	guardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	rt          *runtime.Runtime
	breakpoints map[uint32]bool
	lastGuard   guest.Guard
	lastErr     error
	halted      bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "s":
		if m.halted {
			return m, nil
		}
		g, err := m.rt.Step()
		m.lastGuard = g
		m.lastErr = err
		if err != nil {
			m.halted = true
			return m, nil
		}
		if g != nil {
			switch g.(type) {
			case guest.ExitGuard, guest.ExitStatusGuard, guest.TrapGuard:
				m.halted = true
			}
		}
		if m.breakpoints[m.rt.State().PC()] {
			m.halted = true
		}

	case "r":
		m.rt.Reset()
		m.lastGuard = nil
		m.lastErr = nil
		m.halted = false
	}
	return m, nil
}

func (m model) View() string {
	s := m.rt.State()
	out := headingStyle.Render("mipsdbg") + "\n\n"
	out += fmt.Sprintf("PC = %#08x\n", s.PC())

	for i := 0; i < 32; i++ {
		v := s.ReadRegisterUninit(uint32(i))
		if raw, ok := v.Get(); ok {
			out += fmt.Sprintf("$%-2d = %#010x  ", i, uint32(raw))
		} else {
			out += dimStyle.Render(fmt.Sprintf("$%-2d = ????????  ", i))
		}
		if i%4 == 3 {
			out += "\n"
		}
	}

	if m.lastErr != nil {
		out += "\n" + faultStyle.Render(m.lastErr.Error()) + "\n"
	} else if m.lastGuard != nil {
		out += "\n" + guardStyle.Render(fmt.Sprintf("guard: kind=%d", m.lastGuard.Kind())) + "\n"
	}

	out += "\n" + dimStyle.Render("s: step   r: reset   q: quit")
	return out
}

func main() {
	optLayout := getopt.StringLong("layout", 'm', "", "Memory layout YAML file")
	optText := getopt.StringLong("text", 't', "", "Raw text segment binary")
	optData := getopt.StringLong("data", 'd', "", "Raw data segment binary")
	optConfig := getopt.StringLong("config", 'c', "", "Host harness config file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *optConfig != "" {
		var err error
		cfg, err = config.Load(*optConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	l := layout.Default()
	if *optLayout != "" {
		var err error
		l, err = layout.Load(*optLayout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	binary := state.Binary{}
	if *optText != "" {
		raw, err := os.ReadFile(*optText)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		binary.Text = toSafeBytes(raw)
	}
	if *optData != "" {
		raw, err := os.ReadFile(*optData)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		binary.Data = toSafeBytes(raw)
	}

	breakpoints := map[uint32]bool{}
	for _, addr := range cfg.Breakpoints {
		breakpoints[addr] = true
	}

	m := model{rt: runtime.New(binary, l), breakpoints: breakpoints}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func toSafeBytes(raw []byte) []safe.Safe[uint8] {
	out := make([]safe.Safe[uint8], len(raw))
	for i, b := range raw {
		out[i] = safe.Valid(b)
	}
	return out
}
