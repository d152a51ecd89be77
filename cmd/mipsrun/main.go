/*
 * mips32 - Batch CLI host.
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

// Command mipsrun drives a runtime.Runtime to completion, servicing
// every syscall guard it yields against the actual host: stdio for the
// print/read family, real files for open/read/write/close.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mips32/internal/config"
	"github.com/rcornwell/mips32/internal/guest"
	"github.com/rcornwell/mips32/internal/layout"
	"github.com/rcornwell/mips32/internal/safe"
	"github.com/rcornwell/mips32/internal/state"
	logger "github.com/rcornwell/mips32/util/logger"

	"github.com/rcornwell/mips32/runtime"
)

var Logger *slog.Logger

func main() {
	optLayout := getopt.StringLong("layout", 'm', "", "Memory layout YAML file")
	optText := getopt.StringLong("text", 't', "", "Raw text segment binary")
	optData := getopt.StringLong("data", 'd', "", "Raw data segment binary")
	optConfig := getopt.StringLong("config", 'c', "", "Host harness config file")
	optLog := getopt.StringLong("log", 'l', "", "Log file")
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
	logFile := cfg.LogFile
	if *optLog != "" {
		logFile = *optLog
	}

	var file *os.File
	if logFile != "" {
		var err error
		file, err = os.Create(logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	debug := cfg.Debug
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(Logger)

	l := layout.Default()
	if *optLayout != "" {
		var err error
		l, err = layout.Load(*optLayout)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if err := l.Validate(); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	binary := state.Binary{}
	if *optText != "" {
		bytes, err := os.ReadFile(*optText)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		binary.Text = toSafeBytes(bytes)
	}
	if *optData != "" {
		bytes, err := os.ReadFile(*optData)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		binary.Data = toSafeBytes(bytes)
	}

	r := runtime.New(binary, l)

	h := &host{reader: bufio.NewReader(os.Stdin), files: map[int32]*os.File{}}
	for {
		g, err := r.Step()
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		if g == nil {
			continue
		}
		done, code := h.service(g)
		if done {
			os.Exit(code)
		}
	}
}

func toSafeBytes(raw []byte) []safe.Safe[uint8] {
	out := make([]safe.Safe[uint8], len(raw))
	for i, b := range raw {
		out[i] = safe.Valid(b)
	}
	return out
}

// host owns the real OS resources a running guest can reach for:
// stdin/stdout for the print/read syscalls and a small fd table for
// open/read/write/close.
type host struct {
	reader *bufio.Reader
	files  map[int32]*os.File
	nextFD int32
}

// service answers one guard against the real OS. It reports (true, code)
// when the guard terminates the program.
func (h *host) service(g guest.Guard) (bool, int) {
	switch v := g.(type) {
	case guest.PrintIntGuard:
		fmt.Print(v.Value)
	case guest.PrintStringGuard:
		fmt.Print(string(v.Value))
	case guest.PrintCharGuard:
		fmt.Print(string(rune(v.Value)))
	case guest.SbrkGuard:
		// Heap bookkeeping already happened in internal/state; nothing
		// further to do.
	case guest.ExitGuard:
		return true, 0
	case guest.ExitStatusGuard:
		return true, int(v.Code)
	case guest.BreakpointGuard:
		Logger.Info("breakpoint hit")
	case guest.TrapGuard:
		Logger.Error("trap condition hit")
		return true, 1
	case guest.ReadIntGuard:
		line, _ := h.reader.ReadString('\n')
		n, _ := strconv.Atoi(strings.TrimSpace(line))
		v.Resume(int32(n))
	case guest.ReadCharGuard:
		b, _ := h.reader.ReadByte()
		v.Resume(b)
	case guest.ReadStringGuard:
		line, _ := h.reader.ReadString('\n')
		v.Resume([]byte(line))
	case guest.OpenGuard:
		f, err := os.OpenFile(v.Path, int(v.Flags), os.FileMode(v.Mode))
		if err != nil {
			v.Resume(-1)
			break
		}
		h.nextFD++
		h.files[h.nextFD] = f
		v.Resume(h.nextFD)
	case guest.ReadGuard:
		f, ok := h.files[v.FD]
		if !ok {
			v.Resume(-1, nil)
			break
		}
		buf := make([]byte, v.Len)
		n, _ := f.Read(buf)
		v.Resume(int32(n), buf[:n])
	case guest.WriteGuard:
		f, ok := h.files[v.FD]
		if !ok {
			v.Resume(-1)
			break
		}
		n, _ := f.Write(v.Buf)
		v.Resume(int32(n))
	case guest.CloseGuard:
		f, ok := h.files[v.FD]
		if !ok {
			v.Resume(-1)
			break
		}
		_ = f.Close()
		delete(h.files, v.FD)
		v.Resume(0)
	}
	return false, 0
}
