/*
 * mips32 - Host harness configuration.
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

// Package config loads the settings a host harness (cmd/mipsrun,
// cmd/mipsdbg) needs beyond the guest's own memory layout: where to
// log, how verbosely, and which addresses to stop at before the first
// instruction even runs. It knows nothing about the core itself.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the host harness's own settings, independent of the guest
// memory layout (internal/layout) it runs against.
type Config struct {
	LogFile    string   `yaml:"log_file"`
	Debug      bool     `yaml:"debug"`
	Breakpoints []uint32 `yaml:"breakpoints"`
}

// Default returns a Config with no log file, debug off, and no
// breakpoints.
func Default() Config {
	return Config{}
}

// Load reads and parses a host config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
