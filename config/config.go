/*
 * riscii - Configuration file parser
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

// Package config loads the small set of options the core needs to boot:
// how much memory to give the machine and how fast to pace its clock.
// The file format is a restricted version of the teacher's
// config/configparser: one "key = value" pair per line, '#' starts a
// comment, blank lines are ignored.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Defaults applied to any option the file doesn't mention.
const (
	DefaultMemSize   = 1 << 16 // 64KiB.
	DefaultClockRate = 0       // unpaced.
)

// Config is the small set of boot options the core consumes.
type Config struct {
	MemSize   uint32 // bytes of main memory.
	ClockRate uint64 // clock cycles/second; 0 runs unpaced.
}

// Default returns a Config with every option at its default value.
func Default() Config {
	return Config{MemSize: DefaultMemSize, ClockRate: DefaultClockRate}
}

// Load reads a configuration file, starting from Default and overriding
// whatever keys appear. A missing file is not an error: the caller gets
// Default back unchanged, matching the teacher's tolerance for an
// optional config file.
func Load(name string) (Config, error) {
	cfg := Default()

	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		line, err := reader.ReadString('\n')
		lineNumber++
		if len(line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cfg, err
		}
		if parseErr := cfg.parseLine(line, lineNumber); parseErr != nil {
			return cfg, parseErr
		}
	}
	return cfg, nil
}

func (c *Config) parseLine(line string, lineNumber int) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("config: line %d: expected key = value", lineNumber)
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "mem_size":
		n, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return fmt.Errorf("config: line %d: mem_size must be a number: %w", lineNumber, err)
		}
		c.MemSize = uint32(n)
	case "clock_rate":
		n, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: clock_rate must be a number: %w", lineNumber, err)
		}
		c.ClockRate = n
	default:
		return fmt.Errorf("config: line %d: unknown option %q", lineNumber, key)
	}
	return nil
}
