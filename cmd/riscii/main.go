/*
 * riscii - Main process.
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

package main

import (
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/riscii/config"
	"github.com/rcornwell/riscii/emu/memory"
	"github.com/rcornwell/riscii/emu/system"
	"github.com/rcornwell/riscii/util/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "riscii.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMemSize := getopt.StringLong("mem", 'm', "", "Memory size in bytes (overrides config file)")
	optRate := getopt.StringLong("rate", 'r', "", "Clock rate in cycles/second, 0 for unpaced (overrides config file)")
	optStart := getopt.StringLong("start", 's', "0", "Initial PC")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	start, err := strconv.ParseUint(*optStart, 0, 32)
	if err != nil {
		slog.Error("invalid -start value", "value", *optStart, "err", err)
		os.Exit(1)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("can't create log file", "path", *optLogFile, "err", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	slog.SetDefault(slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel})))

	cfg, err := config.Load(*optConfig)
	if err != nil {
		slog.Error("loading configuration", "path", *optConfig, "err", err)
		os.Exit(1)
	}
	if *optMemSize != "" {
		n, err := strconv.ParseUint(*optMemSize, 0, 32)
		if err != nil {
			slog.Error("invalid -mem value", "value", *optMemSize, "err", err)
			os.Exit(1)
		}
		cfg.MemSize = uint32(n)
	}
	if *optRate != "" {
		n, err := strconv.ParseUint(*optRate, 0, 64)
		if err != nil {
			slog.Error("invalid -rate value", "value", *optRate, "err", err)
			os.Exit(1)
		}
		cfg.ClockRate = n
	}

	slog.Info("riscii starting", "mem_size", cfg.MemSize, "clock_rate", cfg.ClockRate)

	mem := memory.New(cfg.MemSize)
	sys := system.New(mem, cfg.ClockRate)
	if err := sys.Reset(uint32(start)); err != nil {
		slog.Error("reset", "err", err)
		os.Exit(1)
	}

	runREPL(sys)

	slog.Info("riscii exiting")
}
