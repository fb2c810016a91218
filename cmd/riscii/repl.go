/*
 * riscii - Interactive command REPL.
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
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/riscii/emu/system"
)

// replCmd is one entry in the command table a line of input is matched
// against, prefix-matched the way the teacher's command/parser does.
type replCmd struct {
	name    string
	process func(sys *system.System, args []string) (quit bool, err error)
}

var replCommands = []replCmd{
	{name: "step", process: cmdStep},
	{name: "run", process: cmdRun},
	{name: "stop", process: cmdStop},
	{name: "reg", process: cmdReg},
	{name: "psw", process: cmdPSW},
	{name: "mem", process: cmdMem},
	{name: "quit", process: cmdQuit},
	{name: "exit", process: cmdQuit},
}

// runREPL drives sys from interactive input, grounded on the teacher's
// liner.NewLiner console reader: a prompt, history, and tab completion
// over the command table, dispatching each line until "quit"/"exit" or
// end of input.
func runREPL(sys *system.System) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return completeCommand(partial)
	})

	for {
		input, err := line.Prompt("riscii> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("reading command", "err", err)
			return
		}
		line.AppendHistory(input)

		quit, err := processCommand(sys, input)
		if err != nil {
			fmt.Println("error: " + err.Error())
		}
		if quit {
			return
		}
	}
}

// processCommand matches the leading word of input against replCommands
// by unambiguous prefix and runs it.
func processCommand(sys *system.System, input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	match := matchCommands(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(sys, args)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

func matchCommands(name string) []replCmd {
	var match []replCmd
	for _, c := range replCommands {
		if strings.HasPrefix(c.name, name) {
			match = append(match, c)
		}
	}
	return match
}

func completeCommand(partial string) []string {
	match := matchCommands(strings.ToLower(partial))
	names := make([]string, len(match))
	for i, c := range match {
		names[i] = c.name
	}
	return names
}

func cmdStep(sys *system.System, args []string) (bool, error) {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, errors.New("step count must be a number: " + args[0])
		}
		n = v
	}
	ran, err := sys.Run(n)
	fmt.Printf("ran %d cycle(s); %s\n", ran, sys.DP)
	return false, err
}

func cmdRun(sys *system.System, args []string) (bool, error) {
	n := 1 << 30
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, errors.New("run count must be a number: " + args[0])
		}
		n = v
	}
	ran, err := sys.Run(n)
	fmt.Printf("ran %d cycle(s); %s\n", ran, sys.DP)
	return false, err
}

func cmdReg(sys *system.System, args []string) (bool, error) {
	cwp := sys.DP.PSW.CWP()
	if len(args) == 0 {
		for r := uint8(0); r < 32; r++ {
			fmt.Printf("r%-2d = 0x%08x\n", r, sys.DP.Regs.Read(r, cwp))
		}
		return false, nil
	}
	r, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || r > 31 {
		return false, errors.New("register must be 0..31: " + args[0])
	}
	fmt.Printf("r%d = 0x%08x\n", r, sys.DP.Regs.Read(uint8(r), cwp))
	return false, nil
}

func cmdPSW(sys *system.System, _ []string) (bool, error) {
	p := sys.DP.PSW
	fmt.Printf("PSW=0x%04x CWP=%d SWP=%d I=%t S=%t P=%t Z=%t N=%t V=%t C=%t\n",
		p.U16(), p.CWP(), p.SWP(), p.I(), p.S(), p.P(), p.Z(), p.N(), p.V(), p.C())
	return false, nil
}

func cmdMem(sys *system.System, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("mem requires an address")
	}
	addr, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return false, errors.New("address must be a number: " + args[0])
	}
	word, err := sys.Mem.GetWord(uint32(addr))
	if err != nil {
		return false, err
	}
	fmt.Printf("[0x%08x] = 0x%08x\n", addr, word)
	return false, nil
}

// cmdStop exists for parity with the teacher's start/stop command pair;
// unlike the teacher's goroutine-driven core, run/step execute to
// completion before the prompt returns, so there is never a running CPU
// to interrupt.
func cmdStop(_ *system.System, _ []string) (bool, error) {
	fmt.Println("nothing to stop: step/run already return to the prompt when done")
	return false, nil
}

func cmdQuit(_ *system.System, _ []string) (bool, error) {
	return true, nil
}
