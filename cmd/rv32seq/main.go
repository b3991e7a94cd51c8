/*
 * rv32seq - Main process.
 *
 * Copyright 2026, rv32seq contributors
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
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rv32seq/rv32seq/command/reader"
	config "github.com/rv32seq/rv32seq/config/configparser"
	"github.com/rv32seq/rv32seq/config/machineconfig"
	"github.com/rv32seq/rv32seq/emu/core"
	"github.com/rv32seq/rv32seq/emu/cpu"
	"github.com/rv32seq/rv32seq/emu/memory"
	"github.com/rv32seq/rv32seq/emu/timer"
	logger "github.com/rv32seq/rv32seq/util/logger"

	_ "github.com/rv32seq/rv32seq/util/debug"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "rv32seq.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Trace everything to stderr, not just warnings")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("rv32seq started")

	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
			Logger.Error("configuration file not found", "path", *optConfig)
			os.Exit(1)
		}
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	if logger.ConfiguredLogFile != "" && file == nil {
		f, err := os.Create(logger.ConfiguredLogFile)
		if err != nil {
			Logger.Error("unable to open LOGFILE", "path", logger.ConfiguredLogFile, "err", err)
			os.Exit(1)
		}
		Logger = slog.New(logger.NewHandler(f, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
		slog.SetDefault(Logger)
	}

	if memory.GetSize() == 0 {
		memory.SetSize(64 * 1024)
	}

	c := &cpu.CPU{}
	c.Reset(machineconfig.Entry)
	c.CSR.Mtvec = machineconfig.Mtvec

	eng := core.NewCore(c)

	if machineconfig.UARTPort != nil {
		eng.SetExtIrqSource(machineconfig.UARTPort.Level)
	}
	if machineconfig.BreakpointSet {
		eng.SetBreakpoint(machineconfig.Breakpoint)
	}

	var tmr *timer.Timer
	if machineconfig.TimerSet {
		tmr = timer.New(c, machineconfig.TimerPeriod)
		tmr.Start()
	}

	go eng.Start()
	eng.SendStart()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	consoleDone := make(chan struct{})
	go func() {
		reader.ConsoleReader(eng)
		close(consoleDone)
	}()

	select {
	case <-sigChan:
		Logger.Info("got interrupt signal")
	case <-consoleDone:
		Logger.Info("console exited")
	}

	Logger.Info("shutting down core")
	eng.Stop()
	if tmr != nil {
		tmr.Shutdown()
	}
	if machineconfig.UARTPort != nil {
		machineconfig.UARTPort.Shutdown()
	}
	Logger.Info("shutdown complete")
}
