// cmd/radarsim/main.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// radarsim is a terminal front end for the simulation: by default it
// shows an interactive radar scope; it can also run a scripted session
// without a display or replay a recorded one.

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/nav"

	"github.com/goforj/godump"
)

var (
	configFile  = flag.String("config", "", "TOML configuration file (default radarsim.toml or the user config directory)")
	writeConfig = flag.String("writeconfig", "", "write the effective configuration to the given file and exit")
	logLevel    = flag.String("loglevel", "", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
	airport     = flag.String("airport", "", "airport: Heathrow, Glasgow, or Los Angeles")
	difficulty  = flag.String("difficulty", "", "difficulty: Beginner, Easy, Normal, or Realistic")
	seed        = flag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	timeScale   = flag.Float64("timescale", 0, "simulated seconds per wall clock second")
	maxAircraft = flag.Int("maxaircraft", 0, "maximum number of aircraft at once")
	recordPath  = flag.String("record", "", "record the session and save it to the given file on exit")
	headless    = flag.Bool("headless", false, "run without a display, reading a script from stdin or -script")
	scriptFile  = flag.String("script", "", "script of operator input for -headless")
	duration    = flag.Duration("duration", 10*time.Minute, "total time to run with -headless, including script WAITs")
	replayFile  = flag.String("replay", "", "replay the recorded session in the given file and check it")
	dump        = flag.Bool("dump", false, "print the effective configuration and, with -replay, the final aircraft state")

	// These only have an effect in builds with the navlog tag.
	navLog           = flag.Bool("navlog", false, "enable navigation logging")
	navLogCategories = flag.String("navlog-categories", "all", "navigation log categories (comma-separated: state,heading,speed,altitude)")
	navLogCallsign   = flag.String("navlog-callsign", "", "filter navigation logs to only show this callsign (empty = show all)")
)

// applyFlags overrides configuration values with any that were given
// on the command line.
func applyFlags(config *Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loglevel":
			config.Logging.Level = *logLevel
		case "logdir":
			config.Logging.Dir = *logDir
		case "airport":
			config.Sim.Airport = *airport
		case "difficulty":
			var d av.Difficulty
			if d, err = av.ParseDifficulty(*difficulty); err == nil {
				config.Sim.Difficulty = d
			}
		case "seed":
			config.Sim.Seed = *seed
		case "timescale":
			config.Sim.TimeScale = float32(*timeScale)
		case "maxaircraft":
			config.Sim.MaxAircraft = *maxAircraft
		case "record":
			config.Sim.RecordPath = *recordPath
		}
	})
	return err
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	flag.Parse()

	config, configPath, err := LoadWithFallback(*configFile)
	if err != nil {
		fatalf("%v", err)
	}
	if err := applyFlags(config); err != nil {
		fatalf("%v", err)
	}
	if err := config.Validate(); err != nil {
		fatalf("Invalid configuration:\n%v", err)
	}

	if *dump {
		godump.Dump(config)
	}
	if *writeConfig != "" {
		if err := config.Save(*writeConfig); err != nil {
			fatalf("%v", err)
		}
		return
	}

	// Initialize the logging system before anything that may log.
	lg := log.New(*headless || *replayFile != "", config.Logging.Level, config.Logging.Dir)
	defer lg.CatchAndReportCrash()

	lg.Info("configuration", slog.String("path", configPath), slog.Any("sim", config.SimConfig()),
		slog.Any("scope", config.Scope))

	// Navigation logging goes to stderr, so it's mostly useful along
	// with -headless or -replay.
	nav.InitNavLog(os.Stderr, *navLog, *navLogCategories, *navLogCallsign)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *replayFile != "":
		err = runReplay(*replayFile, *dump, os.Stdout, lg)

	case *headless:
		var script io.Reader = os.Stdin
		if *scriptFile != "" {
			f, ferr := os.Open(*scriptFile)
			if ferr != nil {
				fatalf("%v", ferr)
			}
			defer f.Close()
			script = f
		}
		err = runHeadless(ctx, config, script, os.Stdout, *duration, lg)

	default:
		err = runScope(ctx, config, lg)
	}

	if err != nil {
		lg.Errorf("%v", err)
		fatalf("%v", err)
	}
}
