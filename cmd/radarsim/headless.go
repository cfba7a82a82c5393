// cmd/radarsim/headless.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// Headless mode runs the sim without a display, driven by a script of
// operator input read from a file or stdin. Time only passes when the
// script says so, which makes runs reproducible for a given seed.
//
// Script lines are one of:
//
//	WAIT <seconds>       run that many one-second ticks
//	PAUSE | RESUME       pause or resume the sim
//	SCALE <factor>       set the time scale
//	RESTART              restart with the same configuration
//	<callsign> ...       an operator command, e.g. BA0342 HDG270 SPD210 FL40
//
// Blank lines and lines starting with # are ignored.

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/sim"
)

const headlessTick = time.Second

func runHeadless(ctx context.Context, config *Config, script io.Reader, out io.Writer, duration time.Duration,
	lg *log.Logger) error {
	s, err := sim.NewSim(config.SimConfig(), lg)
	if err != nil {
		return err
	}
	defer s.Destroy()

	sub := s.Subscribe()
	defer sub.Unsubscribe()

	h := &headlessRunner{sim: s, sub: sub, out: out, lg: lg}
	if err := h.runScript(ctx, script); err != nil {
		return err
	}

	// Run out whatever time is left after the script.
	for h.elapsed < duration && s.Status() != sim.StatusFailed {
		if err := h.wait(ctx, headlessTick); err != nil {
			return err
		}
	}

	st := s.Stats()
	fmt.Fprintf(out, "-- %s after %s: %d spawned, %d landed, %d departed, %d left airspace, %d conflicts\n",
		s.Status(), h.elapsed, st.Spawned, st.Landed, st.Departed, st.LeftAirspace, st.Conflicts)

	if config.Sim.RecordPath != "" {
		if err := s.SaveRecording(config.Sim.RecordPath); err != nil {
			return err
		}
		lg.Info("saved recording", slog.String("path", config.Sim.RecordPath))
	}
	return nil
}

type headlessRunner struct {
	sim     *sim.Sim
	sub     *sim.EventsSubscription
	out     io.Writer
	elapsed time.Duration // wall clock time the script has waited
	lg      *log.Logger
}

func (h *headlessRunner) runScript(ctx context.Context, script io.Reader) error {
	scanner := bufio.NewScanner(script)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := h.runLine(ctx, line); err != nil {
			return fmt.Errorf("line %d: %q: %w", lineno, line, err)
		}
		h.flush()
	}
	return scanner.Err()
}

func (h *headlessRunner) runLine(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	switch strings.ToUpper(fields[0]) {
	case "WAIT":
		if len(fields) != 2 {
			return fmt.Errorf("expected WAIT <seconds>")
		}
		sec, err := strconv.Atoi(fields[1])
		if err != nil || sec < 0 {
			return fmt.Errorf("%s: invalid number of seconds", fields[1])
		}
		return h.wait(ctx, time.Duration(sec)*time.Second)

	case "PAUSE":
		h.sim.SetPaused(true)

	case "RESUME":
		h.sim.SetPaused(false)

	case "SCALE":
		if len(fields) != 2 {
			return fmt.Errorf("expected SCALE <factor>")
		}
		v, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return fmt.Errorf("%s: %w", fields[1], sim.ErrInvalidTimeScale)
		}
		if _, err := h.sim.SetTimeScale(float32(v)); err != nil {
			return err
		}

	case "RESTART":
		h.sim.Restart()
		h.elapsed = 0

	default:
		// Rejected commands are part of the game, not script errors; the
		// reply shows up in the message log.
		r := h.sim.RunCommand(line)
		h.lg.Debug("headless command", slog.Any("result", r))
	}
	return nil
}

func (h *headlessRunner) wait(ctx context.Context, d time.Duration) error {
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := min(d, headlessTick)
		h.sim.Advance(step)
		h.elapsed += step
		d -= step
		h.flush()
	}
	return nil
}

// flush writes any new messages to the output.
func (h *headlessRunner) flush() {
	for _, e := range h.sub.Get() {
		switch e.Type {
		case sim.RadioTransmissionEvent:
			fmt.Fprintln(h.out, sim.Message{Sender: e.Sender, Text: e.Text, Time: e.Time})
		case sim.StatusMessageEvent:
			fmt.Fprintf(h.out, "-- %s\n", e.Text)
		}
	}
}
