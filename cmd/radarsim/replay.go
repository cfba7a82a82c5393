// cmd/radarsim/replay.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/sim"

	"github.com/goforj/godump"
)

// runReplay loads a recorded session, runs it again from the start, and
// reports whether it reproduced the original. With dump set, the final
// state of every aircraft still active is printed as well.
func runReplay(path string, dump bool, out io.Writer, lg *log.Logger) error {
	rec, err := sim.LoadRecording(path)
	if err != nil {
		return err
	}
	lg.Info("replaying", slog.String("path", path), slog.Any("recording", rec))

	fmt.Fprintf(out, "%s: %s, %s, seed %d, %d inputs over %d ticks (%s simulated)\n", path,
		rec.Config.Airport, rec.Config.Difficulty, rec.Config.Seed, len(rec.Inputs), rec.Final.Ticks,
		rec.Final.Elapsed.Truncate(time.Second))
	if dump {
		fmt.Fprintln(out, godump.DumpStr(rec.Config))
	}

	start := time.Now()
	s, err := sim.Replay(rec, lg)
	if err != nil {
		return err
	}
	defer s.Destroy()

	st := s.Stats()
	fmt.Fprintf(out, "Replay matches (%s): %s, %d spawned, %d landed, %d departed, %d left airspace, %d conflicts\n",
		time.Since(start).Truncate(time.Millisecond), s.Status(), st.Spawned, st.Landed, st.Departed,
		st.LeftAirspace, st.Conflicts)

	if dump {
		state := s.Snapshot()
		if state.FailureReason != "" {
			fmt.Fprintf(out, "Failed: %s\n", state.FailureReason)
		}
		for _, cs := range sortedCallsigns(state) {
			ds, err := s.GetAircraftDisplayState(cs)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n%s\n", cs, ds.FlightState, ds.Spew)
		}
	}
	return nil
}
