// sim/replay_test.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/util"
)

// recordSession runs a sim with a mix of tick lengths and operator input
// and returns it.
func recordSession(t *testing.T) *Sim {
	t.Helper()

	s, err := NewSim(Config{Airport: "Heathrow", Difficulty: av.Realistic, Seed: 2024, Record: true},
		log.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Destroy)

	for i := range 600 {
		// Frame times that vary every so often, as from a real front end.
		s.Advance(time.Duration(900+(i/20%7)*50) * time.Millisecond)

		switch i {
		case 50, 200, 350:
			// Vector whichever aircraft is first alphabetically.
			if keys := util.SortedMapKeys(s.State.Aircraft); len(keys) > 0 {
				s.RunCommand(keys[0] + " HDG180 SPD220 FL60")
			}
		case 100:
			s.SubmitCommand("BA9999 HDG180 SPD220 FL60")
		case 150:
			s.TogglePause()
		case 160:
			s.TogglePause()
		case 250:
			s.SetTimeScale(2)
		case 300:
			if len(s.State.Holding) > 0 {
				d := s.State.Holding[0]
				s.RunCommand(d.Callsign + " CLEARED FOR TAKEOFF RWY" + d.Runway)
			}
		}
	}
	return s
}

func TestRecordAndReplay(t *testing.T) {
	s := recordSession(t)
	rec := s.Recording()
	if rec == nil {
		t.Fatal("no recording")
	}
	if rec.Final.Ticks != 600 {
		t.Errorf("expected 600 ticks recorded, got %d", rec.Final.Ticks)
	}
	if len(rec.Inputs) < 4 {
		t.Errorf("expected inputs to be recorded, got %d", len(rec.Inputs))
	}
	var n int64
	for _, run := range rec.Ticks {
		n += run.Count
	}
	if n != 600 || len(rec.Ticks) >= 600 {
		t.Errorf("expected 600 run-length encoded ticks, got %d in %d runs", n, len(rec.Ticks))
	}

	path := filepath.Join(t.TempDir(), "session.rec")
	if err := s.SaveRecording(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadRecording(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, rec) {
		t.Errorf("recording changed when saved and loaded")
	}

	r, err := Replay(loaded, log.NewDiscard())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	defer r.Destroy()

	if a, b := s.Snapshot(), r.Snapshot(); !reflect.DeepEqual(a, b) {
		t.Errorf("replay diverged: %+v vs %+v", a.Stats, b.Stats)
	}
}

func TestInputKindString(t *testing.T) {
	for k, s := range map[InputKind]string{InputRunCommand: "RunCommand", InputTimeScale: "TimeScale",
		InputKind(-1): "InputKind(-1)", InputKind(42): "InputKind(42)"} {
		if k.String() != s {
			t.Errorf("%d: got %q, expected %q", int(k), k.String(), s)
		}
	}
}

func TestReplayErrors(t *testing.T) {
	s := recordSession(t)

	rec := s.Recording()
	rec.Final.Stats.Landed++
	if _, err := Replay(rec, nil); !errors.Is(err, ErrRecordingMismatch) {
		t.Errorf("expected %v, got %v", ErrRecordingMismatch, err)
	}

	rec = s.Recording()
	rec.Version = RecordingVersion + 1
	if _, err := Replay(rec, nil); !errors.Is(err, ErrUnsupportedRecording) {
		t.Errorf("expected %v, got %v", ErrUnsupportedRecording, err)
	}

	rec = s.Recording()
	rec.Inputs = append(rec.Inputs, Input{Tick: 1, Kind: InputKind(99)})
	if _, err := Replay(rec, nil); !errors.Is(err, ErrUnsupportedRecording) {
		t.Errorf("expected %v for an unknown input kind, got %v", ErrUnsupportedRecording, err)
	} else if !strings.Contains(err.Error(), "InputKind(99)") {
		t.Errorf("error %q does not name the input kind", err)
	}

	unrecorded := NewTestSim(t)
	if unrecorded.Recording() != nil {
		t.Errorf("expected no recording")
	}
	if err := unrecorded.SaveRecording(filepath.Join(t.TempDir(), "x.rec")); err == nil {
		t.Errorf("expected error saving without a recording")
	}
}
