// sim/replay.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/util"
)

// RecordingVersion should be incremented whenever the Recording format
// or anything that affects the simulation's evolution changes.
const RecordingVersion = 1

type InputKind int

const (
	InputRunCommand InputKind = iota
	InputSubmitCommand
	InputPause
	InputResume
	InputTimeScale
)

func (k InputKind) String() string {
	switch k {
	case InputRunCommand:
		return "RunCommand"
	case InputSubmitCommand:
		return "SubmitCommand"
	case InputPause:
		return "Pause"
	case InputResume:
		return "Resume"
	case InputTimeScale:
		return "TimeScale"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

func (k InputKind) valid() bool {
	return k >= InputRunCommand && k <= InputTimeScale
}

// Input is a single operator action. Tick is the number of ticks that had
// completed when it happened.
type Input struct {
	Tick  int64
	Kind  InputKind
	Line  string  `msgpack:",omitempty"`
	Value float32 `msgpack:",omitempty"`
}

// TickRun records Count consecutive ticks with the same dt.
type TickRun struct {
	Count int64
	Dt    time.Duration
}

// RecordingSummary describes where the recorded run ended up; Replay
// checks that it gets to the same place.
type RecordingSummary struct {
	Ticks   int64
	Elapsed time.Duration
	Status  Status
	Stats   Stats
}

// Recording holds everything needed to reproduce a run: the
// configuration including the seed, and every input along with when it
// happened.
type Recording struct {
	Version int
	Config  Config
	Inputs  []Input
	Ticks   []TickRun
	Final   RecordingSummary
}

func (r *Recording) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("version", r.Version),
		slog.Any("config", r.Config),
		slog.Int("inputs", len(r.Inputs)),
		slog.Int64("ticks", r.Final.Ticks),
		slog.Duration("elapsed", r.Final.Elapsed))
}

func newRecording(config Config) *Recording {
	config.Record = false
	return &Recording{Version: RecordingVersion, Config: config}
}

func (s *Sim) recordInput(kind InputKind, line string, value float32) {
	if s.recording != nil {
		s.recording.Inputs = append(s.recording.Inputs,
			Input{Tick: s.State.Ticks, Kind: kind, Line: line, Value: value})
	}
}

func (s *Sim) recordTick(dt time.Duration) {
	if s.recording == nil {
		return
	}
	if n := len(s.recording.Ticks); n > 0 && s.recording.Ticks[n-1].Dt == dt {
		s.recording.Ticks[n-1].Count++
	} else {
		s.recording.Ticks = append(s.recording.Ticks, TickRun{Count: 1, Dt: dt})
	}
}

// Recording returns a copy of the recording of the run so far, or nil if
// the sim isn't recording.
func (s *Sim) Recording() *Recording {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if s.recording == nil {
		return nil
	}

	rec := *s.recording
	rec.Inputs = slices.Clone(rec.Inputs)
	rec.Ticks = slices.Clone(rec.Ticks)
	rec.Final = RecordingSummary{
		Ticks:   s.State.Ticks,
		Elapsed: s.State.Elapsed,
		Status:  s.State.Status,
		Stats:   s.State.Stats,
	}
	return &rec
}

// SaveRecording writes the sim's recording to the given file.
func (s *Sim) SaveRecording(path string) error {
	rec := s.Recording()
	if rec == nil {
		return fmt.Errorf("sim is not recording")
	}
	s.lg.Info("saving recording", slog.String("path", path), slog.Any("recording", rec))
	return util.StoreObject(path, rec)
}

func LoadRecording(path string) (*Recording, error) {
	var rec Recording
	if err := util.RetrieveObject(path, &rec); err != nil {
		return nil, err
	}
	if rec.Version != RecordingVersion {
		return nil, fmt.Errorf("%d: %w", rec.Version, ErrUnsupportedRecording)
	}
	return &rec, nil
}

func (s *Sim) applyInput(in Input) {
	switch in.Kind {
	case InputRunCommand:
		s.RunCommand(in.Line)
	case InputSubmitCommand:
		s.SubmitCommand(in.Line)
	case InputPause:
		s.SetPaused(true)
	case InputResume:
		s.SetPaused(false)
	case InputTimeScale:
		if _, err := s.SetTimeScale(in.Value); err != nil {
			s.lg.Warn("replay: bad time scale", slog.Any("input", in), slog.Any("error", err))
		}
	default:
		s.lg.Errorf("%s: unhandled input kind", in.Kind)
	}
}

// Replay runs the recorded session from the beginning and returns the
// resulting sim. An error is returned if the replay does not end up in
// the same state as the recorded run did.
func Replay(rec *Recording, lg *log.Logger) (*Sim, error) {
	if rec.Version != RecordingVersion {
		return nil, fmt.Errorf("%d: %w", rec.Version, ErrUnsupportedRecording)
	}
	for _, in := range rec.Inputs {
		if !in.Kind.valid() {
			return nil, fmt.Errorf("input at tick %d: %s: %w", in.Tick, in.Kind, ErrUnsupportedRecording)
		}
	}

	config := rec.Config
	config.Record = false
	s, err := NewSim(config, lg)
	if err != nil {
		return nil, err
	}

	inputs := rec.Inputs
	var tick int64
	applyInputs := func() {
		for len(inputs) > 0 && inputs[0].Tick <= tick {
			s.applyInput(inputs[0])
			inputs = inputs[1:]
		}
	}

	for _, run := range rec.Ticks {
		for range run.Count {
			applyInputs()
			s.Tick(run.Dt)
			tick++
		}
	}
	applyInputs()

	final := RecordingSummary{
		Ticks:   s.State.Ticks,
		Elapsed: s.State.Elapsed,
		Status:  s.State.Status,
		Stats:   s.State.Stats,
	}
	if final != rec.Final {
		s.lg.Warn("replay mismatch", slog.Any("recorded", rec.Final), slog.Any("replayed", final))
		return s, fmt.Errorf("recorded %+v, replayed %+v: %w", rec.Final, final, ErrRecordingMismatch)
	}

	return s, nil
}
