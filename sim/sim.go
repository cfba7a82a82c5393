// sim/sim.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/math"
	"github.com/radarsim/radarsim/rand"
	"github.com/radarsim/radarsim/util"

	"github.com/brunoga/deep"
	"github.com/goforj/godump"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultMaxAircraft = 10
	MinTimeScale       = 0.5
	MaxTimeScale       = 8

	// Number of recently removed callsigns that won't be reused.
	retiredCallsignCount = 64
)

// Config holds the settings a sim is created with. Restart creates a new
// run with the same configuration.
type Config struct {
	Airport    string
	Difficulty av.Difficulty
	// Seed for the random number generator; zero selects one based on
	// the current time.
	Seed        int64
	TimeScale   float32
	MaxAircraft int
	// Record enables collection of a Recording that can be replayed.
	Record bool
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("airport", c.Airport),
		slog.String("difficulty", c.Difficulty.String()),
		slog.Int64("seed", c.Seed),
		slog.Float64("time_scale", float64(c.TimeScale)),
		slog.Int("max_aircraft", c.MaxAircraft),
		slog.Bool("record", c.Record))
}

type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusFailed:
		return "Failed"
	default:
		panic(fmt.Sprintf("%d: unhandled Status", s))
	}
}

type Stats struct {
	Spawned      int
	Landed       int
	Departed     int
	LeftAirspace int
	Conflicts    int
}

// State is everything that changes as the sim runs. Snapshot returns a
// deep copy of it.
type State struct {
	Status    Status
	Elapsed   time.Duration // simulated time since start
	Ticks     int64
	TimeScale float32

	Aircraft map[string]*Aircraft
	// Departures waiting for takeoff clearance, in the order they called.
	Holding []Departure

	PendingCommands []string
	Messages        []Message
	Conflicts       []ConflictPair
	Stats           Stats

	NextArrival   time.Duration
	NextDeparture time.Duration

	// Set when the sim has failed.
	Collision     ConflictPair
	FailureReason string
}

type Sim struct {
	Config Config
	State  *State

	mu util.LoggingMutex

	Rand *rand.Rand

	airport          *av.Airport
	retiredCallsigns *lru.Cache[string, struct{}]
	recording        *Recording

	eventStream *EventStream
	lg          *log.Logger
}

// NewSim returns a sim for the given configuration, ready for its first
// Tick. A nil logger discards all logging.
func NewSim(config Config, lg *log.Logger) (*Sim, error) {
	if lg == nil {
		lg = log.NewDiscard()
	}

	ap, err := av.LookupAirport(config.Airport)
	if err != nil {
		return nil, err
	}
	config.Airport = ap.Name

	if config.MaxAircraft <= 0 {
		config.MaxAircraft = DefaultMaxAircraft
	}
	if config.TimeScale == 0 {
		config.TimeScale = 1
	}
	config.TimeScale = math.Clamp(config.TimeScale, MinTimeScale, MaxTimeScale)

	r := rand.Make()
	if config.Seed != 0 {
		r.Seed(config.Seed)
	}
	config.Seed = r.InitialSeed()

	retired, err := lru.New[string, struct{}](retiredCallsignCount)
	if err != nil {
		return nil, err
	}

	s := &Sim{
		Config:           config,
		Rand:             r,
		airport:          ap,
		retiredCallsigns: retired,
		eventStream:      NewEventStream(lg),
		lg:               lg,
	}
	s.State = s.newState()
	if config.Record {
		s.recording = newRecording(config)
	}

	lg.Info("new sim", slog.Any("config", config))
	if lg.Enabled(context.Background(), slog.LevelDebug) {
		lg.Debug("airport", slog.String("dump", godump.DumpStr(ap)))
	}

	return s, nil
}

func (s *Sim) newState() *State {
	return &State{
		Status:    StatusRunning,
		TimeScale: s.Config.TimeScale,
		Aircraft:  make(map[string]*Aircraft),
		// The first arrival shows up right away; departures wait.
		NextArrival:   0,
		NextDeparture: randomWait(s.Config.Difficulty.DepartureInterval(), s.Rand),
	}
}

func (s *Sim) Destroy() {
	s.eventStream.Destroy()
}

// Subscribe creates a new event subscription for this simulation.
// The caller is responsible for calling Unsubscribe when done.
func (s *Sim) Subscribe() *EventsSubscription {
	return s.eventStream.Subscribe()
}

func (s *Sim) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("config", s.Config),
		slog.String("status", s.State.Status.String()),
		slog.Duration("elapsed", s.State.Elapsed),
		slog.Int64("ticks", s.State.Ticks),
		slog.Int("aircraft", len(s.State.Aircraft)),
		slog.Int("holding", len(s.State.Holding)),
		slog.Any("stats", s.State.Stats),
		slog.Duration("next_arrival", s.State.NextArrival),
		slog.Duration("next_departure", s.State.NextDeparture))
}

func (s *Sim) Airport() *av.Airport {
	return s.airport
}

// Tick advances the simulation by dt of simulated time. The order is
// fixed: spawn, move, remove aircraft that have left, check separation,
// then apply at most one queued command. Only the last step runs while
// paused, and nothing runs once the sim has failed.
func (s *Sim) Tick(dt time.Duration) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.tick(dt)
}

func (s *Sim) tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if dt > 10*time.Second {
		s.lg.Warn("unexpectedly long tick", slog.Duration("dt", dt))
	}

	s.recordTick(dt)
	s.State.Ticks++

	switch s.State.Status {
	case StatusFailed:
		return

	case StatusRunning:
		s.State.Elapsed += dt
		s.spawnAircraft()
		s.updateAircraft(dt)
		s.removeDeparted()
		s.checkSeparation()
		if s.State.Status == StatusFailed {
			return
		}
	}

	s.applyPendingCommand()
}

// Advance runs a single tick covering the given amount of wall clock
// time, scaled by the current time scale.
func (s *Sim) Advance(wall time.Duration) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.tick(time.Duration(float64(wall) * float64(s.State.TimeScale)))
}

func (s *Sim) updateAircraft(dt time.Duration) {
	sec := float32(dt.Seconds())
	for _, ac := range s.sortedAircraft() {
		ac.Nav.Update(ac.Callsign, sec)
	}
}

// removeDeparted removes aircraft that have flown out of the world
// bounds.
func (s *Sim) removeDeparted() {
	bounds := av.WorldBounds()
	for _, ac := range s.sortedAircraft() {
		if bounds.Inside(ac.Position()) {
			continue
		}

		s.removeAircraft(ac)
		s.lg.Info("left airspace", slog.Any("aircraft", ac))

		if ac.IsDeparture() {
			s.State.Stats.Departed++
			s.eventStream.Post(Event{Type: DepartedEvent, Callsign: ac.Callsign, Time: s.State.Elapsed})
			s.postMessage(ac.Callsign, "Leaving the airspace, good day")
		} else {
			s.State.Stats.LeftAirspace++
			s.eventStream.Post(Event{Type: LeftAirspaceEvent, Callsign: ac.Callsign, Time: s.State.Elapsed})
			s.postMessage(SenderTower, ac.Callsign+" has left the airspace")
		}
	}
}

// sortedAircraft returns the active aircraft ordered by callsign so that
// updates happen in the same order on every run.
func (s *Sim) sortedAircraft() []*Aircraft {
	return util.MapSlice(util.SortedMapKeys(s.State.Aircraft),
		func(cs string) *Aircraft { return s.State.Aircraft[cs] })
}

func (s *Sim) TogglePause() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.setPaused(s.State.Status != StatusPaused)
}

func (s *Sim) SetPaused(paused bool) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.setPaused(paused)
}

func (s *Sim) setPaused(paused bool) {
	if s.State.Status == StatusFailed {
		return
	}

	if paused && s.State.Status == StatusRunning {
		s.recordInput(InputPause, "", 0)
		s.State.Status = StatusPaused
		s.postStatus("Paused")
	} else if !paused && s.State.Status == StatusPaused {
		s.recordInput(InputResume, "", 0)
		s.State.Status = StatusRunning
		s.postStatus("Resumed")
	}
}

// SetTimeScale sets the rate at which simulated time passes relative to
// wall clock time in Advance. The value is clamped to the supported
// range; the value actually used is returned.
func (s *Sim) SetTimeScale(scale float32) (float32, error) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if scale <= 0 || scale != scale { // NaN
		return s.State.TimeScale, fmt.Errorf("%v: %w", scale, ErrInvalidTimeScale)
	}

	scale = math.Clamp(scale, MinTimeScale, MaxTimeScale)
	s.recordInput(InputTimeScale, "", scale)
	s.State.TimeScale = scale
	s.postStatus(fmt.Sprintf("Time scale %.1fx", scale))
	return scale, nil
}

// Restart discards the current run and starts a new one with the same
// configuration.
func (s *Sim) Restart() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.lg.Info("restart", slog.Any("sim", s))

	s.Rand.Seed(s.Config.Seed)
	s.retiredCallsigns.Purge()
	s.State = s.newState()
	if s.Config.Record {
		s.recording = newRecording(s.Config)
	}

	s.postStatus("Simulation restarted")
}

// Snapshot returns a copy of the current state that the caller may use
// freely while the sim continues to run.
func (s *Sim) Snapshot() State {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return deep.MustCopy(*s.State)
}

func (s *Sim) Status() Status {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.State.Status
}

func (s *Sim) Stats() Stats {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.State.Stats
}

// SetSelected marks the given aircraft as selected and clears the
// selection of all others; an empty callsign clears the selection.
func (s *Sim) SetSelected(callsign string) error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if _, ok := s.State.Aircraft[callsign]; callsign != "" && !ok {
		return fmt.Errorf("%s: %w", callsign, ErrUnknownCallsign)
	}
	for cs, ac := range s.State.Aircraft {
		ac.Selected = cs == callsign
	}
	return nil
}

type AircraftDisplayState struct {
	Spew        string // for debugging
	FlightState string // for display when paused
}

func (s *Sim) GetAircraftDisplayState(callsign string) (AircraftDisplayState, error) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if ac, ok := s.State.Aircraft[callsign]; !ok {
		return AircraftDisplayState{}, fmt.Errorf("%s: %w", callsign, ErrUnknownCallsign)
	} else {
		return AircraftDisplayState{
			Spew:        godump.DumpStr(ac),
			FlightState: ac.Nav.Summary(),
		}, nil
	}
}
