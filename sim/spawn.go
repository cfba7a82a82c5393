// sim/spawn.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"
	"github.com/radarsim/radarsim/nav"
	"github.com/radarsim/radarsim/rand"
)

// spawnPlacementAttempts bounds how many random positions are tried to
// find one that isn't already in conflict with existing traffic.
const spawnPlacementAttempts = 8

// randomWait returns a random duration within 15% of avg.
func randomWait(avg time.Duration, r *rand.Rand) time.Duration {
	if avg == 0 {
		return 365 * 24 * time.Hour
	}

	avgSeconds := float32(avg.Seconds())
	seconds := math.Lerp(r.Float32(), .85*avgSeconds, 1.15*avgSeconds)
	return time.Duration(seconds * float32(time.Second))
}

func (s *Sim) spawnAircraft() {
	now := s.State.Elapsed

	if now >= s.State.NextArrival {
		if len(s.State.Aircraft) >= s.Config.MaxAircraft {
			s.lg.Debug("arrival skipped, airspace full", slog.Int("aircraft", len(s.State.Aircraft)))
			s.State.NextArrival = now + randomWait(s.Config.Difficulty.ArrivalInterval(), s.Rand)
		} else if s.spawnArrival() {
			s.State.NextArrival = now + randomWait(s.Config.Difficulty.ArrivalInterval(), s.Rand)
		} else {
			// Leave the timer expired so that it's tried again next tick.
			s.lg.Debug("arrival deferred, no clear entry position")
		}
	}

	if iv := s.Config.Difficulty.DepartureInterval(); iv != 0 && now >= s.State.NextDeparture {
		if len(s.State.Holding) < MaxHoldingDepartures {
			s.spawnDeparture()
		}
		s.State.NextDeparture = now + randomWait(iv, s.Rand)
	}
}

func (s *Sim) samplePerformance() av.AircraftPerformance {
	perf, err := av.LookupAircraftPerformance(rand.SampleSlice(s.Rand, av.AircraftTypes()))
	if err != nil {
		// AircraftTypes only returns types that have performance data.
		panic(err)
	}
	return perf
}

// randomEdgePosition returns a random point on one of the four edges of
// the visible area.
func (s *Sim) randomEdgePosition() [2]float32 {
	ext := av.VisibleExtent()
	t := s.Rand.Float32()
	switch s.Rand.Intn(4) {
	case 0: // north
		return ext.Lerp([2]float32{t, 1})
	case 1: // east
		return ext.Lerp([2]float32{1, t})
	case 2: // south
		return ext.Lerp([2]float32{t, 0})
	default: // west
		return ext.Lerp([2]float32{0, t})
	}
}

// spawnArrival adds a new arrival at the edge of the visible area. It
// returns false without spawning anything if no position clear of
// existing traffic was found.
func (s *Sim) spawnArrival() bool {
	perf := s.samplePerformance()

	var fs nav.FlightState
	found := false
	for range spawnPlacementAttempts {
		pos := s.randomEdgePosition()
		fs = nav.FlightState{
			Position: pos,
			Heading:  math.Heading2f(math.Sub2f(s.airport.ApproachFix(), pos)),
			GS:       float32(10 * s.Rand.IntRange(perf.Spawn.Speed[0]/10, perf.Spawn.Speed[1]/10)),
			Altitude: float32(1000 * s.Rand.IntRange(perf.Spawn.Altitude[0], perf.Spawn.Altitude[1])),
		}
		if !s.conflictsWithTraffic(fs) {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	callsign := s.newCallsign()
	origins := av.Origins
	origin := origins[0]
	if idx := rand.SampleFiltered(s.Rand, origins, func(o string) bool { return o != s.airport.ICAO }); idx != -1 {
		origin = origins[idx]
	}

	ac := &Aircraft{
		Callsign:     callsign,
		TypeOfFlight: av.FlightTypeArrival,
		Origin:       origin,
		Nav:          nav.MakeNav(fs, perf),
		SpawnTime:    s.State.Elapsed,
	}
	s.State.Aircraft[callsign] = ac
	s.State.Stats.Spawned++

	s.lg.Info("spawned arrival", slog.Any("aircraft", ac))
	s.eventStream.Post(Event{
		Type:     SpawnedEvent,
		Callsign: callsign,
		Text:     origin,
		Time:     s.State.Elapsed,
	})
	s.postMessage(callsign, fmt.Sprintf("With you at %.0f feet, inbound from %s", fs.Altitude, origin))
	return true
}

func (s *Sim) spawnDeparture() {
	dep := Departure{
		Callsign:  s.newCallsign(),
		Runway:    rand.SampleSlice(s.Rand, s.airport.RunwayEnds()).Id,
		Perf:      s.samplePerformance(),
		SpawnTime: s.State.Elapsed,
	}
	s.State.Holding = append(s.State.Holding, dep)
	s.State.Stats.Spawned++

	s.lg.Info("spawned departure", slog.Any("departure", dep))
	s.eventStream.Post(Event{
		Type:     SpawnedEvent,
		Callsign: dep.Callsign,
		Text:     dep.Runway,
		Time:     s.State.Elapsed,
	})
	s.postMessage(dep.Callsign, "Holding short runway "+dep.Runway+", ready for departure")
}

// conflictsWithTraffic reports whether an aircraft spawned in the given
// state would be in conflict with any existing aircraft.
func (s *Sim) conflictsWithTraffic(fs nav.FlightState) bool {
	probe := &Aircraft{Nav: nav.Nav{FlightState: fs}}
	for _, ac := range s.State.Aircraft {
		if InConflict(probe, ac) {
			return true
		}
	}
	return false
}

// newCallsign returns a callsign that is not in use and hasn't been used
// recently.
func (s *Sim) newCallsign() string {
	for {
		cs := av.MakeCallsign(rand.SampleSlice(s.Rand, av.Airlines), s.Rand.IntRange(1, 9999))
		if _, ok := s.State.Aircraft[cs]; ok {
			continue
		}
		if s.holdingDeparture(cs) != nil || s.retiredCallsigns.Contains(cs) {
			continue
		}
		return cs
	}
}

// removeAircraft deletes an aircraft from the active set; its callsign is
// not reissued for a while.
func (s *Sim) removeAircraft(ac *Aircraft) {
	delete(s.State.Aircraft, ac.Callsign)
	s.State.Conflicts = slices.DeleteFunc(s.State.Conflicts, func(p ConflictPair) bool {
		return p[0] == ac.Callsign || p[1] == ac.Callsign
	})
	s.retiredCallsigns.Add(ac.Callsign, struct{}{})
}
