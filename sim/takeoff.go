// sim/takeoff.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"slices"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/nav"
)

const (
	// Arrivals within this distance of a threshold and below
	// RunwayProtectedAltitude keep the runway from being used for
	// departures.
	RunwayProtectedRadius   = 5 // nm
	RunwayProtectedAltitude = 3000

	TakeoffSpeed         = 140
	InitialClimbAltitude = 5000
	MaxHoldingDepartures = 3
)

// CheckRunwayClear returns ErrRunwayNotClear, naming the first offending
// aircraft, if any active aircraft is close to the runway end's threshold
// at low altitude.
func CheckRunwayClear(end av.RunwayEnd, aircraft []*Aircraft) error {
	r := av.NMToUnits(RunwayProtectedRadius)
	for _, ac := range aircraft {
		if ac.Altitude() < RunwayProtectedAltitude && ac.distanceTo(end.Threshold) < r {
			return fmt.Errorf("%s: %w", ac.Callsign, ErrRunwayNotClear)
		}
	}
	return nil
}

func (s *Sim) holdingDeparture(callsign string) *Departure {
	if idx := slices.IndexFunc(s.State.Holding, func(d Departure) bool { return d.Callsign == callsign }); idx != -1 {
		return &s.State.Holding[idx]
	}
	return nil
}

func (s *Sim) clearForTakeoff(callsign string, end av.RunwayEnd) (string, error) {
	dep := s.holdingDeparture(callsign)
	if dep == nil {
		return "", fmt.Errorf("%s: %w", callsign, ErrNotHoldingShort)
	}
	if dep.Runway != end.Id {
		return "", fmt.Errorf("holding short of runway %s, not %s: %w", dep.Runway, end.Id, ErrNotHoldingShort)
	}

	if err := CheckRunwayClear(end, s.sortedAircraft()); err != nil {
		s.lg.Info("takeoff denied", slog.String("callsign", callsign), slog.String("runway", end.Id),
			slog.Any("error", err))
		return "", fmt.Errorf("runway %s: %w", end.Id, err)
	}

	ac := &Aircraft{
		Callsign:     callsign,
		TypeOfFlight: av.FlightTypeDeparture,
		Origin:       s.airport.ICAO,
		Runway:       end.Id,
		Nav: nav.MakeNav(nav.FlightState{
			Position: end.Threshold,
			Heading:  end.Heading,
			GS:       TakeoffSpeed,
		}, dep.Perf),
		SpawnTime: dep.SpawnTime,
	}
	ac.Nav.AssignSpeed(dep.Perf.ClimbSpeed)
	ac.Nav.AssignAltitude(InitialClimbAltitude)

	s.State.Holding = slices.DeleteFunc(s.State.Holding, func(d Departure) bool { return d.Callsign == callsign })
	s.State.Aircraft[callsign] = ac

	s.lg.Info("takeoff", slog.Any("aircraft", ac))
	s.eventStream.Post(Event{
		Type:     TakeoffEvent,
		Callsign: callsign,
		Text:     end.Id,
		Time:     s.State.Elapsed,
	})

	return fmt.Sprintf("Cleared for takeoff runway %s, %s", end.Id, callsign), nil
}
