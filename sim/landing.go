// sim/landing.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"
)

// Landing clearance limits.
const (
	LandingEntryRadius      = 10 // world units from the entry point
	LandingHeadingTolerance = 20 // degrees either side of the runway heading
	LandingMinAltitude      = 2000
	LandingMaxAltitude      = 3000
)

// CheckLanding returns nil if an aircraft in the given state may be
// cleared to land on the runway end. Otherwise it returns the first
// failing condition, checked in the order position, heading, altitude.
func CheckLanding(end av.RunwayEnd, pos [2]float32, heading, altitude float32) error {
	if math.Distance2f(pos, end.EntryPoint) > LandingEntryRadius {
		return ErrNotAtEntryPoint
	}
	if math.HeadingDifference(heading, end.Heading) > LandingHeadingTolerance {
		return ErrNotAligned
	}
	if altitude < LandingMinAltitude || altitude > LandingMaxAltitude {
		return ErrNotAtLandingAltitude
	}
	return nil
}

func (s *Sim) clearToLand(callsign string, end av.RunwayEnd) (string, error) {
	ac, ok := s.State.Aircraft[callsign]
	if !ok {
		return "", fmt.Errorf("%s: %w", callsign, ErrNotAirborne)
	}

	if err := CheckLanding(end, ac.Position(), ac.Heading(), ac.Altitude()); err != nil {
		s.lg.Info("landing denied", slog.String("callsign", callsign), slog.String("runway", end.Id),
			slog.Any("aircraft", ac), slog.Any("error", err))
		return "", fmt.Errorf("runway %s: %w", end.Id, err)
	}

	s.lg.Info("landed", slog.String("callsign", callsign), slog.String("runway", end.Id))
	s.removeAircraft(ac)
	s.State.Stats.Landed++
	s.eventStream.Post(Event{
		Type:     LandedEvent,
		Callsign: callsign,
		Text:     end.Id,
		Time:     s.State.Elapsed,
	})

	return fmt.Sprintf("Cleared to land runway %s, %s", end.Id, callsign), nil
}
