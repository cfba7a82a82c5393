// sim/aircraft.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"
	"github.com/radarsim/radarsim/nav"
)

type Aircraft struct {
	Callsign     string
	TypeOfFlight av.FlightType

	// Origin is the departure airport for arrivals; for departures it is
	// the sim's airport.
	Origin string

	// Runway is only set for departures: the runway end they were
	// cleared for takeoff from.
	Runway string

	// State related to navigation.
	Nav nav.Nav

	// Conflict is recomputed every tick by the separation check.
	Conflict bool
	Selected bool

	SpawnTime time.Duration
}

func (ac *Aircraft) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("callsign", ac.Callsign),
		slog.String("type_of_flight", ac.TypeOfFlight.String()),
		slog.String("origin", ac.Origin),
		slog.String("runway", ac.Runway),
		slog.Bool("conflict", ac.Conflict),
		slog.Any("nav", &ac.Nav))
}

func (ac *Aircraft) Position() [2]float32 { return ac.Nav.FlightState.Position }
func (ac *Aircraft) Heading() float32     { return ac.Nav.FlightState.Heading }
func (ac *Aircraft) GS() float32          { return ac.Nav.FlightState.GS }
func (ac *Aircraft) Altitude() float32    { return ac.Nav.FlightState.Altitude }
func (ac *Aircraft) Type() string         { return ac.Nav.Perf.ICAO }

func (ac *Aircraft) IsDeparture() bool {
	return ac.TypeOfFlight == av.FlightTypeDeparture
}

// DataBlock returns the text shown next to the aircraft's target on the
// scope.
func (ac *Aircraft) DataBlock() [3]string {
	return [3]string{
		ac.Callsign,
		fmt.Sprintf("%03d %s", int(ac.Altitude()+50)/100, ac.Type()),
		fmt.Sprintf("%03.0f %d", ac.Heading(), int(ac.GS()+0.5)),
	}
}

// Departure holds the state of an aircraft waiting for a takeoff
// clearance. It becomes an Aircraft once it is airborne.
type Departure struct {
	Callsign  string
	Runway    string // runway end it is holding short of
	Perf      av.AircraftPerformance
	SpawnTime time.Duration
}

func (d Departure) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("callsign", d.Callsign),
		slog.String("runway", d.Runway),
		slog.String("type", d.Perf.ICAO),
		slog.Duration("spawn_time", d.SpawnTime))
}

func (ac *Aircraft) distanceTo(p [2]float32) float32 {
	return math.Distance2f(ac.Position(), p)
}
