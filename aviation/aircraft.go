// aviation/aircraft.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAircraftType = errors.New("Unknown aircraft type")

// Speed limits that apply to every aircraft, in knots of ground speed.
const (
	MinimumSpeed = 40
	MaximumSpeed = 400
)

// AircraftPerformance collects the per-type rates and envelope used by the
// kinematics.
type AircraftPerformance struct {
	ICAO string

	Rate struct {
		Turn       float32 // degrees/second
		Accelerate float32 // knots/second
		Climb      float32 // feet/second; also used for descent
	}

	Ceiling float32 // feet

	// Ranges used when spawning aircraft of this type.
	Spawn struct {
		Speed    [2]int // knots
		Altitude [2]int // thousands of feet
	}

	// Speed departures accelerate to after takeoff.
	ClimbSpeed float32
}

// ClampSpeed and ClampAltitude constrain values to the aircraft's
// envelope.
func (perf AircraftPerformance) ClampSpeed(spd float32) float32 {
	return min(max(spd, MinimumSpeed), MaximumSpeed)
}

func (perf AircraftPerformance) ClampAltitude(alt float32) float32 {
	return min(max(alt, 0), perf.Ceiling)
}

var aircraftPerformance = map[string]AircraftPerformance{}

func init() {
	add := func(icao string, turn, accel, climb, ceiling float32, spd, alt [2]int, climbSpeed float32) {
		var perf AircraftPerformance
		perf.ICAO = icao
		perf.Rate.Turn = turn
		perf.Rate.Accelerate = accel
		perf.Rate.Climb = climb
		perf.Ceiling = ceiling
		perf.Spawn.Speed = spd
		perf.Spawn.Altitude = alt
		perf.ClimbSpeed = climbSpeed
		aircraftPerformance[icao] = perf
	}

	add("A320", 3, 2.5, 30, 39000, [2]int{220, 300}, [2]int{5, 14}, 250)
	add("B738", 3, 2.5, 32, 41000, [2]int{220, 310}, [2]int{5, 15}, 250)
	add("B777", 2.5, 2, 28, 43100, [2]int{240, 320}, [2]int{7, 18}, 260)
	add("A380", 2, 1.5, 25, 43000, [2]int{240, 320}, [2]int{8, 18}, 260)
}

// AircraftTypes returns the ICAO designators of the known aircraft types,
// in a fixed order.
func AircraftTypes() []string {
	return []string{"A320", "B738", "B777", "A380"}
}

func LookupAircraftPerformance(icao string) (AircraftPerformance, error) {
	if perf, ok := aircraftPerformance[strings.ToUpper(icao)]; ok {
		return perf, nil
	}
	return AircraftPerformance{}, fmt.Errorf("%q: %w", icao, ErrUnknownAircraftType)
}

// Airlines holds the two-letter designators used for callsigns.
var Airlines = []string{"BA", "VS", "EZ", "LS", "FR", "EI", "AF", "KL"}

// Origins are the airports arrivals come from.
var Origins = []string{"EGLL", "EGKK", "EGSS", "EGMC"}

// MakeCallsign returns a callsign like "BA0342".
func MakeCallsign(airline string, number int) string {
	return fmt.Sprintf("%s%04d", airline, number%10000)
}

// FlightType distinguishes arrivals from departures.
type FlightType int

const (
	FlightTypeArrival FlightType = iota
	FlightTypeDeparture
)

func (f FlightType) String() string {
	switch f {
	case FlightTypeArrival:
		return "Arrival"
	case FlightTypeDeparture:
		return "Departure"
	default:
		panic(fmt.Sprintf("%d: unhandled FlightType", f))
	}
}
