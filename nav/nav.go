// nav/nav.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"log/slog"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"

	"github.com/brunoga/deep"
)

// Nav holds an aircraft's kinematic state and the targets the controller
// has assigned. Update moves the former toward the latter.
type Nav struct {
	FlightState FlightState
	Targets     Targets
	Perf        av.AircraftPerformance
}

type FlightState struct {
	Position [2]float32 // world units
	Heading  float32    // degrees true, [0,360)
	GS       float32    // knots
	Altitude float32    // feet
}

// Targets stores the single pending assignment for each axis; a new
// assignment overwrites the previous one.
type Targets struct {
	Heading  float32
	Speed    float32
	Altitude float32
}

// NavSnapshot captures the controller-modifiable state in Nav so that it
// can be restored if a command has to be rolled back.
type NavSnapshot struct {
	Targets Targets
}

// MakeNav returns a Nav in the given state whose targets are the current
// values, so the aircraft holds heading, speed and altitude until told
// otherwise.
func MakeNav(fs FlightState, perf av.AircraftPerformance) Nav {
	fs.Heading = math.NormalizeHeading(fs.Heading)
	return Nav{
		FlightState: fs,
		Targets: Targets{
			Heading:  fs.Heading,
			Speed:    fs.GS,
			Altitude: fs.Altitude,
		},
		Perf: perf,
	}
}

func (nav *Nav) TakeSnapshot() NavSnapshot {
	return deep.MustCopy(NavSnapshot{Targets: nav.Targets})
}

func (nav *Nav) RestoreSnapshot(snap NavSnapshot) {
	nav.Targets = snap.Targets
}

// AssignHeading, AssignSpeed and AssignAltitude set the corresponding
// target. Values are expected to have been validated and clamped already.
func (nav *Nav) AssignHeading(hdg float32) {
	nav.Targets.Heading = math.NormalizeHeading(hdg)
}

func (nav *Nav) AssignSpeed(spd float32) {
	nav.Targets.Speed = spd
}

func (nav *Nav) AssignAltitude(alt float32) {
	nav.Targets.Altitude = alt
}

// Update advances the aircraft by dt seconds: heading, speed and altitude
// each move toward their targets at the aircraft's rate limits, and then
// the position is advanced along the new heading at the new speed. It
// only touches this aircraft's state.
func (nav *Nav) Update(callsign string, dt float32) {
	if dt <= 0 {
		return
	}

	nav.updateHeading(callsign, dt)
	nav.updateSpeed(callsign, dt)
	nav.updateAltitude(callsign, dt)
	nav.updatePosition(dt)

	if NavLogEnabled(NavLogState) {
		NavLog(callsign, NavLogState, "%s", nav.Summary())
	}
}

func (nav *Nav) updateHeading(callsign string, dt float32) {
	cur, target := nav.FlightState.Heading, nav.Targets.Heading
	if cur == target {
		return
	}

	turnRate := nav.Perf.Rate.Turn * dt
	turn := math.HeadingSignedTurn(cur, target)
	NavLog(callsign, NavLogHeading, "target=%.0f current=%.1f turn=%.1f max=%.2f", target, cur, turn, turnRate)

	if math.Abs(turn) <= turnRate {
		nav.FlightState.Heading = target
		return
	}

	turn = math.Clamp(turn, -turnRate, turnRate)
	nav.FlightState.Heading = math.NormalizeHeading(cur + turn)
}

func (nav *Nav) updateSpeed(callsign string, dt float32) {
	if nav.FlightState.GS == nav.Targets.Speed {
		return
	}
	NavLog(callsign, NavLogSpeed, "target=%.0f current=%.1f", nav.Targets.Speed, nav.FlightState.GS)
	nav.FlightState.GS = math.StepToward(nav.FlightState.GS, nav.Targets.Speed, nav.Perf.Rate.Accelerate*dt)
}

func (nav *Nav) updateAltitude(callsign string, dt float32) {
	if nav.FlightState.Altitude == nav.Targets.Altitude {
		return
	}
	NavLog(callsign, NavLogAltitude, "target=%.0f current=%.0f", nav.Targets.Altitude, nav.FlightState.Altitude)
	nav.FlightState.Altitude = math.StepToward(nav.FlightState.Altitude, nav.Targets.Altitude, nav.Perf.Rate.Climb*dt)
}

func (nav *Nav) updatePosition(dt float32) {
	// Offset vector based on heading and current ground speed.
	v := math.Scale2f(math.HeadingVector(nav.FlightState.Heading), av.KnotsToUnitsPerSecond(nav.FlightState.GS)*dt)
	nav.FlightState.Position = math.Add2f(nav.FlightState.Position, v)
}

// Converged reports whether all three targets have been reached.
func (nav *Nav) Converged() bool {
	return nav.FlightState.Heading == nav.Targets.Heading &&
		nav.FlightState.GS == nav.Targets.Speed &&
		nav.FlightState.Altitude == nav.Targets.Altitude
}

func (nav *Nav) Summary() string {
	fs := nav.FlightState
	s := fmt.Sprintf("pos (%.1f, %.1f) hdg %03.0f spd %.0f alt %.0f", fs.Position[0], fs.Position[1],
		fs.Heading, fs.GS, fs.Altitude)
	if !nav.Converged() {
		s += fmt.Sprintf(" -> hdg %03.0f spd %.0f alt %.0f", nav.Targets.Heading, nav.Targets.Speed,
			nav.Targets.Altitude)
	}
	return s
}

func (nav *Nav) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", nav.Perf.ICAO),
		slog.Any("position", nav.FlightState.Position),
		slog.Float64("heading", float64(nav.FlightState.Heading)),
		slog.Float64("gs", float64(nav.FlightState.GS)),
		slog.Float64("altitude", float64(nav.FlightState.Altitude)),
		slog.Group("targets",
			slog.Float64("heading", float64(nav.Targets.Heading)),
			slog.Float64("speed", float64(nav.Targets.Speed)),
			slog.Float64("altitude", float64(nav.Targets.Altitude))))
}
