// sim/conflict.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"slices"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"
)

// Separation minima.
const (
	ConflictDistance   = 2.5  // nm
	SeparationAltitude = 1000 // feet
	// CollisionDistance is a fixed world-space radius; it does not depend
	// on how the scope is zoomed.
	CollisionDistance = 0.5 // nm
)

// ConflictPair is an unordered pair of callsigns, stored in sorted order.
type ConflictPair [2]string

func makeConflictPair(a, b string) ConflictPair {
	if b < a {
		a, b = b, a
	}
	return ConflictPair{a, b}
}

func (p ConflictPair) String() string { return p[0] + "/" + p[1] }

func horizontalNM(a, b *Aircraft) float32 {
	return av.UnitsToNM(math.Distance2f(a.Position(), b.Position()))
}

func verticalSeparation(a, b *Aircraft) float32 {
	return math.Abs(a.Altitude() - b.Altitude())
}

// InConflict reports whether two aircraft are inside the conflict
// minima. It is symmetric in its arguments.
func InConflict(a, b *Aircraft) bool {
	return horizontalNM(a, b) < ConflictDistance && verticalSeparation(a, b) < SeparationAltitude
}

// InCollision reports whether two aircraft are close enough to have
// collided.
func InCollision(a, b *Aircraft) bool {
	return horizontalNM(a, b) < CollisionDistance && verticalSeparation(a, b) < SeparationAltitude
}

// checkSeparation recomputes every aircraft's conflict flag, posts events
// for conflicts that started or ended this tick, and fails the sim if two
// aircraft collided.
func (s *Sim) checkSeparation() {
	aircraft := s.sortedAircraft()
	for _, ac := range aircraft {
		ac.Conflict = false
	}

	var pairs []ConflictPair
	var collision *ConflictPair
	for i, a := range aircraft {
		for _, b := range aircraft[i+1:] {
			if !InConflict(a, b) {
				continue
			}
			a.Conflict, b.Conflict = true, true
			p := makeConflictPair(a.Callsign, b.Callsign)
			pairs = append(pairs, p)

			if collision == nil && InCollision(a, b) {
				collision = &p
			}
		}
	}

	for _, p := range pairs {
		if !slices.Contains(s.State.Conflicts, p) {
			s.State.Stats.Conflicts++
			s.lg.Info("conflict", slog.String("pair", p.String()))
			s.eventStream.Post(Event{
				Type:      ConflictEvent,
				Callsign:  p[0],
				Callsign2: p[1],
				Time:      s.State.Elapsed,
			})
		}
	}
	for _, p := range s.State.Conflicts {
		if !slices.Contains(pairs, p) {
			s.lg.Info("conflict cleared", slog.String("pair", p.String()))
			s.eventStream.Post(Event{
				Type:      ConflictClearedEvent,
				Callsign:  p[0],
				Callsign2: p[1],
				Time:      s.State.Elapsed,
			})
		}
	}
	s.State.Conflicts = pairs

	if collision != nil {
		s.collide(*collision)
	}
}

func (s *Sim) collide(p ConflictPair) {
	s.State.Status = StatusFailed
	s.State.Collision = p
	s.State.FailureReason = fmt.Errorf("%s and %s: %w", p[0], p[1], ErrCollision).Error()

	s.lg.Warn("collision", slog.String("pair", p.String()), slog.Any("aircraft",
		[]*Aircraft{s.State.Aircraft[p[0]], s.State.Aircraft[p[1]]}))

	s.postMessage(SenderTower, fmt.Sprintf("%s and %s have collided. Simulation ended.", p[0], p[1]))
	s.eventStream.Post(Event{
		Type:      CollisionEvent,
		Callsign:  p[0],
		Callsign2: p[1],
		Time:      s.State.Elapsed,
	})
}
