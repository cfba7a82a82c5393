// aviation/world.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"github.com/radarsim/radarsim/math"
)

// World coordinates are flat 2D units centered on the airport, with +x
// east and +y north. At the default scope zoom one world unit is one
// screen pixel.
const (
	// UnitsPerNM is the fixed scale between world units and nautical miles.
	UnitsPerNM = 20

	VisibleWidth  = 1280
	VisibleHeight = 832

	// WorldMargin is how far outside the visible area aircraft may fly
	// before they are considered to have left the airspace.
	WorldMargin = 100

	// EntryPointDistance is the distance from a runway threshold, along
	// the extended centerline, to the runway's entry point.
	EntryPointDistance = 40
)

// VisibleExtent returns the area shown on the scope at the default zoom.
func VisibleExtent() math.Extent2D {
	return math.Extent2DFromCenter([2]float32{0, 0}, VisibleWidth, VisibleHeight)
}

// WorldBounds returns the playable area; aircraft outside it are removed.
func WorldBounds() math.Extent2D {
	return VisibleExtent().Expand(WorldMargin)
}

// KnotsToUnitsPerSecond converts a ground speed to world units per second.
func KnotsToUnitsPerSecond(kts float32) float32 {
	return kts / 3600 * UnitsPerNM
}

func UnitsToNM(d float32) float32 {
	return d / UnitsPerNM
}

func NMToUnits(nm float32) float32 {
	return nm * UnitsPerNM
}
