// math/heading.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// headings and directions

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float32, b float32) float32 {
	d := Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the shortest turn in degrees that takes cur to
// target, in (-180,180]; positive values are right (clockwise) turns.
// First find the angle to rotate the target heading by so that it's
// aligned with 180 degrees. This lets us not worry about the complexities
// of the wrap around at 0/360.
func HeadingSignedTurn(cur, target float32) float32 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot) // w.r.t. 180 target
}

// NormalizeHeading reduces h to [0,360).
func NormalizeHeading(h float32) float32 {
	h = Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		// -tiny + 360 can round up to 360 in float32.
		h = 0
	}
	return h
}

func OppositeHeading(h float32) float32 {
	return NormalizeHeading(h + 180)
}

// HeadingVector returns the unit vector for travel along the given
// heading: 0 is north (+y) and headings increase clockwise.
func HeadingVector(h float32) [2]float32 {
	return SinCos(Radians(h))
}

// Heading2f returns the heading of the vector v, using the same
// convention as HeadingVector.
func Heading2f(v [2]float32) float32 {
	// Note that atan2() normally measures w.r.t. the +x axis and angles
	// are positive for counter-clockwise. We want to measure w.r.t. +y and
	// to have positive angles be clockwise. Happily, swapping the order of
	// values passed to atan2()--passing (x,y), gives what we want.
	return NormalizeHeading(Degrees(Atan2(v[0], v[1])))
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float32) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx%8]
}
