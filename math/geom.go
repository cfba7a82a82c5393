// math/geom.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float32
}

// Extent2DFromCenter returns the extent of the given width and height
// centered at c.
func Extent2DFromCenter(c [2]float32, width, height float32) Extent2D {
	return Extent2D{
		P0: [2]float32{c[0] - width/2, c[1] - height/2},
		P1: [2]float32{c[0] + width/2, c[1] + height/2},
	}
}

func (e Extent2D) Width() float32 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float32 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Center() [2]float32 {
	return [2]float32{(e.P0[0] + e.P1[0]) / 2, (e.P0[1] + e.P1[1]) / 2}
}

// Expand expands the extent by the given distance in all directions.
func (e Extent2D) Expand(d float32) Extent2D {
	return Extent2D{
		P0: [2]float32{e.P0[0] - d, e.P0[1] - d},
		P1: [2]float32{e.P1[0] + d, e.P1[1] + d}}
}

func (e Extent2D) Inside(p [2]float32) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Lerp maps p in [0,1]^2 to the corresponding point inside the extent.
func (e Extent2D) Lerp(p [2]float32) [2]float32 {
	return [2]float32{Lerp(p[0], e.P0[0], e.P1[0]), Lerp(p[1], e.P0[1], e.P1[1])}
}
