// math/math_test.go
// Copyright(c) 2023-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestStepToward(t *testing.T) {
	tests := []struct {
		name              string
		cur, target, step float32
		expected          float32
	}{
		{"step up", 200, 250, 3, 203},
		{"step down", 250, 200, 3, 247},
		{"snap up", 249, 250, 3, 250},
		{"snap down", 201, 200, 3, 200},
		{"at target", 200, 200, 3, 200},
		{"zero step", 100, 200, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepToward(tt.cur, tt.target, tt.step); got != tt.expected {
				t.Errorf("StepToward(%v, %v, %v) = %v, expected %v", tt.cur, tt.target, tt.step, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(9999, 40, 400); v != 400 {
		t.Errorf("Clamp high: got %d", v)
	}
	if v := Clamp(10, 40, 400); v != 40 {
		t.Errorf("Clamp low: got %d", v)
	}
	if v := Clamp(float32(0.25), 0.5, 8); v != 0.5 {
		t.Errorf("Clamp float: got %v", v)
	}
}

func TestExtent2D(t *testing.T) {
	e := Extent2DFromCenter([2]float32{0, 0}, 1280, 832)
	if e.Width() != 1280 || e.Height() != 832 {
		t.Errorf("unexpected extent size %v x %v", e.Width(), e.Height())
	}
	if c := e.Center(); c != [2]float32{0, 0} {
		t.Errorf("unexpected center %v", c)
	}

	for _, p := range [][2]float32{{0, 0}, {640, 416}, {-640, -416}} {
		if !e.Inside(p) {
			t.Errorf("%v should be inside %v", p, e)
		}
	}
	if e.Inside([2]float32{700, 0}) {
		t.Errorf("point outside reported inside")
	}
	if !e.Expand(100).Inside([2]float32{700, 0}) {
		t.Errorf("point should be inside expanded extent")
	}
	if p := e.Lerp([2]float32{1, 0.5}); p != [2]float32{640, 0} {
		t.Errorf("Lerp: got %v", p)
	}
}

func TestVectors(t *testing.T) {
	a, b := [2]float32{3, 0}, [2]float32{0, 4}
	if d := Distance2f(a, b); d != 5 {
		t.Errorf("Distance2f: got %v", d)
	}
	if n := Normalize2f([2]float32{0, 0}); n != [2]float32{0, 0} {
		t.Errorf("Normalize2f of zero vector: got %v", n)
	}
	if p := Perp2f([2]float32{1, 0}); p != [2]float32{0, 1} {
		t.Errorf("Perp2f: got %v", p)
	}
	if m := Mid2f(a, b); m != [2]float32{1.5, 2} {
		t.Errorf("Mid2f: got %v", m)
	}
}
