// aviation/runway.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/radarsim/radarsim/math"
)

// Runway is the physical strip; it has two usable ends, for example
// 09L/27R. Heading is the true heading of the first end.
type Runway struct {
	Id      string // first end, e.g. "09L"
	Heading float32
	Center  [2]float32
	Length  float32
	Width   float32
}

// RunwayEnd is one landing direction of a Runway. Aircraft landing on it
// fly Heading and touch down at Threshold; EntryPoint is out on the
// extended centerline on the approach side.
type RunwayEnd struct {
	Id         string
	Heading    float32
	Threshold  [2]float32
	EntryPoint [2]float32
}

func (r Runway) String() string {
	return r.Id + "/" + OppositeRunwayId(r.Id)
}

// Ends returns the runway's two ends: the first end and its reciprocal.
func (r Runway) Ends() [2]RunwayEnd {
	return [2]RunwayEnd{
		r.makeEnd(r.Id, r.Heading),
		r.makeEnd(OppositeRunwayId(r.Id), math.OppositeHeading(r.Heading)),
	}
}

func (r Runway) makeEnd(id string, hdg float32) RunwayEnd {
	dir := math.HeadingVector(hdg)
	// Landing in the direction dir, so the threshold is behind the
	// center and the entry point is further back still.
	thr := math.Sub2f(r.Center, math.Scale2f(dir, r.Length/2))
	return RunwayEnd{
		Id:         id,
		Heading:    hdg,
		Threshold:  thr,
		EntryPoint: math.Sub2f(thr, math.Scale2f(dir, EntryPointDistance)),
	}
}

// Far returns the threshold of the opposite end, i.e., where the runway
// ends for an aircraft landing or departing on e.
func (e RunwayEnd) Far(length float32) [2]float32 {
	return math.Add2f(e.Threshold, math.Scale2f(math.HeadingVector(e.Heading), length))
}

func (e RunwayEnd) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", e.Id),
		slog.Float64("heading", float64(e.Heading)),
		slog.Any("threshold", e.Threshold),
		slog.Any("entry_point", e.EntryPoint))
}

// TidyRunway canonicalizes a runway identifier as typed by the operator:
// it's upper-cased and single-digit numbers get a leading zero, so "9l"
// becomes "09L".
func TidyRunway(r string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	if len(r) == 1 || (len(r) == 2 && strings.ContainsAny(r[1:], "LRC")) {
		r = "0" + r
	}
	return r
}

// OppositeRunwayId returns the identifier of the reciprocal end of the
// given runway: "09L" -> "27R", "23" -> "05". It returns an empty string
// if rwy isn't a valid identifier.
func OppositeRunwayId(rwy string) string {
	rwy = TidyRunway(rwy)
	if rwy == "" {
		return ""
	}

	n := len(rwy)
	num, ext := "", ""
	switch rwy[n-1] {
	case 'R':
		ext = "L"
		num = rwy[:n-1]
	case 'L':
		ext = "R"
		num = rwy[:n-1]
	case 'C':
		ext = "C"
		num = rwy[:n-1]
	default:
		num = rwy
	}

	v, err := strconv.Atoi(num)
	if err != nil || v < 1 || v > 36 {
		return ""
	}

	// (v+18)%36 would give 0 for runway 36, so handle 18 specially.
	opp := (v + 18) % 36
	if opp == 0 {
		opp = 36
	}
	return fmt.Sprintf("%02d", opp) + ext
}
