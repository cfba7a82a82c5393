// aviation/airport.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/radarsim/radarsim/math"
)

var ErrUnknownAirport = errors.New("Unknown airport")

type Airport struct {
	Name    string
	ICAO    string
	Runways []Runway
}

type airportLayout struct {
	name, icao string
	heading    float32
	ids        []string // first end ids, left to right when facing heading
	length     float32
	width      float32
	spacing    float32 // distance from the airport center to each parallel runway
	aliases    []string
}

var airportLayouts = []airportLayout{
	{
		name: "Heathrow", icao: "EGLL", heading: 90,
		ids: []string{"09L", "09R"}, length: 260, width: 14, spacing: 48,
		aliases: []string{"london heathrow", "egll"},
	},
	{
		name: "Glasgow", icao: "EGPF", heading: 50,
		ids: []string{"05"}, length: 220, width: 12,
		aliases: []string{"egpf"},
	},
	{
		name: "Los Angeles", icao: "KLAX", heading: 250,
		ids: []string{"25L", "25R"}, length: 300, width: 16, spacing: 56,
		aliases: []string{"lax", "klax"},
	},
}

// AirportNames returns the names of the airports that can be selected,
// in the order they should be offered.
func AirportNames() []string {
	var names []string
	for _, l := range airportLayouts {
		names = append(names, l.name)
	}
	return names
}

// LookupAirport returns the airport with the given name; matching is case
// insensitive and accepts ICAO codes and a few common aliases.
func LookupAirport(name string) (*Airport, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, l := range airportLayouts {
		if n == strings.ToLower(l.name) || slices.Contains(l.aliases, n) {
			return l.build(), nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownAirport)
}

func (l airportLayout) build() *Airport {
	ap := &Airport{Name: l.name, ICAO: l.icao}

	// Parallel runways are offset perpendicular to the runway heading;
	// the L runway is to the left when landing on the first end.
	left := math.Perp2f(math.HeadingVector(l.heading))
	for i, id := range l.ids {
		var offset float32
		if len(l.ids) > 1 {
			offset = math.Lerp(float32(i)/float32(len(l.ids)-1), l.spacing, -l.spacing)
		}
		ap.Runways = append(ap.Runways, Runway{
			Id:      id,
			Heading: l.heading,
			Center:  math.Scale2f(left, offset),
			Length:  l.length,
			Width:   l.width,
		})
	}
	return ap
}

// RunwayEnds returns all of the airport's runway ends.
func (ap *Airport) RunwayEnds() []RunwayEnd {
	var ends []RunwayEnd
	for _, rwy := range ap.Runways {
		e := rwy.Ends()
		ends = append(ends, e[0], e[1])
	}
	return ends
}

// LookupRunwayEnd returns the runway end with the given identifier, as
// well as the physical runway it belongs to.
func (ap *Airport) LookupRunwayEnd(id string) (RunwayEnd, Runway, bool) {
	id = TidyRunway(id)
	for _, rwy := range ap.Runways {
		for _, e := range rwy.Ends() {
			if e.Id == id {
				return e, rwy, true
			}
		}
	}
	return RunwayEnd{}, Runway{}, false
}

// ApproachFix is the point arriving traffic is initially pointed at: the
// entry point of the first runway end.
func (ap *Airport) ApproachFix() [2]float32 {
	return ap.Runways[0].Ends()[0].EntryPoint
}
