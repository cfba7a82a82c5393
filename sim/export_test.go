package sim

import (
	"testing"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/nav"
)

// neverSpawn is far enough in the future that the spawn timers never
// fire during a test.
const neverSpawn = time.Duration(1 << 62)

// NewTestSim creates a Sim at Heathrow with a fixed seed and no automatic
// traffic, so tests fully control which aircraft exist.
func NewTestSim(t *testing.T) *Sim {
	t.Helper()

	s, err := NewSim(Config{Airport: "Heathrow", Difficulty: av.Normal, Seed: 1}, log.NewDiscard())
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	t.Cleanup(s.Destroy)

	s.State.NextArrival = neverSpawn
	s.State.NextDeparture = neverSpawn
	return s
}

// AddTestAircraft adds an airborne arrival of the given type in the given
// state.
func (s *Sim) AddTestAircraft(t *testing.T, callsign, icao string, fs nav.FlightState) *Aircraft {
	t.Helper()

	perf, err := av.LookupAircraftPerformance(icao)
	if err != nil {
		t.Fatal(err)
	}
	ac := &Aircraft{
		Callsign:     callsign,
		TypeOfFlight: av.FlightTypeArrival,
		Origin:       "EGKK",
		Nav:          nav.MakeNav(fs, perf),
	}
	s.State.Aircraft[callsign] = ac
	return ac
}

// AddTestDeparture adds a departure holding short of the given runway.
func (s *Sim) AddTestDeparture(t *testing.T, callsign, icao, runway string) {
	t.Helper()

	perf, err := av.LookupAircraftPerformance(icao)
	if err != nil {
		t.Fatal(err)
	}
	s.State.Holding = append(s.State.Holding, Departure{Callsign: callsign, Runway: runway, Perf: perf})
}

// lastMessage returns the most recent message in the log.
func (s *Sim) lastMessage(t *testing.T) Message {
	t.Helper()

	if len(s.State.Messages) == 0 {
		t.Fatal("no messages")
	}
	return s.State.Messages[len(s.State.Messages)-1]
}
