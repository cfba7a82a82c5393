// sim/control_test.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
	"strings"
	"testing"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/nav"
)

func TestParseDirective(t *testing.T) {
	a320, _ := av.LookupAircraftPerformance("A320")

	tests := []struct {
		name     string
		command  string
		expected nav.Targets
		wantErrs []error
	}{
		{
			name:     "Clamped and wrapped",
			command:  "HDG999 SPD9999 FL1",
			expected: nav.Targets{Heading: 279, Speed: 400, Altitude: 100},
		},
		{
			name:     "Any order, negative heading",
			command:  "FL50 HDG-90 SPD100",
			expected: nav.Targets{Heading: 270, Speed: 100, Altitude: 5000},
		},
		{
			name:     "Lower speed limit, class ceiling",
			command:  "HDG360 SPD30 FL999",
			expected: nav.Targets{Heading: 0, Speed: 40, Altitude: 39000},
		},
		{
			name:     "Leading zeros",
			command:  "HDG005 SPD0250 FL070",
			expected: nav.Targets{Heading: 5, Speed: 250, Altitude: 7000},
		},
		{
			name:     "Missing altitude",
			command:  "HDG090 SPD250",
			wantErrs: []error{ErrMissingInstruction},
		},
		{
			name:     "Unknown token",
			command:  "HDG090 SPD250 FL50 DIRECT",
			wantErrs: []error{ErrUnknownToken},
		},
		{
			name:     "Bad number",
			command:  "HDGABC SPD250 FL50",
			wantErrs: []error{ErrInvalidNumber},
		},
		{
			name:     "Repeated heading, last one wins",
			command:  "HDG090 HDG100 SPD250 FL50",
			expected: nav.Targets{Heading: 100, Speed: 250, Altitude: 5000},
		},
		{
			name:     "Repeated heading, missing altitude",
			command:  "HDG090 HDG100 SPD250",
			wantErrs: []error{ErrMissingInstruction},
		},
		{
			name:     "Several problems reported together",
			command:  "CLIMB SPDX FL50",
			wantErrs: []error{ErrUnknownToken, ErrInvalidNumber},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets, err := parseDirective(strings.Fields(tt.command), a320)
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if targets != tt.expected {
					t.Errorf("got %+v, expected %+v", targets, tt.expected)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error, got targets %+v", targets)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("expected %v in %v", want, err)
				}
			}
			// Missing instructions are only reported when nothing else
			// went wrong.
			if len(tt.wantErrs) > 0 && tt.wantErrs[0] != ErrMissingInstruction && errors.Is(err, ErrMissingInstruction) {
				t.Errorf("unexpected missing instruction error in %v", err)
			}
		})
	}
}

func TestRunCommandDirective(t *testing.T) {
	s := NewTestSim(t)
	ac := s.AddTestAircraft(t, "BA0342", "A320", nav.FlightState{Position: [2]float32{100, 100}, Heading: 45,
		GS: 250, Altitude: 8000})

	result := s.RunCommand("ba0342 hdg999 spd9999 fl1")
	if !result.Accepted || result.Err != nil {
		t.Fatalf("expected command to be accepted: %+v", result)
	}
	if ac.Nav.Targets != (nav.Targets{Heading: 279, Speed: 400, Altitude: 100}) {
		t.Errorf("unexpected targets %+v", ac.Nav.Targets)
	}
	// Targets are set, but nothing moves until the next tick.
	if ac.Heading() != 45 || ac.GS() != 250 || ac.Altitude() != 8000 {
		t.Errorf("flight state changed: %s", ac.Nav.Summary())
	}

	n := len(s.State.Messages)
	if n < 2 {
		t.Fatalf("expected two messages, got %d", n)
	}
	if m := s.State.Messages[n-2]; m.Sender != SenderOperator || m.Text != "ba0342 hdg999 spd9999 fl1" {
		t.Errorf("unexpected operator message %+v", m)
	}
	if m := s.lastMessage(t); m.Sender != "BA0342" || !strings.Contains(m.Text, "279") {
		t.Errorf("unexpected readback %+v", m)
	}
}

func TestRunCommandIdempotent(t *testing.T) {
	s := NewTestSim(t)
	ac := s.AddTestAircraft(t, "BA0342", "B777", nav.FlightState{Heading: 180, GS: 280, Altitude: 12000})

	r := s.RunCommand("BA0342 HDG010 SPD300 FL90 HDG090 SPD250 FL80")
	if !r.Accepted || ac.Nav.Targets != (nav.Targets{Heading: 90, Speed: 250, Altitude: 8000}) {
		t.Errorf("repeated instructions: %+v, targets %+v", r, ac.Nav.Targets)
	}

	for range 3 {
		if r := s.RunCommand("BA0342 HDG090 SPD250 FL80"); r.Err != nil {
			t.Fatalf("unexpected error: %v", r.Err)
		}
		if ac.Nav.Targets != (nav.Targets{Heading: 90, Speed: 250, Altitude: 8000}) {
			t.Errorf("unexpected targets %+v", ac.Nav.Targets)
		}
	}
}

func TestRunCommandRejectionIsAtomic(t *testing.T) {
	s := NewTestSim(t)
	ac := s.AddTestAircraft(t, "BA0342", "A320", nav.FlightState{Heading: 180, GS: 280, Altitude: 12000})
	before := ac.Nav

	for _, cmd := range []string{
		"BA0342 HDG090 SPD250 FL80 BOGUS",
		"BA0342 HDG090 SPD250 SPD260",
		"BA0342 HDG090 SPD250 FLXX",
		"BA0342 HDG090 SPD250 HDG100 FLXX",
	} {
		r := s.RunCommand(cmd)
		if r.Accepted || r.Err == nil {
			t.Errorf("%s: expected rejection", cmd)
		}
		if ac.Nav != before {
			t.Errorf("%s: aircraft modified: %s", cmd, ac.Nav.Summary())
		}
		if m := s.lastMessage(t); m.Sender != SenderTower {
			t.Errorf("%s: expected rejection from the tower, got %+v", cmd, m)
		}
	}
}

func TestRunCommandErrors(t *testing.T) {
	s := NewTestSim(t)
	s.AddTestAircraft(t, "BA0342", "A320", nav.FlightState{Heading: 180, GS: 280, Altitude: 12000})
	s.AddTestDeparture(t, "EZ0101", "A320", "27L")

	tests := []struct {
		command string
		err     error
	}{
		{"BA0342 HDG090", ErrNotTransmitted},
		{"", ErrNotTransmitted},
		{"BA999 HDG090 SPD250 FL50", ErrUnknownCallsign},
		{"BA0342 HDG090 SPD250", ErrNotTransmitted},
		{"BA0342 HDG090 HDG100 SPD250", ErrMissingInstruction},
		{"BA0342 FL50 FL60 FL70", ErrMissingInstruction},
		{"BA0342 CLEARED TO LAND", ErrInvalidClearance},
		{"BA0342 CLEARED TO LAND NOW", ErrInvalidClearance},
		{"BA0342 CLEARED TO LAND RWY", ErrInvalidClearance},
		{"BA0342 CLEARED FOR LANDING RWY09L", ErrInvalidClearance},
		{"BA0342 CLEARED TO LAND RWY18", ErrUnknownRunway},
		{"EZ0101 HDG090 SPD250 FL50", ErrNotAirborne},
		{"EZ0101 CLEARED TO LAND RWY27L", ErrNotAirborne},
	}

	for _, tt := range tests {
		r := s.RunCommand(tt.command)
		if !errors.Is(r.Err, tt.err) {
			t.Errorf("%q: expected %v, got %v", tt.command, tt.err, r.Err)
		}
		if r.Accepted {
			t.Errorf("%q: accepted", tt.command)
		}
		if m := s.lastMessage(t); m.Sender != SenderTower || m.Text != r.Reply {
			t.Errorf("%q: unexpected last message %+v", tt.command, m)
		}
	}

	r := s.RunCommand("BA0342 HDG090 HDG100 SPD250")
	if !strings.Contains(r.Reply, "no FL") {
		t.Errorf("rejection %q does not name the missing instruction", r.Reply)
	}
	r = s.RunCommand("BA0342 FL50 FL60 FL70")
	if !strings.Contains(r.Reply, "no HDG, SPD") {
		t.Errorf("rejection %q does not name the missing instructions", r.Reply)
	}

	r = s.RunCommand("BA999 HDG090 SPD250 FL50")
	if !strings.Contains(r.Reply, "BA999") {
		t.Errorf("rejection %q does not name the unknown callsign", r.Reply)
	}
}

func TestSubmitCommandOnePerTick(t *testing.T) {
	s := NewTestSim(t)
	ac := s.AddTestAircraft(t, "BA0342", "A320", nav.FlightState{Heading: 180, GS: 280, Altitude: 12000})

	s.SubmitCommand("BA0342 HDG090 SPD250 FL80")
	s.SubmitCommand("BA0342 HDG100 SPD260 FL90")
	if ac.Nav.Targets.Heading != 180 {
		t.Fatalf("submitted command applied before a tick")
	}

	s.Tick(0)
	if ac.Nav.Targets.Heading != 90 {
		t.Errorf("expected first command after one tick, got heading %v", ac.Nav.Targets.Heading)
	}
	s.Tick(0)
	if ac.Nav.Targets.Heading != 100 {
		t.Errorf("expected second command after two ticks, got heading %v", ac.Nav.Targets.Heading)
	}
	if len(s.State.PendingCommands) != 0 {
		t.Errorf("expected empty queue, got %v", s.State.PendingCommands)
	}
}

func TestRejectionText(t *testing.T) {
	err := errors.Join(ErrUnknownToken, ErrInvalidNumber)
	if got := rejectionText("BA0342", err); got != "BA0342, unable: Unknown instruction; Invalid number" {
		t.Errorf("got %q", got)
	}
	if got := rejectionText("", ErrNotTransmitted); got != "Message not transmitted" {
		t.Errorf("got %q", got)
	}
}
