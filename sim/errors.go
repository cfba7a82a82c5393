// sim/errors.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrCollision            = errors.New("Collision")
	ErrInvalidClearance     = errors.New("Invalid clearance")
	ErrInvalidNumber        = errors.New("Invalid number")
	ErrInvalidTimeScale     = errors.New("Invalid time scale")
	ErrMissingInstruction   = errors.New("Missing HDG/SPD/FL")
	ErrNotAirborne          = errors.New("Aircraft is not airborne")
	ErrNotAligned           = errors.New("Not aligned with the runway")
	ErrNotAtEntryPoint      = errors.New("Not at the runway entry point")
	ErrNotAtLandingAltitude = errors.New("Not at landing altitude")
	ErrNotHoldingShort      = errors.New("Aircraft is not holding short for departure")
	ErrNotTransmitted       = errors.New("Message not transmitted")
	ErrRecordingMismatch    = errors.New("Replay does not match the recording")
	ErrRunwayNotClear       = errors.New("Runway is not clear")
	ErrSimFailed            = errors.New("Simulation has ended")
	ErrUnknownCallsign      = errors.New("Unknown aircraft")
	ErrUnknownRunway        = errors.New("Unknown runway")
	ErrUnknownToken         = errors.New("Unknown instruction")
	ErrUnsupportedRecording = errors.New("Unsupported recording version")
)
