// sim/control.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/math"
	"github.com/radarsim/radarsim/nav"
	"github.com/radarsim/radarsim/util"
)

// CommandResult reports the outcome of a single operator line.
type CommandResult struct {
	Callsign string
	Accepted bool
	// Reply is the text of the readback (if accepted) or the Tower's
	// rejection.
	Reply string
	Err   error
}

func (r CommandResult) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("callsign", r.Callsign),
		slog.Bool("accepted", r.Accepted),
		slog.String("reply", r.Reply),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// RunCommand parses a line typed by the operator and applies it right
// away. Either the whole line takes effect or none of it does.
func (s *Sim) RunCommand(line string) CommandResult {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.recordInput(InputRunCommand, line, 0)
	return s.runCommand(line)
}

// SubmitCommand queues a line to be applied by a subsequent Tick; at most
// one queued line is applied per tick.
func (s *Sim) SubmitCommand(line string) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.recordInput(InputSubmitCommand, line, 0)
	s.State.PendingCommands = append(s.State.PendingCommands, line)
}

// applyPendingCommand runs the oldest queued line, if any.
func (s *Sim) applyPendingCommand() {
	if len(s.State.PendingCommands) == 0 {
		return
	}
	line := s.State.PendingCommands[0]
	s.State.PendingCommands = s.State.PendingCommands[1:]
	s.runCommand(line)
}

func (s *Sim) runCommand(line string) CommandResult {
	line = strings.TrimSpace(line)
	if line != "" {
		s.postMessage(SenderOperator, line)
	}

	result := s.dispatchCommand(strings.Fields(strings.ToUpper(line)))

	if result.Err != nil {
		result.Reply = rejectionText(result.Callsign, result.Err)
		s.postMessage(SenderTower, result.Reply)
		s.eventStream.Post(Event{
			Type:     CommandRejectedEvent,
			Callsign: result.Callsign,
			Text:     result.Reply,
			Time:     s.State.Elapsed,
		})
	} else {
		result.Accepted = true
		s.postMessage(result.Callsign, result.Reply)
		s.eventStream.Post(Event{
			Type:     CommandAcceptedEvent,
			Callsign: result.Callsign,
			Text:     result.Reply,
			Time:     s.State.Elapsed,
		})
	}

	s.lg.Info("command", slog.String("line", line), slog.Any("result", result))

	return result
}

func (s *Sim) dispatchCommand(fields []string) CommandResult {
	if s.State.Status == StatusFailed {
		return CommandResult{Err: ErrSimFailed}
	}
	if len(fields) < 4 {
		return CommandResult{Err: ErrNotTransmitted}
	}

	callsign := fields[0]
	result := CommandResult{Callsign: callsign}

	ac, active := s.State.Aircraft[callsign]
	if !active && s.holdingDeparture(callsign) == nil {
		result.Err = fmt.Errorf("%s: %w", callsign, ErrUnknownCallsign)
		return result
	}

	if fields[1] == "CLEARED" {
		result.Reply, result.Err = s.runClearance(callsign, fields[2:])
		return result
	}

	if !active {
		result.Err = fmt.Errorf("%s: %w", callsign, ErrNotAirborne)
		return result
	}

	targets, err := parseDirective(fields[1:], ac.Nav.Perf)
	if err != nil {
		result.Err = err
		return result
	}

	preNav := ac.Nav
	ac.Nav.AssignHeading(targets.Heading)
	ac.Nav.AssignSpeed(targets.Speed)
	ac.Nav.AssignAltitude(targets.Altitude)
	s.lg.Debug("assigned targets", slog.String("callsign", callsign),
		slog.Any("prepost_nav", []nav.Nav{preNav, ac.Nav}))

	result.Reply = fmt.Sprintf("Heading %03.0f, speed %.0f knots, altitude %.0f feet, %s",
		targets.Heading, targets.Speed, targets.Altitude, callsign)
	return result
}

func (s *Sim) runClearance(callsign string, args []string) (string, error) {
	var landing bool
	switch {
	case len(args) == 3 && args[0] == "TO" && args[1] == "LAND":
		landing = true
	case len(args) == 3 && args[0] == "FOR" && args[1] == "TAKEOFF":
	default:
		return "", fmt.Errorf("expected CLEARED TO LAND RWY<id> or CLEARED FOR TAKEOFF RWY<id>: %w",
			ErrInvalidClearance)
	}

	id, ok := strings.CutPrefix(args[2], "RWY")
	if !ok || id == "" {
		return "", fmt.Errorf("%s: expected RWY<id>: %w", args[2], ErrInvalidClearance)
	}
	end, _, ok := s.airport.LookupRunwayEnd(id)
	if !ok {
		return "", fmt.Errorf("%s at %s: %w", av.TidyRunway(id), s.airport.Name, ErrUnknownRunway)
	}

	if landing {
		return s.clearToLand(callsign, end)
	}
	return s.clearForTakeoff(callsign, end)
}

// parseDirective parses the HDG, SPD and FL instructions of a directive,
// which may be given in any order. All problems found are returned
// together.
func parseDirective(tokens []string, perf av.AircraftPerformance) (nav.Targets, error) {
	const (
		heading = iota
		speed
		altitude
	)
	prefixes := [...]string{heading: "HDG", speed: "SPD", altitude: "FL"}

	var targets nav.Targets
	var have [3]bool
	var errs []error

	for _, tok := range tokens {
		axis := -1
		for i, p := range prefixes {
			if strings.HasPrefix(tok, p) {
				axis = i
				break
			}
		}
		if axis == -1 {
			errs = append(errs, fmt.Errorf("%s: %w", tok, ErrUnknownToken))
			continue
		}

		v, err := strconv.Atoi(tok[len(prefixes[axis]):])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tok, ErrInvalidNumber))
			continue
		}
		// A repeated instruction replaces the earlier one.
		have[axis] = true

		switch axis {
		case heading:
			targets.Heading = math.NormalizeHeading(float32(v % 360))
		case speed:
			targets.Speed = perf.ClampSpeed(float32(math.Clamp(v, av.MinimumSpeed, av.MaximumSpeed)))
		case altitude:
			// Clamp the flight level first so that the multiply can't overflow.
			targets.Altitude = perf.ClampAltitude(float32(math.Clamp(v, 0, 1000) * 100))
		}
	}

	if len(errs) == 0 {
		var missing []string
		for i, ok := range have {
			if !ok {
				missing = append(missing, prefixes[i])
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%w: no %s", ErrMissingInstruction, strings.Join(missing, ", ")))
		}
	}

	return targets, errors.Join(errs...)
}

// rejectionText formats an error, which may be several joined together,
// as the Tower's reply.
func rejectionText(callsign string, err error) string {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	text := strings.Join(util.MapSlice(errs, func(e error) string { return e.Error() }), "; ")
	if callsign == "" || errors.Is(err, ErrUnknownCallsign) {
		return text
	}
	return callsign + ", unable: " + text
}
