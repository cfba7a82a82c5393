// cmd/radarsim/scope_test.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"strings"
	"testing"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/sim"

	"github.com/gdamore/tcell/v2"
)

func newTestScope(t *testing.T) *scope {
	t.Helper()

	s, err := sim.NewSim(sim.Config{Airport: "Heathrow", Difficulty: av.Normal, Seed: 3}, log.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Destroy)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(128, 49)

	sc := newScope(s, screen, 1, log.NewDiscard())
	t.Cleanup(sc.sub.Unsubscribe)
	return sc
}

func screenText(screen tcell.Screen) string {
	var sb strings.Builder
	w, h := screen.Size()
	for y := range h {
		for x := range w {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func typeText(sc *scope, text string) {
	for _, r := range text {
		sc.handleKey(tcell.KeyRune, r)
	}
}

func TestScopeProject(t *testing.T) {
	sc := newTestScope(t)
	top, w, h := sc.radarArea()

	// The center of the world is the center of the radar area.
	if x, y := sc.project([2]float32{0, 0}); x != w/2 || y != top+h/2 {
		t.Errorf("origin projected to %d,%d", x, y)
	}
	// North is up and east is right.
	if _, y := sc.project([2]float32{0, 100}); y >= top+h/2 {
		t.Errorf("north projected below center")
	}
	if x, _ := sc.project([2]float32{100, 0}); x <= w/2 {
		t.Errorf("east projected left of center")
	}
	// Corners of the visible area are at the edges.
	if x, y := sc.project([2]float32{-av.VisibleWidth / 2, av.VisibleHeight / 2}); x != 0 || y != top {
		t.Errorf("upper left corner projected to %d,%d", x, y)
	}

	// Zooming in moves things away from the center.
	x0, _ := sc.project([2]float32{200, 0})
	sc.handleKey(tcell.KeyPgUp, 0)
	if x1, _ := sc.project([2]float32{200, 0}); x1 <= x0 {
		t.Errorf("zooming in did not magnify: %d vs %d", x1, x0)
	}

	for range 20 {
		sc.handleKey(tcell.KeyPgDn, 0)
	}
	if sc.zoom != MinZoom {
		t.Errorf("zoom not clamped: %v", sc.zoom)
	}
}

func TestScopeDraw(t *testing.T) {
	sc := newTestScope(t)
	sc.sim.Tick(time.Second) // the first arrival spawns
	sc.update()
	sc.draw()

	text := screenText(sc.screen)
	for _, s := range []string{"Heathrow", "Normal", "Running", "09L", "27R", "With you at", "> "} {
		if !strings.Contains(text, s) {
			t.Errorf("expected %q on the screen:\n%s", s, text)
		}
	}
	for _, cs := range sortedCallsigns(sc.state) {
		if !strings.Contains(text, cs) {
			t.Errorf("%s: data block not drawn", cs)
		}
	}
}

func TestScopeInput(t *testing.T) {
	sc := newTestScope(t)
	sc.sim.Tick(time.Second)
	sc.update()

	callsigns := sortedCallsigns(sc.state)
	if len(callsigns) == 0 {
		t.Fatal("no aircraft")
	}

	sc.handleKey(tcell.KeyTab, 0)
	if sc.selected != callsigns[0] || string(sc.input) != callsigns[0]+" " {
		t.Errorf("tab selected %q with input %q", sc.selected, string(sc.input))
	}
	if !sc.state.Aircraft[callsigns[0]].Selected {
		t.Errorf("selection not passed to the sim")
	}

	typeText(sc, "HDG180 SPD200 FL60x")
	sc.handleKey(tcell.KeyBackspace2, 0)
	sc.handleKey(tcell.KeyEnter, 0)
	if len(sc.input) != 0 {
		t.Errorf("input not cleared after enter")
	}
	if len(sc.state.PendingCommands) != 1 || sc.state.PendingCommands[0] != callsigns[0]+" HDG180 SPD200 FL60" {
		t.Errorf("unexpected pending commands %q", sc.state.PendingCommands)
	}

	sc.sim.Tick(time.Second)
	sc.update()
	if tgt := sc.state.Aircraft[callsigns[0]].Nav.Targets; tgt.Heading != 180 || tgt.Speed != 200 ||
		tgt.Altitude != 6000 {
		t.Errorf("command not applied: %+v", tgt)
	}

	typeText(sc, "junk")
	sc.handleKey(tcell.KeyEscape, 0)
	if len(sc.input) != 0 {
		t.Errorf("escape did not clear the input")
	}
}

func TestScopeControls(t *testing.T) {
	sc := newTestScope(t)

	sc.handleKey(tcell.KeyF1, 0)
	if sc.state.Status != sim.StatusPaused {
		t.Errorf("expected paused, got %s", sc.state.Status)
	}
	sc.handleKey(tcell.KeyF1, 0)
	if sc.state.Status != sim.StatusRunning {
		t.Errorf("expected running, got %s", sc.state.Status)
	}

	sc.handleKey(tcell.KeyF3, 0)
	if sc.state.TimeScale != 2 {
		t.Errorf("expected time scale 2, got %v", sc.state.TimeScale)
	}
	for range 10 {
		sc.handleKey(tcell.KeyF3, 0)
	}
	if sc.state.TimeScale != sim.MaxTimeScale {
		t.Errorf("expected time scale clamped to %v, got %v", sim.MaxTimeScale, sc.state.TimeScale)
	}
	for range 10 {
		sc.handleKey(tcell.KeyF2, 0)
	}
	if sc.state.TimeScale != sim.MinTimeScale {
		t.Errorf("expected time scale clamped to %v, got %v", sim.MinTimeScale, sc.state.TimeScale)
	}

	sc.sim.Tick(time.Second)
	sc.handleKey(tcell.KeyF5, 0)
	if sc.state.Ticks != 0 || len(sc.state.Aircraft) != 0 {
		t.Errorf("restart did not reset the sim")
	}

	if !sc.handleKey(tcell.KeyCtrlC, 0) {
		t.Errorf("ctrl-c did not quit")
	}
}

func TestHeadingGlyph(t *testing.T) {
	for hdg, glyph := range map[float32]rune{0: '^', 45: '/', 90: '>', 135: '\\', 180: 'v', 225: '/', 270: '<',
		315: '\\', 359: '^', 20: '^', 24: '/'} {
		if g := headingGlyph(hdg); g != glyph {
			t.Errorf("%v: got %c, expected %c", hdg, g, glyph)
		}
	}
}
