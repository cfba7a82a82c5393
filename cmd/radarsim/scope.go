// cmd/radarsim/scope.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/math"
	"github.com/radarsim/radarsim/sim"
	"github.com/radarsim/radarsim/util"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGreen)
	styleStatus   = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleRunway   = styleDefault.Foreground(tcell.ColorGray)
	styleFix      = styleDefault.Foreground(tcell.ColorDarkCyan)
	styleConflict = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSelected = styleDefault.Foreground(tcell.ColorWhite).Bold(true).Reverse(true)
	styleMessage  = styleDefault.Foreground(tcell.ColorSilver)
	styleOperator = styleDefault.Foreground(tcell.ColorWhite)
	styleTower    = styleDefault.Foreground(tcell.ColorYellow)
	styleInput    = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleFailed   = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed).Bold(true)
)

const (
	messageLines = 6
	zoomStep     = 1.25
	timeStep     = 2
)

// scope is the terminal radar display. All of its state is only
// accessed from the goroutine running the frame loop; terminal events
// are forwarded to it over a channel.
type scope struct {
	sim    *sim.Sim
	screen tcell.Screen
	sub    *sim.EventsSubscription

	zoom     float32
	input    []rune
	selected string
	messages []sim.Message
	status   string // most recent status event

	// Latest state snapshot, used for drawing and selection.
	state sim.State

	lg *log.Logger
}

func newScope(s *sim.Sim, screen tcell.Screen, zoom float32, lg *log.Logger) *scope {
	return &scope{
		sim:    s,
		screen: screen,
		sub:    s.Subscribe(),
		zoom:   math.Clamp(zoom, MinZoom, MaxZoom),
		state:  s.Snapshot(),
		lg:     lg,
	}
}

func runScope(ctx context.Context, config *Config, lg *log.Logger) error {
	s, err := sim.NewSim(config.SimConfig(), lg)
	if err != nil {
		return err
	}
	defer s.Destroy()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to initialize screen: %w", err)
	}
	screen.SetStyle(styleDefault)
	screen.Clear()

	sc := newScope(s, screen, config.Scope.Zoom, lg)
	defer sc.sub.Unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// PollEvent returns nil once the screen has been finalized.
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})
	eg.Go(func() error {
		defer screen.Fini()
		defer cancel()
		return sc.run(ctx, events, config.Scope.FrameRate)
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	if config.Sim.RecordPath != "" {
		if err := s.SaveRecording(config.Sim.RecordPath); err != nil {
			return err
		}
		lg.Info("saved recording", slog.String("path", config.Sim.RecordPath))
	}
	return nil
}

// run is the frame loop: each frame advances the sim by the wall clock
// time since the previous one and redraws. It returns when the user
// quits or the context is canceled.
func (sc *scope) run(ctx context.Context, events <-chan tcell.Event, frameRate int) error {
	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	sc.draw()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if quit := sc.handleEvent(ev); quit {
				return nil
			}
			sc.draw()

		case now := <-ticker.C:
			sc.sim.Advance(now.Sub(last))
			last = now
			sc.update()
			sc.draw()
		}
	}
}

// update collects new events and takes a fresh snapshot of the sim.
func (sc *scope) update() {
	for _, e := range sc.sub.Get() {
		switch e.Type {
		case sim.RadioTransmissionEvent:
			sc.messages = append(sc.messages, sim.Message{Sender: e.Sender, Text: e.Text, Time: e.Time})
			if n := len(sc.messages); n > messageLines {
				sc.messages = sc.messages[n-messageLines:]
			}
		case sim.StatusMessageEvent:
			sc.status = e.Text
		case sim.LandedEvent, sim.DepartedEvent, sim.LeftAirspaceEvent:
			if e.Callsign == sc.selected {
				sc.selected = ""
			}
		case sim.CollisionEvent:
			sc.lg.Info("collision", slog.Any("event", e))
		}
	}
	sc.state = sc.sim.Snapshot()
}

func (sc *scope) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		sc.screen.Sync()
	case *tcell.EventKey:
		return sc.handleKey(ev.Key(), ev.Rune())
	}
	return false
}

// handleKey processes a single key press and returns true if the user
// asked to quit.
func (sc *scope) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyCtrlC:
		return true

	case tcell.KeyEscape:
		sc.input = nil

	case tcell.KeyEnter:
		if line := strings.TrimSpace(string(sc.input)); line != "" {
			sc.sim.SubmitCommand(line)
		}
		sc.input = nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(sc.input); n > 0 {
			sc.input = sc.input[:n-1]
		}

	case tcell.KeyTab, tcell.KeyDown:
		sc.cycleSelection(1)

	case tcell.KeyBacktab, tcell.KeyUp:
		sc.cycleSelection(-1)

	case tcell.KeyPgUp:
		sc.zoom = math.Clamp(sc.zoom*zoomStep, MinZoom, MaxZoom)

	case tcell.KeyPgDn:
		sc.zoom = math.Clamp(sc.zoom/zoomStep, MinZoom, MaxZoom)

	case tcell.KeyF1:
		sc.sim.TogglePause()

	case tcell.KeyF2:
		sc.changeTimeScale(1. / timeStep)

	case tcell.KeyF3:
		sc.changeTimeScale(timeStep)

	case tcell.KeyF5:
		sc.sim.Restart()
		sc.selected, sc.messages, sc.input = "", nil, nil

	case tcell.KeyRune:
		sc.input = append(sc.input, r)
	}

	sc.state = sc.sim.Snapshot()
	return false
}

func (sc *scope) changeTimeScale(f float32) {
	if _, err := sc.sim.SetTimeScale(sc.state.TimeScale * f); err != nil {
		sc.lg.Warn("time scale", slog.Any("error", err))
	}
}

// cycleSelection selects the next (or previous) aircraft in callsign
// order and starts a command for it in the input line.
func (sc *scope) cycleSelection(dir int) {
	callsigns := sortedCallsigns(sc.state)
	if len(callsigns) == 0 {
		sc.selected = ""
		return
	}

	idx := slices.Index(callsigns, sc.selected)
	if idx == -1 {
		idx = util.Select(dir > 0, 0, len(callsigns)-1)
	} else {
		idx = (idx + dir + len(callsigns)) % len(callsigns)
	}
	sc.selected = callsigns[idx]

	if err := sc.sim.SetSelected(sc.selected); err != nil {
		sc.lg.Warn("select", slog.Any("error", err))
	}
	sc.input = []rune(sc.selected + " ")
}

func sortedCallsigns(state sim.State) []string {
	return util.SortedMapKeys(state.Aircraft)
}

// radarArea returns the screen rows available for the radar display:
// everything below the status line and above the messages and input.
func (sc *scope) radarArea() (top, width, height int) {
	w, h := sc.screen.Size()
	return 1, w, max(h-messageLines-3, 1)
}

// project maps a world position to a screen cell. The visible extent at
// zoom 1 fills the radar area.
func (sc *scope) project(p [2]float32) (int, int) {
	top, w, h := sc.radarArea()
	sx := float32(w) * sc.zoom / av.VisibleWidth
	sy := float32(h) * sc.zoom / av.VisibleHeight
	x := float32(w)/2 + p[0]*sx
	y := float32(top) + float32(h)/2 - p[1]*sy
	return int(x + 0.5), int(y + 0.5)
}

func (sc *scope) inRadarArea(x, y int) bool {
	top, w, h := sc.radarArea()
	return x >= 0 && x < w && y >= top && y < top+h
}

func (sc *scope) draw() {
	sc.screen.Clear()

	sc.drawStatus()
	sc.drawAirport()
	sc.drawAircraft()
	sc.drawMessages()
	sc.drawInput()

	sc.screen.Show()
}

func (sc *scope) drawStatus() {
	w, _ := sc.screen.Size()
	st := sc.state

	t := st.Elapsed.Truncate(time.Second)
	line := fmt.Sprintf(" %s  %s  %-7s x%.1f  %02d:%02d:%02d  Landed %d  Departed %d  Conflicts %d  Zoom %.2f",
		sc.sim.Config.Airport, sc.sim.Config.Difficulty, st.Status, st.TimeScale,
		int(t.Hours()), int(t.Minutes())%60, int(t.Seconds())%60,
		st.Stats.Landed, st.Stats.Departed, st.Stats.Conflicts, sc.zoom)
	if sc.status != "" {
		line += "  [" + sc.status + "]"
	}
	drawText(sc.screen, 0, 0, w, styleStatus, line)

	if st.Status == sim.StatusFailed {
		msg := fmt.Sprintf(" %s: press F5 to restart ", st.FailureReason)
		_, h := sc.screen.Size()
		drawText(sc.screen, max(0, (w-len(msg))/2), h/2, w, styleFailed, msg)
	}
}

func (sc *scope) drawAirport() {
	for _, rwy := range sc.sim.Airport().Runways {
		ends := rwy.Ends()
		x0, y0 := sc.project(ends[0].Threshold)
		x1, y1 := sc.project(ends[1].Threshold)
		sc.drawLine(x0, y0, x1, y1, '=', styleRunway)

		for _, e := range ends {
			x, y := sc.project(e.EntryPoint)
			if sc.inRadarArea(x, y) {
				sc.screen.SetContent(x, y, '+', nil, styleFix)
				drawText(sc.screen, x+1, y, len(e.Id), styleFix, e.Id)
			}
		}
	}
}

func (sc *scope) drawAircraft() {
	top, w, h := sc.radarArea()

	for _, cs := range sortedCallsigns(sc.state) {
		ac := sc.state.Aircraft[cs]
		x, y := sc.project(ac.Position())
		// Targets on the far edges of the visible area round to one past
		// the last cell.
		if x == w {
			x--
		}
		if y == top+h {
			y--
		}
		if !sc.inRadarArea(x, y) {
			continue
		}

		style := styleDefault
		if ac.Conflict {
			style = styleConflict
		}
		sc.screen.SetContent(x, y, headingGlyph(ac.Heading()), nil, style)

		if cs == sc.selected {
			style = styleSelected
		}

		// The data block goes to the right of the target unless that
		// would run off the screen; it's kept inside the radar area
		// vertically.
		db := ac.DataBlock()
		dbw := 0
		for _, line := range db {
			dbw = max(dbw, len(line))
		}
		dbx := x + 2
		if dbx+dbw > w {
			dbx = x - 1 - dbw
		}
		dby := math.Clamp(y-1, top, top+h-len(db))
		for i, line := range db {
			if sc.inRadarArea(dbx, dby+i) {
				drawText(sc.screen, dbx, dby+i, dbw, style, line)
			}
		}
	}
}

func (sc *scope) drawMessages() {
	w, h := sc.screen.Size()
	y := h - messageLines - 2

	var holding []string
	for _, d := range sc.state.Holding {
		holding = append(holding, d.Callsign+" "+d.Runway)
	}
	drawText(sc.screen, 0, y, w, styleRunway, fmt.Sprintf("%s Holding: %s ", strings.Repeat("-", 4),
		strings.Join(holding, ", "))+strings.Repeat("-", w))

	for i, m := range sc.messages {
		style := styleMessage
		switch m.Sender {
		case sim.SenderOperator:
			style = styleOperator
		case sim.SenderTower:
			style = styleTower
		}
		drawText(sc.screen, 1, y+1+i, w-1, style, m.String())
	}
}

func (sc *scope) drawInput() {
	w, h := sc.screen.Size()
	prompt := "> " + string(sc.input)
	drawText(sc.screen, 0, h-1, w, styleInput, prompt)
	sc.screen.ShowCursor(min(len(prompt), w-1), h-1)
}

// drawLine draws a line of r between the two points, clipped to the
// radar area.
func (sc *scope) drawLine(x0, y0, x1, y1 int, r rune, style tcell.Style) {
	dx, dy := math.Abs(x1-x0), -math.Abs(y1-y0)
	sx, sy := util.Select(x0 < x1, 1, -1), util.Select(y0 < y1, 1, -1)
	err := dx + dy

	for {
		if sc.inRadarArea(x0, y0) {
			sc.screen.SetContent(x0, y0, r, nil, style)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// headingGlyph returns a character that suggests the direction of
// flight.
func headingGlyph(hdg float32) rune {
	switch math.ShortCompass(hdg) {
	case "N":
		return '^'
	case "NE", "SW":
		return '/'
	case "E":
		return '>'
	case "SE", "NW":
		return '\\'
	case "S":
		return 'v'
	case "W":
		return '<'
	default:
		return '*'
	}
}

func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}
