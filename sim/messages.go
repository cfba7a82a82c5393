// sim/messages.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	SenderOperator = "You"
	SenderTower    = "Tower"
)

// maxMessages bounds the message log; older messages are dropped.
const maxMessages = 500

// Message is a single entry in the radio log.
type Message struct {
	Sender string
	Text   string
	Time   time.Duration // simulated time since the sim started
}

func (m Message) String() string {
	t := m.Time.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d %s: %s", int(t.Hours()), int(t.Minutes())%60, int(t.Seconds())%60,
		m.Sender, m.Text)
}

func (m Message) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("sender", m.Sender),
		slog.String("text", m.Text),
		slog.Duration("time", m.Time))
}

// postMessage appends to the message log and posts the corresponding
// radio transmission event. s.mu must be held.
func (s *Sim) postMessage(sender, text string) {
	m := Message{Sender: sender, Text: text, Time: s.State.Elapsed}
	s.State.Messages = append(s.State.Messages, m)
	if n := len(s.State.Messages); n > maxMessages {
		s.State.Messages = s.State.Messages[n-maxMessages:]
	}

	s.lg.Debug("message", slog.Any("message", m))
	s.eventStream.Post(Event{
		Type:   RadioTransmissionEvent,
		Sender: sender,
		Text:   text,
		Time:   m.Time,
	})
}

func (s *Sim) postStatus(text string) {
	s.eventStream.Post(Event{
		Type: StatusMessageEvent,
		Text: text,
		Time: s.State.Elapsed,
	})
}
