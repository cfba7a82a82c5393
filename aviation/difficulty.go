// aviation/difficulty.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownDifficulty = errors.New("Unknown difficulty")

// Difficulty controls how much traffic is generated.
type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Normal
	Realistic
)

var difficultyNames = [...]string{"Beginner", "Easy", "Normal", "Realistic"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

func ParseDifficulty(s string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if strings.EqualFold(s, n) {
			return Difficulty(i), nil
		}
	}
	return Normal, fmt.Errorf("%q: %w", s, ErrUnknownDifficulty)
}

// MarshalText and UnmarshalText allow difficulties to be written by name
// in configuration files.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ArrivalInterval returns the average simulated time between arrivals.
func (d Difficulty) ArrivalInterval() time.Duration {
	switch d {
	case Beginner:
		return 120 * time.Second
	case Easy:
		return 90 * time.Second
	case Realistic:
		return 40 * time.Second
	default:
		return 60 * time.Second
	}
}

// DepartureInterval returns the average simulated time between
// departures; zero means no departures are generated.
func (d Difficulty) DepartureInterval() time.Duration {
	switch d {
	case Beginner:
		return 0
	case Easy:
		return 240 * time.Second
	case Realistic:
		return 90 * time.Second
	default:
		return 150 * time.Second
	}
}
