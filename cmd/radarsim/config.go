// cmd/radarsim/config.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	av "github.com/radarsim/radarsim/aviation"
	"github.com/radarsim/radarsim/log"
	"github.com/radarsim/radarsim/sim"

	"github.com/BurntSushi/toml"
)

const (
	MinZoom = 0.2
	MaxZoom = 2
)

// Config is the contents of radarsim.toml. Command-line flags override
// anything given here.
type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Scope   ScopeConfig   `toml:"scope"`
	Logging LoggingConfig `toml:"logging"`
}

type SimConfig struct {
	Airport     string        `toml:"airport"`      // "Heathrow", "Glasgow", or "Los Angeles"
	Difficulty  av.Difficulty `toml:"difficulty"`   // "Beginner" through "Realistic"
	Seed        int64         `toml:"seed"`         // 0 picks a seed from the clock
	TimeScale   float32       `toml:"time_scale"`   // simulated seconds per wall clock second
	MaxAircraft int           `toml:"max_aircraft"` // cap on active arrivals and departures
	RecordPath  string        `toml:"record_path"`  // if set, the session is recorded and saved here on exit
}

type ScopeConfig struct {
	FrameRate int     `toml:"frame_rate"` // scope updates per second
	Zoom      float32 `toml:"zoom"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", or "error"
	Dir   string `toml:"dir"`   // empty for the user config directory
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			Airport:     "Heathrow",
			Difficulty:  av.Normal,
			TimeScale:   1,
			MaxAircraft: sim.DefaultMaxAircraft,
		},
		Scope: ScopeConfig{
			FrameRate: 10,
			Zoom:      1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path. Values not present in the file
// keep their defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown configuration keys: %s", path, strings.Join(keys, ", "))
	}

	return config, nil
}

// configSearchPaths returns the locations checked for a configuration file,
// most preferred first.
func configSearchPaths(preferred string) []string {
	paths := []string{preferred, "radarsim.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "radarsim", "radarsim.toml"))
	}

	var unique []string
	seen := make(map[string]bool)
	for _, p := range paths {
		if p != "" && !seen[p] {
			unique = append(unique, p)
			seen[p] = true
		}
	}
	return unique
}

// LoadWithFallback loads the first configuration file that exists out of
// the preferred path and the default locations. If a path was given
// explicitly it must exist; otherwise the defaults are used when no file
// is found. The path of the file used is returned, or "" for defaults.
func LoadWithFallback(preferred string) (*Config, string, error) {
	if preferred != "" {
		if _, err := os.Stat(preferred); err != nil {
			return nil, "", fmt.Errorf("config file not found: %w", err)
		}
	}

	for _, path := range configSearchPaths(preferred) {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, path, err
			}
			return config, path, nil
		}
	}

	return DefaultConfig(), "", nil
}

// Validate checks all of the settings and returns an error that describes
// every problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := av.LookupAirport(c.Sim.Airport); err != nil {
		errs = append(errs, fmt.Errorf("sim.airport: %w", err))
	}
	if c.Sim.Difficulty < av.Beginner || c.Sim.Difficulty > av.Realistic {
		errs = append(errs, fmt.Errorf("sim.difficulty: %s: %w", c.Sim.Difficulty, av.ErrUnknownDifficulty))
	}
	if c.Sim.TimeScale < sim.MinTimeScale || c.Sim.TimeScale > sim.MaxTimeScale {
		errs = append(errs, fmt.Errorf("sim.time_scale: %v: must be between %v and %v", c.Sim.TimeScale,
			sim.MinTimeScale, sim.MaxTimeScale))
	}
	if c.Sim.MaxAircraft <= 0 {
		errs = append(errs, fmt.Errorf("sim.max_aircraft: %d: must be positive", c.Sim.MaxAircraft))
	}

	if c.Scope.FrameRate < 1 || c.Scope.FrameRate > 60 {
		errs = append(errs, fmt.Errorf("scope.frame_rate: %d: must be between 1 and 60", c.Scope.FrameRate))
	}
	if c.Scope.Zoom < MinZoom || c.Scope.Zoom > MaxZoom {
		errs = append(errs, fmt.Errorf("scope.zoom: %v: must be between %v and %v", c.Scope.Zoom, MinZoom, MaxZoom))
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

// SimConfig returns the configuration to create a sim.Sim with.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Airport:     c.Sim.Airport,
		Difficulty:  c.Sim.Difficulty,
		Seed:        c.Sim.Seed,
		TimeScale:   c.Sim.TimeScale,
		MaxAircraft: c.Sim.MaxAircraft,
		Record:      c.Sim.RecordPath != "",
	}
}

// Save writes the configuration in TOML format.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
