//go:build navlog

// nav/log_debug.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Navigation logging configuration
var (
	navlogMu         sync.Mutex
	navlogWriter     io.Writer = os.Stdout
	navlogEnabled    bool
	navlogCategories map[string]bool
	navlogCallsign   string // filter to only log this callsign (empty = log all)
)

// InitNavLog initializes the navigation logging system. Output goes to w,
// or stdout if w is nil.
func InitNavLog(w io.Writer, enabled bool, categories string, callsign string) {
	navlogMu.Lock()
	defer navlogMu.Unlock()

	if w != nil {
		navlogWriter = w
	}
	navlogEnabled = enabled
	navlogCategories = make(map[string]bool)
	navlogCallsign = strings.ToUpper(strings.TrimSpace(callsign))

	if !enabled {
		return
	}

	if categories == "" || categories == "all" {
		for _, c := range []string{NavLogState, NavLogAltitude, NavLogSpeed, NavLogHeading} {
			navlogCategories[c] = true
		}
	} else {
		for _, cat := range strings.Split(categories, ",") {
			navlogCategories[strings.TrimSpace(cat)] = true
		}
	}
}

// NavLog logs a message with callsign and category
func NavLog(callsign string, category string, format string, args ...interface{}) {
	navlogMu.Lock()
	defer navlogMu.Unlock()

	if !navlogEnabled || !navlogCategories[category] {
		return
	}

	// Filter by callsign if specified
	if navlogCallsign != "" && navlogCallsign != callsign {
		return
	}

	// Format: [callsign] [category] message
	fmt.Fprintf(navlogWriter, "[%s] [%s] %s\n", callsign, category, fmt.Sprintf(format, args...))
}

// NavLogEnabled returns whether navigation logging is enabled for a given category
func NavLogEnabled(category string) bool {
	navlogMu.Lock()
	defer navlogMu.Unlock()

	return navlogEnabled && navlogCategories[category]
}
