// util/util_test.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"path/filepath"
	"slices"
	"testing"

	"github.com/radarsim/radarsim/log"
)

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"VS0021": 1, "BA0342": 2, "EZ1100": 3}
	if keys := SortedMapKeys(m); !slices.Equal(keys, []string{"BA0342", "EZ1100", "VS0021"}) {
		t.Errorf("got %v", keys)
	}
	if keys := SortedMapKeys(map[string]int{}); len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestSliceHelpers(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	if even := FilterSlice(s, func(v int) bool { return v%2 == 0 }); !slices.Equal(even, []int{2, 4}) {
		t.Errorf("FilterSlice: got %v", even)
	}
	if sq := MapSlice(s, func(v int) int { return v * v }); !slices.Equal(sq, []int{1, 4, 9, 16, 25}) {
		t.Errorf("MapSlice: got %v", sq)
	}
	if Select(true, "a", "b") != "a" || Select(false, "a", "b") != "b" {
		t.Errorf("Select returned the wrong value")
	}
}

type testRecord struct {
	Seed     int64
	Airport  string
	Commands []string
}

func TestCompressedRoundTrip(t *testing.T) {
	in := testRecord{Seed: 1234, Airport: "Heathrow", Commands: []string{"BA0342 HDG090 SPD250 FL100"}}

	var buf bytes.Buffer
	if err := EncodeCompressed(&buf, in); err != nil {
		t.Fatalf("EncodeCompressed: %v", err)
	}

	var out testRecord
	if err := DecodeCompressed(&buf, &out); err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}
	if out.Seed != in.Seed || out.Airport != in.Airport || !slices.Equal(out.Commands, in.Commands) {
		t.Errorf("got %+v, expected %+v", out, in)
	}

	if err := DecodeCompressed(bytes.NewReader([]byte("not zstd")), &out); err == nil {
		t.Errorf("expected error decoding garbage")
	}
}

func TestStoreRetrieveObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "record.msgpack.zst")
	in := testRecord{Seed: 99, Airport: "Glasgow"}
	if err := StoreObject(path, in); err != nil {
		t.Fatalf("StoreObject: %v", err)
	}

	var out testRecord
	if err := RetrieveObject(path, &out); err != nil {
		t.Fatalf("RetrieveObject: %v", err)
	}
	if out.Seed != 99 || out.Airport != "Glasgow" {
		t.Errorf("got %+v", out)
	}

	if err := RetrieveObject(filepath.Join(t.TempDir(), "missing"), &out); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoggingMutex(t *testing.T) {
	lg := log.NewDiscard()
	var mu LoggingMutex
	n := 0

	done := make(chan struct{})
	for range 4 {
		go func() {
			for range 100 {
				mu.Lock(lg)
				n++
				mu.Unlock(lg)
			}
			done <- struct{}{}
		}()
	}
	for range 4 {
		<-done
	}
	if n != 400 {
		t.Errorf("expected 400 increments, got %d", n)
	}
}
