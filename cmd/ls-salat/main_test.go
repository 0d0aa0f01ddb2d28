package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-salat/internal/salat"
	"github.com/litescript/ls-salat/internal/state"
)

func TestDayOffset(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no zoneinfo: %v", err)
	}
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, ny)

	tests := []struct {
		date string
		want int
	}{
		{"2024-03-09", 0},
		{"2024-03-10", 1}, // spring forward
		{"2024-03-11", 2},
		{"2024-03-01", -8},
		{"2025-03-09", 365},
	}
	for _, tt := range tests {
		got, err := dayOffset(tt.date, now)
		if err != nil {
			t.Fatalf("dayOffset(%s) error = %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("dayOffset(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}

	if _, err := dayOffset("09/03/2024", now); err == nil {
		t.Error("dayOffset should reject a malformed date")
	}
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	writeEvents(&buf, nil)
	if !strings.Contains(buf.String(), "(none yet)") {
		t.Errorf("empty log = %q", buf.String())
	}

	buf.Reset()
	writeEvents(&buf, []state.Event{{
		Type:      state.EventEnter,
		Timestamp: time.Date(2015, 7, 12, 13, 21, 0, 0, time.UTC),
		From:      salat.EventSunrise,
		To:        salat.EventDhuhr,
		Name:      "Dhuhr",
	}})
	out := buf.String()
	for _, want := range []string{"2015-07-12 13:21:00", "ENTER", "Dhuhr (from Sunrise)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
