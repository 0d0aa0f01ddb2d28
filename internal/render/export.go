// Package render turns a prayer schedule into JSON, plain text and styled
// terminal tables.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/salat"
)

// ScheduleExport is the JSON-serializable representation of a schedule as
// seen from one reference instant.
type ScheduleExport struct {
	Date     string         `json:"date"`
	TimeZone string         `json:"timezone"`
	Location LocationExport `json:"location"`
	Method   string         `json:"method"`
	Madhab   string         `json:"madhab"`
	Timings  TimingsExport  `json:"timings"`

	At               time.Time  `json:"at"`
	Current          string     `json:"current"`
	CurrentName      string     `json:"current_name"`
	Next             string     `json:"next,omitempty"`
	NextAt           *time.Time `json:"next_at"`
	RemainingSeconds *int64     `json:"remaining_seconds"`

	Missing []string `json:"missing"`
}

// LocationExport is the observer with the Qiblah bearing.
type LocationExport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Qiblah    float64 `json:"qiblah"`
}

// TimingsExport holds the schedule instants. Instants the sun does not
// define on the date are null.
type TimingsExport struct {
	Fajr         *time.Time `json:"fajr"`
	Sunrise      *time.Time `json:"sunrise"`
	Dhuhr        *time.Time `json:"dhuhr"`
	Asr          *time.Time `json:"asr"`
	Maghrib      *time.Time `json:"maghrib"`
	Isha         *time.Time `json:"isha"`
	Midnight     *time.Time `json:"midnight"`
	LastThird    *time.Time `json:"lastthird"`
	FajrTomorrow *time.Time `json:"fajr_tomorrow"`
}

// ExportSchedule converts a schedule to an exportable format, answering
// the current and next event for at.
func ExportSchedule(pt *salat.PrayerTimes, at time.Time) *ScheduleExport {
	coords := pt.Coordinates()
	params := pt.Parameters()
	loc := pt.Location()

	export := &ScheduleExport{
		Date:     pt.Date().Format("2006-01-02"),
		TimeZone: loc.String(),
		Location: LocationExport{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
			Qiblah:    astro.Qiblah(coords),
		},
		Method:  params.Method.String(),
		Madhab:  params.Madhab.String(),
		At:      at.In(loc),
		Missing: []string{},
	}

	instant := func(p salat.Prayer) *time.Time {
		t, ok := pt.Time(p)
		if !ok {
			return nil
		}
		return &t
	}
	export.Timings = TimingsExport{
		Fajr:         instant(salat.Fajr),
		Sunrise:      instant(salat.Sunrise),
		Dhuhr:        instant(salat.Dhuhr),
		Asr:          instant(salat.Asr),
		Maghrib:      instant(salat.Maghrib),
		Isha:         instant(salat.Isha),
		Midnight:     instant(salat.Midnight),
		LastThird:    instant(salat.Qiyam),
		FajrTomorrow: instant(salat.FajrTomorrow),
	}

	current := pt.Current(at)
	export.Current = current.String()
	export.CurrentName = current.DisplayName(pt.Date())

	if next, nextAt, ok := pt.Next(at); ok {
		nextAt = nextAt.In(loc)
		remaining := int64(nextAt.Sub(at) / time.Second)
		export.Next = next.String()
		export.NextAt = &nextAt
		export.RemainingSeconds = &remaining
	}

	for _, p := range pt.Missing() {
		export.Missing = append(export.Missing, p.String())
	}
	return export
}

// WriteJSON writes the schedule as JSON to the given writer.
func (s *ScheduleExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// tablePrayers are the rows shown for a day, in order.
var tablePrayers = []salat.Prayer{
	salat.Fajr, salat.Sunrise, salat.Dhuhr, salat.Asr, salat.Maghrib,
	salat.Isha, salat.Midnight, salat.Qiyam, salat.FajrTomorrow,
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Prayer salat.Prayer
	Name   string
	At     time.Time
	OK     bool
	Active bool
}

// Time formats the row instant as a 24-hour clock, or dashes when absent.
func (r SummaryRow) Time() string {
	if !r.OK {
		return "--:--"
	}
	return r.At.Format("15:04")
}

// GenerateSummaryRows creates one row per displayed instant. The row of the
// latest instant at or before at is marked active.
func GenerateSummaryRows(pt *salat.PrayerTimes, at time.Time) []SummaryRow {
	if pt == nil {
		return nil
	}

	rows := make([]SummaryRow, 0, len(tablePrayers))
	active := -1
	for _, p := range tablePrayers {
		t, ok := pt.Time(p)
		rows = append(rows, SummaryRow{
			Prayer: p,
			Name:   p.DisplayName(pt.Date()),
			At:     t,
			OK:     ok,
		})
		if ok && !t.After(at) {
			active = len(rows) - 1
		}
	}
	if active >= 0 {
		rows[active].Active = true
	}
	return rows
}

// Countdown formats a duration as "2h 06m".
func Countdown(d time.Duration) string {
	h, m := salat.HoursMinutes(d)
	return fmt.Sprintf("%dh %02dm", h, m)
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, pt *salat.PrayerTimes, at time.Time) {
	if pt == nil {
		fmt.Fprintln(w, "No schedule")
		return
	}

	params := pt.Parameters()
	fmt.Fprintf(w, "Prayer Times %s @ %s\n", pt.Date().Format("Mon 2006-01-02"), pt.Coordinates())
	fmt.Fprintf(w, "%s, %s, %s\n", params.Method, params.Madhab, pt.Location())
	fmt.Fprintln(w, strings.Repeat("─", 40))

	fmt.Fprintf(w, "%-16s %-6s %s\n", "Prayer", "Time", "")
	fmt.Fprintln(w, strings.Repeat("─", 40))

	for _, r := range GenerateSummaryRows(pt, at) {
		marker := ""
		if r.Active {
			marker = "◀"
		}
		fmt.Fprintf(w, "%-16s %-6s %s\n", truncateStr(r.Name, 16), r.Time(), marker)
	}
	fmt.Fprintln(w, strings.Repeat("─", 40))

	current := pt.Current(at)
	fmt.Fprintf(w, "Now: %s\n", current.DisplayName(pt.Date()))
	if next, _, ok := pt.Next(at); ok {
		remaining, _ := pt.TimeRemaining(at)
		fmt.Fprintf(w, "Next: %s in %s\n", next.DisplayName(pt.Date()), Countdown(remaining))
	}

	if missing := pt.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = p.String()
		}
		fmt.Fprintf(w, "\nUndefined today: %s\n", strings.Join(names, ", "))
	}
}

func truncateStr(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-2]) + ".."
}
