// Package salat answers which prayer period an instant falls in.
package salat

import (
	"math"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
)

// Boundary marks the instant a schedule enters an event.
type Boundary struct {
	Event Event
	At    time.Time
}

// Timeline returns the boundaries of the schedule in chronological order,
// from the middle of the previous night to tomorrow's Fajr. Absent
// instants are skipped.
func (pt *PrayerTimes) Timeline() []Boundary {
	entries := []struct {
		event  Event
		prayer Prayer
		offset time.Duration
	}{
		{EventAfterMidnight, MidnightYesterday, 0},
		{EventQiyam, QiyamYesterday, 0},
		{EventFajr, Fajr, 0},
		{EventDuringSunrise, Sunrise, 0},
		{EventSunrise, Sunrise, ForbiddenWindow},
		{EventDhuhr, Dhuhr, 0},
		{EventAsr, Asr, 0},
		{EventDuringSunset, Maghrib, -ForbiddenWindow},
		{EventMaghrib, Maghrib, 0},
		{EventIsha, Isha, 0},
		{EventAfterMidnight, Midnight, 0},
		{EventQiyam, Qiyam, 0},
		{EventFajr, FajrTomorrow, 0},
	}

	timeline := make([]Boundary, 0, len(entries))
	for _, e := range entries {
		t, ok := pt.Time(e.prayer)
		if !ok {
			continue
		}
		timeline = append(timeline, Boundary{Event: e.event, At: t.Add(e.offset)})
	}
	return timeline
}

// current returns the index of the latest boundary at or before t, or -1
// when t precedes the whole timeline.
func current(timeline []Boundary, t time.Time) int {
	for i := len(timeline) - 1; i >= 0; i-- {
		if !timeline[i].At.After(t) {
			return i
		}
	}
	return -1
}

// Current returns the event in effect at t. Instants before the first
// boundary fall in the after-midnight window of the previous night.
func (pt *PrayerTimes) Current(t time.Time) Event {
	timeline := pt.Timeline()
	if i := current(timeline, t); i >= 0 {
		return timeline[i].Event
	}
	return EventAfterMidnight
}

// Next returns the event that follows the one in effect at t and when it
// begins. ok is false once t has reached tomorrow's Fajr.
func (pt *PrayerTimes) Next(t time.Time) (Event, time.Time, bool) {
	timeline := pt.Timeline()
	i := current(timeline, t) + 1
	if i >= len(timeline) {
		return 0, time.Time{}, false
	}
	return timeline[i].Event, timeline[i].At, true
}

// Covers reports whether t falls at or after the first boundary of the
// schedule. Earlier instants belong to the previous date's night.
func (pt *PrayerTimes) Covers(t time.Time) bool {
	timeline := pt.Timeline()
	return len(timeline) > 0 && !t.Before(timeline[0].At)
}

// Covering returns the schedule whose timeline contains at: the schedule of
// at's calendar date in at's location, or of the date before when at falls
// ahead of that date's first boundary.
func Covering(at time.Time, coords astro.Coordinates, params Parameters) (*PrayerTimes, error) {
	pt, err := New(at, coords, params)
	if err != nil || pt.Covers(at) {
		return pt, err
	}
	return New(pt.Date().AddDate(0, 0, -1), coords, params)
}

// TimeRemaining returns the time from t until the next event begins.
func (pt *PrayerTimes) TimeRemaining(t time.Time) (time.Duration, bool) {
	_, at, ok := pt.Next(t)
	if !ok {
		return 0, false
	}
	return at.Sub(t), true
}

// HoursMinutes splits d into whole hours and the remaining minutes,
// rounded to the nearest minute.
func HoursMinutes(d time.Duration) (hours, minutes int) {
	if d < 0 {
		d = 0
	}
	whole := d.Hours()
	hours = int(math.Trunc(whole))
	minutes = int(math.Round((whole - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return hours, minutes
}
