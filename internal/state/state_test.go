package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/salat"
)

var edt = time.FixedZone("EDT", -4*3600)

func raleighConfig() Config {
	cfg := DefaultConfig()
	cfg.Coordinates = astro.Coordinates{Latitude: 35.7750, Longitude: -78.6336}
	cfg.Parameters = salat.NewParameters(salat.NorthAmerica, salat.Hanafi)
	cfg.Location = edt
	return cfg
}

func at(day, hour, min int) time.Time {
	return time.Date(2015, 7, day, hour, min, 0, 0, edt)
}

func mustRefresh(t *testing.T, m *Manager, now time.Time) {
	t.Helper()
	if err := m.Refresh(now); err != nil {
		t.Fatalf("Refresh(%v) error = %v", now, err)
	}
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	if snap := m.Snapshot(); snap.Today != nil || snap.HasNext {
		t.Error("Snapshot before the first Refresh should be empty")
	}
}

func TestManager_Refresh(t *testing.T) {
	m := NewManager(raleighConfig())
	mustRefresh(t, m, at(12, 12, 0))

	if !m.HasData() {
		t.Fatal("HasData should be true after Refresh")
	}

	snap := m.Snapshot()
	if got := snap.Today.Date(); !got.Equal(at(12, 0, 0)) {
		t.Errorf("Today.Date() = %v, want 2015-07-12", got)
	}
	if snap.Displayed != snap.Today {
		t.Error("Displayed should be Today without stepping")
	}
	if snap.Current != salat.EventSunrise {
		t.Errorf("Current = %s, want Sunrise", snap.Current)
	}
	if !snap.HasNext || snap.Next != salat.EventDhuhr {
		t.Errorf("Next = %s (ok=%v), want Dhuhr", snap.Next, snap.HasNext)
	}
	if snap.Remaining != 81*time.Minute {
		t.Errorf("Remaining = %v, want 1h21m", snap.Remaining)
	}
	if got := snap.Since.Format("15:04"); got != "06:28" {
		t.Errorf("Since = %s, want 06:28 (end of the sunrise window)", got)
	}
	if snap.Tier != astro.ElevationDay {
		t.Errorf("Tier = %s, want day", snap.Tier)
	}
	if snap.Qiblah < 50 || snap.Qiblah > 60 {
		t.Errorf("Qiblah = %.2f, want about 55.8", snap.Qiblah)
	}
	if len(snap.Events) != 0 {
		t.Errorf("first Refresh recorded %d events, want 0", len(snap.Events))
	}
}

func TestManager_EventDetection_Enter(t *testing.T) {
	m := NewManager(raleighConfig())

	steps := []struct {
		now  time.Time
		want salat.Event
	}{
		{at(12, 12, 0), salat.EventSunrise},
		{at(12, 13, 30), salat.EventDhuhr},
		{at(12, 13, 45), salat.EventDhuhr},
		{at(12, 18, 30), salat.EventAsr},
		{at(12, 20, 15), salat.EventDuringSunset},
		{at(12, 21, 0), salat.EventMaghrib},
	}
	for _, s := range steps {
		mustRefresh(t, m, s.now)
		if got := m.Snapshot().Current; got != s.want {
			t.Errorf("Current at %s = %s, want %s", s.now.Format("15:04"), got, s.want)
		}
	}

	events := m.RecentEvents(100)
	want := []salat.Event{salat.EventDhuhr, salat.EventAsr, salat.EventDuringSunset, salat.EventMaghrib}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != EventEnter {
			t.Errorf("event %d type = %q, want ENTER", i, e.Type)
		}
		if e.To != want[i] {
			t.Errorf("event %d to = %s, want %s", i, e.To, want[i])
		}
	}
	if events[0].From != salat.EventSunrise {
		t.Errorf("first event from = %s, want Sunrise", events[0].From)
	}
	if events[0].Name != "Dhuhr" || events[0].Date != "2015-07-12" {
		t.Errorf("first event = %+v", events[0])
	}
}

// Just after midnight the clock is still in yesterday's Isha; the new day's
// schedule only takes over at its first boundary.
func TestManager_NewDay(t *testing.T) {
	m := NewManager(raleighConfig())

	mustRefresh(t, m, at(12, 22, 30))
	mustRefresh(t, m, at(13, 0, 10))

	snap := m.Snapshot()
	if got := snap.Today.Date(); !got.Equal(at(13, 0, 0)) {
		t.Errorf("Today.Date() = %v, want 2015-07-13", got)
	}
	if snap.Current != salat.EventIsha {
		t.Errorf("Current after midnight = %s, want Isha", snap.Current)
	}
	if snap.Next != salat.EventAfterMidnight || snap.NextAt.Format("15:04") != "00:38" {
		t.Errorf("Next = %s at %s, want AfterMidnight at 00:38", snap.Next, snap.NextAt.Format("15:04"))
	}

	events := m.RecentEvents(10)
	if len(events) != 1 || events[0].Type != EventNewDay {
		t.Fatalf("events = %+v, want one NEW_DAY", events)
	}
	if events[0].Date != "2015-07-13" {
		t.Errorf("NEW_DAY date = %q, want 2015-07-13", events[0].Date)
	}

	mustRefresh(t, m, at(13, 1, 0))
	mustRefresh(t, m, at(13, 2, 30))

	events = m.RecentEvents(2)
	if events[0].To != salat.EventAfterMidnight || events[1].To != salat.EventQiyam {
		t.Errorf("night events = %s, %s; want AfterMidnight, Qiyam", events[0].To, events[1].To)
	}
}

func TestManager_LiveScheduleAfterMidnight(t *testing.T) {
	m := NewManager(raleighConfig())
	mustRefresh(t, m, at(13, 0, 10))

	snap := m.Snapshot()
	if snap.Live == nil {
		t.Fatal("Live should be set after Refresh")
	}
	if got := snap.Live.Date(); !got.Equal(at(12, 0, 0)) {
		t.Errorf("Live.Date() at 00:10 = %v, want 2015-07-12", got)
	}
	if got := snap.Live.Current(snap.Now); got != salat.EventIsha {
		t.Errorf("Live.Current(00:10) = %s, want Isha", got)
	}
	if next, nextAt, ok := snap.Live.Next(snap.Now); !ok || next != salat.EventAfterMidnight || !nextAt.Equal(snap.NextAt) {
		t.Errorf("Live.Next(00:10) = %s at %v, want AfterMidnight at %v", next, nextAt, snap.NextAt)
	}

	mustRefresh(t, m, at(13, 1, 0))
	if snap := m.Snapshot(); snap.Live != snap.Today {
		t.Errorf("Live at 01:00 = %v, want Today %v", snap.Live, snap.Today)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := raleighConfig()
	cfg.MaxEvents = 2
	m := NewManager(cfg)

	for _, now := range []time.Time{at(12, 12, 0), at(12, 13, 30), at(12, 18, 30), at(12, 20, 15), at(12, 21, 0)} {
		mustRefresh(t, m, now)
	}

	events := m.RecentEvents(100)
	if len(events) != 2 {
		t.Fatalf("events count = %d, want 2 (max)", len(events))
	}
	if events[0].To != salat.EventDuringSunset || events[1].To != salat.EventMaghrib {
		t.Errorf("events = %s, %s; want DuringSunset, Maghrib", events[0].To, events[1].To)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at index %d", i)
		}
	}
}

func TestManager_EventsSince(t *testing.T) {
	m := NewManager(raleighConfig())
	for _, now := range []time.Time{at(12, 12, 0), at(12, 13, 30), at(12, 18, 30)} {
		mustRefresh(t, m, now)
	}

	events := m.EventsSince(at(12, 14, 0))
	if len(events) != 1 || events[0].To != salat.EventAsr {
		t.Errorf("EventsSince = %+v, want only Asr", events)
	}
}

func TestManager_StepDay(t *testing.T) {
	m := NewManager(raleighConfig())
	mustRefresh(t, m, at(12, 12, 0))

	if err := m.StepDay(1); err != nil {
		t.Fatalf("StepDay(1) error = %v", err)
	}
	snap := m.Snapshot()
	if snap.DayOffset != 1 {
		t.Errorf("DayOffset = %d, want 1", snap.DayOffset)
	}
	if got := snap.Displayed.Date(); !got.Equal(at(13, 0, 0)) {
		t.Errorf("Displayed.Date() = %v, want 2015-07-13", got)
	}
	if snap.Current != salat.EventSunrise {
		t.Errorf("Current = %s, stepping must not change the live event", snap.Current)
	}

	// The offset survives a refresh.
	mustRefresh(t, m, at(12, 12, 1))
	if got := m.Snapshot().Displayed.Date(); !got.Equal(at(13, 0, 0)) {
		t.Errorf("Displayed.Date() after Refresh = %v, want 2015-07-13", got)
	}

	m.ResetDay()
	snap = m.Snapshot()
	if snap.DayOffset != 0 || snap.Displayed != snap.Today {
		t.Error("ResetDay should display today again")
	}
}

func TestManager_RefreshError(t *testing.T) {
	cfg := raleighConfig()
	cfg.Coordinates = astro.Coordinates{Latitude: 123, Longitude: 0}
	m := NewManager(cfg)

	err := m.Refresh(at(12, 12, 0))
	if !errors.Is(err, astro.ErrInvalidCoordinates) {
		t.Fatalf("Refresh() error = %v, want ErrInvalidCoordinates", err)
	}
	if m.HasData() {
		t.Error("HasData should be false after a failed build")
	}
	if snap := m.Snapshot(); snap.LastError == nil {
		t.Error("LastError should be set")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(raleighConfig())

	var wg sync.WaitGroup
	iterations := 100

	// Writer goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := at(12, 0, 0)
		for i := 0; i < iterations; i++ {
			_ = m.Refresh(start.Add(time.Duration(i) * 15 * time.Minute))
		}
	}()

	// Reader goroutines
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RecentEvents(5)
				_ = m.RefreshInterval()
			}
		}()
	}

	wg.Wait()
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := NewManager(DefaultConfig())

	newInterval := 30 * time.Second
	m.SetRefreshInterval(newInterval)

	if m.RefreshInterval() != newInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), newInterval)
	}
}
