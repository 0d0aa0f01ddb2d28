// Package state provides thread-safe tracking of the live prayer schedule.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/logging"
	"github.com/litescript/ls-salat/internal/salat"
)

// EventType represents the type of state change event.
type EventType string

const (
	// EventEnter marks the clock crossing into a new prayer period.
	EventEnter EventType = "ENTER"
	// EventNewDay marks the schedule being rebuilt for a new calendar date.
	EventNewDay EventType = "NEW_DAY"
)

// Event represents a change observed by Refresh.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	From      salat.Event `json:"from"`
	To        salat.Event `json:"to"`
	Name      string      `json:"name"`
	Date      string      `json:"date"`
}

// Manager handles the live schedule with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	coords astro.Coordinates
	params salat.Parameters
	loc    *time.Location
	log    *logging.Logger

	// Schedules for the current calendar date and the one before it, and
	// the one being displayed when the viewer has stepped to another date.
	today     *salat.PrayerTimes
	previous  *salat.PrayerTimes
	displayed *salat.PrayerTimes
	dayOffset int

	current       salat.Event
	tracking      bool
	lastRefresh   time.Time
	lastError     error
	buildDuration time.Duration

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	Coordinates     astro.Coordinates
	Parameters      salat.Parameters
	Location        *time.Location
	MaxEvents       int
	RefreshInterval time.Duration
	Logger          *logging.Logger
}

// DefaultConfig returns the default configuration: Makkah in the host's
// zone with the Umm al-Qura method.
func DefaultConfig() Config {
	return Config{
		Coordinates:     astro.Makkah,
		Parameters:      salat.NewParameters(salat.UmmAlQura, salat.Shafi),
		Location:        time.Local,
		MaxEvents:       50,
		RefreshInterval: time.Second,
	}
}

// NewManager creates a new state manager. Nothing is computed until the
// first Refresh.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		coords:          cfg.Coordinates,
		params:          cfg.Parameters,
		loc:             loc,
		log:             log,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Refresh brings the state up to now: the schedule is rebuilt when the
// calendar date changes and period changes are recorded as events.
func (m *Manager) Refresh(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now = now.In(m.loc)
	m.lastRefresh = now

	day := midnight(now)
	if m.today == nil || !m.today.Date().Equal(day) {
		if err := m.rebuild(day); err != nil {
			m.lastError = err
			m.log.Error("Schedule for %s failed: %v", day.Format("2006-01-02"), err)
			return err
		}
		if m.tracking {
			ev := m.eventAt(now)
			m.addEvent(Event{
				Type:      EventNewDay,
				Timestamp: now,
				From:      m.current,
				To:        ev,
				Name:      ev.DisplayName(day),
				Date:      day.Format("2006-01-02"),
			})
		}
	}
	m.lastError = nil

	ev := m.eventAt(now)
	if m.tracking && ev != m.current {
		m.addEvent(Event{
			Type:      EventEnter,
			Timestamp: now,
			From:      m.current,
			To:        ev,
			Name:      ev.DisplayName(day),
			Date:      day.Format("2006-01-02"),
		})
		m.log.Info("Entered %s", ev.DisplayName(day))
	}
	m.current = ev
	m.tracking = true

	return m.rebuildDisplayed()
}

// rebuild computes the schedules for day and the day before it. The caller
// holds the write lock.
func (m *Manager) rebuild(day time.Time) error {
	started := time.Now()
	pt, err := salat.New(day, m.coords, m.params)
	if err != nil {
		return err
	}

	prev := m.today
	if prev == nil || !prev.Date().Equal(day.AddDate(0, 0, -1)) {
		if prev, err = salat.New(day.AddDate(0, 0, -1), m.coords, m.params); err != nil {
			return err
		}
	}
	m.buildDuration = time.Since(started)

	m.today, m.previous, m.displayed = pt, prev, nil
	m.log.Debug("Schedule built for %s in %v", day.Format("2006-01-02"), m.buildDuration)
	if missing := pt.Missing(); len(missing) > 0 {
		m.log.Warn("%d instants undefined on %s at %s", len(missing), day.Format("2006-01-02"), m.coords)
	}
	return nil
}

// schedule returns the schedule whose timeline covers now. Instants before
// the first boundary of today still belong to yesterday's night.
func (m *Manager) schedule(now time.Time) *salat.PrayerTimes {
	if m.previous != nil && !m.today.Covers(now) {
		return m.previous
	}
	return m.today
}

func (m *Manager) eventAt(now time.Time) salat.Event {
	return m.schedule(now).Current(now)
}

// rebuildDisplayed computes the schedule for the stepped-to date if it is
// not the current one. The caller holds the write lock.
func (m *Manager) rebuildDisplayed() error {
	if m.dayOffset == 0 || m.today == nil {
		m.displayed = nil
		return nil
	}
	day := m.today.Date().AddDate(0, 0, m.dayOffset)
	if m.displayed != nil && m.displayed.Date().Equal(day) {
		return nil
	}
	pt, err := salat.New(day, m.coords, m.params)
	if err != nil {
		m.lastError = err
		return err
	}
	m.displayed = pt
	return nil
}

// StepDay moves the displayed date by n days relative to the current one.
func (m *Manager) StepDay(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dayOffset += n
	return m.rebuildDisplayed()
}

// ResetDay displays the current date again.
func (m *Manager) ResetDay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dayOffset = 0
	m.displayed = nil
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	// Today is the schedule for the date of the last refresh and Displayed
	// the one being viewed, which is Today unless the date was stepped.
	Today     *salat.PrayerTimes
	Displayed *salat.PrayerTimes
	DayOffset int

	// Live is the schedule in force at Now. Just after midnight it is the
	// previous date's until Today's timeline begins.
	Live *salat.PrayerTimes

	Now       time.Time
	Current   salat.Event
	Since     time.Time
	Next      salat.Event
	NextAt    time.Time
	HasNext   bool
	Remaining time.Duration

	Sun    astro.Horizontal
	Tier   astro.ElevationTier
	Qiblah float64

	LastError     error
	BuildDuration time.Duration
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Today:         m.today,
		Displayed:     m.today,
		DayOffset:     m.dayOffset,
		Now:           m.lastRefresh,
		Current:       m.current,
		Qiblah:        astro.Qiblah(m.coords),
		LastError:     m.lastError,
		BuildDuration: m.buildDuration,
		Events:        m.getEventsOrdered(),
	}
	if m.displayed != nil {
		snap.Displayed = m.displayed
	}

	if m.today != nil {
		live := m.schedule(m.lastRefresh)
		snap.Live = live
		for _, b := range live.Timeline() {
			if !b.At.After(m.lastRefresh) {
				snap.Since = b.At
			}
		}
		snap.Next, snap.NextAt, snap.HasNext = live.Next(m.lastRefresh)
		if snap.HasNext {
			snap.Remaining = snap.NextAt.Sub(m.lastRefresh)
		}
		snap.Sun = astro.SunHorizontal(m.coords, m.lastRefresh)
		snap.Tier = astro.GetElevationTier(snap.Sun.ElDeg)
	}
	return snap
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// EventsSince returns the events recorded after t.
func (m *Manager) EventsSince(t time.Time) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Event
	for _, e := range m.getEventsOrdered() {
		if e.Timestamp.After(t) {
			out = append(out, e)
		}
	}
	return out
}

// Location returns the zone schedules are computed in.
func (m *Manager) Location() *time.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loc
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a schedule has been built.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.today != nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
