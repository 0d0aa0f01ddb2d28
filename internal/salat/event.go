package salat

import (
	"fmt"
	"time"
)

// ForbiddenWindow is the span after sunrise and before Maghrib in which
// prayer is restricted.
const ForbiddenWindow = 20 * time.Minute

// Event is the state a moment in the day falls into.
type Event int

const (
	EventFajr Event = iota
	EventSunrise
	EventDhuhr
	EventAsr
	EventMaghrib
	EventIsha
	EventQiyam
	EventDuringSunrise
	EventDuringSunset
	EventAfterMidnight
)

type eventInfo struct {
	id   string
	name string
}

var events = map[Event]eventInfo{
	EventFajr:          {"Fajr", "Fajr"},
	EventSunrise:       {"Sunrise", "Sunrise"},
	EventDhuhr:         {"Dhuhr", "Dhuhr"},
	EventAsr:           {"Asr", "Asr"},
	EventMaghrib:       {"Maghrib", "Maghrib"},
	EventIsha:          {"Isha", "Isha"},
	EventQiyam:         {"Qiyam", "Qiyam"},
	EventDuringSunrise: {"DuringSunrise", "During Sunrise (Cannot perform Fajr)"},
	EventDuringSunset:  {"DuringSunset", "During Sunset (Cannot perform Asr)"},
	EventAfterMidnight: {"AfterMidnight", "After Midnight (Cannot perform Isha)"},
}

// String returns the short identifier, e.g. "DuringSunset".
func (e Event) String() string {
	if info, ok := events[e]; ok {
		return info.id
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Name returns the human readable name.
func (e Event) Name() string {
	if info, ok := events[e]; ok {
		return info.name
	}
	return e.String()
}

// DisplayName is Name with Dhuhr shown as Jumu'ah on a Friday.
func (e Event) DisplayName(on time.Time) string {
	if e == EventDhuhr && on.Weekday() == time.Friday {
		return "Jumu'ah"
	}
	return e.Name()
}

// IsRestricted reports whether e is a forbidden window.
func (e Event) IsRestricted() bool {
	switch e {
	case EventDuringSunrise, EventDuringSunset, EventAfterMidnight:
		return true
	}
	return false
}

// IsDaily reports whether e is one of the five obligatory prayers.
func (e Event) IsDaily() bool {
	switch e {
	case EventFajr, EventDhuhr, EventAsr, EventMaghrib, EventIsha:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}
