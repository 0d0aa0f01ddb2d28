package salat

import (
	"fmt"
	"time"
)

// Prayer names an instant in a PrayerTimes schedule.
type Prayer int

const (
	Fajr Prayer = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
	Midnight
	Qiyam
	FajrTomorrow
	MidnightYesterday
	QiyamYesterday
)

// Prayers lists the instants of a schedule in chronological order.
var Prayers = []Prayer{
	MidnightYesterday, QiyamYesterday,
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha,
	Midnight, Qiyam, FajrTomorrow,
}

// DailyPrayers are the five obligatory prayers plus sunrise, as shown in
// a day's table.
var DailyPrayers = []Prayer{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

var prayerNames = map[Prayer]string{
	Fajr:              "Fajr",
	Sunrise:           "Sunrise",
	Dhuhr:             "Dhuhr",
	Asr:               "Asr",
	Maghrib:           "Maghrib",
	Isha:              "Isha",
	Midnight:          "Midnight",
	Qiyam:             "Qiyam",
	FajrTomorrow:      "FajrTomorrow",
	MidnightYesterday: "MidnightYesterday",
	QiyamYesterday:    "QiyamYesterday",
}

func (p Prayer) String() string {
	if name, ok := prayerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Prayer(%d)", int(p))
}

// DisplayName returns the name shown to a person on the given day: Dhuhr on
// a Friday is Jumu'ah.
func (p Prayer) DisplayName(on time.Time) string {
	if p == Dhuhr && on.Weekday() == time.Friday {
		return "Jumu'ah"
	}
	return p.String()
}
