// Package salat derives the daily prayer schedule from solar events and
// answers which prayer period an instant falls in.
package salat

import (
	"fmt"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
)

// highLatitudeThreshold is the latitude from which the Moonsighting
// Committee bounds Fajr and Isha by a seventh of the night.
const highLatitudeThreshold = 55.0

// PrayerTimes is the schedule for one date at one location. It is
// immutable and safe for concurrent use.
type PrayerTimes struct {
	date   time.Time
	coords astro.Coordinates
	params Parameters

	// UTC instants indexed by Prayer; the zero time marks an instant the
	// sun does not define on this date.
	times [QiyamYesterday + 1]time.Time
}

// New computes the schedule for the calendar date of date, as seen in
// date's location, at coords.
func New(date time.Time, coords astro.Coordinates, params Parameters) (*PrayerTimes, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	loc := date.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	yesterday := astro.NewSolarTime(day.AddDate(0, 0, -1), coords)
	today := astro.NewSolarTime(day, coords)
	tomorrow := astro.NewSolarTime(day.AddDate(0, 0, 1), coords)
	dayAfter := astro.NewSolarTime(day.AddDate(0, 0, 2), coords)

	c := calculator{coords: coords, params: params}
	round := params.Rounding.Apply

	pt := &PrayerTimes{date: day, coords: coords, params: params}

	fajr := c.fajr(today, tomorrow)
	isha := c.isha(today, tomorrow)
	maghrib := c.maghrib(today, isha)

	pt.set(Fajr, fajr, round)
	if sunrise, ok := today.Sunrise(); ok {
		pt.set(Sunrise, c.adjust(Sunrise, sunrise), round)
	}
	if transit, ok := today.Transit(); ok {
		pt.set(Dhuhr, c.adjust(Dhuhr, transit), round)
	}
	if asr, ok := today.Afternoon(float64(params.Madhab.Shadow())); ok {
		pt.set(Asr, c.adjust(Asr, asr), round)
	}
	pt.set(Maghrib, maghrib, round)
	pt.set(Isha, isha, round)

	// The night runs from this evening's Maghrib to tomorrow's Fajr.
	fajrTomorrow := c.fajr(tomorrow, dayAfter)
	pt.set(FajrTomorrow, fajrTomorrow, round)
	pt.times[Midnight], pt.times[Qiyam] = nightMarks(pt.times[Maghrib], fajrTomorrow)

	// The night that ends with this morning's Fajr.
	maghribYesterday := c.maghrib(yesterday, c.isha(yesterday, today))
	if !maghribYesterday.IsZero() {
		maghribYesterday = round(maghribYesterday)
	}
	pt.times[MidnightYesterday], pt.times[QiyamYesterday] = nightMarks(maghribYesterday, fajr)

	return pt, nil
}

func (pt *PrayerTimes) set(p Prayer, t time.Time, round func(time.Time) time.Time) {
	if t.IsZero() {
		return
	}
	pt.times[p] = round(t)
}

// Date returns midnight of the schedule's calendar date in its location.
func (pt *PrayerTimes) Date() time.Time { return pt.date }

// Location returns the location instants are reported in.
func (pt *PrayerTimes) Location() *time.Location { return pt.date.Location() }

// Coordinates returns the observer position.
func (pt *PrayerTimes) Coordinates() astro.Coordinates { return pt.coords }

// Parameters returns the parameters the schedule was computed with.
func (pt *PrayerTimes) Parameters() Parameters { return pt.params }

// Time returns the instant of p in the schedule's location. ok is false
// when the instant does not exist on this date, for example Fajr during
// the midnight sun.
func (pt *PrayerTimes) Time(p Prayer) (t time.Time, ok bool) {
	if p < 0 || int(p) >= len(pt.times) {
		return time.Time{}, false
	}
	t = pt.times[p]
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.In(pt.date.Location()), true
}

// Missing lists the instants absent from the schedule.
func (pt *PrayerTimes) Missing() []Prayer {
	var missing []Prayer
	for _, p := range Prayers {
		if pt.times[p].IsZero() {
			missing = append(missing, p)
		}
	}
	return missing
}

func (pt *PrayerTimes) String() string {
	return fmt.Sprintf("PrayerTimes{%s %s %s}", pt.date.Format("2006-01-02"), pt.coords, pt.params.Method)
}

// calculator applies the parameters to the solar events of one day.
type calculator struct {
	coords astro.Coordinates
	params Parameters
}

func (c calculator) adjust(p Prayer, t time.Time) time.Time {
	return t.Add(time.Duration(c.params.TimeAdjustment(p)) * time.Minute)
}

func (c calculator) seventhOfTheNight() bool {
	return c.params.Method == MoonsightingCommittee && c.coords.Latitude >= highLatitudeThreshold
}

// night returns the whole seconds from today's sunset to tomorrow's sunrise.
func night(today, tomorrow *astro.SolarTime) (int64, bool) {
	sunset, ok := today.Sunset()
	if !ok {
		return 0, false
	}
	sunrise, ok := tomorrow.Sunrise()
	if !ok {
		return 0, false
	}
	return int64(sunrise.Sub(sunset) / time.Second), true
}

// fajr returns the adjusted, unrounded Fajr for today: the twilight angle
// time, never earlier than the safe bound.
func (c calculator) fajr(today, tomorrow *astro.SolarTime) time.Time {
	sunrise, hasSunrise := today.Sunrise()
	nightSecs, hasNight := night(today, tomorrow)

	var fajr time.Time
	if c.seventhOfTheNight() {
		if hasSunrise && hasNight {
			fajr = sunrise.Add(-seconds(nightSecs / 7))
		}
	} else {
		fajr, _ = today.TimeForSolarAngle(astro.Angle(-c.params.FajrAngle), false)
	}

	var safe time.Time
	switch {
	case !hasSunrise:
	case c.params.Method == MoonsightingCommittee:
		date := today.Date()
		safe = astro.SeasonAdjustedMorningTwilight(c.coords.Latitude, astro.DayOfYear(date), date.Year(), sunrise)
	case hasNight:
		portion, _ := c.params.NightPortions()
		safe = sunrise.Add(-seconds(int64(portion * float64(nightSecs))))
	}

	fajr = later(fajr, safe)
	if fajr.IsZero() {
		return fajr
	}
	return c.adjust(Fajr, fajr)
}

// isha returns the adjusted, unrounded Isha for today: a fixed interval
// after sunset, or the twilight angle time never later than the safe bound.
func (c calculator) isha(today, tomorrow *astro.SolarTime) time.Time {
	sunset, hasSunset := today.Sunset()

	var isha time.Time
	if c.params.IshaInterval > 0 {
		if hasSunset {
			isha = sunset.Add(time.Duration(c.params.IshaInterval) * time.Minute)
		}
	} else {
		nightSecs, hasNight := night(today, tomorrow)

		var safe time.Time
		switch {
		case !hasSunset:
		case c.params.Method == MoonsightingCommittee:
			date := today.Date()
			safe = astro.SeasonAdjustedEveningTwilight(c.coords.Latitude, astro.DayOfYear(date), date.Year(), sunset, c.params.Shafaq)
		case hasNight:
			_, portion := c.params.NightPortions()
			safe = sunset.Add(seconds(int64(portion * float64(nightSecs))))
		}

		if c.seventhOfTheNight() {
			if hasSunset && hasNight {
				isha = sunset.Add(seconds(nightSecs / 7))
			}
		} else {
			isha, _ = today.TimeForSolarAngle(astro.Angle(-c.params.IshaAngle), true)
		}

		isha = earlier(isha, safe)
	}

	if isha.IsZero() {
		return isha
	}
	return c.adjust(Isha, isha)
}

// maghrib returns the adjusted, unrounded Maghrib. With a Maghrib angle it
// is the time the sun reaches that depth, as long as that falls after
// sunset and before isha.
func (c calculator) maghrib(today *astro.SolarTime, isha time.Time) time.Time {
	sunset, ok := today.Sunset()
	if !ok {
		return time.Time{}
	}

	maghrib := sunset
	if c.params.MaghribAngle > 0 {
		angled, ok := today.TimeForSolarAngle(astro.Angle(-c.params.MaghribAngle), true)
		if ok && angled.After(sunset) && (isha.IsZero() || angled.Before(isha)) {
			maghrib = angled
		}
	}
	return c.adjust(Maghrib, maghrib)
}

// nightMarks returns the middle and the start of the last third of the
// night between maghrib and fajr, each rounded to the nearest minute.
func nightMarks(maghrib, fajr time.Time) (midnight, qiyam time.Time) {
	if maghrib.IsZero() || fajr.IsZero() {
		return time.Time{}, time.Time{}
	}
	duration := float64(fajr.Sub(maghrib) / time.Second)
	midnight = astro.RoundToNearestMinute(maghrib.Add(seconds(int64(duration / 2))))
	qiyam = astro.RoundToNearestMinute(maghrib.Add(seconds(int64(duration * 2 / 3))))
	return midnight, qiyam
}

func seconds(n int64) time.Duration { return time.Duration(n) * time.Second }

// later returns the later of two optional instants.
func later(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.After(a):
		return b
	default:
		return a
	}
}

// earlier returns the earlier of two optional instants.
func earlier(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}
