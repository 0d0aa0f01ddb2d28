package salat

import (
	"testing"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
)

var raleigh = astro.Coordinates{Latitude: 35.7750, Longitude: -78.6336}

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func mustNew(t *testing.T, date time.Time, coords astro.Coordinates, params Parameters) *PrayerTimes {
	t.Helper()
	pt, err := New(date, coords, params)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return pt
}

func mustTime(t *testing.T, pt *PrayerTimes, p Prayer) time.Time {
	t.Helper()
	got, ok := pt.Time(p)
	if !ok {
		t.Fatalf("%s missing from schedule", p)
	}
	return got
}

func TestNew_Raleigh(t *testing.T) {
	pt := mustNew(t, utc(2015, 7, 12, 0, 0), raleigh, NewParameters(NorthAmerica, Hanafi))

	tests := []struct {
		prayer Prayer
		want   time.Time
	}{
		{Fajr, utc(2015, 7, 12, 8, 42)},
		{Sunrise, utc(2015, 7, 12, 10, 8)},
		{Dhuhr, utc(2015, 7, 12, 17, 21)},
		{Asr, utc(2015, 7, 12, 22, 22)},
		{Maghrib, utc(2015, 7, 13, 0, 32)},
		{Isha, utc(2015, 7, 13, 1, 57)},
		{Midnight, utc(2015, 7, 13, 4, 38)},
		{Qiyam, utc(2015, 7, 13, 5, 59)},
		{FajrTomorrow, utc(2015, 7, 13, 8, 43)},
	}

	for _, tt := range tests {
		t.Run(tt.prayer.String(), func(t *testing.T) {
			if got := mustTime(t, pt, tt.prayer); !got.Equal(tt.want) {
				t.Errorf("%s = %v, want %v", tt.prayer, got, tt.want)
			}
		})
	}
}

func TestNew_MoonsightingCommittee(t *testing.T) {
	pt := mustNew(t, utc(2016, 1, 31, 0, 0), raleigh, NewParameters(MoonsightingCommittee, Shafi))

	tests := []struct {
		prayer Prayer
		want   time.Time
	}{
		{Fajr, utc(2016, 1, 31, 10, 48)},
		{Sunrise, utc(2016, 1, 31, 12, 16)},
		{Dhuhr, utc(2016, 1, 31, 17, 33)},
		{Asr, utc(2016, 1, 31, 20, 20)},
		{Maghrib, utc(2016, 1, 31, 22, 43)},
		{Isha, utc(2016, 2, 1, 0, 5)},
	}

	for _, tt := range tests {
		if got := mustTime(t, pt, tt.prayer); !got.Equal(tt.want) {
			t.Errorf("%s = %v, want %v", tt.prayer, got, tt.want)
		}
	}
}

func TestNew_MoonsightingCommitteeHighLatitude(t *testing.T) {
	oslo := astro.Coordinates{Latitude: 59.9094, Longitude: 10.7349}
	pt := mustNew(t, utc(2016, 1, 1, 0, 0), oslo, NewParameters(MoonsightingCommittee, Hanafi))

	tests := []struct {
		prayer Prayer
		want   time.Time
	}{
		{Fajr, utc(2016, 1, 1, 6, 34)},
		{Sunrise, utc(2016, 1, 1, 8, 19)},
		{Dhuhr, utc(2016, 1, 1, 11, 25)},
		{Asr, utc(2016, 1, 1, 12, 36)},
		{Maghrib, utc(2016, 1, 1, 14, 25)},
		{Isha, utc(2016, 1, 1, 16, 2)},
	}

	for _, tt := range tests {
		if got := mustTime(t, pt, tt.prayer); !got.Equal(tt.want) {
			t.Errorf("%s = %v, want %v", tt.prayer, got, tt.want)
		}
	}
}

func TestNew_LocalClock(t *testing.T) {
	tests := []struct {
		name   string
		date   time.Time
		coords astro.Coordinates
		params func() Parameters
		zone   *time.Location
		want   map[Prayer]string
	}{
		{
			name:   "singapore rounds up",
			date:   utc(2021, 1, 13, 0, 0),
			coords: astro.Coordinates{Latitude: 1.370844612058886, Longitude: 103.80145644060552},
			params: func() Parameters { return NewParameters(Singapore, Shafi) },
			zone:   time.FixedZone("SGT", 8*3600),
			want: map[Prayer]string{
				Fajr: "05:50", Sunrise: "07:13", Dhuhr: "13:15",
				Asr: "16:39", Maghrib: "19:16", Isha: "20:30",
			},
		},
		{
			name:   "jakarta with local offsets",
			date:   utc(2021, 1, 12, 0, 0),
			coords: astro.Coordinates{Latitude: -6.18233995, Longitude: 106.84287154},
			params: func() Parameters {
				p := NewParameters(Egyptian, Shafi)
				p.MethodAdjustments = TimeAdjustments{Fajr: -10, Sunrise: -2, Dhuhr: 2, Asr: 1, Maghrib: 2, Isha: 4}
				return p
			},
			zone: time.FixedZone("WIB", 7*3600),
			want: map[Prayer]string{
				Fajr: "04:15", Sunrise: "05:45", Dhuhr: "12:03",
				Asr: "15:28", Maghrib: "18:16", Isha: "19:31",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := mustNew(t, tt.date, tt.coords, tt.params())
			for _, p := range DailyPrayers {
				got := mustTime(t, pt, p).In(tt.zone).Format("15:04")
				if got != tt.want[p] {
					t.Errorf("%s = %s, want %s", p, got, tt.want[p])
				}
			}
		})
	}
}

func TestNew_ReportsInDateLocation(t *testing.T) {
	est := time.FixedZone("EST", -4*3600)
	pt := mustNew(t, time.Date(2015, 7, 12, 0, 0, 0, 0, est), raleigh, NewParameters(NorthAmerica, Hanafi))

	fajr := mustTime(t, pt, Fajr)
	if fajr.Location() != est {
		t.Errorf("Fajr location = %v, want %v", fajr.Location(), est)
	}
	if got := fajr.Format("15:04"); got != "04:42" {
		t.Errorf("Fajr = %s local, want 04:42", got)
	}
	if got := mustTime(t, pt, Isha).Format("2006-01-02 15:04"); got != "2015-07-12 21:57" {
		t.Errorf("Isha = %s local, want 2015-07-12 21:57", got)
	}
}

func TestNew_Ordering(t *testing.T) {
	cities := []struct {
		name   string
		coords astro.Coordinates
	}{
		{"raleigh", raleigh},
		{"makkah", astro.Makkah},
		{"sydney", astro.Coordinates{Latitude: -33.8688, Longitude: 151.2093}},
		{"london", astro.Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
		{"jakarta", astro.Coordinates{Latitude: -6.18233995, Longitude: 106.84287154}},
	}
	dates := []time.Time{
		utc(2024, 1, 15, 0, 0),
		utc(2024, 3, 20, 0, 0),
		utc(2024, 9, 23, 0, 0),
		utc(2024, 12, 21, 0, 0),
	}
	methods := []Method{MuslimWorldLeague, MoonsightingCommittee, UmmAlQura, Singapore}

	order := []Prayer{MidnightYesterday, QiyamYesterday, Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Midnight, Qiyam, FajrTomorrow}

	for _, city := range cities {
		for _, m := range methods {
			for _, date := range dates {
				params := NewParameters(m, Shafi)
				params.HighLatitudeRule = RecommendedHighLatitudeRule(city.coords)
				pt := mustNew(t, date, city.coords, params)

				if missing := pt.Missing(); len(missing) > 0 {
					t.Fatalf("%s %s %s: missing %v", city.name, m, date.Format("2006-01-02"), missing)
				}
				for i := 1; i < len(order); i++ {
					prev := mustTime(t, pt, order[i-1])
					next := mustTime(t, pt, order[i])
					if !prev.Before(next) {
						t.Errorf("%s %s %s: %s %v not before %s %v",
							city.name, m, date.Format("2006-01-02"), order[i-1], prev, order[i], next)
					}
				}
			}
		}
	}
}

func TestNew_MidnightSun(t *testing.T) {
	tromso := astro.Coordinates{Latitude: 69.6492, Longitude: 18.9553}
	pt := mustNew(t, utc(2020, 6, 21, 0, 0), tromso, NewParameters(MuslimWorldLeague, Shafi))

	for _, p := range []Prayer{Fajr, Sunrise, Maghrib, Isha, Midnight, Qiyam} {
		if _, ok := pt.Time(p); ok {
			t.Errorf("%s should be absent during the midnight sun", p)
		}
	}
	for _, p := range []Prayer{Dhuhr, Asr} {
		if _, ok := pt.Time(p); !ok {
			t.Errorf("%s should be present during the midnight sun", p)
		}
	}

	// Queries still answer from whatever boundaries exist.
	if got := pt.Current(utc(2020, 6, 21, 12, 0)); got != EventDhuhr {
		t.Errorf("Current() = %s, want Dhuhr", got)
	}
}

func TestNew_SeventhOfTheNightBoundsFajr(t *testing.T) {
	// Near 58°N at midsummer an 18° twilight never ends; Fajr falls back to
	// the last seventh of the night.
	aberdeen := astro.Coordinates{Latitude: 57.1497, Longitude: -2.0943}
	params := NewParameters(MuslimWorldLeague, Shafi)
	params.HighLatitudeRule = SeventhOfTheNight

	pt := mustNew(t, utc(2024, 6, 21, 0, 0), aberdeen, params)

	fajr := mustTime(t, pt, Fajr)
	sunrise := mustTime(t, pt, Sunrise)
	if gap := sunrise.Sub(fajr); gap <= 0 || gap > 2*time.Hour {
		t.Errorf("Fajr %v to sunrise %v = %v, want a seventh of a short night", fajr, sunrise, gap)
	}
}

func TestNew_IshaInterval(t *testing.T) {
	params := NewParameters(UmmAlQura, Shafi)
	pt := mustNew(t, utc(2024, 3, 20, 0, 0), astro.Makkah, params)

	maghrib := mustTime(t, pt, Maghrib)
	isha := mustTime(t, pt, Isha)
	if got := isha.Sub(maghrib); got != 90*time.Minute {
		t.Errorf("Isha - Maghrib = %v, want 1h30m", got)
	}
}

func TestNew_MaghribAngle(t *testing.T) {
	tehran := astro.Coordinates{Latitude: 35.6892, Longitude: 51.3890}
	date := utc(2024, 3, 20, 0, 0)

	withAngle := mustNew(t, date, tehran, NewParameters(Tehran, Shafi))
	params := NewParameters(Tehran, Shafi)
	params.MaghribAngle = 0
	atSunset := mustNew(t, date, tehran, params)

	delay := mustTime(t, withAngle, Maghrib).Sub(mustTime(t, atSunset, Maghrib))
	if delay < 10*time.Minute || delay > 25*time.Minute {
		t.Errorf("Maghrib at 4.5° is %v after sunset, want 10m to 25m", delay)
	}
}

func TestNew_RejectsInvalidInput(t *testing.T) {
	if _, err := New(utc(2024, 1, 1, 0, 0), astro.Coordinates{Latitude: 91}, NewParameters(MuslimWorldLeague, Shafi)); err == nil {
		t.Error("New() with latitude 91 should fail")
	}

	params := NewParameters(MuslimWorldLeague, Shafi)
	params.IshaInterval = -5
	if _, err := New(utc(2024, 1, 1, 0, 0), raleigh, params); err == nil {
		t.Error("New() with a negative isha interval should fail")
	}
}
