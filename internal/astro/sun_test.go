package astro

import (
	"math"
	"testing"
	"time"
)

var raleigh = Coordinates{Latitude: 35 + 47.0/60, Longitude: -78 - 39.0/60}

func TestNewSolarCoordinates(t *testing.T) {
	sc := NewSolarCoordinates(JulianDay(1992, 10, 13, 0))

	if !approxEqual(float64(sc.Declination), -7.7850685152648795, epsilon) {
		t.Errorf("Declination = %v, want -7.7850685152648795", float64(sc.Declination))
	}
	if !approxEqual(float64(sc.RightAscension), 198.3808221425188, epsilon) {
		t.Errorf("RightAscension = %v, want 198.3808221425188", float64(sc.RightAscension))
	}
	if sc.RightAscension != sc.RightAscension.Unwound() {
		t.Errorf("RightAscension %v not in [0, 360)", float64(sc.RightAscension))
	}
}

func TestNewSolarCoordinates_Seasons(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		wantDecMin float64
		wantDecMax float64
	}{
		{"march equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), -1, 1},
		{"june solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 23, 24},
		{"september equinox", time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC), -1, 1},
		{"december solstice", time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), -24, -23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewSolarCoordinates(julianDayOf(tt.date))
			dec := float64(sc.Declination)
			if dec < tt.wantDecMin || dec > tt.wantDecMax {
				t.Errorf("Declination = %.3f°, want between %.1f° and %.1f°", dec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestNewSolarTime(t *testing.T) {
	st := NewSolarTime(time.Date(2015, 7, 12, 0, 0, 0, 0, time.UTC), raleigh)

	tests := []struct {
		name string
		get  func() (time.Time, bool)
		want time.Time
	}{
		{"transit", st.Transit, time.Date(2015, 7, 12, 17, 20, 0, 0, time.UTC)},
		{"sunrise", st.Sunrise, time.Date(2015, 7, 12, 10, 8, 0, 0, time.UTC)},
		{"sunset", st.Sunset, time.Date(2015, 7, 13, 0, 32, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.get()
			if !ok {
				t.Fatalf("%s missing", tt.name)
			}
			if !got.Equal(tt.want) {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSolarTime_TimeForSolarAngle(t *testing.T) {
	st := NewSolarTime(time.Date(2015, 7, 12, 0, 0, 0, 0, time.UTC), raleigh)

	start, ok := st.TimeForSolarAngle(Angle(-6), false)
	if !ok {
		t.Fatal("civil dawn missing")
	}
	if got := start.Format("15:04"); got != "09:38" {
		t.Errorf("civil dawn = %s, want 09:38", got)
	}

	end, ok := st.TimeForSolarAngle(Angle(-6), true)
	if !ok {
		t.Fatal("civil dusk missing")
	}
	if got := end.Format("15:04"); got != "01:02" {
		t.Errorf("civil dusk = %s, want 01:02", got)
	}
	if end.Day() != 13 {
		t.Errorf("civil dusk day = %d, want 13", end.Day())
	}
}

func TestSolarTime_LocalDateUsesCalendarDay(t *testing.T) {
	// 23:41 in New York on 2019-01-10 is already the 11th in UTC; the
	// computation must follow the caller's calendar day.
	ny := time.FixedZone("EST", -5*3600)
	st := NewSolarTime(time.Date(2019, 1, 10, 23, 41, 19, 0, ny), raleigh)

	if want := time.Date(2019, 1, 10, 0, 0, 0, 0, time.UTC); !st.Date().Equal(want) {
		t.Errorf("Date() = %v, want %v", st.Date(), want)
	}
}

func TestSolarTime_PolarDay(t *testing.T) {
	tromso := Coordinates{Latitude: 69.6492, Longitude: 18.9553}
	st := NewSolarTime(time.Date(2020, 6, 21, 0, 0, 0, 0, time.UTC), tromso)

	if _, ok := st.Sunrise(); ok {
		t.Error("Sunrise should be absent during the midnight sun")
	}
	if _, ok := st.Sunset(); ok {
		t.Error("Sunset should be absent during the midnight sun")
	}
	if _, ok := st.Transit(); !ok {
		t.Error("Transit should always be present")
	}
}

func TestSettingHour(t *testing.T) {
	day := time.Date(2015, 7, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		hours  float64
		want   time.Time
		wantOK bool
	}{
		{"morning", 10.13180048063285, time.Date(2015, 7, 12, 10, 8, 0, 0, time.UTC), true},
		{"seconds round up", 10.0 + 29.0/60 + 40.0/3600, time.Date(2015, 7, 12, 10, 30, 0, 0, time.UTC), true},
		{"minute overflow carries", 23.0 + 59.0/60 + 45.0/3600, time.Date(2015, 7, 13, 0, 0, 0, 0, time.UTC), true},
		{"past midnight", 24.54, time.Date(2015, 7, 13, 0, 32, 0, 0, time.UTC), true},
		{"before midnight", -1.5, time.Date(2015, 7, 11, 22, 30, 0, 0, time.UTC), true},
		{"nan", math.NaN(), time.Time{}, false},
		{"inf", math.Inf(1), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := settingHour(tt.hours, day)
			if ok != tt.wantOK {
				t.Fatalf("settingHour() ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("settingHour() = %v, want %v", got, tt.want)
			}
		})
	}
}
