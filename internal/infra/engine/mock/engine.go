// Package mock serves fixed sample prayer times, for demos and front-end work.
package mock

import (
	"time"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

type clock struct {
	hour, minute int
	nextDay      bool
}

var sample = struct {
	fajr, sunrise, dhuhr, asr, maghrib, isha clock
	midnight, secondThird, lastThird         clock
	qiblah                                   float64
	hijriMonth, hijriYear                    int
}{
	fajr:        clock{4, 18, false},
	sunrise:     clock{5, 37, false},
	dhuhr:       clock{11, 26, false},
	asr:         clock{14, 45, false},
	maghrib:     clock{17, 14, false},
	isha:        clock{18, 44, false},
	midnight:    clock{23, 30, false},
	secondThird: clock{1, 15, true},
	lastThird:   clock{2, 45, true},
	qiblah:      261.5,
	hijriMonth:  3,
	hijriYear:   1447,
}

// Engine returns the same wall-clock times for every location.
type Engine struct{}

// New returns a mock engine.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) PrayerTimes(cfg prayer.CalculationConfig, date time.Time) (prayer.DayTimes, error) {
	zone := cfg.Zone()
	at := func(c clock) time.Time {
		t := time.Date(date.Year(), date.Month(), date.Day(), c.hour, c.minute, 0, 0, zone)
		if c.nextDay {
			t = t.AddDate(0, 0, 1)
		}
		return t
	}
	return prayer.DayTimes{
		Fajr:               at(sample.fajr),
		Sunrise:            at(sample.sunrise),
		Dhuhr:              at(sample.dhuhr),
		Asr:                at(sample.asr),
		Maghrib:            at(sample.maghrib),
		Isha:               at(sample.isha),
		Midnight:           at(sample.midnight),
		SecondThirdOfNight: at(sample.secondThird),
		LastThirdOfNight:   at(sample.lastThird),
	}, nil
}

// HijriDate keeps the Gregorian day of month inside a fixed Hijri month.
func (e *Engine) HijriDate(date time.Time) (prayer.HijriDate, error) {
	return prayer.HijriDate{Day: date.Day(), Month: sample.hijriMonth, Year: sample.hijriYear}, nil
}

func (e *Engine) QiblahBearing(prayer.CalculationConfig) (float64, error) {
	return sample.qiblah, nil
}
