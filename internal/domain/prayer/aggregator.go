package prayer

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

const clockLayout = "15:04"

// Aggregator calls the engine and stringifies its results.
type Aggregator struct {
	engine Engine
}

// NewAggregator wraps engine.
func NewAggregator(engine Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// ComputeAll returns the formatted time set for cfg on date, Qiblah included.
func (a *Aggregator) ComputeAll(cfg CalculationConfig, date time.Time) (TimeSet, error) {
	times, err := a.engine.PrayerTimes(cfg, date)
	if err != nil {
		return TimeSet{}, apperrors.Wrap(CodeCalculationFailed, "prayer times could not be calculated", err)
	}
	qiblah, err := a.ComputeQiblah(cfg)
	if err != nil {
		return TimeSet{}, err
	}
	zone := cfg.Zone()
	return TimeSet{
		Fajr:               formatClock(times.Fajr, zone),
		Sunrise:            formatClock(times.Sunrise, zone),
		Dhuhr:              formatClock(times.Dhuhr, zone),
		Asr:                formatClock(times.Asr, zone),
		Maghrib:            formatClock(times.Maghrib, zone),
		Isha:               formatClock(times.Isha, zone),
		Midnight:           formatClock(times.Midnight, zone),
		SecondThirdOfNight: formatClock(times.SecondThirdOfNight, zone),
		LastThirdOfNight:   formatClock(times.LastThirdOfNight, zone),
		QiblahDirection:    qiblah,
	}, nil
}

// ComputeHijri converts date to the Hijri calendar.
func (a *Aggregator) ComputeHijri(date time.Time) (HijriDate, error) {
	hijri, err := a.engine.HijriDate(date)
	if err != nil {
		return HijriDate{}, apperrors.Wrap(CodeCalculationFailed, "hijri date could not be calculated", err)
	}
	return hijri, nil
}

// ComputeQiblah returns the bearing to the Kaaba as "261.50°".
func (a *Aggregator) ComputeQiblah(cfg CalculationConfig) (string, error) {
	bearing, err := a.engine.QiblahBearing(cfg)
	if err != nil {
		return "", apperrors.Wrap(CodeCalculationFailed, "qiblah direction could not be calculated", err)
	}
	return FormatBearing(bearing), nil
}

// FormatBearing renders degrees with two decimals.
func FormatBearing(deg float64) string {
	return fmt.Sprintf("%.2f°", deg)
}

func formatClock(t time.Time, zone *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(zone).Round(time.Minute).Format(clockLayout)
}
