// Package astro computes prayer times from solar positions.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hablullah/go-hijri"
	"github.com/nathan-osman/go-sunrise"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

// Kaaba coordinates used for the Qiblah bearing.
const (
	kaabaLatitude  = 21.422487
	kaabaLongitude = 39.826206
)

var (
	// ErrNoSunriseOrSunset is returned on polar days and nights.
	ErrNoSunriseOrSunset = errors.New("sun does not rise or set on this date")
	// ErrElevationNotReached is returned when the sun never reaches a twilight angle.
	ErrElevationNotReached = errors.New("sun does not reach the required elevation")
)

// Engine implements prayer.Engine with go-sunrise and the Umm al-Qura calendar.
type Engine struct{}

// New returns an astronomical engine.
func New() *Engine {
	return &Engine{}
}

// PrayerTimes computes the day's times for cfg. The date is taken as a civil
// date; only its year, month and day are used.
func (e *Engine) PrayerTimes(cfg prayer.CalculationConfig, date time.Time) (prayer.DayTimes, error) {
	spec, ok := cfg.Method.Spec()
	if !ok {
		return prayer.DayTimes{}, fmt.Errorf("unknown calculation method %d", cfg.Method)
	}
	lat, lon := cfg.Latitude, cfg.Longitude
	y, m, d := date.Date()

	rise, set := sunrise.SunriseSunset(lat, lon, y, m, d)
	if rise.IsZero() || set.IsZero() {
		return prayer.DayTimes{}, ErrNoSunriseOrSunset
	}
	dhuhr := rise.Add(set.Sub(rise) / 2)

	fajr, err := morningAt(lat, lon, -spec.FajrAngle, date)
	if err != nil {
		return prayer.DayTimes{}, fmt.Errorf("fajr: %w", err)
	}

	asr, err := eveningAt(lat, lon, asrElevation(sunrise.Elevation(lat, lon, dhuhr), cfg.School.ShadowFactor()), date)
	if err != nil {
		return prayer.DayTimes{}, fmt.Errorf("asr: %w", err)
	}

	isha := set.Add(spec.IshaInterval)
	if spec.IshaInterval == 0 {
		isha, err = eveningAt(lat, lon, -spec.IshaAngle, date)
		if err != nil {
			return prayer.DayTimes{}, fmt.Errorf("isha: %w", err)
		}
	}

	nextFajr, err := morningAt(lat, lon, -spec.FajrAngle, date.AddDate(0, 0, 1))
	if err != nil {
		nextFajr = fajr.Add(24 * time.Hour)
	}
	night := nextFajr.Sub(set)

	return prayer.DayTimes{
		Fajr:               fajr,
		Sunrise:            rise,
		Dhuhr:              dhuhr,
		Asr:                asr,
		Maghrib:            set,
		Isha:               isha,
		Midnight:           set.Add(night / 2),
		SecondThirdOfNight: set.Add(night / 3),
		LastThirdOfNight:   set.Add(night * 2 / 3),
	}, nil
}

// HijriDate converts date with the Umm al-Qura tables.
func (e *Engine) HijriDate(date time.Time) (prayer.HijriDate, error) {
	civil := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
	h, err := hijri.CreateUmmAlQuraDate(civil)
	if err != nil {
		return prayer.HijriDate{}, err
	}
	return prayer.HijriDate{Day: int(h.Day), Month: int(h.Month), Year: int(h.Year)}, nil
}

// QiblahBearing is the initial great-circle bearing to the Kaaba, clockwise
// from true north in [0, 360).
func (e *Engine) QiblahBearing(cfg prayer.CalculationConfig) (float64, error) {
	if math.Abs(cfg.Latitude-kaabaLatitude) < 1e-9 && math.Abs(cfg.Longitude-kaabaLongitude) < 1e-9 {
		return 0, errors.New("qiblah is undefined at the kaaba")
	}
	phi := radians(cfg.Latitude)
	phiK := radians(kaabaLatitude)
	dLambda := radians(kaabaLongitude - cfg.Longitude)

	y := math.Sin(dLambda)
	x := math.Cos(phi)*math.Tan(phiK) - math.Sin(phi)*math.Cos(dLambda)
	bearing := math.Mod(degrees(math.Atan2(y, x))+360, 360)
	return bearing, nil
}

// asrElevation is the solar elevation at which an object's shadow equals
// factor times its length plus its noon shadow.
func asrElevation(noonElevation, factor float64) float64 {
	noonZenith := radians(90 - noonElevation)
	return degrees(math.Atan(1 / (factor + math.Tan(noonZenith))))
}

func morningAt(lat, lon, elevation float64, date time.Time) (time.Time, error) {
	y, m, d := date.Date()
	morning, _ := sunrise.TimeOfElevation(lat, lon, elevation, y, m, d)
	if morning.IsZero() {
		return time.Time{}, ErrElevationNotReached
	}
	return morning, nil
}

func eveningAt(lat, lon, elevation float64, date time.Time) (time.Time, error) {
	y, m, d := date.Date()
	_, evening := sunrise.TimeOfElevation(lat, lon, elevation, y, m, d)
	if evening.IsZero() {
		return time.Time{}, ErrElevationNotReached
	}
	return evening, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
