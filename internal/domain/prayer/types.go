package prayer

import (
	"fmt"
	"time"

	"github.com/yanqian/prayer-api/pkg/util"
)

// Error codes raised by the prayer domain.
const (
	CodeInvalidInput       = "invalid_input"
	CodeInvalidPrayerName  = "invalid_prayer_name"
	CodeCalculationFailed  = "calculation_failed"
	CodeEngineError        = "engine_error"
	CodeLocationNotFound   = "location_not_found"
	CodeDatasetLoadFailure = "dataset_load_failed"
)

// CalculationMethod selects the Fajr/Isha convention.
type CalculationMethod int

const (
	MethodKarachi CalculationMethod = iota + 1
	MethodMuslimWorldLeague
	MethodEgyptian
	MethodUmmAlQura
	MethodISNA
)

// MethodSpec holds the twilight parameters of a calculation method. When
// IshaInterval is non-zero Isha is that long after Maghrib and IshaAngle is
// ignored.
type MethodSpec struct {
	Organization string
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval time.Duration
}

var methodSpecs = map[CalculationMethod]MethodSpec{
	MethodKarachi:           {Organization: "University of Islamic Sciences, Karachi", FajrAngle: 18, IshaAngle: 18},
	MethodMuslimWorldLeague: {Organization: "Muslim World League", FajrAngle: 18, IshaAngle: 17},
	MethodEgyptian:          {Organization: "Egyptian General Authority of Survey", FajrAngle: 19.5, IshaAngle: 17.5},
	MethodUmmAlQura:         {Organization: "Umm al-Qura University, Makkah", FajrAngle: 18.5, IshaInterval: 90 * time.Minute},
	MethodISNA:              {Organization: "Islamic Society of North America", FajrAngle: 15, IshaAngle: 15},
}

// Spec returns the parameters of m.
func (m CalculationMethod) Spec() (MethodSpec, bool) {
	spec, ok := methodSpecs[m]
	return spec, ok
}

// Valid reports whether m is a known method id.
func (m CalculationMethod) Valid() bool {
	_, ok := methodSpecs[m]
	return ok
}

// JuristicSchool selects the Asr shadow convention.
type JuristicSchool int

const (
	SchoolStandard JuristicSchool = iota + 1
	SchoolHanafi
)

// ShadowFactor is the object-shadow multiple that starts Asr.
func (s JuristicSchool) ShadowFactor() float64 {
	if s == SchoolHanafi {
		return 2
	}
	return 1
}

// Label names the madhabs following s.
func (s JuristicSchool) Label() string {
	if s == SchoolHanafi {
		return "Hanafi"
	}
	return "Shafii, Maliki, Hambali"
}

// Valid reports whether s is a known school id.
func (s JuristicSchool) Valid() bool {
	return s == SchoolStandard || s == SchoolHanafi
}

// CalculationConfig is everything the engine needs besides the date. It is a
// comparable value type.
type CalculationConfig struct {
	Latitude       float64
	Longitude      float64
	TimezoneOffset int
	Method         CalculationMethod
	School         JuristicSchool
}

// Zone is the fixed-offset zone all times are rendered in.
func (c CalculationConfig) Zone() *time.Location {
	return util.FixedZone(c.TimezoneOffset)
}

// CacheKey identifies the computed day for c.
func (c CalculationConfig) CacheKey(date time.Time) string {
	return fmt.Sprintf("%s|%.6f|%.6f|%d|%d|%d",
		date.Format("2006-01-02"), c.Latitude, c.Longitude, c.TimezoneOffset, c.Method, c.School)
}

// DayTimes is the engine-native result for one solar day.
type DayTimes struct {
	Fajr               time.Time
	Sunrise            time.Time
	Dhuhr              time.Time
	Asr                time.Time
	Maghrib            time.Time
	Isha               time.Time
	Midnight           time.Time
	SecondThirdOfNight time.Time
	LastThirdOfNight   time.Time
}

// TimeSet is the canonical stringified day served to clients.
type TimeSet struct {
	Fajr               string `json:"fajr"`
	Sunrise            string `json:"sunrise"`
	Dhuhr              string `json:"dhuhr"`
	Asr                string `json:"asr"`
	Maghrib            string `json:"maghrib"`
	Isha               string `json:"isha"`
	Midnight           string `json:"midnight"`
	SecondThirdOfNight string `json:"secondThirdOfNight"`
	LastThirdOfNight   string `json:"lastThirdOfNight"`
	QiblahDirection    string `json:"qiblahDirection"`
}

var hijriMonths = [12]string{
	"Muharram",
	"Safar",
	"Rabi' al-Awwal",
	"Rabi' al-Thani",
	"Jumada al-Ula",
	"Jumada al-Akhirah",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qi'dah",
	"Dhu al-Hijjah",
}

// HijriDate is a date in the lunar Hijri calendar.
type HijriDate struct {
	Day   int
	Month int
	Year  int
}

// MonthName returns the transliterated month name, or "" when out of range.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > len(hijriMonths) {
		return ""
	}
	return hijriMonths[h.Month-1]
}

// String renders "14 Rabi' al-Awwal 1447".
func (h HijriDate) String() string {
	name := h.MonthName()
	if name == "" || h.Day <= 0 {
		return ""
	}
	return fmt.Sprintf("%d %s %d", h.Day, name, h.Year)
}

// Engine is the astronomical calculation capability. Implementations are pure
// and CPU bound.
type Engine interface {
	PrayerTimes(cfg CalculationConfig, date time.Time) (DayTimes, error)
	HijriDate(date time.Time) (HijriDate, error)
	QiblahBearing(cfg CalculationConfig) (float64, error)
}
