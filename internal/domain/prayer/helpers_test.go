package prayer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

var errEngine = errors.New("sun never sets")

type stubEngine struct {
	err      error
	hijriErr error
	calls    int
	lastCfg  CalculationConfig
	lastDate time.Time
}

func (e *stubEngine) PrayerTimes(cfg CalculationConfig, date time.Time) (DayTimes, error) {
	e.calls++
	e.lastCfg = cfg
	e.lastDate = date
	if e.err != nil {
		return DayTimes{}, e.err
	}
	at := func(h, m int) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, cfg.Zone())
	}
	return DayTimes{
		Fajr:               at(4, 18),
		Sunrise:            at(5, 37),
		Dhuhr:              at(11, 26),
		Asr:                at(14, 45),
		Maghrib:            at(17, 14),
		Isha:               at(18, 44),
		Midnight:           at(23, 30),
		SecondThirdOfNight: at(1, 15).AddDate(0, 0, 1),
		LastThirdOfNight:   at(2, 45).AddDate(0, 0, 1),
	}, nil
}

func (e *stubEngine) HijriDate(time.Time) (HijriDate, error) {
	if e.hijriErr != nil {
		return HijriDate{}, e.hijriErr
	}
	return HijriDate{Day: 12, Month: 3, Year: 1447}, nil
}

func (e *stubEngine) QiblahBearing(CalculationConfig) (float64, error) {
	if e.err != nil {
		return 0, e.err
	}
	return 261.5, nil
}

type memoryCache struct {
	entries map[string]TimeSet
	getErr  error
	setErr  error
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]TimeSet{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (TimeSet, bool, error) {
	if c.getErr != nil {
		return TimeSet{}, false, c.getErr
	}
	set, ok := c.entries[key]
	return set, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, set TimeSet, _ time.Duration) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = set
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDefaults() Defaults {
	return Defaults{
		TimezoneOffset: 3,
		Method:         MethodUmmAlQura,
		School:         SchoolStandard,
		CountryCode:    "SA",
		Location: DefaultLocation{
			City:        "Manama",
			CountryCode: "BH",
			Latitude:    26.27944,
			Longitude:   50.20833,
		},
	}
}

func testRegistry() *location.Registry {
	return location.NewRegistry([]location.Location{
		{City: "Dammam", Latitude: 26.4, Longitude: 50.0},
		{City: "Riyadh", Latitude: 24.7136, Longitude: 46.6753},
	})
}

func newTestService(engine Engine, cache TimingsCache, catalog LocationCatalog, now time.Time) *service {
	svc := NewService(Config{Defaults: testDefaults()}, catalog, engine, cache, discardLogger()).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func floatPtr(v float64) *float64 {
	return &v
}
