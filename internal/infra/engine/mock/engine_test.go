package mock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

func TestMockEngineThroughAggregator(t *testing.T) {
	agg := prayer.NewAggregator(New())
	cfg := prayer.CalculationConfig{Latitude: 26.27944, Longitude: 50.20833, TimezoneOffset: 3, Method: prayer.MethodUmmAlQura, School: prayer.SchoolStandard}
	date := time.Date(2025, 9, 5, 0, 0, 0, 0, cfg.Zone())

	set, err := agg.ComputeAll(cfg, date)
	require.NoError(t, err)
	require.Equal(t, prayer.TimeSet{
		Fajr:               "04:18",
		Sunrise:            "05:37",
		Dhuhr:              "11:26",
		Asr:                "14:45",
		Maghrib:            "17:14",
		Isha:               "18:44",
		Midnight:           "23:30",
		SecondThirdOfNight: "01:15",
		LastThirdOfNight:   "02:45",
		QiblahDirection:    "261.50°",
	}, set)

	hijri, err := agg.ComputeHijri(date)
	require.NoError(t, err)
	require.Equal(t, "5 Rabi' al-Awwal 1447", hijri.String())
}

func TestMockEngineNightMarkersFollowMaghrib(t *testing.T) {
	cfg := prayer.CalculationConfig{TimezoneOffset: 3}
	times, err := New().PrayerTimes(cfg, time.Date(2025, 9, 5, 0, 0, 0, 0, cfg.Zone()))
	require.NoError(t, err)
	require.True(t, times.SecondThirdOfNight.After(times.Maghrib))
	require.Equal(t, 6, times.LastThirdOfNight.Day())
}
