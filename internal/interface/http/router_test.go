package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/prayer-api/internal/domain/location"
	"github.com/yanqian/prayer-api/internal/domain/prayer"
	"github.com/yanqian/prayer-api/internal/infra/config"
	"github.com/yanqian/prayer-api/internal/infra/engine/mock"
	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

func TestRouter_PrayerTimesByCity(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/prayer-times?city=dammam")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got prayer.FullResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "DAMMAM, SA", got.Location)
	require.Len(t, got.PrayerTimes, 6)
	names := make([]string, 0, len(got.PrayerTimes))
	for _, entry := range got.PrayerTimes {
		names = append(names, entry.Name)
		require.NotEmpty(t, entry.NameArabic)
		require.NotEmpty(t, entry.Time)
	}
	require.Equal(t, []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}, names)
	require.Equal(t, "261.50°", got.AdditionalTimes.QiblahDirection)
	require.Equal(t, 26.4, got.LocationInfo.Latitude)
}

func TestRouter_PrayerTimesByCoordinates(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/prayer-times?latitude=24.0&longitude=46.0")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got prayer.FullResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "LAT: 24.0000, LON: 46.0000", got.Location)
}

func TestRouter_PrayerTimesUnknownCity(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/prayer-times?city=atlantis")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "location_not_found", body["code"])
	require.Contains(t, body["error"], "atlantis")
}

func TestRouter_PrayerTimesBadCoordinates(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	for _, query := range []string{"latitude=abc&longitude=46", "latitude=24&longitude=east", "latitude=95&longitude=46"} {
		recorder := performRequest(server, "/api/prayer-times?"+query)
		require.Equal(t, http.StatusBadRequest, recorder.Code, query)
		require.Equal(t, "invalid_input", decodeErrorBody(t, recorder.Body.Bytes())["code"])
	}
}

func TestRouter_SinglePrayerAliases(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	maghreb := decodeSingle(t, performRequest(server, "/api/prayer-times/maghreb"))
	maghrib := decodeSingle(t, performRequest(server, "/api/prayer-times/maghrib"))
	require.Equal(t, maghrib.Time, maghreb.Time)
	require.Equal(t, "17:14", maghrib.Time)
	require.Equal(t, "maghreb", maghreb.Prayer)
	require.NotEmpty(t, maghreb.Date)

	sherook := decodeSingle(t, performRequest(server, "/api/prayer-times/Sherook?city=dammam"))
	require.Equal(t, "05:37", sherook.Time)
	require.Equal(t, "Sherook", sherook.Prayer)
}

func TestRouter_SinglePrayerUnknownName(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/prayer-times/brunch")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "invalid_prayer_name", body["code"])
	require.NotContains(t, body, "time")
}

func TestRouter_EmptyRegistry(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(location.NewRegistry(nil)), nil)

	recorder := performRequest(server, "/api/locations")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"locations":[],"count":0}`, recorder.Body.String())

	recorder = performRequest(server, "/api/prayer-times")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_Locations(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/locations")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"locations":[{"city":"Dammam","latitude":26.4,"longitude":50},{"city":"Riyadh","latitude":24.7136,"longitude":46.6753}],"count":2}`, recorder.Body.String())
}

func TestRouter_LocationInfoQiblahHealth(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	recorder := performRequest(server, "/api/location-info")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"longitude":50.20833,"latitude":26.27944,"timezone":"GMT+3","fajr_isha_method":"Umm al-Qura University, Makkah","asr_madhab":"Shafii, Maliki, Hambali"}`, recorder.Body.String())

	recorder = performRequest(server, "/api/qiblah")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"qiblahDirection":"261.50°"}`, recorder.Body.String())

	recorder = performRequest(server, "/api/health")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"healthy","message":"Prayer API server is running"}`, recorder.Body.String())
}

func TestRouter_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{apperrors.Wrap(prayer.CodeCalculationFailed, "prayer times could not be calculated", errors.New("polar")), http.StatusUnprocessableEntity, "calculation_failed", "prayer times could not be calculated"},
		{apperrors.Wrap(prayer.CodeEngineError, "prayer times are temporarily unavailable", errors.New("boom")), http.StatusInternalServerError, "engine_error", "prayer times are temporarily unavailable"},
		{errors.New("database password is hunter2"), http.StatusInternalServerError, "internal_error", "something went wrong"},
	}
	for _, tc := range cases {
		svc := &stubService{err: tc.err}
		server := newRouterUnderTest(t, svc, nil)

		recorder := performRequest(server, "/api/prayer-times")
		require.Equal(t, tc.status, recorder.Code)
		body := decodeErrorBody(t, recorder.Body.Bytes())
		require.Equal(t, tc.code, body["code"])
		require.Equal(t, tc.msg, body["error"])
	}
}

func TestRouter_RequestTimeout(t *testing.T) {
	svc := &stubService{block: true}
	server := newRouterUnderTest(t, svc, func(cfg *config.Config) {
		cfg.HTTP.RequestTimeout = 20 * time.Millisecond
	})

	recorder := performRequest(server, "/api/qiblah")
	require.Equal(t, http.StatusGatewayTimeout, recorder.Code)
	require.Equal(t, "request_timeout", decodeErrorBody(t, recorder.Body.Bytes())["code"])
}

func TestRouter_RateLimit(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), func(cfg *config.Config) {
		cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	})

	require.Equal(t, http.StatusOK, performRequest(server, "/api/health").Code)
	recorder := performRequest(server, "/api/health")
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["code"])
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	server := newRouterUnderTest(t, newMockService(sampleRegistry()), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	req.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = performRequest(server, "/api/health")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/prayer-times", nil)
	preflight.Header.Set("Origin", "http://dashboard.local")
	preflight.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, preflight)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2025, 9, 5, 6, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("2.2.2.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("1.1.1.1"))

	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("3.3.3.3"))
	require.Len(t, limiter.visitors, 1)
}

func performRequest(server *http.Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc prayer.Service, mutate func(*config.Config)) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			BasePath:       "/api",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			RequestTimeout: time.Second,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func sampleRegistry() *location.Registry {
	return location.NewRegistry([]location.Location{
		{City: "Dammam", Latitude: 26.4, Longitude: 50.0},
		{City: "Riyadh", Latitude: 24.7136, Longitude: 46.6753},
	})
}

func newMockService(registry *location.Registry) prayer.Service {
	return prayer.NewService(prayer.Config{
		Defaults: prayer.Defaults{
			TimezoneOffset: 3,
			Method:         prayer.MethodUmmAlQura,
			School:         prayer.SchoolStandard,
			CountryCode:    "SA",
			Location: prayer.DefaultLocation{
				City:        "Manama",
				CountryCode: "BH",
				Latitude:    26.27944,
				Longitude:   50.20833,
			},
		},
	}, registry, mock.New(), nil, newTestLogger())
}

type stubService struct {
	err   error
	block bool
}

func (s *stubService) wait(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *stubService) Locations(ctx context.Context) (prayer.LocationsResponse, error) {
	return prayer.LocationsResponse{}, s.wait(ctx)
}

func (s *stubService) PrayerTimes(ctx context.Context, _ prayer.LocationRequest) (prayer.FullResponse, error) {
	return prayer.FullResponse{}, s.wait(ctx)
}

func (s *stubService) PrayerTime(ctx context.Context, _ string, _ prayer.LocationRequest) (prayer.SingleTimeResponse, error) {
	return prayer.SingleTimeResponse{}, s.wait(ctx)
}

func (s *stubService) LocationInfo(ctx context.Context, _ prayer.LocationRequest) (prayer.LocationInfo, error) {
	return prayer.LocationInfo{}, s.wait(ctx)
}

func (s *stubService) Qiblah(ctx context.Context, _ prayer.LocationRequest) (prayer.QiblahResponse, error) {
	return prayer.QiblahResponse{}, s.wait(ctx)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func decodeSingle(t *testing.T, rec *httptest.ResponseRecorder) prayer.SingleTimeResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var got prayer.SingleTimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}
