package prayer

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/prayer-api/pkg/errors"
	"github.com/yanqian/prayer-api/pkg/util"
)

// Service exposes the prayer time capabilities to the transport layer.
type Service interface {
	Locations(ctx context.Context) (LocationsResponse, error)
	PrayerTimes(ctx context.Context, req LocationRequest) (FullResponse, error)
	PrayerTime(ctx context.Context, name string, req LocationRequest) (SingleTimeResponse, error)
	LocationInfo(ctx context.Context, req LocationRequest) (LocationInfo, error)
	Qiblah(ctx context.Context, req LocationRequest) (QiblahResponse, error)
}

// Config tunes the service.
type Config struct {
	Defaults Defaults
	CacheTTL time.Duration
}

type service struct {
	catalog    LocationCatalog
	resolver   *Resolver
	aggregator *Aggregator
	assembler  *Assembler
	cache      TimingsCache
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the prayer domain.
func NewService(cfg Config, catalog LocationCatalog, engine Engine, cache TimingsCache, logger *slog.Logger) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &service{
		catalog:    catalog,
		resolver:   NewResolver(catalog, cfg.Defaults),
		aggregator: NewAggregator(engine),
		assembler:  NewAssembler(),
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With("component", "prayer.service"),
		now:        util.NowUTC,
	}
}

func (s *service) Locations(ctx context.Context) (LocationsResponse, error) {
	if err := ctx.Err(); err != nil {
		return LocationsResponse{}, err
	}
	locations := s.catalog.All()
	return LocationsResponse{Locations: locations, Count: len(locations)}, nil
}

func (s *service) PrayerTimes(ctx context.Context, req LocationRequest) (FullResponse, error) {
	resolved, err := s.resolver.Resolve(req)
	if err != nil {
		return FullResponse{}, err
	}
	date := s.today(resolved.Config)
	set, err := s.timeSet(ctx, resolved, date)
	if err != nil {
		return FullResponse{}, err
	}
	hijri, err := s.aggregator.ComputeHijri(date)
	if err != nil {
		return FullResponse{}, s.classify(resolved, err)
	}
	return s.assembler.BuildFullResponse(set, hijri, resolved.Label, date, resolved.Config), nil
}

func (s *service) PrayerTime(ctx context.Context, name string, req LocationRequest) (SingleTimeResponse, error) {
	if _, ok := Canonicalize(name); !ok {
		return SingleTimeResponse{}, invalidPrayerName(name)
	}
	resolved, err := s.resolver.Resolve(req)
	if err != nil {
		return SingleTimeResponse{}, err
	}
	date := s.today(resolved.Config)
	set, err := s.timeSet(ctx, resolved, date)
	if err != nil {
		return SingleTimeResponse{}, err
	}
	return s.assembler.BuildSingleTime(set, name, date)
}

func (s *service) LocationInfo(ctx context.Context, req LocationRequest) (LocationInfo, error) {
	if err := ctx.Err(); err != nil {
		return LocationInfo{}, err
	}
	resolved, err := s.resolver.Resolve(req)
	if err != nil {
		return LocationInfo{}, err
	}
	return s.assembler.BuildLocationInfo(resolved.Config), nil
}

func (s *service) Qiblah(ctx context.Context, req LocationRequest) (QiblahResponse, error) {
	if err := ctx.Err(); err != nil {
		return QiblahResponse{}, err
	}
	resolved, err := s.resolver.Resolve(req)
	if err != nil {
		return QiblahResponse{}, err
	}
	direction, err := s.aggregator.ComputeQiblah(resolved.Config)
	if err != nil {
		return QiblahResponse{}, s.classify(resolved, err)
	}
	return QiblahResponse{QiblahDirection: direction}, nil
}

// timeSet serves from the cache when possible. Cache failures are logged and skipped.
func (s *service) timeSet(ctx context.Context, resolved Resolved, date time.Time) (TimeSet, error) {
	if err := ctx.Err(); err != nil {
		return TimeSet{}, err
	}
	key := resolved.Config.CacheKey(date)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("timings cache read failed", "key", key, "error", err)
	} else if ok {
		return cached, nil
	}

	set, err := s.aggregator.ComputeAll(resolved.Config, date)
	if err != nil {
		return TimeSet{}, s.classify(resolved, err)
	}
	if err := s.cache.Set(ctx, key, set, s.ttl); err != nil {
		s.logger.Warn("timings cache write failed", "key", key, "error", err)
	}
	return set, nil
}

// classify reports engine failures on the default location as server errors.
func (s *service) classify(resolved Resolved, err error) error {
	if resolved.Origin.ClientSupplied() || !apperrors.IsCode(err, CodeCalculationFailed) {
		return err
	}
	s.logger.Error("engine failed for default location", "label", resolved.Label, "error", err)
	return apperrors.Wrap(CodeEngineError, "prayer times are temporarily unavailable", err)
}

func (s *service) today(cfg CalculationConfig) time.Time {
	return util.CivilDate(s.now(), cfg.Zone())
}
