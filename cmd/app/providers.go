package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/prayer-api/internal/domain/automation"
	"github.com/yanqian/prayer-api/internal/domain/location"
	"github.com/yanqian/prayer-api/internal/domain/prayer"
	"github.com/yanqian/prayer-api/internal/infra/config"
	"github.com/yanqian/prayer-api/internal/infra/engine/astro"
	"github.com/yanqian/prayer-api/internal/infra/engine/mock"
	"github.com/yanqian/prayer-api/internal/infra/locationsource"
	"github.com/yanqian/prayer-api/internal/infra/mqtt"
	"github.com/yanqian/prayer-api/internal/infra/timingcache"
)

// provideLocationSource selects the dataset reader. A source that cannot be
// built yields nil so the registry degrades to empty.
func provideLocationSource(cfg *config.Config, logger *slog.Logger) (location.Source, func()) {
	noop := func() {}
	switch cfg.Locations.Source {
	case config.SourcePostgres:
		pool, err := openPostgres(cfg.Locations.Postgres, logger)
		if err != nil {
			logger.Error("location postgres unavailable", "error", err)
			return nil, noop
		}
		src, err := locationsource.NewPostgresSource(pool, cfg.Locations.Postgres.Table)
		if err != nil {
			logger.Error("invalid location table", "error", err)
			pool.Close()
			return nil, noop
		}
		logger.Info("location postgres source enabled", "table", cfg.Locations.Postgres.Table)
		return src, pool.Close
	case config.SourceObjectStore:
		store := cfg.Locations.ObjectStore
		src, err := locationsource.NewObjectSource(store.Endpoint, store.AccessKey, store.SecretKey, store.Region, store.Bucket, store.Key)
		if err != nil {
			logger.Error("location object store unavailable", "error", err)
			return nil, noop
		}
		logger.Info("location object store source enabled", "bucket", store.Bucket, "key", store.Key)
		return src, noop
	default:
		return locationsource.NewFileSource(cfg.Locations.Path), noop
	}
}

func openPostgres(cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres pool ready")
	return pool, nil
}

func provideRegistry(src location.Source, logger *slog.Logger) *location.Registry {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return location.LoadRegistry(ctx, src, logger)
}

func provideEngine(cfg *config.Config, logger *slog.Logger) prayer.Engine {
	if cfg.Prayer.Engine == config.EngineMock {
		logger.Warn("serving fixed sample prayer times", "engine", config.EngineMock)
		return mock.New()
	}
	return astro.New()
}

func providePrayerConfig(cfg *config.Config) prayer.Config {
	def := cfg.Prayer.DefaultLocation
	return prayer.Config{
		Defaults: prayer.Defaults{
			TimezoneOffset: cfg.Prayer.TimezoneOffset,
			Method:         prayer.CalculationMethod(cfg.Prayer.Method),
			School:         prayer.JuristicSchool(cfg.Prayer.School),
			CountryCode:    cfg.Locations.CountryCode,
			Location: prayer.DefaultLocation{
				City:        def.City,
				CountryCode: def.CountryCode,
				Latitude:    def.Latitude,
				Longitude:   def.Longitude,
			},
		},
		CacheTTL: cfg.Cache.TTL,
	}
}

func provideTimingsCache(cfg *config.Config, logger *slog.Logger) (prayer.TimingsCache, func()) {
	noop := func() {}
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		logger.Info("timings memory cache enabled", "ttl", cfg.Cache.TTL)
		return timingcache.NewMemoryCache(), noop
	case config.CacheValkey:
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return timingcache.NewMemoryCache(), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return timingcache.NewMemoryCache(), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return timingcache.NewMemoryCache(), noop
		}
		logger.Info("timings valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
		return timingcache.NewValkeyCache(client, cfg.Cache.Valkey.Prefix), client.Close
	default:
		return prayer.NoopCache{}, noop
	}
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideScheduler returns nil when automation is disabled. An unreachable
// broker is not fatal; paho keeps retrying and failed publishes are logged.
func provideScheduler(cfg *config.Config, svc prayer.Service, logger *slog.Logger) (*automation.Scheduler, func(), error) {
	if !cfg.Automation.Enabled {
		return nil, func() {}, nil
	}
	rules, err := automationRules(cfg.Automation.Schedules)
	if err != nil {
		return nil, nil, err
	}
	mqttCfg := cfg.Automation.MQTT
	publisher := mqtt.NewPublisher(mqtt.Options{
		Broker:         mqttCfg.Broker,
		ClientID:       mqttCfg.ClientID,
		Username:       mqttCfg.Username,
		Password:       mqttCfg.Password,
		QoS:            mqttCfg.QoS,
		ConnectTimeout: mqttCfg.ConnectTimeout,
		PublishTimeout: mqttCfg.PublishTimeout,
	}, logger)
	if err := publisher.Connect(context.Background()); err != nil {
		logger.Warn("mqtt broker unreachable, retrying in background", "broker", mqttCfg.Broker, "error", err)
	}
	scheduler := automation.NewScheduler(automation.Config{
		CheckInterval:  cfg.Automation.CheckInterval,
		Window:         cfg.Automation.Window,
		TimezoneOffset: cfg.Prayer.TimezoneOffset,
		Rules:          rules,
	}, svc, publisher, logger)
	return scheduler, publisher.Close, nil
}

func automationRules(schedules []config.ScheduleConfig) ([]automation.Rule, error) {
	rules := make([]automation.Rule, 0, len(schedules))
	for _, s := range schedules {
		before, err := automationActions(s.BeforeActions)
		if err != nil {
			return nil, err
		}
		after, err := automationActions(s.AfterActions)
		if err != nil {
			return nil, err
		}
		rules = append(rules, automation.Rule{
			Prayer:        s.Prayer,
			BeforeMinutes: s.BeforeMinutes,
			BeforeActions: before,
			AfterMinutes:  s.AfterMinutes,
			AfterActions:  after,
		})
	}
	return rules, nil
}

func automationActions(in []config.ActionConfig) ([]automation.Action, error) {
	out := make([]automation.Action, 0, len(in))
	for _, a := range in {
		state, err := automation.ParseState(a.State)
		if err != nil {
			return nil, err
		}
		out = append(out, automation.Action{Relay: strings.TrimSpace(a.Relay), State: state})
	}
	return out, nil
}
