package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Locations  LocationsConfig  `yaml:"locations"`
	Prayer     PrayerConfig     `yaml:"prayer"`
	Cache      CacheConfig      `yaml:"cache"`
	Automation AutomationConfig `yaml:"automation"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	BasePath       string          `yaml:"basePath"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RequestTimeout time.Duration   `yaml:"requestTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LocationsConfig selects where the city dataset is read from.
type LocationsConfig struct {
	Source      string            `yaml:"source"`
	Path        string            `yaml:"path"`
	CountryCode string            `yaml:"countryCode"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
}

// Location sources.
const (
	SourceFile        = "file"
	SourcePostgres    = "postgres"
	SourceObjectStore = "objectstore"
)

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStoreConfig points at an S3 compatible object holding the dataset.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
}

// PrayerConfig holds the process-wide calculation settings.
type PrayerConfig struct {
	Engine          string                `yaml:"engine"`
	TimezoneOffset  int                   `yaml:"timezoneOffset"`
	Method          int                   `yaml:"method"`
	School          int                   `yaml:"school"`
	DefaultLocation DefaultLocationConfig `yaml:"defaultLocation"`
}

// Engines.
const (
	EngineAstro = "astro"
	EngineMock  = "mock"
)

// DefaultLocationConfig is used when a request names no location.
type DefaultLocationConfig struct {
	City        string  `yaml:"city"`
	CountryCode string  `yaml:"countryCode"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
}

// CacheConfig controls the computed time-set cache.
type CacheConfig struct {
	Driver string        `yaml:"driver"`
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// Cache drivers.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheValkey = "valkey"
)

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// AutomationConfig drives the relay scheduler.
type AutomationConfig struct {
	Enabled       bool             `yaml:"enabled"`
	CheckInterval time.Duration    `yaml:"checkInterval"`
	Window        time.Duration    `yaml:"window"`
	MQTT          MQTTConfig       `yaml:"mqtt"`
	Schedules     []ScheduleConfig `yaml:"schedules"`
}

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	Broker         string        `yaml:"broker"`
	ClientID       string        `yaml:"clientId"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	QoS            byte          `yaml:"qos"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	PublishTimeout time.Duration `yaml:"publishTimeout"`
}

// ScheduleConfig switches relays around one prayer.
type ScheduleConfig struct {
	Prayer        string         `yaml:"prayer"`
	BeforeMinutes int            `yaml:"beforeMinutes"`
	BeforeActions []ActionConfig `yaml:"beforeActions"`
	AfterMinutes  int            `yaml:"afterMinutes"`
	AfterActions  []ActionConfig `yaml:"afterActions"`
}

// ActionConfig sets relay "<MAC>/<relayN>" to state ON or OFF.
type ActionConfig struct {
	Relay string `yaml:"relay"`
	State string `yaml:"state"`
}

// Load reads configuration from a YAML file and environment variables. A .env
// file in the working directory, or at ENV_FILE, is loaded first without
// overriding variables that are already set.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_BASE_PATH"); v != "" {
		cfg.HTTP.BasePath = v
	}
	envDuration("HTTP_REQUEST_TIMEOUT", &cfg.HTTP.RequestTimeout)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	if v := os.Getenv("LOCATIONS_SOURCE"); v != "" {
		cfg.Locations.Source = strings.ToLower(v)
	}
	if v := os.Getenv("LOCATIONS_PATH"); v != "" {
		cfg.Locations.Path = v
	}
	if v := os.Getenv("LOCATIONS_COUNTRY_CODE"); v != "" {
		cfg.Locations.CountryCode = v
	}
	if v := os.Getenv("LOCATIONS_POSTGRES_DSN"); v != "" {
		cfg.Locations.Postgres.DSN = v
	}
	if v := os.Getenv("LOCATIONS_POSTGRES_TABLE"); v != "" {
		cfg.Locations.Postgres.Table = v
	}
	if v := os.Getenv("LOCATIONS_OBJECTSTORE_ENDPOINT"); v != "" {
		cfg.Locations.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("LOCATIONS_OBJECTSTORE_ACCESS_KEY"); v != "" {
		cfg.Locations.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("LOCATIONS_OBJECTSTORE_SECRET_KEY"); v != "" {
		cfg.Locations.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("LOCATIONS_OBJECTSTORE_BUCKET"); v != "" {
		cfg.Locations.ObjectStore.Bucket = v
	}
	if v := os.Getenv("LOCATIONS_OBJECTSTORE_KEY"); v != "" {
		cfg.Locations.ObjectStore.Key = v
	}

	if v := os.Getenv("PRAYER_ENGINE"); v != "" {
		cfg.Prayer.Engine = strings.ToLower(v)
	}
	envInt("PRAYER_TIMEZONE_OFFSET", &cfg.Prayer.TimezoneOffset)
	envInt("PRAYER_METHOD", &cfg.Prayer.Method)
	envInt("PRAYER_SCHOOL", &cfg.Prayer.School)

	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = strings.ToLower(v)
	}
	envDuration("CACHE_TTL", &cfg.Cache.TTL)
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}

	envBool("AUTOMATION_ENABLED", &cfg.Automation.Enabled)
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		cfg.Automation.MQTT.Broker = v
	}
	if v := os.Getenv("MQTT_CLIENT_ID"); v != "" {
		cfg.Automation.MQTT.ClientID = v
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		cfg.Automation.MQTT.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.Automation.MQTT.Password = v
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":5001",
			BasePath:       "/api",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 5 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Locations: LocationsConfig{
			Source:      SourceFile,
			Path:        "data/locations.json",
			CountryCode: "SA",
			Postgres: PostgresConfig{
				Table:    "locations",
				MaxConns: 4,
			},
		},
		Prayer: PrayerConfig{
			Engine:         EngineAstro,
			TimezoneOffset: 3,
			Method:         4,
			School:         1,
			DefaultLocation: DefaultLocationConfig{
				City:        "Manama",
				CountryCode: "BH",
				Latitude:    26.27944,
				Longitude:   50.20833,
			},
		},
		Cache: CacheConfig{
			Driver: CacheNone,
			TTL:    6 * time.Hour,
			Valkey: ValkeyConfig{Prefix: "prayer"},
		},
		Automation: AutomationConfig{
			Enabled:       false,
			CheckInterval: 30 * time.Second,
			Window:        30 * time.Second,
			MQTT: MQTTConfig{
				ClientID:       "prayer-api",
				QoS:            1,
				ConnectTimeout: 10 * time.Second,
				PublishTimeout: 5 * time.Second,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		return errors.New("http.basePath must start with /")
	}
	if c.HTTP.RequestTimeout < 0 {
		return errors.New("http.requestTimeout cannot be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}

	switch c.Locations.Source {
	case SourceFile:
		if strings.TrimSpace(c.Locations.Path) == "" {
			return errors.New("locations.path cannot be empty for the file source")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Locations.Postgres.DSN) == "" {
			return errors.New("locations.postgres.dsn cannot be empty for the postgres source")
		}
	case SourceObjectStore:
		store := c.Locations.ObjectStore
		if store.Endpoint == "" || store.Bucket == "" || store.Key == "" {
			return errors.New("locations.objectStore endpoint, bucket and key are required for the objectstore source")
		}
	default:
		return fmt.Errorf("locations.source %q is not supported", c.Locations.Source)
	}

	if c.Prayer.Engine != EngineAstro && c.Prayer.Engine != EngineMock {
		return fmt.Errorf("prayer.engine %q is not supported", c.Prayer.Engine)
	}
	if c.Prayer.TimezoneOffset < -12 || c.Prayer.TimezoneOffset > 14 {
		return errors.New("prayer.timezoneOffset must be within [-12, 14]")
	}
	if c.Prayer.Method < 1 || c.Prayer.Method > 5 {
		return errors.New("prayer.method must be between 1 and 5")
	}
	if c.Prayer.School != 1 && c.Prayer.School != 2 {
		return errors.New("prayer.school must be 1 (standard) or 2 (hanafi)")
	}
	def := c.Prayer.DefaultLocation
	if strings.TrimSpace(def.City) == "" {
		return errors.New("prayer.defaultLocation.city cannot be empty")
	}
	if def.Latitude < -90 || def.Latitude > 90 || def.Longitude < -180 || def.Longitude > 180 {
		return errors.New("prayer.defaultLocation coordinates are out of range")
	}

	switch c.Cache.Driver {
	case CacheNone, CacheMemory:
	case CacheValkey:
		if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty when the valkey cache is enabled")
		}
	default:
		return fmt.Errorf("cache.driver %q is not supported", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}

	if c.Automation.Enabled {
		if err := c.Automation.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a AutomationConfig) validate() error {
	if strings.TrimSpace(a.MQTT.Broker) == "" {
		return errors.New("automation.mqtt.broker cannot be empty when automation is enabled")
	}
	if a.MQTT.QoS > 2 {
		return errors.New("automation.mqtt.qos must be 0, 1 or 2")
	}
	if a.CheckInterval <= 0 {
		return errors.New("automation.checkInterval must be positive")
	}
	if a.Window <= 0 {
		return errors.New("automation.window must be positive")
	}
	for i, s := range a.Schedules {
		if strings.TrimSpace(s.Prayer) == "" {
			return fmt.Errorf("automation.schedules[%d].prayer cannot be empty", i)
		}
		if s.BeforeMinutes < 0 || s.AfterMinutes < 0 {
			return fmt.Errorf("automation.schedules[%d] minutes cannot be negative", i)
		}
		for _, action := range append(append([]ActionConfig{}, s.BeforeActions...), s.AfterActions...) {
			if err := action.validate(); err != nil {
				return fmt.Errorf("automation.schedules[%d]: %w", i, err)
			}
		}
	}
	return nil
}

func (a ActionConfig) validate() error {
	mac, relay, ok := strings.Cut(a.Relay, "/")
	if !ok || mac == "" || relay == "" || strings.Contains(relay, "/") {
		return fmt.Errorf("relay %q must look like <MAC>/<relay>", a.Relay)
	}
	if !strings.EqualFold(a.State, "ON") && !strings.EqualFold(a.State, "OFF") {
		return fmt.Errorf("relay %q state %q must be ON or OFF", a.Relay, a.State)
	}
	return nil
}
