package prayer

import (
	"context"
	"time"
)

// TimingsCache stores computed time sets keyed by CalculationConfig.CacheKey.
// Failures are never fatal to a request.
type TimingsCache interface {
	Get(ctx context.Context, key string) (TimeSet, bool, error)
	Set(ctx context.Context, key string, set TimeSet, ttl time.Duration) error
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (TimeSet, bool, error) {
	return TimeSet{}, false, nil
}

func (NoopCache) Set(context.Context, string, TimeSet, time.Duration) error {
	return nil
}
