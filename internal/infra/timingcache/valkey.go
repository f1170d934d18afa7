// Package timingcache holds TimingsCache implementations.
package timingcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

// ValkeyCache stores JSON encoded time sets in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache using client.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "prayer"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (prayer.TimeSet, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return prayer.TimeSet{}, false, nil
		}
		return prayer.TimeSet{}, false, err
	}
	set, err := decodeTimeSet(payload)
	if err != nil {
		return prayer.TimeSet{}, false, err
	}
	return set, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, set prayer.TimeSet, ttl time.Duration) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":timings:" + key
}

func decodeTimeSet(payload string) (prayer.TimeSet, error) {
	var set prayer.TimeSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return prayer.TimeSet{}, err
	}
	return set, nil
}

var _ prayer.TimingsCache = (*ValkeyCache)(nil)
