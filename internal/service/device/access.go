package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	accessCacheKeyPrefix = "device_access:"
	accessCacheTTL       = 5 * time.Minute
)

// AccessCacheKey is the redis key holding the cached access state of a device.
func AccessCacheKey(deviceID string) string {
	return accessCacheKeyPrefix + deviceID
}

type accessCheckerImpl struct {
	repo device.DeviceAccessRepository
	rdb  redis.Cmdable
	sf   *singleflight.Group
	ttl  time.Duration

	// gen counts invalidations per device; a load only fills the cache when
	// no invalidation happened while it read the database.
	mu  sync.Mutex
	gen map[string]uint64
}

// NewAccessChecker returns a checker reading device_access through a redis
// read-through cache. A nil rdb disables caching.
func NewAccessChecker(repo device.DeviceAccessRepository, rdb redis.Cmdable) device.AccessChecker {
	return &accessCheckerImpl{
		repo: repo,
		rdb:  rdb,
		sf:   &singleflight.Group{},
		ttl:  accessCacheTTL,
		gen:  make(map[string]uint64),
	}
}

func (c *accessCheckerImpl) State(ctx context.Context, deviceID string) (device.AccessState, error) {
	if deviceID == "" {
		return "", device.ErrDeviceIDRequired
	}
	cacheKey := AccessCacheKey(deviceID)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if st := device.AccessState(cached); isKnownState(st) {
				return st, nil
			}
		case !errors.Is(err, redis.Nil):
			slog.Warn("Failed to read device access cache", "key", cacheKey, "error", err)
		}
	}

	v, err, _ := c.sf.Do(cacheKey, func() (interface{}, error) {
		gen := c.generation(deviceID)
		var record *device.DeviceAccess
		access, err := c.repo.Get(ctx, deviceID)
		if err != nil {
			if !errors.Is(err, device.ErrDeviceAccessNotFound) {
				return nil, fmt.Errorf("failed to load device access: %w", err)
			}
		} else {
			record = &access
		}

		st := device.StateOf(record)
		c.fill(ctx, deviceID, st, gen)
		return st, nil
	})
	if err != nil {
		return "", err
	}
	return v.(device.AccessState), nil
}

func (c *accessCheckerImpl) Require(ctx context.Context, deviceID string) error {
	st, err := c.State(ctx, deviceID)
	if err != nil {
		return err
	}
	return st.Err()
}

func (c *accessCheckerImpl) Invalidate(ctx context.Context, deviceID string) {
	if deviceID == "" {
		return
	}
	cacheKey := AccessCacheKey(deviceID)

	c.mu.Lock()
	c.gen[deviceID]++
	c.mu.Unlock()
	c.sf.Forget(cacheKey)

	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey).Err(); err != nil {
		slog.Warn("Failed to invalidate device access cache", "key", cacheKey, "error", err)
	}
}

// fill caches st unless the device was invalidated after gen was read. The
// lock orders the write before any later Invalidate and its delete.
func (c *accessCheckerImpl) fill(ctx context.Context, deviceID string, st device.AccessState, gen uint64) {
	if c.rdb == nil {
		return
	}
	cacheKey := AccessCacheKey(deviceID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[deviceID] != gen {
		slog.Debug("Skipping stale device access cache fill", "key", cacheKey)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey, string(st), c.ttl).Err(); err != nil {
		slog.Warn("Failed to write device access cache", "key", cacheKey, "error", err)
	}
}

func (c *accessCheckerImpl) generation(deviceID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[deviceID]
}

func isKnownState(st device.AccessState) bool {
	switch st {
	case device.AccessAllowed, device.AccessDenied, device.AccessNotRegistered:
		return true
	}
	return false
}
