package device

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccessRepo struct {
	device.DeviceAccessRepository
	records map[string]device.DeviceAccess
	calls   int
	err     error
	onGet   func()
}

func (s *stubAccessRepo) Get(_ context.Context, deviceID string) (device.DeviceAccess, error) {
	s.calls++
	if s.err != nil {
		return device.DeviceAccess{}, s.err
	}
	a, ok := s.records[deviceID]
	if s.onGet != nil {
		s.onGet()
	}
	if !ok {
		return device.DeviceAccess{}, device.ErrDeviceAccessNotFound
	}
	return a, nil
}

func TestAccessChecker_WithoutCache(t *testing.T) {
	repo := &stubAccessRepo{records: map[string]device.DeviceAccess{
		"ok":      {DeviceID: "ok", Allowed: true},
		"blocked": {DeviceID: "blocked", Allowed: false},
	}}
	checker := NewAccessChecker(repo, nil)
	ctx := context.Background()

	assert.NoError(t, checker.Require(ctx, "ok"))
	assert.ErrorIs(t, checker.Require(ctx, "blocked"), device.ErrDeviceNotAllowed)
	assert.ErrorIs(t, checker.Require(ctx, "unknown"), device.ErrDeviceNotRegistered)
	assert.ErrorIs(t, checker.Require(ctx, ""), device.ErrDeviceIDRequired)
}

func TestAccessChecker_CacheMissLoadsAndStores(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	repo := &stubAccessRepo{records: map[string]device.DeviceAccess{"d1": {DeviceID: "d1", Allowed: true}}}
	checker := NewAccessChecker(repo, rdb)

	mock.ExpectGet(AccessCacheKey("d1")).RedisNil()
	mock.ExpectSet(AccessCacheKey("d1"), "allowed", accessCacheTTL).SetVal("OK")

	st, err := checker.State(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, device.AccessAllowed, st)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessChecker_CacheHitSkipsRepository(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	repo := &stubAccessRepo{}
	checker := NewAccessChecker(repo, rdb)

	mock.ExpectGet(AccessCacheKey("d2")).SetVal("denied")

	err := checker.Require(context.Background(), "d2")
	assert.ErrorIs(t, err, device.ErrDeviceNotAllowed)
	assert.Equal(t, 0, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessChecker_NotRegisteredIsCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	checker := NewAccessChecker(&stubAccessRepo{}, rdb)

	mock.ExpectGet(AccessCacheKey("new")).RedisNil()
	mock.ExpectSet(AccessCacheKey("new"), "not_registered", accessCacheTTL).SetVal("OK")

	assert.ErrorIs(t, checker.Require(context.Background(), "new"), device.ErrDeviceNotRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessChecker_RepositoryErrorIsReturned(t *testing.T) {
	checker := NewAccessChecker(&stubAccessRepo{err: errors.New("db down")}, nil)
	_, err := checker.State(context.Background(), "d1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, device.ErrDeviceNotRegistered)
}

func TestAccessChecker_Invalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	checker := NewAccessChecker(&stubAccessRepo{}, rdb)

	mock.ExpectDel(AccessCacheKey("d1")).SetVal(1)
	checker.Invalidate(context.Background(), "d1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// memoryCache keeps Get/Set/Del in a map; other commands are not used.
type memoryCache struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestAccessChecker_InvalidateDuringLoadSkipsCacheFill(t *testing.T) {
	cache := newMemoryCache()
	repo := &stubAccessRepo{records: map[string]device.DeviceAccess{"d1": {DeviceID: "d1", Allowed: true}}}
	checker := NewAccessChecker(repo, cache)
	ctx := context.Background()

	// Access is revoked while the allowed row is being read.
	repo.onGet = func() {
		repo.records["d1"] = device.DeviceAccess{DeviceID: "d1", Allowed: false}
		checker.Invalidate(ctx, "d1")
	}
	st, err := checker.State(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, device.AccessAllowed, st)

	_, cached := cache.data[AccessCacheKey("d1")]
	assert.False(t, cached)

	repo.onGet = nil
	assert.ErrorIs(t, checker.Require(ctx, "d1"), device.ErrDeviceNotAllowed)
	assert.Equal(t, "denied", cache.data[AccessCacheKey("d1")])
}
