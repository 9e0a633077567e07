package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

type memoryCache struct {
	data map[string][]byte
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	data, ok := c.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return data, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

type countingConfigRepo struct {
	cfg   *entities.ReportConfig
	loads int
	saves int
}

func (r *countingConfigRepo) Load(ctx context.Context) (*entities.ReportConfig, error) {
	r.loads++
	return r.cfg, nil
}

func (r *countingConfigRepo) Save(ctx context.Context, cfg *entities.ReportConfig) error {
	r.saves++
	r.cfg = cfg
	return nil
}

func TestCachedConfigAdapter(t *testing.T) {
	stored := &entities.ReportConfig{
		Prices: map[entities.ProcedureType]map[entities.RoleLabel]float64{
			entities.SurgeryGrade1: {entities.PayPrimary: 150000},
		},
	}

	t.Run("second load hits the cache", func(t *testing.T) {
		inner := &countingConfigRepo{cfg: stored}
		cache := newMemoryCache()
		adapter := NewCachedConfigAdapter(inner, cache)

		first, err := adapter.Load(context.Background())
		require.NoError(t, err)
		second, err := adapter.Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.loads)
	})

	t.Run("save invalidates the snapshot", func(t *testing.T) {
		inner := &countingConfigRepo{cfg: stored}
		cache := newMemoryCache()
		adapter := NewCachedConfigAdapter(inner, cache)

		_, err := adapter.Load(context.Background())
		require.NoError(t, err)
		require.NoError(t, adapter.Save(context.Background(), stored))

		exists, _ := cache.Exists(context.Background(), configCacheKey)
		assert.False(t, exists)

		_, err = adapter.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, inner.loads)
	})

	t.Run("undecodable snapshot falls through", func(t *testing.T) {
		inner := &countingConfigRepo{cfg: stored}
		cache := newMemoryCache()
		cache.data[configCacheKey] = []byte("{not json")
		adapter := NewCachedConfigAdapter(inner, cache)

		cfg, err := adapter.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 150000.0, cfg.Prices[entities.SurgeryGrade1][entities.PayPrimary])
		assert.Equal(t, 1, inner.loads)

		// The refreshed snapshot decodes again.
		var decoded entities.ReportConfig
		require.NoError(t, json.Unmarshal(cache.data[configCacheKey], &decoded))
	})

	t.Run("cache failure is not fatal", func(t *testing.T) {
		inner := &countingConfigRepo{cfg: stored}
		cache := newMemoryCache()
		cache.err = errors.New("redis down")
		adapter := NewCachedConfigAdapter(inner, cache)

		cfg, err := adapter.Load(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, 1, inner.loads)
	})
}
