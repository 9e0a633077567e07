package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/providers"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/repositories"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
)

const (
	configCacheKey = "config:snapshot"
	configCacheTTL = 5 * time.Minute
)

// CachedConfigAdapter wraps a ConfigRepository with a cache layer. Reads are
// served from the cache when possible; a save invalidates the snapshot so the
// next read repopulates it. Cache failures are never fatal, the inner
// repository is always the source of truth.
type CachedConfigAdapter struct {
	inner repositories.ConfigRepository
	cache providers.CacheProvider
}

var _ repositories.ConfigRepository = (*CachedConfigAdapter)(nil)

// NewCachedConfigAdapter creates a cached config adapter
func NewCachedConfigAdapter(inner repositories.ConfigRepository, cache providers.CacheProvider) *CachedConfigAdapter {
	return &CachedConfigAdapter{inner: inner, cache: cache}
}

// Load returns the cached snapshot or falls through to the inner repository.
func (a *CachedConfigAdapter) Load(ctx context.Context) (*entities.ReportConfig, error) {
	logger := observability.LoggerFromContext(ctx)

	if data, err := a.cache.Get(ctx, configCacheKey); err == nil {
		var cfg entities.ReportConfig
		if err := json.Unmarshal(data, &cfg); err == nil {
			return &cfg, nil
		}
		// A snapshot that no longer decodes is stale garbage.
		if err := a.cache.Delete(ctx, configCacheKey); err != nil {
			logger.Warn().Err(err).Msg("failed to drop undecodable config snapshot")
		}
	}

	cfg, err := a.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cfg); err == nil {
		if err := a.cache.Set(ctx, configCacheKey, data, configCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("failed to cache config snapshot")
		}
	}

	return cfg, nil
}

// Save writes through to the inner repository and invalidates the snapshot.
func (a *CachedConfigAdapter) Save(ctx context.Context, cfg *entities.ReportConfig) error {
	if err := a.inner.Save(ctx, cfg); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, configCacheKey); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate config snapshot")
	}
	return nil
}
