package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayoogunade/AyoZon/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:list:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 5 * time.Minute
)

// ProductCache caches the full product listing.
type ProductCache interface {
	GetProductList(ctx context.Context) ([]models.Product, bool)
	SetProductListAsync(products []models.Product)
	Invalidate(ctx context.Context) error
}

// CacheManager keys listings by a version counter; bumping the counter orphans old entries.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCacheManager(client *redis.Client, log *zap.Logger) *CacheManager {
	return &CacheManager{redis: client, ttl: DefaultCacheTTL, log: log}
}

func (cm *CacheManager) GetProductList(ctx context.Context) ([]models.Product, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return nil, false
	}
	raw, err := cm.redis.Get(ctx, listKey(version)).Bytes()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		cm.log.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

func (cm *CacheManager) SetProductListAsync(products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		cm.log.Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(ctx)
		if err != nil {
			return
		}
		if err := cm.redis.Set(ctx, listKey(version), data, cm.ttl).Err(); err != nil {
			cm.log.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

func (cm *CacheManager) Invalidate(ctx context.Context) error {
	v, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	cm.log.Debug("Product cache invalidated", zap.Int64("new_version", v))
	return nil
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	v, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && v > 0 {
		return v, nil
	}
	if errors.Is(err, redis.Nil) {
		// SETNX so a concurrent Incr is not overwritten
		if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return cm.redis.Get(ctx, CacheVersionKey).Int64()
	}
	if err == nil {
		err = errors.New("invalid cache version")
	}
	return 0, err
}

func listKey(version int64) string {
	return fmt.Sprintf("%s%d", ProductListCachePrefix, version)
}

type noopCache struct{}

func (noopCache) GetProductList(context.Context) ([]models.Product, bool) { return nil, false }
func (noopCache) SetProductListAsync([]models.Product)                     {}
func (noopCache) Invalidate(context.Context) error                         { return nil }
