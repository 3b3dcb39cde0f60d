package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mikeychann-hash/Evies-Epoxy/models"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"

	DefaultCacheTTL = 5 * time.Minute
)

// CacheManager handles Redis caching for product reads. Every operation is
// best-effort: a Redis error is a cache miss, never a request failure.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redisClient *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redisClient,
		ttl:   DefaultCacheTTL,
	}
}

// GetProductList retrieves a cached product list for the given filter key.
func (cm *CacheManager) GetProductList(ctx context.Context, filterKey string) ([]models.Product, bool) {
	version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, filterKey)).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductListAsync caches a product list without blocking the request.
func (cm *CacheManager) SetProductListAsync(filterKey string, products []models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err != nil {
			if err != redis.Nil {
				return
			}
			version = 1
			if err := cm.redis.Set(ctx, CacheVersionKey, version, 0).Err(); err != nil {
				return
			}
		}

		payload, err := json.Marshal(products)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.listKey(version, filterKey), payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	cached, err := cm.redis.Get(ctx, ProductCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product without blocking the request.
func (cm *CacheManager) SetProductAsync(productID string, product *models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(product)
		if err != nil {
			return
		}
		if err := cm.redis.Set(ctx, ProductCachePrefix+productID, payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// InvalidateProduct drops the detail cache for one product and bumps the
// list-cache version so every cached list goes stale at once.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, productID string) {
	if err := cm.redis.Incr(ctx, CacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to bump product cache version", zap.Error(err))
	}
	if productID != "" {
		if err := cm.redis.Del(ctx, ProductCachePrefix+productID).Err(); err != nil {
			zap.L().Warn("Failed to drop product cache", zap.Error(err), zap.String("product_id", productID))
		}
	}
}

func (cm *CacheManager) listKey(version int64, filterKey string) string {
	return fmt.Sprintf("%s%d:%s", ProductListCachePrefix, version, filterKey)
}
