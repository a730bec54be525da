package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"bistro/internal/pkg/logger"
	"bistro/internal/pkg/redis"
	"bistro/internal/service/catalog/domain"
)

// productCacheTTL 要短：目录是管理端随时会改的共享数据，
// 这里的缓存只为了挡住加购高峰期对同一批热门商品的重复点查。
const productCacheTTL = 5 * time.Minute

// CachedProductRepository 用 Redis 装饰底层仓储的单条点查。
// 缓存故障绝不阻断请求：读写 Redis 失败时记日志并直接回源。
type CachedProductRepository struct {
	inner       domain.ProductRepository
	redisClient *redis.Client
}

func NewCachedProductRepository(inner domain.ProductRepository, redisClient *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, redisClient: redisClient}
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.findCached(ctx, fmt.Sprintf("catalog:product:id:%s", id), func() (*domain.Product, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *CachedProductRepository) FindByLegacyID(ctx context.Context, legacyID int64) (*domain.Product, error) {
	return r.findCached(ctx, fmt.Sprintf("catalog:product:legacy:%d", legacyID), func() (*domain.Product, error) {
		return r.inner.FindByLegacyID(ctx, legacyID)
	})
}

// List 不走缓存：列表查询条件组合多、命中率低，收益不抵失效复杂度。
func (r *CachedProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachedProductRepository) findCached(ctx context.Context, key string, load func() (*domain.Product, error)) (*domain.Product, error) {
	raw, err := r.redisClient.GetClient().Get(ctx, key).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(raw, &product); err == nil {
			return &product, nil
		}
		// 缓存内容损坏时当作未命中处理。
	} else if err != goredis.Nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("product cache read failed, falling back to store")
	}

	product, err := load()
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := r.redisClient.GetClient().Set(ctx, key, raw, productCacheTTL).Err(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("product cache write failed")
		}
	}
	return product, nil
}
