package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/redis"
)

// CacheStore is the subset of the redis client used for lookup caching.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	LookupKey(kind string, parts ...string) string
}

type cachedService struct {
	next  Service
	store CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedService fronts next with a read-through cache. Only successful
// lookups are cached; cache errors fall through to next.
func NewCachedService(next Service, store CacheStore, ttl time.Duration, logg *logger.Logger) Service {
	if store == nil || ttl <= 0 {
		return next
	}
	return &cachedService{next: next, store: store, ttl: ttl, logg: logg}
}

func (c *cachedService) ListProducts(ctx context.Context, query string) ([]string, error) {
	return c.next.ListProducts(ctx, query)
}

func (c *cachedService) Specifications(ctx context.Context, productName string) ([]string, error) {
	key := c.store.LookupKey("specs", productName)
	var specs []string
	if c.load(ctx, key, &specs) {
		return specs, nil
	}
	specs, err := c.next.Specifications(ctx, productName)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, specs)
	return specs, nil
}

func (c *cachedService) PriceRate(ctx context.Context, productName, specification string) (PriceRate, error) {
	key := c.store.LookupKey("price", productName, specification)
	var rate PriceRate
	if c.load(ctx, key, &rate) {
		return rate, nil
	}
	rate, err := c.next.PriceRate(ctx, productName, specification)
	if err != nil {
		return PriceRate{}, err
	}
	c.save(ctx, key, rate)
	return rate, nil
}

func (c *cachedService) SizeLimits(ctx context.Context, productName string) (pricing.SizeLimits, error) {
	key := c.store.LookupKey("limits", productName)
	var dto SizeLimitsDTO
	if c.load(ctx, key, &dto) {
		return pricing.SizeLimits{MaxSide: dto.MaxSide, ExtraSupply: dto.ExtraSupply}, nil
	}
	limits, err := c.next.SizeLimits(ctx, productName)
	if err != nil {
		return pricing.SizeLimits{}, err
	}
	c.save(ctx, key, SizeLimitsDTO{ProductName: productName, MaxSide: limits.MaxSide, ExtraSupply: limits.ExtraSupply})
	return limits, nil
}

func (c *cachedService) load(ctx context.Context, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) {
			c.warn(ctx, key, "lookup cache read failed", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.warn(ctx, key, "lookup cache entry corrupt", err)
		return false
	}
	return true
}

func (c *cachedService) save(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.warn(ctx, key, "lookup cache encode failed", err)
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.warn(ctx, key, "lookup cache write failed", err)
	}
}

func (c *cachedService) warn(ctx context.Context, key, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.WarnErr(c.logg.WithField(ctx, "cache_key", key), msg, err)
}
