// Package parsecache caches resolved filter specs in a key-value
// store so repeated queries skip the remote model.
package parsecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/db"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

const cacheKeyPrefix = "creatorinsight:parse_cache:"

// parser is the consumer interface for the inner parser (ISP).
type parser interface {
	Parse(ctx context.Context, text string) (domain.ParseResult, error)
}

// store is the consumer interface for the cache backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedParser caches parse results in a key-value store.
type CachedParser struct {
	inner      parser
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner parser,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedParser {
	return &CachedParser{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Parse returns a cached spec or calls the inner parser.
// Cache hit: Source = SourceCache. Cache miss: result from inner,
// stored best-effort; a cache failure never fails the parse.
func (c *CachedParser) Parse(ctx context.Context, text string) (domain.ParseResult, error) {
	key := c.cacheKey(text)

	if spec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.ParseResult{Spec: spec, Source: query.SourceCache}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Parse(ctx, text)
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("parse query: %w", err)
	}

	c.putToCache(ctx, key, result.Spec)
	return result, nil
}

func (c *CachedParser) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedParser) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedParser) getFromCache(ctx context.Context, key string) (query.Spec, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached spec", zap.String("key", key), zap.Error(err))
		}
		return query.Spec{}, false
	}
	if len(data) == 0 {
		return query.Spec{}, false
	}

	spec, err := bytesToSpec(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached spec", zap.String("key", key), zap.Error(err))
		return query.Spec{}, false
	}

	return spec, true
}

func (c *CachedParser) putToCache(ctx context.Context, key string, spec query.Spec) {
	data, err := specToBytes(spec)
	if err != nil {
		c.logger.Warn("Failed to encode spec for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache spec", zap.String("key", key), zap.Error(err))
	}
}

// specDTO is the stored representation of a filter spec.
type specDTO struct {
	Category          string   `json:"category,omitempty"`
	MinFollowers      *int64   `json:"min_followers,omitempty"`
	MaxFollowers      *int64   `json:"max_followers,omitempty"`
	MinEngagementRate *float64 `json:"min_engagement_rate,omitempty"`
}

func specToBytes(spec query.Spec) ([]byte, error) {
	return json.Marshal(specDTO{
		Category:          spec.Category(),
		MinFollowers:      spec.MinFollowers(),
		MaxFollowers:      spec.MaxFollowers(),
		MinEngagementRate: spec.MinEngagementRate(),
	})
}

func bytesToSpec(data []byte) (query.Spec, error) {
	var dto specDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return query.Spec{}, fmt.Errorf("invalid cached spec: %w", err)
	}
	spec, err := query.NewSpec(dto.Category, dto.MinFollowers, dto.MaxFollowers, dto.MinEngagementRate)
	if err != nil {
		return query.Spec{}, fmt.Errorf("invalid cached spec: %w", err)
	}
	return spec, nil
}
