package rbac

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/robfig/cron/v3"

	"github.com/milliihq/access/pkg/observability"
	"github.com/milliihq/access/pkg/permissions"
)

const redisKeyPrefix = "millii:rbac:overrides:"

// Service resolves effective permission sets: role defaults merged with
// per-user overrides, override winning per key. Overrides are resolved
// through a cache chain, in-process LRU first, then Redis, then SQL; the
// merge itself always runs so a role change takes effect without waiting
// out cache TTLs.
type Service struct {
	store   *Store
	lru     *lru.LRU[string, map[permissions.Key]bool]
	lruSize int
	redis   *redis.Client
	ttl     time.Duration
	log     *observability.Logger
	metrics *observability.Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRedis enables the cross-process cache layer.
func WithRedis(client *redis.Client) ServiceOption {
	return func(s *Service) { s.redis = client }
}

// WithCacheTTL overrides the default 5 minute cache TTL for both layers.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLRUSize overrides the default 1024-entry LRU capacity.
func WithLRUSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.lruSize = size
		}
	}
}

// WithServiceLogger sets the structured logger.
func WithServiceLogger(log *observability.Logger) ServiceOption {
	return func(s *Service) { s.log = log.WithComponent("rbac") }
}

// WithServiceMetrics enables resolution and cache metrics.
func WithServiceMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a permission resolution service over a store.
func NewService(store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		lruSize: 1024,
		ttl:     5 * time.Minute,
		log:     observability.NewLogger(observability.InfoLevel, nil).WithComponent("rbac"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lru = lru.NewLRU[string, map[permissions.Key]bool](s.lruSize, nil, s.ttl)
	return s
}

// EffectivePermissions computes the complete effective set for a user:
// every key in the enumeration present, role default unless an override
// pins it.
func (s *Service) EffectivePermissions(ctx context.Context, userID string, role permissions.Role) (permissions.Set, error) {
	overrides, err := s.overrides(ctx, userID)
	if err != nil {
		return nil, err
	}
	return permissions.Merge(permissions.RoleDefaults(role), overrides), nil
}

// overrides resolves the user's override map through the cache chain.
func (s *Service) overrides(ctx context.Context, userID string) (map[permissions.Key]bool, error) {
	if cached, ok := s.lru.Get(userID); ok {
		s.recordResolution("lru")
		s.recordCache("lru", true)
		return cached, nil
	}
	s.recordCache("lru", false)

	if s.redis != nil {
		if cached, ok := s.redisGet(ctx, userID); ok {
			s.recordResolution("redis")
			s.recordCache("redis", true)
			s.lru.Add(userID, cached)
			return cached, nil
		}
		s.recordCache("redis", false)
	}

	overrides, err := s.store.GetOverrides(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.recordResolution("sql")

	s.lru.Add(userID, overrides)
	if s.redis != nil {
		s.redisSet(ctx, userID, overrides)
	}
	return overrides, nil
}

// SetOverride persists an override and invalidates the user's cache
// entries so the next resolution sees it.
func (s *Service) SetOverride(ctx context.Context, override *Override) error {
	if err := s.store.SetOverride(ctx, override); err != nil {
		return err
	}
	s.Invalidate(ctx, override.UserID)
	if s.metrics != nil {
		s.metrics.OverrideEditsTotal.WithLabelValues("set").Inc()
	}
	s.log.WithFields(map[string]interface{}{
		"user_id": override.UserID,
		"key":     string(override.Key),
		"allowed": override.Allowed,
	}).Info("permission override set")
	return nil
}

// DeleteOverride removes an override and invalidates the user's cache
// entries.
func (s *Service) DeleteOverride(ctx context.Context, userID string, key permissions.Key) error {
	if err := s.store.DeleteOverride(ctx, userID, key); err != nil {
		return err
	}
	s.Invalidate(ctx, userID)
	if s.metrics != nil {
		s.metrics.OverrideEditsTotal.WithLabelValues("delete").Inc()
	}
	s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"key":     string(key),
	}).Info("permission override deleted")
	return nil
}

// Invalidate drops the user's entries from both cache layers.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.lru.Remove(userID)
	if s.redis != nil {
		if err := s.redis.Del(ctx, redisKeyPrefix+userID).Err(); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate redis cache entry")
		}
	}
	if s.metrics != nil {
		s.metrics.CacheInvalidationsTotal.Inc()
	}
}

func (s *Service) redisGet(ctx context.Context, userID string) (map[permissions.Key]bool, bool) {
	data, err := s.redis.Get(ctx, redisKeyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.WithError(err).Warn("redis cache read failed")
		}
		return nil, false
	}
	var overrides map[permissions.Key]bool
	if err := json.Unmarshal(data, &overrides); err != nil {
		s.log.WithError(err).Warn("discarding corrupt redis cache entry")
		return nil, false
	}
	return overrides, true
}

func (s *Service) redisSet(ctx context.Context, userID string, overrides map[permissions.Key]bool) {
	data, err := json.Marshal(overrides)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, redisKeyPrefix+userID, data, s.ttl).Err(); err != nil {
		s.log.WithError(err).Warn("redis cache write failed")
	}
}

func (s *Service) recordResolution(source string) {
	if s.metrics != nil {
		s.metrics.EffectiveResolutionsTotal.WithLabelValues(source).Inc()
	}
}

func (s *Service) recordCache(layer string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(layer).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(layer).Inc()
	}
}

// StartSweeper schedules a periodic job on c that logs cache occupancy.
// Expired LRU and Redis entries evict themselves; the sweep exists for the
// operational signal.
func (s *Service) StartSweeper(c *cron.Cron, schedule string) (cron.EntryID, error) {
	id, err := c.AddFunc(schedule, func() {
		s.log.WithField("lru_entries", s.lru.Len()).Info("permission cache sweep")
	})
	if err != nil {
		return 0, fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	return id, nil
}
