package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	managerListKeyPrefix = "events:list:manager:"
	catalogListKeyPrefix = "events:list:catalog:"

	defaultListCacheTTL = 5 * time.Minute
)

// Cache is the subset of pkg/redis.Client used for list caching
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// ListCacheInvalidator drops cached event listings after a write
type ListCacheInvalidator interface {
	InvalidateManagerLists(ctx context.Context, managerID string) error
	InvalidateCatalogLists(ctx context.Context) error
}

// CachedEventStore wraps EventStore with Redis caching of list views.
// Single-event reads and writes go straight to the store.
type CachedEventStore struct {
	EventStore
	cache Cache
	ttl   time.Duration
}

// NewCachedEventStore creates a new CachedEventStore
func NewCachedEventStore(store EventStore, cache Cache, ttl time.Duration) *CachedEventStore {
	if ttl <= 0 {
		ttl = defaultListCacheTTL
	}
	return &CachedEventStore{EventStore: store, cache: cache, ttl: ttl}
}

type cachedEventList struct {
	Events []*domain.Event `json:"events"`
	Total  int             `json:"total"`
}

func listCacheKey(filter domain.EventFilter) (string, bool) {
	switch {
	case filter.ManagerID != "":
		return fmt.Sprintf("%s%s:%s:%d:%d", managerListKeyPrefix, filter.ManagerID, filter.Status, filter.Limit, filter.Offset), true
	case filter.Status != "":
		return fmt.Sprintf("%s%s:%d:%d", catalogListKeyPrefix, filter.Status, filter.Limit, filter.Offset), true
	}
	// Unfiltered admin listings are not cached
	return "", false
}

// List serves manager and catalog listings from cache when possible
func (s *CachedEventStore) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	key, cacheable := listCacheKey(filter)
	if !cacheable {
		return s.EventStore.List(ctx, filter)
	}

	if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var result cachedEventList
		if err := json.Unmarshal(cached, &result); err == nil {
			return result.Events, result.Total, nil
		}
	}

	events, total, err := s.EventStore.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if data, err := json.Marshal(cachedEventList{Events: events, Total: total}); err == nil {
		s.cache.Set(ctx, key, data, s.ttl)
	}
	return events, total, nil
}

// InvalidateManagerLists drops every cached page of one manager's events
func (s *CachedEventStore) InvalidateManagerLists(ctx context.Context, managerID string) error {
	_, err := s.cache.DeleteByPattern(ctx, managerListKeyPrefix+managerID+":*")
	return err
}

// InvalidateCatalogLists drops every cached page of the public catalog
func (s *CachedEventStore) InvalidateCatalogLists(ctx context.Context) error {
	_, err := s.cache.DeleteByPattern(ctx, catalogListKeyPrefix+"*")
	return err
}

// NoopListCache is used when Redis is disabled
type NoopListCache struct{}

func (NoopListCache) InvalidateManagerLists(context.Context, string) error { return nil }
func (NoopListCache) InvalidateCatalogLists(context.Context) error         { return nil }
