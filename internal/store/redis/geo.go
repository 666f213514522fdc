package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/swooby/swoo.by/internal/domain"
)

// DefaultGeoTTL matches the in-process cache epoch.
const DefaultGeoTTL = 23 * time.Hour

// GeoStore keeps geo lookups in Redis so gateway instances share them.
type GeoStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewGeoStore creates a store. ttl <= 0 uses DefaultGeoTTL.
func NewGeoStore(client redis.Cmdable, ttl time.Duration) *GeoStore {
	if ttl <= 0 {
		ttl = DefaultGeoTTL
	}
	return &GeoStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the stored geo data, or nil on a miss.
func (s *GeoStore) Get(ctx context.Context, ip string) (*domain.GeoInfo, error) {
	data, err := s.client.Get(ctx, GeoKey(ip)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get geo entry: %w", err)
	}

	var info domain.GeoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geo entry: %w", err)
	}
	return &info, nil
}

// Save stores geo data for ip with the store TTL.
func (s *GeoStore) Save(ctx context.Context, ip string, info *domain.GeoInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal geo entry: %w", err)
	}

	if err := s.client.Set(ctx, GeoKey(ip), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save geo entry: %w", err)
	}
	return nil
}

// Count returns the number of geo entries currently stored.
func (s *GeoStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixGeo+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count geo entries: %w", err)
	}
	return n, nil
}
