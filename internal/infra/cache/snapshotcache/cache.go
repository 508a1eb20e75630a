package snapshotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const defaultPrefix = "availability:snapshot"

// Cache кэш снимков конфигурации в redis
// Хранятся только редко меняющиеся документы. Управляемые слоты и загрузка
// бронированиями в кэш не попадают и всегда читаются из БД.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New создает кэш. ttl <= 0 - записи не сохраняются.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		prefix: defaultPrefix,
	}
}

// Get читает снимок услуги на диапазон дат
func (c *Cache) Get(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key(offeringID, from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - redis: %v", ErrCache, err)
	}

	var snap availability.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: Get - decode: %v", ErrCache, err)
	}
	if snap.Offering == nil {
		return nil, ErrCacheMiss
	}
	return &snap, nil
}

// Set сохраняет снимок без управляемых слотов и загрузки
func (c *Cache) Set(ctx context.Context, offeringID int64, from, to time.Time, snap *availability.Snapshot) error {
	if c.ttl <= 0 || snap == nil || snap.Offering == nil {
		return nil
	}

	stored := *snap
	stored.ManagedSlots = nil
	stored.Bookings = nil

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCache, err)
	}
	if err := c.client.Set(ctx, c.key(offeringID, from, to), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - redis: %v", ErrCache, err)
	}
	return nil
}

// Invalidate удаляет все снимки услуги
func (c *Cache) Invalidate(ctx context.Context, offeringID int64) error {
	pattern := fmt.Sprintf("%s:%d:*", c.prefix, offeringID)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - scan: %v", ErrCache, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - del: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) key(offeringID int64, from, to time.Time) string {
	return fmt.Sprintf("%s:%d:%s:%s", c.prefix, offeringID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))
}
