package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
)

// locationTTL bounds how long a stale fix is served after an agent
// stops reporting.
const locationTTL = 10 * time.Minute

// LocationSnapshot is the cached live position of a delivery job.
type LocationSnapshot struct {
	domain.GeoPoint
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationCache holds the high-frequency GPS fixes in Redis so they
// never contend with status-transition writes. Last writer wins.
type LocationCache struct {
	client *redis.Client
}

func NewLocationCache(addr, password string, db int) (*LocationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &LocationCache{client: client}, nil
}

func (c *LocationCache) Close() error {
	return c.client.Close()
}

func locationKey(deliveryID uuid.UUID) string {
	return fmt.Sprintf("delivery:%s:location", deliveryID)
}

func (c *LocationCache) SetLocation(ctx context.Context, deliveryID uuid.UUID, point domain.GeoPoint, at time.Time) error {
	snap := LocationSnapshot{GeoPoint: point, UpdatedAt: at}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationKey(deliveryID), data, locationTTL).Err()
}

// GetLocation returns the cached snapshot, or nil on a cache miss.
func (c *LocationCache) GetLocation(ctx context.Context, deliveryID uuid.UUID) (*LocationSnapshot, error) {
	data, err := c.client.Get(ctx, locationKey(deliveryID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var snap LocationSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
