package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/cart/app"
	"github.com/dwikikusuma/shoping-voice/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

const baseTTL = 15 * time.Minute

// CartCache stores cart snapshots as JSON under cart:<session>.
type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (c *CartCache) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	data, err := c.client.Get(ctx, cacheKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, app.ErrSnapshotMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return lines, nil
}

func (c *CartCache) Set(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := c.client.Set(ctx, cacheKey(sessionID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *CartCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
