package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-system/internal/cart"
	"delivery-system/internal/session"

	"github.com/go-redis/redis/v8"
)

const DefaultCartTTL = 72 * time.Hour

// CartStore keeps cart snapshots under delivery:cart:<session id>.
type CartStore struct {
	rdb Client
	ttl time.Duration
}

var _ session.CartStore = (*CartStore)(nil)

func NewCartStore(rdb Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{rdb: rdb, ttl: ttl}
}

func CartKey(sessionID string) string {
	return keyPrefix + "cart:" + sessionID
}

func (s *CartStore) Save(ctx context.Context, sessionID string, lines []cart.SnapshotLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, CartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

func (s *CartStore) Load(ctx context.Context, sessionID string) ([]cart.SnapshotLine, error) {
	val, err := s.rdb.Get(ctx, CartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}
	var lines []cart.SnapshotLine
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", sessionID, err)
	}
	return lines, nil
}

func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, CartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", sessionID, err)
	}
	return nil
}
