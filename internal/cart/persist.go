package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rentgear/go-rental-store/internal/redisx"
)

// Load restores a cart snapshot from Redis. A missing key yields an empty
// cart, not an error.
func Load(ctx context.Context, rdb *redis.Client, cartID string) (*Store, error) {
	s := &Store{}
	raw, err := rdb.Get(ctx, fmt.Sprintf(redisx.KeyCart, cartID)).Bytes()
	if err == redis.Nil {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}
	s.items = items
	return s, nil
}

// Save serializes the cart. Callers persist after every mutation.
func Save(ctx context.Context, rdb *redis.Client, cartID string, s *Store) error {
	b, err := json.Marshal(s.Items())
	if err != nil {
		return err
	}
	return rdb.Set(ctx, fmt.Sprintf(redisx.KeyCart, cartID), b, redisx.TTLCart).Err()
}
