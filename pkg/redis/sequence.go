package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/dualstore-shop/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const seedAttempts = 5

// Sequence hands out ids from INCR counters stored under prefix:name.
type Sequence struct {
	client *redis.Client
	prefix string
}

func NewSequence(c *redis.Client, prefix string) *Sequence {
	return &Sequence{client: c, prefix: prefix}
}

func (s *Sequence) key(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}

func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	n, err := s.client.Incr(ctx, s.key(name)).Result()
	if err != nil {
		logger.Error("Failed to increment sequence", err, map[string]interface{}{
			"sequence": name,
		})
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return n, nil
}

// Seed raises the counter to floor when it is lower. WATCH makes the compare and the SET
// one optimistic transaction, retried if another client touches the key in between.
func (s *Sequence) Seed(ctx context.Context, name string, floor int64) error {
	key := s.key(name)
	raise := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current >= floor {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, floor, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < seedAttempts; attempt++ {
		err := s.client.Watch(ctx, raise, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		logger.Debug("Sequence seeded", map[string]interface{}{
			"sequence": name,
			"floor":    floor,
		})
		return nil
	}
	return fmt.Errorf("seed %s: key kept changing", name)
}
