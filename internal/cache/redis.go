package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bankguard/internal/numbering"
	"bankguard/internal/utils"
)

const AccountNumberKey = "bankguard:account:number"

// RedisSequence allocates account numbers from an atomic Redis counter, so
// several processes sharing one database never hand out the same number.
type RedisSequence struct {
	client *redis.Client
	key    string
	source numbering.LastNumberSource
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

// NewRedisSequence returns a sequence that seeds the counter from source the
// first time the key is missing.
func NewRedisSequence(client *redis.Client, source numbering.LastNumberSource) *RedisSequence {
	return &RedisSequence{
		client: client,
		key:    AccountNumberKey,
		source: source,
	}
}

func (s *RedisSequence) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSequence) Close() error {
	return s.client.Close()
}

func (s *RedisSequence) Next(ctx context.Context) (string, error) {
	if err := s.seed(ctx); err != nil {
		return "", err
	}

	value, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return "", fmt.Errorf("incrementing account number counter: %w", err)
	}
	return numbering.FromCounter(value)
}

// seed is a no-op once the key exists; SETNX keeps concurrent seeders from
// resetting a counter another process already advanced.
func (s *RedisSequence) seed(ctx context.Context) error {
	exists, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("checking account number counter: %w", err)
	}
	if exists > 0 {
		return nil
	}

	last, err := s.source.LastNumber(ctx)
	if err != nil {
		return fmt.Errorf("reading last account number: %w", err)
	}
	start, err := numbering.SeedValue(last)
	if err != nil {
		return err
	}

	set, err := s.client.SetNX(ctx, s.key, start, 0).Result()
	if err != nil {
		return fmt.Errorf("seeding account number counter: %w", err)
	}
	if set {
		utils.LogInfo("Cache", "Account number counter seeded at %d", start)
	}
	return nil
}
