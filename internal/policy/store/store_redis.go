package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pwpolicy/internal/policy/models"
)

const (
	// Redis key prefix for a user's fingerprint set
	historyKeyPrefix = "pwhistory:"
)

// RedisStore keeps each user's fingerprints in a set, with a hash per entry
// holding when and from where it was stored.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed history store. The client lifecycle is
// managed by the caller.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Exists(ctx context.Context, userID, fingerprint string) (bool, error) {
	used, err := s.client.SIsMember(ctx, setKey(userID), fingerprint).Result()
	if err != nil {
		return false, fmt.Errorf("check redis password history: %w", err)
	}
	return used, nil
}

func (s *RedisStore) Insert(ctx context.Context, record models.HistoryRecord) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, setKey(record.UserID), record.Fingerprint)
		pipe.HSet(ctx, entryKey(record.UserID, record.Fingerprint),
			"date", record.CreatedAt.UTC().Format(time.RFC3339Nano),
			"ip", record.ClientIP,
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert redis password history: %w", err)
	}
	return nil
}

func setKey(userID string) string {
	return historyKeyPrefix + userID
}

func entryKey(userID, fingerprint string) string {
	return historyKeyPrefix + userID + ":" + fingerprint
}
