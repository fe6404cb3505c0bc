package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "wagebridge/pkg/domain"
)

const nullifierKeyPrefix = "nullifier:"

// RedisNullifierLedger keeps spent nullifiers in Redis. SET NX makes marking
// atomic across gateway instances without touching the relational store.
//
// Entries never expire: a spent nullifier must stay spent for the lifetime
// of the protocol.
type RedisNullifierLedger struct {
	client *redis.Client
}

// NewRedisNullifierLedger constructs a Redis-backed nullifier ledger.
func NewRedisNullifierLedger(client *redis.Client) *RedisNullifierLedger {
	return &RedisNullifierLedger{client: client}
}

// MarkUsed records the nullifier as spent, first writer wins.
func (l *RedisNullifierLedger) MarkUsed(ctx context.Context, n id.Nullifier) error {
	ok, err := l.client.SetNX(ctx, nullifierKeyPrefix+n.String(), "1", 0).Result()
	if err != nil {
		return fmt.Errorf("mark nullifier used: %w", err)
	}
	if !ok {
		return ErrNullifierUsed
	}
	return nil
}

// IsUsed reports whether the nullifier has been spent.
func (l *RedisNullifierLedger) IsUsed(ctx context.Context, n id.Nullifier) (bool, error) {
	count, err := l.client.Exists(ctx, nullifierKeyPrefix+n.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check nullifier: %w", err)
	}
	return count > 0, nil
}

// Verify interface is satisfied.
var _ NullifierLedger = (*RedisNullifierLedger)(nil)
