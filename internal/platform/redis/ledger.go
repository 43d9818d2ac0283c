// Package redis backs the refresh-token replay ledger with Redis so that
// single-use refresh tokens hold across server instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces ledger keys.
const KeyPrefix = "taskboard:refresh:"

// minTTL keeps a key alive briefly even for tokens at the edge of expiry.
const minTTL = time.Second

// SetNXer is the subset of *redis.Client the ledger uses.
type SetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RefreshTokenLedger implements auth.RefreshTokenLedger with SETNX: the first
// writer of a jti wins, later ones see the key and are rejected.
type RefreshTokenLedger struct {
	client   SetNXer
	timeFunc func() time.Time
}

var _ auth.RefreshTokenLedger = (*RefreshTokenLedger)(nil)

// NewRefreshTokenLedger wraps client.
func NewRefreshTokenLedger(client SetNXer) *RefreshTokenLedger {
	return &RefreshTokenLedger{client: client, timeFunc: time.Now}
}

// Consume implements auth.RefreshTokenLedger. The key expires with the token.
func (l *RefreshTokenLedger) Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(l.timeFunc())
	if ttl < minTTL {
		ttl = minTTL
	}

	ok, err := l.client.SetNX(ctx, KeyPrefix+jti, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record refresh token: %w", err)
	}
	return ok, nil
}

// NewClient parses url, connects and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
