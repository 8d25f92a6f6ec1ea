// Package db defines the key-value store contract used by the parse
// cache, with a Redis implementation in the redis subpackage.
package db

import (
	"context"
	"time"
)

// Store is the key-value store facade.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
