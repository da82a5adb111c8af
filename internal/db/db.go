// Package db declares the key-value surface the résumé repository needs.
// internal/db/redis implements it for both Redis and Valkey.
package db

import (
	"context"
	"time"
)

// Store is the full facade a server process opens at startup.
type Store interface {
	Pinger
	HashStore
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one key and its fields for a pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore holds one hash per résumé record.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// CounterStore allocates applicant ids.
type CounterStore interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}
