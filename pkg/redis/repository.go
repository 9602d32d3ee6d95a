// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package redis

import (
	"context"
	"time"
)

// RedisRepository is the key-value surface the feed services rely on: sync
// locks and idempotency records (SetNX/Get/Del with TTLs) and cached entry
// pages invalidated by prefix (DelByPattern).
//
//go:generate mockgen --destination=repository.mock.go --package=redis --copyright_file=../../COPYRIGHT . RedisRepository
type RedisRepository interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	DelByPattern(ctx context.Context, pattern string) (int64, error)
}
