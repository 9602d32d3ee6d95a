// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"context"
	"time"

	"github.com/LerianStudio/lib-commons/v3/commons/log"
	libRedis "github.com/LerianStudio/lib-commons/v3/commons/redis"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStorage is an alias for fiber.Storage, used to declare the
// dependency explicitly in RateLimitConfig without coupling callers to
// the fiber package.
type RateLimitStorage = fiber.Storage

// redisStorageOpTimeout bounds each storage operation so a slow Redis cannot
// stall request handling inside the limiter.
const redisStorageOpTimeout = 2 * time.Second

// limiterCommands is the subset of the go-redis client surface the limiter
// storage needs.
type limiterCommands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisStorage adapts a lib-commons RedisConnection to the fiber.Storage
// interface required by the limiter middleware. Every failure mode degrades
// gracefully: Get reports "no counter state" and the mutating methods report
// success, so an unavailable Redis lets traffic through rather than turning
// the limiter into an outage.
type RedisStorage struct {
	conn   *libRedis.RedisConnection
	logger log.Logger
}

// Compile-time interface satisfaction check.
var _ fiber.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new RedisStorage wrapping the given connection.
func NewRedisStorage(conn *libRedis.RedisConnection, logger log.Logger) *RedisStorage {
	return &RedisStorage{
		conn:   conn,
		logger: logger,
	}
}

// commands resolves the go-redis client behind the connection. It returns
// nil when the connection is absent or unhealthy, which callers treat as
// the degraded path.
func (s *RedisStorage) commands(ctx context.Context) limiterCommands {
	if s.conn == nil {
		return nil
	}

	client, err := s.conn.GetClient(ctx)
	if err != nil {
		s.logger.Errorf("rate-limit redis storage: failed to get client: %v", err)
		return nil
	}

	return client
}

// Get retrieves the counter state for the given key. A missing key and a
// Redis failure are indistinguishable to the limiter: both come back as
// (nil, nil) so the request is allowed through.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageOpTimeout)
	defer cancel()

	cmds := s.commands(ctx)
	if cmds == nil {
		return nil, nil //nolint:nilnil // graceful degradation
	}

	val, err := cmds.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr,nilnil // graceful degradation
	}

	return val, nil
}

// Set stores counter state with an expiration. Failures are logged and
// swallowed so the limiter never rejects traffic on Redis trouble.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageOpTimeout)
	defer cancel()

	cmds := s.commands(ctx)
	if cmds == nil {
		return nil
	}

	if err := cmds.Set(ctx, key, val, exp).Err(); err != nil {
		s.logger.Errorf("rate-limit redis storage: failed to set key %s: %v", key, err)
	}

	return nil
}

// Delete removes counter state for the given key, swallowing failures the
// same way Set does.
func (s *RedisStorage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageOpTimeout)
	defer cancel()

	cmds := s.commands(ctx)
	if cmds == nil {
		return nil
	}

	if err := cmds.Del(ctx, key).Err(); err != nil {
		s.logger.Errorf("rate-limit redis storage: failed to delete key %s: %v", key, err)
	}

	return nil
}

// Reset is a no-op for Redis storage. Rate limit keys expire naturally
// via TTL. A full FLUSHDB would be destructive to other Redis data.
func (s *RedisStorage) Reset() error {
	return nil
}

// Close is a no-op. The RedisConnection lifecycle is managed by the
// bootstrap cleanup stack, not by the storage adapter.
func (s *RedisStorage) Close() error {
	return nil
}
