// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package redis

import (
	"context"
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	libRedis "github.com/LerianStudio/lib-commons/v3/commons/redis"
	"go.opentelemetry.io/otel/attribute"
)

// scanBatchSize is the SCAN page size used when deleting keys by pattern.
const scanBatchSize = 100

// RedisConsumerRepository is a Redis implementation of the RedisRepository port.
type RedisConsumerRepository struct {
	conn *libRedis.RedisConnection
}

// NewConsumerRedis returns a new instance of RedisRepository using the given Redis connection.
func NewConsumerRedis(rc *libRedis.RedisConnection) (*RedisConsumerRepository, error) {
	r := &RedisConsumerRepository{
		conn: rc,
	}
	if _, err := r.conn.GetClient(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return r, nil
}

// Set sets a key in the redis
func (rc *RedisConsumerRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	logger, tracer, reqId, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.redis.set")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.key", key),
		attribute.String("app.request.ttl", ttl.String()),
	)

	rds, err := rc.conn.GetClient(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return err
	}

	err = rds.Set(ctx, key, value, ttl).Err()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to set on redis", err)

		return err
	}

	logger.Infof("key %v set with ttl %v", key, ttl)

	return nil
}

// SetNX sets a key in the redis only when it does not already exist, returning
// whether this call acquired it. Lock acquisition relies on this being one
// atomic Redis command.
func (rc *RedisConsumerRepository) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	logger, tracer, reqId, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.redis.set_nx")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.key", key),
		attribute.String("app.request.ttl", ttl.String()),
	)

	rds, err := rc.conn.GetClient(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return false, err
	}

	acquired, err := rds.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to set nx on redis", err)

		return false, err
	}

	span.SetAttributes(attribute.Bool("app.response.acquired", acquired))

	logger.Infof("key %v acquired: %v", key, acquired)

	return acquired, nil
}

// Get recovers a key from the redis
func (rc *RedisConsumerRepository) Get(ctx context.Context, key string) (string, error) {
	logger, tracer, reqId, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.redis.get")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.key", key),
	)

	rds, err := rc.conn.GetClient(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return "", err
	}

	val, err := rds.Get(ctx, key).Result()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get on redis", err)

		return "", err
	}

	logger.Infof("key %v recovered", key)

	return val, nil
}

// DelByPattern removes every key matching the glob pattern, walking the
// keyspace with SCAN so large databases are never blocked. Returns the number
// of keys removed.
func (rc *RedisConsumerRepository) DelByPattern(ctx context.Context, pattern string) (int64, error) {
	logger, tracer, reqId, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.redis.del_by_pattern")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.pattern", pattern),
	)

	rds, err := rc.conn.GetClient(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return 0, err
	}

	var deleted int64

	iter := rds.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		n, err := rds.Del(ctx, iter.Val()).Result()
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to del on redis", err)

			return deleted, err
		}

		deleted += n
	}

	if err := iter.Err(); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan redis", err)

		return deleted, err
	}

	span.SetAttributes(attribute.Int64("app.response.deleted", deleted))

	logger.Infof("deleted %v keys matching %v", deleted, pattern)

	return deleted, nil
}

// Del deletes a key from the redis
func (rc *RedisConsumerRepository) Del(ctx context.Context, key string) error {
	logger, tracer, reqId, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.redis.del")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.key", key),
	)

	rds, err := rc.conn.GetClient(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to del redis", err)

		return err
	}

	val, err := rds.Del(ctx, key).Result()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to del on redis", err)

		return err
	}

	logger.Infof("deleted %v keys", val)

	return nil
}
