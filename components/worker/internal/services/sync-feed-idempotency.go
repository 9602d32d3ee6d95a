// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/redis"

	"github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// syncResultRecord is what a completed sync leaves behind in redis for
// redelivery detection and operator inspection.
type syncResultRecord struct {
	FeedID      uuid.UUID `json:"feedId"`
	Pages       int       `json:"pages"`
	Entries     int64     `json:"entries"`
	CompletedAt time.Time `json:"completedAt"`
}

// syncAlreadyCompleted reports whether this sync id already ran to completion.
// Redis trouble counts as not completed: replaying a finished sync is safe
// because entry writes are idempotent.
func (uc *UseCase) syncAlreadyCompleted(ctx context.Context, syncID uuid.UUID) bool {
	logger, _, _, _ := commons.NewTrackingFromContext(ctx)

	value, err := uc.RedisRepo.Get(ctx, redis.SyncResultKey(syncID))
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warnf("Error checking completed-sync record of sync %s: %v", syncID, err)
		}

		return false
	}

	return value != ""
}

// acquireSyncLock takes the per-feed lock, recording which sync holds it. The
// TTL bounds how long a crashed worker can block a feed.
func (uc *UseCase) acquireSyncLock(ctx context.Context, feedID, syncID uuid.UUID) (bool, error) {
	acquired, err := uc.RedisRepo.SetNX(ctx, redis.SyncLockKey(feedID), syncID.String(), constant.SyncLockTTL)
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock of feed %s: %w", feedID, err)
	}

	return acquired, nil
}

// releaseSyncLock drops the per-feed lock. Best effort: an unreleased lock
// expires with its TTL.
func (uc *UseCase) releaseSyncLock(ctx context.Context, feedID uuid.UUID) {
	if err := uc.RedisRepo.Del(ctx, redis.SyncLockKey(feedID)); err != nil {
		logger, _, _, _ := commons.NewTrackingFromContext(ctx)

		logger.Warnf("Error releasing sync lock of feed %s, lock expires with its TTL: %v", feedID, err)
	}
}

// markSyncCompleted records the finished sync so redeliveries of its message
// are acked without re-walking the source. Best effort: without the record
// a redelivery re-runs the sync, which deduplicates to a no-op.
func (uc *UseCase) markSyncCompleted(ctx context.Context, message model.SyncMessage, result *syncPagesResult) {
	logger, _, _, _ := commons.NewTrackingFromContext(ctx)

	record := syncResultRecord{
		FeedID:      message.FeedID,
		Pages:       result.Pages,
		Entries:     result.Written,
		CompletedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		logger.Warnf("Error encoding completed-sync record of sync %s: %v", message.SyncID, err)

		return
	}

	if err := uc.RedisRepo.Set(ctx, redis.SyncResultKey(message.SyncID), string(payload), constant.SyncResultTTL); err != nil {
		logger.Warnf("Error storing completed-sync record of sync %s: %v", message.SyncID, err)
	}
}

// invalidateEntryPages drops every cached entry page of the feed so readers
// see the fresh data immediately instead of waiting out the cache TTL.
func (uc *UseCase) invalidateEntryPages(ctx context.Context, feedID uuid.UUID) {
	logger, _, _, _ := commons.NewTrackingFromContext(ctx)

	deleted, err := uc.RedisRepo.DelByPattern(ctx, redis.EntryPagePattern(feedID))
	if err != nil {
		logger.Warnf("Error invalidating cached entry pages of feed %s: %v", feedID, err)

		return
	}

	if deleted > 0 {
		logger.Infof("Invalidated %d cached entry pages of feed %s", deleted, feedID)
	}
}
