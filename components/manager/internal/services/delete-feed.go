// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"

	"github.com/LerianStudio/datafeed/pkg/redis"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DeleteFeed soft-deletes a feed, purges its replicated entries from
// PostgreSQL and drops any cached entry pages. The feed document stays in
// mongo for audit.
func (uc *UseCase) DeleteFeed(ctx context.Context, id uuid.UUID) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.delete_feed")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	)

	logger.Infof("Removing feed for id: %s", id)

	if err := uc.FeedRepo.SoftDelete(ctx, id); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete feed on repo by id", err)

		logger.Errorf("Error deleting feed on repo by id: %v", err)

		return err
	}

	purged, err := uc.EntryRepo.DeleteByFeed(ctx, id)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to purge feed entries", err)

		logger.Errorf("Error purging entries of feed %s: %v", id, err)

		return err
	}

	logger.Infof("Purged %d entries of feed %s", purged, id)

	// Cache invalidation is best effort: stale pages expire by TTL anyway.
	if _, err := uc.RedisRepo.DelByPattern(ctx, redis.EntryPagePattern(id)); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to invalidate entry page cache", err)

		logger.Warnf("Error invalidating entry page cache of feed %s: %v", id, err)
	}

	return nil
}
