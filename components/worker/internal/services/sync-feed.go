// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncFeed handles one synchronization request from the queue: it walks the
// feed's upstream pages, replicates every entry into PostgreSQL, exports an
// NDJSON snapshot and records the outcome on the feed document.
//
// A nil return acknowledges the message. Errors carrying business codes are
// not retried by the consumer; everything else re-enters the retry cycle.
func (uc *UseCase) SyncFeed(ctx context.Context, body []byte) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.sync_feed")
	defer span.End()

	var message model.SyncMessage
	if err := json.Unmarshal(body, &message); err != nil {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Failed to unmarshal sync message", err)

		logger.Errorf("Error unmarshalling sync message: %v", err)

		return pkg.ValidateBusinessError(constant.ErrBadRequest, "", err.Error())
	}

	if message.SyncID == uuid.Nil || message.FeedID == uuid.Nil {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Sync message missing identifiers", constant.ErrMissingRequiredFields)

		logger.Errorf("Sync message missing syncId or feedId: %+v", message)

		return pkg.ValidateBusinessError(constant.ErrMissingRequiredFields, "", "syncId, feedId")
	}

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.sync_id", message.SyncID.String()),
		attribute.String("app.request.feed_id", message.FeedID.String()),
		attribute.String("app.request.trigger", message.Trigger),
	)

	// Redelivered messages for a sync that already finished are acked as-is.
	if uc.syncAlreadyCompleted(ctx, message.SyncID) {
		logger.Infof("Sync %s already completed, skipping redelivery", message.SyncID)

		return nil
	}

	acquired, err := uc.acquireSyncLock(ctx, message.FeedID, message.SyncID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to acquire sync lock", err)

		return err
	}

	if !acquired {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Sync lock held by another sync", constant.ErrSyncAlreadyRunning)

		logger.Warnf("Sync lock of feed %s held by another sync, dropping sync %s", message.FeedID, message.SyncID)

		return pkg.ValidateBusinessError(constant.ErrSyncAlreadyRunning, "", message.FeedID.String())
	}

	defer uc.releaseSyncLock(ctx, message.FeedID)

	feedRecord, err := uc.FeedRepo.FindByID(ctx, message.FeedID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to load feed", err)

		logger.Errorf("Error loading feed %s: %v", message.FeedID, err)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
		}

		return err
	}

	if err := uc.FeedRepo.UpdateSyncState(ctx, feedRecord.ID, constant.SyncingStatus, "", time.Time{}, -1); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to mark feed as syncing", err)

		return err
	}

	logger.Infof("Sync %s of feed %s (%s) started from cursor %q",
		message.SyncID, feedRecord.ID, feedRecord.Name, string(feedRecord.LastCursor))

	feedAttr := metric.WithAttributes(attribute.String("feed_id", feedRecord.ID.String()))
	start := time.Now()

	uc.Metrics.SyncsActive.Add(ctx, 1, feedAttr)

	result, walkErr := uc.syncAllPages(ctx, feedRecord)

	uc.Metrics.SyncsActive.Add(ctx, -1, feedAttr)
	uc.Metrics.SyncDurationSeconds.Record(ctx, time.Since(start).Seconds(), feedAttr)

	if walkErr != nil {
		uc.Metrics.SyncFailuresTotal.Add(ctx, 1, feedAttr)
		libOpentelemetry.HandleSpanError(&span, "Page walk failed", walkErr)

		logger.Errorf("Sync %s of feed %s failed after %d pages: %v",
			message.SyncID, feedRecord.ID, result.Pages, walkErr)

		// Keep the cursor progress: entry writes are idempotent, so the next
		// attempt resumes from the last fully replicated page.
		if stateErr := uc.FeedRepo.UpdateSyncState(ctx, feedRecord.ID, constant.ErrorStatus, result.LastCursor, time.Time{}, -1); stateErr != nil {
			logger.Errorf("Error marking feed %s as errored: %v", feedRecord.ID, stateErr)
		}

		return walkErr
	}

	uc.exportSnapshot(ctx, feedRecord, message.SyncID, result.Collected)

	entryCount := int64(-1)
	if total, countErr := uc.EntryRepo.CountByFeed(ctx, feedRecord.ID); countErr != nil {
		logger.Warnf("Error counting entries of feed %s, keeping previous count: %v", feedRecord.ID, countErr)
	} else {
		entryCount = total
	}

	if err := uc.FeedRepo.UpdateSyncState(ctx, feedRecord.ID, constant.SyncedStatus, result.LastCursor, time.Now().UTC(), entryCount); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to mark feed as synced", err)

		logger.Errorf("Error marking feed %s as synced: %v", feedRecord.ID, err)

		return err
	}

	uc.markSyncCompleted(ctx, message, result)
	uc.invalidateEntryPages(ctx, feedRecord.ID)

	logger.Infof("Sync %s of feed %s completed: %d pages, %d new entries, amount total %s",
		message.SyncID, feedRecord.ID, result.Pages, result.Written, result.Total)

	return nil
}
