// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	s3storage "github.com/LerianStudio/datafeed/pkg/storage/s3"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// exportSnapshot writes the set collected by one sync as NDJSON to object
// storage. The snapshot is an export artifact: failing to write it never fails
// the sync, the replicated rows in PostgreSQL stay the source of truth.
func (uc *UseCase) exportSnapshot(ctx context.Context, feedRecord *feed.Feed, syncID uuid.UUID, collected []model.FeedEntryPayload) {
	logger, tracer, _, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.sync_feed.export_snapshot")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.feed_id", feedRecord.ID.String()),
		attribute.String("app.request.sync_id", syncID.String()),
		attribute.Int("app.request.entries", len(collected)),
	)

	if len(collected) == 0 {
		logger.Infof("Sync %s of feed %s collected nothing, skipping snapshot", syncID, feedRecord.ID)

		return
	}

	data, err := encodeNDJSON(collected)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to encode snapshot", err)

		logger.Warnf("Error encoding snapshot of sync %s: %v", syncID, err)

		return
	}

	key := s3storage.SnapshotKey(feedRecord.ID, syncID)

	if err := uc.SnapshotStore.Upload(ctx, key, data, s3storage.NDJSONContentType); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to upload snapshot", err)

		logger.Warnf("Error uploading snapshot %s: %v", key, err)

		return
	}

	logger.Infof("Snapshot of sync %s stored at %s (%d entries, %d bytes)", syncID, key, len(collected), len(data))
}

// encodeNDJSON renders items as newline-delimited JSON, one object per line.
func encodeNDJSON(items []model.FeedEntryPayload) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)

	for i := range items {
		if err := encoder.Encode(items[i]); err != nil {
			return nil, fmt.Errorf("failed to encode snapshot line %d: %w", i, err)
		}
	}

	return buf.Bytes(), nil
}
