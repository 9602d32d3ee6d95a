// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"

	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	"github.com/LerianStudio/datafeed/pkg/pageable"
	"github.com/LerianStudio/datafeed/pkg/postgres/entry"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// syncPagesResult aggregates what one page walk accomplished.
type syncPagesResult struct {
	// Written counts entries newly inserted into PostgreSQL. Items already
	// replicated during an earlier attempt are deduplicated and not counted.
	Written int64

	// Pages counts upstream pages fetched.
	Pages int

	// LastCursor is the token that addressed the last fully replicated page.
	// Persisting it lets the next sync resume there; re-fetching that one page
	// is harmless because entry writes are idempotent.
	LastCursor pageable.PageToken

	// Collected holds every item seen during the walk in page order, the
	// source material for the snapshot export.
	Collected []model.FeedEntryPayload

	// Total is the running decimal sum of all replicated amounts, reported
	// for reconciliation against the upstream source.
	Total decimal.Decimal
}

// syncAllPages walks the feed's upstream pages starting at its persisted
// cursor, normalizes every item and batch-inserts each page into PostgreSQL.
//
// The walk stops at the first failure; the returned result still carries the
// progress made so the caller can persist the cursor reached so far.
func (uc *UseCase) syncAllPages(ctx context.Context, feedRecord *feed.Feed) (*syncPagesResult, error) {
	logger, tracer, _, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.sync_feed.walk_pages")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.feed_id", feedRecord.ID.String()),
		attribute.String("app.request.start_cursor", string(feedRecord.LastCursor)),
		attribute.Int("app.request.page_limit", feedRecord.PageLimit),
	)

	// Record the token each fetch was addressed with, so the result can point
	// at the last page that made it into the database.
	var requestedToken pageable.PageToken

	fetch := func(ctx context.Context, token pageable.PageToken) (*pageable.PagedCollection[model.FeedEntryPayload], error) {
		requestedToken = token

		return uc.SourceClient.FetchPage(ctx, feedRecord.SourceURL, feedRecord.Resource, token, feedRecord.PageLimit)
	}

	result := &syncPagesResult{
		LastCursor: feedRecord.LastCursor,
		Total:      decimal.Zero,
	}

	feedAttr := metric.WithAttributes(attribute.String("feed_id", feedRecord.ID.String()))

	for page, err := range pageable.Pages(ctx, fetch, feedRecord.LastCursor) {
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Page walk aborted", err)

			return result, err
		}

		result.Pages++
		uc.Metrics.SyncPagesFetchedTotal.Add(ctx, 1, feedAttr)

		items := page.CurrentPageItems()
		if len(items) == 0 {
			// An empty page with a next token is legal; keep walking.
			result.LastCursor = requestedToken

			continue
		}

		entries := make([]*entry.Entry, 0, len(items))

		for _, item := range items {
			e, convErr := entry.NewEntryFromPayload(feedRecord.ID, item)
			if convErr != nil {
				libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Source served a malformed entry", convErr)

				logger.Errorf("Malformed entry %q on page %d of feed %s: %v",
					item.ExternalID, result.Pages, feedRecord.ID, convErr)

				return result, convErr
			}

			result.Total = result.Total.Add(e.Amount)

			entries = append(entries, e)
		}

		written, err := uc.EntryRepo.CreateBatch(ctx, feedRecord.ID, entries)
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to replicate page batch", err)

			logger.Errorf("Error writing page %d of feed %s: %v", result.Pages, feedRecord.ID, err)

			return result, err
		}

		result.Written += written
		result.Collected = append(result.Collected, items...)
		result.LastCursor = requestedToken

		uc.Metrics.SyncEntriesWrittenTotal.Add(ctx, written, feedAttr)
	}

	span.SetAttributes(
		attribute.Int("app.response.pages", result.Pages),
		attribute.Int64("app.response.entries_written", result.Written),
	)

	logger.Infof("Walked %d pages of feed %s: %d items seen, %d new entries",
		result.Pages, feedRecord.ID, len(result.Collected), result.Written)

	return result, nil
}
