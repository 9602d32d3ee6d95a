// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/net/http"
	"github.com/LerianStudio/datafeed/pkg/pageable"
	"github.com/LerianStudio/datafeed/pkg/postgres/entry"
	"github.com/LerianStudio/datafeed/pkg/redis"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// GetFeedEntries serves one page of a feed's replicated entries as the page
// envelope, cursor-paginated over the UUIDv7 primary key. Pages are cached in
// Redis under the (feed, cursor, limit) triple; the sync worker invalidates
// the feed's pages after every replication run.
func (uc *UseCase) GetFeedEntries(ctx context.Context, feedID uuid.UUID, filters http.QueryHeader) (*model.Page, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.get_feed_entries")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
		attribute.Int("app.request.limit", filters.Limit),
	)

	logger.Infof("Retrieving entries of feed %v", feedID)

	if _, err := uc.FeedRepo.FindByID(ctx, feedID); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get feed on repo by id", err)

		logger.Errorf("Error getting feed on repo by id: %v", err)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
		}

		return nil, err
	}

	cacheKey := redis.EntryPageKey(feedID, string(filters.Cursor), filters.Limit)

	if page, ok := uc.cachedEntryPage(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("app.response.cache_hit", true))

		logger.Infof("Entry page of feed %v served from cache", feedID)

		return page, nil
	}

	isFirstPage := filters.Cursor.IsFirstPage()

	var cursor pageable.Cursor

	if !isFirstPage {
		decoded, err := pageable.DecodeCursor(filters.Cursor)
		if err != nil {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Malformed page cursor", err)

			return nil, pkg.ValidateBusinessError(constant.ErrInvalidQueryParameter, "", "cursor")
		}

		cursor = decoded
	}

	entries, hasMore, err := uc.EntryRepo.FindAllByFeed(ctx, feedID, cursor, isFirstPage, filters.Limit)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get entries on repo", err)

		logger.Errorf("Error getting entries of feed %v on repo: %v", feedID, err)

		return nil, err
	}

	total, err := uc.EntryRepo.CountByFeed(ctx, feedID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to count entries on repo", err)

		logger.Errorf("Error counting entries of feed %v on repo: %v", feedID, err)

		return nil, err
	}

	page := assembleEntryPage(feedID, entries, filters, cursor, isFirstPage, hasMore, total)

	uc.cacheEntryPage(ctx, cacheKey, page)

	return page, nil
}

// cachedEntryPage looks a serialized envelope up in Redis. A miss, a Redis
// failure and an undecodable value all report !ok so the caller falls back to
// PostgreSQL.
func (uc *UseCase) cachedEntryPage(ctx context.Context, key string) (*model.Page, bool) {
	logger := commons.NewLoggerFromContext(ctx)

	cached, err := uc.RedisRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warnf("Error reading entry page cache %v: %v", key, err)
		}

		return nil, false
	}

	var page model.Page

	if err := json.Unmarshal([]byte(cached), &page); err != nil {
		logger.Warnf("Discarding undecodable entry page cache %v: %v", key, err)

		return nil, false
	}

	return &page, true
}

// cacheEntryPage stores the envelope best effort: a failed write only costs
// the next request a database round trip.
func (uc *UseCase) cacheEntryPage(ctx context.Context, key string, page *model.Page) {
	logger := commons.NewLoggerFromContext(ctx)

	encoded, err := json.Marshal(page)
	if err != nil {
		logger.Warnf("Error encoding entry page for cache %v: %v", key, err)

		return
	}

	if err := uc.RedisRepo.Set(ctx, key, string(encoded), constant.EntryPageTTL); err != nil {
		logger.Warnf("Error writing entry page cache %v: %v", key, err)
	}
}

// assembleEntryPage renders one keyset page as the shared envelope. The next
// token encodes the last row of the page, the prev token the first row, so
// both directions resume exactly where this page ends.
func assembleEntryPage(
	feedID uuid.UUID,
	entries []*entry.Entry,
	filters http.QueryHeader,
	cursor pageable.Cursor,
	isFirstPage, hasMore bool,
	total int64,
) *model.Page {
	items := make([]model.FeedEntryPayload, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.ToPayload())
	}

	paging := &pageable.Paging{
		Limit: filters.Limit,
		Total: &total,
	}

	links := pageable.Links{
		"self": entryPageLink(feedID, filters.Limit, filters.Cursor),
	}

	if len(entries) > 0 {
		pointsNext := isFirstPage || cursor.PointsNext

		first := entries[0].ID.String()
		last := entries[len(entries)-1].ID.String()

		// Forward: more rows ahead only when the query said so; anything behind
		// the first row was already walked. Backward: mirrored.
		hasNext := hasMore || !pointsNext
		hasPrev := (pointsNext && !isFirstPage) || (!pointsNext && hasMore)

		if hasNext {
			next := pageable.EncodeCursor(last, true)
			paging.Next = &next
			links["next"] = entryPageLink(feedID, filters.Limit, next)
		}

		if hasPrev {
			prev := pageable.EncodeCursor(first, false)
			paging.Prev = &prev
			links["prev"] = entryPageLink(feedID, filters.Limit, prev)
		}
	}

	return model.NewPage(items, paging, links)
}

func entryPageLink(feedID uuid.UUID, limit int, cursor pageable.PageToken) string {
	link := fmt.Sprintf("/v1/feeds/%s/entries?limit=%d", feedID, limit)
	if !cursor.IsFirstPage() {
		link += "&cursor=" + string(cursor)
	}

	return link
}
