// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	"github.com/LerianStudio/datafeed/pkg/net/http"
	"github.com/LerianStudio/datafeed/pkg/pageable"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

// GetAllFeeds fetches feeds matching the query filters and assembles them into
// the page envelope served by the listing endpoint.
func (uc *UseCase) GetAllFeeds(ctx context.Context, filters http.QueryHeader) (*model.Page, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.get_all_feeds")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
	)

	err := libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert filters to JSON string", err)
	}

	logger.Infof("Retrieving feeds")

	feeds, err := uc.FeedRepo.FindList(ctx, filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get all feeds on repo", err)

		logger.Errorf("Error getting all feeds on repo: %v", err)

		return nil, err
	}

	total, err := uc.FeedRepo.Count(ctx, filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to count feeds on repo", err)

		logger.Errorf("Error counting feeds on repo: %v", err)

		return nil, err
	}

	return assembleFeedPage(feeds, filters, total), nil
}

// assembleFeedPage renders the offset-paginated feed listing as the shared
// page envelope. Offset is derived from the 1-based page number; the opaque
// next/prev tokens carry the adjacent page numbers. Links are relative so the
// envelope stays host-agnostic.
func assembleFeedPage(feeds []*feed.Feed, filters http.QueryHeader, total int64) *model.Page {
	// Empty pages serialize as [] instead of null.
	if feeds == nil {
		feeds = []*feed.Feed{}
	}

	offset := int64(filters.Page-1) * int64(filters.Limit)

	paging := &pageable.Paging{
		Limit:  filters.Limit,
		Offset: offset,
		Total:  &total,
	}

	links := pageable.Links{
		"self": feedPageLink(filters.Limit, filters.Page),
	}

	if offset+int64(len(feeds)) < total {
		next := pageable.EncodeCursor(strconv.Itoa(filters.Page+1), true)
		paging.Next = &next
		links["next"] = feedPageLink(filters.Limit, filters.Page+1)
	}

	if filters.Page > 1 {
		prev := pageable.EncodeCursor(strconv.Itoa(filters.Page-1), false)
		paging.Prev = &prev
		links["prev"] = feedPageLink(filters.Limit, filters.Page-1)
	}

	return model.NewPage(feeds, paging, links)
}

func feedPageLink(limit, page int) string {
	return fmt.Sprintf("/v1/feeds?limit=%d&page=%d", limit, page)
}
