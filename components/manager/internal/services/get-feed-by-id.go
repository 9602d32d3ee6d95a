// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"errors"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// GetFeedByID recovers a feed by ID. Soft-deleted feeds are not found.
func (uc *UseCase) GetFeedByID(ctx context.Context, id uuid.UUID) (*feed.Feed, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.get_feed_by_id")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	)

	logger.Infof("Retrieving feed for id %v", id)

	feedModel, err := uc.FeedRepo.FindByID(ctx, id)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get feed on repo by id", err)

		logger.Errorf("Error getting feed on repo by id: %v", err)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
		}

		return nil, err
	}

	return feedModel, nil
}
