// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"errors"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// UpdateFeed applies the mutable fields of the input to an existing feed and
// returns the updated entity. Absent fields keep their stored value; the
// source URL and resource are immutable after creation.
func (uc *UseCase) UpdateFeed(ctx context.Context, id uuid.UUID, input *model.UpdateFeedInput) (*feed.Feed, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.update_feed")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	)

	err := libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", input)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert input to JSON string", err)
	}

	logger.Infof("Updating feed for id %v", id)

	setFields := bson.M{
		"updated_at": time.Now(),
	}

	if !commons.IsNilOrEmpty(&input.Name) {
		setFields["name"] = input.Name
	}

	if !commons.IsNilOrEmpty(&input.Description) {
		setFields["description"] = input.Description
	}

	if input.PageLimit > 0 {
		setFields["page_limit"] = input.PageLimit
	}

	if input.Metadata != nil {
		setFields["metadata"] = input.Metadata
	}

	updateFields := bson.M{"$set": setFields}

	if err := uc.FeedRepo.Update(ctx, id, &updateFields); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update feed on repo by id", err)

		logger.Errorf("Error updating feed on repo by id: %v", err)

		return nil, err
	}

	updated, err := uc.FeedRepo.FindByID(ctx, id)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to reload feed after update", err)

		logger.Errorf("Error reloading feed after update: %v", err)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
		}

		return nil, err
	}

	return updated, nil
}
