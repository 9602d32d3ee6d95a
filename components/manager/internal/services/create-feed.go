// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"errors"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

// CreateFeed registers a new replication feed.
//
// The input has already passed payload validation; the entity constructor
// re-checks the domain invariants so a feed can never be persisted in an
// invalid state. A name collision with a live feed surfaces from the
// repository as ErrDuplicateFeedName.
func (uc *UseCase) CreateFeed(ctx context.Context, input *model.CreateFeedInput) (*feed.Feed, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.create_feed")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_name", input.Name),
	)

	err := libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", input)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert feed input to JSON string", err)
	}

	logger.Infof("Creating feed %q for source %s", input.Name, pkg.RedactSourceURL(input.SourceURL))

	feedModel, err := feed.NewFeed(
		commons.GenerateUUIDv7(),
		input.Name,
		input.Description,
		input.SourceURL,
		input.Resource,
		input.PageLimit,
	)
	if err != nil {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Feed input violates a domain invariant", err)

		logger.Errorf("Error building feed entity: %v", err)

		return nil, translateFeedConstructorError(err)
	}

	feedModel.Metadata = input.Metadata

	result, err := uc.FeedRepo.Create(ctx, feedModel)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create feed in repository", err)

		logger.Errorf("Error creating feed in database: %v", err)

		return nil, err
	}

	logger.Infof("Feed %s created with status %s", result.ID, result.Status)

	return result, nil
}

// translateFeedConstructorError maps wrapped entity constructor sentinels to
// the business errors the API contract exposes.
func translateFeedConstructorError(err error) error {
	for _, sentinel := range []error{
		constant.ErrMissingRequiredFields,
		constant.ErrInvalidSourceURL,
		constant.ErrBadRequest,
	} {
		if errors.Is(err, sentinel) {
			return pkg.ValidateBusinessError(sentinel, "")
		}
	}

	return err
}
