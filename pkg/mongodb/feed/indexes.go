// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package feed

import (
	"context"
	"strings"

	"github.com/LerianStudio/datafeed/pkg/constant"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

// EnsureIndexes creates all indexes for the feeds collection.
//
// The unique name index is partial on live documents, so a deleted feed's
// name can be reused; Create relies on it to surface ErrDuplicateFeedName.
func (fm *FeedMongoDBRepository) EnsureIndexes(ctx context.Context) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.ensure_indexes")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.collection", constant.MongoCollectionFeed),
	)

	logger.Infof("Creating indexes for %s collection", constant.MongoCollectionFeed)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return err
	}

	coll := db.Database(strings.ToLower(fm.Database)).Collection(strings.ToLower(constant.MongoCollectionFeed))

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "_id", Value: 1},
				{Key: "deleted_at", Value: 1},
			},
			Options: options.Index().
				SetName("idx_feed_id_deleted"),
		},

		{
			Keys: bson.D{
				{Key: "name", Value: 1},
			},
			Options: options.Index().
				SetName("idx_feed_name_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "deleted_at", Value: nil},
				}),
		},

		{
			Keys: bson.D{
				{Key: "deleted_at", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("idx_feed_list_main").
				SetPartialFilterExpression(bson.D{
					{Key: "deleted_at", Value: nil},
				}),
		},

		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "deleted_at", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("idx_feed_status_poll").
				SetPartialFilterExpression(bson.D{
					{Key: "deleted_at", Value: nil},
				}),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, constant.MongoIndexCreateTimeout)
	defer cancel()

	indexNames, err := coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Check if error is due to indexes already existing
		if strings.Contains(err.Error(), "IndexOptionsConflict") ||
			strings.Contains(err.Error(), "already exists") {
			logger.Infof("Indexes for %s already exist (detected during creation)", constant.MongoCollectionFeed)
			return nil
		}

		libOpentelemetry.HandleSpanError(&span, "Failed to create indexes", err)
		logger.Errorf("Failed to create indexes for %s: %v", constant.MongoCollectionFeed, err)

		return err
	}

	logger.Infof("Successfully created %d indexes for %s collection: %v",
		len(indexNames), constant.MongoCollectionFeed, indexNames)

	return nil
}

// DropIndexes removes all custom indexes for the feeds collection.
func (fm *FeedMongoDBRepository) DropIndexes(ctx context.Context) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.drop_indexes")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.collection", constant.MongoCollectionFeed),
	)

	logger.Warnf("Dropping all custom indexes for %s collection", constant.MongoCollectionFeed)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return err
	}

	coll := db.Database(strings.ToLower(fm.Database)).Collection(strings.ToLower(constant.MongoCollectionFeed))

	ctx, cancel := context.WithTimeout(ctx, constant.MongoIndexDropTimeout)
	defer cancel()

	if _, err := coll.Indexes().DropAll(ctx); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to drop indexes", err)
		logger.Errorf("Failed to drop indexes for %s: %v", constant.MongoCollectionFeed, err)

		return err
	}

	logger.Infof("Successfully dropped all custom indexes for %s collection", constant.MongoCollectionFeed)

	return nil
}
