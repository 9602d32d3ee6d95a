// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/net/http"
	"github.com/LerianStudio/datafeed/pkg/pageable"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libMongo "github.com/LerianStudio/lib-commons/v3/commons/mongo"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

// Repository provides an interface for operations related to the feeds collection in MongoDB.
//
//go:generate mockgen --destination=feed.mongodb.mock.go --package=feed --copyright_file=../../../COPYRIGHT . Repository
type Repository interface {
	Create(ctx context.Context, record *Feed) (*Feed, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Feed, error)
	FindList(ctx context.Context, filters http.QueryHeader) ([]*Feed, error)
	Count(ctx context.Context, filters http.QueryHeader) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updateFields *bson.M) error
	UpdateSyncState(ctx context.Context, id uuid.UUID, status string, lastCursor pageable.PageToken, syncedAt time.Time, entryCount int64) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// FeedMongoDBRepository is a MongoDB-specific implementation of the feed Repository.
type FeedMongoDBRepository struct {
	connection *libMongo.MongoConnection
	Database   string
}

// Compile-time interface satisfaction check.
var _ Repository = (*FeedMongoDBRepository)(nil)

// NewFeedMongoDBRepository returns a new instance of FeedMongoDBRepository using the given MongoDB connection.
func NewFeedMongoDBRepository(mc *libMongo.MongoConnection) (*FeedMongoDBRepository, error) {
	r := &FeedMongoDBRepository{
		connection: mc,
		Database:   mc.Database,
	}
	if _, err := r.connection.GetDB(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb for feeds: %w", err)
	}

	return r, nil
}

func (fm *FeedMongoDBRepository) collection(db *mongo.Client) *mongo.Collection {
	return db.Database(strings.ToLower(fm.Database)).Collection(strings.ToLower(constant.MongoCollectionFeed))
}

// Create inserts a new feed entity into mongo. A name collision with a live
// feed surfaces as ErrDuplicateFeedName through the unique name index.
func (fm *FeedMongoDBRepository) Create(ctx context.Context, feed *Feed) (*Feed, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.create")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
	}

	span.SetAttributes(attributes...)

	err := libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", feed)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert feed record to JSON string", err)
	}

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)

		return nil, err
	}

	coll := fm.collection(db)
	record := &FeedMongoDBModel{}

	if err := record.FromEntity(feed); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert feed to model", err)

		return nil, err
	}

	ctx, spanInsert := tracer.Start(ctx, "repository.feed.create_exec")

	spanInsert.SetAttributes(attributes...)

	err = libOpentelemetry.SetSpanAttributesFromStruct(&spanInsert, "app.request.repository_input", record)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanInsert, "Failed to convert feed record to JSON string", err)
	}

	_, err = coll.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&spanInsert, "Feed name already in use", constant.ErrDuplicateFeedName)
			spanInsert.End()

			return nil, pkg.ValidateBusinessError(constant.ErrDuplicateFeedName, "", feed.Name)
		}

		libOpentelemetry.HandleSpanError(&spanInsert, "Failed to insert feed", err)
		spanInsert.End()

		return nil, err
	}

	spanInsert.End()

	return record.ToEntity(), nil
}

// FindByID retrieves a feed from the mongodb using the provided entity_id.
func (fm *FeedMongoDBRepository) FindByID(ctx context.Context, id uuid.UUID) (*Feed, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.find_by_id")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	}

	span.SetAttributes(attributes...)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)

		return nil, err
	}

	coll := fm.collection(db)

	var record *FeedMongoDBModel

	ctx, spanFindOne := tracer.Start(ctx, "repository.feed.find_by_id_exec")

	spanFindOne.SetAttributes(attributes...)

	filter := bson.M{"_id": id, "deleted_at": bson.D{{Key: "$eq", Value: nil}}}

	if err = coll.
		FindOne(ctx, filter).
		Decode(&record); err != nil {
		libOpentelemetry.HandleSpanError(&spanFindOne, "Failed to find feed by entity", err)
		spanFindOne.End()

		return nil, err
	}

	if nil == record {
		libOpentelemetry.HandleSpanError(&spanFindOne, "Feed record decoded to nil", mongo.ErrNoDocuments)
		spanFindOne.End()

		return nil, mongo.ErrNoDocuments
	}

	spanFindOne.End()

	return record.ToEntity(), nil
}

// buildQueryFilter renders the shared list/count filter from query parameters.
// Soft-deleted feeds are always excluded.
func buildQueryFilter(filters http.QueryHeader) bson.M {
	queryFilter := bson.M{}

	if !commons.IsNilOrEmpty(&filters.Status) {
		queryFilter["status"] = filters.Status
	}

	if !commons.IsNilOrEmpty(&filters.Name) {
		queryFilter["name"] = bson.M{
			"$regex":   filters.Name,
			"$options": "i", // "i" = case-insensitive
		}
	}

	if !filters.CreatedAt.IsZero() {
		end := filters.CreatedAt.Add(24 * time.Hour)
		queryFilter["created_at"] = bson.M{
			"$gte": filters.CreatedAt,
			"$lt":  end,
		}
	}

	if filters.UseMetadata && filters.Metadata != nil {
		for k, v := range *filters.Metadata {
			queryFilter[k] = v
		}
	}

	queryFilter["deleted_at"] = bson.D{{Key: "$eq", Value: nil}}

	return queryFilter
}

// FindList retrieves feeds from the mongodb with filtering and pagination support.
func (fm *FeedMongoDBRepository) FindList(ctx context.Context, filters http.QueryHeader) ([]*Feed, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.find_list")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
	}

	span.SetAttributes(attributes...)

	err := libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert filters to JSON string", err)
	}

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return nil, err
	}

	coll := fm.collection(db)

	queryFilter := buildQueryFilter(filters)

	sortDirection := -1
	if filters.SortOrder == string(constant.Asc) {
		sortDirection = 1
	}

	limit := int64(filters.Limit)
	skip := int64(filters.Page*filters.Limit - filters.Limit)
	opts := options.FindOptions{
		Limit: &limit,
		Skip:  &skip,
		Sort:  bson.D{{Key: "created_at", Value: sortDirection}},
	}

	ctx, spanFind := tracer.Start(ctx, "repository.feed.find_list_exec")

	spanFind.SetAttributes(attributes...)

	err = libOpentelemetry.SetSpanAttributesFromStruct(&spanFind, "app.request.repository_filter", filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanFind, "Failed to convert filters to JSON string", err)
	}

	cur, err := coll.Find(ctx, queryFilter, &opts)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanFind, "Failed to find feeds", err)
		spanFind.End()

		return nil, err
	}

	spanFind.End()

	var results []*FeedMongoDBModel

	for cur.Next(ctx) {
		var record FeedMongoDBModel
		if err := cur.Decode(&record); err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to decode feed", err)
			return nil, err
		}

		results = append(results, &record)
	}

	if err := cur.Err(); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to iterate feeds", err)
		return nil, err
	}

	if err := cur.Close(ctx); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to close cursor", err)
		return nil, err
	}

	feeds := make([]*Feed, 0, len(results))
	for i := range results {
		feeds = append(feeds, results[i].ToEntity())
	}

	return feeds, nil
}

// Count returns the number of feeds matching the same filter FindList applies,
// which the list endpoint needs to fill the paging total.
func (fm *FeedMongoDBRepository) Count(ctx context.Context, filters http.QueryHeader) (int64, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.count")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
	)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return 0, err
	}

	coll := fm.collection(db)

	total, err := coll.CountDocuments(ctx, buildQueryFilter(filters))
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to count feeds", err)
		return 0, err
	}

	return total, nil
}

// Update applies the given $set document to a live feed by UUID.
func (fm *FeedMongoDBRepository) Update(ctx context.Context, id uuid.UUID, updateFields *bson.M) error {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.update")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	}

	span.SetAttributes(attributes...)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return err
	}

	coll := fm.collection(db)
	opts := options.Update().SetUpsert(false)

	ctx, spanUpdate := tracer.Start(ctx, "repository.feed.update_exec")
	defer spanUpdate.End()

	spanUpdate.SetAttributes(attributes...)

	err = libOpentelemetry.SetSpanAttributesFromStruct(&spanUpdate, "app.request.repository_input", updateFields)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanUpdate, "Failed to convert update to JSON string", err)
	}

	// Soft-deleted feeds are not updatable
	filter := bson.M{"_id": id, "deleted_at": bson.D{{Key: "$eq", Value: nil}}}

	result, err := coll.UpdateOne(ctx, filter, updateFields, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&spanUpdate, "Feed name already in use", constant.ErrDuplicateFeedName)
			return pkg.ValidateBusinessError(constant.ErrDuplicateFeedName, "", id.String())
		}

		libOpentelemetry.HandleSpanError(&spanUpdate, "Failed to update feed", err)

		return err
	}

	if result.MatchedCount == 0 {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&spanUpdate, "No feed found with the provided UUID", constant.ErrEntityNotFound)
		return pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
	}

	return nil
}

// UpdateSyncState updates only the synchronization fields of a feed document
// by UUID. Empty status or cursor, zero syncedAt and negative entryCount each
// leave the corresponding field untouched, so callers can mark a single
// transition without clobbering the rest of the sync state.
func (fm *FeedMongoDBRepository) UpdateSyncState(
	ctx context.Context,
	id uuid.UUID,
	status string,
	lastCursor pageable.PageToken,
	syncedAt time.Time,
	entryCount int64,
) error {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.update_sync_state")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
		attribute.String("app.request.status", status),
	}

	span.SetAttributes(attributes...)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)
		return err
	}

	coll := fm.collection(db)

	filter := bson.M{"_id": id}

	ctx, spanUpdate := tracer.Start(ctx, "repository.feed.update_sync_state_exec")
	defer spanUpdate.End()

	spanUpdate.SetAttributes(attributes...)

	updateFields := bson.M{
		"updated_at": time.Now(),
	}

	if status != "" {
		updateFields["status"] = status
	}

	if !lastCursor.IsFirstPage() {
		updateFields["last_cursor"] = string(lastCursor)
	}

	if !syncedAt.IsZero() {
		updateFields["last_synced_at"] = syncedAt
	}

	if entryCount >= 0 {
		updateFields["entry_count"] = entryCount
	}

	update := bson.M{
		"$set": updateFields,
	}

	err = libOpentelemetry.SetSpanAttributesFromStruct(&spanUpdate, "app.request.repository_input", update)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanUpdate, "Failed to convert update to JSON string", err)
	}

	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanUpdate, "Failed to update feed sync state", err)
		return err
	}

	if result.MatchedCount == 0 {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&spanUpdate, "No feed found with the provided UUID", constant.ErrEntityNotFound)
		return pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
	}

	return nil
}

// SoftDelete marks a feed as deleted by setting deleted_at, keeping the
// document for audit. Already deleted feeds are not matched again.
func (fm *FeedMongoDBRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.feed.soft_delete")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", id.String()),
	}

	span.SetAttributes(attributes...)

	db, err := fm.connection.GetDB(ctx)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database", err)

		return err
	}

	coll := fm.collection(db)

	ctx, spanDelete := tracer.Start(ctx, "repository.feed.soft_delete_exec")
	defer spanDelete.End()

	spanDelete.SetAttributes(attributes...)

	filter := bson.M{"_id": id, "deleted_at": bson.D{{Key: "$eq", Value: nil}}}
	deletedAt := bson.D{{Key: "$set", Value: bson.D{
		{Key: "deleted_at", Value: time.Now()},
		{Key: "updated_at", Value: time.Now()},
	}}}

	result, err := coll.UpdateOne(ctx, filter, deletedAt)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanDelete, "Failed to delete feed", err)

		return err
	}

	if result.MatchedCount == 0 {
		libOpentelemetry.HandleSpanBusinessErrorEvent(&spanDelete, "No feed found with the provided UUID", constant.ErrEntityNotFound)
		return pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
	}

	logger.Infof("Feed %s marked as deleted", id)

	return nil
}
