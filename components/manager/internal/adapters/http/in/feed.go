// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"errors"

	"github.com/LerianStudio/datafeed/components/manager/internal/services"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/net/http"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// FeedHandler handles HTTP requests for feed operations.
type FeedHandler struct {
	service *services.UseCase
}

// NewFeedHandler creates a new FeedHandler with the given service dependency.
// It returns an error if service is nil.
func NewFeedHandler(service *services.UseCase) (*FeedHandler, error) {
	if service == nil {
		return nil, errors.New("service must not be nil for FeedHandler")
	}

	return &FeedHandler{service: service}, nil
}

// CreateFeed registers a new replication feed.
//
//	@Summary		Create a feed
//	@Description	Registers a replication feed pointing at a paginated source API
//	@Tags			Feeds
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string					false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			feed			body		model.CreateFeedInput	true	"Feed Input"
//	@Success		201				{object}	feed.Feed
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds [post]
func (fh *FeedHandler) CreateFeed(p any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_feed")
	defer span.End()

	c.SetUserContext(ctx)

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
	)

	payload := p.(*model.CreateFeedInput)

	logger.Infof("Request to create a feed with details: %#v", payload)

	created, err := fh.service.CreateFeed(ctx, payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to create feed on command", err)

		logger.Errorf("Failed to create feed, Error: %s", err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully created feed %s", created.ID)

	return http.Created(c, created)
}

// GetAllFeeds lists feeds as one page of the paginated envelope.
//
//	@Summary		List feeds
//	@Description	Retrieves feeds with paging, name/status filtering and metadata search
//	@Tags			Feeds
//	@Produce		json
//	@Param			Authorization	header		string	false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			limit			query		int		false	"Page size"		default(10)
//	@Param			page			query		int		false	"Page number"	default(1)
//	@Param			name			query		string	false	"Feed name filter"
//	@Param			status			query		string	false	"Feed status filter"
//	@Param			metadata		query		string	false	"Metadata query filter"
//	@Success		200				{object}	model.Page
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds [get]
func (fh *FeedHandler) GetAllFeeds(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_all_feeds")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
	)

	filters, err := http.ValidateParameters(c.Queries())
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to validate query parameters", err)

		logger.Errorf("Failed to validate query parameters, Error: %s", err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Initiating retrieval of all feeds")

	page, err := fh.service.GetAllFeeds(ctx, *filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to retrieve feeds on query", err)

		logger.Errorf("Failed to retrieve feeds, Error: %s", err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully retrieved all feeds")

	return http.OK(c, page)
}

// GetFeedByID fetches a single feed.
//
//	@Summary		Get a feed
//	@Description	Retrieves one feed by its identifier
//	@Tags			Feeds
//	@Produce		json
//	@Param			Authorization	header		string	false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			id				path		string	true	"Feed ID"
//	@Success		200				{object}	feed.Feed
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		404				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds/{id} [get]
func (fh *FeedHandler) GetFeedByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_feed_by_id")
	defer span.End()

	feedID := c.Locals("id").(uuid.UUID)

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	logger.Infof("Initiating retrieval of feed with ID: %s", feedID)

	found, err := fh.service.GetFeedByID(ctx, feedID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to retrieve feed on query", err)

		logger.Errorf("Failed to retrieve feed with ID: %s, Error: %s", feedID, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully retrieved feed with ID: %s", feedID)

	return http.OK(c, found)
}

// UpdateFeed patches the mutable fields of a feed.
//
//	@Summary		Update a feed
//	@Description	Updates the name, description, page limit or metadata of a feed
//	@Tags			Feeds
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string					false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			id				path		string					true	"Feed ID"
//	@Param			feed			body		model.UpdateFeedInput	true	"Feed update payload"
//	@Success		200				{object}	feed.Feed
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		404				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds/{id} [patch]
func (fh *FeedHandler) UpdateFeed(p any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_feed")
	defer span.End()

	c.SetUserContext(ctx)

	feedID := c.Locals("id").(uuid.UUID)

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	payload := p.(*model.UpdateFeedInput)

	logger.Infof("Request to update feed %s with details: %#v", feedID, payload)

	updated, err := fh.service.UpdateFeed(ctx, feedID, payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to update feed on command", err)

		logger.Errorf("Failed to update feed with ID: %s, Error: %s", feedID, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully updated feed with ID: %s", feedID)

	return http.OK(c, updated)
}

// DeleteFeed soft deletes a feed.
//
//	@Summary		Delete a feed
//	@Description	Soft deletes a feed; its replicated entries are kept until the next full sync
//	@Tags			Feeds
//	@Param			Authorization	header	string	false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			id				path	string	true	"Feed ID"
//	@Success		204
//	@Failure		400	{object}	pkg.HTTPError
//	@Failure		401	{object}	pkg.HTTPError
//	@Failure		404	{object}	pkg.HTTPError
//	@Failure		500	{object}	pkg.HTTPError
//	@Router			/v1/feeds/{id} [delete]
func (fh *FeedHandler) DeleteFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.delete_feed")
	defer span.End()

	feedID := c.Locals("id").(uuid.UUID)

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	logger.Infof("Initiating deletion of feed with ID: %s", feedID)

	if err := fh.service.DeleteFeed(ctx, feedID); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete feed on command", err)

		logger.Errorf("Failed to delete feed with ID: %s, Error: %s", feedID, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully deleted feed with ID: %s", feedID)

	return http.NoContent(c)
}

// TriggerSync enqueues a synchronization run for a feed.
//
//	@Summary		Trigger a feed sync
//	@Description	Queues a synchronization of the feed from its source API; refused while another sync holds the feed lock
//	@Tags			Feeds
//	@Produce		json
//	@Param			Authorization	header		string	false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			id				path		string	true	"Feed ID"
//	@Success		202				{object}	model.SyncAccepted
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		404				{object}	pkg.HTTPError
//	@Failure		409				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds/{id}/sync [post]
func (fh *FeedHandler) TriggerSync(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.trigger_sync")
	defer span.End()

	feedID := c.Locals("id").(uuid.UUID)

	requestedBy := c.Get("X-Requested-By")
	if requestedBy == "" {
		requestedBy = "api"
	}

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
		attribute.String("app.request.requested_by", requestedBy),
	)

	logger.Infof("Request to trigger sync of feed with ID: %s", feedID)

	accepted, err := fh.service.TriggerSync(ctx, feedID, requestedBy)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to trigger feed sync on command", err)

		logger.Errorf("Failed to trigger sync of feed with ID: %s, Error: %s", feedID, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully queued sync %s of feed %s", accepted.SyncID, feedID)

	return http.Accepted(c, accepted)
}

// GetFeedEntries serves one page of a feed's replicated entries.
//
//	@Summary		List feed entries
//	@Description	Retrieves one cursor-paginated page of the feed's replicated entries, served from PostgreSQL behind a Redis page cache
//	@Tags			Feeds
//	@Produce		json
//	@Param			Authorization	header		string	false	"The authorization token in the 'Bearer	access_token' format. Only required when auth plugin is enabled."
//	@Param			id				path		string	true	"Feed ID"
//	@Param			cursor			query		string	false	"Opaque page token; empty fetches the first page"
//	@Param			limit			query		int		false	"Page size"	default(10)
//	@Success		200				{object}	model.Page
//	@Failure		400				{object}	pkg.HTTPError
//	@Failure		401				{object}	pkg.HTTPError
//	@Failure		404				{object}	pkg.HTTPError
//	@Failure		500				{object}	pkg.HTTPError
//	@Router			/v1/feeds/{id}/entries [get]
func (fh *FeedHandler) GetFeedEntries(c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_feed_entries")
	defer span.End()

	feedID := c.Locals("id").(uuid.UUID)

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	filters, err := http.ValidateParameters(c.Queries())
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to validate query parameters", err)

		logger.Errorf("Failed to validate query parameters, Error: %s", err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Initiating retrieval of entries for feed with ID: %s", feedID)

	page, err := fh.service.GetFeedEntries(ctx, feedID, *filters)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to retrieve feed entries on query", err)

		logger.Errorf("Failed to retrieve entries of feed %s, Error: %s", feedID, err.Error())

		return http.WithError(c, err)
	}

	logger.Infof("Successfully retrieved entries of feed %s", feedID)

	return http.OK(c, page)
}
