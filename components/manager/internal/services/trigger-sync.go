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
	"github.com/LerianStudio/datafeed/pkg/redis"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerSync enqueues a synchronization request for a feed. The request is
// refused while another sync of the same feed holds the lock; the worker owns
// the authoritative SetNX acquisition, this check only fails fast.
func (uc *UseCase) TriggerSync(ctx context.Context, feedID uuid.UUID, requestedBy string) (*model.SyncAccepted, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "service.trigger_sync")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	logger.Infof("Queueing synchronization of feed %v", feedID)

	if _, err := uc.FeedRepo.FindByID(ctx, feedID); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get feed on repo by id", err)

		logger.Errorf("Error getting feed on repo by id: %v", err)

		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkg.ValidateBusinessError(constant.ErrEntityNotFound, "", constant.MongoCollectionFeed)
		}

		return nil, err
	}

	lockHolder, err := uc.RedisRepo.Get(ctx, redis.SyncLockKey(feedID))

	switch {
	case err == nil && lockHolder != "":
		libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Sync already running for feed", constant.ErrSyncAlreadyRunning)

		logger.Warnf("Sync of feed %s already running, held by sync %s", feedID, lockHolder)

		return nil, pkg.ValidateBusinessError(constant.ErrSyncAlreadyRunning, "", feedID.String())
	case err != nil && !errors.Is(err, goredis.Nil):
		// Lock state unknown: accept the request, the worker re-checks with SetNX.
		logger.Warnf("Error checking sync lock of feed %s: %v", feedID, err)
	}

	message := model.SyncMessage{
		SyncID:      commons.GenerateUUIDv7(),
		FeedID:      feedID,
		Trigger:     constant.ManualTrigger,
		RequestedBy: requestedBy,
	}

	err = libOpentelemetry.SetSpanAttributesFromStruct(&span, "app.request.payload", message)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to convert sync message to JSON string", err)
	}

	if _, err := uc.RabbitMQRepo.ProducerDefault(
		ctx,
		pkg.GetEnvOrDefault("RABBITMQ_EXCHANGE", constant.DefaultSyncExchange),
		pkg.GetEnvOrDefault("RABBITMQ_SYNC_FEED_KEY", constant.DefaultSyncRoutingKey),
		message,
	); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to send message to queue", err)

		logger.Errorf("Failed to send message: %s", err.Error())

		return nil, err
	}

	logger.Infof("Sync %s of feed %s sent to queue successfully", message.SyncID, feedID)

	return &model.SyncAccepted{
		SyncID:   message.SyncID,
		FeedID:   feedID,
		Status:   constant.QueuedSyncStatus,
		QueuedAt: time.Now().UTC(),
	}, nil
}
