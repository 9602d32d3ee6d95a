// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package model

import (
	"time"

	"github.com/google/uuid"
)

// SyncMessage is a struct designed to encapsulate the payload of a
// synchronization request sent through RabbitMQ.
//
// swagger:model SyncMessage
//
// @Description SyncMessage represents a feed synchronization request published to RabbitMQ
type SyncMessage struct {
	SyncID      uuid.UUID `json:"syncId" example:"00000000-0000-0000-0000-000000000000"`
	FeedID      uuid.UUID `json:"feedId" example:"00000000-0000-0000-0000-000000000000"`
	Trigger     string    `json:"trigger" example:"manual"`
	RequestedBy string    `json:"requestedBy" example:"api"`
} // @name SyncMessage

// SyncAccepted is a struct designed to encapsulate the response payload of an
// accepted synchronization request.
//
// swagger:model SyncAccepted
//
// @Description SyncAccepted confirms that a synchronization request was queued
type SyncAccepted struct {
	SyncID   uuid.UUID `json:"syncId" example:"00000000-0000-0000-0000-000000000000"`
	FeedID   uuid.UUID `json:"feedId" example:"00000000-0000-0000-0000-000000000000"`
	Status   string    `json:"status" example:"queued"`
	QueuedAt time.Time `json:"queuedAt"`
} // @name SyncAccepted

// FeedEntryPayload is the wire shape of one replicated item as served by
// upstream sources and by the entries endpoint.
//
// Every field is of a comparable kind on purpose: pages of entries flow
// through PagedCollection, whose element type must support == for the
// sequence operations and hashing.
//
// swagger:model FeedEntryPayload
//
// @Description FeedEntryPayload is one replicated item inside a page envelope
type FeedEntryPayload struct {
	ExternalID string `json:"externalId" example:"bal_01J9ZK0V2N"`
	Title      string `json:"title" example:"BRL available balance"`
	Amount     string `json:"amount" example:"1050.42"`
	Currency   string `json:"currency" example:"BRL"`
	OccurredAt string `json:"occurredAt" example:"2026-01-02T15:04:05Z"`
	Metadata   string `json:"metadata,omitempty" example:"{\"account\":\"acc_123\"}"`
} // @name FeedEntryPayload
