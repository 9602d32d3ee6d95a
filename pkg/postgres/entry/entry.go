// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package entry

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry represents one replicated item of a feed, normalized from the
// upstream wire payload.
type Entry struct {
	ID         uuid.UUID       `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	FeedID     uuid.UUID       `json:"feedId" example:"00000000-0000-0000-0000-000000000000"`
	ExternalID string          `json:"externalId" example:"bal_01J9ZK0V2N"`
	Title      string          `json:"title" example:"BRL available balance"`
	Amount     decimal.Decimal `json:"amount" example:"1050.42"`
	Currency   string          `json:"currency" example:"BRL"`
	OccurredAt time.Time       `json:"occurredAt"`
	Metadata   string          `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewEntryFromPayload normalizes one upstream wire item into an Entry.
//
// The amount arrives as a string and must parse as a decimal so that values
// like "1050.42" survive replication without float rounding. The timestamp
// must be RFC 3339. Entry IDs are UUIDv7 so the primary key preserves
// insertion order, which the keyset pagination of the entries endpoint
// relies on.
func NewEntryFromPayload(feedID uuid.UUID, payload model.FeedEntryPayload) (*Entry, error) {
	if payload.ExternalID == "" {
		return nil, fmt.Errorf("entry external id must not be empty: %w", constant.ErrMissingRequiredFields)
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		return nil, fmt.Errorf("entry amount %q: %w", payload.Amount, constant.ErrInvalidEntryAmount)
	}

	occurredAt, err := time.Parse(time.RFC3339, payload.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("entry timestamp %q: %w", payload.OccurredAt, constant.ErrInvalidEntryTimestamp)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to assign entry id: %w", err)
	}

	return &Entry{
		ID:         id,
		FeedID:     feedID,
		ExternalID: payload.ExternalID,
		Title:      payload.Title,
		Amount:     amount,
		Currency:   payload.Currency,
		OccurredAt: occurredAt,
		Metadata:   payload.Metadata,
		CreatedAt:  time.Now(),
	}, nil
}

// ToPayload converts the entry back to the wire shape served by the entries
// endpoint, identical to what upstream sources emit.
func (e *Entry) ToPayload() model.FeedEntryPayload {
	return model.FeedEntryPayload{
		ExternalID: e.ExternalID,
		Title:      e.Title,
		Amount:     e.Amount.String(),
		Currency:   e.Currency,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		Metadata:   e.Metadata,
	}
}

// EntryPostgreSQLModel represents the entries table row shape.
type EntryPostgreSQLModel struct {
	ID         uuid.UUID
	FeedID     uuid.UUID
	ExternalID string
	Title      string
	Amount     string
	Currency   string
	OccurredAt time.Time
	Metadata   sql.NullString
	CreatedAt  time.Time
}

// ToEntity converts EntryPostgreSQLModel to Entry.
func (em *EntryPostgreSQLModel) ToEntity() (*Entry, error) {
	amount, err := decimal.NewFromString(em.Amount)
	if err != nil {
		return nil, fmt.Errorf("stored entry amount %q: %w", em.Amount, constant.ErrInvalidEntryAmount)
	}

	e := &Entry{
		ID:         em.ID,
		FeedID:     em.FeedID,
		ExternalID: em.ExternalID,
		Title:      em.Title,
		Amount:     amount,
		Currency:   em.Currency,
		OccurredAt: em.OccurredAt,
		CreatedAt:  em.CreatedAt,
	}

	if em.Metadata.Valid {
		e.Metadata = em.Metadata.String
	}

	return e, nil
}

// FromEntity converts Entry to EntryPostgreSQLModel.
func (em *EntryPostgreSQLModel) FromEntity(e *Entry) {
	em.ID = e.ID
	em.FeedID = e.FeedID
	em.ExternalID = e.ExternalID
	em.Title = e.Title
	em.Amount = e.Amount.String()
	em.Currency = e.Currency
	em.OccurredAt = e.OccurredAt
	em.CreatedAt = e.CreatedAt

	if e.Metadata != "" {
		em.Metadata = sql.NullString{String: e.Metadata, Valid: true}
	} else {
		em.Metadata = sql.NullString{}
	}
}
