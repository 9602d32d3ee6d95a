// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package feed

import (
	"fmt"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/pageable"

	"github.com/google/uuid"
)

// Feed represents the entity model for a replication feed
type Feed struct {
	ID           uuid.UUID          `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	Name         string             `json:"name" example:"ledger-balances"`
	Description  string             `json:"description" example:"Hourly balance replication"`
	SourceURL    string             `json:"sourceUrl" example:"https://ledger.example.com"`
	Resource     string             `json:"resource" example:"v1/balances"`
	PageLimit    int                `json:"pageLimit" example:"100"`
	Status       string             `json:"status" example:"idle"`
	LastCursor   pageable.PageToken `json:"lastCursor,omitempty"`
	LastSyncedAt *time.Time         `json:"lastSyncedAt"`
	EntryCount   int64              `json:"entryCount" example:"0"`
	Metadata     map[string]any     `json:"metadata"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	DeletedAt    *time.Time         `json:"deletedAt"`
}

// NewFeed creates a new Feed entity with invariant validation.
// This constructor ensures the Feed can never exist in an invalid state.
//
// A zero pageLimit falls back to the default source page size; a negative or
// oversized one is rejected. New feeds always start in the idle status with
// no cursor and no entries.
//
// Returns a wrapped ErrMissingRequiredFields, ErrInvalidSourceURL or
// ErrBadRequest when an invariant is violated.
func NewFeed(
	id uuid.UUID,
	name, description, sourceURL, resource string,
	pageLimit int,
) (*Feed, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("feed id must not be nil: %w", constant.ErrMissingRequiredFields)
	}

	if name == "" {
		return nil, fmt.Errorf("feed name must not be empty: %w", constant.ErrMissingRequiredFields)
	}

	if len(name) > constant.MaxFeedNameLength {
		return nil, fmt.Errorf("feed name must not exceed %d characters: %w", constant.MaxFeedNameLength, constant.ErrBadRequest)
	}

	if len(description) > constant.MaxFeedDescriptionLength {
		return nil, fmt.Errorf("feed description must not exceed %d characters: %w", constant.MaxFeedDescriptionLength, constant.ErrBadRequest)
	}

	if !pkg.ValidateSourceURL(sourceURL) {
		return nil, fmt.Errorf("feed source url %q is not an absolute http(s) URL: %w", sourceURL, constant.ErrInvalidSourceURL)
	}

	if resource == "" {
		return nil, fmt.Errorf("feed resource must not be empty: %w", constant.ErrMissingRequiredFields)
	}

	if pageLimit < 0 || pageLimit > constant.MaxSourcePageLimit {
		return nil, fmt.Errorf("feed page limit must be between 1 and %d: %w", constant.MaxSourcePageLimit, constant.ErrBadRequest)
	}

	if pageLimit == 0 {
		pageLimit = constant.DefaultSourcePageLimit
	}

	now := time.Now()

	return &Feed{
		ID:          id,
		Name:        name,
		Description: description,
		SourceURL:   sourceURL,
		Resource:    resource,
		PageLimit:   pageLimit,
		Status:      constant.IdleStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ReconstructFeed creates a Feed from persisted data without validation.
// Used only for database hydration where data integrity is already ensured.
func ReconstructFeed(
	id uuid.UUID,
	name, description, sourceURL, resource string,
	pageLimit int,
	status string,
	lastCursor pageable.PageToken,
	lastSyncedAt *time.Time,
	entryCount int64,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Feed {
	return &Feed{
		ID:           id,
		Name:         name,
		Description:  description,
		SourceURL:    sourceURL,
		Resource:     resource,
		PageLimit:    pageLimit,
		Status:       status,
		LastCursor:   lastCursor,
		LastSyncedAt: lastSyncedAt,
		EntryCount:   entryCount,
		Metadata:     metadata,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

// FeedMongoDBModel represents the MongoDB model for a feed
type FeedMongoDBModel struct {
	ID           uuid.UUID      `bson:"_id"`
	Name         string         `bson:"name"`
	Description  string         `bson:"description"`
	SourceURL    string         `bson:"source_url"`
	Resource     string         `bson:"resource"`
	PageLimit    int            `bson:"page_limit"`
	Status       string         `bson:"status"`
	LastCursor   string         `bson:"last_cursor"`
	LastSyncedAt *time.Time     `bson:"last_synced_at"`
	EntryCount   int64          `bson:"entry_count"`
	Metadata     map[string]any `bson:"metadata"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
	DeletedAt    *time.Time     `bson:"deleted_at"`
}

// ToEntity converts FeedMongoDBModel to Feed using ReconstructFeed.
func (fm *FeedMongoDBModel) ToEntity() *Feed {
	return ReconstructFeed(
		fm.ID,
		fm.Name,
		fm.Description,
		fm.SourceURL,
		fm.Resource,
		fm.PageLimit,
		fm.Status,
		pageable.PageToken(fm.LastCursor),
		fm.LastSyncedAt,
		fm.EntryCount,
		fm.Metadata,
		fm.CreatedAt,
		fm.UpdatedAt,
		fm.DeletedAt,
	)
}

// FromEntity converts Feed to FeedMongoDBModel
func (fm *FeedMongoDBModel) FromEntity(f *Feed) error {
	dateNow := time.Now()
	fm.ID = f.ID
	fm.Name = f.Name
	fm.Description = f.Description
	fm.SourceURL = f.SourceURL
	fm.Resource = f.Resource
	fm.PageLimit = f.PageLimit
	fm.Status = f.Status
	fm.LastCursor = string(f.LastCursor)
	fm.LastSyncedAt = f.LastSyncedAt
	fm.EntryCount = f.EntryCount
	fm.Metadata = f.Metadata
	fm.CreatedAt = dateNow
	fm.UpdatedAt = dateNow
	fm.DeletedAt = nil

	return nil
}
