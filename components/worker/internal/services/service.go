// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	"github.com/LerianStudio/datafeed/pkg/postgres/entry"
	"github.com/LerianStudio/datafeed/pkg/redis"
	"github.com/LerianStudio/datafeed/pkg/sourceapi"
	s3storage "github.com/LerianStudio/datafeed/pkg/storage/s3"
	"github.com/LerianStudio/datafeed/pkg/syncmetrics"
)

// UseCase coordinates one feed synchronization: walking the upstream pages,
// replicating entries into PostgreSQL and recording the outcome on the feed.
type UseCase struct {
	// FeedRepo provides an abstraction on top of the feed definitions stored in MongoDB.
	FeedRepo feed.Repository

	// EntryRepo provides an abstraction on top of the replicated entries stored in PostgreSQL.
	EntryRepo entry.Repository

	// RedisRepo provides an abstraction on top of redis, used for sync locks,
	// completed-sync records and entry page cache invalidation.
	RedisRepo redis.RedisRepository

	// SourceClient fetches pages from the upstream source APIs.
	SourceClient sourceapi.Client

	// SnapshotStore persists the NDJSON snapshot each sync exports.
	SnapshotStore s3storage.SnapshotStore

	// Metrics records sync throughput and failure instruments. Never nil:
	// construct with syncmetrics.NewMetrics or syncmetrics.NoopMetrics.
	Metrics *syncmetrics.Metrics
}
