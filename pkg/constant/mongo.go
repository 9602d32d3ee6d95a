// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

import "time"

// MongoCollectionFeed is the collection holding feed definitions.
const MongoCollectionFeed = "feeds"

// Index management timeouts for the feed collection.
const (
	// MongoIndexCreateTimeout bounds index creation at startup.
	MongoIndexCreateTimeout = 60 * time.Second

	// MongoIndexDropTimeout bounds index removal during migrations.
	MongoIndexDropTimeout = 30 * time.Second
)

// Connection pool sizing for the feed store.
const (
	// MongoMaxPoolSizeUpperBound caps MONGO_MAX_POOL_SIZE; larger values are rejected.
	MongoMaxPoolSizeUpperBound = 10000

	// MongoDefaultMaxPoolSize applies when MONGO_MAX_POOL_SIZE is unset or zero.
	MongoDefaultMaxPoolSize = 100
)
