// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	"github.com/LerianStudio/datafeed/pkg/postgres/entry"
	"github.com/LerianStudio/datafeed/pkg/rabbitmq"
	"github.com/LerianStudio/datafeed/pkg/redis"
)

// UseCase is a struct to implement the services methods
type UseCase struct {
	// FeedRepo provides an abstraction on top of the feed definitions stored in MongoDB.
	FeedRepo feed.Repository

	// EntryRepo provides an abstraction on top of the replicated entries stored in PostgreSQL.
	EntryRepo entry.Repository

	// RabbitMQRepo provides an abstraction on top of the sync-request producer.
	RabbitMQRepo rabbitmq.ProducerRepository

	// RedisRepo provides an abstraction on top of the redis consumer, used for
	// the entry page cache and for inspecting sync locks.
	RedisRepo redis.RedisRepository
}
