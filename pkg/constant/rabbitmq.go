// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

// RabbitMQ Consumer Defaults
const (
	// DefaultWorkerCount is the number of concurrent consumer goroutines per
	// queue when RABBITMQ_NUMBERS_OF_WORKERS is not set.
	DefaultWorkerCount = 5

	// DefaultPrefetchCount limits the number of unacknowledged messages a
	// consumer channel holds at once.
	DefaultPrefetchCount = 10
)

// RabbitMQ Topology Defaults
const (
	// DefaultSyncExchange is the exchange sync requests are published to when
	// RABBITMQ_EXCHANGE is not set.
	DefaultSyncExchange = "datafeed.exchange"

	// DefaultSyncQueue is the queue the worker consumes sync requests from
	// when RABBITMQ_SYNC_FEED_QUEUE is not set.
	DefaultSyncQueue = "datafeed.sync-feed.queue"

	// DefaultSyncRoutingKey is the routing key for sync requests when
	// RABBITMQ_SYNC_FEED_KEY is not set.
	DefaultSyncRoutingKey = "datafeed.sync-feed.key"

	// DeadLetterExchange receives messages Nacked without requeue, either
	// exhausted retries or non-retryable business failures.
	DeadLetterExchange = "datafeed.dlx"

	// DeadLetterQueue is the queue bound to the dead letter exchange.
	DeadLetterQueue = "datafeed.dlq"
)
