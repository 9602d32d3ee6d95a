// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package rabbitmq

import (
	"context"
	"sync"
)

// QueueHandlerFunc processes the raw body of one delivery from a queue.
// A nil return acknowledges the message; an error hands it to the retry
// and dead-letter flow.
type QueueHandlerFunc func(ctx context.Context, body []byte) error

// ConsumerRepository routes queue deliveries to their registered handlers.
//
//go:generate mockgen --destination=consumer.mock.go --package=rabbitmq --copyright_file=../../COPYRIGHT . ConsumerRepository
type ConsumerRepository interface {
	Register(queueName string, handler QueueHandlerFunc)
	RunConsumers(ctx context.Context, wg *sync.WaitGroup) error
}
