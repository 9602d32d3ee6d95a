// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/LerianStudio/datafeed/components/worker/internal/adapters/rabbitmq"
	"github.com/LerianStudio/datafeed/components/worker/internal/services"
	"github.com/LerianStudio/datafeed/pkg"

	libCommons "github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
)

// MultiQueueConsumer binds queue handlers to the consumer routes and runs
// them until the process is told to stop.
type MultiQueueConsumer struct {
	consumerRoutes *rabbitmq.ConsumerRoutes
	*services.UseCase
	logger log.Logger
}

// NewMultiQueueConsumer creates a new instance of MultiQueueConsumer and
// registers the sync feed handler on its queue.
func NewMultiQueueConsumer(queue string, routes *rabbitmq.ConsumerRoutes, useCase *services.UseCase, logger log.Logger) *MultiQueueConsumer {
	consumer := &MultiQueueConsumer{
		consumerRoutes: routes,
		UseCase:        useCase,
		logger:         logger,
	}

	routes.Register(queue, consumer.handlerSyncFeed)

	return consumer
}

// Run starts consumers for all registered queues and blocks until an
// interrupt or termination signal arrives and every worker has drained.
func (mq *MultiQueueConsumer) Run(l *libCommons.Launcher) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigs
		mq.logger.Info("Shutdown signal received, stopping consumers...")
		cancel()
	}()

	if err := mq.consumerRoutes.RunConsumers(ctx, wg); err != nil {
		return err
	}

	wg.Wait()

	return nil
}

// handlerSyncFeed processes one message from the sync feed queue. Business
// rejections are recorded as span events and keep the span status clean;
// infrastructure failures mark the span as errored. Either way the error is
// returned so the consumer's retry ladder decides the message's fate.
func (mq *MultiQueueConsumer) handlerSyncFeed(ctx context.Context, body []byte) error {
	logger, tracer, _, _ := libCommons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.feed.sync")
	defer span.End()

	logger.Info("Processing message from sync feed queue")

	if err := mq.SyncFeed(ctx, body); err != nil {
		if pkg.IsBusinessError(err) {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Feed sync rejected", err)

			logger.Infof("Feed sync rejected: %v", err)
		} else {
			libOpentelemetry.HandleSpanError(&span, "Feed sync failed", err)

			logger.Errorf("Feed sync failed: %v", err)
		}

		return err
	}

	return nil
}
