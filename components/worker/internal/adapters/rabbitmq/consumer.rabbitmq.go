// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package rabbitmq

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	pkgConstant "github.com/LerianStudio/datafeed/pkg/constant"
	pkgRabbitmq "github.com/LerianStudio/datafeed/pkg/rabbitmq"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libConstants "github.com/LerianStudio/lib-commons/v3/commons/constants"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	"github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ConsumerRoutes consumes deliveries from RabbitMQ queues and dispatches them
// to registered handlers through a bounded worker pool. Failed deliveries run
// through an in-consumer retry cycle before landing on the dead letter queue.
type ConsumerRoutes struct {
	conn       *rabbitmq.RabbitMQConnection
	routes     map[string]pkgRabbitmq.QueueHandlerFunc
	numWorkers int

	// sleepFunc performs the backoff delay between retries. Tests override it
	// to avoid real sleeps.
	sleepFunc func(time.Duration)

	log.Logger
	opentelemetry.Telemetry
}

var _ pkgRabbitmq.ConsumerRepository = (*ConsumerRoutes)(nil)

// NewConsumerRoutes connects to RabbitMQ and returns a consumer with no
// registered queues yet.
func NewConsumerRoutes(conn *rabbitmq.RabbitMQConnection, numWorkers int, logger log.Logger, telemetry *opentelemetry.Telemetry) (*ConsumerRoutes, error) {
	if numWorkers <= 0 {
		numWorkers = pkgConstant.DefaultWorkerCount
	}

	cr := &ConsumerRoutes{
		conn:       conn,
		routes:     make(map[string]pkgRabbitmq.QueueHandlerFunc),
		numWorkers: numWorkers,
		sleepFunc:  time.Sleep,
		Logger:     logger,
		Telemetry:  *telemetry,
	}

	if _, err := conn.GetNewConnect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	return cr, nil
}

// Register binds a queue to its handler.
func (cr *ConsumerRoutes) Register(queueName string, handler pkgRabbitmq.QueueHandlerFunc) {
	cr.routes[queueName] = handler
}

// RunConsumers opens a consumer per registered queue and launches the worker
// pool for each. Workers exit when ctx is done or the delivery channel closes.
func (cr *ConsumerRoutes) RunConsumers(ctx context.Context, wg *sync.WaitGroup) error {
	for queueName, handler := range cr.routes {
		cr.Infof("Consuming queue %s with %d workers", queueName, cr.numWorkers)

		if err := cr.conn.Channel.Qos(pkgConstant.DefaultPrefetchCount, 0, false); err != nil {
			return err
		}

		messages, err := cr.conn.Channel.Consume(queueName, "", false, false, false, false, nil)
		if err != nil {
			return err
		}

		for i := 0; i < cr.numWorkers; i++ {
			wg.Add(1)

			go cr.runWorker(ctx, wg, i, queueName, handler, messages)
		}
	}

	return nil
}

// runWorker pulls deliveries until the context is cancelled or the channel
// closes. A panicking handler kills only the delivery being processed.
func (cr *ConsumerRoutes) runWorker(ctx context.Context, wg *sync.WaitGroup, workerID int, queue string, handler pkgRabbitmq.QueueHandlerFunc, messages <-chan amqp091.Delivery) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			cr.Errorf("Panic recovered in RabbitMQ worker %d for queue %s: %v\nStack: %s", workerID, queue, r, string(debug.Stack()))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			cr.Infof("Worker %d: shutting down", workerID)
			return
		case message, ok := <-messages:
			if !ok {
				cr.Infof("Worker %d: delivery channel closed", workerID)
				return
			}

			cr.processMessage(workerID, queue, handler, message)
		}
	}
}

// messageContext builds a request-scoped context for one delivery: request ID
// from the headers (or a fresh one), a field-enriched logger, and the trace
// context the publisher propagated through the queue headers.
func (cr *ConsumerRoutes) messageContext(headers amqp091.Table) (context.Context, string) {
	requestID, _ := headers[libConstants.HeaderID].(string)
	if requestID == "" {
		requestID = commons.GenerateUUIDv7().String()
	}

	logger := cr.Logger.WithFields(
		libConstants.HeaderID, requestID,
	).WithDefaultMessageTemplate(requestID + libConstants.LoggerDefaultSeparator)

	ctx := commons.ContextWithLogger(
		commons.ContextWithHeaderID(context.Background(), requestID),
		logger,
	)

	return opentelemetry.ExtractTraceContextFromQueueHeaders(ctx, headers), requestID
}

func (cr *ConsumerRoutes) processMessage(workerID int, queue string, handlerFunc pkgRabbitmq.QueueHandlerFunc, message amqp091.Delivery) {
	ctx, requestID := cr.messageContext(message.Headers)

	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.rabbitmq.process_message")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.rabbitmq.consumer.request_id", requestID),
	)

	if err := opentelemetry.SetSpanAttributesFromStruct(&span, "app.request.rabbitmq.consumer.message", message); err != nil {
		opentelemetry.HandleSpanError(&span, "Failed to convert message to JSON string", err)
	}

	retryCount := deliveryRetryCount(message)

	span.SetAttributes(
		attribute.Int("app.request.rabbitmq.consumer.retry_count", retryCount),
	)

	cr.Infof("Worker %d: processing delivery from queue %s (attempt %d)", workerID, queue, retryCount+1)

	if err := handlerFunc(ctx, message.Body); err != nil {
		cr.Errorf("Worker %d: handler failed for queue %s: %v", workerID, queue, err)
		opentelemetry.HandleSpanError(&span, "Error processing message", err)

		cr.handleFailedMessage(workerID, queue, message, err, retryCount, &span)

		return
	}

	_ = message.Ack(false)

	cr.Infof("Worker %d: delivery from queue %s processed", workerID, queue)
}

// handleFailedMessage settles a delivery whose handler returned an error.
// Business errors and exhausted retries are dead-lettered; everything else is
// republished with an incremented retry counter after a backoff.
func (cr *ConsumerRoutes) handleFailedMessage(workerID int, queue string, message amqp091.Delivery, err error, retryCount int, span *trace.Span) {
	switch {
	case !isRetryable(err):
		cr.Infof("Worker %d: non-retryable error on queue %s, dead-lettering: %v", workerID, queue, err)
		opentelemetry.HandleSpanBusinessErrorEvent(span, "Business error routed to DLQ", err)

		_ = message.Nack(false, false)
	case retryCount >= pkgConstant.MaxMessageRetries:
		cr.Errorf("Worker %d: retries exhausted (%d) for queue %s, dead-lettering: %v",
			workerID, pkgConstant.MaxMessageRetries, queue, err)
		opentelemetry.HandleSpanError(span, "Retry budget exhausted, routing to DLQ", err)

		_ = message.Nack(false, false)
	default:
		cr.retryLater(workerID, queue, message, err, retryCount, span)
	}
}

// retryLater sleeps through the backoff, publishes a retry copy of the
// delivery and settles the original. When the republish itself fails the
// original is requeued so the delivery is never lost.
func (cr *ConsumerRoutes) retryLater(workerID int, queue string, message amqp091.Delivery, handlerErr error, retryCount int, span *trace.Span) {
	backoff := retryBackoff(retryCount)

	cr.Infof("Worker %d: retrying queue %s delivery (attempt %d/%d) after %v: %v",
		workerID, queue, retryCount+1, pkgConstant.MaxMessageRetries, backoff, handlerErr)

	cr.sleepFunc(backoff)

	if pubErr := cr.republishWithIncrementedRetry(queue, message, handlerErr, retryCount); pubErr != nil {
		cr.Errorf("Worker %d: republish failed for queue %s, requeueing instead: %v", workerID, queue, pubErr)
		opentelemetry.HandleSpanError(span, "Failed to republish retry copy", pubErr)

		// Requeue keeps the delivery alive, at the cost of losing this
		// attempt's incremented retry counter.
		_ = message.Nack(false, true)

		return
	}

	// The retry copy is in flight; settle the original delivery.
	_ = message.Ack(false)
}

// republishWithIncrementedRetry publishes a copy of the message directly back
// to its queue (default exchange) with the retry counter incremented and the
// failure reason recorded, preserving all other headers and the body.
func (cr *ConsumerRoutes) republishWithIncrementedRetry(queue string, message amqp091.Delivery, handlerErr error, retryCount int) error {
	return cr.conn.Channel.Publish(
		"",
		queue,
		false,
		false,
		amqp091.Publishing{
			ContentType:  message.ContentType,
			DeliveryMode: amqp091.Persistent,
			Headers:      buildRetryHeaders(message.Headers, retryCount, handlerErr),
			Body:         message.Body,
		},
	)
}

// buildRetryHeaders returns a copy of the message headers with the retry
// counter incremented and the last failure reason recorded.
func buildRetryHeaders(existing amqp091.Table, retryCount int, lastErr error) amqp091.Table {
	headers := make(amqp091.Table, len(existing)+2)

	for k, v := range existing {
		headers[k] = v
	}

	reason := ""
	if lastErr != nil {
		reason = lastErr.Error()
	}

	headers[pkgConstant.RetryCountHeader] = retryCount + 1
	headers[pkgConstant.RetryFailureReasonHeader] = sanitizeFailureReason(reason)

	return headers
}

// sanitizeFailureReason bounds the failure reason so message headers stay
// small even when errors carry long payloads.
func sanitizeFailureReason(reason string) string {
	if len(reason) > pkgConstant.RetryFailureReasonMaxLen {
		return reason[:pkgConstant.RetryFailureReasonMaxLen]
	}

	return reason
}

// isRetryable classifies handler failures. Business and validation errors
// never succeed on a later attempt and go straight to the DLQ; everything
// else is treated as transient.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Handlers sometimes flatten business errors into plain strings; the
	// error code prefix still identifies them.
	if strings.Contains(err.Error(), "DTF-") {
		return false
	}

	return !isBusinessError(err)
}

// isBusinessError reports whether err unwraps to one of the domain error
// types.
func isBusinessError(err error) bool {
	var (
		validation    pkg.ValidationError
		knownFields   pkg.ValidationKnownFieldsError
		unknownFields pkg.ValidationUnknownFieldsError
		notFound      pkg.EntityNotFoundError
		conflict      pkg.EntityConflictError
		unprocessable pkg.UnprocessableOperationError
		precondition  pkg.FailedPreconditionError
		unauthorized  pkg.UnauthorizedError
		forbidden     pkg.ForbiddenError
	)

	return errors.As(err, &validation) ||
		errors.As(err, &knownFields) ||
		errors.As(err, &unknownFields) ||
		errors.As(err, &notFound) ||
		errors.As(err, &conflict) ||
		errors.As(err, &unprocessable) ||
		errors.As(err, &precondition) ||
		errors.As(err, &unauthorized) ||
		errors.As(err, &forbidden)
}

// deliveryRetryCount reads the retry counter from the delivery headers.
// Publishers serialize the header through different numeric types, so all
// common variants are accepted; anything unreadable or negative counts as a
// first attempt.
func deliveryRetryCount(msg amqp091.Delivery) int {
	var count int

	switch v := msg.Headers[pkgConstant.RetryCountHeader].(type) {
	case int:
		count = v
	case int32:
		count = int(v)
	case int64:
		count = int(v)
	case float64:
		count = int(v)
	default:
		return 0
	}

	if count < 0 {
		return 0
	}

	return count
}

// retryBackoff doubles the initial backoff per attempt up to the cap, then
// adds random jitter so parallel consumers do not retry in lockstep.
func retryBackoff(attempt int) time.Duration {
	backoff := pkgConstant.RetryInitialBackoff
	for i := 0; i < attempt && backoff < pkgConstant.RetryMaxBackoff; i++ {
		backoff *= 2
	}

	if backoff > pkgConstant.RetryMaxBackoff {
		backoff = pkgConstant.RetryMaxBackoff
	}

	return backoff + secureJitter(pkgConstant.RetryJitterMax)
}

// secureJitter returns a random duration in [0, max).
func secureJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}

	return time.Duration(n.Int64())
}
