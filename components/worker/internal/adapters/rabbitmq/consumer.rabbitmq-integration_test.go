//go:build integration

// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package rabbitmq

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	pkgConstant "github.com/LerianStudio/datafeed/pkg/constant"
	pkgRabbitmq "github.com/LerianStudio/datafeed/pkg/rabbitmq"
	"github.com/LerianStudio/datafeed/tests/utils/containers"

	libConstant "github.com/LerianStudio/lib-commons/v3/commons/constants"
	libOtel "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	libRabbitMQ "github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
	libZap "github.com/LerianStudio/lib-commons/v3/commons/zap"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
)

// Shared across every test in this file; the container is expensive to start.
var (
	rabbitContainer *containers.RabbitMQContainer
	testNetwork     *testcontainers.DockerNetwork
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Bringing up RabbitMQ for consumer retry integration tests...\n")

	var err error

	testNetwork, err = network.New(ctx, network.WithDriver("bridge"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create network: %v\n", err)
		os.Exit(1)
	}

	rabbitContainer, err = containers.StartRabbitMQ(ctx, testNetwork.Name, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start RabbitMQ: %v\n", err)
		_ = testNetwork.Remove(ctx)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "RabbitMQ ready at %s\n", rabbitContainer.AmqpURL)

	code := m.Run()

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if rabbitContainer != nil {
		_ = rabbitContainer.Terminate(cleanupCtx)
	}

	if testNetwork != nil {
		_ = testNetwork.Remove(cleanupCtx)
	}

	os.Exit(code)
}

// startSyncConsumer wires a single-worker consumer onto the sync-feed queue
// with the given handler and immediate (no-sleep) retry backoff. The consumer
// and its connection are torn down through t.Cleanup.
func startSyncConsumer(t *testing.T, handler pkgRabbitmq.QueueHandlerFunc) {
	t.Helper()

	logger := libZap.InitializeLogger()

	telemetry := libOtel.InitializeTelemetry(&libOtel.TelemetryConfig{
		LibraryName:     "test",
		ServiceName:     "test-worker",
		ServiceVersion:  "0.0.0",
		EnableTelemetry: false,
		Logger:          logger,
	})

	conn := &libRabbitMQ.RabbitMQConnection{
		ConnectionStringSource: rabbitContainer.AmqpURL,
		HealthCheckURL:         fmt.Sprintf("http://%s:%s", rabbitContainer.Host, rabbitContainer.MgmtPort),
		Host:                   rabbitContainer.Host,
		Port:                   rabbitContainer.AmqpPort,
		User:                   containers.RabbitUser,
		Pass:                   containers.RabbitPassword,
		Queue:                  containers.QueueSyncFeed,
		Logger:                 logger,
	}

	cr, err := NewConsumerRoutes(conn, 1, logger, telemetry)
	require.NoError(t, err, "NewConsumerRoutes should connect successfully")

	// Skip the real backoff sleeps so exhausting the retry budget takes
	// milliseconds instead of minutes.
	cr.sleepFunc = func(_ time.Duration) {}

	cr.Register(containers.QueueSyncFeed, handler)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	require.NoError(t, cr.RunConsumers(ctx, &wg), "RunConsumers should start without error")

	t.Cleanup(func() { shutdownConsumer(t, cancel, &wg, conn) })

	// Give the consumer a beat to finish wiring before tests publish.
	time.Sleep(500 * time.Millisecond)
}

func shutdownConsumer(t *testing.T, cancel context.CancelFunc, wg *sync.WaitGroup, conn *libRabbitMQ.RabbitMQConnection) {
	t.Helper()

	cancel()

	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Log("Warning: consumer workers did not exit within 10s after cancel")
	}

	if conn.Channel != nil {
		_ = conn.Channel.Close()
	}

	if conn.Connection != nil && !conn.Connection.IsClosed() {
		_ = conn.Connection.Close()
	}
}

// publishSyncMessage publishes one message onto the sync-feed exchange
// through a throwaway connection.
func publishSyncMessage(t *testing.T, headers amqp.Table, body []byte) {
	t.Helper()

	conn, err := amqp.Dial(rabbitContainer.AmqpURL)
	require.NoError(t, err, "dial for publish")

	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err, "open channel for publish")

	defer ch.Close()

	err = ch.Publish(containers.ExchangeSyncFeed, containers.RoutingKeySyncFeed, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      headers,
			Body:         body,
		},
	)
	require.NoError(t, err, "publish sync message")
}

// pollDLQ scans the dead letter queue until a message tagged with requestID
// shows up or the timeout passes. Foreign messages are requeued untouched.
func pollDLQ(t *testing.T, requestID string, timeout time.Duration) (amqp.Delivery, bool) {
	t.Helper()

	conn, err := amqp.Dial(rabbitContainer.AmqpURL)
	require.NoError(t, err, "dial for DLQ poll")

	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err, "open channel for DLQ poll")

	defer ch.Close()

	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		msg, ok, err := ch.Get(containers.QueueDLQ, false)
		if err != nil || !ok {
			time.Sleep(200 * time.Millisecond)
			continue
		}

		if id, _ := msg.Headers[libConstant.HeaderID].(string); id == requestID {
			_ = msg.Ack(false)
			return msg, true
		}

		_ = msg.Nack(false, true)
		time.Sleep(100 * time.Millisecond)
	}

	return amqp.Delivery{}, false
}

func requireDLQMessage(t *testing.T, requestID string, timeout time.Duration) amqp.Delivery {
	t.Helper()

	msg, found := pollDLQ(t, requestID, timeout)
	if !found {
		t.Fatalf("no DLQ message with %s=%s after %v", libConstant.HeaderID, requestID, timeout)
	}

	return msg
}

func requireNoDLQMessage(t *testing.T, requestID string, window time.Duration) {
	t.Helper()

	if msg, found := pollDLQ(t, requestID, window); found {
		t.Fatalf("unexpected DLQ message for %s: headers=%v body=%s", requestID, msg.Headers, msg.Body)
	}
}

func purgeTestQueues(t *testing.T) {
	t.Helper()
	require.NoError(t, rabbitContainer.PurgeQueues(), "purge queues before test")
}

// TestIntegration_RetryExhaustionDeadLetters drives a delivery through the
// whole retry cycle: the handler fails on every attempt, so the consumer
// republishes it MaxMessageRetries times and then dead-letters it with the
// retry headers set and the original body and headers intact.
func TestIntegration_RetryExhaustionDeadLetters(t *testing.T) {
	// Tests in this file share one broker, so they cannot run in parallel.
	purgeTestQueues(t)

	requestID := uuid.New().String()
	traceID := uuid.New().String()
	body := []byte(`{"syncId":"` + uuid.New().String() + `","feedId":"` + uuid.New().String() + `"}`)

	var attempts atomic.Int32

	startSyncConsumer(t, func(ctx context.Context, _ []byte) error {
		attempts.Add(1)
		return fmt.Errorf("transient network error: connection reset")
	})

	publishSyncMessage(t, amqp.Table{
		libConstant.HeaderID: requestID,
		"x-origin":           "integration-suite",
		"x-trace-id":         traceID,
	}, body)

	dlqMsg := requireDLQMessage(t, requestID, 30*time.Second)

	wantAttempts := int32(pkgConstant.MaxMessageRetries + 1)
	assert.Equal(t, wantAttempts, attempts.Load(),
		"one original attempt plus %d retries", pkgConstant.MaxMessageRetries)

	assert.Equal(t, pkgConstant.MaxMessageRetries, deliveryRetryCount(dlqMsg),
		"dead-lettered delivery should carry the exhausted retry counter")

	reason, ok := dlqMsg.Headers[pkgConstant.RetryFailureReasonHeader].(string)
	assert.True(t, ok, "failure reason header should be a string")
	assert.Contains(t, reason, "transient network error")

	assert.Equal(t, body, dlqMsg.Body)
	assert.Equal(t, requestID, dlqMsg.Headers[libConstant.HeaderID])
	assert.Equal(t, "integration-suite", dlqMsg.Headers["x-origin"])
	assert.Equal(t, traceID, dlqMsg.Headers["x-trace-id"])
}

// TestIntegration_BusinessErrorSkipsRetry verifies a validation failure is
// dead-lettered on the first attempt without gaining retry headers.
func TestIntegration_BusinessErrorSkipsRetry(t *testing.T) {
	purgeTestQueues(t)

	requestID := uuid.New().String()
	body := []byte(`{"syncId":"` + uuid.New().String() + `","resource":"no-such-resource"}`)

	startSyncConsumer(t, func(ctx context.Context, _ []byte) error {
		return pkg.ValidationError{Code: "DTF-0400", Message: "invalid sync message format"}
	})

	publishSyncMessage(t, amqp.Table{libConstant.HeaderID: requestID}, body)

	dlqMsg := requireDLQMessage(t, requestID, 15*time.Second)

	assert.NotContains(t, dlqMsg.Headers, pkgConstant.RetryCountHeader,
		"business errors must not enter the retry cycle")
	assert.NotContains(t, dlqMsg.Headers, pkgConstant.RetryFailureReasonHeader)
	assert.Equal(t, body, dlqMsg.Body)
}

// TestIntegration_PreExhaustedDeliveryDeadLettersImmediately verifies that a
// delivery arriving with its retry budget already spent gets exactly one more
// attempt and no further republishing.
func TestIntegration_PreExhaustedDeliveryDeadLettersImmediately(t *testing.T) {
	purgeTestQueues(t)

	requestID := uuid.New().String()
	body := []byte(`{"syncId":"` + uuid.New().String() + `"}`)

	var attempts atomic.Int32

	startSyncConsumer(t, func(ctx context.Context, _ []byte) error {
		attempts.Add(1)
		return fmt.Errorf("still failing")
	})

	publishSyncMessage(t, amqp.Table{
		libConstant.HeaderID:                 requestID,
		pkgConstant.RetryCountHeader:         int32(pkgConstant.MaxMessageRetries),
		pkgConstant.RetryFailureReasonHeader: "previous transient error",
	}, body)

	dlqMsg := requireDLQMessage(t, requestID, 15*time.Second)

	assert.Equal(t, int32(1), attempts.Load())
	assert.Equal(t, pkgConstant.MaxMessageRetries, deliveryRetryCount(dlqMsg),
		"counter must not grow past the budget")
	assert.Equal(t, body, dlqMsg.Body)
}

// TestIntegration_TransientFailureEventuallySucceeds verifies a handler that
// recovers mid-cycle gets its delivery acked and nothing reaches the DLQ.
func TestIntegration_TransientFailureEventuallySucceeds(t *testing.T) {
	purgeTestQueues(t)

	requestID := uuid.New().String()
	body := []byte(`{"syncId":"` + uuid.New().String() + `"}`)

	const succeedOnAttempt = 3

	var attempts atomic.Int32

	startSyncConsumer(t, func(ctx context.Context, _ []byte) error {
		if n := attempts.Add(1); n < succeedOnAttempt {
			return fmt.Errorf("transient error: attempt %d", n)
		}

		return nil
	})

	publishSyncMessage(t, amqp.Table{libConstant.HeaderID: requestID}, body)

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) && attempts.Load() < succeedOnAttempt {
		time.Sleep(100 * time.Millisecond)
	}

	assert.Equal(t, int32(succeedOnAttempt), attempts.Load())

	requireNoDLQMessage(t, requestID, 3*time.Second)
}
