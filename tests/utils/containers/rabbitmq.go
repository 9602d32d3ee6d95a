// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package containers

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

const (
	RabbitUser     = "datafeed-user"
	RabbitPassword = "datafeed-pass"

	// Exchange names
	ExchangeSyncFeed = "datafeed.exchange"
	ExchangeDLX      = "datafeed.dlx"

	// Queue names
	QueueSyncFeed = "datafeed.sync-feed.queue"
	QueueDLQ      = "datafeed.dlq"

	// Routing keys
	RoutingKeySyncFeed = "datafeed.sync-feed.key"
	RoutingKeyDLQ      = "datafeed.dlq.key"

	rabbitDefaultImage = "rabbitmq:4.0-management-alpine"
	rabbitAmqpPort     = "5672/tcp"
	rabbitMgmtPort     = "15672/tcp"
)

// Dead-lettered messages are kept a week and capped so a poisoned feed cannot
// fill the broker.
var dlqArgs = amqp.Table{
	"x-message-ttl": int64(7 * 24 * time.Hour / time.Millisecond),
	"x-max-length":  int64(10000),
}

// RabbitMQContainer runs the broker with the sync-feed topology declared, the
// same exchanges, queues and bindings the deployment provisions.
type RabbitMQContainer struct {
	*rabbitmq.RabbitMQContainer
	AmqpURL  string
	Host     string
	AmqpPort string
	MgmtPort string
}

// StartRabbitMQ starts a RabbitMQ container and declares the sync-feed
// exchange, its queue, and the DLX/DLQ pair.
func StartRabbitMQ(ctx context.Context, networkName, image string) (*RabbitMQContainer, error) {
	if image == "" {
		image = rabbitDefaultImage
	}

	ctr, err := rabbitmq.Run(ctx, image,
		rabbitmq.WithAdminUsername(RabbitUser),
		rabbitmq.WithAdminPassword(RabbitPassword),
		testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Networks: []string{networkName},
				NetworkAliases: map[string][]string{
					networkName: {"rabbitmq", "datafeed-rabbitmq"},
				},
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("start rabbitmq container: %w", err)
	}

	rc := &RabbitMQContainer{RabbitMQContainer: ctr}

	if err := rc.resolveEndpoints(ctx); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}

	if err := rc.declareTopology(); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("declare rabbitmq topology: %w", err)
	}

	return rc, nil
}

// resolveEndpoints fills in the host-reachable AMQP and management addresses.
func (r *RabbitMQContainer) resolveEndpoints(ctx context.Context) error {
	host, err := r.RabbitMQContainer.Host(ctx)
	if err != nil {
		return fmt.Errorf("get rabbitmq host: %w", err)
	}

	amqpMapped, err := r.MappedPort(ctx, rabbitAmqpPort)
	if err != nil {
		return fmt.Errorf("get rabbitmq amqp mapped port: %w", err)
	}

	mgmtMapped, err := r.MappedPort(ctx, rabbitMgmtPort)
	if err != nil {
		return fmt.Errorf("get rabbitmq mgmt mapped port: %w", err)
	}

	r.Host = host
	r.AmqpPort = amqpMapped.Port()
	r.MgmtPort = mgmtMapped.Port()
	r.AmqpURL = fmt.Sprintf("amqp://%s:%s@%s:%s/", RabbitUser, RabbitPassword, host, r.AmqpPort)

	return nil
}

// withChannel runs fn on a short-lived channel over a fresh connection.
func (r *RabbitMQContainer) withChannel(fn func(*amqp.Channel) error) error {
	conn, err := amqp.Dial(r.AmqpURL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return fn(ch)
}

// declareTopology declares both exchanges, both queues and their bindings.
// The sync-feed queue dead-letters into the DLX, which routes to the DLQ.
func (r *RabbitMQContainer) declareTopology() error {
	queues := []struct {
		name     string
		args     amqp.Table
		bindKey  string
		exchange string
	}{
		{
			name: QueueSyncFeed,
			args: amqp.Table{
				"x-dead-letter-exchange":    ExchangeDLX,
				"x-dead-letter-routing-key": RoutingKeyDLQ,
			},
			bindKey:  RoutingKeySyncFeed,
			exchange: ExchangeSyncFeed,
		},
		{
			name:     QueueDLQ,
			args:     dlqArgs,
			bindKey:  RoutingKeyDLQ,
			exchange: ExchangeDLX,
		},
	}

	return r.withChannel(func(ch *amqp.Channel) error {
		for _, exchange := range []string{ExchangeSyncFeed, ExchangeDLX} {
			if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", exchange, err)
			}
		}

		for _, q := range queues {
			if _, err := ch.QueueDeclare(q.name, true, false, false, false, q.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}

			if err := ch.QueueBind(q.name, q.bindKey, q.exchange, false, nil); err != nil {
				return fmt.Errorf("bind queue %s: %w", q.name, err)
			}
		}

		return nil
	})
}

// PurgeQueues drains both queues so tests start from an empty broker.
func (r *RabbitMQContainer) PurgeQueues() error {
	return r.withChannel(func(ch *amqp.Channel) error {
		for _, queue := range []string{QueueSyncFeed, QueueDLQ} {
			if _, err := ch.QueuePurge(queue, false); err != nil {
				return fmt.Errorf("purge queue %s: %w", queue, err)
			}
		}

		return nil
	})
}
