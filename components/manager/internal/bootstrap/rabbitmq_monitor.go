// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"

	"github.com/LerianStudio/lib-commons/v3/commons/log"
	libRabbitmq "github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
)

// RabbitMQMonitor watches a RabbitMQ connection in the background and
// reissues the channel when the broker went away. Without it a broker
// restart leaves readiness stuck at 503, because the manager only touches
// the connection when a sync trigger publishes.
type RabbitMQMonitor struct {
	conn   *libRabbitmq.RabbitMQConnection
	logger log.Logger

	// newTick produces the tick channel and its stop function. Tests swap
	// it for a hand-driven channel.
	newTick func() (<-chan time.Time, func())

	stop chan struct{}
	done chan struct{}
}

// NewRabbitMQMonitor creates a monitor for the given RabbitMQ connection,
// ticking every ConnectionMonitorInterval.
func NewRabbitMQMonitor(conn *libRabbitmq.RabbitMQConnection, logger log.Logger) *RabbitMQMonitor {
	return &RabbitMQMonitor{
		conn:    conn,
		logger:  logger,
		newTick: intervalTicker,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func intervalTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(constant.ConnectionMonitorInterval)
	return t.C, t.Stop
}

// Start launches the monitor goroutine.
func (m *RabbitMQMonitor) Start() {
	pkg.GoNamed(m.logger, "rabbitmq-connection-monitor", m.monitorLoop)
}

// Stop signals the monitor to shut down and waits for it to finish.
func (m *RabbitMQMonitor) Stop() {
	close(m.stop)
	<-m.done
}

func (m *RabbitMQMonitor) monitorLoop() {
	defer close(m.done)

	tickCh, stopTicker := m.newTick()
	defer stopTicker()

	for {
		select {
		case <-m.stop:
			m.logger.Info("RabbitMQ connection monitor stopped")

			return
		case <-tickCh:
			m.ensureConnected()
		}
	}
}

// connectionAlive reports whether the connection is usable as-is.
func (m *RabbitMQMonitor) connectionAlive() bool {
	return m.conn != nil &&
		m.conn.Connected &&
		m.conn.Connection != nil &&
		!m.conn.Connection.IsClosed()
}

// ensureConnected reissues the channel when the connection is down, which
// flips conn.Connected back and lets readiness recover.
func (m *RabbitMQMonitor) ensureConnected() {
	if m.connectionAlive() {
		return
	}

	m.logger.Warn("RabbitMQ connection is down, reissuing channel")

	if err := m.conn.EnsureChannel(); err != nil {
		m.logger.Errorf("RabbitMQ reconnect failed: %v (next attempt in %v)", err, constant.ConnectionMonitorInterval)

		return
	}

	m.logger.Info("RabbitMQ connection restored by background monitor")
}
