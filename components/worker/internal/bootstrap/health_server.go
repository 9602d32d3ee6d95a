// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/LerianStudio/datafeed/pkg/postgres"

	"github.com/LerianStudio/lib-commons/v3/commons/log"
	mongoDB "github.com/LerianStudio/lib-commons/v3/commons/mongo"
	libRabbitMQ "github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v3/commons/redis"
)

const (
	// healthServerReadTimeout is the maximum duration for reading the entire request.
	healthServerReadTimeout = 5 * time.Second

	// healthServerWriteTimeout is the maximum duration before timing out writes of the response.
	healthServerWriteTimeout = 5 * time.Second

	// healthServerIdleTimeout is the maximum duration an idle connection will remain open.
	healthServerIdleTimeout = 30 * time.Second

	// healthServerShutdownTimeout is the maximum duration to wait for the server to shutdown gracefully.
	healthServerShutdownTimeout = 5 * time.Second

	// dependencyCheckTimeout bounds each individual dependency probe.
	dependencyCheckTimeout = 2 * time.Second
)

// WorkerReadiness holds the dependency connections the /ready endpoint probes.
type WorkerReadiness struct {
	RabbitMQConnection *libRabbitMQ.RabbitMQConnection
	MongoConnection    *mongoDB.MongoConnection
	PostgresConnection *postgres.Connection
	RedisConnection    *libRedis.RedisConnection
}

// HealthServer provides HTTP liveness and readiness endpoints for the worker.
// It runs as a lightweight goroutine alongside the RabbitMQ consumer.
type HealthServer struct {
	server *http.Server
	deps   *WorkerReadiness
	logger log.Logger
}

// NewHealthServer creates a new HealthServer bound to the given port. The
// deps connections are probed by the /ready endpoint; a nil deps reports
// not_ready until wired.
func NewHealthServer(port string, deps *WorkerReadiness, logger log.Logger) *HealthServer {
	hs := &HealthServer{
		deps:   deps,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", hs.handleHealth)
	mux.HandleFunc("/ready", hs.handleReady)

	hs.server = &http.Server{
		Addr:         net.JoinHostPort("", port),
		Handler:      mux,
		ReadTimeout:  healthServerReadTimeout,
		WriteTimeout: healthServerWriteTimeout,
		IdleTimeout:  healthServerIdleTimeout,
	}

	return hs
}

// Start begins listening for health check requests in a background goroutine.
func (hs *HealthServer) Start() {
	go func() {
		hs.logger.Infof("Health server listening on %s", hs.server.Addr)

		if err := hs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hs.logger.Errorf("Health server error: %v", err)
		}
	}()
}

// Shutdown gracefully stops the health server.
func (hs *HealthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), healthServerShutdownTimeout)
	defer cancel()

	if err := hs.server.Shutdown(ctx); err != nil {
		hs.logger.Errorf("Health server shutdown error: %v", err)
	}
}

// handleHealth is the liveness probe handler.
// Returns 200 OK if the process is alive. No dependency checks.
func (hs *HealthServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	resp := map[string]string{"status": "alive"}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		hs.logger.Errorf("Failed to encode health response: %v", err)
	}
}

// handleReady is the readiness probe handler. Returns 200 OK only when every
// dependency the sync pipeline touches is reachable. Returns 503 otherwise.
func (hs *HealthServer) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	results := hs.checkDependencies()

	status := "ready"
	httpStatus := http.StatusOK

	for _, result := range results {
		if result.Status != "ready" {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable

			break
		}
	}

	w.WriteHeader(httpStatus)

	resp := map[string]any{
		"status":       status,
		"dependencies": results,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		hs.logger.Errorf("Failed to encode readiness response: %v", err)
	}
}

// dependencyStatus represents the health state of a single dependency.
type dependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// checkDependencies probes every backing connection of the sync pipeline.
func (hs *HealthServer) checkDependencies() map[string]*dependencyStatus {
	if hs.deps == nil {
		unconfigured := &dependencyStatus{Status: "not_ready", Message: "connections not configured"}

		return map[string]*dependencyStatus{
			"rabbitmq":   unconfigured,
			"mongodb":    unconfigured,
			"postgresql": unconfigured,
			"redis":      unconfigured,
		}
	}

	return map[string]*dependencyStatus{
		"rabbitmq":   hs.checkRabbitMQ(),
		"mongodb":    hs.checkMongoDB(),
		"postgresql": hs.checkPostgres(),
		"redis":      hs.checkRedis(),
	}
}

// checkRabbitMQ verifies the RabbitMQ connection is alive and healthy.
// Mirrors the same check pattern used by the manager's readiness endpoint.
func (hs *HealthServer) checkRabbitMQ() *dependencyStatus {
	conn := hs.deps.RabbitMQConnection
	if conn == nil {
		return &dependencyStatus{Status: "not_ready", Message: "connection not configured"}
	}

	if !conn.Connected || conn.Connection == nil || conn.Connection.IsClosed() {
		return &dependencyStatus{Status: "not_ready", Message: "connection is closed"}
	}

	if !conn.HealthCheck() {
		return &dependencyStatus{Status: "not_ready", Message: "health check failed"}
	}

	return &dependencyStatus{Status: "ready"}
}

// checkMongoDB pings the MongoDB connection with a timeout.
func (hs *HealthServer) checkMongoDB() *dependencyStatus {
	conn := hs.deps.MongoConnection
	if conn == nil {
		return &dependencyStatus{Status: "not_ready", Message: "connection not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dependencyCheckTimeout)
	defer cancel()

	db, err := conn.GetDB(ctx)
	if err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "failed to get connection"}
	}

	if err = db.Ping(ctx, nil); err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "ping failed"}
	}

	return &dependencyStatus{Status: "ready"}
}

// checkPostgres pings the PostgreSQL pool with a timeout.
func (hs *HealthServer) checkPostgres() *dependencyStatus {
	conn := hs.deps.PostgresConnection
	if conn == nil {
		return &dependencyStatus{Status: "not_ready", Message: "connection not configured"}
	}

	db, err := conn.GetDB()
	if err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "failed to get connection"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dependencyCheckTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "ping failed"}
	}

	return &dependencyStatus{Status: "ready"}
}

// checkRedis pings the Redis/Valkey connection with a timeout.
func (hs *HealthServer) checkRedis() *dependencyStatus {
	conn := hs.deps.RedisConnection
	if conn == nil {
		return &dependencyStatus{Status: "not_ready", Message: "connection not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dependencyCheckTimeout)
	defer cancel()

	client, err := conn.GetClient(ctx)
	if err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "failed to get client"}
	}

	if _, err = client.Ping(ctx).Result(); err != nil {
		return &dependencyStatus{Status: "not_ready", Message: "ping failed"}
	}

	return &dependencyStatus{Status: "ready"}
}
