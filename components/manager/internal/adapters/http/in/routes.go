// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"context"
	"time"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/net/http"
	s3storage "github.com/LerianStudio/datafeed/pkg/storage/s3"

	middlewareAuth "github.com/LerianStudio/lib-auth/v2/auth/middleware"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	mongoDB "github.com/LerianStudio/lib-commons/v3/commons/mongo"
	commonsHttp "github.com/LerianStudio/lib-commons/v3/commons/net/http"
	"github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	libRabbitmq "github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v3/commons/redis"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

const (
	applicationName       = constant.ApplicationName
	feedResource          = "feeds"
	readinessCheckTimeout = 2 * time.Second
)

// ReadinessDeps holds the dependency connections needed for the /ready endpoint.
type ReadinessDeps struct {
	MongoConnection    *mongoDB.MongoConnection
	RabbitMQConnection *libRabbitmq.RabbitMQConnection
	RedisConnection    *libRedis.RedisConnection
	SnapshotStore      s3storage.SnapshotStore
}

// NewRoutes creates a new fiber router with the specified handlers and middleware.
func NewRoutes(lg log.Logger, tl *opentelemetry.Telemetry, feedHandler *FeedHandler, auth *middlewareAuth.AuthClient, deps *ReadinessDeps, corsCfg CORSConfig, rateLimitCfg RateLimitConfig) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return commonsHttp.HandleFiberError(ctx, err)
		},
	})
	tlMid := commonsHttp.NewTelemetryMiddleware(tl)

	f.Use(tlMid.WithTelemetry(tl))
	f.Use(otelfiber.Middleware(otelfiber.WithServerName(applicationName)))
	f.Use(RecoverMiddleware())
	f.Use(SecurityHeaders())
	f.Use(CORSMiddleware(corsCfg))
	f.Use(RateLimiterMiddleware(rateLimitCfg))
	f.Use(commonsHttp.WithHTTPLogging(commonsHttp.WithCustomLogger(lg)))

	// Feed routes
	f.Post("/v1/feeds", auth.Authorize(applicationName, feedResource, "post"), http.WithBody(new(model.CreateFeedInput), feedHandler.CreateFeed))
	f.Get("/v1/feeds", auth.Authorize(applicationName, feedResource, "get"), feedHandler.GetAllFeeds)
	f.Get("/v1/feeds/:id", auth.Authorize(applicationName, feedResource, "get"), ParsePathParametersUUID, feedHandler.GetFeedByID)
	f.Patch("/v1/feeds/:id", auth.Authorize(applicationName, feedResource, "patch"), ParsePathParametersUUID, http.WithBody(new(model.UpdateFeedInput), feedHandler.UpdateFeed))
	f.Delete("/v1/feeds/:id", auth.Authorize(applicationName, feedResource, "delete"), ParsePathParametersUUID, feedHandler.DeleteFeed)

	// Sync and entry routes
	f.Post("/v1/feeds/:id/sync", auth.Authorize(applicationName, feedResource, "post"), ParsePathParametersUUID, feedHandler.TriggerSync)
	f.Get("/v1/feeds/:id/entries", auth.Authorize(applicationName, feedResource, "get"), ParsePathParametersUUID, feedHandler.GetFeedEntries)

	// Doc Swagger
	f.Get("/swagger/*", WithSwaggerEnvConfig(), fiberSwagger.WrapHandler)

	// Health
	f.Get("/health", commonsHttp.Ping)

	// Readiness - checks all dependency connections
	f.Get("/ready", readinessHandler(deps))

	// Version
	f.Get("/version", commonsHttp.Version)

	f.Use(tlMid.EndTracingSpans)

	return f
}

// dependencyResult represents the health status of a single dependency in the readiness check.
type dependencyResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// readinessHandler returns a Fiber handler that checks all dependency connections.
// Each dependency is checked with a 2-second timeout. Returns 200 if all healthy, 503 otherwise.
func readinessHandler(deps *ReadinessDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		httpStatus := fiber.StatusOK
		results := make(map[string]*dependencyResult)

		// Check MongoDB
		results["mongodb"] = checkMongoDB(deps.MongoConnection)

		// Check RabbitMQ
		results["rabbitmq"] = checkRabbitMQ(deps.RabbitMQConnection)

		// Check Redis/Valkey
		results["redis"] = checkRedis(deps.RedisConnection)

		// Check snapshot object storage
		results["storage"] = checkStorage(deps.SnapshotStore)

		for _, result := range results {
			if result.Status != "ready" {
				httpStatus = fiber.StatusServiceUnavailable

				break
			}
		}

		overallStatus := "ready"
		if httpStatus == fiber.StatusServiceUnavailable {
			overallStatus = "not_ready"
		}

		return commonsHttp.JSONResponse(c, httpStatus, fiber.Map{
			"status":       overallStatus,
			"dependencies": results,
		})
	}
}

// checkMongoDB pings the MongoDB connection with a timeout.
func checkMongoDB(conn *mongoDB.MongoConnection) *dependencyResult {
	if conn == nil {
		return &dependencyResult{Status: "not_ready", Message: "connection not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), readinessCheckTimeout)
	defer cancel()

	db, err := conn.GetDB(ctx)
	if err != nil {
		return &dependencyResult{Status: "not_ready", Message: "failed to get connection"}
	}

	if err = db.Ping(ctx, nil); err != nil {
		return &dependencyResult{Status: "not_ready", Message: "ping failed"}
	}

	return &dependencyResult{Status: "ready"}
}

// checkRabbitMQ verifies the RabbitMQ connection is alive.
func checkRabbitMQ(conn *libRabbitmq.RabbitMQConnection) *dependencyResult {
	if conn == nil {
		return &dependencyResult{Status: "not_ready", Message: "connection not configured"}
	}

	if !conn.Connected || conn.Connection == nil || conn.Connection.IsClosed() {
		return &dependencyResult{Status: "not_ready", Message: "connection is closed"}
	}

	if !conn.HealthCheck() {
		return &dependencyResult{Status: "not_ready", Message: "health check failed"}
	}

	return &dependencyResult{Status: "ready"}
}

// checkRedis pings the Redis/Valkey connection with a timeout.
func checkRedis(conn *libRedis.RedisConnection) *dependencyResult {
	if conn == nil {
		return &dependencyResult{Status: "not_ready", Message: "connection not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), readinessCheckTimeout)
	defer cancel()

	client, err := conn.GetClient(ctx)
	if err != nil {
		return &dependencyResult{Status: "not_ready", Message: "failed to get client"}
	}

	if _, err = client.Ping(ctx).Result(); err != nil {
		return &dependencyResult{Status: "not_ready", Message: "ping failed"}
	}

	return &dependencyResult{Status: "ready"}
}

// checkStorage verifies the snapshot store is reachable with a bucket probe.
func checkStorage(store s3storage.SnapshotStore) *dependencyResult {
	if store == nil {
		return &dependencyResult{Status: "not_ready", Message: "storage client not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), readinessCheckTimeout)
	defer cancel()

	if err := store.HealthCheck(ctx); err != nil {
		return &dependencyResult{Status: "not_ready", Message: "storage connectivity check failed"}
	}

	return &dependencyResult{Status: "ready"}
}
