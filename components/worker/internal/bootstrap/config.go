// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"fmt"
	"strings"

	"github.com/LerianStudio/datafeed/components/worker/internal/services"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/sourceapi"
)

// defaultPlaceholderSecret is the placeholder shipped in the example env
// files. Production deployments must replace it with real credentials.
const defaultPlaceholderSecret = "CHANGE_ME"

// Config holds the worker's configurable parameters read from environment variables.
type Config struct {
	// Runtime environment
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	// HealthServerPort is where the liveness and readiness probes listen.
	HealthServerPort string `env:"HEALTH_SERVER_PORT" default:"8081"`

	// OpenTelemetry
	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`

	// RabbitMQ delivers the sync requests this worker consumes.
	RabbitURI              string `env:"RABBITMQ_URI" default:"amqp"`
	RabbitMQHost           string `env:"RABBITMQ_HOST"`
	RabbitMQPortHost       string `env:"RABBITMQ_PORT_HOST"`
	RabbitMQPortAMQP       string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser           string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass           string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQSyncFeedQueue  string `env:"RABBITMQ_SYNC_FEED_QUEUE"`
	RabbitMQNumWorkers     int    `env:"RABBITMQ_NUMBERS_OF_WORKERS"`
	RabbitMQHealthCheckURL string `env:"RABBITMQ_HEALTH_CHECK_URL"`

	// MongoDB holds the feed definitions.
	MongoURI          string `env:"MONGO_URI" default:"mongodb"`
	MongoDBHost       string `env:"MONGO_HOST"`
	MongoDBName       string `env:"MONGO_NAME"`
	MongoDBUser       string `env:"MONGO_USER"`
	MongoDBPassword   string `env:"MONGO_PASSWORD"`
	MongoDBPort       string `env:"MONGO_PORT" default:"27017"`
	MongoDBParameters string `env:"MONGO_PARAMETERS"`
	MongoMaxPoolSize  int    `env:"MONGO_MAX_POOL_SIZE"`

	// PostgreSQL holds the replicated feed entries.
	PostgresHost         string `env:"POSTGRES_HOST"`
	PostgresPort         string `env:"POSTGRES_PORT" default:"5432"`
	PostgresUser         string `env:"POSTGRES_USER"`
	PostgresPassword     string `env:"POSTGRES_PASSWORD"`
	PostgresDBName       string `env:"POSTGRES_NAME"`
	PostgresSSLMode      string `env:"POSTGRES_SSLMODE" default:"disable"`
	PostgresMaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" default:"20"`
	PostgresMaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" default:"10"`

	// Redis/Valkey backs sync locks, completed-sync records and the entry
	// page cache this worker invalidates after every sync.
	RedisHost                    string `env:"REDIS_HOST"`
	RedisPassword                string `env:"REDIS_PASSWORD"`
	RedisDB                      int    `env:"REDIS_DB" default:"0"`
	RedisProtocol                int    `env:"REDIS_PROTOCOL" default:"3"`
	RedisMasterName              string `env:"REDIS_MASTER_NAME"`
	RedisTLS                     bool   `env:"REDIS_TLS"`
	RedisCACert                  string `env:"REDIS_CA_CERT"`
	RedisUseGCPIAM               bool   `env:"REDIS_USE_GCP_IAM"`
	RedisServiceAccount          string `env:"REDIS_SERVICE_ACCOUNT"`
	GoogleApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	RedisTokenLifeTime           int    `env:"REDIS_TOKEN_LIFETIME_MINUTES" default:"50"`
	RedisTokenRefreshDuration    int    `env:"REDIS_TOKEN_REFRESH_DURATION_MINUTES" default:"45"`

	// Object storage keeps the raw NDJSON snapshot of every completed sync.
	ObjectStorageEndpoint     string `env:"OBJECT_STORAGE_ENDPOINT"`
	ObjectStorageBucket       string `env:"OBJECT_STORAGE_BUCKET" default:"datafeed-snapshots"`
	ObjectStorageRegion       string `env:"OBJECT_STORAGE_REGION" default:"us-east-1"`
	ObjectStorageAccessKeyID  string `env:"OBJECT_STORAGE_ACCESS_KEY_ID"`
	ObjectStorageSecretKey    string `env:"OBJECT_STORAGE_SECRET_KEY"`
	ObjectStorageUsePathStyle bool   `env:"OBJECT_STORAGE_USE_PATH_STYLE" default:"true"`
}

// Validate checks that every required configuration value is present and that
// numeric values fall inside their allowed bounds. All problems found are
// reported together, one per line, so a misconfigured deployment surfaces
// every mistake on the first failed start.
func (cfg *Config) Validate() error {
	var errs []string

	errs = cfg.validateRequiredFields(errs)
	errs = cfg.validateWorkerCount(errs)
	errs = cfg.validateProductionConfig(errs)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

// validateRequiredFields appends an error line for every required env var
// whose value is missing or blank. The sync queue name is not required: it
// falls back to the shared topology default so both components agree on it.
func (cfg *Config) validateRequiredFields(errs []string) []string {
	required := []struct {
		value  string
		envVar string
	}{
		{cfg.RabbitMQHost, "RABBITMQ_HOST"},
		{cfg.RabbitMQPortAMQP, "RABBITMQ_PORT_AMQP"},
		{cfg.RabbitMQUser, "RABBITMQ_DEFAULT_USER"},
		{cfg.RabbitMQPass, "RABBITMQ_DEFAULT_PASS"},
		{cfg.MongoDBHost, "MONGO_HOST"},
		{cfg.MongoDBName, "MONGO_NAME"},
		{cfg.PostgresHost, "POSTGRES_HOST"},
		{cfg.PostgresDBName, "POSTGRES_NAME"},
		{cfg.RedisHost, "REDIS_HOST"},
		{cfg.ObjectStorageEndpoint, "OBJECT_STORAGE_ENDPOINT"},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.envVar+" is required")
		}
	}

	return errs
}

// validateWorkerCount appends an error line when the consumer concurrency is
// negative. Zero is allowed and falls back to DefaultWorkerCount.
func (cfg *Config) validateWorkerCount(errs []string) []string {
	if cfg.RabbitMQNumWorkers < 0 {
		errs = append(errs, "RABBITMQ_NUMBERS_OF_WORKERS must not be negative")
	}

	return errs
}

// validateProductionConfig appends error lines for settings that are optional
// in development but mandatory when ENV_NAME is "production": telemetry and
// real secrets in place of the example placeholders.
func (cfg *Config) validateProductionConfig(errs []string) []string {
	if cfg.EnvName != "production" {
		return errs
	}

	if !cfg.EnableTelemetry {
		errs = append(errs, "ENABLE_TELEMETRY must be true in production")
	}

	secrets := []struct {
		value  string
		envVar string
	}{
		{cfg.MongoDBPassword, "MONGO_PASSWORD"},
		{cfg.PostgresPassword, "POSTGRES_PASSWORD"},
		{cfg.RabbitMQPass, "RABBITMQ_DEFAULT_PASS"},
		{cfg.ObjectStorageSecretKey, "OBJECT_STORAGE_SECRET_KEY"},
	}

	for _, s := range secrets {
		switch {
		case strings.TrimSpace(s.value) == "":
			errs = append(errs, s.envVar+" must not be empty in production")
		case s.value == defaultPlaceholderSecret:
			errs = append(errs, s.envVar+" must not use the default placeholder in production")
		}
	}

	return errs
}

// syncQueueName resolves the queue to consume, falling back to the shared
// topology default when RABBITMQ_SYNC_FEED_QUEUE is unset.
func (cfg *Config) syncQueueName() string {
	if strings.TrimSpace(cfg.RabbitMQSyncFeedQueue) == "" {
		return constant.DefaultSyncQueue
	}

	return cfg.RabbitMQSyncFeedQueue
}

// InitWorker assembles the sync worker: the RabbitMQ consumer together with
// all of its backing connections (MongoDB, PostgreSQL, Redis, object storage)
// and the health probe server. When any step fails, every resource
// initialized so far is released before the error is returned.
func InitWorker() (svc *Service, err error) {
	cfg, logger, err := initConfigAndLogger()
	if err != nil {
		return nil, err
	}

	var cleanups []func()

	defer func() {
		if err != nil {
			runCleanups(cleanups)
		}
	}()

	telemetry, telemetryCleanup, err := initTelemetry(cfg, logger)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, telemetryCleanup)

	mongoRes, mongoCleanup, err := initMongoDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, mongoCleanup)

	postgresRes, postgresCleanup, err := initPostgres(cfg, logger)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, postgresCleanup)

	redisRepository, redisConnection, redisCleanup, err := initRedis(cfg, logger)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, redisCleanup)

	snapshotStore, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	rabbitRes, rabbitCleanup, err := initRabbitMQConsumer(cfg, logger, telemetry)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, rabbitCleanup)

	syncService := &services.UseCase{
		FeedRepo:      mongoRes.feedRepo,
		EntryRepo:     postgresRes.entryRepo,
		RedisRepo:     redisRepository,
		SourceClient:  sourceapi.NewHTTPClient(logger),
		SnapshotStore: snapshotStore,
		Metrics:       initSyncMetrics(cfg, telemetry, logger),
	}

	multiQueueConsumer := NewMultiQueueConsumer(cfg.syncQueueName(), rabbitRes.routes, syncService, logger)

	healthServer := NewHealthServer(cfg.HealthServerPort, &WorkerReadiness{
		RabbitMQConnection: rabbitRes.connection,
		MongoConnection:    mongoRes.connection,
		PostgresConnection: postgresRes.connection,
		RedisConnection:    redisConnection,
	}, logger)

	return &Service{
		MultiQueueConsumer: multiQueueConsumer,
		Logger:             logger,
		healthServer:       healthServer,
		cleanups:           cleanups,
	}, nil
}
