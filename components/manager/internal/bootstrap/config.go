// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	in2 "github.com/LerianStudio/datafeed/components/manager/internal/adapters/http/in"
	"github.com/LerianStudio/datafeed/components/manager/internal/services"
	"github.com/LerianStudio/datafeed/pkg/constant"

	middlewareAuth "github.com/LerianStudio/lib-auth/v2/auth/middleware"
)

// Config is the top level configuration struct for the entire application.
type Config struct {
	// Runtime environment
	EnvName       string `env:"ENV_NAME"`
	LogLevel      string `env:"LOG_LEVEL"`
	ServerAddress string `env:"SERVER_ADDRESS"`

	// OpenTelemetry
	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`

	// MongoDB holds the feed definitions.
	MongoURI             string `env:"MONGO_URI" default:"mongodb"`
	MongoDBHost          string `env:"MONGO_HOST"`
	MongoDBName          string `env:"MONGO_NAME"`
	MongoDBUser          string `env:"MONGO_USER"`
	MongoDBPassword      string `env:"MONGO_PASSWORD"`
	MongoDBPort          string `env:"MONGO_PORT" default:"27017"`
	MongoDBParameters    string `env:"MONGO_PARAMETERS"`
	MongoMaxPoolSize     string `env:"MONGO_MAX_POOL_SIZE"`
	MongoMinPoolSize     string `env:"MONGO_MIN_POOL_SIZE"`
	MongoMaxConnIdleTime string `env:"MONGO_MAX_CONN_IDLE_TIME"`

	// PostgreSQL holds the replicated feed entries.
	PostgresHost         string `env:"POSTGRES_HOST"`
	PostgresPort         string `env:"POSTGRES_PORT" default:"5432"`
	PostgresUser         string `env:"POSTGRES_USER"`
	PostgresPassword     string `env:"POSTGRES_PASSWORD"`
	PostgresDBName       string `env:"POSTGRES_NAME"`
	PostgresSSLMode      string `env:"POSTGRES_SSLMODE" default:"disable"`
	PostgresMaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" default:"20"`
	PostgresMaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" default:"10"`

	// RabbitMQ carries sync requests to the worker.
	RabbitURI              string `env:"RABBITMQ_URI" default:"amqp"`
	RabbitMQHost           string `env:"RABBITMQ_HOST"`
	RabbitMQPortHost       string `env:"RABBITMQ_PORT_HOST"`
	RabbitMQPortAMQP       string `env:"RABBITMQ_PORT_AMQP"`
	RabbitMQUser           string `env:"RABBITMQ_DEFAULT_USER"`
	RabbitMQPass           string `env:"RABBITMQ_DEFAULT_PASS"`
	RabbitMQSyncFeedQueue  string `env:"RABBITMQ_SYNC_FEED_QUEUE"`
	RabbitMQExchange       string `env:"RABBITMQ_EXCHANGE"`
	RabbitMQSyncFeedKey    string `env:"RABBITMQ_SYNC_FEED_KEY"`
	RabbitMQHealthCheckURL string `env:"RABBITMQ_HEALTH_CHECK_URL"`

	// Redis/Valkey backs the entry page cache, sync locks and rate limit counters.
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

	// Access manager
	AuthAddress string `env:"PLUGIN_AUTH_ADDRESS"`
	AuthEnabled bool   `env:"PLUGIN_AUTH_ENABLED"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
	CORSAllowedMethods string `env:"CORS_ALLOWED_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	CORSAllowedHeaders string `env:"CORS_ALLOWED_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Request-Id,X-Requested-By"`

	// Rate limiting
	RateLimitEnabled       bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitGlobal        int  `env:"RATE_LIMIT_GLOBAL" default:"100"`
	RateLimitSync          int  `env:"RATE_LIMIT_SYNC" default:"10"`
	RateLimitDispatch      int  `env:"RATE_LIMIT_DISPATCH" default:"50"`
	RateLimitWindowSeconds int  `env:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
}

// Validate checks that every required configuration value is present and that
// numeric values fall inside their allowed bounds. All problems found are
// reported together, one per line, so a misconfigured deployment surfaces
// every mistake on the first failed start.
func (cfg *Config) Validate() error {
	var errs []string

	errs = cfg.validateRequiredFields(errs)
	errs = cfg.validateMongoPool(errs)
	errs = cfg.validateRateLimitBounds(errs)
	errs = cfg.validateProductionConfig(errs)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

// validateRequiredFields appends an error line for every required env var
// whose value is missing or blank.
func (cfg *Config) validateRequiredFields(errs []string) []string {
	required := []struct {
		value  string
		envVar string
	}{
		{cfg.ServerAddress, "SERVER_ADDRESS"},
		{cfg.MongoDBHost, "MONGO_HOST"},
		{cfg.MongoDBName, "MONGO_NAME"},
		{cfg.PostgresHost, "POSTGRES_HOST"},
		{cfg.PostgresDBName, "POSTGRES_NAME"},
		{cfg.RabbitMQHost, "RABBITMQ_HOST"},
		{cfg.RabbitMQPortAMQP, "RABBITMQ_PORT_AMQP"},
		{cfg.RabbitMQUser, "RABBITMQ_DEFAULT_USER"},
		{cfg.RabbitMQPass, "RABBITMQ_DEFAULT_PASS"},
		{cfg.RabbitMQSyncFeedQueue, "RABBITMQ_SYNC_FEED_QUEUE"},
		{cfg.RabbitMQExchange, "RABBITMQ_EXCHANGE"},
		{cfg.RabbitMQSyncFeedKey, "RABBITMQ_SYNC_FEED_KEY"},
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

// validateMongoPool appends an error line for every MongoDB pool setting that
// is present but malformed or out of range. Empty values are allowed; the
// connection falls back to MongoDefaultMaxPoolSize.
func (cfg *Config) validateMongoPool(errs []string) []string {
	var maxPool uint64

	if strings.TrimSpace(cfg.MongoMaxPoolSize) != "" {
		parsed, err := strconv.ParseUint(cfg.MongoMaxPoolSize, 10, 64)
		if err != nil || parsed < 1 || parsed > constant.MongoMaxPoolSizeUpperBound {
			errs = append(errs, fmt.Sprintf("MONGO_MAX_POOL_SIZE must be an integer between 1 and %d", constant.MongoMaxPoolSizeUpperBound))
		} else {
			maxPool = parsed
		}
	}

	if strings.TrimSpace(cfg.MongoMinPoolSize) != "" {
		parsed, err := strconv.ParseUint(cfg.MongoMinPoolSize, 10, 64)

		switch {
		case err != nil:
			errs = append(errs, "MONGO_MIN_POOL_SIZE must be a non-negative integer")
		case maxPool > 0 && parsed > maxPool:
			errs = append(errs, "MONGO_MIN_POOL_SIZE must not exceed MONGO_MAX_POOL_SIZE")
		}
	}

	if strings.TrimSpace(cfg.MongoMaxConnIdleTime) != "" {
		if _, err := time.ParseDuration(cfg.MongoMaxConnIdleTime); err != nil {
			errs = append(errs, "MONGO_MAX_CONN_IDLE_TIME must be a valid duration (e.g. 60s)")
		}
	}

	return errs
}

// validateRateLimitBounds appends an error line for every rate limit tier
// whose value is non-positive or above its upper bound. Bounds apply in every
// environment; a zero-value tier would block all traffic.
func (cfg *Config) validateRateLimitBounds(errs []string) []string {
	bounds := []struct {
		value  int
		max    int
		envVar string
	}{
		{cfg.RateLimitGlobal, constant.RateLimitMaxGlobal, "RATE_LIMIT_GLOBAL"},
		{cfg.RateLimitSync, constant.RateLimitMaxSync, "RATE_LIMIT_SYNC"},
		{cfg.RateLimitDispatch, constant.RateLimitMaxDispatch, "RATE_LIMIT_DISPATCH"},
	}

	for _, b := range bounds {
		if b.value < 1 || b.value > b.max {
			errs = append(errs, fmt.Sprintf("%s must be between 1 and %d", b.envVar, b.max))
		}
	}

	if cfg.RateLimitWindowSeconds < 1 || cfg.RateLimitWindowSeconds > constant.RateLimitMaxWindowSeconds {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_WINDOW_SECONDS must be between 1 and %d", constant.RateLimitMaxWindowSeconds))
	}

	return errs
}

// validateProductionConfig appends error lines for settings that are optional
// in development but mandatory when ENV_NAME is "production": telemetry,
// authorization, rate limiting, real secrets and locked-down CORS origins.
func (cfg *Config) validateProductionConfig(errs []string) []string {
	if cfg.EnvName != "production" {
		return errs
	}

	if !cfg.EnableTelemetry {
		errs = append(errs, "ENABLE_TELEMETRY must be true in production")
	}

	if !cfg.AuthEnabled {
		errs = append(errs, "PLUGIN_AUTH_ENABLED must be true in production")
	}

	if !cfg.RateLimitEnabled {
		errs = append(errs, "RATE_LIMIT_ENABLED must be true in production")
	}

	secrets := []struct {
		value  string
		envVar string
	}{
		{cfg.MongoDBPassword, "MONGO_PASSWORD"},
		{cfg.PostgresPassword, "POSTGRES_PASSWORD"},
		{cfg.RedisPassword, "REDIS_PASSWORD"},
		{cfg.ObjectStorageSecretKey, "OBJECT_STORAGE_SECRET_KEY"},
	}

	for _, s := range secrets {
		if strings.TrimSpace(s.value) == "" {
			errs = append(errs, s.envVar+" must be set in production")
		}
	}

	return cfg.validateProductionCORS(errs)
}

// validateProductionCORS appends error lines when the CORS origin list is
// unsafe for production: empty, containing a wildcard, or serving plain HTTP.
func (cfg *Config) validateProductionCORS(errs []string) []string {
	origins := strings.TrimSpace(cfg.CORSAllowedOrigins)
	if origins == "" {
		return append(errs, "CORS_ALLOWED_ORIGINS must not be empty in production")
	}

	if strings.Contains(origins, "*") {
		return append(errs, "CORS_ALLOWED_ORIGINS must not contain wildcard (*) in production")
	}

	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" && !strings.HasPrefix(origin, "https://") {
			return append(errs, "CORS_ALLOWED_ORIGINS must use HTTPS in production")
		}
	}

	return errs
}

// InitServers assembles the manager's HTTP server together with all of its
// backing connections (MongoDB, PostgreSQL, RabbitMQ, Redis, object storage).
// When any step fails, every resource initialized so far is released before
// the error is returned.
func InitServers() (svc *Service, err error) {
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

	rabbitRes, rabbitCleanups := initRabbitMQ(cfg, logger)
	cleanups = append(cleanups, rabbitCleanups...)

	redisRepository, redisConnection, redisCleanup, err := initRedis(cfg, logger)
	if err != nil {
		return nil, err
	}

	cleanups = append(cleanups, redisCleanup)

	snapshotStore, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	feedService := &services.UseCase{
		FeedRepo:     mongoRes.feedRepo,
		EntryRepo:    postgresRes.entryRepo,
		RabbitMQRepo: rabbitRes.producer,
		RedisRepo:    redisRepository,
	}

	feedHandler, err := in2.NewFeedHandler(feedService)
	if err != nil {
		return nil, err
	}

	authClient := &middlewareAuth.AuthClient{
		Address: cfg.AuthAddress,
		Enabled: cfg.AuthEnabled,
		Logger:  logger,
	}

	readinessDeps := &in2.ReadinessDeps{
		MongoConnection:    mongoRes.connection,
		RabbitMQConnection: rabbitRes.connection,
		RedisConnection:    redisConnection,
		SnapshotStore:      snapshotStore,
	}

	corsConfig := in2.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: cfg.CORSAllowedMethods,
		AllowedHeaders: cfg.CORSAllowedHeaders,
	}

	rateLimitConfig := in2.RateLimitConfig{
		Enabled:     cfg.RateLimitEnabled,
		GlobalMax:   cfg.RateLimitGlobal,
		SyncMax:     cfg.RateLimitSync,
		DispatchMax: cfg.RateLimitDispatch,
		Window:      time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		Storage:     in2.NewRedisStorage(redisConnection, logger),
	}

	httpApp := in2.NewRoutes(logger, telemetry, feedHandler, authClient, readinessDeps, corsConfig, rateLimitConfig)
	serverAPI := NewServer(cfg, httpApp, logger)

	return &Service{
		Server:   serverAPI,
		Logger:   logger,
		cleanups: cleanups,
	}, nil
}
