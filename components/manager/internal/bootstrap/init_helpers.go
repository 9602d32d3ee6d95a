// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LerianStudio/datafeed/components/manager/internal/adapters/rabbitmq"
	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/mongodb/feed"
	"github.com/LerianStudio/datafeed/pkg/postgres"
	"github.com/LerianStudio/datafeed/pkg/postgres/entry"
	"github.com/LerianStudio/datafeed/pkg/redis"
	s3storage "github.com/LerianStudio/datafeed/pkg/storage/s3"

	libCommons "github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	mongoDB "github.com/LerianStudio/lib-commons/v3/commons/mongo"
	libOtel "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	libRabbitmq "github.com/LerianStudio/lib-commons/v3/commons/rabbitmq"
	libRedis "github.com/LerianStudio/lib-commons/v3/commons/redis"
	"github.com/LerianStudio/lib-commons/v3/commons/zap"
)

// mongoResources holds MongoDB-related resources created during initialization.
type mongoResources struct {
	connection *mongoDB.MongoConnection
	feedRepo   *feed.FeedMongoDBRepository
}

// postgresResources holds PostgreSQL-related resources created during initialization.
type postgresResources struct {
	connection *postgres.Connection
	entryRepo  *entry.EntryPostgreSQLRepository
}

// rabbitResources holds RabbitMQ-related resources created during initialization.
type rabbitResources struct {
	connection *libRabbitmq.RabbitMQConnection
	producer   *rabbitmq.ProducerRabbitMQRepository
	monitor    *RabbitMQMonitor
}

// initConfigAndLogger loads configuration from environment variables, validates it,
// and initializes the structured logger.
func initConfigAndLogger() (*Config, log.Logger, error) {
	cfg := &Config{}
	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to load config from env vars: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := zap.InitializeLoggerWithError()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger, nil
}

// initTelemetry initializes OpenTelemetry tracing and returns the telemetry instance
// along with a cleanup function that shuts down the telemetry provider.
func initTelemetry(cfg *Config, logger log.Logger) (*libOtel.Telemetry, func(), error) {
	telemetry, err := libOtel.InitializeTelemetryWithError(&libOtel.TelemetryConfig{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
		Logger:                    logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	cleanup := func() {
		logger.Info("Cleanup: shutting down telemetry")
		telemetry.ShutdownTelemetry()
	}

	return telemetry, cleanup, nil
}

// initMongoDB establishes the MongoDB connection, creates the feed repository,
// ensures its indexes exist, and returns a cleanup function that disconnects
// the client. The unique feed name index must exist before the API serves
// writes, so an index failure aborts startup.
func initMongoDB(cfg *Config, logger log.Logger) (*mongoResources, func(), error) {
	escapedPass := url.QueryEscape(cfg.MongoDBPassword)
	mongoSource := fmt.Sprintf("%s://%s:%s@%s:%s",
		cfg.MongoURI, cfg.MongoDBUser, escapedPass, cfg.MongoDBHost, cfg.MongoDBPort)

	if params := mongoURIParameters(cfg); len(params) > 0 {
		mongoSource += "/?" + strings.Join(params, "&")
	}

	mongoMaxPoolSize, _ := strconv.ParseUint(cfg.MongoMaxPoolSize, 10, 64)
	if mongoMaxPoolSize == 0 {
		mongoMaxPoolSize = constant.MongoDefaultMaxPoolSize
	}

	logger.Infof("MongoDB connecting to %s", pkg.RedactConnectionString(mongoSource))

	mongoConnection := &mongoDB.MongoConnection{
		ConnectionStringSource: mongoSource,
		Database:               cfg.MongoDBName,
		Logger:                 logger,
		MaxPoolSize:            mongoMaxPoolSize,
	}

	feedMongoDBRepository, err := feed.NewFeedMongoDBRepository(mongoConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize feed mongodb repository: %w", err)
	}

	logger.Info("Ensuring MongoDB indexes exist for feeds...")

	ctx := pkg.ContextWithLogger(context.Background(), logger)

	if err = feedMongoDBRepository.EnsureIndexes(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure feed indexes: %w", err)
	}

	cleanup := func() {
		if mongoConnection.DB != nil {
			logger.Info("Cleanup: disconnecting MongoDB")

			if disconnectErr := mongoConnection.DB.Disconnect(context.Background()); disconnectErr != nil {
				logger.Errorf("Cleanup: failed to disconnect MongoDB: %v", disconnectErr)
			}
		}
	}

	return &mongoResources{
		connection: mongoConnection,
		feedRepo:   feedMongoDBRepository,
	}, cleanup, nil
}

// mongoURIParameters assembles the URI query string from the optional pool
// settings plus any extra MONGO_PARAMETERS passed through verbatim.
func mongoURIParameters(cfg *Config) []string {
	var params []string

	if cfg.MongoDBParameters != "" {
		params = append(params, cfg.MongoDBParameters)
	}

	if strings.TrimSpace(cfg.MongoMinPoolSize) != "" {
		params = append(params, "minPoolSize="+cfg.MongoMinPoolSize)
	}

	if strings.TrimSpace(cfg.MongoMaxConnIdleTime) != "" {
		if d, err := time.ParseDuration(cfg.MongoMaxConnIdleTime); err == nil {
			params = append(params, fmt.Sprintf("maxIdleTimeMS=%d", d.Milliseconds()))
		}
	}

	return params
}

// initPostgres establishes the PostgreSQL connection, creates the entry
// repository, ensures the entries schema exists, and returns a cleanup
// function that closes the pool.
func initPostgres(cfg *Config, logger log.Logger) (*postgresResources, func(), error) {
	postgresSource := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.PostgresUser, url.QueryEscape(cfg.PostgresPassword), cfg.PostgresHost,
		cfg.PostgresPort, cfg.PostgresDBName, cfg.PostgresSSLMode)

	logger.Infof("PostgreSQL connecting to %s", pkg.RedactConnectionString(postgresSource))

	postgresConnection := &postgres.Connection{
		ConnectionString:   postgresSource,
		DBName:             cfg.PostgresDBName,
		Logger:             logger,
		MaxOpenConnections: cfg.PostgresMaxOpenConns,
		MaxIdleConnections: cfg.PostgresMaxIdleConns,
	}

	entryPostgreSQLRepository, err := entry.NewEntryPostgreSQLRepository(postgresConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize entry postgres repository: %w", err)
	}

	logger.Info("Ensuring PostgreSQL schema exists for entries...")

	ctx := pkg.ContextWithLogger(context.Background(), logger)

	if err = entryPostgreSQLRepository.EnsureSchema(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure entries schema: %w", err)
	}

	cleanup := func() {
		if postgresConnection.ConnectionDB != nil {
			logger.Info("Cleanup: closing PostgreSQL connection")

			if closeErr := postgresConnection.ConnectionDB.Close(); closeErr != nil {
				logger.Errorf("Cleanup: failed to close PostgreSQL connection: %v", closeErr)
			}
		}
	}

	return &postgresResources{
		connection: postgresConnection,
		entryRepo:  entryPostgreSQLRepository,
	}, cleanup, nil
}

// initRabbitMQ establishes the RabbitMQ connection, creates the producer,
// starts the background connection monitor, and returns cleanup functions for
// the monitor and the connection itself.
func initRabbitMQ(cfg *Config, logger log.Logger) (*rabbitResources, []func()) {
	rabbitSource := fmt.Sprintf("%s://%s:%s@%s:%s",
		cfg.RabbitURI, cfg.RabbitMQUser, cfg.RabbitMQPass, cfg.RabbitMQHost, cfg.RabbitMQPortAMQP)

	logger.Infof("RabbitMQ connecting to %s", pkg.RedactConnectionString(rabbitSource))

	rabbitMQConnection := &libRabbitmq.RabbitMQConnection{
		ConnectionStringSource: rabbitSource,
		HealthCheckURL:         cfg.RabbitMQHealthCheckURL,
		Host:                   cfg.RabbitMQHost,
		Port:                   cfg.RabbitMQPortHost,
		User:                   cfg.RabbitMQUser,
		Pass:                   cfg.RabbitMQPass,
		Queue:                  cfg.RabbitMQSyncFeedQueue,
		Logger:                 logger,
	}

	producerRabbitMQRepository := rabbitmq.NewProducerRabbitMQ(rabbitMQConnection)

	// Start background RabbitMQ connection monitor.
	// This goroutine periodically checks if the connection is alive and
	// calls EnsureChannel() to reconnect when needed, breaking the deadlock
	// where /ready returns 503 but nothing triggers reconnection.
	rabbitMQMonitor := NewRabbitMQMonitor(rabbitMQConnection, logger)
	rabbitMQMonitor.Start()

	logger.Info("RabbitMQ background connection monitor started")

	cleanups := []func(){
		func() {
			logger.Info("Cleanup: stopping RabbitMQ connection monitor")
			rabbitMQMonitor.Stop()
		},
		func() {
			logger.Info("Cleanup: closing RabbitMQ connection")

			if rabbitMQConnection.Channel != nil {
				if closeErr := rabbitMQConnection.Channel.Close(); closeErr != nil {
					logger.Errorf("Cleanup: failed to close RabbitMQ channel: %v", closeErr)
				}
			}

			if rabbitMQConnection.Connection != nil && !rabbitMQConnection.Connection.IsClosed() {
				if closeErr := rabbitMQConnection.Connection.Close(); closeErr != nil {
					logger.Errorf("Cleanup: failed to close RabbitMQ connection: %v", closeErr)
				}
			}
		},
	}

	return &rabbitResources{
		connection: rabbitMQConnection,
		producer:   producerRabbitMQRepository,
		monitor:    rabbitMQMonitor,
	}, cleanups
}

// initRedis establishes the Redis/Valkey connection and returns the consumer
// repository along with a cleanup function that closes the connection.
func initRedis(cfg *Config, logger log.Logger) (*redis.RedisConsumerRepository, *libRedis.RedisConnection, func(), error) {
	redisConnection := &libRedis.RedisConnection{
		Address:                      strings.Split(cfg.RedisHost, ","),
		Password:                     cfg.RedisPassword,
		DB:                           cfg.RedisDB,
		Protocol:                     cfg.RedisProtocol,
		MasterName:                   cfg.RedisMasterName,
		UseTLS:                       cfg.RedisTLS,
		CACert:                       cfg.RedisCACert,
		UseGCPIAMAuth:                cfg.RedisUseGCPIAM,
		ServiceAccount:               cfg.RedisServiceAccount,
		GoogleApplicationCredentials: cfg.GoogleApplicationCredentials,
		TokenLifeTime:                time.Duration(cfg.RedisTokenLifeTime) * time.Minute,
		RefreshDuration:              time.Duration(cfg.RedisTokenRefreshDuration) * time.Minute,
		Logger:                       logger,
	}

	redisConsumerRepository, err := redis.NewConsumerRedis(redisConnection)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize redis connection: %w", err)
	}

	cleanup := func() {
		logger.Info("Cleanup: closing Redis connection")

		if closeErr := redisConnection.Close(); closeErr != nil {
			logger.Errorf("Cleanup: failed to close Redis connection: %v", closeErr)
		}
	}

	return redisConsumerRepository, redisConnection, cleanup, nil
}

// initStorage creates the S3-compatible object storage client that serves the
// sync snapshot archive.
func initStorage(cfg *Config, logger log.Logger) (s3storage.SnapshotStore, error) {
	snapshotStore, err := s3storage.NewS3Client(&s3storage.S3Config{
		Region:          cfg.ObjectStorageRegion,
		Bucket:          cfg.ObjectStorageBucket,
		AccessKeyID:     cfg.ObjectStorageAccessKeyID,
		SecretAccessKey: cfg.ObjectStorageSecretKey,
		Endpoint:        cfg.ObjectStorageEndpoint,
		ForcePathStyle:  cfg.ObjectStorageUsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot storage client: %w", err)
	}

	logger.Infof("Snapshot storage initialized with bucket: %s", cfg.ObjectStorageBucket)

	return snapshotStore, nil
}
