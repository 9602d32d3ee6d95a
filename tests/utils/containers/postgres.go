// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresUser     = "datafeed"
	PostgresPassword = "datafeed"
	PostgresDatabase = "datafeed"

	postgresStartDeadlineSeconds = 60
)

// postgresPort is the port PostgreSQL listens on inside the container.
var postgresPort = nat.Port("5432/tcp")

// PostgresContainer wraps a PostgreSQL testcontainer with connection info.
type PostgresContainer struct {
	testcontainers.Container
	ConnectionString string
	Host             string
	Port             string
}

// StartPostgres creates and starts a PostgreSQL container.
func StartPostgres(ctx context.Context, networkName, image string) (*PostgresContainer, error) {
	if image == "" {
		image = "postgres:16-alpine"
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_USER":     PostgresUser,
			"POSTGRES_PASSWORD": PostgresPassword,
			"POSTGRES_DB":       PostgresDatabase,
		},
		Networks: []string{networkName},
		NetworkAliases: map[string][]string{
			networkName: {"postgres", "datafeed-postgres"},
		},
		// The init scripts restart the server once, so the ready line shows
		// up twice before the instance accepts external connections.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithDeadline(postgresStartDeadlineSeconds * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	// Get host and dynamically mapped port
	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get postgres host: %w", err)
	}

	mappedPort, err := ctr.MappedPort(ctx, postgresPort)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get postgres mapped port: %w", err)
	}

	port := mappedPort.Port()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		PostgresUser, PostgresPassword, host, port, PostgresDatabase)

	return &PostgresContainer{
		Container:        ctr,
		ConnectionString: connStr,
		Host:             host,
		Port:             port,
	}, nil
}

// Restart stops and starts the PostgreSQL container, refreshing connection info.
func (p *PostgresContainer) Restart(ctx context.Context, delay time.Duration) error {
	if err := p.Stop(ctx, nil); err != nil {
		return fmt.Errorf("stop postgres: %w", err)
	}

	if delay > 0 {
		time.Sleep(delay)
	}

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start postgres: %w", err)
	}

	// Host and mapped port may change after restart
	host, err := p.Container.Host(ctx)
	if err != nil {
		return fmt.Errorf("refresh postgres host: %w", err)
	}

	mappedPort, err := p.MappedPort(ctx, postgresPort)
	if err != nil {
		return fmt.Errorf("refresh postgres mapped port: %w", err)
	}

	p.Host = host
	p.Port = mappedPort.Port()
	p.ConnectionString = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		PostgresUser, PostgresPassword, host, p.Port, PostgresDatabase)

	return nil
}
