// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package containers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	ValkeyPassword = "datafeed-pass"

	valkeyDefaultImage = "valkey/valkey:latest"
	valkeyPort         = "6379/tcp"
)

// ValkeyContainer runs Valkey as the rate-limit counter and consumer
// checkpoint backend for integration tests.
type ValkeyContainer struct {
	*redis.RedisContainer
	Address  string
	Host     string
	Port     string
	Password string
}

// StartValkey starts a password-protected Valkey container.
func StartValkey(ctx context.Context, networkName, image string) (*ValkeyContainer, error) {
	if image == "" {
		image = valkeyDefaultImage
	}

	ctr, err := redis.Run(ctx, image,
		testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Networks: []string{networkName},
				NetworkAliases: map[string][]string{
					networkName: {"valkey", "redis", "datafeed-valkey"},
				},
				Cmd: []string{"redis-server", "--requirepass", ValkeyPassword},
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("start valkey container: %w", err)
	}

	vc := &ValkeyContainer{RedisContainer: ctr, Password: ValkeyPassword}

	if err := vc.resolveAddress(ctx); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, err
	}

	return vc, nil
}

// resolveAddress fills in the host-reachable coordinates of the container.
func (v *ValkeyContainer) resolveAddress(ctx context.Context) error {
	host, err := v.RedisContainer.Host(ctx)
	if err != nil {
		return fmt.Errorf("get valkey host: %w", err)
	}

	mapped, err := v.MappedPort(ctx, valkeyPort)
	if err != nil {
		return fmt.Errorf("get valkey mapped port: %w", err)
	}

	v.Host = host
	v.Port = mapped.Port()
	v.Address = fmt.Sprintf("redis://%s:%s", host, v.Port)

	return nil
}
