// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"testing"

	"github.com/LerianStudio/lib-commons/v3/commons/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCleanups_ReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string

	cleanups := []func(){
		func() { order = append(order, "telemetry") },
		func() { order = append(order, "mongodb") },
		func() { order = append(order, "rabbitmq") },
	}

	runCleanups(cleanups)

	// Last registered resource is released first
	assert.Equal(t, []string{"rabbitmq", "mongodb", "telemetry"}, order)
}

func TestRunCleanups_Empty(t *testing.T) {
	t.Parallel()

	// Must not panic on nil or empty slices
	runCleanups(nil)
	runCleanups([]func(){})
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	logger := zap.InitializeLogger()
	cfg := validManagerConfig()

	server := NewServer(cfg, nil, logger)
	require.NotNil(t, server)
	assert.Equal(t, "localhost:4005", server.ServerAddress())
}
