// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	s3storage "github.com/LerianStudio/datafeed/pkg/storage/s3"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// readinessResponse mirrors the JSON body of the /ready endpoint.
type readinessResponse struct {
	Status       string                       `json:"status"`
	Dependencies map[string]*dependencyResult `json:"dependencies"`
}

func TestReadinessHandler_UnconfiguredDependenciesNotReady(t *testing.T) {
	t.Parallel()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/ready", readinessHandler(&ReadinessDeps{}))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"Readiness must report 503 when no dependency is configured")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result readinessResponse
	require.NoError(t, json.Unmarshal(body, &result))

	assert.Equal(t, "not_ready", result.Status)

	for _, dep := range []string{"mongodb", "rabbitmq", "redis", "storage"} {
		require.Contains(t, result.Dependencies, dep)
		assert.Equal(t, "not_ready", result.Dependencies[dep].Status,
			"Dependency %s must be not_ready when unconfigured", dep)
	}
}

func TestCheckMongoDB_NilConnection(t *testing.T) {
	t.Parallel()

	result := checkMongoDB(nil)

	assert.Equal(t, "not_ready", result.Status)
	assert.Equal(t, "connection not configured", result.Message)
}

func TestCheckRabbitMQ_NilConnection(t *testing.T) {
	t.Parallel()

	result := checkRabbitMQ(nil)

	assert.Equal(t, "not_ready", result.Status)
	assert.Equal(t, "connection not configured", result.Message)
}

func TestCheckRedis_NilConnection(t *testing.T) {
	t.Parallel()

	result := checkRedis(nil)

	assert.Equal(t, "not_ready", result.Status)
	assert.Equal(t, "connection not configured", result.Message)
}

func TestCheckStorage(t *testing.T) {
	t.Parallel()

	t.Run("nil store reports not ready", func(t *testing.T) {
		t.Parallel()

		result := checkStorage(nil)

		assert.Equal(t, "not_ready", result.Status)
		assert.Equal(t, "storage client not configured", result.Message)
	})

	t.Run("healthy store reports ready", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := s3storage.NewMockSnapshotStore(ctrl)
		store.EXPECT().HealthCheck(gomock.Any()).Return(nil)

		result := checkStorage(store)

		assert.Equal(t, "ready", result.Status)
		assert.Empty(t, result.Message)
	})

	t.Run("unreachable store reports not ready", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		store := s3storage.NewMockSnapshotStore(ctrl)
		store.EXPECT().HealthCheck(gomock.Any()).Return(errors.New("bucket probe failed"))

		result := checkStorage(store)

		assert.Equal(t, "not_ready", result.Status)
		assert.Equal(t, "storage connectivity check failed", result.Message)
	})
}
