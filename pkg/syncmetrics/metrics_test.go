// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

//go:build unit

package syncmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestNewMetrics_CreatesAllInstruments verifies that NewMetrics initializes
// every sync instrument (non-nil).
func TestNewMetrics_CreatesAllInstruments(t *testing.T) {
	t.Parallel()

	mp := sdkmetric.NewMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	meter := mp.Meter("test-library")

	m, err := NewMetrics(meter)

	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotNil(t, m.SyncPagesFetchedTotal, "SyncPagesFetchedTotal must be initialized")
	assert.NotNil(t, m.SyncEntriesWrittenTotal, "SyncEntriesWrittenTotal must be initialized")
	assert.NotNil(t, m.SyncFailuresTotal, "SyncFailuresTotal must be initialized")
	assert.NotNil(t, m.SyncsActive, "SyncsActive must be initialized")
	assert.NotNil(t, m.SyncDurationSeconds, "SyncDurationSeconds must be initialized")
}

// TestMetrics_RecordedValuesAreCollected verifies through a ManualReader that
// values recorded on the counters actually reach the SDK pipeline.
func TestMetrics_RecordedValuesAreCollected(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test-library"))
	require.NoError(t, err)

	ctx := context.Background()
	feedAttr := metric.WithAttributes(attribute.String("feed_id", "feed-1"))

	m.SyncPagesFetchedTotal.Add(ctx, 3, feedAttr)
	m.SyncEntriesWrittenTotal.Add(ctx, 250, feedAttr)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	collected := map[string]int64{}

	for _, sm := range rm.ScopeMetrics[0].Metrics {
		sum, ok := sm.Data.(metricdata.Sum[int64])
		if !ok {
			continue
		}

		for _, dp := range sum.DataPoints {
			collected[sm.Name] += dp.Value
		}
	}

	assert.Equal(t, int64(3), collected["sync_pages_fetched_total"])
	assert.Equal(t, int64(250), collected["sync_entries_written_total"])
}

// TestNoopMetrics_RecordDoesNotPanic verifies that recording values on noop
// instruments does not panic, the core safety guarantee when telemetry is
// disabled.
func TestNoopMetrics_RecordDoesNotPanic(t *testing.T) {
	t.Parallel()

	m := NoopMetrics()

	ctx := context.Background()
	feedAttr := metric.WithAttributes(attribute.String("feed_id", "feed-1"))

	assert.NotPanics(t, func() {
		m.SyncPagesFetchedTotal.Add(ctx, 1, feedAttr)
	}, "Add on noop SyncPagesFetchedTotal must not panic")

	assert.NotPanics(t, func() {
		m.SyncEntriesWrittenTotal.Add(ctx, 1, feedAttr)
	}, "Add on noop SyncEntriesWrittenTotal must not panic")

	assert.NotPanics(t, func() {
		m.SyncFailuresTotal.Add(ctx, 1, feedAttr)
	}, "Add on noop SyncFailuresTotal must not panic")

	assert.NotPanics(t, func() {
		m.SyncsActive.Add(ctx, 1, feedAttr)
	}, "Add on noop SyncsActive must not panic")

	assert.NotPanics(t, func() {
		m.SyncDurationSeconds.Record(ctx, 1.5, feedAttr)
	}, "Record on noop SyncDurationSeconds must not panic")
}
