// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package syncmetrics

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the OTel instruments recorded during feed synchronization.
// All fields are guaranteed non-nil after construction via NewMetrics or
// NoopMetrics, so recording sites never need nil checks.
type Metrics struct {
	// SyncPagesFetchedTotal counts upstream pages fetched, segmented by feed.
	SyncPagesFetchedTotal metric.Int64Counter

	// SyncEntriesWrittenTotal counts entries written to PostgreSQL, segmented by feed.
	SyncEntriesWrittenTotal metric.Int64Counter

	// SyncFailuresTotal counts synchronizations that ended in error.
	SyncFailuresTotal metric.Int64Counter

	// SyncsActive tracks the number of synchronizations currently running.
	// Uses UpDownCounter because the value can both increase and decrease.
	SyncsActive metric.Int64UpDownCounter

	// SyncDurationSeconds records how long complete synchronizations took.
	SyncDurationSeconds metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with real OTel instruments registered
// on the provided meter. Use this when telemetry is enabled so values are
// exported to the configured OTel collector.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pagesFetched, err := meter.Int64Counter(
		"sync_pages_fetched_total",
		metric.WithDescription("Upstream pages fetched during synchronization"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sync_pages_fetched_total counter: %w", err)
	}

	entriesWritten, err := meter.Int64Counter(
		"sync_entries_written_total",
		metric.WithDescription("Entries replicated into PostgreSQL"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sync_entries_written_total counter: %w", err)
	}

	failures, err := meter.Int64Counter(
		"sync_failures_total",
		metric.WithDescription("Synchronizations that ended in error"),
		metric.WithUnit("{sync}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sync_failures_total counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter(
		"syncs_active",
		metric.WithDescription("Synchronizations currently running"),
		metric.WithUnit("{sync}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create syncs_active up_down_counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"sync_duration_seconds",
		metric.WithDescription("Wall time of completed synchronizations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sync_duration_seconds histogram: %w", err)
	}

	return &Metrics{
		SyncPagesFetchedTotal:   pagesFetched,
		SyncEntriesWrittenTotal: entriesWritten,
		SyncFailuresTotal:       failures,
		SyncsActive:             active,
		SyncDurationSeconds:     duration,
	}, nil
}
