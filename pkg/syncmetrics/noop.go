// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package syncmetrics

import (
	"go.opentelemetry.io/otel/metric/noop"
)

// NoopMetrics returns a Metrics instance backed by no-op OTel instruments.
// Use this when telemetry is disabled to keep every recording site valid
// without OTel registration overhead.
func NoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("noop")

	// noop meter never returns errors, so we can safely ignore them.
	pagesFetched, _ := meter.Int64Counter("sync_pages_fetched_total")
	entriesWritten, _ := meter.Int64Counter("sync_entries_written_total")
	failures, _ := meter.Int64Counter("sync_failures_total")
	active, _ := meter.Int64UpDownCounter("syncs_active")
	duration, _ := meter.Float64Histogram("sync_duration_seconds")

	return &Metrics{
		SyncPagesFetchedTotal:   pagesFetched,
		SyncEntriesWrittenTotal: entriesWritten,
		SyncFailuresTotal:       failures,
		SyncsActive:             active,
		SyncDurationSeconds:     duration,
	}
}
