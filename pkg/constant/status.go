// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

// Feed lifecycle statuses.
const (
	// IdleStatus marks a feed that has never been synchronized.
	IdleStatus = "idle"

	// SyncingStatus marks a feed with a synchronization currently in progress.
	SyncingStatus = "syncing"

	// SyncedStatus marks a feed whose last synchronization completed successfully.
	SyncedStatus = "synced"

	// ErrorStatus marks a feed whose last synchronization failed after retries.
	ErrorStatus = "error"
)

// Sync trigger origins.
const (
	// ManualTrigger marks a synchronization requested through the HTTP API.
	ManualTrigger = "manual"

	// ScheduledTrigger marks a synchronization requested by a scheduler.
	ScheduledTrigger = "scheduled"
)

// Sync request acknowledgment statuses.
const (
	// QueuedSyncStatus reports a synchronization request accepted and waiting
	// in the queue.
	QueuedSyncStatus = "queued"
)
