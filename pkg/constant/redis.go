// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

import "time"

const (
	// EntryPageKeyPrefix is the Redis key prefix for cached entry pages.
	EntryPageKeyPrefix = "entry_page"

	// EntryPageTTL is the time-to-live for cached entry pages.
	EntryPageTTL = 5 * time.Minute

	// SyncLockKeyPrefix is the Redis key prefix for per-feed sync locks.
	SyncLockKeyPrefix = "sync_lock"

	// SyncLockTTL is the time-to-live for a sync lock. A lock older than this
	// is considered abandoned by a crashed worker and may be reacquired.
	SyncLockTTL = 30 * time.Minute

	// SyncResultKeyPrefix is the Redis key prefix for completed sync results,
	// consulted for idempotent redelivery handling.
	SyncResultKeyPrefix = "sync_result"

	// SyncResultTTL is the time-to-live for completed sync result keys (24 hours).
	SyncResultTTL = 24 * time.Hour
)
