// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package redis

import (
	"fmt"

	"github.com/LerianStudio/datafeed/pkg/constant"

	"github.com/google/uuid"
)

// EntryPageKey builds the cache key for one page of a feed's entries. The
// cursor participates raw: tokens are opaque but stable strings, so equal
// requests always hit the same key.
func EntryPageKey(feedID uuid.UUID, cursor string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", constant.EntryPageKeyPrefix, feedID.String(), cursor, limit)
}

// EntryPagePattern builds the glob matching every cached entry page of a feed,
// used for invalidation after a sync.
func EntryPagePattern(feedID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", constant.EntryPageKeyPrefix, feedID.String())
}

// SyncLockKey builds the lock key guarding concurrent syncs of one feed.
func SyncLockKey(feedID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", constant.SyncLockKeyPrefix, feedID.String())
}

// SyncResultKey builds the key recording a completed sync, consulted on
// message redelivery.
func SyncResultKey(syncID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", constant.SyncResultKeyPrefix, syncID.String())
}
