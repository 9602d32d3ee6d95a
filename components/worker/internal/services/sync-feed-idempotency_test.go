// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSyncAlreadyCompleted(t *testing.T) {
	t.Parallel()

	syncID := uuid.New()

	tests := []struct {
		name      string
		value     string
		err       error
		completed bool
	}{
		{
			name:      "record found",
			value:     `{"feedId":"00000000-0000-0000-0000-000000000001","pages":3,"entries":12}`,
			completed: true,
		},
		{
			name: "no record",
			err:  goredis.Nil,
		},
		{
			name: "redis unavailable counts as not completed",
			err:  errors.New("connection refused"),
		},
		{
			name: "empty record counts as not completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, m := newSyncUseCase(t)

			m.redisRepo.EXPECT().
				Get(gomock.Any(), redis.SyncResultKey(syncID)).
				Return(tt.value, tt.err)

			assert.Equal(t, tt.completed, uc.syncAlreadyCompleted(context.Background(), syncID))
		})
	}
}

func TestAcquireSyncLock(t *testing.T) {
	t.Parallel()

	feedID := uuid.New()
	syncID := uuid.New()

	t.Run("acquires free lock", func(t *testing.T) {
		t.Parallel()

		uc, m := newSyncUseCase(t)

		m.redisRepo.EXPECT().
			SetNX(gomock.Any(), redis.SyncLockKey(feedID), syncID.String(), constant.SyncLockTTL).
			Return(true, nil)

		acquired, err := uc.acquireSyncLock(context.Background(), feedID, syncID)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("reports held lock without error", func(t *testing.T) {
		t.Parallel()

		uc, m := newSyncUseCase(t)

		m.redisRepo.EXPECT().
			SetNX(gomock.Any(), redis.SyncLockKey(feedID), syncID.String(), constant.SyncLockTTL).
			Return(false, nil)

		acquired, err := uc.acquireSyncLock(context.Background(), feedID, syncID)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("wraps redis errors", func(t *testing.T) {
		t.Parallel()

		uc, m := newSyncUseCase(t)

		redisErr := errors.New("READONLY You can't write against a read only replica")

		m.redisRepo.EXPECT().
			SetNX(gomock.Any(), redis.SyncLockKey(feedID), syncID.String(), constant.SyncLockTTL).
			Return(false, redisErr)

		acquired, err := uc.acquireSyncLock(context.Background(), feedID, syncID)
		require.ErrorIs(t, err, redisErr)
		assert.False(t, acquired)
		assert.Contains(t, err.Error(), "failed to acquire sync lock")
	})
}

func TestReleaseSyncLock_ToleratesRedisError(t *testing.T) {
	t.Parallel()

	uc, m := newSyncUseCase(t)

	feedID := uuid.New()

	m.redisRepo.EXPECT().
		Del(gomock.Any(), redis.SyncLockKey(feedID)).
		Return(errors.New("connection reset"))

	uc.releaseSyncLock(context.Background(), feedID)
}

func TestMarkSyncCompleted_StoresResultRecord(t *testing.T) {
	t.Parallel()

	uc, m := newSyncUseCase(t)

	feedID := uuid.New()
	syncID := uuid.New()
	message := model.SyncMessage{SyncID: syncID, FeedID: feedID}
	result := &syncPagesResult{Pages: 4, Written: 250}

	m.redisRepo.EXPECT().
		Set(gomock.Any(), redis.SyncResultKey(syncID), gomock.Any(), constant.SyncResultTTL).
		DoAndReturn(func(_ context.Context, _, value string, _ time.Duration) error {
			var record syncResultRecord
			require.NoError(t, json.Unmarshal([]byte(value), &record))

			assert.Equal(t, feedID, record.FeedID)
			assert.Equal(t, 4, record.Pages)
			assert.Equal(t, int64(250), record.Entries)
			assert.False(t, record.CompletedAt.IsZero())

			return nil
		})

	uc.markSyncCompleted(context.Background(), message, result)
}

func TestMarkSyncCompleted_ToleratesStoreError(t *testing.T) {
	t.Parallel()

	uc, m := newSyncUseCase(t)

	message := model.SyncMessage{SyncID: uuid.New(), FeedID: uuid.New()}

	m.redisRepo.EXPECT().
		Set(gomock.Any(), redis.SyncResultKey(message.SyncID), gomock.Any(), constant.SyncResultTTL).
		Return(errors.New("OOM command not allowed"))

	uc.markSyncCompleted(context.Background(), message, &syncPagesResult{})
}

func TestInvalidateEntryPages(t *testing.T) {
	t.Parallel()

	t.Run("drops cached pages", func(t *testing.T) {
		t.Parallel()

		uc, m := newSyncUseCase(t)

		feedID := uuid.New()

		m.redisRepo.EXPECT().
			DelByPattern(gomock.Any(), redis.EntryPagePattern(feedID)).
			Return(int64(7), nil)

		uc.invalidateEntryPages(context.Background(), feedID)
	})

	t.Run("tolerates scan error", func(t *testing.T) {
		t.Parallel()

		uc, m := newSyncUseCase(t)

		feedID := uuid.New()

		m.redisRepo.EXPECT().
			DelByPattern(gomock.Any(), redis.EntryPagePattern(feedID)).
			Return(int64(0), errors.New("LOADING Redis is loading the dataset"))

		uc.invalidateEntryPages(context.Background(), feedID)
	})
}
