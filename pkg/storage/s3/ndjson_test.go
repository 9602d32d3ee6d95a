// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package s3storage

import (
	"strings"
	"testing"

	"github.com/LerianStudio/datafeed/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNDJSON(t *testing.T) {
	t.Parallel()

	items := []model.FeedEntryPayload{
		{ExternalID: "bal_1", Amount: "10.5", Currency: "BRL", OccurredAt: "2026-01-01T00:00:00Z"},
		{ExternalID: "bal_2", Amount: "20", Currency: "USD", OccurredAt: "2026-01-01T01:00:00Z"},
	}

	data, err := EncodeNDJSON(items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"externalId":"bal_1"`)
	assert.Contains(t, lines[1], `"externalId":"bal_2"`)

	decoded, err := DecodeNDJSON[model.FeedEntryPayload](data)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestEncodeNDJSON_EmptySet(t *testing.T) {
	t.Parallel()

	data, err := EncodeNDJSON([]model.FeedEntryPayload{})
	require.NoError(t, err)
	assert.Empty(t, data)

	decoded, err := DecodeNDJSON[model.FeedEntryPayload](data)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestSnapshotKey(t *testing.T) {
	t.Parallel()

	feedID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	syncID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.Equal(t,
		"feeds/11111111-2222-3333-4444-555555555555/snapshots/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee.ndjson",
		SnapshotKey(feedID, syncID),
	)
}
