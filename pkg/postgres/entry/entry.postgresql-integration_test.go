//go:build integration

// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package entry

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/pageable"
	"github.com/LerianStudio/datafeed/pkg/postgres"
	"github.com/LerianStudio/datafeed/tests/utils/containers"

	libZap "github.com/LerianStudio/lib-commons/v3/commons/zap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
)

// Package-level variables shared across all tests in this file.
var (
	postgresContainer *containers.PostgresContainer
	testNetwork       *testcontainers.DockerNetwork
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Starting PostgreSQL testcontainer for entry repository integration tests...\n")

	var err error

	testNetwork, err = network.New(ctx, network.WithDriver("bridge"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create network: %v\n", err)
		os.Exit(1)
	}

	postgresContainer, err = containers.StartPostgres(ctx, testNetwork.Name, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start PostgreSQL: %v\n", err)
		_ = testNetwork.Remove(ctx)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "PostgreSQL started at %s\n", postgresContainer.ConnectionString)

	code := m.Run()

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if postgresContainer != nil {
		_ = postgresContainer.Terminate(cleanupCtx)
	}

	if testNetwork != nil {
		_ = testNetwork.Remove(cleanupCtx)
	}

	os.Exit(code)
}

// newEntryRepository connects a repository to the shared container and makes
// sure the schema exists.
func newEntryRepository(t *testing.T) *EntryPostgreSQLRepository {
	t.Helper()

	conn := &postgres.Connection{
		ConnectionString:   postgresContainer.ConnectionString,
		DBName:             containers.PostgresDatabase,
		Logger:             libZap.InitializeLogger(),
		MaxOpenConnections: 5,
		MaxIdleConnections: 2,
	}

	repo, err := NewEntryPostgreSQLRepository(conn)
	require.NoError(t, err, "NewEntryPostgreSQLRepository should connect successfully")

	require.NoError(t, repo.EnsureSchema(context.Background()))

	t.Cleanup(func() {
		if conn.ConnectionDB != nil {
			_ = conn.ConnectionDB.Close()
		}
	})

	return repo
}

// mustEntry builds a replication-ready entry the way the sync pipeline does.
func mustEntry(t *testing.T, feedID uuid.UUID, externalID, amount string) *Entry {
	t.Helper()

	e, err := NewEntryFromPayload(feedID, model.FeedEntryPayload{
		ExternalID: externalID,
		Title:      "BRL available balance",
		Amount:     amount,
		Currency:   "BRL",
		OccurredAt: "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)

	return e
}

func TestIntegration_EnsureSchemaIsIdempotent(t *testing.T) {
	repo := newEntryRepository(t)

	// newEntryRepository already ran it once; a second run must be a no-op
	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestIntegration_CreateBatchWritesAllNewRows(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()
	batch := []*Entry{
		mustEntry(t, feedID, "bal_001", "100.10"),
		mustEntry(t, feedID, "bal_002", "200.20"),
		mustEntry(t, feedID, "bal_003", "300.30"),
	}

	inserted, err := repo.CreateBatch(ctx, feedID, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	total, err := repo.CountByFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestIntegration_CreateBatchSkipsReplayedRows(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()

	inserted, err := repo.CreateBatch(ctx, feedID, []*Entry{
		mustEntry(t, feedID, "bal_001", "100.10"),
		mustEntry(t, feedID, "bal_002", "200.20"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), inserted)

	// A redelivered page carries fresh row ids but the same external ids;
	// only the genuinely new row may land.
	inserted, err = repo.CreateBatch(ctx, feedID, []*Entry{
		mustEntry(t, feedID, "bal_001", "100.10"),
		mustEntry(t, feedID, "bal_002", "200.20"),
		mustEntry(t, feedID, "bal_003", "300.30"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	total, err := repo.CountByFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestIntegration_FindAllByFeedWalksForward(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()
	batch := make([]*Entry, 0, 5)

	for i := 1; i <= 5; i++ {
		batch = append(batch, mustEntry(t, feedID, fmt.Sprintf("bal_%03d", i), "10.00"))
	}

	inserted, err := repo.CreateBatch(ctx, feedID, batch)
	require.NoError(t, err)
	require.Equal(t, int64(5), inserted)

	// First page
	page, hasMore, err := repo.FindAllByFeed(ctx, feedID, pageable.Cursor{}, true, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, hasMore)
	assert.Equal(t, "bal_001", page[0].ExternalID)
	assert.Equal(t, "bal_002", page[1].ExternalID)

	// Second page resumes after the last row of the first
	cursor := pageable.Cursor{ID: page[1].ID.String(), PointsNext: true}
	page, hasMore, err = repo.FindAllByFeed(ctx, feedID, cursor, false, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, hasMore)
	assert.Equal(t, "bal_003", page[0].ExternalID)
	assert.Equal(t, "bal_004", page[1].ExternalID)

	// Final page
	cursor = pageable.Cursor{ID: page[1].ID.String(), PointsNext: true}
	page, hasMore, err = repo.FindAllByFeed(ctx, feedID, cursor, false, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.False(t, hasMore)
	assert.Equal(t, "bal_005", page[0].ExternalID)
}

func TestIntegration_FindAllByFeedWalksBackwardInDisplayOrder(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()
	batch := make([]*Entry, 0, 4)

	for i := 1; i <= 4; i++ {
		batch = append(batch, mustEntry(t, feedID, fmt.Sprintf("bal_%03d", i), "10.00"))
	}

	inserted, err := repo.CreateBatch(ctx, feedID, batch)
	require.NoError(t, err)
	require.Equal(t, int64(4), inserted)

	forward, _, err := repo.FindAllByFeed(ctx, feedID, pageable.Cursor{}, true, 4)
	require.NoError(t, err)
	require.Len(t, forward, 4)

	// Step back from the third row: the previous page is rows one and two,
	// returned in ascending display order despite the reverse scan.
	cursor := pageable.Cursor{ID: forward[2].ID.String(), PointsNext: false}
	page, hasMore, err := repo.FindAllByFeed(ctx, feedID, cursor, false, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.False(t, hasMore)
	assert.Equal(t, "bal_001", page[0].ExternalID)
	assert.Equal(t, "bal_002", page[1].ExternalID)
}

func TestIntegration_MetadataSurvivesRoundtrip(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()

	withMetadata, err := NewEntryFromPayload(feedID, model.FeedEntryPayload{
		ExternalID: "bal_meta",
		Amount:     "42.00",
		Currency:   "BRL",
		OccurredAt: "2026-01-02T15:04:05Z",
		Metadata:   `{"origin":"ledger"}`,
	})
	require.NoError(t, err)

	inserted, err := repo.CreateBatch(ctx, feedID, []*Entry{
		withMetadata,
		mustEntry(t, feedID, "bal_plain", "43.00"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), inserted)

	page, _, err := repo.FindAllByFeed(ctx, feedID, pageable.Cursor{}, true, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)

	assert.Equal(t, `{"origin":"ledger"}`, page[0].Metadata)
	assert.Empty(t, page[1].Metadata)
	assert.True(t, page[0].Amount.Equal(withMetadata.Amount), "decimal amount must survive storage")
}

func TestIntegration_CountByFeedWithoutRows(t *testing.T) {
	repo := newEntryRepository(t)

	total, err := repo.CountByFeed(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestIntegration_DeleteByFeedLeavesOtherFeedsAlone(t *testing.T) {
	repo := newEntryRepository(t)
	ctx := context.Background()

	feedID := uuid.New()
	otherFeedID := uuid.New()

	_, err := repo.CreateBatch(ctx, feedID, []*Entry{
		mustEntry(t, feedID, "bal_001", "10.00"),
		mustEntry(t, feedID, "bal_002", "20.00"),
	})
	require.NoError(t, err)

	_, err = repo.CreateBatch(ctx, otherFeedID, []*Entry{
		mustEntry(t, otherFeedID, "bal_001", "30.00"),
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteByFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	total, err := repo.CountByFeed(ctx, feedID)
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = repo.CountByFeed(ctx, otherFeedID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
