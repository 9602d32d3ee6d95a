// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/pageable"
	"github.com/LerianStudio/datafeed/pkg/postgres"

	"github.com/LerianStudio/lib-commons/v3/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

// Repository provides an interface for operations related to the entries table in PostgreSQL.
//
//go:generate mockgen --destination=entry.postgresql.mock.go --package=entry --copyright_file=../../../COPYRIGHT . Repository
type Repository interface {
	CreateBatch(ctx context.Context, feedID uuid.UUID, entries []*Entry) (int64, error)
	FindAllByFeed(ctx context.Context, feedID uuid.UUID, cursor pageable.Cursor, isFirstPage bool, limit int) ([]*Entry, bool, error)
	CountByFeed(ctx context.Context, feedID uuid.UUID) (int64, error)
	DeleteByFeed(ctx context.Context, feedID uuid.UUID) (int64, error)
}

// EntryPostgreSQLRepository is a PostgreSQL implementation of the entry Repository.
type EntryPostgreSQLRepository struct {
	connection *postgres.Connection
	tableName  string
}

// Compile-time interface satisfaction check.
var _ Repository = (*EntryPostgreSQLRepository)(nil)

// NewEntryPostgreSQLRepository returns a new instance of EntryPostgreSQLRepository using the given postgres connection.
func NewEntryPostgreSQLRepository(pc *postgres.Connection) (*EntryPostgreSQLRepository, error) {
	r := &EntryPostgreSQLRepository{
		connection: pc,
		tableName:  "entries",
	}
	if _, err := r.connection.GetDB(); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres for entries: %w", err)
	}

	return r, nil
}

var entryColumns = []string{
	"id", "feed_id", "external_id", "title", "amount", "currency", "occurred_at", "metadata", "created_at",
}

// EnsureSchema creates the entries table and its indexes when they do not
// exist yet. The unique (feed_id, external_id) pair is what makes batch
// inserts idempotent across sync retries.
func (er *EntryPostgreSQLRepository) EnsureSchema(ctx context.Context) error {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.entry.ensure_schema")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.table", er.tableName),
	)

	db, err := er.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	table := pq.QuoteIdentifier(er.tableName)

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			feed_id UUID NOT NULL,
			external_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, table),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_feed_external ON %s (feed_id, external_id)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_entries_feed_id_order ON %s (feed_id, id)`, table),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to ensure entries schema", err)
			logger.Errorf("Failed to ensure schema for %s: %v", er.tableName, err)

			return err
		}
	}

	logger.Infof("Schema ensured for %s table", er.tableName)

	return nil
}

// CreateBatch inserts a page of entries, skipping rows whose
// (feed_id, external_id) already exist so that redelivered sync messages and
// overlapping pages never duplicate data. Returns the number of rows actually
// written. Pages larger than the statement batch size are split.
func (er *EntryPostgreSQLRepository) CreateBatch(ctx context.Context, feedID uuid.UUID, entries []*Entry) (int64, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.entry.create_batch")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
		attribute.Int("app.request.batch_size", len(entries)),
	}

	span.SetAttributes(attributes...)

	if len(entries) == 0 {
		return 0, nil
	}

	db, err := er.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return 0, err
	}

	var inserted int64

	for start := 0; start < len(entries); start += constant.EntryInsertBatchSize {
		end := min(start+constant.EntryInsertBatchSize, len(entries))

		builder := squirrel.StatementBuilder.
			PlaceholderFormat(squirrel.Dollar).
			Insert(er.tableName).
			Columns(entryColumns...).
			Suffix("ON CONFLICT (feed_id, external_id) DO NOTHING")

		for _, e := range entries[start:end] {
			record := &EntryPostgreSQLModel{}
			record.FromEntity(e)

			builder = builder.Values(
				record.ID,
				record.FeedID,
				record.ExternalID,
				record.Title,
				record.Amount,
				record.Currency,
				record.OccurredAt,
				record.Metadata,
				record.CreatedAt,
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to build insert statement", err)

			return inserted, err
		}

		ctx, spanExec := tracer.Start(ctx, "repository.entry.create_batch_exec")

		spanExec.SetAttributes(attributes...)

		result, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				libOpentelemetry.HandleSpanBusinessErrorEvent(&spanExec, "Entry batch hit existing rows", err)
				spanExec.End()

				continue
			}

			libOpentelemetry.HandleSpanError(&spanExec, "Failed to insert entries", err)
			spanExec.End()

			return inserted, err
		}

		spanExec.End()

		rows, err := result.RowsAffected()
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to get rows affected", err)

			return inserted, err
		}

		inserted += rows
	}

	span.SetAttributes(attribute.Int64("app.response.inserted", inserted))

	return inserted, nil
}

// isUniqueViolation reports whether err is a 23505 unique violation from
// either postgres driver in use.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}

// FindAllByFeed retrieves one page of a feed's entries ordered by id, which
// for UUIDv7 keys is insertion order. The cursor addresses the row the
// previous page stopped at; isFirstPage distinguishes the zero cursor from a
// decoded one. Returns the page in display order plus whether more rows exist
// in the walk direction.
func (er *EntryPostgreSQLRepository) FindAllByFeed(ctx context.Context, feedID uuid.UUID, cursor pageable.Cursor, isFirstPage bool, limit int) ([]*Entry, bool, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.entry.find_all_by_feed")
	defer span.End()

	attributes := []attribute.KeyValue{
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
		attribute.Int("app.request.limit", limit),
	}

	span.SetAttributes(attributes...)

	db, err := er.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, false, err
	}

	pointsNext := isFirstPage || cursor.PointsNext

	builder := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(entryColumns...).
		From(er.tableName).
		Where(squirrel.Eq{"feed_id": feedID}).
		Limit(uint64(limit + 1))

	switch {
	case isFirstPage:
		builder = builder.OrderBy("id ASC")
	case pointsNext:
		builder = builder.Where(squirrel.Gt{"id": cursor.ID}).OrderBy("id ASC")
	default:
		builder = builder.Where(squirrel.Lt{"id": cursor.ID}).OrderBy("id DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to build select statement", err)

		return nil, false, err
	}

	ctx, spanQuery := tracer.Start(ctx, "repository.entry.find_all_by_feed_exec")

	spanQuery.SetAttributes(attributes...)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		libOpentelemetry.HandleSpanError(&spanQuery, "Failed to query entries", err)
		spanQuery.End()

		return nil, false, err
	}
	defer rows.Close()

	spanQuery.End()

	var results []*Entry

	for rows.Next() {
		var record EntryPostgreSQLModel

		if err := rows.Scan(
			&record.ID,
			&record.FeedID,
			&record.ExternalID,
			&record.Title,
			&record.Amount,
			&record.Currency,
			&record.OccurredAt,
			&record.Metadata,
			&record.CreatedAt,
		); err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to scan entry", err)

			return nil, false, err
		}

		e, err := record.ToEntity()
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to convert entry model", err)

			return nil, false, err
		}

		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to iterate entries", err)

		return nil, false, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}

	// A backward walk selects in reverse; flip back to display order.
	if !pointsNext {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}

	span.SetAttributes(
		attribute.Int("app.response.count", len(results)),
		attribute.Bool("app.response.has_more", hasMore),
	)

	return results, hasMore, nil
}

// CountByFeed returns the number of replicated entries a feed holds.
func (er *EntryPostgreSQLRepository) CountByFeed(ctx context.Context, feedID uuid.UUID) (int64, error) {
	_, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.entry.count_by_feed")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	db, err := er.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return 0, err
	}

	query, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		From(er.tableName).
		Where(squirrel.Eq{"feed_id": feedID}).
		ToSql()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to build count statement", err)

		return 0, err
	}

	var total int64

	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to count entries", err)

		return 0, err
	}

	return total, nil
}

// DeleteByFeed removes every replicated entry of a feed. Used when a feed is
// deleted; the rows are reproducible from the upstream source.
func (er *EntryPostgreSQLRepository) DeleteByFeed(ctx context.Context, feedID uuid.UUID) (int64, error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "repository.entry.delete_by_feed")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.feed_id", feedID.String()),
	)

	db, err := er.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return 0, err
	}

	query, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Delete(er.tableName).
		Where(squirrel.Eq{"feed_id": feedID}).
		ToSql()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to build delete statement", err)

		return 0, err
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to delete entries", err)

		return 0, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rows affected", err)

		return 0, err
	}

	logger.Infof("Deleted %d entries for feed %s", deleted, feedID)

	return deleted, nil
}
