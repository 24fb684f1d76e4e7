// Package history implements the lookup journal using PostgreSQL.
// Rows are append-only and are never read back to answer a lookup.
package history

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/wordbuddy/internal/adapter/postgres"
	"github.com/heartmarshall/wordbuddy/internal/domain"
)

const tableLookups = "lookups"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	insertColumns = []string{
		"id", "word", "word_normalized", "outcome",
		"definition", "example", "audio_url", "message", "status_code",
		"duration_ms", "created_at",
	}
	selectColumns = []string{
		"id", "word", "outcome",
		"definition", "example", "audio_url", "message", "status_code",
		"duration_ms", "created_at",
	}
)

// Repo provides lookup journal persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a journal repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Record appends one finished lookup to the journal.
func (r *Repo) Record(ctx context.Context, rec *domain.LookupRecord) error {
	if rec == nil {
		return fmt.Errorf("lookup record: %w", domain.ErrInvalidArgument)
	}
	if rec.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	if !rec.Outcome.IsValid() {
		return domain.NewValidationError("outcome", fmt.Sprintf("unknown outcome %q", rec.Outcome))
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := psql.Insert(tableLookups).
		Columns(insertColumns...).
		Values(
			rec.ID, rec.Word, domain.NormalizeText(rec.Word), string(rec.Outcome),
			rec.Definition, rec.Example, rec.AudioURL, rec.Message, toInt32Ptr(rec.StatusCode),
			rec.Duration.Milliseconds(), createdAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("lookup build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "lookup", rec.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns journal rows matching filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.LookupRecord, error) {
	f := filter.Normalize()

	b := psql.Select(selectColumns...).
		From(tableLookups).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(f.Limit))
	if f.Word != "" {
		b = b.Where(sq.Eq{"word_normalized": f.Word})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("lookup build select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	records := make([]domain.LookupRecord, 0, f.Limit)
	for rows.Next() {
		var (
			rec        domain.LookupRecord
			outcome    string
			statusCode *int32
			durationMS int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Word, &outcome,
			&rec.Definition, &rec.Example, &rec.AudioURL, &rec.Message, &statusCode,
			&durationMS, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		rec.Outcome = domain.LookupOutcome(outcome)
		rec.StatusCode = fromInt32Ptr(statusCode)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}

	return records, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func fromInt32Ptr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
