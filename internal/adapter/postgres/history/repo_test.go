package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func ptr[T any](v T) *T { return &v }

func TestRepo_Record(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     *domain.LookupRecord
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "succeeded lookup",
			rec: &domain.LookupRecord{
				ID: id, Word: "Hello", Outcome: domain.OutcomeSucceeded,
				Definition: ptr("a greeting"), Example: ptr("Hello!"),
				Duration: 250 * time.Millisecond, CreatedAt: now,
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO lookups \(id,word,word_normalized,outcome,definition,example,audio_url,message,status_code,duration_ms,created_at\)`).
					WithArgs(id, "Hello", "hello", "succeeded",
						ptr("a greeting"), ptr("Hello!"), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						int64(250), now).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "failed lookup with status",
			rec: &domain.LookupRecord{
				ID: id, Word: "zzz", Outcome: domain.OutcomeFailed,
				Message: ptr("Error: HTTP/1.1 404 Not Found, StatusCode: 404"), StatusCode: ptr(404),
				CreatedAt: now,
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO lookups`).
					WithArgs(id, "zzz", "zzz", "failed",
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						ptr("Error: HTTP/1.1 404 Not Found, StatusCode: 404"), ptr(int32(404)),
						int64(0), now).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:    "nil record",
			rec:     nil,
			setup:   func(pgxmock.PgxPoolIface) {},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "missing id",
			rec:     &domain.LookupRecord{Word: "hello", Outcome: domain.OutcomeSucceeded},
			setup:   func(pgxmock.PgxPoolIface) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown outcome",
			rec:     &domain.LookupRecord{ID: id, Word: "hello", Outcome: "pending"},
			setup:   func(pgxmock.PgxPoolIface) {},
			wantErr: domain.ErrValidation,
		},
		{
			name: "duplicate id",
			rec:  &domain.LookupRecord{ID: id, Word: "hello", Outcome: domain.OutcomeCanceled, CreatedAt: now},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO lookups`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			tt.setup(mock)

			err := repo.Record(context.Background(), tt.rec)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Record() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Record() error = %v, want %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestRepo_List(t *testing.T) {
	t.Parallel()

	columns := []string{"id", "word", "outcome", "definition", "example", "audio_url", "message", "status_code", "duration_ms", "created_at"}
	id1, id2 := uuid.New(), uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default filter", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMockRepo(t)
		rows := pgxmock.NewRows(columns).
			AddRow(id1, "hello", "succeeded", ptr("a greeting"), ptr("Hello!"), ptr("https://x/hello.mp3"), (*string)(nil), (*int32)(nil), int64(120), now).
			AddRow(id2, "zzz", "failed", (*string)(nil), (*string)(nil), (*string)(nil), ptr("No Data Found"), ptr(int32(404)), int64(80), now.Add(-time.Minute))
		mock.ExpectQuery(`SELECT id, word, outcome, definition, example, audio_url, message, status_code, duration_ms, created_at FROM lookups ORDER BY created_at DESC, id DESC LIMIT 20`).
			WillReturnRows(rows)

		got, err := repo.List(context.Background(), domain.HistoryFilter{})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("List() returned %d records, want 2", len(got))
		}
		if got[0].ID != id1 || got[0].Outcome != domain.OutcomeSucceeded || *got[0].Definition != "a greeting" {
			t.Errorf("first record = %+v", got[0])
		}
		if got[0].Duration != 120*time.Millisecond {
			t.Errorf("first record duration = %v, want 120ms", got[0].Duration)
		}
		if got[1].StatusCode == nil || *got[1].StatusCode != 404 {
			t.Errorf("second record status = %v, want 404", got[1].StatusCode)
		}
		if got[1].Definition != nil {
			t.Errorf("second record definition = %v, want nil", *got[1].Definition)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("word filter is normalized and limit clamped", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM lookups WHERE word_normalized = \$1 ORDER BY created_at DESC, id DESC LIMIT 200`).
			WithArgs("hello").
			WillReturnRows(pgxmock.NewRows(columns))

		got, err := repo.List(context.Background(), domain.HistoryFilter{Word: "  HeLLo ", Limit: 10000})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("List() returned %d records, want 0", len(got))
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM lookups`).WillReturnError(errors.New("connection reset"))

		if _, err := repo.List(context.Background(), domain.HistoryFilter{}); err == nil {
			t.Fatal("List() expected error, got nil")
		}
	})
}
