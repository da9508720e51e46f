package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"escrow-charge/core/types"
	"escrow-charge/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS quotes (
	id                   TEXT PRIMARY KEY,
	project_id           TEXT NOT NULL,
	milestone_id         TEXT NOT NULL,
	currency             TEXT NOT NULL,
	project_budget       TEXT NOT NULL,
	milestone_amount     TEXT NOT NULL,
	percentage           INTEGER NOT NULL,
	service_charge       TEXT NOT NULL,
	total_amount         TEXT NOT NULL,
	amount_to_freelancer TEXT NOT NULL,
	created_at           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS quotes_project_idx ON quotes (project_id, created_at);
`

// SQLiteStore persists quotes in SQLite
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens a SQLite quote store and creates its schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Newf(errors.TypeConfig, "sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, errors.Storage("create sqlite directory", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Storage("open sqlite db", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Storage("ping sqlite db", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Storage("create schema", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, quote *Quote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepare(quote); err != nil {
		return err
	}

	b := quote.Breakdown
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO quotes (
	id, project_id, milestone_id, currency, project_budget, milestone_amount,
	percentage, service_charge, total_amount, amount_to_freelancer, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quote.ID, quote.ProjectID, quote.MilestoneID, string(quote.Currency),
		b.ProjectBudget, b.MilestoneAmount, b.Percentage, b.ServiceCharge,
		b.TotalAmount, b.AmountToFreelancer, toMillis(quote.CreatedAt),
	)
	if err != nil {
		return errors.Storage(fmt.Sprintf("insert quote %s", quote.ID), err)
	}
	return nil
}

const selectQuote = `
SELECT id, project_id, milestone_id, currency, project_budget, milestone_amount,
	percentage, service_charge, total_amount, amount_to_freelancer, created_at
FROM quotes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*Quote, error) {
	var (
		q         Quote
		currency  string
		createdAt int64
	)
	b := &q.Breakdown
	if err := row.Scan(
		&q.ID, &q.ProjectID, &q.MilestoneID, &currency,
		&b.ProjectBudget, &b.MilestoneAmount, &b.Percentage, &b.ServiceCharge,
		&b.TotalAmount, &b.AmountToFreelancer, &createdAt,
	); err != nil {
		return nil, err
	}
	q.Currency = types.Currency(currency)
	q.CreatedAt = fromMillis(createdAt)
	return &q, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Quote, error) {
	row := s.sqlDB.QueryRowContext(ctx, selectQuote+` WHERE id = ?`, id)
	q, err := scanQuote(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("quote", id)
	}
	if err != nil {
		return nil, errors.Storage("get quote", err)
	}
	return q, nil
}

func (s *SQLiteStore) List(ctx context.Context, projectID string) ([]*Quote, error) {
	rows, err := s.sqlDB.QueryContext(ctx, selectQuote+` WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, errors.Storage("list quotes", err)
	}
	defer rows.Close()

	var quotes []*Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, errors.Storage("scan quote", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list quotes", err)
	}
	return quotes, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
