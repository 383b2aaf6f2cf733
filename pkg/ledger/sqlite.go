package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ledgerSchema creates the completed-action index.
const ledgerSchema = `
CREATE TABLE IF NOT EXISTS completed_actions (
    path TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    action TEXT NOT NULL,
    run_id TEXT NOT NULL,
    completed_at TIMESTAMP NOT NULL,
    PRIMARY KEY (path, fingerprint, action)
);
`

// SQLiteStore is a ledger backed by SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a ledger database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	logger := slog.Default().With("component", "ledger.sqlite")
	logger.Debug("ledger opened", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Completed reports whether the action already completed for this key.
func (s *SQLiteStore) Completed(ctx context.Context, path, fingerprint, action string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM completed_actions WHERE path = ? AND fingerprint = ? AND action = ?",
		path, fingerprint, action,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying ledger: %w", err)
	}
	return true, nil
}

// MarkCompleted records a completed action, replacing any previous completion
// for the same key.
func (s *SQLiteStore) MarkCompleted(ctx context.Context, e Entry) error {
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO completed_actions (path, fingerprint, action, run_id, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Path, e.Fingerprint, e.Action, e.RunID, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("recording completed action: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
