package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLite audit backend, initializing the schema
// and enabling WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewWriteError("sqlite", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

// initialize sets up the schema and pragmas.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewWriteError("sqlite", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewWriteError("sqlite", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return NewWriteError("sqlite", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewWriteError("sqlite", err)
	}
	return nil
}

// Append persists a record.
func (s *SQLiteStorage) Append(ctx context.Context, record *Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (
			id, run_id, path, fingerprint,
			action, simulated, success, error_kind, error,
			bytes_affected, categories, decision_reason, archive_destination,
			timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RunID, record.Path, record.Fingerprint,
		record.Action, record.Simulated, record.Success, record.ErrorKind, record.Error,
		record.BytesAffected, strings.Join(record.Categories, ","), record.DecisionReason,
		record.ArchiveDestination, record.Timestamp,
	)
	if err != nil {
		return NewWriteError("sqlite", err)
	}
	return nil
}

// Query retrieves records matching the filters, oldest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	where, args := buildWhere(query)
	q := `SELECT id, run_id, path, fingerprint,
		action, simulated, success, error_kind, error,
		bytes_affected, categories, decision_reason, archive_destination,
		timestamp
		FROM outcomes` + where + ` ORDER BY timestamp ASC, id ASC`
	if query != nil && query.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", query.Limit)
		if query.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, NewQueryError("sqlite", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r := &Record{}
		var categories string
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Path, &r.Fingerprint,
			&r.Action, &r.Simulated, &r.Success, &r.ErrorKind, &r.Error,
			&r.BytesAffected, &categories, &r.DecisionReason, &r.ArchiveDestination,
			&r.Timestamp,
		); err != nil {
			return nil, NewQueryError("sqlite", err)
		}
		if categories != "" {
			r.Categories = strings.Split(categories, ",")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("sqlite", err)
	}
	return out, nil
}

// Count returns the number of records matching the filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *Query) (int64, error) {
	where, args := buildWhere(query)
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM outcomes"+where, args...).Scan(&n)
	if err != nil {
		return 0, NewQueryError("sqlite", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// buildWhere translates a Query into a WHERE clause and arguments.
func buildWhere(q *Query) (string, []any) {
	if q == nil {
		return "", nil
	}
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if q.RunID != "" {
		add("run_id = ?", q.RunID)
	}
	if q.Path != "" {
		add("path = ?", q.Path)
	}
	if q.Fingerprint != "" {
		add("fingerprint = ?", q.Fingerprint)
	}
	if q.Action != "" {
		add("action = ?", q.Action)
	}
	if q.Success != nil {
		add("success = ?", *q.Success)
	}
	if q.Simulated != nil {
		add("simulated = ?", *q.Simulated)
	}
	if q.StartTime != nil {
		add("timestamp >= ?", *q.StartTime)
	}
	if q.EndTime != nil {
		add("timestamp <= ?", *q.EndTime)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
