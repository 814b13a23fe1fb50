package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"converti/internal/config"
)

// Status values stored per conversion.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is one finished conversion.
type Entry struct {
	ID           string
	InputPath    string
	Category     string
	OutputLabel  string
	OutputPath   string
	Status       string
	ErrorKind    string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
}

// Store manages conversion history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the history database at cfg.HistoryPath and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the database at path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.upgradeSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts or replaces an entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("history entry requires an id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO conversions (
            id, input_path, category, output_label, output_path, status,
            error_kind, error_message, started_at, finished_at, duration_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.InputPath,
		e.Category,
		e.OutputLabel,
		nullableString(e.OutputPath),
		e.Status,
		nullableString(e.ErrorKind),
		nullableString(e.ErrorMessage),
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, input_path, category, output_label, output_path, status,
        error_kind, error_message, started_at, finished_at, duration_ms
        FROM conversions ORDER BY finished_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                         Entry
			outputPath, kind, message sql.NullString
			startedText, finishedText string
			durationMS                int64
		)
		if err := rows.Scan(&e.ID, &e.InputPath, &e.Category, &e.OutputLabel, &outputPath, &e.Status,
			&kind, &message, &startedText, &finishedText, &durationMS); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		e.OutputPath = outputPath.String
		e.ErrorKind = kind.String
		e.ErrorMessage = message.String
		e.StartedAt = parseTime(startedText)
		e.FinishedAt = parseTime(finishedText)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM conversions")
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}
	return res.RowsAffected()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
