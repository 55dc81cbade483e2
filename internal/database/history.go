package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/portalpass/internal/model"
)

// FileName is the SQLite file created inside the database directory.
const FileName = "history.db"

// ErrNilAttempt is returned when SaveAttempt receives nil.
var ErrNilAttempt = errors.New("attempt is nil")

// HistoryDB stores finished login attempts.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per login run
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		interface TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		outcome TEXT NOT NULL,
		portal_url TEXT,
		vendor TEXT,
		page_hash TEXT,
		attempt_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_started ON attempts(started_at);
	CREATE INDEX IF NOT EXISTS idx_attempts_portal ON attempts(portal_url);

	-- Steps are stored separately so outcomes can be queried per stage
	CREATE TABLE IF NOT EXISTS steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		attempt_id INTEGER NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		duration_ms INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_steps_attempt ON steps(attempt_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAttempt stores a finished attempt and its steps in one transaction.
// Saving the same run ID twice replaces the earlier row.
func (hdb *HistoryDB) SaveAttempt(ctx context.Context, attempt *model.Attempt) (err error) {
	if attempt == nil {
		return ErrNilAttempt
	}

	attemptJSON, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to serialize attempt: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM steps WHERE attempt_id IN (SELECT id FROM attempts WHERE run_id = ?)`, attempt.RunID); err != nil {
		return fmt.Errorf("failed to replace steps: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM attempts WHERE run_id = ?`, attempt.RunID); err != nil {
		return fmt.Errorf("failed to replace attempt: %w", err)
	}

	query := `
	INSERT INTO attempts (run_id, interface, started_at, finished_at, outcome, portal_url, vendor, page_hash, attempt_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := tx.ExecContext(ctx, query,
		attempt.RunID,
		attempt.Interface,
		formatTimestamp(attempt.StartedAt),
		formatTimestamp(attempt.FinishedAt),
		attempt.Outcome.String(),
		attempt.PortalURL,
		attempt.Vendor,
		attempt.PageHash,
		string(attemptJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	attemptID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get attempt id: %w", err)
	}

	for i, step := range attempt.Steps {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO steps (attempt_id, seq, name, status, detail, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		`, attemptID, i, step.Name, string(step.Status), step.Detail, step.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("failed to save step %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns up to limit attempts, newest first.
// A limit of zero or less returns every stored attempt.
func (hdb *HistoryDB) RecentAttempts(ctx context.Context, limit int) ([]model.Attempt, error) {
	query := `
	SELECT attempt_json FROM attempts
	ORDER BY started_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]model.Attempt, 0)
	for rows.Next() {
		var attemptJSON string
		if err := rows.Scan(&attemptJSON); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}

		var a model.Attempt
		if err := json.Unmarshal([]byte(attemptJSON), &a); err != nil {
			continue // Skip malformed rows
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// GetAttempt returns the attempt with the given run ID, or nil when none exists.
func (hdb *HistoryDB) GetAttempt(ctx context.Context, runID string) (*model.Attempt, error) {
	var attemptJSON string
	err := hdb.db.QueryRowContext(ctx, `SELECT attempt_json FROM attempts WHERE run_id = ?`, runID).Scan(&attemptJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	var a model.Attempt
	if err := json.Unmarshal([]byte(attemptJSON), &a); err != nil {
		return nil, fmt.Errorf("failed to parse attempt: %w", err)
	}
	return &a, nil
}

// OutcomeCounts returns how many stored attempts ended in each outcome.
func (hdb *HistoryDB) OutcomeCounts(ctx context.Context) (map[model.Outcome]int, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM attempts GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Outcome]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		counts[model.ParseOutcome(name)] += n
	}
	return counts, rows.Err()
}

// Prune deletes all but the newest keep attempts and returns how many
// were removed.
func (hdb *HistoryDB) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	keepIDs := `SELECT id FROM attempts ORDER BY started_at DESC, id DESC LIMIT ?`

	if _, err := hdb.db.ExecContext(ctx, `DELETE FROM steps WHERE attempt_id NOT IN (`+keepIDs+`)`, keep); err != nil {
		return 0, fmt.Errorf("failed to prune steps: %w", err)
	}
	res, err := hdb.db.ExecContext(ctx, `DELETE FROM attempts WHERE id NOT IN (`+keepIDs+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	return res.RowsAffected()
}

// timestampLayout sorts lexically in the same order as time.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
