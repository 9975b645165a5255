// Package history records every catalog write in a SQLite database so past
// builds can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/featurelist/internal/models"
)

// BuildRecord is one successful catalog write
type BuildRecord struct {
	ID         int64
	RunID      string // Shared by every phase written in one invocation
	Phase      string
	OutputPath string
	Project    string
	Version    string
	Total      int
	MaxID      int
	Categories *models.CategoryCounts
	Bytes      int
	CreatedAt  time.Time
}

// Store manages the SQLite build history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewRunID returns a fresh identifier for one generate invocation
func NewRunID() string {
	return uuid.NewString()
}

// NewStore opens (or creates) the history database at dbPath.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must be set first so the rest wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database location
func (s *Store) Path() string {
	return s.dbPath
}

// RecordBuild inserts rec and sets its ID. A missing RunID gets a new one
// and a zero CreatedAt is set to now.
func (s *Store) RecordBuild(ctx context.Context, rec *BuildRecord) error {
	if rec.RunID == "" {
		rec.RunID = NewRunID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	categories, err := rec.Categories.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO builds
		(run_id, phase, output_path, project, version, total_features, max_id, categories, bytes_written, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Phase,
		rec.OutputPath,
		rec.Project,
		rec.Version,
		rec.Total,
		rec.MaxID,
		string(categories),
		rec.Bytes,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

const selectBuilds = `SELECT id, run_id, phase, output_path, project, version,
	total_features, max_id, categories, bytes_written, created_at FROM builds`

// ListBuilds returns up to limit builds, most recent first.
// A limit of zero or less returns every build.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]*BuildRecord, error) {
	query := selectBuilds + ` ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []*BuildRecord
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build rows: %w", err)
	}
	return builds, nil
}

// LatestBuild returns the most recent build written to outputPath, or nil
// if there is none
func (s *Store) LatestBuild(ctx context.Context, outputPath string) (*BuildRecord, error) {
	row := s.db.QueryRowContext(ctx, selectBuilds+` WHERE output_path = ? ORDER BY id DESC LIMIT 1`, outputPath)

	rec, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBuild(row rowScanner) (*BuildRecord, error) {
	rec := &BuildRecord{}
	var project, version sql.NullString
	var categories string

	err := row.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Phase,
		&rec.OutputPath,
		&project,
		&version,
		&rec.Total,
		&rec.MaxID,
		&categories,
		&rec.Bytes,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan build row: %w", err)
	}

	rec.Project = project.String
	rec.Version = version.String

	rec.Categories = models.NewCategoryCounts()
	if err := rec.Categories.UnmarshalJSON([]byte(categories)); err != nil {
		return nil, fmt.Errorf("unmarshal categories of build %d: %w", rec.ID, err)
	}
	return rec, nil
}
