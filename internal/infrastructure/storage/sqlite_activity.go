package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

type sqliteActivityRepository struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteActivityRepository SQLite-backed activity log
func NewSQLiteActivityRepository(dbPath string, maxSize int) (repository.ActivityRepository, error) {
	if dbPath == "" {
		return nil, errors.New("activity db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create activity db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createActivitySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteActivityRepository{db: db, maxSize: maxSize}, nil
}

func createActivitySchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS activities (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	action TEXT NOT NULL,
	details TEXT,
	failed BOOLEAN NOT NULL DEFAULT 0,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_ts ON activities (ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create activity schema: %w", err)
	}
	return nil
}

// Record inserts the entry and trims the log to maxSize rows
func (s *sqliteActivityRepository) Record(ctx context.Context, activity entity.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO activities (id, action, details, failed, ts) VALUES (?, ?, ?, ?, ?)`,
		activity.ID, activity.Action, activity.Details, activity.Failed, activity.Timestamp)
	if err != nil {
		tx.Rollback()
		return err
	}

	if s.maxSize > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM activities
WHERE seq IN (
  SELECT seq FROM activities
  ORDER BY seq DESC
  LIMIT -1 OFFSET ?
)`, s.maxSize)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Recent last limit entries, oldest first
func (s *sqliteActivityRepository) Recent(ctx context.Context, limit int) ([]entity.Activity, error) {
	query := `SELECT id, action, details, failed, ts FROM activities ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tmp := []entity.Activity{}
	for rows.Next() {
		var a entity.Activity
		var details sql.NullString
		var ts time.Time
		if err := rows.Scan(&a.ID, &a.Action, &details, &a.Failed, &ts); err != nil {
			return nil, err
		}
		a.Details = details.String
		a.Timestamp = ts
		tmp = append(tmp, a)
	}

	// newest-first from the query, callers want oldest-first
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}

	return tmp, rows.Err()
}

// Clear drops every entry
func (s *sqliteActivityRepository) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM activities`)
	return err
}

func (s *sqliteActivityRepository) Close() error {
	return s.db.Close()
}
