// Package sqlite implements the record store on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"weightress/internal/store"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

// DB wraps a *sql.DB holding the past_weight table.
type DB struct {
	sql *sql.DB
}

var _ store.Store = (*DB)(nil)

// Open opens (creating if needed) the database file at path and migrates it.
func Open(path string) (*DB, error) {
	file, dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single connection: one writer at a time.
	s.SetMaxOpenConns(1)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

var pragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)"}

// buildDSN adds the connection pragmas to path, keeping any query it already
// carries. file is path without the query and "file:" prefix.
func buildDSN(path string) (file, dsn string, err error) {
	base, rawQuery, _ := strings.Cut(path, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("parse database path query: %w", err)
	}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return strings.TrimPrefix(base, "file:"), base + "?" + q.Encode(), nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS past_weight (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		weight REAL NOT NULL,
		notes TEXT NOT NULL,
		date INTEGER NOT NULL
	);`
	if _, err := d.sql.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Insert appends a record. r.ID is ignored.
func (d *DB) Insert(ctx context.Context, r store.Record) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO past_weight(weight, notes, date) VALUES(?, ?, ?);",
		r.Weight, r.Notes, r.Date,
	)
	if err != nil {
		return fmt.Errorf("insert weight: %w", err)
	}
	return nil
}

// GetAll returns every record, newest id first.
func (d *DB) GetAll(ctx context.Context) ([]store.Record, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, weight, notes, date FROM past_weight ORDER BY id DESC;")
	if err != nil {
		return nil, fmt.Errorf("query weights: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []store.Record{}
	for rows.Next() {
		var r store.Record
		if err := rows.Scan(&r.ID, &r.Weight, &r.Notes, &r.Date); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
