package postgres

import (
	"context"
	"fmt"

	"weightress/internal/store"
)

var _ store.Store = (*DB)(nil)

// Insert appends a weight record; the id comes from the sequence.
func (d *DB) Insert(ctx context.Context, r store.Record) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO past_weight(weight, notes, "date") VALUES($1, $2, $3);`,
		r.Weight, r.Notes, r.Date,
	)
	if err != nil {
		return fmt.Errorf("insert weight: %w", err)
	}
	return nil
}

// GetAll returns every weight record, newest id first.
func (d *DB) GetAll(ctx context.Context) ([]store.Record, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, weight, notes, "date" FROM past_weight ORDER BY id DESC;`)
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
