// Package store defines the persisted shape of weight entries and the
// contract every storage backend implements.
package store

import "context"

// Record is one row of the past_weight table.
type Record struct {
	ID     int64
	Weight float64
	Notes  string
	// Date is the measurement time in epoch milliseconds.
	Date int64
}

// Store is the durable record store. Insert assigns a fresh identifier and
// ignores Record.ID. GetAll returns every record ordered by id descending and
// an empty slice, not an error, when nothing is stored.
type Store interface {
	Insert(ctx context.Context, r Record) error
	GetAll(ctx context.Context) ([]Record, error)
}
