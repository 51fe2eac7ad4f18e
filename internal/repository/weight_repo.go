// Package repository maps between stored records and domain entities.
package repository

import (
	"context"

	"weightress/internal/domain"
	"weightress/internal/store"
)

// WeightRepo implements domain.WeightRepository on top of a record store.
type WeightRepo struct {
	store store.Store
}

var _ domain.WeightRepository = (*WeightRepo)(nil)

// NewWeightRepo creates a WeightRepo backed by s.
func NewWeightRepo(s store.Store) *WeightRepo {
	return &WeightRepo{store: s}
}

// Record converts entry to a record and inserts it. The id is cleared; the
// store assigns it.
func (r *WeightRepo) Record(ctx context.Context, entry domain.WeightEntry) error {
	return r.store.Insert(ctx, store.Record{
		Weight: entry.WeightKg,
		Notes:  entry.Notes,
		Date:   entry.RecordedAt,
	})
}

// GetAll returns every entry in store order.
func (r *WeightRepo) GetAll(ctx context.Context) ([]domain.WeightEntry, error) {
	records, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WeightEntry, 0, len(records))
	for _, rec := range records {
		out = append(out, toEntry(rec))
	}
	return out, nil
}

func toEntry(rec store.Record) domain.WeightEntry {
	return domain.WeightEntry{
		ID:         rec.ID,
		WeightKg:   rec.Weight,
		Notes:      rec.Notes,
		RecordedAt: rec.Date,
	}
}
