// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// WeightEntry represents a single recorded weight measurement.
// ID is zero until the entry has been persisted.
type WeightEntry struct {
	ID         int64   `json:"id"`
	WeightKg   float64 `json:"weightKg"`
	Notes      string  `json:"notes"`
	RecordedAt int64   `json:"recordedAt"`
}

// NewWeightEntry builds an unpersisted entry stamped with now in epoch
// milliseconds.
func NewWeightEntry(weightKg float64, notes string, now time.Time) WeightEntry {
	return WeightEntry{
		WeightKg:   weightKg,
		Notes:      notes,
		RecordedAt: now.UnixMilli(),
	}
}

// RecordedTime returns RecordedAt as a time.Time in the local zone.
func (e WeightEntry) RecordedTime() time.Time {
	return time.UnixMilli(e.RecordedAt).In(time.Local)
}

// WeightRepository is the port for weight persistence. Entries are only ever
// appended; GetAll returns them newest id first.
type WeightRepository interface {
	Record(ctx context.Context, entry WeightEntry) error
	GetAll(ctx context.Context) ([]WeightEntry, error)
}
