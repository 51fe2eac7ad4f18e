package app

import (
	"context"

	"weightress/internal/domain"
)

// WeightService exposes the weight-tracking use cases. It adds no behaviour
// of its own; errors from the repository are returned unchanged.
type WeightService struct {
	repo domain.WeightRepository
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo}
}

// GetAllWeights returns every recorded entry, newest first.
func (s *WeightService) GetAllWeights(ctx context.Context) ([]domain.WeightEntry, error) {
	return s.repo.GetAll(ctx)
}

// RecordWeight stores a new entry.
func (s *WeightService) RecordWeight(ctx context.Context, entry domain.WeightEntry) error {
	return s.repo.Record(ctx, entry)
}
