package app

import (
	"context"
	"errors"

	"weightress/internal/domain"
)

const chartLabelLayout = "02 Jan 06"

// ErrInvalidUnit is returned for a unit other than "kg" or "lb".
var ErrInvalidUnit = errors.New("unit must be \"kg\" or \"lb\"")

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weights *WeightService
}

// NewChartsService creates a ChartsService reading through the weight use cases.
func NewChartsService(ws *WeightService) *ChartsService {
	return &ChartsService{weights: ws}
}

// ChartPoint is a single point of the weight trend.
type ChartPoint struct {
	X          int     `json:"x"`
	Y          float64 `json:"y"`
	Label      string  `json:"label"`
	RecordedAt int64   `json:"recordedAt"`
}

// Series returns one point per entry, oldest first, with weights converted to
// unit ("kg" or "lb").
func (s *ChartsService) Series(ctx context.Context, unit string) ([]ChartPoint, error) {
	if !domain.ValidUnit(unit) {
		return nil, ErrInvalidUnit
	}

	entries, err := s.weights.GetAllWeights(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		points = append(points, ChartPoint{
			X:          len(points),
			Y:          domain.ConvertWeight(e.WeightKg, domain.UnitKg, unit),
			Label:      e.RecordedTime().Format(chartLabelLayout),
			RecordedAt: e.RecordedAt,
		})
	}
	return points, nil
}
