package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"weightress/internal/app"
	"weightress/internal/domain"
)

func TestSeries_BadUnit(t *testing.T) {
	svc := app.NewChartsService(app.NewWeightService(&mockWeightRepo{}))
	_, err := svc.Series(context.Background(), "stones")
	if !errors.Is(err, app.ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestSeries_ChronologicalOrder(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local).UnixMilli()
	day2 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local).UnixMilli()
	repo := &mockWeightRepo{
		getAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{
				{ID: 2, WeightKg: 79, RecordedAt: day2},
				{ID: 1, WeightKg: 80, RecordedAt: day1},
			}, nil
		},
	}

	svc := app.NewChartsService(app.NewWeightService(repo))
	points, err := svc.Series(context.Background(), "kg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].X != 0 || points[0].Y != 80 || points[0].Label != "01 Mar 26" {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points[1].X != 1 || points[1].Y != 79 || points[1].Label != "02 Mar 26" {
		t.Errorf("unexpected second point %+v", points[1])
	}
}

func TestSeries_ConvertUnit(t *testing.T) {
	repo := &mockWeightRepo{
		getAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{{ID: 1, WeightKg: 100}}, nil
		},
	}

	svc := app.NewChartsService(app.NewWeightService(repo))
	points, err := svc.Series(context.Background(), "lb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Y < 220 || points[0].Y > 221 {
		t.Errorf("expected ~220.46 lb, got %v", points[0].Y)
	}
}

func TestSeries_Empty(t *testing.T) {
	svc := app.NewChartsService(app.NewWeightService(&mockWeightRepo{}))
	points, err := svc.Series(context.Background(), "kg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("expected empty series, got %#v", points)
	}
}

func TestSeries_RepoError(t *testing.T) {
	repo := &mockWeightRepo{
		getAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewChartsService(app.NewWeightService(repo))
	if _, err := svc.Series(context.Background(), "kg"); err == nil {
		t.Fatal("expected error")
	}
}
