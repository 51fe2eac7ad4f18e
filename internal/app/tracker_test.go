package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"weightress/internal/adapter/memory"
	"weightress/internal/app"
	"weightress/internal/domain"
	"weightress/internal/repository"
	"weightress/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTracker(t *testing.T, repo domain.WeightRepository) *app.Tracker {
	t.Helper()
	w := worker.New(8)
	t.Cleanup(w.Stop)
	return app.NewTracker(app.NewWeightService(repo), w, discardLogger())
}

func TestTrackerRecord_InvalidInput(t *testing.T) {
	called := false
	tr := newTracker(t, &mockWeightRepo{
		recordFn: func(_ context.Context, _ domain.WeightEntry) error {
			called = true
			return nil
		},
	})

	for _, in := range []string{"", "abc", "12kg", "7..2"} {
		res := <-tr.Record(context.Background(), in, "notes")
		if !errors.Is(res.Err, domain.ErrInvalidWeight) {
			t.Errorf("Record(%q): expected ErrInvalidWeight, got %v", in, res.Err)
		}
		if res.Message != "Enter a valid weight" {
			t.Errorf("Record(%q): unexpected message %q", in, res.Message)
		}
	}
	if called {
		t.Fatal("invalid input reached the repository")
	}
}

func TestTrackerRecord_StampsAndReloads(t *testing.T) {
	clock := time.UnixMilli(1000)
	repo := repository.NewWeightRepo(memory.New())
	tr := newTracker(t, repo).WithClock(func() time.Time { return clock })

	res := <-tr.Record(context.Background(), "70.2", "morning")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Message != "" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.Entry.ID != 1 || res.Entry.RecordedAt != 1000 || res.Entry.WeightKg != 70.2 {
		t.Fatalf("unexpected entry %+v", res.Entry)
	}

	clock = time.UnixMilli(2000)
	res = <-tr.Record(context.Background(), " 70 ", "")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	want := []domain.WeightEntry{
		{ID: 2, WeightKg: 70.0, Notes: "", RecordedAt: 2000},
		{ID: 1, WeightKg: 70.2, Notes: "morning", RecordedAt: 1000},
	}
	if len(res.History) != len(want) {
		t.Fatalf("expected %d entries in history, got %d", len(want), len(res.History))
	}
	for i := range want {
		if res.History[i] != want[i] {
			t.Errorf("history[%d] = %+v; want %+v", i, res.History[i], want[i])
		}
	}
}

func TestTrackerRecord_AcceptsNegative(t *testing.T) {
	tr := newTracker(t, repository.NewWeightRepo(memory.New()))
	res := <-tr.Record(context.Background(), "-3.2", "")
	if res.Err != nil {
		t.Fatalf("expected negative weight accepted, got %v", res.Err)
	}
	if len(res.History) != 1 || res.History[0].WeightKg != -3.2 {
		t.Fatalf("unexpected history %+v", res.History)
	}
}

func TestTrackerRecord_StorageError(t *testing.T) {
	dbErr := errors.New("disk full")
	tr := newTracker(t, &mockWeightRepo{
		recordFn: func(_ context.Context, _ domain.WeightEntry) error { return dbErr },
	})
	res := <-tr.Record(context.Background(), "80", "")
	if !errors.Is(res.Err, dbErr) {
		t.Fatalf("expected storage error, got %v", res.Err)
	}
	if res.Message != "" {
		t.Fatalf("storage errors carry no user message, got %q", res.Message)
	}
}

func TestTrackerHistory(t *testing.T) {
	tr := newTracker(t, &mockWeightRepo{
		getAllFn: func(_ context.Context) ([]domain.WeightEntry, error) {
			return []domain.WeightEntry{{ID: 1, WeightKg: 80}}, nil
		},
	})
	res := <-tr.History(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.History) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.History))
	}
}
