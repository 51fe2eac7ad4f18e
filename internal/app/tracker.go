package app

import (
	"context"
	"log/slog"
	"time"

	"weightress/internal/domain"
	"weightress/internal/worker"
)

// RecordResult is delivered once per Tracker.Record call.
type RecordResult struct {
	// Entry is the recorded entry. Its ID is taken from the reloaded history.
	Entry domain.WeightEntry
	// History is the full list re-read after the write completed.
	History []domain.WeightEntry
	// Message is a user-facing message, set only for rejected input.
	Message string
	Err     error
}

// HistoryResult is delivered once per Tracker.History call.
type HistoryResult struct {
	History []domain.WeightEntry
	Err     error
}

// Tracker drives the record/list flow for a front end: it validates raw
// input and runs storage calls on a background worker, handing back a
// channel that yields exactly one result.
type Tracker struct {
	weights *WeightService
	worker  *worker.Worker
	log     *slog.Logger
	now     func() time.Time
}

// NewTracker creates a Tracker that dispatches onto w.
func NewTracker(weights *WeightService, w *worker.Worker, log *slog.Logger) *Tracker {
	return &Tracker{weights: weights, worker: w, log: log, now: time.Now}
}

// WithClock replaces the time source used to stamp new entries.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Record validates weightInput and, if it parses, records a new entry with
// the given notes and the current time, then reloads the history. Invalid
// input never reaches storage.
func (t *Tracker) Record(ctx context.Context, weightInput, notes string) <-chan RecordResult {
	kg, err := domain.ParseWeight(weightInput)
	if err != nil {
		t.log.Info("validation failed", "input", weightInput)
		out := make(chan RecordResult, 1)
		out <- RecordResult{Message: domain.InvalidWeightMessage, Err: err}
		return out
	}
	t.log.Info("validation passed")

	entry := domain.NewWeightEntry(kg, notes, t.now())
	res := worker.Submit(ctx, t.worker, func(ctx context.Context) ([]domain.WeightEntry, error) {
		if err := t.weights.RecordWeight(ctx, entry); err != nil {
			return nil, err
		}
		return t.weights.GetAllWeights(ctx)
	})

	out := make(chan RecordResult, 1)
	go func() {
		r := <-res
		if r.Err != nil {
			t.log.Error("record weight", "error", r.Err)
		} else {
			entry.ID = persistedID(r.Value, entry)
			t.log.Info("weight recorded", "id", entry.ID, "weightKg", entry.WeightKg, "recordedAt", entry.RecordedAt)
		}
		out <- RecordResult{Entry: entry, History: r.Value, Err: r.Err}
	}()
	return out
}

// History loads every entry in the background.
func (t *Tracker) History(ctx context.Context) <-chan HistoryResult {
	res := worker.Submit(ctx, t.worker, t.weights.GetAllWeights)

	out := make(chan HistoryResult, 1)
	go func() {
		r := <-res
		out <- HistoryResult{History: r.Value, Err: r.Err}
	}()
	return out
}

// persistedID finds the newest history entry matching e. Zero if absent.
func persistedID(history []domain.WeightEntry, e domain.WeightEntry) int64 {
	for _, h := range history {
		if h.RecordedAt == e.RecordedAt && h.WeightKg == e.WeightKg && h.Notes == e.Notes {
			return h.ID
		}
	}
	return 0
}
