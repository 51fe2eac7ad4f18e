package reminder

import (
	"context"
	"log/slog"
)

// LogNotifier delivers reminders as log records. Enabled plays the role of
// the notification permission.
type LogNotifier struct {
	Log     *slog.Logger
	Enabled bool
}

// Permitted reports whether reminders may be delivered.
func (n *LogNotifier) Permitted(context.Context) bool {
	return n.Enabled
}

// Notify logs the reminder at info level.
func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	n.Log.InfoContext(ctx, r.Title, "body", r.Body)
	return nil
}
