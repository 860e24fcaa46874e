package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendaflow/vendaflow/internal/auth"
)

// TaskSessionsPurge deletes refresh sessions past their expiry.
// Expired sessions are already rejected at refresh time, so the purge
// is pure housekeeping and safe to run at any cadence.
const TaskSessionsPurge = "sessions:purge"

// CronSessionsPurge runs the purge hourly.
const CronSessionsPurge = "0 * * * *"

// NewSessionsPurgeTask constructs the purge task. It carries no
// payload.
func NewSessionsPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsPurge, nil)
}

// NewSessionsPurgeHandler returns the handler bound to the session
// store.
func NewSessionsPurgeHandler(sessions auth.SessionRepository, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		removed, err := sessions.DeleteExpired(ctx, time.Now())
		if err != nil {
			logger.Error("sessions purge", slog.Any("error", err))
			return err
		}
		if removed > 0 {
			logger.Info("sessions purged", slog.Int64("removed", removed))
		}
		return nil
	}
}
