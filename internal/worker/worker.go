// Package worker runs the extraction flow: it polls for users whose diet
// text awaits processing, turns the text into notification records, and
// swaps their reminder schedule.
package worker

import (
	"context"
	"log/slog"
	"time"

	"diet_reminder_bot/internal/extract"
	"diet_reminder_bot/internal/model"
	"diet_reminder_bot/internal/schedule"
	"diet_reminder_bot/internal/storage"
)

// Worker periodically processes pending diet extractions.
type Worker struct {
	store    storage.Storage
	replacer *schedule.Replacer
	log      *slog.Logger
	tick     time.Duration
	now      func() time.Time
}

// New creates a Worker with the default 15-second poll interval.
func New(store storage.Storage, replacer *schedule.Replacer, log *slog.Logger) *Worker {
	return &Worker{
		store:    store,
		replacer: replacer,
		log:      log,
		tick:     15 * time.Second,
		now:      time.Now,
	}
}

// SetTickInterval overrides the default poll interval.
func (w *Worker) SetTickInterval(d time.Duration) {
	w.tick = d
}

// SetClock overrides the time source (useful for testing).
func (w *Worker) SetClock(now func() time.Time) {
	w.now = now
}

// Run starts the polling loop, blocking until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.checkAll(ctx)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAll(ctx)
		}
	}
}

func (w *Worker) checkAll(ctx context.Context) {
	users, err := w.store.ListPendingExtractions(ctx)
	if err != nil {
		w.log.Error("list pending extractions", "error", err)
		return
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		w.processUser(ctx, user)
	}
}

// processUser runs one extraction end to end. Failures before the pending
// flag is cleared leave the user queued for a retry on the next tick.
func (w *Worker) processUser(ctx context.Context, user model.User) {
	now := w.now()
	records := extract.Extract(user.DietText)

	if err := w.store.ReplaceNotifications(ctx, user.ID, model.SourceDietPDF, records); err != nil {
		w.log.Error("persist notifications", "user_id", user.ID, "error", err)
		return
	}

	prior, err := w.store.ListHandles(ctx, user.ID, model.SourceDietPDF)
	if err != nil {
		w.log.Error("list prior handles", "user_id", user.ID, "error", err)
		return
	}

	opts := schedule.Options{Now: now, ExtractedAt: now, TrialEnd: user.TrialEndsAt}
	handles := w.replacer.Replace(ctx, model.SourceDietPDF, prior, records, user.ID, opts)

	if err := w.store.ReplaceHandles(ctx, user.ID, model.SourceDietPDF, handles); err != nil {
		w.log.Error("persist handles", "user_id", user.ID, "error", err)
	}
	if err := w.store.ClearExtractPending(ctx, user.ID, now); err != nil {
		w.log.Error("clear extract pending", "user_id", user.ID, "error", err)
	}

	w.log.Info("diet extracted",
		"user_id", user.ID,
		"records", len(records),
		"scheduled", len(handles),
	)
}

// RestoreAll rebuilds the in-process trigger registry from persisted records
// after a restart. Replacement is idempotent, so re-running it per user
// installs exactly one fresh schedule each.
func (w *Worker) RestoreAll(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		records, err := w.store.ListNotifications(ctx, user.ID)
		if err != nil {
			w.log.Error("list notifications", "user_id", user.ID, "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		prior, err := w.store.ListHandles(ctx, user.ID, model.SourceDietPDF)
		if err != nil {
			w.log.Error("list prior handles", "user_id", user.ID, "error", err)
			continue
		}

		now := w.now()
		extractedAt := now
		if user.ExtractedAt != nil {
			extractedAt = *user.ExtractedAt
		}
		opts := schedule.Options{Now: now, ExtractedAt: extractedAt, TrialEnd: user.TrialEndsAt}
		handles := w.replacer.Replace(ctx, model.SourceDietPDF, prior, records, user.ID, opts)

		if err := w.store.ReplaceHandles(ctx, user.ID, model.SourceDietPDF, handles); err != nil {
			w.log.Error("persist handles", "user_id", user.ID, "error", err)
		}
	}
	return nil
}
