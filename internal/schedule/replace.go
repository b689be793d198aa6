package schedule

import (
	"context"
	"log/slog"

	"diet_reminder_bot/internal/model"
)

// Replacer swaps a category's scheduled notification set as one logical
// transaction: cancel everything previously scheduled, then register the new
// set. It never leaves an old registration active once a replacement begins.
type Replacer struct {
	device Device
	log    *slog.Logger
}

// NewReplacer creates a Replacer on top of the given device scheduler.
func NewReplacer(device Device, log *slog.Logger) *Replacer {
	return &Replacer{device: device, log: log}
}

// Replace cancels every handle from the previous extraction, then registers
// one device trigger per occurrence of each active, schedulable record. The
// returned handle set is what the caller must persist and feed back as prior
// on the next call.
//
// Both phases are best effort: a handle that fails to cancel does not stop
// the remaining cancellations, and a registration failure skips that one
// occurrence and continues. Failures surface as fewer scheduled reminders,
// never as an error to the caller.
func (r *Replacer) Replace(ctx context.Context, category string, prior []model.ScheduledHandle, records []model.NotificationRecord, chatID int64, opts Options) []model.ScheduledHandle {
	for _, h := range prior {
		if err := r.device.Cancel(ctx, h); err != nil {
			r.log.Warn("cancel prior handle", "handle_id", h.ID, "record_id", h.RecordID, "error", err)
		}
	}

	var handles []model.ScheduledHandle
	scheduled, skipped := 0, 0
	for _, rec := range records {
		if !rec.Schedulable() || !rec.IsActive {
			skipped++
			continue
		}

		occs, err := Occurrences(rec, opts)
		if err != nil {
			r.log.Warn("compute occurrences", "record_id", rec.ID, "error", err)
			skipped++
			continue
		}

		content := model.Content{ChatID: chatID, Body: rec.Message, Category: category}
		for _, occ := range occs {
			h, err := r.device.Schedule(ctx, content, model.Trigger{FireAt: occ.FireAt, Repeats: occ.Repeats})
			if err != nil {
				r.log.Warn("register occurrence", "record_id", rec.ID, "fire_at", occ.FireAt, "error", err)
				continue
			}
			h.RecordID = rec.ID
			h.Category = category
			handles = append(handles, h)
		}
		scheduled++
	}

	r.log.Info("schedule replaced",
		"category", category,
		"chat_id", chatID,
		"cancelled", len(prior),
		"records", scheduled,
		"skipped", skipped,
		"handles", len(handles),
	)
	return handles
}
