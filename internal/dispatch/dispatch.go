// Package dispatch implements the device notification scheduler: a registry
// of timed triggers with a ticker loop that delivers due notifications
// through a Sender. One registration is one trigger; weekly registrations
// re-arm themselves, one-shots are discarded after firing.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"diet_reminder_bot/internal/model"
)

// Sender is the interface for delivering a fired notification.
type Sender interface {
	SendMessage(chatID int64, text string)
}

type entry struct {
	content model.Content
	trigger model.Trigger
}

// Dispatcher schedules, cancels, and fires notification triggers.
type Dispatcher struct {
	mu      sync.Mutex
	entries map[string]*entry
	sender  Sender
	log     *slog.Logger
	tick    time.Duration
	now     func() time.Time
}

// New creates a Dispatcher delivering through the given sender.
func New(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		entries: make(map[string]*entry),
		sender:  sender,
		log:     log,
		tick:    10 * time.Second,
		now:     time.Now,
	}
}

// SetTickInterval overrides the default 10-second firing check interval.
func (d *Dispatcher) SetTickInterval(dur time.Duration) {
	d.tick = dur
}

// SetClock overrides the time source (useful for testing).
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// Schedule registers one trigger and returns its handle.
func (d *Dispatcher) Schedule(_ context.Context, content model.Content, trigger model.Trigger) (model.ScheduledHandle, error) {
	if trigger.FireAt.IsZero() {
		return model.ScheduledHandle{}, fmt.Errorf("trigger has no fire time")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.NewString()
	d.entries[id] = &entry{content: content, trigger: trigger}

	d.log.Debug("trigger registered",
		"handle_id", id,
		"chat_id", content.ChatID,
		"category", content.Category,
		"fire_at", trigger.FireAt,
		"repeats", trigger.Repeats,
	)
	return model.ScheduledHandle{ID: id, Category: content.Category, FireAt: trigger.FireAt}, nil
}

// Cancel removes one registered trigger.
func (d *Dispatcher) Cancel(_ context.Context, h model.ScheduledHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[h.ID]; !ok {
		return fmt.Errorf("unknown handle %s", h.ID)
	}
	delete(d.entries, h.ID)
	return nil
}

// CancelCategory removes every trigger for the given chat and category and
// returns how many were dropped.
func (d *Dispatcher) CancelCategory(_ context.Context, chatID int64, category string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := 0
	for id, e := range d.entries {
		if e.content.ChatID == chatID && e.content.Category == category {
			delete(d.entries, id)
			dropped++
		}
	}
	return dropped
}

// Active returns the number of registered triggers for a chat and category.
func (d *Dispatcher) Active(chatID int64, category string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, e := range d.entries {
		if e.content.ChatID == chatID && e.content.Category == category {
			n++
		}
	}
	return n
}

// Run starts the firing loop, blocking until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fireDue()
		}
	}
}

// fireDue delivers every trigger whose fire time has arrived. Repeating
// triggers move exactly one week forward, which keeps them on their weekday;
// one-shots are removed.
func (d *Dispatcher) fireDue() {
	now := d.now()

	type due struct {
		id      string
		content model.Content
	}
	var fired []due

	d.mu.Lock()
	for id, e := range d.entries {
		if e.trigger.FireAt.After(now) {
			continue
		}
		fired = append(fired, due{id: id, content: e.content})
		if !e.trigger.Repeats {
			delete(d.entries, id)
			continue
		}
		next := e.trigger.FireAt
		for !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		e.trigger.FireAt = next
	}
	d.mu.Unlock()

	// Delivery happens outside the lock; a slow sender must not block
	// Schedule/Cancel calls.
	for _, f := range fired {
		d.sender.SendMessage(f.content.ChatID, f.content.Body)
		d.log.Info("notification fired",
			"handle_id", f.id,
			"chat_id", f.content.ChatID,
			"category", f.content.Category,
		)
	}
}
