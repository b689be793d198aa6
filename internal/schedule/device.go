// Package schedule computes concrete fire times for notification records and
// atomically replaces a category's scheduled set on the device scheduler.
package schedule

import (
	"context"

	"diet_reminder_bot/internal/model"
)

// Device is the device notification scheduler as seen by this package. One
// registration corresponds to one occurrence; cancellation is per handle.
type Device interface {
	Schedule(ctx context.Context, content model.Content, trigger model.Trigger) (model.ScheduledHandle, error)
	Cancel(ctx context.Context, handle model.ScheduledHandle) error
}
