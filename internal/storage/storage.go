// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"diet_reminder_bot/internal/model"
)

// Storage is the interface for all persistence operations. Notification and
// handle sets are always replaced whole per user and category, never patched
// incrementally, so no orphaned record survives a diet change.
type Storage interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	SetDietText(ctx context.Context, id int64, text string) error
	ListPendingExtractions(ctx context.Context) ([]model.User, error)
	ClearExtractPending(ctx context.Context, id int64, extractedAt time.Time) error

	ReplaceNotifications(ctx context.Context, userID int64, category string, records []model.NotificationRecord) error
	ListNotifications(ctx context.Context, userID int64) ([]model.NotificationRecord, error)

	ReplaceHandles(ctx context.Context, userID int64, category string, handles []model.ScheduledHandle) error
	ListHandles(ctx context.Context, userID int64, category string) ([]model.ScheduledHandle, error)

	Close() error
}
