package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"diet_reminder_bot/internal/extract"
	"diet_reminder_bot/internal/model"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	trialEnds := time.Date(2024, time.January, 13, 12, 0, 0, 0, time.UTC)
	u := model.User{ID: 100, TrialEndsAt: &trialEnds}
	if err := store.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != 100 {
		t.Errorf("ID = %d, want 100", got.ID)
	}
	if got.TrialEndsAt == nil || !got.TrialEndsAt.Equal(trialEnds) {
		t.Errorf("TrialEndsAt = %v, want %v", got.TrialEndsAt, trialEnds)
	}
	if got.AutoExtractPending {
		t.Error("new user should have no pending extraction")
	}
}

func TestCreateUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := model.User{ID: 100, DietText: "original"}
	if err := store.CreateUser(ctx, &first); err != nil {
		t.Fatalf("create user: %v", err)
	}
	second := model.User{ID: 100, DietText: "should not overwrite"}
	if err := store.CreateUser(ctx, &second); err != nil {
		t.Fatalf("repeated create: %v", err)
	}

	got, err := store.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if diff := cmp.Diff("original", got.DietText); diff != "" {
		t.Errorf("diet text mismatch (-want +got):\n%s", diff)
	}
}

func TestGetUserMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetUser(context.Background(), 404); err == nil {
		t.Error("expected error for missing user")
	}
}

func TestSetDietTextMarksPending(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.SetDietText(ctx, 100, "MONDAY- 1st JAN\n8:00 AM- Breakfast"); err != nil {
		t.Fatalf("set diet text: %v", err)
	}

	pending, err := store.ListPendingExtractions(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != 100 {
		t.Fatalf("pending = %+v, want user 100", pending)
	}

	extractedAt := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	if err := store.ClearExtractPending(ctx, 100, extractedAt); err != nil {
		t.Fatalf("clear pending: %v", err)
	}

	pending, err = store.ListPendingExtractions(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending should be empty after clearing, got %+v", pending)
	}

	got, err := store.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ExtractedAt == nil || !got.ExtractedAt.Equal(extractedAt) {
		t.Errorf("ExtractedAt = %v, want %v", got.ExtractedAt, extractedAt)
	}
}

func TestSetDietTextUnknownUser(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetDietText(context.Background(), 404, "text"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestReplaceNotificationsSwapsWholeSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	old := []model.NotificationRecord{
		{ID: "a", Message: "Breakfast", TimeOfDay: "08:00",
			SelectedDays: []model.Weekday{model.Monday, model.Wednesday},
			IsActive:     true, Source: model.SourceDietPDF, Category: model.SourceDietPDF},
		{ID: "b", Message: "Lunch", TimeOfDay: "13:00", TrialDay: 2,
			IsActive: true, Source: model.SourceDietPDF, Category: model.SourceDietPDF},
	}
	if err := store.ReplaceNotifications(ctx, 100, model.SourceDietPDF, old); err != nil {
		t.Fatalf("replace notifications: %v", err)
	}

	fresh := []model.NotificationRecord{
		{ID: "c", Message: "Dinner", TimeOfDay: "19:00",
			SelectedDays: []model.Weekday{model.Friday},
			IsActive:     true, Source: model.SourceDietPDF, Category: model.SourceDietPDF},
	}
	if err := store.ReplaceNotifications(ctx, 100, model.SourceDietPDF, fresh); err != nil {
		t.Fatalf("replace notifications: %v", err)
	}

	got, err := store.ListNotifications(ctx, 100)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if diff := cmp.Diff(fresh, got); diff != "" {
		t.Errorf("record set mismatch (-want +got):\n%s", diff)
	}
}

func TestNotificationRoundTripPreservesDays(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	records := []model.NotificationRecord{
		{ID: "inert", Message: "Water", TimeOfDay: "06:00",
			IsActive: true, Source: model.SourceDietPDF, Category: model.SourceDietPDF},
		{ID: "multi", Message: "Walk", TimeOfDay: "21:00",
			SelectedDays: []model.Weekday{model.Monday, model.Saturday, model.Sunday},
			IsActive:     true, Source: model.SourceDietPDF, Category: model.SourceDietPDF},
	}
	if err := store.ReplaceNotifications(ctx, 100, model.SourceDietPDF, records); err != nil {
		t.Fatalf("replace notifications: %v", err)
	}

	got, err := store.ListNotifications(ctx, 100)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceNotificationsSameMealOnTwoDays(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Records derived from the same meal at the same time on two days carry
	// distinct IDs and must both survive the (user_id, id) primary key.
	records := extract.Extract("MONDAY- 1st JAN\n8:00 AM- Breakfast\nTUESDAY- 2nd JAN\n8:00 AM- Breakfast")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if err := store.ReplaceNotifications(ctx, 100, model.SourceDietPDF, records); err != nil {
		t.Fatalf("replace notifications: %v", err)
	}

	got, err := store.ListNotifications(ctx, 100)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("persisted %d records, want 2: %+v", len(got), got)
	}
}

func TestReplaceAndListHandles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	fireAt := time.Date(2024, time.January, 11, 8, 0, 0, 0, time.UTC)
	old := []model.ScheduledHandle{
		{ID: "h1", RecordID: "a", Category: model.SourceDietPDF, FireAt: fireAt},
		{ID: "h2", RecordID: "b", Category: model.SourceDietPDF, FireAt: fireAt.Add(time.Hour)},
	}
	if err := store.ReplaceHandles(ctx, 100, model.SourceDietPDF, old); err != nil {
		t.Fatalf("replace handles: %v", err)
	}

	fresh := []model.ScheduledHandle{
		{ID: "h3", RecordID: "c", Category: model.SourceDietPDF, FireAt: fireAt.AddDate(0, 0, 1)},
	}
	if err := store.ReplaceHandles(ctx, 100, model.SourceDietPDF, fresh); err != nil {
		t.Fatalf("replace handles: %v", err)
	}

	got, err := store.ListHandles(ctx, 100, model.SourceDietPDF)
	if err != nil {
		t.Fatalf("list handles: %v", err)
	}
	if diff := cmp.Diff(fresh, got); diff != "" {
		t.Errorf("handle set mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlesScopedPerUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []int64{100, 200} {
		if err := store.CreateUser(ctx, &model.User{ID: id}); err != nil {
			t.Fatalf("create user %d: %v", id, err)
		}
	}

	fireAt := time.Date(2024, time.January, 11, 8, 0, 0, 0, time.UTC)
	if err := store.ReplaceHandles(ctx, 100, model.SourceDietPDF, []model.ScheduledHandle{
		{ID: "h1", RecordID: "a", Category: model.SourceDietPDF, FireAt: fireAt},
	}); err != nil {
		t.Fatalf("replace handles: %v", err)
	}
	if err := store.ReplaceHandles(ctx, 200, model.SourceDietPDF, []model.ScheduledHandle{
		{ID: "h2", RecordID: "b", Category: model.SourceDietPDF, FireAt: fireAt},
	}); err != nil {
		t.Fatalf("replace handles: %v", err)
	}

	// Replacing one user's set must not disturb the other's.
	if err := store.ReplaceHandles(ctx, 100, model.SourceDietPDF, nil); err != nil {
		t.Fatalf("replace handles: %v", err)
	}
	got, err := store.ListHandles(ctx, 200, model.SourceDietPDF)
	if err != nil {
		t.Fatalf("list handles: %v", err)
	}
	if len(got) != 1 || got[0].ID != "h2" {
		t.Errorf("user 200 handles = %+v, want [h2]", got)
	}
}

func TestCorruptTimestampsAreReported(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateUser(ctx, &model.User{ID: 100}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO handles (id, user_id, record_id, category, fire_at) VALUES ('h1', 100, 'a', ?, 'not-a-time')`,
		model.SourceDietPDF,
	); err != nil {
		t.Fatalf("insert corrupt handle: %v", err)
	}
	if _, err := store.ListHandles(ctx, 100, model.SourceDietPDF); err == nil {
		t.Error("expected error for corrupt handle fire time")
	}

	if _, err := store.db.ExecContext(ctx,
		`UPDATE users SET trial_ends_at = 'not-a-time' WHERE id = 100`,
	); err != nil {
		t.Fatalf("corrupt user row: %v", err)
	}
	if _, err := store.GetUser(ctx, 100); err == nil {
		t.Error("expected error for corrupt trial end timestamp")
	}
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []int64{300, 100, 200} {
		if err := store.CreateUser(ctx, &model.User{ID: id}); err != nil {
			t.Fatalf("create user %d: %v", id, err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	var ids []int64
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	if diff := cmp.Diff([]int64{100, 200, 300}, ids); diff != "" {
		t.Errorf("user IDs mismatch (-want +got):\n%s", diff)
	}
}
