package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"diet_reminder_bot/internal/model"
	"diet_reminder_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=OFF"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("disable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user. Creating an existing user is a no-op so
// /start is safe to repeat.
func (s *SQLite) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, diet_text, auto_extract_pending, extracted_at, trial_ends_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.DietText, boolToInt(user.AutoExtractPending),
		timePtr(user.ExtractedAt), timePtr(user.TrialEndsAt), now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.CreatedAt = now
	return nil
}

// GetUser returns a single user by ID.
func (s *SQLite) GetUser(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, diet_text, auto_extract_pending, extracted_at, trial_ends_at, created_at
		 FROM users WHERE id = ?`, id,
	)
	return scanUser(row)
}

// ListUsers returns every user.
func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, diet_text, auto_extract_pending, extracted_at, trial_ends_at, created_at
		 FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows)
}

// SetDietText stores freshly extracted diet text and flags the user for
// automatic re-extraction.
func (s *SQLite) SetDietText(ctx context.Context, id int64, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET diet_text = ?, auto_extract_pending = 1 WHERE id = ?`,
		text, id,
	)
	if err != nil {
		return fmt.Errorf("set diet text: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// ListPendingExtractions returns users whose diet text awaits extraction.
func (s *SQLite) ListPendingExtractions(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, diet_text, auto_extract_pending, extracted_at, trial_ends_at, created_at
		 FROM users WHERE auto_extract_pending = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending extractions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows)
}

// ClearExtractPending marks an extraction as handled and records its time.
func (s *SQLite) ClearExtractPending(ctx context.Context, id int64, extractedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET auto_extract_pending = 0, extracted_at = ? WHERE id = ?`,
		extractedAt.UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("clear extract pending: %w", err)
	}
	return nil
}

// ReplaceNotifications swaps the full record set for a user and category in
// one transaction.
func (s *SQLite) ReplaceNotifications(ctx context.Context, userID int64, category string, records []model.NotificationRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = ? AND category = ?`, userID, category,
	); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}

	for _, r := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (user_id, id, message, time_of_day, selected_days, trial_day, is_active, source, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, r.ID, r.Message, r.TimeOfDay, encodeDays(r.SelectedDays),
			r.TrialDay, boolToInt(r.IsActive), r.Source, r.Category,
		); err != nil {
			return fmt.Errorf("insert notification %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ListNotifications returns all notification records for a user.
func (s *SQLite) ListNotifications(ctx context.Context, userID int64) ([]model.NotificationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, time_of_day, selected_days, trial_day, is_active, source, category
		 FROM notifications WHERE user_id = ? ORDER BY time_of_day, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.NotificationRecord
	for rows.Next() {
		var r model.NotificationRecord
		var days string
		var isActive int
		if err := rows.Scan(&r.ID, &r.Message, &r.TimeOfDay, &days, &r.TrialDay, &isActive, &r.Source, &r.Category); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		r.SelectedDays = decodeDays(days)
		r.IsActive = isActive == 1
		records = append(records, r)
	}
	return records, rows.Err()
}

// ReplaceHandles swaps the persisted handle set for a user and category in
// one transaction. The stored set is the source of truth for the next
// replacement's cancellation step.
func (s *SQLite) ReplaceHandles(ctx context.Context, userID int64, category string, handles []model.ScheduledHandle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM handles WHERE user_id = ? AND category = ?`, userID, category,
	); err != nil {
		return fmt.Errorf("delete handles: %w", err)
	}

	for _, h := range handles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO handles (id, user_id, record_id, category, fire_at) VALUES (?, ?, ?, ?, ?)`,
			h.ID, userID, h.RecordID, h.Category, h.FireAt.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert handle %s: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

// ListHandles returns the persisted handle set for a user and category.
func (s *SQLite) ListHandles(ctx context.Context, userID int64, category string) ([]model.ScheduledHandle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record_id, category, fire_at FROM handles
		 WHERE user_id = ? AND category = ? ORDER BY fire_at, id`, userID, category,
	)
	if err != nil {
		return nil, fmt.Errorf("query handles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var handles []model.ScheduledHandle
	for rows.Next() {
		var h model.ScheduledHandle
		var fireAt string
		if err := rows.Scan(&h.ID, &h.RecordID, &h.Category, &fireAt); err != nil {
			return nil, fmt.Errorf("scan handle: %w", err)
		}
		h.FireAt, err = time.Parse(timeLayout, fireAt)
		if err != nil {
			return nil, fmt.Errorf("parse handle %s fire time %q: %w", h.ID, fireAt, err)
		}
		handles = append(handles, h)
	}
	return handles, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(timeLayout)
	return &v
}

// encodeDays stores a weekday set as a comma-separated list of canonical
// ints; the empty set round-trips as the empty string.
func encodeDays(days []model.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) []model.Weekday {
	if s == "" {
		return nil
	}
	var days []model.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		d := model.Weekday(n)
		if d.Valid() {
			days = append(days, d)
		}
	}
	return days
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var pending int
	var extracted, trialEnds, created sql.NullString
	err := row.Scan(&u.ID, &u.DietText, &pending, &extracted, &trialEnds, &created)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.AutoExtractPending = pending == 1
	if extracted.Valid {
		t, err := time.Parse(timeLayout, extracted.String)
		if err != nil {
			return nil, fmt.Errorf("parse extracted_at %q: %w", extracted.String, err)
		}
		u.ExtractedAt = &t
	}
	if trialEnds.Valid {
		t, err := time.Parse(timeLayout, trialEnds.String)
		if err != nil {
			return nil, fmt.Errorf("parse trial_ends_at %q: %w", trialEnds.String, err)
		}
		u.TrialEndsAt = &t
	}
	if created.Valid {
		u.CreatedAt, err = time.Parse(timeLayout, created.String)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created.String, err)
		}
	}
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
