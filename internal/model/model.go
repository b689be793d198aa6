// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceDietPDF marks records extracted from an uploaded diet-plan PDF.
// It doubles as the cancellation category: every record with this category
// is cancelled together before a fresh schedule is installed.
const SourceDietPDF = "diet_pdf"

// Activity is one timed line item extracted from diet text, prior to day
// resolution. Activities are consumed immediately by the day resolver and
// never persisted.
type Activity struct {
	Hour         int // 0-23
	Minute       int // 0-59
	Text         string
	Day          *Weekday // set when a weekday header preceded the line
	TrialDay     int      // 1-3 when a trial-day header preceded the line, 0 otherwise
	OriginalLine string
}

// DedupeKey identifies an activity by day scope, time, and normalized text.
// Only repeats within the same day collapse; the same time and text under
// two different day headers are two distinct activities.
func (a Activity) DedupeKey() string {
	return fmt.Sprintf("%s|%02d:%02d|%s", a.dayScope(), a.Hour, a.Minute, NormalizeText(a.Text))
}

// dayScope renders the activity's day tag for keying: the canonical weekday
// number, the trial day, or "-" when untagged.
func (a Activity) dayScope() string {
	switch {
	case a.Day != nil:
		return strconv.Itoa(int(*a.Day))
	case a.TrialDay > 0:
		return fmt.Sprintf("t%d", a.TrialDay)
	default:
		return "-"
	}
}

// NormalizeText lowercases and collapses runs of whitespace, so that two
// spellings of the same reminder compare equal.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NotificationRecord is the unit of scheduling. The full set for a category
// is replaced on every extraction, never patched incrementally.
//
// Exactly one of SelectedDays / TrialDay carries day information. An empty
// SelectedDays with TrialDay == 0 is a valid state meaning "do not schedule":
// the record is kept for observability but never reaches the occurrence
// calculator.
type NotificationRecord struct {
	ID           string // stable across re-extractions of the same activity
	Message      string
	TimeOfDay    string    // "HH:MM"
	SelectedDays []Weekday // weekly recurrence; sorted; empty = none
	TrialDay     int       // 1-3 one-shot relative to trial start; 0 = none
	IsActive     bool
	Source       string
	Category     string
}

// Schedulable reports whether the record carries any day information.
func (r NotificationRecord) Schedulable() bool {
	return r.TrialDay > 0 || len(r.SelectedDays) > 0
}

// Clock parses TimeOfDay into hour and minute.
func (r NotificationRecord) Clock() (hour, minute int, err error) {
	if _, err := fmt.Sscanf(r.TimeOfDay, "%2d:%2d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("parse time of day %q: %w", r.TimeOfDay, err)
	}
	return hour, minute, nil
}

// ScheduledHandle is the opaque reference returned by the device scheduler
// for one registered occurrence. The persisted handle set is the source of
// truth for the next replacement's cancellation step; handles from a previous
// extraction are cancelled, never reused.
type ScheduledHandle struct {
	ID       string
	RecordID string
	Category string
	FireAt   time.Time
}

// Content is what the device scheduler delivers when a trigger fires. The
// category tags the registration so a whole group can be cancelled together.
type Content struct {
	ChatID   int64
	Body     string
	Category string
}

// Trigger tells the device scheduler when to fire. Repeating triggers re-arm
// weekly after each fire; one-shots are discarded.
type Trigger struct {
	FireAt  time.Time
	Repeats bool
}

// User is the owner of one diet document and its derived reminders.
type User struct {
	ID                 int64 // Telegram chat ID
	DietText           string
	AutoExtractPending bool
	ExtractedAt        *time.Time
	TrialEndsAt        *time.Time
	CreatedAt          time.Time
}
