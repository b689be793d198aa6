package extract

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"diet_reminder_bot/internal/model"
)

// RecordID derives the stable identifier for a reminder from its resolved
// day scope, time of day, and normalized text. Re-extracting an unchanged
// diet yields the same IDs, while the same meal at the same time on two
// different days keeps two distinct records.
func RecordID(dayScope string, hour, minute int, text string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%02d:%02d|%s", dayScope, hour, minute, model.NormalizeText(text))))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// recordScope renders a resolved activity's day scope for ID derivation:
// the trial day, the sorted weekday numbers, or "" for inert records.
func recordScope(r resolvedActivity) string {
	if r.trialDay > 0 {
		return fmt.Sprintf("t%d", r.trialDay)
	}
	parts := make([]string, len(r.days))
	for i, d := range r.days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// buildRecords maps resolved activities to notification records. Records
// without any day information are kept in the returned list for
// observability, but Schedulable reports false for them and the schedule
// replacer skips them.
func buildRecords(resolved []resolvedActivity) []model.NotificationRecord {
	records := make([]model.NotificationRecord, 0, len(resolved))
	for _, r := range resolved {
		a := r.activity
		records = append(records, model.NotificationRecord{
			ID:           RecordID(recordScope(r), a.Hour, a.Minute, a.Text),
			Message:      a.Text,
			TimeOfDay:    fmt.Sprintf("%02d:%02d", a.Hour, a.Minute),
			SelectedDays: r.days,
			TrialDay:     r.trialDay,
			IsActive:     true,
			Source:       model.SourceDietPDF,
			Category:     model.SourceDietPDF,
		})
	}
	return records
}
