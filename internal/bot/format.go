package bot

import (
	"fmt"
	"strings"

	"diet_reminder_bot/internal/model"
)

// FormatRecordList renders the extracted reminders for the /list command.
func FormatRecordList(records []model.NotificationRecord) string {
	if len(records) == 0 {
		return "No reminders yet. Paste a diet plan with /diet <text>."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your reminders (%d):\n", len(records))
	for _, rec := range records {
		fmt.Fprintf(&sb, "\n%s — %s (%s)", rec.TimeOfDay, rec.Message, formatSchedule(rec))
	}
	return sb.String()
}

func formatSchedule(rec model.NotificationRecord) string {
	switch {
	case rec.TrialDay > 0:
		return fmt.Sprintf("trial day %d", rec.TrialDay)
	case len(rec.SelectedDays) > 0:
		abbrevs := make([]string, 0, len(rec.SelectedDays))
		for _, day := range rec.SelectedDays {
			abbrevs = append(abbrevs, day.String()[:3])
		}
		return strings.Join(abbrevs, ", ")
	default:
		return "no day found, not scheduled"
	}
}
