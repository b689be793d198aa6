// Package extract turns free-form diet-plan text into normalized
// notification records: it tokenizes times, tracks day headers, resolves
// which days each activity applies to, and builds the record set that the
// schedule replacer installs.
package extract

import "diet_reminder_bot/internal/model"

// Extract runs the whole pipeline over one diet document. Empty input yields
// an empty record set, which callers treat as "nothing to schedule", not as
// a failure.
func Extract(rawText string) []model.NotificationRecord {
	doc := ExtractActivities(rawText)
	resolved := resolveDays(doc, rawText)
	return buildRecords(resolved)
}
