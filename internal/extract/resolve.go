package extract

import (
	"sort"
	"strings"

	"diet_reminder_bot/internal/model"
)

// resolvedActivity pairs an activity with its final day scope. Exactly one
// of days/trialDay is populated; both empty means the activity stays inert.
type resolvedActivity struct {
	activity model.Activity
	days     []model.Weekday
	trialDay int
}

// resolveDays decides, once per document, which days each activity applies
// to:
//
//  1. If any activity carries an explicit weekday, the document is
//     weekday-scoped: tagged activities get exactly their own day, untagged
//     ones stay inert rather than being broadcast to days they were never
//     assigned to.
//  2. Otherwise a document with trial-day headers is trial-scoped.
//  3. Otherwise a looser structural scan over the whole text looks for bare
//     day names; any found apply uniformly to all activities.
//  4. Otherwise every activity stays inert. Defaulting to "every day" would
//     fire reminders on days the diet does not apply, so it is deliberately
//     not done.
func resolveDays(doc Document, rawText string) []resolvedActivity {
	resolved := make([]resolvedActivity, 0, len(doc.Activities))

	switch {
	case anyWeekdayTagged(doc.Activities):
		for _, a := range doc.Activities {
			r := resolvedActivity{activity: a}
			if a.Day != nil {
				r.days = []model.Weekday{*a.Day}
			}
			resolved = append(resolved, r)
		}

	case doc.HasTrialHeader:
		for _, a := range doc.Activities {
			resolved = append(resolved, resolvedActivity{activity: a, trialDay: a.TrialDay})
		}

	default:
		days := scanLooseWeekdays(rawText)
		for _, a := range doc.Activities {
			resolved = append(resolved, resolvedActivity{activity: a, days: days})
		}
	}

	return resolved
}

func anyWeekdayTagged(acts []model.Activity) bool {
	for _, a := range acts {
		if a.Day != nil {
			return true
		}
	}
	return false
}

// scanLooseWeekdays is the whole-document fallback: collect every distinct
// bare day name found at a line start, in canonical order.
func scanLooseWeekdays(rawText string) []model.Weekday {
	found := make(map[model.Weekday]bool)
	for _, raw := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if w, ok := MatchLooseWeekday(line); ok {
			found[w] = true
		}
	}
	if len(found) == 0 {
		return nil
	}
	days := make([]model.Weekday, 0, len(found))
	for w := range found {
		days = append(days, w)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
