package extract

import (
	"regexp"
	"strconv"

	"diet_reminder_bot/internal/model"
)

// Day headers announce which weekday or trial day the following activity
// lines belong to. Two disjoint grammars are recognized on a trimmed line:
// a weekday name with a separator and date fragment ("THURSDAY- 14th AUG"),
// and the free-trial idiom ("DAY 1", "DAY2").
var (
	weekdayHeaderRe = regexp.MustCompile(
		`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)\s*[-–—:,.]\s*\S+`)
	trialHeaderRe = regexp.MustCompile(`(?i)^day\s?([1-3])\b`)

	// Looser variant used only by the whole-document fallback scan: a bare
	// day name at line start, no date fragment required.
	looseWeekdayRe = regexp.MustCompile(
		`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)\b`)
)

// MatchWeekdayHeader recognizes a weekday header line and returns the
// canonical weekday. Lines with an unrecognized day name simply don't match.
func MatchWeekdayHeader(line string) (model.Weekday, bool) {
	m := weekdayHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return model.ParseWeekday(m[1])
}

// MatchTrialHeader recognizes the free-trial day idiom and returns the trial
// day (1-3). A document containing any such header is a free-trial diet.
func MatchTrialHeader(line string) (int, bool) {
	m := trialHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 3 {
		return 0, false
	}
	return day, true
}

// MatchLooseWeekday recognizes a bare day name at line start.
func MatchLooseWeekday(line string) (model.Weekday, bool) {
	m := looseWeekdayRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return model.ParseWeekday(m[1])
}
