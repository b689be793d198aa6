package extract

import (
	"sort"
	"strings"

	"diet_reminder_bot/internal/model"
)

// Activity text shorter than this triggers a one-line lookahead, since PDF
// extraction often wraps an entry across two physical lines.
const minActivityTextLen = 3

// Document is the outcome of walking the diet text line by line.
type Document struct {
	Activities     []model.Activity
	HasTrialHeader bool
}

// docState is the accumulator threaded through the line fold: whichever
// header type was seen last sets the mode for all subsequent lines until the
// next header.
type docState struct {
	weekday  *model.Weekday
	trialDay int
}

func (s docState) withWeekday(w model.Weekday) docState {
	return docState{weekday: &w}
}

func (s docState) withTrialDay(day int) docState {
	return docState{trialDay: day}
}

// ExtractActivities parses raw diet text into timed activities. Lines with
// no recognizable time token are skipped, never reported as errors. Identical
// repeats of the same (time, text) collapse to one activity, and the result
// is ordered by (day, hour, minute) with untagged activities last.
func ExtractActivities(rawText string) Document {
	lines := strings.Split(rawText, "\n")

	var doc Document
	state := docState{}
	seen := make(map[string]bool)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if day, ok := MatchTrialHeader(line); ok {
			state = state.withTrialDay(day)
			doc.HasTrialHeader = true
			continue
		}
		if w, ok := MatchWeekdayHeader(line); ok {
			state = state.withWeekday(w)
			continue
		}

		tok, ok := FindTime(line)
		if !ok {
			continue
		}

		text := activityText(line, tok)
		if len(text) < minActivityTextLen && i+1 < len(lines) {
			text = appendLookahead(text, lines[i+1])
		}
		if text == "" {
			continue
		}

		act := model.Activity{
			Hour:         tok.Hour,
			Minute:       tok.Minute,
			Text:         text,
			Day:          state.weekday,
			TrialDay:     state.trialDay,
			OriginalLine: line,
		}
		if key := act.DedupeKey(); !seen[key] {
			seen[key] = true
			doc.Activities = append(doc.Activities, act)
		}
	}

	sortActivities(doc.Activities)
	return doc
}

// activityText is the remainder of the line after the time token, cut short
// at the next time token so one activity never swallows the next entry, then
// trimmed of leading separators.
func activityText(line string, tok TimeToken) string {
	end := len(line)
	if next, ok := FindTimeAfter(line, tok.End); ok {
		end = next.Start
	}
	text := line[tok.End:end]
	text = strings.TrimLeft(text, " \t-–—:.")
	return strings.TrimSpace(text)
}

// appendLookahead appends the following physical line to a very short
// trailing fragment, but only if that line carries no time token and is not
// itself a day header.
func appendLookahead(text, nextRaw string) string {
	next := strings.TrimSpace(nextRaw)
	if next == "" {
		return text
	}
	if _, ok := FindTime(next); ok {
		return text
	}
	if _, ok := MatchTrialHeader(next); ok {
		return text
	}
	if _, ok := MatchWeekdayHeader(next); ok {
		return text
	}
	return strings.TrimSpace(text + " " + next)
}

func sortActivities(acts []model.Activity) {
	dayIndex := func(a model.Activity) int {
		if a.Day == nil {
			return 7 // untagged sort after every tagged day
		}
		return int(*a.Day)
	}
	sort.SliceStable(acts, func(i, j int) bool {
		di, dj := dayIndex(acts[i]), dayIndex(acts[j])
		if di != dj {
			return di < dj
		}
		if acts[i].Hour != acts[j].Hour {
			return acts[i].Hour < acts[j].Hour
		}
		return acts[i].Minute < acts[j].Minute
	})
}
