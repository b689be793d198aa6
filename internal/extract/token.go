package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// TimeToken is one recognized time-of-day mention within a line.
type TimeToken struct {
	Hour   int // 0-23
	Minute int // 0-59
	Start  int // offset of the matched span within the line
	End    int // offset just past the matched span
}

// Recognized spellings, in priority order: "6:30 PM", "6 AM", "6AM".
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(AM|PM)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s+(AM|PM)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})(AM|PM)\b`),
}

// FindTime returns the first time token in the line, if any. A line with no
// token carries no schedulable activity and is skipped by the caller.
func FindTime(line string) (TimeToken, bool) {
	return FindTimeAfter(line, 0)
}

// FindTimeAfter returns the earliest time token starting at or after offset
// from. When two patterns match at the same position the higher-priority
// spelling wins. Used both for recognizing a line's time and for cutting
// activity text short at the next entry on the same physical line.
func FindTimeAfter(line string, from int) (TimeToken, bool) {
	if from < 0 || from >= len(line) {
		return TimeToken{}, false
	}
	s := line[from:]

	best := TimeToken{Start: -1}
	for _, re := range timePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		loc := re.FindStringSubmatchIndex(s)
		tok, ok := tokenFromMatch(m, loc[0], loc[1])
		if !ok {
			continue
		}
		if best.Start == -1 || tok.Start < best.Start {
			best = tok
		}
	}
	if best.Start == -1 {
		return TimeToken{}, false
	}
	best.Start += from
	best.End += from
	return best, true
}

func tokenFromMatch(m []string, start, end int) (TimeToken, bool) {
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return TimeToken{}, false
	}

	minute := 0
	meridiem := m[len(m)-1]
	if len(m) == 4 {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return TimeToken{}, false
		}
	}

	if hour > 23 || minute > 59 {
		return TimeToken{}, false
	}
	return TimeToken{
		Hour:   hour24(hour, meridiem),
		Minute: minute,
		Start:  start,
		End:    end,
	}, true
}

// hour24 applies the meridiem: 12 AM is midnight, 12 PM is noon, and PM adds
// twelve unless the hour is already in 24-hour form.
func hour24(hour int, meridiem string) int {
	if strings.EqualFold(meridiem, "AM") {
		if hour == 12 {
			return 0
		}
		return hour
	}
	if hour >= 12 {
		return hour
	}
	return hour + 12
}
