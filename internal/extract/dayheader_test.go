package extract

import (
	"testing"

	"diet_reminder_bot/internal/model"
)

func TestMatchWeekdayHeader(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   model.Weekday
		wantOK bool
	}{
		{"full name with dash", "THURSDAY- 14th AUG", model.Thursday, true},
		{"full name spaced dash", "Monday - 1st Jan", model.Monday, true},
		{"abbreviation", "WED: 3rd Feb", model.Wednesday, true},
		{"comma separator", "sunday, 20 aug", model.Sunday, true},
		{"no date fragment", "MONDAY", 0, false},
		{"no separator", "MONDAY 1st JAN", 0, false},
		{"not at line start", "see you FRIDAY- 5th", 0, false},
		{"unknown day name", "SOMEDAY- 1st JAN", 0, false},
		{"activity line", "8:00 AM- Breakfast", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchWeekdayHeader(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("MatchWeekdayHeader(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MatchWeekdayHeader(%q) = %s, want %s", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatchTrialHeader(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   int
		wantOK bool
	}{
		{"no space", "DAY1", 1, true},
		{"with space", "DAY 2", 2, true},
		{"lowercase", "day 3", 3, true},
		{"trailing text", "DAY 1 - detox", 1, true},
		{"day four", "DAY 4", 0, false},
		{"day ten", "DAY 10", 0, false},
		{"mid line", "start DAY 1", 0, false},
		{"plain word", "DAYTIME", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchTrialHeader(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("MatchTrialHeader(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MatchTrialHeader(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatchLooseWeekday(t *testing.T) {
	if w, ok := MatchLooseWeekday("Tuesday"); !ok || w != model.Tuesday {
		t.Errorf("bare day name should match loosely, got (%v, %v)", w, ok)
	}
	if _, ok := MatchLooseWeekday("Tuesdays are hard"); ok {
		t.Error("day name as a word prefix should not match")
	}
	if w, ok := MatchLooseWeekday("fri evening"); !ok || w != model.Friday {
		t.Errorf("abbreviation should match loosely, got (%v, %v)", w, ok)
	}
}
