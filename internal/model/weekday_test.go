package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWeekdayTimeConversionRoundTrip(t *testing.T) {
	for w := Monday; w <= Sunday; w++ {
		back := WeekdayOf(w.Time())
		if diff := cmp.Diff(w, back); diff != "" {
			t.Errorf("round trip for %s (-want +got):\n%s", w, diff)
		}
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		back := WeekdayOf(d).Time()
		if diff := cmp.Diff(d, back); diff != "" {
			t.Errorf("round trip for %s (-want +got):\n%s", d, diff)
		}
	}
}

func TestWeekdayTimeFixedPoints(t *testing.T) {
	tests := []struct {
		in   Weekday
		want time.Weekday
	}{
		{Monday, time.Monday},
		{Thursday, time.Thursday},
		{Saturday, time.Saturday},
		{Sunday, time.Sunday},
	}
	for _, tt := range tests {
		if got := tt.in.Time(); got != tt.want {
			t.Errorf("%s.Time() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in     string
		want   Weekday
		wantOK bool
	}{
		{"Monday", Monday, true},
		{"MONDAY", Monday, true},
		{"mon", Monday, true},
		{"Thu", Thursday, true},
		{"thursday", Thursday, true},
		{"  sunday ", Sunday, true},
		{"Sun", Sunday, true},
		{"noday", 0, false},
		{"", 0, false},
		{"mondays", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseWeekday(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseWeekday(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNotificationRecordSchedulable(t *testing.T) {
	inert := NotificationRecord{TimeOfDay: "08:00"}
	if inert.Schedulable() {
		t.Error("record with no day information should not be schedulable")
	}
	weekly := NotificationRecord{TimeOfDay: "08:00", SelectedDays: []Weekday{Monday}}
	if !weekly.Schedulable() {
		t.Error("record with selected days should be schedulable")
	}
	trial := NotificationRecord{TimeOfDay: "08:00", TrialDay: 2}
	if !trial.Schedulable() {
		t.Error("record with a trial day should be schedulable")
	}
}

func TestNotificationRecordClock(t *testing.T) {
	r := NotificationRecord{TimeOfDay: "18:30"}
	h, m, err := r.Clock()
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	if h != 18 || m != 30 {
		t.Errorf("Clock() = (%d, %d), want (18, 30)", h, m)
	}

	bad := NotificationRecord{TimeOfDay: "late"}
	if _, _, err := bad.Clock(); err == nil {
		t.Error("expected error for unparseable time of day")
	}
}
