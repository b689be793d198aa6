package schedule

import (
	"fmt"
	"time"

	"diet_reminder_bot/internal/model"
)

// MinLeadTime is the smallest allowed delay between "now" and a computed
// fire time. A fire time at or just before now would register as an
// immediate or duplicate fire on the device scheduler.
const MinLeadTime = 5 * time.Second

// trialEndMargin keeps a capped trial reminder clear of the exact expiry
// instant.
const trialEndMargin = time.Hour

// Occurrence is one concrete future timestamp at which a notification fires.
type Occurrence struct {
	FireAt  time.Time
	Repeats bool // weekly re-arm; one-shots are discarded after firing
}

// Options carry the clock context for occurrence computation. Times are
// interpreted in Now's location (device-local time).
type Options struct {
	Now         time.Time
	ExtractedAt time.Time
	TrialEnd    *time.Time
}

// Occurrences computes the next fire time for each day a record applies to.
// A record with several selected days yields one occurrence per day, because
// device schedulers fire on one trigger per registration. Records with no
// day information never belong here; passing one is a caller bug and is
// reported as an error.
func Occurrences(rec model.NotificationRecord, opts Options) ([]Occurrence, error) {
	if !rec.Schedulable() {
		return nil, fmt.Errorf("record %s carries no day information", rec.ID)
	}

	hour, minute, err := rec.Clock()
	if err != nil {
		return nil, err
	}

	if rec.TrialDay > 0 {
		occ := trialOccurrence(rec.TrialDay, hour, minute, opts)
		return []Occurrence{occ}, nil
	}

	occs := make([]Occurrence, 0, len(rec.SelectedDays))
	for _, day := range rec.SelectedDays {
		occs = append(occs, weeklyOccurrence(day, hour, minute, opts.Now))
	}
	return occs, nil
}

// weeklyOccurrence finds the next time-of-day on the requested weekday that
// is comfortably in the future. If today's slot has already passed (or is
// within the minimum lead), the occurrence moves a full week out, which
// preserves the weekday.
func weeklyOccurrence(day model.Weekday, hour, minute int, now time.Time) Occurrence {
	daysUntil := (int(day) - int(model.WeekdayOf(now.Weekday())) + 7) % 7

	fire := time.Date(now.Year(), now.Month(), now.Day()+daysUntil, hour, minute, 0, 0, now.Location())
	if !fire.After(now.Add(MinLeadTime)) {
		fire = fire.AddDate(0, 0, 7)
	}
	return Occurrence{FireAt: fire, Repeats: true}
}

// trialOccurrence targets extraction + N days at the record's time of day:
// trial day 1 fires tomorrow, day 3 three days after extraction. A target
// past the trial's end is capped to one hour before expiry rather than
// silently dropped.
func trialOccurrence(trialDay, hour, minute int, opts Options) Occurrence {
	base := opts.ExtractedAt.AddDate(0, 0, trialDay)
	fire := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())

	if opts.TrialEnd != nil && fire.After(*opts.TrialEnd) {
		fire = opts.TrialEnd.Add(-trialEndMargin)
	}
	if !fire.After(opts.Now.Add(MinLeadTime)) {
		fire = opts.Now.Add(MinLeadTime)
	}
	return Occurrence{FireAt: fire, Repeats: false}
}
