package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Aggregator sums a caregiver's completed attendance into period totals,
// tagging the weekend and night minutes the register reports as differential
// metadata.
type Aggregator struct {
	entries AttendanceStore
	rules   *Rules
}

func NewAggregator(entries AttendanceStore, rules *Rules) *Aggregator {
	return &Aggregator{entries: entries, rules: rules}
}

// Aggregate returns the period totals for one caregiver. Incomplete entries
// and entries with no recorded duration contribute nothing; a negative
// duration is a data fault and fails the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, caregiverID string, period Period) (Totals, error) {
	entries, err := a.entries.ListCompleted(ctx, caregiverID, period)
	if err != nil {
		return Totals{}, err
	}

	loc := a.rules.Location()
	var totals Totals
	for _, entry := range entries {
		if !entry.Completed || entry.DurationMinutes == nil {
			continue
		}
		minutes := *entry.DurationMinutes
		if minutes < 0 {
			return Totals{}, fmt.Errorf("%w: time entry %s has negative duration %d", ErrComputation, entry.ID, minutes)
		}
		if minutes == 0 {
			continue
		}

		start := entry.StartAt.In(loc)
		totals.TotalMinutes += minutes
		if isWeekend(start) {
			totals.WeekendMinutes += minutes
		}
		if a.isNight(start) {
			totals.NightMinutes += minutes
		}
		totals.Shifts = append(totals.Shifts, Shift{Start: start, Minutes: minutes})
	}

	sort.Slice(totals.Shifts, func(i, j int) bool {
		return totals.Shifts[i].Start.Before(totals.Shifts[j].Start)
	})
	return totals, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// isNight tags entries starting inside the configured night window. The
// window wraps midnight when the start hour is later than the end hour.
func (a *Aggregator) isNight(t time.Time) bool {
	h := t.Hour()
	start, end := a.rules.NightStartHour, a.rules.NightEndHour
	if start <= end {
		return h >= start && h < end
	}
	return h >= start || h < end
}
