package payroll

import (
	"testing"
	"time"
)

func weekdayShifts(start time.Time, days int, minutesEach int) []Shift {
	shifts := make([]Shift, 0, days)
	for i := 0; i < days; i++ {
		shifts = append(shifts, Shift{Start: start.AddDate(0, 0, i), Minutes: minutesEach})
	}
	return shifts
}

func TestSplitFortyFiveHourWeek(t *testing.T) {
	rules := DefaultRules()
	calc := NewDifferentialCalculator(&rules)

	// Five 9-hour shifts Monday through Friday: 45 hours.
	shifts := weekdayShifts(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), 5, 540)
	regular, overtime := calc.Split(shifts)
	if regular != 2400 {
		t.Fatalf("expected 2400 regular minutes, got %d", regular)
	}
	if overtime != 300 {
		t.Fatalf("expected 300 overtime minutes, got %d", overtime)
	}
}

func TestSplitShiftCrossingThresholdIsDivided(t *testing.T) {
	rules := DefaultRules()
	calc := NewDifferentialCalculator(&rules)

	// Four 9h40m shifts leave 80 minutes of weekly capacity; the fifth shift
	// crosses the boundary mid-shift and is divided there.
	shifts := weekdayShifts(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), 4, 580)
	shifts = append(shifts, Shift{Start: time.Date(2025, 6, 6, 8, 0, 0, 0, time.UTC), Minutes: 180})

	regular, overtime := calc.Split(shifts)
	if regular != 2400 {
		t.Fatalf("expected 2400 regular minutes, got %d", regular)
	}
	if overtime != 100 {
		t.Fatalf("expected 100 overtime minutes, got %d", overtime)
	}
	if regular+overtime != 2500 {
		t.Fatalf("split lost minutes: %d + %d", regular, overtime)
	}
}

func TestSplitThresholdResetsEachWeek(t *testing.T) {
	rules := DefaultRules()
	calc := NewDifferentialCalculator(&rules)

	// 45 hours in week one, 30 hours in week two. Only week one overflows;
	// 75 total hours would all be regular under a single period-wide 80h cap,
	// so this distinguishes weekly reset from period-wide accumulation.
	week1 := weekdayShifts(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), 5, 540)
	week2 := weekdayShifts(time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC), 5, 360)

	regular, overtime := calc.Split(append(week1, week2...))
	if regular != 2400+1800 {
		t.Fatalf("expected 4200 regular minutes, got %d", regular)
	}
	if overtime != 300 {
		t.Fatalf("expected 300 overtime minutes, got %d", overtime)
	}
}

func TestSplitSingleShiftOverThreshold(t *testing.T) {
	rules := DefaultRules()
	rules.WeeklyThresholdHours = 8
	calc := NewDifferentialCalculator(&rules)

	regular, overtime := calc.Split([]Shift{
		{Start: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), Minutes: 600},
	})
	if regular != 480 {
		t.Fatalf("expected 480 regular minutes, got %d", regular)
	}
	if overtime != 120 {
		t.Fatalf("expected 120 overtime minutes, got %d", overtime)
	}
}

func TestSplitEmpty(t *testing.T) {
	rules := DefaultRules()
	calc := NewDifferentialCalculator(&rules)
	regular, overtime := calc.Split(nil)
	if regular != 0 || overtime != 0 {
		t.Fatalf("expected zero split, got %d/%d", regular, overtime)
	}
}
