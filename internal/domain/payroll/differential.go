package payroll

import "time"

// DifferentialCalculator splits aggregated shift minutes into regular and
// overtime buckets. The threshold applies per ISO calendar week, not across
// the whole period, so a multi-week period resets its regular capacity every
// Monday.
type DifferentialCalculator struct {
	thresholdMinutes int
	multiplier       float64
}

func NewDifferentialCalculator(rules *Rules) *DifferentialCalculator {
	return &DifferentialCalculator{
		thresholdMinutes: int(rules.WeeklyThresholdHours * 60),
		multiplier:       rules.OvertimeMultiplier,
	}
}

// Multiplier is the overtime pay factor applied to overtime hours.
func (c *DifferentialCalculator) Multiplier() float64 {
	return c.multiplier
}

// Split walks shifts in chronological order keeping a regular-minute
// accumulator per week. A shift that crosses the remaining weekly capacity is
// divided at the boundary rather than falling wholly into either bucket.
func (c *DifferentialCalculator) Split(shifts []Shift) (regularMinutes, overtimeMinutes int) {
	weekAccum := map[weekKey]int{}
	for _, shift := range shifts {
		key := weekOf(shift.Start)
		capacity := c.thresholdMinutes - weekAccum[key]
		if capacity < 0 {
			capacity = 0
		}

		regular := shift.Minutes
		if regular > capacity {
			regular = capacity
		}
		regularMinutes += regular
		overtimeMinutes += shift.Minutes - regular
		weekAccum[key] += shift.Minutes
	}
	return regularMinutes, overtimeMinutes
}

type weekKey struct {
	year int
	week int
}

func weekOf(t time.Time) weekKey {
	year, week := t.ISOWeek()
	return weekKey{year: year, week: week}
}
