package payroll

import "time"

// RecordFilter is a typed predicate for listing payroll records. Zero-valued
// fields do not filter.
type RecordFilter struct {
	Status      string
	CaregiverID string
	From        time.Time
	To          time.Time
}

// Matches reports whether the record satisfies every set predicate. The
// SQL store composes the same semantics into WHERE clauses; in-memory
// repositories filter with this directly.
func (f RecordFilter) Matches(record Record) bool {
	if f.Status != "" && record.Status != f.Status {
		return false
	}
	if f.CaregiverID != "" && record.CaregiverID != f.CaregiverID {
		return false
	}
	if !f.From.IsZero() && record.Period.Start.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && record.Period.End.After(f.To) {
		return false
	}
	return true
}
