package payroll

import (
	"context"
	"time"
)

// Repository is the persistence boundary for payroll records. Transition
// methods must be atomic: the status precondition, the stamp, and (for
// MarkProcessed) the check-number issuance either all commit or none do, and
// a losing concurrent transition observes ErrInvalidStateTransition or
// ErrConcurrencyConflict.
type Repository interface {
	// Find returns the persisted record for the caregiver and period, or
	// ErrNotFound.
	Find(ctx context.Context, caregiverID string, period Period) (Record, error)
	// FindCurrent returns the caregiver's most recent record by period start,
	// or ErrNotFound.
	FindCurrent(ctx context.Context, caregiverID string) (Record, error)
	List(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, error)
	Count(ctx context.Context, filter RecordFilter) (int, error)
	// CreateApproved persists a frozen draft as approved. A record already
	// existing for the caregiver/period fails with ErrConcurrencyConflict.
	CreateApproved(ctx context.Context, record Record) (Record, error)
	// MarkProcessed advances an approved record to processed and assigns the
	// next check number in the same transaction.
	MarkProcessed(ctx context.Context, recordID, actorID string, at time.Time) (Record, error)
	// MarkPaid advances a processed record to paid.
	MarkPaid(ctx context.Context, recordID, actorID, paymentMethod string, at time.Time) (Record, error)
	Summary(ctx context.Context, period Period) (PeriodSummary, error)
}

// AttendanceStore reads completed time entries from the scheduling subsystem.
type AttendanceStore interface {
	ListCompleted(ctx context.Context, caregiverID string, period Period) ([]TimeEntry, error)
}

// EmployeeStore reads the caregiver master.
type EmployeeStore interface {
	GetCaregiver(ctx context.Context, caregiverID string) (Caregiver, error)
	ListActiveCaregivers(ctx context.Context) ([]Caregiver, error)
}

// TimeOffStore reads approved, paid time-off requests whose range falls fully
// inside the period.
type TimeOffStore interface {
	ListApprovedPTO(ctx context.Context, caregiverID string, period Period) ([]PTORequest, error)
}

// MileageStore reads the caregiver's mileage total for the period.
type MileageStore interface {
	TotalMileage(ctx context.Context, caregiverID string, period Period) (float64, error)
}

// Sources bundles the external collaborators the builder reads from.
type Sources struct {
	Attendance AttendanceStore
	Employees  EmployeeStore
	TimeOff    TimeOffStore
	Mileage    MileageStore
}
