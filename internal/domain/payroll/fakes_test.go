package payroll

import (
	"context"
	"sort"
	"sync"
	"time"
)

type fakeAttendance struct {
	entries []TimeEntry
}

func (f *fakeAttendance) ListCompleted(_ context.Context, caregiverID string, period Period) ([]TimeEntry, error) {
	var out []TimeEntry
	for _, entry := range f.entries {
		if entry.CaregiverID == caregiverID && entry.Completed && period.Contains(entry.StartAt) {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	caregivers map[string]Caregiver
}

func (f *fakeEmployees) GetCaregiver(_ context.Context, caregiverID string) (Caregiver, error) {
	caregiver, ok := f.caregivers[caregiverID]
	if !ok {
		return Caregiver{}, ErrNotFound
	}
	return caregiver, nil
}

func (f *fakeEmployees) ListActiveCaregivers(_ context.Context) ([]Caregiver, error) {
	var out []Caregiver
	for _, caregiver := range f.caregivers {
		if caregiver.Active {
			out = append(out, caregiver)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTimeOff struct {
	requests []PTORequest
}

func (f *fakeTimeOff) ListApprovedPTO(_ context.Context, caregiverID string, period Period) ([]PTORequest, error) {
	var out []PTORequest
	for _, req := range f.requests {
		if req.CaregiverID != caregiverID || req.Status != TimeOffStatusApproved || req.Type == TimeOffTypeUnpaid {
			continue
		}
		if req.StartDate.Before(period.Start) || req.EndDate.After(period.End) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

type fakeMileage struct {
	miles map[string]float64
}

func (f *fakeMileage) TotalMileage(_ context.Context, caregiverID string, _ Period) (float64, error) {
	return f.miles[caregiverID], nil
}

type fixture struct {
	attendance *fakeAttendance
	employees  *fakeEmployees
	timeOff    *fakeTimeOff
	mileage    *fakeMileage
	rules      Rules
}

func newFixture() *fixture {
	rules := DefaultRules()
	rules.Timezone = "UTC"
	return &fixture{
		attendance: &fakeAttendance{},
		employees:  &fakeEmployees{caregivers: map[string]Caregiver{}},
		timeOff:    &fakeTimeOff{},
		mileage:    &fakeMileage{miles: map[string]float64{}},
		rules:      rules,
	}
}

func (f *fixture) sources() Sources {
	return Sources{Attendance: f.attendance, Employees: f.employees, TimeOff: f.timeOff, Mileage: f.mileage}
}

func (f *fixture) builder() *Builder {
	return NewBuilder(f.sources(), &f.rules)
}

func (f *fixture) addShift(caregiverID string, start time.Time, minutes int) {
	f.attendance.entries = append(f.attendance.entries, TimeEntry{
		ID:              "entry-" + start.Format("0102-1504"),
		CaregiverID:     caregiverID,
		ClientID:        "client-1",
		StartAt:         start,
		DurationMinutes: &minutes,
		Completed:       true,
	})
}

// memRepo mirrors the Postgres store's transition guarantees with a mutex and
// an in-memory check counter.
type memRepo struct {
	mu        sync.Mutex
	records   map[string]Record
	lastCheck int64
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]Record{}, lastCheck: 1000}
}

func (r *memRepo) Find(_ context.Context, caregiverID string, period Period) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.CaregiverID == caregiverID && record.Period.Start.Equal(period.Start) && record.Period.End.Equal(period.End) {
			return record, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *memRepo) FindCurrent(_ context.Context, caregiverID string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current Record
	found := false
	for _, record := range r.records {
		if record.CaregiverID != caregiverID {
			continue
		}
		if !found || record.Period.Start.After(current.Period.Start) {
			current = record
			found = true
		}
	}
	if !found {
		return Record{}, ErrNotFound
	}
	return current, nil
}

func (r *memRepo) List(_ context.Context, filter RecordFilter, limit, offset int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, record := range r.records {
		if filter.Matches(record) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.After(out[j].Period.Start) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Count(_ context.Context, filter RecordFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, record := range r.records {
		if filter.Matches(record) {
			total++
		}
	}
	return total, nil
}

func (r *memRepo) CreateApproved(_ context.Context, record Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.CaregiverID == record.CaregiverID && existing.Period.Start.Equal(record.Period.Start) && existing.Period.End.Equal(record.Period.End) {
			return Record{}, ErrConcurrencyConflict
		}
	}
	record.Status = StatusApproved
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	r.records[record.ID] = record
	return record, nil
}

func (r *memRepo) MarkProcessed(_ context.Context, recordID, actorID string, at time.Time) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if record.Status != StatusApproved {
		return Record{}, ErrConcurrencyConflict
	}
	r.lastCheck++
	check := r.lastCheck
	record.Status = StatusProcessed
	record.ProcessedBy = &actorID
	record.ProcessedAt = &at
	record.CheckNumber = &check
	record.UpdatedAt = at
	r.records[recordID] = record
	return record, nil
}

func (r *memRepo) MarkPaid(_ context.Context, recordID, actorID, paymentMethod string, at time.Time) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if record.Status != StatusProcessed {
		return Record{}, ErrConcurrencyConflict
	}
	record.Status = StatusPaid
	record.PaidBy = &actorID
	record.PaidAt = &at
	record.PaymentMethod = paymentMethod
	record.UpdatedAt = at
	r.records[recordID] = record
	return record, nil
}

func (r *memRepo) Summary(_ context.Context, period Period) (PeriodSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var summary PeriodSummary
	for _, record := range r.records {
		if record.Period.Start.Equal(period.Start) && record.Period.End.Equal(period.End) {
			summary.TotalGross += record.GrossPay
			summary.TotalDeductions += record.TotalDeductions
			summary.TotalNet += record.NetPay
			summary.RecordCount++
		}
	}
	return summary, nil
}
