package payroll

import "time"

// Period is the aggregation window a payroll record covers. Start and End are
// calendar dates; End is inclusive as a date, so the window closes at the end
// of the End day.
type Period struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Bound returns the exclusive upper timestamp of the period.
func (p Period) Bound() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the period window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.Bound())
}

func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ErrValidation
	}
	if p.End.Before(p.Start) {
		return ErrValidation
	}
	return nil
}

// TimeEntry is an attendance record owned by the scheduling subsystem. Only
// completed entries with a known duration contribute to payroll.
type TimeEntry struct {
	ID              string     `json:"id"`
	CaregiverID     string     `json:"caregiverId"`
	ClientID        string     `json:"clientId"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Completed       bool       `json:"completed"`
}

// Shift is a completed time entry reduced to what the overtime split needs:
// when it started and how long it ran.
type Shift struct {
	Start   time.Time
	Minutes int
}

// Totals is the per-caregiver aggregation of one period's attendance.
// Weekend and night minutes are subsets of TotalMinutes, surfaced as
// differential metadata, never added on top.
type Totals struct {
	TotalMinutes   int
	WeekendMinutes int
	NightMinutes   int
	Shifts         []Shift
}

// Caregiver is the slice of the employee master the engine reads.
type Caregiver struct {
	ID           string   `json:"id"`
	Active       bool     `json:"active"`
	HourlyRate   float64  `json:"hourlyRate"`
	RateOverride *float64 `json:"rateOverride,omitempty"`
}

// EffectiveRate returns the override rate when one is set, otherwise the
// agency default.
func (c Caregiver) EffectiveRate() float64 {
	if c.RateOverride != nil {
		return *c.RateOverride
	}
	return c.HourlyRate
}

// PTORequest is an approved time-off request from the time-off subsystem.
type PTORequest struct {
	ID          string    `json:"id"`
	CaregiverID string    `json:"caregiverId"`
	Type        string    `json:"type"`
	Hours       float64   `json:"hours"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"`
}

// Withholding holds the statutory deduction components for one period's
// gross pay.
type Withholding struct {
	Federal        float64 `json:"federalTax"`
	SocialSecurity float64 `json:"socialSecurityTax"`
	Medicare       float64 `json:"medicareTax"`
}

func (w Withholding) Total() float64 {
	return roundCents(w.Federal + w.SocialSecurity + w.Medicare)
}

// Record is the central payroll entity. One exists per (caregiver, period);
// drafts are calculation results and are only persisted once approved.
type Record struct {
	ID          string `json:"id,omitempty"`
	CaregiverID string `json:"caregiverId"`
	Period      Period `json:"period"`

	HourlyRate    float64 `json:"hourlyRate"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	WeekendHours  float64 `json:"weekendHours"`
	NightHours    float64 `json:"nightHours"`
	PTOHours      float64 `json:"ptoHours"`
	Mileage       float64 `json:"mileage"`

	GrossPay          float64 `json:"grossPay"`
	FederalTax        float64 `json:"federalTax"`
	SocialSecurityTax float64 `json:"socialSecurityTax"`
	MedicareTax       float64 `json:"medicareTax"`
	OtherDeductions   float64 `json:"otherDeductions"`
	TotalDeductions   float64 `json:"totalDeductions"`
	NetPay            float64 `json:"netPay"`

	Status        string     `json:"status"`
	ApprovedBy    *string    `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	ProcessedBy   *string    `json:"processedBy,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	PaidBy        *string    `json:"paidBy,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CheckNumber   *int64     `json:"checkNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// TotalHours is the worked-hour total backing the gross computation.
func (r Record) TotalHours() float64 {
	return r.RegularHours + r.OvertimeHours
}

// PeriodSummary totals a period's records for the register view downstream
// exporters read.
type PeriodSummary struct {
	TotalGross      float64 `json:"totalGross"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNet        float64 `json:"totalNet"`
	RecordCount     int     `json:"recordCount"`
}

func roundCents(v float64) float64 {
	if v < 0 {
		return -roundCents(-v)
	}
	cents := int64(v*100 + 0.5)
	return float64(cents) / 100
}
