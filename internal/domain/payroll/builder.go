package payroll

import (
	"context"
	"fmt"
)

// Builder assembles draft payroll records for a period. Building is a pure
// read over the collaborator stores: it writes nothing and always reflects
// the attendance data as of the call.
type Builder struct {
	sources Sources
	agg     *Aggregator
	diff    *DifferentialCalculator
	tax     *TaxCalculator
	rules   *Rules
}

func NewBuilder(sources Sources, rules *Rules) *Builder {
	return &Builder{
		sources: sources,
		agg:     NewAggregator(sources.Attendance, rules),
		diff:    NewDifferentialCalculator(rules),
		tax:     NewTaxCalculator(rules.Tax),
		rules:   rules,
	}
}

// BuildAll drafts a record for every active caregiver with payable activity
// in the period. Caregivers with zero worked and zero PTO hours are simply
// absent from the result.
func (b *Builder) BuildAll(ctx context.Context, period Period) ([]Record, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	caregivers, err := b.sources.Employees.ListActiveCaregivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caregivers: %w", err)
	}

	records := make([]Record, 0, len(caregivers))
	for _, caregiver := range caregivers {
		record, payable, err := b.Build(ctx, caregiver, period)
		if err != nil {
			return nil, err
		}
		if payable {
			records = append(records, record)
		}
	}
	return records, nil
}

// Build drafts one caregiver's record. The second return is false when the
// caregiver has no payable activity for the period.
func (b *Builder) Build(ctx context.Context, caregiver Caregiver, period Period) (Record, bool, error) {
	totals, err := b.agg.Aggregate(ctx, caregiver.ID, period)
	if err != nil {
		return Record{}, false, fmt.Errorf("aggregate caregiver %s: %w", caregiver.ID, err)
	}

	ptoHours, err := b.ptoHours(ctx, caregiver.ID, period)
	if err != nil {
		return Record{}, false, fmt.Errorf("pto hours caregiver %s: %w", caregiver.ID, err)
	}

	if totals.TotalMinutes == 0 && ptoHours == 0 {
		return Record{}, false, nil
	}

	mileage, err := b.sources.Mileage.TotalMileage(ctx, caregiver.ID, period)
	if err != nil {
		return Record{}, false, fmt.Errorf("mileage caregiver %s: %w", caregiver.ID, err)
	}

	regularMinutes, overtimeMinutes := b.diff.Split(totals.Shifts)
	rate := caregiver.EffectiveRate()

	regularHours := float64(regularMinutes) / 60
	overtimeHours := float64(overtimeMinutes) / 60

	regularPay := regularHours * rate
	overtimePay := overtimeHours * rate * b.diff.Multiplier()
	ptoPay := ptoHours * rate
	gross := roundCents(regularPay + overtimePay + ptoPay)

	withholding := b.tax.Withhold(gross)
	deductions := withholding.Total()

	record := Record{
		CaregiverID:       caregiver.ID,
		Period:            period,
		HourlyRate:        rate,
		RegularHours:      regularHours,
		OvertimeHours:     overtimeHours,
		WeekendHours:      float64(totals.WeekendMinutes) / 60,
		NightHours:        float64(totals.NightMinutes) / 60,
		PTOHours:          ptoHours,
		Mileage:           mileage,
		GrossPay:          gross,
		FederalTax:        withholding.Federal,
		SocialSecurityTax: withholding.SocialSecurity,
		MedicareTax:       withholding.Medicare,
		OtherDeductions:   0,
		TotalDeductions:   deductions,
		NetPay:            roundCents(gross - deductions),
		Status:            StatusDraft,
	}
	return record, true, nil
}

// ptoHours sums approved, paid time-off inside the period. Requests without
// recorded hours fall back to their inclusive day span at the configured
// hours per day.
func (b *Builder) ptoHours(ctx context.Context, caregiverID string, period Period) (float64, error) {
	requests, err := b.sources.TimeOff.ListApprovedPTO(ctx, caregiverID, period)
	if err != nil {
		return 0, err
	}

	hours := 0.0
	for _, req := range requests {
		if req.Status != TimeOffStatusApproved || req.Type == TimeOffTypeUnpaid {
			continue
		}
		if req.StartDate.Before(period.Start) || req.EndDate.After(period.End) {
			continue
		}
		if req.Hours > 0 {
			hours += req.Hours
			continue
		}
		days := req.EndDate.Sub(req.StartDate).Hours()/24 + 1
		hours += days * b.rules.PTODayHours
	}
	return hours, nil
}
