package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Workflow owns the draft → approved → processed → paid lifecycle.
// Transitions only move forward; the repository enforces the status
// precondition atomically so concurrent transitions cannot both advance.
type Workflow struct {
	repo    Repository
	builder *Builder
	now     func() time.Time
}

func NewWorkflow(repo Repository, builder *Builder) *Workflow {
	return &Workflow{repo: repo, builder: builder, now: time.Now}
}

// Calculate drafts records for every caregiver with payable activity in the
// period. It persists nothing and is safe to retry.
func (w *Workflow) Calculate(ctx context.Context, period Period) ([]Record, error) {
	return w.builder.BuildAll(ctx, period)
}

// Approve freezes the caregiver's draft for the period and persists it as
// approved. An already-persisted record (approved or later) rejects the call.
func (w *Workflow) Approve(ctx context.Context, caregiverID string, period Period, actorID string) (Record, error) {
	if err := period.Validate(); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(caregiverID) == "" || strings.TrimSpace(actorID) == "" {
		return Record{}, fmt.Errorf("%w: caregiver and actor are required", ErrValidation)
	}

	if _, err := w.repo.Find(ctx, caregiverID, period); err == nil {
		return Record{}, fmt.Errorf("%w: record already approved for caregiver %s", ErrInvalidStateTransition, caregiverID)
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	caregiver, err := w.builder.sources.Employees.GetCaregiver(ctx, caregiverID)
	if err != nil {
		return Record{}, err
	}

	record, payable, err := w.builder.Build(ctx, caregiver, period)
	if err != nil {
		return Record{}, err
	}
	if !payable {
		return Record{}, fmt.Errorf("%w: caregiver %s has no payable activity", ErrNotFound, caregiverID)
	}

	now := w.now().UTC()
	record.ID = uuid.NewString()
	record.Status = StatusApproved
	record.ApprovedBy = &actorID
	record.ApprovedAt = &now

	return w.repo.CreateApproved(ctx, record)
}

// Process advances the caregiver's current approved record to processed,
// issuing its check number.
func (w *Workflow) Process(ctx context.Context, caregiverID, actorID string) (Record, error) {
	if strings.TrimSpace(caregiverID) == "" || strings.TrimSpace(actorID) == "" {
		return Record{}, fmt.Errorf("%w: caregiver and actor are required", ErrValidation)
	}

	record, err := w.repo.FindCurrent(ctx, caregiverID)
	if err != nil {
		return Record{}, err
	}
	if record.Status != StatusApproved {
		return Record{}, fmt.Errorf("%w: cannot process record in status %s", ErrInvalidStateTransition, record.Status)
	}

	return w.repo.MarkProcessed(ctx, record.ID, actorID, w.now().UTC())
}

// MarkPaid stamps the caregiver's processed record as paid.
func (w *Workflow) MarkPaid(ctx context.Context, caregiverID, actorID, paymentMethod string) (Record, error) {
	if strings.TrimSpace(caregiverID) == "" || strings.TrimSpace(actorID) == "" {
		return Record{}, fmt.Errorf("%w: caregiver and actor are required", ErrValidation)
	}
	if !validPaymentMethod(paymentMethod) {
		return Record{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}

	record, err := w.repo.FindCurrent(ctx, caregiverID)
	if err != nil {
		return Record{}, err
	}
	if record.Status != StatusProcessed {
		return Record{}, fmt.Errorf("%w: cannot mark paid record in status %s", ErrInvalidStateTransition, record.Status)
	}

	return w.repo.MarkPaid(ctx, record.ID, actorID, paymentMethod, w.now().UTC())
}
