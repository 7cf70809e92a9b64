package payroll

import "errors"

var (
	ErrValidation             = errors.New("invalid payroll input")
	ErrNotFound               = errors.New("payroll record not found")
	ErrInvalidStateTransition = errors.New("payroll record is not in the required status")
	ErrConcurrencyConflict    = errors.New("payroll record was modified by a concurrent request")
	ErrComputation            = errors.New("payroll computation failed")
)
