package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceStore adapts the agency schema to the collaborator interfaces the
// builder reads from. Attendance, the employee master, time off, and mileage
// are owned by other subsystems; this store only ever selects from them.
type SourceStore struct {
	DB *pgxpool.Pool
}

func NewSourceStore(db *pgxpool.Pool) *SourceStore {
	return &SourceStore{DB: db}
}

// NewSources bundles one SourceStore behind every collaborator interface.
func NewSources(db *pgxpool.Pool) Sources {
	store := NewSourceStore(db)
	return Sources{Attendance: store, Employees: store, TimeOff: store, Mileage: store}
}

func (s *SourceStore) ListCompleted(ctx context.Context, caregiverID string, period Period) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, caregiver_id, client_id, start_at, end_at, duration_minutes, completed
    FROM time_entries
    WHERE caregiver_id = $1
      AND completed = true
      AND start_at >= $2
      AND start_at < $3
    ORDER BY start_at
  `, caregiverID, period.Start, period.Bound())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var entry TimeEntry
		if err := rows.Scan(&entry.ID, &entry.CaregiverID, &entry.ClientID, &entry.StartAt, &entry.EndAt, &entry.DurationMinutes, &entry.Completed); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SourceStore) GetCaregiver(ctx context.Context, caregiverID string) (Caregiver, error) {
	var caregiver Caregiver
	err := s.DB.QueryRow(ctx, `
    SELECT id, active, hourly_rate, hourly_rate_override
    FROM caregivers
    WHERE id = $1
  `, caregiverID).Scan(&caregiver.ID, &caregiver.Active, &caregiver.HourlyRate, &caregiver.RateOverride)
	if errors.Is(err, pgx.ErrNoRows) {
		return Caregiver{}, ErrNotFound
	}
	return caregiver, err
}

func (s *SourceStore) ListActiveCaregivers(ctx context.Context) ([]Caregiver, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, active, hourly_rate, hourly_rate_override
    FROM caregivers
    WHERE active = true
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var caregivers []Caregiver
	for rows.Next() {
		var caregiver Caregiver
		if err := rows.Scan(&caregiver.ID, &caregiver.Active, &caregiver.HourlyRate, &caregiver.RateOverride); err != nil {
			return nil, err
		}
		caregivers = append(caregivers, caregiver)
	}
	return caregivers, rows.Err()
}

func (s *SourceStore) ListApprovedPTO(ctx context.Context, caregiverID string, period Period) ([]PTORequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, caregiver_id, type, hours, start_date, end_date, status
    FROM time_off_requests
    WHERE caregiver_id = $1
      AND status = $2
      AND type <> $3
      AND start_date >= $4
      AND end_date <= $5
    ORDER BY start_date
  `, caregiverID, TimeOffStatusApproved, TimeOffTypeUnpaid, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []PTORequest
	for rows.Next() {
		var req PTORequest
		if err := rows.Scan(&req.ID, &req.CaregiverID, &req.Type, &req.Hours, &req.StartDate, &req.EndDate, &req.Status); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *SourceStore) TotalMileage(ctx context.Context, caregiverID string, period Period) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(miles), 0)
    FROM mileage_entries
    WHERE caregiver_id = $1
      AND entry_date >= $2
      AND entry_date < $3
  `, caregiverID, period.Start, period.Bound()).Scan(&total)
	return total, err
}
