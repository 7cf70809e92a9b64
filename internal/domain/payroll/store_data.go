package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed Repository. Check numbers come from the
// payroll_check_number_seq sequence, read inside the same transaction as the
// processed transition so issuance and the status change commit together.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
    id, caregiver_id, period_start, period_end,
    hourly_rate, regular_hours, overtime_hours, weekend_hours, night_hours,
    pto_hours, mileage,
    gross_pay, federal_tax, social_security_tax, medicare_tax,
    other_deductions, total_deductions, net_pay,
    status, approved_by, approved_at, processed_by, processed_at,
    paid_by, paid_at, payment_method, check_number,
    created_at, updated_at`

func (s *Store) Find(ctx context.Context, caregiverID string, period Period) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records
    WHERE caregiver_id = $1 AND period_start = $2 AND period_end = $3
  `, caregiverID, period.Start, period.End)
	return scanRecord(row)
}

func (s *Store) FindCurrent(ctx context.Context, caregiverID string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records
    WHERE caregiver_id = $1
    ORDER BY period_start DESC
    LIMIT 1
  `, caregiverID)
	return scanRecord(row)
}

func (s *Store) List(ctx context.Context, filter RecordFilter, limit, offset int) ([]Record, error) {
	query, args := buildRecordQuery("SELECT "+recordColumns, filter)
	query += fmt.Sprintf(" ORDER BY period_start DESC, caregiver_id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter RecordFilter) (int, error) {
	query, args := buildRecordQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CreateApproved(ctx context.Context, record Record) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (
      id, caregiver_id, period_start, period_end,
      hourly_rate, regular_hours, overtime_hours, weekend_hours, night_hours,
      pto_hours, mileage,
      gross_pay, federal_tax, social_security_tax, medicare_tax,
      other_deductions, total_deductions, net_pay,
      status, approved_by, approved_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
    ON CONFLICT (caregiver_id, period_start, period_end) DO NOTHING
    RETURNING `+recordColumns+`
  `,
		record.ID, record.CaregiverID, record.Period.Start, record.Period.End,
		record.HourlyRate, record.RegularHours, record.OvertimeHours, record.WeekendHours, record.NightHours,
		record.PTOHours, record.Mileage,
		record.GrossPay, record.FederalTax, record.SocialSecurityTax, record.MedicareTax,
		record.OtherDeductions, record.TotalDeductions, record.NetPay,
		StatusApproved, record.ApprovedBy, record.ApprovedAt,
	)
	created, err := scanRecord(row)
	if errors.Is(err, ErrNotFound) {
		return Record{}, fmt.Errorf("%w: record already exists for caregiver %s", ErrConcurrencyConflict, record.CaregiverID)
	}
	return created, err
}

func (s *Store) MarkProcessed(ctx context.Context, recordID, actorID string, at time.Time) (Record, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `
    SELECT status FROM payroll_records WHERE id = $1 FOR UPDATE
  `, recordID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if status != StatusApproved {
		return Record{}, fmt.Errorf("%w: cannot process record in status %s", ErrInvalidStateTransition, status)
	}

	var checkNumber int64
	if err := tx.QueryRow(ctx, "SELECT nextval('payroll_check_number_seq')").Scan(&checkNumber); err != nil {
		return Record{}, fmt.Errorf("issue check number: %w", err)
	}

	row := tx.QueryRow(ctx, `
    UPDATE payroll_records
    SET status = $1, processed_by = $2, processed_at = $3, check_number = $4, updated_at = now()
    WHERE id = $5 AND status = $6
    RETURNING `+recordColumns+`
  `, StatusProcessed, actorID, at, checkNumber, recordID, StatusApproved)
	record, err := scanRecord(row)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrConcurrencyConflict
	}
	if err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Store) MarkPaid(ctx context.Context, recordID, actorID, paymentMethod string, at time.Time) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE payroll_records
    SET status = $1, paid_by = $2, paid_at = $3, payment_method = $4, updated_at = now()
    WHERE id = $5 AND status = $6
    RETURNING `+recordColumns+`
  `, StatusPaid, actorID, at, paymentMethod, recordID, StatusProcessed)
	record, err := scanRecord(row)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrConcurrencyConflict
	}
	return record, err
}

func (s *Store) Summary(ctx context.Context, period Period) (PeriodSummary, error) {
	var summary PeriodSummary
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(gross_pay),0), COALESCE(SUM(total_deductions),0), COALESCE(SUM(net_pay),0), COUNT(1)
    FROM payroll_records
    WHERE period_start = $1 AND period_end = $2
  `, period.Start, period.End).Scan(&summary.TotalGross, &summary.TotalDeductions, &summary.TotalNet, &summary.RecordCount)
	return summary, err
}

func buildRecordQuery(prefix string, filter RecordFilter) (string, []any) {
	query := prefix + " FROM payroll_records WHERE 1=1"
	var args []any
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.CaregiverID != "" {
		query += fmt.Sprintf(" AND caregiver_id = $%d", len(args)+1)
		args = append(args, filter.CaregiverID)
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND period_start >= $%d", len(args)+1)
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND period_end <= $%d", len(args)+1)
		args = append(args, filter.To)
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var record Record
	err := row.Scan(
		&record.ID, &record.CaregiverID, &record.Period.Start, &record.Period.End,
		&record.HourlyRate, &record.RegularHours, &record.OvertimeHours, &record.WeekendHours, &record.NightHours,
		&record.PTOHours, &record.Mileage,
		&record.GrossPay, &record.FederalTax, &record.SocialSecurityTax, &record.MedicareTax,
		&record.OtherDeductions, &record.TotalDeductions, &record.NetPay,
		&record.Status, &record.ApprovedBy, &record.ApprovedAt, &record.ProcessedBy, &record.ProcessedAt,
		&record.PaidBy, &record.PaidAt, &record.PaymentMethod, &record.CheckNumber,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrConcurrencyConflict
		}
		return Record{}, err
	}
	return record, nil
}
