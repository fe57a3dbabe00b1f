package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightsmile/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// exclusionViolation is raised by the no-overlap constraint on appointments.
const exclusionViolation = "23P01"

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

const apptCols = `id, patient_id, dentist_id, procedure_id, appointment_date, start_time, end_time, status, notes, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DentistID, &a.ProcedureID, &a.Date,
		&a.StartTime, &a.EndTime, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "scan appointment", Err: err}
	}
	return &a, nil
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "read appointments", Err: err}
	}
	return items, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, dentist_id, procedure_id, appointment_date, start_time, end_time, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DentistID, a.ProcedureID, a.Date, a.StartTime, a.EndTime, a.Status, a.Notes)
	if isExclusionViolation(err) {
		return &ConflictError{}
	}
	if err != nil {
		return &StorageError{Op: "insert appointment", Err: err}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET dentist_id=$2, procedure_id=$3, appointment_date=$4, start_time=$5, end_time=$6, status=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DentistID, a.ProcedureID, a.Date, a.StartTime, a.EndTime, a.Status, a.Notes)
	if isExclusionViolation(err) {
		return &ConflictError{}
	}
	if err != nil {
		return &StorageError{Op: "update appointment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return &StorageError{Op: "delete appointment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	q := r.conn(ctx)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, &StorageError{Op: "count appointments", Err: err}
	}
	rows, err := q.Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC, start_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, &StorageError{Op: "list appointments", Err: err}
	}
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByDentist(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE dentist_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`, dentistID, from, to)
	if err != nil {
		return nil, &StorageError{Op: "list appointments", Err: err}
	}
	return r.collect(rows)
}

func (r *repoPG) FindConflicts(ctx context.Context, dentistID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE dentist_id = $1
		  AND status IN ('scheduled','confirmed','completed')
		  AND start_time < $3 AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time`,
		dentistID, start, end, excludeID)
	if err != nil {
		return nil, &StorageError{Op: "find conflicts", Err: err}
	}
	return r.collect(rows)
}

func (r *repoPG) BookedStartTimes(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT start_time FROM appointments
		WHERE dentist_id = $1
		  AND start_time >= $2 AND start_time < $3
		  AND status IN ('scheduled','confirmed','completed')
		ORDER BY start_time`, dentistID, from, to)
	if err != nil {
		return nil, &StorageError{Op: "booked start times", Err: err}
	}
	defer rows.Close()
	var starts []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, &StorageError{Op: "booked start times", Err: err}
		}
		starts = append(starts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "booked start times", Err: err}
	}
	return starts, nil
}
