package availability

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

const windowCols = `id, dentist_id, weekday, start_minute, end_minute, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Window, error) {
	var w Window
	var weekday int
	err := row.Scan(&w.ID, &w.DentistID, &weekday, &w.StartMinute, &w.EndMinute, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	w.Weekday = time.Weekday(weekday)
	return &w, err
}

func (r *repoPG) Create(ctx context.Context, w *Window) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dentist_availability (id, dentist_id, weekday, start_minute, end_minute)
		VALUES ($1,$2,$3,$4,$5)`,
		w.ID, w.DentistID, int(w.Weekday), w.StartMinute, w.EndMinute)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Window, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+windowCols+` FROM dentist_availability WHERE id = $1`, id))
}

func (r *repoPG) ListByDentist(ctx context.Context, dentistID uuid.UUID) ([]*Window, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+windowCols+` FROM dentist_availability
		WHERE dentist_id = $1
		ORDER BY weekday, start_minute`, dentistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) ListByDentistWeekday(ctx context.Context, dentistID uuid.UUID, weekday time.Weekday) ([]*Window, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+windowCols+` FROM dentist_availability
		WHERE dentist_id = $1 AND weekday = $2
		ORDER BY start_minute`, dentistID, int(weekday))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Window, error) {
	var items []*Window
	for rows.Next() {
		w, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM dentist_availability WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
