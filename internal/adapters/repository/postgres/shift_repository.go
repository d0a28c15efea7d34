package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/timeclock/internal/core/employee"
	"github.com/ogurasousui/timeclock/internal/core/shift"
	pgdb "github.com/ogurasousui/timeclock/internal/platform/db/postgres"
)

// ShiftRepository は PostgreSQL を利用した勤怠記録永続化の実装です。
//
// 勤務中記録の一意性は shifts_one_open_per_day 部分一意インデックスで
// 保証され、違反は ErrShiftAlreadyStarted に写像されます。
type ShiftRepository struct {
	pool pgdb.Queryer
}

// NewShiftRepository は ShiftRepository を生成します。
func NewShiftRepository(pool pgdb.Queryer) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// InsertOpen は勤務中の記録を新規作成します。
func (r *ShiftRepository) InsertOpen(ctx context.Context, employeeID string, date, startTime time.Time) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO shifts (id, employee_id, start_time, end_time, shift_date, created_at)
        VALUES ($1, $2, $3, NULL, $4, $5)
        RETURNING id, employee_id, start_time, end_time, shift_date, created_at
    `,
		uuid.NewString(),
		employeeID,
		startTime,
		date,
		startTime,
	)

	created, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return created, nil
}

// CloseOpen は当日の勤務中記録に退勤時刻を記録します。
func (r *ShiftRepository) CloseOpen(ctx context.Context, employeeID string, date, endTime time.Time) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE shifts
           SET end_time = $1
         WHERE employee_id = $2
           AND shift_date = $3
           AND end_time IS NULL
        RETURNING id, employee_id, start_time, end_time, shift_date, created_at
    `, endTime, employeeID, date)

	closed, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrNoActiveShift
		}
		return nil, translateShiftPgError(err)
	}
	return closed, nil
}

// FindOpen は当日の勤務中記録を取得します。
func (r *ShiftRepository) FindOpen(ctx context.Context, employeeID string, date time.Time) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, employee_id, start_time, end_time, shift_date, created_at
          FROM shifts
         WHERE employee_id = $1
           AND shift_date = $2
           AND end_time IS NULL
         LIMIT 1
    `, employeeID, date)

	found, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrNoActiveShift
		}
		return nil, translateShiftPgError(err)
	}
	return found, nil
}

// FindByDate は指定日の全記録を出勤時刻の昇順で取得します。
func (r *ShiftRepository) FindByDate(ctx context.Context, employeeID string, date time.Time) ([]*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, start_time, end_time, shift_date, created_at
          FROM shifts
         WHERE employee_id = $1
           AND shift_date = $2
         ORDER BY start_time ASC
    `, employeeID, date)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

// FindSince は since から until までの全記録を日付・出勤時刻の昇順で取得します。
func (r *ShiftRepository) FindSince(ctx context.Context, employeeID string, since, until time.Time) ([]*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, start_time, end_time, shift_date, created_at
          FROM shifts
         WHERE employee_id = $1
           AND shift_date >= $2
           AND shift_date <= $3
         ORDER BY shift_date ASC, start_time ASC
    `, employeeID, since, until)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

func collectShifts(rows pgx.Rows) ([]*shift.Shift, error) {
	var shifts []*shift.Shift
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, translateShiftPgError(err)
		}
		shifts = append(shifts, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, translateShiftPgError(err)
	}

	return shifts, nil
}

func scanShift(row pgx.Row) (*shift.Shift, error) {
	var (
		id         string
		employeeID string
		startTime  time.Time
		endTime    sql.NullTime
		shiftDate  time.Time
		createdAt  time.Time
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&startTime,
		&endTime,
		&shiftDate,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var endPtr *time.Time
	if endTime.Valid {
		end := endTime.Time.UTC()
		endPtr = &end
	}

	return &shift.Shift{
		ID:         id,
		EmployeeID: employeeID,
		StartTime:  startTime.UTC(),
		EndTime:    endPtr,
		ShiftDate:  toUTCDate(shiftDate),
		CreatedAt:  createdAt.UTC(),
	}, nil
}

func translateShiftPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return shift.ErrShiftAlreadyStarted
		case fkViolationCode:
			return employee.ErrEmployeeNotFound
		}
	}

	return err
}
