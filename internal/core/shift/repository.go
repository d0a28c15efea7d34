package shift

import (
	"context"
	"time"
)

// Repository は勤怠記録永続化の抽象です。
//
// 同一従業員・同一日付で EndTime が nil の記録は高々 1 件という不変条件は
// ストア側で保証されます。同時実行下で InsertOpen が一意性制約に当たった
// 場合は ErrShiftAlreadyStarted を返します。
type Repository interface {
	// InsertOpen は勤務中の記録を新規作成します。
	InsertOpen(ctx context.Context, employeeID string, date, startTime time.Time) (*Shift, error)
	// CloseOpen は当日の勤務中記録に退勤時刻を一度だけ記録します。
	// 勤務中の記録が存在しない場合は ErrNoActiveShift を返します。
	CloseOpen(ctx context.Context, employeeID string, date, endTime time.Time) (*Shift, error)
	// FindOpen は当日の勤務中記録を返します。存在しない場合は ErrNoActiveShift を返します。
	FindOpen(ctx context.Context, employeeID string, date time.Time) (*Shift, error)
	// FindByDate は指定日の全記録を StartTime 昇順で返します。
	FindByDate(ctx context.Context, employeeID string, date time.Time) ([]*Shift, error)
	// FindSince は since から until までの全記録を (ShiftDate, StartTime) 昇順で返します。
	FindSince(ctx context.Context, employeeID string, since, until time.Time) ([]*Shift, error)
}
