package shift

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ogurasousui/timeclock/internal/core/employee"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Directory は従業員コードから従業員を解決します。
type Directory interface {
	FindByCode(ctx context.Context, code string) (*employee.Employee, error)
}

// defaultHistorySince は過去実績照会の既定の開始日です。
var defaultHistorySince = time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)

// Service は勤怠のユースケースをまとめます。
// 1 従業員・1 日あたり勤務中の記録は高々 1 件という状態遷移を管理します。
type Service struct {
	directory    Directory
	repo         Repository
	clock        Clock
	tx           TransactionManager
	historySince time.Time
}

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	StartShift(ctx context.Context, code string) (*Shift, error)
	EndShift(ctx context.Context, code string) (*Shift, error)
	HoursToday(ctx context.Context, code string) (*TodayResult, error)
	HoursHistory(ctx context.Context, code string) (*HistoryResult, error)
}

// NewService は Service を生成します。
// historySince がゼロ値の場合は既定の開始日を使います。
func NewService(directory Directory, repo Repository, clock Clock, tx TransactionManager, historySince time.Time) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if historySince.IsZero() {
		historySince = defaultHistorySince
	}
	return &Service{
		directory:    directory,
		repo:         repo,
		clock:        clock,
		tx:           tx,
		historySince: historySince,
	}
}

// TodayResult は当日の勤務時間の集計結果です。
// EndTime は勤務中の記録が残っている間は nil のままです。
type TodayResult struct {
	StartTime   time.Time
	EndTime     *time.Time
	WorkedHours string
}

// HistoryEntry は過去 1 記録分の勤務実績です。
type HistoryEntry struct {
	Date        time.Time
	WorkedHours string
}

// HistoryResult は過去実績の一覧と合計です。
type HistoryResult struct {
	Entries     []HistoryEntry
	TotalWorked string
}

// StartShift は当日の勤務を開始します。
// 勤務中の記録が既にある場合は ErrShiftAlreadyStarted を返します。
// 事前確認をすり抜けた同時実行の挿入もストアの一意性制約で同じ結果に落ちます。
func (s *Service) StartShift(ctx context.Context, code string) (*Shift, error) {
	trimmed, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var started *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.directory.FindByCode(txCtx, trimmed)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		today := dateOf(now)

		_, err = s.repo.FindOpen(txCtx, emp.ID, today)
		if err == nil {
			return ErrShiftAlreadyStarted
		}
		if !errors.Is(err, ErrNoActiveShift) {
			return err
		}

		created, err := s.repo.InsertOpen(txCtx, emp.ID, today, now)
		if err != nil {
			return err
		}

		started = created
		return nil
	}); err != nil {
		return nil, err
	}

	return started, nil
}

// EndShift は当日の勤務中記録に退勤時刻を記録します。
func (s *Service) EndShift(ctx context.Context, code string) (*Shift, error) {
	trimmed, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var closed *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.directory.FindByCode(txCtx, trimmed)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.CloseOpen(txCtx, emp.ID, dateOf(now), now)
		if err != nil {
			return err
		}

		closed = result
		return nil
	}); err != nil {
		return nil, err
	}

	return closed, nil
}

// HoursToday は当日の勤務時間を集計します。
// 開始は最初の記録の出勤時刻、終了は最後の記録の退勤時刻です。
// 勤務中の記録が残っている場合、勤務時間は現在時刻まで、EndTime は nil です。
func (s *Service) HoursToday(ctx context.Context, code string) (*TodayResult, error) {
	trimmed, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var result *TodayResult
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.directory.FindByCode(txCtx, trimmed)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		shifts, err := s.repo.FindByDate(txCtx, emp.ID, dateOf(now))
		if err != nil {
			return err
		}
		if len(shifts) == 0 {
			return ErrNoShiftsToday
		}

		start := shifts[0].StartTime
		open := false
		var latestEnd time.Time
		for _, rec := range shifts {
			if rec.StartTime.Before(start) {
				start = rec.StartTime
			}
			if rec.EndTime == nil {
				open = true
				continue
			}
			if rec.EndTime.After(latestEnd) {
				latestEnd = *rec.EndTime
			}
		}

		end := now
		var endPtr *time.Time
		if !open {
			end = latestEnd
			endValue := latestEnd
			endPtr = &endValue
		}

		result = &TodayResult{
			StartTime:   start,
			EndTime:     endPtr,
			WorkedHours: FormatDuration(end.Sub(start)),
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// HoursHistory は設定された開始日から現在までの勤務実績を記録ごとに返します。
func (s *Service) HoursHistory(ctx context.Context, code string) (*HistoryResult, error) {
	trimmed, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var result *HistoryResult
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.directory.FindByCode(txCtx, trimmed)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		shifts, err := s.repo.FindSince(txCtx, emp.ID, s.historySince, now)
		if err != nil {
			return err
		}
		if len(shifts) == 0 {
			return ErrNoPastShifts
		}

		entries := make([]HistoryEntry, 0, len(shifts))
		for _, rec := range shifts {
			entries = append(entries, HistoryEntry{
				Date:        rec.ShiftDate,
				WorkedHours: FormatDuration(DurationOf(rec, s.clock)),
			})
		}

		result = &HistoryResult{
			Entries:     entries,
			TotalWorked: TotalWorked(shifts, s.clock),
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func normalizeCode(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidCode
	}
	return trimmed, nil
}

// dateOf は時刻を UTC の日付 (0 時) に切り詰めます。
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
