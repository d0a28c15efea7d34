package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/timeclock/internal/core/cpf"
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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200

	// maxCodeAttempts はコード衝突時の再生成回数の上限です。
	maxCodeAttempts = 5
)

// Service は従業員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	clock  Clock
	tx     TransactionManager
	random RandomSource
}

// UseCase は従業員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	GetEmployeeByCode(ctx context.Context, code string) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	TerminateEmployee(ctx context.Context, in TerminateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, random RandomSource) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if random == nil {
		random = mathRandSource{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, random: random}
}

// CreateEmployeeInput は従業員作成時の入力です。
type CreateEmployeeInput struct {
	Name         string
	CPF          string
	HiredAt      time.Time
	TerminatedAt *time.Time
}

// UpdateEmployeeInput は従業員更新時の入力です。
// CPF と Code は更新対象外です。
type UpdateEmployeeInput struct {
	ID              string
	Name            *string
	HiredAt         *time.Time
	TerminatedAt    *time.Time
	TerminatedAtSet bool
}

// TerminateEmployeeInput は従業員退職処理の入力です。
// At が nil の場合は現在時刻の日付が使われます。
type TerminateEmployeeInput struct {
	ID string
	At *time.Time
}

// DeleteEmployeeInput は従業員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は従業員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	PageSize  int
	PageToken string
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateEmployee は新しい従業員を登録します。
// CPF を検証・正規化し、一意な従業員コードを採番します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if !cpf.Valid(in.CPF) {
		return nil, ErrInvalidCPF
	}
	normalizedCPF := cpf.Normalize(in.CPF)

	if in.HiredAt.IsZero() {
		return nil, ErrInvalidHiredAt
	}
	hiredAt := normalizeDate(in.HiredAt)
	terminatedAt := normalizeDatePtr(in.TerminatedAt)

	if err := validateEmploymentPeriod(hiredAt, terminatedAt); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsByCPF(txCtx, normalizedCPF)
		if err != nil {
			return err
		}
		if exists {
			return ErrCPFAlreadyExists
		}

		code, err := s.pickUnusedCode(txCtx)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		emp := &Employee{
			Name:         name,
			CPF:          normalizedCPF,
			Code:         code,
			HiredAt:      hiredAt,
			TerminatedAt: cloneTime(terminatedAt),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は従業員情報を更新します。CPF とコードは変更できません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.HiredAt != nil {
			if in.HiredAt.IsZero() {
				return ErrInvalidHiredAt
			}
			existing.HiredAt = normalizeDate(*in.HiredAt)
		}

		if in.TerminatedAtSet {
			existing.TerminatedAt = cloneTime(normalizeDatePtr(in.TerminatedAt))
		}

		if err := validateEmploymentPeriod(existing.HiredAt, existing.TerminatedAt); err != nil {
			return err
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// TerminateEmployee は従業員の退職日を一度だけ記録します。
func (s *Service) TerminateEmployee(ctx context.Context, in TerminateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var terminated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if existing.Terminated() {
			return ErrAlreadyTerminated
		}

		at := s.clock.Now()
		if in.At != nil {
			at = *in.At
		}
		date := normalizeDate(at)

		if err := validateEmploymentPeriod(existing.HiredAt, &date); err != nil {
			return err
		}

		existing.TerminatedAt = &date
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		terminated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return terminated, nil
}

// DeleteEmployee は従業員を削除します。勤怠記録の削除はストア側のカスケードに委ねます。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetEmployee は ID で従業員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetEmployeeByCode は従業員コードで従業員を取得します。
func (s *Service) GetEmployeeByCode(ctx context.Context, code string) (*Employee, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, fmt.Errorf("code: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCode(txCtx, trimmed)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は従業員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListEmployeesFilter{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		employees = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

// pickUnusedCode は未使用の従業員コードが得られるまで再生成します。
func (s *Service) pickUnusedCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateCode(s.random)

		_, err := s.repo.FindByCode(ctx, code)
		if errors.Is(err, ErrEmployeeNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrCodeExhausted
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := normalizeDate(*t)
	return &normalized
}

func validateEmploymentPeriod(hiredAt time.Time, terminatedAt *time.Time) error {
	if terminatedAt == nil {
		return nil
	}
	if terminatedAt.Before(hiredAt) {
		return ErrInvalidDateRange
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
