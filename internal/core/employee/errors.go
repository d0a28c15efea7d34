package employee

import "errors"

var (
	ErrInvalidID         = errors.New("employee: invalid id")
	ErrInvalidName       = errors.New("employee: invalid name")
	ErrInvalidCPF        = errors.New("employee: invalid cpf")
	ErrInvalidHiredAt    = errors.New("employee: invalid hired at")
	ErrInvalidDateRange  = errors.New("employee: invalid employment period")
	ErrInvalidPageSize   = errors.New("employee: invalid page size")
	ErrInvalidPageToken  = errors.New("employee: invalid page token")
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrCPFAlreadyExists  = errors.New("employee: cpf already registered")
	ErrCodeAlreadyExists = errors.New("employee: code already exists")
	ErrCodeExhausted     = errors.New("employee: could not generate unique code")
	ErrAlreadyTerminated = errors.New("employee: already terminated")
)
