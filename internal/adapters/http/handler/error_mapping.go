package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/timeclock/internal/core/employee"
	"github.com/ogurasousui/timeclock/internal/core/shift"
)

// statusFromError はドメインのエラーを HTTP ステータスコードへ写像します。
func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidCPF),
		errors.Is(err, employee.ErrInvalidHiredAt),
		errors.Is(err, employee.ErrInvalidDateRange),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, shift.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrCPFAlreadyExists),
		errors.Is(err, employee.ErrCodeAlreadyExists),
		errors.Is(err, employee.ErrAlreadyTerminated),
		errors.Is(err, shift.ErrShiftAlreadyStarted),
		errors.Is(err, shift.ErrNoActiveShift):
		return http.StatusConflict
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, shift.ErrNoShiftsToday),
		errors.Is(err, shift.ErrNoPastShifts):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// 内部エラーの詳細はクライアントへ返しません。
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}
