package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/timeclock/internal/core/employee"
)

const dateLayout = "2006-01-02"

// EmployeeHandler は従業員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type createEmployeeRequest struct {
	Name         string  `json:"name"`
	CPF          string  `json:"cpf"`
	HiredAt      string  `json:"hired_at"`
	TerminatedAt *string `json:"terminated_at"`
}

type updateEmployeeRequest struct {
	Name         *string `json:"name"`
	HiredAt      *string `json:"hired_at"`
	TerminatedAt *string `json:"terminated_at"`
}

type terminateEmployeeRequest struct {
	TerminatedAt *string `json:"terminated_at"`
}

type employeeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CPF          string `json:"cpf"`
	UserCode     string `json:"user_code"`
	HiredAt      string `json:"hired_at"`
	TerminatedAt string `json:"terminated_at,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type listEmployeesResponse struct {
	Employees     []employeeResponse `json:"employees"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

// Create は従業員を登録します。
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	hiredAt, err := parseDate(req.HiredAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("hired_at: %v", err)})
		return
	}

	terminatedAt, err := parseDatePtr(req.TerminatedAt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("terminated_at: %v", err)})
		return
	}

	created, err := h.svc.CreateEmployee(r.Context(), employee.CreateEmployeeInput{
		Name:         req.Name,
		CPF:          req.CPF,
		HiredAt:      hiredAt,
		TerminatedAt: terminatedAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeResponse(created))
}

// Get は ID で従業員を返します。
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetEmployee(r.Context(), employee.GetEmployeeInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(found))
}

// List は従業員の一覧を返します。
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, employee.ErrInvalidPageSize)
			return
		}
		pageSize = parsed
	}

	result, err := h.svc.ListEmployees(r.Context(), employee.ListEmployeesInput{
		PageSize:  pageSize,
		PageToken: r.URL.Query().Get("page_token"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listEmployeesResponse{
		Employees:     make([]employeeResponse, 0, len(result.Employees)),
		NextPageToken: result.NextPageToken,
	}
	for _, emp := range result.Employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(emp))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Update は従業員情報を更新します。CPF とコードは変更できません。
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	in := employee.UpdateEmployeeInput{
		ID:   chi.URLParam(r, "id"),
		Name: req.Name,
	}

	if req.HiredAt != nil {
		hiredAt, err := parseDate(*req.HiredAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("hired_at: %v", err)})
			return
		}
		in.HiredAt = &hiredAt
	}

	if req.TerminatedAt != nil {
		terminatedAt, err := parseDate(*req.TerminatedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("terminated_at: %v", err)})
			return
		}
		in.TerminatedAt = &terminatedAt
		in.TerminatedAtSet = true
	}

	updated, err := h.svc.UpdateEmployee(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(updated))
}

// Terminate は従業員の退職日を記録します。
func (h *EmployeeHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	in := employee.TerminateEmployeeInput{ID: chi.URLParam(r, "id")}

	if r.ContentLength > 0 {
		var req terminateEmployeeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
			return
		}
		at, err := parseDatePtr(req.TerminatedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("terminated_at: %v", err)})
			return
		}
		in.At = at
	}

	terminated, err := h.svc.TerminateEmployee(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(terminated))
}

// Delete は従業員を削除します。
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEmployee(r.Context(), employee.DeleteEmployeeInput{ID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	resp := employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		CPF:       e.CPF,
		UserCode:  e.Code,
		HiredAt:   e.HiredAt.Format(dateLayout),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
	if e.TerminatedAt != nil {
		resp.TerminatedAt = e.TerminatedAt.Format(dateLayout)
	}
	return resp
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s format", dateLayout)
	}
	return t, nil
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
