package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/timeclock/internal/core/shift"
)

// ShiftHandler は勤怠 API の HTTP 実装です。
type ShiftHandler struct {
	svc shift.UseCase
}

// NewShiftHandler は ShiftHandler を生成します。
func NewShiftHandler(svc shift.UseCase) *ShiftHandler {
	return &ShiftHandler{svc: svc}
}

type shiftResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time,omitempty"`
	ShiftDate  string `json:"shift_date"`
	CreatedAt  string `json:"created_at"`
}

type hoursTodayResponse struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	WorkedHours string `json:"worked_hours"`
}

type historyEntryResponse struct {
	Date        string `json:"date"`
	WorkedHours string `json:"worked_hours"`
}

type hoursHistoryResponse struct {
	Entries     []historyEntryResponse `json:"entries"`
	TotalWorked string                 `json:"total_worked"`
}

// Start は勤務を開始します。
func (h *ShiftHandler) Start(w http.ResponseWriter, r *http.Request) {
	started, err := h.svc.StartShift(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toShiftResponse(started))
}

// End は勤務を終了します。
func (h *ShiftHandler) End(w http.ResponseWriter, r *http.Request) {
	closed, err := h.svc.EndShift(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toShiftResponse(closed))
}

// HoursToday は当日の勤務時間を返します。
func (h *ShiftHandler) HoursToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.HoursToday(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := hoursTodayResponse{
		StartTime:   result.StartTime.Format(time.RFC3339),
		WorkedHours: result.WorkedHours,
	}
	if result.EndTime != nil {
		resp.EndTime = result.EndTime.Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

// HoursHistory は過去の勤務実績を返します。
func (h *ShiftHandler) HoursHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.HoursHistory(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := hoursHistoryResponse{
		Entries:     make([]historyEntryResponse, 0, len(result.Entries)),
		TotalWorked: result.TotalWorked,
	}
	for _, entry := range result.Entries {
		resp.Entries = append(resp.Entries, historyEntryResponse{
			Date:        entry.Date.Format(dateLayout),
			WorkedHours: entry.WorkedHours,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func toShiftResponse(s *shift.Shift) shiftResponse {
	resp := shiftResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		StartTime:  s.StartTime.Format(time.RFC3339),
		ShiftDate:  s.ShiftDate.Format(dateLayout),
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
	if s.EndTime != nil {
		resp.EndTime = s.EndTime.Format(time.RFC3339)
	}
	return resp
}
