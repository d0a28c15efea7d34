package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/timeclock/internal/core/employee"
	"github.com/ogurasousui/timeclock/internal/core/shift"
)

type stubEmployeeUseCase struct {
	createInput employee.CreateEmployeeInput
	createErr   error
	createOut   *employee.Employee

	getInput employee.GetEmployeeInput
	getErr   error
	getOut   *employee.Employee

	listInput employee.ListEmployeesInput
	listErr   error
	listOut   *employee.ListEmployeesResult

	updateInput employee.UpdateEmployeeInput
	updateErr   error
	updateOut   *employee.Employee

	terminateInput employee.TerminateEmployeeInput
	terminateErr   error
	terminateOut   *employee.Employee

	deleteInput employee.DeleteEmployeeInput
	deleteErr   error
}

func (s *stubEmployeeUseCase) CreateEmployee(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error) {
	s.createInput = in
	return s.createOut, s.createErr
}

func (s *stubEmployeeUseCase) GetEmployee(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error) {
	s.getInput = in
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) GetEmployeeByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) ListEmployees(ctx context.Context, in employee.ListEmployeesInput) (*employee.ListEmployeesResult, error) {
	s.listInput = in
	return s.listOut, s.listErr
}

func (s *stubEmployeeUseCase) UpdateEmployee(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubEmployeeUseCase) TerminateEmployee(ctx context.Context, in employee.TerminateEmployeeInput) (*employee.Employee, error) {
	s.terminateInput = in
	return s.terminateOut, s.terminateErr
}

func (s *stubEmployeeUseCase) DeleteEmployee(ctx context.Context, in employee.DeleteEmployeeInput) error {
	s.deleteInput = in
	return s.deleteErr
}

type stubShiftUseCase struct {
	code string

	startErr error
	startOut *shift.Shift

	endErr error
	endOut *shift.Shift

	todayErr error
	todayOut *shift.TodayResult

	historyErr error
	historyOut *shift.HistoryResult
}

func (s *stubShiftUseCase) StartShift(ctx context.Context, code string) (*shift.Shift, error) {
	s.code = code
	return s.startOut, s.startErr
}

func (s *stubShiftUseCase) EndShift(ctx context.Context, code string) (*shift.Shift, error) {
	s.code = code
	return s.endOut, s.endErr
}

func (s *stubShiftUseCase) HoursToday(ctx context.Context, code string) (*shift.TodayResult, error) {
	s.code = code
	return s.todayOut, s.todayErr
}

func (s *stubShiftUseCase) HoursHistory(ctx context.Context, code string) (*shift.HistoryResult, error) {
	s.code = code
	return s.historyOut, s.historyErr
}

func newTestRouter(employeeStub *stubEmployeeUseCase, shiftStub *stubShiftUseCase) http.Handler {
	if employeeStub == nil {
		employeeStub = &stubEmployeeUseCase{}
	}
	if shiftStub == nil {
		shiftStub = &stubShiftUseCase{}
	}
	return NewRouter(employeeStub, shiftStub, nil)
}

func sampleEmployee() *employee.Employee {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &employee.Employee{
		ID:        "emp-1",
		Name:      "Taro Yamada",
		CPF:       "51839137819",
		Code:      "4SXXFMf",
		HiredAt:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{createOut: sampleEmployee()}
	router := newTestRouter(stub, nil)

	body := `{"name":"Taro Yamada","cpf":"518.391.378-19","hired_at":"2025-01-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if stub.createInput.CPF != "518.391.378-19" {
		t.Errorf("expected cpf passed through, got %s", stub.createInput.CPF)
	}

	if !stub.createInput.HiredAt.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected hired_at: %v", stub.createInput.HiredAt)
	}

	var resp employeeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "emp-1" {
		t.Errorf("expected id emp-1, got %s", resp.ID)
	}

	if resp.UserCode != "4SXXFMf" {
		t.Errorf("expected user_code 4SXXFMf, got %s", resp.UserCode)
	}

	if resp.TerminatedAt != "" {
		t.Errorf("expected terminated_at omitted, got %s", resp.TerminatedAt)
	}
}

func TestEmployeeHandler_Create_InvalidBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubEmployeeUseCase{}, nil)

	cases := map[string]string{
		"broken json":   `{"name":`,
		"unknown field": `{"name":"Taro","cpf":"51839137819","hired_at":"2025-01-15","extra":true}`,
		"bad date":      `{"name":"Taro","cpf":"51839137819","hired_at":"15/01/2025"}`,
	}

	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestEmployeeHandler_Create_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want int
	}{
		"invalid cpf":   {err: employee.ErrInvalidCPF, want: http.StatusBadRequest},
		"duplicate cpf": {err: employee.ErrCPFAlreadyExists, want: http.StatusConflict},
		"exhausted":     {err: employee.ErrCodeExhausted, want: http.StatusInternalServerError},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&stubEmployeeUseCase{createErr: tc.err}, nil)

			body := `{"name":"Taro","cpf":"51839137819","hired_at":"2025-01-15"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if resp.Error == "" {
				t.Error("expected error message in response body")
			}
		})
	}
}

func TestEmployeeHandler_Get(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{getOut: sampleEmployee()}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/emp-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if stub.getInput.ID != "emp-1" {
		t.Errorf("expected id emp-1 passed through, got %s", stub.getInput.ID)
	}
}

func TestEmployeeHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubEmployeeUseCase{getErr: employee.ErrEmployeeNotFound}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestEmployeeHandler_List(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{
		listOut: &employee.ListEmployeesResult{
			Employees:     []*employee.Employee{sampleEmployee()},
			NextPageToken: "50",
		},
	}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?page_size=50&page_token=100", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if stub.listInput.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", stub.listInput.PageSize)
	}

	if stub.listInput.PageToken != "100" {
		t.Errorf("expected page token 100, got %s", stub.listInput.PageToken)
	}

	var resp listEmployeesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(resp.Employees))
	}

	if resp.NextPageToken != "50" {
		t.Errorf("expected next page token 50, got %s", resp.NextPageToken)
	}
}

func TestEmployeeHandler_List_InvalidPageSize(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubEmployeeUseCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?page_size=abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Update(t *testing.T) {
	t.Parallel()

	updated := sampleEmployee()
	updated.Name = "Jiro Yamada"

	stub := &stubEmployeeUseCase{updateOut: updated}
	router := newTestRouter(stub, nil)

	body := `{"name":"Jiro Yamada","terminated_at":"2025-06-30"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/employees/emp-1", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if stub.updateInput.ID != "emp-1" {
		t.Errorf("expected id emp-1, got %s", stub.updateInput.ID)
	}

	if stub.updateInput.Name == nil || *stub.updateInput.Name != "Jiro Yamada" {
		t.Errorf("expected name pointer set, got %v", stub.updateInput.Name)
	}

	if !stub.updateInput.TerminatedAtSet {
		t.Error("expected TerminatedAtSet true when terminated_at present")
	}

	if stub.updateInput.TerminatedAt == nil || !stub.updateInput.TerminatedAt.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected terminated_at: %v", stub.updateInput.TerminatedAt)
	}
}

func TestEmployeeHandler_Update_OmittedTerminatedAt(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{updateOut: sampleEmployee()}
	router := newTestRouter(stub, nil)

	body := `{"name":"Jiro Yamada"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/employees/emp-1", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if stub.updateInput.TerminatedAtSet {
		t.Error("expected TerminatedAtSet false when terminated_at omitted")
	}
}

func TestEmployeeHandler_Terminate(t *testing.T) {
	t.Parallel()

	terminated := sampleEmployee()
	at := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	terminated.TerminatedAt = &at

	stub := &stubEmployeeUseCase{terminateOut: terminated}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/emp-1/terminate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if stub.terminateInput.ID != "emp-1" {
		t.Errorf("expected id emp-1, got %s", stub.terminateInput.ID)
	}

	if stub.terminateInput.At != nil {
		t.Errorf("expected nil termination date without body, got %v", stub.terminateInput.At)
	}

	var resp employeeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TerminatedAt != "2025-06-30" {
		t.Errorf("expected terminated_at 2025-06-30, got %s", resp.TerminatedAt)
	}
}

func TestEmployeeHandler_Terminate_AlreadyTerminated(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubEmployeeUseCase{terminateErr: employee.ErrAlreadyTerminated}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/emp-1/terminate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Delete(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{}
	router := newTestRouter(stub, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/emp-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	if stub.deleteInput.ID != "emp-1" {
		t.Errorf("expected id emp-1, got %s", stub.deleteInput.ID)
	}
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_Readyz(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		check ReadyCheck
		want  int
	}{
		"nil check": {check: nil, want: http.StatusOK},
		"ready":     {check: func(ctx context.Context) error { return nil }, want: http.StatusOK},
		"not ready": {check: func(ctx context.Context) error { return context.DeadlineExceeded }, want: http.StatusServiceUnavailable},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			router := NewRouter(&stubEmployeeUseCase{}, &stubShiftUseCase{}, tc.check)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
