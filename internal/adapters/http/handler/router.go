package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/timeclock/internal/core/employee"
	"github.com/ogurasousui/timeclock/internal/core/shift"
)

// ReadyCheck は依存先の疎通確認を行います。nil の場合は常に ready 扱いです。
type ReadyCheck func(ctx context.Context) error

// NewRouter は API のルーティングを構築します。
func NewRouter(employeeSvc employee.UseCase, shiftSvc shift.UseCase, ready ReadyCheck) http.Handler {
	employeeHandler := NewEmployeeHandler(employeeSvc)
	shiftHandler := NewShiftHandler(shiftSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", employeeHandler.Create)
			r.Get("/", employeeHandler.List)
			r.Get("/{id}", employeeHandler.Get)
			r.Patch("/{id}", employeeHandler.Update)
			r.Post("/{id}/terminate", employeeHandler.Terminate)
			r.Delete("/{id}", employeeHandler.Delete)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/{code}/start", shiftHandler.Start)
			r.Post("/{code}/end", shiftHandler.End)
			r.Get("/{code}/today", shiftHandler.HoursToday)
			r.Get("/{code}/history", shiftHandler.HoursHistory)
		})
	})

	return router
}
