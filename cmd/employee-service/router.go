package main

import (
	"context"
	"net/http"

	"github.com/emsvc/employee-service/internal/employee/handler"
	"github.com/emsvc/employee-service/pkg/config"
	"github.com/emsvc/employee-service/pkg/httputil"
	"github.com/emsvc/employee-service/pkg/i18n"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HealthFunc reports the state of one dependency
type HealthFunc func(ctx context.Context) map[string]string

func newRouter(cfg *config.Config, log *logger.Logger, employees *handler.EmployeeHandler, checks map[string]HealthFunc) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Language"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":  "healthy",
			"service": config.ServiceName,
		}
		status := http.StatusOK
		for name, check := range checks {
			result := check(r.Context())
			body[name] = result
			if result["status"] != "up" {
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		httputil.JSON(w, status, body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/employees", employees.Routes())
	})

	return r
}
