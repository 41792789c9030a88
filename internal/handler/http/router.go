package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/office-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Handlers struct {
	Compliance ComplianceHandler
	Quality    QualityHandler
	Report     ReportHandler
	Employee   EmployeeHandler
	Admin      AdminHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-Path"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/compliance", func(r chi.Router) {
				r.Get("/periods", h.Compliance.GetPeriods)
				r.Get("/rules", h.Compliance.GetRules)
				r.Get("/employees/{id}", h.Compliance.CheckEmployee)
				r.Post("/employees", h.Compliance.CheckEmployees)
			})

			r.Get("/data-quality/issues", h.Quality.ListIssues)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/monthly", h.Report.GetMonthlyReport)
				r.Get("/dashboard", h.Report.GetDashboardStats)
				r.Get("/departments", h.Report.GetDepartmentStats)
				r.Get("/trends/{id}", h.Report.GetEmployeeTrends)
				r.Get("/weekly-patterns/{id}", h.Report.GetWeeklyPatterns)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/monthly/export", h.Report.ExportMonthlyReport)
					r.Get("/exports/*", h.Report.DownloadExport)
					r.Delete("/exports/*", h.Report.DeleteExport)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/search", h.Employee.Search)
				r.Get("/{id}", h.Employee.Get)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/cache/refresh", h.Admin.RefreshCache)
			})
		})
	})
	return r
}
