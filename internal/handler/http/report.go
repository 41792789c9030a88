package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// ExportPathHeader carries the storage path of a generated export.
const ExportPathHeader = "X-Export-Path"

type ReportHandler interface {
	// GET /reports/monthly?year=&month=
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// GET /reports/monthly/export?year=&month=
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)

	// GET /reports/dashboard?month=YYYY-MM
	GetDashboardStats(w http.ResponseWriter, r *http.Request)

	// GET /reports/departments?year=&month=
	GetDepartmentStats(w http.ResponseWriter, r *http.Request)

	// GET /reports/trends/{id}?months_back=
	GetEmployeeTrends(w http.ResponseWriter, r *http.Request)

	// GET /reports/weekly-patterns/{id}?year=&month=
	GetWeeklyPatterns(w http.ResponseWriter, r *http.Request)

	// GET /reports/exports/*
	DownloadExport(w http.ResponseWriter, r *http.Request)

	// DELETE /reports/exports/*
	DeleteExport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService, now func() time.Time) ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &reportHandlerImpl{
		reportService: reportService,
		now:           now,
	}
}

func (h *reportHandlerImpl) monthQuery(r *http.Request) (report.MonthRequest, error) {
	return report.ParseMonthRequest(r.URL.Query().Get("year"), r.URL.Query().Get("month"), h.now())
}

func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, err := h.monthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetMonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, err := h.monthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.ExportMonthlyReport(r.Context(), req)
	if err != nil {
		slog.Error("Failed to export monthly report", "month", req.Label(), "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set(ExportPathHeader, file.Path)
	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *reportHandlerImpl) DownloadExport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.OpenExport(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *reportHandlerImpl) DeleteExport(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.DeleteExport(r.Context(), chi.URLParam(r, "*")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Export deleted", nil)
}

func (h *reportHandlerImpl) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	req, err := report.ParseMonthKey(r.URL.Query().Get("month"), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.reportService.GetDashboardStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

func (h *reportHandlerImpl) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	req, err := h.monthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	departments, err := h.reportService.GetDepartmentStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, departments)
}

func (h *reportHandlerImpl) GetEmployeeTrends(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	monthsBack := report.DefaultMonthsBack
	if raw := strings.TrimSpace(r.URL.Query().Get("months_back")); raw != "" {
		monthsBack, err = strconv.Atoi(raw)
		if err != nil {
			response.HandleError(w, report.ErrInvalidMonthsBack)
			return
		}
	}

	trends, err := h.reportService.GetEmployeeTrends(r.Context(), id, monthsBack)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, trends)
}

func (h *reportHandlerImpl) GetWeeklyPatterns(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := h.monthQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	patterns, err := h.reportService.GetWeeklyPatterns(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, patterns)
}
