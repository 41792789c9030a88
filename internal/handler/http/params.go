package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/go-chi/chi/v5"
)

// employeeIDParam reads the {id} path segment.
func employeeIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, employee.ErrInvalidID
	}
	return id, nil
}

// periodQuery reads months or start_date/end_date from the query string.
func periodQuery(r *http.Request) (compliance.PeriodRequest, error) {
	q := r.URL.Query()
	req := compliance.PeriodRequest{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}

	if raw := strings.TrimSpace(q.Get("months")); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil {
			return compliance.PeriodRequest{}, compliance.ErrInvalidPeriod
		}
		req.Months = months
	}
	return req, nil
}
