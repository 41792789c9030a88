package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/office-attendance/internal/domain/quality"
	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
)

type QualityHandler interface {
	// GET /data-quality/issues
	ListIssues(w http.ResponseWriter, r *http.Request)
}

type qualityHandlerImpl struct {
	qualityService quality.QualityService
}

func NewQualityHandler(qualityService quality.QualityService) QualityHandler {
	return &qualityHandlerImpl{qualityService: qualityService}
}

// ListIssues handles GET /data-quality/issues?start_date=&end_date=&issue_type=&employee_id=
func (h *qualityHandlerImpl) ListIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := quality.IssueFilter{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
		IssueType: strings.TrimSpace(q.Get("issue_type")),
	}

	if raw := strings.TrimSpace(q.Get("employee_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "employee_id must be a number", nil)
			return
		}
		filter.EmployeeID = &id
	}

	result, err := h.qualityService.ListIssues(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
