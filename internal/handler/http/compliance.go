package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
)

type ComplianceHandler interface {
	// GET /compliance/employees/{id}
	CheckEmployee(w http.ResponseWriter, r *http.Request)

	// POST /compliance/employees
	CheckEmployees(w http.ResponseWriter, r *http.Request)

	GetPeriods(w http.ResponseWriter, r *http.Request)
	GetRules(w http.ResponseWriter, r *http.Request)
}

type complianceHandlerImpl struct {
	complianceService compliance.ComplianceService
}

func NewComplianceHandler(complianceService compliance.ComplianceService) ComplianceHandler {
	return &complianceHandlerImpl{
		complianceService: complianceService,
	}
}

// CheckEmployee handles GET /compliance/employees/{id}?months=|start_date=&end_date=
func (h *complianceHandlerImpl) CheckEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	period, err := periodQuery(r)
	if err != nil {
		response.BadRequest(w, "months must be a number", nil)
		return
	}

	result, err := h.complianceService.CheckEmployee(r.Context(), compliance.ComplianceRequest{
		EmployeeID:    id,
		PeriodRequest: period,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckEmployees handles POST /compliance/employees
func (h *complianceHandlerImpl) CheckEmployees(w http.ResponseWriter, r *http.Request) {
	var req compliance.BatchComplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.complianceService.CheckEmployees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *complianceHandlerImpl) GetPeriods(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.complianceService.GetPeriods(r.Context()))
}

func (h *complianceHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.complianceService.GetRules(r.Context()))
}
