package http

import (
	"net/http"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// List handles GET /employees
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.ListEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// Search handles GET /employees/search?ids=1,2&last_name=
func (h *employeeHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	ids, err := employee.ParseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employees, err := h.employeeService.SearchEmployees(r.Context(), employee.SearchFilter{
		IDs:      ids,
		LastName: r.URL.Query().Get("last_name"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// Get handles GET /employees/{id}
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}
