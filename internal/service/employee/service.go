package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return toResponses(employees), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	if id <= 0 {
		return employee.EmployeeResponse{}, employee.ErrInvalidID
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// SearchEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SearchEmployees(ctx context.Context, filter employee.SearchFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if len(filter.IDs) == 0 && filter.LastName == "" {
		return s.ListEmployees(ctx)
	}

	employees, err := s.employeeRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return toResponses(employees), nil
}

func toResponses(employees []employee.Employee) []employee.EmployeeResponse {
	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.NewEmployeeResponse(e))
	}
	return out
}
