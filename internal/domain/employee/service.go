package employee

import (
	"context"
)

// EmployeeService exposes the employee directory to the dashboard
type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)

	GetEmployee(ctx context.Context, id int64) (EmployeeResponse, error)

	// SearchEmployees searches by ids and/or partial last name
	SearchEmployees(ctx context.Context, filter SearchFilter) ([]EmployeeResponse, error)
}
