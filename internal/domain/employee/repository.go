package employee

import "context"

type EmployeeRepository interface {
	// List returns every employee ordered by last name, first name
	List(ctx context.Context) ([]Employee, error)

	// GetByID returns ErrEmployeeNotFound when no row matches
	GetByID(ctx context.Context, id int64) (Employee, error)

	// Search filters by ids and/or a case-insensitive partial last name
	Search(ctx context.Context, filter SearchFilter) ([]Employee, error)
}

// EmployeeStore is an EmployeeRepository that can also write rows.
type EmployeeStore interface {
	EmployeeRepository
	Upsert(ctx context.Context, emp Employee) error
}
