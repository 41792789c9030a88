package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeStore {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, first_name, last_name, department, email`

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY last_name, first_name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return scanEmployees(rows)
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Department, &emp.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %d: %w", id, err)
	}

	return emp, nil
}

// Search implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if len(filter.IDs) > 0 {
		query += fmt.Sprintf(" AND id = ANY($%d)", argIdx)
		args = append(args, filter.IDs)
		argIdx++
	}
	if filter.LastName != "" {
		query += fmt.Sprintf(" AND last_name ILIKE $%d", argIdx)
		args = append(args, "%"+filter.LastName+"%")
		argIdx++
	}
	query += " ORDER BY last_name, first_name, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return scanEmployees(rows)
}

// Upsert inserts or replaces an employee row. Used by seeding and tests.
func (e *employeeRepositoryImpl) Upsert(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	_, err := q.Exec(ctx, `
		INSERT INTO employees (id, first_name, last_name, department, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
			department = EXCLUDED.department, email = EXCLUDED.email
	`, emp.ID, emp.FirstName, emp.LastName, emp.Department, emp.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert employee with id %d: %w", emp.ID, err)
	}
	return nil
}

func scanEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Department, &emp.Email); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}
