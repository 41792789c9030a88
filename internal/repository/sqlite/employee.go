package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeStore {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, first_name, last_name, department, email`

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return scanEmployees(rows)
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	row := e.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %d: %w", id, err)
	}
	return emp, nil
}

// Search implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	var args []interface{}

	if len(filter.IDs) > 0 {
		placeholders := make([]string, len(filter.IDs))
		for i, id := range filter.IDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " AND id IN (" + strings.Join(placeholders, ",") + ")"
	}
	if filter.LastName != "" {
		// LIKE is case-insensitive for ASCII in SQLite
		query += " AND last_name LIKE ?"
		args = append(args, "%"+filter.LastName+"%")
	}
	query += " ORDER BY last_name, first_name, id"

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return scanEmployees(rows)
}

// Upsert implements employee.EmployeeStore.
func (e *employeeRepositoryImpl) Upsert(ctx context.Context, emp employee.Employee) error {
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, department, email)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET first_name = excluded.first_name, last_name = excluded.last_name,
			department = excluded.department, email = excluded.email
	`, emp.ID, emp.FirstName, emp.LastName, emp.Department, emp.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert employee with id %d: %w", emp.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		emp        employee.Employee
		department sql.NullString
		email      sql.NullString
	)
	if err := row.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &department, &email); err != nil {
		return employee.Employee{}, err
	}
	if department.Valid {
		emp.Department = &department.String
	}
	if email.Valid {
		emp.Email = &email.String
	}
	return emp, nil
}

func scanEmployees(rows *sql.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}
