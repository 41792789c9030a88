package employee

import "strings"

type Employee struct {
	ID         int64   `json:"employee_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Department *string `json:"department,omitempty"`
	Email      *string `json:"email,omitempty"`
}

// FullName joins first and last name the way reports print it.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// DepartmentName returns the department or "Unknown" when none is recorded.
func (e Employee) DepartmentName() string {
	if e.Department == nil || strings.TrimSpace(*e.Department) == "" {
		return "Unknown"
	}
	return *e.Department
}
