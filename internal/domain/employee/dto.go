package employee

import (
	"strconv"
	"strings"

	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
)

type EmployeeResponse struct {
	EmployeeID int64   `json:"employee_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	FullName   string  `json:"full_name"`
	Department *string `json:"department,omitempty"`
	Email      *string `json:"email,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		FullName:   e.FullName(),
		Department: e.Department,
		Email:      e.Email,
	}
}

type SearchFilter struct {
	IDs      []int64 `json:"ids,omitempty"`
	LastName string  `json:"last_name,omitempty"`
}

func (f *SearchFilter) Validate() error {
	var errs validator.ValidationErrors

	for _, id := range f.IDs {
		if id <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "ids",
				Message: "ids must be positive integers",
			})
			break
		}
	}

	f.LastName = strings.TrimSpace(f.LastName)
	if len(f.LastName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParseIDs parses a comma separated id list such as "12,15,20".
func ParseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, ErrInvalidID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
