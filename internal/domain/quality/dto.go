package quality

import (
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
)

// DefaultWindowDays is the look-back used when no dates are given.
const DefaultWindowDays = 30

var IssueTypes = []string{"missing_exit", "missing_entry", "multiple_entries"}

type IssueFilter struct {
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	IssueType  string `json:"issue_type,omitempty"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
}

func (f *IssueFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.StartDate != "" && f.EndDate != "" && len(errs) == 0 {
		start, _ := validator.IsValidDate(f.StartDate)
		end, _ := validator.IsValidDate(f.EndDate)
		if start.After(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}
	if f.IssueType != "" && !validator.IsInSlice(f.IssueType, IssueTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "issue_type",
			Message: "issue_type must be one of missing_exit, missing_entry, multiple_entries",
		})
	}
	if f.EmployeeID != nil && *f.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type IssueResponse struct {
	IssueType    string  `json:"issue_type"`
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	FirstRecord  *string `json:"first_record"`
	LastRecord   *string `json:"last_record"`
	TotalRecords int     `json:"total_records"`
}

type IssuesResponse struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalIssues int             `json:"total_issues"`
	ByType      map[string]int  `json:"by_type"`
	Issues      []IssueResponse `json:"issues"`
}
