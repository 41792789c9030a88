package compliance

import (
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SupportedMonths are the accepted values of a predefined period.
var SupportedMonths = []int{1, 2, 3, 6, 12}

// MaxBatchEmployees bounds a single batch request.
const MaxBatchEmployees = 500

// ========================================
// REQUEST DTOs
// ========================================

// PeriodRequest selects either a predefined period (Months) or a custom range.
// With neither set the current month is used.
type PeriodRequest struct {
	Months    int    `json:"months,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (r PeriodRequest) IsCustom() bool {
	return r.StartDate != "" || r.EndDate != ""
}

func (r PeriodRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if r.StartDate != "" || r.EndDate != "" {
		if r.Months != 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "months",
				Message: "months cannot be combined with start_date and end_date",
			})
		}
		if validator.IsEmpty(r.StartDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date is required when end_date is given",
			})
		} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		if validator.IsEmpty(r.EndDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date is required when start_date is given",
			})
		} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	return errs
}

type ComplianceRequest struct {
	EmployeeID int64 `json:"employee_id"`
	PeriodRequest
}

func (r *ComplianceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}
	errs = append(errs, r.PeriodRequest.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchComplianceRequest struct {
	EmployeeIDs []int64 `json:"employee_ids"`
	PeriodRequest
}

func (r *BatchComplianceRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_ids",
			Message: "employee_ids is required",
		})
	} else if len(r.EmployeeIDs) > MaxBatchEmployees {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_ids",
			Message: "employee_ids must not contain more than 500 ids",
		})
	}
	for _, id := range r.EmployeeIDs {
		if id <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_ids",
				Message: "employee_ids must contain positive numbers only",
			})
			break
		}
	}
	errs = append(errs, r.PeriodRequest.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UniqueEmployeeIDs returns the requested ids without duplicates, in request order.
func (r *BatchComplianceRequest) UniqueEmployeeIDs() []int64 {
	seen := make(map[int64]struct{}, len(r.EmployeeIDs))
	ids := make([]int64, 0, len(r.EmployeeIDs))
	for _, id := range r.EmployeeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ========================================
// RESPONSE DTOs
// ========================================

type WeekResponse struct {
	Week         string  `json:"week"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DaysAttended int     `json:"days_attended"`
	TotalHours   float64 `json:"total_hours"`
}

type DailyHoursAnalysis struct {
	TotalHours   float64  `json:"total_hours"`
	MeetsMinimum bool     `json:"meets_minimum"`
	Attended     bool     `json:"attended"`
	Entries      []string `json:"entries"`
	Exits        []string `json:"exits"`
	Anomalies    []string `json:"anomalies,omitempty"`
	Reason       string   `json:"reason"`
}

// RuleResponse carries the fields of whichever rule it describes; the others are omitted.
type RuleResponse struct {
	Compliant bool   `json:"compliant"`
	Reason    string `json:"reason"`

	DaysAttended *int `json:"days_attended,omitempty"`
	MinRequired  *int `json:"min_required,omitempty"`
	TotalRecords *int `json:"total_records,omitempty"`

	MaxDaysPerWeek  *int           `json:"max_days_per_week,omitempty"`
	WeeklyBreakdown []WeekResponse `json:"weekly_breakdown,omitempty"`
	OffendingWeeks  []string       `json:"offending_weeks,omitempty"`

	MinHoursPerDay        *float64                      `json:"min_hours_per_day,omitempty"`
	DaysMeetingHours      *int                          `json:"days_meeting_hours,omitempty"`
	DetailedHoursAnalysis map[string]DailyHoursAnalysis `json:"detailed_hours_analysis,omitempty"`
}

type RuleDetails struct {
	MinimumDays        RuleResponse `json:"rule_1_minimum_days"`
	WeeklyDistribution RuleResponse `json:"rule_2_weekly_distribution"`
	MinimumHours       RuleResponse `json:"rule_3_minimum_hours"`
}

type MonthlyResultResponse struct {
	Month        string      `json:"month"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	Compliant    bool        `json:"compliant"`
	Reason       string      `json:"reason"`
	DaysAttended int         `json:"days_attended"`
	TotalHours   float64     `json:"total_hours"`
	Details      RuleDetails `json:"details"`
}

type ComplianceResponse struct {
	EmployeeID     int64                            `json:"employee_id"`
	Period         string                           `json:"period"`
	StartDate      string                           `json:"start_date"`
	EndDate        string                           `json:"end_date"`
	Compliance     bool                             `json:"compliance"`
	Reason         string                           `json:"reason"`
	NoData         bool                             `json:"no_data,omitempty"`
	Details        RuleDetails                      `json:"details"`
	MonthlyResults map[string]MonthlyResultResponse `json:"monthly_results,omitempty"`
}

type BatchComplianceResponse struct {
	Period                string               `json:"period"`
	TotalEmployees        int                  `json:"total_employees"`
	CompliantEmployees    int                  `json:"compliant_employees"`
	NonCompliantEmployees int                  `json:"non_compliant_employees"`
	Results               []ComplianceResponse `json:"results"`
}

type PeriodOption struct {
	Months      int    `json:"months"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PeriodsResponse struct {
	Periods      []PeriodOption `json:"periods"`
	CustomPeriod string         `json:"custom_period"`
}

type RuleDescription struct {
	Rule        RuleID `json:"rule"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Requirement string `json:"requirement"`
}

type RulesResponse struct {
	Rules           []RuleDescription `json:"rules"`
	MinDaysPerMonth int               `json:"min_days_per_month"`
	MaxDaysPerWeek  int               `json:"max_days_per_week"`
	MinHoursPerDay  float64           `json:"min_hours_per_day"`
	Timezone        string            `json:"timezone"`
}

// RoundHours rounds an hour amount to two decimals for presentation.
func RoundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}
