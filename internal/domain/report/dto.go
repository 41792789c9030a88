package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
)

const (
	MinYear           = 2000
	DefaultMonthsBack = 6
	MaxMonthsBack     = 24

	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// ========================================
// REQUESTS
// ========================================

type MonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *MonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < MinYear || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between %d and %d", MinYear, currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Label renders the month as "YYYY-MM".
func (r MonthRequest) Label() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// ParseMonthRequest reads year and month query values, defaulting each to now.
func ParseMonthRequest(year, month string, now time.Time) (MonthRequest, error) {
	req := MonthRequest{Year: now.Year(), Month: int(now.Month())}

	if s := strings.TrimSpace(year); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return MonthRequest{}, fmt.Errorf("%w: %q", ErrInvalidYear, year)
		}
		req.Year = y
	}
	if s := strings.TrimSpace(month); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return MonthRequest{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
		}
		req.Month = m
	}
	return req, nil
}

// ParseMonthKey reads a "YYYY-MM" value, defaulting to now when empty.
func ParseMonthKey(key string, now time.Time) (MonthRequest, error) {
	if strings.TrimSpace(key) == "" {
		return MonthRequest{Year: now.Year(), Month: int(now.Month())}, nil
	}
	t, ok := validator.IsValidMonth(key)
	if !ok {
		return MonthRequest{}, fmt.Errorf("%w: %q is not in YYYY-MM format", ErrInvalidMonth, key)
	}
	return MonthRequest{Year: t.Year(), Month: int(t.Month())}, nil
}

// ========================================
// MONTHLY REPORT
// ========================================

type ComplianceSummary struct {
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
	NoData       int `json:"no_data"`
}

type EmployeeStats struct {
	TotalDaysAttended  int     `json:"total_days_attended"`
	TotalHoursWorked   float64 `json:"total_hours_worked"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
	WeeksWith1Day      int     `json:"weeks_with_1_day"`
	WeeksWith2Days     int     `json:"weeks_with_2_days"`
	DaysCompliance     bool    `json:"days_compliance"`
	PatternCompliance  bool    `json:"pattern_compliance"`
	HoursCompliance    bool    `json:"hours_compliance"`
	OverallCompliance  bool    `json:"overall_compliance"`
	Reason             string  `json:"reason"`
	DataIssues         int     `json:"data_issues"`
}

type EmployeeMonthlyStats struct {
	EmployeeInfo employee.EmployeeResponse `json:"employee_info"`
	Stats        EmployeeStats             `json:"stats"`
}

type MonthlyReport struct {
	Year              int                    `json:"year"`
	Month             int                    `json:"month"`
	Period            string                 `json:"period"`
	GeneratedAt       string                 `json:"generated_at"`
	TotalEmployees    int                    `json:"total_employees"`
	ComplianceSummary ComplianceSummary      `json:"compliance_summary"`
	EmployeeStats     []EmployeeMonthlyStats `json:"employee_stats"`
	DataIssues        []DataIssueRow         `json:"-"`
}

// DataIssueRow is one anomaly as printed in the export.
type DataIssueRow struct {
	EmployeeID   int64
	EmployeeName string
	Date         string
	IssueType    string
	Description  string
	TotalRecords int
}

// ========================================
// DASHBOARD
// ========================================

type IssueCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	Year                  int          `json:"year"`
	Month                 int          `json:"month"`
	TotalEmployees        int          `json:"total_employees"`
	CompliantEmployees    int          `json:"compliant_employees"`
	NonCompliantEmployees int          `json:"non_compliant_employees"`
	ComplianceRate        float64      `json:"compliance_rate"`
	TotalDataIssues       int          `json:"total_data_issues"`
	AverageHoursPerDay    float64      `json:"average_hours_per_day"`
	MostCommonIssues      []IssueCount `json:"most_common_issues"`
}

// ========================================
// DEPARTMENTS
// ========================================

type DepartmentStats struct {
	DepartmentName          string  `json:"department_name"`
	TotalEmployees          int     `json:"total_employees"`
	CompliantEmployees      int     `json:"compliant_employees"`
	ComplianceRate          float64 `json:"average_compliance_rate"`
	AverageHoursPerEmployee float64 `json:"average_hours_per_employee"`
	TotalDataIssues         int     `json:"total_data_issues"`
}

// ========================================
// TRENDS
// ========================================

type TrendPoint struct {
	Month             string  `json:"month"`
	DaysAttended      int     `json:"days_attended"`
	TotalHours        float64 `json:"total_hours"`
	Compliant         bool    `json:"compliant"`
	HoursCompliance   bool    `json:"hours_compliance"`
	PatternCompliance bool    `json:"pattern_compliance"`
}

type EmployeeTrends struct {
	EmployeeInfo employee.EmployeeResponse `json:"employee_info"`
	TrendData    []TrendPoint              `json:"trend_data"`
	OverallTrend string                    `json:"overall_trend"`
}

// ========================================
// WEEKLY PATTERNS
// ========================================

type DailyDetail struct {
	Date         string   `json:"date"`
	EntryTime    *string  `json:"entry_time"`
	ExitTime     *string  `json:"exit_time"`
	HoursWorked  *float64 `json:"hours_worked"`
	IsComplete   bool     `json:"is_complete"`
	MeetsMinimum bool     `json:"meets_minimum"`
	Anomalies    []string `json:"anomalies,omitempty"`
}

type WeekPattern struct {
	WeekNumber       int           `json:"week_number"`
	ISOWeek          string        `json:"iso_week"`
	WeekStart        string        `json:"week_start"`
	WeekEnd          string        `json:"week_end"`
	DaysAttended     int           `json:"days_attended"`
	TotalHours       float64       `json:"total_hours"`
	MeetsRequirement bool          `json:"meets_requirement"`
	DailyDetails     []DailyDetail `json:"daily_details"`
}

type PatternSummary struct {
	TotalDays          int     `json:"total_days"`
	TotalHours         float64 `json:"total_hours"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
	WeeksWith1Day      int     `json:"weeks_with_1_day"`
	WeeksWith2Days     int     `json:"weeks_with_2_days"`
	DaysCompliance     bool    `json:"days_compliance"`
	HoursCompliance    bool    `json:"hours_compliance"`
	PatternCompliance  bool    `json:"pattern_compliance"`
	OverallCompliance  bool    `json:"overall_compliance"`
	Reason             string  `json:"reason"`
}

type WeeklyPatterns struct {
	EmployeeInfo   employee.EmployeeResponse `json:"employee_info"`
	Year           int                       `json:"year"`
	Month          int                       `json:"month"`
	WeeklyPatterns []WeekPattern             `json:"weekly_patterns"`
	Summary        PatternSummary            `json:"summary"`
}

// ========================================
// EXPORT
// ========================================

const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportFile struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}
