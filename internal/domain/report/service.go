package report

import "context"

// ReportService builds the monthly views over every employee.
type ReportService interface {
	// GetMonthlyReport evaluates every employee for a calendar month
	GetMonthlyReport(ctx context.Context, req MonthRequest) (MonthlyReport, error)

	// GetDashboardStats summarizes the monthly report and its data issues
	GetDashboardStats(ctx context.Context, req MonthRequest) (DashboardStats, error)

	// GetDepartmentStats groups the monthly report by department, best compliance first
	GetDepartmentStats(ctx context.Context, req MonthRequest) ([]DepartmentStats, error)

	// GetEmployeeTrends evaluates the last monthsBack calendar months of one employee
	GetEmployeeTrends(ctx context.Context, employeeID int64, monthsBack int) (EmployeeTrends, error)

	// GetWeeklyPatterns shows one employee's month week by week
	GetWeeklyPatterns(ctx context.Context, employeeID int64, req MonthRequest) (WeeklyPatterns, error)

	// ExportMonthlyReport renders the monthly report as a spreadsheet and stores it
	ExportMonthlyReport(ctx context.Context, req MonthRequest) (ExportFile, error)

	// OpenExport reads back a stored export by the path ExportMonthlyReport returned
	OpenExport(ctx context.Context, path string) (ExportFile, error)

	// DeleteExport removes a stored export
	DeleteExport(ctx context.Context, path string) error
}
