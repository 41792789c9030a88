package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/storage"
	complianceService "github.com/cmlabs-hris/office-attendance/internal/service/compliance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	punchRepository    punch.PunchRepository
	employeeRepository employee.EmployeeRepository
	storage            storage.FileStorage
	policy             compliance.Policy
	now                func() time.Time
}

func NewReportService(
	punchRepository punch.PunchRepository,
	employeeRepository employee.EmployeeRepository,
	fileStorage storage.FileStorage,
	policy compliance.Policy,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		punchRepository:    punchRepository,
		employeeRepository: employeeRepository,
		storage:            fileStorage,
		policy:             policy,
		now:                now,
	}
}

// monthWindow returns the calendar month as a period, ending today for the running month.
func (s *ReportServiceImpl) monthWindow(year, month int) compliance.Period {
	loc := s.policy.Loc()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)

	local := s.now().In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !today.Before(start) && today.Before(end) {
		end = today
	}
	return compliance.Period{Start: start, End: end, Kind: compliance.PeriodPredefined, Months: 1}
}

type monthEvaluation struct {
	period    compliance.Period
	employees []employee.Employee
	results   []compliance.ComplianceResult
}

func (s *ReportServiceImpl) evaluateMonth(ctx context.Context, req report.MonthRequest) (monthEvaluation, error) {
	if err := req.Validate(); err != nil {
		return monthEvaluation{}, err
	}

	employees, err := s.employeeRepository.List(ctx)
	if err != nil {
		return monthEvaluation{}, fmt.Errorf("failed to list employees: %w", err)
	}

	period := s.monthWindow(req.Year, req.Month)
	from, to := period.Bounds()
	punches, err := s.punchRepository.List(ctx, punch.PunchFilter{From: from, To: to})
	if err != nil {
		return monthEvaluation{}, fmt.Errorf("failed to list punches: %w", err)
	}

	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	results, err := complianceService.EvaluateEmployees(ctx, ids, period, punches, s.policy, complianceService.DefaultConcurrency)
	if err != nil {
		return monthEvaluation{}, err
	}

	return monthEvaluation{period: period, employees: employees, results: results}, nil
}

// GetMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) GetMonthlyReport(ctx context.Context, req report.MonthRequest) (report.MonthlyReport, error) {
	eval, err := s.evaluateMonth(ctx, req)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	return s.buildMonthlyReport(req, eval), nil
}

func (s *ReportServiceImpl) buildMonthlyReport(req report.MonthRequest, eval monthEvaluation) report.MonthlyReport {
	r := report.MonthlyReport{
		Year:           req.Year,
		Month:          req.Month,
		Period:         eval.period.Label(),
		GeneratedAt:    s.now().Format(time.RFC3339),
		TotalEmployees: len(eval.employees),
		EmployeeStats:  make([]report.EmployeeMonthlyStats, 0, len(eval.employees)),
	}

	for i, e := range eval.employees {
		result := eval.results[i]
		stats := employeeStats(result)

		switch {
		case result.NoData:
			r.ComplianceSummary.NoData++
		case result.Compliance:
			r.ComplianceSummary.Compliant++
		default:
			r.ComplianceSummary.NonCompliant++
		}

		r.EmployeeStats = append(r.EmployeeStats, report.EmployeeMonthlyStats{
			EmployeeInfo: employee.NewEmployeeResponse(e),
			Stats:        stats,
		})
		for _, a := range result.Anomalies {
			r.DataIssues = append(r.DataIssues, report.DataIssueRow{
				EmployeeID:   e.ID,
				EmployeeName: e.FullName(),
				Date:         a.Date.Format(compliance.DateLayout),
				IssueType:    string(a.Type),
				Description:  a.Description,
				TotalRecords: a.TotalRecords,
			})
		}
	}
	return r
}

func employeeStats(result compliance.ComplianceResult) report.EmployeeStats {
	stats := report.EmployeeStats{
		DaysCompliance:    result.Rule(compliance.RuleMinimumDays).Compliant,
		PatternCompliance: result.Rule(compliance.RuleWeeklyDistribution).Compliant,
		HoursCompliance:   result.Rule(compliance.RuleMinimumHours).Compliant,
		OverallCompliance: result.Compliance,
		Reason:            result.Reason,
		DataIssues:        len(result.Anomalies),
	}
	if w := result.Window; w != nil {
		stats.TotalDaysAttended = w.DaysAttended
		stats.TotalHoursWorked = compliance.RoundHours(w.TotalHours)
		stats.AverageHoursPerDay = compliance.RoundHours(w.AverageHoursPerDay())
		stats.WeeksWith1Day, stats.WeeksWith2Days = countWeeks(w.Weeks)
	}
	return stats
}

func countWeeks(weeks []compliance.WeekBucket) (int, int) {
	one, two := 0, 0
	for _, w := range weeks {
		switch w.DaysAttended {
		case 1:
			one++
		case 2:
			two++
		}
	}
	return one, two
}

// GetDashboardStats implements report.ReportService.
func (s *ReportServiceImpl) GetDashboardStats(ctx context.Context, req report.MonthRequest) (report.DashboardStats, error) {
	eval, err := s.evaluateMonth(ctx, req)
	if err != nil {
		return report.DashboardStats{}, err
	}

	stats := report.DashboardStats{
		Year:             req.Year,
		Month:            req.Month,
		TotalEmployees:   len(eval.employees),
		MostCommonIssues: []report.IssueCount{},
	}

	var totalHours float64
	var totalDays int
	issues := make(map[string]int)
	for _, result := range eval.results {
		if result.Compliance {
			stats.CompliantEmployees++
		} else {
			stats.NonCompliantEmployees++
		}
		if result.Window != nil {
			totalHours += result.Window.TotalHours
			totalDays += result.Window.DaysAttended
		}
		for _, a := range result.Anomalies {
			issues[string(a.Type)]++
			stats.TotalDataIssues++
		}
	}

	stats.ComplianceRate = percent(stats.CompliantEmployees, stats.TotalEmployees)
	if totalDays > 0 {
		stats.AverageHoursPerDay = compliance.RoundHours(totalHours / float64(totalDays))
	}
	for t, c := range issues {
		stats.MostCommonIssues = append(stats.MostCommonIssues, report.IssueCount{Type: t, Count: c})
	}
	sort.Slice(stats.MostCommonIssues, func(i, j int) bool {
		a, b := stats.MostCommonIssues[i], stats.MostCommonIssues[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Type < b.Type
	})

	return stats, nil
}

// GetDepartmentStats implements report.ReportService.
func (s *ReportServiceImpl) GetDepartmentStats(ctx context.Context, req report.MonthRequest) ([]report.DepartmentStats, error) {
	eval, err := s.evaluateMonth(ctx, req)
	if err != nil {
		return nil, err
	}
	return departmentStats(eval), nil
}

func departmentStats(eval monthEvaluation) []report.DepartmentStats {
	type totals struct {
		employees, compliant, issues int
		hours                        float64
	}
	byDepartment := make(map[string]*totals)

	for i, e := range eval.employees {
		name := e.DepartmentName()
		t, ok := byDepartment[name]
		if !ok {
			t = &totals{}
			byDepartment[name] = t
		}
		result := eval.results[i]
		t.employees++
		t.issues += len(result.Anomalies)
		if result.Compliance {
			t.compliant++
		}
		if result.Window != nil {
			t.hours += result.Window.TotalHours
		}
	}

	out := make([]report.DepartmentStats, 0, len(byDepartment))
	for name, t := range byDepartment {
		out = append(out, report.DepartmentStats{
			DepartmentName:          name,
			TotalEmployees:          t.employees,
			CompliantEmployees:      t.compliant,
			ComplianceRate:          percent(t.compliant, t.employees),
			AverageHoursPerEmployee: compliance.RoundHours(t.hours / float64(t.employees)),
			TotalDataIssues:         t.issues,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ComplianceRate != out[j].ComplianceRate {
			return out[i].ComplianceRate > out[j].ComplianceRate
		}
		return out[i].DepartmentName < out[j].DepartmentName
	})
	return out
}

// ExportMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyReport(ctx context.Context, req report.MonthRequest) (report.ExportFile, error) {
	eval, err := s.evaluateMonth(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	monthly := s.buildMonthlyReport(req, eval)
	content, err := renderWorkbook(monthly, departmentStats(eval))
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	filename := fmt.Sprintf("attendance_report_%s.xlsx", req.Label())
	path := fmt.Sprintf("exports/%s/%s_%s", req.Label(), uuid.NewString(), filename)
	data := content.Bytes()

	savedPath, err := s.storage.Save(ctx, bytes.NewReader(data), path)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to store export: %w", err)
	}

	slog.Info("Monthly report exported", "month", req.Label(), "path", savedPath, "employees", monthly.TotalEmployees)

	return report.ExportFile{
		Filename:    filename,
		Path:        savedPath,
		ContentType: report.SpreadsheetContentType,
		Size:        int64(len(data)),
		Content:     data,
	}, nil
}

// percent returns part/whole as a percentage rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2).
		InexactFloat64()
}
