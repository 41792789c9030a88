package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	complianceService "github.com/cmlabs-hris/office-attendance/internal/service/compliance"
)

// recentTrendMonths is how many of the latest months are compared against the rest.
const recentTrendMonths = 3

// GetEmployeeTrends implements report.ReportService.
func (s *ReportServiceImpl) GetEmployeeTrends(ctx context.Context, employeeID int64, monthsBack int) (report.EmployeeTrends, error) {
	if monthsBack == 0 {
		monthsBack = report.DefaultMonthsBack
	}
	if monthsBack < 1 || monthsBack > report.MaxMonthsBack {
		return report.EmployeeTrends{}, report.ErrInvalidMonthsBack
	}

	emp, err := s.employeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return report.EmployeeTrends{}, err
	}

	local := s.now().In(s.policy.Loc())
	current := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.policy.Loc())

	windows := make([]compliance.Period, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		m := current.AddDate(0, -i, 0)
		windows = append(windows, s.monthWindow(m.Year(), int(m.Month())))
	}

	from, _ := windows[0].Bounds()
	_, to := windows[len(windows)-1].Bounds()
	punches, err := s.punchRepository.List(ctx, punch.PunchFilter{EmployeeIDs: []int64{employeeID}, From: from, To: to})
	if err != nil {
		return report.EmployeeTrends{}, fmt.Errorf("failed to list punches: %w", err)
	}

	trends := report.EmployeeTrends{
		EmployeeInfo: employee.NewEmployeeResponse(emp),
		TrendData:    make([]report.TrendPoint, 0, len(windows)),
	}
	for _, w := range windows {
		result := complianceService.Evaluate(employeeID, w, punches, s.policy)
		point := report.TrendPoint{
			Month:             compliance.MonthKey(w.Start),
			Compliant:         result.Compliance,
			HoursCompliance:   result.Rule(compliance.RuleMinimumHours).Compliant,
			PatternCompliance: result.Rule(compliance.RuleWeeklyDistribution).Compliant,
		}
		if result.Window != nil {
			point.DaysAttended = result.Window.DaysAttended
			point.TotalHours = compliance.RoundHours(result.Window.TotalHours)
		}
		trends.TrendData = append(trends.TrendData, point)
	}
	trends.OverallTrend = overallTrend(trends.TrendData)

	return trends, nil
}

// overallTrend compares compliant months among the latest three with the older ones.
// points are in chronological order.
func overallTrend(points []report.TrendPoint) string {
	if len(points) < recentTrendMonths {
		return report.TrendStable
	}

	split := len(points) - recentTrendMonths
	recent, older := 0, 0
	for i, p := range points {
		if !p.Compliant {
			continue
		}
		if i >= split {
			recent++
		} else {
			older++
		}
	}

	switch {
	case recent > older:
		return report.TrendImproving
	case recent < older:
		return report.TrendDeclining
	default:
		return report.TrendStable
	}
}

// GetWeeklyPatterns implements report.ReportService.
func (s *ReportServiceImpl) GetWeeklyPatterns(ctx context.Context, employeeID int64, req report.MonthRequest) (report.WeeklyPatterns, error) {
	if err := req.Validate(); err != nil {
		return report.WeeklyPatterns{}, err
	}

	emp, err := s.employeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return report.WeeklyPatterns{}, err
	}

	window := s.monthWindow(req.Year, req.Month)
	from, to := window.Bounds()
	punches, err := s.punchRepository.List(ctx, punch.PunchFilter{EmployeeIDs: []int64{employeeID}, From: from, To: to})
	if err != nil {
		return report.WeeklyPatterns{}, fmt.Errorf("failed to list punches: %w", err)
	}

	result := complianceService.Evaluate(employeeID, window, punches, s.policy)
	stats := employeeStats(result)

	patterns := report.WeeklyPatterns{
		EmployeeInfo:   employee.NewEmployeeResponse(emp),
		Year:           req.Year,
		Month:          req.Month,
		WeeklyPatterns: []report.WeekPattern{},
		Summary: report.PatternSummary{
			TotalDays:          stats.TotalDaysAttended,
			TotalHours:         stats.TotalHoursWorked,
			AverageHoursPerDay: stats.AverageHoursPerDay,
			WeeksWith1Day:      stats.WeeksWith1Day,
			WeeksWith2Days:     stats.WeeksWith2Days,
			DaysCompliance:     stats.DaysCompliance,
			HoursCompliance:    stats.HoursCompliance,
			PatternCompliance:  stats.PatternCompliance,
			OverallCompliance:  stats.OverallCompliance,
			Reason:             stats.Reason,
		},
	}

	if result.Window == nil {
		return patterns, nil
	}
	for i, w := range result.Window.Weeks {
		pattern := report.WeekPattern{
			WeekNumber:       i + 1,
			ISOWeek:          w.Label(),
			WeekStart:        w.Start.Format(compliance.DateLayout),
			WeekEnd:          w.End.Format(compliance.DateLayout),
			DaysAttended:     w.DaysAttended,
			TotalHours:       compliance.RoundHours(w.TotalHours),
			MeetsRequirement: w.DaysAttended <= s.policy.MaxDaysPerWeek,
			DailyDetails:     make([]report.DailyDetail, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			pattern.DailyDetails = append(pattern.DailyDetails, s.dailyDetail(d))
		}
		patterns.WeeklyPatterns = append(patterns.WeeklyPatterns, pattern)
	}

	return patterns, nil
}

func (s *ReportServiceImpl) dailyDetail(d compliance.DayRecord) report.DailyDetail {
	detail := report.DailyDetail{
		Date:       d.Date.Format(compliance.DateLayout),
		IsComplete: d.Attended() && d.Reliable(),
	}
	for _, t := range d.AnomalyTypes() {
		detail.Anomalies = append(detail.Anomalies, string(t))
	}
	if !d.Attended() {
		return detail
	}

	entry := d.Intervals[0].Entry.Format(compliance.ClockLayout)
	exit := d.Intervals[len(d.Intervals)-1].Exit.Format(compliance.ClockLayout)
	hours := compliance.RoundHours(d.WorkedHours)
	detail.EntryTime = &entry
	detail.ExitTime = &exit
	detail.HoursWorked = &hours
	detail.MeetsMinimum = complianceService.MeetsThreshold(d.WorkedHours, s.policy.MinHoursPerDay)
	return detail
}
