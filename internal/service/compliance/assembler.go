package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
)

// Evaluate runs the whole pipeline for one employee. Punches belonging to other
// employees are skipped. Multi-month custom periods are evaluated per calendar
// month and the rules aggregated; everything else is a single window.
func Evaluate(employeeID int64, period compliance.Period, punches []punch.Punch, policy compliance.Policy) compliance.ComplianceResult {
	own := make([]punch.Punch, 0, len(punches))
	for _, p := range punches {
		if p.EmployeeID == employeeID {
			own = append(own, p)
		}
	}

	var days []compliance.DayRecord
	for _, d := range BuildDays(own, policy) {
		if period.Contains(d.Date) {
			days = append(days, d)
		}
	}

	result := compliance.ComplianceResult{
		EmployeeID: employeeID,
		Period:     period,
		Anomalies:  CollectAnomalies(days),
		NoData:     len(days) == 0,
	}

	if period.PerMonth() {
		weeks := AggregateWeeks(days, period)
		for _, window := range period.MonthWindows() {
			result.Monthly = append(result.Monthly, evaluateMonth(employeeID, window, days, weeks, policy))
		}
		result.Rules = aggregateRules(result.Monthly)
		result.Compliance, result.Reason = aggregateVerdict(result.Monthly)
	} else {
		window := EvaluateWindow(employeeID, period, days, policy)
		result.Window = &window
		result.Rules = window.Rules
		result.Compliance, result.Reason = window.OverallCompliant, window.OverallReason
	}

	if result.NoData {
		result.Compliance = false
		result.Reason = compliance.ErrNoPunchData.Error()
	}
	return result
}

func aggregateRules(months []compliance.MonthlyComplianceResult) []compliance.RuleResult {
	rules := make([]compliance.RuleResult, 0, len(compliance.RuleIDs))
	for _, id := range compliance.RuleIDs {
		var failing []string
		for _, m := range months {
			if !m.Rule(id).Compliant {
				failing = append(failing, m.Month)
			}
		}
		r := compliance.RuleResult{Rule: id, Compliant: len(failing) == 0}
		if r.Compliant {
			r.Reason = fmt.Sprintf("Compliant in all %d months", len(months))
		} else {
			r.Reason = fmt.Sprintf("Non-compliant in %s", strings.Join(failing, ", "))
		}
		rules = append(rules, r)
	}
	return rules
}

func aggregateVerdict(months []compliance.MonthlyComplianceResult) (bool, string) {
	for _, m := range months {
		if !m.OverallCompliant {
			return false, fmt.Sprintf("%s: %s", m.Month, m.OverallReason)
		}
	}
	return true, compliantReason
}

// ========================================
// RESPONSE SHAPING
// ========================================

// ToResponse shapes a result for the API. It never re-derives rule outcomes.
func ToResponse(result compliance.ComplianceResult) compliance.ComplianceResponse {
	resp := compliance.ComplianceResponse{
		EmployeeID: result.EmployeeID,
		Period:     result.Period.Label(),
		StartDate:  dateKey(result.Period.Start),
		EndDate:    dateKey(result.Period.End),
		Compliance: result.Compliance,
		Reason:     result.Reason,
		NoData:     result.NoData,
		Details:    ruleDetails(result.Rules),
	}

	if len(result.Monthly) > 0 {
		resp.MonthlyResults = make(map[string]compliance.MonthlyResultResponse, len(result.Monthly))
		for _, m := range result.Monthly {
			resp.MonthlyResults[m.Month] = monthlyResponse(m)
		}
	}
	return resp
}

// ToBatchResponse shapes many results evaluated over the same period.
func ToBatchResponse(period compliance.Period, results []compliance.ComplianceResult) compliance.BatchComplianceResponse {
	resp := compliance.BatchComplianceResponse{
		Period:         period.Label(),
		TotalEmployees: len(results),
		Results:        make([]compliance.ComplianceResponse, 0, len(results)),
	}
	for _, r := range results {
		if r.Compliance {
			resp.CompliantEmployees++
		} else {
			resp.NonCompliantEmployees++
		}
		resp.Results = append(resp.Results, ToResponse(r))
	}
	return resp
}

func monthlyResponse(m compliance.MonthlyComplianceResult) compliance.MonthlyResultResponse {
	return compliance.MonthlyResultResponse{
		Month:        m.Month,
		StartDate:    dateKey(m.Window.Start),
		EndDate:      dateKey(m.Window.End),
		Compliant:    m.OverallCompliant,
		Reason:       m.OverallReason,
		DaysAttended: m.DaysAttended,
		TotalHours:   compliance.RoundHours(m.TotalHours),
		Details:      ruleDetails(m.Rules),
	}
}

func ruleDetails(rules []compliance.RuleResult) compliance.RuleDetails {
	var details compliance.RuleDetails
	for _, r := range rules {
		switch r.Rule {
		case compliance.RuleMinimumDays:
			details.MinimumDays = ruleResponse(r)
		case compliance.RuleWeeklyDistribution:
			details.WeeklyDistribution = ruleResponse(r)
		case compliance.RuleMinimumHours:
			details.MinimumHours = ruleResponse(r)
		}
	}
	return details
}

func ruleResponse(r compliance.RuleResult) compliance.RuleResponse {
	resp := compliance.RuleResponse{Compliant: r.Compliant, Reason: r.Reason}

	if d := r.MinimumDays; d != nil {
		resp.DaysAttended = intPtr(d.DaysAttended)
		resp.MinRequired = intPtr(d.MinRequired)
		resp.TotalRecords = intPtr(d.TotalRecords)
	}

	if d := r.WeeklyDistribution; d != nil {
		resp.MaxDaysPerWeek = intPtr(d.MaxDaysPerWeek)
		for _, w := range d.Weeks {
			resp.WeeklyBreakdown = append(resp.WeeklyBreakdown, weekResponse(w))
		}
		for _, w := range d.Offending {
			resp.OffendingWeeks = append(resp.OffendingWeeks, w.Label())
		}
	}

	if d := r.MinimumHours; d != nil {
		threshold := d.ThresholdHours
		resp.MinHoursPerDay = &threshold
		resp.DaysAttended = intPtr(d.DaysAttended)
		resp.DaysMeetingHours = intPtr(d.DaysMeetingHours)
		if len(d.Days) > 0 {
			resp.DetailedHoursAnalysis = make(map[string]compliance.DailyHoursAnalysis, len(d.Days))
			for _, day := range d.Days {
				resp.DetailedHoursAnalysis[dateKey(day.Date)] = dailyAnalysis(day)
			}
		}
	}

	return resp
}

func weekResponse(w compliance.WeekBucket) compliance.WeekResponse {
	return compliance.WeekResponse{
		Week:         w.Label(),
		StartDate:    dateKey(w.Start),
		EndDate:      dateKey(w.End),
		DaysAttended: w.DaysAttended,
		TotalHours:   compliance.RoundHours(w.TotalHours),
	}
}

func dailyAnalysis(d compliance.DayHours) compliance.DailyHoursAnalysis {
	a := compliance.DailyHoursAnalysis{
		TotalHours:   compliance.RoundHours(d.TotalHours),
		MeetsMinimum: d.MeetsMinimum,
		Attended:     d.Attended,
		Entries:      clockTimes(d.Entries),
		Exits:        clockTimes(d.Exits),
		Reason:       d.Reason,
	}
	for _, t := range d.Anomalies {
		a.Anomalies = append(a.Anomalies, string(t))
	}
	return a
}

func clockTimes(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format(compliance.ClockLayout))
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
