package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
)

const compliantReason = "Meets all attendance rules"

// EvaluateWindow applies the three rules to one employee's days inside window.
// Days outside the window are ignored.
func EvaluateWindow(employeeID int64, window compliance.Period, days []compliance.DayRecord, policy compliance.Policy) compliance.MonthlyComplianceResult {
	inWindow := daysInWindow(employeeID, window, days)
	return evaluateWindow(employeeID, window, inWindow, AggregateWeeks(inWindow, window), policy)
}

// evaluateMonth evaluates one month of a multi-month range. Rule 2 reads the
// range-wide weeks overlapping the month, so a week crossing the month boundary
// is counted whole in both months.
func evaluateMonth(employeeID int64, month compliance.Period, days []compliance.DayRecord, periodWeeks []compliance.WeekBucket, policy compliance.Policy) compliance.MonthlyComplianceResult {
	var weeks []compliance.WeekBucket
	for _, w := range periodWeeks {
		if !w.End.Before(month.Start) && !w.Start.After(month.End) {
			weeks = append(weeks, w)
		}
	}
	return evaluateWindow(employeeID, month, daysInWindow(employeeID, month, days), weeks, policy)
}

func daysInWindow(employeeID int64, window compliance.Period, days []compliance.DayRecord) []compliance.DayRecord {
	var inWindow []compliance.DayRecord
	for _, d := range days {
		if d.EmployeeID == employeeID && window.Contains(d.Date) {
			inWindow = append(inWindow, d)
		}
	}
	return inWindow
}

func evaluateWindow(employeeID int64, window compliance.Period, inWindow []compliance.DayRecord, weeks []compliance.WeekBucket, policy compliance.Policy) compliance.MonthlyComplianceResult {
	result := compliance.MonthlyComplianceResult{
		EmployeeID: employeeID,
		Month:      compliance.MonthKey(window.Start),
		Window:     window,
		Days:       inWindow,
		Weeks:      weeks,
	}

	totalRecords := 0
	for _, d := range inWindow {
		totalRecords += d.RawCount
		if d.Attended() {
			result.DaysAttended++
			result.TotalHours += d.WorkedHours
		}
	}

	result.Rules = []compliance.RuleResult{
		evaluateMinimumDays(result.DaysAttended, totalRecords, policy),
		evaluateWeeklyDistribution(result.Weeks, policy),
		evaluateMinimumHours(inWindow, policy),
	}
	result.OverallCompliant, result.OverallReason = overallVerdict(result.Rules)

	return result
}

func evaluateMinimumDays(attended, totalRecords int, policy compliance.Policy) compliance.RuleResult {
	r := compliance.RuleResult{
		Rule:      compliance.RuleMinimumDays,
		Compliant: attended >= policy.MinDaysPerMonth,
		MinimumDays: &compliance.MinimumDaysDetail{
			DaysAttended: attended,
			MinRequired:  policy.MinDaysPerMonth,
			TotalRecords: totalRecords,
		},
	}
	if r.Compliant {
		r.Reason = fmt.Sprintf("Attended %d days, minimum is %d", attended, policy.MinDaysPerMonth)
	} else {
		r.Reason = fmt.Sprintf("Attended only %d/%d required days", attended, policy.MinDaysPerMonth)
	}
	return r
}

func evaluateWeeklyDistribution(weeks []compliance.WeekBucket, policy compliance.Policy) compliance.RuleResult {
	detail := &compliance.WeeklyDistributionDetail{
		MaxDaysPerWeek: policy.MaxDaysPerWeek,
		Weeks:          weeks,
	}

	var offending []string
	for _, w := range weeks {
		if w.DaysAttended > policy.MaxDaysPerWeek {
			detail.Offending = append(detail.Offending, w)
			offending = append(offending, fmt.Sprintf("%s (%d days)", w.Label(), w.DaysAttended))
		}
	}

	r := compliance.RuleResult{
		Rule:               compliance.RuleWeeklyDistribution,
		Compliant:          len(offending) == 0,
		WeeklyDistribution: detail,
	}
	if r.Compliant {
		r.Reason = fmt.Sprintf("No week exceeds %d attended days", policy.MaxDaysPerWeek)
	} else {
		r.Reason = fmt.Sprintf("More than %d days attended in %s", policy.MaxDaysPerWeek, strings.Join(offending, ", "))
	}
	return r
}

func evaluateMinimumHours(days []compliance.DayRecord, policy compliance.Policy) compliance.RuleResult {
	detail := &compliance.MinimumHoursDetail{ThresholdHours: policy.MinHoursPerDay}

	for _, d := range days {
		dh := dayHours(d, policy)
		if dh.Attended {
			detail.DaysAttended++
			if dh.MeetsMinimum {
				detail.DaysMeetingHours++
			}
		}
		detail.Days = append(detail.Days, dh)
	}

	r := compliance.RuleResult{
		Rule:         compliance.RuleMinimumHours,
		MinimumHours: detail,
	}
	short := detail.DaysAttended - detail.DaysMeetingHours
	switch {
	case detail.DaysAttended == 0:
		r.Reason = "No attended days in the period, so the daily minimum cannot be met"
	case short > 0:
		r.Reason = fmt.Sprintf("%d of %d attended days below %.1fh minimum", short, detail.DaysAttended, policy.MinHoursPerDay)
	default:
		r.Compliant = true
		r.Reason = fmt.Sprintf("All %d attended days meet %.1fh minimum", detail.DaysAttended, policy.MinHoursPerDay)
	}
	return r
}

// dayHours lays a day out for audit. Punches alternate entry, exit by position;
// a lone punch flagged as missing_entry is shown as an exit.
func dayHours(d compliance.DayRecord, policy compliance.Policy) compliance.DayHours {
	dh := compliance.DayHours{
		Date:       d.Date,
		Attended:   d.Attended(),
		TotalHours: d.WorkedHours,
		Anomalies:  d.AnomalyTypes(),
	}

	missingEntry := false
	for _, a := range d.Anomalies {
		if a.Type == compliance.AnomalyMissingEntry {
			missingEntry = true
		}
	}
	for i, p := range d.Punches {
		if i%2 == 0 && !missingEntry {
			dh.Entries = append(dh.Entries, p)
		} else {
			dh.Exits = append(dh.Exits, p)
		}
	}

	switch {
	case !dh.Attended:
		dh.Reason = "No complete entry/exit pair"
	case MeetsThreshold(d.WorkedHours, policy.MinHoursPerDay):
		dh.MeetsMinimum = true
		dh.Reason = fmt.Sprintf("Worked %.2fh, meets %.1fh minimum", d.WorkedHours, policy.MinHoursPerDay)
	default:
		dh.Reason = fmt.Sprintf("Worked %.2fh, below %.1fh minimum", d.WorkedHours, policy.MinHoursPerDay)
	}
	return dh
}

func overallVerdict(rules []compliance.RuleResult) (bool, string) {
	for _, r := range rules {
		if !r.Compliant {
			return false, fmt.Sprintf("%s: %s", r.Rule.Name(), r.Reason)
		}
	}
	return true, compliantReason
}

// dateKey formats a local midnight as YYYY-MM-DD.
func dateKey(t time.Time) string {
	return t.Format(compliance.DateLayout)
}
