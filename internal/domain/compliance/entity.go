package compliance

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// ========================================
// PERIOD
// ========================================

type PeriodKind string

const (
	PeriodPredefined PeriodKind = "predefined"
	PeriodCustom     PeriodKind = "custom"
)

// Period is a calendar-aligned, inclusive date range. Start and End are
// midnights in the policy location.
type Period struct {
	Start  time.Time
	End    time.Time
	Kind   PeriodKind
	Months int
}

func (p Period) Label() string {
	return fmt.Sprintf("%s to %s", p.Start.Format(DateLayout), p.End.Format(DateLayout))
}

// Contains reports whether the calendar day d (a local midnight) lies in the period.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Bounds returns the half-open instant range [Start, End+1day) used to fetch punches.
func (p Period) Bounds() (time.Time, time.Time) {
	return p.Start, p.End.AddDate(0, 0, 1)
}

func (p Period) SpansMultipleMonths() bool {
	return p.Start.Year() != p.End.Year() || p.Start.Month() != p.End.Month()
}

// PerMonth reports whether the period is evaluated as one window per calendar month.
// Only custom ranges crossing a month boundary are split.
func (p Period) PerMonth() bool {
	return p.Kind == PeriodCustom && p.SpansMultipleMonths()
}

// MonthWindows splits the period into calendar months, clipped to the period.
func (p Period) MonthWindows() []Period {
	var windows []Period
	loc := p.Start.Location()
	cursor := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, loc)
	for !cursor.After(p.End) {
		start := cursor
		if start.Before(p.Start) {
			start = p.Start
		}
		end := cursor.AddDate(0, 1, -1)
		if end.After(p.End) {
			end = p.End
		}
		windows = append(windows, Period{Start: start, End: end, Kind: p.Kind})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return windows
}

// MonthKey labels a date's calendar month as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ========================================
// POLICY
// ========================================

// Policy holds the thresholds every rule is evaluated against.
type Policy struct {
	MinDaysPerMonth    int
	MaxDaysPerWeek     int
	MinHoursPerDay     float64
	MissingEntryCutoff time.Duration
	Location           *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		MinDaysPerMonth:    6,
		MaxDaysPerWeek:     2,
		MinHoursPerDay:     9.0,
		MissingEntryCutoff: 12 * time.Hour,
		Location:           time.UTC,
	}
}

func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// ========================================
// DAYS, INTERVALS, ANOMALIES
// ========================================

type Interval struct {
	Entry time.Time
	Exit  time.Time
}

func (i Interval) Duration() time.Duration {
	return i.Exit.Sub(i.Entry)
}

type AnomalyType string

const (
	AnomalyMissingExit     AnomalyType = "missing_exit"
	AnomalyMissingEntry    AnomalyType = "missing_entry"
	AnomalyMultipleEntries AnomalyType = "multiple_entries"
)

type Anomaly struct {
	Type         AnomalyType
	EmployeeID   int64
	Date         time.Time
	Description  string
	Punches      []time.Time
	TotalRecords int
}

func (a Anomaly) FirstRecord() *time.Time {
	if len(a.Punches) == 0 {
		return nil
	}
	first := a.Punches[0]
	return &first
}

func (a Anomaly) LastRecord() *time.Time {
	if len(a.Punches) == 0 {
		return nil
	}
	last := a.Punches[len(a.Punches)-1]
	return &last
}

// DayRecord is one employee's punches for one local calendar day.
type DayRecord struct {
	EmployeeID  int64
	Date        time.Time
	Punches     []time.Time
	RawCount    int
	Intervals   []Interval
	WorkedHours float64
	Anomalies   []Anomaly
}

// Attended reports whether the day has at least one complete interval.
func (d DayRecord) Attended() bool {
	return len(d.Intervals) > 0
}

// Reliable is false when any anomaly was flagged for the day.
func (d DayRecord) Reliable() bool {
	return len(d.Anomalies) == 0
}

func (d DayRecord) AnomalyTypes() []AnomalyType {
	if len(d.Anomalies) == 0 {
		return nil
	}
	types := make([]AnomalyType, 0, len(d.Anomalies))
	for _, a := range d.Anomalies {
		types = append(types, a.Type)
	}
	return types
}

// ========================================
// WEEKS
// ========================================

// WeekBucket is an ISO week clipped to the evaluation window.
type WeekBucket struct {
	Year         int
	Week         int
	Start        time.Time
	End          time.Time
	DaysAttended int
	TotalHours   float64
	Days         []DayRecord
}

// Label renders the ISO week as "2024-W09".
func (w WeekBucket) Label() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// ========================================
// RULES
// ========================================

type RuleID string

const (
	RuleMinimumDays        RuleID = "rule_1_minimum_days"
	RuleWeeklyDistribution RuleID = "rule_2_weekly_distribution"
	RuleMinimumHours       RuleID = "rule_3_minimum_hours"
)

// RuleIDs lists the rules in evaluation order.
var RuleIDs = []RuleID{RuleMinimumDays, RuleWeeklyDistribution, RuleMinimumHours}

func (id RuleID) Name() string {
	switch id {
	case RuleMinimumDays:
		return "Rule 1 (minimum days)"
	case RuleWeeklyDistribution:
		return "Rule 2 (weekly distribution)"
	case RuleMinimumHours:
		return "Rule 3 (minimum hours)"
	}
	return string(id)
}

type MinimumDaysDetail struct {
	DaysAttended int
	MinRequired  int
	TotalRecords int
}

type WeeklyDistributionDetail struct {
	MaxDaysPerWeek int
	Weeks          []WeekBucket
	Offending      []WeekBucket
}

type DayHours struct {
	Date         time.Time
	Attended     bool
	TotalHours   float64
	MeetsMinimum bool
	Entries      []time.Time
	Exits        []time.Time
	Anomalies    []AnomalyType
	Reason       string
}

type MinimumHoursDetail struct {
	ThresholdHours   float64
	DaysAttended     int
	DaysMeetingHours int
	Days             []DayHours
}

// RuleResult is the verdict of one rule. Exactly one detail pointer is set,
// matching Rule; aggregated multi-month results carry none.
type RuleResult struct {
	Rule      RuleID
	Compliant bool
	Reason    string

	MinimumDays        *MinimumDaysDetail
	WeeklyDistribution *WeeklyDistributionDetail
	MinimumHours       *MinimumHoursDetail
}

// ========================================
// RESULTS
// ========================================

type MonthlyComplianceResult struct {
	EmployeeID       int64
	Month            string
	Window           Period
	Rules            []RuleResult
	OverallCompliant bool
	OverallReason    string
	DaysAttended     int
	TotalHours       float64
	Weeks            []WeekBucket
	Days             []DayRecord
}

// Rule returns the result for id. The zero RuleResult is returned for unknown ids.
func (m MonthlyComplianceResult) Rule(id RuleID) RuleResult {
	for _, r := range m.Rules {
		if r.Rule == id {
			return r
		}
	}
	return RuleResult{Rule: id}
}

func (m MonthlyComplianceResult) AverageHoursPerDay() float64 {
	if m.DaysAttended == 0 {
		return 0
	}
	return m.TotalHours / float64(m.DaysAttended)
}

// ComplianceResult is the per-employee verdict for a requested period.
// Monthly is set only when the period is evaluated per calendar month.
type ComplianceResult struct {
	EmployeeID int64
	Period     Period
	Compliance bool
	Reason     string
	Rules      []RuleResult
	Window     *MonthlyComplianceResult
	Monthly    []MonthlyComplianceResult
	NoData     bool
	Anomalies  []Anomaly
}

func (c ComplianceResult) Rule(id RuleID) RuleResult {
	for _, r := range c.Rules {
		if r.Rule == id {
			return r
		}
	}
	return RuleResult{Rule: id}
}
