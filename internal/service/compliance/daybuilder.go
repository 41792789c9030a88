package compliance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
)

type dayKey struct {
	employeeID int64
	date       time.Time
}

// BuildDays groups punches by employee and local calendar day and pairs them
// positionally into entry/exit intervals. Ignored punches are dropped first and
// the input slice is never modified. Days come back ordered by employee, then date.
func BuildDays(punches []punch.Punch, policy compliance.Policy) []compliance.DayRecord {
	loc := policy.Loc()

	kept := make([]punch.Punch, 0, len(punches))
	for _, p := range punches {
		if p.Ignored() {
			continue
		}
		kept = append(kept, p)
	}
	sortPunches(kept)

	groups := make(map[dayKey][]time.Time)
	var keys []dayKey
	for _, p := range kept {
		local := p.Timestamp.In(loc)
		key := dayKey{
			employeeID: p.EmployeeID,
			date:       time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], local)
	}

	days := make([]compliance.DayRecord, 0, len(keys))
	for _, key := range keys {
		days = append(days, buildDay(key, groups[key], policy))
	}
	return days
}

func buildDay(key dayKey, raw []time.Time, policy compliance.Policy) compliance.DayRecord {
	unique := collapseDuplicates(raw)

	var intervals []compliance.Interval
	for i := 0; i+1 < len(unique); i += 2 {
		intervals = append(intervals, compliance.Interval{Entry: unique[i], Exit: unique[i+1]})
	}

	return compliance.DayRecord{
		EmployeeID:  key.employeeID,
		Date:        key.date,
		Punches:     unique,
		RawCount:    len(raw),
		Intervals:   intervals,
		WorkedHours: WorkedHours(intervals),
		Anomalies:   detectAnomalies(key.employeeID, key.date, raw, unique, policy),
	}
}

// sortPunches orders by employee, then timestamp. Equal timestamps fall back
// to priority, lower first, punches without a priority last.
func sortPunches(punches []punch.Punch) {
	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		switch {
		case a.Priority == nil:
			return false
		case b.Priority == nil:
			return true
		default:
			return *a.Priority < *b.Priority
		}
	})
}

func collapseDuplicates(sorted []time.Time) []time.Time {
	unique := make([]time.Time, 0, len(sorted))
	for _, t := range sorted {
		if n := len(unique); n > 0 && unique[n-1].Equal(t) {
			continue
		}
		unique = append(unique, t)
	}
	return unique
}
