package compliance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
)

// detectAnomalies classifies one employee-day. raw holds every non-ignored punch
// in order, unique the same punches with exact duplicates collapsed. Detection
// only reports; pairing has already happened on unique.
func detectAnomalies(employeeID int64, date time.Time, raw, unique []time.Time, policy compliance.Policy) []compliance.Anomaly {
	var anomalies []compliance.Anomaly

	newAnomaly := func(t compliance.AnomalyType, description string) compliance.Anomaly {
		punches := make([]time.Time, len(raw))
		copy(punches, raw)
		return compliance.Anomaly{
			Type:         t,
			EmployeeID:   employeeID,
			Date:         date,
			Description:  description,
			Punches:      punches,
			TotalRecords: len(raw),
		}
	}

	n := len(unique)
	if n%2 == 1 {
		last := unique[n-1]
		if n == 1 && sinceMidnight(last) >= policy.MissingEntryCutoff {
			anomalies = append(anomalies, newAnomaly(compliance.AnomalyMissingEntry,
				fmt.Sprintf("Single punch at %s has no preceding entry", last.Format(compliance.ClockLayout))))
		} else {
			anomalies = append(anomalies, newAnomaly(compliance.AnomalyMissingExit,
				fmt.Sprintf("Entry at %s has no matching exit", last.Format(compliance.ClockLayout))))
		}
	}

	var surplus []string
	if dup := len(raw) - n; dup > 0 {
		surplus = append(surplus, fmt.Sprintf("%d duplicate punch(es) collapsed", dup))
	}
	if n > 2 && n%2 == 1 {
		surplus = append(surplus, fmt.Sprintf("%d punches cannot be paired into whole intervals", n))
	}
	if len(surplus) > 0 {
		anomalies = append(anomalies, newAnomaly(compliance.AnomalyMultipleEntries, strings.Join(surplus, "; ")))
	}

	return anomalies
}

// CollectAnomalies flattens the anomalies of days, ordered by date then employee.
func CollectAnomalies(days []compliance.DayRecord) []compliance.Anomaly {
	var anomalies []compliance.Anomaly
	for _, d := range days {
		anomalies = append(anomalies, d.Anomalies...)
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		if !anomalies[i].Date.Equal(anomalies[j].Date) {
			return anomalies[i].Date.Before(anomalies[j].Date)
		}
		return anomalies[i].EmployeeID < anomalies[j].EmployeeID
	})
	return anomalies
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
