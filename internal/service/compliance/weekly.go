package compliance

import (
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
)

// AggregateWeeks buckets days into every ISO week overlapping window. Each bucket
// is clipped to the window and days outside it are left out even when their ISO
// week overlaps. days must belong to a single employee.
func AggregateWeeks(days []compliance.DayRecord, window compliance.Period) []compliance.WeekBucket {
	var weeks []compliance.WeekBucket

	for monday := startOfISOWeek(window.Start); !monday.After(window.End); monday = monday.AddDate(0, 0, 7) {
		year, week := monday.ISOWeek()
		bucket := compliance.WeekBucket{
			Year:  year,
			Week:  week,
			Start: laterOf(monday, window.Start),
			End:   earlierOf(monday.AddDate(0, 0, 6), window.End),
		}

		for _, d := range days {
			if d.Date.Before(bucket.Start) || d.Date.After(bucket.End) {
				continue
			}
			bucket.Days = append(bucket.Days, d)
			if d.Attended() {
				bucket.DaysAttended++
				bucket.TotalHours += d.WorkedHours
			}
		}
		weeks = append(weeks, bucket)
	}

	return weeks
}

func startOfISOWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return time.Date(d.Year(), d.Month(), d.Day()-offset, 0, 0, 0, 0, d.Location())
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
