package compliance

import (
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
)

// hoursEpsilon absorbs float noise when comparing worked hours to a threshold.
const hoursEpsilon = 1e-9

// WorkedHours sums the interval durations in fractional hours.
// Intervals never cross midnight: a shift over midnight counts as two days.
func WorkedHours(intervals []compliance.Interval) float64 {
	var total time.Duration
	for _, iv := range intervals {
		if d := iv.Duration(); d > 0 {
			total += d
		}
	}
	return total.Hours()
}

// MeetsThreshold reports whether hours reach threshold.
func MeetsThreshold(hours, threshold float64) bool {
	return hours+hoursEpsilon >= threshold
}
