package compliance

import "errors"

var (
	// ErrInvalidPeriod covers a start date after the end date and unsupported month counts
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrNoPunchData is reported as the reason of a non-compliant result, never returned
	ErrNoPunchData = errors.New("no attendance data in the period")
)
