package compliance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
)

// ResolvePeriod turns a period request into a calendar-aligned window in loc.
// now is the reference instant; the result depends on nothing else.
func ResolvePeriod(req compliance.PeriodRequest, now time.Time, loc *time.Location) (compliance.Period, error) {
	if loc == nil {
		loc = time.UTC
	}

	if req.IsCustom() {
		return resolveCustom(req, loc)
	}

	months := req.Months
	if months == 0 {
		months = 1
	}
	if !validator.IsInIntSlice(months, compliance.SupportedMonths) {
		return compliance.Period{}, fmt.Errorf("%w: months must be one of 1, 2, 3, 6 or 12, got %d", compliance.ErrInvalidPeriod, months)
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	firstOfMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	lastOfPrevious := firstOfMonth.AddDate(0, 0, -1)

	period := compliance.Period{Kind: compliance.PeriodPredefined, Months: months}
	switch months {
	case 1:
		period.Start, period.End = firstOfMonth, today
	case 2:
		period.Start, period.End = firstOfMonth.AddDate(0, -1, 0), lastOfPrevious
	default:
		period.Start, period.End = firstOfMonth.AddDate(0, -months, 0), lastOfPrevious
	}
	return period, nil
}

func resolveCustom(req compliance.PeriodRequest, loc *time.Location) (compliance.Period, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return compliance.Period{}, fmt.Errorf("%w: both start_date and end_date are required", compliance.ErrInvalidPeriod)
	}

	start, err := time.ParseInLocation(compliance.DateLayout, req.StartDate, loc)
	if err != nil {
		return compliance.Period{}, fmt.Errorf("%w: start_date %q is not a valid date", compliance.ErrInvalidPeriod, req.StartDate)
	}
	end, err := time.ParseInLocation(compliance.DateLayout, req.EndDate, loc)
	if err != nil {
		return compliance.Period{}, fmt.Errorf("%w: end_date %q is not a valid date", compliance.ErrInvalidPeriod, req.EndDate)
	}
	if start.After(end) {
		return compliance.Period{}, fmt.Errorf("%w: start_date %s is after end_date %s", compliance.ErrInvalidPeriod, req.StartDate, req.EndDate)
	}

	return compliance.Period{Start: start, End: end, Kind: compliance.PeriodCustom}, nil
}
