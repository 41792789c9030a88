package report

import "errors"

var (
	ErrInvalidMonth           = errors.New("month must be between 1 and 12")
	ErrInvalidYear            = errors.New("year must be a valid year")
	ErrInvalidMonthsBack      = errors.New("months_back must be between 1 and 24")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
