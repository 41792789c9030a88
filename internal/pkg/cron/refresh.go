package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
)

const (
	CacheRefreshJobName = "cache_refresh"

	// While the month is young the previous one is still being corrected and read.
	previousMonthWarmDays = 5
)

// CacheRefreshJobs clears stale cache entries and pre-warms the views most
// dashboards open first.
type CacheRefreshJobs struct {
	cache         cache.Cache
	employeeRepo  employee.EmployeeRepository
	reportService report.ReportService
	loc           *time.Location
	now           func() time.Time
}

func NewCacheRefreshJobs(
	c cache.Cache,
	employeeRepo employee.EmployeeRepository,
	reportService report.ReportService,
	loc *time.Location,
	now func() time.Time,
) *CacheRefreshJobs {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &CacheRefreshJobs{
		cache:         c,
		employeeRepo:  employeeRepo,
		reportService: reportService,
		loc:           loc,
		now:           now,
	}
}

func (j *CacheRefreshJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(CacheRefreshJobName, interval, j.RefreshCache)
}

// RefreshCache drops employee and attendance entries, then reloads the
// employee directory and the monthly report of the running month. During the
// first days of a month the previous month is reloaded too.
func (j *CacheRefreshJobs) RefreshCache(ctx context.Context) error {
	slog.Info("Cron: Starting cache refresh job")

	cleared := 0
	for _, pattern := range []string{"employee*", "attendance*"} {
		n, err := j.cache.DeletePattern(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to clear cache pattern %s: %w", pattern, err)
		}
		cleared += n
	}
	slog.Info("Cron: Cleared cache entries", "count", cleared)

	employees, err := j.employeeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to pre-warm employees: %w", err)
	}
	slog.Info("Cron: Pre-warmed employees", "count", len(employees))

	now := j.now().In(j.loc)
	months := []report.MonthRequest{{Year: now.Year(), Month: int(now.Month())}}
	if now.Day() <= previousMonthWarmDays {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, j.loc).AddDate(0, -1, 0)
		months = append(months, report.MonthRequest{Year: prev.Year(), Month: int(prev.Month())})
	}

	for _, month := range months {
		if _, err := j.reportService.GetMonthlyReport(ctx, month); err != nil {
			return fmt.Errorf("failed to pre-warm %s: %w", month.Label(), err)
		}
		slog.Info("Cron: Pre-warmed monthly attendance", "month", month.Label())
	}

	slog.Info("Cron: Cache refresh completed", "months", len(months))
	return nil
}
