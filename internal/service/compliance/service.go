package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many employees are evaluated at once.
const DefaultConcurrency = 8

type ComplianceServiceImpl struct {
	punchRepository    punch.PunchRepository
	employeeRepository employee.EmployeeRepository
	policy             compliance.Policy
	now                func() time.Time
}

// NewComplianceService builds the service. A nil clock falls back to time.Now.
func NewComplianceService(
	punchRepository punch.PunchRepository,
	employeeRepository employee.EmployeeRepository,
	policy compliance.Policy,
	now func() time.Time,
) compliance.ComplianceService {
	if now == nil {
		now = time.Now
	}
	return &ComplianceServiceImpl{
		punchRepository:    punchRepository,
		employeeRepository: employeeRepository,
		policy:             policy,
		now:                now,
	}
}

// CheckEmployee implements compliance.ComplianceService.
func (s *ComplianceServiceImpl) CheckEmployee(ctx context.Context, req compliance.ComplianceRequest) (compliance.ComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return compliance.ComplianceResponse{}, err
	}

	if _, err := s.employeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return compliance.ComplianceResponse{}, err
	}

	period, err := ResolvePeriod(req.PeriodRequest, s.now(), s.policy.Loc())
	if err != nil {
		return compliance.ComplianceResponse{}, err
	}

	punches, err := s.fetchPunches(ctx, []int64{req.EmployeeID}, period)
	if err != nil {
		return compliance.ComplianceResponse{}, err
	}

	result := Evaluate(req.EmployeeID, period, punches, s.policy)
	return ToResponse(result), nil
}

// CheckEmployees implements compliance.ComplianceService.
func (s *ComplianceServiceImpl) CheckEmployees(ctx context.Context, req compliance.BatchComplianceRequest) (compliance.BatchComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return compliance.BatchComplianceResponse{}, err
	}

	period, err := ResolvePeriod(req.PeriodRequest, s.now(), s.policy.Loc())
	if err != nil {
		return compliance.BatchComplianceResponse{}, err
	}

	ids := req.UniqueEmployeeIDs()
	punches, err := s.fetchPunches(ctx, ids, period)
	if err != nil {
		return compliance.BatchComplianceResponse{}, err
	}

	results, err := EvaluateEmployees(ctx, ids, period, punches, s.policy, DefaultConcurrency)
	if err != nil {
		return compliance.BatchComplianceResponse{}, err
	}

	slog.Info("Compliance batch evaluated", "employees", len(ids), "period", period.Label())
	return ToBatchResponse(period, results), nil
}

// GetPeriods implements compliance.ComplianceService.
func (s *ComplianceServiceImpl) GetPeriods(ctx context.Context) compliance.PeriodsResponse {
	return compliance.PeriodsResponse{
		Periods: []compliance.PeriodOption{
			{Months: 1, Name: "Current month", Description: "From the first day of the current month through today"},
			{Months: 2, Name: "Previous month", Description: "The previous full calendar month"},
			{Months: 3, Name: "Last 3 months", Description: "The 3 full calendar months before the current month"},
			{Months: 6, Name: "Last 6 months", Description: "The 6 full calendar months before the current month"},
			{Months: 12, Name: "Last 12 months", Description: "The 12 full calendar months before the current month"},
		},
		CustomPeriod: "Pass start_date and end_date (YYYY-MM-DD); ranges spanning several months are evaluated per month",
	}
}

// GetRules implements compliance.ComplianceService.
func (s *ComplianceServiceImpl) GetRules(ctx context.Context) compliance.RulesResponse {
	p := s.policy
	return compliance.RulesResponse{
		Rules: []compliance.RuleDescription{
			{
				Rule:        compliance.RuleMinimumDays,
				Name:        "Minimum days",
				Description: "Employees must come to the office a minimum number of days per month",
				Requirement: fmt.Sprintf("At least %d attended days per month", p.MinDaysPerMonth),
			},
			{
				Rule:        compliance.RuleWeeklyDistribution,
				Name:        "Weekly distribution",
				Description: "Office days must be spread across the month rather than packed into one week",
				Requirement: fmt.Sprintf("At most %d attended days in any ISO week", p.MaxDaysPerWeek),
			},
			{
				Rule:        compliance.RuleMinimumHours,
				Name:        "Minimum hours",
				Description: "Every attended day must reach the minimum time between entry and exit, lunch included",
				Requirement: fmt.Sprintf("At least %.1f hours on each attended day", p.MinHoursPerDay),
			},
		},
		MinDaysPerMonth: p.MinDaysPerMonth,
		MaxDaysPerWeek:  p.MaxDaysPerWeek,
		MinHoursPerDay:  p.MinHoursPerDay,
		Timezone:        p.Loc().String(),
	}
}

func (s *ComplianceServiceImpl) fetchPunches(ctx context.Context, ids []int64, period compliance.Period) ([]punch.Punch, error) {
	from, to := period.Bounds()
	punches, err := s.punchRepository.List(ctx, punch.PunchFilter{EmployeeIDs: ids, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	return punches, nil
}

// EvaluateEmployees evaluates every id in parallel, at most limit at a time.
// Results keep the order of ids. Employees share no state; punches is only read.
func EvaluateEmployees(ctx context.Context, ids []int64, period compliance.Period, punches []punch.Punch, policy compliance.Policy, limit int) ([]compliance.ComplianceResult, error) {
	byEmployee := make(map[int64][]punch.Punch, len(ids))
	for _, p := range punches {
		byEmployee[p.EmployeeID] = append(byEmployee[p.EmployeeID], p)
	}

	results := make([]compliance.ComplianceResult, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(id, period, byEmployee[id], policy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
