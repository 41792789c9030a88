package compliance

import "context"

// ComplianceService evaluates the attendance rules for one or many employees
type ComplianceService interface {
	// CheckEmployee evaluates a single employee over a predefined or custom period
	CheckEmployee(ctx context.Context, req ComplianceRequest) (ComplianceResponse, error)

	// CheckEmployees evaluates a batch of employees over the same period
	CheckEmployees(ctx context.Context, req BatchComplianceRequest) (BatchComplianceResponse, error)

	// GetPeriods lists the predefined periods
	GetPeriods(ctx context.Context) PeriodsResponse

	// GetRules describes the rules with the configured thresholds
	GetRules(ctx context.Context) RulesResponse
}
