package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePunchRepository struct {
	punches []punch.Punch
	err     error
	filters []punch.PunchFilter
}

func (f *fakePunchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []punch.Punch
	for _, p := range f.punches {
		if p.Timestamp.Before(filter.From) || !p.Timestamp.Before(filter.To) {
			continue
		}
		if len(filter.EmployeeIDs) > 0 && !containsID(filter.EmployeeIDs, p.EmployeeID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeEmployeeRepository struct {
	employees map[int64]employee.Employee
}

func (f *fakeEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	return nil, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func newTestService(t *testing.T, punches []punch.Punch) (compliance.ComplianceService, *fakePunchRepository) {
	t.Helper()
	punchRepo := &fakePunchRepository{punches: punches}
	employeeRepo := &fakeEmployeeRepository{employees: map[int64]employee.Employee{
		1: {ID: 1, FirstName: "Ana", LastName: "Silva"},
		2: {ID: 2, FirstName: "Bruno", LastName: "Costa"},
	}}
	clock := func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return NewComplianceService(punchRepo, employeeRepo, compliance.DefaultPolicy(), clock), punchRepo
}

// ===== SERVICE TESTS =====

func TestComplianceService_CheckEmployee_PreviousMonth(t *testing.T) {
	ctx := context.Background()
	dates := []string{"2024-02-05", "2024-02-06", "2024-02-12", "2024-02-13", "2024-02-19", "2024-02-20"}
	svc, punchRepo := newTestService(t, append(fullDays(t, 1, dates...), fullDays(t, 1, "2024-03-04")...))

	resp, err := svc.CheckEmployee(ctx, compliance.ComplianceRequest{
		EmployeeID:    1,
		PeriodRequest: compliance.PeriodRequest{Months: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.EmployeeID)
	assert.Equal(t, "2024-02-01 to 2024-02-29", resp.Period)
	assert.True(t, resp.Compliance)
	require.Len(t, punchRepo.filters, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), punchRepo.filters[0].To)
}

func TestComplianceService_CheckEmployee_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	_, err := svc.CheckEmployee(ctx, compliance.ComplianceRequest{EmployeeID: 99})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CheckEmployee(ctx, compliance.ComplianceRequest{
		EmployeeID:    1,
		PeriodRequest: compliance.PeriodRequest{Months: 4},
	})
	assert.ErrorIs(t, err, compliance.ErrInvalidPeriod)

	_, err = svc.CheckEmployee(ctx, compliance.ComplianceRequest{
		EmployeeID:    1,
		PeriodRequest: compliance.PeriodRequest{StartDate: "2024-03-10", EndDate: "2024-03-01"},
	})
	assert.ErrorIs(t, err, compliance.ErrInvalidPeriod)

	_, err = svc.CheckEmployee(ctx, compliance.ComplianceRequest{
		EmployeeID:    1,
		PeriodRequest: compliance.PeriodRequest{StartDate: "2024-03-10"},
	})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Contains(t, validationErrs.ToMap(), "end_date")
}

func TestComplianceService_CheckEmployee_RepositoryError(t *testing.T) {
	svc, punchRepo := newTestService(t, nil)
	punchRepo.err = errors.New("connection refused")

	_, err := svc.CheckEmployee(context.Background(), compliance.ComplianceRequest{EmployeeID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list punches")
}

func TestComplianceService_CheckEmployees_Batch(t *testing.T) {
	dates := []string{"2024-03-04", "2024-03-05", "2024-03-11", "2024-03-12", "2024-03-13"}
	svc, punchRepo := newTestService(t, append(fullDays(t, 1, dates...), fullDays(t, 2, "2024-03-04")...))

	resp, err := svc.CheckEmployees(context.Background(), compliance.BatchComplianceRequest{
		EmployeeIDs:   []int64{2, 1, 2, 3},
		PeriodRequest: compliance.PeriodRequest{StartDate: "2024-03-01", EndDate: "2024-03-15"},
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 to 2024-03-15", resp.Period)
	assert.Equal(t, 3, resp.TotalEmployees)
	assert.Equal(t, 0, resp.CompliantEmployees)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, int64(2), resp.Results[0].EmployeeID)
	assert.Equal(t, int64(1), resp.Results[1].EmployeeID)
	assert.Contains(t, resp.Results[1].Reason, "Rule 1")
	assert.True(t, resp.Results[2].NoData)
	assert.ElementsMatch(t, []int64{1, 2, 3}, punchRepo.filters[0].EmployeeIDs)
}

func TestComplianceService_CheckEmployees_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.CheckEmployees(context.Background(), compliance.BatchComplianceRequest{})

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Contains(t, validationErrs.ToMap(), "employee_ids")
}

func TestComplianceService_Catalogs(t *testing.T) {
	svc, _ := newTestService(t, nil)

	periods := svc.GetPeriods(context.Background())
	rules := svc.GetRules(context.Background())

	assert.Len(t, periods.Periods, len(compliance.SupportedMonths))
	require.Len(t, rules.Rules, 3)
	assert.Equal(t, compliance.RuleMinimumDays, rules.Rules[0].Rule)
	assert.Equal(t, 9.0, rules.MinHoursPerDay)
	assert.Equal(t, "UTC", rules.Timezone)
}

func TestEvaluateEmployees_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateEmployees(ctx, []int64{1, 2}, window(t, "2024-03-01", "2024-03-31"), nil, compliance.DefaultPolicy(), 1)

	assert.ErrorIs(t, err, context.Canceled)
}
