package quality

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/quality"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPunchRepository struct {
	punches []punch.Punch
	filter  punch.PunchFilter
}

func (s *stubPunchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	s.filter = filter
	return s.punches, nil
}

type stubEmployeeRepository struct {
	employees []employee.Employee
}

func (s *stubEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return s.employees, nil
}

func (s *stubEmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	return nil, nil
}

func p(id int64, ts string) punch.Punch {
	t, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	return punch.Punch{EmployeeID: id, Timestamp: t}
}

func newService(punches []punch.Punch) (quality.QualityService, *stubPunchRepository) {
	punchRepo := &stubPunchRepository{punches: punches}
	employeeRepo := &stubEmployeeRepository{employees: []employee.Employee{
		{ID: 1, FirstName: "Ana", LastName: "Silva"},
	}}
	clock := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return NewQualityService(punchRepo, employeeRepo, compliance.DefaultPolicy(), clock), punchRepo
}

// ===== QUALITY SERVICE TESTS =====

func TestQualityService_ListIssues(t *testing.T) {
	svc, punchRepo := newService([]punch.Punch{
		p(1, "2024-03-04 09:00"), p(1, "2024-03-04 13:00"), p(1, "2024-03-04 17:00"),
		p(1, "2024-03-05 09:00"), p(1, "2024-03-05 18:00"),
		p(2, "2024-03-06 14:00"),
	})

	resp, err := svc.ListIssues(context.Background(), quality.IssueFilter{})

	require.NoError(t, err)
	assert.Equal(t, "2024-02-14", resp.StartDate)
	assert.Equal(t, "2024-03-15", resp.EndDate)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), punchRepo.filter.To)
	require.Equal(t, 3, resp.TotalIssues)
	assert.Equal(t, map[string]int{"missing_exit": 1, "multiple_entries": 1, "missing_entry": 1}, resp.ByType)

	first := resp.Issues[0]
	assert.Equal(t, "missing_exit", first.IssueType)
	assert.Equal(t, "Ana Silva", first.EmployeeName)
	assert.Equal(t, "2024-03-04", first.Date)
	assert.Equal(t, 3, first.TotalRecords)
	require.NotNil(t, first.FirstRecord)
	assert.Equal(t, "2024-03-04 09:00:00", *first.FirstRecord)
	require.NotNil(t, first.LastRecord)
	assert.Equal(t, "2024-03-04 17:00:00", *first.LastRecord)

	last := resp.Issues[2]
	assert.Equal(t, "missing_entry", last.IssueType)
	assert.Equal(t, "Unknown", last.EmployeeName)
}

func TestQualityService_ListIssues_FilterByType(t *testing.T) {
	svc, _ := newService([]punch.Punch{
		p(1, "2024-03-04 09:00"), p(1, "2024-03-04 13:00"), p(1, "2024-03-04 17:00"),
	})

	resp, err := svc.ListIssues(context.Background(), quality.IssueFilter{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-10",
		IssueType: "multiple_entries",
	})

	require.NoError(t, err)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "multiple_entries", resp.Issues[0].IssueType)
	assert.Equal(t, "2024-03-01", resp.StartDate)
}

func TestQualityService_ListIssues_NoIssuesIsEmptyList(t *testing.T) {
	svc, _ := newService(nil)

	resp, err := svc.ListIssues(context.Background(), quality.IssueFilter{})

	require.NoError(t, err)
	assert.NotNil(t, resp.Issues)
	assert.Zero(t, resp.TotalIssues)
}

func TestQualityService_ListIssues_Validation(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.ListIssues(context.Background(), quality.IssueFilter{
		StartDate: "2024-03-10",
		EndDate:   "2024-03-01",
		IssueType: "late",
	})

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "issue_type")
}
