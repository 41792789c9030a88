package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/quality"
	complianceService "github.com/cmlabs-hris/office-attendance/internal/service/compliance"
)

const recordLayout = "2006-01-02 15:04:05"

type QualityServiceImpl struct {
	punchRepository    punch.PunchRepository
	employeeRepository employee.EmployeeRepository
	policy             compliance.Policy
	now                func() time.Time
}

func NewQualityService(
	punchRepository punch.PunchRepository,
	employeeRepository employee.EmployeeRepository,
	policy compliance.Policy,
	now func() time.Time,
) quality.QualityService {
	if now == nil {
		now = time.Now
	}
	return &QualityServiceImpl{
		punchRepository:    punchRepository,
		employeeRepository: employeeRepository,
		policy:             policy,
		now:                now,
	}
}

// ListIssues implements quality.QualityService.
func (s *QualityServiceImpl) ListIssues(ctx context.Context, filter quality.IssueFilter) (quality.IssuesResponse, error) {
	if err := filter.Validate(); err != nil {
		return quality.IssuesResponse{}, err
	}

	start, end := s.window(filter)
	punchFilter := punch.PunchFilter{From: start, To: end.AddDate(0, 0, 1)}
	if filter.EmployeeID != nil {
		punchFilter.EmployeeIDs = []int64{*filter.EmployeeID}
	}

	punches, err := s.punchRepository.List(ctx, punchFilter)
	if err != nil {
		return quality.IssuesResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	employees, err := s.employeeRepository.List(ctx)
	if err != nil {
		return quality.IssuesResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	names := make(map[int64]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName()
	}

	resp := quality.IssuesResponse{
		StartDate: start.Format(compliance.DateLayout),
		EndDate:   end.Format(compliance.DateLayout),
		ByType:    make(map[string]int),
		Issues:    []quality.IssueResponse{},
	}

	days := complianceService.BuildDays(punches, s.policy)
	for _, a := range complianceService.CollectAnomalies(days) {
		if filter.IssueType != "" && string(a.Type) != filter.IssueType {
			continue
		}
		resp.Issues = append(resp.Issues, toIssueResponse(a, names))
		resp.ByType[string(a.Type)]++
	}
	resp.TotalIssues = len(resp.Issues)

	return resp, nil
}

// window resolves the requested dates, defaulting to the last 30 days.
func (s *QualityServiceImpl) window(filter quality.IssueFilter) (time.Time, time.Time) {
	loc := s.policy.Loc()
	local := s.now().In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -quality.DefaultWindowDays)

	if filter.StartDate != "" {
		if t, err := time.ParseInLocation(compliance.DateLayout, filter.StartDate, loc); err == nil {
			start = t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.ParseInLocation(compliance.DateLayout, filter.EndDate, loc); err == nil {
			end = t
		}
	}
	return start, end
}

func toIssueResponse(a compliance.Anomaly, names map[int64]string) quality.IssueResponse {
	name, ok := names[a.EmployeeID]
	if !ok {
		name = "Unknown"
	}

	resp := quality.IssueResponse{
		IssueType:    string(a.Type),
		EmployeeID:   a.EmployeeID,
		EmployeeName: name,
		Date:         a.Date.Format(compliance.DateLayout),
		Description:  a.Description,
		TotalRecords: a.TotalRecords,
	}
	if first := a.FirstRecord(); first != nil {
		s := first.Format(recordLayout)
		resp.FirstRecord = &s
	}
	if last := a.LastRecord(); last != nil {
		s := last.Format(recordLayout)
		resp.LastRecord = &s
	}
	return resp
}
