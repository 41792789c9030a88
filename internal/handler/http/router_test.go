package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance/internal/repository/sqlite"
	complianceService "github.com/cmlabs-hris/office-attendance/internal/service/compliance"
	employeeService "github.com/cmlabs-hris/office-attendance/internal/service/employee"
	qualityService "github.com/cmlabs-hris/office-attendance/internal/service/quality"
	reportService "github.com/cmlabs-hris/office-attendance/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

var handlerTestNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router     http.Handler
	jwtService jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	now := func() time.Time { return handlerTestNow }

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employeeRepo := sqlite.NewEmployeeRepository(db)
	punchRepo := sqlite.NewPunchRepository(db)

	dept := "Engineering"
	require.NoError(t, employeeRepo.Upsert(ctx, employee.Employee{ID: 1, FirstName: "Ana", LastName: "Silva", Department: &dept}))
	require.NoError(t, employeeRepo.Upsert(ctx, employee.Employee{ID: 2, FirstName: "Bruno", LastName: "Costa"}))

	at := func(day, clock string) time.Time {
		ts, err := time.Parse("2006-01-02 15:04", day+" "+clock)
		require.NoError(t, err)
		return ts
	}
	require.NoError(t, punchRepo.Insert(ctx, []punch.Punch{
		{EmployeeID: 1, Timestamp: at("2024-03-04", "08:00")},
		{EmployeeID: 1, Timestamp: at("2024-03-04", "17:30")},
		{EmployeeID: 1, Timestamp: at("2024-03-06", "08:00")},
		{EmployeeID: 2, Timestamp: at("2024-03-05", "09:00")},
	}))

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	policy := compliance.DefaultPolicy()
	reports := reportService.NewReportService(punchRepo, employeeRepo, fileStorage, policy, now)

	scheduler := cron.NewScheduler()
	cron.NewCacheRefreshJobs(cache.NewMemory(), employeeRepo, reports, time.UTC, now).RegisterJobs(scheduler, 12*time.Hour)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, Handlers{
		Compliance: NewComplianceHandler(complianceService.NewComplianceService(punchRepo, employeeRepo, policy, now)),
		Quality:    NewQualityHandler(qualityService.NewQualityService(punchRepo, employeeRepo, policy, now)),
		Report:     NewReportHandler(reports, now),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
		Admin:      NewAdminHandler(scheduler),
	})

	return &testServer{router: router, jwtService: jwtService}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	token, _, err := s.jwtService.GenerateAccessToken("dashboard", admin)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// ===== AUTH TESTS =====

func TestRouter_Authentication(t *testing.T) {
	srv := newTestServer(t)

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/compliance/rules", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret", time.Hour)
		token, _, err := other.GenerateAccessToken("dashboard", true)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/compliance/rules", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin routes reject viewers", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/admin/cache/refresh", nil, false)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/monthly/export?year=2024&month=3", nil, false)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// ===== COMPLIANCE HANDLER TESTS =====

func TestComplianceHandler(t *testing.T) {
	srv := newTestServer(t)

	t.Run("single employee", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/1?start_date=2024-03-01&end_date=2024-03-15", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var result compliance.ComplianceResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
		assert.Equal(t, int64(1), result.EmployeeID)
		assert.False(t, result.Compliance)
		assert.Equal(t, "2024-03-01 to 2024-03-15", result.Period)
		require.NotNil(t, result.Details.MinimumDays.DaysAttended)
		assert.Equal(t, 1, *result.Details.MinimumDays.DaysAttended)
	})

	t.Run("start after end", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/1?start_date=2024-03-10&end_date=2024-03-01", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported months", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/1?months=4", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative months", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/1?months=-1", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/99", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/employees/abc", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("batch", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/compliance/employees", map[string]interface{}{
			"employee_ids": []int64{1, 2},
			"start_date":   "2024-03-01",
			"end_date":     "2024-03-15",
		}, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var result compliance.BatchComplianceResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
		assert.Equal(t, 2, result.TotalEmployees)
		assert.Equal(t, 2, result.NonCompliantEmployees)
	})

	t.Run("batch without ids", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/compliance/employees", map[string]interface{}{"months": 1}, false)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode(t, rec).Error.Details, "employee_ids")
	})

	t.Run("catalogs", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/compliance/rules", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var rules compliance.RulesResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &rules))
		assert.Len(t, rules.Rules, 3)
		assert.Equal(t, 9.0, rules.MinHoursPerDay)

		rec = srv.do(t, http.MethodGet, "/api/v1/compliance/periods", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// ===== DATA QUALITY HANDLER TESTS =====

func TestQualityHandler_ListIssues(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/data-quality/issues?start_date=2024-03-01&end_date=2024-03-15", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		TotalIssues int `json:"total_issues"`
		Issues      []struct {
			IssueType    string `json:"issue_type"`
			EmployeeID   int64  `json:"employee_id"`
			EmployeeName string `json:"employee_name"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, 2, result.TotalIssues)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "Bruno Costa", result.Issues[0].EmployeeName)
	assert.Equal(t, "Ana Silva", result.Issues[1].EmployeeName)

	rec = srv.do(t, http.MethodGet, "/api/v1/data-quality/issues?start_date=2024-13-01", nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ===== REPORT HANDLER TESTS =====

func TestReportHandler(t *testing.T) {
	srv := newTestServer(t)

	t.Run("monthly", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/monthly?year=2024&month=3", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var result report.MonthlyReport
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
		assert.Equal(t, 2, result.TotalEmployees)
	})

	t.Run("invalid month value", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/monthly?year=2024&month=march", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/dashboard?month=2024-03", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/dashboard?month=03-2024", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("trends", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/trends/1?months_back=3", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/trends/1?months_back=30", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("weekly patterns and departments", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/weekly-patterns/1?year=2024&month=3", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/departments?year=2024&month=3", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("export", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/monthly/export?year=2024&month=3", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, report.SpreadsheetContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_report_2024-03.xlsx")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("download and delete export", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/reports/monthly/export?year=2024&month=3", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		exported := rec.Body.Bytes()
		path := rec.Header().Get(ExportPathHeader)
		require.NotEmpty(t, path)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/exports/"+path, nil, false)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/exports/"+path, nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_report_2024-03.xlsx")
		assert.Equal(t, exported, rec.Body.Bytes())

		rec = srv.do(t, http.MethodDelete, "/api/v1/reports/exports/"+path, nil, true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/exports/"+path, nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/reports/exports/other/report.xlsx", nil, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// ===== EMPLOYEE & ADMIN HANDLER TESTS =====

func TestEmployeeHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/employees", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var employees []employee.EmployeeResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &employees))
	assert.Len(t, employees, 2)

	rec = srv.do(t, http.MethodGet, "/api/v1/employees/search?last_name=silv", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &employees))
	require.Len(t, employees, 1)
	assert.Equal(t, "Ana Silva", employees[0].FullName)

	rec = srv.do(t, http.MethodGet, "/api/v1/employees/search?ids=1,x", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/employees/42", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_RefreshCache(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/admin/cache/refresh", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cache refreshed", decode(t, rec).Message)
}
