package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL and resets the tables. The tests
// are skipped when no database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))

	_, err = db.Exec(ctx, "TRUNCATE TABLE punches, employees")
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	// Arrange
	require.NoError(t, repo.Upsert(ctx, employee.Employee{ID: 1, FirstName: "Ana", LastName: "Silva", Department: strPtr("Engineering")}))
	require.NoError(t, repo.Upsert(ctx, employee.Employee{ID: 2, FirstName: "Bruno", LastName: "Costa"}))
	require.NoError(t, repo.Upsert(ctx, employee.Employee{ID: 3, FirstName: "Carla", LastName: "Silveira"}))

	t.Run("List orders by last name", func(t *testing.T) {
		employees, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, employees, 3)
		assert.Equal(t, "Costa", employees[0].LastName)
		assert.Equal(t, "Silva", employees[1].LastName)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("GetByID", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Engineering", emp.DepartmentName())
	})

	t.Run("Search by partial last name", func(t *testing.T) {
		employees, err := repo.Search(ctx, employee.SearchFilter{LastName: "silv"})
		require.NoError(t, err)
		assert.Len(t, employees, 2)
	})

	t.Run("Search by ids and name", func(t *testing.T) {
		employees, err := repo.Search(ctx, employee.SearchFilter{IDs: []int64{1, 2}, LastName: "silv"})
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, int64(1), employees[0].ID)
	})
}

// ===== PUNCH REPOSITORY TESTS =====

func TestPunchRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewPunchRepository(db)
	ctx := context.Background()

	// Arrange
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}
	require.NoError(t, repo.Insert(ctx, []punch.Punch{
		{EmployeeID: 2, Timestamp: at("2024-03-04T08:00:00Z")},
		{EmployeeID: 1, Timestamp: at("2024-03-04T17:00:00Z"), Priority: intPtr(1)},
		{EmployeeID: 1, Timestamp: at("2024-03-04T08:00:00Z"), Ignore: intPtr(1)},
		{EmployeeID: 1, Timestamp: at("2024-04-01T08:00:00Z")},
	}))

	// Act
	punches, err := repo.List(ctx, punch.PunchFilter{
		From: at("2024-03-01T00:00:00Z"),
		To:   at("2024-04-01T00:00:00Z"),
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, punches, 3)
	assert.Equal(t, int64(1), punches[0].EmployeeID)
	assert.True(t, punches[0].Ignored())
	assert.True(t, punches[0].Timestamp.Before(punches[1].Timestamp))
	require.NotNil(t, punches[1].Priority)
	assert.Equal(t, 1, *punches[1].Priority)
	assert.Equal(t, int64(2), punches[2].EmployeeID)

	filtered, err := repo.List(ctx, punch.PunchFilter{
		EmployeeIDs: []int64{2},
		From:        at("2024-03-01T00:00:00Z"),
		To:          at("2024-04-01T00:00:00Z"),
	})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = repo.List(ctx, punch.PunchFilter{From: at("2024-03-01T00:00:00Z"), To: at("2024-03-01T00:00:00Z")})
	assert.ErrorIs(t, err, punch.ErrInvalidRange)
}
