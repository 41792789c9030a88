package employee

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepository struct {
	employees []employee.Employee
	searched  *employee.SearchFilter
}

func (f *fakeEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	f.searched = &filter
	var out []employee.Employee
	for _, e := range f.employees {
		if strings.Contains(strings.ToLower(e.LastName), strings.ToLower(filter.LastName)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newFake() *fakeEmployeeRepository {
	return &fakeEmployeeRepository{employees: []employee.Employee{
		{ID: 1, FirstName: "Ana", LastName: "Silva"},
		{ID: 2, FirstName: "Bruno", LastName: "Costa"},
	}}
}

func TestEmployeeService_GetEmployee(t *testing.T) {
	svc := NewEmployeeService(newFake())

	resp, err := svc.GetEmployee(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", resp.FullName)

	_, err = svc.GetEmployee(context.Background(), 3)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.GetEmployee(context.Background(), 0)
	assert.ErrorIs(t, err, employee.ErrInvalidID)
}

func TestEmployeeService_SearchEmployees(t *testing.T) {
	repo := newFake()
	svc := NewEmployeeService(repo)

	resp, err := svc.SearchEmployees(context.Background(), employee.SearchFilter{LastName: "  cos "})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, int64(2), resp[0].EmployeeID)
	require.NotNil(t, repo.searched)
	assert.Equal(t, "cos", repo.searched.LastName)
}

func TestEmployeeService_SearchEmployees_EmptyFilterLists(t *testing.T) {
	repo := newFake()
	svc := NewEmployeeService(repo)

	resp, err := svc.SearchEmployees(context.Background(), employee.SearchFilter{})

	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Nil(t, repo.searched)
}

func TestParseIDs(t *testing.T) {
	ids, err := employee.ParseIDs("12, 15,20,")
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 15, 20}, ids)

	_, err = employee.ParseIDs("12,abc")
	assert.ErrorIs(t, err, employee.ErrInvalidID)

	ids, err = employee.ParseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
