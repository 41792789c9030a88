package cached

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
)

// EmployeePrefix prefixes every cached employee lookup.
const EmployeePrefix = "employee:"

type employeeRepository struct {
	next  employee.EmployeeRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewEmployeeRepository(next employee.EmployeeRepository, c cache.Cache, ttl cache.TTLPolicy) employee.EmployeeRepository {
	return &employeeRepository{next: next, cache: c, ttl: ttl.Employee}
}

func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return cachedLoad(ctx, r.cache, EmployeePrefix+"all", r.ttl, func() ([]employee.Employee, error) {
		return r.next.List(ctx)
	})
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return cachedLoad(ctx, r.cache, EmployeePrefix+strconv.FormatInt(id, 10), r.ttl, func() (employee.Employee, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *employeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]employee.Employee, error) {
	ids := make([]string, len(filter.IDs))
	for i, id := range filter.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	key := EmployeePrefix + "search:" + strings.Join(ids, ",") + ":" + strings.ToLower(filter.LastName)

	return cachedLoad(ctx, r.cache, key, r.ttl, func() ([]employee.Employee, error) {
		return r.next.Search(ctx, filter)
	})
}

// cachedLoad returns the cached value at key or stores what load returns.
// Cache failures are logged and never fail the call.
func cachedLoad[T any](ctx context.Context, c cache.Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var value T
	hit, err := c.Get(ctx, key, &value)
	if err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
	}
	if hit {
		return value, nil
	}

	value, err = load()
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
	return value, nil
}
