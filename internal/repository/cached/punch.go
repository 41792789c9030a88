package cached

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
)

// AttendancePrefix prefixes every cached punch listing.
const AttendancePrefix = "attendance:"

type punchRepository struct {
	next  punch.PunchRepository
	cache cache.Cache
	ttl   cache.TTLPolicy
	now   func() time.Time
}

// NewPunchRepository caches listings of next. Ranges that ended before the
// current month live for ttl.ClosedMonth, the rest for ttl.Default.
func NewPunchRepository(next punch.PunchRepository, c cache.Cache, ttl cache.TTLPolicy, now func() time.Time) punch.PunchRepository {
	if now == nil {
		now = time.Now
	}
	return &punchRepository{next: next, cache: c, ttl: ttl, now: now}
}

func (r *punchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	key := punchKey(filter)

	var punches []punch.Punch
	hit, err := r.cache.Get(ctx, key, &punches)
	if err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
	}
	if hit {
		return punches, nil
	}

	punches, err = r.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if punches != nil {
		if err := r.cache.Set(ctx, key, punches, r.ttl.ForRange(filter.To, r.now())); err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		}
	}
	return punches, nil
}

func punchKey(filter punch.PunchFilter) string {
	var b strings.Builder
	b.WriteString(AttendancePrefix)
	b.WriteString(filter.From.UTC().Format(time.RFC3339))
	b.WriteByte(':')
	b.WriteString(filter.To.UTC().Format(time.RFC3339))
	b.WriteByte(':')
	if len(filter.EmployeeIDs) == 0 {
		b.WriteString("all")
	}
	for i, id := range filter.EmployeeIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}
