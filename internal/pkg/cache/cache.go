package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNilValue = errors.New("cache: nil value")

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// DeletePattern removes every key matching a glob pattern such as "employee*"
	// and returns how many were removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// TTLPolicy decides how long each kind of entry lives.
type TTLPolicy struct {
	Default     time.Duration
	ClosedMonth time.Duration
	Employee    time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Default:     5 * time.Minute,
		ClosedMonth: time.Hour,
		Employee:    time.Hour,
	}
}

// ForRange returns ClosedMonth when the range ends before the current month
// started, Default otherwise.
func (p TTLPolicy) ForRange(to, now time.Time) time.Duration {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if !to.After(monthStart) {
		return p.ClosedMonth
	}
	return p.Default
}

// Noop never stores anything. Used when caching is disabled.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }

func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (Noop) DeletePattern(ctx context.Context, pattern string) (int, error) { return 0, nil }
