package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "oa:"), srv
}

// exercise runs the behaviour shared by every implementation.
func exercise(t *testing.T, c Cache) {
	ctx := context.Background()

	// Miss
	var got payload
	ok, err := c.Get(ctx, "employee:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// Set and hit
	require.NoError(t, c.Set(ctx, "employee:1", payload{Name: "Ana", Hours: 9.5}, time.Minute))
	require.NoError(t, c.Set(ctx, "employee:2", payload{Name: "Bruno"}, time.Minute))
	require.NoError(t, c.Set(ctx, "attendance:2024-03", payload{Name: "march"}, time.Minute))

	ok, err = c.Get(ctx, "employee:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "Ana", Hours: 9.5}, got)

	// Pattern delete only touches matching keys
	n, err := c.DeletePattern(ctx, "employee*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err = c.Get(ctx, "employee:2", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Get(ctx, "attendance:2024-03", &got)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, c.Set(ctx, "nil", nil, time.Minute), ErrNilValue)
}

// ===== MEMORY CACHE TESTS =====

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", 1, time.Minute))

	var v int
	ok, _ := m.Get(ctx, "k", &v)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = m.Get(ctx, "k", &v)
	assert.False(t, ok)
}

// ===== REDIS CACHE TESTS =====

func TestRedis(t *testing.T) {
	c, _ := newTestRedis(t)
	exercise(t, c)
}

func TestRedis_TTLAndPrefix(t *testing.T) {
	c, srv := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "attendance:2024-02", payload{Name: "feb"}, time.Hour))

	assert.True(t, srv.Exists("oa:attendance:2024-02"))
	assert.Equal(t, time.Hour, srv.TTL("oa:attendance:2024-02"))

	srv.FastForward(time.Hour)

	var got payload
	ok, err := c.Get(ctx, "attendance:2024-02", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ===== TTL POLICY TESTS =====

func TestTTLPolicy_ForRange(t *testing.T) {
	policy := DefaultTTLPolicy()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   time.Time
		want time.Duration
	}{
		{"closed month", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour},
		{"older month", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Hour},
		{"running month", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ForRange(tt.to, now))
		})
	}
}
