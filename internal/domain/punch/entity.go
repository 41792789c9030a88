package punch

import (
	"time"
)

// Punch is a single clock-in/clock-out event as recorded by the time clock.
// The direction (entry or exit) is never stored; it is derived from position.
type Punch struct {
	EmployeeID int64     `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
	Priority   *int      `json:"priority,omitempty"`
	Ignore     *int      `json:"ignore,omitempty"`
}

// Ignored reports whether the punch must be dropped before any processing.
// A nil or zero flag means the punch counts.
func (p Punch) Ignored() bool {
	return p.Ignore != nil && *p.Ignore != 0
}
