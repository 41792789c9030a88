package punch

import (
	"context"
	"time"
)

// PunchFilter selects raw punches. From is inclusive, To is exclusive.
// An empty EmployeeIDs slice selects every employee.
type PunchFilter struct {
	EmployeeIDs []int64
	From        time.Time
	To          time.Time
}

// PunchRepository supplies raw punch rows, ignored ones included.
// Rows are returned ordered by employee and timestamp.
type PunchRepository interface {
	List(ctx context.Context, filter PunchFilter) ([]Punch, error)
}

// PunchStore is a PunchRepository that can also load punches, used to seed
// a store from exports or fixtures.
type PunchStore interface {
	PunchRepository
	Insert(ctx context.Context, punches []Punch) error
}
