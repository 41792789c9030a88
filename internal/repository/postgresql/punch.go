package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchStore {
	return &punchRepositoryImpl{db: db}
}

// List implements punch.PunchRepository.
func (r *punchRepositoryImpl) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	if !filter.To.After(filter.From) {
		return nil, punch.ErrInvalidRange
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, punched_at, priority, ignore_flag
		FROM punches
		WHERE punched_at >= $1 AND punched_at < $2
	`
	args := []interface{}{filter.From, filter.To}
	if len(filter.EmployeeIDs) > 0 {
		query += " AND employee_id = ANY($3)"
		args = append(args, filter.EmployeeIDs)
	}
	query += " ORDER BY employee_id, punched_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		var p punch.Punch
		if err := rows.Scan(&p.EmployeeID, &p.Timestamp, &p.Priority, &p.Ignore); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punches: %w", err)
	}

	return punches, nil
}

// Insert stores punches in one transaction. Used by seeding and tests.
func (r *punchRepositoryImpl) Insert(ctx context.Context, punches []punch.Punch) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		for _, p := range punches {
			_, err := q.Exec(ctx, `
				INSERT INTO punches (employee_id, punched_at, priority, ignore_flag)
				VALUES ($1, $2, $3, $4)
			`, p.EmployeeID, p.Timestamp, p.Priority, p.Ignore)
			if err != nil {
				return fmt.Errorf("failed to insert punch for employee %d: %w", p.EmployeeID, err)
			}
		}
		return nil
	})
}
