package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
)

type punchRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewPunchRepository(db *database.SQLiteDB) punch.PunchStore {
	return &punchRepositoryImpl{db: db}
}

// List implements punch.PunchRepository.
func (r *punchRepositoryImpl) List(ctx context.Context, filter punch.PunchFilter) ([]punch.Punch, error) {
	if !filter.To.After(filter.From) {
		return nil, punch.ErrInvalidRange
	}

	query := `
		SELECT employee_id, punched_at, priority, ignore_flag
		FROM punches
		WHERE punched_at >= ? AND punched_at < ?
	`
	args := []interface{}{formatTime(filter.From), formatTime(filter.To)}
	if len(filter.EmployeeIDs) > 0 {
		placeholders := make([]string, len(filter.EmployeeIDs))
		for i, id := range filter.EmployeeIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " AND employee_id IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY employee_id, punched_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		var (
			p        punch.Punch
			raw      string
			priority sql.NullInt64
			ignore   sql.NullInt64
		)
		if err := rows.Scan(&p.EmployeeID, &raw, &priority, &ignore); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		p.Timestamp, err = time.Parse(database.SQLiteTimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid punch timestamp %q: %w", raw, err)
		}
		p.Priority = nullableInt(priority)
		p.Ignore = nullableInt(ignore)
		punches = append(punches, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating punches: %w", err)
	}

	return punches, nil
}

// Insert implements punch.PunchStore.
func (r *punchRepositoryImpl) Insert(ctx context.Context, punches []punch.Punch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO punches (employee_id, punched_at, priority, ignore_flag)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range punches {
		if _, err := stmt.ExecContext(ctx, p.EmployeeID, formatTime(p.Timestamp), p.Priority, p.Ignore); err != nil {
			return fmt.Errorf("failed to insert punch for employee %d: %w", p.EmployeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(database.SQLiteTimeLayout)
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
