package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	"github.com/xuri/excelize/v2"
)

const (
	EmployeesSheet = "Employees"
	PunchesSheet   = "Punches"
)

var ErrMissingSheet = errors.New("workbook has neither an Employees nor a Punches sheet")

// timestampLayouts are tried in order for the punch timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

type Summary struct {
	Employees int
	Punches   int
}

// Importer loads a workbook of employees and raw punches into a store.
//
// The Employees sheet has the columns id, first_name, last_name, department,
// email. The Punches sheet has employee_id, timestamp, priority, ignore. The
// first row of each sheet is a header. Timestamps without an offset are read
// in loc.
type Importer struct {
	employees employee.EmployeeStore
	punches   punch.PunchStore
	loc       *time.Location
}

func NewImporter(employees employee.EmployeeStore, punches punch.PunchStore, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.UTC
	}
	return &Importer{employees: employees, punches: punches, loc: loc}
}

func (i *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var summary Summary
	found := false

	if idx, _ := f.GetSheetIndex(EmployeesSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(EmployeesSheet)
		if err != nil {
			return summary, fmt.Errorf("failed to read %s: %w", EmployeesSheet, err)
		}
		employees, err := parseEmployees(rows)
		if err != nil {
			return summary, err
		}
		for _, emp := range employees {
			if err := i.employees.Upsert(ctx, emp); err != nil {
				return summary, err
			}
			summary.Employees++
		}
	}

	if idx, _ := f.GetSheetIndex(PunchesSheet); idx >= 0 {
		found = true
		rows, err := f.GetRows(PunchesSheet)
		if err != nil {
			return summary, fmt.Errorf("failed to read %s: %w", PunchesSheet, err)
		}
		punches, err := parsePunches(rows, i.loc)
		if err != nil {
			return summary, err
		}
		if len(punches) > 0 {
			if err := i.punches.Insert(ctx, punches); err != nil {
				return summary, err
			}
		}
		summary.Punches = len(punches)
	}

	if !found {
		return summary, ErrMissingSheet
	}

	slog.Info("Workbook imported", "employees", summary.Employees, "punches", summary.Punches)
	return summary, nil
}

func parseEmployees(rows [][]string) ([]employee.Employee, error) {
	var employees []employee.Employee
	for n, row := range dataRows(rows) {
		line := n + 2
		id, err := parseID(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", EmployeesSheet, line, err)
		}
		emp := employee.Employee{
			ID:         id,
			FirstName:  cell(row, 1),
			LastName:   cell(row, 2),
			Department: optional(cell(row, 3)),
			Email:      optional(cell(row, 4)),
		}
		if emp.LastName == "" {
			return nil, fmt.Errorf("%s row %d: last_name is required", EmployeesSheet, line)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func parsePunches(rows [][]string, loc *time.Location) ([]punch.Punch, error) {
	var punches []punch.Punch
	for n, row := range dataRows(rows) {
		line := n + 2
		id, err := parseID(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", PunchesSheet, line, err)
		}
		ts, err := parseTimestamp(cell(row, 1), loc)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", PunchesSheet, line, err)
		}
		p := punch.Punch{EmployeeID: id, Timestamp: ts}
		if p.Priority, err = optionalInt(cell(row, 2)); err != nil {
			return nil, fmt.Errorf("%s row %d: invalid priority: %w", PunchesSheet, line, err)
		}
		if p.Ignore, err = optionalInt(cell(row, 3)); err != nil {
			return nil, fmt.Errorf("%s row %d: invalid ignore flag: %w", PunchesSheet, line, err)
		}
		punches = append(punches, p)
	}
	return punches, nil
}

// dataRows drops the header and blank rows.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, employee.ErrInvalidID
	}
	return id, nil
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
