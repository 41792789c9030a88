package report

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Summary"
	sheetEmployees   = "Employee Details"
	sheetDataQuality = "Data Quality"
	sheetDepartments = "Departments"
)

// renderWorkbook lays the monthly report out over four sheets.
func renderWorkbook(monthly report.MonthlyReport, departments []report.DepartmentStats) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetEmployees, sheetDataQuality, sheetDepartments} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	writers := []func(*excelize.File, int) error{
		func(f *excelize.File, style int) error { return writeSummary(f, style, monthly) },
		func(f *excelize.File, style int) error { return writeEmployees(f, style, monthly) },
		func(f *excelize.File, style int) error { return writeDataQuality(f, style, monthly) },
		func(f *excelize.File, style int) error { return writeDepartments(f, style, departments) },
	}
	for _, write := range writers {
		if err := write(f, header); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

func writeRows(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]interface{}) error {
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, style int, monthly report.MonthlyReport) error {
	var totalDays int
	var totalHours float64
	for _, e := range monthly.EmployeeStats {
		totalDays += e.Stats.TotalDaysAttended
		totalHours += e.Stats.TotalHoursWorked
	}
	average := 0.0
	if totalDays > 0 {
		average = totalHours / float64(totalDays)
	}

	rows := [][]interface{}{
		{"Month", fmt.Sprintf("%04d-%02d", monthly.Year, monthly.Month)},
		{"Period", monthly.Period},
		{"Generated at", monthly.GeneratedAt},
		{"Total employees", monthly.TotalEmployees},
		{"Compliant", monthly.ComplianceSummary.Compliant},
		{"Non-compliant", monthly.ComplianceSummary.NonCompliant},
		{"No data", monthly.ComplianceSummary.NoData},
		{"Compliance rate (%)", percent(monthly.ComplianceSummary.Compliant, monthly.TotalEmployees)},
		{"Total days attended", totalDays},
		{"Total hours worked", totalHours},
		{"Average hours per day", fmt.Sprintf("%.2f", average)},
		{"Data quality issues", len(monthly.DataIssues)},
	}
	return writeRows(f, sheetSummary, style, []string{"Metric", "Value"}, rows)
}

func writeEmployees(f *excelize.File, style int, monthly report.MonthlyReport) error {
	headers := []string{
		"Employee ID", "Name", "Department", "Days Attended", "Total Hours", "Avg Hours/Day",
		"Weeks With 1 Day", "Weeks With 2 Days", "Days Rule", "Weekly Rule", "Hours Rule",
		"Overall", "Reason", "Data Issues",
	}
	rows := make([][]interface{}, 0, len(monthly.EmployeeStats))
	for _, e := range monthly.EmployeeStats {
		department := "Unknown"
		if e.EmployeeInfo.Department != nil && *e.EmployeeInfo.Department != "" {
			department = *e.EmployeeInfo.Department
		}
		rows = append(rows, []interface{}{
			e.EmployeeInfo.EmployeeID,
			e.EmployeeInfo.FullName,
			department,
			e.Stats.TotalDaysAttended,
			e.Stats.TotalHoursWorked,
			e.Stats.AverageHoursPerDay,
			e.Stats.WeeksWith1Day,
			e.Stats.WeeksWith2Days,
			verdict(e.Stats.DaysCompliance),
			verdict(e.Stats.PatternCompliance),
			verdict(e.Stats.HoursCompliance),
			verdict(e.Stats.OverallCompliance),
			e.Stats.Reason,
			e.Stats.DataIssues,
		})
	}
	return writeRows(f, sheetEmployees, style, headers, rows)
}

func writeDataQuality(f *excelize.File, style int, monthly report.MonthlyReport) error {
	headers := []string{"Employee ID", "Name", "Date", "Issue Type", "Description", "Total Records"}
	rows := make([][]interface{}, 0, len(monthly.DataIssues))
	for _, issue := range monthly.DataIssues {
		rows = append(rows, []interface{}{
			issue.EmployeeID,
			issue.EmployeeName,
			issue.Date,
			issue.IssueType,
			issue.Description,
			issue.TotalRecords,
		})
	}
	return writeRows(f, sheetDataQuality, style, headers, rows)
}

func writeDepartments(f *excelize.File, style int, departments []report.DepartmentStats) error {
	headers := []string{"Department", "Employees", "Compliant", "Compliance Rate (%)", "Avg Hours/Employee", "Data Issues"}
	rows := make([][]interface{}, 0, len(departments))
	for _, d := range departments {
		rows = append(rows, []interface{}{
			d.DepartmentName,
			d.TotalEmployees,
			d.CompliantEmployees,
			d.ComplianceRate,
			d.AverageHoursPerEmployee,
			d.TotalDataIssues,
		})
	}
	return writeRows(f, sheetDepartments, style, headers, rows)
}

func verdict(ok bool) string {
	if ok {
		return "Compliant"
	}
	return "Non-compliant"
}
