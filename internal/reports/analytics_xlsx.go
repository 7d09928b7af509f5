package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary   = "Summary"
	SheetByCompany = "By Company"
	SheetByStatus  = "By Status"
	SheetTimeline  = "Timeline"
)

// WriteAnalyticsXLSX renders the analytics report as a workbook with one
// sheet per breakdown.
func WriteAnalyticsXLSX(w io.Writer, report *models.AnalyticsReport, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetByCompany, SheetByStatus, SheetTimeline} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDE7F0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Generated at", generatedAt.UTC().Format(time.RFC3339)},
		{"Total applications", report.TotalApps},
		{"Completed", report.DoneApps},
		{"Success rate (%)", report.SuccessRate},
	}
	if err := writeRows(f, SheetSummary, summary, headerStyle); err != nil {
		return err
	}

	byCompany := [][]interface{}{{"Company", "Applications"}}
	for _, c := range report.ByCompany {
		byCompany = append(byCompany, []interface{}{c.CompanyName, c.ApplicationCount})
	}
	if err := writeRows(f, SheetByCompany, byCompany, headerStyle); err != nil {
		return err
	}

	byStatus := [][]interface{}{{"Status", "Count"}}
	for _, s := range report.ByStatus {
		byStatus = append(byStatus, []interface{}{s.Status.Label(), s.Count})
	}
	if err := writeRows(f, SheetByStatus, byStatus, headerStyle); err != nil {
		return err
	}

	timeline := [][]interface{}{{"Month", "Applications"}}
	for _, m := range report.Timeline {
		timeline = append(timeline, []interface{}{m.Month, m.Count})
	}
	if err := writeRows(f, SheetTimeline, timeline, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
	return nil
}
