package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Reports"
	exportDateLayout = "02.01.2006"
	utf8BOM          = "\ufeff"
)

var exportHeader = []string{"Date", "Name", "Email", "DeviceID", "Status", "StartTime", "EndTime", "TotalHours", "OvertimeHours", "Note"}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func exportDate(date string) string {
	t, err := time.Parse(leave.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(exportDateLayout)
}

func exportRow(r report.Report) []string {
	return []string{
		exportDate(r.Date),
		deref(r.UserName),
		deref(r.UserEmail),
		r.DeviceID,
		string(r.Status),
		deref(r.StartTime),
		deref(r.EndTime),
		formatHours(r.TotalHours),
		formatHours(r.OvertimeHours),
		deref(r.Note),
	}
}

func quoteCSV(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

func (s *ReportServiceImpl) exportRows(ctx context.Context, filter report.ReportFilter) ([]report.Report, error) {
	filter.Page = 0
	filter.Limit = 0
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	reports, _, err := s.ReportRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, report.ErrNothingToExport
	}
	return reports, nil
}

// ExportCSV writes the filtered reports with a UTF-8 BOM so spreadsheet
// tools pick the right encoding. Every data cell is quoted.
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, filter report.ReportFilter, w io.Writer) error {
	reports, err := s.exportRows(ctx, filter)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(utf8BOM)
	bw.WriteString(strings.Join(exportHeader, ","))
	for _, r := range reports {
		row := exportRow(r)
		for i := range row {
			row[i] = quoteCSV(row[i])
		}
		bw.WriteString("\n")
		bw.WriteString(strings.Join(row, ","))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

func (s *ReportServiceImpl) ExportXLSX(ctx context.Context, filter report.ReportFilter, w io.Writer) error {
	reports, err := s.exportRows(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for rowIdx, r := range reports {
		values := []interface{}{
			exportDate(r.Date),
			deref(r.UserName),
			deref(r.UserEmail),
			r.DeviceID,
			string(r.Status),
			deref(r.StartTime),
			deref(r.EndTime),
			r.TotalHours,
			r.OvertimeHours,
			deref(r.Note),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx export: %w", err)
	}
	return nil
}
