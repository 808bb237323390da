package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"vcheckapp/model"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "daily"
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
	PeriodYearly  ReportPeriod = "yearly"
)

type ReportFormat string

const (
	FormatExcel ReportFormat = "excel"
	FormatPDF   ReportFormat = "pdf"
)

// Report is a finished report file plus the figures behind it.
type Report struct {
	Filename string
	MIMEType string
	Data     []byte
	Start    time.Time
	End      time.Time
	Total    int
}

// ReportService buckets tasks into a calendar period and renders them as a
// spreadsheet or a PDF table.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// PeriodBounds computes the inclusive [start, end] range for a period around
// now, in now's location. Days run 00:00:00 through 23:59:59 and weeks start
// on Sunday.
func PeriodBounds(now time.Time, period ReportPeriod) (time.Time, time.Time, error) {
	loc := now.Location()
	dayStart := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	dayEnd := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
	}

	switch period {
	case PeriodDaily:
		return dayStart(now), dayEnd(now), nil
	case PeriodWeekly:
		start := dayStart(now.AddDate(0, 0, -int(now.Weekday())))
		return start, dayEnd(start.AddDate(0, 0, 6)), nil
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, dayEnd(start.AddDate(0, 1, -1)), nil
	case PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return start, dayEnd(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, loc)), nil
	}
	return time.Time{}, time.Time{}, &ValidationError{Field: "period", Reason: fmt.Sprintf("unknown period %q", period)}
}

// BuildReport renders the tasks created within the period around now.
// A period with no qualifying tasks yields an EmptyPeriodError carrying the
// computed bounds instead of an empty file.
func (s *ReportService) BuildReport(tasks []model.MotoTask, period ReportPeriod, format ReportFormat, now time.Time) (*Report, error) {
	if format != FormatExcel && format != FormatPDF {
		return nil, &ValidationError{Field: "format", Reason: fmt.Sprintf("unknown format %q", format)}
	}

	start, end, err := PeriodBounds(now, period)
	if err != nil {
		return nil, err
	}

	var qualifying []model.MotoTask
	for _, task := range tasks {
		if task.CreatedAt.IsZero() {
			continue
		}
		if !task.CreatedAt.Before(start) && !task.CreatedAt.After(end) {
			qualifying = append(qualifying, task)
		}
	}

	if len(qualifying) == 0 {
		return nil, &EmptyPeriodError{Start: start, End: end}
	}

	title := fmt.Sprintf("%s Task Report", titleCase(string(period)))
	dateRange := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	report := &Report{Start: start, End: end, Total: len(qualifying)}
	baseName := fmt.Sprintf("%s_report_%s", period, now.Format("2006-01-02"))

	switch format {
	case FormatExcel:
		data, err := buildReportWorkbook(qualifying, title, dateRange)
		if err != nil {
			return nil, fmt.Errorf("failed to build spreadsheet: %w", err)
		}
		report.Filename = baseName + ".xlsx"
		report.MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		report.Data = data
	case FormatPDF:
		data, err := buildReportPDF(qualifying, title, dateRange)
		if err != nil {
			return nil, fmt.Errorf("failed to build pdf: %w", err)
		}
		report.Filename = baseName + ".pdf"
		report.MIMEType = "application/pdf"
		report.Data = data
	}

	return report, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func countByStatus(tasks []model.MotoTask, status string) int {
	count := 0
	for _, task := range tasks {
		if task.Status == status {
			count++
		}
	}
	return count
}

func filterByStatus(tasks []model.MotoTask, status string) []model.MotoTask {
	var out []model.MotoTask
	for _, task := range tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out
}

func writeTaskSheet(f *excelize.File, sheet string, tasks []model.MotoTask) error {
	headers := []interface{}{"Task ID", "Vehicle Number", "Name", "Registration Number",
		"Description", "Status", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, task := range tasks {
		row := []interface{}{task.ID, task.VehicleNumber, task.Name, task.RegNumber,
			task.TaskDescription, task.Status, formatSheetTime(task.CreatedAt)}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func buildReportWorkbook(tasks []model.MotoTask, title, dateRange string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)
	summaryRows := [][]interface{}{
		{"Report Title", title},
		{"Date Range", dateRange},
		{"Total Tasks", len(tasks)},
		{"Open", countByStatus(tasks, model.StatusOpen)},
		{"In Progress", countByStatus(tasks, model.StatusInProgress)},
		{"Completed", countByStatus(tasks, model.StatusCompleted)},
	}
	for i := range summaryRows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &summaryRows[i]); err != nil {
			return nil, err
		}
	}

	const allSheet = "All Tasks"
	if _, err := f.NewSheet(allSheet); err != nil {
		return nil, err
	}
	if err := writeTaskSheet(f, allSheet, tasks); err != nil {
		return nil, err
	}

	// Status buckets get their own sheet only when non-empty.
	if open := filterByStatus(tasks, model.StatusOpen); len(open) > 0 {
		if _, err := f.NewSheet("Open Tasks"); err != nil {
			return nil, err
		}
		if err := writeTaskSheet(f, "Open Tasks", open); err != nil {
			return nil, err
		}
	}
	if completed := filterByStatus(tasks, model.StatusCompleted); len(completed) > 0 {
		if _, err := f.NewSheet("Completed Tasks"); err != nil {
			return nil, err
		}
		if err := writeTaskSheet(f, "Completed Tasks", completed); err != nil {
			return nil, err
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func buildReportPDF(tasks []model.MotoTask, title, dateRange string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, "Date Range: "+dateRange)
	pdf.Ln(10)

	headers := []string{"Vehicle No", "Name", "Reg No", "Status", "Created At"}
	widths := []float64{32, 48, 32, 28, 42}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, task := range tasks {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(235, 240, 245)
		}
		row := []string{task.VehicleNumber, task.Name, task.RegNumber, task.Status,
			formatSheetTime(task.CreatedAt)}
		for j, value := range row {
			pdf.CellFormat(widths[j], 7, value, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatSheetTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
