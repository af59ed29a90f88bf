package service

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/soorajhamirani/ContractGuard-AI/model"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a completed analysis as an XLSX workbook for
// download.
type ExportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{logger: logger}
}

// BuildReportXLSX returns an XLSX report (as bytes) for a completed
// analysis: a summary block followed by one row per clause, sorted as
// returned by the model.
func (s *ExportService) BuildReportXLSX(analysis *model.Analysis) ([]byte, error) {
	if analysis.Result == nil {
		return nil, fmt.Errorf("analysis %s has no result to export", analysis.ID)
	}
	start := time.Now()
	result := analysis.Result

	f := excelize.NewFile()
	const sheet = "Risk Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Summary block
	write(1, 1, "Contract")
	write(2, 1, analysis.Filename)
	write(1, 2, "Overall Risk Score")
	write(2, 2, result.OverallRiskScore)
	write(3, 2, model.RiskLevel(result.OverallRiskScore))
	write(1, 3, "Clauses Reviewed")
	write(2, 3, len(result.Clauses))
	write(1, 4, "Analyzed At")
	write(2, 4, analysis.UpdatedAt.Format("2006-01-02 15:04"))

	headers := []string{
		"#",
		"Risk Type",
		"Risk Score",
		"Risk Level",
		"Confidence",
		"Clause",
		"Reasoning",
		"Suggested Revision",
	}
	headerRow := 6
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for i, c := range result.Clauses {
		write(1, row, i+1)
		write(2, row, c.RiskType)
		write(3, row, c.RiskScore)
		write(4, row, model.RiskLevel(float64(c.RiskScore)))
		write(5, row, fmt.Sprintf("%.0f%%", c.Confidence*100))
		write(6, row, truncate(c.Text, 300))
		write(7, row, truncate(c.Reasoning, 300))
		write(8, row, truncate(c.SuggestedRevision, 300))
		row++
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "E", 12)
	_ = f.SetColWidth(sheet, "F", "H", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"analysis_id", analysis.ID,
		"clauses", len(result.Clauses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate caps s at n bytes, backing up to a rune boundary so a multibyte
// character is never split, and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
