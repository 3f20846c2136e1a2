package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// InsightsWorkbookFile is the Excel workbook written by the Excel sink.
const InsightsWorkbookFile = "bank_insights.xlsx"

// ExcelSink writes the three summary reports into one workbook, one sheet
// per report.
type ExcelSink struct {
	dir    string
	logger *slog.Logger
}

// NewExcelSink creates an Excel sink writing into dir.
func NewExcelSink(dir string, logger *slog.Logger) *ExcelSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSink{dir: dir, logger: logger}
}

// Publish writes the workbook; any failure fails the run.
func (s *ExcelSink) Publish(ctx context.Context, insights *domain.InsightSet) error {
	f := excelize.NewFile()
	defer f.Close()

	monthly := make([][]string, 0, len(insights.Monthly))
	for _, m := range insights.Monthly {
		monthly = append(monthly, monthlyRow(m))
	}
	if err := writeSheet(f, "Monthly Summary", monthlyHeaders(), monthly); err != nil {
		return err
	}

	highValue := make([][]string, 0, len(insights.HighValue))
	for _, c := range insights.HighValue {
		highValue = append(highValue, highValueRow(c))
	}
	if err := writeSheet(f, "High Value Customers", highValueHeaders(), highValue); err != nil {
		return err
	}

	categories := make([][]string, 0, len(insights.Categories))
	for _, c := range insights.Categories {
		categories = append(categories, categoryRow(c))
	}
	if err := writeSheet(f, "Category Analysis", categoryHeaders(), categories); err != nil {
		return err
	}

	// Drop the default sheet excelize creates
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewStorageError("failed to remove default sheet", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.NewStorageError("failed to create report directory", err)
	}
	path := filepath.Join(s.dir, InsightsWorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save insights workbook", err).WithContext("path", path)
	}

	s.logger.InfoContext(ctx, "wrote insights workbook", slog.String("path", path))

	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create worksheet", err).WithContext("sheet", sheet)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write worksheet header", err).WithContext("sheet", sheet)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return errors.NewStorageError("failed to write worksheet row", err).WithContext("sheet", sheet)
		}
	}

	return nil
}
