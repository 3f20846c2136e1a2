package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// Report file names written by the CSV sink.
const (
	MonthlySummaryFile    = "monthly_summary.csv"
	HighValueCustomersFile = "high_value_customers.csv"
	CategoryAnalysisFile  = "category_analysis.csv"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer rooted at the given output directory.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) error {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create report directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create report file", err).WithContext("path", path)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write report headers", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write report record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush report file", err)
	}
	return nil
}

// CSVSink writes the three summary reports as CSV files.
type CSVSink struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewCSVSink creates a CSV sink writing into dir.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{writer: NewCSVWriter(dir), logger: logger}
}

// Publish writes all three reports; any write failure fails the run.
func (s *CSVSink) Publish(ctx context.Context, insights *domain.InsightSet) error {
	monthly := make([][]string, 0, len(insights.Monthly))
	for _, m := range insights.Monthly {
		monthly = append(monthly, monthlyRow(m))
	}
	if err := s.writer.WriteCSV(MonthlySummaryFile, WriteOptions{
		Headers: monthlyHeaders(), Records: monthly, BOMPrefix: true,
	}); err != nil {
		return err
	}

	highValue := make([][]string, 0, len(insights.HighValue))
	for _, c := range insights.HighValue {
		highValue = append(highValue, highValueRow(c))
	}
	if err := s.writer.WriteCSV(HighValueCustomersFile, WriteOptions{
		Headers: highValueHeaders(), Records: highValue, BOMPrefix: true,
	}); err != nil {
		return err
	}

	categories := make([][]string, 0, len(insights.Categories))
	for _, c := range insights.Categories {
		categories = append(categories, categoryRow(c))
	}
	if err := s.writer.WriteCSV(CategoryAnalysisFile, WriteOptions{
		Headers: categoryHeaders(), Records: categories, BOMPrefix: true,
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "wrote summary reports",
		slog.String("dir", s.writer.dir),
		slog.Int("monthly_rows", len(insights.Monthly)),
		slog.Int("high_value_rows", len(insights.HighValue)),
		slog.Int("category_rows", len(insights.Categories)))

	return nil
}
