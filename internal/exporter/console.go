package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/olekukonko/tablewriter"

	"bankfacts/pkg/contracts/domain"
)

// defaultPreviewRows is how many leading rows of each report the console
// sink surfaces to the operator.
const defaultPreviewRows = 10

// ConsoleSink renders the first rows of each summary report as text tables
// for a human operator.
type ConsoleSink struct {
	out     io.Writer
	maxRows int
	logger  *slog.Logger
}

// NewConsoleSink creates a console sink writing to out. maxRows <= 0 falls
// back to the default preview size.
func NewConsoleSink(out io.Writer, maxRows int, logger *slog.Logger) *ConsoleSink {
	if maxRows <= 0 {
		maxRows = defaultPreviewRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSink{out: out, maxRows: maxRows, logger: logger}
}

// Publish renders the three reports.
func (s *ConsoleSink) Publish(ctx context.Context, insights *domain.InsightSet) error {
	monthly := make([][]string, 0, len(insights.Monthly))
	for _, m := range insights.Monthly {
		monthly = append(monthly, monthlyRow(m))
	}
	s.renderTable("Monthly transactions", monthlyHeaders(), monthly, len(insights.Monthly))

	highValue := make([][]string, 0, len(insights.HighValue))
	for _, c := range insights.HighValue {
		highValue = append(highValue, highValueRow(c))
	}
	s.renderTable("Top customers by spend", highValueHeaders(), highValue, len(insights.HighValue))

	categories := make([][]string, 0, len(insights.Categories))
	for _, c := range insights.Categories {
		categories = append(categories, categoryRow(c))
	}
	s.renderTable("Merchant categories", categoryHeaders(), categories, len(insights.Categories))

	return nil
}

func (s *ConsoleSink) renderTable(title string, headers []string, rows [][]string, total int) {
	fmt.Fprintf(s.out, "\n%s\n", title)

	shown := rows
	if len(shown) > s.maxRows {
		shown = shown[:s.maxRows]
	}

	table := tablewriter.NewWriter(s.out)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.AppendBulk(shown)
	table.Render()

	if total > len(shown) {
		fmt.Fprintf(s.out, "... %d more rows\n", total-len(shown))
	}
}
