package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// highValueThreshold is the amount above which a transaction is flagged as
// high value. The flag is strict: exactly this amount is not high value.
const highValueThreshold = 5000.0

// dateLayouts are the accepted transaction_date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Enricher adds the derived calendar and value-flag columns to cleaned
// transactions. Row count and order are preserved.
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates an enricher.
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger}
}

// Enrich derives transaction_month ("2006-01"), transaction_year and
// is_high_value for every transaction. An unparseable transaction_date is a
// fatal data-quality error, not a skipped row.
func (e *Enricher) Enrich(ctx context.Context, transactions []domain.Transaction) ([]domain.EnrichedTransaction, error) {
	enriched := make([]domain.EnrichedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		date, err := parseDate(tx.TransactionDate)
		if err != nil {
			return nil, errors.NewDataQualityError(
				fmt.Sprintf("transaction %s has unparseable transaction_date %q",
					tx.TransactionID, tx.TransactionDate), err)
		}
		if tx.Amount == nil {
			return nil, errors.NewDataQualityError(
				fmt.Sprintf("transaction %s reached enrichment with a null amount", tx.TransactionID), nil)
		}

		flag := 0
		if *tx.Amount > highValueThreshold {
			flag = 1
		}

		enriched = append(enriched, domain.EnrichedTransaction{
			Transaction:      tx,
			TransactionMonth: date.Format("2006-01"),
			TransactionYear:  date.Year(),
			IsHighValue:      flag,
		})
	}

	e.logger.InfoContext(ctx, "enriched transactions", slog.Int("row_count", len(enriched)))

	return enriched, nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		date, err := time.Parse(layout, value)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
