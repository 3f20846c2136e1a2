package dataprocessing

import (
	"context"
	"log/slog"

	"bankfacts/pkg/contracts/domain"
)

// Cleaner applies the deduplication and null-filtering rules to the
// transactions and customers tables. Both passes are pure functions over
// copies and are idempotent: cleaning a cleaned table is a no-op.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// CleanTransactions removes rows whose transaction_id duplicates an earlier
// row (first occurrence wins, order otherwise preserved), then removes rows
// with a null amount or null customer_id. Dedup runs before the null filter,
// so a null-amount first occurrence shadows later duplicates of the same id.
func (c *Cleaner) CleanTransactions(ctx context.Context, transactions []domain.Transaction) []domain.Transaction {
	seen := make(map[string]bool, len(transactions))
	deduped := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if seen[tx.TransactionID] {
			continue
		}
		seen[tx.TransactionID] = true
		deduped = append(deduped, tx)
	}

	cleaned := make([]domain.Transaction, 0, len(deduped))
	for _, tx := range deduped {
		if tx.Amount == nil || tx.CustomerID == nil {
			continue
		}
		cleaned = append(cleaned, tx)
	}

	c.logger.InfoContext(ctx, "cleaned transactions",
		slog.Int("input_rows", len(transactions)),
		slog.Int("duplicates_removed", len(transactions)-len(deduped)),
		slog.Int("null_rows_removed", len(deduped)-len(cleaned)),
		slog.Int("output_rows", len(cleaned)))

	return cleaned
}

// CleanCustomers removes rows with a duplicate customer_id (first occurrence
// wins), then removes rows with a null customer_id. Rows with a null id all
// dedup together and are dropped by the null filter regardless.
func (c *Cleaner) CleanCustomers(ctx context.Context, customers []domain.Customer) []domain.Customer {
	seen := make(map[string]bool, len(customers))
	seenNull := false
	deduped := make([]domain.Customer, 0, len(customers))
	for _, cust := range customers {
		if cust.CustomerID == nil {
			if seenNull {
				continue
			}
			seenNull = true
		} else {
			if seen[*cust.CustomerID] {
				continue
			}
			seen[*cust.CustomerID] = true
		}
		deduped = append(deduped, cust)
	}

	cleaned := make([]domain.Customer, 0, len(deduped))
	for _, cust := range deduped {
		if cust.CustomerID == nil {
			continue
		}
		cleaned = append(cleaned, cust)
	}

	c.logger.InfoContext(ctx, "cleaned customers",
		slog.Int("input_rows", len(customers)),
		slog.Int("output_rows", len(cleaned)))

	return cleaned
}
