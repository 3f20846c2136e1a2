package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// Joiner builds the denormalized fact table: enriched transactions left-joined
// to cleaned customers on customer_id, then to accounts on account_id.
type Joiner struct {
	logger *slog.Logger
}

// NewJoiner creates a joiner.
func NewJoiner(logger *slog.Logger) *Joiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Joiner{logger: logger}
}

// BuildFactTable joins the three tables into fact records.
//
// The customers side must be unique on customer_id: the cleaner guarantees
// that, and a duplicate surviving to this point is reported as a fatal
// data-quality violation rather than silently fanning out.
//
// The accounts side carries no uniqueness guarantee. If several account rows
// share an account_id the join fans out, producing one fact row per match;
// that is the documented left-join behavior, not an error.
//
// Every transaction is kept regardless of match; unmatched customer and
// account fields stay nil.
func (j *Joiner) BuildFactTable(
	ctx context.Context,
	transactions []domain.EnrichedTransaction,
	customers []domain.Customer,
	accounts []domain.Account,
) ([]domain.FactRecord, error) {
	customersByID := make(map[string]domain.Customer, len(customers))
	for _, cust := range customers {
		if cust.CustomerID == nil {
			return nil, errors.NewDataQualityError("customer with null customer_id reached the join", nil)
		}
		if _, dup := customersByID[*cust.CustomerID]; dup {
			return nil, errors.NewDataQualityError(
				fmt.Sprintf("duplicate customer_id %q on the customers join side", *cust.CustomerID), nil)
		}
		customersByID[*cust.CustomerID] = cust
	}

	accountsByID := make(map[string][]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsByID[acc.AccountID] = append(accountsByID[acc.AccountID], acc)
	}

	facts := make([]domain.FactRecord, 0, len(transactions))
	for _, tx := range transactions {
		if tx.CustomerID == nil || tx.Amount == nil {
			return nil, errors.NewDataQualityError(
				fmt.Sprintf("transaction %s reached the join with null key fields", tx.TransactionID), nil)
		}

		fact := domain.FactRecord{
			TransactionID:    tx.TransactionID,
			CustomerID:       *tx.CustomerID,
			AccountID:        tx.AccountID,
			TransactionDate:  tx.TransactionDate,
			TransactionMonth: tx.TransactionMonth,
			TransactionYear:  tx.TransactionYear,
			TransactionType:  tx.TransactionType,
			Amount:           *tx.Amount,
			MerchantCategory: tx.MerchantCategory,
			IsHighValue:      tx.IsHighValue,
		}

		if cust, ok := customersByID[*tx.CustomerID]; ok {
			fact.Age = cust.Age
			fact.City = cust.City
			fact.CreditScore = cust.CreditScore
			fact.EmploymentStatus = cust.EmploymentStatus
		}

		matched := accountsByID[tx.AccountID]
		if len(matched) == 0 {
			facts = append(facts, fact)
			continue
		}
		for _, acc := range matched {
			row := fact
			row.AccountType = acc.AccountType
			facts = append(facts, row)
		}
	}

	j.logger.InfoContext(ctx, "built fact table",
		slog.Int("transaction_rows", len(transactions)),
		slog.Int("fact_rows", len(facts)))

	return facts, nil
}
