package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankfacts/internal/dataprocessing"
	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

type staticSource struct {
	tables *domain.RawTables
	err    error
}

func (s *staticSource) FetchAll(ctx context.Context) (*domain.RawTables, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tables, nil
}

func smallTables() *domain.RawTables {
	return &domain.RawTables{
		Transactions: &domain.RawTable{
			Name: "bank_transactions.csv",
			Headers: []string{
				"transaction_id", "customer_id", "account_id", "transaction_date",
				"transaction_type", "amount", "merchant_category",
			},
			Rows: [][]string{
				{"1", "C1", "A1", "2024-01-15", "purchase", "6000", "Travel"},
			},
		},
		Customers: &domain.RawTable{
			Name:    "bank_customers.csv",
			Headers: []string{"customer_id", "age", "city", "credit_score", "employment_status"},
			Rows:    [][]string{{"C1", "30", "NY", "700", "Employed"}},
		},
		Accounts: &domain.RawTable{
			Name:    "bank_accounts.csv",
			Headers: []string{"account_id", "account_type"},
			Rows:    [][]string{{"A1", "Checking"}},
		},
	}
}

func TestPipelineService_RunRetainsLatest(t *testing.T) {
	processor := dataprocessing.NewProcessor(&staticSource{tables: smallTables()}, nil, nil)
	service := NewPipelineService(processor, nil)

	_, ok := service.Latest()
	assert.False(t, ok)

	result, err := service.Run(context.Background())
	require.NoError(t, err)

	latest, ok := service.Latest()
	require.True(t, ok)
	assert.Same(t, result, latest)
	assert.Equal(t, 1, latest.FactRows)
}

func TestPipelineService_FailedRunDoesNotReplaceLatest(t *testing.T) {
	src := &staticSource{tables: smallTables()}
	processor := dataprocessing.NewProcessor(src, nil, nil)
	service := NewPipelineService(processor, nil)

	first, err := service.Run(context.Background())
	require.NoError(t, err)

	src.err = errors.NewSourceError("dataset unreachable", nil)
	_, err = service.Run(context.Background())
	require.Error(t, err)

	latest, ok := service.Latest()
	require.True(t, ok)
	assert.Same(t, first, latest)
}
