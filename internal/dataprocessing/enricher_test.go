package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

func datedTx(id, date string, amount float64) domain.Transaction {
	return domain.Transaction{
		TransactionID:   id,
		CustomerID:      strPtr("C1"),
		TransactionDate: date,
		Amount:          floatPtr(amount),
	}
}

func TestEnricher_Enrich(t *testing.T) {
	ctx := context.Background()
	enricher := NewEnricher(nil)

	tests := []struct {
		name      string
		input     domain.Transaction
		wantMonth string
		wantYear  int
		wantFlag  int
	}{
		{
			name:      "plain date",
			input:     datedTx("1", "2024-03-15", 100),
			wantMonth: "2024-03",
			wantYear:  2024,
			wantFlag:  0,
		},
		{
			name:      "datetime",
			input:     datedTx("2", "2023-12-01 10:30:00", 7500),
			wantMonth: "2023-12",
			wantYear:  2023,
			wantFlag:  1,
		},
		{
			name:      "slash date",
			input:     datedTx("3", "2024/01/31", 5000.01),
			wantMonth: "2024-01",
			wantYear:  2024,
			wantFlag:  1,
		},
		{
			name:      "exactly at threshold is not high value",
			input:     datedTx("4", "2024-01-15", 5000),
			wantMonth: "2024-01",
			wantYear:  2024,
			wantFlag:  0,
		},
		{
			name:      "negative amount",
			input:     datedTx("5", "2024-06-01", -250),
			wantMonth: "2024-06",
			wantYear:  2024,
			wantFlag:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enricher.Enrich(ctx, []domain.Transaction{tt.input})
			require.NoError(t, err)
			require.Len(t, got, 1)

			assert.Equal(t, tt.wantMonth, got[0].TransactionMonth)
			assert.Equal(t, tt.wantYear, got[0].TransactionYear)
			assert.Equal(t, tt.wantFlag, got[0].IsHighValue)
			assert.Equal(t, tt.input.TransactionID, got[0].TransactionID)
		})
	}
}

func TestEnricher_Enrich_PreservesRowCountAndOrder(t *testing.T) {
	ctx := context.Background()
	enricher := NewEnricher(nil)

	input := []domain.Transaction{
		datedTx("3", "2024-01-01", 1),
		datedTx("1", "2024-02-01", 2),
		datedTx("2", "2024-03-01", 3),
	}

	got, err := enricher.Enrich(ctx, input)
	require.NoError(t, err)
	require.Len(t, got, len(input))
	for i := range input {
		assert.Equal(t, input[i].TransactionID, got[i].TransactionID)
	}
}

func TestEnricher_Enrich_UnparseableDateIsFatal(t *testing.T) {
	ctx := context.Background()
	enricher := NewEnricher(nil)

	input := []domain.Transaction{
		datedTx("1", "2024-01-01", 1),
		datedTx("2", "not a date", 2),
	}

	got, err := enricher.Enrich(ctx, input)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeDataQuality, errors.TypeOf(err))
}

func TestEnricher_Enrich_EmptyInput(t *testing.T) {
	got, err := NewEnricher(nil).Enrich(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
