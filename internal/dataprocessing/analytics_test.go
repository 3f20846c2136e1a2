package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

func fact(customer, month, category string, amount float64, accountType *string) domain.FactRecord {
	highValue := 0
	if amount > 5000 {
		highValue = 1
	}
	return domain.FactRecord{
		TransactionID:    customer + "-" + month + "-" + category,
		CustomerID:       customer,
		TransactionMonth: month,
		MerchantCategory: category,
		Amount:           amount,
		IsHighValue:      highValue,
		AccountType:      accountType,
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"single value", []float64{42}, 0.9, 42},
		{"two values interpolate", []float64{1, 2}, 0.9, 1.9},
		{"ten values at p90", []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}, 0.9, 910},
		{"median", []float64{1, 2, 3}, 0.5, 2},
		{"max", []float64{1, 2, 3}, 1.0, 3},
		{"unsorted input", []float64{3, 1, 2}, 0.5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := quantile(tt.values, tt.q)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestQuantile_EmptyBasisIsFatal(t *testing.T) {
	_, err := quantile(nil, 0.9)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeDataQuality, errors.TypeOf(err))
}

func TestDescendingRankFractions(t *testing.T) {
	t.Run("unique values", func(t *testing.T) {
		ranks := descendingRankFractions([]float64{10, 30, 20})
		assert.InDelta(t, 1.0, ranks[30], 1e-9)
		assert.InDelta(t, 2.0/3, ranks[20], 1e-9)
		assert.InDelta(t, 1.0/3, ranks[10], 1e-9)
	})

	t.Run("ties share the average rank fraction", func(t *testing.T) {
		ranks := descendingRankFractions([]float64{10, 10, 20})
		assert.InDelta(t, 1.0, ranks[20], 1e-9)
		// The tied values occupy ascending positions 1 and 2: average 1.5.
		assert.InDelta(t, 0.5, ranks[10], 1e-9)
	})

	t.Run("all fractions lie in (0,1]", func(t *testing.T) {
		ranks := descendingRankFractions([]float64{5, 5, 7, 1, 9, 9})
		for value, rank := range ranks {
			assert.Greater(t, rank, 0.0, "value %v", value)
			assert.LessOrEqual(t, rank, 1.0, "value %v", value)
		}
	})
}

func TestAnalyzer_MonthlySummaries(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	checking := strPtr("Checking")
	savings := strPtr("Savings")

	facts := []domain.FactRecord{
		fact("C1", "2024-02", "Travel", 100, checking),
		fact("C2", "2024-01", "Travel", 200, checking),
		fact("C1", "2024-01", "Grocery", 300, checking),
		fact("C1", "2024-01", "Grocery", 50, savings),
		fact("C3", "2024-01", "Fuel", 75, nil),
	}

	got := analyzer.MonthlySummaries(facts)
	require.Len(t, got, 4)

	// Ascending by month, account type within month, null group last.
	assert.Equal(t, "2024-01", got[0].TransactionMonth)
	assert.Equal(t, "Checking", *got[0].AccountType)
	assert.Equal(t, "2024-01", got[1].TransactionMonth)
	assert.Equal(t, "Savings", *got[1].AccountType)
	assert.Equal(t, "2024-01", got[2].TransactionMonth)
	assert.Nil(t, got[2].AccountType)
	assert.Equal(t, "2024-02", got[3].TransactionMonth)

	// 2024-01/Checking: two rows from two distinct customers.
	assert.Equal(t, 2, got[0].TransactionCount)
	assert.Equal(t, 500.0, got[0].TotalAmount)
	assert.Equal(t, 250.0, got[0].AvgTransactionAmount)
	assert.Equal(t, 2, got[0].ActiveCustomers)

	// Null account type forms its own group, it is not dropped.
	assert.Equal(t, 1, got[2].TransactionCount)
	assert.Equal(t, 75.0, got[2].TotalAmount)
}

func TestAnalyzer_MonthlySummaries_Conservation(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	checking := strPtr("Checking")

	facts := []domain.FactRecord{
		fact("C1", "2024-01", "Travel", 1, checking),
		fact("C2", "2024-02", "Travel", 2, nil),
		fact("C3", "2024-03", "Fuel", 3, checking),
		fact("C1", "2024-01", "Fuel", 4, nil),
	}

	total := 0
	for _, summary := range analyzer.MonthlySummaries(facts) {
		total += summary.TransactionCount
	}
	assert.Equal(t, len(facts), total)
}

func TestAnalyzer_HighValueCustomers(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	// Ten customers spending 100..1000; the p90 threshold over the totals is
	// 910, so only the 1000 spender is retained.
	facts := make([]domain.FactRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		facts = append(facts, fact(string(rune('A'-1+i)), "2024-01", "Travel", float64(i*100), nil))
	}

	got, err := analyzer.HighValueCustomers(facts)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 1000.0, got[0].TotalSpent)
	assert.InDelta(t, 1.0, got[0].Rank, 1e-9)
	assert.Equal(t, 1, got[0].TransactionCount)
}

func TestAnalyzer_HighValueCustomers_MetricsAndOrdering(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	// Two customers, both above the two-group threshold basis.
	facts := []domain.FactRecord{
		fact("C1", "2024-01", "Travel", 6000, nil),
		fact("C1", "2024-02", "Travel", 1000, nil),
		fact("C2", "2024-01", "Grocery", 7500, nil),
	}

	got, err := analyzer.HighValueCustomers(facts)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	// Sorted descending by total spend, ranks non-increasing.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalSpent, got[i].TotalSpent)
		assert.GreaterOrEqual(t, got[i-1].Rank, got[i].Rank)
	}

	top := got[0]
	assert.Equal(t, "C2", top.CustomerID)
	assert.Equal(t, 7500.0, top.TotalSpent)
	assert.Equal(t, 1, top.HighValueTxnCount)
	assert.InDelta(t, 1.0, top.Rank, 1e-9)

	// C1: two transactions, one of them high value.
	if len(got) > 1 {
		assert.Equal(t, "C1", got[1].CustomerID)
		assert.Equal(t, 2, got[1].TransactionCount)
		assert.Equal(t, 7000.0, got[1].TotalSpent)
		assert.Equal(t, 1, got[1].HighValueTxnCount)
	}
}

func TestAnalyzer_HighValueCustomers_ThresholdProperty(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	facts := make([]domain.FactRecord, 0, 20)
	for i := 1; i <= 20; i++ {
		facts = append(facts, fact(string(rune('A'+i)), "2024-01", "Travel", float64(i*37), nil))
	}

	got, err := analyzer.HighValueCustomers(facts)
	require.NoError(t, err)

	totals := make([]float64, 0, 20)
	for i := 1; i <= 20; i++ {
		totals = append(totals, float64(i*37))
	}
	threshold, err := quantile(totals, topDecileQuantile)
	require.NoError(t, err)

	for _, row := range got {
		assert.GreaterOrEqual(t, row.TotalSpent, threshold)
		assert.Greater(t, row.Rank, 0.0)
		assert.LessOrEqual(t, row.Rank, 1.0)
	}
}

func TestAnalyzer_HighValueCustomers_VaryingDemographicsSplitGroups(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	// Same customer id with differing joined demographics forms two groups.
	withAge := fact("C1", "2024-01", "Travel", 100, nil)
	withAge.Age = intPtr(30)
	withoutAge := fact("C1", "2024-02", "Travel", 100, nil)

	got, err := analyzer.HighValueCustomers([]domain.FactRecord{withAge, withoutAge})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAnalyzer_CategorySummaries(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	facts := []domain.FactRecord{
		fact("C1", "2024-01", "Grocery", 100, nil),
		fact("C2", "2024-01", "Travel", 6000, nil),
		fact("C1", "2024-02", "Grocery", 200, nil),
	}

	got := analyzer.CategorySummaries(facts)
	require.Len(t, got, 2)

	assert.Equal(t, "Travel", got[0].MerchantCategory)
	assert.Equal(t, 6000.0, got[0].TotalAmount)
	assert.Equal(t, 1, got[0].TransactionCount)

	assert.Equal(t, "Grocery", got[1].MerchantCategory)
	assert.Equal(t, 300.0, got[1].TotalAmount)
	assert.Equal(t, 2, got[1].TransactionCount)
	assert.Equal(t, 150.0, got[1].AvgAmount)

	total := 0
	for _, summary := range got {
		total += summary.TransactionCount
	}
	assert.Equal(t, len(facts), total)
}

func TestAnalyzer_GenerateInsights_EmptyFactTable(t *testing.T) {
	insights, err := NewAnalyzer(nil).GenerateInsights(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, insights.Monthly)
	assert.Empty(t, insights.HighValue)
	assert.Empty(t, insights.Categories)
}
