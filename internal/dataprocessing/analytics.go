package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// topDecileQuantile is the total-spend quantile a customer group must reach
// to be retained in the high-value report.
const topDecileQuantile = 0.90

// Analyzer computes the three summary reports from the fact table. The three
// passes are independent and order-insensitive; the fact table is read-only.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// GenerateInsights computes all three reports. An empty fact table yields
// empty reports without error.
func (a *Analyzer) GenerateInsights(ctx context.Context, facts []domain.FactRecord) (*domain.InsightSet, error) {
	insights := &domain.InsightSet{
		Monthly:    []domain.MonthlySummary{},
		HighValue:  []domain.HighValueCustomer{},
		Categories: []domain.CategorySummary{},
	}
	if len(facts) == 0 {
		return insights, nil
	}

	insights.Monthly = a.MonthlySummaries(facts)
	insights.Categories = a.CategorySummaries(facts)

	highValue, err := a.HighValueCustomers(facts)
	if err != nil {
		return nil, err
	}
	insights.HighValue = highValue

	a.logger.InfoContext(ctx, "generated insights",
		slog.Int("fact_rows", len(facts)),
		slog.Int("monthly_groups", len(insights.Monthly)),
		slog.Int("high_value_customers", len(insights.HighValue)),
		slog.Int("categories", len(insights.Categories)))

	return insights, nil
}

// monthKey groups fact rows by calendar month and account type. A nil
// account type is a distinct key value, not a dropped group.
type monthKey struct {
	Month          string
	AccountType    string
	HasAccountType bool
}

type monthAccumulator struct {
	key       monthKey
	count     int
	total     float64
	customers map[string]bool
}

// MonthlySummaries groups fact rows by (transaction_month, account_type) and
// computes row count, amount sum, amount mean and distinct customer count.
// Output is sorted ascending by month, then account type, with the null
// account-type group last within its month.
func (a *Analyzer) MonthlySummaries(facts []domain.FactRecord) []domain.MonthlySummary {
	groups := make(map[monthKey]*monthAccumulator)
	order := make([]monthKey, 0)

	for _, fact := range facts {
		key := monthKey{Month: fact.TransactionMonth}
		if fact.AccountType != nil {
			key.AccountType = *fact.AccountType
			key.HasAccountType = true
		}

		acc, ok := groups[key]
		if !ok {
			acc = &monthAccumulator{key: key, customers: make(map[string]bool)}
			groups[key] = acc
			order = append(order, key)
		}
		acc.count++
		acc.total += fact.Amount
		acc.customers[fact.CustomerID] = true
	}

	sort.Slice(order, func(i, j int) bool {
		ki, kj := order[i], order[j]
		if ki.Month != kj.Month {
			return ki.Month < kj.Month
		}
		if ki.HasAccountType != kj.HasAccountType {
			return ki.HasAccountType
		}
		return ki.AccountType < kj.AccountType
	})

	summaries := make([]domain.MonthlySummary, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		summary := domain.MonthlySummary{
			TransactionMonth:     key.Month,
			TransactionCount:     acc.count,
			TotalAmount:          acc.total,
			AvgTransactionAmount: acc.total / float64(acc.count),
			ActiveCustomers:      len(acc.customers),
		}
		if key.HasAccountType {
			accountType := key.AccountType
			summary.AccountType = &accountType
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// customerKey groups fact rows by customer identity and demographics. The
// demographic fields are functionally determined by customer_id when the
// upstream join behaves; if they vary across rows, each distinct combination
// forms its own group.
type customerKey struct {
	CustomerID     string
	Age            int
	HasAge         bool
	City           string
	HasCity        bool
	CreditScore    int
	HasCreditScore bool
	Employment     string
	HasEmployment  bool
}

type customerAccumulator struct {
	first     domain.FactRecord
	count     int
	total     float64
	highValue int
}

// HighValueCustomers groups fact rows per customer, computes spend metrics,
// and retains the groups whose total spend reaches the 90th percentile across
// all groups (linear-interpolation quantile). Output is sorted descending by
// total spend. Rank is the descending percentile rank among all groups:
// 1.0 is the highest spender, ties share the average rank fraction.
func (a *Analyzer) HighValueCustomers(facts []domain.FactRecord) ([]domain.HighValueCustomer, error) {
	groups := make(map[customerKey]*customerAccumulator)
	order := make([]customerKey, 0)

	for _, fact := range facts {
		key := customerKey{CustomerID: fact.CustomerID}
		if fact.Age != nil {
			key.Age, key.HasAge = *fact.Age, true
		}
		if fact.City != nil {
			key.City, key.HasCity = *fact.City, true
		}
		if fact.CreditScore != nil {
			key.CreditScore, key.HasCreditScore = *fact.CreditScore, true
		}
		if fact.EmploymentStatus != nil {
			key.Employment, key.HasEmployment = *fact.EmploymentStatus, true
		}

		acc, ok := groups[key]
		if !ok {
			acc = &customerAccumulator{first: fact}
			groups[key] = acc
			order = append(order, key)
		}
		acc.count++
		acc.total += fact.Amount
		acc.highValue += fact.IsHighValue
	}

	totals := make([]float64, 0, len(order))
	for _, key := range order {
		totals = append(totals, groups[key].total)
	}

	threshold, err := quantile(totals, topDecileQuantile)
	if err != nil {
		return nil, err
	}
	ranks := descendingRankFractions(totals)

	retained := make([]domain.HighValueCustomer, 0)
	for _, key := range order {
		acc := groups[key]
		if acc.total < threshold {
			continue
		}
		retained = append(retained, domain.HighValueCustomer{
			CustomerID:        key.CustomerID,
			Age:               acc.first.Age,
			City:              acc.first.City,
			CreditScore:       acc.first.CreditScore,
			EmploymentStatus:  acc.first.EmploymentStatus,
			TransactionCount:  acc.count,
			TotalSpent:        acc.total,
			HighValueTxnCount: acc.highValue,
			Rank:              ranks[acc.total],
		})
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].TotalSpent > retained[j].TotalSpent
	})

	return retained, nil
}

// CategorySummaries groups fact rows by merchant_category and computes row
// count, amount sum and amount mean, sorted descending by total amount.
func (a *Analyzer) CategorySummaries(facts []domain.FactRecord) []domain.CategorySummary {
	groups := make(map[string]*domain.CategorySummary)
	order := make([]string, 0)

	for _, fact := range facts {
		acc, ok := groups[fact.MerchantCategory]
		if !ok {
			acc = &domain.CategorySummary{MerchantCategory: fact.MerchantCategory}
			groups[fact.MerchantCategory] = acc
			order = append(order, fact.MerchantCategory)
		}
		acc.TransactionCount++
		acc.TotalAmount += fact.Amount
	}

	summaries := make([]domain.CategorySummary, 0, len(order))
	for _, category := range order {
		acc := groups[category]
		acc.AvgAmount = acc.TotalAmount / float64(acc.TransactionCount)
		summaries = append(summaries, *acc)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount > summaries[j].TotalAmount
	})

	return summaries
}

// quantile computes the q-quantile of values using linear interpolation
// between closest ranks. An empty basis is a fatal data-quality condition,
// never an empty result.
func quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewDataQualityError("quantile computed over an empty basis", nil)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], nil
	}

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
}

// descendingRankFractions maps each value to its percentile rank among all
// values, descending: the maximum maps to 1.0, ties share the average rank
// fraction, and every fraction lies in (0, 1].
func descendingRankFractions(values []float64) map[float64]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	ranks := make(map[float64]float64)
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		// Ascending positions i+1..j; ties get the average position.
		ranks[sorted[i]] = (float64(i+1) + float64(j)) / 2 / n
		i = j
	}
	return ranks
}
