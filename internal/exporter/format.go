package exporter

import (
	"fmt"

	"bankfacts/pkg/contracts/domain"
)

// formatFloat formats an amount for report output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats a count for report output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatRank keeps enough precision to distinguish adjacent rank fractions.
func formatRank(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// nullable formats an optional string cell; nil renders as empty.
func nullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullableInt formats an optional integer cell; nil renders as empty.
func nullableInt(i *int) string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i)
}

func monthlyHeaders() []string {
	return []string{"TransactionMonth", "AccountType", "TransactionCount", "TotalAmount", "AvgTransactionAmount", "ActiveCustomers"}
}

func monthlyRow(m domain.MonthlySummary) []string {
	return []string{
		m.TransactionMonth,
		nullable(m.AccountType),
		formatInt(m.TransactionCount),
		formatFloat(m.TotalAmount),
		formatFloat(m.AvgTransactionAmount),
		formatInt(m.ActiveCustomers),
	}
}

func highValueHeaders() []string {
	return []string{"CustomerID", "Age", "City", "CreditScore", "EmploymentStatus", "TransactionCount", "TotalSpent", "HighValueTxnCount", "Rank"}
}

func highValueRow(c domain.HighValueCustomer) []string {
	return []string{
		c.CustomerID,
		nullableInt(c.Age),
		nullable(c.City),
		nullableInt(c.CreditScore),
		nullable(c.EmploymentStatus),
		formatInt(c.TransactionCount),
		formatFloat(c.TotalSpent),
		formatInt(c.HighValueTxnCount),
		formatRank(c.Rank),
	}
}

func categoryHeaders() []string {
	return []string{"MerchantCategory", "TransactionCount", "TotalAmount", "AvgAmount"}
}

func categoryRow(c domain.CategorySummary) []string {
	return []string{
		c.MerchantCategory,
		formatInt(c.TransactionCount),
		formatFloat(c.TotalAmount),
		formatFloat(c.AvgAmount),
	}
}
