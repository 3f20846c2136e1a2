package domain

// MonthlySummary aggregates fact rows by (transaction_month, account_type).
// A nil AccountType is its own group, not a dropped one.
type MonthlySummary struct {
	TransactionMonth     string  `json:"transaction_month"`
	AccountType          *string `json:"account_type"`
	TransactionCount     int     `json:"transaction_count"`
	TotalAmount          float64 `json:"total_amount"`
	AvgTransactionAmount float64 `json:"avg_transaction_amount"`
	ActiveCustomers      int     `json:"active_customers"`
}

// HighValueCustomer is one retained row of the top-decile customer report.
// Rank is the descending percentile rank of TotalSpent among all customer
// groups, not only the retained ones: 1.0 is the highest spender, ties share
// the average rank fraction, and every value lies in (0, 1].
type HighValueCustomer struct {
	CustomerID        string  `json:"customer_id"`
	Age               *int    `json:"age"`
	City              *string `json:"city"`
	CreditScore       *int    `json:"credit_score"`
	EmploymentStatus  *string `json:"employment_status"`
	TransactionCount  int     `json:"transaction_count"`
	TotalSpent        float64 `json:"total_spent"`
	HighValueTxnCount int     `json:"high_value_txn_count"`
	Rank              float64 `json:"rank"`
}

// CategorySummary aggregates fact rows by merchant_category.
type CategorySummary struct {
	MerchantCategory string  `json:"merchant_category"`
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

// InsightSet bundles the three summary reports produced by one pipeline run.
type InsightSet struct {
	Monthly    []MonthlySummary    `json:"monthly_summary"`
	HighValue  []HighValueCustomer `json:"high_value_customers"`
	Categories []CategorySummary   `json:"category_analysis"`
}
