package domain

// RawTable is an untyped tabular dataset as delivered by a table source.
// Headers carry the column names from the first CSV record; Rows carry the
// remaining records positionally. Typing happens in dataprocessing.
type RawTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// RawTables bundles the three datasets a source must deliver for one run.
type RawTables struct {
	Transactions *RawTable
	Customers    *RawTable
	Accounts     *RawTable
}

// Transaction is one row of the transactions dataset. CustomerID and Amount
// are pointers because raw data may carry nulls; the cleaner drops those rows,
// so both are non-nil for every transaction that reaches the enricher.
type Transaction struct {
	TransactionID    string   `json:"transaction_id"`
	CustomerID       *string  `json:"customer_id"`
	AccountID        string   `json:"account_id"`
	TransactionDate  string   `json:"transaction_date"`
	TransactionType  string   `json:"transaction_type"`
	Amount           *float64 `json:"amount"`
	MerchantCategory string   `json:"merchant_category"`
}

// Customer is one row of the customers dataset.
type Customer struct {
	CustomerID       *string `json:"customer_id"`
	Age              *int    `json:"age"`
	City             *string `json:"city"`
	CreditScore      *int    `json:"credit_score"`
	EmploymentStatus *string `json:"employment_status"`
}

// Account is one row of the accounts dataset. Accounts are passed through
// as-is: no dedup or null filtering is applied to them anywhere.
type Account struct {
	AccountID   string  `json:"account_id"`
	AccountType *string `json:"account_type"`
}

// EnrichedTransaction is a cleaned transaction plus the derived calendar and
// value-flag columns.
type EnrichedTransaction struct {
	Transaction

	TransactionMonth string `json:"transaction_month"`
	TransactionYear  int    `json:"transaction_year"`
	IsHighValue      int    `json:"is_high_value"`
}

// FactRecord is one row of the denormalized fact table: the enriched
// transaction fields joined with customer demographics and the account type.
// Joined fields are pointers; a nil value means the left join found no match.
// The fact table is never mutated after the joiner builds it.
type FactRecord struct {
	TransactionID    string  `json:"transaction_id"`
	CustomerID       string  `json:"customer_id"`
	AccountID        string  `json:"account_id"`
	TransactionDate  string  `json:"transaction_date"`
	TransactionMonth string  `json:"transaction_month"`
	TransactionYear  int     `json:"transaction_year"`
	TransactionType  string  `json:"transaction_type"`
	Amount           float64 `json:"amount"`
	MerchantCategory string  `json:"merchant_category"`
	IsHighValue      int     `json:"is_high_value"`

	Age              *int    `json:"age"`
	City             *string `json:"city"`
	CreditScore      *int    `json:"credit_score"`
	EmploymentStatus *string `json:"employment_status"`
	AccountType      *string `json:"account_type"`
}
