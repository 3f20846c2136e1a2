package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

// Column names expected on the three raw datasets. Any absent column is a
// fatal schema violation; the pipeline never proceeds with a partial schema.
var (
	transactionColumns = []string{
		"transaction_id", "customer_id", "account_id", "transaction_date",
		"transaction_type", "amount", "merchant_category",
	}
	customerColumns = []string{
		"customer_id", "age", "city", "credit_score", "employment_status",
	}
	accountColumns = []string{"account_id", "account_type"}
)

// nullSentinels are cell values treated as null, matching what the upstream
// CSV exports use for missing data.
var nullSentinels = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// columnIndex maps required column names to their positions in the header
// row. Matching is case-insensitive on trimmed header names.
func columnIndex(table *domain.RawTable, required []string) (map[string]int, error) {
	index := make(map[string]int, len(table.Headers))
	for i, header := range table.Headers {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		pos, ok := index[name]
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("dataset %s is missing required column %q", table.Name, name), nil)
		}
		cols[name] = pos
	}
	return cols, nil
}

func cell(row []string, pos int) string {
	if pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func isNull(value string) bool {
	return nullSentinels[strings.ToLower(value)]
}

// nullableString returns nil for null cells.
func nullableString(value string) *string {
	if isNull(value) {
		return nil
	}
	return &value
}

// nullableFloat parses a nullable decimal cell. A non-null cell that fails to
// parse makes the whole dataset unparsable.
func nullableFloat(value, column string, rowNum int) (*float64, error) {
	if isNull(value) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errors.NewSourceError(
			fmt.Sprintf("row %d has unparsable %s value %q", rowNum, column, value), err)
	}
	return &f, nil
}

// nullableInt parses a nullable integer cell. Decimal-formatted integers
// ("30.0") are accepted, since CSV round-trips through spreadsheet tools
// produce them.
func nullableInt(value, column string, rowNum int) (*int, error) {
	if isNull(value) {
		return nil, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errors.NewSourceError(
			fmt.Sprintf("row %d has unparsable %s value %q", rowNum, column, value), err)
	}
	n := int(f)
	return &n, nil
}

// ParseTransactions types the raw transactions table.
func ParseTransactions(table *domain.RawTable) ([]domain.Transaction, error) {
	cols, err := columnIndex(table, transactionColumns)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		amount, err := nullableFloat(cell(row, cols["amount"]), "amount", i+1)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, domain.Transaction{
			TransactionID:    cell(row, cols["transaction_id"]),
			CustomerID:       nullableString(cell(row, cols["customer_id"])),
			AccountID:        cell(row, cols["account_id"]),
			TransactionDate:  cell(row, cols["transaction_date"]),
			TransactionType:  cell(row, cols["transaction_type"]),
			Amount:           amount,
			MerchantCategory: cell(row, cols["merchant_category"]),
		})
	}
	return transactions, nil
}

// ParseCustomers types the raw customers table.
func ParseCustomers(table *domain.RawTable) ([]domain.Customer, error) {
	cols, err := columnIndex(table, customerColumns)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(table.Rows))
	for i, row := range table.Rows {
		age, err := nullableInt(cell(row, cols["age"]), "age", i+1)
		if err != nil {
			return nil, err
		}
		creditScore, err := nullableInt(cell(row, cols["credit_score"]), "credit_score", i+1)
		if err != nil {
			return nil, err
		}
		customers = append(customers, domain.Customer{
			CustomerID:       nullableString(cell(row, cols["customer_id"])),
			Age:              age,
			City:             nullableString(cell(row, cols["city"])),
			CreditScore:      creditScore,
			EmploymentStatus: nullableString(cell(row, cols["employment_status"])),
		})
	}
	return customers, nil
}

// ParseAccounts types the raw accounts table. Accounts are accepted as-is:
// no dedup or null rules apply to them anywhere in the pipeline.
func ParseAccounts(table *domain.RawTable) ([]domain.Account, error) {
	cols, err := columnIndex(table, accountColumns)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(table.Rows))
	for _, row := range table.Rows {
		accounts = append(accounts, domain.Account{
			AccountID:   cell(row, cols["account_id"]),
			AccountType: nullableString(cell(row, cols["account_type"])),
		})
	}
	return accounts, nil
}
