package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankfacts/internal/errors"
	"bankfacts/pkg/contracts/domain"
)

func enrichedTx(id, customer, account string, amount float64) domain.EnrichedTransaction {
	return domain.EnrichedTransaction{
		Transaction: domain.Transaction{
			TransactionID: id,
			CustomerID:    strPtr(customer),
			AccountID:     account,
			Amount:        floatPtr(amount),
		},
		TransactionMonth: "2024-01",
		TransactionYear:  2024,
	}
}

func customer(id string, age int, city string) domain.Customer {
	return domain.Customer{
		CustomerID: strPtr(id),
		Age:        intPtr(age),
		City:       strPtr(city),
	}
}

func account(id, accountType string) domain.Account {
	return domain.Account{AccountID: id, AccountType: strPtr(accountType)}
}

func TestJoiner_BuildFactTable(t *testing.T) {
	ctx := context.Background()
	joiner := NewJoiner(nil)

	transactions := []domain.EnrichedTransaction{
		enrichedTx("1", "C1", "A1", 6000),
		enrichedTx("2", "C2", "A2", 100),
	}
	customers := []domain.Customer{customer("C1", 30, "NY"), customer("C2", 40, "LA")}
	accounts := []domain.Account{account("A1", "Checking"), account("A2", "Savings")}

	facts, err := joiner.BuildFactTable(ctx, transactions, customers, accounts)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, "1", facts[0].TransactionID)
	assert.Equal(t, "C1", facts[0].CustomerID)
	assert.Equal(t, 6000.0, facts[0].Amount)
	assert.Equal(t, 30, *facts[0].Age)
	assert.Equal(t, "NY", *facts[0].City)
	assert.Equal(t, "Checking", *facts[0].AccountType)

	assert.Equal(t, "Savings", *facts[1].AccountType)
}

func TestJoiner_BuildFactTable_RowCountInvariant(t *testing.T) {
	ctx := context.Background()
	joiner := NewJoiner(nil)

	// No duplicate account ids, so the fact table has exactly one row per
	// transaction regardless of join matches.
	transactions := []domain.EnrichedTransaction{
		enrichedTx("1", "C1", "A1", 10),
		enrichedTx("2", "C-missing", "A-missing", 20),
		enrichedTx("3", "C1", "A1", 30),
	}
	customers := []domain.Customer{customer("C1", 30, "NY")}
	accounts := []domain.Account{account("A1", "Checking")}

	facts, err := joiner.BuildFactTable(ctx, transactions, customers, accounts)
	require.NoError(t, err)
	assert.Len(t, facts, len(transactions))
}

func TestJoiner_BuildFactTable_UnmatchedFieldsAreNil(t *testing.T) {
	ctx := context.Background()
	joiner := NewJoiner(nil)

	facts, err := joiner.BuildFactTable(ctx,
		[]domain.EnrichedTransaction{enrichedTx("1", "C-unknown", "A-unknown", 10)},
		[]domain.Customer{customer("C1", 30, "NY")},
		[]domain.Account{account("A1", "Checking")})
	require.NoError(t, err)
	require.Len(t, facts, 1)

	assert.Nil(t, facts[0].Age)
	assert.Nil(t, facts[0].City)
	assert.Nil(t, facts[0].CreditScore)
	assert.Nil(t, facts[0].EmploymentStatus)
	assert.Nil(t, facts[0].AccountType)
	// Transaction fields are still fully populated.
	assert.Equal(t, "C-unknown", facts[0].CustomerID)
}

func TestJoiner_BuildFactTable_DuplicateCustomerIsFatal(t *testing.T) {
	ctx := context.Background()
	joiner := NewJoiner(nil)

	facts, err := joiner.BuildFactTable(ctx,
		[]domain.EnrichedTransaction{enrichedTx("1", "C1", "A1", 10)},
		[]domain.Customer{customer("C1", 30, "NY"), customer("C1", 40, "LA")},
		nil)

	assert.Nil(t, facts)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeDataQuality, errors.TypeOf(err))
}

func TestJoiner_BuildFactTable_AccountFanOut(t *testing.T) {
	ctx := context.Background()
	joiner := NewJoiner(nil)

	// Accounts are not deduplicated upstream; duplicate account ids fan the
	// join out to one fact row per match.
	facts, err := joiner.BuildFactTable(ctx,
		[]domain.EnrichedTransaction{enrichedTx("1", "C1", "A1", 10)},
		[]domain.Customer{customer("C1", 30, "NY")},
		[]domain.Account{account("A1", "Checking"), account("A1", "Savings")})
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, "Checking", *facts[0].AccountType)
	assert.Equal(t, "Savings", *facts[1].AccountType)
	assert.Equal(t, facts[0].TransactionID, facts[1].TransactionID)
}

func TestJoiner_BuildFactTable_EmptyInput(t *testing.T) {
	facts, err := NewJoiner(nil).BuildFactTable(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, facts)
}
