package repo

import (
	"testing"
	"time"

	"planejeja/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuy(userID, token, amount, usdValue string) *models.CryptoTransaction {
	return &models.CryptoTransaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Token:    token,
		Type:     models.CryptoTypeBuy,
		Amount:   amount,
		USDValue: usdValue,
		Price:    "50.00",
		Date:     time.Now().UTC(),
	}
}

func TestCryptoTransaction_CRUD(t *testing.T) {
	repository, err := New(setupTestDB(t))
	require.NoError(t, err)

	tx := newBuy("user-1", "BTC", "2", "100.00")
	require.NoError(t, repository.CreateCryptoTransaction(tx))

	got, err := repository.GetCryptoTransaction(tx.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "BTC", got.Token)
	assert.Equal(t, "2", got.Amount)

	got.Amount = "3"
	require.NoError(t, repository.UpdateCryptoTransaction(got))
	got, err = repository.GetCryptoTransaction(tx.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "3", got.Amount)

	require.NoError(t, repository.DeleteCryptoTransaction(tx.ID, "user-1"))
	_, err = repository.GetCryptoTransaction(tx.ID, "user-1")
	require.Error(t, err)
}

func TestCryptoTransaction_OwnerScoped(t *testing.T) {
	repository, err := New(setupTestDB(t))
	require.NoError(t, err)

	tx := newBuy("user-1", "BTC", "1", "50.00")
	require.NoError(t, repository.CreateCryptoTransaction(tx))

	_, err = repository.GetCryptoTransaction(tx.ID, "user-2")
	require.Error(t, err)

	err = repository.DeleteCryptoTransaction(tx.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilterCryptoTransactions_ByOperation(t *testing.T) {
	repository, err := New(setupTestDB(t))
	require.NoError(t, err)

	first := newBuy("user-1", "BTC", "1", "50.00")
	second := newBuy("user-1", "BTC", "2", "100.00")
	require.NoError(t, repository.CreateCryptoTransaction(first))
	require.NoError(t, repository.CreateCryptoTransaction(second))

	all, err := repository.FilterCryptoTransactions(CryptoTransactionFilter{
		UserID: "user-1", Token: "BTC",
	})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := repository.FilterCryptoTransactions(CryptoTransactionFilter{
		UserID: "user-1", Token: "BTC", OperationID: second.ID,
	})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, second.ID, only[0].ID)
}

func TestDistinctBuyTokens(t *testing.T) {
	repository, err := New(setupTestDB(t))
	require.NoError(t, err)

	require.NoError(t, repository.CreateCryptoTransaction(newBuy("user-1", "btc ", "1", "50.00")))
	require.NoError(t, repository.CreateCryptoTransaction(newBuy("user-2", "BTC", "1", "50.00")))
	require.NoError(t, repository.CreateCryptoTransaction(newBuy("user-1", "SOL", "1", "50.00")))

	sell := newBuy("user-1", "DOGE", "1", "50.00")
	sell.Type = models.CryptoTypeSell
	require.NoError(t, repository.CreateCryptoTransaction(sell))

	tokens, err := repository.DistinctBuyTokens()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BTC", "SOL"}, tokens)
}
