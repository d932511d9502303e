package repo

import (
	"strings"

	"planejeja/internal/models"
)

// CryptoTransactionFilter narrows a user's operations to one token and,
// optionally, a single operation id.
type CryptoTransactionFilter struct {
	UserID      string
	Token       string
	OperationID string
}

func (r *Repository) CreateCryptoTransaction(tx *models.CryptoTransaction) error {
	return r.db.Create(tx).Error
}

func (r *Repository) GetCryptoTransaction(id, userID string) (*models.CryptoTransaction, error) {
	var tx models.CryptoTransaction
	if err := r.db.First(&tx, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) ListCryptoTransactions(userID string) ([]models.CryptoTransaction, error) {
	var transactions []models.CryptoTransaction
	if err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) FilterCryptoTransactions(filter CryptoTransactionFilter) ([]models.CryptoTransaction, error) {
	query := r.db.Where("user_id = ? AND token = ?", filter.UserID, filter.Token)
	if filter.OperationID != "" {
		query = query.Where("id = ?", filter.OperationID)
	}

	var transactions []models.CryptoTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) UpdateCryptoTransaction(tx *models.CryptoTransaction) error {
	return r.db.Save(tx).Error
}

func (r *Repository) DeleteCryptoTransaction(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CryptoTransaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctBuyTokens returns every token, across all users, with at least one
// buy operation recorded. Tokens are trimmed and uppercased; empty entries
// are dropped.
func (r *Repository) DistinctBuyTokens() ([]string, error) {
	var tokens []string
	if err := r.db.Model(&models.CryptoTransaction{}).
		Where("type = ?", models.CryptoTypeBuy).
		Distinct().
		Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}

	normalized := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		symbol := strings.ToUpper(strings.TrimSpace(token))
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		normalized = append(normalized, symbol)
	}
	return normalized, nil
}
