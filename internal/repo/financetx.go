package repo

import (
	"time"

	"planejeja/internal/models"

	"gorm.io/gorm"
)

// FinanceFilter scopes finance queries to a user and an optional half-open
// date interval [Start, End).
type FinanceFilter struct {
	UserID string
	Start  *time.Time
	End    *time.Time
}

// TypeSum is one row of the per-type aggregation.
type TypeSum struct {
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

// CategorySum is one row of the per-category expense aggregation.
type CategorySum struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

func (r *Repository) CreateFinanceTransaction(tx *models.FinanceTransaction) error {
	return r.db.Create(tx).Error
}

func (r *Repository) GetFinanceTransaction(id, userID string) (*models.FinanceTransaction, error) {
	var tx models.FinanceTransaction
	if err := r.db.First(&tx, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) ListFinanceTransactions(filter FinanceFilter) ([]models.FinanceTransaction, error) {
	var transactions []models.FinanceTransaction
	if err := r.financeQuery(filter).Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// LastFinanceTransactions returns the user's most recent transactions in
// the window, newest first, capped at limit.
func (r *Repository) LastFinanceTransactions(filter FinanceFilter, limit int) ([]models.FinanceTransaction, error) {
	var transactions []models.FinanceTransaction
	if err := r.financeQuery(filter).
		Order("date DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) UpdateFinanceTransaction(tx *models.FinanceTransaction) error {
	return r.db.Save(tx).Error
}

func (r *Repository) DeleteFinanceTransaction(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.FinanceTransaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumFinanceByType aggregates amounts per transaction type in one query.
// SQLite sums the decimal strings numerically.
func (r *Repository) SumFinanceByType(filter FinanceFilter) ([]TypeSum, error) {
	var sums []TypeSum
	if err := r.financeQuery(filter).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

// SumExpensesByCategory aggregates expense amounts per category.
func (r *Repository) SumExpensesByCategory(filter FinanceFilter) ([]CategorySum, error) {
	var sums []CategorySum
	if err := r.financeQuery(filter).
		Where("type = ?", models.FinanceTypeExpense).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *Repository) financeQuery(filter FinanceFilter) *gorm.DB {
	query := r.db.Model(&models.FinanceTransaction{}).Where("user_id = ?", filter.UserID)
	if filter.Start != nil {
		query = query.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("date < ?", *filter.End)
	}
	return query
}
