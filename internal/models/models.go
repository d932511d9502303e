package models

import "time"

// Transaction types for personal finance records.
const (
	FinanceTypeDeposit    = "DEPOSIT"
	FinanceTypeExpense    = "EXPENSE"
	FinanceTypeInvestment = "INVESTMENT"
)

// Crypto operation types.
const (
	CryptoTypeBuy  = "buy"
	CryptoTypeSell = "sell"
)

// Subscription plans.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

type User struct {
	ID        string    `json:"id"         gorm:"primaryKey"`
	Email     string    `json:"email"      gorm:"uniqueIndex"`
	APIKey    string    `json:"-"          gorm:"uniqueIndex"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinanceTransaction is a personal-finance record (income, expense or
// investment). Amount is persisted as a decimal string and parsed at the
// money boundary before any aggregation.
type FinanceTransaction struct {
	ID            string    `json:"id"             gorm:"primaryKey"`
	UserID        string    `json:"user_id"        gorm:"index"`
	Name          string    `json:"name"`
	Type          string    `json:"type"           gorm:"index"`
	Amount        string    `json:"amount"         gorm:"type:decimal(20,2)"`
	Category      string    `json:"category"       gorm:"index"`
	PaymentMethod string    `json:"payment_method"`
	Date          time.Time `json:"date"           gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CryptoTransaction is one buy or sell operation of a crypto asset.
// Monetary fields are persisted as decimal strings; USDValue holds the total
// USD invested at entry and is trusted as the cost basis for unrealized PnL.
// SellTokenPrice and ProfitSell are set only on sell records.
type CryptoTransaction struct {
	ID             string    `json:"id"                         gorm:"primaryKey"`
	UserID         string    `json:"user_id"                    gorm:"index"`
	Token          string    `json:"token"                      gorm:"index"`
	Type           string    `json:"type"                       gorm:"index"`
	Amount         string    `json:"amount"                     gorm:"type:decimal(30,10)"`
	USDValue       string    `json:"usd_value"                  gorm:"type:decimal(20,2)"`
	Price          string    `json:"price"                      gorm:"type:decimal(30,10)"`
	Date           time.Time `json:"date"                       gorm:"index"`
	SellTokenPrice *string   `json:"sell_token_price,omitempty" gorm:"type:decimal(30,10)"`
	ProfitSell     *string   `json:"profit_sell,omitempty"      gorm:"type:decimal(20,2)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PriceSnapshot is one minute-bucketed price observation for a tracked asset.
// There is at most one row per (symbol, captured_at) pair.
type PriceSnapshot struct {
	ID         int64     `json:"id"          gorm:"primaryKey"`
	Symbol     string    `json:"symbol"      gorm:"index:idx_symbol_captured"`
	PriceUSD   float64   `json:"price_usd"`
	CapturedAt time.Time `json:"captured_at" gorm:"index:idx_symbol_captured"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (FinanceTransaction) TableName() string {
	return "finance_transactions"
}

func (CryptoTransaction) TableName() string {
	return "crypto_transactions"
}

func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}
