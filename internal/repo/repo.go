package repo

import (
	"errors"

	"planejeja/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNilDatabase = errors.New("database cannot be nil")
	ErrNotFound    = gorm.ErrRecordNotFound
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.FinanceTransaction{},
		&models.CryptoTransaction{},
		&models.PriceSnapshot{},
	)
}
