package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrMarketNotFound    = errors.New("market not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrWagerNotFound     = errors.New("wager not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrWagerNotActive    = errors.New("wager is not awaiting settlement")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for callers that need to compose a
// transaction across repository calls.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a Repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}
