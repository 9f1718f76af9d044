package repository

import (
	"context"
	"fmt"

	"betting-platform/internal/models"

	"gorm.io/gorm"
)

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdjustUserBalance applies a signed delta to a user's balance and returns
// the new balance. Must run inside the same transaction as the wager or
// ledger write it belongs to.
func (r *Repository) AdjustUserBalance(ctx context.Context, userID uint, delta int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to adjust balance for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).Select("balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// DebitUserBalance subtracts amount from a user's balance in a single
// conditional update, so two concurrent debits cannot both pass a
// read-then-write check and overdraw. Zero rows affected means the user
// is missing or the balance does not cover the amount.
func (r *Repository) DebitUserBalance(ctx context.Context, userID uint, amount int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to debit balance for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientFunds
	}

	var user models.User
	if err := r.db.WithContext(ctx).Select("balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.Balance, nil
}
