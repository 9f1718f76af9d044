package repository

import (
	"context"

	"betting-platform/internal/models"

	"gorm.io/gorm"
)

// activeWagerCondition matches wagers still awaiting settlement. Legacy
// rows store result="pending" instead of NULL; cancelled wagers never
// match because of the status filter. This is the only definition of
// activeness: listings and GetActiveWagerByID both apply it, so a wager
// is settleable exactly when it lists as active.
const activeWagerCondition = "status = ? AND (result IS NULL OR result = '' OR result = 'pending')"

// CreateWager creates a new wager
func (r *Repository) CreateWager(ctx context.Context, wager *models.Wager) error {
	return r.db.WithContext(ctx).Create(wager).Error
}

// GetWagerByID retrieves a wager by ID
func (r *Repository) GetWagerByID(ctx context.Context, wagerID uint) (*models.Wager, error) {
	var wager models.Wager
	err := r.db.WithContext(ctx).Where("id = ?", wagerID).First(&wager).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrWagerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

// GetActiveWagerByID retrieves a wager only while it still awaits
// settlement. Returns ErrWagerNotActive for a wager that exists but has
// been settled or cancelled, ErrWagerNotFound for a missing one.
func (r *Repository) GetActiveWagerByID(ctx context.Context, wagerID uint) (*models.Wager, error) {
	var wager models.Wager
	err := r.db.WithContext(ctx).
		Where("id = ?", wagerID).
		Where(activeWagerCondition, models.WagerStatusPending).
		First(&wager).Error
	if err == gorm.ErrRecordNotFound {
		var count int64
		if res := r.db.WithContext(ctx).Model(&models.Wager{}).Where("id = ?", wagerID).Count(&count); res.Error != nil {
			return nil, res.Error
		}
		if count == 0 {
			return nil, ErrWagerNotFound
		}
		return nil, ErrWagerNotActive
	}
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

// UpdateWager persists a wager
func (r *Repository) UpdateWager(ctx context.Context, wager *models.Wager) error {
	return r.db.WithContext(ctx).Save(wager).Error
}

// ListActiveWagersByUser retrieves a user's pending wagers, newest first
func (r *Repository) ListActiveWagersByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(activeWagerCondition, models.WagerStatusPending).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListWagersByUser retrieves a user's full wager history, newest first
func (r *Repository) ListWagersByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListActiveWagersByMarket retrieves the pending wagers referencing a
// market, for the settlement sweep after the market is resulted.
func (r *Repository) ListActiveWagersByMarket(ctx context.Context, marketID uint) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Where(activeWagerCondition, models.WagerStatusPending).
		Order("created_at ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListActiveWagersByMatch retrieves the pending wagers referencing a match.
func (r *Repository) ListActiveWagersByMatch(ctx context.Context, matchID uint) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Where(activeWagerCondition, models.WagerStatusPending).
		Order("created_at ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// CreateTransaction records a ledger entry
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}
