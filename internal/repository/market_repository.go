package repository

import (
	"context"
	"fmt"
	"time"

	"betting-platform/internal/models"

	"gorm.io/gorm"
)

// CreateMarket creates a new market
func (r *Repository) CreateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
}

// GetMarketByID retrieves a market by ID
func (r *Repository) GetMarketByID(ctx context.Context, marketID uint) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).Where("id = ?", marketID).First(&market).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// ListMarketsByStatus retrieves markets in a given status, newest first
func (r *Repository) ListMarketsByStatus(ctx context.Context, status models.MarketStatus, limit, offset int) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("close_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// ListOpenMarketsPastCloseTime returns markets still open whose scheduled
// close time is at or before now. A market closed by a previous sweep is
// excluded by the status filter, which is what makes the auto-close sweep
// idempotent.
func (r *Repository) ListOpenMarketsPastCloseTime(ctx context.Context, now time.Time) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("status = ? AND close_time <= ?", models.MarketStatusOpen, now).
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// UpdateMarketStatus atomically sets one market's status. Reports
// ErrMarketNotFound when no row matches, so callers can tell a missing
// market from a transient fault.
func (r *Repository) UpdateMarketStatus(ctx context.Context, marketID uint, status models.MarketStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ?", marketID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update market %d status: %w", marketID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMarketNotFound
	}
	return nil
}

// SetMarketResult records a market's winning result and moves it to
// resulted. Only a closed market can be resulted.
func (r *Repository) SetMarketResult(ctx context.Context, marketID uint, result string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ? AND status = ?", marketID, models.MarketStatusClosed).
		Updates(map[string]interface{}{
			"status":      models.MarketStatusResulted,
			"result":      result,
			"resulted_at": &now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to result market %d: %w", marketID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMarketNotFound
	}
	return nil
}
