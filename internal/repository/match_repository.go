package repository

import (
	"context"
	"fmt"
	"time"

	"betting-platform/internal/models"

	"gorm.io/gorm"
)

// CreateMatch creates a new match
func (r *Repository) CreateMatch(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// GetMatchByID retrieves a match by ID
func (r *Repository) GetMatchByID(ctx context.Context, matchID uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).Where("id = ?", matchID).First(&match).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatchesByStatus retrieves matches in a given status
func (r *Repository) ListMatchesByStatus(ctx context.Context, status models.MarketStatus, limit, offset int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("close_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ListOpenMatchesPastCloseTime retrieves open matches whose close time has
// elapsed, for the auto-close sweep. The status filter keeps the sweep
// idempotent; a closed match is never selected again.
func (r *Repository) ListOpenMatchesPastCloseTime(ctx context.Context, now time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("status = ? AND close_time <= ?", models.MarketStatusOpen, now).
		Order("close_time ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list elapsed matches: %w", err)
	}
	return matches, nil
}

// UpdateMatchStatus atomically sets one match's status
func (r *Repository) UpdateMatchStatus(ctx context.Context, matchID uint, status models.MarketStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", matchID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update match %d status: %w", matchID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}
