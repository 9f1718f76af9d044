package services

import (
	"context"
	"errors"
	"log"

	"betting-platform/internal/models"
	"betting-platform/internal/repository"
	"betting-platform/internal/valuation"
)

// ValuationService resolves a wager's market/match context and runs the
// valuation engine against it. Missing context is a valid outcome, not an
// error: display callers always get a best-effort answer at the default
// multiplier.
type ValuationService struct {
	repo *repository.Repository
}

func NewValuationService(repo *repository.Repository) *ValuationService {
	return &ValuationService{repo: repo}
}

// ValueWager computes the multiplier and payout amount for a wager. The
// payout is advisory while the wager is pending; only settlement persists
// one. Fails only on a malformed wager (missing or negative amount).
func (vs *ValuationService) ValueWager(ctx context.Context, wager *models.Wager) (valuation.Result, error) {
	match, market := vs.resolveContext(ctx, wager)
	return valuation.Value(wager, match, market)
}

// resolveContext loads whichever context the wager references. Lookup
// failures are logged and degrade to nil rather than blocking valuation.
func (vs *ValuationService) resolveContext(ctx context.Context, wager *models.Wager) (*models.Match, *models.Market) {
	var match *models.Match
	var market *models.Market

	if wager.MatchID != nil {
		m, err := vs.repo.GetMatchByID(ctx, *wager.MatchID)
		if err != nil {
			if !errors.Is(err, repository.ErrMatchNotFound) {
				log.Printf("[Valuation] Failed to load match %d for wager %d: %v", *wager.MatchID, wager.ID, err)
			}
		} else {
			match = m
		}
	}

	if wager.MarketID != nil {
		m, err := vs.repo.GetMarketByID(ctx, *wager.MarketID)
		if err != nil {
			if !errors.Is(err, repository.ErrMarketNotFound) {
				log.Printf("[Valuation] Failed to load market %d for wager %d: %v", *wager.MarketID, wager.ID, err)
			}
		} else {
			market = m
		}
	}

	return match, market
}
