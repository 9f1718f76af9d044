package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"betting-platform/internal/metrics"
	"betting-platform/internal/models"
	"betting-platform/internal/repository"
	"betting-platform/internal/valuation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrWagerNotActive surfaces the repository's activeness verdict: a wager
// is settleable exactly when the active listings would return it.
var ErrWagerNotActive = repository.ErrWagerNotActive

const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// SettlementService resolves wagers: it calls the valuation engine once per
// wager and persists result, payout and balance snapshot atomically with
// the user's balance credit. It is the only writer of wager settlement
// fields and of the closed -> resulted market transition.
type SettlementService struct {
	repo      *repository.Repository
	valuation *ValuationService
}

func NewSettlementService(repo *repository.Repository, valuationService *ValuationService) *SettlementService {
	return &SettlementService{repo: repo, valuation: valuationService}
}

// SettleWager settles one wager as won or lost. A winning wager is credited
// betAmount * multiplier / 10000; a losing one is marked with a zero
// payout. Refuses cancelled and already-settled wagers. A malformed wager
// surfaces the valuation error and persists nothing.
func (ss *SettlementService) SettleWager(ctx context.Context, wagerID uint, won bool) (*models.Wager, error) {
	wager, err := ss.repo.GetActiveWagerByID(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	// A corrupt wager must not be settled either way.
	if wager.BetAmount <= 0 {
		return nil, valuation.ErrInvalidWager
	}

	var payout int64
	if won {
		res, err := ss.valuation.ValueWager(ctx, wager)
		if err != nil {
			return nil, fmt.Errorf("valuation failed for wager %d: %w", wagerID, err)
		}
		payout = res.Payout
	}

	result := ResultLoss
	if won {
		result = ResultWin
	}

	err = ss.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := ss.repo.WithTx(tx)

		balance, err := ss.creditWinnings(ctx, txRepo, wager, payout, won)
		if err != nil {
			return err
		}

		now := time.Now()
		wager.Status = models.WagerStatusSettled
		wager.Result = &result
		wager.Payout = &payout
		wager.BalanceAfter = &balance
		wager.SettledAt = &now
		return txRepo.UpdateWager(ctx, wager)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSettlement(won)
	log.Printf("[Settlement] Wager %d settled: %s, payout %d", wager.ID, result, payout)
	return wager, nil
}

// creditWinnings applies the payout to the user's balance and writes the
// ledger entry. Returns the balance snapshot stored on the wager; a losing
// wager moves no money and snapshots the current balance.
func (ss *SettlementService) creditWinnings(ctx context.Context, txRepo *repository.Repository, wager *models.Wager, payout int64, won bool) (int64, error) {
	if !won || payout == 0 {
		user, err := txRepo.GetUserByID(ctx, wager.UserID)
		if err != nil {
			return 0, err
		}
		return user.Balance, nil
	}

	balance, err := txRepo.AdjustUserBalance(ctx, wager.UserID, payout)
	if err != nil {
		return 0, err
	}

	err = txRepo.CreateTransaction(ctx, &models.Transaction{
		Reference:    uuid.New(),
		UserID:       wager.UserID,
		WagerID:      &wager.ID,
		Type:         models.TransactionTypeBetWon,
		Amount:       payout,
		BalanceAfter: balance,
		Description:  fmt.Sprintf("Winnings on %s", wager.GameType),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ResultMarket declares a market's winning result and settles every pending
// wager on it. The market must already be closed. A wager wins when its
// prediction equals the declared result. Per-wager failures are logged and
// do not stop the sweep.
func (ss *SettlementService) ResultMarket(ctx context.Context, marketID uint, result string) error {
	if err := ss.repo.SetMarketResult(ctx, marketID, result); err != nil {
		return err
	}

	wagers, err := ss.repo.ListActiveWagersByMarket(ctx, marketID)
	if err != nil {
		return fmt.Errorf("failed to list wagers for market %d: %w", marketID, err)
	}

	log.Printf("[Settlement] Resulting market %d (%q): %d wager(s) to settle", marketID, result, len(wagers))

	for i := range wagers {
		won := wagers[i].Prediction == result
		if _, err := ss.SettleWager(ctx, wagers[i].ID, won); err != nil {
			log.Printf("[Settlement] Failed to settle wager %d: %v", wagers[i].ID, err)
		}
	}
	return nil
}

// ResultMatch declares a match winner (team_a or team_b) and settles every
// pending wager on it using the engine's side resolution.
func (ss *SettlementService) ResultMatch(ctx context.Context, matchID uint, winner string) error {
	match, err := ss.repo.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MarketStatusClosed {
		return fmt.Errorf("match %d is %s, must be closed to result", matchID, match.Status)
	}

	winningSide := valuation.ResolveSide(winner, match)
	if winningSide == valuation.SideUnknown {
		return fmt.Errorf("unrecognized match winner %q", winner)
	}

	err = ss.repo.DB().WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND status = ?", matchID, models.MarketStatusClosed).
		Updates(map[string]interface{}{"status": models.MarketStatusResulted, "result": winner}).Error
	if err != nil {
		return fmt.Errorf("failed to result match %d: %w", matchID, err)
	}

	wagers, err := ss.repo.ListActiveWagersByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to list wagers for match %d: %w", matchID, err)
	}

	log.Printf("[Settlement] Resulting match %d (%s): %d wager(s) to settle", matchID, winner, len(wagers))

	for i := range wagers {
		won := valuation.ResolveSide(wagers[i].Prediction, match) == winningSide
		if _, err := ss.SettleWager(ctx, wagers[i].ID, won); err != nil {
			log.Printf("[Settlement] Failed to settle wager %d: %v", wagers[i].ID, err)
		}
	}
	return nil
}

// CancelWager voids a pending wager and refunds the stake, with an optional
// free-text remark for the audit trail. Settled wagers cannot be cancelled.
func (ss *SettlementService) CancelWager(ctx context.Context, wagerID uint, remark string) (*models.Wager, error) {
	wager, err := ss.repo.GetActiveWagerByID(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	err = ss.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := ss.repo.WithTx(tx)

		balance, err := txRepo.AdjustUserBalance(ctx, wager.UserID, wager.BetAmount)
		if err != nil {
			return err
		}

		err = txRepo.CreateTransaction(ctx, &models.Transaction{
			Reference:    uuid.New(),
			UserID:       wager.UserID,
			WagerID:      &wager.ID,
			Type:         models.TransactionTypeBetRefund,
			Amount:       wager.BetAmount,
			BalanceAfter: balance,
			Description:  "Bet cancelled by admin",
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return err
		}

		wager.Status = models.WagerStatusCancelled
		if remark != "" {
			wager.Remark = &remark
		}
		return txRepo.UpdateWager(ctx, wager)
	})
	if err != nil {
		return nil, err
	}

	metrics.WagersCancelled.Inc()
	log.Printf("[Settlement] Wager %d cancelled, stake %d refunded", wager.ID, wager.BetAmount)
	return wager, nil
}
