package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"betting-platform/internal/models"
	"betting-platform/internal/repository"
	"betting-platform/internal/valuation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMarketNotOpen        = errors.New("market is not open for betting")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrMissingGameReference = errors.New("wager must reference a market or match for this game type")
)

// WagerService handles wager placement and read-side listings.
type WagerService struct {
	repo      *repository.Repository
	valuation *ValuationService
}

func NewWagerService(repo *repository.Repository, valuationService *ValuationService) *WagerService {
	return &WagerService{repo: repo, valuation: valuationService}
}

// PlaceWagerInput is the caller-facing placement request.
type PlaceWagerInput struct {
	UserID     uint
	GameType   models.GameType
	MarketID   *uint
	MatchID    *uint
	BetAmount  int64
	Prediction string
}

// PlaceWager validates the request, debits the stake and records the wager
// plus its ledger entry in one transaction.
func (ws *WagerService) PlaceWager(ctx context.Context, in PlaceWagerInput) (*models.Wager, error) {
	if in.BetAmount <= 0 {
		return nil, valuation.ErrInvalidWager
	}

	if err := ws.checkGameReference(ctx, in); err != nil {
		return nil, err
	}

	wager := &models.Wager{
		UserID:     in.UserID,
		GameType:   in.GameType,
		MarketID:   in.MarketID,
		MatchID:    in.MatchID,
		BetAmount:  in.BetAmount,
		Prediction: in.Prediction,
		Status:     models.WagerStatusPending,
		CreatedAt:  time.Now(),
	}

	err := ws.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := ws.repo.WithTx(tx)

		// The debit is conditional on the balance covering the stake, so
		// concurrent placements cannot both pass a prior read.
		newBalance, err := txRepo.DebitUserBalance(ctx, in.UserID, in.BetAmount)
		if errors.Is(err, repository.ErrInsufficientFunds) {
			// Zero rows also covers a user that does not exist.
			if _, uerr := txRepo.GetUserByID(ctx, in.UserID); uerr != nil {
				return uerr
			}
			return ErrInsufficientBalance
		}
		if err != nil {
			return err
		}

		if err := txRepo.CreateWager(ctx, wager); err != nil {
			return fmt.Errorf("failed to create wager: %w", err)
		}

		return txRepo.CreateTransaction(ctx, &models.Transaction{
			Reference:    uuid.New(),
			UserID:       in.UserID,
			WagerID:      &wager.ID,
			Type:         models.TransactionTypeBetPlaced,
			Amount:       -in.BetAmount,
			BalanceAfter: newBalance,
			Description:  fmt.Sprintf("Bet placed on %s", in.GameType),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return wager, nil
}

// checkGameReference enforces that game types played against a round
// actually reference one, and that the round still accepts bets. Coin flip
// has no context to check.
func (ws *WagerService) checkGameReference(ctx context.Context, in PlaceWagerInput) error {
	switch in.GameType {
	case models.GameTypeCricketToss, models.GameTypeTeamMatch:
		if in.MatchID == nil {
			return ErrMissingGameReference
		}
		match, err := ws.repo.GetMatchByID(ctx, *in.MatchID)
		if err != nil {
			return err
		}
		if match.Status != models.MarketStatusOpen {
			return ErrMarketNotOpen
		}
	case models.GameTypeSatamatkaJodi, models.GameTypeSatamatkaHarf,
		models.GameTypeSatamatkaCross, models.GameTypeSatamatkaOddEven:
		if in.MarketID == nil {
			return ErrMissingGameReference
		}
		market, err := ws.repo.GetMarketByID(ctx, *in.MarketID)
		if err != nil {
			return err
		}
		if market.Status != models.MarketStatusOpen {
			return ErrMarketNotOpen
		}
	}
	return nil
}

// ActiveWager is a pending wager with its advisory valuation attached.
type ActiveWager struct {
	models.Wager
	Multiplier      int64 `json:"multiplier"`
	PotentialPayout int64 `json:"potential_payout"`
}

// ListActiveWagers returns a user's pending wagers together with the payout
// each would earn if it won, per the valuation engine.
func (ws *WagerService) ListActiveWagers(ctx context.Context, userID uint, limit, offset int) ([]ActiveWager, error) {
	wagers, err := ws.repo.ListActiveWagersByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]ActiveWager, 0, len(wagers))
	for i := range wagers {
		res, err := ws.valuation.ValueWager(ctx, &wagers[i])
		if err != nil {
			// A malformed stored wager should not hide the rest of
			// the list; surface it with a zero valuation.
			res = valuation.Result{}
		}
		out = append(out, ActiveWager{
			Wager:           wagers[i],
			Multiplier:      res.Multiplier,
			PotentialPayout: res.Payout,
		})
	}
	return out, nil
}

// ListWagerHistory returns a user's full wager history, newest first.
func (ws *WagerService) ListWagerHistory(ctx context.Context, userID uint, limit, offset int) ([]models.Wager, error) {
	return ws.repo.ListWagersByUser(ctx, userID, limit, offset)
}
