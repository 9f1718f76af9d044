package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"betting-platform/internal/models"
	"betting-platform/internal/valuation"
)

func TestPlaceWagerDebitsBalance(t *testing.T) {
	repo, _, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 10000)

	wager, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID:     user.ID,
		GameType:   models.GameTypeCoinFlip,
		BetAmount:  2000,
		Prediction: "heads",
	})
	if err != nil {
		t.Fatalf("PlaceWager: %v", err)
	}

	if wager.Status != models.WagerStatusPending {
		t.Errorf("new wager status = %s, want pending", wager.Status)
	}

	gotUser, _ := repo.GetUserByID(ctx, user.ID)
	if gotUser.Balance != 8000 {
		t.Errorf("balance = %d, want 8000", gotUser.Balance)
	}
}

func TestPlaceWagerValidation(t *testing.T) {
	repo, _, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 10000)

	_, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeCoinFlip, BetAmount: 0, Prediction: "heads",
	})
	if !errors.Is(err, valuation.ErrInvalidWager) {
		t.Errorf("zero amount error = %v, want ErrInvalidWager", err)
	}

	_, err = wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeCoinFlip, BetAmount: 50000, Prediction: "heads",
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("oversized stake error = %v, want ErrInsufficientBalance", err)
	}

	// Satamatka games must reference a market.
	_, err = wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeSatamatkaJodi, BetAmount: 1000, Prediction: "47",
	})
	if !errors.Is(err, ErrMissingGameReference) {
		t.Errorf("missing market error = %v, want ErrMissingGameReference", err)
	}

	// Balance untouched by any of the rejected placements.
	gotUser, _ := repo.GetUserByID(ctx, user.ID)
	if gotUser.Balance != 10000 {
		t.Errorf("balance = %d, want untouched 10000", gotUser.Balance)
	}
}

func TestPlaceWagerRejectsClosedMarket(t *testing.T) {
	repo, _, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 10000)

	market := &models.Market{
		Name: "Dishawar", Type: "dishawar",
		CloseTime: time.Now().Add(-time.Minute),
		Status:    models.MarketStatusClosed,
	}
	if err := repo.CreateMarket(ctx, market); err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	_, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeSatamatkaJodi,
		MarketID: &market.ID, BetAmount: 1000, Prediction: "47",
	})
	if !errors.Is(err, ErrMarketNotOpen) {
		t.Errorf("closed market error = %v, want ErrMarketNotOpen", err)
	}
}

func TestPlaceWagerRejectsClosedMatch(t *testing.T) {
	repo, _, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 10000)

	match := &models.Match{
		TeamA: "India", TeamB: "Australia",
		OddTeamA: 250, OddTeamB: 160,
		CloseTime: time.Now().Add(-time.Minute),
		Status:    models.MarketStatusOpen,
	}
	if err := repo.CreateMatch(ctx, match); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := repo.UpdateMatchStatus(ctx, match.ID, models.MarketStatusClosed); err != nil {
		t.Fatalf("UpdateMatchStatus: %v", err)
	}

	_, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeCricketToss,
		MatchID: &match.ID, BetAmount: 1000, Prediction: "team_a",
	})
	if !errors.Is(err, ErrMarketNotOpen) {
		t.Errorf("closed match error = %v, want ErrMarketNotOpen", err)
	}
}

func TestListActiveWagersCarriesPotentialPayout(t *testing.T) {
	repo, _, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 50000)

	match := &models.Match{
		TeamA: "India", TeamB: "Australia",
		OddTeamA: 250, OddTeamB: 160,
		CloseTime: time.Now().Add(time.Hour),
		Status:    models.MarketStatusOpen,
	}
	if err := repo.CreateMatch(ctx, match); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if _, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeCricketToss,
		MatchID: &match.ID, BetAmount: 10000, Prediction: "team_a",
	}); err != nil {
		t.Fatalf("PlaceWager: %v", err)
	}

	active, err := wagers.ListActiveWagers(ctx, user.ID, 50, 0)
	if err != nil {
		t.Fatalf("ListActiveWagers: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active wagers = %d, want 1", len(active))
	}
	if active[0].Multiplier != 250 || active[0].PotentialPayout != 250 {
		t.Errorf("valuation = %d/%d, want multiplier 250 payout 250",
			active[0].Multiplier, active[0].PotentialPayout)
	}
}

// A wager whose match row has disappeared still gets a best-effort
// valuation at the default multiplier instead of an error.
func TestValuationFallsBackWithoutContext(t *testing.T) {
	repo, _, _ := newTestServices(t)
	ctx := context.Background()

	missing := uint(4242)
	wager := &models.Wager{
		GameType:   models.GameTypeCricketToss,
		MatchID:    &missing,
		BetAmount:  10000,
		Prediction: "team_a",
	}

	res, err := NewValuationService(repo).ValueWager(ctx, wager)
	if err != nil {
		t.Fatalf("ValueWager: %v", err)
	}
	if res.Multiplier != valuation.DefaultMultiplier {
		t.Errorf("multiplier = %d, want default %d", res.Multiplier, valuation.DefaultMultiplier)
	}
	if res.Payout != 190 {
		t.Errorf("payout = %d, want 190", res.Payout)
	}
}

func TestWagerHistoryIncludesSettled(t *testing.T) {
	repo, settlement, wagers := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, repo, 10000)

	placed, err := wagers.PlaceWager(ctx, PlaceWagerInput{
		UserID: user.ID, GameType: models.GameTypeCoinFlip, BetAmount: 2000, Prediction: "heads",
	})
	if err != nil {
		t.Fatalf("PlaceWager: %v", err)
	}
	if _, err := settlement.SettleWager(ctx, placed.ID, false); err != nil {
		t.Fatalf("SettleWager: %v", err)
	}

	active, err := wagers.ListActiveWagers(ctx, user.ID, 50, 0)
	if err != nil {
		t.Fatalf("ListActiveWagers: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active wagers after settlement = %d, want 0", len(active))
	}

	history, err := wagers.ListWagerHistory(ctx, user.ID, 50, 0)
	if err != nil {
		t.Fatalf("ListWagerHistory: %v", err)
	}
	if len(history) != 1 || history[0].Status != models.WagerStatusSettled {
		t.Errorf("history = %+v, want one settled wager", history)
	}
}
