// Package valuation derives the payout multiplier and payout amount for a
// wager from its game type, prediction and market/match context. Everything
// is integer arithmetic: currency in minor units (paise, x100) and
// multipliers x100 (190 = 1.90x), so no float drift can creep into money.
//
// The package is stateless and never touches storage; callers resolve the
// context themselves (see services.ValuationService).
package valuation

import (
	"errors"
	"strings"

	"betting-platform/internal/models"
)

// ErrInvalidWager is returned when a wager's amount is missing or negative.
// Settlement must not persist anything built from such a wager.
var ErrInvalidWager = errors.New("invalid wager: bet amount must be positive")

// DefaultMultiplier is the fallback when a side or mode cannot be resolved,
// or when the required context is missing (1.90x).
const DefaultMultiplier int64 = 190

// Fixed per-mode multipliers for satamatka games.
const (
	JodiMultiplier     int64 = 9000 // 90x
	HarfMultiplier     int64 = 900  // 9x
	CrossingMultiplier int64 = 9500 // 95x
	OddEvenMultiplier  int64 = DefaultMultiplier
)

// Result carries the resolved multiplier and the payout it yields. The
// payout on a pending wager is advisory; only settlement makes it real.
type Result struct {
	Multiplier int64 `json:"multiplier"`
	Payout     int64 `json:"payout"`
}

// Value computes the valuation for a wager against its resolved context.
// match and market may be nil; missing context degrades to the default
// multiplier so display callers always get a best-effort answer.
func Value(w *models.Wager, match *models.Match, market *models.Market) (Result, error) {
	m := Multiplier(w.GameType, w.Prediction, match, market)
	payout, err := Payout(w.BetAmount, m)
	if err != nil {
		return Result{}, err
	}
	return Result{Multiplier: m, Payout: payout}, nil
}

// Payout applies a x100-scaled multiplier to a minor-unit amount. Both
// carry an implicit x100 scale, so the product is de-scaled by 10000 once,
// truncating toward zero.
func Payout(betAmount, multiplier int64) (int64, error) {
	if betAmount <= 0 {
		return 0, ErrInvalidWager
	}
	return betAmount * multiplier / 10000, nil
}

// Multiplier resolves the x100-scaled payout multiplier for a game type and
// prediction. Unknown game types take the default, same as coin_flip.
func Multiplier(gameType models.GameType, prediction string, match *models.Match, market *models.Market) int64 {
	switch gameType {
	case models.GameTypeCricketToss, models.GameTypeTeamMatch:
		return teamMultiplier(prediction, match)
	case models.GameTypeSatamatkaJodi, models.GameTypeSatamatkaHarf,
		models.GameTypeSatamatkaCross, models.GameTypeSatamatkaOddEven:
		return modeMultiplier(satamatkaMode(gameType), market)
	default:
		return DefaultMultiplier
	}
}

// Side identifies which side of a match a prediction refers to.
type Side int

const (
	SideUnknown Side = iota
	SideA
	SideB
)

// ResolveSide maps a free-form prediction onto a match side. It tolerates,
// in precedence order: the exact token (team_a/team_b), a case-insensitive
// token variant, and a prediction containing the team name as a substring.
// Side A is checked before side B at every level, so a team name that is a
// substring of the other can shadow it. This mirrors the long-standing
// prediction format and is covered by tests.
func ResolveSide(prediction string, match *models.Match) Side {
	if match == nil {
		return SideUnknown
	}

	switch prediction {
	case "team_a":
		return SideA
	case "team_b":
		return SideB
	}

	switch strings.ToLower(prediction) {
	case "team_a":
		return SideA
	case "team_b":
		return SideB
	}

	if match.TeamA != "" && strings.Contains(prediction, match.TeamA) {
		return SideA
	}
	if match.TeamB != "" && strings.Contains(prediction, match.TeamB) {
		return SideB
	}

	return SideUnknown
}

// teamMultiplier picks the resolved side's odds from the match; an opaque
// prediction or missing context degrades to the default.
func teamMultiplier(prediction string, match *models.Match) int64 {
	switch ResolveSide(prediction, match) {
	case SideA:
		return sideOdd(match.OddTeamA)
	case SideB:
		return sideOdd(match.OddTeamB)
	default:
		return DefaultMultiplier
	}
}

func sideOdd(odd int64) int64 {
	if odd <= 0 {
		return DefaultMultiplier
	}
	return odd
}

// satamatkaMode extracts the prediction mode from the game type
// (satamatka_odd_even -> odd_even).
func satamatkaMode(gameType models.GameType) string {
	return strings.TrimPrefix(string(gameType), "satamatka_")
}

// modeMultiplier returns the market's configured multiplier for the mode
// when one is set, otherwise the fixed platform default for that mode.
func modeMultiplier(mode string, market *models.Market) int64 {
	if market != nil {
		if m := market.ModeMultiplier(mode); m > 0 {
			return m
		}
	}

	switch mode {
	case "jodi":
		return JodiMultiplier
	case "harf":
		return HarfMultiplier
	case "crossing":
		return CrossingMultiplier
	case "odd_even":
		return OddEvenMultiplier
	default:
		return DefaultMultiplier
	}
}
