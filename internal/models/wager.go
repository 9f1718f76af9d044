package models

import (
	"time"
)

type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "pending"
	WagerStatusSettled   WagerStatus = "settled"
	WagerStatusCancelled WagerStatus = "cancelled"
)

type GameType string

const (
	GameTypeCricketToss      GameType = "cricket_toss"
	GameTypeTeamMatch        GameType = "team_match"
	GameTypeCoinFlip         GameType = "coin_flip"
	GameTypeSatamatkaJodi    GameType = "satamatka_jodi"
	GameTypeSatamatkaHarf    GameType = "satamatka_harf"
	GameTypeSatamatkaCross   GameType = "satamatka_crossing"
	GameTypeSatamatkaOddEven GameType = "satamatka_odd_even"
)

// Wager is a single bet placed by a user against a market or match.
// BetAmount and Payout are integer minor-currency units (paise).
type Wager struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GameType     GameType    `gorm:"size:50;not null;index" json:"game_type"`
	MarketID     *uint       `gorm:"index" json:"market_id,omitempty"`
	MatchID      *uint       `gorm:"index" json:"match_id,omitempty"`
	BetAmount    int64       `gorm:"not null" json:"bet_amount"`
	Prediction   string      `gorm:"size:255;not null" json:"prediction"`
	Status       WagerStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	Result       *string     `gorm:"size:50" json:"result,omitempty"` // win, loss, or "pending" on legacy rows
	Payout       *int64      `json:"payout,omitempty"`
	BalanceAfter *int64      `json:"balance_after,omitempty"`
	Remark       *string     `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	SettledAt    *time.Time  `json:"settled_at,omitempty"`
}

// TableName specifies the table name for Wager model
func (Wager) TableName() string {
	return "wagers"
}
