package models

import (
	"time"
)

type MarketStatus string

const (
	MarketStatusOpen     MarketStatus = "open"
	MarketStatusClosed   MarketStatus = "closed"
	MarketStatusResulted MarketStatus = "resulted"
)

// Market represents a time-boxed wagering round (a Satamatka-style market).
// Per-mode multipliers are stored x100; a zero value means "use the platform
// default for that mode".
type Market struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Name               string       `gorm:"size:255;not null" json:"name"`
	Type               string       `gorm:"size:50;not null;index" json:"type"` // dishawar, gali, faridabad, ...
	CloseTime          time.Time    `gorm:"not null;index" json:"close_time"`
	Status             MarketStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	JodiMultiplier     int64        `gorm:"default:0" json:"jodi_multiplier"`
	HarfMultiplier     int64        `gorm:"default:0" json:"harf_multiplier"`
	CrossingMultiplier int64        `gorm:"default:0" json:"crossing_multiplier"`
	OddEvenMultiplier  int64        `gorm:"default:0" json:"odd_even_multiplier"`
	Result             *string      `gorm:"size:50" json:"result,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	ResultedAt         *time.Time   `json:"resulted_at,omitempty"`
}

// TableName specifies the table name for Market model
func (Market) TableName() string {
	return "markets"
}

// ModeMultiplier returns the market's configured multiplier for a prediction
// mode, or 0 when the market leaves that mode at the platform default.
func (m *Market) ModeMultiplier(mode string) int64 {
	switch mode {
	case "jodi":
		return m.JodiMultiplier
	case "harf":
		return m.HarfMultiplier
	case "crossing":
		return m.CrossingMultiplier
	case "odd_even":
		return m.OddEvenMultiplier
	default:
		return 0
	}
}
