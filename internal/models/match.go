package models

import (
	"time"
)

// Match represents a team-vs-team round with independent odds per side.
// Odds are stored x100 (190 = 1.90x).
type Match struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	TeamA     string       `gorm:"size:255;not null" json:"team_a"`
	TeamB     string       `gorm:"size:255;not null" json:"team_b"`
	OddTeamA  int64        `gorm:"not null;default:190" json:"odd_team_a"`
	OddTeamB  int64        `gorm:"not null;default:190" json:"odd_team_b"`
	CloseTime time.Time    `gorm:"not null;index" json:"close_time"`
	Status    MarketStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	Result    *string      `gorm:"size:50" json:"result,omitempty"` // team_a, team_b
	CreatedAt time.Time    `json:"created_at"`
}

// TableName specifies the table name for Match model
func (Match) TableName() string {
	return "matches"
}
