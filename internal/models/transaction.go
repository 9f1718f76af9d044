package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBetPlaced  TransactionType = "bet_placed"
	TransactionTypeBetWon     TransactionType = "bet_won"
	TransactionTypeBetRefund  TransactionType = "bet_refund"
)

// Transaction is a ledger entry for a balance movement. Amount is signed
// integer minor units: negative for debits, positive for credits.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Reference    uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"reference"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WagerID      *uint           `gorm:"index" json:"wager_id,omitempty"`
	Type         TransactionType `gorm:"size:50;not null;index" json:"type"`
	Amount       int64           `gorm:"not null" json:"amount"`
	BalanceAfter int64           `gorm:"not null" json:"balance_after"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
