package model

import (
	"time"
)

// WithdrawalRequest represents the database model for token withdrawals
type WithdrawalRequest struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        uint64    `gorm:"not null;index"`
	TransactionID uint64    `gorm:"not null;index"`
	TokenAmount   int64     `gorm:"not null"`
	AmountCents   int64     `gorm:"not null"`
	WalletAddress string    `gorm:"size:255;not null"`
	LockUntil     time.Time `gorm:"not null"`
	Status        string    `gorm:"size:16;not null;index"`
	AdminNotes    string    `gorm:"type:text"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for WithdrawalRequest
func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
