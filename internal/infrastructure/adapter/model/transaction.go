package model

import (
	"time"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID                 uint64 `gorm:"primaryKey"`
	UserID             uint64 `gorm:"not null;index"`
	Reference          string `gorm:"size:64;not null;uniqueIndex"`
	Type               string `gorm:"size:32;not null;index"`
	AmountCents        int64  `gorm:"not null"`
	TokenAmount        int64  `gorm:"not null"`
	PricePerTokenCents int64  `gorm:"not null"`
	Status             string `gorm:"size:16;not null;index"`
	TxHash             string `gorm:"size:128"`
	FromWallet         string `gorm:"size:255"`
	AdminNotes         string `gorm:"type:text"`
	CreatedAt          time.Time `gorm:"not null;index"`
	ProcessedAt        *time.Time
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
