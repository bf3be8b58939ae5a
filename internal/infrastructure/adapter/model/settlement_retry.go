package model

import (
	"time"
)

// SettlementRetry represents the database model for queued settlement replays
type SettlementRetry struct {
	ID                    uint64 `gorm:"primaryKey"`
	PurchaseTransactionID uint64 `gorm:"not null;uniqueIndex"`
	Attempts              int    `gorm:"not null;default:1"`
	LastError             string `gorm:"type:text"`
	ResolvedAt            *time.Time `gorm:"index"`
	CreatedAt             time.Time  `gorm:"not null"`
	UpdatedAt             time.Time  `gorm:"not null"`
}

// TableName specifies the table name for SettlementRetry
func (SettlementRetry) TableName() string {
	return "settlement_retries"
}
