package model

import (
	"time"
)

// TokenPrice represents the database model for per-day token prices
type TokenPrice struct {
	ID            uint64    `gorm:"primaryKey"`
	PriceCents    int64     `gorm:"not null"`
	EffectiveDate time.Time `gorm:"not null;uniqueIndex"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for TokenPrice
func (TokenPrice) TableName() string {
	return "token_prices"
}
