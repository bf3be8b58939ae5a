package model

import (
	"time"
)

// User represents the database model for platform accounts
type User struct {
	ID            uint64  `gorm:"primaryKey"`
	Email         string  `gorm:"size:255;not null;uniqueIndex"`
	Name          string  `gorm:"size:255;not null"`
	PasswordHash  string  `gorm:"size:255;not null"`
	Role          string  `gorm:"size:32;not null;default:user"`
	WalletAddress string  `gorm:"size:255"`
	ReferralCode  string  `gorm:"size:16;not null;uniqueIndex"`
	ReferredBy    *string `gorm:"size:16;index"`

	TotalTokens     int64 `gorm:"not null;default:0"` // Token hundredths
	AvailableTokens int64 `gorm:"not null;default:0"`
	StakedTokens    int64 `gorm:"not null;default:0"`

	UsdtBalance      int64 `gorm:"not null;default:0"` // Cents
	ReferralEarnings int64 `gorm:"not null;default:0"`
	TotalEarnings    int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
