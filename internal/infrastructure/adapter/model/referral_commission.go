package model

import (
	"time"
)

// ReferralCommission represents the database model for settled commissions.
// The composite unique index on (referrer_id, referred_user_id) is the
// idempotency guard for the settlement workflow: two settlements for the same
// pair cannot both insert.
type ReferralCommission struct {
	ID                    uint64 `gorm:"primaryKey"`
	ReferrerID            uint64 `gorm:"not null;uniqueIndex:idx_referrer_referred"`
	ReferredUserID        uint64 `gorm:"not null;uniqueIndex:idx_referrer_referred"`
	PurchaseTransactionID uint64 `gorm:"not null;index"`
	AmountCents           int64  `gorm:"not null"`
	TokenAmount           int64  `gorm:"not null"`
	PricePerTokenCents    int64  `gorm:"not null"`
	Month                 int    `gorm:"not null"`
	Year                  int    `gorm:"not null"`
	IsPaid                bool   `gorm:"not null;default:false"`
	PaidAt                *time.Time
	CreatedAt             time.Time `gorm:"not null"`
}

// TableName specifies the table name for ReferralCommission
func (ReferralCommission) TableName() string {
	return "referral_commissions"
}

// CommissionSettings represents the single-row platform commission settings
type CommissionSettings struct {
	ID                      uint64    `gorm:"primaryKey"`
	ReferralRateBasisPoints int64     `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`
}

// TableName specifies the table name for CommissionSettings
func (CommissionSettings) TableName() string {
	return "commission_settings"
}
