package entity

import (
	"time"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// DefaultReferralRateBasisPoints is the commission rate used when no
// settings row has been configured (500 bp = 5%).
const DefaultReferralRateBasisPoints int64 = 500

// ReferralCommission records the one-time commission paid to a referrer when
// the user they invited completes a first purchase. At most one row exists per
// (referrer, referred user) pair; the storage layer enforces this with a
// unique composite index.
type ReferralCommission struct {
	ID                    uint64
	ReferrerID            uint64
	ReferredUserID        uint64
	PurchaseTransactionID uint64
	AmountCents           int64
	TokenAmount           int64
	PricePerTokenCents    int64 // Token price snapshotted at settlement time
	Month                 int
	Year                  int
	IsPaid                bool
	PaidAt                *time.Time
	CreatedAt             time.Time
}

// CommissionEffect is the computed outcome of applying the referral rate to a
// confirmed first purchase. It is pure data; persisting it is the settlement
// engine's job.
type CommissionEffect struct {
	AmountCents        int64
	TokenAmount        int64
	PricePerTokenCents int64
}

// ComputeCommission applies a basis-point rate to a purchase using exact
// integer arithmetic. A $1000.00 purchase at 500 bp yields exactly $50.00.
func ComputeCommission(purchaseAmountCents, purchaseTokenAmount, pricePerTokenCents, rateBasisPoints int64) CommissionEffect {
	return CommissionEffect{
		AmountCents:        ApplyRate(purchaseAmountCents, rateBasisPoints),
		TokenAmount:        ApplyRate(purchaseTokenAmount, rateBasisPoints),
		PricePerTokenCents: pricePerTokenCents,
	}
}

// NewReferralCommission builds the commission row for a settled first purchase
func NewReferralCommission(
	referrerID, referredUserID, purchaseTxID uint64,
	effect CommissionEffect,
	timeProvider coreport.TimeProvider,
) (*ReferralCommission, error) {
	if referrerID == 0 || referredUserID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if referrerID == referredUserID {
		return nil, errs.ErrInvalidReferralCode
	}

	now := timeProvider.Now()
	return &ReferralCommission{
		ReferrerID:            referrerID,
		ReferredUserID:        referredUserID,
		PurchaseTransactionID: purchaseTxID,
		AmountCents:           effect.AmountCents,
		TokenAmount:           effect.TokenAmount,
		PricePerTokenCents:    effect.PricePerTokenCents,
		Month:                 int(now.Month()),
		Year:                  now.Year(),
		CreatedAt:             now,
	}, nil
}

// MarkPaid flags the commission as paid out
func (c *ReferralCommission) MarkPaid(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	c.IsPaid = true
	c.PaidAt = &now
}

// FormattedAmount returns the commission fiat amount as a 2-decimal string
func (c *ReferralCommission) FormattedAmount() string {
	return FormatAmount(c.AmountCents)
}

// CommissionSettings holds the platform-wide referral configuration.
// A single row is kept; all settlement paths read the rate from here.
type CommissionSettings struct {
	ID                      uint64
	ReferralRateBasisPoints int64
	UpdatedAt               time.Time
}

// Rate returns the configured rate, falling back to the default when the
// stored value is unusable.
func (s *CommissionSettings) Rate() int64 {
	if s == nil || s.ReferralRateBasisPoints <= 0 {
		return DefaultReferralRateBasisPoints
	}
	return s.ReferralRateBasisPoints
}
