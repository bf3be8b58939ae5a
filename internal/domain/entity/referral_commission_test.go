package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
)

func TestComputeCommission(t *testing.T) {
	t.Run("Default 5% rate", func(t *testing.T) {
		// $1000.00 purchase of 2000.00 tokens at $0.50
		effect := ComputeCommission(100000, 200000, 50, DefaultReferralRateBasisPoints)

		assert.Equal(t, int64(5000), effect.AmountCents)  // exactly $50.00
		assert.Equal(t, int64(10000), effect.TokenAmount) // exactly 100.00 tokens
		assert.Equal(t, int64(50), effect.PricePerTokenCents)
	})

	t.Run("Sub-cent results truncate", func(t *testing.T) {
		// $0.19 at 5% is 0.95 cents, which truncates to zero
		effect := ComputeCommission(19, 0, 100, DefaultReferralRateBasisPoints)
		assert.Zero(t, effect.AmountCents)
	})

	t.Run("Higher-priced token", func(t *testing.T) {
		// $200.00 purchase of 100.00 tokens at $2.00
		effect := ComputeCommission(20000, 10000, 200, DefaultReferralRateBasisPoints)

		assert.Equal(t, int64(1000), effect.AmountCents) // $10.00
		assert.Equal(t, int64(500), effect.TokenAmount)  // 5.00 tokens
		assert.Equal(t, int64(200), effect.PricePerTokenCents)
	})

	t.Run("Custom rate", func(t *testing.T) {
		// 10% of $250.00
		effect := ComputeCommission(25000, 50000, 50, 1000)
		assert.Equal(t, int64(2500), effect.AmountCents)
		assert.Equal(t, int64(5000), effect.TokenAmount)
	})
}

func TestNewReferralCommission(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)
	effect := CommissionEffect{AmountCents: 5000, TokenAmount: 10000, PricePerTokenCents: 50}

	t.Run("Valid commission", func(t *testing.T) {
		commission, err := NewReferralCommission(3, 7, 42, effect, mockTime)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), commission.ReferrerID)
		assert.Equal(t, uint64(7), commission.ReferredUserID)
		assert.Equal(t, uint64(42), commission.PurchaseTransactionID)
		assert.Equal(t, int64(5000), commission.AmountCents)
		assert.Equal(t, 3, commission.Month)
		assert.Equal(t, 2026, commission.Year)
		assert.False(t, commission.IsPaid)
		assert.Nil(t, commission.PaidAt)
		assert.Equal(t, "50.00", commission.FormattedAmount())
	})

	t.Run("Zero IDs rejected", func(t *testing.T) {
		_, err := NewReferralCommission(0, 7, 42, effect, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = NewReferralCommission(3, 0, 42, effect, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("Self-referral rejected", func(t *testing.T) {
		_, err := NewReferralCommission(7, 7, 42, effect, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidReferralCode)
	})
}

func TestReferralCommission_MarkPaid(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	commission := &ReferralCommission{ReferrerID: 3, ReferredUserID: 7}
	commission.MarkPaid(mockTime)

	assert.True(t, commission.IsPaid)
	require.NotNil(t, commission.PaidAt)
	assert.Equal(t, fixedTime, *commission.PaidAt)
}

func TestCommissionSettings_Rate(t *testing.T) {
	t.Run("Nil settings fall back to default", func(t *testing.T) {
		var settings *CommissionSettings
		assert.Equal(t, DefaultReferralRateBasisPoints, settings.Rate())
	})

	t.Run("Zero rate falls back to default", func(t *testing.T) {
		settings := &CommissionSettings{ReferralRateBasisPoints: 0}
		assert.Equal(t, DefaultReferralRateBasisPoints, settings.Rate())
	})

	t.Run("Configured rate wins", func(t *testing.T) {
		settings := &CommissionSettings{ReferralRateBasisPoints: 750}
		assert.Equal(t, int64(750), settings.Rate())
	})
}
