package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser("Alice@Example.com", "  Alice  ", "hashed", "ABCD1234", nil, mockTime)

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, RoleUser, user.Role)
		assert.Equal(t, "ABCD1234", user.ReferralCode)
		assert.Nil(t, user.ReferredBy)
		assert.False(t, user.WasReferred())
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.Zero(t, user.TotalTokens)
		assert.Zero(t, user.UsdtBalance)
	})

	t.Run("Referred signup", func(t *testing.T) {
		inviterCode := "INVITER1"
		user, err := NewUser("bob@example.com", "Bob", "hashed", "BOBCODE1", &inviterCode, mockTime)

		require.NoError(t, err)
		assert.True(t, user.WasReferred())
		assert.Equal(t, "INVITER1", *user.ReferredBy)
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		for _, email := range []string{"", "   ", "not-an-email"} {
			user, err := NewUser(email, "Name", "hashed", "CODE1234", nil, mockTime)
			assert.ErrorIs(t, err, errs.ErrInvalidEmail)
			assert.Nil(t, user)
		}
	})

	t.Run("Empty referral code rejected", func(t *testing.T) {
		user, err := NewUser("carol@example.com", "Carol", "hashed", "", nil, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidReferralCode)
		assert.Nil(t, user)
	})
}

func TestUser_IsAdmin(t *testing.T) {
	user := &User{Role: RoleUser}
	assert.False(t, user.IsAdmin())

	user.Role = RoleAdmin
	assert.True(t, user.IsAdmin())
}

func TestUser_TokenOperations(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	t.Run("CreditTokens raises total and available", func(t *testing.T) {
		user := &User{}
		user.CreditTokens(20000, mockTime)

		assert.Equal(t, int64(20000), user.TotalTokens)
		assert.Equal(t, int64(20000), user.AvailableTokens)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("LockTokens moves tokens out of the available pool", func(t *testing.T) {
		user := &User{TotalTokens: 10000, AvailableTokens: 10000}

		require.NoError(t, user.LockTokens(4000, mockTime))
		assert.Equal(t, int64(6000), user.AvailableTokens)
		assert.Equal(t, int64(10000), user.TotalTokens)
	})

	t.Run("LockTokens rejects over-locking", func(t *testing.T) {
		user := &User{TotalTokens: 10000, AvailableTokens: 1000}

		err := user.LockTokens(4000, mockTime)
		assert.ErrorIs(t, err, errs.ErrInsufficientTokens)
		assert.Equal(t, int64(1000), user.AvailableTokens)
	})

	t.Run("UnlockTokens restores the available pool", func(t *testing.T) {
		user := &User{TotalTokens: 10000, AvailableTokens: 6000}
		user.UnlockTokens(4000, mockTime)

		assert.Equal(t, int64(10000), user.AvailableTokens)
	})

	t.Run("FinalizeWithdrawal burns locked tokens from the total", func(t *testing.T) {
		user := &User{TotalTokens: 10000, AvailableTokens: 6000}
		user.FinalizeWithdrawal(4000, mockTime)

		assert.Equal(t, int64(6000), user.TotalTokens)
		assert.Equal(t, int64(6000), user.AvailableTokens)
	})
}

func TestUser_UsdtOperations(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	t.Run("Credit and debit", func(t *testing.T) {
		user := &User{}
		user.CreditUsdt(10000, mockTime)
		assert.Equal(t, int64(10000), user.UsdtBalance)
		assert.Equal(t, "100.00", user.FormattedUsdtBalance())

		require.NoError(t, user.DebitUsdt(2500, mockTime))
		assert.Equal(t, int64(7500), user.UsdtBalance)
	})

	t.Run("Debit beyond balance rejected", func(t *testing.T) {
		user := &User{UsdtBalance: 100}

		err := user.DebitUsdt(200, mockTime)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(100), user.UsdtBalance)
	})

	t.Run("Exact debit empties balance", func(t *testing.T) {
		user := &User{UsdtBalance: 500}

		require.NoError(t, user.DebitUsdt(500, mockTime))
		assert.Zero(t, user.UsdtBalance)
	})
}

func TestUser_CreditCommission(t *testing.T) {
	fixedTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	user := &User{UsdtBalance: 1000}
	user.CreditCommission(5000, mockTime)

	// Commission lands in all three places: referral earnings, lifetime
	// earnings and the spendable balance
	assert.Equal(t, int64(5000), user.ReferralEarnings)
	assert.Equal(t, int64(5000), user.TotalEarnings)
	assert.Equal(t, int64(6000), user.UsdtBalance)
	assert.Equal(t, "50.00", user.FormattedReferralEarnings())
}
