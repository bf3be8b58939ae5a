package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
)

func TestNewWithdrawalRequest(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	t.Run("Valid request", func(t *testing.T) {
		request, err := NewWithdrawalRequest(1, 42, 10000, 5000, " 0xABCDEF ", mockTime)

		require.NoError(t, err)
		assert.Equal(t, WithdrawalPending, request.Status)
		assert.True(t, request.IsPending())
		assert.Equal(t, "0xABCDEF", request.WalletAddress)
		assert.Equal(t, fixedTime.Add(DefaultWithdrawalLockPeriod), request.LockUntil)
		assert.Nil(t, request.ProcessedAt)
	})

	t.Run("Invalid inputs rejected", func(t *testing.T) {
		_, err := NewWithdrawalRequest(0, 42, 10000, 5000, "0xABC", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = NewWithdrawalRequest(1, 42, 0, 5000, "0xABC", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = NewWithdrawalRequest(1, 42, 10000, 5000, "   ", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestWithdrawalRequest_Transitions(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)
	afterLock := mockcore.FrozenTimeProvider(fixedTime.Add(DefaultWithdrawalLockPeriod + time.Hour))

	newPending := func(t *testing.T) *WithdrawalRequest {
		request, err := NewWithdrawalRequest(1, 42, 10000, 5000, "0xABC", mockTime)
		require.NoError(t, err)
		return request
	}

	t.Run("Approve after the lock period", func(t *testing.T) {
		request := newPending(t)

		require.NoError(t, request.Approve(afterLock, "verified"))
		assert.Equal(t, WithdrawalApproved, request.Status)
		assert.Equal(t, "verified", request.AdminNotes)
		assert.NotNil(t, request.ProcessedAt)
	})

	t.Run("Approve inside the lock period", func(t *testing.T) {
		request := newPending(t)

		assert.ErrorIs(t, request.Approve(mockTime, ""), errs.ErrWithdrawalLocked)
		assert.Equal(t, WithdrawalPending, request.Status)
		assert.Nil(t, request.ProcessedAt)
	})

	t.Run("Reject is allowed inside the lock period", func(t *testing.T) {
		request := newPending(t)

		require.NoError(t, request.Reject(mockTime, "suspicious wallet"))
		assert.Equal(t, WithdrawalRejected, request.Status)
	})

	t.Run("Processed requests are terminal", func(t *testing.T) {
		request := newPending(t)
		require.NoError(t, request.Approve(afterLock, ""))

		assert.ErrorIs(t, request.Approve(afterLock, ""), errs.ErrWithdrawalNotPending)
		assert.ErrorIs(t, request.Reject(afterLock, ""), errs.ErrWithdrawalNotPending)
	})
}

func TestSettlementRetry_Lifecycle(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.FrozenTimeProvider(fixedTime)

	retry := NewSettlementRetry(42, "referrer lookup failed", mockTime)
	assert.Equal(t, uint64(42), retry.PurchaseTransactionID)
	assert.Equal(t, 1, retry.Attempts)
	assert.False(t, retry.IsResolved())

	retry.RecordFailure("still failing", mockTime)
	assert.Equal(t, 2, retry.Attempts)
	assert.Equal(t, "still failing", retry.LastError)

	retry.Resolve(mockTime)
	assert.True(t, retry.IsResolved())
	require.NotNil(t, retry.ResolvedAt)
	assert.Equal(t, fixedTime, *retry.ResolvedAt)
}
