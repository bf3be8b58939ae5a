package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
	mockpersistence "github.com/ditlabs/tokensale-crm/mocks/port/persistence"
)

// engineFixture wires a settlement engine against in-memory mocks
type engineFixture struct {
	engine        *Engine
	uow           *mockpersistence.PassthroughUnitOfWork
	users         *mockpersistence.MockUserRepository
	transactions  *mockpersistence.MockTransactionRepository
	commissions   *mockpersistence.MockCommissionRepository
	settings      *mockpersistence.MockSettingsRepository
	notifications *mockpersistence.MockNotificationRepository
	retries       *mockpersistence.MockSettlementRetryRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	fixture := &engineFixture{
		users:         new(mockpersistence.MockUserRepository),
		transactions:  new(mockpersistence.MockTransactionRepository),
		commissions:   new(mockpersistence.MockCommissionRepository),
		settings:      new(mockpersistence.MockSettingsRepository),
		notifications: new(mockpersistence.MockNotificationRepository),
		retries:       new(mockpersistence.MockSettlementRetryRepository),
	}
	fixture.uow = &mockpersistence.PassthroughUnitOfWork{
		Users:         fixture.users,
		Transactions:  fixture.transactions,
		Commissions:   fixture.commissions,
		Settings:      fixture.settings,
		Notifications: fixture.notifications,
	}

	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	fixture.engine = NewEngine(
		fixture.uow,
		fixture.retries,
		mockcore.FrozenTimeProvider(fixedTime),
		mockcore.RelaxedLogger(),
	)
	return fixture
}

// completedPurchase builds the confirmed first purchase used across tests:
// $1000.00 buying 2000.00 tokens at $0.50
func completedPurchase(userID uint64) *entity.Transaction {
	return &entity.Transaction{
		ID:                 42,
		UserID:             userID,
		Reference:          "PUR-test",
		Type:               entity.TypePurchase,
		AmountCents:        100000,
		TokenAmount:        200000,
		PricePerTokenCents: 50,
		Status:             entity.StatusCompleted,
	}
}

func referredBuyer() *entity.User {
	inviterCode := "INVITER1"
	return &entity.User{
		ID:         7,
		Email:      "buyer@example.com",
		Name:       "Buyer",
		ReferredBy: &inviterCode,
	}
}

func referrer() *entity.User {
	return &entity.User{
		ID:           3,
		Email:        "referrer@example.com",
		Name:         "Referrer",
		ReferralCode: "INVITER1",
		UsdtBalance:  1000,
	}
}

func TestEngine_Settle_FirstPurchaseCreditsReferrer(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := referredBuyer()
	inviter := referrer()
	purchase := completedPurchase(buyer.ID)

	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
	fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
	fixture.transactions.On("CountCompletedPurchases", mock.Anything, buyer.ID).Return(int64(1), nil)
	fixture.commissions.On("ExistsForPair", mock.Anything, inviter.ID, buyer.ID).Return(false, nil)
	fixture.settings.On("GetCommissionSettings", mock.Anything).Return(nil, nil)

	var createdCommission *entity.ReferralCommission
	fixture.commissions.On("Create", mock.Anything, mock.AnythingOfType("*entity.ReferralCommission")).
		Run(func(args mock.Arguments) {
			createdCommission = args.Get(1).(*entity.ReferralCommission)
		}).Return(nil)
	fixture.users.On("Update", mock.Anything, inviter).Return(nil)
	fixture.notifications.On("Create", mock.Anything, mock.AnythingOfType("*entity.Notification")).Return(nil)

	err := fixture.engine.Settle(context.Background(), purchase)
	require.NoError(t, err)

	// Exactly 5% of the purchase, in both fiat and tokens
	require.NotNil(t, createdCommission)
	assert.Equal(t, int64(5000), createdCommission.AmountCents)
	assert.Equal(t, int64(10000), createdCommission.TokenAmount)
	assert.Equal(t, inviter.ID, createdCommission.ReferrerID)
	assert.Equal(t, buyer.ID, createdCommission.ReferredUserID)
	assert.Equal(t, purchase.ID, createdCommission.PurchaseTransactionID)

	// The referrer's earnings and spendable balance both grew
	assert.Equal(t, int64(5000), inviter.ReferralEarnings)
	assert.Equal(t, int64(5000), inviter.TotalEarnings)
	assert.Equal(t, int64(6000), inviter.UsdtBalance)

	// One transaction, committed
	assert.Equal(t, 1, fixture.uow.Begun)
	assert.Equal(t, 1, fixture.uow.Committed)
	assert.Zero(t, fixture.uow.RolledBack)

	fixture.commissions.AssertExpectations(t)
	fixture.users.AssertExpectations(t)
	fixture.notifications.AssertExpectations(t)
}

func TestEngine_Settle_ConfiguredRateOverridesDefault(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := referredBuyer()
	inviter := referrer()

	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
	fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
	fixture.transactions.On("CountCompletedPurchases", mock.Anything, buyer.ID).Return(int64(1), nil)
	fixture.commissions.On("ExistsForPair", mock.Anything, inviter.ID, buyer.ID).Return(false, nil)
	fixture.settings.On("GetCommissionSettings", mock.Anything).
		Return(&entity.CommissionSettings{ReferralRateBasisPoints: 1000}, nil)

	var createdCommission *entity.ReferralCommission
	fixture.commissions.On("Create", mock.Anything, mock.AnythingOfType("*entity.ReferralCommission")).
		Run(func(args mock.Arguments) {
			createdCommission = args.Get(1).(*entity.ReferralCommission)
		}).Return(nil)
	fixture.users.On("Update", mock.Anything, inviter).Return(nil)
	fixture.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
	require.NoError(t, err)

	// 10% instead of the 5% default
	require.NotNil(t, createdCommission)
	assert.Equal(t, int64(10000), createdCommission.AmountCents)
}

func TestEngine_Settle_NoOpPreconditions(t *testing.T) {
	t.Run("Buyer was not referred", func(t *testing.T) {
		fixture := newEngineFixture(t)
		buyer := &entity.User{ID: 7, Name: "Organic"}

		fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)

		err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
		require.NoError(t, err)

		// Nothing written, transaction released without commit
		assert.Zero(t, fixture.uow.Committed)
		assert.Equal(t, 1, fixture.uow.RolledBack)
		fixture.commissions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Referral code has no owner", func(t *testing.T) {
		fixture := newEngineFixture(t)
		buyer := referredBuyer()

		fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
		fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(nil, errs.ErrUserNotFound)

		err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
		require.NoError(t, err)
		assert.Zero(t, fixture.uow.Committed)
	})

	t.Run("Not the first completed purchase", func(t *testing.T) {
		fixture := newEngineFixture(t)
		buyer := referredBuyer()
		inviter := referrer()

		fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
		fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
		fixture.transactions.On("CountCompletedPurchases", mock.Anything, buyer.ID).Return(int64(2), nil)

		err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
		require.NoError(t, err)
		assert.Zero(t, fixture.uow.Committed)
		fixture.commissions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Commission already exists for the pair", func(t *testing.T) {
		fixture := newEngineFixture(t)
		buyer := referredBuyer()
		inviter := referrer()

		fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
		fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
		fixture.transactions.On("CountCompletedPurchases", mock.Anything, buyer.ID).Return(int64(1), nil)
		fixture.commissions.On("ExistsForPair", mock.Anything, inviter.ID, buyer.ID).Return(true, nil)

		err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
		require.NoError(t, err)
		assert.Zero(t, fixture.uow.Committed)
		fixture.commissions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestEngine_Settle_DuplicateInsertRaceIsNoOp(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := referredBuyer()
	inviter := referrer()

	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
	fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
	fixture.transactions.On("CountCompletedPurchases", mock.Anything, buyer.ID).Return(int64(1), nil)
	fixture.commissions.On("ExistsForPair", mock.Anything, inviter.ID, buyer.ID).Return(false, nil)
	fixture.settings.On("GetCommissionSettings", mock.Anything).Return(nil, nil)

	// A concurrent settlement won the unique-index race
	fixture.commissions.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDuplicateCommission)

	err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
	require.NoError(t, err)

	// The referrer was never credited
	assert.Zero(t, inviter.ReferralEarnings)
	fixture.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Zero(t, fixture.uow.Committed)
}

func TestEngine_Settle_RejectsNonSettleableInput(t *testing.T) {
	fixture := newEngineFixture(t)

	t.Run("Nil purchase", func(t *testing.T) {
		err := fixture.engine.Settle(context.Background(), nil)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Pending purchase", func(t *testing.T) {
		purchase := completedPurchase(7)
		purchase.Status = entity.StatusPending
		err := fixture.engine.Settle(context.Background(), purchase)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Non-purchase transaction", func(t *testing.T) {
		withdrawal := completedPurchase(7)
		withdrawal.Type = entity.TypeWithdrawal
		err := fixture.engine.Settle(context.Background(), withdrawal)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	// No transaction was ever opened for invalid input
	assert.Zero(t, fixture.uow.Begun)
}

func TestEngine_Settle_FailureRollsBackSettlementOnly(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := referredBuyer()

	dbErr := errors.New("connection reset")
	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(nil, dbErr)

	err := fixture.engine.Settle(context.Background(), completedPurchase(buyer.ID))
	require.Error(t, err)

	var settlementErr *errs.SettlementError
	require.ErrorAs(t, err, &settlementErr)
	assert.Equal(t, uint64(42), settlementErr.PurchaseTransactionID)

	assert.Equal(t, 1, fixture.uow.RolledBack)
	assert.Zero(t, fixture.uow.Committed)
}

func TestEngine_SettleBestEffort_QueuesRetryOnFailure(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := referredBuyer()
	purchase := completedPurchase(buyer.ID)

	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(nil, errors.New("connection reset"))

	var queued *entity.SettlementRetry
	fixture.retries.On("Enqueue", mock.Anything, mock.AnythingOfType("*entity.SettlementRetry")).
		Run(func(args mock.Arguments) {
			queued = args.Get(1).(*entity.SettlementRetry)
		}).Return(nil)

	fixture.engine.SettleBestEffort(context.Background(), purchase)

	require.NotNil(t, queued)
	assert.Equal(t, purchase.ID, queued.PurchaseTransactionID)
	assert.Equal(t, 1, queued.Attempts)
	fixture.retries.AssertExpectations(t)
}

func TestEngine_SettleBestEffort_NoQueueOnSuccess(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := &entity.User{ID: 7, Name: "Organic"}

	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)

	fixture.engine.SettleBestEffort(context.Background(), completedPurchase(buyer.ID))

	fixture.retries.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
