package user

import (
	"context"
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

type userFixture struct {
	service       *Service
	users         *mockpersistence.MockUserRepository
	transactions  *mockpersistence.MockTransactionRepository
	commissions   *mockpersistence.MockCommissionRepository
	notifications *mockpersistence.MockNotificationRepository
	hasher        *mockcore.MockPasswordHasher
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	fixture := &userFixture{
		users:         new(mockpersistence.MockUserRepository),
		transactions:  new(mockpersistence.MockTransactionRepository),
		commissions:   new(mockpersistence.MockCommissionRepository),
		notifications: new(mockpersistence.MockNotificationRepository),
		hasher:        new(mockcore.MockPasswordHasher),
	}

	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	fixture.service = NewService(
		fixture.users,
		fixture.transactions,
		fixture.commissions,
		fixture.notifications,
		fixture.hasher,
		mockcore.FrozenTimeProvider(fixedTime),
		mockcore.RelaxedLogger(),
	)
	return fixture
}

func TestService_Register(t *testing.T) {
	input := RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	}

	t.Run("Organic signup", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.hasher.On("Hash", input.Password).Return("$2a$hash", nil)

		var created *entity.User
		fixture.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*entity.User)
			}).Return(nil)

		account, err := fixture.service.Register(context.Background(), input)
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Same(t, created, account)
		assert.Equal(t, "alice@example.com", account.Email)
		assert.Equal(t, "$2a$hash", account.PasswordHash)
		assert.Equal(t, entity.RoleUser, account.Role)
		assert.Len(t, account.ReferralCode, 8)
		assert.False(t, account.WasReferred())

		fixture.users.AssertNotCalled(t, "GetByReferralCode", mock.Anything, mock.Anything)
	})

	t.Run("Referred signup records the inviter's code", func(t *testing.T) {
		fixture := newUserFixture(t)
		inviter := &entity.User{ID: 3, ReferralCode: "INVITER1"}

		fixture.users.On("GetByReferralCode", mock.Anything, "INVITER1").Return(inviter, nil)
		fixture.hasher.On("Hash", input.Password).Return("$2a$hash", nil)
		fixture.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

		referred := input
		referred.ReferralCode = " INVITER1 "

		account, err := fixture.service.Register(context.Background(), referred)
		require.NoError(t, err)

		assert.True(t, account.WasReferred())
		require.NotNil(t, account.ReferredBy)
		assert.Equal(t, "INVITER1", *account.ReferredBy)
	})

	t.Run("Unknown referral code", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.users.On("GetByReferralCode", mock.Anything, "NOBODY99").Return(nil, errs.ErrUserNotFound)

		referred := input
		referred.ReferralCode = "NOBODY99"

		_, err := fixture.service.Register(context.Background(), referred)
		assert.ErrorIs(t, err, errs.ErrInvalidReferralCode)
		fixture.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Password too short", func(t *testing.T) {
		fixture := newUserFixture(t)

		short := input
		short.Password = "hunter2"

		_, err := fixture.service.Register(context.Background(), short)
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
		fixture.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.hasher.On("Hash", input.Password).Return("$2a$hash", nil)
		fixture.users.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDuplicateUser)

		_, err := fixture.service.Register(context.Background(), input)
		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
	})
}

func TestService_Authenticate(t *testing.T) {
	account := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "$2a$hash"}

	t.Run("Valid credentials", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.users.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)
		fixture.hasher.On("Compare", account.PasswordHash, "correct horse").Return(true)

		result, err := fixture.service.Authenticate(context.Background(), account.Email, "correct horse")
		require.NoError(t, err)
		assert.Same(t, account, result)
	})

	t.Run("Wrong password", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.users.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)
		fixture.hasher.On("Compare", account.PasswordHash, "wrong").Return(false)

		_, err := fixture.service.Authenticate(context.Background(), account.Email, "wrong")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("Unknown email reads the same as a wrong password", func(t *testing.T) {
		fixture := newUserFixture(t)

		fixture.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, errs.ErrUserNotFound)

		_, err := fixture.service.Authenticate(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestService_GetDashboard(t *testing.T) {
	fixture := newUserFixture(t)
	account := &entity.User{ID: 7, Email: "alice@example.com"}
	history := []*entity.Transaction{{ID: 42, UserID: 7}}

	fixture.users.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	fixture.transactions.On("ListByUser", mock.Anything, account.ID, recentTransactionLimit).Return(history, nil)

	dashboard, err := fixture.service.GetDashboard(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Same(t, account, dashboard.User)
	assert.Equal(t, history, dashboard.RecentTransactions)
}

func TestService_GetReferralOverview(t *testing.T) {
	fixture := newUserFixture(t)
	account := &entity.User{ID: 3, ReferralCode: "INVITER1"}
	invited := []*entity.User{{ID: 7}, {ID: 8}}
	earned := []*entity.ReferralCommission{{ID: 1, ReferrerID: 3, ReferredUserID: 7}}

	fixture.users.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	fixture.users.On("ListReferredBy", mock.Anything, "INVITER1").Return(invited, nil)
	fixture.commissions.On("ListByReferrer", mock.Anything, account.ID).Return(earned, nil)

	overview, err := fixture.service.GetReferralOverview(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "INVITER1", overview.ReferralCode)
	assert.Equal(t, invited, overview.ReferredUsers)
	assert.Equal(t, earned, overview.Commissions)
}

func TestService_MarkNotificationRead(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Marks an unread notification", func(t *testing.T) {
		fixture := newUserFixture(t)
		notification := &entity.Notification{ID: 5, UserID: 7}

		fixture.notifications.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)
		fixture.notifications.On("Update", mock.Anything, notification).Return(nil)

		err := fixture.service.MarkNotificationRead(context.Background(), 7, notification.ID)
		require.NoError(t, err)
		assert.True(t, notification.IsRead)
	})

	t.Run("Already read is a no-op", func(t *testing.T) {
		fixture := newUserFixture(t)
		notification := &entity.Notification{ID: 5, UserID: 7, IsRead: true, CreatedAt: fixedTime}

		fixture.notifications.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)

		err := fixture.service.MarkNotificationRead(context.Background(), 7, notification.ID)
		require.NoError(t, err)
		fixture.notifications.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Another user's notification is not found", func(t *testing.T) {
		fixture := newUserFixture(t)
		notification := &entity.Notification{ID: 5, UserID: 99}

		fixture.notifications.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)

		err := fixture.service.MarkNotificationRead(context.Background(), 7, notification.ID)
		assert.ErrorIs(t, err, errs.ErrNotificationNotFound)
		fixture.notifications.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
