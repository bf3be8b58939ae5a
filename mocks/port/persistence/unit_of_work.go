package mockpersistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
)

// MockUnitOfWork is a testify mock for the persistence.UnitOfWork port
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.UserRepository)
}

func (m *MockUnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TransactionRepository)
}

func (m *MockUnitOfWork) GetCommissionRepository(ctx context.Context) persistence.CommissionRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.CommissionRepository)
}

func (m *MockUnitOfWork) GetSettingsRepository(ctx context.Context) persistence.SettingsRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.SettingsRepository)
}

func (m *MockUnitOfWork) GetWithdrawalRepository(ctx context.Context) persistence.WithdrawalRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.WithdrawalRepository)
}

func (m *MockUnitOfWork) GetNotificationRepository(ctx context.Context) persistence.NotificationRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.NotificationRepository)
}

// PassthroughUnitOfWork wires a unit of work whose Begin/Commit/Rollback are
// no-ops and whose repository getters return the given mocks. Settlement and
// purchase tests use it to observe repository calls without a database.
type PassthroughUnitOfWork struct {
	Users         persistence.UserRepository
	Transactions  persistence.TransactionRepository
	Commissions   persistence.CommissionRepository
	Settings      persistence.SettingsRepository
	Withdrawals   persistence.WithdrawalRepository
	Notifications persistence.NotificationRepository

	Begun      int
	Committed  int
	RolledBack int

	// BeginErr makes Begin fail when set
	BeginErr error
	// CommitErr makes Commit fail when set
	CommitErr error
}

func (u *PassthroughUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.BeginErr != nil {
		return nil, u.BeginErr
	}
	u.Begun++
	return ctx, nil
}

func (u *PassthroughUnitOfWork) Commit(ctx context.Context) error {
	if u.CommitErr != nil {
		return u.CommitErr
	}
	u.Committed++
	return nil
}

func (u *PassthroughUnitOfWork) Rollback(ctx context.Context) error {
	u.RolledBack++
	return nil
}

func (u *PassthroughUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return u.Users
}

func (u *PassthroughUnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return u.Transactions
}

func (u *PassthroughUnitOfWork) GetCommissionRepository(ctx context.Context) persistence.CommissionRepository {
	return u.Commissions
}

func (u *PassthroughUnitOfWork) GetSettingsRepository(ctx context.Context) persistence.SettingsRepository {
	return u.Settings
}

func (u *PassthroughUnitOfWork) GetWithdrawalRepository(ctx context.Context) persistence.WithdrawalRepository {
	return u.Withdrawals
}

func (u *PassthroughUnitOfWork) GetNotificationRepository(ctx context.Context) persistence.NotificationRepository {
	return u.Notifications
}
