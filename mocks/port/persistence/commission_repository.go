package mockpersistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// MockCommissionRepository is a testify mock for the
// persistence.CommissionRepository port
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Create(ctx context.Context, commission *entity.ReferralCommission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *MockCommissionRepository) ExistsForPair(ctx context.Context, referrerID, referredUserID uint64) (bool, error) {
	args := m.Called(ctx, referrerID, referredUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionRepository) GetByID(ctx context.Context, id uint64) (*entity.ReferralCommission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReferralCommission), args.Error(1)
}

func (m *MockCommissionRepository) Update(ctx context.Context, commission *entity.ReferralCommission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *MockCommissionRepository) ListByReferrer(ctx context.Context, referrerID uint64) ([]*entity.ReferralCommission, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ReferralCommission), args.Error(1)
}

func (m *MockCommissionRepository) ListAll(ctx context.Context, limit int) ([]*entity.ReferralCommission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ReferralCommission), args.Error(1)
}

// MockSettingsRepository is a testify mock for the
// persistence.SettingsRepository port
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetCommissionSettings(ctx context.Context) (*entity.CommissionSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommissionSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveCommissionSettings(ctx context.Context, settings *entity.CommissionSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
