package mockpersistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// MockSettlementRetryRepository is a testify mock for the
// persistence.SettlementRetryRepository port
type MockSettlementRetryRepository struct {
	mock.Mock
}

func (m *MockSettlementRetryRepository) Enqueue(ctx context.Context, retry *entity.SettlementRetry) error {
	args := m.Called(ctx, retry)
	return args.Error(0)
}

func (m *MockSettlementRetryRepository) ListUnresolved(ctx context.Context, limit int) ([]*entity.SettlementRetry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SettlementRetry), args.Error(1)
}

func (m *MockSettlementRetryRepository) Update(ctx context.Context, retry *entity.SettlementRetry) error {
	args := m.Called(ctx, retry)
	return args.Error(0)
}
